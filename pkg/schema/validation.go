package schema

import (
	"fmt"
	"strings"
)

// Violation describes a single constraint failure tied to a question. A blank
// QuestionID marks a form-level violation.
type Violation struct {
	QuestionID string
	Message    string
}

func (v Violation) String() string {
	if v.QuestionID == "" {
		return v.Message
	}
	return fmt.Sprintf("%s: %s", v.QuestionID, v.Message)
}

// SchemaError carries the ordered violation list produced by validation. It
// blocks persistence; callers surface the violations inline and retry after
// the author edits.
type SchemaError struct {
	Violations []Violation
}

func (e *SchemaError) Error() string {
	if e == nil || len(e.Violations) == 0 {
		return "schema: invalid"
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}
	return "schema: " + strings.Join(parts, "; ")
}

// ValidateQuestion checks a single question's invariants: a non-empty label,
// a supported type, and an options list present exactly when the type uses
// one. Returns a *SchemaError listing every violation, or nil.
func ValidateQuestion(q Question) error {
	violations := questionViolations(q)
	if len(violations) == 0 {
		return nil
	}
	return &SchemaError{Violations: violations}
}

// ValidateForm checks every question plus the form-level invariants: at least
// one question and no duplicate question ids. Violations keep question order.
// No side effects; the builder calls this before persisting and the renderer
// calls it defensively before display.
func ValidateForm(f Form) error {
	var violations []Violation
	if len(f.Questions) == 0 {
		violations = append(violations, Violation{Message: "form must have at least one question"})
	}

	seen := make(map[string]struct{}, len(f.Questions))
	for _, q := range f.Questions {
		violations = append(violations, questionViolations(q)...)
		if q.ID == "" {
			violations = append(violations, Violation{Message: "question id is required"})
			continue
		}
		if _, dup := seen[q.ID]; dup {
			violations = append(violations, Violation{QuestionID: q.ID, Message: "duplicate question id"})
			continue
		}
		seen[q.ID] = struct{}{}
	}

	if len(violations) == 0 {
		return nil
	}
	return &SchemaError{Violations: violations}
}

func questionViolations(q Question) []Violation {
	var out []Violation
	if !q.Type.Valid() {
		out = append(out, Violation{QuestionID: q.ID, Message: fmt.Sprintf("unsupported question type %q", q.Type)})
	}
	if strings.TrimSpace(q.Label) == "" {
		out = append(out, Violation{QuestionID: q.ID, Message: "label is required"})
	}
	if q.Type.UsesOptions() {
		if len(q.Options) == 0 {
			out = append(out, Violation{QuestionID: q.ID, Message: "choice question requires at least one option"})
		}
		for _, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				out = append(out, Violation{QuestionID: q.ID, Message: "option text is required"})
				break
			}
		}
	} else if len(q.Options) > 0 {
		out = append(out, Violation{QuestionID: q.ID, Message: fmt.Sprintf("type %q does not take options", q.Type)})
	}
	return out
}
