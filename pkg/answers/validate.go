package answers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/CodeSapiens-in/formengine/pkg/schema"
)

const dateLayout = "2006-01-02"

var validate = validator.New()

// ValidateAgainst checks the stored values against a form. Violations follow
// question order: every required question with an absent, empty-string, or
// empty-list value fails, and non-empty values are checked against the
// question type's format. Values keyed by unknown question ids are ignored.
func (s *Store) ValidateAgainst(form schema.Form) []schema.Violation {
	var violations []schema.Violation
	for _, q := range form.Questions {
		value := s.values[q.ID]
		if value.Empty() {
			if q.Required {
				violations = append(violations, schema.Violation{QuestionID: q.ID, Message: "answer is required"})
			}
			continue
		}
		if v := checkValue(q, value); v != nil {
			violations = append(violations, *v)
		}
	}
	return violations
}

func checkValue(q schema.Question, value schema.Value) *schema.Violation {
	if q.Type.Multi() {
		if value.Kind() != schema.KindList {
			return violation(q, "expected a list of selections")
		}
		for _, item := range value.List() {
			if !containsOption(q.Options, item) {
				return violation(q, fmt.Sprintf("selection %q is not one of the options", item))
			}
		}
		return nil
	}

	if value.Kind() != schema.KindText {
		return violation(q, "expected a single value")
	}
	text := value.Text()

	switch q.Type {
	case schema.TypeEmail:
		if err := validate.Var(text, "email"); err != nil {
			return violation(q, "not a valid email address")
		}
	case schema.TypeURL:
		if err := validate.Var(text, "url"); err != nil {
			return violation(q, "not a valid URL")
		}
	case schema.TypeNumber:
		if _, err := strconv.ParseFloat(text, 64); err != nil {
			return violation(q, "not a number")
		}
	case schema.TypeDate:
		if _, err := time.Parse(dateLayout, text); err != nil {
			return violation(q, "not a date (YYYY-MM-DD)")
		}
	case schema.TypeBoolean:
		if text != "true" && text != "false" {
			return violation(q, `expected "true" or "false"`)
		}
	case schema.TypeSingleChoice, schema.TypeDropdown:
		if !containsOption(q.Options, text) {
			return violation(q, fmt.Sprintf("selection %q is not one of the options", text))
		}
	}
	return nil
}

func violation(q schema.Question, msg string) *schema.Violation {
	return &schema.Violation{QuestionID: q.ID, Message: msg}
}

func containsOption(options []string, candidate string) bool {
	for _, opt := range options {
		if opt == candidate {
			return true
		}
	}
	return false
}
