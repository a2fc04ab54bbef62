package render

import (
	"strings"

	"github.com/CodeSapiens-in/formengine/pkg/schema"
)

// ErrorMapping splits violation messages into per-question and form-level
// buckets keyed by question id, ready for inline display.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MapViolations normalizes a violation list into an ErrorMapping. Messages
// are trimmed and deduplicated while preserving order; violations whose
// question id is not present in the form are kept as form-level messages so
// nothing is lost.
func MapViolations(form schema.Form, violations []schema.Violation) ErrorMapping {
	mapping := ErrorMapping{}
	if len(violations) == 0 {
		return mapping
	}

	known := make(map[string]struct{}, len(form.Questions))
	for _, q := range form.Questions {
		known[q.ID] = struct{}{}
	}

	fields := make(map[string][]string)
	for _, v := range violations {
		if _, ok := known[v.QuestionID]; !ok || v.QuestionID == "" {
			mapping.Form = append(mapping.Form, v.Message)
			continue
		}
		fields[v.QuestionID] = append(fields[v.QuestionID], v.Message)
	}

	for id, messages := range fields {
		fields[id] = normalizeMessages(messages)
	}
	if len(fields) > 0 {
		mapping.Fields = fields
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

// MergeFormErrors concatenates and normalizes form-level error slices.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
