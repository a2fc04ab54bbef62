// Package openapi imports an OpenAPI operation's request body as a form
// draft: one question per body property, typed from the property schema.
// Authors use it to bootstrap a form from an existing API instead of building
// it question by question.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/CodeSapiens-in/formengine/pkg/schema"
)

// ErrOperationNotFound reports that the document has no operation with the
// requested operationId.
var ErrOperationNotFound = errors.New("openapi: operation not found")

// ImportForm loads an OpenAPI document from disk and imports the named
// operation as a form draft.
func ImportForm(ctx context.Context, path, operationID string) (schema.Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Form{}, fmt.Errorf("openapi: read document: %w", err)
	}
	return ImportData(ctx, data, operationID)
}

// ImportData imports the named operation from raw document bytes (JSON or
// YAML). The resulting form is a draft: no id, no version, no schedule.
func ImportData(ctx context.Context, data []byte, operationID string) (schema.Form, error) {
	if len(data) == 0 {
		return schema.Form{}, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return schema.Form{}, fmt.Errorf("openapi: load document: %w", err)
	}

	operation := findOperation(spec, operationID)
	if operation == nil {
		return schema.Form{}, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}

	body := requestBodySchema(operation)
	if body == nil || len(body.Properties) == 0 {
		return schema.Form{}, fmt.Errorf("openapi: operation %q has no request body properties", operationID)
	}

	required := make(map[string]bool, len(body.Required))
	for _, name := range body.Required {
		required[name] = true
	}

	names := make([]string, 0, len(body.Properties))
	for name := range body.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	questions := make([]schema.Question, 0, len(names))
	for _, name := range names {
		ref := body.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		q, ok := questionFromProperty(name, ref.Value)
		if !ok {
			continue
		}
		q.Required = required[name]
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return schema.Form{}, fmt.Errorf("openapi: operation %q yields no supported questions", operationID)
	}

	title := operation.Summary
	if title == "" {
		title = humanize(operationID)
	}
	form := schema.Form{
		Title:       title,
		Description: operation.Description,
		Questions:   questions,
	}
	if err := schema.ValidateForm(form); err != nil {
		return schema.Form{}, fmt.Errorf("openapi: imported form is invalid: %w", err)
	}
	return form, nil
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	if spec == nil || spec.Paths == nil {
		return nil
	}
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range []*openapi3.Operation{
			item.Get, item.Put, item.Post, item.Delete,
			item.Patch, item.Head, item.Options, item.Trace,
		} {
			if op != nil && op.OperationID == operationID {
				return op
			}
		}
	}
	return nil
}

func requestBodySchema(operation *openapi3.Operation) *openapi3.Schema {
	if operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil
	}
	content := operation.RequestBody.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func questionFromProperty(name string, src *openapi3.Schema) (schema.Question, bool) {
	q := schema.Question{
		ID:    name,
		Label: propertyLabel(name, src),
	}

	switch schemaType(src) {
	case "string":
		if len(src.Enum) > 0 {
			options := enumOptions(src.Enum)
			if len(options) == 0 {
				return schema.Question{}, false
			}
			q.Type = schema.TypeDropdown
			q.Options = options
			return q, true
		}
		q.Type = stringQuestionType(src.Format)
		return q, true

	case "boolean":
		q.Type = schema.TypeBoolean
		return q, true

	case "number", "integer":
		q.Type = schema.TypeNumber
		return q, true

	case "array":
		if src.Items == nil || src.Items.Value == nil {
			return schema.Question{}, false
		}
		options := enumOptions(src.Items.Value.Enum)
		if len(options) == 0 {
			return schema.Question{}, false
		}
		q.Type = schema.TypeMultiChoice
		q.Options = options
		return q, true

	default:
		// Nested objects and untyped properties do not map to flat questions.
		return schema.Question{}, false
	}
}

func stringQuestionType(format string) schema.QuestionType {
	switch format {
	case "email":
		return schema.TypeEmail
	case "uri", "url":
		return schema.TypeURL
	case "date", "date-time":
		return schema.TypeDate
	case "textarea":
		return schema.TypeLongText
	default:
		return schema.TypeShortText
	}
}

func schemaType(src *openapi3.Schema) string {
	if src.Type == nil || len(*src.Type) == 0 {
		return ""
	}
	return (*src.Type)[0]
}

func enumOptions(enum []any) []string {
	options := make([]string, 0, len(enum))
	for _, value := range enum {
		text, ok := value.(string)
		if !ok || strings.TrimSpace(text) == "" {
			continue
		}
		options = append(options, text)
	}
	return options
}

func propertyLabel(name string, src *openapi3.Schema) string {
	if src.Title != "" {
		return src.Title
	}
	return humanize(name)
}

// humanize turns snake_case and camelCase identifiers into a spaced label
// with an initial capital.
func humanize(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	prevLower := false
	for _, r := range name {
		switch {
		case r == '_' || r == '-':
			b.WriteRune(' ')
			prevLower = false
		case unicode.IsUpper(r) && prevLower:
			b.WriteRune(' ')
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsNumber(r)
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return name
	}
	return strings.ToUpper(out[:1]) + out[1:]
}
