package render

import (
	"fmt"

	"github.com/CodeSapiens-in/formengine/pkg/answers"
	"github.com/CodeSapiens-in/formengine/pkg/schema"
)

// Control identifies the input surface a widget presents.
type Control string

const (
	// ControlInput is a single-line input; InputType narrows the keyboard.
	ControlInput Control = "input"
	// ControlTextArea is a multi-line input.
	ControlTextArea Control = "textarea"
	// ControlRadioGroup is a mutually exclusive option group.
	ControlRadioGroup Control = "radio-group"
	// ControlCheckboxGroup is a set of independent option toggles.
	ControlCheckboxGroup Control = "checkbox-group"
	// ControlSelect is a single-selection dropdown with no default.
	ControlSelect Control = "select"
	// ControlToggle is a two-state switch.
	ControlToggle Control = "toggle"
)

// NoAnswer is the display placeholder for questions without a stored value.
const NoAnswer = "no answer"

// OptionState pairs an option with its current selection state.
type OptionState struct {
	Label    string
	Selected bool
}

// Widget is the renderer-neutral description of one question's input,
// produced in form order, one per question, never filtered.
type Widget struct {
	QuestionID string
	Control    Control
	// InputType is the HTML-style input type for ControlInput widgets:
	// "text", "number", "url", "email" or "date".
	InputType string
	Label     string
	Required  bool
	// Disabled is set in readonly and preview modes: the widget displays the
	// stored value (or NoAnswer) and accepts no input.
	Disabled bool
	// Value is the bound single-string answer for input, textarea, select and
	// toggle controls.
	Value string
	// Options carries per-option selection state for choice controls.
	Options []OptionState
	// Display is the verbatim read-only rendering of the stored value.
	Display string
	// Errors holds messages attached to this question (validation feedback or
	// a value/type mismatch detected while binding).
	Errors []string
}

// BuildWidgets interprets a form into one widget per question, in question
// order, binding stored values from the answer store. The same interpretation
// serves the builder's preview and the live submission view; only the mode
// differs. The form is validated defensively first. A nil store renders every
// widget unanswered.
func BuildWidgets(form schema.Form, store *answers.Store, mode Mode) ([]Widget, error) {
	if err := schema.ValidateForm(form); err != nil {
		return nil, fmt.Errorf("render: invalid form: %w", err)
	}

	widgets := make([]Widget, 0, len(form.Questions))
	for _, q := range form.Questions {
		w := Widget{
			QuestionID: q.ID,
			Label:      q.Label,
			Required:   q.Required,
			Disabled:   !mode.Editable(),
		}

		var value schema.Value
		if store != nil {
			value, _ = store.Value(q.ID)
		}

		switch q.Type {
		case schema.TypeShortText:
			bindText(&w, ControlInput, "text", value)
		case schema.TypeNumber:
			bindText(&w, ControlInput, "number", value)
		case schema.TypeURL:
			bindText(&w, ControlInput, "url", value)
		case schema.TypeEmail:
			bindText(&w, ControlInput, "email", value)
		case schema.TypeDate:
			bindText(&w, ControlInput, "date", value)
		case schema.TypeLongText:
			bindText(&w, ControlTextArea, "", value)
		case schema.TypeBoolean:
			bindText(&w, ControlToggle, "", value)
		case schema.TypeSingleChoice:
			bindSingleChoice(&w, ControlRadioGroup, q.Options, value)
		case schema.TypeDropdown:
			bindSingleChoice(&w, ControlSelect, q.Options, value)
		case schema.TypeMultiChoice:
			bindMultiChoice(&w, q.Options, value)
		default:
			// ValidateForm rejects unknown types before this point.
			return nil, fmt.Errorf("render: unsupported question type %q", q.Type)
		}

		widgets = append(widgets, w)
	}
	return widgets, nil
}

func bindText(w *Widget, control Control, inputType string, value schema.Value) {
	w.Control = control
	w.InputType = inputType
	switch value.Kind() {
	case schema.KindText:
		w.Value = value.Text()
	case schema.KindList:
		w.Errors = append(w.Errors, "stored answer does not match the question type")
	}
	w.Display = displayOf(value)
}

func bindSingleChoice(w *Widget, control Control, options []string, value schema.Value) {
	w.Control = control
	selected := ""
	switch value.Kind() {
	case schema.KindText:
		selected = value.Text()
		w.Value = selected
	case schema.KindList:
		w.Errors = append(w.Errors, "stored answer does not match the question type")
	}
	for _, opt := range options {
		// A single selection excludes all others.
		w.Options = append(w.Options, OptionState{Label: opt, Selected: opt == selected})
	}
	w.Display = displayOf(value)
}

func bindMultiChoice(w *Widget, options []string, value schema.Value) {
	w.Control = ControlCheckboxGroup
	selected := make(map[string]bool)
	switch value.Kind() {
	case schema.KindList:
		for _, item := range value.List() {
			selected[item] = true
		}
	case schema.KindText:
		w.Errors = append(w.Errors, "stored answer does not match the question type")
	}
	for _, opt := range options {
		w.Options = append(w.Options, OptionState{Label: opt, Selected: selected[opt]})
	}
	w.Display = displayOf(value)
}

func displayOf(value schema.Value) string {
	if value.Empty() {
		return NoAnswer
	}
	return value.String()
}
