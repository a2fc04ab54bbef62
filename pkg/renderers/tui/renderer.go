// Package tui walks a respondent through a form as a sequence of terminal
// prompts. In editable mode it collects answers into the store; in read-only
// and preview modes it prints a transcript without prompting.
package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/CodeSapiens-in/formengine/pkg/answers"
	"github.com/CodeSapiens-in/formengine/pkg/render"
	"github.com/CodeSapiens-in/formengine/pkg/schema"
)

// Renderer drives a prompt session over a form's widget plan.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	theme        Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the TUI renderer. Without options it prompts on the real
// terminal and emits a pretty transcript.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:       newSurveyDriver(),
		outputFormat: OutputFormatPrettyText,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return "tui"
}

func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Render prompts for every widget in form order when the mode is editable,
// writing answers back into the store as it goes. Other modes produce the
// transcript only. Aborting a prompt returns ErrAborted with answers already
// given still in the store.
func (r *Renderer) Render(ctx context.Context, form schema.Form, store *answers.Store, opts render.RenderOptions) ([]byte, error) {
	if store == nil {
		store = answers.NewStore()
	}

	mode := opts.Mode
	if mode == "" {
		mode = render.ModeReadOnly
	}

	widgets, err := render.BuildWidgets(form, store, mode)
	if err != nil {
		return nil, fmt.Errorf("tui renderer: build widgets: %w", err)
	}

	if err := r.printHeader(ctx, form, opts); err != nil {
		return nil, err
	}

	if mode.Editable() {
		for _, w := range widgets {
			if err := r.promptWidget(ctx, w, store, opts.Errors[w.QuestionID]); err != nil {
				return nil, err
			}
		}
		// Rebuild so the transcript reflects the answers just collected.
		widgets, err = render.BuildWidgets(form, store, render.ModeReadOnly)
		if err != nil {
			return nil, fmt.Errorf("tui renderer: rebuild widgets: %w", err)
		}
	}

	return r.serialize(form, widgets, store)
}

func (r *Renderer) printHeader(ctx context.Context, form schema.Form, opts render.RenderOptions) error {
	if err := r.info(ctx, form.Title); err != nil {
		return err
	}
	if opts.Banner != "" {
		if err := r.info(ctx, opts.Banner); err != nil {
			return err
		}
	}
	for _, msg := range opts.Errors[""] {
		if err := r.errorLine(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) promptWidget(ctx context.Context, w render.Widget, store *answers.Store, fieldErrors []string) error {
	for _, msg := range append(append([]string{}, w.Errors...), fieldErrors...) {
		if err := r.errorLine(ctx, w.Label+": "+msg); err != nil {
			return err
		}
	}

	if w.Disabled {
		return r.info(ctx, transcriptLine(w))
	}

	message := w.Label
	if w.Required {
		message += " *"
	}

	switch w.Control {
	case render.ControlInput:
		answer, err := r.driver.Input(ctx, InputConfig{
			Message:   message,
			Default:   w.Value,
			Validator: requiredValidator(w),
		})
		if err != nil {
			return err
		}
		setOrClear(store, w.QuestionID, answer)

	case render.ControlTextArea:
		answer, err := r.driver.TextArea(ctx, TextAreaConfig{
			Message: message,
			Default: w.Value,
		})
		if err != nil {
			return err
		}
		setOrClear(store, w.QuestionID, answer)

	case render.ControlToggle:
		answer, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: message,
			Default: w.Value == "true",
		})
		if err != nil {
			return err
		}
		store.SetText(w.QuestionID, fmt.Sprintf("%t", answer))

	case render.ControlRadioGroup, render.ControlSelect:
		labels, selected := optionLabels(w)
		defaultIndex := -1
		if len(selected) == 1 {
			defaultIndex = selected[0]
		}
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      labels,
			DefaultIndex: defaultIndex,
		})
		if err != nil {
			return err
		}
		if idx >= 0 && idx < len(labels) {
			store.SetText(w.QuestionID, labels[idx])
		}

	case render.ControlCheckboxGroup:
		labels, selected := optionLabels(w)
		indices, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  message,
			Options:  labels,
			Defaults: selected,
		})
		if err != nil {
			return err
		}
		picked := make([]string, 0, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(labels) {
				picked = append(picked, labels[idx])
			}
		}
		if len(picked) == 0 {
			store.Clear(w.QuestionID)
		} else {
			store.Set(w.QuestionID, schema.ListValue(picked...))
		}
	}
	return nil
}

func (r *Renderer) serialize(form schema.Form, widgets []render.Widget, store *answers.Store) ([]byte, error) {
	if r.outputFormat == OutputFormatJSON {
		payload := struct {
			FormID  string                  `json:"form_id"`
			Answers map[string]schema.Value `json:"answers"`
		}{
			FormID:  form.ID,
			Answers: store.Serialize(),
		}
		return json.MarshalIndent(payload, "", "  ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", form.Title)
	for _, w := range widgets {
		fmt.Fprintf(&b, "%s\n", transcriptLine(w))
	}
	return []byte(b.String()), nil
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) errorLine(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.ErrorPrefix+msg)
}

func transcriptLine(w render.Widget) string {
	return w.Label + ": " + w.Display
}

func requiredValidator(w render.Widget) func(string) error {
	if !w.Required {
		return nil
	}
	return func(text string) error {
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("answer is required")
		}
		return nil
	}
}

func setOrClear(store *answers.Store, questionID, answer string) {
	if strings.TrimSpace(answer) == "" {
		store.Clear(questionID)
		return
	}
	store.SetText(questionID, answer)
}

func optionLabels(w render.Widget) (labels []string, selected []int) {
	labels = make([]string, 0, len(w.Options))
	for i, opt := range w.Options {
		labels = append(labels, opt.Label)
		if opt.Selected {
			selected = append(selected, i)
		}
	}
	return labels, selected
}
