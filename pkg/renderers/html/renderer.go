// Package html renders a form's widget plan as a standalone HTML fragment.
// The same templates serve the builder preview and the submission view; only
// the render mode differs.
package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/CodeSapiens-in/formengine/pkg/answers"
	"github.com/CodeSapiens-in/formengine/pkg/render"
	rendertemplate "github.com/CodeSapiens-in/formengine/pkg/render/template"
	gotemplate "github.com/CodeSapiens-in/formengine/pkg/render/template/gotemplate"
	"github.com/CodeSapiens-in/formengine/pkg/schema"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

type Renderer struct {
	templates rendertemplate.TemplateRenderer
}

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render builds the widget plan for the form and executes the form template.
// Question labels and option texts are escaped; the form description may
// carry limited markup and is sanitized instead.
func (r *Renderer) Render(_ context.Context, form schema.Form, store *answers.Store, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}

	mode := opts.Mode
	if mode == "" {
		mode = render.ModeReadOnly
	}

	widgets, err := render.BuildWidgets(form, store, mode)
	if err != nil {
		return nil, fmt.Errorf("html renderer: build widgets: %w", err)
	}
	attachErrors(widgets, opts.Errors)

	rendered := make([]renderedWidget, 0, len(widgets))
	for _, w := range widgets {
		rendered = append(rendered, renderedWidget{
			QuestionID: w.QuestionID,
			Markup:     widgetMarkup(w),
		})
	}

	hidden := opts.HiddenFields
	if hidden == nil && form.Version > 0 {
		hidden = map[string]string{versionFieldName: fmt.Sprint(form.Version)}
	}

	data := map[string]any{
		"form": map[string]any{
			"id":          form.ID,
			"title":       form.Title,
			"description": sanitizeDescription(form.Description),
		},
		"mode":          string(mode),
		"editable":      mode.Editable(),
		"banner":        opts.Banner,
		"form_errors":   opts.Errors[""],
		"widgets":       rendered,
		"hidden_fields": render.SortedHiddenFields(hidden),
		"chrome":        chromeContext(),
		"theme":         buildThemeContext(opts.Theme),
	}

	out, err := r.templates.RenderTemplate("templates/form.tmpl", data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(out), nil
}

type renderedWidget struct {
	QuestionID string `json:"question_id"`
	Markup     string `json:"markup"`
}

const versionFieldName = "_form_version"

func attachErrors(widgets []render.Widget, errs map[string][]string) {
	if len(errs) == 0 {
		return
	}
	for i := range widgets {
		if messages := errs[widgets[i].QuestionID]; len(messages) > 0 {
			widgets[i].Errors = append(widgets[i].Errors, messages...)
		}
	}
}
