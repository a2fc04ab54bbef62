// Package views binds the engine to page-level surfaces: one view per
// mounted panel, owning its draft or session state and guarding late writes
// after unmount. Views log through slog; the engine packages below them stay
// silent.
package views

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/CodeSapiens-in/formengine/pkg/builder"
	"github.com/CodeSapiens-in/formengine/pkg/render"
	"github.com/CodeSapiens-in/formengine/pkg/storage"
)

// ViewOption configures a view.
type ViewOption func(*viewConfig)

type viewConfig struct {
	logger *slog.Logger
}

// WithLogger overrides the view logger.
func WithLogger(logger *slog.Logger) ViewOption {
	return func(cfg *viewConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

func newViewConfig(options []ViewOption) viewConfig {
	cfg := viewConfig{logger: slog.Default()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

// BuilderView is the draft editing surface. It wraps a Builder, exposes the
// widget-plan preview, and keeps Save single-flight from the UI's point of
// view.
type BuilderView struct {
	logger  *slog.Logger
	builder *builder.Builder

	closed atomic.Bool
	saving atomic.Bool

	formID string
}

// NewBuilderView mounts the builder surface. With a form id it loads the
// persisted form; a missing id starts a blank draft. A form id that is not
// found is logged and also falls back to a blank draft rather than failing
// the mount.
func NewBuilderView(ctx context.Context, adapter storage.Adapter, formID string, options ...ViewOption) (*BuilderView, error) {
	cfg := newViewConfig(options)

	view := &BuilderView{logger: cfg.logger, formID: formID}
	if formID == "" {
		view.builder = builder.New(adapter)
		return view, nil
	}

	loaded, err := builder.Load(ctx, adapter, formID)
	switch {
	case err == nil:
		view.builder = loaded
	case errors.Is(err, storage.ErrNotFound):
		cfg.logger.InfoContext(ctx, "form not found, starting blank draft", "form_id", formID)
		view.builder = builder.New(adapter)
		view.formID = ""
	default:
		return nil, err
	}
	return view, nil
}

// Builder exposes the draft editing operations.
func (v *BuilderView) Builder() *builder.Builder {
	return v.builder
}

// FormID returns the persisted form id, empty for an unsaved draft.
func (v *BuilderView) FormID() string {
	return v.formID
}

// Saving reports whether a save round trip is pending; the UI disables the
// save control while true.
func (v *BuilderView) Saving() bool {
	return v.saving.Load()
}

// Preview returns the draft's widget plan in preview mode.
func (v *BuilderView) Preview() ([]render.Widget, error) {
	return v.builder.Preview()
}

// Save persists the draft. Re-entry while a save is pending returns
// builder.ErrSaveInFlight. If the view was closed while the round trip was in
// the air the result is discarded: the write stands but view state does not
// change.
func (v *BuilderView) Save(ctx context.Context) (string, error) {
	if !v.saving.CompareAndSwap(false, true) {
		return "", builder.ErrSaveInFlight
	}
	defer v.saving.Store(false)

	id, err := v.builder.Save(ctx)
	if v.closed.Load() {
		v.logger.InfoContext(ctx, "save completed after view closed, result discarded",
			"form_id", id, "err", err)
		return "", nil
	}
	if err != nil {
		return "", err
	}
	v.formID = id
	return id, nil
}

// Close unmounts the view. In-flight saves complete but their results are
// discarded.
func (v *BuilderView) Close() {
	v.closed.Store(true)
}
