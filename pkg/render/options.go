package render

import (
	theme "github.com/goliatone/go-theme"
)

// RenderOptions describe per-request data renderers can use without mutating
// the form or the answer store.
type RenderOptions struct {
	// Mode selects editable, readonly or preview behavior. Renderers default
	// to ModeReadOnly when empty, the safe direction.
	Mode Mode
	// Errors surfaces validation feedback keyed by question id. The empty key
	// carries form-level messages.
	Errors map[string][]string
	// Banner is an explanatory message shown above the form, used by the
	// submission gate to say which locked condition applies.
	Banner string
	// Theme supplies resolved theme tokens and asset URLs for renderers that
	// honor them.
	Theme *theme.RendererConfig
	// HiddenFields are emitted alongside the visible widgets (for example the
	// form version stamp used for optimistic locking).
	HiddenFields map[string]string
}
