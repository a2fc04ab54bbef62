package render

// Mode selects how widgets behave. Only the submission gate's Open state maps
// to ModeEditable; every locked state forces ModeReadOnly. ModePreview is the
// builder's non-interactive "ink" state showing structure without accepting
// answers.
type Mode string

const (
	ModeEditable Mode = "editable"
	ModeReadOnly Mode = "readonly"
	ModePreview  Mode = "preview"
)

// Editable reports whether widgets accept input in this mode.
func (m Mode) Editable() bool { return m == ModeEditable }
