package tui

// OutputFormat controls how collected answers are serialized.
type OutputFormat string

const (
	// OutputFormatPrettyText emits a human-friendly transcript.
	OutputFormatPrettyText OutputFormat = "pretty"
	// OutputFormatJSON emits the collected answers as a JSON object.
	OutputFormatJSON OutputFormat = "json"
)

// Theme captures optional message prefixes the driver applies when printing.
// Keep minimal to avoid coupling renderer logic to ANSI specifics.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}
