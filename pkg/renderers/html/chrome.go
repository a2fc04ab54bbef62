package html

// ChromeClass is a typed identifier for the semantic chrome CSS classes the
// templates emit.
type ChromeClass string

const (
	ClassForm       ChromeClass = "formengine-form"
	ClassHeader     ChromeClass = "formengine-header"
	ClassBanner     ChromeClass = "formengine-banner"
	ClassErrors     ChromeClass = "formengine-errors"
	ClassField      ChromeClass = "formengine-field"
	ClassFieldError ChromeClass = "formengine-field-error"
	ClassDisplay    ChromeClass = "formengine-display"
	ClassActions    ChromeClass = "formengine-actions"
)

func chromeContext() map[string]string {
	return map[string]string{
		"form":    string(ClassForm),
		"header":  string(ClassHeader),
		"banner":  string(ClassBanner),
		"errors":  string(ClassErrors),
		"actions": string(ClassActions),
	}
}
