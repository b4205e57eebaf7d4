package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassForm       ChromeClass = "formmanager-form"
	ClassFieldset   ChromeClass = "formmanager-fieldset"
	ClassActions    ChromeClass = "formmanager-actions"
	ClassErrors     ChromeClass = "formmanager-errors"
	ClassField      ChromeClass = "formmanager-field"
	ClassFieldError ChromeClass = "formmanager-field--error"
	ClassRequired   ChromeClass = "formmanager-required"
	ClassHelp       ChromeClass = "formmanager-help"
	ClassErrorText  ChromeClass = "formmanager-error"
)

// chromeClasses is the "classes" object templates read.
func chromeClasses() map[string]string {
	return map[string]string{
		"form":        string(ClassForm),
		"fieldset":    string(ClassFieldset),
		"actions":     string(ClassActions),
		"errors":      string(ClassErrors),
		"field":       string(ClassField),
		"field_error": string(ClassFieldError),
		"required":    string(ClassRequired),
		"help":        string(ClassHelp),
		"error_text":  string(ClassErrorText),
	}
}
