package field

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultLabel converts a column name into a label: underscores become spaces
// and every word starts with an upper case letter. The rest of each word is
// left untouched, so "user_ID" reads "User ID". Casers are stateful, so one
// is built per call.
func DefaultLabel(name string) string {
	if name == "" {
		return ""
	}
	return cases.Title(language.Und, cases.NoLower).String(strings.ReplaceAll(name, "_", " "))
}
