package render

import (
	"fmt"
	"sort"
	"strings"
)

// HiddenField is a hidden input emitted next to the form fields, such as a
// CSRF token or a record version.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken constructs the hidden field carrying token under name, for
// example "_csrf".
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// MergeHiddenFields collapses fields by name, later fields winning, and
// returns them sorted by name. Empty names are dropped.
func MergeHiddenFields(fields ...HiddenField) []HiddenField {
	if len(fields) == 0 {
		return nil
	}
	byName := make(map[string]string, len(fields))
	for _, hidden := range fields {
		name := strings.TrimSpace(hidden.Name)
		if name == "" {
			continue
		}
		byName[name] = hidden.Value
	}
	if len(byName) == 0 {
		return nil
	}

	result := make([]HiddenField, 0, len(byName))
	for _, name := range sortedKeys(byName) {
		result = append(result, HiddenField{Name: name, Value: byName[name]})
	}
	return result
}

func sortedKeys[V any](in map[string]V) []string {
	keys := make([]string, 0, len(in))
	for key := range in {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
