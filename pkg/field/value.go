package field

import (
	"encoding/json"
	"strings"
)

// Value holds a field value: a single string, or a list for multi-valued
// widgets such as checkboxes.
type Value struct {
	text  string
	items []string
	multi bool
}

// String builds a scalar value.
func String(text string) Value {
	return Value{text: text}
}

// List builds a multi-valued value.
func List(items ...string) Value {
	return Value{items: append([]string(nil), items...), multi: true}
}

// SplitList splits a comma separated string into a list value. The empty
// string yields an empty list.
func SplitList(raw string) Value {
	if raw == "" {
		return List()
	}
	return List(strings.Split(raw, ",")...)
}

// IsList reports whether the value holds a list.
func (v Value) IsList() bool {
	return v.multi
}

// String returns the scalar form. Lists are joined with commas, which is the
// storage form of SET columns.
func (v Value) String() string {
	if v.multi {
		return strings.Join(v.items, ",")
	}
	return v.text
}

// Strings returns the list form. A non-empty scalar yields a one element list.
func (v Value) Strings() []string {
	if v.multi {
		return append([]string(nil), v.items...)
	}
	if v.text == "" {
		return nil
	}
	return []string{v.text}
}

// IsEmpty reports whether the value carries no data.
func (v Value) IsEmpty() bool {
	if v.multi {
		return len(v.items) == 0
	}
	return v.text == ""
}

// Contains reports whether item is one of the values.
func (v Value) Contains(item string) bool {
	for _, candidate := range v.Strings() {
		if candidate == item {
			return true
		}
	}
	return false
}

// Equal compares two values including their shape.
func (v Value) Equal(other Value) bool {
	if v.multi != other.multi {
		return false
	}
	if !v.multi {
		return v.text == other.text
	}
	if len(v.items) != len(other.items) {
		return false
	}
	for i := range v.items {
		if v.items[i] != other.items[i] {
			return false
		}
	}
	return true
}

// MarshalJSON emits a string or an array.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.multi {
		items := v.items
		if items == nil {
			items = []string{}
		}
		return json.Marshal(items)
	}
	return json.Marshal(v.text)
}

// UnmarshalJSON accepts a string or an array of strings.
func (v *Value) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		*v = List(items...)
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	*v = String(text)
	return nil
}

// MarshalYAML mirrors MarshalJSON for YAML dumps.
func (v Value) MarshalYAML() (any, error) {
	if v.multi {
		return v.Strings(), nil
	}
	return v.text, nil
}

// Values maps field names to submitted values.
type Values map[string]Value

// Get returns the value for name and whether it was present.
func (vs Values) Get(name string) (Value, bool) {
	value, ok := vs[name]
	return value, ok
}

// Clone returns a shallow copy.
func (vs Values) Clone() Values {
	if vs == nil {
		return nil
	}
	out := make(Values, len(vs))
	for key, value := range vs {
		out[key] = value
	}
	return out
}
