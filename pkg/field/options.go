package field

import "strings"

// Option is one value/label pair of a select or checkbox group.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Options is an ordered value to label mapping.
type Options []Option

// OptionsFromValues builds an identity mapping (value -> value).
func OptionsFromValues(values ...string) Options {
	out := make(Options, 0, len(values))
	for _, value := range values {
		out = append(out, Option{Value: value, Label: value})
	}
	return out
}

// ParseOptions reads the comment form "a, b=Bee, c". A pair without "=" maps
// the value to itself.
func ParseOptions(raw string) Options {
	var out Options
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		value, label, found := strings.Cut(part, "=")
		value = strings.TrimSpace(value)
		if !found {
			out = append(out, Option{Value: value, Label: value})
			continue
		}
		out = append(out, Option{Value: value, Label: strings.TrimSpace(label)})
	}
	return out
}

// Has reports whether value is one of the option keys.
func (o Options) Has(value string) bool {
	_, ok := o.Label(value)
	return ok
}

// Label returns the label for value.
func (o Options) Label(value string) (string, bool) {
	for _, opt := range o {
		if opt.Value == value {
			return opt.Label, true
		}
	}
	return "", false
}

// Values returns the option keys in order.
func (o Options) Values() []string {
	out := make([]string, 0, len(o))
	for _, opt := range o {
		out = append(out, opt.Value)
	}
	return out
}

// Set inserts or replaces the label for value, keeping the position of an
// existing key.
func (o Options) Set(value, label string) Options {
	for i := range o {
		if o[i].Value == value {
			o[i].Label = label
			return o
		}
	}
	return append(o, Option{Value: value, Label: label})
}

// Reindex rebuilds the mapping so every key is unique and every entry has a
// label, falling back to the value itself.
func (o Options) Reindex() Options {
	out := make(Options, 0, len(o))
	for _, opt := range o {
		label := opt.Label
		if label == "" {
			label = opt.Value
		}
		out = out.Set(opt.Value, label)
	}
	return out
}

// WithEmpty returns the options with the empty key first. An existing empty
// option is moved to the front with its label, otherwise one is prepended.
func (o Options) WithEmpty() Options {
	out := make(Options, 1, len(o)+1)
	for _, opt := range o {
		if opt.Value == "" {
			out[0].Label = opt.Label
			continue
		}
		out = append(out, opt)
	}
	return out
}

// Clone returns a copy.
func (o Options) Clone() Options {
	if o == nil {
		return nil
	}
	return append(Options(nil), o...)
}

// Attribute is one HTML attribute.
type Attribute struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Attributes is an ordered HTML attribute list.
type Attributes []Attribute

// Get returns the attribute value.
func (a Attributes) Get(name string) (string, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Set inserts or replaces an attribute in place.
func (a Attributes) Set(name, value string) Attributes {
	for i := range a {
		if a[i].Name == name {
			a[i].Value = value
			return a
		}
	}
	return append(a, Attribute{Name: name, Value: value})
}

// Clone returns a copy.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	return append(Attributes(nil), a...)
}
