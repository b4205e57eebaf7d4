package field

import (
	"iter"
	"slices"
)

// Position selects where Add places a field.
type Position string

const (
	Start  Position = "start"
	End    Position = "end"
	Before Position = "before"
	After  Position = "after"
)

// Set is an ordered mapping of field name to spec. Iteration order is render
// order.
type Set struct {
	order []string
	specs map[string]*Spec
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{specs: make(map[string]*Spec)}
}

// Len returns the number of fields.
func (s *Set) Len() int {
	return len(s.order)
}

// Has reports whether name is present.
func (s *Set) Has(name string) bool {
	_, ok := s.specs[name]
	return ok
}

// Get returns the spec for name.
func (s *Set) Get(name string) (*Spec, bool) {
	spec, ok := s.specs[name]
	return spec, ok
}

// Names returns the field names in order.
func (s *Set) Names() []string {
	return slices.Clone(s.order)
}

// All iterates the fields in order.
func (s *Set) All() iter.Seq2[string, *Spec] {
	return func(yield func(string, *Spec) bool) {
		for _, name := range slices.Clone(s.order) {
			spec, ok := s.specs[name]
			if !ok {
				continue
			}
			if !yield(name, spec) {
				return
			}
		}
	}
}

// Specs returns the specs in order.
func (s *Set) Specs() []*Spec {
	out := make([]*Spec, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.specs[name])
	}
	return out
}

// Add inserts spec under name. Position defaults to End; Before and After are
// relative to an existing field and fall back to End when relative is
// unknown. An existing entry with the same name is replaced at the new
// position. A nil spec is replaced by an empty one.
func (s *Set) Add(name string, spec *Spec, pos Position, relative string) {
	if spec == nil {
		spec = NewSpec(name)
	}
	if spec.Name == "" {
		spec.SetDefault(KeyName, name)
	}
	s.Remove(name)

	at := len(s.order)
	switch pos {
	case Start:
		at = 0
	case Before:
		if idx := slices.Index(s.order, relative); relative != "" && idx >= 0 {
			at = idx
		}
	case After:
		if idx := slices.Index(s.order, relative); relative != "" && idx >= 0 {
			at = idx + 1
		}
	}

	s.order = slices.Insert(s.order, at, name)
	s.specs[name] = spec
}

// Remove deletes name. Unknown names are ignored.
func (s *Set) Remove(name string) {
	if _, ok := s.specs[name]; !ok {
		return
	}
	delete(s.specs, name)
	if idx := slices.Index(s.order, name); idx >= 0 {
		s.order = slices.Delete(s.order, idx, idx+1)
	}
}

// Move repositions name without touching its spec. Unknown names are
// ignored.
func (s *Set) Move(name string, pos Position, relative string) {
	spec, ok := s.specs[name]
	if !ok {
		return
	}
	s.Remove(name)
	s.Add(name, spec, pos, relative)
}

// Retain keeps only the fields keep returns true for, preserving order.
func (s *Set) Retain(keep func(name string) bool) {
	for _, name := range slices.Clone(s.order) {
		if !keep(name) {
			s.Remove(name)
		}
	}
}

// Clone returns a deep copy.
func (s *Set) Clone() *Set {
	out := NewSet()
	for _, name := range s.order {
		out.order = append(out.order, name)
		out.specs[name] = s.specs[name].Clone()
	}
	return out
}
