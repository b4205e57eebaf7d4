package validation

import (
	"strings"
	"sync"

	"github.com/goliatone/go-formmanager/pkg/field"
)

// RuleFunc reports whether value passes the rule. params are the rule
// arguments; values holds every submitted value so rules such as matches can
// look at other fields. A non-nil error means the rule itself is
// misconfigured (bad parameter, bad pattern).
type RuleFunc func(value field.Value, params []string, values field.Values) (bool, error)

// RuleOption tweaks how a rule is evaluated.
type RuleOption func(*entry)

// RunOnEmpty evaluates the rule even when the value is empty. Without it an
// empty value passes, so only presence rules reject missing input.
func RunOnEmpty() RuleOption {
	return func(e *entry) {
		e.onEmpty = true
	}
}

type entry struct {
	fn      RuleFunc
	onEmpty bool
}

// Registry maps rule names to implementations. It is safe for concurrent
// use.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]entry
}

// NewRegistry returns a registry with the built-in rules registered.
func NewRegistry() *Registry {
	reg := NewEmptyRegistry()
	registerBuiltins(reg)
	return reg
}

// NewEmptyRegistry returns a registry without rules.
func NewEmptyRegistry() *Registry {
	return &Registry{rules: make(map[string]entry)}
}

// Register adds or replaces a rule.
func (r *Registry) Register(name string, fn RuleFunc, opts ...RuleOption) {
	if r == nil || fn == nil {
		return
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	e := entry{fn: fn}
	for _, opt := range opts {
		if opt != nil {
			opt(&e)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[name] = e
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.lookup(name)
	return ok
}

// Names returns the registered rule names.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.rules))
	for name := range r.rules {
		out = append(out, name)
	}
	return out
}

func (r *Registry) lookup(name string) (entry, bool) {
	if r == nil {
		return entry{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.rules[name]
	return e, ok
}
