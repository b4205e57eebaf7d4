package validation

import (
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formmanager/pkg/field"
)

// Rule binds a named rule and its parameters to a field.
type Rule struct {
	Field  string   `json:"field" yaml:"field"`
	Name   string   `json:"rule" yaml:"rule"`
	Params []string `json:"params,omitempty" yaml:"params,omitempty"`
}

// Issue is one failed rule.
type Issue struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Result captures the outcome of a Check.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// Errors maps field names to the first failure message of that field.
type Errors map[string]string

// Fields returns the failing field names sorted.
func (e Errors) Fields() []string {
	out := make([]string, 0, len(e))
	for name := range e {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Errors collapses the issues into one message per field, keeping the first.
func (r Result) Errors() Errors {
	out := Errors{}
	for _, issue := range r.Issues {
		if _, seen := out[issue.Field]; seen {
			continue
		}
		out[issue.Field] = issue.Message
	}
	return out
}

// Option configures a Validator.
type Option func(*Validator)

// WithMessages overrides message templates. Keys are either a rule name or
// "field.rule" for a single field.
func WithMessages(messages map[string]string) Option {
	return func(v *Validator) {
		for key, msg := range messages {
			v.messages[strings.TrimSpace(key)] = msg
		}
	}
}

// WithLabels supplies the display names substituted for ":field".
func WithLabels(labels map[string]string) Option {
	return func(v *Validator) {
		for key, label := range labels {
			v.labels[key] = label
		}
	}
}

// Validator runs rules against submitted values.
type Validator struct {
	registry *Registry
	messages map[string]string
	labels   map[string]string
}

// NewValidator builds a validator. A nil registry uses the built-in rules.
func NewValidator(registry *Registry, opts ...Option) *Validator {
	if registry == nil {
		registry = NewRegistry()
	}
	v := &Validator{
		registry: registry,
		messages: make(map[string]string, len(DefaultMessages)),
		labels:   make(map[string]string),
	}
	for key, msg := range DefaultMessages {
		v.messages[key] = msg
	}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

// Check evaluates rules in order. Every failure is reported; use
// Result.Errors for the first message per field. Rules for fields missing
// from values see an empty value.
func (v *Validator) Check(values field.Values, rules []Rule) Result {
	result := Result{Valid: true}
	for _, rule := range rules {
		name := strings.TrimSpace(rule.Name)
		value, _ := values.Get(rule.Field)

		e, ok := v.registry.lookup(name)
		if !ok {
			result.add(Issue{Field: rule.Field, Rule: name, Message: name + " is not a known rule"})
			continue
		}
		if value.IsEmpty() && !e.onEmpty {
			continue
		}
		passed, err := e.fn(value, rule.Params, values)
		if err != nil {
			result.add(Issue{Field: rule.Field, Rule: name, Message: err.Error()})
			continue
		}
		if !passed {
			result.add(Issue{Field: rule.Field, Rule: name, Message: v.message(rule)})
		}
	}
	return result
}

func (r *Result) add(issue Issue) {
	r.Valid = false
	r.Issues = append(r.Issues, issue)
}

func (v *Validator) message(rule Rule) string {
	tmpl, ok := v.messages[rule.Field+"."+rule.Name]
	if !ok {
		tmpl, ok = v.messages[rule.Name]
	}
	if !ok {
		tmpl = DefaultMessage
	}

	label := v.labels[rule.Field]
	if label == "" {
		label = field.DefaultLabel(rule.Field)
	}
	pairs := []string{":field", label}
	// Highest index first so ":param10" is not eaten by ":param1".
	for i := len(rule.Params) - 1; i >= 0; i-- {
		param := rule.Params[i]
		if other, ok := v.labels[param]; ok && rule.Name == RuleMatches {
			param = other
		}
		pairs = append(pairs, ":param"+strconv.Itoa(i+1), param)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
