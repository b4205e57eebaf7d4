package widgets

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-formmanager/pkg/field"
)

// Built-in rule names exposed by the registry.
const (
	RulePrimaryKey = "primary-key"
	RuleEnum       = "enum"
	RuleSet        = "set"
	RuleBool       = "bool"
	RuleNumber     = "number"
	RuleTextarea   = "textarea"
	RuleText       = "text"
)

// MatchContext carries form level facts the matchers need.
type MatchContext struct {
	PrimaryKey string
}

// Matcher decides whether a rule handles the supplied field.
type Matcher func(spec *field.Spec, ctx MatchContext) bool

// Applier configures the field once its rule was selected. Attribute changes
// go to attrs, which the caller later stores on the spec.
type Applier func(spec *field.Spec, attrs *field.Attributes)

type rule struct {
	name     string
	priority int
	match    Matcher
	apply    Applier
	order    int
}

// Registry selects the widget rule for a field. Higher priority wins; ties
// fall back to registration order. Only the first matching rule applies.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in column rules
// registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// NewEmptyRegistry returns a registry without built-ins.
func NewEmptyRegistry() *Registry {
	return &Registry{}
}

// Register adds a rule. A later registration with the same name and
// priority is evaluated after the earlier one.
func (r *Registry) Register(name string, priority int, matcher Matcher, applier Applier) {
	if r == nil || matcher == nil || applier == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		apply:    applier,
		order:    len(r.rules),
	})
}

// Resolve returns the name of the first rule matching spec.
func (r *Registry) Resolve(spec *field.Spec, ctx MatchContext) (string, bool) {
	entry, ok := r.resolve(spec, ctx)
	if !ok {
		return "", false
	}
	return entry.name, true
}

// Apply resolves the rule for spec and runs its applier. It returns the rule
// name, or "" when nothing matched.
func (r *Registry) Apply(spec *field.Spec, ctx MatchContext, attrs *field.Attributes) string {
	entry, ok := r.resolve(spec, ctx)
	if !ok {
		return ""
	}
	if attrs == nil {
		attrs = &field.Attributes{}
	}
	entry.apply(spec, attrs)
	return entry.name
}

func (r *Registry) resolve(spec *field.Spec, ctx MatchContext) (rule, bool) {
	if r == nil || spec == nil {
		return rule{}, false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return rule{}, false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(spec, ctx) {
			return entry, true
		}
	}
	return rule{}, false
}

var numericBaseType = regexp.MustCompile(`^(.*int|decimal|float)$`)

func (r *Registry) registerBuiltins() {
	r.Register(RulePrimaryKey, 70, func(spec *field.Spec, ctx MatchContext) bool {
		return ctx.PrimaryKey != "" && spec.Name == ctx.PrimaryKey
	}, display(field.DisplayHidden, ""))

	r.Register(RuleEnum, 60, dataType("enum"), display(field.DisplaySelect, ""))

	r.Register(RuleSet, 50, dataType("set"), func(spec *field.Spec, _ *field.Attributes) {
		spec.SetDefault(field.KeyDisplayAs, field.DisplayCheckboxes)
		if !spec.Value.IsList() {
			spec.Value = field.SplitList(spec.Value.String())
		}
	})

	r.Register(RuleBool, 40, func(spec *field.Spec, _ MatchContext) bool {
		return spec.DataType() == "tinyint" && spec.Column.Display == "1"
	}, display(field.DisplayBool, ""))

	r.Register(RuleNumber, 30, func(spec *field.Spec, _ MatchContext) bool {
		return spec.Column != nil && numericBaseType.MatchString(strings.ToLower(spec.Column.Type))
	}, display(field.DisplayText, "number"))

	r.Register(RuleTextarea, 20, func(spec *field.Spec, _ MatchContext) bool {
		return strings.HasSuffix(spec.DataType(), "text")
	}, display(field.DisplayTextarea, ""))

	r.Register(RuleText, 0, func(*field.Spec, MatchContext) bool {
		return true
	}, func(spec *field.Spec, attrs *field.Attributes) {
		spec.SetDefault(field.KeyDisplayAs, field.DisplayText)
		spec.SetDefault(field.KeyInputType, "text")
		if spec.Column != nil && spec.Column.CharacterMaximumLength > 0 {
			*attrs = attrs.Set("maxlength", strconv.Itoa(spec.Column.CharacterMaximumLength))
		}
	})
}

func dataType(want string) Matcher {
	return func(spec *field.Spec, _ MatchContext) bool {
		return spec.DataType() == want
	}
}

func display(as field.DisplayAs, inputType string) Applier {
	return func(spec *field.Spec, _ *field.Attributes) {
		spec.SetDefault(field.KeyDisplayAs, as)
		if inputType != "" {
			spec.SetDefault(field.KeyInputType, inputType)
		}
	}
}
