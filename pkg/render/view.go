package render

import (
	"strconv"

	"github.com/goliatone/go-formmanager/pkg/field"
)

// View is the template-facing snapshot of a form. JSON tags are the names
// templates use.
type View struct {
	Name         string         `json:"name"`
	Container    string         `json:"container"`
	Action       string         `json:"action"`
	Method       string         `json:"method"`
	SubmitText   string         `json:"submit_text"`
	Status       string         `json:"status,omitempty"`
	Fields       []FieldView    `json:"fields"`
	Hidden       []FieldView    `json:"hidden"`
	Fieldsets    []FieldsetView `json:"fieldsets,omitempty"`
	HiddenInputs []HiddenField  `json:"hidden_inputs,omitempty"`
	Errors       []string       `json:"errors,omitempty"`
}

// FieldView is one rendered input.
type FieldView struct {
	Name       string           `json:"name"`
	FieldName  string           `json:"field_name"`
	FieldID    string           `json:"field_id"`
	Label      string           `json:"label"`
	DisplayAs  string           `json:"display_as"`
	InputType  string           `json:"input_type,omitempty"`
	Value      string           `json:"value"`
	Values     []string         `json:"values,omitempty"`
	Options    []OptionView     `json:"options,omitempty"`
	Attributes field.Attributes `json:"attributes,omitempty"`
	Required   bool             `json:"required"`
	Checked    bool             `json:"checked"`
	Error      bool             `json:"error"`
	ErrorText  string           `json:"error_text,omitempty"`
	// Help is sanitized markup.
	Help string `json:"help,omitempty"`
	// HTML holds the rendered control once a renderer filled it in.
	HTML string `json:"html,omitempty"`
}

// OptionView is one option of a select or checkbox group.
type OptionView struct {
	ID       string `json:"id"`
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// FieldsetView groups visible fields under a legend.
type FieldsetView struct {
	Legend string      `json:"legend"`
	Fields []FieldView `json:"fields"`
	HTML   string      `json:"html,omitempty"`
}

// Fieldset names the fields of one group.
type Fieldset struct {
	Legend string
	Fields []string
}

// FormInfo carries the form level data of a view.
type FormInfo struct {
	Name         string
	Container    string
	Action       string
	Method       string
	SubmitText   string
	Status       string
	Fieldsets    []Fieldset
	HiddenInputs []HiddenField
	Errors       []string
}

// NewView builds the view of specs in order. Disabled fields are dropped and
// hidden ones are split off; fieldsets reference visible fields by name and
// skip unknown ones.
func NewView(info FormInfo, specs []*field.Spec) View {
	view := View{
		Name:         info.Name,
		Container:    info.Container,
		Action:       info.Action,
		Method:       info.Method,
		SubmitText:   info.SubmitText,
		Status:       info.Status,
		HiddenInputs: append([]HiddenField(nil), info.HiddenInputs...),
		Errors:       MergeFormErrors(nil, info.Errors...),
		Fields:       []FieldView{},
		Hidden:       []FieldView{},
	}

	byName := make(map[string]FieldView, len(specs))
	for _, spec := range specs {
		if spec == nil || spec.Disabled {
			continue
		}
		fv := NewFieldView(spec)
		if spec.DisplayAs == field.DisplayHidden {
			view.Hidden = append(view.Hidden, fv)
			continue
		}
		view.Fields = append(view.Fields, fv)
		byName[spec.Name] = fv
	}

	for _, set := range info.Fieldsets {
		fsv := FieldsetView{Legend: set.Legend, Fields: []FieldView{}}
		for _, name := range set.Fields {
			if fv, ok := byName[name]; ok {
				fsv.Fields = append(fsv.Fields, fv)
			}
		}
		view.Fieldsets = append(view.Fieldsets, fsv)
	}
	return view
}

// NewFieldView converts one spec.
func NewFieldView(spec *field.Spec) FieldView {
	value := spec.Value
	fv := FieldView{
		Name:       spec.Name,
		FieldName:  spec.FieldName,
		FieldID:    spec.FieldID,
		Label:      spec.Label,
		DisplayAs:  string(spec.DisplayAs),
		InputType:  spec.InputType,
		Value:      value.String(),
		Attributes: spec.Attributes.Clone(),
		Required:   spec.Required,
		Error:      spec.Error,
		ErrorText:  spec.ErrorText,
		Help:       SanitizeHelp(spec.Help),
	}
	if value.IsList() {
		fv.Values = value.Strings()
	}
	if spec.DisplayAs == field.DisplayBool {
		fv.Checked = isChecked(value.String())
	}
	for idx, opt := range spec.Options {
		selected := value.Contains(opt.Value)
		if !value.IsList() {
			selected = value.String() == opt.Value
		}
		fv.Options = append(fv.Options, OptionView{
			ID:       spec.FieldID + "_" + strconv.Itoa(idx),
			Value:    opt.Value,
			Label:    opt.Label,
			Selected: selected,
		})
	}
	return fv
}

func isChecked(value string) bool {
	switch value {
	case "", "0", "false", "off", "no":
		return false
	default:
		return true
	}
}

// Clone returns a copy that shares no slices with v.
func (v View) Clone() View {
	out := v
	out.Fields = cloneFieldViews(v.Fields)
	out.Hidden = cloneFieldViews(v.Hidden)
	out.HiddenInputs = append([]HiddenField(nil), v.HiddenInputs...)
	out.Errors = append([]string(nil), v.Errors...)
	if v.Fieldsets != nil {
		out.Fieldsets = make([]FieldsetView, len(v.Fieldsets))
		for i, set := range v.Fieldsets {
			set.Fields = cloneFieldViews(set.Fields)
			out.Fieldsets[i] = set
		}
	}
	return out
}

func cloneFieldViews(in []FieldView) []FieldView {
	if in == nil {
		return nil
	}
	out := make([]FieldView, len(in))
	for i, fv := range in {
		fv.Values = append([]string(nil), fv.Values...)
		fv.Options = append([]OptionView(nil), fv.Options...)
		fv.Attributes = fv.Attributes.Clone()
		out[i] = fv
	}
	return out
}
