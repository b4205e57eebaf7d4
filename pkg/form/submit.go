package form

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formmanager/pkg/field"
	"github.com/goliatone/go-formmanager/pkg/render"
	"github.com/goliatone/go-formmanager/pkg/request"
	"github.com/goliatone/go-formmanager/pkg/validation"
)

// IsSubmitted reports whether the input carries the form container.
func (m *Manager) IsSubmitted() bool {
	_, ok := m.input.Lookup(m.container)
	return ok
}

// Input returns the submitted values of the form container. Bool fields
// missing from the input read as "0" so unchecked boxes reach the record.
// Nothing submitted yields nil.
func (m *Manager) Input() field.Values {
	node, ok := m.input.Lookup(m.container)
	if !ok {
		return nil
	}
	values := node.Values()
	for _, spec := range m.fields.Specs() {
		if spec.DisplayAs != field.DisplayBool {
			continue
		}
		if _, present := values[spec.Name]; !present {
			values[spec.Name] = field.String("0")
		}
	}
	return values
}

// SetInput replaces the submitted parameters.
func (m *Manager) SetInput(in *request.Input) {
	if in == nil {
		in = request.New()
	}
	m.input = in
}

// Submit validates the submitted input. Without input it returns false and
// leaves the status unset.
func (m *Manager) Submit(ctx context.Context) (bool, error) {
	values := m.Input()
	if len(values) == 0 {
		return false, nil
	}
	return m.SubmitValues(ctx, values)
}

// SubmitValues runs a submission with explicit values. A primary key
// submitted blank drops that field so the store can assign one. The values are assigned, then the record
// rules and the local rules run and every failing field is flagged with its
// message. The result is true only when both passes succeed.
func (m *Manager) SubmitValues(ctx context.Context, values field.Values) (bool, error) {
	if len(values) == 0 {
		return false, nil
	}

	if m.primaryKey != "" {
		if value, ok := values[m.primaryKey]; ok && value.IsEmpty() {
			m.RemoveField(m.primaryKey)
		}
	}

	if err := m.SetValues(ctx, values); err != nil {
		return false, err
	}
	m.formErrors = nil
	for _, spec := range m.fields.Specs() {
		spec.Override(field.KeyError, false)
		spec.Override(field.KeyErrorText, "")
	}

	recordValid := true
	if m.record != nil {
		errs, err := m.record.Validate(ctx)
		if err != nil {
			return false, fmt.Errorf("form: validate record: %w", err)
		}
		if len(errs) > 0 {
			recordValid = false
			m.markErrors(errs)
		}
	}

	result := m.validator().Check(values, m.rules)
	if !result.Valid {
		m.markErrors(result.Errors())
	}

	ok := recordValid && result.Valid
	m.status = StatusFail
	if ok {
		m.status = StatusSuccess
	}
	m.logger.Debug().Str("status", string(m.status)).Bool("record_valid", recordValid).Int("issues", len(result.Issues)).Msg("form submitted")
	return ok, nil
}

// SubmitStatus returns the outcome of the last submission.
func (m *Manager) SubmitStatus() Status {
	return m.status
}

// SaveObject persists the bound record.
func (m *Manager) SaveObject(ctx context.Context) (bool, error) {
	if m.record == nil {
		return false, ErrNoRecord
	}
	if err := m.record.Save(ctx); err != nil {
		return false, fmt.Errorf("form: save record: %w", err)
	}
	m.logger.Debug().Str("model", m.record.Model()).Msg("record saved")
	return true, nil
}

// markErrors flags the fields named in errs. Keys may be plain names or
// container paths; messages for unknown fields become form level errors.
func (m *Manager) markErrors(errs map[string]string) {
	payload := make(map[string][]string, len(errs))
	for key, message := range errs {
		payload[key] = []string{message}
	}
	mapping := render.MapErrorPayload(m.fields.Names(), payload)
	for name, messages := range mapping.Fields {
		spec, ok := m.fields.Get(name)
		if !ok || len(messages) == 0 {
			continue
		}
		spec.Override(field.KeyError, true)
		spec.Override(field.KeyErrorText, messages[0])
	}
	m.formErrors = render.MergeFormErrors(m.formErrors, mapping.Form...)
}

func (m *Manager) validator() *validation.Validator {
	registry := m.cfg.rules
	if registry == nil {
		registry = defaultRules
	}
	labels := make(map[string]string, m.fields.Len())
	for name, spec := range m.fields.All() {
		labels[name] = spec.Label
	}
	return validation.NewValidator(registry,
		validation.WithMessages(m.messages),
		validation.WithLabels(labels),
	)
}
