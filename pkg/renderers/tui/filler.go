// Package tui fills a form from the terminal. Each visible field becomes a
// prompt matching its display type and the answers go through the normal
// form submission, so record and local rules apply exactly as they do for
// HTTP posts.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formmanager/pkg/field"
	"github.com/goliatone/go-formmanager/pkg/form"
)

const (
	defaultAttempts = 3
	emptyOption     = "(none)"
)

// Filler prompts for the fields of a form.
type Filler struct {
	driver   Driver
	attempts int
	logger   zerolog.Logger
	theme    Theme
}

// New returns a Filler prompting on stdin/stdout unless WithDriver is given.
func New(opts ...Option) *Filler {
	f := &Filler{
		attempts: defaultAttempts,
		logger:   zerolog.Nop(),
		theme:    Theme{ErrorPrefix: "! "},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	if f.driver == nil {
		f.driver = NewSurveyDriver(os.Stdin, os.Stdout, os.Stderr)
	}
	return f
}

// Fill prompts for every visible, enabled field and submits the answers. A
// failing submission reports the messages and asks again for the flagged
// fields until the attempts run out. It returns the final submit result.
func (f *Filler) Fill(ctx context.Context, m *form.Manager) (bool, error) {
	if m == nil {
		return false, ErrNoForm
	}

	values := field.Values{}
	var pending []*field.Spec
	for _, spec := range m.Fields() {
		values[spec.Name] = spec.Value
		if promptable(spec) {
			pending = append(pending, spec)
		}
	}

	for attempt := 1; ; attempt++ {
		for _, spec := range pending {
			value, err := f.prompt(ctx, spec)
			if err != nil {
				return false, fmt.Errorf("tui: %s: %w", spec.Name, err)
			}
			values[spec.Name] = value
		}

		ok, err := m.SubmitValues(ctx, values)
		if err != nil {
			return false, err
		}
		f.logger.Debug().Str("form", m.Name()).Int("attempt", attempt).Bool("ok", ok).Msg("form filled")
		if ok {
			return true, nil
		}

		pending = pending[:0]
		for _, msg := range m.Errors() {
			f.info(ctx, f.theme.ErrorPrefix+msg)
		}
		for _, spec := range m.Fields() {
			if !spec.Error {
				continue
			}
			f.info(ctx, f.theme.ErrorPrefix+label(spec)+": "+spec.ErrorText)
			if promptable(spec) {
				pending = append(pending, spec)
			}
		}
		if attempt >= f.attempts || len(pending) == 0 {
			return false, nil
		}
	}
}

func (f *Filler) prompt(ctx context.Context, spec *field.Spec) (field.Value, error) {
	message := label(spec)
	current := spec.Value.String()

	switch spec.DisplayAs {
	case field.DisplayBool:
		yes, err := f.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: checked(current), Help: spec.Help})
		if err != nil {
			return field.Value{}, err
		}
		if yes {
			return field.String("1"), nil
		}
		return field.String("0"), nil

	case field.DisplaySelect:
		labels := optionLabels(spec.Options)
		idx, err := f.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      labels,
			DefaultIndex: optionIndex(spec.Options, current),
			Help:         spec.Help,
		})
		if err != nil {
			return field.Value{}, err
		}
		if idx < 0 || idx >= len(spec.Options) {
			return spec.Value, nil
		}
		return field.String(spec.Options[idx].Value), nil

	case field.DisplayCheckboxes:
		var defaults []int
		for i, opt := range spec.Options {
			if spec.Value.Contains(opt.Value) {
				defaults = append(defaults, i)
			}
		}
		picked, err := f.driver.MultiSelect(ctx, SelectConfig{
			Message:  message,
			Options:  optionLabels(spec.Options),
			Defaults: defaults,
			Help:     spec.Help,
		})
		if err != nil {
			return field.Value{}, err
		}
		items := make([]string, 0, len(picked))
		for _, idx := range picked {
			if idx >= 0 && idx < len(spec.Options) {
				items = append(items, spec.Options[idx].Value)
			}
		}
		return field.List(items...), nil

	case field.DisplayTextarea:
		text, err := f.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: current, Help: spec.Help})
		if err != nil {
			return field.Value{}, err
		}
		return field.String(text), nil
	}

	cfg := InputConfig{Message: message, Default: current, Help: spec.Help, Validator: required(spec)}
	var (
		text string
		err  error
	)
	if spec.InputType == "password" {
		text, err = f.driver.Password(ctx, cfg)
	} else {
		text, err = f.driver.Input(ctx, cfg)
	}
	if err != nil {
		return field.Value{}, err
	}
	return field.String(text), nil
}

func (f *Filler) info(ctx context.Context, msg string) {
	if err := f.driver.Info(ctx, msg); err != nil {
		f.logger.Debug().Err(err).Msg("print message")
	}
}

func promptable(spec *field.Spec) bool {
	return spec.DisplayAs != field.DisplayHidden && !spec.Disabled
}

func label(spec *field.Spec) string {
	if spec.Label != "" {
		return spec.Label
	}
	return field.DefaultLabel(spec.Name)
}

func required(spec *field.Spec) func(string) error {
	if !spec.Required {
		return nil
	}
	return func(text string) error {
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("%s is required", label(spec))
		}
		return nil
	}
}

func optionLabels(opts field.Options) []string {
	out := make([]string, len(opts))
	for i, opt := range opts {
		switch {
		case opt.Label != "":
			out[i] = opt.Label
		case opt.Value != "":
			out[i] = opt.Value
		default:
			out[i] = emptyOption
		}
	}
	return out
}

func optionIndex(opts field.Options, value string) int {
	for i, opt := range opts {
		if opt.Value == value {
			return i
		}
	}
	return 0
}

func checked(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
