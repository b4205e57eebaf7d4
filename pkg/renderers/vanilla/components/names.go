package components

import "github.com/goliatone/go-formmanager/pkg/field"

// Built-in component names, one per display kind.
const (
	NameText       = string(field.DisplayText)
	NameTextarea   = string(field.DisplayTextarea)
	NameSelect     = string(field.DisplaySelect)
	NameCheckboxes = string(field.DisplayCheckboxes)
	NameBool       = string(field.DisplayBool)
	NameHidden     = string(field.DisplayHidden)
)
