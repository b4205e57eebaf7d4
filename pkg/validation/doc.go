// Package validation runs named rules against submitted form values.
//
// Rules follow the classic framework semantics: a rule other than not_empty
// or matches is skipped when the value is empty, so optional fields only get
// format checks once something was entered. Messages are templates keyed by
// rule name, optionally narrowed to one field with "field.rule".
package validation
