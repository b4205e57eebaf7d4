// Package field holds the form field model: the per-input Spec, its ordered
// Options and Attributes, the Value carried between request and record, and
// the ordered Set that defines render order.
//
// Specs track which properties were assigned. Configuration code calls
// SetDefault so a value placed earlier (by hand, by a relation, by a column
// comment) is never overwritten; Override is reserved for explicit requests
// such as DisableField or a "!" prefixed comment value.
package field
