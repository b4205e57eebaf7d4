package schema

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// KeyPrimary marks the primary key column in Column.Key.
const KeyPrimary = "PRI"

// Base types reported in Column.Type.
const (
	BaseTypeInt    = "int"
	BaseTypeFloat  = "float"
	BaseTypeBool   = "bool"
	BaseTypeString = "string"
)

// Column describes one table column as reported by the record store. Field
// names follow the information_schema vocabulary so annotations and dumps read
// the same as the database side.
type Column struct {
	Name                   string   `json:"column_name" yaml:"column_name"`
	Key                    string   `json:"key,omitempty" yaml:"key,omitempty"`
	DataType               string   `json:"data_type" yaml:"data_type"`
	Type                   string   `json:"type" yaml:"type"`
	IsNullable             bool     `json:"is_nullable" yaml:"is_nullable"`
	HasDefault             bool     `json:"has_default,omitempty" yaml:"has_default,omitempty"`
	CharacterMaximumLength int      `json:"character_maximum_length,omitempty" yaml:"character_maximum_length,omitempty"`
	Display                string   `json:"display,omitempty" yaml:"display,omitempty"`
	Comment                string   `json:"comment,omitempty" yaml:"comment,omitempty"`
	Options                []string `json:"options,omitempty" yaml:"options,omitempty"`
}

// IsPrimary reports whether the column is the primary key.
func (c Column) IsPrimary() bool {
	return strings.EqualFold(c.Key, KeyPrimary)
}

// BelongsTo describes a many-to-one relation from the record to another model.
// Model defaults to Alias and ForeignKey defaults to Model + "_id".
type BelongsTo struct {
	Alias      string `json:"alias" yaml:"alias"`
	Model      string `json:"model,omitempty" yaml:"model,omitempty"`
	ForeignKey string `json:"foreign_key,omitempty" yaml:"foreign_key,omitempty"`
}

// Resolve returns the related model name and the local foreign key column.
func (b BelongsTo) Resolve() (model, foreignKey string) {
	model = strings.TrimSpace(b.Model)
	if model == "" {
		model = strings.TrimSpace(b.Alias)
	}
	foreignKey = strings.TrimSpace(b.ForeignKey)
	if foreignKey == "" {
		foreignKey = model + "_id"
	}
	return model, foreignKey
}

// StringValue renders a raw column value the way a form input expects it.
// NULL becomes the empty string.
func StringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		if v {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format("2006-01-02 15:04:05")
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
