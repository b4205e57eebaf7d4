package sqlstore

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-formmanager/pkg/schema"
)

// ColumnType is a parsed declared column type.
type ColumnType struct {
	// DataType is the lower-cased type name without parameters, e.g.
	// "varchar" or "enum".
	DataType string
	// BaseType is one of the schema.BaseType* constants.
	BaseType string
	// Options lists the members of enum and set types.
	Options []string
	// Length is the character maximum length of char and text types.
	Length int
	// Display is the raw parameter list of numeric types, e.g. "1" for
	// tinyint(1) or "10,2" for decimal(10,2).
	Display  string
	Unsigned bool
}

var declaredType = regexp.MustCompile(`^\s*([a-z][a-z ]*?)\s*(?:\((.*)\))?\s*((?:\s*(?:unsigned|signed|zerofill))*)\s*$`)

var baseTypes = map[string]string{
	"tinyint":          schema.BaseTypeInt,
	"smallint":         schema.BaseTypeInt,
	"mediumint":        schema.BaseTypeInt,
	"int":              schema.BaseTypeInt,
	"integer":          schema.BaseTypeInt,
	"bigint":           schema.BaseTypeInt,
	"float":            schema.BaseTypeFloat,
	"double":           schema.BaseTypeFloat,
	"double precision": schema.BaseTypeFloat,
	"real":             schema.BaseTypeFloat,
	"decimal":          schema.BaseTypeFloat,
	"numeric":          schema.BaseTypeFloat,
	"bool":             schema.BaseTypeBool,
	"boolean":          schema.BaseTypeBool,
}

var lengthTypes = map[string]bool{
	"char":              true,
	"varchar":           true,
	"character":         true,
	"character varying": true,
	"nchar":             true,
	"nvarchar":          true,
	"varying character": true,
	"binary":            true,
	"varbinary":         true,
}

// ParseType reads a declared type such as "varchar(120)",
// "enum('draft','live')" or "int(10) unsigned". Booleans are reported as
// tinyint(1) so they render as checkboxes. Unknown or empty declarations
// yield a string column.
func ParseType(declared string) ColumnType {
	raw := strings.ToLower(strings.TrimSpace(declared))
	if raw == "" {
		return ColumnType{BaseType: schema.BaseTypeString}
	}

	// enum and set members may contain anything, including parentheses.
	trimmed := strings.TrimSpace(declared)
	for _, kind := range []string{"enum", "set"} {
		if len(trimmed) <= len(kind) || !strings.EqualFold(trimmed[:len(kind)], kind) {
			continue
		}
		rest := strings.TrimLeft(trimmed[len(kind):], " \t")
		if len(rest) < 2 || rest[0] != '(' || !strings.HasSuffix(rest, ")") {
			continue
		}
		return ColumnType{DataType: kind, BaseType: schema.BaseTypeString, Options: parseMembers(rest[1 : len(rest)-1])}
	}

	m := declaredType.FindStringSubmatch(raw)
	if m == nil {
		return ColumnType{DataType: raw, BaseType: schema.BaseTypeString}
	}
	ct := ColumnType{
		DataType: strings.Join(strings.Fields(m[1]), " "),
		Unsigned: strings.Contains(m[3], "unsigned"),
	}
	params := strings.ReplaceAll(m[2], " ", "")

	ct.BaseType = baseTypes[ct.DataType]
	if ct.BaseType == "" {
		ct.BaseType = schema.BaseTypeString
	}

	switch {
	case ct.BaseType == schema.BaseTypeBool:
		ct.DataType = "tinyint"
		ct.BaseType = schema.BaseTypeInt
		ct.Display = "1"
	case lengthTypes[ct.DataType]:
		if n, err := strconv.Atoi(params); err == nil {
			ct.Length = n
		}
	case ct.BaseType == schema.BaseTypeInt || ct.BaseType == schema.BaseTypeFloat:
		ct.Display = params
	}
	return ct
}

// parseMembers splits a quoted member list: 'a','b''s',"c".
func parseMembers(inner string) []string {
	var (
		out     []string
		current strings.Builder
		quote   rune
		inItem  bool
	)
	runes := []rune(inner)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case quote != 0 && r == quote:
			if i+1 < len(runes) && runes[i+1] == quote {
				current.WriteRune(r)
				i++
				continue
			}
			quote = 0
		case quote != 0:
			current.WriteRune(r)
		case r == '\'' || r == '"':
			quote = r
			inItem = true
		case r == ',':
			if inItem {
				out = append(out, current.String())
			}
			current.Reset()
			inItem = false
		case r == ' ' || r == '\t' || r == '\n':
		default:
			current.WriteRune(r)
			inItem = true
		}
	}
	if inItem {
		out = append(out, current.String())
	}
	return out
}

// column builds the schema column of one table_info row.
func column(name, declared string, notNull, hasDefault bool, pk int) schema.Column {
	ct := ParseType(declared)
	col := schema.Column{
		Name:                   name,
		DataType:               ct.DataType,
		Type:                   ct.BaseType,
		IsNullable:             !notNull && pk == 0,
		HasDefault:             hasDefault,
		CharacterMaximumLength: ct.Length,
		Display:                ct.Display,
		Options:                ct.Options,
	}
	if pk > 0 {
		col.Key = schema.KeyPrimary
	}
	return col
}
