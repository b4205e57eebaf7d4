package fieldconfig

import (
	"regexp"
	"strings"
)

// Override is one "key: value" line of a column comment.
type Override struct {
	Key   string
	Value string
	// Force is set when the value carried a leading "!".
	Force bool
}

var commentSeparator = regexp.MustCompile(`\s*:\s*`)

// ParseComment splits a column comment into overrides. Lines without a colon
// are ignored; only the first colon separates key and value so values may
// contain colons themselves.
func ParseComment(comment string) []Override {
	if strings.TrimSpace(comment) == "" {
		return nil
	}
	var out []Override
	for _, line := range strings.Split(comment, "\n") {
		if !strings.Contains(line, ":") {
			continue
		}
		parts := commentSeparator.Split(line, 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		if key == "" {
			continue
		}
		value := strings.TrimSpace(parts[1])
		force := false
		if strings.HasPrefix(value, "!") {
			force = true
			value = strings.TrimSpace(value[1:])
		}
		out = append(out, Override{Key: key, Value: value, Force: force})
	}
	return out
}
