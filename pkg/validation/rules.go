package validation

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goliatone/go-formmanager/pkg/field"
)

// Built-in rule names.
const (
	RuleNotEmpty    = "not_empty"
	RuleMinLength   = "min_length"
	RuleMaxLength   = "max_length"
	RuleExactLength = "exact_length"
	RuleEmail       = "email"
	RuleURL         = "url"
	RuleRegex       = "regex"
	RuleDigit       = "digit"
	RuleNumeric     = "numeric"
	RuleInteger     = "integer"
	RuleDecimal     = "decimal"
	RuleRange       = "range"
	RuleMatches     = "matches"
	RuleInArray     = "in_array"
	RuleDate        = "date"
)

// DateLayouts lists the formats the date rule accepts.
var DateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	"2006-01-02T15:04",
	time.RFC3339,
	"2006/01/02",
}

var numericPattern = regexp.MustCompile(`^-?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)$`)

func registerBuiltins(r *Registry) {
	r.Register(RuleNotEmpty, notEmpty, RunOnEmpty())
	r.Register(RuleMinLength, lengthRule(func(n, want int) bool { return n >= want }))
	r.Register(RuleMaxLength, lengthRule(func(n, want int) bool { return n <= want }))
	r.Register(RuleExactLength, lengthRule(func(n, want int) bool { return n == want }))
	r.Register(RuleEmail, eachString(isEmail))
	r.Register(RuleURL, eachString(isURL))
	r.Register(RuleRegex, matchRegex)
	r.Register(RuleDigit, eachString(isDigit))
	r.Register(RuleNumeric, eachString(numericPattern.MatchString))
	r.Register(RuleInteger, eachString(isInteger))
	r.Register(RuleDecimal, decimal)
	r.Register(RuleRange, inRange)
	r.Register(RuleMatches, matches, RunOnEmpty())
	r.Register(RuleInArray, inArray)
	r.Register(RuleDate, eachString(isDate))
}

func notEmpty(value field.Value, _ []string, _ field.Values) (bool, error) {
	return !value.IsEmpty(), nil
}

func lengthRule(cmp func(n, want int) bool) RuleFunc {
	return func(value field.Value, params []string, _ field.Values) (bool, error) {
		want, err := intParam(params, 0)
		if err != nil {
			return false, err
		}
		return cmp(utf8.RuneCountInString(value.String()), want), nil
	}
}

// eachString lifts a string predicate; list values pass when every item does.
func eachString(pred func(string) bool) RuleFunc {
	return func(value field.Value, _ []string, _ field.Values) (bool, error) {
		for _, item := range value.Strings() {
			if !pred(item) {
				return false, nil
			}
		}
		return true, nil
	}
}

func isEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s && strings.Contains(s[strings.LastIndex(s, "@"):], ".")
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

func isDigit(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isInteger(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func isDate(s string) bool {
	for _, layout := range DateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func matchRegex(value field.Value, params []string, _ field.Values) (bool, error) {
	if len(params) == 0 {
		return false, fmt.Errorf("validation: regex: pattern required")
	}
	re, err := regexp.Compile(params[0])
	if err != nil {
		return false, fmt.Errorf("validation: regex: %w", err)
	}
	return re.MatchString(value.String()), nil
}

// decimal takes the number of places (default 2) and an optional number of
// integer digits.
func decimal(value field.Value, params []string, _ field.Values) (bool, error) {
	places := 2
	if len(params) > 0 {
		n, err := intParam(params, 0)
		if err != nil {
			return false, err
		}
		places = n
	}
	digits := "+"
	if len(params) > 1 {
		n, err := intParam(params, 1)
		if err != nil {
			return false, err
		}
		digits = "{" + strconv.Itoa(n) + "}"
	}
	re := regexp.MustCompile(`^[+-]?[0-9]` + digits + `\.[0-9]{` + strconv.Itoa(places) + `}$`)
	return re.MatchString(value.String()), nil
}

func inRange(value field.Value, params []string, _ field.Values) (bool, error) {
	if len(params) < 2 {
		return false, fmt.Errorf("validation: range: min and max required")
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(params[0]), 64)
	if err != nil {
		return false, fmt.Errorf("validation: range: min: %w", err)
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(params[1]), 64)
	if err != nil {
		return false, fmt.Errorf("validation: range: max: %w", err)
	}
	if !numericPattern.MatchString(value.String()) {
		return false, nil
	}
	n, err := strconv.ParseFloat(value.String(), 64)
	if err != nil {
		return false, nil
	}
	return n >= lo && n <= hi, nil
}

func matches(value field.Value, params []string, values field.Values) (bool, error) {
	if len(params) == 0 {
		return false, fmt.Errorf("validation: matches: field required")
	}
	other, _ := values.Get(params[0])
	return value.String() == other.String(), nil
}

func inArray(value field.Value, params []string, _ field.Values) (bool, error) {
	for _, item := range value.Strings() {
		if !slices.Contains(params, item) {
			return false, nil
		}
	}
	return true, nil
}

func intParam(params []string, idx int) (int, error) {
	if idx >= len(params) {
		return 0, fmt.Errorf("validation: parameter %d required", idx+1)
	}
	n, err := strconv.Atoi(strings.TrimSpace(params[idx]))
	if err != nil {
		return 0, fmt.Errorf("validation: parameter %d: %w", idx+1, err)
	}
	return n, nil
}
