package prospect

import (
	"regexp"
	"strconv"
	"strings"
)

var markupPattern = regexp.MustCompile(`<[^>]+>`)

// NormalizeName produces the join key used across all sources. Intentionally
// just trim+lowercase: two different players with the same normalized name
// collapse into one key, which mirrors upstream behavior.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CleanName strips embedded markup from a raw provider name. The roster stat
// feed wraps names in anchor tags; a permissive tag-strip keeps malformed
// markup from failing the fetch.
func CleanName(name string) string {
	if name == "" {
		return ""
	}
	return strings.TrimSpace(markupPattern.ReplaceAllString(name, ""))
}

// PrimaryPosition reduces a multi-position string to its first token.
// Empty input returns itself unchanged.
func PrimaryPosition(position string) string {
	if position == "" {
		return position
	}
	first, _, _ := strings.Cut(position, "/")
	return strings.TrimSpace(first)
}

// ParseNumeric coerces a raw string to a float. Empty or unparsable input
// yields nil, never zero: callers must distinguish unknown from zero for
// ages, ranks, and rate stats.
func ParseNumeric(raw string) *float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil
	}
	return &value
}

// NumericValue coerces a decoded JSON value of unknown type. Providers send
// the same field as a number, a numeric string, or null depending on the row.
func NumericValue(v any) *float64 {
	switch value := v.(type) {
	case nil:
		return nil
	case float64:
		out := value
		return &out
	case float32:
		out := float64(value)
		return &out
	case int:
		out := float64(value)
		return &out
	case int64:
		out := float64(value)
		return &out
	case string:
		return ParseNumeric(value)
	default:
		return nil
	}
}

// IntValue coerces like NumericValue and truncates to an int pointer.
// Rank fields are integral upstream but arrive as floats.
func IntValue(v any) *int {
	f := NumericValue(v)
	if f == nil {
		return nil
	}
	out := int(*f)
	return &out
}

// Float returns a pointer to v. Shorthand for building records in tests and
// client mapping code.
func Float(v float64) *float64 {
	return &v
}

// Int returns a pointer to v.
func Int(v int) *int {
	return &v
}
