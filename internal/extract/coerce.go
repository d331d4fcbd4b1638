package extract

import "strconv"

// Coercion helpers for walking values returned by JSON. All are total: any
// input shape yields the zero value or the supplied default, never a panic.

// Map returns v as a map, or nil.
func Map(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// List returns v as a slice, or nil.
func List(v any) []any {
	l, _ := v.([]any)
	return l
}

// Str returns v as a string, or "".
func Str(v any) string {
	s, _ := v.(string)
	return s
}

// StrOr returns v as a string, or def when v is not a non-empty string.
func StrOr(v any, def string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return def
}

// Num returns v as a float64, accepting JSON numbers and numeric strings.
func Num(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f
		}
	}
	return 0
}

// NumOr returns v as a float64, or def when v carries no number.
func NumOr(v any, def float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f
		}
	}
	return def
}

// Bool returns v as a bool, or def.
func Bool(v any, def bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return def
}

// Strings flattens a list value into its string elements, stringifying
// numbers and skipping everything else.
func Strings(v any) []string {
	l := List(v)
	if l == nil {
		return nil
	}
	out := make([]string, 0, len(l))
	for _, e := range l {
		switch s := e.(type) {
		case string:
			out = append(out, s)
		case float64:
			out = append(out, strconv.FormatFloat(s, 'g', -1, 64))
		}
	}
	return out
}

// Ints flattens a list value into its integer elements. JSON numbers are
// truncated; numeric strings are parsed.
func Ints(v any) []int {
	l := List(v)
	if l == nil {
		return nil
	}
	out := make([]int, 0, len(l))
	for _, e := range l {
		switch n := e.(type) {
		case float64:
			out = append(out, int(n))
		case string:
			if i, err := strconv.Atoi(n); err == nil {
				out = append(out, i)
			}
		}
	}
	return out
}
