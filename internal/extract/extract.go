// Package extract recovers structured JSON values from LLM completion text.
// Model output is messy: fenced code blocks, commentary around the payload,
// trailing commas, JS-style comments, stray control characters. JSON walks
// an ordered fallback chain and returns nil rather than erroring, so callers
// can always coerce the result into their schema.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fencedRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\[.*?\\]|\\{.*?\\})\\s*```")

var (
	trailingCommaObjRe = regexp.MustCompile(`,\s*}`)
	trailingCommaArrRe = regexp.MustCompile(`,\s*]`)
	lineCommentRe      = regexp.MustCompile(`//.*?\n`)
	blockCommentRe     = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// JSON extracts a JSON value from arbitrary completion text. The fallback
// order is: direct parse, fenced code block, first balanced array, first
// balanced object. Empty input and completer error strings (the "Error:"
// prefix) yield nil, as does total extraction failure. Never panics.
func JSON(text string) any {
	if text == "" || strings.HasPrefix(text, "Error:") {
		return nil
	}

	trimmed := strings.TrimSpace(text)

	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err == nil {
		return v
	}

	if m := fencedRe.FindStringSubmatch(trimmed); m != nil {
		if v, ok := parseCleaned(m[1]); ok {
			return v
		}
	}

	if v, ok := parseBalanced(trimmed, '[', ']'); ok {
		return v
	}
	if v, ok := parseBalanced(trimmed, '{', '}'); ok {
		return v
	}

	return nil
}

// parseBalanced finds the first open delimiter, cleans the remainder, then
// depth-counts to the matching close delimiter and parses that span.
// Cleaning happens before counting so stripped comments cannot unbalance
// the delimiters.
func parseBalanced(text string, open, close byte) (any, bool) {
	start := strings.IndexByte(text, open)
	if start < 0 {
		return nil, false
	}

	candidate := clean(text[start:])
	depth := 0
	for i := 0; i < len(candidate); i++ {
		switch candidate[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				var v any
				if err := json.Unmarshal([]byte(candidate[:i+1]), &v); err == nil {
					return v, true
				}
				return nil, false
			}
		}
	}
	return nil, false
}

func parseCleaned(s string) (any, bool) {
	var v any
	if err := json.Unmarshal([]byte(clean(s)), &v); err == nil {
		return v, true
	}
	return nil, false
}

// clean repairs the JSON-adjacent syntax models emit: trailing commas,
// line and block comments, and control characters other than whitespace.
func clean(s string) string {
	s = trailingCommaObjRe.ReplaceAllString(s, "}")
	s = trailingCommaArrRe.ReplaceAllString(s, "]")
	s = lineCommentRe.ReplaceAllString(s, "\n")
	s = blockCommentRe.ReplaceAllString(s, "")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= 32 || r == '\n' || r == '\r' || r == '\t' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
