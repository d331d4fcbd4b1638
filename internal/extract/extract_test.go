package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONDirect(t *testing.T) {
	v := JSON(`{"a": 1, "b": ["x", "y"]}`)
	m, ok := v.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), m["a"])
	assert.Equal(t, []any{"x", "y"}, m["b"])
}

func TestJSONEmptyAndError(t *testing.T) {
	assert.Nil(t, JSON(""))
	assert.Nil(t, JSON("Error: rate limited"))
	// Prefix check applies to raw text, not trimmed.
	assert.NotNil(t, JSON("  {\"a\": 1}"))
}

func TestJSONFencedBlock(t *testing.T) {
	text := "Here is the result:\n```json\n{\"gap\": \"limited evaluation\"}\n```\nHope that helps."
	m, ok := JSON(text).(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "limited evaluation", m["gap"])
}

func TestJSONFencedBlockNoLanguageTag(t *testing.T) {
	text := "```\n[1, 2, 3]\n```"
	assert.Equal(t, []any{float64(1), float64(2), float64(3)}, JSON(text))
}

func TestJSONEmbeddedArrayPreferredOverObject(t *testing.T) {
	// An array inside prose is found before any object scan.
	text := `The insights are [{"title": "A"}, {"title": "B"}] as requested.`
	l, ok := JSON(text).([]any)
	require.True(t, ok)
	assert.Len(t, l, 2)
}

func TestJSONEmbeddedObject(t *testing.T) {
	text := `Sure! The analysis: {"dialogue_message": "hi", "cross_paper_gaps": []} Done.`
	m, ok := JSON(text).(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "hi", m["dialogue_message"])
}

func TestJSONTrailingCommas(t *testing.T) {
	text := "```json\n{\"a\": [1, 2,], \"b\": {\"c\": 3,},}\n```"
	m, ok := JSON(text).(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{float64(1), float64(2)}, m["a"])
}

func TestJSONComments(t *testing.T) {
	text := "result: {\"a\": 1, // inline note\n\"b\": 2 /* block\nnote */}"
	m, ok := JSON(text).(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(2), m["b"])
}

func TestJSONControlCharacters(t *testing.T) {
	text := "{\"a\": \"x\x01y\"}"
	m, ok := JSON(text).(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "xy", m["a"])
}

func TestJSONNestedBracketsBalanced(t *testing.T) {
	text := `prefix {"outer": {"inner": [1, {"deep": true}]}} suffix`
	m, ok := JSON(text).(map[string]any)
	require.True(t, ok)
	outer, ok := m["outer"].(map[string]any)
	require.True(t, ok)
	assert.NotNil(t, outer["inner"])
}

func TestJSONGarbageReturnsNil(t *testing.T) {
	for _, text := range []string{
		"no json here at all",
		"{unclosed",
		"[1, 2",
		"]]}}{{[[",
	} {
		assert.Nil(t, JSON(text), "input %q", text)
	}
}

func TestCoercionHelpersTotal(t *testing.T) {
	inputs := []any{nil, "s", 3.14, true, []any{1}, map[string]any{}, struct{}{}}
	for _, v := range inputs {
		assert.NotPanics(t, func() {
			Map(v)
			List(v)
			Str(v)
			StrOr(v, "d")
			Num(v)
			NumOr(v, 1)
			Bool(v, false)
			Strings(v)
			Ints(v)
		})
	}
}

func TestNumParsesStrings(t *testing.T) {
	assert.Equal(t, 7.5, Num("7.5"))
	assert.Equal(t, 0.0, Num("abc"))
	assert.Equal(t, 5.0, NumOr(nil, 5))
	assert.Equal(t, 2.0, NumOr(float64(2), 5))
}

func TestStringsAndInts(t *testing.T) {
	l := []any{"a", float64(2), true, "b"}
	assert.Equal(t, []string{"a", "2", "b"}, Strings(l))
	assert.Equal(t, []int{2, 3, 4}, Ints([]any{float64(2), "3", float64(4.9), "x"}))
}
