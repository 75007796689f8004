package rjson

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrictScalars(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  Value
	}{
		{"quoted string", `"hello"`, "hello"},
		{"integer", `42`, int64(42)},
		{"negative integer", `-7`, int64(-7)},
		{"float", `3.5`, 3.5},
		{"exponent", `1e3`, 1000.0},
		{"true", `true`, true},
		{"false", `false`, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse([]byte(tc.input))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseNull(t *testing.T) {
	got, err := Parse([]byte(`null`))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestParseBareTokens(t *testing.T) {
	got, err := Parse([]byte(`{name: Sheet One, title: 编号, empty: {}}`))
	require.NoError(t, err)
	obj, ok := got.(*Object)
	require.True(t, ok)
	assert.Equal(t, []string{"name", "title", "empty"}, obj.Keys())

	v, _ := obj.Get("name")
	assert.Equal(t, "Sheet One", v)
	v, _ = obj.Get("title")
	assert.Equal(t, "编号", v)
}

func TestParseBareTokenTrimsSurroundingSpaces(t *testing.T) {
	got, err := Parse([]byte(`[ padded value , second ]`))
	require.NoError(t, err)
	assert.Equal(t, []Value{"padded value", "second"}, got)
}

func TestParseNestedStructure(t *testing.T) {
	src := []byte(`{
		sheets: [
			{name: S1, columns: [{title: A, fill_with: "0"}]},
			{name: S2, columns: []}
		]
	}`)
	got, err := Parse(src)
	require.NoError(t, err)
	root, ok := got.(*Object)
	require.True(t, ok)

	sheetsVal, ok := root.Get("sheets")
	require.True(t, ok)
	sheets, ok := sheetsVal.([]Value)
	require.True(t, ok)
	require.Len(t, sheets, 2)

	s1 := sheets[0].(*Object)
	name, _ := s1.Get("name")
	assert.Equal(t, "S1", name)
	cols, _ := s1.Get("columns")
	col := cols.([]Value)[0].(*Object)
	fill, _ := col.Get("fill_with")
	assert.Equal(t, "0", fill)
}

func TestParseMissingCommaInArrayFails(t *testing.T) {
	_, err := Parse([]byte("[a, b\nc]"))
	require.Error(t, err)
	var synErr *SyntaxError
	require.True(t, errors.As(err, &synErr))
	assert.Contains(t, synErr.Msg, "missing ','")
}

func TestParseMissingCommaInObjectFails(t *testing.T) {
	_, err := Parse([]byte("{a: 1\nb: 2}"))
	require.Error(t, err)
	var synErr *SyntaxError
	require.True(t, errors.As(err, &synErr))
	assert.Contains(t, synErr.Msg, "missing ','")
}

func TestParseMissingSpaceAfterSeparatorFails(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"after colon", `{a:bare}`},
		{"after comma in array", `[a,b]`},
		{"after comma before key", `{a: 1,b: 2}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.input))
			var synErr *SyntaxError
			require.True(t, errors.As(err, &synErr), "expected SyntaxError, got %v", err)
			assert.Contains(t, synErr.Msg, "missing space")
		})
	}
}

func TestParseQuotedValuesNeedNoSpace(t *testing.T) {
	got, err := Parse([]byte(`{a:"x", b:[1, 2]}`))
	require.NoError(t, err)
	obj := got.(*Object)
	a, _ := obj.Get("a")
	assert.Equal(t, "x", a)
	b, _ := obj.Get("b")
	assert.Equal(t, []Value{int64(1), int64(2)}, b)
}

func TestParseUnterminatedStringFails(t *testing.T) {
	_, err := Parse([]byte(`{a: "oops}`))
	var synErr *SyntaxError
	require.True(t, errors.As(err, &synErr))
	assert.Contains(t, synErr.Msg, "unterminated")
	assert.Equal(t, 4, synErr.Offset)
}

func TestParseTrailingCharactersFail(t *testing.T) {
	_, err := Parse([]byte(`{a: 1} extra`))
	var synErr *SyntaxError
	require.True(t, errors.As(err, &synErr))
	assert.Contains(t, synErr.Msg, "trailing characters")
}

func TestParseStringEscapes(t *testing.T) {
	got, err := Parse([]byte(`"line\none\ttab A\\"`))
	require.NoError(t, err)
	assert.Equal(t, "line\none\ttab A\\", got)
}

func TestParseEmptyContainers(t *testing.T) {
	got, err := Parse([]byte(`{a: [], b: {}}`))
	require.NoError(t, err)
	obj := got.(*Object)
	a, _ := obj.Get("a")
	assert.Equal(t, []Value{}, a)
	b, _ := obj.Get("b")
	assert.Equal(t, 0, b.(*Object).Len())
}

func TestMarshalRoundTrip(t *testing.T) {
	doc := NewObject().
		Set("plain", "no quotes needed").
		Set("needs quotes", "a, b: c").
		Set("count", int64(3)).
		Set("ratio", 0.25).
		Set("whole ratio", float64(2)).
		Set("flag", true).
		Set("nothing", nil).
		Set("list", []Value{"x", int64(1), NewObject().Set("k", "v")}).
		Set("numeric string", "42")

	raw, err := Marshal(doc)
	require.NoError(t, err)

	back, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, doc, back)
}

func TestMarshalIntegralFloatKeepsDecimalPoint(t *testing.T) {
	raw, err := Marshal(float64(2))
	require.NoError(t, err)
	assert.Equal(t, "2.0", string(raw))

	back, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, float64(2), back)
}

func TestMarshalQuotesOnlyWhereRequired(t *testing.T) {
	raw, err := Marshal(NewObject().Set("k", "bare token").Set("n", int64(5)).Set("s", "42"))
	require.NoError(t, err)
	assert.Equal(t, `{k: bare token, n: 5, s: "42"}`, string(raw))
}
