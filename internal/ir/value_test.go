package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueSealed(t *testing.T) {
	var _ Value = Null{}
	var _ Value = String("test")
	var _ Value = Int(42)
	var _ Value = Bool(true)
	var _ Value = Array{String("a"), Int(1)}
	var _ Value = Object{"key": String("value")}
}

func TestObjectSortedKeys(t *testing.T) {
	obj := Object{
		"zebra":  String("z"),
		"apple":  String("a"),
		"banana": String("b"),
	}

	assert.Equal(t, []string{"apple", "banana", "zebra"}, obj.SortedKeys())
}

func TestSortedKeysUTF16Order(t *testing.T) {
	// U+1F600 encodes as surrogates 0xD83D 0xDE00 in UTF-16, which sort
	// before U+FF5E. UTF-8 byte order would put the emoji last.
	obj := Object{
		"\uFF5E":     Int(1),
		"\U0001F600": Int(2),
	}

	assert.Equal(t, []string{"\U0001F600", "\uFF5E"}, obj.SortedKeys())
}

func TestCompareKeysRFC8785(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"a", "a", 0},
		{"a", "b", -1},
		{"b", "a", 1},
		{"a", "aa", -1},
		{"A", "a", -1},
	}

	for _, tt := range tests {
		got := compareKeysRFC8785(tt.a, tt.b)
		switch {
		case tt.want < 0:
			assert.Negative(t, got, "%q vs %q", tt.a, tt.b)
		case tt.want > 0:
			assert.Positive(t, got, "%q vs %q", tt.a, tt.b)
		default:
			assert.Zero(t, got, "%q vs %q", tt.a, tt.b)
		}
	}
}

func TestParse(t *testing.T) {
	v, err := Parse([]byte(`{"name":"nils","age":3,"tags":["a",true,null]}`))
	require.NoError(t, err)

	assert.Equal(t, Object{
		"name": String("nils"),
		"age":  Int(3),
		"tags": Array{String("a"), Bool(true), Null{}},
	}, v)
}

func TestParseRejectsFloats(t *testing.T) {
	for _, input := range []string{`1.5`, `{"a":2e3}`, `[0.1]`} {
		_, err := Parse([]byte(input))
		assert.Error(t, err, input)
	}
}

func TestObjectUnmarshalJSON(t *testing.T) {
	var obj Object
	require.NoError(t, json.Unmarshal([]byte(`{"id":"q1","answers":["a1","a2"]}`), &obj))
	assert.Equal(t, Object{"id": String("q1"), "answers": Array{String("a1"), String("a2")}}, obj)

	err := json.Unmarshal([]byte(`[1]`), &obj)
	assert.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	original := Object{
		"id":       String("r1"),
		"max":      Int(5),
		"selected": Bool(false),
		"refs":     Array{Object{"id": String("a"), "schema": String("answer")}},
	}

	data, err := Marshal(original)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"r1","max":5,"selected":false,"refs":[{"id":"a","schema":"answer"}]}`, string(data))

	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
}

func TestClone(t *testing.T) {
	original := Object{"friends": Array{String("mano")}}
	clone := Clone(original).(Object)

	clone["friends"].(Array)[0] = String("changed")
	clone["extra"] = Bool(true)

	assert.Equal(t, String("mano"), original["friends"].(Array)[0])
	assert.NotContains(t, original, "extra")
}
