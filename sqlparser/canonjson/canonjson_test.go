package canonjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    Value
		expected string
	}{
		{"string", String("hello"), `"hello"`},
		{"empty string", String(""), `""`},
		{"int", Int(42), "42"},
		{"negative int", Int(-100), "-100"},
		{"zero", Int(0), "0"},
		{"bool true", Bool(true), "true"},
		{"bool false", Bool(false), "false"},
		{"empty array", Array{}, "[]"},
		{"empty object", Object{}, "{}"},
		{"array", Array{Int(1), String("two"), Bool(false)}, `[1,"two",false]`},
		{"object", Object{"a": Int(1)}, `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Marshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalSortedKeys(t *testing.T) {
	obj := Object{
		"zebra": Int(1),
		"alpha": Int(2),
		"beta":  Object{"b": Int(3), "a": Int(4)},
	}

	result, err := Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"beta":{"a":4,"b":3},"zebra":1}`, string(result))
}

func TestMarshalUTF16KeyOrder(t *testing.T) {
	// U+E000 is a single UTF-16 unit 0xE000; U+10000 is the surrogate
	// pair 0xD800 0xDC00. UTF-16 order puts the pair first, UTF-8 order
	// would not.
	obj := Object{
		"\U0000e000": Int(1),
		"\U00010000": Int(2),
	}

	result, err := Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, "{\"\U00010000\":2,\"\U0000e000\":1}", string(result))
}

func TestMarshalNoHTMLEscape(t *testing.T) {
	result, err := Marshal(String("<script>alert('x') & co</script>"))
	require.NoError(t, err)
	assert.Equal(t, `"<script>alert('x') & co</script>"`, string(result))
	assert.NotContains(t, string(result), "\\u003c")
	assert.NotContains(t, string(result), "\\u0026")
}

func TestMarshalStringEscaping(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"quote", `a"b`, `"a\"b"`},
		{"backslash", `a\b`, `"a\\b"`},
		{"newline", "a\nb", `"a\nb"`},
		{"tab", "a\tb", `"a\tb"`},
		{"carriage return", "a\rb", `"a\rb"`},
		{"backspace", "a\bb", `"a\bb"`},
		{"form feed", "a\fb", `"a\fb"`},
		{"unit separator", "a\x1fb", "\"a\\u001fb\""},
		{"nul", "a\x00b", "\"a\\u0000b\""},
		{"line separator stays literal", "a\U00002028b", "\"a\U00002028b\""},
		{"paragraph separator stays literal", "a\U00002029b", "\"a\U00002029b\""},
		{"escape-shaped text", "a\\u2028", `"a\\u2028"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Marshal(String(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalNFCNormalization(t *testing.T) {
	// "cafe" + combining acute (U+0301) is the decomposed spelling of
	// "café"; both must serialize to the composed form.
	composed, err := Marshal(String("café"))
	require.NoError(t, err)
	decomposed, err := Marshal(String("cafe\U00000301"))
	require.NoError(t, err)
	assert.Equal(t, composed, decomposed)

	// Keys are normalized too.
	obj1, err := Marshal(Object{"café": Int(1)})
	require.NoError(t, err)
	obj2, err := Marshal(Object{"cafe\U00000301": Int(1)})
	require.NoError(t, err)
	assert.Equal(t, obj1, obj2)
}

func TestMarshalRejectsNil(t *testing.T) {
	_, err := Marshal(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "null")

	_, err = Marshal(Array{nil})
	require.Error(t, err)

	_, err = Marshal(Object{"k": nil})
	require.Error(t, err)
}

func TestMarshalRejectsUnsafeInt(t *testing.T) {
	_, err := Marshal(Int(1 << 53))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2^53")

	result, err := Marshal(Int(1<<53 - 1))
	require.NoError(t, err)
	assert.Equal(t, "9007199254740991", string(result))
}

func TestUnmarshalRejectsFloatsAndNull(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"float", `3.14`},
		{"exponent", `1e5`},
		{"null", `null`},
		{"null in array", `[1,null]`},
		{"null in object", `{"a":null}`},
		{"float in object", `{"a":1.5}`},
		{"unsafe integer", `9007199254740992`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.input))
			require.Error(t, err)
		})
	}
}

func TestUnmarshalRejectsTrailingData(t *testing.T) {
	_, err := Unmarshal([]byte(`{"a":1} {"b":2}`))
	require.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	doc := Object{
		"node":  String("query"),
		"items": Array{Object{"v": Int(1)}, Object{"v": Int(2)}},
		"flag":  Bool(true),
		"text":  String("it's <fine> & café"),
	}

	first, err := Marshal(doc)
	require.NoError(t, err)

	decoded, err := Unmarshal(first)
	require.NoError(t, err)

	second, err := Marshal(decoded)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// FuzzMarshalIdempotent checks that unmarshal-then-marshal is a fixed
// point: once bytes are canonical, re-encoding them changes nothing.
func FuzzMarshalIdempotent(f *testing.F) {
	f.Add(`{"a":1,"b":"test"}`)
	f.Add(`[1,2,3]`)
	f.Add(`"hello"`)
	f.Add(`true`)
	f.Add(`{"nested":{"deep":{"value":123}}}`)
	f.Add("{\"\U00010000\":1,\"\U0000e000\":2}")

	f.Fuzz(func(t *testing.T, jsonStr string) {
		val, err := Unmarshal([]byte(jsonStr))
		if err != nil {
			t.Skip()
		}

		canonical, err := Marshal(val)
		if err != nil {
			t.Skip()
		}

		val2, err := Unmarshal(canonical)
		require.NoError(t, err)

		canonical2, err := Marshal(val2)
		require.NoError(t, err)
		assert.Equal(t, canonical, canonical2)
	})
}
