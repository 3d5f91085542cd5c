// Package canonjson produces RFC 8785 canonical JSON.
//
// Canonical bytes are the commitment input for query digests, so the
// encoding must be bit-stable across platforms and releases:
//
//  1. Object keys sort by UTF-16 code units, not UTF-8 bytes.
//  2. Strings are NFC normalized and never HTML-escaped; only control
//     characters, the quote, and the backslash are escaped.
//  3. Floats do not exist. Int covers small structural counters; any
//     value that could exceed 2^53-1 must be carried as a String.
//  4. Null does not exist. Absent is spelled by omitting the key.
//
// The Value union is sealed, so a document that type-checks cannot
// smuggle in a float or a null.
package canonjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// Value is one canonical JSON value.
//
// This is a sealed interface - only types in this package implement it.
type Value interface {
	canonValue() // Marker method - seals interface to this package
}

// String is a JSON string. It is NFC normalized at marshal time.
type String string

func (String) canonValue() {}

// Int is a JSON integer. Callers must keep magnitudes within 2^53-1 so
// every JSON consumer reads the exact value; Marshal enforces this.
type Int int64

func (Int) canonValue() {}

// Bool is a JSON boolean.
type Bool bool

func (Bool) canonValue() {}

// Array is a JSON array.
type Array []Value

func (Array) canonValue() {}

// Object is a JSON object. Marshal emits its keys in RFC 8785 order;
// iteration order of the underlying map never leaks into the output.
type Object map[string]Value

func (Object) canonValue() {}

// maxSafeInt is 2^53-1, the largest integer every IEEE 754 double
// represents exactly. RFC 8785 serializes numbers through that type.
const maxSafeInt = 1<<53 - 1

// Marshal returns the canonical encoding of v.
func Marshal(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := appendValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func appendValue(buf *bytes.Buffer, v Value) error {
	switch val := v.(type) {
	case nil:
		return fmt.Errorf("null is forbidden in canonical JSON")
	case String:
		appendString(buf, string(val))
		return nil
	case Int:
		if val > maxSafeInt || val < -maxSafeInt {
			return fmt.Errorf("integer %d exceeds 2^53-1; encode it as a string", int64(val))
		}
		buf.WriteString(strconv.FormatInt(int64(val), 10))
		return nil
	case Bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case Array:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := appendValue(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
		return nil
	case Object:
		buf.WriteByte('{')
		for i, k := range val.sortedKeys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			appendString(buf, k)
			buf.WriteByte(':')
			if err := appendValue(buf, val[k]); err != nil {
				return fmt.Errorf("object[%q]: %w", k, err)
			}
		}
		buf.WriteByte('}')
		return nil
	default:
		return fmt.Errorf("unsupported canonical JSON type: %T", v)
	}
}

// appendString writes the RFC 8785 serialization of s: NFC normalized,
// with exactly the quote, the backslash, and control characters escaped.
// HTML characters, U+2028, and U+2029 stay literal.
func appendString(buf *bytes.Buffer, s string) {
	s = norm.NFC.String(s)
	buf.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '"':
			buf.WriteString(`\"`)
		case c == '\\':
			buf.WriteString(`\\`)
		case c == '\b':
			buf.WriteString(`\b`)
		case c == '\f':
			buf.WriteString(`\f`)
		case c == '\n':
			buf.WriteString(`\n`)
		case c == '\r':
			buf.WriteString(`\r`)
		case c == '\t':
			buf.WriteString(`\t`)
		case c < 0x20:
			const hex = "0123456789abcdef"
			buf.WriteString(`\u00`)
			buf.WriteByte(hex[c>>4])
			buf.WriteByte(hex[c&0xf])
		default:
			// Multi-byte sequences pass through untouched; the input is
			// valid UTF-8 and canonical JSON keeps it literal.
			buf.WriteByte(c)
		}
	}
	buf.WriteByte('"')
}

// sortedKeys returns the object's keys in RFC 8785 order: by UTF-16
// code units. Go's native string order is UTF-8, which disagrees with
// it for supplementary-plane characters, so the keys are re-encoded.
func (obj Object) sortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)
	return keys
}

func compareUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	for i := 0; i < len(a16) && i < len(b16); i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}

// Unmarshal parses canonical JSON into a Value. It enforces the value
// constraints (no floats, no nulls, integers within 2^53-1) but not
// byte-level canonicality; re-marshal and compare to check that.
func Unmarshal(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return fromGo(raw)
}

func fromGo(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("null is forbidden in canonical JSON")
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case json.Number:
		n, err := strconv.ParseInt(string(val), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("non-integer number %s is forbidden in canonical JSON", val)
		}
		if n > maxSafeInt || n < -maxSafeInt {
			return nil, fmt.Errorf("integer %s exceeds 2^53-1", val)
		}
		return Int(n), nil
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			cv, err := fromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr[i] = cv
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, len(val))
		for k, elem := range val {
			cv, err := fromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			obj[k] = cv
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported JSON value of type %T", v)
	}
}
