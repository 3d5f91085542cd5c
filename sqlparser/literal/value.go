// Package literal implements the normalized literal values carried by
// query ASTs.
//
// Literal text from the query surface is normalized once, at parse
// time: numbers become arbitrary-precision integers or exact decimals,
// strings are Unicode NFC, timestamps are UTC instants. Values are
// immutable after construction, so the same source text always yields
// the same value and the canonical encoding never depends on how a
// literal was spelled.
package literal

import (
	"math/big"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Value is the normalized payload of a literal expression.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and keeps
// type switches over literal variants exhaustive.
//
// Value types:
//   - Bool: TRUE or FALSE
//   - Int: arbitrary-precision integer
//   - Decimal: exact fixed-point number (unscaled digits + scale)
//   - Text: NFC-normalized string
//   - Timestamp: UTC instant
type Value interface {
	valueNode() // Marker method - seals interface to this package

	// String returns the canonical value text.
	String() string
	// SQL renders the literal as query text.
	SQL() string
}

// Bool is a boolean literal.
type Bool struct {
	Value bool
}

func (Bool) valueNode() {}

// String returns the canonical value text: "true" or "false".
func (b Bool) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

// SQL renders the literal as query text.
func (b Bool) SQL() string {
	if b.Value {
		return "TRUE"
	}
	return "FALSE"
}

// Int is an arbitrary-precision integer literal. Value is owned by the
// literal and must not be mutated; construct via NewInt or ParseNumber.
type Int struct {
	Value *big.Int
}

func (Int) valueNode() {}

// String returns the canonical value text, base 10.
func (i Int) String() string {
	return i.Value.String()
}

// SQL renders the literal as query text.
func (i Int) SQL() string {
	return i.Value.String()
}

// Decimal is an exact fixed-point literal: an unscaled integer
// coefficient and a scale counting fractional digits. "123.450" is
// coefficient 123450 at scale 3; the trailing zero is kept, never
// stripped, so the value round-trips to its source spelling.
type Decimal struct {
	coeff *big.Int
	scale int
}

func (Decimal) valueNode() {}

// Coefficient returns a copy of the unscaled integer digits, sign
// included.
func (d Decimal) Coefficient() *big.Int {
	return new(big.Int).Set(d.coeff)
}

// Scale returns the number of fractional digits. Always at least 1.
func (d Decimal) Scale() int {
	return d.scale
}

// String returns the canonical value text, e.g. "-0.050".
func (d Decimal) String() string {
	abs := new(big.Int).Abs(d.coeff).String()
	var b strings.Builder
	if d.coeff.Sign() < 0 {
		b.WriteByte('-')
	}
	if len(abs) <= d.scale {
		b.WriteString("0.")
		b.WriteString(strings.Repeat("0", d.scale-len(abs)))
		b.WriteString(abs)
	} else {
		b.WriteString(abs[:len(abs)-d.scale])
		b.WriteByte('.')
		b.WriteString(abs[len(abs)-d.scale:])
	}
	return b.String()
}

// SQL renders the literal as query text.
func (d Decimal) SQL() string {
	return d.String()
}

// Text is a string literal, normalized to Unicode NFC. Construct via
// NewText so the invariant holds.
type Text struct {
	Value string
}

func (Text) valueNode() {}

// NewText returns a Text literal with the payload normalized to NFC.
func NewText(s string) Text {
	return Text{Value: norm.NFC.String(s)}
}

// String returns the normalized payload.
func (t Text) String() string {
	return t.Value
}

// SQL renders the literal as query text with embedded quotes doubled.
func (t Text) SQL() string {
	return "'" + strings.ReplaceAll(t.Value, "'", "''") + "'"
}

// Timestamp is a temporal literal normalized to UTC. Construct via
// NewTimestamp or ParseTimestamp.
type Timestamp struct {
	Value time.Time
}

func (Timestamp) valueNode() {}

// NewTimestamp returns a Timestamp literal with the instant converted
// to UTC (which also drops any monotonic clock reading).
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Value: t.UTC()}
}

// String returns the canonical value text: RFC 3339 UTC with trailing
// fractional zeros trimmed, e.g. "2024-01-15T10:30:00.5Z".
func (t Timestamp) String() string {
	return t.Value.UTC().Format(time.RFC3339Nano)
}

// SQL renders the literal as query text.
func (t Timestamp) SQL() string {
	return "TIMESTAMP '" + t.String() + "'"
}

// Equal reports whether two values are the same variant with the same
// normalized content. Decimals compare by coefficient and scale, so
// "1.5" and "1.50" are not equal even though they name the same number.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Bool:
		y, ok := b.(Bool)
		return ok && x.Value == y.Value
	case Int:
		y, ok := b.(Int)
		return ok && x.Value.Cmp(y.Value) == 0
	case Decimal:
		y, ok := b.(Decimal)
		return ok && x.scale == y.scale && x.coeff.Cmp(y.coeff) == 0
	case Text:
		y, ok := b.(Text)
		return ok && x.Value == y.Value
	case Timestamp:
		y, ok := b.(Timestamp)
		return ok && x.Value.Equal(y.Value)
	}
	return false
}
