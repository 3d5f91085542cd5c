package literal

import (
	"math/big"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"

	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/source"
	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/sqlerr"
)

// MaxPrecision is the ceiling on total significant digits in a numeric
// literal. It also bounds a decimal's scale. Inputs beyond the ceiling
// are rejected, never rounded.
const MaxPrecision = 75

// ParseNumber normalizes numeric literal text: an optional sign, an
// integer part, and an optional '.'-plus-digits fraction. Text without
// a fraction yields an Int; text with one yields a Decimal whose scale
// is exactly the number of fractional digits written, trailing zeros
// included. Errors are Semantic and carry no span; the caller attaches
// one.
func ParseNumber(text string) (Value, error) {
	if err := checkNumberShape(text); err != nil {
		return nil, err
	}
	d, _, err := apd.NewFromString(strings.TrimPrefix(text, "+"))
	if err != nil {
		return nil, sqlerr.Semantic(sqlerr.MalformedLiteralCode, source.Span{},
			"malformed numeric literal %q", text)
	}
	if digits := int(d.NumDigits()); digits > MaxPrecision {
		perr := sqlerr.Semantic(sqlerr.PrecisionExceededCode, source.Span{},
			"numeric literal has %d significant digits, the maximum is %d", digits, MaxPrecision)
		perr.Digits = digits
		perr.Limit = MaxPrecision
		return nil, perr
	}
	var scale int
	if d.Exponent < 0 {
		scale = int(-d.Exponent)
	}
	if scale > MaxPrecision {
		perr := sqlerr.Semantic(sqlerr.PrecisionExceededCode, source.Span{},
			"numeric literal has %d fractional digits, the maximum is %d", scale, MaxPrecision)
		perr.Digits = scale
		perr.Limit = MaxPrecision
		return nil, perr
	}
	coeff := new(big.Int).Set(d.Coeff.MathBigInt())
	if d.Negative {
		coeff.Neg(coeff)
	}
	if !strings.Contains(text, ".") {
		return Int{Value: coeff}, nil
	}
	return Decimal{coeff: coeff, scale: scale}, nil
}

// checkNumberShape rejects anything but sign, digits, and at most one
// '.'-plus-digits fraction. The lexer already guarantees this for
// tokens it produced; the check also guards direct callers.
func checkNumberShape(text string) error {
	s := text
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	intPart, fracPart, hasDot := strings.Cut(s, ".")
	ok := digitsOnly(intPart)
	if hasDot {
		ok = ok && digitsOnly(fracPart)
	}
	if !ok {
		return sqlerr.Semantic(sqlerr.MalformedLiteralCode, source.Span{},
			"malformed numeric literal %q", text)
	}
	return nil
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// NewInt returns an Int literal holding a copy of v. It fails if v has
// more than MaxPrecision digits.
func NewInt(v *big.Int) (Int, error) {
	if digits := digitCount(v); digits > MaxPrecision {
		perr := sqlerr.Semantic(sqlerr.PrecisionExceededCode, source.Span{},
			"integer literal has %d digits, the maximum is %d", digits, MaxPrecision)
		perr.Digits = digits
		perr.Limit = MaxPrecision
		return Int{}, perr
	}
	return Int{Value: new(big.Int).Set(v)}, nil
}

// NewDecimal returns a Decimal literal holding a copy of coeff at the
// given scale. The scale must be between 1 and MaxPrecision; a value
// with no fractional digits is an Int, not a scale-0 Decimal, so every
// number has exactly one representation.
func NewDecimal(coeff *big.Int, scale int) (Decimal, error) {
	if scale < 1 {
		return Decimal{}, sqlerr.Semantic(sqlerr.MalformedLiteralCode, source.Span{},
			"decimal scale must be at least 1, got %d", scale)
	}
	if scale > MaxPrecision {
		perr := sqlerr.Semantic(sqlerr.PrecisionExceededCode, source.Span{},
			"decimal scale is %d, the maximum is %d", scale, MaxPrecision)
		perr.Digits = scale
		perr.Limit = MaxPrecision
		return Decimal{}, perr
	}
	if digits := digitCount(coeff); digits > MaxPrecision {
		perr := sqlerr.Semantic(sqlerr.PrecisionExceededCode, source.Span{},
			"decimal has %d significant digits, the maximum is %d", digits, MaxPrecision)
		perr.Digits = digits
		perr.Limit = MaxPrecision
		return Decimal{}, perr
	}
	return Decimal{coeff: new(big.Int).Set(coeff), scale: scale}, nil
}

// ParseTimestamp normalizes temporal literal text. The single accepted
// form is RFC 3339 with optional fractional seconds and either a 'Z' or
// a numeric offset; the instant is converted to UTC. Errors are
// Semantic and carry no span.
func ParseTimestamp(text string) (Timestamp, error) {
	t, err := time.Parse(time.RFC3339Nano, text)
	if err != nil {
		return Timestamp{}, sqlerr.Semantic(sqlerr.InvalidTimestampCode, source.Span{},
			"%q is not a valid RFC 3339 timestamp", text)
	}
	return NewTimestamp(t), nil
}

func digitCount(v *big.Int) int {
	s := v.String()
	if strings.HasPrefix(s, "-") {
		return len(s) - 1
	}
	return len(s)
}
