package parser

import (
	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/ident"
	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/literal"
)

// DefaultMaxDepth bounds expression nesting. Parsing is recursive, so
// the bound is what keeps adversarial input from exhausting the stack.
const DefaultMaxDepth = 128

// Limits configures the parser's input bounds. The zero value of any
// field means "use the default"; the identifier and digit limits can
// only tighten their protocol ceilings, never exceed them, since values
// past the ceilings have no canonical representation.
type Limits struct {
	// MaxIdentifierBytes caps identifier length in bytes, measured
	// after normalization. At most ident.MaxLength.
	MaxIdentifierBytes int

	// MaxDigits caps the significant digits of a numeric literal.
	// At most literal.MaxPrecision.
	MaxDigits int

	// MaxDepth caps expression nesting depth.
	MaxDepth int
}

// DefaultLimits returns the protocol bounds: 64-byte identifiers,
// 75-digit numbers, nesting depth 128.
func DefaultLimits() Limits {
	return Limits{
		MaxIdentifierBytes: ident.MaxLength,
		MaxDigits:          literal.MaxPrecision,
		MaxDepth:           DefaultMaxDepth,
	}
}

// normalized fills zero fields with defaults and clamps the identifier
// and digit limits to their protocol ceilings.
func (l Limits) normalized() Limits {
	d := DefaultLimits()
	if l.MaxIdentifierBytes <= 0 || l.MaxIdentifierBytes > d.MaxIdentifierBytes {
		l.MaxIdentifierBytes = d.MaxIdentifierBytes
	}
	if l.MaxDigits <= 0 || l.MaxDigits > d.MaxDigits {
		l.MaxDigits = d.MaxDigits
	}
	if l.MaxDepth <= 0 {
		l.MaxDepth = d.MaxDepth
	}
	return l
}
