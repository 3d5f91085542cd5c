// Package ident implements canonical query identifiers.
//
// Identifiers arrive from two surfaces with different normalization
// rules. Unquoted identifiers are case-folded to lower and may not
// collide with a reserved keyword; quoted identifiers keep their case
// and may spell anything, keywords included. Both forms are normalized
// to Unicode NFC and bounded at MaxLength bytes, so equal identifiers
// are equal strings and the canonical encoding never depends on which
// surface a name came from.
package ident

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/lexer"
	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/source"
	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/sqlerr"
)

// MaxLength is the maximum identifier length in bytes, measured after
// normalization.
const MaxLength = 64

// Identifier is a canonical identifier. The zero value is the empty
// identifier, which no constructor returns; Identifier values are
// comparable with ==.
type Identifier struct {
	name string
}

// New normalizes unquoted identifier text: Unicode NFC with the case
// folded to lower. It fails with a Semantic error if the normalized
// text is empty, exceeds MaxLength bytes, or collides with a reserved
// keyword. Errors carry no span; the caller attaches one.
func New(raw string) (Identifier, error) {
	name := norm.NFC.String(cases.Lower(language.Und).String(raw))
	if err := check(name); err != nil {
		return Identifier{}, err
	}
	if canon, ok := lexer.LookupKeyword(name); ok {
		err := sqlerr.Semantic(sqlerr.ReservedKeywordCode, source.Span{},
			"%q collides with the reserved keyword %s; quote it to use it as an identifier", name, canon)
		err.Got = name
		return Identifier{}, err
	}
	return Identifier{name: name}, nil
}

// NewQuoted normalizes quoted identifier text: Unicode NFC, case
// preserved, keywords allowed. The argument is the payload between the
// quotes with escapes already collapsed. It fails with a Semantic error
// if the normalized text is empty or exceeds MaxLength bytes.
func NewQuoted(raw string) (Identifier, error) {
	name := norm.NFC.String(raw)
	if err := check(name); err != nil {
		return Identifier{}, err
	}
	return Identifier{name: name}, nil
}

func check(name string) error {
	if name == "" {
		return sqlerr.Semantic(sqlerr.EmptyIdentifierCode, source.Span{},
			"identifier must not be empty")
	}
	if len(name) > MaxLength {
		err := sqlerr.Semantic(sqlerr.IdentifierTooLongCode, source.Span{},
			"identifier is %d bytes, the maximum is %d", len(name), MaxLength)
		err.Digits = len(name)
		err.Limit = MaxLength
		return err
	}
	return nil
}

// String returns the canonical name.
func (id Identifier) String() string {
	return id.name
}

// IsZero reports whether id is the zero Identifier.
func (id Identifier) IsZero() bool {
	return id.name == ""
}

// SQL renders the identifier as query text. The name is written bare
// when parsing it back unquoted yields the same identifier; otherwise
// it is quoted with embedded quotes doubled.
func (id Identifier) SQL() string {
	if id.isPlain() {
		return id.name
	}
	return `"` + strings.ReplaceAll(id.name, `"`, `""`) + `"`
}

func (id Identifier) isPlain() bool {
	if id.name == "" {
		return false
	}
	if _, reserved := lexer.LookupKeyword(id.name); reserved {
		return false
	}
	for i, r := range id.name {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return cases.Lower(language.Und).String(id.name) == id.name
}
