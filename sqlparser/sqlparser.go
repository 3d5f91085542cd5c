// Package sqlparser parses a small SQL dialect into a canonical,
// structurally deterministic AST suitable as the input to a
// cryptographic proof pipeline.
//
// The dialect is a single SELECT shape:
//
//	SELECT <projection> FROM [schema.]table [[AS] alias]
//	  [WHERE <expr>] [GROUP BY <exprs>] [ORDER BY <expr> [ASC|DESC], ...]
//	  [LIMIT <n>] [OFFSET <n>]
//
// with boolean operators (NOT, AND, OR), comparisons
// (=, <>, <, <=, >, >=), arithmetic (+, -, *, /), parenthesized
// grouping, and literals: TRUE/FALSE, exact integers and decimals up to
// 75 significant digits, 'single-quoted' text, and
// TIMESTAMP '<RFC 3339>' instants.
//
// Parsing is a pure function of its input: no I/O, no global state, no
// environment sensitivity. Equivalent spellings collapse to one tree -
// unquoted identifiers case-fold and normalize to NFC, numeric literals
// keep their exact digits and scale, timestamps normalize to UTC - so
// a query's canonical JSON encoding (ast.EncodeQuery) and commitment
// digest (ast.Digest) are stable across processes and platforms.
//
// All failures are *sqlerr.Error values carrying the error kind
// (lexical, syntactic, semantic), a closed code, and the byte span of
// the offending input. The first error aborts the parse; there is no
// recovery and no partial result.
package sqlparser

import (
	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/ast"
	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/parser"
)

// Limits configures the parser's input bounds. See parser.Limits for
// field semantics; DefaultLimits returns the protocol bounds.
type Limits = parser.Limits

// DefaultLimits returns the protocol bounds: 64-byte identifiers,
// 75-digit numbers, nesting depth 128.
func DefaultLimits() Limits {
	return parser.DefaultLimits()
}

// Parse parses one SELECT query into its canonical AST under the
// default limits. A non-nil error is always a *sqlerr.Error.
func Parse(src string) (*ast.Query, error) {
	return parser.Parse(src)
}

// ParseWithLimits is Parse with explicit bounds. Zero-valued limit
// fields fall back to the defaults; the identifier and digit limits
// clamp to their protocol ceilings.
func ParseWithLimits(src string, limits Limits) (*ast.Query, error) {
	return parser.ParseWithLimits(src, limits)
}
