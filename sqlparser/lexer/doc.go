// Package lexer converts query text into a stream of typed tokens with
// byte-offset spans.
//
// The lexer is lazy (Next produces one token per call), restartable from
// the start (Reset), and terminates every stream with a KindEOF token.
// It allocates nothing per token beyond the token value itself: Text is
// a slice of the input, and the decoded payload for strings and quoted
// identifiers is built only when an escape is actually present. Tokens
// carry a 1-based line and byte column alongside the span, maintained
// incrementally while scanning.
//
// Classification rules:
//   - Keywords are matched case-insensitively against the closed reserved
//     word table; the token records the canonical upper-case spelling.
//   - Unquoted identifiers start with a Unicode letter or '_' and continue
//     with letters, digits, or '_'.
//   - Quoted identifiers are delimited by '"' with '""' escaping an
//     embedded quote; their case is preserved.
//   - Strings are delimited by '\'' with '\'\'' escaping an embedded quote.
//   - Numbers are an optional sign, an integer part, and an optional
//     '.'-plus-digits fraction. No exponent form. A leading '+' or '-'
//     binds to the number only when it is adjacent to a digit and the
//     previous token cannot end an expression, so "a-1" stays a binary
//     subtraction while "WHERE -1 < a" carries a signed literal.
//   - Whitespace, "--" line comments, and non-nesting "/* */" block
//     comments are skipped; spans still advance across them.
//
// Failures are *sqlerr.Error values of KindLexical: an invalid character,
// or an unterminated string, quoted identifier, or block comment.
package lexer
