// Package sqlerr defines the closed error taxonomy shared by every stage
// of the query parser.
//
// All failures, whether lexical, syntactic, or semantic, surface as a
// single *Error value carrying the error Kind, a machine-checkable
// Code, the byte Span of the offending input, and code-specific payload
// fields. Parsing stops at the first error; there is no aggregation and
// no partial result, so callers can branch on Kind or Code without
// unwrapping chains.
package sqlerr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/source"
)

// Kind categorizes errors by the stage that detects them.
type Kind string

const (
	// KindLexical covers failures while producing tokens: invalid
	// characters and unterminated strings, quoted identifiers, or
	// block comments.
	KindLexical Kind = "lexical"

	// KindSyntactic covers failures while consuming tokens: a token
	// that cannot extend any valid derivation, or expression nesting
	// beyond the configured depth.
	KindSyntactic Kind = "syntactic"

	// KindSemantic covers normalization failures on otherwise
	// well-formed tokens: decimal precision beyond the ceiling,
	// identifiers that are too long or collide with reserved words,
	// and malformed literal payloads.
	KindSemantic Kind = "semantic"
)

// Code identifies the exact failure within a Kind.
type Code string

const (
	// Lexical codes.
	InvalidCharacterCode             Code = "INVALID_CHARACTER"
	UnterminatedStringCode           Code = "UNTERMINATED_STRING"
	UnterminatedQuotedIdentifierCode Code = "UNTERMINATED_QUOTED_IDENTIFIER"
	UnterminatedCommentCode          Code = "UNTERMINATED_COMMENT"
	MalformedNumberCode              Code = "MALFORMED_NUMBER"

	// Syntactic codes.
	UnexpectedTokenCode Code = "UNEXPECTED_TOKEN"
	DepthExceededCode   Code = "DEPTH_EXCEEDED"

	// Semantic codes.
	PrecisionExceededCode Code = "PRECISION_EXCEEDED"
	IdentifierTooLongCode Code = "IDENTIFIER_TOO_LONG"
	EmptyIdentifierCode   Code = "EMPTY_IDENTIFIER"
	ReservedKeywordCode   Code = "RESERVED_KEYWORD"
	MalformedLiteralCode  Code = "MALFORMED_LITERAL"
	InvalidTimestampCode  Code = "INVALID_TIMESTAMP"
	ValueOutOfRangeCode   Code = "VALUE_OUT_OF_RANGE"
)

// Error is the single error type returned by the parser and all of its
// stages. Payload fields beyond Message are populated per Code:
//
//	UnexpectedTokenCode:   Got, Expected (sorted)
//	DepthExceededCode:     Limit
//	PrecisionExceededCode: Digits, Limit
//	IdentifierTooLongCode: Digits (byte length), Limit
//	ReservedKeywordCode:   Got (the colliding word)
type Error struct {
	Kind    Kind
	Code    Code
	Span    source.Span
	Message string

	// Got is the offending lexeme, for codes that have one.
	Got string

	// Expected lists the token descriptions that would have been
	// accepted, sorted, for UnexpectedTokenCode.
	Expected []string

	// Digits carries the measured size for limit violations: total
	// significant digits for PrecisionExceededCode, byte length for
	// IdentifierTooLongCode.
	Digits int

	// Limit carries the configured bound for limit violations.
	Limit int
}

// WithSpan sets the span and returns e, for callers that know the
// source location of an error produced by a span-unaware layer.
func (e *Error) WithSpan(span source.Span) *Error {
	e.Span = span
	return e
}

// Error implements the error interface. The rendered message leads with
// the code and byte offset so log lines stay greppable.
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s at offset %d: %s", e.Code, e.Span.Start, e.Message)
	if len(e.Expected) > 0 {
		fmt.Fprintf(&b, " (expected one of {%s})", strings.Join(e.Expected, ", "))
	}
	return b.String()
}

// New constructs an Error with the given kind, code, span, and message.
func New(kind Kind, code Code, span source.Span, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Code:    code,
		Span:    span,
		Message: fmt.Sprintf(format, args...),
	}
}

// Lexical constructs a lexical-kind Error.
func Lexical(code Code, span source.Span, format string, args ...any) *Error {
	return New(KindLexical, code, span, format, args...)
}

// Syntactic constructs a syntactic-kind Error.
func Syntactic(code Code, span source.Span, format string, args ...any) *Error {
	return New(KindSyntactic, code, span, format, args...)
}

// Semantic constructs a semantic-kind Error.
func Semantic(code Code, span source.Span, format string, args ...any) *Error {
	return New(KindSemantic, code, span, format, args...)
}

// AsError extracts an *Error from err, following wrap chains.
func AsError(err error) (*Error, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	pe, ok := AsError(err)
	return ok && pe.Kind == kind
}

// IsLexical reports whether err is a lexical parse error.
func IsLexical(err error) bool { return IsKind(err, KindLexical) }

// IsSyntactic reports whether err is a syntactic parse error.
func IsSyntactic(err error) bool { return IsKind(err, KindSyntactic) }

// IsSemantic reports whether err is a semantic parse error.
func IsSemantic(err error) bool { return IsKind(err, KindSemantic) }

// HasCode reports whether err is an *Error with the given code.
func HasCode(err error, code Code) bool {
	pe, ok := AsError(err)
	return ok && pe.Code == code
}
