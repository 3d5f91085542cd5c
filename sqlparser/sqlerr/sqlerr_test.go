package sqlerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/source"
)

func TestErrorRendering(t *testing.T) {
	e := Syntactic(UnexpectedTokenCode, source.NewSpan(7, 11), "unexpected keyword FROM")
	assert.Equal(t, "UNEXPECTED_TOKEN at offset 7: unexpected keyword FROM", e.Error())

	e.Expected = []string{`"("`, "identifier"}
	assert.Equal(t,
		`UNEXPECTED_TOKEN at offset 7: unexpected keyword FROM (expected one of {"(", identifier})`,
		e.Error())
}

func TestConstructorsSetKind(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		kind Kind
	}{
		{name: "Lexical", err: Lexical(InvalidCharacterCode, source.NewSpan(0, 1), "bad byte"), kind: KindLexical},
		{name: "Syntactic", err: Syntactic(DepthExceededCode, source.NewSpan(2, 3), "too deep"), kind: KindSyntactic},
		{name: "Semantic", err: Semantic(PrecisionExceededCode, source.NewSpan(4, 5), "too wide"), kind: KindSemantic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.err.Kind)
			assert.True(t, IsKind(tt.err, tt.kind))
		})
	}
}

func TestAsErrorUnwraps(t *testing.T) {
	inner := Semantic(InvalidTimestampCode, source.NewSpan(3, 9), "not RFC 3339")
	wrapped := fmt.Errorf("parse query: %w", inner)

	pe, ok := AsError(wrapped)
	require.True(t, ok)
	assert.Equal(t, InvalidTimestampCode, pe.Code)
	assert.True(t, IsSemantic(wrapped))
	assert.True(t, HasCode(wrapped, InvalidTimestampCode))
	assert.False(t, HasCode(wrapped, MalformedNumberCode))

	_, ok = AsError(errors.New("plain"))
	assert.False(t, ok)
	assert.False(t, IsLexical(errors.New("plain")))
}

func TestWithSpan(t *testing.T) {
	e := Semantic(IdentifierTooLongCode, source.Span{}, "identifier is 65 bytes")
	e.Digits, e.Limit = 65, 64

	got := e.WithSpan(source.NewSpan(7, 72))
	assert.Same(t, e, got)
	assert.Equal(t, source.NewSpan(7, 72), e.Span)
	assert.Equal(t, 65, e.Digits)
}
