package ident

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/sqlerr"
)

func TestNewFoldsCase(t *testing.T) {
	tests := []struct {
		raw  string
		name string
	}{
		{"col", "col"},
		{"MyCol", "mycol"},
		{"COL_1", "col_1"},
		{"CAFÉ", "café"},
		{"ÜBUNG", "übung"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			id, err := New(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.name, id.String())
		})
	}
}

func TestNewNormalizesNFC(t *testing.T) {
	// U+00E9 precomposed vs U+0065 U+0301 decomposed spell the same
	// identifier and must compare equal after construction.
	composed, err := New("café")
	require.NoError(t, err)
	decomposed, err := New("cafe\U00000301")
	require.NoError(t, err)
	assert.Equal(t, composed, decomposed)
	assert.Equal(t, "café", decomposed.String())
}

func TestNewRejectsKeywords(t *testing.T) {
	for _, raw := range []string{"SELECT", "select", "Select", "from", "timestamp"} {
		t.Run(raw, func(t *testing.T) {
			_, err := New(raw)
			require.Error(t, err)
			perr, ok := sqlerr.AsError(err)
			require.True(t, ok)
			assert.Equal(t, sqlerr.KindSemantic, perr.Kind)
			assert.Equal(t, sqlerr.ReservedKeywordCode, perr.Code)
			assert.Equal(t, strings.ToLower(raw), perr.Got)
		})
	}
}

func TestNewQuotedPreservesCase(t *testing.T) {
	id, err := NewQuoted("Mixed Case")
	require.NoError(t, err)
	assert.Equal(t, "Mixed Case", id.String())
}

func TestNewQuotedAllowsKeywords(t *testing.T) {
	id, err := NewQuoted("select")
	require.NoError(t, err)
	assert.Equal(t, "select", id.String())
}

func TestQuotedAndUnquotedAgree(t *testing.T) {
	// Quoting is a surface detail: "abc" quoted and abc unquoted are the
	// same canonical identifier.
	quoted, err := NewQuoted("abc")
	require.NoError(t, err)
	unquoted, err := New("abc")
	require.NoError(t, err)
	assert.Equal(t, unquoted, quoted)
}

func TestLengthBound(t *testing.T) {
	ok, err := New(strings.Repeat("a", MaxLength))
	require.NoError(t, err)
	assert.Len(t, ok.String(), MaxLength)

	_, err = New(strings.Repeat("a", MaxLength+1))
	require.Error(t, err)
	perr, ok2 := sqlerr.AsError(err)
	require.True(t, ok2)
	assert.Equal(t, sqlerr.IdentifierTooLongCode, perr.Code)
	assert.Equal(t, MaxLength+1, perr.Digits)
	assert.Equal(t, MaxLength, perr.Limit)
}

func TestLengthMeasuredAfterNormalization(t *testing.T) {
	// 40 decomposed "e\U00000301" pairs are 120 bytes raw but 80 bytes once
	// NFC packs each pair into two-byte U+00E9: over the limit.
	_, err := NewQuoted(strings.Repeat("e\U00000301", 40))
	require.Error(t, err)
	perr, ok := sqlerr.AsError(err)
	require.True(t, ok)
	assert.Equal(t, sqlerr.IdentifierTooLongCode, perr.Code)
	assert.Equal(t, 80, perr.Digits)

	// 32 pairs normalize to 64 bytes: exactly at the limit.
	id, err := NewQuoted(strings.Repeat("e\U00000301", 32))
	require.NoError(t, err)
	assert.Len(t, id.String(), MaxLength)
}

func TestEmptyIdentifier(t *testing.T) {
	for name, construct := range map[string]func(string) (Identifier, error){
		"unquoted": New,
		"quoted":   NewQuoted,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := construct("")
			require.Error(t, err)
			assert.True(t, sqlerr.HasCode(err, sqlerr.EmptyIdentifierCode))
		})
	}
}

func TestSQLRendering(t *testing.T) {
	tests := []struct {
		name string
		id   func() (Identifier, error)
		sql  string
	}{
		{"plain", func() (Identifier, error) { return New("col") }, "col"},
		{"plain unicode", func() (Identifier, error) { return New("übung") }, "übung"},
		{"underscore", func() (Identifier, error) { return New("_tmp") }, "_tmp"},
		{"mixed case needs quotes", func() (Identifier, error) { return NewQuoted("Mixed") }, `"Mixed"`},
		{"space needs quotes", func() (Identifier, error) { return NewQuoted("a b") }, `"a b"`},
		{"keyword needs quotes", func() (Identifier, error) { return NewQuoted("select") }, `"select"`},
		{"digit start needs quotes", func() (Identifier, error) { return NewQuoted("1col") }, `"1col"`},
		{"embedded quote doubled", func() (Identifier, error) { return NewQuoted(`a"b`) }, `"a""b"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := tt.id()
			require.NoError(t, err)
			assert.Equal(t, tt.sql, id.SQL())
		})
	}
}

func TestIsZero(t *testing.T) {
	assert.True(t, Identifier{}.IsZero())

	id, err := New("a")
	require.NoError(t, err)
	assert.False(t, id.IsZero())
}
