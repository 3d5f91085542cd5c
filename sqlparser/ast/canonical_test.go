package ast

import (
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/ident"
	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/literal"
)

func mustIdent(t *testing.T, raw string) ident.Identifier {
	t.Helper()
	id, err := ident.New(raw)
	require.NoError(t, err)
	return id
}

func mustQuoted(t *testing.T, raw string) ident.Identifier {
	t.Helper()
	id, err := ident.NewQuoted(raw)
	require.NoError(t, err)
	return id
}

func col(t *testing.T, name string) ColumnRef {
	t.Helper()
	return ColumnRef{Name: mustIdent(t, name)}
}

func intLit(t *testing.T, digits string) LiteralExpr {
	t.Helper()
	n, ok := new(big.Int).SetString(digits, 10)
	require.True(t, ok, "bad test integer %q", digits)
	v, err := literal.NewInt(n)
	require.NoError(t, err)
	return LiteralExpr{Value: v}
}

func decLit(t *testing.T, coeff string, scale int) LiteralExpr {
	t.Helper()
	n, ok := new(big.Int).SetString(coeff, 10)
	require.True(t, ok, "bad test coefficient %q", coeff)
	v, err := literal.NewDecimal(n, scale)
	require.NoError(t, err)
	return LiteralExpr{Value: v}
}

func u64(n uint64) *uint64 {
	return &n
}

func minimalQuery(t *testing.T, expr Expression) *Query {
	t.Helper()
	return &Query{
		SelectItems: []SelectItem{AliasedExpr{Expr: expr}},
		From:        TableExpression{Name: mustIdent(t, "t")},
	}
}

func TestEncodeQueryMinimal(t *testing.T) {
	q := minimalQuery(t, col(t, "a"))

	data, err := EncodeQuery(q)
	require.NoError(t, err)
	assert.Equal(t,
		`{"from":{"name":"t","node":"table"},"node":"query","select":[{"expr":{"name":"a","node":"column"},"node":"item"}]}`,
		string(data))
}

func TestEncodeQueryStar(t *testing.T) {
	q := &Query{
		SelectItems: []SelectItem{Star{}},
		From:        TableExpression{Name: mustIdent(t, "t")},
	}

	data, err := EncodeQuery(q)
	require.NoError(t, err)
	assert.Equal(t,
		`{"from":{"name":"t","node":"table"},"node":"query","select":[{"node":"star"}]}`,
		string(data))
}

func TestEncodeQueryAllClauses(t *testing.T) {
	q := &Query{
		SelectItems: []SelectItem{
			AliasedExpr{Expr: col(t, "a"), Alias: mustIdent(t, "x")},
			AliasedExpr{Expr: intLit(t, "2")},
		},
		From: TableExpression{
			Schema: mustIdent(t, "public"),
			Name:   mustIdent(t, "orders"),
			Alias:  mustIdent(t, "o"),
		},
		Where:   BinaryExpr{Op: OpGt, Left: col(t, "qty"), Right: intLit(t, "10")},
		GroupBy: []Expression{col(t, "region")},
		OrderBy: []OrderByItem{{Expr: col(t, "a"), Desc: true}},
		Limit:   u64(100),
		Offset:  u64(5),
	}

	data, err := EncodeQuery(q)
	require.NoError(t, err)
	assert.Equal(t,
		`{"from":{"alias":"o","name":"orders","node":"table","schema":"public"},`+
			`"group_by":[{"name":"region","node":"column"}],`+
			`"limit":"100","node":"query","offset":"5",`+
			`"order_by":[{"desc":true,"expr":{"name":"a","node":"column"}}],`+
			`"select":[{"alias":"x","expr":{"name":"a","node":"column"},"node":"item"},`+
			`{"expr":{"node":"literal","type":"int","value":"2"},"node":"item"}],`+
			`"where":{"left":{"name":"qty","node":"column"},"node":"binary","op":"gt",`+
			`"right":{"node":"literal","type":"int","value":"10"}}}`,
		string(data))
}

func TestEncodeLiteralForms(t *testing.T) {
	ts, err := literal.ParseTimestamp("2024-06-01T14:30:00.5+02:00")
	require.NoError(t, err)

	tests := []struct {
		name string
		expr Expression
		want string
	}{
		{
			name: "BoolTrue",
			expr: LiteralExpr{Value: literal.Bool{Value: true}},
			want: `{"node":"literal","type":"bool","value":true}`,
		},
		{
			name: "NegativeInt",
			expr: intLit(t, "-5"),
			want: `{"node":"literal","type":"int","value":"-5"}`,
		},
		{
			name: "IntBeyondFloatRange",
			expr: intLit(t, "123456789012345678901234567890"),
			want: `{"node":"literal","type":"int","value":"123456789012345678901234567890"}`,
		},
		{
			name: "Decimal",
			expr: decLit(t, "-50", 3),
			want: `{"coefficient":"-50","node":"literal","scale":3,"type":"decimal"}`,
		},
		{
			name: "Text",
			expr: LiteralExpr{Value: literal.NewText("it's")},
			want: `{"node":"literal","type":"text","value":"it's"}`,
		},
		{
			name: "TimestampNormalizedToUTC",
			expr: LiteralExpr{Value: ts},
			want: `{"node":"literal","type":"timestamp","value":"2024-06-01T12:30:00.5Z"}`,
		},
		{
			name: "Unary",
			expr: UnaryExpr{Op: OpNot, Operand: col(t, "done")},
			want: `{"node":"unary","op":"not","operand":{"name":"done","node":"column"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeQuery(minimalQuery(t, tt.expr))
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.want)
		})
	}
}

func TestEncodeQueryDeterministic(t *testing.T) {
	build := func() *Query {
		return &Query{
			SelectItems: []SelectItem{AliasedExpr{Expr: col(t, "a")}},
			From:        TableExpression{Name: mustIdent(t, "t")},
			Where: BinaryExpr{
				Op:    OpAnd,
				Left:  BinaryExpr{Op: OpEq, Left: col(t, "b"), Right: intLit(t, "1")},
				Right: BinaryExpr{Op: OpNe, Left: col(t, "c"), Right: decLit(t, "25", 1)},
			},
		}
	}

	first, err := EncodeQuery(build())
	require.NoError(t, err)
	second, err := EncodeQuery(build())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEncodeQueryRejectsInvalidTrees(t *testing.T) {
	tests := []struct {
		name string
		q    *Query
	}{
		{name: "NilQuery", q: nil},
		{name: "EmptyProjection", q: &Query{From: TableExpression{Name: mustIdent(t, "t")}}},
		{
			name: "NilProjectionItem",
			q: &Query{
				SelectItems: []SelectItem{nil},
				From:        TableExpression{Name: mustIdent(t, "t")},
			},
		},
		{name: "MissingTableName", q: &Query{SelectItems: []SelectItem{Star{}}}},
		{name: "NilLiteralValue", q: minimalQuery(t, LiteralExpr{})},
		{name: "ZeroIntLiteralValue", q: minimalQuery(t, LiteralExpr{Value: literal.Int{}})},
		{name: "UnknownBinaryOp", q: minimalQuery(t, BinaryExpr{Op: "xor", Left: col(t, "a"), Right: col(t, "b")})},
		{name: "UnknownUnaryOp", q: minimalQuery(t, UnaryExpr{Op: "neg", Operand: col(t, "a")})},
		{name: "NilOperand", q: minimalQuery(t, UnaryExpr{Op: OpNot})},
		{name: "NilBinarySide", q: minimalQuery(t, BinaryExpr{Op: OpAnd, Left: col(t, "a")})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EncodeQuery(tt.q)
			assert.Error(t, err)
		})
	}
}

func TestDecodeQueryRoundTrip(t *testing.T) {
	ts, err := literal.ParseTimestamp("2024-06-01T12:30:00Z")
	require.NoError(t, err)

	tests := []struct {
		name string
		q    *Query
	}{
		{
			name: "Minimal",
			q:    minimalQuery(t, col(t, "a")),
		},
		{
			name: "StarProjection",
			q: &Query{
				SelectItems: []SelectItem{Star{}},
				From:        TableExpression{Name: mustIdent(t, "t")},
			},
		},
		{
			name: "AllClauses",
			q: &Query{
				SelectItems: []SelectItem{
					AliasedExpr{Expr: col(t, "a"), Alias: mustIdent(t, "x")},
					AliasedExpr{Expr: decLit(t, "1250", 2)},
				},
				From: TableExpression{
					Schema: mustIdent(t, "public"),
					Name:   mustIdent(t, "orders"),
					Alias:  mustIdent(t, "o"),
				},
				Where: BinaryExpr{
					Op:   OpOr,
					Left: BinaryExpr{Op: OpEq, Left: col(t, "b"), Right: intLit(t, "1")},
					Right: UnaryExpr{
						Op:      OpNot,
						Operand: BinaryExpr{Op: OpLt, Left: col(t, "c"), Right: intLit(t, "-3")},
					},
				},
				GroupBy: []Expression{col(t, "region"), col(t, "city")},
				OrderBy: []OrderByItem{
					{Expr: col(t, "a"), Desc: true},
					{Expr: col(t, "b")},
				},
				Limit:  u64(10),
				Offset: u64(0),
			},
		},
		{
			name: "QuotedKeywordColumn",
			q:    minimalQuery(t, ColumnRef{Name: mustQuoted(t, "select")}),
		},
		{
			name: "TimestampAndText",
			q: &Query{
				SelectItems: []SelectItem{AliasedExpr{Expr: LiteralExpr{Value: ts}}},
				From:        TableExpression{Name: mustIdent(t, "t")},
				Where: BinaryExpr{
					Op:    OpEq,
					Left:  col(t, "note"),
					Right: LiteralExpr{Value: literal.NewText("it's")},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeQuery(tt.q)
			require.NoError(t, err)

			decoded, err := DecodeQuery(data)
			require.NoError(t, err)
			assert.True(t, Equal(tt.q, decoded), "decoded query differs from original")

			again, err := EncodeQuery(decoded)
			require.NoError(t, err)
			assert.Equal(t, string(data), string(again))
		})
	}
}

func TestDecodeQueryAcceptsNonCanonicalSpacing(t *testing.T) {
	// Byte-level canonicality is the caller's concern: decoding admits
	// any JSON spelling of a valid document, and re-encoding restores
	// the canonical bytes.
	loose := `{
		"node": "query",
		"select": [ { "node": "item", "expr": { "node": "column", "name": "a" } } ],
		"from": { "node": "table", "name": "t" }
	}`

	q, err := DecodeQuery([]byte(loose))
	require.NoError(t, err)

	data, err := EncodeQuery(q)
	require.NoError(t, err)
	assert.Equal(t,
		`{"from":{"name":"t","node":"table"},"node":"query","select":[{"expr":{"name":"a","node":"column"},"node":"item"}]}`,
		string(data))
}

func TestDecodeQueryRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "NotAnObject", input: `[1]`},
		{name: "WrongNodeTag", input: `{"node":"table","name":"t"}`},
		{name: "MissingSelect", input: `{"node":"query","from":{"node":"table","name":"t"}}`},
		{name: "EmptySelect", input: `{"node":"query","select":[],"from":{"node":"table","name":"t"}}`},
		{name: "MissingFrom", input: `{"node":"query","select":[{"node":"star"}]}`},
		{
			name:  "UnknownQueryKey",
			input: `{"node":"query","select":[{"node":"star"}],"from":{"node":"table","name":"t"},"having":true}`,
		},
		{
			name:  "StarWithSibling",
			input: `{"node":"query","select":[{"node":"star"},{"node":"star"}],"from":{"node":"table","name":"t"}}`,
		},
		{
			name:  "StarWithExtraKey",
			input: `{"node":"query","select":[{"node":"star","alias":"x"}],"from":{"node":"table","name":"t"}}`,
		},
		{
			name:  "UnknownExpressionNode",
			input: `{"node":"query","select":[{"node":"item","expr":{"node":"call","name":"f"}}],"from":{"node":"table","name":"t"}}`,
		},
		{
			name:  "UnknownBinaryOp",
			input: `{"node":"query","select":[{"node":"item","expr":{"node":"binary","op":"xor","left":{"node":"column","name":"a"},"right":{"node":"column","name":"b"}}}],"from":{"node":"table","name":"t"}}`,
		},
		{
			name:  "IntWithLeadingZero",
			input: `{"node":"query","select":[{"node":"item","expr":{"node":"literal","type":"int","value":"007"}}],"from":{"node":"table","name":"t"}}`,
		},
		{
			name:  "IntWithPlusSign",
			input: `{"node":"query","select":[{"node":"item","expr":{"node":"literal","type":"int","value":"+5"}}],"from":{"node":"table","name":"t"}}`,
		},
		{
			name:  "NegativeZeroInt",
			input: `{"node":"query","select":[{"node":"item","expr":{"node":"literal","type":"int","value":"-0"}}],"from":{"node":"table","name":"t"}}`,
		},
		{
			name:  "IntBeyondPrecisionCeiling",
			input: `{"node":"query","select":[{"node":"item","expr":{"node":"literal","type":"int","value":"` + bigDigits(76) + `"}}],"from":{"node":"table","name":"t"}}`,
		},
		{
			name:  "DecimalScaleZero",
			input: `{"node":"query","select":[{"node":"item","expr":{"node":"literal","type":"decimal","coefficient":"5","scale":0}}],"from":{"node":"table","name":"t"}}`,
		},
		{
			name:  "DecimalScaleFloat",
			input: `{"node":"query","select":[{"node":"item","expr":{"node":"literal","type":"decimal","coefficient":"5","scale":1.0}}],"from":{"node":"table","name":"t"}}`,
		},
		{
			name:  "TimestampWithOffset",
			input: `{"node":"query","select":[{"node":"item","expr":{"node":"literal","type":"timestamp","value":"2024-06-01T14:30:00+02:00"}}],"from":{"node":"table","name":"t"}}`,
		},
		{
			name:  "TimestampTrailingFractionZeros",
			input: `{"node":"query","select":[{"node":"item","expr":{"node":"literal","type":"timestamp","value":"2024-06-01T12:30:00.500Z"}}],"from":{"node":"table","name":"t"}}`,
		},
		{
			name:  "EmptyIdentifier",
			input: `{"node":"query","select":[{"node":"item","expr":{"node":"column","name":""}}],"from":{"node":"table","name":"t"}}`,
		},
		{
			name:  "NonNFCIdentifier",
			input: `{"node":"query","select":[{"node":"item","expr":{"node":"column","name":"cafe` + "\U00000301" + `"}}],"from":{"node":"table","name":"t"}}`,
		},
		{
			name:  "OverlongIdentifier",
			input: `{"node":"query","select":[{"node":"item","expr":{"node":"column","name":"` + longName(65) + `"}}],"from":{"node":"table","name":"t"}}`,
		},
		{
			name:  "LimitWithLeadingZero",
			input: `{"node":"query","select":[{"node":"star"}],"from":{"node":"table","name":"t"},"limit":"007"}`,
		},
		{
			name:  "LimitBeyondUint64",
			input: `{"node":"query","select":[{"node":"star"}],"from":{"node":"table","name":"t"},"limit":"18446744073709551616"}`,
		},
		{
			name:  "OrderByMissingDesc",
			input: `{"node":"query","select":[{"node":"star"}],"from":{"node":"table","name":"t"},"order_by":[{"expr":{"node":"column","name":"a"}}]}`,
		},
		{
			name:  "OrderByEmpty",
			input: `{"node":"query","select":[{"node":"star"}],"from":{"node":"table","name":"t"},"order_by":[]}`,
		},
		{
			name:  "GroupByEmpty",
			input: `{"node":"query","select":[{"node":"star"}],"from":{"node":"table","name":"t"},"group_by":[]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeQuery([]byte(tt.input))
			assert.Error(t, err)
		})
	}
}

func bigDigits(n int) string {
	digits := make([]byte, n)
	for i := range digits {
		digits[i] = '9'
	}
	return string(digits)
}

func longName(n int) string {
	name := make([]byte, n)
	for i := range name {
		name[i] = 'a'
	}
	return string(name)
}

func TestDigestStability(t *testing.T) {
	build := func() *Query {
		return &Query{
			SelectItems: []SelectItem{AliasedExpr{Expr: col(t, "a")}},
			From:        TableExpression{Name: mustIdent(t, "t")},
			Where:       BinaryExpr{Op: OpEq, Left: col(t, "b"), Right: intLit(t, "1")},
		}
	}

	first, err := Digest(build())
	require.NoError(t, err)
	second, err := Digest(build())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestDigestMatchesDomainSeparatedHash(t *testing.T) {
	q := minimalQuery(t, col(t, "a"))

	canonical, err := EncodeQuery(q)
	require.NoError(t, err)

	h := sha256.New()
	h.Write([]byte(DomainQuery))
	h.Write([]byte{0x00})
	h.Write(canonical)
	want := hex.EncodeToString(h.Sum(nil))

	got, err := Digest(q)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDigestDistinguishesQueries(t *testing.T) {
	base := func() *Query {
		return &Query{
			SelectItems: []SelectItem{AliasedExpr{Expr: decLit(t, "15", 1)}},
			From:        TableExpression{Name: mustIdent(t, "t")},
		}
	}

	variants := []*Query{
		base(),
		// Same numeric value, different scale.
		{
			SelectItems: []SelectItem{AliasedExpr{Expr: decLit(t, "150", 2)}},
			From:        TableExpression{Name: mustIdent(t, "t")},
		},
		// Alias added.
		{
			SelectItems: []SelectItem{AliasedExpr{Expr: decLit(t, "15", 1), Alias: mustIdent(t, "x")}},
			From:        TableExpression{Name: mustIdent(t, "t")},
		},
		// Different table.
		{
			SelectItems: []SelectItem{AliasedExpr{Expr: decLit(t, "15", 1)}},
			From:        TableExpression{Name: mustIdent(t, "u")},
		},
	}

	seen := make(map[string]int)
	for i, q := range variants {
		d, err := Digest(q)
		require.NoError(t, err)
		if prev, dup := seen[d]; dup {
			t.Fatalf("variants %d and %d collide on digest %s", prev, i, d)
		}
		seen[d] = i
	}
}

func TestMustDigestPanicsOnInvalidQuery(t *testing.T) {
	require.Panics(t, func() {
		MustDigest(&Query{})
	})
}
