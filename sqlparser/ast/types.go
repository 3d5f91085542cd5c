package ast

import (
	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/ident"
	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/literal"
)

// Query is the root node of a parsed SELECT statement.
//
// Optional clauses use their zero values for absence: a nil Where, empty
// GroupBy/OrderBy slices, nil Limit/Offset pointers, and zero alias
// identifiers. Builders return fully owned trees; nothing is shared
// between queries.
type Query struct {
	// SelectItems is the projection, in source order. Never empty.
	SelectItems []SelectItem

	// From names the queried table.
	From TableExpression

	// Where is the filter predicate, nil when absent.
	Where Expression

	// GroupBy lists grouping expressions in source order.
	GroupBy []Expression

	// OrderBy lists ordering terms in source order.
	OrderBy []OrderByItem

	// Limit and Offset slice the result set. nil means absent; both are
	// unsigned, a negative count never parses.
	Limit  *uint64
	Offset *uint64
}

// SelectItem is one term of the projection list.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and keeps
// type switches over projection terms exhaustive.
//
// SelectItem types:
//   - Star: the whole-row projection, SELECT *
//   - AliasedExpr: an expression with an optional output alias
type SelectItem interface {
	selectItemNode() // Marker method - seals interface to this package
}

// Star is the whole-row projection. It only appears as the sole item of
// a projection list.
type Star struct{}

func (Star) selectItemNode() {}

// AliasedExpr is a projected expression with an optional alias from an
// AS clause. A zero Alias means no alias was written.
type AliasedExpr struct {
	Expr  Expression
	Alias ident.Identifier
}

func (AliasedExpr) selectItemNode() {}

// TableExpression names the queried table: an optional schema
// qualifier, the table name, and an optional alias. Zero identifiers
// mean the part was not written.
type TableExpression struct {
	Schema ident.Identifier
	Name   ident.Identifier
	Alias  ident.Identifier
}

// Expression is a scalar or boolean expression node.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and keeps
// type switches over expression nodes exhaustive.
//
// Expression types:
//   - LiteralExpr: a normalized literal value
//   - ColumnRef: a column reference by canonical identifier
//   - UnaryExpr: NOT applied to an operand
//   - BinaryExpr: a binary operator over two operands
type Expression interface {
	exprNode() // Marker method - seals interface to this package
}

// LiteralExpr wraps a normalized literal value.
type LiteralExpr struct {
	Value literal.Value
}

func (LiteralExpr) exprNode() {}

// ColumnRef references a column by its canonical identifier.
type ColumnRef struct {
	Name ident.Identifier
}

func (ColumnRef) exprNode() {}

// UnaryExpr applies a unary operator to an operand. NOT is the only
// unary operator; negative numbers are negative literals, so "-1" and
// "(-1)" are the same tree.
type UnaryExpr struct {
	Op      UnaryOperator
	Operand Expression
}

func (UnaryExpr) exprNode() {}

// BinaryExpr applies a binary operator to two operands. Operators of
// equal precedence associate left, so "a+b+c" is "(a+b)+c" and no other
// shape exists for it.
type BinaryExpr struct {
	Op    BinaryOperator
	Left  Expression
	Right Expression
}

func (BinaryExpr) exprNode() {}

// UnaryOperator names a unary operator. The string value is the tag
// used in the canonical encoding.
type UnaryOperator string

// OpNot is logical negation, the only unary operator.
const OpNot UnaryOperator = "not"

// BinaryOperator names a binary operator. The string value is the tag
// used in the canonical encoding.
type BinaryOperator string

const (
	OpOr  BinaryOperator = "or"
	OpAnd BinaryOperator = "and"
	OpEq  BinaryOperator = "eq"
	OpNe  BinaryOperator = "ne"
	OpLt  BinaryOperator = "lt"
	OpLe  BinaryOperator = "le"
	OpGt  BinaryOperator = "gt"
	OpGe  BinaryOperator = "ge"
	OpAdd BinaryOperator = "add"
	OpSub BinaryOperator = "sub"
	OpMul BinaryOperator = "mul"
	OpDiv BinaryOperator = "div"
)

// Precedence levels, loosest to tightest. The grammar resolves every
// ambiguity through these, so equal-meaning texts share one tree shape.
const (
	PrecOr             = 1
	PrecAnd            = 2
	PrecComparison     = 3
	PrecNot            = 4
	PrecAdditive       = 5
	PrecMultiplicative = 6
)

// Precedence returns the operator's binding level. Unknown operators
// return 0, below every real level.
func (op BinaryOperator) Precedence() int {
	switch op {
	case OpOr:
		return PrecOr
	case OpAnd:
		return PrecAnd
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return PrecComparison
	case OpAdd, OpSub:
		return PrecAdditive
	case OpMul, OpDiv:
		return PrecMultiplicative
	}
	return 0
}

// Precedence returns the operator's binding level: tighter than
// comparison, looser than arithmetic, so "NOT a = b" negates a and
// "NOT a + b" negates the sum.
func (op UnaryOperator) Precedence() int {
	if op == OpNot {
		return PrecNot
	}
	return 0
}

var binarySQL = map[BinaryOperator]string{
	OpOr:  "OR",
	OpAnd: "AND",
	OpEq:  "=",
	OpNe:  "<>",
	OpLt:  "<",
	OpLe:  "<=",
	OpGt:  ">",
	OpGe:  ">=",
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
}

// SQL returns the operator's query-text spelling, or "" for an unknown
// operator.
func (op BinaryOperator) SQL() string {
	return binarySQL[op]
}

// SQL returns the operator's query-text spelling, or "" for an unknown
// operator.
func (op UnaryOperator) SQL() string {
	if op == OpNot {
		return "NOT"
	}
	return ""
}

// Valid reports whether op is one of the defined binary operators.
func (op BinaryOperator) Valid() bool {
	_, ok := binarySQL[op]
	return ok
}

// Valid reports whether op is one of the defined unary operators.
func (op UnaryOperator) Valid() bool {
	return op == OpNot
}

// OrderByItem is one ORDER BY term. Desc false is ascending, the
// default direction.
type OrderByItem struct {
	Expr Expression
	Desc bool
}
