package ast

import "github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/literal"

// Equal reports whether two queries are structurally identical: same
// clauses, same nodes, same normalized identifiers and literal values.
// Structural equality is exactly canonical-encoding equality, but
// without the serialization.
func Equal(a, b *Query) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.SelectItems) != len(b.SelectItems) {
		return false
	}
	for i := range a.SelectItems {
		if !equalSelectItem(a.SelectItems[i], b.SelectItems[i]) {
			return false
		}
	}
	if a.From != b.From {
		return false
	}
	if !EqualExpression(a.Where, b.Where) {
		return false
	}
	if len(a.GroupBy) != len(b.GroupBy) {
		return false
	}
	for i := range a.GroupBy {
		if !EqualExpression(a.GroupBy[i], b.GroupBy[i]) {
			return false
		}
	}
	if len(a.OrderBy) != len(b.OrderBy) {
		return false
	}
	for i := range a.OrderBy {
		if a.OrderBy[i].Desc != b.OrderBy[i].Desc {
			return false
		}
		if !EqualExpression(a.OrderBy[i].Expr, b.OrderBy[i].Expr) {
			return false
		}
	}
	return equalUint64Ptr(a.Limit, b.Limit) && equalUint64Ptr(a.Offset, b.Offset)
}

// EqualExpression reports whether two expression trees are structurally
// identical. Two nils are equal; nil never equals a node.
func EqualExpression(a, b Expression) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case LiteralExpr:
		y, ok := b.(LiteralExpr)
		return ok && literal.Equal(x.Value, y.Value)
	case ColumnRef:
		y, ok := b.(ColumnRef)
		return ok && x.Name == y.Name
	case UnaryExpr:
		y, ok := b.(UnaryExpr)
		return ok && x.Op == y.Op && EqualExpression(x.Operand, y.Operand)
	case BinaryExpr:
		y, ok := b.(BinaryExpr)
		return ok && x.Op == y.Op &&
			EqualExpression(x.Left, y.Left) &&
			EqualExpression(x.Right, y.Right)
	}
	return false
}

func equalSelectItem(a, b SelectItem) bool {
	switch x := a.(type) {
	case Star:
		_, ok := b.(Star)
		return ok
	case AliasedExpr:
		y, ok := b.(AliasedExpr)
		return ok && x.Alias == y.Alias && EqualExpression(x.Expr, y.Expr)
	}
	return false
}

func equalUint64Ptr(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
