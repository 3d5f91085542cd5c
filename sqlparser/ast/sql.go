package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// precPrimary is the precedence of leaf expressions. Leaves never need
// parentheses around them.
const precPrimary = PrecMultiplicative + 1

// RenderSQL formats a query back into SQL text. The output is
// deterministic and re-parses to a structurally equal query: keywords
// are upper case, identifiers print in their canonical form (quoted
// only when required), and parentheses appear exactly where operator
// precedence demands them.
func RenderSQL(q *Query) (string, error) {
	if q == nil {
		return "", fmt.Errorf("render: query is nil")
	}
	if len(q.SelectItems) == 0 {
		return "", fmt.Errorf("render: query has no projection items")
	}

	items := make([]string, len(q.SelectItems))
	for i, item := range q.SelectItems {
		rendered, err := selectItemSQL(item)
		if err != nil {
			return "", fmt.Errorf("render: projection item %d: %w", i, err)
		}
		items[i] = rendered
	}

	table, err := tableSQL(q.From)
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(items, ", "))
	b.WriteString(" FROM ")
	b.WriteString(table)

	if q.Where != nil {
		cond, err := exprSQL(q.Where, 0)
		if err != nil {
			return "", fmt.Errorf("render: where: %w", err)
		}
		b.WriteString(" WHERE ")
		b.WriteString(cond)
	}

	if len(q.GroupBy) > 0 {
		groups := make([]string, len(q.GroupBy))
		for i, g := range q.GroupBy {
			rendered, err := exprSQL(g, 0)
			if err != nil {
				return "", fmt.Errorf("render: group by %d: %w", i, err)
			}
			groups[i] = rendered
		}
		b.WriteString(" GROUP BY ")
		b.WriteString(strings.Join(groups, ", "))
	}

	if len(q.OrderBy) > 0 {
		orders := make([]string, len(q.OrderBy))
		for i, o := range q.OrderBy {
			rendered, err := exprSQL(o.Expr, 0)
			if err != nil {
				return "", fmt.Errorf("render: order by %d: %w", i, err)
			}
			if o.Desc {
				rendered += " DESC"
			}
			orders[i] = rendered
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(orders, ", "))
	}

	if q.Limit != nil {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.FormatUint(*q.Limit, 10))
	}
	if q.Offset != nil {
		b.WriteString(" OFFSET ")
		b.WriteString(strconv.FormatUint(*q.Offset, 10))
	}
	return b.String(), nil
}

func selectItemSQL(item SelectItem) (string, error) {
	switch it := item.(type) {
	case Star:
		return "*", nil
	case AliasedExpr:
		rendered, err := exprSQL(it.Expr, 0)
		if err != nil {
			return "", err
		}
		if !it.Alias.IsZero() {
			rendered += " AS " + it.Alias.SQL()
		}
		return rendered, nil
	case nil:
		return "", fmt.Errorf("projection item is nil")
	default:
		return "", fmt.Errorf("unsupported projection item type %T", item)
	}
}

func tableSQL(table TableExpression) (string, error) {
	if table.Name.IsZero() {
		return "", fmt.Errorf("table has no name")
	}
	rendered := table.Name.SQL()
	if !table.Schema.IsZero() {
		rendered = table.Schema.SQL() + "." + rendered
	}
	if !table.Alias.IsZero() {
		rendered += " AS " + table.Alias.SQL()
	}
	return rendered, nil
}

// exprSQL renders an expression that appears in a context of the given
// minimum precedence. Children at lower precedence are parenthesized;
// the right operand of a binary operator is parenthesized at equal
// precedence as well, since all binary operators associate left.
func exprSQL(e Expression, contextPrec int) (string, error) {
	switch ex := e.(type) {
	case LiteralExpr:
		if ex.Value == nil {
			return "", fmt.Errorf("literal has no value")
		}
		return ex.Value.SQL(), nil
	case ColumnRef:
		if ex.Name.IsZero() {
			return "", fmt.Errorf("column reference has no name")
		}
		return ex.Name.SQL(), nil
	case UnaryExpr:
		if !ex.Op.Valid() {
			return "", fmt.Errorf("unknown unary operator %q", string(ex.Op))
		}
		operand, err := exprSQL(ex.Operand, ex.Op.Precedence())
		if err != nil {
			return "", err
		}
		return wrapIfNeeded(ex.Op.SQL()+" "+operand, ex.Op.Precedence(), contextPrec), nil
	case BinaryExpr:
		if !ex.Op.Valid() {
			return "", fmt.Errorf("unknown binary operator %q", string(ex.Op))
		}
		p := ex.Op.Precedence()
		left, err := exprSQL(ex.Left, p)
		if err != nil {
			return "", err
		}
		// Equal precedence on the right re-parses into the left
		// subtree, so it needs one more level of protection.
		right, err := exprSQL(ex.Right, p+1)
		if err != nil {
			return "", err
		}
		return wrapIfNeeded(left+" "+ex.Op.SQL()+" "+right, p, contextPrec), nil
	case nil:
		return "", fmt.Errorf("expression is nil")
	default:
		return "", fmt.Errorf("unsupported expression type %T", e)
	}
}

func wrapIfNeeded(rendered string, prec, contextPrec int) string {
	if prec < contextPrec {
		return "(" + rendered + ")"
	}
	return rendered
}
