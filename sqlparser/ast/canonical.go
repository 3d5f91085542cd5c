package ast

import (
	"fmt"
	"strconv"

	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/canonjson"
	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/literal"
)

// Node tags of the canonical encoding. Every encoded node is a tagged
// object; the tag, not the key set, identifies the variant.
const (
	tagQuery   = "query"
	tagStar    = "star"
	tagItem    = "item"
	tagTable   = "table"
	tagLiteral = "literal"
	tagColumn  = "column"
	tagUnary   = "unary"
	tagBinary  = "binary"
)

// Literal type tags within a tagLiteral node.
const (
	litBool      = "bool"
	litInt       = "int"
	litDecimal   = "decimal"
	litText      = "text"
	litTimestamp = "timestamp"
)

// EncodeQuery returns the canonical encoding of q: RFC 8785 canonical
// JSON over tagged node objects. The bytes are the commitment input for
// Digest, so the encoding is total and injective on valid trees - equal
// trees encode identically, distinct trees never collide. Absent
// clauses are omitted, never null. Integer digits, decimal
// coefficients, and LIMIT/OFFSET counts are encoded as decimal strings;
// a JSON number would invite float decoding on the other side of the
// trust boundary.
func EncodeQuery(q *Query) ([]byte, error) {
	doc, err := queryDoc(q)
	if err != nil {
		return nil, err
	}
	return canonjson.Marshal(doc)
}

func queryDoc(q *Query) (canonjson.Object, error) {
	if q == nil {
		return nil, fmt.Errorf("query is nil")
	}
	if len(q.SelectItems) == 0 {
		return nil, fmt.Errorf("query has an empty projection")
	}
	items := make(canonjson.Array, len(q.SelectItems))
	for i, item := range q.SelectItems {
		doc, err := selectItemDoc(item)
		if err != nil {
			return nil, fmt.Errorf("select[%d]: %w", i, err)
		}
		items[i] = doc
	}
	from, err := tableDoc(q.From)
	if err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	obj := canonjson.Object{
		"node":   canonjson.String(tagQuery),
		"select": items,
		"from":   from,
	}
	if q.Where != nil {
		doc, err := exprDoc(q.Where)
		if err != nil {
			return nil, fmt.Errorf("where: %w", err)
		}
		obj["where"] = doc
	}
	if len(q.GroupBy) > 0 {
		groups := make(canonjson.Array, len(q.GroupBy))
		for i, expr := range q.GroupBy {
			doc, err := exprDoc(expr)
			if err != nil {
				return nil, fmt.Errorf("group_by[%d]: %w", i, err)
			}
			groups[i] = doc
		}
		obj["group_by"] = groups
	}
	if len(q.OrderBy) > 0 {
		orders := make(canonjson.Array, len(q.OrderBy))
		for i, item := range q.OrderBy {
			doc, err := exprDoc(item.Expr)
			if err != nil {
				return nil, fmt.Errorf("order_by[%d]: %w", i, err)
			}
			orders[i] = canonjson.Object{
				"expr": doc,
				"desc": canonjson.Bool(item.Desc),
			}
		}
		obj["order_by"] = orders
	}
	if q.Limit != nil {
		obj["limit"] = canonjson.String(strconv.FormatUint(*q.Limit, 10))
	}
	if q.Offset != nil {
		obj["offset"] = canonjson.String(strconv.FormatUint(*q.Offset, 10))
	}
	return obj, nil
}

func selectItemDoc(item SelectItem) (canonjson.Object, error) {
	switch it := item.(type) {
	case Star:
		return canonjson.Object{"node": canonjson.String(tagStar)}, nil
	case AliasedExpr:
		expr, err := exprDoc(it.Expr)
		if err != nil {
			return nil, err
		}
		obj := canonjson.Object{
			"node": canonjson.String(tagItem),
			"expr": expr,
		}
		if !it.Alias.IsZero() {
			obj["alias"] = canonjson.String(it.Alias.String())
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported select item %T", item)
	}
}

func tableDoc(table TableExpression) (canonjson.Object, error) {
	if table.Name.IsZero() {
		return nil, fmt.Errorf("table has no name")
	}
	obj := canonjson.Object{
		"node": canonjson.String(tagTable),
		"name": canonjson.String(table.Name.String()),
	}
	if !table.Schema.IsZero() {
		obj["schema"] = canonjson.String(table.Schema.String())
	}
	if !table.Alias.IsZero() {
		obj["alias"] = canonjson.String(table.Alias.String())
	}
	return obj, nil
}

func exprDoc(expr Expression) (canonjson.Object, error) {
	switch e := expr.(type) {
	case LiteralExpr:
		return literalDoc(e.Value)
	case ColumnRef:
		if e.Name.IsZero() {
			return nil, fmt.Errorf("column reference has no name")
		}
		return canonjson.Object{
			"node": canonjson.String(tagColumn),
			"name": canonjson.String(e.Name.String()),
		}, nil
	case UnaryExpr:
		if !e.Op.Valid() {
			return nil, fmt.Errorf("unknown unary operator %q", string(e.Op))
		}
		operand, err := exprDoc(e.Operand)
		if err != nil {
			return nil, err
		}
		return canonjson.Object{
			"node":    canonjson.String(tagUnary),
			"op":      canonjson.String(string(e.Op)),
			"operand": operand,
		}, nil
	case BinaryExpr:
		if !e.Op.Valid() {
			return nil, fmt.Errorf("unknown binary operator %q", string(e.Op))
		}
		left, err := exprDoc(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := exprDoc(e.Right)
		if err != nil {
			return nil, err
		}
		return canonjson.Object{
			"node":  canonjson.String(tagBinary),
			"op":    canonjson.String(string(e.Op)),
			"left":  left,
			"right": right,
		}, nil
	case nil:
		return nil, fmt.Errorf("expression is nil")
	default:
		return nil, fmt.Errorf("unsupported expression %T", expr)
	}
}

func literalDoc(v literal.Value) (canonjson.Object, error) {
	obj := canonjson.Object{"node": canonjson.String(tagLiteral)}
	switch lv := v.(type) {
	case literal.Bool:
		obj["type"] = canonjson.String(litBool)
		obj["value"] = canonjson.Bool(lv.Value)
	case literal.Int:
		if lv.Value == nil {
			return nil, fmt.Errorf("integer literal has no digits")
		}
		obj["type"] = canonjson.String(litInt)
		obj["value"] = canonjson.String(lv.Value.String())
	case literal.Decimal:
		if lv == (literal.Decimal{}) {
			return nil, fmt.Errorf("decimal literal is uninitialized")
		}
		obj["type"] = canonjson.String(litDecimal)
		obj["coefficient"] = canonjson.String(lv.Coefficient().String())
		obj["scale"] = canonjson.Int(int64(lv.Scale()))
	case literal.Text:
		obj["type"] = canonjson.String(litText)
		obj["value"] = canonjson.String(lv.Value)
	case literal.Timestamp:
		obj["type"] = canonjson.String(litTimestamp)
		obj["value"] = canonjson.String(lv.String())
	case nil:
		return nil, fmt.Errorf("literal has no value")
	default:
		return nil, fmt.Errorf("unsupported literal %T", v)
	}
	return obj, nil
}
