package ast

import (
	"fmt"
	"math/big"
	"slices"
	"strconv"

	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/canonjson"
	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/ident"
	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/literal"
)

// DecodeQuery parses a canonical encoding produced by EncodeQuery back
// into a Query.
//
// The decoder re-validates everything it admits (the encoding crosses a
// trust boundary): identifiers and literals pass through the same
// bounds as parsing, unknown node tags, unknown keys, and malformed
// fields are rejected, and each field must already be in its canonical
// spelling - decoding never normalizes. A successful decode re-encodes
// to the same canonical value; Decode(Encode(q)) is structurally equal
// to q.
func DecodeQuery(data []byte) (*Query, error) {
	v, err := canonjson.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decode query: %w", err)
	}
	q, err := decodeQuery(v)
	if err != nil {
		return nil, fmt.Errorf("decode query: %w", err)
	}
	return q, nil
}

func decodeQuery(v canonjson.Value) (*Query, error) {
	obj, tag, err := taggedObject(v)
	if err != nil {
		return nil, err
	}
	if tag != tagQuery {
		return nil, fmt.Errorf("expected a %q node, got %q", tagQuery, tag)
	}
	if err := checkKeys(obj, "node", "select", "from", "where", "group_by", "order_by", "limit", "offset"); err != nil {
		return nil, err
	}

	q := &Query{}

	items, err := arrayField(obj, "select")
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("select: projection is empty")
	}
	q.SelectItems = make([]SelectItem, len(items))
	for i, item := range items {
		decoded, err := decodeSelectItem(item)
		if err != nil {
			return nil, fmt.Errorf("select[%d]: %w", i, err)
		}
		if _, isStar := decoded.(Star); isStar && len(items) != 1 {
			return nil, fmt.Errorf("select[%d]: star must be the only projection item", i)
		}
		q.SelectItems[i] = decoded
	}

	fromVal, ok := obj["from"]
	if !ok {
		return nil, fmt.Errorf("missing key %q", "from")
	}
	if q.From, err = decodeTable(fromVal); err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}

	if whereVal, ok := obj["where"]; ok {
		if q.Where, err = decodeExpr(whereVal); err != nil {
			return nil, fmt.Errorf("where: %w", err)
		}
	}

	if groupVal, ok := obj["group_by"]; ok {
		groups, ok := groupVal.(canonjson.Array)
		if !ok || len(groups) == 0 {
			return nil, fmt.Errorf("group_by: expected a non-empty array")
		}
		q.GroupBy = make([]Expression, len(groups))
		for i, g := range groups {
			if q.GroupBy[i], err = decodeExpr(g); err != nil {
				return nil, fmt.Errorf("group_by[%d]: %w", i, err)
			}
		}
	}

	if orderVal, ok := obj["order_by"]; ok {
		orders, ok := orderVal.(canonjson.Array)
		if !ok || len(orders) == 0 {
			return nil, fmt.Errorf("order_by: expected a non-empty array")
		}
		q.OrderBy = make([]OrderByItem, len(orders))
		for i, o := range orders {
			item, err := decodeOrderBy(o)
			if err != nil {
				return nil, fmt.Errorf("order_by[%d]: %w", i, err)
			}
			q.OrderBy[i] = item
		}
	}

	if q.Limit, err = optCountField(obj, "limit"); err != nil {
		return nil, err
	}
	if q.Offset, err = optCountField(obj, "offset"); err != nil {
		return nil, err
	}
	return q, nil
}

func decodeSelectItem(v canonjson.Value) (SelectItem, error) {
	obj, tag, err := taggedObject(v)
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagStar:
		if err := checkKeys(obj, "node"); err != nil {
			return nil, err
		}
		return Star{}, nil
	case tagItem:
		if err := checkKeys(obj, "node", "expr", "alias"); err != nil {
			return nil, err
		}
		exprVal, ok := obj["expr"]
		if !ok {
			return nil, fmt.Errorf("missing key %q", "expr")
		}
		expr, err := decodeExpr(exprVal)
		if err != nil {
			return nil, err
		}
		item := AliasedExpr{Expr: expr}
		if alias, ok, err := optIdentField(obj, "alias"); err != nil {
			return nil, err
		} else if ok {
			item.Alias = alias
		}
		return item, nil
	default:
		return nil, fmt.Errorf("unknown projection node %q", tag)
	}
}

func decodeTable(v canonjson.Value) (TableExpression, error) {
	obj, tag, err := taggedObject(v)
	if err != nil {
		return TableExpression{}, err
	}
	if tag != tagTable {
		return TableExpression{}, fmt.Errorf("expected a %q node, got %q", tagTable, tag)
	}
	if err := checkKeys(obj, "node", "name", "schema", "alias"); err != nil {
		return TableExpression{}, err
	}
	var table TableExpression
	if table.Name, err = identField(obj, "name"); err != nil {
		return TableExpression{}, err
	}
	if schema, ok, err := optIdentField(obj, "schema"); err != nil {
		return TableExpression{}, err
	} else if ok {
		table.Schema = schema
	}
	if alias, ok, err := optIdentField(obj, "alias"); err != nil {
		return TableExpression{}, err
	} else if ok {
		table.Alias = alias
	}
	return table, nil
}

func decodeOrderBy(v canonjson.Value) (OrderByItem, error) {
	obj, ok := v.(canonjson.Object)
	if !ok {
		return OrderByItem{}, fmt.Errorf("expected an object, got %T", v)
	}
	if err := checkKeys(obj, "expr", "desc"); err != nil {
		return OrderByItem{}, err
	}
	exprVal, ok := obj["expr"]
	if !ok {
		return OrderByItem{}, fmt.Errorf("missing key %q", "expr")
	}
	expr, err := decodeExpr(exprVal)
	if err != nil {
		return OrderByItem{}, err
	}
	descVal, ok := obj["desc"]
	if !ok {
		return OrderByItem{}, fmt.Errorf("missing key %q", "desc")
	}
	desc, ok := descVal.(canonjson.Bool)
	if !ok {
		return OrderByItem{}, fmt.Errorf("key %q: expected a boolean", "desc")
	}
	return OrderByItem{Expr: expr, Desc: bool(desc)}, nil
}

func decodeExpr(v canonjson.Value) (Expression, error) {
	obj, tag, err := taggedObject(v)
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagLiteral:
		return decodeLiteral(obj)
	case tagColumn:
		if err := checkKeys(obj, "node", "name"); err != nil {
			return nil, err
		}
		name, err := identField(obj, "name")
		if err != nil {
			return nil, err
		}
		return ColumnRef{Name: name}, nil
	case tagUnary:
		if err := checkKeys(obj, "node", "op", "operand"); err != nil {
			return nil, err
		}
		opStr, err := stringField(obj, "op")
		if err != nil {
			return nil, err
		}
		op := UnaryOperator(opStr)
		if !op.Valid() {
			return nil, fmt.Errorf("unknown unary operator %q", opStr)
		}
		operandVal, ok := obj["operand"]
		if !ok {
			return nil, fmt.Errorf("missing key %q", "operand")
		}
		operand, err := decodeExpr(operandVal)
		if err != nil {
			return nil, err
		}
		return UnaryExpr{Op: op, Operand: operand}, nil
	case tagBinary:
		if err := checkKeys(obj, "node", "op", "left", "right"); err != nil {
			return nil, err
		}
		opStr, err := stringField(obj, "op")
		if err != nil {
			return nil, err
		}
		op := BinaryOperator(opStr)
		if !op.Valid() {
			return nil, fmt.Errorf("unknown binary operator %q", opStr)
		}
		leftVal, ok := obj["left"]
		if !ok {
			return nil, fmt.Errorf("missing key %q", "left")
		}
		left, err := decodeExpr(leftVal)
		if err != nil {
			return nil, err
		}
		rightVal, ok := obj["right"]
		if !ok {
			return nil, fmt.Errorf("missing key %q", "right")
		}
		right, err := decodeExpr(rightVal)
		if err != nil {
			return nil, err
		}
		return BinaryExpr{Op: op, Left: left, Right: right}, nil
	default:
		return nil, fmt.Errorf("unknown expression node %q", tag)
	}
}

func decodeLiteral(obj canonjson.Object) (Expression, error) {
	typeTag, err := stringField(obj, "type")
	if err != nil {
		return nil, err
	}
	switch typeTag {
	case litBool:
		if err := checkKeys(obj, "node", "type", "value"); err != nil {
			return nil, err
		}
		b, ok := obj["value"].(canonjson.Bool)
		if !ok {
			return nil, fmt.Errorf("key %q: expected a boolean", "value")
		}
		return LiteralExpr{Value: literal.Bool{Value: bool(b)}}, nil
	case litInt:
		if err := checkKeys(obj, "node", "type", "value"); err != nil {
			return nil, err
		}
		s, err := stringField(obj, "value")
		if err != nil {
			return nil, err
		}
		digits, err := canonicalBigInt(s)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", "value", err)
		}
		iv, err := literal.NewInt(digits)
		if err != nil {
			return nil, err
		}
		return LiteralExpr{Value: iv}, nil
	case litDecimal:
		if err := checkKeys(obj, "node", "type", "coefficient", "scale"); err != nil {
			return nil, err
		}
		s, err := stringField(obj, "coefficient")
		if err != nil {
			return nil, err
		}
		coeff, err := canonicalBigInt(s)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", "coefficient", err)
		}
		scaleVal, ok := obj["scale"].(canonjson.Int)
		if !ok {
			return nil, fmt.Errorf("key %q: expected an integer", "scale")
		}
		dv, err := literal.NewDecimal(coeff, int(scaleVal))
		if err != nil {
			return nil, err
		}
		return LiteralExpr{Value: dv}, nil
	case litText:
		if err := checkKeys(obj, "node", "type", "value"); err != nil {
			return nil, err
		}
		s, err := stringField(obj, "value")
		if err != nil {
			return nil, err
		}
		text := literal.NewText(s)
		if text.Value != s {
			return nil, fmt.Errorf("key %q: text is not NFC-canonical", "value")
		}
		return LiteralExpr{Value: text}, nil
	case litTimestamp:
		if err := checkKeys(obj, "node", "type", "value"); err != nil {
			return nil, err
		}
		s, err := stringField(obj, "value")
		if err != nil {
			return nil, err
		}
		ts, err := literal.ParseTimestamp(s)
		if err != nil {
			return nil, err
		}
		if ts.String() != s {
			return nil, fmt.Errorf("key %q: timestamp %q is not in canonical UTC form", "value", s)
		}
		return LiteralExpr{Value: ts}, nil
	default:
		return nil, fmt.Errorf("unknown literal type %q", typeTag)
	}
}

func taggedObject(v canonjson.Value) (canonjson.Object, string, error) {
	obj, ok := v.(canonjson.Object)
	if !ok {
		return nil, "", fmt.Errorf("expected an object, got %T", v)
	}
	tag, err := stringField(obj, "node")
	if err != nil {
		return nil, "", err
	}
	return obj, tag, nil
}

func checkKeys(obj canonjson.Object, allowed ...string) error {
	for k := range obj {
		if !slices.Contains(allowed, k) {
			return fmt.Errorf("unexpected key %q", k)
		}
	}
	return nil
}

func stringField(obj canonjson.Object, key string) (string, error) {
	v, ok := obj[key]
	if !ok {
		return "", fmt.Errorf("missing key %q", key)
	}
	s, ok := v.(canonjson.String)
	if !ok {
		return "", fmt.Errorf("key %q: expected a string", key)
	}
	return string(s), nil
}

func arrayField(obj canonjson.Object, key string) (canonjson.Array, error) {
	v, ok := obj[key]
	if !ok {
		return nil, fmt.Errorf("missing key %q", key)
	}
	arr, ok := v.(canonjson.Array)
	if !ok {
		return nil, fmt.Errorf("key %q: expected an array", key)
	}
	return arr, nil
}

func identField(obj canonjson.Object, key string) (ident.Identifier, error) {
	s, err := stringField(obj, key)
	if err != nil {
		return ident.Identifier{}, err
	}
	id, err := decodeIdentifier(s)
	if err != nil {
		return ident.Identifier{}, fmt.Errorf("key %q: %w", key, err)
	}
	return id, nil
}

func optIdentField(obj canonjson.Object, key string) (ident.Identifier, bool, error) {
	v, ok := obj[key]
	if !ok {
		return ident.Identifier{}, false, nil
	}
	s, isStr := v.(canonjson.String)
	if !isStr {
		return ident.Identifier{}, false, fmt.Errorf("key %q: expected a string", key)
	}
	id, err := decodeIdentifier(string(s))
	if err != nil {
		return ident.Identifier{}, false, fmt.Errorf("key %q: %w", key, err)
	}
	return id, true, nil
}

// decodeIdentifier admits an already-canonical identifier: same bounds
// as parsing, but no case folding and no normalization - text that is
// not NFC is rejected rather than adjusted.
func decodeIdentifier(s string) (ident.Identifier, error) {
	id, err := ident.NewQuoted(s)
	if err != nil {
		return ident.Identifier{}, err
	}
	if id.String() != s {
		return ident.Identifier{}, fmt.Errorf("identifier %q is not NFC-canonical", s)
	}
	return id, nil
}

func optCountField(obj canonjson.Object, key string) (*uint64, error) {
	v, ok := obj[key]
	if !ok {
		return nil, nil
	}
	s, isStr := v.(canonjson.String)
	if !isStr {
		return nil, fmt.Errorf("key %q: expected a string", key)
	}
	n, err := strconv.ParseUint(string(s), 10, 64)
	if err != nil || strconv.FormatUint(n, 10) != string(s) {
		return nil, fmt.Errorf("key %q: %q is not a canonical unsigned count", key, string(s))
	}
	return &n, nil
}

// canonicalBigInt parses base-10 digits with an optional leading minus,
// rejecting any spelling big.Int would not print back: signs on zero,
// leading zeros, a plus sign, spaces.
func canonicalBigInt(s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.String() != s {
		return nil, fmt.Errorf("%q is not a canonical integer", s)
	}
	return n, nil
}
