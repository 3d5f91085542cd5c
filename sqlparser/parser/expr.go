package parser

import (
	"strings"

	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/ast"
	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/lexer"
	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/literal"
	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/source"
	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/sqlerr"
)

// parseExpression is the precedence-climbing core. minBP is the lowest
// binding power an infix operator must have to extend the current left
// operand; depth counts nesting levels below the clause-level call and
// is bounded by the configured limit.
//
// All binary operators associate left, so the right operand is parsed
// one binding power above the operator's own.
func (p *parser) parseExpression(minBP, depth int) (ast.Expression, error) {
	if depth > p.limits.MaxDepth {
		e := sqlerr.Syntactic(sqlerr.DepthExceededCode, p.tok.Span,
			"expression nesting exceeds %d levels", p.limits.MaxDepth)
		e.Limit = p.limits.MaxDepth
		return nil, e
	}

	left, err := p.parsePrefix(depth)
	if err != nil {
		return nil, err
	}

	for {
		op, bp, ok := infixOp(p.tok)
		if !ok || bp < minBP {
			return left, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseExpression(bp+1, depth+1)
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
}

// parsePrefix parses one operand: a literal, a column reference, a NOT
// application, or a parenthesized expression.
func (p *parser) parsePrefix(depth int) (ast.Expression, error) {
	tok := p.tok
	switch {
	case tok.Kind == lexer.KindNumber:
		if err := p.advance(); err != nil {
			return nil, err
		}
		v, err := literal.ParseNumber(tok.Text)
		if err != nil {
			return nil, spanned(err, tok.Span)
		}
		if err := p.checkDigits(v, tok.Span); err != nil {
			return nil, err
		}
		return ast.LiteralExpr{Value: v}, nil

	case tok.Kind == lexer.KindString:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.LiteralExpr{Value: literal.NewText(tok.Value)}, nil

	case tok.Is(lexer.KwTrue), tok.Is(lexer.KwFalse):
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.LiteralExpr{Value: literal.Bool{Value: tok.Is(lexer.KwTrue)}}, nil

	case tok.Is(lexer.KwTimestamp):
		if err := p.advance(); err != nil {
			return nil, err
		}
		strTok := p.tok
		if strTok.Kind != lexer.KindString {
			return nil, p.unexpected(strTok, "string")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		ts, err := literal.ParseTimestamp(strTok.Value)
		if err != nil {
			return nil, spanned(err, strTok.Span)
		}
		return ast.LiteralExpr{Value: ts}, nil

	case tok.Is(lexer.KwNot):
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseExpression(ast.PrecNot, depth+1)
		if err != nil {
			return nil, err
		}
		return ast.UnaryExpr{Op: ast.OpNot, Operand: operand}, nil

	case tok.Kind == lexer.KindIdentifier, tok.Kind == lexer.KindQuotedIdentifier:
		if err := p.advance(); err != nil {
			return nil, err
		}
		name, err := p.makeIdentifier(tok)
		if err != nil {
			return nil, err
		}
		return ast.ColumnRef{Name: name}, nil

	case tok.IsSymbol("("):
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpression(0, depth+1)
		if err != nil {
			return nil, err
		}
		if !p.tok.IsSymbol(")") {
			return nil, p.unexpected(p.tok, `")"`)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return inner, nil

	default:
		return nil, p.unexpected(tok, `"("`, "identifier", "keyword NOT", "literal")
	}
}

// infixOp maps the current token to its binary operator and binding
// power. NOT is prefix-only; '*' reaching here is multiplication, since
// the star projection is consumed before expression parsing starts.
func infixOp(tok lexer.Token) (ast.BinaryOperator, int, bool) {
	switch {
	case tok.Is(lexer.KwOr):
		return ast.OpOr, ast.PrecOr, true
	case tok.Is(lexer.KwAnd):
		return ast.OpAnd, ast.PrecAnd, true
	case tok.Kind == lexer.KindSymbol:
		switch tok.Text {
		case "=":
			return ast.OpEq, ast.PrecComparison, true
		case "<>":
			return ast.OpNe, ast.PrecComparison, true
		case "<":
			return ast.OpLt, ast.PrecComparison, true
		case "<=":
			return ast.OpLe, ast.PrecComparison, true
		case ">":
			return ast.OpGt, ast.PrecComparison, true
		case ">=":
			return ast.OpGe, ast.PrecComparison, true
		case "+":
			return ast.OpAdd, ast.PrecAdditive, true
		case "-":
			return ast.OpSub, ast.PrecAdditive, true
		case "*":
			return ast.OpMul, ast.PrecMultiplicative, true
		case "/":
			return ast.OpDiv, ast.PrecMultiplicative, true
		}
	}
	return "", 0, false
}

// checkDigits enforces a tightened MaxDigits limit. The protocol
// ceiling itself is enforced during literal construction.
func (p *parser) checkDigits(v literal.Value, span source.Span) error {
	if p.limits.MaxDigits >= literal.MaxPrecision {
		return nil
	}
	n := significantDigits(v)
	if n > p.limits.MaxDigits {
		e := sqlerr.Semantic(sqlerr.PrecisionExceededCode, span,
			"number has %d significant digits, limit is %d", n, p.limits.MaxDigits)
		e.Digits, e.Limit = n, p.limits.MaxDigits
		return e
	}
	return nil
}

// significantDigits counts coefficient digits, sign excluded. Leading
// zeros never survive big.Int, so the count matches apd's NumDigits.
func significantDigits(v literal.Value) int {
	switch lv := v.(type) {
	case literal.Int:
		return len(strings.TrimPrefix(lv.Value.String(), "-"))
	case literal.Decimal:
		return len(strings.TrimPrefix(lv.Coefficient().String(), "-"))
	}
	return 0
}
