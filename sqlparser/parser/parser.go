// Package parser turns query text into the canonical AST.
//
// Parse drives the lexer one token at a time through a recursive-descent
// clause parser; expressions use precedence climbing (see expr.go).
// Identifier normalization and literal construction happen inline as
// tokens are consumed, so the first failure of any stage - lexical,
// syntactic, or semantic - aborts the parse with a single *sqlerr.Error
// carrying the span of the offending bytes. There is no recovery and no
// partial result.
package parser

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/ast"
	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/ident"
	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/lexer"
	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/source"
	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/sqlerr"
)

// Parse parses a single SELECT query under the default limits.
func Parse(src string) (*ast.Query, error) {
	return ParseWithLimits(src, DefaultLimits())
}

// ParseWithLimits parses a single SELECT query. A non-nil error is
// always a *sqlerr.Error; the returned query is nil exactly when the
// error is non-nil.
func ParseWithLimits(src string, limits Limits) (*ast.Query, error) {
	p := &parser{
		lx:     lexer.New(src),
		limits: limits.normalized(),
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	q, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	return q, nil
}

type parser struct {
	lx     *lexer.Lexer
	tok    lexer.Token
	limits Limits
}

// advance moves to the next token. Lexical errors surface here.
func (p *parser) advance() error {
	tok, err := p.lx.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) parseQuery() (*ast.Query, error) {
	if err := p.expectKeyword(lexer.KwSelect); err != nil {
		return nil, err
	}

	q := &ast.Query{}

	items, err := p.parseProjection()
	if err != nil {
		return nil, err
	}
	q.SelectItems = items

	if err := p.expectKeyword(lexer.KwFrom); err != nil {
		return nil, err
	}
	if q.From, err = p.parseTable(); err != nil {
		return nil, err
	}

	if p.tok.Is(lexer.KwWhere) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if q.Where, err = p.parseExpression(0, 0); err != nil {
			return nil, err
		}
	}

	if p.tok.Is(lexer.KwGroup) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectKeyword(lexer.KwBy); err != nil {
			return nil, err
		}
		if q.GroupBy, err = p.parseExpressionList(); err != nil {
			return nil, err
		}
	}

	if p.tok.Is(lexer.KwOrder) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectKeyword(lexer.KwBy); err != nil {
			return nil, err
		}
		if q.OrderBy, err = p.parseOrderList(); err != nil {
			return nil, err
		}
	}

	if p.tok.Is(lexer.KwLimit) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if q.Limit, err = p.parseCount("LIMIT"); err != nil {
			return nil, err
		}
	}

	if p.tok.Is(lexer.KwOffset) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if q.Offset, err = p.parseCount("OFFSET"); err != nil {
			return nil, err
		}
	}

	if p.tok.Kind != lexer.KindEOF {
		return nil, p.unexpected(p.tok, "end of input")
	}
	return q, nil
}

// parseProjection parses '*' or a comma-separated list of aliased
// expressions. The star form admits no siblings.
func (p *parser) parseProjection() ([]ast.SelectItem, error) {
	if p.tok.IsSymbol("*") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return []ast.SelectItem{ast.Star{}}, nil
	}

	var items []ast.SelectItem
	for {
		expr, err := p.parseExpression(0, 0)
		if err != nil {
			return nil, err
		}
		item := ast.AliasedExpr{Expr: expr}
		if p.tok.Is(lexer.KwAs) {
			if err := p.advance(); err != nil {
				return nil, err
			}
			if item.Alias, err = p.parseIdentifier(); err != nil {
				return nil, err
			}
		}
		items = append(items, item)

		if !p.tok.IsSymbol(",") {
			return items, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
}

// parseTable parses identifier ['.' identifier] [[AS] identifier].
func (p *parser) parseTable() (ast.TableExpression, error) {
	first, err := p.parseIdentifier()
	if err != nil {
		return ast.TableExpression{}, err
	}
	table := ast.TableExpression{Name: first}

	if p.tok.IsSymbol(".") {
		if err := p.advance(); err != nil {
			return ast.TableExpression{}, err
		}
		table.Schema = first
		if table.Name, err = p.parseIdentifier(); err != nil {
			return ast.TableExpression{}, err
		}
	}

	switch {
	case p.tok.Is(lexer.KwAs):
		if err := p.advance(); err != nil {
			return ast.TableExpression{}, err
		}
		if table.Alias, err = p.parseIdentifier(); err != nil {
			return ast.TableExpression{}, err
		}
	case p.tok.Kind == lexer.KindIdentifier || p.tok.Kind == lexer.KindQuotedIdentifier:
		if table.Alias, err = p.parseIdentifier(); err != nil {
			return ast.TableExpression{}, err
		}
	}
	return table, nil
}

func (p *parser) parseExpressionList() ([]ast.Expression, error) {
	var exprs []ast.Expression
	for {
		expr, err := p.parseExpression(0, 0)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
		if !p.tok.IsSymbol(",") {
			return exprs, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
}

func (p *parser) parseOrderList() ([]ast.OrderByItem, error) {
	var items []ast.OrderByItem
	for {
		expr, err := p.parseExpression(0, 0)
		if err != nil {
			return nil, err
		}
		item := ast.OrderByItem{Expr: expr}
		switch {
		case p.tok.Is(lexer.KwAsc):
			if err := p.advance(); err != nil {
				return nil, err
			}
		case p.tok.Is(lexer.KwDesc):
			item.Desc = true
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		items = append(items, item)

		if !p.tok.IsSymbol(",") {
			return items, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
}

// parseCount parses the unsigned integer after LIMIT or OFFSET.
func (p *parser) parseCount(clause string) (*uint64, error) {
	tok := p.tok
	if tok.Kind != lexer.KindNumber {
		return nil, p.unexpected(tok, "number")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if strings.HasPrefix(tok.Text, "-") || strings.HasPrefix(tok.Text, "+") {
		return nil, sqlerr.Semantic(sqlerr.ValueOutOfRangeCode, tok.Span,
			"%s expects an unsigned integer, got %q", clause, tok.Text)
	}
	if strings.ContainsRune(tok.Text, '.') {
		return nil, sqlerr.Semantic(sqlerr.ValueOutOfRangeCode, tok.Span,
			"%s expects a whole number, got %q", clause, tok.Text)
	}
	n, err := strconv.ParseUint(tok.Text, 10, 64)
	if err != nil {
		return nil, sqlerr.Semantic(sqlerr.ValueOutOfRangeCode, tok.Span,
			"%s value %q does not fit in 64 bits", clause, tok.Text)
	}
	return &n, nil
}

// parseIdentifier consumes an identifier token and normalizes it.
func (p *parser) parseIdentifier() (ident.Identifier, error) {
	tok := p.tok
	if tok.Kind != lexer.KindIdentifier && tok.Kind != lexer.KindQuotedIdentifier {
		return ident.Identifier{}, p.unexpected(tok, "identifier", "quoted identifier")
	}
	if err := p.advance(); err != nil {
		return ident.Identifier{}, err
	}
	return p.makeIdentifier(tok)
}

// makeIdentifier normalizes an already-consumed identifier token and
// applies the configured length limit.
func (p *parser) makeIdentifier(tok lexer.Token) (ident.Identifier, error) {
	var id ident.Identifier
	var err error
	if tok.Kind == lexer.KindQuotedIdentifier {
		id, err = ident.NewQuoted(tok.Value)
	} else {
		id, err = ident.New(tok.Text)
	}
	if err != nil {
		return ident.Identifier{}, spanned(err, tok.Span)
	}
	if n := len(id.String()); n > p.limits.MaxIdentifierBytes {
		e := sqlerr.Semantic(sqlerr.IdentifierTooLongCode, tok.Span,
			"identifier is %d bytes after normalization, limit is %d", n, p.limits.MaxIdentifierBytes)
		e.Digits, e.Limit = n, p.limits.MaxIdentifierBytes
		return ident.Identifier{}, e
	}
	return id, nil
}

// expectKeyword consumes the given keyword or fails.
func (p *parser) expectKeyword(kw string) error {
	if !p.tok.Is(kw) {
		return p.unexpected(p.tok, "keyword "+kw)
	}
	return p.advance()
}

// unexpected builds the UnexpectedTokenCode error for tok. The expected
// descriptions are sorted so the rendered message is deterministic.
func (p *parser) unexpected(tok lexer.Token, expected ...string) *sqlerr.Error {
	sort.Strings(expected)
	e := sqlerr.Syntactic(sqlerr.UnexpectedTokenCode, tok.Span, "unexpected %s", tok.Describe())
	e.Got = tok.Text
	e.Expected = expected
	return e
}

// spanned attaches span to errors produced by span-unaware layers
// (identifier normalization, literal construction).
func spanned(err error, span source.Span) error {
	if pe, ok := sqlerr.AsError(err); ok && pe.Span == (source.Span{}) {
		return pe.WithSpan(span)
	}
	return err
}
