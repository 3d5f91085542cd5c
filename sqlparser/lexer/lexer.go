package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/source"
	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/sqlerr"
)

// Lexer scans query text one token per Next call.
//
// The zero value is a lexer over the empty string; use New for anything
// else. A Lexer is not safe for concurrent use.
type Lexer struct {
	src  string
	pos  int
	prev Token

	// Line/column bookkeeping: mark is the offset whose position is
	// cached in line and col, always the start of the last token.
	mark int
	line int
	col  int
}

// New returns a lexer positioned at the first token of src.
func New(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Source returns the input text the lexer scans.
func (l *Lexer) Source() string {
	return l.src
}

// Reset rewinds the lexer to the start of its input.
func (l *Lexer) Reset() {
	l.pos = 0
	l.prev = Token{}
	l.mark = 0
	l.line = 1
	l.col = 1
}

// Tokenize scans src to completion and returns every token, including
// the terminating KindEOF token. On a lexical error it returns nil and
// the *sqlerr.Error describing the offending span.
func Tokenize(src string) ([]Token, error) {
	lx := New(src)
	var toks []Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == KindEOF {
			return toks, nil
		}
	}
}

// Next returns the next token. After the input is exhausted it returns a
// KindEOF token on every call. Errors are *sqlerr.Error values of
// KindLexical.
func (l *Lexer) Next() (Token, error) {
	if err := l.skipTrivia(); err != nil {
		return Token{}, err
	}
	if l.pos >= len(l.src) {
		return l.emit(Token{Kind: KindEOF, Span: source.NewSpan(len(l.src), len(l.src))}), nil
	}

	start := l.pos
	c := l.src[l.pos]

	switch {
	case c == '\'':
		return l.scanString(start)
	case c == '"':
		return l.scanQuotedIdentifier(start)
	case isDigit(c):
		return l.scanNumber(start)
	case (c == '+' || c == '-') && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1]) && !canEndExpression(l.prev):
		// The sign belongs to the literal only where a binary operator
		// could not appear: "a-1" subtracts, "WHERE -1 < a" negates.
		l.pos++
		return l.scanNumber(start)
	}

	if l.pos+1 < len(l.src) {
		switch two := l.src[l.pos : l.pos+2]; two {
		case "<=", ">=", "<>":
			l.pos += 2
			return l.emit(Token{Kind: KindSymbol, Span: source.NewSpan(start, l.pos), Text: two}), nil
		}
	}
	switch c {
	case '(', ')', ',', '.', '*', '+', '-', '/', '=', '<', '>':
		l.pos++
		return l.emit(Token{Kind: KindSymbol, Span: source.NewSpan(start, l.pos), Text: l.src[start:l.pos]}), nil
	}

	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	if isIdentStart(r) {
		return l.scanWord(start), nil
	}
	if r == utf8.RuneError && size == 1 {
		return Token{}, sqlerr.Lexical(sqlerr.InvalidCharacterCode,
			source.NewSpan(start, start+1), "invalid UTF-8 byte 0x%02x", l.src[l.pos])
	}
	return Token{}, sqlerr.Lexical(sqlerr.InvalidCharacterCode,
		source.NewSpan(start, start+size), "invalid character %q", r)
}

func (l *Lexer) emit(tok Token) Token {
	if l.line == 0 {
		l.line, l.col = 1, 1
	}
	seg := l.src[l.mark:tok.Span.Start]
	if n := strings.Count(seg, "\n"); n > 0 {
		l.line += n
		l.col = len(seg) - strings.LastIndexByte(seg, '\n')
	} else {
		l.col += len(seg)
	}
	l.mark = tok.Span.Start
	tok.Line, tok.Column = l.line, l.col
	l.prev = tok
	return tok
}

// skipTrivia advances past whitespace, "--" line comments, and "/* */"
// block comments. Block comments do not nest.
func (l *Lexer) skipTrivia() error {
	for l.pos < len(l.src) {
		switch c := l.src[l.pos]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f':
			l.pos++
		case c == '-' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '-':
			if nl := strings.IndexByte(l.src[l.pos:], '\n'); nl >= 0 {
				l.pos += nl + 1
			} else {
				l.pos = len(l.src)
			}
		case c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '*':
			start := l.pos
			end := strings.Index(l.src[l.pos+2:], "*/")
			if end < 0 {
				l.pos = len(l.src)
				return sqlerr.Lexical(sqlerr.UnterminatedCommentCode,
					source.NewSpan(start, len(l.src)), "block comment is not terminated")
			}
			l.pos += 2 + end + 2
		default:
			return nil
		}
	}
	return nil
}

func (l *Lexer) scanString(start int) (Token, error) {
	l.pos++ // opening quote
	doubled := false
	for l.pos < len(l.src) {
		if l.src[l.pos] != '\'' {
			l.pos++
			continue
		}
		if l.pos+1 < len(l.src) && l.src[l.pos+1] == '\'' {
			doubled = true
			l.pos += 2
			continue
		}
		l.pos++
		raw := l.src[start:l.pos]
		value := raw[1 : len(raw)-1]
		if doubled {
			value = strings.ReplaceAll(value, "''", "'")
		}
		return l.emit(Token{Kind: KindString, Span: source.NewSpan(start, l.pos), Text: raw, Value: value}), nil
	}
	return Token{}, sqlerr.Lexical(sqlerr.UnterminatedStringCode,
		source.NewSpan(start, len(l.src)), "string literal is not terminated")
}

func (l *Lexer) scanQuotedIdentifier(start int) (Token, error) {
	l.pos++ // opening quote
	doubled := false
	for l.pos < len(l.src) {
		if l.src[l.pos] != '"' {
			l.pos++
			continue
		}
		if l.pos+1 < len(l.src) && l.src[l.pos+1] == '"' {
			doubled = true
			l.pos += 2
			continue
		}
		l.pos++
		raw := l.src[start:l.pos]
		value := raw[1 : len(raw)-1]
		if doubled {
			value = strings.ReplaceAll(value, `""`, `"`)
		}
		return l.emit(Token{Kind: KindQuotedIdentifier, Span: source.NewSpan(start, l.pos), Text: raw, Value: value}), nil
	}
	return Token{}, sqlerr.Lexical(sqlerr.UnterminatedQuotedIdentifierCode,
		source.NewSpan(start, len(l.src)), "quoted identifier is not terminated")
}

// scanNumber scans digits and an optional fraction. The sign, if any,
// was already consumed by the caller; start points at it.
func (l *Lexer) scanNumber(start int) (Token, error) {
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	if l.pos < len(l.src) && l.src[l.pos] == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1]) {
		l.pos++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	} else if l.pos < len(l.src) && l.src[l.pos] == '.' {
		l.pos++
		return Token{}, sqlerr.Lexical(sqlerr.MalformedNumberCode,
			source.NewSpan(start, l.pos), "number %q has no digits after the decimal point", l.src[start:l.pos])
	}
	return l.emit(Token{Kind: KindNumber, Span: source.NewSpan(start, l.pos), Text: l.src[start:l.pos]}), nil
}

func (l *Lexer) scanWord(start int) Token {
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !isIdentPart(r) {
			break
		}
		l.pos += size
	}
	word := l.src[start:l.pos]
	span := source.NewSpan(start, l.pos)
	if canon, ok := LookupKeyword(word); ok {
		return l.emit(Token{Kind: KindKeyword, Span: span, Text: word, Keyword: canon})
	}
	return l.emit(Token{Kind: KindIdentifier, Span: span, Text: word})
}

// canEndExpression reports whether tok can be the last token of a
// complete expression. A '+' or '-' after such a token is a binary
// operator, never a literal sign.
func canEndExpression(tok Token) bool {
	switch tok.Kind {
	case KindIdentifier, KindQuotedIdentifier, KindNumber, KindString:
		return true
	case KindKeyword:
		return tok.Keyword == KwTrue || tok.Keyword == KwFalse
	case KindSymbol:
		return tok.Text == ")"
	}
	return false
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
