package lexer

import (
	"fmt"

	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/source"
)

// Kind classifies a token.
type Kind int

const (
	// KindEOF marks the end of the input. Next returns it indefinitely
	// once the input is exhausted.
	KindEOF Kind = iota

	// KindKeyword is a reserved word from the closed keyword table.
	KindKeyword

	// KindIdentifier is an unquoted identifier. Case folding is applied
	// later, by the identifier normalizer, not by the lexer.
	KindIdentifier

	// KindQuotedIdentifier is a '"'-delimited identifier with its case
	// preserved. Value holds the payload with '""' escapes collapsed.
	KindQuotedIdentifier

	// KindNumber is a numeric literal, possibly carrying a leading sign.
	KindNumber

	// KindString is a '\''-delimited string literal. Value holds the
	// payload with '\'\'' escapes collapsed.
	KindString

	// KindSymbol is an operator or punctuation lexeme.
	KindSymbol
)

var kindNames = map[Kind]string{
	KindEOF:              "end of input",
	KindKeyword:          "keyword",
	KindIdentifier:       "identifier",
	KindQuotedIdentifier: "quoted identifier",
	KindNumber:           "number",
	KindString:           "string",
	KindSymbol:           "symbol",
}

// String returns a human-readable name for the kind, suitable for error
// messages.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Token is a single lexeme with its location in the input.
type Token struct {
	// Kind classifies the token.
	Kind Kind

	// Span is the half-open byte range of the lexeme, including any
	// delimiting quotes.
	Span source.Span

	// Line and Column locate the first byte of the lexeme for
	// diagnostics. Both are 1-based; Column counts bytes.
	Line   int
	Column int

	// Text is the raw lexeme exactly as written, quotes included.
	Text string

	// Value is the decoded payload for KindString and
	// KindQuotedIdentifier: delimiters stripped and doubled-quote
	// escapes collapsed. Empty for every other kind.
	Value string

	// Keyword is the canonical upper-case spelling for KindKeyword,
	// regardless of the case used in the input. Empty otherwise.
	Keyword string
}

// Is reports whether the token is the given keyword. The argument must be
// the canonical upper-case spelling.
func (t Token) Is(keyword string) bool {
	return t.Kind == KindKeyword && t.Keyword == keyword
}

// IsSymbol reports whether the token is the given symbol lexeme.
func (t Token) IsSymbol(text string) bool {
	return t.Kind == KindSymbol && t.Text == text
}

// Describe renders the token for error messages: the kind name for
// structural kinds, the quoted lexeme for keywords and symbols.
func (t Token) Describe() string {
	switch t.Kind {
	case KindEOF:
		return "end of input"
	case KindKeyword:
		return fmt.Sprintf("keyword %s", t.Keyword)
	case KindSymbol:
		return fmt.Sprintf("%q", t.Text)
	default:
		return t.Kind.String()
	}
}

// Reserved words, canonical upper-case spellings. The table is closed:
// the parser recognizes exactly these, and the identifier rules reject
// them as unquoted names.
const (
	KwSelect    = "SELECT"
	KwFrom      = "FROM"
	KwWhere     = "WHERE"
	KwGroup     = "GROUP"
	KwBy        = "BY"
	KwOrder     = "ORDER"
	KwAsc       = "ASC"
	KwDesc      = "DESC"
	KwLimit     = "LIMIT"
	KwOffset    = "OFFSET"
	KwAs        = "AS"
	KwAnd       = "AND"
	KwOr        = "OR"
	KwNot       = "NOT"
	KwTrue      = "TRUE"
	KwFalse     = "FALSE"
	KwTimestamp = "TIMESTAMP"
)

var keywords = map[string]string{
	"SELECT":    KwSelect,
	"FROM":      KwFrom,
	"WHERE":     KwWhere,
	"GROUP":     KwGroup,
	"BY":        KwBy,
	"ORDER":     KwOrder,
	"ASC":       KwAsc,
	"DESC":      KwDesc,
	"LIMIT":     KwLimit,
	"OFFSET":    KwOffset,
	"AS":        KwAs,
	"AND":       KwAnd,
	"OR":        KwOr,
	"NOT":       KwNot,
	"TRUE":      KwTrue,
	"FALSE":     KwFalse,
	"TIMESTAMP": KwTimestamp,
}

// Keywords returns the reserved word table as a sorted-order-independent
// set keyed by canonical spelling.
func Keywords() map[string]struct{} {
	set := make(map[string]struct{}, len(keywords))
	for _, canon := range keywords {
		set[canon] = struct{}{}
	}
	return set
}

// LookupKeyword reports the canonical spelling for word if it is a
// reserved word, matching case-insensitively for ASCII letters.
func LookupKeyword(word string) (string, bool) {
	if len(word) > maxKeywordLen {
		return "", false
	}
	var buf [maxKeywordLen]byte
	for i := 0; i < len(word); i++ {
		c := word[i]
		if 'a' <= c && c <= 'z' {
			c -= 'a' - 'A'
		} else if !('A' <= c && c <= 'Z') {
			return "", false
		}
		buf[i] = c
	}
	canon, ok := keywords[string(buf[:len(word)])]
	return canon, ok
}

const maxKeywordLen = len(KwTimestamp)
