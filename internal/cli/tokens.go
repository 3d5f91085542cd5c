package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/lexer"
)

// TokenInfo is one token of the stream, JSON-ready.
type TokenInfo struct {
	Kind    string `json:"kind"`
	Text    string `json:"text,omitempty"`
	Value   string `json:"value,omitempty"`
	Keyword string `json:"keyword,omitempty"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

// NewTokensCommand creates the tokens command.
func NewTokensCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens <query>",
		Short: "Print the token stream for a query",
		Long: `Print the token stream for a query, one token per line.

Each token reports its kind, span, and line/column position. The stream
ends with the end-of-input token. Lexical errors report the offending
span the same way parse errors do.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runTokens(opts *RootOptions, src string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	toks, err := lexer.Tokenize(src)
	if err != nil {
		return failParse(formatter, src, err)
	}
	formatter.VerboseLog("scanned %d tokens", len(toks))

	if opts.Format == "json" {
		infos := make([]TokenInfo, len(toks))
		for i, tok := range toks {
			infos[i] = TokenInfo{
				Kind:    tok.Kind.String(),
				Text:    tok.Text,
				Value:   tok.Value,
				Keyword: tok.Keyword,
				Start:   tok.Span.Start,
				End:     tok.Span.End,
				Line:    tok.Line,
				Column:  tok.Column,
			}
		}
		return formatter.Success(infos)
	}

	for _, tok := range toks {
		text := tok.Text
		if tok.Kind == lexer.KindEOF {
			text = "<eof>"
		}
		fmt.Fprintf(formatter.Writer, "%d:%d\t%s\t%s\n", tok.Line, tok.Column, tok.Kind, text)
	}
	return nil
}
