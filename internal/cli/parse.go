package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser"
	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/ast"
)

// ParseResult holds the parse command's success payload.
type ParseResult struct {
	Digest    string          `json:"digest"`
	Canonical json.RawMessage `json:"canonical"`
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <query>",
		Short: "Parse a query and print its canonical encoding",
		Long: `Parse a query and print its canonical JSON encoding.

The encoding is the exact byte sequence downstream proof tooling
commits to: keys sorted, strings NFC-normalized, numbers exact. With
--format json the output also carries the commitment digest.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runParse(opts *RootOptions, src string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	q, err := sqlparser.ParseWithLimits(src, opts.Limits())
	if err != nil {
		return failParse(formatter, src, err)
	}

	canonical, err := ast.EncodeQuery(q)
	if err != nil {
		return WrapExitError(ExitCommandError, "encode query", err)
	}
	formatter.VerboseLog("parsed %d bytes into %d canonical bytes", len(src), len(canonical))

	if opts.Format == "json" {
		digest, err := ast.Digest(q)
		if err != nil {
			return WrapExitError(ExitCommandError, "digest query", err)
		}
		return formatter.Success(ParseResult{
			Digest:    digest,
			Canonical: json.RawMessage(canonical),
		})
	}

	fmt.Fprintln(formatter.Writer, string(canonical))
	return nil
}

// failParse reports a parse error on the formatter and returns the
// ExitFailure sentinel for main's exit-code mapping.
func failParse(formatter *OutputFormatter, src string, err error) error {
	if writeErr := formatter.ParseError(src, err); writeErr != nil {
		return WrapExitError(ExitCommandError, "write error output", writeErr)
	}
	return NewExitError(ExitFailure, "query does not parse")
}
