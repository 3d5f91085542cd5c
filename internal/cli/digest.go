package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser"
	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/ast"
)

// DigestResult holds the digest command's success payload.
type DigestResult struct {
	Digest string `json:"digest"`
	Domain string `json:"domain"`
}

// NewDigestCommand creates the digest command.
func NewDigestCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digest <query>",
		Short: "Print the commitment digest of a query",
		Long: `Print the commitment digest of a query.

The digest is the hex SHA-256 of the canonical encoding under the
query domain prefix. Structurally equal queries digest identically,
whatever their source spelling.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDigest(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runDigest(opts *RootOptions, src string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	q, err := sqlparser.ParseWithLimits(src, opts.Limits())
	if err != nil {
		return failParse(formatter, src, err)
	}

	digest, err := ast.Digest(q)
	if err != nil {
		return WrapExitError(ExitCommandError, "digest query", err)
	}

	if opts.Format == "json" {
		return formatter.Success(DigestResult{Digest: digest, Domain: ast.DomainQuery})
	}
	fmt.Fprintln(formatter.Writer, digest)
	return nil
}
