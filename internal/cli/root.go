package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// Parser bounds. Flags can tighten them below the protocol
	// defaults; they never relax past the ceilings.
	MaxIdentifierBytes int
	MaxDigits          int
	MaxDepth           int
}

// Limits folds the flag values into parser limits.
func (o *RootOptions) Limits() sqlparser.Limits {
	return sqlparser.Limits{
		MaxIdentifierBytes: o.MaxIdentifierBytes,
		MaxDigits:          o.MaxDigits,
		MaxDepth:           o.MaxDepth,
	}
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the sxtsql CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	defaults := sqlparser.DefaultLimits()

	cmd := &cobra.Command{
		Use:   "sxtsql",
		Short: "Provable-SQL query front end",
		Long: `Parses the provable-SQL dialect into a canonical AST.

The canonical JSON encoding and its commitment digest are byte-stable
across processes and platforms, so downstream proof tooling can commit
to them directly.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().IntVar(&opts.MaxIdentifierBytes, "max-identifier-bytes", defaults.MaxIdentifierBytes,
		"identifier length bound in bytes, after normalization")
	cmd.PersistentFlags().IntVar(&opts.MaxDigits, "max-digits", defaults.MaxDigits,
		"significant digit bound for numeric literals")
	cmd.PersistentFlags().IntVar(&opts.MaxDepth, "max-depth", defaults.MaxDepth,
		"expression nesting bound")

	// Add subcommands
	cmd.AddCommand(NewParseCommand(opts))
	cmd.AddCommand(NewTokensCommand(opts))
	cmd.AddCommand(NewDigestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
