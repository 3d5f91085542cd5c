package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/source"
	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/sqlerr"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // The query does not parse
	ExitCommandError = 2 // Command error (bad flags, unwritable output, etc.)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error // underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // diagnostics; defaults to Writer
	Verbose   bool
}

func newFormatter(opts *RootOptions, out, errOut io.Writer) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    out,
		ErrWriter: errOut,
		Verbose:   opts.Verbose,
	}
}

// Response is the JSON envelope for command output.
type Response struct {
	Status string        `json:"status"` // "ok" or "error"
	Data   any           `json:"data,omitempty"`
	Error  *ParseFailure `json:"error,omitempty"`
}

// ParseFailure is the JSON rendering of a parse error: the closed
// taxonomy fields plus the human position of the offending bytes.
type ParseFailure struct {
	Kind     string       `json:"kind,omitempty"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Span     *source.Span `json:"span,omitempty"`
	Line     int          `json:"line,omitempty"`
	Column   int          `json:"column,omitempty"`
	Got      string       `json:"got,omitempty"`
	Expected []string     `json:"expected,omitempty"`
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(Response{
			Status: "ok",
			Data:   data,
		})
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// ParseError outputs a parse failure in the configured format: the
// structured taxonomy fields as JSON, or a message with a caret snippet
// as text. src is the query text the spans index into.
func (f *OutputFormatter) ParseError(src string, err error) error {
	pe, ok := sqlerr.AsError(err)
	if !ok {
		if f.Format == "json" {
			return json.NewEncoder(f.Writer).Encode(Response{
				Status: "error",
				Error:  &ParseFailure{Code: "INTERNAL", Message: err.Error()},
			})
		}
		fmt.Fprintf(f.Writer, "error: %v\n", err)
		return nil
	}

	pos := pe.Span.StartPosition(src)
	if f.Format == "json" {
		span := pe.Span
		return json.NewEncoder(f.Writer).Encode(Response{
			Status: "error",
			Error: &ParseFailure{
				Kind:     string(pe.Kind),
				Code:     string(pe.Code),
				Message:  pe.Message,
				Span:     &span,
				Line:     pos.Line,
				Column:   pos.Column,
				Got:      pe.Got,
				Expected: pe.Expected,
			},
		})
	}

	fmt.Fprintf(f.Writer, "error at line %d, column %d: %s\n", pos.Line, pos.Column, pe.Error())
	fmt.Fprintf(f.Writer, "  %s\n", indentSnippet(source.Snippet(src, pe.Span)))
	return nil
}

// VerboseLog outputs a diagnostic line only if verbose mode is on.
// Diagnostics go to ErrWriter so JSON output stays machine-parseable.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

func indentSnippet(snippet string) string {
	out := make([]byte, 0, len(snippet)+4)
	for i := 0; i < len(snippet); i++ {
		out = append(out, snippet[i])
		if snippet[i] == '\n' {
			out = append(out, ' ', ' ')
		}
	}
	return string(out)
}
