package conformance

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser"
	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/ast"
	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/sqlparser/sqlerr"
)

// CaseError is recorded when a case's outcome deviates from its
// declaration. It includes expected/actual context to make corpus
// failures readable without re-running anything.
type CaseError struct {
	Case     string // case name
	Expected string // declared outcome
	Actual   string // observed outcome
}

// Error implements the error interface.
func (e *CaseError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "case %s failed\n", e.Case)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// Result is the outcome of running one case.
type Result struct {
	// Pass indicates the case's declared outcome was observed.
	Pass bool `json:"pass"`

	// Errors lists conformance violations. Empty when Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Canonical holds the canonical encoding for accepted queries.
	Canonical []byte `json:"canonical,omitempty"`

	// Digest is the commitment digest for accepted queries.
	Digest string `json:"digest,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{Pass: true}
}

// AddError records a violation and marks the result as failed.
func (r *Result) AddError(err error) {
	r.Errors = append(r.Errors, err.Error())
	r.Pass = false
}

// Runner executes conformance cases against the parser.
//
// The zero value runs with protocol-default limits and discards
// diagnostics.
type Runner struct {
	// Limits applies to every case; per-case limits override field by
	// field. The zero value means protocol defaults.
	Limits sqlparser.Limits

	// Logger receives per-case diagnostics. Nil discards them.
	Logger *slog.Logger
}

// RunCase executes one case and reports whether its declared outcome
// was observed. RunCase never fails the surrounding test itself; golden
// comparison is layered on top by RunWithGolden.
func (r *Runner) RunCase(c *Case) *Result {
	logger := r.logger()
	result := NewResult()

	limits := caseLimits(r.Limits, c.Limits)
	q, err := sqlparser.ParseWithLimits(c.Query, limits)

	if c.Error != nil {
		r.checkRejection(c, err, result)
		if result.Pass {
			logger.Debug("case rejected as declared",
				"case", c.Name, "code", c.Error.Code, "offset", c.Error.Offset)
		}
		return result
	}

	if err != nil {
		result.AddError(&CaseError{
			Case:     c.Name,
			Expected: "query parses",
			Actual:   fmt.Sprintf("parse failed: %v", err),
		})
		return result
	}

	canonical, err := ast.EncodeQuery(q)
	if err != nil {
		result.AddError(&CaseError{
			Case:     c.Name,
			Expected: "canonical encoding succeeds",
			Actual:   fmt.Sprintf("encode failed: %v", err),
		})
		return result
	}

	// The canonical bytes must decode back to the same tree and
	// re-encode to the same bytes, or the encoding is not a fixpoint.
	decoded, err := ast.DecodeQuery(canonical)
	if err != nil {
		result.AddError(&CaseError{
			Case:     c.Name,
			Expected: "canonical encoding decodes",
			Actual:   fmt.Sprintf("decode failed: %v", err),
		})
		return result
	}
	if !ast.Equal(q, decoded) {
		result.AddError(&CaseError{
			Case:     c.Name,
			Expected: "decoded tree equals parsed tree",
			Actual:   "trees differ",
		})
		return result
	}
	reencoded, err := ast.EncodeQuery(decoded)
	if err != nil || !bytes.Equal(canonical, reencoded) {
		result.AddError(&CaseError{
			Case:     c.Name,
			Expected: "re-encoding reproduces canonical bytes",
			Actual:   fmt.Sprintf("bytes differ (err=%v)", err),
		})
		return result
	}

	digest, err := ast.Digest(q)
	if err != nil {
		result.AddError(&CaseError{
			Case:     c.Name,
			Expected: "digest succeeds",
			Actual:   fmt.Sprintf("digest failed: %v", err),
		})
		return result
	}

	result.Canonical = canonical
	result.Digest = digest
	logger.Debug("case accepted",
		"case", c.Name, "bytes", len(canonical), "digest", digest)
	return result
}

// checkRejection verifies the observed error against the declared one.
func (r *Runner) checkRejection(c *Case, err error, result *Result) {
	want := c.Error
	if err == nil {
		result.AddError(&CaseError{
			Case:     c.Name,
			Expected: fmt.Sprintf("%s %s at offset %d", want.Kind, want.Code, want.Offset),
			Actual:   "query parsed",
		})
		return
	}

	pe, ok := sqlerr.AsError(err)
	if !ok {
		result.AddError(&CaseError{
			Case:     c.Name,
			Expected: "a taxonomy error",
			Actual:   fmt.Sprintf("untyped error: %v", err),
		})
		return
	}

	if string(pe.Kind) != want.Kind {
		result.AddError(&CaseError{
			Case:     c.Name,
			Expected: fmt.Sprintf("kind %s", want.Kind),
			Actual:   fmt.Sprintf("kind %s (%v)", pe.Kind, pe),
		})
	}
	if string(pe.Code) != want.Code {
		result.AddError(&CaseError{
			Case:     c.Name,
			Expected: fmt.Sprintf("code %s", want.Code),
			Actual:   fmt.Sprintf("code %s (%v)", pe.Code, pe),
		})
	}
	if pe.Span.Start != want.Offset {
		result.AddError(&CaseError{
			Case:     c.Name,
			Expected: fmt.Sprintf("offset %d", want.Offset),
			Actual:   fmt.Sprintf("offset %d (%v)", pe.Span.Start, pe),
		})
	}
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// caseLimits overlays per-case limits on the runner's limits. Zero
// fields inherit.
func caseLimits(base sqlparser.Limits, override *CaseLimits) sqlparser.Limits {
	if override == nil {
		return base
	}
	out := base
	if override.MaxIdentifierBytes > 0 {
		out.MaxIdentifierBytes = override.MaxIdentifierBytes
	}
	if override.MaxDigits > 0 {
		out.MaxDigits = override.MaxDigits
	}
	if override.MaxDepth > 0 {
		out.MaxDepth = override.MaxDepth
	}
	return out
}
