package conformance

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden executes a case and, for acceptance cases, compares the
// canonical encoding against the golden file
// testdata/golden/<case.Name>.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/conformance -update
//
// Golden files are the source of truth for canonical bytes: a diff here
// means the commitment input changed, which breaks every previously
// issued digest.
func RunWithGolden(t *testing.T, r *Runner, c *Case) error {
	t.Helper()

	result := r.RunCase(c)
	if !result.Pass {
		return fmt.Errorf("case %s:\n%s", c.Name, strings.Join(result.Errors, "\n"))
	}

	if c.Error != nil {
		// Rejection cases carry their full expectation in YAML; there
		// is no golden to compare.
		return nil
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, c.Name, result.Canonical)

	return nil
}
