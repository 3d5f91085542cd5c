// Package conformance runs the YAML query corpus against the parser.
//
// Each case pairs one query with the outcome it must produce: accepted
// queries must match their golden canonical encoding byte for byte, and
// rejected queries must fail with the expected error kind, code, and
// byte offset.
//
// # Case Format
//
// Cases are defined in YAML files, one case per file:
//
//	name: qualified_table
//	description: "Schema qualification folds case and survives encoding"
//	query: "SELECT a FROM SXT.T AS u"
//
// An acceptance case like the one above is compared against the golden
// file testdata/golden/<name>.golden. A rejection case declares the
// error instead:
//
//	name: unterminated_string
//	description: "An unclosed quote fails at the opening quote"
//	query: "SELECT 'oops FROM t"
//	error:
//	  kind: lexical
//	  code: UNTERMINATED_STRING
//	  offset: 7
//
// Cases may tighten parser bounds below the protocol defaults:
//
//	limits:
//	  max_depth: 4
//
// # Determinism
//
// The parser is a pure function, so a case needs no setup and no
// teardown: the same query and limits always produce the same bytes,
// which is what makes golden comparison sound.
package conformance

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Case defines one conformance case.
type Case struct {
	// Name uniquely identifies the case and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the case pins down.
	Description string `yaml:"description"`

	// Query is the input text handed to the parser verbatim.
	Query string `yaml:"query"`

	// Limits optionally tightens parser bounds for this case. Zero
	// fields keep the protocol defaults.
	Limits *CaseLimits `yaml:"limits,omitempty"`

	// Error, when set, turns the case into a rejection case: parsing
	// must fail with exactly this kind, code, and offset. When nil the
	// query must parse and its canonical encoding must match the
	// golden file.
	Error *ExpectedError `yaml:"error,omitempty"`
}

// CaseLimits mirrors the parser limits a case may tighten.
type CaseLimits struct {
	MaxIdentifierBytes int `yaml:"max_identifier_bytes,omitempty"`
	MaxDigits          int `yaml:"max_digits,omitempty"`
	MaxDepth           int `yaml:"max_depth,omitempty"`
}

// ExpectedError describes the rejection a case demands.
type ExpectedError struct {
	// Kind is the error stage: "lexical", "syntactic", or "semantic".
	Kind string `yaml:"kind"`

	// Code is the taxonomy code, e.g. "UNTERMINATED_STRING".
	Code string `yaml:"code"`

	// Offset is the byte offset where the error's span starts.
	Offset int `yaml:"offset"`
}

// LoadCase reads and parses one case YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadCase(path string) (*Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read case file: %w", err)
	}

	// Strict field validation catches typos like "eror:" vs "error:".
	var c Case
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateCase(&c); err != nil {
		return nil, fmt.Errorf("invalid case: %w", err)
	}

	return &c, nil
}

// LoadCorpus loads every *.yaml case under dir, sorted by file name.
// Case names must be unique across the corpus since they key the golden
// files.
func LoadCorpus(dir string) ([]*Case, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list corpus: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no case files under %s", dir)
	}
	sort.Strings(paths)

	seen := make(map[string]string, len(paths))
	cases := make([]*Case, 0, len(paths))
	for _, path := range paths {
		c, err := LoadCase(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		if prev, dup := seen[c.Name]; dup {
			return nil, fmt.Errorf("%s: case name %q already used by %s", filepath.Base(path), c.Name, prev)
		}
		seen[c.Name] = filepath.Base(path)
		cases = append(cases, c)
	}
	return cases, nil
}

// validateCase checks that required fields are present and valid.
func validateCase(c *Case) error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if c.Description == "" {
		return fmt.Errorf("description is required")
	}
	// Query stays unvalidated: the empty query is a legitimate
	// rejection case.

	if c.Limits != nil {
		if c.Limits.MaxIdentifierBytes < 0 || c.Limits.MaxDigits < 0 || c.Limits.MaxDepth < 0 {
			return fmt.Errorf("limits must be non-negative")
		}
	}

	if c.Error != nil {
		switch c.Error.Kind {
		case "lexical", "syntactic", "semantic":
		case "":
			return fmt.Errorf("error.kind is required")
		default:
			return fmt.Errorf("unknown error kind %q", c.Error.Kind)
		}
		if c.Error.Code == "" {
			return fmt.Errorf("error.code is required")
		}
		if c.Error.Offset < 0 {
			return fmt.Errorf("error.offset must be non-negative")
		}
	}

	return nil
}
