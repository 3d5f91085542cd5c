package ast

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainQuery prefixes query digests for domain separation.
// Version suffix enables future algorithm migration.
const DomainQuery = "sxt/query/v1"

// Digest computes the content-addressed identity of a query: the
// lowercase hex SHA-256 of its canonical encoding under DomainQuery.
// Two queries digest equal exactly when they are structurally equal,
// so the digest is stable across processes, platforms, and re-parses
// of equivalent source text.
func Digest(q *Query) (string, error) {
	canonical, err := EncodeQuery(q)
	if err != nil {
		return "", fmt.Errorf("digest: %w", err)
	}
	return hashWithDomain(DomainQuery, canonical), nil
}

// MustDigest is like Digest but panics on error.
// Use only in tests or when the query is known to be valid.
func MustDigest(q *Query) string {
	d, err := Digest(q)
	if err != nil {
		panic(err)
	}
	return d
}

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
