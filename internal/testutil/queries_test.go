package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuerySource_SameSeedSameSequence(t *testing.T) {
	a := NewQuerySource(7)
	b := NewQuerySource(7)

	for i := 0; i < 100; i++ {
		require.Equal(t, a.Next(), b.Next(), "sequence diverged at index %d", i)
	}
}

func TestQuerySource_DifferentSeedsDiverge(t *testing.T) {
	a := NewQuerySource(1)
	b := NewQuerySource(2)

	diverged := false
	for i := 0; i < 20; i++ {
		if a.Next() != b.Next() {
			diverged = true
			break
		}
	}
	assert.True(t, diverged)
}

func TestQuerySource_ShapeIsAlwaysAQuery(t *testing.T) {
	src := NewQuerySource(42)

	for i := 0; i < 200; i++ {
		q := src.Next()
		assert.True(t, strings.HasPrefix(q, "SELECT "), "query %d: %s", i, q)
		assert.Contains(t, q, " FROM ", "query %d: %s", i, q)
	}
}

func TestQuerySource_CoversOptionalClauses(t *testing.T) {
	src := NewQuerySource(3)

	var sawWhere, sawGroup, sawOrder, sawLimit, sawOffset, sawStar bool
	for i := 0; i < 500; i++ {
		q := src.Next()
		sawWhere = sawWhere || strings.Contains(q, " WHERE ")
		sawGroup = sawGroup || strings.Contains(q, " GROUP BY ")
		sawOrder = sawOrder || strings.Contains(q, " ORDER BY ")
		sawLimit = sawLimit || strings.Contains(q, " LIMIT ")
		sawOffset = sawOffset || strings.Contains(q, " OFFSET ")
		sawStar = sawStar || strings.Contains(q, "SELECT *")
	}

	assert.True(t, sawWhere, "no WHERE in 500 queries")
	assert.True(t, sawGroup, "no GROUP BY in 500 queries")
	assert.True(t, sawOrder, "no ORDER BY in 500 queries")
	assert.True(t, sawLimit, "no LIMIT in 500 queries")
	assert.True(t, sawOffset, "no OFFSET in 500 queries")
	assert.True(t, sawStar, "no star projection in 500 queries")
}
