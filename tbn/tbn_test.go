package tbn_test

import (
	"testing"

	"github.com/TimothyStiles/stabletbn/monomer"
	"github.com/TimothyStiles/stabletbn/multiset"
	"github.com/TimothyStiles/stabletbn/tbn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBareAndBracketedCounts(t *testing.T) {
	r := monomer.NewRegistry()
	parsed, err := tbn.Parse(r, "a > m1\n3[a* > m2]\n")
	require.NoError(t, err)

	m1, err := r.Parse("a", "m1")
	require.NoError(t, err)
	m2, err := r.Parse("a*", "m2")
	require.NoError(t, err)

	assert.Equal(t, multiset.Count(1), parsed.Count(m1))
	assert.Equal(t, multiset.Count(3), parsed.Count(m2))
}

func TestParseInfiniteCount(t *testing.T) {
	r := monomer.NewRegistry()
	parsed, err := tbn.Parse(r, "inf[a > m1]\n")
	require.NoError(t, err)
	m1, _ := r.Parse("a", "m1")
	assert.True(t, parsed.Count(m1).IsInfinite())
}

func TestParseRejectsGarbage(t *testing.T) {
	r := monomer.NewRegistry()
	_, err := tbn.Parse(r, "not[[a valid line\n")
	assert.Error(t, err)
}

func TestLimitingDomainTypesPicksMinorityFlavor(t *testing.T) {
	r := monomer.NewRegistry()
	// "a" appears twice as unstarred and never starred: a* is limiting.
	parsed, err := tbn.Parse(r, "a > m1\na > m2\n")
	require.NoError(t, err)
	limiting, err := parsed.LimitingDomainTypes()
	require.NoError(t, err)
	require.Len(t, limiting, 1)
	assert.True(t, limiting[0].IsStarred())
}

func TestFlattenedMonomersRejectsInfinite(t *testing.T) {
	r := monomer.NewRegistry()
	parsed, err := tbn.Parse(r, "inf[a > m1]\n")
	require.NoError(t, err)
	_, err = parsed.FlattenedMonomers()
	assert.Error(t, err)
}

func TestFlattenedMonomersCountsIndividuals(t *testing.T) {
	r := monomer.NewRegistry()
	parsed, err := tbn.Parse(r, "2[a > m1]\n")
	require.NoError(t, err)
	flattened, err := parsed.FlattenedMonomers()
	require.NoError(t, err)
	assert.Len(t, flattened, 2)
}
