package polymer_test

import (
	"testing"

	"github.com/TimothyStiles/stabletbn/domain"
	"github.com/TimothyStiles/stabletbn/monomer"
	"github.com/TimothyStiles/stabletbn/multiset"
	"github.com/TimothyStiles/stabletbn/polymer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMonomer(t *testing.T, r *monomer.Registry, name string) monomer.Monomer {
	t.Helper()
	a, err := domain.Parse("a")
	require.NoError(t, err)
	m, err := r.New(map[domain.Domain]multiset.Count{a: 1}, name)
	require.NoError(t, err)
	return m
}

func TestNewRejectsEmpty(t *testing.T) {
	_, err := polymer.New(map[monomer.Monomer]multiset.Count{})
	assert.Error(t, err)
}

func TestIndependentlyBuiltEqualPolymersCollideAsMapKeys(t *testing.T) {
	r := monomer.NewRegistry()
	m1 := newMonomer(t, r, "m1")
	m2 := newMonomer(t, r, "m2")

	a, err := polymer.New(map[monomer.Monomer]multiset.Count{m1: 1, m2: 2})
	require.NoError(t, err)
	b, err := polymer.New(map[monomer.Monomer]multiset.Count{m2: 2, m1: 1})
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	counts := map[polymer.Polymer]int{}
	counts[a] = counts[a] + 1
	counts[b] = counts[b] + 1
	assert.Equal(t, 2, counts[a])
	assert.Len(t, counts, 1)
}

func TestSizeSumsCounts(t *testing.T) {
	r := monomer.NewRegistry()
	m1 := newMonomer(t, r, "m1")
	p, err := polymer.New(map[monomer.Monomer]multiset.Count{m1: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, p.Size())
}

func TestLessIsIrreflexive(t *testing.T) {
	r := monomer.NewRegistry()
	m1 := newMonomer(t, r, "m1")
	p, err := polymer.New(map[monomer.Monomer]multiset.Count{m1: 1})
	require.NoError(t, err)
	assert.False(t, p.Less(p))
}
