package monomer_test

import (
	"testing"

	"github.com/TimothyStiles/stabletbn/domain"
	"github.com/TimothyStiles/stabletbn/monomer"
	"github.com/TimothyStiles/stabletbn/multiset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryInternsByName(t *testing.T) {
	r := monomer.NewRegistry()
	a, _ := domain.Parse("a")
	m1, err := r.New(map[domain.Domain]multiset.Count{a: 1}, "m")
	require.NoError(t, err)
	m2, err := r.New(map[domain.Domain]multiset.Count{a: 1}, "m")
	require.NoError(t, err)
	assert.True(t, m1.Equal(m2))
	assert.Equal(t, m1, m2)
}

func TestRegistryRejectsNameCollisionWithDifferentComposition(t *testing.T) {
	r := monomer.NewRegistry()
	a, _ := domain.Parse("a")
	b, _ := domain.Parse("b")
	_, err := r.New(map[domain.Domain]multiset.Count{a: 1}, "m")
	require.NoError(t, err)
	_, err = r.New(map[domain.Domain]multiset.Count{b: 1}, "m")
	assert.Error(t, err)
}

func TestRegistryRejectsEmptyComposition(t *testing.T) {
	r := monomer.NewRegistry()
	_, err := r.New(map[domain.Domain]multiset.Count{}, "m")
	assert.Error(t, err)
}

func TestParseWithTrailingName(t *testing.T) {
	r := monomer.NewRegistry()
	m, err := r.Parse("a 2(b*) > m1", "")
	require.NoError(t, err)
	assert.Equal(t, "m1", m.Name())
	assert.Len(t, m.AsExplicitList(), 3)
}

func TestParseDefaultName(t *testing.T) {
	r := monomer.NewRegistry()
	m, err := r.Parse("a", "")
	require.NoError(t, err)
	assert.Equal(t, "[a]", m.Name())
}

func TestNetCount(t *testing.T) {
	r := monomer.NewRegistry()
	a, _ := domain.Parse("a")
	aStar, _ := domain.Parse("a*")
	m, err := r.New(map[domain.Domain]multiset.Count{a: 2, aStar: 1}, "m")
	require.NoError(t, err)
	assert.Equal(t, 1, m.NetCount(a))
	assert.Equal(t, -1, m.NetCount(aStar))
}

func TestMonomerIsComparable(t *testing.T) {
	r := monomer.NewRegistry()
	a, _ := domain.Parse("a")
	m, err := r.New(map[domain.Domain]multiset.Count{a: 1}, "m")
	require.NoError(t, err)
	set := map[monomer.Monomer]int{m: 1}
	assert.Equal(t, 1, set[m])
}
