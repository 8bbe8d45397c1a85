package configuration_test

import (
	"testing"

	"github.com/TimothyStiles/stabletbn/configuration"
	"github.com/TimothyStiles/stabletbn/domain"
	"github.com/TimothyStiles/stabletbn/monomer"
	"github.com/TimothyStiles/stabletbn/multiset"
	"github.com/TimothyStiles/stabletbn/polymer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildConfig(t *testing.T) (configuration.Configuration, monomer.Monomer, monomer.Monomer) {
	t.Helper()
	r := monomer.NewRegistry()
	a, _ := domain.Parse("a")
	aStar, _ := domain.Parse("a*")
	m1, err := r.New(map[domain.Domain]multiset.Count{a: 1}, "m1")
	require.NoError(t, err)
	m2, err := r.New(map[domain.Domain]multiset.Count{aStar: 1}, "m2")
	require.NoError(t, err)

	p, err := polymer.New(map[monomer.Monomer]multiset.Count{m1: 1, m2: 1})
	require.NoError(t, err)
	cfg, err := configuration.New(map[polymer.Polymer]multiset.Count{p: 1})
	require.NoError(t, err)
	return cfg, m1, m2
}

func TestNumberOfMergesCountsExtraMonomersPerPolymer(t *testing.T) {
	cfg, _, _ := buildConfig(t)
	assert.Equal(t, multiset.Count(1), cfg.NumberOfMerges())
}

func TestFlattenReconstructsMonomerCounts(t *testing.T) {
	cfg, m1, m2 := buildConfig(t)
	flattened, err := cfg.Flatten()
	require.NoError(t, err)
	assert.Equal(t, multiset.Count(1), flattened.Count(m1))
	assert.Equal(t, multiset.Count(1), flattened.Count(m2))
}

func TestEnergyRejectsNonPositiveWeight(t *testing.T) {
	cfg, _, _ := buildConfig(t)
	_, err := cfg.Energy(0)
	assert.Error(t, err)
}

func TestEnergyIsSaturatedBondConfiguration(t *testing.T) {
	cfg, _, _ := buildConfig(t)
	energy, err := cfg.Energy(2.0)
	require.NoError(t, err)
	// one merge, no bond deficit: energy == number_of_merges.
	assert.Equal(t, 1.0, energy)
}

func TestStringOmitsSingletonsByDefault(t *testing.T) {
	r := monomer.NewRegistry()
	a, _ := domain.Parse("a")
	m1, _ := r.New(map[domain.Domain]multiset.Count{a: 1}, "m1")
	p, err := polymer.New(map[monomer.Monomer]multiset.Count{m1: 1})
	require.NoError(t, err)
	cfg, err := configuration.New(map[polymer.Polymer]multiset.Count{p: 2})
	require.NoError(t, err)
	assert.Equal(t, "", cfg.String())
	assert.Equal(t, "2{m1}", cfg.FullString(true))
}
