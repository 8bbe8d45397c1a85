package constraints_test

import (
	"math"
	"testing"

	"github.com/TimothyStiles/stabletbn/constraints"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	c := constraints.New()
	assert.True(t, math.IsInf(c.MaxPolymers(), 1))
	assert.Equal(t, 0.0, c.MinPolymers())
	assert.True(t, c.Sort())
	assert.True(t, c.Optimize())
	assert.Equal(t, 2.0, c.BondWeight())
}

func TestFromStringParsesDirectives(t *testing.T) {
	c, err := constraints.FromString("NO OPTIMIZE\nMAX MERGES 3\nMIN POLYMERS 1\nBOND WEIGHT 1.5\n")
	require.NoError(t, err)
	assert.False(t, c.Optimize())
	assert.Equal(t, 3.0, c.MaxMerges())
	assert.Equal(t, 1.0, c.MinPolymers())
	assert.Equal(t, 1.5, c.BondWeight())
}

func TestFromStringIsCaseInsensitive(t *testing.T) {
	c, err := constraints.FromString("no sort\n")
	require.NoError(t, err)
	assert.False(t, c.Sort())
}

func TestFromStringRejectsUnknownDirective(t *testing.T) {
	_, err := constraints.FromString("BOGUS DIRECTIVE\n")
	assert.Error(t, err)
}

func TestWithFixedPolymersPinsBothBounds(t *testing.T) {
	c := constraints.New().WithFixedPolymers(5)
	assert.Equal(t, 5.0, c.MaxPolymers())
	assert.Equal(t, 5.0, c.MinPolymers())
}

func TestWithUnsetOptimizationFlag(t *testing.T) {
	c := constraints.New().WithUnsetOptimizationFlag()
	assert.False(t, c.Optimize())
}
