package domain_test

import (
	"testing"

	"github.com/TimothyStiles/stabletbn/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnstarred(t *testing.T) {
	d, err := domain.Parse("a")
	require.NoError(t, err)
	assert.Equal(t, "a", d.Name())
	assert.False(t, d.IsStarred())
	assert.Equal(t, "a", d.String())
}

func TestParseStarred(t *testing.T) {
	d, err := domain.Parse("a*")
	require.NoError(t, err)
	assert.Equal(t, "a", d.Name())
	assert.True(t, d.IsStarred())
	assert.Equal(t, "a*", d.String())
}

func TestParseWithLegacyTag(t *testing.T) {
	d, err := domain.Parse("a*:short")
	require.NoError(t, err)
	assert.Equal(t, "a", d.Name())
	assert.True(t, d.IsStarred())
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := domain.Parse("not a domain!")
	assert.Error(t, err)
}

func TestComplement(t *testing.T) {
	a, _ := domain.Parse("a")
	aStar := a.Complement()
	assert.True(t, aStar.IsStarred())
	assert.True(t, aStar.Equal(aStar.Complement().Complement()))
	assert.False(t, a.Equal(aStar))
}

func TestLessOrdersUnstarredBeforeStarred(t *testing.T) {
	a, _ := domain.Parse("a")
	aStar, _ := domain.Parse("a*")
	assert.True(t, a.Less(aStar))
	assert.False(t, aStar.Less(a))
}
