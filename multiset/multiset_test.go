package multiset_test

import (
	"testing"

	"github.com/TimothyStiles/stabletbn/multiset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsZeroAndNegative(t *testing.T) {
	_, err := multiset.New(map[string]multiset.Count{"a": 0}, false)
	assert.Error(t, err)
	_, err = multiset.New(map[string]multiset.Count{"a": -1}, false)
	assert.Error(t, err)
}

func TestNewRejectsInfinityUnlessAllowed(t *testing.T) {
	_, err := multiset.New(map[string]multiset.Count{"a": multiset.Infinite}, false)
	assert.Error(t, err)

	ms, err := multiset.New(map[string]multiset.Count{"a": multiset.Infinite}, true)
	require.NoError(t, err)
	assert.True(t, ms.Get("a").IsInfinite())
}

func TestGetAndHas(t *testing.T) {
	ms, err := multiset.New(map[string]multiset.Count{"a": 3}, false)
	require.NoError(t, err)
	assert.Equal(t, multiset.Count(3), ms.Get("a"))
	assert.Equal(t, multiset.Count(0), ms.Get("b"))
	assert.True(t, ms.Has("a"))
	assert.False(t, ms.Has("b"))
}

func TestTotalSaturatesAtInfinite(t *testing.T) {
	ms, err := multiset.New(map[string]multiset.Count{"a": 3, "b": multiset.Infinite}, true)
	require.NoError(t, err)
	assert.True(t, ms.Total().IsInfinite())
}

func TestSortedKeys(t *testing.T) {
	ms, err := multiset.New(map[string]multiset.Count{"b": 1, "a": 1, "c": 1}, false)
	require.NoError(t, err)
	keys := multiset.SortedKeys(ms, func(a, b string) bool { return a < b })
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestCountAddAndMulSaturate(t *testing.T) {
	assert.Equal(t, multiset.Count(5), multiset.Count(2).Add(3))
	assert.True(t, multiset.Infinite.Add(1).IsInfinite())
	assert.Equal(t, multiset.Count(6), multiset.Count(2).Mul(3))
	assert.True(t, multiset.Infinite.Mul(2).IsInfinite())
	assert.Equal(t, multiset.Count(0), multiset.Infinite.Mul(0))
}
