// Package multiset provides a generic positive-integer (optionally
// infinite) multiset with type checking, mirroring source/positive_multiset.py.
package multiset

import (
	"fmt"
	"sort"

	"github.com/TimothyStiles/stabletbn/staberr"
)

// Count is a multiset element count. It is always >= 1 for present keys,
// or Infinite. A bare int64 domain (rather than a tagged Finite|Infinite
// variant) keeps the arithmetic in tbn/configuration simple, matching how
// the original Python just adds math.inf into its sums.
type Count int64

// Infinite is the sentinel cardinal representing an infinite count.
const Infinite Count = 1<<63 - 1

// IsInfinite reports whether c is the infinite sentinel.
func (c Count) IsInfinite() bool { return c == Infinite }

// Add returns c + other, saturating at Infinite.
func (c Count) Add(other Count) Count {
	if c.IsInfinite() || other.IsInfinite() {
		return Infinite
	}
	return c + other
}

// Mul returns c * n, saturating at Infinite for n > 0.
func (c Count) Mul(n int) Count {
	if c.IsInfinite() {
		if n == 0 {
			return 0
		}
		return Infinite
	}
	return c * Count(n)
}

// PositiveMultiset is a multiset over a comparable element type, with
// counts restricted to positive integers or Infinite. allowInfinity
// controls whether Infinite is accepted; passing false rejects it the way
// source/positive_multiset.py's allow_infinity=False does by default.
type PositiveMultiset[T comparable] struct {
	counts        map[T]Count
	allowInfinity bool
}

// New builds a PositiveMultiset from a map of counts, validating that every
// count is a positive integer (or Infinite, if allowInfinity is true).
func New[T comparable](counts map[T]Count, allowInfinity bool) (PositiveMultiset[T], error) {
	for item, count := range counts {
		if count.IsInfinite() {
			if !allowInfinity {
				return PositiveMultiset[T]{}, fmt.Errorf("%w: count of %v is infinite but infinity is not allowed here", staberr.ErrInvalidInput, item)
			}
			continue
		}
		if count < 1 {
			return PositiveMultiset[T]{}, fmt.Errorf("%w: count of %v is not a positive integer or infinity: %d", staberr.ErrInvalidInput, item, count)
		}
	}
	clone := make(map[T]Count, len(counts))
	for k, v := range counts {
		clone[k] = v
	}
	return PositiveMultiset[T]{counts: clone, allowInfinity: allowInfinity}, nil
}

// Get returns the count of item, or 0 if absent.
func (m PositiveMultiset[T]) Get(item T) Count {
	return m.counts[item]
}

// Has reports whether item is present with a positive count.
func (m PositiveMultiset[T]) Has(item T) bool {
	_, ok := m.counts[item]
	return ok
}

// Len returns the number of distinct items.
func (m PositiveMultiset[T]) Len() int {
	return len(m.counts)
}

// Items returns the underlying counts; callers must not mutate the map.
func (m PositiveMultiset[T]) Items() map[T]Count {
	return m.counts
}

// Keys returns the distinct items in unspecified order.
func (m PositiveMultiset[T]) Keys() []T {
	keys := make([]T, 0, len(m.counts))
	for k := range m.counts {
		keys = append(keys, k)
	}
	return keys
}

// Total sums all counts, saturating at Infinite.
func (m PositiveMultiset[T]) Total() Count {
	var total Count
	for _, c := range m.counts {
		total = total.Add(c)
	}
	return total
}

// SortedKeys returns the distinct items ordered by less, a caller-supplied
// strict-weak-order predicate (Go generics cannot express an Ordered
// constraint over arbitrary element types with a Less method, so the
// comparator is passed explicitly rather than required via a constraint).
func SortedKeys[T comparable](m PositiveMultiset[T], less func(a, b T) bool) []T {
	keys := m.Keys()
	sort.Slice(keys, func(i, j int) bool { return less(keys[i], keys[j]) })
	return keys
}
