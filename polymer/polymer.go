// Package polymer provides the Polymer type: a non-empty multiset of
// monomers, representing a bound complex.
package polymer

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/TimothyStiles/stabletbn/monomer"
	"github.com/TimothyStiles/stabletbn/multiset"
	"github.com/TimothyStiles/stabletbn/staberr"
)

// Polymer is a non-empty multiset of monomers, represented as a
// canonical composition key rather than the raw counts, so that it
// stays comparable (usable as a map key and as a PositiveMultiset
// element type) despite PositiveMultiset being backed by a Go map
// internally. The full composition lives in a package-level intern
// table populated by New; two Polymers built from equal compositions
// always carry the same key, matching multiset aggregation semantics.
type Polymer struct {
	key string
}

var (
	internMu    sync.Mutex
	internTable = map[string]multiset.PositiveMultiset[monomer.Monomer]{}
)

// New builds a Polymer from monomer counts. An empty polymer is an error.
func New(counts map[monomer.Monomer]multiset.Count) (Polymer, error) {
	if len(counts) == 0 {
		return Polymer{}, fmt.Errorf("%w: received request to create empty polymer", staberr.ErrInvalidInput)
	}
	ms, err := multiset.New(counts, false)
	if err != nil {
		return Polymer{}, err
	}
	key := canonicalKey(ms)

	internMu.Lock()
	internTable[key] = ms
	internMu.Unlock()

	return Polymer{key: key}, nil
}

// canonicalKey renders a deterministic composition fingerprint,
// independent of map iteration order.
func canonicalKey(ms multiset.PositiveMultiset[monomer.Monomer]) string {
	keys := multiset.SortedKeys(ms, monomer.Monomer.Less)
	parts := make([]string, 0, len(keys))
	for _, m := range keys {
		parts = append(parts, fmt.Sprintf("%s:%d", m.Name(), ms.Get(m)))
	}
	return strings.Join(parts, "|")
}

func (p Polymer) data() multiset.PositiveMultiset[monomer.Monomer] {
	internMu.Lock()
	defer internMu.Unlock()
	return internTable[p.key]
}

// Size returns the total monomer count in the polymer.
func (p Polymer) Size() int {
	return int(p.data().Total())
}

// Items returns the underlying monomer counts; callers must not mutate it.
func (p Polymer) Items() map[monomer.Monomer]multiset.Count {
	return p.data().Items()
}

// String renders the polymer as "{m1, 2(m2), ...}", sorted by monomer name.
func (p Polymer) String() string {
	data := p.data()
	keys := multiset.SortedKeys(data, monomer.Monomer.Less)
	parts := make([]string, 0, len(keys))
	for _, m := range keys {
		count := data.Get(m)
		if count > 1 {
			parts = append(parts, fmt.Sprintf("%d(%s)", count, m))
		} else {
			parts = append(parts, m.String())
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Equal reports whether p and other share the same monomer composition.
func (p Polymer) Equal(other Polymer) bool { return p.key == other.key }

// Less gives a lexicographic ordering over the union of monomer keys
// (sorted by name), comparing counts until the first difference, for
// sort-stable output.
func (p Polymer) Less(other Polymer) bool {
	if p.key == other.key {
		return false
	}
	all := unionKeys(p, other)
	pd, od := p.data(), other.data()
	for _, m := range all {
		a, b := pd.Get(m), od.Get(m)
		if a > b {
			return true
		}
		if b > a {
			return false
		}
	}
	return false
}

func unionKeys(a, b Polymer) []monomer.Monomer {
	ad, bd := a.data(), b.data()
	seen := map[monomer.Monomer]bool{}
	for _, m := range ad.Keys() {
		seen[m] = true
	}
	for _, m := range bd.Keys() {
		seen[m] = true
	}
	out := make([]monomer.Monomer, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
