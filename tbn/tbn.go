// Package tbn provides the Tbn type: a multiset of monomer-types with
// counts in positive integers or infinity, representing a Thermodynamic
// Binding Network.
package tbn

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/TimothyStiles/stabletbn/domain"
	"github.com/TimothyStiles/stabletbn/monomer"
	"github.com/TimothyStiles/stabletbn/multiset"
	"github.com/TimothyStiles/stabletbn/staberr"
)

// Tbn is a multiset of monomer-types.
type Tbn struct {
	counts multiset.PositiveMultiset[monomer.Monomer]
}

// New builds a Tbn from monomer-type counts. Counts may be Infinite.
func New(counts map[monomer.Monomer]multiset.Count) (Tbn, error) {
	ms, err := multiset.New(counts, true)
	if err != nil {
		return Tbn{}, err
	}
	return Tbn{counts: ms}, nil
}

// Count returns the count of monomer, or 0 if absent.
func (t Tbn) Count(m monomer.Monomer) multiset.Count {
	return t.counts.Get(m)
}

// NumberOfMonomers sums the counts of all monomer-types, saturating at
// Infinite.
func (t Tbn) NumberOfMonomers() multiset.Count {
	return t.counts.Total()
}

// MonomerTypes returns the distinct monomer-types, sorted by name.
func (t Tbn) MonomerTypes() []monomer.Monomer {
	return multiset.SortedKeys(t.counts, monomer.Monomer.Less)
}

// FlattenedMonomers returns one entry per monomer individual (not
// deduplicated by type), in type-sorted order. It fails if any monomer
// type has an infinite count, since an infinite list cannot be
// materialized; callers needing a flat index (the bond-network and
// binary-matrix formulations) only ever call this on finite TBNs.
func (t Tbn) FlattenedMonomers() ([]monomer.Monomer, error) {
	types := t.MonomerTypes()
	out := make([]monomer.Monomer, 0, len(types))
	for _, m := range types {
		count := t.counts.Get(m)
		if count.IsInfinite() {
			return nil, fmt.Errorf("%w: cannot flatten a tbn with an infinite monomer count", staberr.ErrUnsupportedConfiguration)
		}
		for i := multiset.Count(0); i < count; i++ {
			out = append(out, m)
		}
	}
	return out, nil
}

// LimitingDomainTypes tallies net_count*monomer_count across all monomers
// for each unstarred domain identifier. A strictly positive tally means
// the starred form is limiting; strictly negative means the unstarred
// form is limiting; a tie (zero) yields both forms. An inf-inf tally
// fails with ErrConflictingInfinity. Domains are returned sorted by
// identifier, since column order in the resulting linear-programming
// models must be deterministic.
func (t Tbn) LimitingDomainTypes() ([]domain.Domain, error) {
	type tally struct {
		value     int64
		hasPosInf bool
		hasNegInf bool
	}
	tallies := map[domain.Domain]*tally{}

	orderedUnstarred := []domain.Domain{}
	for _, m := range t.MonomerTypes() {
		count := t.counts.Get(m)
		for _, d := range m.UnstarredDomainTypes() {
			if _, ok := tallies[d]; !ok {
				tallies[d] = &tally{}
				orderedUnstarred = append(orderedUnstarred, d)
			}
			net := m.NetCount(d)
			if net == 0 {
				continue
			}
			if count.IsInfinite() {
				if net > 0 {
					tallies[d].hasPosInf = true
				} else {
					tallies[d].hasNegInf = true
				}
				continue
			}
			tallies[d].value += int64(net) * int64(count)
		}
	}

	sort.Slice(orderedUnstarred, func(i, j int) bool { return orderedUnstarred[i].Less(orderedUnstarred[j]) })

	var out []domain.Domain
	for _, d := range orderedUnstarred {
		tl := tallies[d]
		if tl.hasPosInf && tl.hasNegInf {
			return nil, fmt.Errorf("%w: domain %s has both infinite excess and infinite deficit", staberr.ErrConflictingInfinity, d)
		}
		switch {
		case tl.hasPosInf || (!tl.hasNegInf && tl.value > 0):
			out = append(out, d.Complement())
		case tl.hasNegInf || tl.value < 0:
			out = append(out, d)
		default:
			out = append(out, d, d.Complement())
		}
	}
	return out, nil
}

// LimitingMonomerTypes returns the monomer-types that contain at least one
// limiting domain in positive net count.
func (t Tbn) LimitingMonomerTypes() ([]monomer.Monomer, error) {
	limiting, err := t.LimitingDomainTypes()
	if err != nil {
		return nil, err
	}
	limitingSet := map[domain.Domain]bool{}
	for _, d := range limiting {
		limitingSet[d] = true
	}

	var out []monomer.Monomer
	for _, m := range t.MonomerTypes() {
		for d := range limitingSet {
			if m.NetCount(d) > 0 {
				out = append(out, m)
				break
			}
		}
	}
	return out, nil
}

// Subtract returns t - other; it is well-defined only when other is a
// sub-multiset of t.
func (t Tbn) Subtract(other Tbn) (Tbn, error) {
	result := map[monomer.Monomer]multiset.Count{}
	for _, m := range t.MonomerTypes() {
		result[m] = t.counts.Get(m)
	}
	for _, m := range other.MonomerTypes() {
		have := result[m]
		want := other.counts.Get(m)
		if want.IsInfinite() && !have.IsInfinite() {
			return Tbn{}, fmt.Errorf("%w: tbn %s is not a sub-multiset (infinite deficit)", staberr.ErrUnsupportedConfiguration, other)
		}
		if !want.IsInfinite() && have.IsInfinite() {
			// infinite minus finite remains infinite
			continue
		}
		if have.IsInfinite() && want.IsInfinite() {
			result[m] = 0
			continue
		}
		if want > have {
			return Tbn{}, fmt.Errorf("%w: tbn %s is not a sub-multiset of %s", staberr.ErrUnsupportedConfiguration, other, t)
		}
		result[m] = have - want
		if result[m] == 0 {
			delete(result, m)
		}
	}
	return New(result)
}

// String renders the TBN as "{m1, 2(m2), ...}", sorted by monomer name.
func (t Tbn) String() string {
	keys := t.MonomerTypes()
	parts := make([]string, 0, len(keys))
	for _, m := range keys {
		count := t.counts.Get(m)
		parts = append(parts, renderCount(count, m.String()))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func renderCount(count multiset.Count, rendered string) string {
	if count.IsInfinite() {
		return "inf(" + rendered + ")"
	}
	if count > 1 {
		return fmt.Sprintf("%d(%s)", count, rendered)
	}
	return rendered
}

// Equal compares TBNs by their full monomer-count maps.
func (t Tbn) Equal(other Tbn) bool {
	all := map[monomer.Monomer]bool{}
	for _, m := range t.MonomerTypes() {
		all[m] = true
	}
	for _, m := range other.MonomerTypes() {
		all[m] = true
	}
	for m := range all {
		if t.counts.Get(m) != other.counts.Get(m) {
			return false
		}
	}
	return true
}

var linePattern = regexp.MustCompile(`^(?:(inf|[1-9]\d*)\[\s*(.+)\s*\]|(.+))$`)

// Parse parses TBN text per the grammar in spec §6:
//
//	line  := [count] '[' monomer ']' | monomer
//	count := 'inf' | [1-9][0-9]*
//
// '#' is not a comment marker (lines beginning with it are parsed as
// ordinary monomer tokens); blank lines are ignored. Monomers are
// interned into registry.
func Parse(registry *monomer.Registry, text string) (Tbn, error) {
	counts := map[monomer.Monomer]multiset.Count{}
	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		m := linePattern.FindStringSubmatch(line)
		if m == nil {
			return Tbn{}, fmt.Errorf("%w: could not parse tbn line %q", staberr.ErrInvalidInput, line)
		}

		var count multiset.Count
		var monomerText string
		if m[2] != "" {
			monomerText = m[2]
			if m[1] == "inf" {
				count = multiset.Infinite
			} else {
				n, err := strconv.Atoi(m[1])
				if err != nil {
					return Tbn{}, fmt.Errorf("%w: could not parse count in %q", staberr.ErrInvalidInput, line)
				}
				count = multiset.Count(n)
			}
		} else {
			monomerText = m[3]
			count = 1
		}

		mono, err := registry.Parse(monomerText, "")
		if err != nil {
			return Tbn{}, err
		}
		counts[mono] = counts[mono].Add(count)
	}
	return New(counts)
}
