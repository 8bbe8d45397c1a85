// Package configuration provides the Configuration type: a multiset of
// polymers covering a TBN, along with the derived quantities (polymer
// count, merges, flatten, energy) used to judge stability.
package configuration

import (
	"fmt"
	"math"
	"strings"

	"github.com/TimothyStiles/stabletbn/monomer"
	"github.com/TimothyStiles/stabletbn/multiset"
	"github.com/TimothyStiles/stabletbn/polymer"
	"github.com/TimothyStiles/stabletbn/staberr"
	"github.com/TimothyStiles/stabletbn/tbn"
	"github.com/mitchellh/go-wordwrap"
)

// Configuration is a multiset of polymers, with counts in positive
// integers or infinity.
type Configuration struct {
	counts multiset.PositiveMultiset[polymer.Polymer]
}

// New builds a Configuration from polymer counts. Counts may be Infinite.
func New(counts map[polymer.Polymer]multiset.Count) (Configuration, error) {
	ms, err := multiset.New(counts, true)
	if err != nil {
		return Configuration{}, err
	}
	return Configuration{counts: ms}, nil
}

// NumberOfPolymers sums the polymer counts, saturating at Infinite.
func (c Configuration) NumberOfPolymers() multiset.Count {
	return c.counts.Total()
}

// NumberOfMerges sums count*(size-1) over every non-singleton polymer.
func (c Configuration) NumberOfMerges() multiset.Count {
	var total multiset.Count
	for p, count := range c.counts.Items() {
		size := p.Size()
		if size <= 1 {
			continue
		}
		total = total.Add(count.Mul(size - 1))
	}
	return total
}

// Flatten multiplies every polymer's monomer composition through by its
// polymer count and returns the resulting sum-of-monomers TBN.
func (c Configuration) Flatten() (tbn.Tbn, error) {
	result := map[monomer.Monomer]multiset.Count{}
	for p, polyCount := range c.counts.Items() {
		for m, monoCount := range p.Items() {
			var contribution multiset.Count
			if polyCount.IsInfinite() || monoCount.IsInfinite() {
				contribution = multiset.Infinite
			} else {
				contribution = multiset.Count(int64(polyCount) * int64(monoCount))
			}
			result[m] = result[m].Add(contribution)
		}
	}
	return tbn.New(result)
}

// Energy returns round(w*total_bond_deficit + number_of_merges, 8), where
// total_bond_deficit is the sum over limiting domain types of the sum over
// polymers of max(0, sum_monomer net_count*monomer_count)*polymer_count.
// The limiting domain types are computed from the configuration's own
// flattened TBN. w must be > 0.
func (c Configuration) Energy(w float64) (float64, error) {
	if w <= 0 {
		return 0, fmt.Errorf("%w: bond weight must be positive, got %v", staberr.ErrUnsupportedConfiguration, w)
	}
	flattened, err := c.Flatten()
	if err != nil {
		return 0, err
	}
	limitingDomains, err := flattened.LimitingDomainTypes()
	if err != nil {
		return 0, err
	}

	var totalDeficit float64
	for p, polyCount := range c.counts.Items() {
		if polyCount.IsInfinite() {
			return 0, fmt.Errorf("%w: cannot compute energy for a configuration with an infinite polymer count", staberr.ErrUnsupportedConfiguration)
		}
		for _, d := range limitingDomains {
			netInPolymer := 0
			for m, monoCount := range p.Items() {
				netInPolymer += m.NetCount(d) * int(monoCount)
			}
			if netInPolymer > 0 {
				totalDeficit += float64(netInPolymer) * float64(polyCount)
			}
		}
	}

	merges := c.NumberOfMerges()
	if merges.IsInfinite() {
		return 0, fmt.Errorf("%w: cannot compute energy for a configuration with infinite merges", staberr.ErrUnsupportedConfiguration)
	}

	raw := w*totalDeficit + float64(merges)
	return roundTo(raw, 8), nil
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// String renders the non-singleton polymers, joined by "; ".
func (c Configuration) String() string {
	return c.FullString(false)
}

// FullString renders the configuration's polymers joined by "; ", sorted
// by polymer ordering. When includeSingletons is false, size-1 polymers
// are omitted, matching the CLI's default output and the -f/--full flag's
// inverse.
func (c Configuration) FullString(includeSingletons bool) string {
	keys := multiset.SortedKeys(c.counts, polymer.Polymer.Less)
	parts := make([]string, 0, len(keys))
	for _, p := range keys {
		if !includeSingletons && p.Size() <= 1 {
			continue
		}
		count := c.counts.Get(p)
		parts = append(parts, renderCount(count, p.String()))
	}
	return strings.Join(parts, "; ")
}

// PrettyString wraps FullString's output to the given terminal width, for
// interactive display of configurations with many long polymer renderings.
func (c Configuration) PrettyString(includeSingletons bool, width uint) string {
	return wordwrap.WrapString(c.FullString(includeSingletons), width)
}

func renderCount(count multiset.Count, rendered string) string {
	switch {
	case count.IsInfinite():
		return "inf" + rendered
	case count > 1:
		return fmt.Sprintf("%d%s", count, rendered)
	default:
		return rendered
	}
}
