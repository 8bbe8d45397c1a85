// Package constraints provides Constraints: the user-supplied bounds and
// flags that shape a solver query, plus its copy-on-write "with_*" builder
// methods and its text grammar (spec §4.1).
package constraints

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/TimothyStiles/stabletbn/staberr"
)

// Constraints holds six numeric bounds, two flags, and a bond weight.
// The zero value is not ready to use; call New for the documented
// defaults.
type Constraints struct {
	maxPolymers float64
	minPolymers float64
	maxMerges   float64
	minMerges   float64
	maxEnergy   float64
	minEnergy   float64
	sort        bool
	optimize    bool
	bondWeight  float64
}

// New returns the default Constraints: unbounded polymers/merges/energy,
// sort and optimize both enabled, bond weight 2.0.
func New() Constraints {
	return Constraints{
		maxPolymers: math.Inf(1),
		minPolymers: 0,
		maxMerges:   math.Inf(1),
		minMerges:   0,
		maxEnergy:   math.Inf(1),
		minEnergy:   math.Inf(-1),
		sort:        true,
		optimize:    true,
		bondWeight:  2.0,
	}
}

func (c Constraints) MaxPolymers() float64 { return c.maxPolymers }
func (c Constraints) MinPolymers() float64 { return c.minPolymers }
func (c Constraints) MaxMerges() float64   { return c.maxMerges }
func (c Constraints) MinMerges() float64   { return c.minMerges }
func (c Constraints) MaxEnergy() float64   { return c.maxEnergy }
func (c Constraints) MinEnergy() float64   { return c.minEnergy }
func (c Constraints) Sort() bool           { return c.sort }
func (c Constraints) Optimize() bool       { return c.optimize }
func (c Constraints) BondWeight() float64  { return c.bondWeight }

// WithFixedPolymers returns a copy with both the min and max polymer
// bounds pinned to n.
func (c Constraints) WithFixedPolymers(n int) Constraints {
	c.maxPolymers, c.minPolymers = float64(n), float64(n)
	return c
}

// WithFixedMerges returns a copy with both the min and max merge bounds
// pinned to n.
func (c Constraints) WithFixedMerges(n int) Constraints {
	c.maxMerges, c.minMerges = float64(n), float64(n)
	return c
}

// WithFixedEnergy returns a copy with both the min and max energy bounds
// pinned to e.
func (c Constraints) WithFixedEnergy(e float64) Constraints {
	c.maxEnergy, c.minEnergy = e, e
	return c
}

// WithBondWeight returns a copy with the bond weight set to w.
func (c Constraints) WithBondWeight(w float64) Constraints {
	c.bondWeight = w
	return c
}

// WithUnsetOptimizationFlag returns a copy with the optimize flag cleared.
func (c Constraints) WithUnsetOptimizationFlag() Constraints {
	c.optimize = false
	return c
}

var (
	unsignedFloat   = `(?:[0-9]*[.])?[0-9]+`
	signedFloat     = `[+-]?(?:[0-9]*[.])?[0-9]+`
	nonNegativeInt  = `[0-9]+`
	noOptimizeLine  = regexp.MustCompile(`^NO\s+OPTIMIZE`)
	noSortLine      = regexp.MustCompile(`^NO\s+SORT`)
	optimizeLine    = regexp.MustCompile(`^OPTIMIZE`)
	sortLine        = regexp.MustCompile(`^SORT`)
	maxEnergyLine   = regexp.MustCompile(`^MAX ENERGY (` + signedFloat + `)`)
	minEnergyLine   = regexp.MustCompile(`^MIN ENERGY (` + signedFloat + `)`)
	maxMergesLine   = regexp.MustCompile(`^MAX MERGES (` + nonNegativeInt + `)`)
	minMergesLine   = regexp.MustCompile(`^MIN MERGES (` + nonNegativeInt + `)`)
	maxPolymersLine = regexp.MustCompile(`^MAX POLYMERS (` + nonNegativeInt + `)`)
	minPolymersLine = regexp.MustCompile(`^MIN POLYMERS (` + nonNegativeInt + `)`)
	bondWeightLine  = regexp.MustCompile(`^BOND WEIGHT (` + unsignedFloat + `)`)
)

// FromString parses one directive per non-empty line (case-insensitive).
// See spec §4.1 for the exhaustive directive list; an unrecognized line
// fails.
func FromString(text string) (Constraints, error) {
	c := New()
	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}
		if err := c.applyLine(strings.ToUpper(line)); err != nil {
			return Constraints{}, err
		}
	}
	return c, nil
}

func (c *Constraints) applyLine(line string) error {
	switch {
	case noOptimizeLine.MatchString(line):
		c.optimize = false
	case optimizeLine.MatchString(line):
		c.optimize = true
	case noSortLine.MatchString(line):
		c.sort = false
	case sortLine.MatchString(line):
		c.sort = true
	default:
		if m := maxEnergyLine.FindStringSubmatch(line); m != nil {
			c.maxEnergy, _ = strconv.ParseFloat(m[1], 64)
			return nil
		}
		if m := minEnergyLine.FindStringSubmatch(line); m != nil {
			c.minEnergy, _ = strconv.ParseFloat(m[1], 64)
			return nil
		}
		if m := maxMergesLine.FindStringSubmatch(line); m != nil {
			n, _ := strconv.Atoi(m[1])
			c.maxMerges = float64(n)
			return nil
		}
		if m := minMergesLine.FindStringSubmatch(line); m != nil {
			n, _ := strconv.Atoi(m[1])
			c.minMerges = float64(n)
			return nil
		}
		if m := maxPolymersLine.FindStringSubmatch(line); m != nil {
			n, _ := strconv.Atoi(m[1])
			c.maxPolymers = float64(n)
			return nil
		}
		if m := minPolymersLine.FindStringSubmatch(line); m != nil {
			n, _ := strconv.Atoi(m[1])
			c.minPolymers = float64(n)
			return nil
		}
		if m := bondWeightLine.FindStringSubmatch(line); m != nil {
			c.bondWeight, _ = strconv.ParseFloat(m[1], 64)
			return nil
		}
		return fmt.Errorf("%w: cannot parse line %q in constraints file", staberr.ErrInvalidInput, line)
	}
	return nil
}
