// Package matrix implements the polymer-matrix formulation family
// (spec §4.4): a [monomer type x candidate polymer slot] matrix of
// integer composition variables, with binary, integer, unbounded, and
// variable-bond-weight variants sharing one constraint-building core,
// grounded on original_source's polymer_unbounded_matrix.py /
// polymer_integer_matrix.py / polymer_binary_matrix.py /
// variable_bond_weight.py.
package matrix

import (
	"fmt"
	"math"

	"github.com/TimothyStiles/stabletbn/constraints"
	"github.com/TimothyStiles/stabletbn/configuration"
	"github.com/TimothyStiles/stabletbn/domain"
	"github.com/TimothyStiles/stabletbn/formulation"
	"github.com/TimothyStiles/stabletbn/modeling"
	"github.com/TimothyStiles/stabletbn/monomer"
	"github.com/TimothyStiles/stabletbn/multiset"
	"github.com/TimothyStiles/stabletbn/polymer"
	"github.com/TimothyStiles/stabletbn/staberr"
	"github.com/TimothyStiles/stabletbn/tbn"
)

// Variant selects which member of the polymer-matrix family to build.
type Variant int

const (
	// Unbounded allows arbitrary non-negative monomer multiplicities per
	// type (the matrix entries are not 0/1), and tolerates a tbn whose
	// non-limiting monomer types have infinite counts.
	Unbounded Variant = iota
	// Integer additionally requires every monomer count to be finite.
	Integer
	// Binary flattens the tbn to one row per monomer individual, so
	// every matrix entry is 0/1.
	Binary
	// VariableBondWeight extends Unbounded with a per-domain, per-polymer
	// bond-deficit variable and an energy objective/bound in place of a
	// pure merge count; like Integer, it requires finite monomer counts.
	VariableBondWeight
)

type domainSlot struct {
	d domain.Domain
	j int
}

type tieKey struct {
	i, j int
}

// New builds a populated Formulation for the given variant.
func New(t tbn.Tbn, adapter modeling.SolverAdapter, userConstraints constraints.Constraints, variant Variant) (formulation.Formulation, error) {
	var (
		orderedMonomers []monomer.Monomer
		monomerCounts   []multiset.Count
		err             error
	)
	if variant == Binary {
		orderedMonomers, err = t.FlattenedMonomers()
		if err != nil {
			return nil, err
		}
		monomerCounts = make([]multiset.Count, len(orderedMonomers))
		for i := range orderedMonomers {
			monomerCounts[i] = 1
		}
	} else {
		orderedMonomers = t.MonomerTypes()
		monomerCounts = make([]multiset.Count, len(orderedMonomers))
		for i, m := range orderedMonomers {
			monomerCounts[i] = t.Count(m)
		}
	}

	requireFinite := variant == Integer || variant == Binary || variant == VariableBondWeight
	if requireFinite {
		for _, c := range monomerCounts {
			if c.IsInfinite() {
				return nil, fmt.Errorf("%w: this formulation variant cannot run on a tbn with infinite monomer counts", staberr.ErrUnsupportedConfiguration)
			}
		}
	}
	if variant == VariableBondWeight && userConstraints.BondWeight() <= 0 {
		return nil, fmt.Errorf("%w: variable-bond-weight formulation requires a positive bond weight", staberr.ErrUnsupportedConfiguration)
	}

	limitingDomainTypes, err := t.LimitingDomainTypes()
	if err != nil {
		return nil, err
	}
	limitingMonomerTypes, err := t.LimitingMonomerTypes()
	if err != nil {
		return nil, err
	}
	limitingSet := map[monomer.Monomer]bool{}
	for _, m := range limitingMonomerTypes {
		limitingSet[m] = true
	}

	var totalMonomers multiset.Count
	for _, c := range monomerCounts {
		totalMonomers = totalMonomers.Add(c)
	}

	var totalLimitingMonomers multiset.Count
	var upperBoundCount multiset.Count
	for _, m := range limitingMonomerTypes {
		count := t.Count(m)
		totalLimitingMonomers = totalLimitingMonomers.Add(count)
		for _, d := range limitingDomainTypes {
			weight := 1
			if net := m.NetCount(d); net < 0 {
				weight += -net
			} else {
				weight += net
			}
			upperBoundCount = upperBoundCount.Add(count.Mul(weight))
		}
	}
	if upperBoundCount.IsInfinite() {
		return nil, fmt.Errorf("%w: this solver backend requires a finite bound on monomers per polymer, which an infinite-count tbn cannot provide", staberr.ErrUnsupportedConfiguration)
	}
	upperBound := upperBoundCount
	if totalMonomers < upperBound {
		upperBound = totalMonomers
	}

	maxPolymers := int(totalLimitingMonomers)
	if !math.IsInf(userConstraints.MaxPolymers(), 1) {
		maxPolymers = int(userConstraints.MaxPolymers())
	}

	model := adapter.NewModel("polymer-matrix")
	model.SetBigM(float64(upperBound))

	composition := make(map[[2]int]modeling.Var, len(orderedMonomers)*maxPolymers)
	for i := range orderedMonomers {
		ub := int64(monomerCounts[i])
		if int64(upperBound) < ub {
			ub = int64(upperBound)
		}
		for j := 0; j < maxPolymers; j++ {
			composition[[2]int{i, j}] = model.IntVar(0, ub, fmt.Sprintf("composition_%d_%d", i, j))
		}
	}

	indicator := make([]modeling.Var, maxPolymers)
	for j := 0; j < maxPolymers; j++ {
		indicator[j] = model.BoolVar(fmt.Sprintf("indicator_%d", j))
	}

	var bondDeficit map[domainSlot]modeling.Var
	if variant == VariableBondWeight {
		bondDeficit = map[domainSlot]modeling.Var{}
		for _, d := range limitingDomainTypes {
			var totalSiteCount int64
			for _, m := range limitingMonomerTypes {
				net := m.NetCount(d)
				if net < 0 {
					net = -net
				}
				totalSiteCount += int64(t.Count(m)) * int64(net)
			}
			for j := 0; j < maxPolymers; j++ {
				bondDeficit[domainSlot{d, j}] = model.IntVar(0, totalSiteCount, fmt.Sprintf("deficit_%s_%d", d, j))
			}
		}
	}

	// conservation
	for i, m := range orderedMonomers {
		total := modeling.LinExpr{}
		for j := 0; j < maxPolymers; j++ {
			total = total.Plus(modeling.Single(composition[[2]int{i, j}]))
		}
		switch {
		case limitingSet[m]:
			model.AddConstraint(modeling.LinearConstraint(total, modeling.Equal, float64(monomerCounts[i])))
		case !monomerCounts[i].IsInfinite():
			model.AddConstraint(modeling.LinearConstraint(total, modeling.LessOrEqual, float64(monomerCounts[i])))
		}
	}

	// saturation
	for _, d := range limitingDomainTypes {
		for j := 0; j < maxPolymers; j++ {
			expr := modeling.LinExpr{}
			for i, m := range orderedMonomers {
				expr = expr.Plus(modeling.Scaled(float64(m.NetCount(d)), composition[[2]int{i, j}]))
			}
			if variant == VariableBondWeight {
				expr = expr.Minus(modeling.Single(bondDeficit[domainSlot{d, j}]))
			}
			model.AddConstraint(modeling.LinearConstraint(expr, modeling.LessOrEqual, 0))
		}
	}

	// indicator: only 1 if the polymer holds at least one limiting monomer
	for j := 0; j < maxPolymers; j++ {
		sumLimiting := modeling.LinExpr{}
		for i, m := range orderedMonomers {
			if limitingSet[m] {
				sumLimiting = sumLimiting.Plus(modeling.Single(composition[[2]int{i, j}]))
			}
		}
		model.AddConstraint(modeling.LinearConstraint(
			sumLimiting.Minus(modeling.Single(indicator[j])), modeling.GreaterOrEqual, 0,
		))
	}

	if userConstraints.Sort() {
		addSortingConstraints(model, composition, orderedMonomers, maxPolymers)
	}

	totalUsed := modeling.LinExpr{}
	for i := range orderedMonomers {
		for j := 0; j < maxPolymers; j++ {
			totalUsed = totalUsed.Plus(modeling.Single(composition[[2]int{i, j}]))
		}
	}
	numberOfPolymers := modeling.LinExpr{}
	for j := 0; j < maxPolymers; j++ {
		numberOfPolymers = numberOfPolymers.Plus(modeling.Single(indicator[j]))
	}
	numberOfMerges := totalUsed.Minus(numberOfPolymers)

	if !math.IsInf(userConstraints.MaxPolymers(), 1) {
		model.AddConstraint(modeling.LinearConstraint(numberOfPolymers, modeling.LessOrEqual, userConstraints.MaxPolymers()))
	}
	if userConstraints.MinPolymers() > 0 {
		model.AddConstraint(modeling.LinearConstraint(numberOfPolymers, modeling.GreaterOrEqual, userConstraints.MinPolymers()))
	}

	if variant == VariableBondWeight {
		totalBondDeficit := modeling.LinExpr{}
		for _, d := range limitingDomainTypes {
			for j := 0; j < maxPolymers; j++ {
				totalBondDeficit = totalBondDeficit.Plus(modeling.Single(bondDeficit[domainSlot{d, j}]))
			}
		}
		const scale = 100.0
		scaledEnergy := totalBondDeficit.Scale(scale * userConstraints.BondWeight()).Plus(numberOfMerges.Scale(scale))

		if !math.IsInf(userConstraints.MaxEnergy(), 1) {
			model.AddConstraint(modeling.LinearConstraint(scaledEnergy, modeling.LessOrEqual, scale*userConstraints.MaxEnergy()))
		}
		if !math.IsInf(userConstraints.MinEnergy(), -1) {
			model.AddConstraint(modeling.LinearConstraint(scaledEnergy, modeling.GreaterOrEqual, scale*userConstraints.MinEnergy()))
		}
		if userConstraints.Optimize() {
			model.Minimize(scaledEnergy)
		}
	} else {
		if !math.IsInf(userConstraints.MaxMerges(), 1) {
			model.AddConstraint(modeling.LinearConstraint(numberOfMerges, modeling.LessOrEqual, userConstraints.MaxMerges()))
		}
		if userConstraints.MinMerges() > 0 {
			model.AddConstraint(modeling.LinearConstraint(numberOfMerges, modeling.GreaterOrEqual, userConstraints.MinMerges()))
		}
		if userConstraints.Optimize() {
			if variant == Unbounded {
				model.Minimize(numberOfMerges)
			} else {
				model.Maximize(numberOfPolymers)
			}
		}
	}

	keptVars := make([]modeling.Var, 0, len(composition))
	for _, v := range composition {
		keptVars = append(keptVars, v)
	}

	interpret := func(values map[int]int64) (configuration.Configuration, error) {
		polymers := map[polymer.Polymer]multiset.Count{}
		for j := 0; j < maxPolymers; j++ {
			counts := map[monomer.Monomer]multiset.Count{}
			for i, m := range orderedMonomers {
				v := values[composition[[2]int{i, j}].ID()]
				if v > 0 {
					counts[m] = counts[m].Add(multiset.Count(v))
				}
			}
			if len(counts) == 0 {
				continue
			}
			p, err := polymer.New(counts)
			if err != nil {
				return configuration.Configuration{}, err
			}
			polymers[p] = polymers[p].Add(1)
		}
		partial, err := configuration.New(polymers)
		if err != nil {
			return configuration.Configuration{}, err
		}
		flattenedPartial, err := partial.Flatten()
		if err != nil {
			return configuration.Configuration{}, err
		}
		leftover, err := t.Subtract(flattenedPartial)
		if err != nil {
			return configuration.Configuration{}, err
		}
		for _, m := range leftover.MonomerTypes() {
			p, err := polymer.New(map[monomer.Monomer]multiset.Count{m: 1})
			if err != nil {
				return configuration.Configuration{}, err
			}
			polymers[p] = polymers[p].Add(leftover.Count(m))
		}
		return configuration.New(polymers)
	}

	return &formulation.Runner{
		Adapter:   adapter,
		Model:     model,
		KeptVars:  keptVars,
		Interpret: interpret,
	}, nil
}

func addSortingConstraints(model modeling.Model, composition map[[2]int]modeling.Var, orderedMonomers []monomer.Monomer, maxPolymers int) {
	tiebreaker := map[tieKey]modeling.Var{}
	for i := -1; i < len(orderedMonomers); i++ {
		for j := 0; j < maxPolymers-1; j++ {
			tiebreaker[tieKey{i, j}] = model.BoolVar(fmt.Sprintf("tiebreaker_%d_%d", i, j))
		}
	}
	trueConst := model.IntVar(1, 1, "sort_true")
	for j := 0; j < maxPolymers-1; j++ {
		model.AddConstraint(modeling.LinearConstraint(
			modeling.Single(tiebreaker[tieKey{-1, j}]).Minus(modeling.Single(trueConst)), modeling.Equal, 0,
		))
	}
	for i := range orderedMonomers {
		for j := 0; j < maxPolymers-1; j++ {
			x := composition[[2]int{i, j}]
			y := composition[[2]int{i, j + 1}]
			diff := modeling.Single(x).Minus(modeling.Single(y))
			above := tiebreaker[tieKey{i - 1, j}]

			// case 1: a tie at position i only makes sense if still tied above
			model.AddImplication(tiebreaker[tieKey{i, j}], modeling.LinearConstraint(
				modeling.Single(above), modeling.Equal, 1,
			))
			// case 2: try to resolve a tie, but still tied: x == y
			model.AddEqualToZeroImplication(tiebreaker[tieKey{i, j}], diff)
			// case 3: try to resolve a tie, and succeed: x > y, conditioned
			// on BOTH the tie above being live AND this position breaking
			// it. AddGreaterThanZeroImplication only takes one condition,
			// so the conjunction is synthesized as its own boolean.
			broken := model.ComplementVar(tiebreaker[tieKey{i, j}], fmt.Sprintf("tiebreaker_broken_%d_%d", i, j))
			brokenAndAbove := addAnd(model, broken, above, fmt.Sprintf("broken_and_above_%d_%d", i, j))
			model.AddGreaterThanZeroImplication(brokenAndAbove, diff)
		}
	}
}

// addAnd synthesizes a boolean variable constrained to equal a AND b via
// the standard linearization: and <= a, and <= b, and >= a + b - 1.
func addAnd(model modeling.Model, a, b modeling.Var, name string) modeling.Var {
	and := model.BoolVar(name)
	model.AddConstraint(modeling.LinearConstraint(
		modeling.Single(and).Minus(modeling.Single(a)), modeling.LessOrEqual, 0,
	))
	model.AddConstraint(modeling.LinearConstraint(
		modeling.Single(and).Minus(modeling.Single(b)), modeling.LessOrEqual, 0,
	))
	model.AddConstraint(modeling.LinearConstraint(
		modeling.Single(and).Minus(modeling.Single(a)).Minus(modeling.Single(b)), modeling.GreaterOrEqual, -1,
	))
	return and
}

