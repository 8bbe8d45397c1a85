// Package network implements the bond-network formulation family
// (spec §4.5): monomers are flattened to individuals, grouped into
// polymers via pairwise symmetric boolean variables with a
// transitivity constraint, and (in the bond-aware variant) limiting
// sites are additionally paired off one-to-one. Grounded on
// original_source's bond_oblivious_network.py / bond_aware_network.py.
package network

import (
	"fmt"

	"github.com/TimothyStiles/stabletbn/configuration"
	"github.com/TimothyStiles/stabletbn/constraints"
	"github.com/TimothyStiles/stabletbn/domain"
	"github.com/TimothyStiles/stabletbn/formulation"
	"github.com/TimothyStiles/stabletbn/modeling"
	"github.com/TimothyStiles/stabletbn/monomer"
	"github.com/TimothyStiles/stabletbn/multiset"
	"github.com/TimothyStiles/stabletbn/polymer"
	"github.com/TimothyStiles/stabletbn/tbn"
)

// Variant selects between bond-oblivious (group-level saturation only)
// and bond-aware (explicit site-to-site pairing) network formulations.
type Variant int

const (
	// Oblivious only tracks which monomers share a polymer; it does not
	// model which specific sites are bonded to which.
	Oblivious Variant = iota
	// Aware additionally models a one-to-one pairing between limiting
	// sites, and derives grouping from it.
	Aware
)

type pair struct{ i, j int }

type site struct {
	monomer int
	domain  int
}

// New builds a populated Formulation for the given variant.
func New(t tbn.Tbn, adapter modeling.SolverAdapter, userConstraints constraints.Constraints, variant Variant) (formulation.Formulation, error) {
	orderedMonomers, err := t.FlattenedMonomers()
	if err != nil {
		return nil, err
	}
	n := len(orderedMonomers)
	limitingDomainTypes, err := t.LimitingDomainTypes()
	if err != nil {
		return nil, err
	}
	limitingSet := map[string]bool{}
	for _, d := range limitingDomainTypes {
		limitingSet[d.String()] = true
	}

	model := adapter.NewModel("bond-network")
	model.SetBigM(float64(n))

	grouping := map[pair]modeling.Var{}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := model.BoolVar(fmt.Sprintf("grouping_%d_%d", i, j))
			grouping[pair{i, j}] = v
			grouping[pair{j, i}] = v
		}
	}
	groupingExpr := func(i, j int) modeling.LinExpr {
		if i == j {
			return modeling.Constant(1)
		}
		return modeling.Single(grouping[pair{i, j}])
	}

	rep := make([]modeling.Var, n)
	for i := 0; i < n; i++ {
		rep[i] = model.BoolVar(fmt.Sprintf("rep_%d", i))
	}

	// transitivity: grouping[m1,m2] && grouping[m1,m3] -> grouping[m2,m3]
	for m1 := 0; m1 < n; m1++ {
		for m2 := 0; m2 < n; m2++ {
			if m2 == m1 {
				continue
			}
			for m3 := 0; m3 < n; m3++ {
				if m3 == m1 || m3 == m2 {
					continue
				}
				if _, ok := grouping[pair{m1, m2}]; !ok {
					continue
				}
				if _, ok := grouping[pair{m1, m3}]; !ok {
					continue
				}
				// conjunction-of-two-antecedents implication: enforce it
				// via grouping[m1,m2] + grouping[m1,m3] - 1 <= grouping[m2,m3]
				lhs := groupingExpr(m1, m2).Plus(groupingExpr(m1, m3)).Minus(modeling.Constant(1))
				model.AddConstraint(modeling.LinearConstraint(
					groupingExpr(m2, m3).Minus(lhs), modeling.GreaterOrEqual, 0,
				))
			}
		}
	}

	// at most one representative per polymer: whenever a lower-indexed
	// monomer is grouped with j, j itself cannot be the representative.
	notRep := make([]modeling.Var, n)
	for j := 0; j < n; j++ {
		notRep[j] = model.ComplementVar(rep[j], fmt.Sprintf("not_rep_%d", j))
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			model.AddImplication(grouping[pair{i, j}], modeling.LinearConstraint(
				modeling.Single(notRep[j]), modeling.Equal, 1,
			))
		}
	}

	var siteBonding map[[2]site]modeling.Var
	if variant == Aware {
		siteBonding = map[[2]site]modeling.Var{}
		lists := make([][]domain.Domain, n)
		for i, m := range orderedMonomers {
			lists[i] = m.AsExplicitList()
		}
		for mi := 0; mi < n; mi++ {
			for di, dom := range lists[mi] {
				for mj := 0; mj < n; mj++ {
					for dj, dom2 := range lists[mj] {
						if !dom.Equal(dom2.Complement()) {
							continue
						}
						a, b := site{mi, di}, site{mj, dj}
						if _, exists := siteBonding[[2]site{b, a}]; exists {
							continue
						}
						if _, exists := siteBonding[[2]site{a, b}]; exists {
							continue
						}
						siteBonding[[2]site{a, b}] = model.BoolVar(
							fmt.Sprintf("site_bond_%d_%d_%d_%d", mi, di, mj, dj),
						)
					}
				}
			}
		}

		bondSum := func(s site) modeling.LinExpr {
			sum := modeling.LinExpr{}
			for key, v := range siteBonding {
				if key[0] == s || key[1] == s {
					sum = sum.Plus(modeling.Single(v))
				}
			}
			return sum
		}
		// every limiting site bonds exactly once; every other site bonds
		// at most once
		for mi := 0; mi < n; mi++ {
			for di, dom := range lists[mi] {
				s := site{mi, di}
				if limitingSet[dom.String()] {
					model.AddConstraint(modeling.LinearConstraint(bondSum(s), modeling.Equal, 1))
				} else {
					model.AddConstraint(modeling.LinearConstraint(bondSum(s), modeling.LessOrEqual, 1))
				}
			}
		}
		// bonding implies grouping
		for key, v := range siteBonding {
			model.AddImplication(v, modeling.LinearConstraint(
				groupingExpr(key[0].monomer, key[1].monomer), modeling.Equal, 1,
			))
		}
	} else {
		// saturation: limiting sites must be in the minority within the group
		for i := 0; i < n; i++ {
			for _, d := range limitingDomainTypes {
				expr := modeling.LinExpr{}
				for j := 0; j < n; j++ {
					expr = expr.Plus(groupingExpr(i, j).Scale(float64(orderedMonomers[j].NetCount(d))))
				}
				model.AddConstraint(modeling.LinearConstraint(expr, modeling.LessOrEqual, 0))
			}
		}
	}

	numberOfPolymers := modeling.LinExpr{}
	for i := 0; i < n; i++ {
		numberOfPolymers = numberOfPolymers.Plus(modeling.Single(rep[i]))
	}
	if !isUnbounded(userConstraints.MaxPolymers()) {
		model.AddConstraint(modeling.LinearConstraint(numberOfPolymers, modeling.LessOrEqual, userConstraints.MaxPolymers()))
	}
	if userConstraints.MinPolymers() > 0 {
		model.AddConstraint(modeling.LinearConstraint(numberOfPolymers, modeling.GreaterOrEqual, userConstraints.MinPolymers()))
	}
	if userConstraints.Optimize() {
		model.Maximize(numberOfPolymers)
	}

	keptVars := make([]modeling.Var, 0, len(grouping))
	seen := map[int]bool{}
	for _, v := range grouping {
		if !seen[v.ID()] {
			seen[v.ID()] = true
			keptVars = append(keptVars, v)
		}
	}

	interpret := func(values map[int]int64) (configuration.Configuration, error) {
		discovered := make([]bool, n)
		polymers := map[polymer.Polymer]multiset.Count{}
		for i := 0; i < n; i++ {
			if discovered[i] {
				continue
			}
			discovered[i] = true
			counts := map[monomer.Monomer]multiset.Count{orderedMonomers[i]: 1}
			for j := i + 1; j < n; j++ {
				v, ok := grouping[pair{i, j}]
				if ok && values[v.ID()] > 0 {
					discovered[j] = true
					counts[orderedMonomers[j]] = counts[orderedMonomers[j]].Add(1)
				}
			}
			p, err := polymer.New(counts)
			if err != nil {
				return configuration.Configuration{}, err
			}
			polymers[p] = polymers[p].Add(1)
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

func isUnbounded(v float64) bool { return v > 1e300 }
