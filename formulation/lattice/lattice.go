// Package lattice implements the lattice-basis formulation family
// (spec §4.6): rather than searching over polymer shapes directly, it
// asks an external oracle for every minimal polymer shape up front (a
// Hilbert basis of the saturation cone) and reduces the search to
// picking non-negative multiples of those shapes. Grounded on
// original_source's hilbert_basis.py / graver_basis.py.
package lattice

import (
	"context"
	"fmt"

	"github.com/TimothyStiles/stabletbn/configuration"
	"github.com/TimothyStiles/stabletbn/constraints"
	"github.com/TimothyStiles/stabletbn/formulation"
	"github.com/TimothyStiles/stabletbn/modeling"
	"github.com/TimothyStiles/stabletbn/monomer"
	"github.com/TimothyStiles/stabletbn/multiset"
	"github.com/TimothyStiles/stabletbn/oracle"
	"github.com/TimothyStiles/stabletbn/polymer"
	"github.com/TimothyStiles/stabletbn/staberr"
	"github.com/TimothyStiles/stabletbn/tbn"
)

// NewHilbert builds a populated Formulation backed by the 4ti2 oracle.
// Unlike the matrix and network families, this one needs the oracle's
// answer before it can even declare variables, so it takes a context
// and can fail for reasons unrelated to the solver (the oracle binary
// missing, or failing on this input).
//
// Like the original, this formulation does not respond to merge or
// energy constraints: the basis fixes polymer shapes outright, leaving
// only a choice of how many of each to use, so there is no notion of a
// "merge" independent from the shape itself.
func NewHilbert(ctx context.Context, t tbn.Tbn, adapter modeling.SolverAdapter, userConstraints constraints.Constraints) (formulation.Formulation, error) {
	monomerTypes := t.MonomerTypes()
	for _, m := range monomerTypes {
		if t.Count(m).IsInfinite() {
			return nil, fmt.Errorf("%w: hilbert-basis formulation cannot run on a tbn with infinite monomer counts", staberr.ErrUnsupportedConfiguration)
		}
	}
	limitingDomains, err := t.LimitingDomainTypes()
	if err != nil {
		return nil, err
	}

	matrix := make([][]int64, len(limitingDomains))
	rel := make([]string, len(limitingDomains))
	rhs := make([]int64, len(limitingDomains))
	for i, d := range limitingDomains {
		row := make([]int64, len(monomerTypes))
		for j, m := range monomerTypes {
			row[j] = -int64(m.NetCount(d))
		}
		matrix[i] = row
		rel[i] = ">"
		rhs[i] = 0
	}

	basis, err := oracle.Run(ctx, oracle.BasisRequest{Matrix: matrix, Rel: rel, Rhs: rhs})
	if err != nil {
		return nil, err
	}

	limitingMonomerTypes, err := t.LimitingMonomerTypes()
	if err != nil {
		return nil, err
	}
	var upperBound int64
	for _, m := range limitingMonomerTypes {
		count := int64(t.Count(m))
		for _, d := range limitingDomains {
			net := m.NetCount(d)
			if net < 0 {
				net = -net
			}
			upperBound += count * int64(1+net)
		}
	}
	var totalMonomers int64
	for _, m := range monomerTypes {
		totalMonomers += int64(t.Count(m))
	}
	if totalMonomers < upperBound {
		upperBound = totalMonomers
	}

	model := adapter.NewModel("lattice-basis-hilbert")
	model.SetBigM(float64(upperBound))

	coefficients := make([]modeling.Var, len(basis.Vectors))
	for i := range basis.Vectors {
		coefficients[i] = model.IntVar(0, upperBound, fmt.Sprintf("basis_coefficient_%d", i))
	}

	// conservation: the chosen multiples of basis vectors must spend
	// exactly the available count of every monomer type.
	for j, m := range monomerTypes {
		expr := modeling.LinExpr{}
		for i, vec := range basis.Vectors {
			expr = expr.Plus(modeling.Scaled(float64(vec[j]), coefficients[i]))
		}
		model.AddConstraint(modeling.LinearConstraint(expr, modeling.Equal, float64(t.Count(m))))
	}

	numberOfPolymers := modeling.LinExpr{}
	for _, c := range coefficients {
		numberOfPolymers = numberOfPolymers.Plus(modeling.Single(c))
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

	interpret := func(values map[int]int64) (configuration.Configuration, error) {
		polymers := map[polymer.Polymer]multiset.Count{}
		for i, vec := range basis.Vectors {
			count := values[coefficients[i].ID()]
			if count <= 0 {
				continue
			}
			counts := map[monomer.Monomer]multiset.Count{}
			for j, m := range monomerTypes {
				if vec[j] > 0 {
					counts[m] = multiset.Count(vec[j])
				}
			}
			if len(counts) == 0 {
				continue
			}
			p, err := polymer.New(counts)
			if err != nil {
				return configuration.Configuration{}, err
			}
			polymers[p] = polymers[p].Add(multiset.Count(count))
		}
		return configuration.New(polymers)
	}

	return &formulation.Runner{
		Adapter:   adapter,
		Model:     model,
		KeptVars:  coefficients,
		Interpret: interpret,
	}, nil
}

// NewGraver is not implemented. The original's Graver-basis formulation
// is itself a near-duplicate of the Hilbert-basis one, calling out to a
// different external "hilbert" binary with a hardcoded upper bound of
// 500 and its own unresolved TODO against that bound; there is no
// well-defined finite bound to carry over, so this is left as an
// explicit gap rather than a guess.
func NewGraver(context.Context, tbn.Tbn, modeling.SolverAdapter, constraints.Constraints) (formulation.Formulation, error) {
	return nil, fmt.Errorf("%w: graver-basis formulation is not implemented", staberr.ErrUnsupportedConfiguration)
}

func isUnbounded(v float64) bool { return v > 1e300 }
