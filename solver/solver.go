// Package solver orchestrates a formulation into a two-pass protocol:
// solve once for an example optimum, then freeze whatever that optimum
// pinned down (polymer count, merges, or energy) as an equality bound
// and stream every configuration tied at that optimum. Grounded on
// original_source's solver.py.
package solver

import (
	"context"
	"fmt"

	"github.com/TimothyStiles/stabletbn/configuration"
	"github.com/TimothyStiles/stabletbn/constraints"
	"github.com/TimothyStiles/stabletbn/formulation"
	"github.com/TimothyStiles/stabletbn/formulation/lattice"
	"github.com/TimothyStiles/stabletbn/formulation/matrix"
	"github.com/TimothyStiles/stabletbn/formulation/network"
	"github.com/TimothyStiles/stabletbn/modeling"
	"github.com/TimothyStiles/stabletbn/modeling/bigm"
	"github.com/TimothyStiles/stabletbn/modeling/cpsat"
	"github.com/TimothyStiles/stabletbn/staberr"
	"github.com/TimothyStiles/stabletbn/tbn"
)

// Method selects the back-end solver adapter. Integer programming only
// has a single-solution path; it errors out of StableConfigs.
type Method int

const (
	ConstraintProgramming Method = iota
	IntegerProgramming
)

// Formulation selects which modeling family build populates the model
// with. Names mirror the polymer-matrix / bond-network / lattice-basis
// families (spec §4.3-§4.6).
type Formulation int

const (
	// PolymerMatrixUnbounded is the default: unbounded integer
	// multiplicities, optimizing on merges.
	PolymerMatrixUnbounded Formulation = iota
	PolymerMatrixInteger
	PolymerMatrixBinary
	PolymerMatrixVariableBondWeight
	BondNetworkOblivious
	BondNetworkAware
	LatticeBasisHilbert
	LatticeBasisGraver
)

// Solver runs a single formulation family against a single adapter.
type Solver struct {
	adapter modeling.SolverAdapter
}

// New returns a Solver using the given back-end method.
func New(method Method) Solver {
	switch method {
	case IntegerProgramming:
		return Solver{adapter: bigm.New()}
	default:
		return Solver{adapter: cpsat.New()}
	}
}

// StableConfig solves once and returns the example optimum.
func (s Solver) StableConfig(ctx context.Context, t tbn.Tbn, f Formulation, userConstraints constraints.Constraints) (configuration.Configuration, error) {
	built, err := s.build(ctx, t, f, userConstraints)
	if err != nil {
		return configuration.Configuration{}, err
	}
	return built.GetConfiguration(ctx, false)
}

// StableConfigs solves once to find the optimum along the quantity the
// formulation optimizes, then freezes that quantity and enumerates
// every tied configuration. When userConstraints has the optimize flag
// cleared, the first pass is skipped and every feasible configuration
// is enumerated directly.
func (s Solver) StableConfigs(ctx context.Context, t tbn.Tbn, f Formulation, userConstraints constraints.Constraints) ([]configuration.Configuration, error) {
	if !userConstraints.Optimize() {
		built, err := s.build(ctx, t, f, userConstraints)
		if err != nil {
			return nil, err
		}
		return built.GetAllConfigurations(ctx, false)
	}

	example, err := s.StableConfig(ctx, t, f, userConstraints)
	if err != nil {
		return nil, err
	}

	var frozen constraints.Constraints
	switch f {
	case PolymerMatrixVariableBondWeight:
		energy, err := example.Energy(userConstraints.BondWeight())
		if err != nil {
			return nil, err
		}
		frozen = userConstraints.WithFixedEnergy(energy).WithUnsetOptimizationFlag()
	case PolymerMatrixUnbounded:
		frozen = userConstraints.WithFixedMerges(int(example.NumberOfMerges())).WithUnsetOptimizationFlag()
	default:
		frozen = userConstraints.WithFixedPolymers(int(example.NumberOfPolymers())).WithUnsetOptimizationFlag()
	}

	built, err := s.build(ctx, t, f, frozen)
	if err != nil {
		return nil, err
	}
	return built.GetAllConfigurations(ctx, false)
}

func (s Solver) build(ctx context.Context, t tbn.Tbn, f Formulation, userConstraints constraints.Constraints) (formulation.Formulation, error) {
	switch f {
	case PolymerMatrixUnbounded:
		return matrix.New(t, s.adapter, userConstraints, matrix.Unbounded)
	case PolymerMatrixInteger:
		return matrix.New(t, s.adapter, userConstraints, matrix.Integer)
	case PolymerMatrixBinary:
		return matrix.New(t, s.adapter, userConstraints, matrix.Binary)
	case PolymerMatrixVariableBondWeight:
		return matrix.New(t, s.adapter, userConstraints, matrix.VariableBondWeight)
	case BondNetworkOblivious:
		return network.New(t, s.adapter, userConstraints, network.Oblivious)
	case BondNetworkAware:
		return network.New(t, s.adapter, userConstraints, network.Aware)
	case LatticeBasisHilbert:
		return lattice.NewHilbert(ctx, t, s.adapter, userConstraints)
	case LatticeBasisGraver:
		return lattice.NewGraver(ctx, t, s.adapter, userConstraints)
	default:
		return nil, fmt.Errorf("%w: unrecognized formulation %d", staberr.ErrUnsupportedConfiguration, f)
	}
}
