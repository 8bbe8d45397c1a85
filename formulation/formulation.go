// Package formulation defines the common lifecycle every concrete
// formulation (matrix, network, lattice) follows: populate a
// modeling.Model, solve it once for an example optimum or stream every
// feasible solution, and translate the kept variable assignment back
// into a configuration.Configuration (spec §4.3-§4.6).
package formulation

import (
	"context"

	"github.com/TimothyStiles/stabletbn/configuration"
	"github.com/TimothyStiles/stabletbn/modeling"
)

// Formulation produces configurations for a TBN under a fixed model.
type Formulation interface {
	// GetConfiguration solves the model once and interprets the result,
	// the optimum if an objective was set during construction.
	GetConfiguration(ctx context.Context, verbose bool) (configuration.Configuration, error)
	// GetAllConfigurations streams every feasible solution of the model.
	GetAllConfigurations(ctx context.Context, verbose bool) ([]configuration.Configuration, error)
}

// Interpreter converts a solved variable assignment back into a
// Configuration; each formulation variant supplies its own.
type Interpreter func(values map[int]int64) (configuration.Configuration, error)

// Runner is the shared Formulation implementation every formulation
// variant embeds: it owns the already-populated model, the adapter
// that will solve it, the variables worth reading back, and the
// variant-specific interpretation function.
type Runner struct {
	Adapter  modeling.SolverAdapter
	Model    modeling.Model
	KeptVars []modeling.Var
	Interpret Interpreter
}

func (r *Runner) GetConfiguration(ctx context.Context, verbose bool) (configuration.Configuration, error) {
	result, err := r.Adapter.Solve(ctx, r.Model, r.KeptVars, verbose)
	if err != nil {
		return configuration.Configuration{}, err
	}
	return r.Interpret(result.Values)
}

func (r *Runner) GetAllConfigurations(ctx context.Context, verbose bool) ([]configuration.Configuration, error) {
	results, err := r.Adapter.SolveAll(ctx, r.Model, r.KeptVars, verbose)
	if err != nil {
		return nil, err
	}
	out := make([]configuration.Configuration, 0, len(results))
	for _, res := range results {
		cfg, err := r.Interpret(res.Values)
		if err != nil {
			return nil, err
		}
		out = append(out, cfg)
	}
	return out, nil
}
