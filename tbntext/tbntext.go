// Package tbntext ties the TBN and Constraints text grammars to file
// reading and the solver orchestrator, the way original_source's lib.py
// does for its own CLI entry points. Unlike lib.py, a supplied
// constraint file is actually parsed and applied rather than rejected:
// constraints.FromString already exists, so there is no reason to
// carry over that original limitation.
package tbntext

import (
	"context"
	"os"

	"github.com/TimothyStiles/stabletbn/configuration"
	"github.com/TimothyStiles/stabletbn/constraints"
	"github.com/TimothyStiles/stabletbn/monomer"
	"github.com/TimothyStiles/stabletbn/solver"
	"github.com/TimothyStiles/stabletbn/tbn"
)

// TbnFromFile reads and parses a TBN text file, interning its monomers
// into a fresh registry.
func TbnFromFile(path string) (tbn.Tbn, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tbn.Tbn{}, err
	}
	return tbn.Parse(monomer.NewRegistry(), string(data))
}

// ConstraintsFromFile reads and parses a constraints text file. An empty
// path returns the default Constraints, unchanged.
func ConstraintsFromFile(path string) (constraints.Constraints, error) {
	if path == "" {
		return constraints.New(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return constraints.Constraints{}, err
	}
	return constraints.FromString(string(data))
}

// StableConfigFromFiles reads a TBN file and an optional constraints
// file, then solves once for the example optimum.
func StableConfigFromFiles(ctx context.Context, s solver.Solver, f solver.Formulation, tbnPath, constraintPath string) (configuration.Configuration, error) {
	t, err := TbnFromFile(tbnPath)
	if err != nil {
		return configuration.Configuration{}, err
	}
	c, err := ConstraintsFromFile(constraintPath)
	if err != nil {
		return configuration.Configuration{}, err
	}
	return s.StableConfig(ctx, t, f, c)
}

// StableConfigsFromFiles reads a TBN file and an optional constraints
// file, then runs the full two-pass enumeration protocol.
func StableConfigsFromFiles(ctx context.Context, s solver.Solver, f solver.Formulation, tbnPath, constraintPath string) ([]configuration.Configuration, error) {
	t, err := TbnFromFile(tbnPath)
	if err != nil {
		return nil, err
	}
	c, err := ConstraintsFromFile(constraintPath)
	if err != nil {
		return nil, err
	}
	return s.StableConfigs(ctx, t, f, c)
}
