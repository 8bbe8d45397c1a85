// Package example is where the end-to-end integration tests that would
// otherwise create cyclic package dependencies go: it exercises the TBN
// grammar, the constraints grammar, and the solver orchestrator
// together, the way a caller actually would.
package example_test

import (
	"context"
	"fmt"

	"github.com/TimothyStiles/stabletbn/constraints"
	"github.com/TimothyStiles/stabletbn/monomer"
	"github.com/TimothyStiles/stabletbn/solver"
	"github.com/TimothyStiles/stabletbn/tbn"
)

// A lone "a" domain and a lone "a*" domain can only saturate by binding
// to each other, so the only stable configuration merges them into one
// polymer.
func Example() {
	registry := monomer.NewRegistry()
	t, err := tbn.Parse(registry, "a > m1\na* > m2\n")
	if err != nil {
		fmt.Println(err)
		return
	}

	s := solver.New(solver.ConstraintProgramming)
	config, err := s.StableConfig(context.Background(), t, solver.PolymerMatrixUnbounded, constraints.New())
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(config)
	// Output: {m1, m2}
}

// ExampleSolver_StableConfigs enumerates every tied-for-optimal
// configuration instead of just one example.
func ExampleSolver_StableConfigs() {
	registry := monomer.NewRegistry()
	t, err := tbn.Parse(registry, "a > m1\na* > m2\n")
	if err != nil {
		fmt.Println(err)
		return
	}

	s := solver.New(solver.ConstraintProgramming)
	configs, err := s.StableConfigs(context.Background(), t, solver.PolymerMatrixUnbounded, constraints.New())
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(len(configs))
	// Output: 1
}
