// Package staberr defines the sentinel error taxonomy shared across the
// stable-tbn packages. Callers distinguish error classes with errors.Is;
// context is attached the way the teacher packages do it, via fmt.Errorf's
// %w verb, rather than by inventing an error-wrapping framework.
package staberr

import "errors"

var (
	// ErrInvalidInput covers malformed TBN/constraint text, illegal counts,
	// conflicting monomer-name redefinition, and empty monomer/polymer
	// construction.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflictingInfinity is raised when a domain appears in opposing
	// infinite quantities (an inf - inf subtraction).
	ErrConflictingInfinity = errors.New("conflicting infinite quantities")

	// ErrInfeasibleSolution is raised when the solver reports no solution.
	ErrInfeasibleSolution = errors.New("no stable configuration exists")

	// ErrSolverError is raised when the solver returns a status that is
	// neither optimal nor infeasible.
	ErrSolverError = errors.New("solver returned an unexpected status")

	// ErrUnsupportedConfiguration covers requests a formulation or adapter
	// cannot serve: infinite counts on a formulation that requires finite
	// bounds, enumerating all solutions on an adapter that can't, a
	// non-positive bond weight, or subtracting a non-sub-multiset TBN.
	ErrUnsupportedConfiguration = errors.New("unsupported configuration")

	// ErrOracleUnavailable is raised when the external lattice-basis tool
	// is missing or fails.
	ErrOracleUnavailable = errors.New("lattice-basis oracle unavailable")
)
