// Package modeling defines the abstract constraint-programming surface
// that every formulation is written against (spec §4.2): an integer/
// boolean variable algebra, three implication primitives, and a
// SolverAdapter capable of producing one solution or streaming all of
// them. Two concrete adapters implement it: modeling/cpsat (native
// conditional enforcement) and modeling/bigm (manual Big-M
// linearization), both grounded on github.com/irfansharif/solver.
package modeling

import "context"

// Var is an opaque handle to a variable registered with a Model. Its
// only useful operations are building LinExprs and reading back a
// solved value from a Result.
type Var struct {
	id   int
	name string
}

// NewVar constructs a Var handle. Adapters call this once per variable
// they allocate internally; formulations never construct Vars directly.
func NewVar(id int, name string) Var { return Var{id: id, name: name} }

// ID returns the adapter-assigned identity of the variable, stable for
// the lifetime of the Model that created it.
func (v Var) ID() int { return v.id }

// Name returns the variable's debug name.
func (v Var) Name() string { return v.name }

// Term is a single coefficient*variable term of a LinExpr.
type Term struct {
	Coeff float64
	Var   Var
}

// LinExpr is a linear expression: a sum of coefficient*variable terms
// plus a constant offset. Go has no operator overloading, so formulas
// that read as "2*x + y - 3" in the original are built with Plus/Minus/
// Scale/Constant calls instead.
type LinExpr struct {
	Terms  []Term
	Offset float64
}

// Constant returns a LinExpr with no variable terms.
func Constant(c float64) LinExpr { return LinExpr{Offset: c} }

// Single returns a LinExpr consisting of one variable with coefficient 1.
func Single(v Var) LinExpr { return LinExpr{Terms: []Term{{Coeff: 1, Var: v}}} }

// Scaled returns a LinExpr consisting of one variable with the given
// coefficient.
func Scaled(coeff float64, v Var) LinExpr { return LinExpr{Terms: []Term{{Coeff: coeff, Var: v}}} }

// Plus returns the sum of the receiver and other.
func (e LinExpr) Plus(other LinExpr) LinExpr {
	terms := make([]Term, 0, len(e.Terms)+len(other.Terms))
	terms = append(terms, e.Terms...)
	terms = append(terms, other.Terms...)
	return LinExpr{Terms: terms, Offset: e.Offset + other.Offset}
}

// Minus returns the receiver minus other.
func (e LinExpr) Minus(other LinExpr) LinExpr {
	return e.Plus(other.Scale(-1))
}

// Scale returns the receiver with every coefficient (and the offset)
// multiplied by k.
func (e LinExpr) Scale(k float64) LinExpr {
	terms := make([]Term, len(e.Terms))
	for i, t := range e.Terms {
		terms[i] = Term{Coeff: t.Coeff * k, Var: t.Var}
	}
	return LinExpr{Terms: terms, Offset: e.Offset * k}
}

// Sum folds a slice of LinExprs with Plus, starting from the zero
// expression.
func Sum(exprs ...LinExpr) LinExpr {
	out := LinExpr{}
	for _, e := range exprs {
		out = out.Plus(e)
	}
	return out
}

// Comparator names the relational operator of a linear constraint.
type Comparator int

const (
	LessOrEqual Comparator = iota
	Equal
	GreaterOrEqual
)

// Constraint is a linear inequality or equality: Expr Cmp 0 after
// folding any right-hand-side bound into Expr's offset.
type Constraint struct {
	Expr LinExpr
	Cmp  Comparator
}

// LinearConstraint builds "expr Cmp bound" as a Constraint with the
// bound folded into the expression (Expr represents "expr - bound").
func LinearConstraint(expr LinExpr, cmp Comparator, bound float64) Constraint {
	return Constraint{Expr: expr.Minus(Constant(bound)), Cmp: cmp}
}

// Model is the variable/constraint-building surface a formulation
// populates. Big-M compilation (for adapters lacking native conditional
// enforcement) needs a finite bound on how large any LinExpr value can
// get; SetBigM configures that bound once per model.
type Model interface {
	// IntVar creates a new bounded integer variable.
	IntVar(lb, ub int64, name string) Var
	// BoolVar creates a new 0/1 variable.
	BoolVar(name string) Var
	// ComplementVar returns a boolean variable constrained to 1-v; v
	// must itself be boolean.
	ComplementVar(v Var, name string) Var

	// AddConstraint enforces c unconditionally.
	AddConstraint(c Constraint)

	// AddImplication enforces "if cond then c" for a boolean cond. This
	// is the not-equal-or-enforced primitive: the Python original reads
	// it as `model.Add(expr != 0).OnlyEnforceIf(cond)`, generalized here
	// to any Comparator.
	AddImplication(cond Var, c Constraint)

	// AddEqualToZeroImplication enforces "if cond then expr == 0"; its
	// converse, that expr != 0 forces cond false, is the contrapositive
	// of that same one-way implication.
	AddEqualToZeroImplication(cond Var, expr LinExpr)

	// AddGreaterThanZeroImplication enforces "if cond then expr > 0"
	// and its converse, that expr <= 0 forces cond false.
	AddGreaterThanZeroImplication(cond Var, expr LinExpr)

	// Minimize sets the objective to minimize expr.
	Minimize(expr LinExpr)
	// Maximize sets the objective to maximize expr.
	Maximize(expr LinExpr)

	// SetBigM configures the constant used to linearize implications.
	// Adapters with native conditional enforcement (cpsat) ignore it.
	SetBigM(m float64)
}

// Status reports the outcome of a solve attempt.
type Status int

const (
	StatusUnknown Status = iota
	StatusOptimal
	StatusFeasible
	StatusInfeasible
	StatusError
)

// Result is one assignment of values to the kept variables of a solve.
type Result struct {
	Status Status
	Values map[int]int64
}

// Value reads back v's assigned value from the result.
func (r Result) Value(v Var) int64 { return r.Values[v.ID()] }

// SolverAdapter builds a Model and runs it, either to a single
// (optimal, if an objective is set) solution or to every feasible
// solution. keptVars restricts which variables appear in the returned
// Result.Values, since a formulation only needs to read back a handful
// of its many auxiliary variables.
type SolverAdapter interface {
	// NewModel returns a fresh, empty Model.
	NewModel(name string) Model

	// Solve runs model to a single solution (the optimum, if an
	// objective was set). verbose controls solver-log chatter.
	Solve(ctx context.Context, model Model, keptVars []Var, verbose bool) (Result, error)

	// SolveAll streams every feasible solution. Adapters without a
	// native enumeration mode (modeling/bigm) return
	// staberr.ErrUnsupportedConfiguration.
	SolveAll(ctx context.Context, model Model, keptVars []Var, verbose bool) ([]Result, error)
}
