// Package bigm adapts modeling.Model/SolverAdapter onto
// github.com/irfansharif/solver by hand-compiling the three implication
// primitives into linear Big-M constraints (spec §4.2), rather than
// relying on CP-SAT's native OnlyEnforceIf. It exists to exercise the
// integer-programming formulation family on solvers that only support
// unconditional linear constraints; SolveAll is not implemented, since
// Big-M solvers have no native enumeration callback to stream from.
package bigm

import (
	"context"
	"fmt"

	"github.com/TimothyStiles/stabletbn/modeling"
	"github.com/TimothyStiles/stabletbn/staberr"
	cp "github.com/irfansharif/solver"
)

const defaultBigM = 1e6

// Adapter is a modeling.SolverAdapter that linearizes implications via
// Big-M instead of enforcing them natively.
type Adapter struct{}

// New returns a ready-to-use Adapter.
func New() Adapter { return Adapter{} }

type bigmModel struct {
	inner *cp.Model
	vars  map[int]cp.IntVar
	next  int
	bigM  float64
}

func (Adapter) NewModel(name string) modeling.Model {
	return &bigmModel{
		inner: cp.NewModel(name),
		vars:  map[int]cp.IntVar{},
		bigM:  defaultBigM,
	}
}

func (m *bigmModel) allocID() int {
	id := m.next
	m.next++
	return id
}

func (m *bigmModel) IntVar(lb, ub int64, name string) modeling.Var {
	id := m.allocID()
	m.vars[id] = m.inner.NewIntVar(lb, ub, name)
	return modeling.NewVar(id, name)
}

func (m *bigmModel) BoolVar(name string) modeling.Var {
	id := m.allocID()
	m.vars[id] = m.inner.NewLiteral(name)
	return modeling.NewVar(id, name)
}

func (m *bigmModel) ComplementVar(v modeling.Var, name string) modeling.Var {
	id := m.allocID()
	// 1 - v, expressed as a fresh boolean tied to v by a linear
	// equality, since the Big-M encoding never touches native literal
	// negation.
	complement := m.inner.NewLiteral(name)
	m.vars[id] = complement
	expr := cp.NewLinearExpr().Plus(m.vars[v.ID()]).Plus(complement)
	m.inner.AddConstraints(cp.NewLinearConstraint(expr, cp.NewDomain(1, 1)))
	return modeling.NewVar(id, name)
}

func (m *bigmModel) toLinearExpr(e modeling.LinExpr) cp.LinearExpr {
	expr := cp.NewLinearExpr()
	for _, t := range e.Terms {
		expr = expr.Plus(m.vars[t.Var.ID()].Scaled(int64(t.Coeff)))
	}
	if e.Offset != 0 {
		expr = expr.Plus(m.inner.NewConstant(int64(e.Offset), ""))
	}
	return expr
}

func (m *bigmModel) addLinear(expr cp.LinearExpr, lb, ub int64) {
	m.inner.AddConstraints(cp.NewLinearConstraint(expr, cp.NewDomain(lb, ub)))
}

func (m *bigmModel) AddConstraint(c modeling.Constraint) {
	expr := m.toLinearExpr(c.Expr)
	switch c.Cmp {
	case modeling.Equal:
		m.addLinear(expr, 0, 0)
	case modeling.GreaterOrEqual:
		m.addLinear(expr, 0, cp.MaxInt)
	default:
		m.addLinear(expr, cp.MinInt, 0)
	}
}

// AddImplication compiles "cond -> (expr Cmp 0)" as expr Cmp -M*(1-cond),
// i.e. the constraint is slackened by M whenever cond is 0 and tight
// whenever cond is 1.
func (m *bigmModel) AddImplication(cond modeling.Var, c modeling.Constraint) {
	condVar := m.vars[cond.ID()]
	expr := m.toLinearExpr(c.Expr)
	switch c.Cmp {
	case modeling.Equal:
		// expr <= M*(1-cond) and expr >= -M*(1-cond): the equality is
		// only forced while cond holds, relaxed to +-M otherwise.
		bigM := int64(m.bigM)
		m.addLinear(expr.Plus(condVar.Scaled(bigM)), cp.MinInt, bigM)
		m.addLinear(expr.Minus(condVar.Scaled(bigM)), -bigM, cp.MaxInt)
	case modeling.GreaterOrEqual:
		// expr >= -M*(1-cond): tight (expr >= 0) while cond holds.
		m.addLinear(expr.Minus(condVar.Scaled(int64(m.bigM))), -int64(m.bigM), cp.MaxInt)
	default:
		// expr <= M*(1-cond): tight (expr <= 0) while cond holds.
		m.addLinear(expr.Plus(condVar.Scaled(int64(m.bigM))), cp.MinInt, int64(m.bigM))
	}
}

// AddEqualToZeroImplication enforces "cond -> expr == 0" via the same
// pair of Big-M inequalities as AddImplication's Equal case. The
// converse named in modeling.Model's doc comment (expr != 0 forces
// cond false) needs no separate constraint: it is the logical
// contrapositive of the forward implication, true of it for free.
func (m *bigmModel) AddEqualToZeroImplication(cond modeling.Var, linExpr modeling.LinExpr) {
	expr := m.toLinearExpr(linExpr)
	condVar := m.vars[cond.ID()]
	bigM := int64(m.bigM)

	m.addLinear(expr.Plus(condVar.Scaled(bigM)), cp.MinInt, bigM)
	m.addLinear(expr.Minus(condVar.Scaled(bigM)), -bigM, cp.MaxInt)
}

// AddGreaterThanZeroImplication enforces "cond -> expr >= 1" (expr is
// assumed integral, so expr > 0 and expr >= 1 coincide). As with
// AddEqualToZeroImplication, the converse is the free contrapositive.
func (m *bigmModel) AddGreaterThanZeroImplication(cond modeling.Var, linExpr modeling.LinExpr) {
	expr := m.toLinearExpr(linExpr)
	condVar := m.vars[cond.ID()]
	bigM := int64(m.bigM)

	m.addLinear(expr.Minus(condVar.Scaled(bigM)), 1-bigM, cp.MaxInt)
}

func (m *bigmModel) Minimize(expr modeling.LinExpr) { m.inner.Minimize(m.toLinearExpr(expr)) }
func (m *bigmModel) Maximize(expr modeling.LinExpr) { m.inner.Maximize(m.toLinearExpr(expr)) }

// SetBigM overrides the constant used for every implication compiled
// after this call. It must exceed the largest magnitude any linked
// LinExpr can take across the whole variable domain.
func (m *bigmModel) SetBigM(v float64) { m.bigM = v }

func (Adapter) Solve(ctx context.Context, model modeling.Model, keptVars []modeling.Var, verbose bool) (modeling.Result, error) {
	m, ok := model.(*bigmModel)
	if !ok {
		return modeling.Result{}, fmt.Errorf("%w: bigm adapter given a foreign model", staberr.ErrSolverError)
	}
	res := m.inner.Solve()
	switch {
	case res.Optimal() || res.Feasible():
		values := make(map[int]int64, len(keptVars))
		for _, v := range keptVars {
			values[v.ID()] = res.Value(m.vars[v.ID()])
		}
		status := modeling.StatusFeasible
		if res.Optimal() {
			status = modeling.StatusOptimal
		}
		return modeling.Result{Status: status, Values: values}, nil
	case res.Infeasible():
		return modeling.Result{Status: modeling.StatusInfeasible}, fmt.Errorf("%w: big-m model is infeasible", staberr.ErrInfeasibleSolution)
	default:
		return modeling.Result{Status: modeling.StatusError}, fmt.Errorf("%w: solver returned status %v", staberr.ErrSolverError, res.Status())
	}
}

// SolveAll is not implemented: the Big-M encoding only exposes a single
// optimal/feasible solve, not a native solution-enumeration callback.
func (Adapter) SolveAll(ctx context.Context, model modeling.Model, keptVars []modeling.Var, verbose bool) ([]modeling.Result, error) {
	return nil, fmt.Errorf("%w: the big-m adapter does not support solution enumeration", staberr.ErrUnsupportedConfiguration)
}
