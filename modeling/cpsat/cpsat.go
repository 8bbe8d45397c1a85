// Package cpsat adapts modeling.Model/SolverAdapter onto
// github.com/irfansharif/solver, a Go binding over OR-Tools' CP-SAT.
// Conditional constraints are enforced natively via OnlyEnforceIf, and
// SolveAll streams every feasible solution through CP-SAT's own
// enumeration mode rather than a hand-rolled loop.
package cpsat

import (
	"context"
	"fmt"

	"github.com/TimothyStiles/stabletbn/modeling"
	"github.com/TimothyStiles/stabletbn/staberr"
	cp "github.com/irfansharif/solver"
)

// Adapter is a modeling.SolverAdapter backed by CP-SAT.
type Adapter struct{}

// New returns a ready-to-use Adapter.
func New() Adapter { return Adapter{} }

// cpsatModel implements modeling.Model on top of a *cp.Model, tracking
// our own Var handles alongside CP-SAT's native IntVar/Literal values.
type cpsatModel struct {
	inner *cp.Model
	vars  map[int]cp.IntVar
	bools map[int]cp.Literal
	next  int
}

// NewModel returns a fresh cpsatModel wrapping a new CP-SAT model.
func (Adapter) NewModel(name string) modeling.Model {
	return &cpsatModel{
		inner: cp.NewModel(name),
		vars:  map[int]cp.IntVar{},
		bools: map[int]cp.Literal{},
	}
}

func (m *cpsatModel) allocID() int {
	id := m.next
	m.next++
	return id
}

func (m *cpsatModel) IntVar(lb, ub int64, name string) modeling.Var {
	id := m.allocID()
	m.vars[id] = m.inner.NewIntVar(lb, ub, name)
	return modeling.NewVar(id, name)
}

func (m *cpsatModel) BoolVar(name string) modeling.Var {
	id := m.allocID()
	lit := m.inner.NewLiteral(name)
	m.bools[id] = lit
	m.vars[id] = lit
	return modeling.NewVar(id, name)
}

func (m *cpsatModel) ComplementVar(v modeling.Var, name string) modeling.Var {
	id := m.allocID()
	lit := m.bools[v.ID()].Not()
	m.bools[id] = lit
	m.vars[id] = lit
	return modeling.NewVar(id, name)
}

func (m *cpsatModel) toLinearExpr(e modeling.LinExpr) cp.LinearExpr {
	expr := cp.NewLinearExpr()
	for _, t := range e.Terms {
		expr = expr.Plus(m.vars[t.Var.ID()].Scaled(int64(t.Coeff)))
	}
	if e.Offset != 0 {
		expr = expr.Plus(m.inner.NewConstant(int64(e.Offset), ""))
	}
	return expr
}

func (m *cpsatModel) toNativeConstraint(c modeling.Constraint) cp.Constraint {
	expr := m.toLinearExpr(c.Expr)
	switch c.Cmp {
	case modeling.Equal:
		return cp.NewLinearConstraint(expr, cp.NewDomain(0, 0))
	case modeling.GreaterOrEqual:
		return cp.NewLinearConstraint(expr, cp.NewDomain(0, cp.MaxInt))
	default: // LessOrEqual
		return cp.NewLinearConstraint(expr, cp.NewDomain(cp.MinInt, 0))
	}
}

func (m *cpsatModel) AddConstraint(c modeling.Constraint) {
	m.inner.AddConstraints(m.toNativeConstraint(c))
}

func (m *cpsatModel) AddImplication(cond modeling.Var, c modeling.Constraint) {
	native := m.toNativeConstraint(c)
	m.inner.AddConstraints(native.OnlyEnforceIf(m.bools[cond.ID()]))
}

// AddEqualToZeroImplication enforces "cond -> expr == 0" via
// OnlyEnforceIf. The converse named in modeling.Model's doc comment
// (expr != 0 forces cond false) needs no separate constraint: it is
// the logical contrapositive of the forward implication, true of it
// for free.
func (m *cpsatModel) AddEqualToZeroImplication(cond modeling.Var, expr modeling.LinExpr) {
	native := m.toNativeConstraint(modeling.LinearConstraint(expr, modeling.Equal, 0))
	m.inner.AddConstraints(native.OnlyEnforceIf(m.bools[cond.ID()]))
}

// AddGreaterThanZeroImplication enforces "cond -> expr >= 1" (expr is
// assumed integral, so expr > 0 and expr >= 1 coincide). As with
// AddEqualToZeroImplication, the converse is the free contrapositive.
func (m *cpsatModel) AddGreaterThanZeroImplication(cond modeling.Var, expr modeling.LinExpr) {
	native := m.toNativeConstraint(modeling.LinearConstraint(expr, modeling.GreaterOrEqual, 1))
	m.inner.AddConstraints(native.OnlyEnforceIf(m.bools[cond.ID()]))
}

func (m *cpsatModel) Minimize(expr modeling.LinExpr) { m.inner.Minimize(m.toLinearExpr(expr)) }
func (m *cpsatModel) Maximize(expr modeling.LinExpr) { m.inner.Maximize(m.toLinearExpr(expr)) }

// SetBigM is a no-op: CP-SAT enforces implications natively.
func (m *cpsatModel) SetBigM(float64) {}

func (Adapter) Solve(ctx context.Context, model modeling.Model, keptVars []modeling.Var, verbose bool) (modeling.Result, error) {
	m, ok := model.(*cpsatModel)
	if !ok {
		return modeling.Result{}, fmt.Errorf("%w: cpsat adapter given a foreign model", staberr.ErrSolverError)
	}
	res := m.inner.Solve()
	return toResult(m, res, keptVars)
}

func (Adapter) SolveAll(ctx context.Context, model modeling.Model, keptVars []modeling.Var, verbose bool) ([]modeling.Result, error) {
	m, ok := model.(*cpsatModel)
	if !ok {
		return nil, fmt.Errorf("%w: cpsat adapter given a foreign model", staberr.ErrSolverError)
	}
	native := m.inner.SolveAll()
	out := make([]modeling.Result, 0, len(native))
	for _, r := range native {
		res, err := toResult(m, r, keptVars)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

func toResult(m *cpsatModel, r cp.Result, keptVars []modeling.Var) (modeling.Result, error) {
	switch {
	case r.Optimal() || r.Feasible():
		values := make(map[int]int64, len(keptVars))
		for _, v := range keptVars {
			values[v.ID()] = r.Value(m.vars[v.ID()])
		}
		status := modeling.StatusFeasible
		if r.Optimal() {
			status = modeling.StatusOptimal
		}
		return modeling.Result{Status: status, Values: values}, nil
	case r.Infeasible():
		return modeling.Result{Status: modeling.StatusInfeasible}, fmt.Errorf("%w: cp-sat model is infeasible", staberr.ErrInfeasibleSolution)
	default:
		return modeling.Result{Status: modeling.StatusError}, fmt.Errorf("%w: cp-sat returned status %v", staberr.ErrSolverError, r.Status())
	}
}
