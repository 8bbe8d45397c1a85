package modeling_test

import (
	"testing"

	"github.com/TimothyStiles/stabletbn/modeling"
	"github.com/stretchr/testify/assert"
)

func TestLinExprArithmetic(t *testing.T) {
	x := modeling.NewVar(1, "x")
	y := modeling.NewVar(2, "y")

	// 2x + y - 3
	expr := modeling.Scaled(2, x).Plus(modeling.Single(y)).Minus(modeling.Constant(3))
	assert.Equal(t, -3.0, expr.Offset)
	assert.Len(t, expr.Terms, 2)
	assert.Equal(t, 2.0, expr.Terms[0].Coeff)
	assert.Equal(t, 1.0, expr.Terms[1].Coeff)
}

func TestScaleMultipliesCoefficientsAndOffset(t *testing.T) {
	x := modeling.NewVar(1, "x")
	expr := modeling.Single(x).Plus(modeling.Constant(4)).Scale(-1)
	assert.Equal(t, -1.0, expr.Terms[0].Coeff)
	assert.Equal(t, -4.0, expr.Offset)
}

func TestSumFoldsExpressions(t *testing.T) {
	x := modeling.NewVar(1, "x")
	y := modeling.NewVar(2, "y")
	sum := modeling.Sum(modeling.Single(x), modeling.Single(y), modeling.Constant(1))
	assert.Equal(t, 1.0, sum.Offset)
	assert.Len(t, sum.Terms, 2)
}

func TestLinearConstraintFoldsBoundIntoOffset(t *testing.T) {
	x := modeling.NewVar(1, "x")
	c := modeling.LinearConstraint(modeling.Single(x), modeling.LessOrEqual, 5)
	assert.Equal(t, -5.0, c.Expr.Offset)
	assert.Equal(t, modeling.LessOrEqual, c.Cmp)
}

func TestVarIDAndName(t *testing.T) {
	v := modeling.NewVar(7, "count")
	assert.Equal(t, 7, v.ID())
	assert.Equal(t, "count", v.Name())
}
