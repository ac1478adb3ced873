package symbolic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveLinear(t *testing.T) {
	x := S("x")
	res := SolveSystem([]Equation{Eq(AddOf(MulOf(N(2), x), N(-6)), N(0))}, []string{"x"})
	require.Empty(t, res.Diagnostic)
	require.Len(t, res.Solutions, 1)
	assert.Equal(t, "3", res.Solutions[0]["x"].String())
}

func TestSolveQuadraticTwoRoots(t *testing.T) {
	x := S("x")
	// x^2 - 5x + 6 = 0
	res := SolveSystem([]Equation{
		Eq(AddOf(PowOf(x, N(2)), MulOf(N(-5), x), N(6)), N(0)),
	}, []string{"x"})
	require.Empty(t, res.Diagnostic)
	require.Len(t, res.Solutions, 2)
	roots := []string{res.Solutions[0]["x"].String(), res.Solutions[1]["x"].String()}
	assert.ElementsMatch(t, []string{"3", "2"}, roots)
}

func TestSolveQuadraticNoRealRoots(t *testing.T) {
	x := S("x")
	res := SolveSystem([]Equation{
		Eq(AddOf(PowOf(x, N(2)), N(1)), N(0)),
	}, []string{"x"})
	assert.Empty(t, res.Solutions)
	assert.Empty(t, res.Diagnostic)
}

func TestSolveSineInDegrees(t *testing.T) {
	// sin(pi*theta/180) = 1 has theta = 90 as its principal branch.
	u := MulOf(Pi, S("theta"), PowOf(N(180), N(-1)))
	res := SolveSystem([]Equation{Eq(SinOf(u), N(1))}, []string{"theta"})
	require.Empty(t, res.Diagnostic)
	require.NotEmpty(t, res.Solutions)
	found := false
	for _, s := range res.Solutions {
		if s["theta"].String() == "90" {
			found = true
		}
	}
	assert.True(t, found, "solutions: %v", res.Solutions)
}

func TestSolveCosineBranches(t *testing.T) {
	u := MulOf(Pi, S("theta"), PowOf(N(180), N(-1)))
	res := SolveSystem([]Equation{Eq(CosOf(u), F(1, 2))}, []string{"theta"})
	require.Empty(t, res.Diagnostic)
	require.Len(t, res.Solutions, 2)
	got := []string{res.Solutions[0]["theta"].String(), res.Solutions[1]["theta"].String()}
	assert.ElementsMatch(t, []string{"60", "-60"}, got)
}

func TestSolveSineOutOfRange(t *testing.T) {
	u := MulOf(Pi, S("theta"), PowOf(N(180), N(-1)))
	res := SolveSystem([]Equation{Eq(SinOf(u), N(2))}, []string{"theta"})
	assert.Empty(t, res.Solutions)
	assert.Empty(t, res.Diagnostic)
}

func TestSolveInconsistentConstant(t *testing.T) {
	res := SolveSystem([]Equation{Eq(N(1), N(2))}, []string{"theta"})
	assert.Empty(t, res.Solutions)
}

func TestSolveIdentityEquationIsDropped(t *testing.T) {
	x := S("x")
	res := SolveSystem([]Equation{
		Eq(N(3), N(3)),
		Eq(AddOf(x, N(-1)), N(0)),
	}, []string{"x"})
	require.Len(t, res.Solutions, 1)
	assert.Equal(t, "1", res.Solutions[0]["x"].String())
}

func TestSolveSequentialElimination(t *testing.T) {
	x, y := S("x"), S("y")
	res := SolveSystem([]Equation{
		Eq(AddOf(x, N(-2)), N(0)),
		Eq(AddOf(y, MulOf(N(-1), x)), N(1)),
	}, []string{"x", "y"})
	require.Empty(t, res.Diagnostic)
	require.Len(t, res.Solutions, 1)
	assert.Equal(t, "2", res.Solutions[0]["x"].String())
	assert.Equal(t, "3", res.Solutions[0]["y"].String())
}

func TestSolveDiagnosticIsReported(t *testing.T) {
	x := S("x")
	// sin(x) + x has no closed-form isolation.
	res := SolveSystem([]Equation{Eq(AddOf(SinOf(x), x), N(1))}, []string{"x"})
	assert.Empty(t, res.Solutions)
	assert.NotEmpty(t, res.Diagnostic)
}

func TestSolvePhaseShiftPair(t *testing.T) {
	// 3*sin(u) + 4*cos(u) = 5 peaks exactly at the phase angle.
	u := S("u")
	res := SolveSystem([]Equation{
		Eq(AddOf(MulOf(N(3), SinOf(u)), MulOf(N(4), CosOf(u))), N(5)),
	}, []string{"u"})
	require.Empty(t, res.Diagnostic)
	require.NotEmpty(t, res.Solutions)
	v, ok := res.Solutions[0]["u"].Eval()
	require.True(t, ok)
	assert.InDelta(t, 5.0, 3*math.Sin(v)+4*math.Cos(v), 1e-9)
}

func TestSolvePlanarTwoJointPosition(t *testing.T) {
	// Planar arm, both links length 1, reaching (1, 1).
	u1 := S("t1")
	u2 := S("t2")
	sum := AddOf(u1, u2)
	eqs := []Equation{
		Eq(AddOf(CosOf(u1), CosOf(sum)), N(1)),
		Eq(AddOf(SinOf(u1), SinOf(sum)), N(1)),
	}
	res := SolveSystem(eqs, []string{"t1", "t2"})
	require.Empty(t, res.Diagnostic, "diagnostic: %s", res.Diagnostic)
	require.NotEmpty(t, res.Solutions)
	for _, s := range res.Solutions {
		v1, ok1 := s["t1"].Eval()
		v2, ok2 := s["t2"].Eval()
		require.True(t, ok1 && ok2)
		px := math.Cos(v1) + math.Cos(v1+v2)
		py := math.Sin(v1) + math.Sin(v1+v2)
		assert.InDelta(t, 1.0, px, 1e-6)
		assert.InDelta(t, 1.0, py, 1e-6)
	}
}

func TestPolyCoeffs(t *testing.T) {
	x := S("x")
	e := AddOf(MulOf(N(3), PowOf(x, N(2))), MulOf(S("a"), x), N(7)).Simplify()
	coeffs, ok := PolyCoeffs(e, "x")
	require.True(t, ok)
	require.Len(t, coeffs, 3)
	assert.Equal(t, "7", coeffs[0].String())
	assert.Equal(t, "a", coeffs[1].String())
	assert.Equal(t, "3", coeffs[2].String())
}

func TestPolyCoeffsRejectsTrig(t *testing.T) {
	_, ok := PolyCoeffs(SinOf(S("x")), "x")
	assert.False(t, ok)
}

func TestPolyCoeffsRejectsHugeDegree(t *testing.T) {
	// The coefficient slice is sized by the degree, so an absurd
	// exponent must be rejected before any allocation happens.
	e := SubOf(PowOf(S("x"), N(999999999)), N(1))
	_, ok := PolyCoeffs(e, "x")
	assert.False(t, ok)

	res := SolveSystem([]Equation{Eq(PowOf(S("x"), N(999999999)), N(1))}, []string{"x"})
	assert.Empty(t, res.Solutions)
	assert.NotEmpty(t, res.Diagnostic)
}
