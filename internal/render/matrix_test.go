package render

import (
	"strings"
	"testing"

	"github.com/piwi3910/dh-calculator/internal/kinematics"
	"github.com/piwi3910/dh-calculator/internal/symbolic"
)

func TestDisplayExprCompactTrig(t *testing.T) {
	e := kinematics.CosDeg(symbolic.S("theta1"))
	if got := DisplayExpr(e); got != "C(θ1)" {
		t.Errorf("got %s, want C(θ1)", got)
	}
	e = kinematics.SinDeg(symbolic.S("alpha2"))
	if got := DisplayExpr(e); got != "S(α2)" {
		t.Errorf("got %s, want S(α2)", got)
	}
}

func TestDisplayExprSummedAngles(t *testing.T) {
	arg := symbolic.AddOf(
		kinematics.DegArg(symbolic.S("theta1")),
		kinematics.DegArg(symbolic.S("theta2")),
	)
	got := DisplayExpr(symbolic.CosOf(arg))
	if got != "C(θ1 + θ2)" {
		t.Errorf("got %s, want C(θ1 + θ2)", got)
	}
}

func TestDisplayExprRadianTrigKeptVerbose(t *testing.T) {
	got := DisplayExpr(symbolic.SinOf(symbolic.S("x")))
	if got != "sin(x)" {
		t.Errorf("got %s, want sin(x)", got)
	}
}

func TestDisplayMatrixAlignment(t *testing.T) {
	m := symbolic.MatrixFromRows([][]symbolic.Expr{
		{symbolic.N(1), symbolic.N(-100)},
		{symbolic.N(22), symbolic.N(3)},
	})
	got := DisplayMatrix(m)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "⎡") || !strings.HasSuffix(lines[0], "⎤") {
		t.Errorf("top row brackets: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "⎣") || !strings.HasSuffix(lines[1], "⎦") {
		t.Errorf("bottom row brackets: %q", lines[1])
	}
	if len([]rune(lines[0])) != len([]rune(lines[1])) {
		t.Errorf("rows not aligned:\n%s", got)
	}
	if !strings.Contains(lines[0], " 1") {
		t.Errorf("column not right-justified:\n%s", got)
	}
}

func TestDisplayMatrixMiddleRows(t *testing.T) {
	m := symbolic.Identity(3)
	lines := strings.Split(DisplayMatrix(m), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[1], "⎢") || !strings.HasSuffix(lines[1], "⎥") {
		t.Errorf("middle row brackets: %q", lines[1])
	}
}

func TestDisplayMatrixSingleRow(t *testing.T) {
	m := symbolic.MatrixFromRows([][]symbolic.Expr{
		{symbolic.N(1), symbolic.N(2)},
	})
	got := DisplayMatrix(m)
	if !strings.HasPrefix(got, "[") || !strings.HasSuffix(got, "]") {
		t.Errorf("single row: %q", got)
	}
}

func TestDisplayJointTransform(t *testing.T) {
	m := kinematics.BuildTransform(
		symbolic.N(0), symbolic.S("a1"), symbolic.N(0), symbolic.S("theta1"))
	got := DisplayMatrix(m)
	if !strings.Contains(got, "C(θ1)") {
		t.Errorf("transform display missing C(θ1):\n%s", got)
	}
	if !strings.Contains(got, "-S(θ1)") {
		t.Errorf("transform display missing -S(θ1):\n%s", got)
	}
	if strings.Contains(got, "pi") {
		t.Errorf("raw pi leaked into display:\n%s", got)
	}
}

func TestDisplaySolutionOrder(t *testing.T) {
	s := symbolic.Solution{
		"theta1": symbolic.N(90),
		"theta2": symbolic.N(-45),
	}
	got := DisplaySolution(s, []string{"theta1", "theta2"})
	if got != "θ1 = 90, θ2 = -45" {
		t.Errorf("got %q", got)
	}
}

func TestDisplayEquations(t *testing.T) {
	eq := symbolic.Eq(kinematics.CosDeg(symbolic.S("theta1")), symbolic.N(0))
	got := DisplayEquations([]symbolic.Equation{eq})
	if len(got) != 1 || got[0] != "C(θ1) = 0" {
		t.Errorf("got %v", got)
	}
}
