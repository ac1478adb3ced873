// Package kinematics builds and evaluates symbolic Denavit-Hartenberg
// transforms: joint matrices from the modified-DH convention, named
// registries of matrices, forward-kinematics chains, a matrix
// expression evaluator and an inverse-kinematics solver.
package kinematics

import (
	"github.com/piwi3910/dh-calculator/internal/symbolic"
)

// JointParams are the raw parameter strings of one DH row, exactly as
// the user typed them.
type JointParams struct {
	Alpha string
	A     string
	D     string
	Theta string
}

// DegArg converts a degree quantity to radians: pi*x/180.
func DegArg(x symbolic.Expr) symbolic.Expr {
	return symbolic.MulOf(symbolic.Pi, x, symbolic.PowOf(symbolic.N(180), symbolic.N(-1)))
}

// SinDeg is sin of a degree quantity.
func SinDeg(x symbolic.Expr) symbolic.Expr { return symbolic.SinOf(DegArg(x)) }

// CosDeg is cos of a degree quantity.
func CosDeg(x symbolic.Expr) symbolic.Expr { return symbolic.CosOf(DegArg(x)) }

// BuildTransform assembles the modified-DH homogeneous transform for
// one joint. Angles are in degrees; every entry is simplified so
// numeric angles like 0 or 90 produce exact 0/1/±1/2 entries.
func BuildTransform(alpha, a, d, theta symbolic.Expr) *symbolic.Matrix {
	ct, st := CosDeg(theta), SinDeg(theta)
	ca, sa := CosDeg(alpha), SinDeg(alpha)
	neg := func(e symbolic.Expr) symbolic.Expr { return symbolic.MulOf(symbolic.N(-1), e) }

	m := symbolic.MatrixFromRows([][]symbolic.Expr{
		{ct, neg(st), symbolic.N(0), a},
		{symbolic.MulOf(st, ca), symbolic.MulOf(ct, ca), neg(sa), neg(symbolic.MulOf(sa, d))},
		{symbolic.MulOf(st, sa), symbolic.MulOf(ct, sa), ca, symbolic.MulOf(ca, d)},
		{symbolic.N(0), symbolic.N(0), symbolic.N(0), symbolic.N(1)},
	})
	return m.SimplifyAll()
}

// BuildFromParams parses the four parameter fields against a shared
// environment and assembles the joint transform. Any field that fails
// to parse aborts the build; the error keeps the field's own text.
func BuildFromParams(p JointParams, env *symbolic.Env) (*symbolic.Matrix, error) {
	alpha, err := symbolic.Parse(p.Alpha, env)
	if err != nil {
		return nil, err
	}
	a, err := symbolic.Parse(p.A, env)
	if err != nil {
		return nil, err
	}
	d, err := symbolic.Parse(p.D, env)
	if err != nil {
		return nil, err
	}
	theta, err := symbolic.Parse(p.Theta, env)
	if err != nil {
		return nil, err
	}
	return BuildTransform(alpha, a, d, theta), nil
}
