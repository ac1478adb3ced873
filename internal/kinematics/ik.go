package kinematics

import (
	"math"
	"strconv"
	"strings"

	"github.com/piwi3910/dh-calculator/internal/symbolic"
)

// IKResult carries everything the inverse-kinematics solve produced:
// the symbolic chain transform, the position equations posed against
// the target, the numeric target pose, and the solution branches. A
// solve that finds nothing is not an error; Solutions is empty and
// Diagnostic explains the giving-up reason when there is one.
type IKResult struct {
	Transform *symbolic.Matrix
	Position  [3]symbolic.Expr
	Equations []symbolic.Equation
	Target    *symbolic.Matrix
	Unknowns  []string

	Solutions  []symbolic.Solution
	Diagnostic string

	// RotationDefaulted is set when the rotation text was present but
	// malformed and the identity orientation was used instead.
	RotationDefaulted bool
}

// ParseTarget reads the three target coordinates as strict floats.
// strconv accepts "Inf" and "NaN", which have no exact rational form,
// so non-finite values are rejected too.
func ParseTarget(px, py, pz string) ([3]float64, error) {
	var out [3]float64
	for i, s := range []string{px, py, pz} {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			return out, &symbolic.ParseError{Input: s, Position: -1, Reason: "target coordinate is not a finite number"}
		}
		out[i] = v
	}
	return out, nil
}

// ParseRotation reads nine comma-separated floats in row-major order.
// Empty input means no orientation constraint; malformed input falls
// back to the identity and reports defaulted=true.
func ParseRotation(text string) (rot [3][3]float64, defaulted bool) {
	for i := 0; i < 3; i++ {
		rot[i][i] = 1
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return rot, false
	}
	parts := strings.Split(trimmed, ",")
	if len(parts) != 9 {
		return rot, true
	}
	var vals [9]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			return rot, true
		}
		vals[i] = v
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rot[i][j] = vals[i*3+j]
		}
	}
	return rot, false
}

// TargetTransform assembles the numeric 4x4 target pose from a
// rotation and a position.
func TargetTransform(rot [3][3]float64, pos [3]float64) *symbolic.Matrix {
	m := symbolic.Identity(4)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m.Set(i, j, symbolic.NFloat(rot[i][j]))
		}
		m.Set(i, 3, symbolic.NFloat(pos[i]))
	}
	return m
}

// SolveIK builds the chain from the DH rows, poses the three position
// equations against the target and solves them symbolically for the
// joint variables. Joint variables are the symbols that appear in
// theta fields and nowhere in the alpha/a/d fields.
func SolveIK(rows []JointParams, target [3]float64, rot [3][3]float64) (*IKResult, error) {
	env := symbolic.NewEnv()
	transforms := make([]*symbolic.Matrix, 0, len(rows))
	var thetaSyms []string
	linkSyms := map[string]struct{}{}

	for _, row := range rows {
		alpha, err := symbolic.Parse(row.Alpha, env)
		if err != nil {
			return nil, err
		}
		a, err := symbolic.Parse(row.A, env)
		if err != nil {
			return nil, err
		}
		d, err := symbolic.Parse(row.D, env)
		if err != nil {
			return nil, err
		}
		theta, err := symbolic.Parse(row.Theta, env)
		if err != nil {
			return nil, err
		}
		for _, e := range []symbolic.Expr{alpha, a, d} {
			for name := range symbolic.FreeSymbols(e) {
				linkSyms[name] = struct{}{}
			}
		}
		for name := range symbolic.FreeSymbols(theta) {
			if !containsName(thetaSyms, name) {
				thetaSyms = append(thetaSyms, name)
			}
		}
		transforms = append(transforms, BuildTransform(alpha, a, d, theta))
	}

	fk, err := ChainForward(transforms)
	if err != nil {
		return nil, err
	}

	unknowns := make([]string, 0, len(thetaSyms))
	for _, name := range thetaSyms {
		if _, isLink := linkSyms[name]; !isLink {
			unknowns = append(unknowns, name)
		}
	}

	result := &IKResult{
		Transform: fk,
		Target:    TargetTransform(rot, target),
		Unknowns:  unknowns,
	}
	for i := 0; i < 3; i++ {
		result.Position[i] = fk.Get(i, 3)
		result.Equations = append(result.Equations,
			symbolic.Eq(fk.Get(i, 3), symbolic.NFloat(target[i])))
	}

	solved := symbolic.SolveSystem(result.Equations, unknowns)
	result.Solutions = solved.Solutions
	result.Diagnostic = solved.Diagnostic
	return result, nil
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
