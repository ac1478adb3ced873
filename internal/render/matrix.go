// Package render formats symbolic matrices and expressions for
// display: compact trig notation, greek joint names and aligned
// bracket grids. The engine packages stay presentation-free; every
// surface (GUI, CLI, PDF) goes through these formatters.
package render

import (
	"fmt"
	"strings"

	"github.com/piwi3910/dh-calculator/internal/symbolic"
)

var greekReplacer = strings.NewReplacer("theta", "θ", "alpha", "α")

// DisplayExpr renders an expression with the calculator's display
// conventions: cos(pi*x/180) prints as C(x), sin as S(x), and the
// theta/alpha parameter names print as θ/α.
func DisplayExpr(e symbolic.Expr) string {
	return greekReplacer.Replace(compactTrig(e).String())
}

// compactTrig rewrites degree-argument trig calls into the display
// functions C and S. The result is for printing only.
func compactTrig(e symbolic.Expr) symbolic.Expr {
	switch v := e.(type) {
	case *symbolic.Add:
		terms := v.Terms()
		out := make([]symbolic.Expr, len(terms))
		for i, t := range terms {
			out[i] = compactTrig(t)
		}
		return symbolic.AddOf(out...)
	case *symbolic.Mul:
		factors := v.Factors()
		out := make([]symbolic.Expr, len(factors))
		for i, f := range factors {
			out[i] = compactTrig(f)
		}
		return symbolic.MulOf(out...)
	case *symbolic.Pow:
		return symbolic.PowOf(compactTrig(v.Base()), compactTrig(v.Exponent()))
	case *symbolic.Func:
		arg := compactTrig(v.Arg())
		if v.FuncName() == "sin" || v.FuncName() == "cos" {
			if deg, ok := degreeArgument(arg); ok {
				name := "C"
				if v.FuncName() == "sin" {
					name = "S"
				}
				return symbolic.FuncOf(name, deg)
			}
		}
		return symbolic.FuncOf(v.FuncName(), arg)
	}
	return e
}

// degreeArgument recovers x from pi*x/180 shaped arguments. The check
// is algebraic: multiply by 180/pi and see whether pi drops out.
func degreeArgument(arg symbolic.Expr) (symbolic.Expr, bool) {
	deg := symbolic.DeepSimplify(symbolic.MulOf(
		arg, symbolic.N(180), symbolic.PowOf(symbolic.Pi, symbolic.N(-1))))
	if symbolic.ContainsPi(deg) {
		return nil, false
	}
	return deg, true
}

// DisplayMatrix renders a matrix as an aligned grid with bracket
// borders, entries right-justified per column.
func DisplayMatrix(m *symbolic.Matrix) string {
	rows, cols := m.Rows(), m.Cols()
	cells := make([][]string, rows)
	widths := make([]int, cols)
	for i := 0; i < rows; i++ {
		cells[i] = make([]string, cols)
		for j := 0; j < cols; j++ {
			s := DisplayExpr(m.Get(i, j))
			cells[i][j] = s
			if n := len([]rune(s)); n > widths[j] {
				widths[j] = n
			}
		}
	}

	var sb strings.Builder
	for i := 0; i < rows; i++ {
		left, right := "⎢", "⎥"
		switch {
		case rows == 1:
			left, right = "[", "]"
		case i == 0:
			left, right = "⎡", "⎤"
		case i == rows-1:
			left, right = "⎣", "⎦"
		}
		sb.WriteString(left)
		for j := 0; j < cols; j++ {
			if j > 0 {
				sb.WriteString("  ")
			}
			cell := cells[i][j]
			if pad := widths[j] - len([]rune(cell)); pad > 0 {
				sb.WriteString(strings.Repeat(" ", pad))
			}
			sb.WriteString(cell)
		}
		sb.WriteString(right)
		if i < rows-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// DisplaySolution formats one joint-variable assignment set.
func DisplaySolution(s symbolic.Solution, order []string) string {
	parts := make([]string, 0, len(s))
	for _, name := range order {
		if v, ok := s[name]; ok {
			parts = append(parts, fmt.Sprintf("%s = %s", greekReplacer.Replace(name), DisplayExpr(v)))
		}
	}
	return strings.Join(parts, ", ")
}

// DisplayEquations formats the position equations of an IK setup.
func DisplayEquations(eqs []symbolic.Equation) []string {
	out := make([]string, len(eqs))
	for i, eq := range eqs {
		out[i] = fmt.Sprintf("%s = %s", DisplayExpr(eq.LHS), DisplayExpr(eq.RHS))
	}
	return out
}
