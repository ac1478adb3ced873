package symbolic

import (
	"fmt"
	"math"
)

// Equation is lhs = rhs.
type Equation struct {
	LHS, RHS Expr
}

func Eq(lhs, rhs Expr) Equation { return Equation{LHS: lhs, RHS: rhs} }

// Residual returns lhs - rhs simplified.
func (e Equation) Residual() Expr { return DeepSimplify(SubOf(e.LHS, e.RHS)) }

func (e Equation) String() string { return e.LHS.String() + " = " + e.RHS.String() }

// Solution assigns a closed-form expression to each solved variable.
type Solution map[string]Expr

// SystemResult is the outcome of a solve attempt. An empty Solutions
// slice with an empty Diagnostic means the system is inconsistent or
// out of reach of the target; a non-empty Diagnostic means the solver
// gave up and says why.
type SystemResult struct {
	Solutions  []Solution
	Diagnostic string
}

// SolveSystem solves eqs for vars by sequential elimination: pick an
// equation involving a single unsolved variable, solve it in closed
// form, substitute each branch into the rest and recurse. When no
// equation is univariate it squares and adds pairs of residuals to
// eliminate a shared trig angle first.
func SolveSystem(eqs []Equation, vars []string) SystemResult {
	residuals := make([]Expr, 0, len(eqs))
	for _, eq := range eqs {
		residuals = append(residuals, eq.Residual())
	}
	sols, diag := solveRec(residuals, vars, 0)
	return SystemResult{Solutions: sols, Diagnostic: diag}
}

func solveRec(residuals []Expr, vars []string, depth int) ([]Solution, string) {
	if depth > 8 {
		return nil, "solver recursion limit reached"
	}

	// Discard satisfied residuals, bail out on contradictions. Residuals
	// with no free variables are checked numerically so branches coming
	// from float phase angles still validate.
	live := make([]Expr, 0, len(residuals))
	for _, r := range residuals {
		if n, ok := r.(*Num); ok {
			if n.IsZero() {
				continue
			}
			return nil, ""
		}
		if v, ok := r.Eval(); ok {
			// acos near its endpoints amplifies float error, so the
			// acceptance threshold is loose.
			if math.Abs(v) < 1e-6 {
				continue
			}
			return nil, ""
		}
		live = append(live, r)
	}

	if len(vars) == 0 {
		if len(live) == 0 {
			return []Solution{{}}, ""
		}
		// Leftover constraints in non-joint symbols cannot be decided.
		return nil, fmt.Sprintf("unresolved constraint %s = 0", live[0].String())
	}
	if len(live) == 0 {
		return nil, fmt.Sprintf("joint variable %s is unconstrained", vars[0])
	}

	// Univariate elimination.
	var lastDiag string
	for vi, v := range vars {
		for ri, r := range live {
			if !univariateIn(r, v, vars) {
				continue
			}
			branches, ok, diag := solveUnivariate(r, v)
			if !ok {
				lastDiag = diag
				continue
			}
			rest := make([]Expr, 0, len(live)-1)
			for i, other := range live {
				if i != ri {
					rest = append(rest, other)
				}
			}
			remaining := append(append([]string{}, vars[:vi]...), vars[vi+1:]...)

			var out []Solution
			for _, val := range branches {
				sub := make([]Expr, len(rest))
				for i, other := range rest {
					sub[i] = DeepSimplify(other.Sub(v, val))
				}
				sols, subDiag := solveRec(sub, remaining, depth+1)
				if subDiag != "" && lastDiag == "" {
					lastDiag = subDiag
				}
				for _, s := range sols {
					full := Solution{v: val}
					for k, e := range s {
						full[k] = e
					}
					out = append(out, full)
				}
			}
			if len(out) > 0 || len(branches) == 0 {
				return out, ""
			}
			return out, lastDiag
		}
	}

	// Pairwise squared-sum elimination of a shared trig angle.
	for i := 0; i < len(live); i++ {
		for j := i + 1; j < len(live); j++ {
			extra, ok := eliminateAngle(live[i], live[j], vars)
			if !ok {
				continue
			}
			sols, diag := solveRec(append(append([]Expr{}, live...), extra), vars, depth+1)
			if diag == "" {
				return sols, ""
			}
			if lastDiag == "" {
				lastDiag = diag
			}
		}
	}

	if lastDiag == "" {
		lastDiag = fmt.Sprintf("unable to isolate joint variable %s", vars[0])
	}
	return nil, lastDiag
}

// univariateIn reports whether r involves v and no other variable from
// vars.
func univariateIn(r Expr, v string, vars []string) bool {
	free := FreeSymbols(r)
	if _, ok := free[v]; !ok {
		return false
	}
	for _, other := range vars {
		if other == v {
			continue
		}
		if _, ok := free[other]; ok {
			return false
		}
	}
	return true
}

// ─── Univariate solving ────────────────────────────────────

// solveUnivariate solves residual = 0 for v. It returns the solution
// branches, ok=false with a diagnostic when the form is unsupported.
// ok=true with no branches means the equation has no real solution.
func solveUnivariate(res Expr, v string) ([]Expr, bool, string) {
	atoms := collectTrigAtoms(res, v)

	switch len(atoms) {
	case 0:
		return solvePolynomial(res, v)
	case 1:
		return solveSingleTrig(res, v, atoms[0])
	case 2:
		if atoms[0].arg.Equal(atoms[1].arg) {
			return solveSinCosPair(res, v, atoms[0].arg)
		}
	}
	return nil, false, fmt.Sprintf("equation mixes several angles of %s", v)
}

type trigAtom struct {
	name string
	arg  Expr
}

func collectTrigAtoms(e Expr, v string) []trigAtom {
	var out []trigAtom
	seen := map[string]bool{}
	var walk func(Expr)
	walk = func(e Expr) {
		switch x := e.(type) {
		case *Func:
			if (x.name == "sin" || x.name == "cos" || x.name == "tan") && containsSym(x.arg, v) {
				key := x.name + "|" + x.arg.String()
				if !seen[key] {
					seen[key] = true
					out = append(out, trigAtom{name: x.name, arg: x.arg})
				}
				return
			}
			walk(x.arg)
		case *Add:
			for _, t := range x.terms {
				walk(t)
			}
		case *Mul:
			for _, f := range x.factors {
				walk(f)
			}
		case *Pow:
			walk(x.base)
			walk(x.exp)
		}
	}
	walk(e)
	return out
}

func containsSym(e Expr, name string) bool {
	_, ok := FreeSymbols(e)[name]
	return ok
}

func solvePolynomial(res Expr, v string) ([]Expr, bool, string) {
	coeffs, ok := PolyCoeffs(res, v)
	if !ok {
		return nil, false, fmt.Sprintf("equation is not polynomial in %s", v)
	}
	switch len(coeffs) {
	case 0, 1:
		return nil, false, fmt.Sprintf("%s does not appear in equation", v)
	case 2:
		if isZeroNum(coeffs[1]) {
			return nil, false, fmt.Sprintf("%s cancels out of equation", v)
		}
		return []Expr{DeepSimplify(DivOf(MulOf(N(-1), coeffs[0]), coeffs[1]))}, true, ""
	case 3:
		return solveQuadratic(coeffs[0], coeffs[1], coeffs[2])
	}
	return nil, false, fmt.Sprintf("polynomial degree %d in %s is unsupported", len(coeffs)-1, v)
}

func solveQuadratic(c0, c1, c2 Expr) ([]Expr, bool, string) {
	if isZeroNum(c2) {
		return nil, false, "degenerate quadratic"
	}
	disc := DeepSimplify(SubOf(PowOf(c1, N(2)), MulOf(N(4), c2, c0)))
	if n, ok := disc.(*Num); ok && n.Sign() < 0 {
		return nil, true, ""
	}
	root := SqrtOf(disc)
	twoA := MulOf(N(2), c2)
	plus := DeepSimplify(DivOf(AddOf(MulOf(N(-1), c1), root), twoA))
	minus := DeepSimplify(DivOf(SubOf(MulOf(N(-1), c1), root), twoA))
	if plus.Equal(minus) {
		return []Expr{plus}, true, ""
	}
	return []Expr{plus, minus}, true, ""
}

// solveSingleTrig handles A*f(u) + B = 0 where u is linear in v.
func solveSingleTrig(res Expr, v string, atom trigAtom) ([]Expr, bool, string) {
	atomExpr := &Func{name: atom.name, arg: atom.arg}
	a, b, ok := linearInAtom(res, atomExpr)
	if !ok {
		return nil, false, fmt.Sprintf("equation is not linear in %s(...)", atom.name)
	}
	if isZeroNum(a) {
		return nil, false, fmt.Sprintf("%s coefficient vanishes", atom.name)
	}
	if containsSym(a, v) || containsSym(b, v) {
		return nil, false, fmt.Sprintf("%s appears outside a single trig call", v)
	}
	val := DeepSimplify(DivOf(MulOf(N(-1), b), a))

	// Out-of-range value for sin or cos: no real joint angle.
	if f, numeric := val.Eval(); numeric && atom.name != "tan" && (f < -1-1e-12 || f > 1+1e-12) {
		return nil, true, ""
	}

	var angles []Expr
	switch atom.name {
	case "sin":
		principal := AsinOf(val)
		angles = []Expr{principal, SubOf(Pi, principal)}
	case "cos":
		principal := AcosOf(val)
		angles = []Expr{principal, MulOf(N(-1), principal)}
	case "tan":
		angles = []Expr{AtanOf(val)}
	}

	return solveLinearAngles(atom.arg, v, angles)
}

// solveSinCosPair handles A*sin(u) + B*cos(u) + C = 0 with numeric
// coefficients, via the phase-shift identity.
func solveSinCosPair(res Expr, v string, u Expr) ([]Expr, bool, string) {
	sinAtom := &Func{name: "sin", arg: u}
	cosAtom := &Func{name: "cos", arg: u}
	a, rest, ok := linearInAtom(res, sinAtom)
	if !ok {
		return nil, false, "equation is not linear in sin(...)"
	}
	b, c, ok := linearInAtom(rest, cosAtom)
	if !ok {
		return nil, false, "equation is not linear in cos(...)"
	}
	af, okA := a.Eval()
	bf, okB := b.Eval()
	cf, okC := c.Eval()
	if !okA || !okB || !okC {
		return nil, false, "phase-shift form needs numeric coefficients"
	}
	r := math.Hypot(af, bf)
	if r == 0 {
		return nil, false, "trig coefficients vanish"
	}
	ratio := -cf / r
	if ratio < -1-1e-12 || ratio > 1+1e-12 {
		return nil, true, ""
	}
	ratio = math.Max(-1, math.Min(1, ratio))
	phi := math.Atan2(bf, af)
	base := math.Asin(ratio)
	angles := []Expr{NFloat(base - phi), NFloat(math.Pi - base - phi)}
	return solveLinearAngles(u, v, angles)
}

// solveLinearAngles solves u(v) = angle for each candidate angle, with
// u linear in v.
func solveLinearAngles(u Expr, v string, angles []Expr) ([]Expr, bool, string) {
	coeffs, ok := PolyCoeffs(u, v)
	if !ok || len(coeffs) != 2 || isZeroNum(coeffs[1]) {
		return nil, false, fmt.Sprintf("trig argument is not linear in %s", v)
	}
	out := make([]Expr, 0, len(angles))
	for _, angle := range angles {
		sol := DeepSimplify(DivOf(SubOf(angle, coeffs[0]), coeffs[1]))
		duplicate := false
		for _, prev := range out {
			if prev.Equal(sol) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			out = append(out, sol)
		}
	}
	return out, true, ""
}

// ─── Structure helpers ─────────────────────────────────────

func isZeroNum(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.IsZero()
}

// linearInAtom splits res into a*atom + b, failing when atom occurs
// squared or nested.
func linearInAtom(res Expr, atom Expr) (a, b Expr, ok bool) {
	terms := []Expr{res}
	if add, isAdd := res.(*Add); isAdd {
		terms = add.terms
	}
	aTerms := []Expr{}
	bTerms := []Expr{}
	for _, t := range terms {
		coeff, found, clean := extractAtomFactor(t, atom)
		if !clean {
			return nil, nil, false
		}
		if found {
			aTerms = append(aTerms, coeff)
		} else {
			bTerms = append(bTerms, t)
		}
	}
	return AddOf(aTerms...), AddOf(bTerms...), true
}

// extractAtomFactor removes exactly one power-one occurrence of atom
// from a product term. clean=false when atom occurs with a power other
// than one or nested inside another function.
func extractAtomFactor(t Expr, atom Expr) (coeff Expr, found, clean bool) {
	if t.Equal(atom) {
		return N(1), true, true
	}
	m, isMul := t.(*Mul)
	if !isMul {
		return nil, false, !containsExpr(t, atom)
	}
	rest := make([]Expr, 0, len(m.factors))
	count := 0
	for _, f := range m.factors {
		if f.Equal(atom) {
			count++
			continue
		}
		if containsExpr(f, atom) {
			return nil, false, false
		}
		rest = append(rest, f)
	}
	switch count {
	case 0:
		return nil, false, true
	case 1:
		return MulOf(rest...), true, true
	}
	return nil, false, false
}

func containsExpr(e, target Expr) bool {
	if e.Equal(target) {
		return true
	}
	switch x := e.(type) {
	case *Add:
		for _, t := range x.terms {
			if containsExpr(t, target) {
				return true
			}
		}
	case *Mul:
		for _, f := range x.factors {
			if containsExpr(f, target) {
				return true
			}
		}
	case *Pow:
		return containsExpr(x.base, target) || containsExpr(x.exp, target)
	case *Func:
		return containsExpr(x.arg, target)
	}
	return false
}

// maxPolyDegree bounds coefficient extraction. The solver only handles
// linear and quadratic equations, so huge user-typed exponents are
// rejected here instead of sizing the coefficient slice after them.
const maxPolyDegree = 8

// PolyCoeffs extracts polynomial coefficients of e in v, constant term
// first. It fails when v appears inside a function call, with a
// non-integer power, or with degree above maxPolyDegree.
func PolyCoeffs(e Expr, v string) ([]Expr, bool) {
	terms := []Expr{e}
	if add, isAdd := e.(*Add); isAdd {
		terms = add.terms
	}
	coeffs := map[int][]Expr{}
	maxDeg := 0
	for _, t := range terms {
		deg, coeff, ok := termDegree(t, v)
		if !ok || deg > maxPolyDegree {
			return nil, false
		}
		coeffs[deg] = append(coeffs[deg], coeff)
		if deg > maxDeg {
			maxDeg = deg
		}
	}
	out := make([]Expr, maxDeg+1)
	for d := 0; d <= maxDeg; d++ {
		out[d] = AddOf(coeffs[d]...)
	}
	return out, true
}

func termDegree(t Expr, v string) (int, Expr, bool) {
	switch x := t.(type) {
	case *Sym:
		if x.name == v {
			return 1, N(1), true
		}
		return 0, t, true
	case *Pow:
		if base, ok := x.base.(*Sym); ok && base.name == v {
			if exp, ok2 := x.exp.(*Num); ok2 && exp.IsInteger() && exp.Sign() > 0 {
				n := exp.Rat().Num()
				if !n.IsInt64() || n.Int64() > maxPolyDegree {
					return 0, nil, false
				}
				return int(n.Int64()), N(1), true
			}
			return 0, nil, false
		}
		if containsSym(t, v) {
			return 0, nil, false
		}
		return 0, t, true
	case *Mul:
		deg := 0
		coeffFactors := make([]Expr, 0, len(x.factors))
		for _, f := range x.factors {
			d, c, ok := termDegree(f, v)
			if !ok {
				return 0, nil, false
			}
			deg += d
			if !isOneNum(c) {
				coeffFactors = append(coeffFactors, c)
			}
		}
		return deg, MulOf(coeffFactors...), true
	}
	if containsSym(t, v) {
		return 0, nil, false
	}
	return 0, t, true
}

func isOneNum(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.IsOne()
}

// ─── Angle elimination ─────────────────────────────────────

// eliminateAngle looks for a trig angle u that r1 and r2 share as
// A*cos(u) and A*sin(u) with a common coefficient, and returns the
// squared-sum residual rest1^2 + rest2^2 - A^2, which no longer
// involves u. This is the standard planar-arm reduction.
func eliminateAngle(r1, r2 Expr, vars []string) (Expr, bool) {
	for _, v := range vars {
		for _, atom := range collectTrigAtoms(r1, v) {
			u := atom.arg
			cosAtom := &Func{name: "cos", arg: u}
			sinAtom := &Func{name: "sin", arg: u}

			a1, rest1, ok1 := linearInAtom(r1, cosAtom)
			a2, rest2, ok2 := linearInAtom(r2, sinAtom)
			if !ok1 || !ok2 || isZeroNum(a1) || !a1.Equal(a2) {
				// Try the transposed orientation.
				a1, rest1, ok1 = linearInAtom(r1, sinAtom)
				a2, rest2, ok2 = linearInAtom(r2, cosAtom)
				if !ok1 || !ok2 || isZeroNum(a1) || !a1.Equal(a2) {
					continue
				}
			}
			if containsExpr(rest1, sinAtom) || containsExpr(rest1, cosAtom) ||
				containsExpr(rest2, sinAtom) || containsExpr(rest2, cosAtom) {
				continue
			}
			cand := DeepSimplify(SubOf(AddOf(PowOf(rest1, N(2)), PowOf(rest2, N(2))), PowOf(a1, N(2))))
			if countVars(cand, vars) < countVars(AddOf(r1, r2), vars) {
				return cand, true
			}
		}
	}
	return nil, false
}

func countVars(e Expr, vars []string) int {
	free := FreeSymbols(e)
	n := 0
	for _, v := range vars {
		if _, ok := free[v]; ok {
			n++
		}
	}
	return n
}
