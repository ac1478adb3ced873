package symbolic

import "math/big"

// Exact trigonometric values are resolved at rational multiples of pi
// whose denominator divides 12, which covers every DH angle that is a
// multiple of 15 degrees. Other arguments stay symbolic so no precision
// is lost.

var (
	sqrtTwoHalf   = MulOf(F(1, 2), SqrtOf(N(2)))
	sqrtThreeHalf = MulOf(F(1, 2), SqrtOf(N(3)))
)

// piMultiple extracts q such that arg == q*pi, if arg has that shape.
func piMultiple(arg Expr) (*Num, bool) {
	switch v := arg.(type) {
	case *Num:
		if v.IsZero() {
			return N(0), true
		}
	case *PiConst:
		return N(1), true
	case *Mul:
		coeff, rest := splitCoeff(v)
		if _, ok := rest.(*PiConst); ok {
			return coeff, true
		}
	}
	return nil, false
}

// twelfths reduces q to the number of pi/12 steps in [0, 24), or fails
// when q*12 is not an integer.
func twelfths(q *Num) (int, bool) {
	scaled := new(big.Rat).Mul(q.val, big.NewRat(12, 1))
	if !scaled.IsInt() {
		return 0, false
	}
	m := new(big.Int).Mod(scaled.Num(), big.NewInt(24))
	return int(m.Int64()), true
}

// sinTwelfths returns sin(m*pi/12) for the multiples of 15 degrees that
// have an exact closed form.
func sinTwelfths(m int) (Expr, bool) {
	var e Expr
	switch m {
	case 0, 12:
		e = N(0)
	case 2:
		e = F(1, 2)
	case 3:
		e = sqrtTwoHalf
	case 4:
		e = sqrtThreeHalf
	case 6:
		e = N(1)
	case 8:
		e = sqrtThreeHalf
	case 9:
		e = sqrtTwoHalf
	case 10:
		e = F(1, 2)
	case 14:
		e = F(-1, 2)
	case 15:
		e = MulOf(N(-1), sqrtTwoHalf)
	case 16:
		e = MulOf(N(-1), sqrtThreeHalf)
	case 18:
		e = N(-1)
	case 20:
		e = MulOf(N(-1), sqrtThreeHalf)
	case 21:
		e = MulOf(N(-1), sqrtTwoHalf)
	case 22:
		e = F(-1, 2)
	default:
		return nil, false
	}
	return e, true
}

func exactTrig(name string, arg Expr) (Expr, bool) {
	q, ok := piMultiple(arg)
	if !ok {
		return nil, false
	}
	m, ok := twelfths(q)
	if !ok {
		return nil, false
	}
	switch name {
	case "sin":
		return sinTwelfths(m)
	case "cos":
		return sinTwelfths((m + 6) % 24)
	case "tan":
		s, ok1 := sinTwelfths(m)
		c, ok2 := sinTwelfths((m + 6) % 24)
		if !ok1 || !ok2 {
			return nil, false
		}
		if n, isNum := c.(*Num); isNum && n.IsZero() {
			return nil, false
		}
		return DivOf(s, c), true
	}
	return nil, false
}

// exactInverseTrig resolves asin/acos at the table values 0, ±1/2,
// ±sqrt(2)/2, ±sqrt(3)/2 and ±1, returning principal values.
func exactInverseTrig(name string, arg Expr) (Expr, bool) {
	// asin steps of pi/12 for the recognized arguments.
	steps := map[string]int{
		"0": 0, "1/2": 2, "1": 6,
		sqrtTwoHalf.String():   3,
		sqrtThreeHalf.String(): 4,
	}
	neg := false
	key := arg
	if flipped, ok := negatedArg(arg); ok {
		neg = true
		key = flipped
	}
	m, ok := steps[key.String()]
	if !ok {
		return nil, false
	}
	if neg {
		m = -m
	}
	switch name {
	case "asin":
		if m == 0 {
			return N(0), true
		}
		return MulOf(F(int64(m), 12), Pi), true
	case "acos":
		// acos(x) = pi/2 - asin(x).
		k := 6 - m
		if k == 0 {
			return N(0), true
		}
		return MulOf(F(int64(k), 12), Pi), true
	}
	return nil, false
}

// ─── Structural trig simplification ────────────────────────

// TrigSimplify rewrites sums using the Pythagorean identity and the
// angle-sum identities, bottom-up. Products of cosines and sines of two
// angles collapse into single functions of the combined angle, which is
// what turns a chain of joint transforms into readable expressions.
func TrigSimplify(e Expr) Expr {
	switch v := e.(type) {
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			terms[i] = TrigSimplify(t)
		}
		out := AddOf(terms...)
		for i := 0; i < 8; i++ {
			next, changed := collapseOnce(out)
			if !changed {
				break
			}
			out = next
		}
		return out
	case *Mul:
		factors := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			factors[i] = TrigSimplify(f)
		}
		return MulOf(factors...)
	case *Pow:
		return PowOf(TrigSimplify(v.base), TrigSimplify(v.exp))
	case *Func:
		return FuncOf(v.name, TrigSimplify(v.arg))
	}
	return e
}

// trigTerm is one additive term decomposed into a numeric coefficient
// and its sin/cos factors of power one or two.
type trigTerm struct {
	coeff *Num
	// squared identity: coeff * f(arg)^2
	sqName string
	sqArg  Expr
	// product identity: coeff * f1(a1) * f2(a2)
	names [2]string
	args  [2]Expr
	kind  int // 0 none, 1 squared, 2 product
}

func classifyTrigTerm(t Expr) trigTerm {
	coeff, rest := splitCoeff(t)
	out := trigTerm{coeff: coeff}

	if p, ok := rest.(*Pow); ok {
		if f, ok2 := p.base.(*Func); ok2 && (f.name == "sin" || f.name == "cos") {
			if n, ok3 := p.exp.(*Num); ok3 && n.Equal(N(2)) {
				out.kind = 1
				out.sqName = f.name
				out.sqArg = f.arg
				return out
			}
		}
	}
	if m, ok := rest.(*Mul); ok && len(m.factors) == 2 {
		f1, ok1 := m.factors[0].(*Func)
		f2, ok2 := m.factors[1].(*Func)
		if ok1 && ok2 &&
			(f1.name == "sin" || f1.name == "cos") &&
			(f2.name == "sin" || f2.name == "cos") {
			out.kind = 2
			out.names = [2]string{f1.name, f2.name}
			out.args = [2]Expr{f1.arg, f2.arg}
			return out
		}
	}
	return out
}

// collapseOnce applies a single identity to the sum, returning the
// rewritten sum and whether anything changed.
func collapseOnce(e Expr) (Expr, bool) {
	a, ok := e.(*Add)
	if !ok {
		return e, false
	}
	terms := a.terms
	infos := make([]trigTerm, len(terms))
	for i, t := range terms {
		infos[i] = classifyTrigTerm(t)
	}

	rebuild := func(replacement Expr, drop ...int) Expr {
		skip := map[int]bool{}
		for _, d := range drop {
			skip[d] = true
		}
		out := []Expr{replacement}
		for i, t := range terms {
			if !skip[i] {
				out = append(out, t)
			}
		}
		return AddOf(out...)
	}

	// c*sin(u)^2 + c*cos(u)^2 -> c
	for i := range infos {
		if infos[i].kind != 1 || infos[i].sqName != "sin" {
			continue
		}
		for j := range infos {
			if infos[j].kind != 1 || infos[j].sqName != "cos" {
				continue
			}
			if !infos[i].sqArg.Equal(infos[j].sqArg) || !infos[i].coeff.Equal(infos[j].coeff) {
				continue
			}
			return rebuild(infos[i].coeff, i, j), true
		}
	}

	// c*cos(x)*cos(y) -+ c*sin(x)*sin(y) -> c*cos(x+-y)
	// c*sin(x)*cos(y) +- c*cos(x)*sin(y) -> c*sin(x+-y)
	for i := range infos {
		ti := infos[i]
		if ti.kind != 2 {
			continue
		}
		for j := range infos {
			if j == i {
				continue
			}
			tj := infos[j]
			if tj.kind != 2 {
				continue
			}
			if repl, ok := combineProducts(ti, tj); ok {
				return rebuild(repl, i, j), true
			}
		}
	}
	return e, false
}

func combineProducts(a, b trigTerm) (Expr, bool) {
	aSin, aCos, aOK := sortedPair(a)
	bSin, bCos, bOK := sortedPair(b)

	sameCoeff := a.coeff.Equal(b.coeff)
	oppCoeff := a.coeff.Equal(numNeg(b.coeff))

	// cos*cos with sin*sin.
	if a.names[0] == "cos" && a.names[1] == "cos" && b.names[0] == "sin" && b.names[1] == "sin" {
		x, y := a.args[0], a.args[1]
		if !samePairArgs(x, y, b.args[0], b.args[1]) {
			return nil, false
		}
		if oppCoeff && a.coeff.Sign() != 0 {
			// cos x cos y - sin x sin y = cos(x+y), carried coefficient from the cos term.
			return MulOf(a.coeff, CosOf(AddOf(x, y))), true
		}
		if sameCoeff {
			return MulOf(a.coeff, CosOf(SubOf(x, y))), true
		}
		return nil, false
	}

	// sin*cos with cos*sin: sin(x)cos(y) +- cos(x)sin(y).
	if aOK && bOK {
		x, y := aSin, aCos
		if !bSin.Equal(y) || !bCos.Equal(x) {
			return nil, false
		}
		if sameCoeff {
			return MulOf(a.coeff, SinOf(AddOf(x, y))), true
		}
		if oppCoeff {
			return MulOf(a.coeff, SinOf(SubOf(x, y))), true
		}
	}
	return nil, false
}

// sortedPair returns (sinArg, cosArg) when the term is sin(x)*cos(y).
func sortedPair(t trigTerm) (Expr, Expr, bool) {
	if t.names[0] == "sin" && t.names[1] == "cos" {
		return t.args[0], t.args[1], true
	}
	if t.names[0] == "cos" && t.names[1] == "sin" {
		return t.args[1], t.args[0], true
	}
	return nil, nil, false
}

func samePairArgs(x1, y1, x2, y2 Expr) bool {
	if x1.Equal(x2) && y1.Equal(y2) {
		return true
	}
	return x1.Equal(y2) && y1.Equal(x2)
}

// DeepSimplify alternates expansion with trig rewriting until the
// expression stops changing. The pass count is bounded, so it always
// terminates even on expressions the identities cannot reduce.
func DeepSimplify(e Expr) Expr {
	cur := e.Simplify()
	for i := 0; i < 10; i++ {
		next := TrigSimplify(Expand(cur))
		if next.String() == cur.String() {
			break
		}
		cur = next
	}
	return cur
}
