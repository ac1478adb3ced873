// Package symbolic implements the exact expression kernel used by the
// kinematics engine: rational numbers, named symbols, the constant pi,
// sums, products, powers and trigonometric function applications.
//
// Expressions are immutable trees. All constructors return simplified
// forms; arithmetic is exact (math/big.Rat) and simplification is
// deterministic, so printed output is stable across runs.
package symbolic

import (
	"math"
	"math/big"
	"sort"
	"strings"
)

// Expr is an exact algebraic value.
type Expr interface {
	// Simplify returns an algebraically equal expression in canonical form.
	Simplify() Expr
	// String renders the expression in plain infix notation.
	String() string
	// Sub replaces every occurrence of the named symbol with value.
	Sub(name string, value Expr) Expr
	// Eval computes a float64 value if the expression is fully numeric.
	Eval() (float64, bool)
	// Equal reports structural equality.
	Equal(other Expr) bool
}

// ─── Num ───────────────────────────────────────────────────

// Num is an exact rational number.
type Num struct{ val *big.Rat }

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }

func F(p, q int64) *Num {
	if q == 0 {
		panic("symbolic: zero denominator")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

// NFloat converts a finite float to its exact rational representation.
// Inf and NaN have no rational form; callers validate before reaching
// the algebra.
func NFloat(f float64) *Num {
	r := new(big.Rat).SetFloat64(f)
	if r == nil {
		panic("symbolic: non-finite float")
	}
	return &Num{val: r}
}

func numFromRat(r *big.Rat) *Num { return &Num{val: new(big.Rat).Set(r)} }

func (n *Num) Simplify() Expr          { return n }
func (n *Num) Sub(string, Expr) Expr   { return n }
func (n *Num) Eval() (float64, bool)   { f, _ := n.val.Float64(); return f, true }
func (n *Num) IsZero() bool            { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool             { return n.val.Cmp(ratOne) == 0 }
func (n *Num) IsNegOne() bool          { return n.val.Cmp(ratNegOne) == 0 }
func (n *Num) IsInteger() bool         { return n.val.IsInt() }
func (n *Num) Sign() int               { return n.val.Sign() }
func (n *Num) Rat() *big.Rat           { return new(big.Rat).Set(n.val) }
func (n *Num) Float64() float64        { f, _ := n.val.Float64(); return f }

var (
	ratOne    = big.NewRat(1, 1)
	ratNegOne = big.NewRat(-1, 1)
)

func (n *Num) Equal(other Expr) bool {
	o, ok := other.(*Num)
	return ok && n.val.Cmp(o.val) == 0
}

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func numNeg(a *Num) *Num    { return &Num{val: new(big.Rat).Neg(a.val)} }

func numRecip(a *Num) *Num {
	if a.IsZero() {
		panic("symbolic: division by zero")
	}
	return &Num{val: new(big.Rat).Inv(a.val)}
}

// ─── Sym ───────────────────────────────────────────────────

// Sym is a named unknown. Two symbols are the same entity iff their
// names are equal; the positivity assumption recorded by the parser
// does not participate in identity.
type Sym struct {
	name     string
	positive bool
}

func S(name string) *Sym { return &Sym{name: name} }

// PositiveSym declares a symbol assumed to be a positive real. The
// parser uses this for every name it infers from user input.
func PositiveSym(name string) *Sym { return &Sym{name: name, positive: true} }

func (s *Sym) Simplify() Expr        { return s }
func (s *Sym) String() string        { return s.name }
func (s *Sym) Name() string          { return s.name }
func (s *Sym) Positive() bool        { return s.positive }
func (s *Sym) Eval() (float64, bool) { return 0, false }

func (s *Sym) Equal(other Expr) bool {
	o, ok := other.(*Sym)
	return ok && s.name == o.name
}

func (s *Sym) Sub(name string, value Expr) Expr {
	if s.name == name {
		return value
	}
	return s
}

// ─── Pi ────────────────────────────────────────────────────

// PiConst is the circle constant. It is kept symbolic so that degree
// arguments like pi*90/180 reduce exactly instead of through floats.
type PiConst struct{}

// Pi is the shared instance of the constant.
var Pi = &PiConst{}

func (*PiConst) Simplify() Expr        { return Pi }
func (*PiConst) String() string        { return "pi" }
func (*PiConst) Sub(string, Expr) Expr { return Pi }
func (*PiConst) Eval() (float64, bool) { return math.Pi, true }

func (*PiConst) Equal(other Expr) bool {
	_, ok := other.(*PiConst)
	return ok
}

// ─── Add ───────────────────────────────────────────────────

// Add is an n-ary sum.
type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

// SubOf builds a - b.
func SubOf(a, b Expr) Expr { return AddOf(a, MulOf(N(-1), b)) }

func (a *Add) Terms() []Expr { return a.terms }

// Simplify flattens nested sums, folds the numeric part and collects
// like terms by their non-numeric portion, so sin(u)+sin(u) becomes
// 2*sin(u) and exact cancellation always reaches zero.
func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}

	numPart := N(0)
	type bucket struct {
		rest  Expr
		coeff *Num
	}
	byKey := map[string]*bucket{}
	order := []string{}
	for _, t := range flat {
		if v, ok := t.(*Num); ok {
			numPart = numAdd(numPart, v)
			continue
		}
		coeff, rest := splitCoeff(t)
		key := rest.String()
		b, seen := byKey[key]
		if !seen {
			b = &bucket{rest: rest, coeff: N(0)}
			byKey[key] = b
			order = append(order, key)
		}
		b.coeff = numAdd(b.coeff, coeff)
	}

	sort.Strings(order)
	result := make([]Expr, 0, len(order)+1)
	for _, key := range order {
		b := byKey[key]
		switch {
		case b.coeff.IsZero():
		case b.coeff.IsOne():
			result = append(result, b.rest)
		default:
			result = append(result, MulOf(b.coeff, b.rest))
		}
	}
	if !numPart.IsZero() {
		result = append(result, numPart)
	}

	switch len(result) {
	case 0:
		return N(0)
	case 1:
		return result[0]
	}
	return &Add{terms: result}
}

// splitCoeff separates an expression into a numeric coefficient and the
// remaining factor ("rest"). Non-products have coefficient 1.
func splitCoeff(e Expr) (*Num, Expr) {
	m, ok := e.(*Mul)
	if !ok {
		return N(1), e
	}
	coeff := N(1)
	rest := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		if v, isNum := f.(*Num); isNum {
			coeff = numMul(coeff, v)
		} else {
			rest = append(rest, f)
		}
	}
	switch len(rest) {
	case 0:
		return coeff, N(1)
	case 1:
		return coeff, rest[0]
	}
	return coeff, &Mul{factors: rest}
}

func (a *Add) String() string {
	if len(a.terms) == 0 {
		return "0"
	}
	var sb strings.Builder
	for i, t := range a.terms {
		part := t.String()
		if i == 0 {
			sb.WriteString(part)
			continue
		}
		if strings.HasPrefix(part, "-") {
			sb.WriteString(" - ")
			sb.WriteString(part[1:])
		} else {
			sb.WriteString(" + ")
			sb.WriteString(part)
		}
	}
	return sb.String()
}

func (a *Add) Sub(name string, value Expr) Expr {
	out := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		out[i] = t.Sub(name, value)
	}
	return AddOf(out...)
}

func (a *Add) Eval() (float64, bool) {
	acc := 0.0
	for _, t := range a.terms {
		v, ok := t.Eval()
		if !ok {
			return 0, false
		}
		acc += v
	}
	return acc, true
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	if !ok || len(a.terms) != len(o.terms) {
		return false
	}
	for i := range a.terms {
		if !a.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}

// ─── Mul ───────────────────────────────────────────────────

// Mul is an n-ary product.
type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

// DivOf builds a / b.
func DivOf(a, b Expr) Expr { return MulOf(a, PowOf(b, N(-1))) }

func (m *Mul) Factors() []Expr { return m.factors }

// Simplify flattens nested products, folds the numeric coefficient and
// merges repeated bases into powers, so sin(u)*sin(u) becomes sin(u)^2
// and pi*pi^-1 cancels to 1.
func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}

	coeff := N(1)
	type bucket struct {
		base    Expr
		expNum  *Num // accumulated numeric exponent; nil if symbolic
		expSym  Expr
	}
	byKey := map[string]*bucket{}
	order := []string{}
	for _, f := range flat {
		if v, ok := f.(*Num); ok {
			coeff = numMul(coeff, v)
			continue
		}
		base, exp := f, Expr(N(1))
		if p, ok := f.(*Pow); ok {
			base, exp = p.base, p.exp
		}
		key := base.String()
		b, seen := byKey[key]
		if !seen {
			b = &bucket{base: base, expNum: N(0)}
			byKey[key] = b
			order = append(order, key)
		}
		if en, ok := exp.(*Num); ok && b.expNum != nil {
			b.expNum = numAdd(b.expNum, en)
		} else {
			// Symbolic exponent: fall back to a symbolic sum.
			prev := Expr(b.expNum)
			if b.expNum == nil {
				prev = b.expSym
			}
			b.expNum = nil
			b.expSym = AddOf(prev, exp)
		}
	}
	if coeff.IsZero() {
		return N(0)
	}

	sort.Strings(order)
	factors := make([]Expr, 0, len(order))
	for _, key := range order {
		b := byKey[key]
		var exp Expr
		if b.expNum != nil {
			exp = b.expNum
		} else {
			exp = b.expSym
		}
		f := PowOf(b.base, exp)
		if v, ok := f.(*Num); ok {
			coeff = numMul(coeff, v)
			continue
		}
		factors = append(factors, f)
	}
	if coeff.IsZero() {
		return N(0)
	}
	if len(factors) == 0 {
		return coeff
	}

	// Re-sort: Pow merging may have changed a factor's printed form.
	sort.Slice(factors, func(i, j int) bool {
		return factors[i].String() < factors[j].String()
	})
	if coeff.IsOne() {
		if len(factors) == 1 {
			return factors[0]
		}
		return &Mul{factors: factors}
	}
	return &Mul{factors: append([]Expr{coeff}, factors...)}
}

func (m *Mul) String() string {
	if len(m.factors) == 0 {
		return "1"
	}
	// Print a leading -1 coefficient as a sign.
	factors := m.factors
	prefix := ""
	if v, ok := factors[0].(*Num); ok && v.IsNegOne() && len(factors) > 1 {
		prefix = "-"
		factors = factors[1:]
	}
	parts := make([]string, len(factors))
	for i, f := range factors {
		if _, isAdd := f.(*Add); isAdd {
			parts[i] = "(" + f.String() + ")"
		} else {
			parts[i] = f.String()
		}
	}
	return prefix + strings.Join(parts, "*")
}

func (m *Mul) Sub(name string, value Expr) Expr {
	out := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		out[i] = f.Sub(name, value)
	}
	return MulOf(out...)
}

func (m *Mul) Eval() (float64, bool) {
	acc := 1.0
	for _, f := range m.factors {
		v, ok := f.Eval()
		if !ok {
			return 0, false
		}
		acc *= v
	}
	return acc, true
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(m.factors) != len(o.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

// ─── Pow ───────────────────────────────────────────────────

// Pow is base^exp.
type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

// SqrtOf builds the principal square root as a half power.
func SqrtOf(arg Expr) Expr { return PowOf(arg, F(1, 2)) }

func (p *Pow) Base() Expr     { return p.base }
func (p *Pow) Exponent() Expr { return p.exp }

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	if en, ok := exp.(*Num); ok {
		if en.IsZero() {
			return N(1)
		}
		if en.IsOne() {
			return base
		}
		if bn, ok2 := base.(*Num); ok2 {
			if bn.IsZero() {
				if en.Sign() < 0 {
					// 0 to a negative power: keep symbolic rather than divide by zero.
					return &Pow{base: base, exp: exp}
				}
				return N(0)
			}
			if bn.IsOne() {
				return N(1)
			}
			if en.IsInteger() {
				e := en.val.Num().Int64()
				if e >= -24 && e <= 24 {
					return ratPow(bn, e)
				}
			}
			if r, ok3 := ratSqrt(bn, en); ok3 {
				return r
			}
		}
	}
	if inner, ok := base.(*Pow); ok {
		return PowOf(inner.base, MulOf(inner.exp, exp))
	}
	// (a*b)^n distributes for integer n, so products invert cleanly.
	if m, ok := base.(*Mul); ok {
		if en, ok2 := exp.(*Num); ok2 && en.IsInteger() {
			factors := make([]Expr, len(m.factors))
			for i, f := range m.factors {
				factors[i] = PowOf(f, en)
			}
			return MulOf(factors...)
		}
	}
	return &Pow{base: base, exp: exp}
}

// ratSqrt folds base^(p/2) when base is a positive rational whose
// numerator and denominator are both perfect squares.
func ratSqrt(base, exp *Num) (Expr, bool) {
	if base.Sign() <= 0 {
		return nil, false
	}
	if exp.val.Denom().Cmp(big.NewInt(2)) != 0 {
		return nil, false
	}
	num, den := base.val.Num(), base.val.Denom()
	sqrtNum := new(big.Int).Sqrt(num)
	sqrtDen := new(big.Int).Sqrt(den)
	if new(big.Int).Mul(sqrtNum, sqrtNum).Cmp(num) != 0 {
		return nil, false
	}
	if new(big.Int).Mul(sqrtDen, sqrtDen).Cmp(den) != 0 {
		return nil, false
	}
	root := &Num{val: new(big.Rat).SetFrac(sqrtNum, sqrtDen)}
	p := exp.val.Num().Int64()
	if p < -24 || p > 24 {
		return nil, false
	}
	return ratPow(root, p), true
}

func ratPow(b *Num, e int64) *Num {
	n := e
	if n < 0 {
		n = -n
	}
	acc := N(1)
	for i := int64(0); i < n; i++ {
		acc = numMul(acc, b)
	}
	if e < 0 {
		acc = numRecip(acc)
	}
	return acc
}

func (p *Pow) String() string {
	baseStr := p.base.String()
	switch p.base.(type) {
	case *Add, *Mul:
		baseStr = "(" + baseStr + ")"
	}
	expStr := p.exp.String()
	switch p.exp.(type) {
	case *Add, *Mul:
		expStr = "(" + expStr + ")"
	default:
		if strings.HasPrefix(expStr, "-") || strings.Contains(expStr, "/") {
			expStr = "(" + expStr + ")"
		}
	}
	return baseStr + "^" + expStr
}

func (p *Pow) Sub(name string, value Expr) Expr {
	return PowOf(p.base.Sub(name, value), p.exp.Sub(name, value))
}

func (p *Pow) Eval() (float64, bool) {
	b, ok1 := p.base.Eval()
	e, ok2 := p.exp.Eval()
	if !ok1 || !ok2 {
		return 0, false
	}
	v := math.Pow(b, e)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

// ─── Func ──────────────────────────────────────────────────

// Func is a named unary function application.
type Func struct {
	name string
	arg  Expr
}

func SinOf(arg Expr) Expr  { return (&Func{name: "sin", arg: arg}).Simplify() }
func CosOf(arg Expr) Expr  { return (&Func{name: "cos", arg: arg}).Simplify() }
func TanOf(arg Expr) Expr  { return (&Func{name: "tan", arg: arg}).Simplify() }
func AsinOf(arg Expr) Expr { return (&Func{name: "asin", arg: arg}).Simplify() }
func AcosOf(arg Expr) Expr { return (&Func{name: "acos", arg: arg}).Simplify() }
func AtanOf(arg Expr) Expr { return (&Func{name: "atan", arg: arg}).Simplify() }
func AbsOf(arg Expr) Expr  { return (&Func{name: "abs", arg: arg}).Simplify() }
func FuncOf(name string, arg Expr) Expr {
	return (&Func{name: name, arg: arg}).Simplify()
}

func (f *Func) FuncName() string { return f.name }
func (f *Func) Arg() Expr        { return f.arg }

func (f *Func) Simplify() Expr {
	arg := f.arg.Simplify()

	switch f.name {
	case "sin", "cos", "tan":
		if e, ok := exactTrig(f.name, arg); ok {
			return e
		}
		// Parity: sin(-u) = -sin(u), cos(-u) = cos(u), tan(-u) = -tan(u).
		if neg, ok := negatedArg(arg); ok {
			inner := (&Func{name: f.name, arg: neg}).Simplify()
			if f.name == "cos" {
				return inner
			}
			return MulOf(N(-1), inner)
		}
	case "asin", "acos":
		if e, ok := exactInverseTrig(f.name, arg); ok {
			return e
		}
	case "atan":
		if n, ok := arg.(*Num); ok && n.IsZero() {
			return N(0)
		}
		if n, ok := arg.(*Num); ok && n.IsOne() {
			return MulOf(F(1, 4), Pi)
		}
	case "abs":
		if n, ok := arg.(*Num); ok {
			if n.Sign() < 0 {
				return numNeg(n)
			}
			return n
		}
	}
	return &Func{name: f.name, arg: arg}
}

// negatedArg reports whether e is a product with a negative numeric
// coefficient and returns e with the sign flipped.
func negatedArg(e Expr) (Expr, bool) {
	m, ok := e.(*Mul)
	if !ok {
		if n, isNum := e.(*Num); isNum && n.Sign() < 0 {
			return numNeg(n), true
		}
		return nil, false
	}
	coeff, rest := splitCoeff(m)
	if coeff.Sign() >= 0 {
		return nil, false
	}
	return MulOf(numNeg(coeff), rest), true
}

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Func) Sub(name string, value Expr) Expr {
	return (&Func{name: f.name, arg: f.arg.Sub(name, value)}).Simplify()
}

func (f *Func) Eval() (float64, bool) {
	v, ok := f.arg.Eval()
	if !ok {
		return 0, false
	}
	switch f.name {
	case "sin":
		return math.Sin(v), true
	case "cos":
		return math.Cos(v), true
	case "tan":
		return math.Tan(v), true
	case "asin":
		if v < -1 || v > 1 {
			return 0, false
		}
		return math.Asin(v), true
	case "acos":
		if v < -1 || v > 1 {
			return 0, false
		}
		return math.Acos(v), true
	case "atan":
		return math.Atan(v), true
	case "abs":
		return math.Abs(v), true
	case "sqrt":
		if v < 0 {
			return 0, false
		}
		return math.Sqrt(v), true
	case "exp":
		return math.Exp(v), true
	case "ln":
		if v <= 0 {
			return 0, false
		}
		return math.Log(v), true
	}
	return 0, false
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.name == o.name && f.arg.Equal(o.arg)
}

// ─── Helpers ───────────────────────────────────────────────

// FreeSymbols returns the set of symbol names occurring in e.
func FreeSymbols(e Expr) map[string]struct{} {
	out := map[string]struct{}{}
	collectSymbols(e, out)
	return out
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	case *Func:
		collectSymbols(v.arg, out)
	}
}

// ContainsPi reports whether the constant pi occurs anywhere in e.
func ContainsPi(e Expr) bool {
	switch v := e.(type) {
	case *PiConst:
		return true
	case *Add:
		for _, t := range v.terms {
			if ContainsPi(t) {
				return true
			}
		}
	case *Mul:
		for _, f := range v.factors {
			if ContainsPi(f) {
				return true
			}
		}
	case *Pow:
		return ContainsPi(v.base) || ContainsPi(v.exp)
	case *Func:
		return ContainsPi(v.arg)
	}
	return false
}

// SubAll applies a set of symbol substitutions and simplifies.
func SubAll(e Expr, values map[string]Expr) Expr {
	out := e
	for name, v := range values {
		out = out.Sub(name, v)
	}
	return out.Simplify()
}

// EvalAt numerically evaluates e with the given symbol bindings.
func EvalAt(e Expr, values map[string]float64) (float64, bool) {
	out := e
	for name, v := range values {
		out = out.Sub(name, NFloat(v))
	}
	return out.Simplify().Eval()
}

// Expand distributes products over sums and expands small integer
// powers, producing a sum-of-products form.
func Expand(e Expr) Expr { return expandExpr(e).Simplify() }

func expandExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Mul:
		factors := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			factors[i] = expandExpr(f)
		}
		for i, f := range factors {
			a, ok := f.(*Add)
			if !ok {
				continue
			}
			rest := make([]Expr, 0, len(factors)-1)
			for j, g := range factors {
				if j != i {
					rest = append(rest, g)
				}
			}
			terms := make([]Expr, len(a.terms))
			for k, t := range a.terms {
				terms[k] = expandExpr(MulOf(append([]Expr{t}, rest...)...))
			}
			return AddOf(terms...)
		}
		return MulOf(factors...)
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			terms[i] = expandExpr(t)
		}
		return AddOf(terms...)
	case *Pow:
		if n, ok := v.exp.(*Num); ok && n.IsInteger() && n.val.Num().IsInt64() {
			e := n.val.Num().Int64()
			if e >= 2 && e <= 8 {
				base := expandExpr(v.base)
				acc := base
				for i := int64(1); i < e; i++ {
					acc = expandExpr(MulOf(acc, base))
				}
				return acc
			}
		}
		return PowOf(expandExpr(v.base), expandExpr(v.exp))
	}
	return e
}
