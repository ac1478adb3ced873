package symbolic

import "testing"

func TestNumArithmeticIsExact(t *testing.T) {
	sum := AddOf(F(1, 3), F(1, 6))
	if got := sum.String(); got != "1/2" {
		t.Errorf("1/3 + 1/6 = %s, want 1/2", got)
	}
	prod := MulOf(F(2, 3), F(3, 4))
	if got := prod.String(); got != "1/2" {
		t.Errorf("2/3 * 3/4 = %s, want 1/2", got)
	}
}

func TestDecimalInputStaysRational(t *testing.T) {
	n := NFloat(0.5)
	if got := n.String(); got != "1/2" {
		t.Errorf("NFloat(0.5) = %s, want 1/2", got)
	}
}

func TestAddCollectsLikeTerms(t *testing.T) {
	x := S("x")
	e := AddOf(x, x, N(3), N(-1))
	if got := e.String(); got != "2*x + 2" {
		t.Errorf("x + x + 3 - 1 = %s, want 2*x + 2", got)
	}
}

func TestAddCancelsToZero(t *testing.T) {
	u := SinOf(S("u"))
	e := AddOf(u, MulOf(N(-1), u))
	if got := e.String(); got != "0" {
		t.Errorf("sin(u) - sin(u) = %s, want 0", got)
	}
}

func TestMulMergesRepeatedFactors(t *testing.T) {
	s := SinOf(S("u"))
	e := MulOf(s, s)
	if got := e.String(); got != "sin(u)^2" {
		t.Errorf("sin(u)*sin(u) = %s, want sin(u)^2", got)
	}
}

func TestMulCancelsPi(t *testing.T) {
	e := MulOf(Pi, PowOf(Pi, N(-1)), S("x"))
	if got := e.String(); got != "x" {
		t.Errorf("pi * pi^-1 * x = %s, want x", got)
	}
}

func TestMulZeroAnnihilates(t *testing.T) {
	e := MulOf(N(0), SinOf(S("u")), S("x"))
	if got := e.String(); got != "0" {
		t.Errorf("0 * sin(u) * x = %s, want 0", got)
	}
}

func TestPowIntegerFolding(t *testing.T) {
	if got := PowOf(N(2), N(10)).String(); got != "1024" {
		t.Errorf("2^10 = %s, want 1024", got)
	}
	if got := PowOf(N(2), N(-2)).String(); got != "1/4" {
		t.Errorf("2^-2 = %s, want 1/4", got)
	}
	if got := PowOf(S("x"), N(0)).String(); got != "1" {
		t.Errorf("x^0 = %s, want 1", got)
	}
}

func TestNestedPowMergesExponents(t *testing.T) {
	e := PowOf(PowOf(S("x"), N(2)), N(3))
	if got := e.String(); got != "x^6" {
		t.Errorf("(x^2)^3 = %s, want x^6", got)
	}
}

func TestSubReplacesSymbol(t *testing.T) {
	e := AddOf(MulOf(N(2), S("x")), S("y"))
	got := e.Sub("x", N(5)).Simplify()
	if got.String() != "y + 10" {
		t.Errorf("substitution gave %s, want y + 10", got)
	}
}

func TestEvalNumeric(t *testing.T) {
	e := AddOf(MulOf(N(2), S("x")), N(1))
	v, ok := EvalAt(e, map[string]float64{"x": 3})
	if !ok || v != 7 {
		t.Errorf("eval gave (%v, %v), want (7, true)", v, ok)
	}
}

func TestEvalFailsOnFreeSymbol(t *testing.T) {
	if _, ok := S("x").Eval(); ok {
		t.Error("free symbol should not evaluate")
	}
}

func TestExpandDistributes(t *testing.T) {
	e := Expand(MulOf(AddOf(S("x"), N(1)), AddOf(S("x"), N(-1))))
	if got := e.String(); got != "x^2 - 1" {
		t.Errorf("(x+1)(x-1) = %s, want x^2 - 1", got)
	}
}

func TestFreeSymbols(t *testing.T) {
	e := AddOf(SinOf(S("theta1")), MulOf(S("a1"), CosOf(S("theta2"))))
	free := FreeSymbols(e)
	for _, want := range []string{"theta1", "theta2", "a1"} {
		if _, ok := free[want]; !ok {
			t.Errorf("missing free symbol %s", want)
		}
	}
	if len(free) != 3 {
		t.Errorf("got %d free symbols, want 3", len(free))
	}
}

func TestNegativeProductPrinting(t *testing.T) {
	e := MulOf(N(-1), SinOf(S("u")))
	if got := e.String(); got != "-sin(u)" {
		t.Errorf("got %s, want -sin(u)", got)
	}
	sum := AddOf(S("x"), MulOf(N(-1), S("y")))
	if got := sum.String(); got != "x - y" {
		t.Errorf("got %s, want x - y", got)
	}
}
