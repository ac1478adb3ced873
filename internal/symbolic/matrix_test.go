package symbolic

import (
	"errors"
	"testing"
)

func TestIdentityMultiplication(t *testing.T) {
	m := MatrixFromRows([][]Expr{
		{N(1), S("x")},
		{N(0), N(2)},
	})
	got, err := m.Mul(Identity(2))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(m) {
		t.Errorf("m * I = %s, want %s", got, m)
	}
	got, err = Identity(2).Mul(m)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(m) {
		t.Errorf("I * m = %s, want %s", got, m)
	}
}

func TestMulShapeMismatch(t *testing.T) {
	a := NewMatrix(2, 3)
	b := NewMatrix(2, 3)
	_, err := a.Mul(b)
	var shapeErr *ShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("want ShapeError, got %v", err)
	}
}

func TestTransposeRoundTrip(t *testing.T) {
	m := MatrixFromRows([][]Expr{
		{N(1), N(2), N(3)},
		{S("x"), S("y"), S("z")},
	})
	tt := m.Transpose()
	if tt.Rows() != 3 || tt.Cols() != 2 {
		t.Fatalf("transpose shape %dx%d", tt.Rows(), tt.Cols())
	}
	if !tt.Transpose().Equal(m) {
		t.Error("double transpose should restore the matrix")
	}
}

func TestDeterminant(t *testing.T) {
	m := MatrixFromRows([][]Expr{
		{N(2), N(0)},
		{N(0), N(3)},
	})
	det, err := m.Det()
	if err != nil {
		t.Fatal(err)
	}
	if det.String() != "6" {
		t.Errorf("det = %s, want 6", det)
	}
}

func TestDeterminantNonSquare(t *testing.T) {
	_, err := NewMatrix(2, 3).Det()
	if err == nil {
		t.Fatal("want error for non-square determinant")
	}
}

func TestInverseNumeric(t *testing.T) {
	m := MatrixFromRows([][]Expr{
		{N(2), N(0)},
		{N(0), N(4)},
	})
	inv, err := m.Inverse()
	if err != nil {
		t.Fatal(err)
	}
	want := MatrixFromRows([][]Expr{
		{F(1, 2), N(0)},
		{N(0), F(1, 4)},
	})
	if !inv.Equal(want) {
		t.Errorf("inverse = %s, want %s", inv, want)
	}
}

func TestInverseSingular(t *testing.T) {
	m := MatrixFromRows([][]Expr{
		{N(1), N(2)},
		{N(2), N(4)},
	})
	_, err := m.Inverse()
	if !errors.Is(err, ErrSingular) {
		t.Fatalf("want ErrSingular, got %v", err)
	}
}

func TestInverseOfRotationIsTranspose(t *testing.T) {
	u := degArg(S("theta1"))
	rot := MatrixFromRows([][]Expr{
		{CosOf(u), MulOf(N(-1), SinOf(u))},
		{SinOf(u), CosOf(u)},
	})
	inv, err := rot.Inverse()
	if err != nil {
		t.Fatal(err)
	}
	want := rot.Transpose().SimplifyAll()
	if !inv.SimplifyAll().Equal(want) {
		t.Errorf("rotation inverse = %s, want transpose %s", inv, want)
	}
}

func TestSubAllEntries(t *testing.T) {
	m := MatrixFromRows([][]Expr{
		{S("x"), N(1)},
		{N(0), MulOf(N(2), S("x"))},
	})
	got := m.SubAllEntries(map[string]Expr{"x": N(3)})
	want := MatrixFromRows([][]Expr{
		{N(3), N(1)},
		{N(0), N(6)},
	})
	if !got.Equal(want) {
		t.Errorf("got %s, want %s", got, want)
	}
}
