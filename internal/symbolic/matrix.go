package symbolic

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSingular is returned by Inverse when the determinant simplifies
// to zero.
var ErrSingular = errors.New("matrix is singular")

// ShapeError reports an operation applied to matrices with
// incompatible dimensions.
type ShapeError struct {
	Op           string
	Rows1, Cols1 int
	Rows2, Cols2 int
}

func (e *ShapeError) Error() string {
	if e.Rows2 == 0 && e.Cols2 == 0 {
		return fmt.Sprintf("%s: not applicable to %dx%d matrix", e.Op, e.Rows1, e.Cols1)
	}
	return fmt.Sprintf("%s: %dx%d incompatible with %dx%d", e.Op, e.Rows1, e.Cols1, e.Rows2, e.Cols2)
}

// Matrix is a dense matrix of expressions.
type Matrix struct {
	rows, cols int
	data       []Expr
}

func NewMatrix(rows, cols int) *Matrix {
	if rows <= 0 || cols <= 0 {
		panic("symbolic: non-positive matrix dimension")
	}
	m := &Matrix{rows: rows, cols: cols, data: make([]Expr, rows*cols)}
	for i := range m.data {
		m.data[i] = N(0)
	}
	return m
}

// Identity returns the n-by-n identity matrix.
func Identity(n int) *Matrix {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		m.Set(i, i, N(1))
	}
	return m
}

// MatrixFromRows builds a matrix from row slices, which must all have
// the same length.
func MatrixFromRows(rows [][]Expr) *Matrix {
	if len(rows) == 0 || len(rows[0]) == 0 {
		panic("symbolic: empty matrix literal")
	}
	m := NewMatrix(len(rows), len(rows[0]))
	for i, row := range rows {
		if len(row) != m.cols {
			panic("symbolic: ragged matrix literal")
		}
		for j, e := range row {
			m.Set(i, j, e)
		}
	}
	return m
}

func (m *Matrix) Rows() int { return m.rows }
func (m *Matrix) Cols() int { return m.cols }

func (m *Matrix) Get(i, j int) Expr {
	return m.data[i*m.cols+j]
}

func (m *Matrix) Set(i, j int, e Expr) {
	m.data[i*m.cols+j] = e
}

// Clone returns an independent copy.
func (m *Matrix) Clone() *Matrix {
	out := &Matrix{rows: m.rows, cols: m.cols, data: make([]Expr, len(m.data))}
	copy(out.data, m.data)
	return out
}

// Mul returns m * other.
func (m *Matrix) Mul(other *Matrix) (*Matrix, error) {
	if m.cols != other.rows {
		return nil, &ShapeError{Op: "multiply", Rows1: m.rows, Cols1: m.cols, Rows2: other.rows, Cols2: other.cols}
	}
	out := NewMatrix(m.rows, other.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < other.cols; j++ {
			terms := make([]Expr, m.cols)
			for k := 0; k < m.cols; k++ {
				terms[k] = MulOf(m.Get(i, k), other.Get(k, j))
			}
			out.Set(i, j, AddOf(terms...))
		}
	}
	return out, nil
}

// Transpose returns the transpose.
func (m *Matrix) Transpose() *Matrix {
	out := NewMatrix(m.cols, m.rows)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			out.Set(j, i, m.Get(i, j))
		}
	}
	return out
}

// Det computes the determinant by cofactor expansion along the first
// row. Fine for the 4x4 matrices this package works with.
func (m *Matrix) Det() (Expr, error) {
	if m.rows != m.cols {
		return nil, &ShapeError{Op: "determinant", Rows1: m.rows, Cols1: m.cols}
	}
	return m.det().Simplify(), nil
}

func (m *Matrix) det() Expr {
	n := m.rows
	if n == 1 {
		return m.Get(0, 0)
	}
	if n == 2 {
		return SubOf(MulOf(m.Get(0, 0), m.Get(1, 1)), MulOf(m.Get(0, 1), m.Get(1, 0)))
	}
	terms := make([]Expr, 0, n)
	for j := 0; j < n; j++ {
		cof := m.minor(0, j).det()
		term := MulOf(m.Get(0, j), cof)
		if j%2 == 1 {
			term = MulOf(N(-1), term)
		}
		terms = append(terms, term)
	}
	return AddOf(terms...)
}

func (m *Matrix) minor(row, col int) *Matrix {
	out := NewMatrix(m.rows-1, m.cols-1)
	oi := 0
	for i := 0; i < m.rows; i++ {
		if i == row {
			continue
		}
		oj := 0
		for j := 0; j < m.cols; j++ {
			if j == col {
				continue
			}
			out.Set(oi, oj, m.Get(i, j))
			oj++
		}
		oi++
	}
	return out
}

// Inverse returns the adjugate inverse. Symbolic entries are fine; a
// determinant that simplifies to zero yields ErrSingular.
func (m *Matrix) Inverse() (*Matrix, error) {
	if m.rows != m.cols {
		return nil, &ShapeError{Op: "inverse", Rows1: m.rows, Cols1: m.cols}
	}
	det, err := m.Det()
	if err != nil {
		return nil, err
	}
	det = DeepSimplify(det)
	if n, ok := det.(*Num); ok && n.IsZero() {
		return nil, ErrSingular
	}
	n := m.rows
	out := NewMatrix(n, n)
	if n == 1 {
		out.Set(0, 0, PowOf(m.Get(0, 0), N(-1)))
		return out, nil
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			cof := m.minor(i, j).det()
			if (i+j)%2 == 1 {
				cof = MulOf(N(-1), cof)
			}
			// Adjugate is the transpose of the cofactor matrix.
			out.Set(j, i, DeepSimplify(DivOf(cof, det)))
		}
	}
	return out, nil
}

// Map applies f to every entry, returning a new matrix.
func (m *Matrix) Map(f func(Expr) Expr) *Matrix {
	out := &Matrix{rows: m.rows, cols: m.cols, data: make([]Expr, len(m.data))}
	for i, e := range m.data {
		out.data[i] = f(e)
	}
	return out
}

// SimplifyAll deep-simplifies every entry.
func (m *Matrix) SimplifyAll() *Matrix { return m.Map(DeepSimplify) }

// SubAllEntries substitutes symbol bindings in every entry.
func (m *Matrix) SubAllEntries(values map[string]Expr) *Matrix {
	return m.Map(func(e Expr) Expr { return SubAll(e, values) })
}

// Equal reports entrywise structural equality.
func (m *Matrix) Equal(other *Matrix) bool {
	if m.rows != other.rows || m.cols != other.cols {
		return false
	}
	for i := range m.data {
		if !m.data[i].Equal(other.data[i]) {
			return false
		}
	}
	return true
}

// String renders the matrix one bracketed row per line, for logs and
// tests. Interactive display formatting lives in the render package.
func (m *Matrix) String() string {
	var sb strings.Builder
	for i := 0; i < m.rows; i++ {
		sb.WriteString("[")
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(m.Get(i, j).String())
		}
		sb.WriteString("]")
		if i < m.rows-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// FreeMatrixSymbols returns every symbol name used in the matrix.
func FreeMatrixSymbols(m *Matrix) map[string]struct{} {
	out := map[string]struct{}{}
	for _, e := range m.data {
		collectSymbols(e, out)
	}
	return out
}
