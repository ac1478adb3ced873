package kinematics

import (
	"github.com/piwi3910/dh-calculator/internal/symbolic"
)

// ChainForward multiplies joint transforms in order, starting from the
// identity and simplifying after every step. An empty chain is the
// identity transform.
func ChainForward(transforms []*symbolic.Matrix) (*symbolic.Matrix, error) {
	acc := symbolic.Identity(4)
	for _, t := range transforms {
		next, err := acc.Mul(t)
		if err != nil {
			return nil, err
		}
		acc = next.SimplifyAll()
	}
	return acc, nil
}

// Position extracts the translation column of a homogeneous transform
// as a 3x1 matrix.
func Position(t *symbolic.Matrix) *symbolic.Matrix {
	out := symbolic.NewMatrix(3, 1)
	for i := 0; i < 3; i++ {
		out.Set(i, 0, t.Get(i, 3))
	}
	return out
}

// Rotation extracts the upper-left 3x3 rotation block.
func Rotation(t *symbolic.Matrix) *symbolic.Matrix {
	out := symbolic.NewMatrix(3, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.Set(i, j, t.Get(i, j))
		}
	}
	return out
}
