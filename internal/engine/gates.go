package engine

import (
	"math"
	"math/cmplx"
)

// Matrix is a 2x2 single-qubit operator in row-major order.
type Matrix [2][2]complex128

// Gate matrices are returned by value from functions so there is no
// shared mutable table.

// Identity returns I.
func Identity() Matrix {
	return Matrix{{1, 0}, {0, 1}}
}

// Hadamard returns H.
func Hadamard() Matrix {
	h := complex(1/math.Sqrt2, 0)
	return Matrix{{h, h}, {h, -h}}
}

// PauliX returns X.
func PauliX() Matrix {
	return Matrix{{0, 1}, {1, 0}}
}

// PauliY returns Y.
func PauliY() Matrix {
	return Matrix{{0, -1i}, {1i, 0}}
}

// PauliZ returns Z.
func PauliZ() Matrix {
	return Matrix{{1, 0}, {0, -1}}
}

// RX returns the X-axis rotation by theta.
func RX(theta float64) Matrix {
	c := complex(math.Cos(theta/2), 0)
	s := complex(0, -math.Sin(theta/2))
	return Matrix{{c, s}, {s, c}}
}

// RY returns the Y-axis rotation by theta.
func RY(theta float64) Matrix {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return Matrix{{c, -s}, {s, c}}
}

// RZ returns the Z-axis rotation by theta.
func RZ(theta float64) Matrix {
	return Matrix{
		{cmplx.Exp(complex(0, -theta/2)), 0},
		{0, cmplx.Exp(complex(0, theta/2))},
	}
}

// Phase returns diag(1, e^{i theta}).
func Phase(theta float64) Matrix {
	return Matrix{{1, 0}, {0, cmplx.Exp(complex(0, theta))}}
}

// Mul returns m·o.
func (m Matrix) Mul(o Matrix) Matrix {
	var out Matrix
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			out[i][j] = m[i][0]*o[0][j] + m[i][1]*o[1][j]
		}
	}
	return out
}

// Dagger returns the conjugate transpose.
func (m Matrix) Dagger() Matrix {
	return Matrix{
		{cmplx.Conj(m[0][0]), cmplx.Conj(m[1][0])},
		{cmplx.Conj(m[0][1]), cmplx.Conj(m[1][1])},
	}
}

// IsUnitary reports whether m·m† equals I within tol.
func (m Matrix) IsUnitary(tol float64) bool {
	p := m.Mul(m.Dagger())
	id := Identity()
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if cmplx.Abs(p[i][j]-id[i][j]) > tol {
				return false
			}
		}
	}
	return true
}
