package utils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Mat is a fixed capacity R x C matrix, R, C <= MaxDim, stored row major.
type Mat struct {
	R, C int
	D    [MaxDim][MaxDim]float64
}

func NewMat(nr, nc int, rowMajor ...float64) (m Mat) {
	if nr < 0 || nr > MaxDim || nc < 0 || nc > MaxDim {
		panic(fmt.Errorf("matrix dims %dx%d out of range, max %d", nr, nc, MaxDim))
	}
	if len(rowMajor) != 0 && len(rowMajor) != nr*nc {
		panic(fmt.Errorf("mismatch in allocation: NewMat nr,nc = %v,%v, len(data) = %v", nr, nc, len(rowMajor)))
	}
	m.R, m.C = nr, nc
	for i := 0; i < nr && len(rowMajor) != 0; i++ {
		for j := 0; j < nc; j++ {
			m.D[i][j] = rowMajor[i*nc+j]
		}
	}
	return
}

// NewDiagMat returns a*I of size n.
func NewDiagMat(n int, a float64) (m Mat) {
	m = NewMat(n, n)
	for i := 0; i < n; i++ {
		m.D[i][i] = a
	}
	return
}

// MatFromDense copies a gonum matrix into a Mat.
func MatFromDense(A mat.Matrix) (m Mat) {
	nr, nc := A.Dims()
	m = NewMat(nr, nc)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			m.D[i][j] = A.At(i, j)
		}
	}
	return
}

// Dims and At satisfy the read side of mat.Matrix.
func (m Mat) Dims() (r, c int)         { return m.R, m.C }
func (m Mat) At(i, j int) float64      { return m.D[i][j] }
func (m *Mat) Set(i, j int, x float64) { m.D[i][j] = x }

func (m Mat) Dense() *mat.Dense {
	R := mat.NewDense(m.R, m.C, nil)
	for i := 0; i < m.R; i++ {
		for j := 0; j < m.C; j++ {
			R.Set(i, j, m.D[i][j])
		}
	}
	return R
}

// Col returns column j as a Vec.
func (m Mat) Col(j int) (v Vec) {
	v.N = m.R
	for i := 0; i < m.R; i++ {
		v.D[i] = m.D[i][j]
	}
	return
}

// Mult computes out = m*v.
func (m Mat) Mult(v Vec, out *Vec) {
	if v.N != m.C {
		panic(fmt.Errorf("dimension mismatch: matrix %dx%d times vector %d", m.R, m.C, v.N))
	}
	var r Vec
	r.N = m.R
	for i := 0; i < m.R; i++ {
		for j := 0; j < m.C; j++ {
			r.D[i] += m.D[i][j] * v.D[j]
		}
	}
	*out = r
}

// InnerProduct returns vᵀ m w.
func (m Mat) InnerProduct(v, w Vec) (d float64) {
	if v.N != m.R || w.N != m.C {
		panic(fmt.Errorf("dimension mismatch: %d x (%dx%d) x %d", v.N, m.R, m.C, w.N))
	}
	for i := 0; i < m.R; i++ {
		var row float64
		for j := 0; j < m.C; j++ {
			row += m.D[i][j] * w.D[j]
		}
		d += v.D[i] * row
	}
	return
}

func (m *Mat) Zero() {
	m.D = [MaxDim][MaxDim]float64{}
}

// AddScaled computes m += a*B.
func (m *Mat) AddScaled(a float64, B Mat) *Mat {
	if m.R != B.R || m.C != B.C {
		panic(fmt.Errorf("dimension mismatch: %dx%d += %dx%d", m.R, m.C, B.R, B.C))
	}
	for i := 0; i < m.R; i++ {
		for j := 0; j < m.C; j++ {
			m.D[i][j] += a * B.D[i][j]
		}
	}
	return m
}

// IsSymmetric reports whether m equals its transpose within tol.
func (m Mat) IsSymmetric(tol float64) bool {
	if m.R != m.C {
		return false
	}
	for i := 0; i < m.R; i++ {
		for j := i + 1; j < m.C; j++ {
			d := m.D[i][j] - m.D[j][i]
			if d > tol || d < -tol {
				return false
			}
		}
	}
	return true
}
