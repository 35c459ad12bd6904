package utils

import (
	"fmt"
	"math"
)

// MaxDim is the largest supported space dimension. Vec and Mat are sized to
// it so per-point evaluation never touches the heap.
const MaxDim = 3

// Vec is a fixed capacity vector of length N <= MaxDim, usable by value.
type Vec struct {
	N int
	D [MaxDim]float64
}

func NewVec(n int, vals ...float64) (v Vec) {
	if n < 0 || n > MaxDim {
		panic(fmt.Errorf("vector length %d out of range [0,%d]", n, MaxDim))
	}
	if len(vals) > n {
		panic(fmt.Errorf("too many values for vector of length %d: %d", n, len(vals)))
	}
	v.N = n
	copy(v.D[:], vals)
	return
}

// VecFromSlice copies the first len(x) values of x into a Vec.
func VecFromSlice(x []float64) (v Vec) {
	return NewVec(len(x), x...)
}

func (v Vec) Len() int              { return v.N }
func (v Vec) At(i int) float64      { return v.D[i] }
func (v *Vec) Set(i int, x float64) { v.D[i] = x }
func (v *Vec) Slice() []float64     { return v.D[:v.N] }

// SetSize resizes v, zeroing any newly exposed entries.
func (v *Vec) SetSize(n int) {
	if n < 0 || n > MaxDim {
		panic(fmt.Errorf("vector length %d out of range [0,%d]", n, MaxDim))
	}
	for i := v.N; i < n; i++ {
		v.D[i] = 0
	}
	v.N = n
}

func (v *Vec) Zero() {
	v.D = [MaxDim]float64{}
}

// Fill sets every active entry to a.
func (v *Vec) Fill(a float64) {
	for i := 0; i < v.N; i++ {
		v.D[i] = a
	}
}

func (v Vec) Dot(w Vec) (d float64) {
	checkLen(v.N, w.N)
	for i := 0; i < v.N; i++ {
		d += v.D[i] * w.D[i]
	}
	return
}

// Norml2Sq is the squared Euclidean length, used to compare magnitudes.
func (v Vec) Norml2Sq() float64 { return v.Dot(v) }

func (v Vec) Norml2() float64 { return math.Sqrt(v.Dot(v)) }

func (v *Vec) Scale(a float64) *Vec {
	for i := 0; i < v.N; i++ {
		v.D[i] *= a
	}
	return v
}

func (v *Vec) Add(w Vec) *Vec {
	checkLen(v.N, w.N)
	for i := 0; i < v.N; i++ {
		v.D[i] += w.D[i]
	}
	return v
}

func (v *Vec) Sub(w Vec) *Vec {
	checkLen(v.N, w.N)
	for i := 0; i < v.N; i++ {
		v.D[i] -= w.D[i]
	}
	return v
}

// AddScaled computes v += a*w.
func (v *Vec) AddScaled(a float64, w Vec) *Vec {
	checkLen(v.N, w.N)
	for i := 0; i < v.N; i++ {
		v.D[i] += a * w.D[i]
	}
	return v
}

// Cross3 computes out = a x b, or out += a x b when add is set.
func Cross3(a, b Vec, out *Vec, add bool) {
	if a.N != 3 || b.N != 3 {
		panic(fmt.Errorf("cross product needs 3 vectors, have %d and %d", a.N, b.N))
	}
	c0 := a.D[1]*b.D[2] - a.D[2]*b.D[1]
	c1 := a.D[2]*b.D[0] - a.D[0]*b.D[2]
	c2 := a.D[0]*b.D[1] - a.D[1]*b.D[0]
	if add {
		if out.N != 3 {
			panic(fmt.Errorf("cross product accumulator has length %d", out.N))
		}
		out.D[0] += c0
		out.D[1] += c1
		out.D[2] += c2
		return
	}
	*out = NewVec(3, c0, c1, c2)
}

func (v Vec) String() string {
	return fmt.Sprintf("%v", v.D[:v.N])
}

func checkLen(n1, n2 int) {
	if n1 != n2 {
		panic(fmt.Errorf("vector length mismatch: %d != %d", n1, n2))
	}
}
