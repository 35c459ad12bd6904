package materials

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/emfield/utils"
)

// Material is a linear, possibly anisotropic medium filling the domain
// elements tagged with any of Attributes. Tensors are relative to vacuum.
type Material struct {
	Attributes   []int
	Permittivity utils.Mat
	Permeability utils.Mat
}

type materialData struct {
	epsReal, invMu utils.Mat
	lightSpeedMax  float64
}

// MaterialOperator provides material properties by domain attribute
type MaterialOperator struct {
	dim  int
	data map[int]*materialData
}

func NewMaterialOperator(dim int, materials []Material) (mo *MaterialOperator, err error) {
	if dim != 2 && dim != 3 {
		return nil, fmt.Errorf("unsupported space dimension %d", dim)
	}
	mo = &MaterialOperator{dim: dim, data: make(map[int]*materialData)}
	for i, m := range materials {
		md, err := newMaterialData(dim, m)
		if err != nil {
			return nil, fmt.Errorf("material %d: %w", i, err)
		}
		if len(m.Attributes) == 0 {
			return nil, fmt.Errorf("material %d: no attributes", i)
		}
		for _, attr := range m.Attributes {
			if _, dup := mo.data[attr]; dup {
				return nil, fmt.Errorf("material %d: attribute %d already has a material", i, attr)
			}
			mo.data[attr] = md
		}
	}
	return
}

func newMaterialData(dim int, m Material) (md *materialData, err error) {
	for _, T := range []struct {
		name string
		m    utils.Mat
	}{{"permittivity", m.Permittivity}, {"permeability", m.Permeability}} {
		if T.m.R != dim || T.m.C != dim {
			return nil, fmt.Errorf("%s is %dx%d, want %dx%d", T.name, T.m.R, T.m.C, dim, dim)
		}
		if !T.m.IsSymmetric(utils.NODETOL) {
			return nil, fmt.Errorf("%s is not symmetric", T.name)
		}
	}
	epsMin, err := minEigenvalue(m.Permittivity)
	if err != nil {
		return nil, fmt.Errorf("permittivity: %w", err)
	}
	muMin, err := minEigenvalue(m.Permeability)
	if err != nil {
		return nil, fmt.Errorf("permeability: %w", err)
	}
	var invMu mat.Dense
	if err = invMu.Inverse(m.Permeability.Dense()); err != nil {
		return nil, fmt.Errorf("permeability is not invertible: %w", err)
	}
	md = &materialData{
		epsReal:       m.Permittivity,
		invMu:         utils.MatFromDense(&invMu),
		lightSpeedMax: 1. / math.Sqrt(epsMin*muMin),
	}
	return
}

// minEigenvalue returns the smallest eigenvalue of a symmetric positive
// definite tensor
func minEigenvalue(A utils.Mat) (lmin float64, err error) {
	n := A.R
	S := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			S.SetSym(i, j, A.At(i, j))
		}
	}
	var eig mat.EigenSym
	if ok := eig.Factorize(S, false); !ok {
		return 0, fmt.Errorf("eigen decomposition failed")
	}
	vals := eig.Values(nil)
	lmin = vals[0]
	for _, v := range vals[1:] {
		lmin = math.Min(lmin, v)
	}
	if lmin <= 0 {
		return 0, fmt.Errorf("tensor is not positive definite, minimum eigenvalue %g", lmin)
	}
	return
}

func (mo *MaterialOperator) get(attr int) *materialData {
	md, ok := mo.data[attr]
	if !ok {
		panic(fmt.Errorf("no material defined for attribute %d", attr))
	}
	return md
}

func (mo *MaterialOperator) SpaceDimension() int { return mo.dim }

// GetPermittivityReal returns the real permittivity tensor ε of attr
func (mo *MaterialOperator) GetPermittivityReal(attr int) utils.Mat { return mo.get(attr).epsReal }

// GetInvPermeability returns μ⁻¹ of attr
func (mo *MaterialOperator) GetInvPermeability(attr int) utils.Mat { return mo.get(attr).invMu }

// GetLightSpeedMax returns the largest phase velocity in attr,
// 1/sqrt(λmin(ε) λmin(μ)) relative to the vacuum speed of light.
func (mo *MaterialOperator) GetLightSpeedMax(attr int) float64 { return mo.get(attr).lightSpeedMax }

// Attributes returns the sorted attributes with a material
func (mo *MaterialOperator) Attributes() (attrs []int) {
	for attr := range mo.data {
		attrs = append(attrs, attr)
	}
	sort.Ints(attrs)
	return
}

// TensorFromList builds a dim x dim tensor from 1 value (isotropic), dim values
// (diagonal) or dim*dim values (row major).
func TensorFromList(dim int, vals []float64) (T utils.Mat, err error) {
	switch len(vals) {
	case 1:
		T = utils.NewDiagMat(dim, vals[0])
	case dim:
		T = utils.NewMat(dim, dim)
		for i, v := range vals {
			T.Set(i, i, v)
		}
	case dim * dim:
		T = utils.NewMat(dim, dim, vals...)
	default:
		err = fmt.Errorf("tensor needs 1, %d or %d values, have %d", dim, dim*dim, len(vals))
	}
	return
}
