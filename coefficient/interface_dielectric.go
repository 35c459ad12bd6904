package coefficient

import (
	"fmt"

	"github.com/notargets/emfield/mesh"
	"github.com/notargets/emfield/types"
	"github.com/notargets/emfield/utils"
)

/*
InterfaceDielectricCoefficient computes the energy stored in a thin lossy layer
of thickness t and permittivity ε on a boundary, from a single-sided value of E.
The four models follow Wenner et al., Appl. Phys. Lett. (2011):

	Default          ½ t ε |E|²
	Metal-Air        ½ t/ε |E_n|²
	Metal-Substrate  ½ t/ε |(ε_S E)_n|²    ε_S from the selected side's material
	Substrate-Air    ½ t (ε |E_t|² + |E_n|²/ε)

The imaginary part of E, when present, adds under the same formula.
*/
type InterfaceDielectricCoefficient struct {
	resolver       *NeighborResolver
	Type           types.InterfaceDielectricType
	E              ComplexVectorField
	mat            MaterialProperties
	Thickness      float64
	Permittivity   float64
	preferLowIndex bool
}

func NewInterfaceDielectricCoefficient(r *NeighborResolver, modelType types.InterfaceDielectricType,
	E ComplexVectorField, mat MaterialProperties, thickness, permittivity float64,
	preferLowIndex bool) (c *InterfaceDielectricCoefficient, err error) {
	if E.Re == nil {
		return nil, fmt.Errorf("interface dielectric coefficient needs an E field")
	}
	if permittivity == 0 {
		return nil, fmt.Errorf("interface dielectric permittivity must be nonzero")
	}
	c = &InterfaceDielectricCoefficient{
		resolver:       r,
		Type:           modelType,
		E:              E,
		mat:            mat,
		Thickness:      thickness,
		Permittivity:   permittivity,
		preferLowIndex: preferLowIndex,
	}
	return
}

func (c *InterfaceDielectricCoefficient) Mode() types.CombineMode { return types.SingleSide }

func (c *InterfaceDielectricCoefficient) Eval(ctx *EvalContext, T *mesh.ElementTransformation,
	ip mesh.IntegrationPoint) float64 {
	checkBoundary(T, "InterfaceDielectricCoefficient")
	return c.evalNeighbors(T, c.resolver.Resolve(ctx, T.ElementNo, ip))
}

func (c *InterfaceDielectricCoefficient) evalNeighbors(T *mesh.ElementTransformation,
	nbr *FaceNeighbors) float64 {
	var (
		t, eps = c.Thickness, c.Permittivity
		parts  = [2]VectorField{c.E.Re, c.E.Im}
		nparts = 1
	)
	if c.E.HasImag() {
		nparts = 2
	}
	switch c.Type {
	case types.InterfaceDefault:
		var V2 float64
		for _, U := range parts[:nparts] {
			V, _ := c.localVectorValue(U, nbr)
			V2 += V.Norml2Sq()
		}
		return 0.5 * t * eps * V2
	case types.InterfaceMetalAir:
		normal := Normal(T, nbr.Invert)
		var Vn2 float64
		for _, U := range parts[:nparts] {
			V, _ := c.localVectorValue(U, nbr)
			Vn := V.Dot(normal)
			Vn2 += Vn * Vn
		}
		return 0.5 * t / eps * Vn2
	case types.InterfaceMetalSubstrate:
		normal := Normal(T, nbr.Invert)
		var (
			Vn2  float64
			attr int
			W    utils.Vec
		)
		for i, U := range parts[:nparts] {
			V, a := c.localVectorValue(U, nbr)
			if i == 0 {
				// The real part picks the side for both parts
				attr = a
			}
			c.mat.GetPermittivityReal(attr).Mult(V, &W)
			Vn := W.Dot(normal)
			Vn2 += Vn * Vn
		}
		return 0.5 * t / eps * Vn2
	case types.InterfaceSubstrateAir:
		normal := Normal(T, nbr.Invert)
		var Vn2, Vt2 float64
		for _, U := range parts[:nparts] {
			V, _ := c.localVectorValue(U, nbr)
			Vn := V.Dot(normal)
			V.AddScaled(-Vn, normal)
			Vn2 += Vn * Vn
			Vt2 += V.Norml2Sq()
		}
		return 0.5 * t * (eps*Vt2 + Vn2/eps)
	default:
		panic(fmt.Errorf("unknown interface dielectric type %d", c.Type))
	}
}

// localVectorValue returns the single-sided value of U and the attribute of
// the side it was taken from
func (c *InterfaceDielectricCoefficient) localVectorValue(U VectorField,
	nbr *FaceNeighbors) (V utils.Vec, attr int) {
	switch singleSide(c.mat, nbr, c.preferLowIndex) {
	case bothSides:
		// Keep the side holding the larger solution, one is often zero
		V = U.GetVectorValue(&nbr.Elem1)
		W := U.GetVectorValue(&nbr.Elem2)
		if V.Norml2Sq() < W.Norml2Sq() {
			return W, nbr.Elem2.Attribute
		}
		return V, nbr.Elem1.Attribute
	case side2:
		return U.GetVectorValue(&nbr.Elem2), nbr.Elem2.Attribute
	default:
		return U.GetVectorValue(&nbr.Elem1), nbr.Elem1.Attribute
	}
}
