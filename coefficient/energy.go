package coefficient

import (
	"fmt"
	"math"

	"github.com/notargets/emfield/mesh"
	"github.com/notargets/emfield/types"
	"github.com/notargets/emfield/utils"
)

/*
EnergyDensityCoefficient returns ½ Dᴴ E (electric, U = E) or ½ Hᴴ B (magnetic,
U = B) for real symmetric material tensors. Domain elements are evaluated
directly. On an interior boundary the value is taken from the side with the
larger light speed when preferLowIndex is set, side 1 otherwise, or the larger
of the two when both sides have the same material speed.
*/
type EnergyDensityCoefficient struct {
	resolver       *NeighborResolver
	Type           types.EnergyDensityType
	U              ComplexVectorField
	mat            MaterialProperties
	preferLowIndex bool
}

func NewEnergyDensityCoefficient(r *NeighborResolver, energyType types.EnergyDensityType,
	U ComplexVectorField, mat MaterialProperties, preferLowIndex bool) (c *EnergyDensityCoefficient, err error) {
	if U.Re == nil {
		return nil, fmt.Errorf("%s energy density coefficient needs a field", energyType)
	}
	c = &EnergyDensityCoefficient{
		resolver:       r,
		Type:           energyType,
		U:              U,
		mat:            mat,
		preferLowIndex: preferLowIndex,
	}
	return
}

func (c *EnergyDensityCoefficient) Mode() types.CombineMode { return types.SingleSide }

func (c *EnergyDensityCoefficient) Eval(ctx *EvalContext, T *mesh.ElementTransformation,
	ip mesh.IntegrationPoint) float64 {
	switch T.Kind {
	case mesh.DomainElement:
		T.SetIntPoint(ip)
		return c.localEnergyDensity(T)
	case mesh.BoundaryElement:
		nbr := c.resolver.Resolve(ctx, T.ElementNo, ip)
		switch singleSide(c.mat, nbr, c.preferLowIndex) {
		case bothSides:
			return math.Max(c.localEnergyDensity(&nbr.Elem1), c.localEnergyDensity(&nbr.Elem2))
		case side2:
			return c.localEnergyDensity(&nbr.Elem2)
		default:
			return c.localEnergyDensity(&nbr.Elem1)
		}
	}
	panic(fmt.Errorf("unsupported element type %s in EnergyDensityCoefficient", T.Kind))
}

func (c *EnergyDensityCoefficient) localEnergyDensity(T *mesh.ElementTransformation) float64 {
	var M utils.Mat
	switch c.Type {
	case types.EnergyElectric:
		// Only the real part of the permittivity contributes
		M = c.mat.GetPermittivityReal(T.Attribute)
	case types.EnergyMagnetic:
		M = c.mat.GetInvPermeability(T.Attribute)
	default:
		panic(fmt.Errorf("unknown energy density type %d", c.Type))
	}
	V := c.U.Re.GetVectorValue(T)
	dot := M.InnerProduct(V, V)
	if c.U.HasImag() {
		V = c.U.Im.GetVectorValue(T)
		dot += M.InnerProduct(V, V)
	}
	return 0.5 * dot
}

// PoyntingVectorCoefficient returns the time averaged Poynting vector
// Re{E x H*} without the usual factor of ½, with the same side selection as
// EnergyDensityCoefficient.
type PoyntingVectorCoefficient struct {
	resolver       *NeighborResolver
	E, B           ComplexVectorField
	mat            MaterialProperties
	preferLowIndex bool
}

func NewPoyntingVectorCoefficient(r *NeighborResolver, E, B ComplexVectorField,
	mat MaterialProperties, preferLowIndex bool) (c *PoyntingVectorCoefficient, err error) {
	if E.Re == nil || B.Re == nil {
		return nil, fmt.Errorf("Poynting vector coefficient needs E and B fields")
	}
	if E.HasImag() != B.HasImag() {
		return nil, fmt.Errorf("Poynting vector coefficient needs E and B both real or both complex")
	}
	if mat.SpaceDimension() != 3 {
		return nil, fmt.Errorf("Poynting vector coefficient needs a 3D mesh, have %dD", mat.SpaceDimension())
	}
	c = &PoyntingVectorCoefficient{
		resolver:       r,
		E:              E,
		B:              B,
		mat:            mat,
		preferLowIndex: preferLowIndex,
	}
	return
}

func (c *PoyntingVectorCoefficient) VDim() int { return 3 }

func (c *PoyntingVectorCoefficient) Mode() types.CombineMode { return types.SingleSide }

func (c *PoyntingVectorCoefficient) Eval(ctx *EvalContext, T *mesh.ElementTransformation,
	ip mesh.IntegrationPoint) utils.Vec {
	switch T.Kind {
	case mesh.DomainElement:
		T.SetIntPoint(ip)
		return c.localPower(T)
	case mesh.BoundaryElement:
		nbr := c.resolver.Resolve(ctx, T.ElementNo, ip)
		switch singleSide(c.mat, nbr, c.preferLowIndex) {
		case bothSides:
			V, W := c.localPower(&nbr.Elem1), c.localPower(&nbr.Elem2)
			if V.Norml2Sq() < W.Norml2Sq() {
				return W
			}
			return V
		case side2:
			return c.localPower(&nbr.Elem2)
		default:
			return c.localPower(&nbr.Elem1)
		}
	}
	panic(fmt.Errorf("unsupported element type %s in PoyntingVectorCoefficient", T.Kind))
}

func (c *PoyntingVectorCoefficient) localPower(T *mesh.ElementTransformation) (V utils.Vec) {
	var H utils.Vec
	invMu := c.mat.GetInvPermeability(T.Attribute)
	invMu.Mult(c.B.Re.GetVectorValue(T), &H)
	utils.Cross3(c.E.Re.GetVectorValue(T), H, &V, false)
	if c.E.HasImag() {
		invMu.Mult(c.B.Im.GetVectorValue(T), &H)
		utils.Cross3(c.E.Im.GetVectorValue(T), H, &V, true)
	}
	return
}

// BdrFieldVectorCoefficient returns a vector field on boundary elements, from
// the side chosen as for EnergyDensityCoefficient.
type BdrFieldVectorCoefficient struct {
	resolver       *NeighborResolver
	U              VectorField
	mat            MaterialProperties
	preferLowIndex bool
}

func NewBdrFieldVectorCoefficient(r *NeighborResolver, U VectorField, mat MaterialProperties,
	preferLowIndex bool) (c *BdrFieldVectorCoefficient, err error) {
	if U == nil {
		return nil, fmt.Errorf("boundary field coefficient needs a field")
	}
	return &BdrFieldVectorCoefficient{resolver: r, U: U, mat: mat, preferLowIndex: preferLowIndex}, nil
}

func (c *BdrFieldVectorCoefficient) VDim() int { return c.mat.SpaceDimension() }

func (c *BdrFieldVectorCoefficient) Mode() types.CombineMode { return types.SingleSide }

func (c *BdrFieldVectorCoefficient) Eval(ctx *EvalContext, T *mesh.ElementTransformation,
	ip mesh.IntegrationPoint) utils.Vec {
	checkBoundary(T, "BdrFieldVectorCoefficient")
	nbr := c.resolver.Resolve(ctx, T.ElementNo, ip)
	switch singleSide(c.mat, nbr, c.preferLowIndex) {
	case bothSides:
		V, W := c.U.GetVectorValue(&nbr.Elem1), c.U.GetVectorValue(&nbr.Elem2)
		if V.Norml2Sq() < W.Norml2Sq() {
			return W
		}
		return V
	case side2:
		return c.U.GetVectorValue(&nbr.Elem2)
	default:
		return c.U.GetVectorValue(&nbr.Elem1)
	}
}

// BdrFieldCoefficient is the scalar BdrFieldVectorCoefficient, keeping the
// larger value when both sides are equivalent.
type BdrFieldCoefficient struct {
	resolver       *NeighborResolver
	U              ScalarField
	mat            MaterialProperties
	preferLowIndex bool
}

func NewBdrFieldCoefficient(r *NeighborResolver, U ScalarField, mat MaterialProperties,
	preferLowIndex bool) (c *BdrFieldCoefficient, err error) {
	if U == nil {
		return nil, fmt.Errorf("boundary field coefficient needs a field")
	}
	return &BdrFieldCoefficient{resolver: r, U: U, mat: mat, preferLowIndex: preferLowIndex}, nil
}

func (c *BdrFieldCoefficient) Mode() types.CombineMode { return types.SingleSide }

func (c *BdrFieldCoefficient) Eval(ctx *EvalContext, T *mesh.ElementTransformation,
	ip mesh.IntegrationPoint) float64 {
	checkBoundary(T, "BdrFieldCoefficient")
	nbr := c.resolver.Resolve(ctx, T.ElementNo, ip)
	switch singleSide(c.mat, nbr, c.preferLowIndex) {
	case bothSides:
		return math.Max(c.U.GetValue(&nbr.Elem1), c.U.GetValue(&nbr.Elem2))
	case side2:
		return c.U.GetValue(&nbr.Elem2)
	default:
		return c.U.GetValue(&nbr.Elem1)
	}
}
