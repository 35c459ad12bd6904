package coefficient

import (
	"fmt"

	"github.com/notargets/emfield/mesh"
	"github.com/notargets/emfield/types"
	"github.com/notargets/emfield/utils"
)

/*
SurfaceCurrentCoefficient computes Jₛ = n x μ⁻¹ B on boundary elements, n
pointing into side 1. On an interior boundary the two sides add with opposite
normals, Jₛ = n x μ⁻¹ (B1 - B2).
*/
type SurfaceCurrentCoefficient struct {
	resolver *NeighborResolver
	B        VectorField
	mat      MaterialProperties
}

func NewSurfaceCurrentCoefficient(r *NeighborResolver, B VectorField,
	mat MaterialProperties) (c *SurfaceCurrentCoefficient, err error) {
	if B == nil {
		return nil, fmt.Errorf("surface current coefficient needs a B field")
	}
	if mat.SpaceDimension() != 3 {
		return nil, fmt.Errorf("surface current coefficient needs a 3D mesh, have %dD",
			mat.SpaceDimension())
	}
	return &SurfaceCurrentCoefficient{resolver: r, B: B, mat: mat}, nil
}

func (c *SurfaceCurrentCoefficient) VDim() int { return 3 }

func (c *SurfaceCurrentCoefficient) Mode() types.CombineMode { return types.SumAntisymmetric }

func (c *SurfaceCurrentCoefficient) Eval(ctx *EvalContext, T *mesh.ElementTransformation,
	ip mesh.IntegrationPoint) utils.Vec {
	checkBoundary(T, "SurfaceCurrentCoefficient")
	return c.evalNeighbors(T, c.resolver.Resolve(ctx, T.ElementNo, ip))
}

func (c *SurfaceCurrentCoefficient) evalNeighbors(T *mesh.ElementTransformation,
	nbr *FaceNeighbors) (J utils.Vec) {
	var VU utils.Vec
	c.mat.GetInvPermeability(nbr.Elem1.Attribute).Mult(c.B.GetVectorValue(&nbr.Elem1), &VU)
	if nbr.HasElem2 {
		var VL utils.Vec
		c.mat.GetInvPermeability(nbr.Elem2.Attribute).Mult(c.B.GetVectorValue(&nbr.Elem2), &VL)
		VU.Sub(VL)
	}
	utils.Cross3(Normal(T, nbr.Invert), VU, &J, false)
	return
}

/*
SurfaceFluxCoefficient computes Φₛ = F·n on boundary elements, with F = ε E,
B or E x μ⁻¹ B by flux type. With twoSided the two sides of an interior
boundary add with opposite normals, otherwise they are averaged and the sign is
set so the flux points away from the center x0.
*/
type SurfaceFluxCoefficient struct {
	resolver *NeighborResolver
	Type     types.SurfaceFluxType
	E, B     VectorField
	mat      MaterialProperties
	twoSided bool
	x0       utils.Vec
}

func NewSurfaceFluxCoefficient(r *NeighborResolver, fluxType types.SurfaceFluxType, E, B VectorField,
	mat MaterialProperties, twoSided bool, x0 utils.Vec) (c *SurfaceFluxCoefficient, err error) {
	needE := fluxType == types.FluxElectric || fluxType == types.FluxPower
	needB := fluxType == types.FluxMagnetic || fluxType == types.FluxPower
	if (needE && E == nil) || (needB && B == nil) {
		return nil, fmt.Errorf("missing E or B field for %s surface flux coefficient", fluxType)
	}
	dim := mat.SpaceDimension()
	if fluxType == types.FluxPower && dim != 3 {
		return nil, fmt.Errorf("power flux coefficient needs a 3D mesh, have %dD", dim)
	}
	switch x0.N {
	case 0:
		x0 = utils.NewVec(dim)
	case dim:
	default:
		return nil, fmt.Errorf("flux center has dimension %d, mesh has %d", x0.N, dim)
	}
	c = &SurfaceFluxCoefficient{
		resolver: r,
		Type:     fluxType,
		E:        E,
		B:        B,
		mat:      mat,
		twoSided: twoSided,
		x0:       x0,
	}
	return
}

func (c *SurfaceFluxCoefficient) Mode() types.CombineMode {
	if c.twoSided {
		return types.SumAntisymmetric
	}
	return types.Average
}

func (c *SurfaceFluxCoefficient) Eval(ctx *EvalContext, T *mesh.ElementTransformation,
	ip mesh.IntegrationPoint) float64 {
	checkBoundary(T, "SurfaceFluxCoefficient")
	return c.evalNeighbors(T, ip, c.resolver.Resolve(ctx, T.ElementNo, ip))
}

func (c *SurfaceFluxCoefficient) evalNeighbors(T *mesh.ElementTransformation, ip mesh.IntegrationPoint,
	nbr *FaceNeighbors) float64 {
	VU := c.localFlux(&nbr.Elem1)
	if nbr.HasElem2 {
		VL := c.localFlux(&nbr.Elem2)
		if c.twoSided {
			VU.Sub(VL)
		} else {
			VU.Add(VL).Scale(0.5)
		}
	}

	normal := Normal(T, nbr.Invert)
	flux := VU.Dot(normal)
	if c.twoSided {
		return flux
	}
	// Orient outward from the surface center
	x := T.Transform(ip)
	x.Sub(c.x0)
	if x.Dot(normal) < 0 {
		return -flux
	}
	return flux
}

// localFlux returns F on one side
func (c *SurfaceFluxCoefficient) localFlux(T *mesh.ElementTransformation) (V utils.Vec) {
	switch c.Type {
	case types.FluxElectric:
		c.mat.GetPermittivityReal(T.Attribute).Mult(c.E.GetVectorValue(T), &V)
	case types.FluxMagnetic:
		V = c.B.GetVectorValue(T)
	case types.FluxPower:
		var H utils.Vec
		c.mat.GetInvPermeability(T.Attribute).Mult(c.B.GetVectorValue(T), &H)
		utils.Cross3(c.E.GetVectorValue(T), H, &V, false)
	default:
		panic(fmt.Errorf("unknown surface flux type %d", c.Type))
	}
	return
}
