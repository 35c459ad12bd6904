package coefficient

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/emfield/materials"
	"github.com/notargets/emfield/mesh"
	"github.com/notargets/emfield/types"
	"github.com/notargets/emfield/utils"
)

// twoTetMesh has two tets sharing the face {1,2,3} (the plane x+y+z=1), a
// boundary element on that face (tag 10) and one on z=0 (tag 20).
func twoTetMesh(t *testing.T) *mesh.Mesh {
	m := mesh.NewMesh(3)
	m.AddVertex(0, 0, 0)
	m.AddVertex(1, 0, 0)
	m.AddVertex(0, 1, 0)
	m.AddVertex(0, 0, 1)
	m.AddVertex(1, 1, 1)
	m.AddElement(mesh.Tet, 1, 0, 1, 2, 3)
	m.AddElement(mesh.Tet, 2, 1, 2, 3, 4)
	m.AddBdrElement(mesh.Triangle, 10, 1, 2, 3)
	m.AddBdrElement(mesh.Triangle, 20, 0, 1, 2)
	require.NoError(t, m.BuildConnectivity())
	return m
}

// fakeMaterial has isotropic tensors per attribute
type fakeMaterial struct {
	dim        int
	eps, invMu map[int]float64
	lightSpeed map[int]float64
}

func newFakeMaterial(dim int) *fakeMaterial {
	return &fakeMaterial{
		dim:        dim,
		eps:        map[int]float64{1: 1, 2: 1},
		invMu:      map[int]float64{1: 1, 2: 1},
		lightSpeed: map[int]float64{1: 1, 2: 1},
	}
}

func (f *fakeMaterial) SpaceDimension() int { return f.dim }
func (f *fakeMaterial) GetPermittivityReal(attr int) utils.Mat {
	return utils.NewDiagMat(f.dim, f.eps[attr])
}
func (f *fakeMaterial) GetInvPermeability(attr int) utils.Mat {
	return utils.NewDiagMat(f.dim, f.invMu[attr])
}
func (f *fakeMaterial) GetLightSpeedMax(attr int) float64 { return f.lightSpeed[attr] }

// attrVectorField is constant on each element attribute
type attrVectorField map[int]utils.Vec

func (f attrVectorField) GetVectorValue(T *mesh.ElementTransformation) utils.Vec {
	return f[T.Attribute]
}

type attrScalarField map[int]float64

func (f attrScalarField) GetValue(T *mesh.ElementTransformation) float64 { return f[T.Attribute] }

func vec3(x, y, z float64) utils.Vec { return utils.NewVec(3, x, y, z) }

func assertVecInDelta(t *testing.T, expected, actual utils.Vec, delta float64) {
	t.Helper()
	require.Equal(t, expected.N, actual.N)
	for i := 0; i < expected.N; i++ {
		assert.InDeltaf(t, expected.At(i), actual.At(i), delta, "component %d", i)
	}
}

func TestNeighborResolver(t *testing.T) {
	m := twoTetMesh(t)
	r := NewNeighborResolver(mesh.NewSerialParMesh(m))
	ctx := NewEvalContext()

	ip := mesh.IntegrationPoint{X: 0.2, Y: 0.3}
	nbr := r.Resolve(ctx, 0, ip)
	assert.Equal(t, 0, nbr.Elem1.ElementNo)
	assert.Equal(t, 1, nbr.Elem1.Attribute)
	require.True(t, nbr.HasElem2)
	assert.Equal(t, 1, nbr.Elem2.ElementNo)
	// The natural normal (1,1,1) of the shared face points out of element 0
	assert.True(t, nbr.Invert)

	var bdr mesh.ElementTransformation
	m.BdrElementTransformation(0, &bdr)
	x := bdr.Transform(ip)
	assertVecInDelta(t, x, nbr.Elem1.Transform(nbr.Elem1.IntPoint()), 1.e-14)
	assertVecInDelta(t, x, nbr.Elem2.Transform(nbr.Elem2.IntPoint()), 1.e-14)

	// Same boundary element, new point: the cached sides follow the point
	ip2 := mesh.IntegrationPoint{X: 0.5, Y: 0.1}
	nbr = r.Resolve(ctx, 0, ip2)
	assertVecInDelta(t, bdr.Transform(ip2), nbr.Elem1.Transform(nbr.Elem1.IntPoint()), 1.e-14)

	nbr = r.Resolve(ctx, 1, ip)
	assert.Equal(t, 0, nbr.Elem1.ElementNo)
	assert.False(t, nbr.HasElem2)
	assert.False(t, nbr.Invert)

	// A second resolver never reuses the first one's cache
	r2 := NewNeighborResolver(mesh.NewSerialParMesh(m))
	nbr = r2.Resolve(ctx, 0, ip)
	assert.True(t, nbr.HasElem2)

	{ // Boundary elements of another rank are rejected
		pms, err := mesh.PartitionWith(m, 2, []int{1, 0})
		require.NoError(t, err)
		assert.Panics(t, func() { NewNeighborResolver(pms[0]).Resolve(NewEvalContext(), 1, ip) })
	}
}

func TestNormal(t *testing.T) {
	m := twoTetMesh(t)
	var T mesh.ElementTransformation
	m.BdrElementTransformation(1, &T)
	assert.Equal(t, vec3(0, 0, 1), Normal(&T, false))
	assert.Equal(t, vec3(0, 0, -1), Normal(&T, true))

	m.BdrElementTransformation(0, &T)
	s := 1 / math.Sqrt(3)
	assertVecInDelta(t, vec3(s, s, s), Normal(&T, false), 1.e-15)

	{ // 2D boundary edge from (0,0) to (1,0)
		m2 := mesh.NewMesh(2)
		m2.AddVertex(0, 0)
		m2.AddVertex(1, 0)
		m2.AddVertex(0, 1)
		m2.AddElement(mesh.Triangle, 1, 0, 1, 2)
		m2.AddBdrElement(mesh.Line, 5, 0, 1)
		require.NoError(t, m2.BuildConnectivity())
		m2.BdrElementTransformation(0, &T)
		assert.Equal(t, utils.NewVec(2, 0, -1), Normal(&T, false))
	}
}

func TestSideSelection(t *testing.T) {
	mat := newFakeMaterial(3)
	mat.lightSpeed[2] = 2

	// Decisions depend on material data alone
	for i := 0; i < 3; i++ {
		assert.False(t, BothSidesEquivalent(mat, 1, 2))
		assert.False(t, BothSidesEquivalent(mat, 2, 1))
		assert.True(t, BothSidesEquivalent(mat, 1, 1))
		assert.True(t, PreferSide2(mat, 1, 2, true))
		assert.False(t, PreferSide2(mat, 2, 1, true))
		assert.False(t, PreferSide2(mat, 1, 2, false))
		assert.False(t, PreferSide2(mat, 1, 1, true))
	}

	m := twoTetMesh(t)
	r := NewNeighborResolver(mesh.NewSerialParMesh(m))
	ctx := NewEvalContext()
	nbr := r.Resolve(ctx, 0, mesh.IntegrationPoint{})
	assert.Equal(t, side2, singleSide(mat, nbr, true))
	assert.Equal(t, side1, singleSide(mat, nbr, false))
	mat.lightSpeed[2] = 1
	assert.Equal(t, bothSides, singleSide(mat, nbr, true))
	nbr = r.Resolve(ctx, 1, mesh.IntegrationPoint{})
	assert.Equal(t, side1, singleSide(mat, nbr, true))
}

func TestSurfaceCurrent(t *testing.T) {
	m := twoTetMesh(t)
	pm := mesh.NewSerialParMesh(m)
	r := NewNeighborResolver(pm)
	mat := newFakeMaterial(3)
	mat.invMu[2] = 0.5
	B := attrVectorField{1: vec3(0, 0, 1), 2: vec3(0, 0, 6)}

	c, err := NewSurfaceCurrentCoefficient(r, B, mat)
	require.NoError(t, err)
	assert.Equal(t, types.SumAntisymmetric, c.Mode())
	assert.Equal(t, 3, c.VDim())

	var T mesh.ElementTransformation
	pm.BdrElementTransformation(0, &T)
	ctx := NewEvalContext()
	// n = -(1,1,1)/√3 into element 0, n x (0,0,1-3)
	s := 2 / math.Sqrt(3)
	J := c.Eval(ctx, &T, mesh.IntegrationPoint{X: 0.25, Y: 0.25})
	assertVecInDelta(t, vec3(s, -s, 0), J, 1.e-15)

	{ // Swapping the sides or inverting the normal negates the current exactly
		nbr := *r.Resolve(ctx, 0, mesh.IntegrationPoint{})
		J = c.evalNeighbors(&T, &nbr)

		swapped := nbr
		swapped.Elem1, swapped.Elem2 = nbr.Elem2, nbr.Elem1
		Jswap := c.evalNeighbors(&T, &swapped)
		inverted := nbr
		inverted.Invert = !nbr.Invert
		Jinv := c.evalNeighbors(&T, &inverted)
		both := swapped
		both.Invert = !nbr.Invert
		Jboth := c.evalNeighbors(&T, &both)
		for i := 0; i < 3; i++ {
			assert.Equal(t, -J.At(i), Jswap.At(i))
			assert.Equal(t, -J.At(i), Jinv.At(i))
			assert.Equal(t, J.At(i), Jboth.At(i))
		}
	}

	{ // Exterior boundary, one side: n = (0,0,1) so a z directed B carries no current
		pm.BdrElementTransformation(1, &T)
		assertVecInDelta(t, vec3(0, 0, 0), c.Eval(ctx, &T, mesh.IntegrationPoint{}), 0)
	}

	{ // Contract violations
		var Td mesh.ElementTransformation
		pm.ElementTransformation(0, &Td)
		assert.Panics(t, func() { c.Eval(ctx, &Td, mesh.IntegrationPoint{}) })
		_, err = NewSurfaceCurrentCoefficient(r, nil, mat)
		assert.Error(t, err)
		_, err = NewSurfaceCurrentCoefficient(r, B, newFakeMaterial(2))
		assert.Error(t, err)
	}
}

func TestSurfaceFlux(t *testing.T) {
	m := twoTetMesh(t)
	pm := mesh.NewSerialParMesh(m)
	r := NewNeighborResolver(pm)
	mat := newFakeMaterial(3)
	ctx := NewEvalContext()
	B := attrVectorField{1: vec3(0, 0, 2), 2: vec3(0, 0, 2)}
	ip := mesh.IntegrationPoint{X: 1. / 3, Y: 1. / 3}

	var T mesh.ElementTransformation
	pm.BdrElementTransformation(1, &T)
	{ // Center above the z=0 boundary: the sample lies below it, opposite n, so the sign flips
		c, err := NewSurfaceFluxCoefficient(r, types.FluxMagnetic, nil, B, mat, false, vec3(0, 0, 1))
		require.NoError(t, err)
		assert.Equal(t, types.Average, c.Mode())
		assert.Equal(t, -2., c.Eval(ctx, &T, ip))
	}
	{ // Center below: no flip
		c, err := NewSurfaceFluxCoefficient(r, types.FluxMagnetic, nil, B, mat, false, vec3(0, 0, -1))
		require.NoError(t, err)
		assert.Equal(t, 2., c.Eval(ctx, &T, ip))
	}
	{ // Two sided flux is never flipped
		c, err := NewSurfaceFluxCoefficient(r, types.FluxMagnetic, nil, B, mat, true, vec3(0, 0, 1))
		require.NoError(t, err)
		assert.Equal(t, types.SumAntisymmetric, c.Mode())
		assert.Equal(t, 2., c.Eval(ctx, &T, ip))
	}

	pm.BdrElementTransformation(0, &T)
	n := -1 / math.Sqrt(3)
	E := attrVectorField{1: vec3(1, 1, 1), 2: vec3(3, 3, 3)}
	mat.eps[2] = 2
	{ // Interior face, two sided: (εE1 - εE2)·n with n into element 0
		c, err := NewSurfaceFluxCoefficient(r, types.FluxElectric, E, nil, mat, true, utils.Vec{})
		require.NoError(t, err)
		assert.InDelta(t, 3*(1-6)*n, c.Eval(ctx, &T, ip), 1.e-14)
	}
	{ // Averaged, then oriented away from the origin along (1,1,1)
		c, err := NewSurfaceFluxCoefficient(r, types.FluxElectric, E, nil, mat, false, utils.Vec{})
		require.NoError(t, err)
		assert.InDelta(t, -3*3.5*n, c.Eval(ctx, &T, ip), 1.e-14)
	}
	{ // Power flux through z=0 of E x H with E = x, H = y
		pm.BdrElementTransformation(1, &T)
		Ex := attrVectorField{1: vec3(1, 0, 0)}
		By := attrVectorField{1: vec3(0, 1, 0)}
		c, err := NewSurfaceFluxCoefficient(r, types.FluxPower, Ex, By, mat, true, utils.Vec{})
		require.NoError(t, err)
		assert.Equal(t, 1., c.Eval(ctx, &T, ip))
	}

	{ // Construction failures
		_, err := NewSurfaceFluxCoefficient(r, types.FluxMagnetic, E, nil, mat, false, utils.Vec{})
		assert.Error(t, err)
		_, err = NewSurfaceFluxCoefficient(r, types.FluxElectric, nil, B, mat, false, utils.Vec{})
		assert.Error(t, err)
		_, err = NewSurfaceFluxCoefficient(r, types.FluxPower, E, B, newFakeMaterial(2), false, utils.Vec{})
		assert.Error(t, err)
		_, err = NewSurfaceFluxCoefficient(r, types.FluxElectric, E, nil, mat, false, utils.NewVec(2))
		assert.Error(t, err)
	}
}

// interfaceMesh is one tet with a boundary triangle on x=0, whose normal into
// the tet is (1,0,0)
func interfaceMesh(t *testing.T) *mesh.Mesh {
	m := mesh.NewMesh(3)
	m.AddVertex(0, 0, 0)
	m.AddVertex(0, 1, 0)
	m.AddVertex(0, 0, 1)
	m.AddVertex(1, 0, 0)
	m.AddElement(mesh.Tet, 1, 0, 1, 2, 3)
	m.AddBdrElement(mesh.Triangle, 7, 0, 1, 2)
	require.NoError(t, m.BuildConnectivity())
	return m
}

func TestInterfaceDielectric(t *testing.T) {
	m := interfaceMesh(t)
	pm := mesh.NewSerialParMesh(m)
	r := NewNeighborResolver(pm)
	mat := newFakeMaterial(3)
	mat.eps[1] = 4
	ctx := NewEvalContext()
	E := ComplexVectorField{Re: attrVectorField{1: vec3(1, 0, 0)}}

	var T mesh.ElementTransformation
	pm.BdrElementTransformation(0, &T)
	ip := mesh.IntegrationPoint{X: 0.25, Y: 0.25}
	assert.Equal(t, vec3(1, 0, 0), Normal(&T, r.Resolve(ctx, 0, ip).Invert))

	var testCases = []struct {
		model    types.InterfaceDielectricType
		expected float64
	}{
		{types.InterfaceDefault, 3},
		{types.InterfaceMetalAir, 0.75},
		{types.InterfaceSubstrateAir, 0.75},
		// (ε_S E)_n = 4
		{types.InterfaceMetalSubstrate, 12},
	}
	for _, tc := range testCases {
		c, err := NewInterfaceDielectricCoefficient(r, tc.model, E, mat, 3, 2, false)
		require.NoError(t, err)
		assert.Equal(t, types.SingleSide, c.Mode())
		assert.Equalf(t, tc.expected, c.Eval(ctx, &T, ip), "%s", tc.model)
	}

	{ // The imaginary part adds under the same formula
		Ec := ComplexVectorField{Re: E.Re, Im: attrVectorField{1: vec3(0, 2, 0)}}
		c, err := NewInterfaceDielectricCoefficient(r, types.InterfaceSubstrateAir, Ec, mat, 3, 2, false)
		require.NoError(t, err)
		// Tangential 4 from the imaginary part: 0.5*3*(2*4 + 1/2)
		assert.Equal(t, 12.75, c.Eval(ctx, &T, ip))
	}

	_, err := NewInterfaceDielectricCoefficient(r, types.InterfaceDefault, ComplexVectorField{}, mat, 3, 2, false)
	assert.Error(t, err)
	_, err = NewInterfaceDielectricCoefficient(r, types.InterfaceMetalAir, E, mat, 3, 0, false)
	assert.Error(t, err)
}

func TestInterfaceDielectricSideSelection(t *testing.T) {
	m := twoTetMesh(t)
	pm := mesh.NewSerialParMesh(m)
	r := NewNeighborResolver(pm)
	mat := newFakeMaterial(3)
	ctx := NewEvalContext()
	E := ComplexVectorField{Re: attrVectorField{1: vec3(1, 0, 0), 2: vec3(0, 2, 0)}}
	var T mesh.ElementTransformation
	pm.BdrElementTransformation(0, &T)

	c, err := NewInterfaceDielectricCoefficient(r, types.InterfaceDefault, E, mat, 1, 2, true)
	require.NoError(t, err)
	// Equivalent sides keep the larger field, from side 2
	assert.Equal(t, 4., c.Eval(ctx, &T, mesh.IntegrationPoint{}))

	mat.lightSpeed[1] = 2
	// Side 1 is faster, side 2 is never preferred
	assert.Equal(t, 1., c.Eval(ctx, &T, mesh.IntegrationPoint{}))

	{ // Metal-substrate takes ε_S from the side used
		mat.lightSpeed[1], mat.lightSpeed[2] = 1, 2
		mat.eps[2] = 3
		c, err = NewInterfaceDielectricCoefficient(r, types.InterfaceMetalSubstrate, E, mat, 2, 1, true)
		require.NoError(t, err)
		nbr := r.Resolve(ctx, 0, mesh.IntegrationPoint{})
		normal := Normal(&T, nbr.Invert)
		en := 6 * normal.At(1)
		assert.InDelta(t, en*en, c.Eval(ctx, &T, mesh.IntegrationPoint{}), 1.e-14)
	}
}

func TestEnergyDensity(t *testing.T) {
	m := twoTetMesh(t)
	pm := mesh.NewSerialParMesh(m)
	r := NewNeighborResolver(pm)
	mo, err := materials.NewMaterialOperator(3, []materials.Material{
		{
			Attributes:   []int{1},
			Permittivity: utils.NewMat(3, 3, 2, 1, 0, 1, 3, 0, 0, 0, 4),
			Permeability: utils.NewDiagMat(3, 2),
		},
		{
			Attributes:   []int{2},
			Permittivity: utils.NewDiagMat(3, 1),
			Permeability: utils.NewDiagMat(3, 1),
		},
	})
	require.NoError(t, err)
	ctx := NewEvalContext()
	E := attrVectorField{1: vec3(1, 2, 3), 2: vec3(1, 0, 0)}

	var T mesh.ElementTransformation
	pm.ElementTransformation(0, &T)
	{ // No imaginary part: ½ E·εE with εE = (4,7,12)
		c, err := NewEnergyDensityCoefficient(r, types.EnergyElectric, ComplexVectorField{Re: E}, mo, false)
		require.NoError(t, err)
		assert.Equal(t, 27., c.Eval(ctx, &T, mesh.IntegrationPoint{}))
	}
	{
		Ec := ComplexVectorField{Re: E, Im: attrVectorField{1: vec3(0, 0, 1)}}
		c, err := NewEnergyDensityCoefficient(r, types.EnergyElectric, Ec, mo, false)
		require.NoError(t, err)
		assert.Equal(t, 29., c.Eval(ctx, &T, mesh.IntegrationPoint{}))
	}
	{ // Magnetic, μ⁻¹ = ½
		c, err := NewEnergyDensityCoefficient(r, types.EnergyMagnetic, ComplexVectorField{Re: E}, mo, false)
		require.NoError(t, err)
		assert.InDelta(t, 3.5, c.Eval(ctx, &T, mesh.IntegrationPoint{}), 1.e-14)
	}

	pm.BdrElementTransformation(0, &T)
	{ // Side 2 is faster: used only when preferred
		require.Greater(t, mo.GetLightSpeedMax(2), mo.GetLightSpeedMax(1))
		c, err := NewEnergyDensityCoefficient(r, types.EnergyElectric, ComplexVectorField{Re: E}, mo, true)
		require.NoError(t, err)
		assert.Equal(t, 0.5, c.Eval(ctx, &T, mesh.IntegrationPoint{X: 0.1, Y: 0.1}))
		c.preferLowIndex = false
		assert.Equal(t, 27., c.Eval(ctx, &T, mesh.IntegrationPoint{X: 0.1, Y: 0.1}))
	}
	{ // Equivalent sides keep the larger value
		mat := newFakeMaterial(3)
		c, err := NewEnergyDensityCoefficient(r, types.EnergyElectric,
			ComplexVectorField{Re: attrVectorField{1: vec3(1, 0, 0), 2: vec3(0, 0, 2)}}, mat, false)
		require.NoError(t, err)
		assert.Equal(t, 2., c.Eval(ctx, &T, mesh.IntegrationPoint{}))
	}

	_, err = NewEnergyDensityCoefficient(r, types.EnergyMagnetic, ComplexVectorField{}, mo, false)
	assert.Error(t, err)
}

func TestPoyntingVector(t *testing.T) {
	m := twoTetMesh(t)
	pm := mesh.NewSerialParMesh(m)
	r := NewNeighborResolver(pm)
	mat := newFakeMaterial(3)
	mat.invMu[1] = 2
	ctx := NewEvalContext()
	E := ComplexVectorField{Re: attrVectorField{1: vec3(1, 0, 0), 2: vec3(0, 1, 0)}}
	B := ComplexVectorField{Re: attrVectorField{1: vec3(0, 1, 0), 2: vec3(0, 0, 1)}}

	c, err := NewPoyntingVectorCoefficient(r, E, B, mat, false)
	require.NoError(t, err)
	assert.Equal(t, 3, c.VDim())
	var T mesh.ElementTransformation
	pm.ElementTransformation(0, &T)
	assert.Equal(t, vec3(0, 0, 2), c.Eval(ctx, &T, mesh.IntegrationPoint{}))

	// Equivalent sides: (0,0,2) on side 1 beats (1,0,0) on side 2
	pm.BdrElementTransformation(0, &T)
	assert.Equal(t, vec3(0, 0, 2), c.Eval(ctx, &T, mesh.IntegrationPoint{}))

	{ // Real and imaginary parts accumulate
		Ec := ComplexVectorField{Re: E.Re, Im: attrVectorField{1: vec3(0, 1, 0)}}
		Bc := ComplexVectorField{Re: B.Re, Im: attrVectorField{1: vec3(0, 0, 1)}}
		c, err = NewPoyntingVectorCoefficient(r, Ec, Bc, mat, false)
		require.NoError(t, err)
		pm.ElementTransformation(0, &T)
		assert.Equal(t, vec3(2, 0, 2), c.Eval(ctx, &T, mesh.IntegrationPoint{}))
	}

	_, err = NewPoyntingVectorCoefficient(r, E, ComplexVectorField{}, mat, false)
	assert.Error(t, err)
	_, err = NewPoyntingVectorCoefficient(r, E, B, newFakeMaterial(2), false)
	assert.Error(t, err)
	_, err = NewPoyntingVectorCoefficient(r, ComplexVectorField{Re: E.Re, Im: E.Re}, B, mat, false)
	assert.Error(t, err)
}

func TestBdrField(t *testing.T) {
	m := twoTetMesh(t)
	pm := mesh.NewSerialParMesh(m)
	r := NewNeighborResolver(pm)
	mat := newFakeMaterial(3)
	ctx := NewEvalContext()

	cv, err := NewBdrFieldVectorCoefficient(r, attrVectorField{1: vec3(1, 0, 0), 2: vec3(0, -3, 0)}, mat, true)
	require.NoError(t, err)
	cs, err := NewBdrFieldCoefficient(r, attrScalarField{1: 5, 2: -7}, mat, true)
	require.NoError(t, err)

	var T mesh.ElementTransformation
	pm.BdrElementTransformation(0, &T)
	// Equivalent sides: larger magnitude vector, larger scalar value
	assert.Equal(t, vec3(0, -3, 0), cv.Eval(ctx, &T, mesh.IntegrationPoint{}))
	assert.Equal(t, 5., cs.Eval(ctx, &T, mesh.IntegrationPoint{}))

	mat.lightSpeed[2] = 3
	assert.Equal(t, -7., cs.Eval(ctx, &T, mesh.IntegrationPoint{}))
	mat.lightSpeed[1] = 4
	assert.Equal(t, vec3(1, 0, 0), cv.Eval(ctx, &T, mesh.IntegrationPoint{}))

	pm.ElementTransformation(0, &T)
	assert.Panics(t, func() { cs.Eval(ctx, &T, mesh.IntegrationPoint{}) })
	_, err = NewBdrFieldCoefficient(r, nil, mat, true)
	assert.Error(t, err)
}
