package field

import (
	"fmt"

	"github.com/notargets/emfield/mesh"
	"github.com/notargets/emfield/utils"
)

/*
GridFunction is a discontinuous, piecewise linear field on one partition. Each
owned element stores VDim values at each of its vertices, so values may jump
across element faces. Face neighbor (ghost) elements owned by other ranks keep
the same layout in FaceNbrData, filled by ExchangeFaceNbrData.

	Data layout: [element][vertex][component]
*/
type GridFunction struct {
	PM          *mesh.ParMesh
	VDim        int
	Data        []float64
	FaceNbrData []float64

	nodesPerElem  int
	faceNbrFilled bool
}

func NewGridFunction(pm *mesh.ParMesh, vdim int) (gf *GridFunction) {
	if vdim < 1 || vdim > utils.MaxDim {
		panic(fmt.Errorf("vector dimension %d out of range [1,%d]", vdim, utils.MaxDim))
	}
	nv := pm.Dim + 1
	gf = &GridFunction{
		PM:           pm,
		VDim:         vdim,
		Data:         make([]float64, len(pm.Elements)*nv*vdim),
		FaceNbrData:  make([]float64, pm.NumFaceNbrElements()*nv*vdim),
		nodesPerElem: nv,
	}
	return
}

// elementData returns the nodal values of global element e, which must be
// owned by or a face neighbor of this partition.
func (gf *GridFunction) elementData(e int) []float64 {
	stride := gf.nodesPerElem * gf.VDim
	if k, ok := gf.PM.LocalIndex(e); ok {
		return gf.Data[k*stride : (k+1)*stride]
	}
	if k, ok := gf.PM.FaceNbrIndex(e); ok {
		if debugAssert && !gf.faceNbrFilled {
			panic(fmt.Errorf("face neighbor data for element %d read before exchange", e))
		}
		return gf.FaceNbrData[k*stride : (k+1)*stride]
	}
	panic(fmt.Errorf("element %d is neither local nor a face neighbor on rank %d", e, gf.PM.Rank))
}

// SetElementData sets the nodal values of owned element e, ordered by vertex
// then component.
func (gf *GridFunction) SetElementData(e int, vals ...float64) {
	k, ok := gf.PM.LocalIndex(e)
	if !ok {
		panic(fmt.Errorf("element %d is not owned by rank %d", e, gf.PM.Rank))
	}
	stride := gf.nodesPerElem * gf.VDim
	if len(vals) != stride {
		panic(fmt.Errorf("element %d needs %d values, have %d", e, stride, len(vals)))
	}
	copy(gf.Data[k*stride:], vals)
	gf.faceNbrFilled = false
}

// GetVectorValue evaluates the field at the integration point set on T, which
// must be a domain element transformation.
func (gf *GridFunction) GetVectorValue(T *mesh.ElementTransformation) (v utils.Vec) {
	if T.Kind != mesh.DomainElement {
		panic(fmt.Errorf("grid function evaluated on a %s", T.Kind))
	}
	data := gf.elementData(T.ElementNo)
	lam := T.Barycentric(T.IntPoint())
	v.N = gf.VDim
	for n := 0; n < gf.nodesPerElem; n++ {
		for c := 0; c < gf.VDim; c++ {
			v.D[c] += lam[n] * data[n*gf.VDim+c]
		}
	}
	return
}

// GetValue evaluates a scalar field at the integration point set on T
func (gf *GridFunction) GetValue(T *mesh.ElementTransformation) float64 {
	if gf.VDim != 1 {
		panic(fmt.Errorf("scalar value requested from a field of dimension %d", gf.VDim))
	}
	return gf.GetVectorValue(T).D[0]
}

// ProjectFunc interpolates f at the vertices of every owned element. f
// receives the element attribute and vertex coordinates and writes VDim
// values into out.
func (gf *GridFunction) ProjectFunc(f func(attr int, x utils.Vec, out *utils.Vec)) {
	var (
		x, out utils.Vec
		stride = gf.nodesPerElem * gf.VDim
		m      = gf.PM.Mesh
	)
	for k, e := range gf.PM.Elements {
		for n, vert := range m.EtoV[e] {
			x = utils.VecFromSlice(m.Vertices[vert][:m.Dim])
			out = utils.NewVec(gf.VDim)
			f(m.ElementTags[e], x, &out)
			copy(gf.Data[k*stride+n*gf.VDim:], out.Slice())
		}
	}
	gf.faceNbrFilled = false
}

// ComplexGridFunction is a time-harmonic field, Imag is nil for a real field
type ComplexGridFunction struct {
	Real, Imag *GridFunction
}

func NewComplexGridFunction(pm *mesh.ParMesh, vdim int, isComplex bool) (cgf *ComplexGridFunction) {
	cgf = &ComplexGridFunction{Real: NewGridFunction(pm, vdim)}
	if isComplex {
		cgf.Imag = NewGridFunction(pm, vdim)
	}
	return
}

func (cgf *ComplexGridFunction) HasImag() bool { return cgf != nil && cgf.Imag != nil }
