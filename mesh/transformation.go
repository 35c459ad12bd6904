package mesh

import (
	"fmt"
	"math"

	"github.com/notargets/emfield/utils"
)

type ElementKind uint8

const (
	DomainElement ElementKind = iota
	BoundaryElement
)

func (k ElementKind) String() string {
	return [...]string{"DomainElement", "BoundaryElement"}[k]
}

// IntegrationPoint is a point in reference coordinates with its quadrature
// weight. Unused coordinates are zero.
type IntegrationPoint struct {
	X, Y, Z, Weight float64
}

/*
ElementTransformation is the affine map x = v0 + J ξ from the reference simplex
to a mesh element, J being SpaceDim x Geom.Dim(). It is filled in place by
Mesh.ElementTransformation or Mesh.BdrElementTransformation so that it can be
reused across elements without allocation.
*/
type ElementTransformation struct {
	Kind      ElementKind
	ElementNo int
	Attribute int
	Geom      ElementType
	SpaceDim  int

	V0   utils.Vec
	J    utils.Mat
	Jinv utils.Mat // Only for domain elements
	DetJ float64   // Signed determinant for domain elements, measure otherwise

	ip IntegrationPoint
}

// ElementTransformation fills T for domain element e
func (m *Mesh) ElementTransformation(e int, T *ElementTransformation) {
	m.fillTransformation(T, DomainElement, e, m.ElementTypes[e], m.ElementTags[e], m.EtoV[e])
	T.DetJ = det(T.J)
	if T.DetJ == 0 {
		panic(fmt.Errorf("element %d is degenerate", e))
	}
	T.Jinv = inverse(T.J, T.DetJ)
}

// BdrElementTransformation fills T for boundary element b
func (m *Mesh) BdrElementTransformation(b int, T *ElementTransformation) {
	m.fillTransformation(T, BoundaryElement, b, m.BElementTypes[b], m.BElementTags[b], m.BEtoV[b])
	switch T.Geom {
	case Triangle:
		var n utils.Vec
		utils.Cross3(T.J.Col(0), T.J.Col(1), &n, false)
		T.DetJ = n.Norml2()
	case Line:
		T.DetJ = T.J.Col(0).Norml2()
	default:
		T.DetJ = 1
	}
	T.Jinv = utils.Mat{}
}

func (m *Mesh) fillTransformation(T *ElementTransformation, kind ElementKind, no int,
	geom ElementType, attr int, verts []int) {
	T.Kind, T.ElementNo, T.Geom, T.Attribute = kind, no, geom, attr
	T.SpaceDim = m.Dim
	T.V0 = utils.VecFromSlice(m.Vertices[verts[0]][:m.Dim])
	T.J = utils.NewMat(m.Dim, geom.Dim())
	for j := 1; j < len(verts); j++ {
		x := m.Vertices[verts[j]]
		for i := 0; i < m.Dim; i++ {
			T.J.D[i][j-1] = x[i] - T.V0.D[i]
		}
	}
	T.ip = IntegrationPoint{}
}

func (T *ElementTransformation) SetIntPoint(ip IntegrationPoint) { T.ip = ip }

func (T *ElementTransformation) IntPoint() IntegrationPoint { return T.ip }

// Transform maps a reference point to physical coordinates
func (T *ElementTransformation) Transform(ip IntegrationPoint) (x utils.Vec) {
	x = T.V0
	ref := [3]float64{ip.X, ip.Y, ip.Z}
	for i := 0; i < T.SpaceDim; i++ {
		for j := 0; j < T.J.C; j++ {
			x.D[i] += T.J.D[i][j] * ref[j]
		}
	}
	return
}

// InverseTransform maps a physical point to reference coordinates of a domain
// element.
func (T *ElementTransformation) InverseTransform(x utils.Vec) (ip IntegrationPoint) {
	if T.Kind != DomainElement {
		panic(fmt.Errorf("inverse transform of a %s is undefined", T.Kind))
	}
	d := x
	d.Sub(T.V0)
	var ref utils.Vec
	T.Jinv.Mult(d, &ref)
	ip.X, ip.Y, ip.Z = ref.D[0], ref.D[1], ref.D[2]
	return
}

// Weight is the measure scaling of the map, |det J| for domain elements and
// the face area or edge length ratio for boundary elements.
func (T *ElementTransformation) Weight() float64 { return math.Abs(T.DetJ) }

// Centroid returns the physical coordinates of the element centroid
func (T *ElementTransformation) Centroid() utils.Vec {
	c := 1. / float64(T.Geom.NumVertices())
	ip := IntegrationPoint{X: c}
	if T.Geom.Dim() > 1 {
		ip.Y = c
	}
	if T.Geom.Dim() > 2 {
		ip.Z = c
	}
	return T.Transform(ip)
}

// Barycentric returns the barycentric coordinates of ip, the first
// Geom.NumVertices() entries are in use.
func (T *ElementTransformation) Barycentric(ip IntegrationPoint) (lam [4]float64) {
	ref := [3]float64{ip.X, ip.Y, ip.Z}
	lam[0] = 1
	for j := 0; j < T.Geom.Dim(); j++ {
		lam[j+1] = ref[j]
		lam[0] -= ref[j]
	}
	return
}

func det(J utils.Mat) float64 {
	d := J.D
	switch J.R {
	case 2:
		return d[0][0]*d[1][1] - d[0][1]*d[1][0]
	case 3:
		return d[0][0]*(d[1][1]*d[2][2]-d[1][2]*d[2][1]) -
			d[0][1]*(d[1][0]*d[2][2]-d[1][2]*d[2][0]) +
			d[0][2]*(d[1][0]*d[2][1]-d[1][1]*d[2][0])
	default:
		panic(fmt.Errorf("determinant of a %dx%d matrix", J.R, J.C))
	}
}

// inverse by the adjugate, used per element so it stays off the heap
func inverse(J utils.Mat, detJ float64) (Ji utils.Mat) {
	d := J.D
	Ji = utils.NewMat(J.R, J.C)
	oodet := 1. / detJ
	switch J.R {
	case 2:
		Ji.D[0][0] = d[1][1] * oodet
		Ji.D[0][1] = -d[0][1] * oodet
		Ji.D[1][0] = -d[1][0] * oodet
		Ji.D[1][1] = d[0][0] * oodet
	case 3:
		Ji.D[0][0] = (d[1][1]*d[2][2] - d[1][2]*d[2][1]) * oodet
		Ji.D[0][1] = (d[0][2]*d[2][1] - d[0][1]*d[2][2]) * oodet
		Ji.D[0][2] = (d[0][1]*d[1][2] - d[0][2]*d[1][1]) * oodet
		Ji.D[1][0] = (d[1][2]*d[2][0] - d[1][0]*d[2][2]) * oodet
		Ji.D[1][1] = (d[0][0]*d[2][2] - d[0][2]*d[2][0]) * oodet
		Ji.D[1][2] = (d[0][2]*d[1][0] - d[0][0]*d[1][2]) * oodet
		Ji.D[2][0] = (d[1][0]*d[2][1] - d[1][1]*d[2][0]) * oodet
		Ji.D[2][1] = (d[0][1]*d[2][0] - d[0][0]*d[2][1]) * oodet
		Ji.D[2][2] = (d[0][0]*d[1][1] - d[0][1]*d[1][0]) * oodet
	}
	return
}
