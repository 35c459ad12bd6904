package mesh

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/notargets/emfield/types"
)

// ElementType is the simplex shape of a domain or boundary element
type ElementType int

const (
	Point ElementType = iota
	Line
	Triangle
	Tet
)

func (e ElementType) String() string {
	return [...]string{"Point", "Line", "Triangle", "Tet"}[e]
}

// Dim is the reference dimension of the element
func (e ElementType) Dim() int { return int(e) }

func (e ElementType) NumVertices() int { return int(e) + 1 }

// FaceType is the shape of the element's faces
func (e ElementType) FaceType() ElementType {
	if e == Point {
		panic("a point element has no faces")
	}
	return e - 1
}

// Face is a unique element face. Elem2 is -1 for a face on the exterior of the
// mesh.
type Face struct {
	Vertices       []int // Sorted vertex indices
	Elem1, Local1  int   // First element attached, and its local face id
	Elem2, Local2  int
	BdrElement     int // Boundary element lying on this face, or -1
	numAttachments int
}

// Mesh is a simplicial mesh of domain elements with attribute tags and
// boundary elements, which may lie on the exterior or on interior faces.
type Mesh struct {
	Dim int // Space dimension, 2 or 3

	// Geometry
	Vertices [][]float64 // Vertex coordinates [nvertices][3]

	// Domain elements
	EtoV         [][]int
	ElementTypes []ElementType
	ElementTags  []int // Attribute (material region) of each element

	// Boundary elements
	BEtoV         [][]int
	BElementTypes []ElementType
	BElementTags  []int // Attribute (boundary region) of each boundary element

	// Connectivity (built by BuildConnectivity)
	EToE [][]int // Element to neighbor element, -1 on the exterior
	EToF [][]int // Element to face index into Faces
	BToF []int   // Boundary element to face index into Faces
	EToP []int   // Element to partition mapping, optional

	Faces   []Face
	FaceMap map[types.FaceKey]int

	PhysicalNames map[int]string
	NodeIDMap     map[int]int // File node id to vertex index

	NumElements    int
	NumBdrElements int
	NumVertices    int
	NumFaces       int
}

func NewMesh(dim int) *Mesh {
	if dim != 2 && dim != 3 {
		panic(fmt.Errorf("unsupported space dimension %d, need 2 or 3", dim))
	}
	return &Mesh{
		Dim:           dim,
		FaceMap:       make(map[types.FaceKey]int),
		PhysicalNames: make(map[int]string),
		NodeIDMap:     make(map[int]int),
	}
}

// AddVertex appends a vertex and returns its index. Missing coordinates are 0.
func (m *Mesh) AddVertex(x ...float64) (idx int) {
	coords := make([]float64, 3)
	copy(coords, x)
	m.Vertices = append(m.Vertices, coords)
	m.NumVertices = len(m.Vertices)
	return m.NumVertices - 1
}

// AddElement appends a full-dimensional element with attribute tag
func (m *Mesh) AddElement(geom ElementType, tag int, verts ...int) (idx int) {
	if geom.Dim() != m.Dim {
		panic(fmt.Errorf("element type %s does not match mesh dimension %d", geom, m.Dim))
	}
	m.checkVerts(geom, verts)
	m.EtoV = append(m.EtoV, append([]int(nil), verts...))
	m.ElementTypes = append(m.ElementTypes, geom)
	m.ElementTags = append(m.ElementTags, tag)
	m.NumElements = len(m.EtoV)
	return m.NumElements - 1
}

// AddBdrElement appends a boundary element with attribute tag. The vertex order
// sets the natural normal of the boundary element.
func (m *Mesh) AddBdrElement(geom ElementType, tag int, verts ...int) (idx int) {
	if geom.Dim() != m.Dim-1 {
		panic(fmt.Errorf("boundary element type %s does not match mesh dimension %d", geom, m.Dim))
	}
	m.checkVerts(geom, verts)
	m.BEtoV = append(m.BEtoV, append([]int(nil), verts...))
	m.BElementTypes = append(m.BElementTypes, geom)
	m.BElementTags = append(m.BElementTags, tag)
	m.NumBdrElements = len(m.BEtoV)
	return m.NumBdrElements - 1
}

func (m *Mesh) checkVerts(geom ElementType, verts []int) {
	if len(verts) != geom.NumVertices() {
		panic(fmt.Errorf("element type %s expects %d vertices, got %d",
			geom, geom.NumVertices(), len(verts)))
	}
	for _, v := range verts {
		if v < 0 || v >= m.NumVertices {
			panic(fmt.Errorf("vertex index %d out of range [0,%d)", v, m.NumVertices))
		}
	}
}

// BuildConnectivity builds element-to-element and face connectivity, then
// attaches each boundary element to the face it lies on.
func (m *Mesh) BuildConnectivity() error {
	m.EToE = make([][]int, m.NumElements)
	m.EToF = make([][]int, m.NumElements)
	m.Faces = m.Faces[:0]
	m.FaceMap = make(map[types.FaceKey]int)

	for elemID := 0; elemID < m.NumElements; elemID++ {
		faceVertices := GetElementFaces(m.ElementTypes[elemID], m.EtoV[elemID])
		m.EToE[elemID] = make([]int, len(faceVertices))
		m.EToF[elemID] = make([]int, len(faceVertices))

		for localFaceID, faceVerts := range faceVertices {
			key := types.NewFaceKey(faceVerts)
			m.EToE[elemID][localFaceID] = -1
			if faceID, exists := m.FaceMap[key]; exists {
				face := &m.Faces[faceID]
				if face.numAttachments == 2 {
					return fmt.Errorf("face %v is shared by more than two elements (%d, %d, %d)",
						face.Vertices, face.Elem1, face.Elem2, elemID)
				}
				face.Elem2, face.Local2 = elemID, localFaceID
				face.numAttachments++
				m.EToE[elemID][localFaceID] = face.Elem1
				m.EToE[face.Elem1][face.Local1] = elemID
				m.EToF[elemID][localFaceID] = faceID
			} else {
				m.Faces = append(m.Faces, Face{
					Vertices:       key.GetVertices(),
					Elem1:          elemID,
					Local1:         localFaceID,
					Elem2:          -1,
					Local2:         -1,
					BdrElement:     -1,
					numAttachments: 1,
				})
				faceID = len(m.Faces) - 1
				m.FaceMap[key] = faceID
				m.EToF[elemID][localFaceID] = faceID
			}
		}
	}
	m.NumFaces = len(m.Faces)

	m.BToF = make([]int, m.NumBdrElements)
	for b, verts := range m.BEtoV {
		faceID, ok := m.FaceMap[types.NewFaceKey(verts)]
		if !ok {
			return fmt.Errorf("boundary element %d (vertices %v) does not lie on an element face", b, verts)
		}
		if other := m.Faces[faceID].BdrElement; other != -1 {
			return fmt.Errorf("boundary elements %d and %d share face %v", other, b, m.Faces[faceID].Vertices)
		}
		m.Faces[faceID].BdrElement = b
		m.BToF[b] = faceID
	}
	slog.Debug("mesh connectivity built",
		"elements", m.NumElements, "boundaryElements", m.NumBdrElements, "faces", m.NumFaces)
	return nil
}

// GetElementFaces returns the face vertices for each element type
func GetElementFaces(elemType ElementType, vertices []int) [][]int {
	switch elemType {
	case Tet:
		return [][]int{
			{vertices[0], vertices[2], vertices[1]}, // Face 0
			{vertices[0], vertices[1], vertices[3]}, // Face 1
			{vertices[1], vertices[2], vertices[3]}, // Face 2
			{vertices[0], vertices[3], vertices[2]}, // Face 3
		}
	case Triangle:
		return [][]int{
			{vertices[0], vertices[1]}, // Face 0
			{vertices[1], vertices[2]}, // Face 1
			{vertices[2], vertices[0]}, // Face 2
		}
	case Line:
		return [][]int{{vertices[0]}, {vertices[1]}}
	default:
		return [][]int{}
	}
}

// BdrElementNeighbors returns the domain elements on either side of boundary
// element b. e2 is -1 when b is on the exterior of the mesh.
func (m *Mesh) BdrElementNeighbors(b int) (e1, e2 int) {
	face := &m.Faces[m.BToF[b]]
	return face.Elem1, face.Elem2
}

// Attributes returns the sorted set of domain element attributes
func (m *Mesh) Attributes() []int { return uniqueSorted(m.ElementTags) }

// BdrAttributes returns the sorted set of boundary element attributes
func (m *Mesh) BdrAttributes() []int { return uniqueSorted(m.BElementTags) }

func uniqueSorted(tags []int) (u []int) {
	seen := make(map[int]bool)
	for _, t := range tags {
		if !seen[t] {
			seen[t] = true
			u = append(u, t)
		}
	}
	sort.Ints(u)
	return
}

// PrintStatistics prints mesh statistics
func (m *Mesh) PrintStatistics() {
	fmt.Printf("Mesh Statistics:\n")
	fmt.Printf("  Dimension: %d\n", m.Dim)
	fmt.Printf("  Vertices: %d\n", m.NumVertices)
	fmt.Printf("  Elements: %d, attributes %v\n", m.NumElements, m.Attributes())
	fmt.Printf("  Boundary elements: %d, attributes %v\n", m.NumBdrElements, m.BdrAttributes())
	fmt.Printf("  Faces: %d\n", m.NumFaces)
	for _, tag := range append(m.Attributes(), m.BdrAttributes()...) {
		if name, ok := m.PhysicalNames[tag]; ok {
			fmt.Printf("  [%d] = %q\n", tag, name)
		}
	}
}
