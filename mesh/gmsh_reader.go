package mesh

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// gmshElementType2_2 maps Gmsh 2.2 element types to simplex types. Second
// order simplices keep only their corner nodes, the geometry is affine.
var gmshElementType2_2 = map[int]ElementType{
	15: Point,
	1:  Line,
	2:  Triangle,
	4:  Tet,
	8:  Line,     // Line3
	9:  Triangle, // Triangle6
	11: Tet,      // Tet10
}

type gmshElement struct {
	elemType ElementType
	tag      int
	nodeIDs  []int
}

// ReadGmsh22 reads an ASCII Gmsh 2.2 format file. Elements of the highest
// dimension present become domain elements, those one dimension lower become
// boundary elements, and the first (physical) tag is the attribute.
func ReadGmsh22(filename string) (*Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	m, err := ReadGmsh22From(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return m, nil
}

func ReadGmsh22From(r io.Reader) (*Mesh, error) {
	scanner := bufio.NewScanner(r)

	// Increase scanner buffer for large files
	const maxScanTokenSize = 1024 * 1024 * 10 // 10MB
	buf := make([]byte, maxScanTokenSize)
	scanner.Buffer(buf, maxScanTokenSize)

	var (
		nodes    = make(map[int][]float64)
		nodeList []int
		elements []gmshElement
		names    = make(map[int]string)
		err      error
	)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "$MeshFormat":
			err = readMeshFormat(scanner)
		case "$PhysicalNames":
			err = readPhysicalNames(scanner, names)
		case "$Nodes":
			nodeList, err = readNodes(scanner, nodes)
		case "$Elements":
			elements, err = readElements(scanner)
		case "$NodeData", "$ElementData", "$ElementNodeData", "$Periodic":
			err = skipSection(scanner, "$End"+line[1:])
		}
		if err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %v", err)
	}
	return assembleMesh(nodeList, nodes, elements, names)
}

func assembleMesh(nodeList []int, nodes map[int][]float64, elements []gmshElement,
	names map[int]string) (*Mesh, error) {
	var dim int
	for _, e := range elements {
		dim = max(dim, e.elemType.Dim())
	}
	if dim < 2 {
		return nil, fmt.Errorf("mesh has no 2D or 3D elements")
	}
	m := NewMesh(dim)
	m.PhysicalNames = names
	for _, id := range nodeList {
		m.NodeIDMap[id] = m.AddVertex(nodes[id]...)
	}

	var skipped int
	for _, e := range elements {
		verts := make([]int, len(e.nodeIDs))
		for i, id := range e.nodeIDs {
			v, ok := m.NodeIDMap[id]
			if !ok {
				return nil, fmt.Errorf("element references undefined node %d", id)
			}
			verts[i] = v
		}
		switch e.elemType.Dim() {
		case dim:
			m.AddElement(e.elemType, e.tag, verts...)
		case dim - 1:
			m.AddBdrElement(e.elemType, e.tag, verts...)
		default:
			skipped++
		}
	}
	if skipped != 0 {
		slog.Debug("skipped lower dimensional gmsh elements", "count", skipped)
	}
	if err := m.BuildConnectivity(); err != nil {
		return nil, err
	}
	return m, nil
}

// readMeshFormat reads the MeshFormat section
func readMeshFormat(scanner *bufio.Scanner) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in MeshFormat")
	}

	parts := strings.Fields(scanner.Text())
	if len(parts) < 3 {
		return fmt.Errorf("invalid MeshFormat line")
	}
	if !strings.HasPrefix(parts[0], "2") {
		return fmt.Errorf("unsupported Gmsh version: %s", parts[0])
	}
	if parts[1] != "0" {
		return fmt.Errorf("binary Gmsh files are not supported")
	}
	return skipSection(scanner, "$EndMeshFormat")
}

// readPhysicalNames reads physical entity names
func readPhysicalNames(scanner *bufio.Scanner, names map[int]string) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in PhysicalNames")
	}

	numPhysical, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return fmt.Errorf("invalid number of physical names: %v", err)
	}

	for i := 0; i < numPhysical; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF in PhysicalNames")
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			return fmt.Errorf("invalid physical name entry")
		}

		tag, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("invalid physical tag: %v", err)
		}
		names[tag] = strings.Trim(strings.Join(fields[2:], " "), "\"")
	}
	return skipSection(scanner, "$EndPhysicalNames")
}

// readNodes reads the Nodes section, returning node ids in file order
func readNodes(scanner *bufio.Scanner, nodes map[int][]float64) (order []int, err error) {
	if !scanner.Scan() {
		return nil, fmt.Errorf("unexpected EOF in Nodes")
	}

	numNodes, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return nil, fmt.Errorf("invalid number of nodes: %v", err)
	}

	order = make([]int, 0, numNodes)
	for i := 0; i < numNodes; i++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("unexpected EOF in Nodes at node %d", i)
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			return nil, fmt.Errorf("invalid node entry at line %d", i+1)
		}

		nodeID, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("invalid node ID: %v", err)
		}
		if _, dup := nodes[nodeID]; dup {
			return nil, fmt.Errorf("duplicate node ID %d", nodeID)
		}

		coords := make([]float64, 3)
		for j := 0; j < 3; j++ {
			coords[j], err = strconv.ParseFloat(fields[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid coordinate: %v", err)
			}
		}
		nodes[nodeID] = coords
		order = append(order, nodeID)
	}
	return order, skipSection(scanner, "$EndNodes")
}

// readElements reads the Elements section
func readElements(scanner *bufio.Scanner) (elements []gmshElement, err error) {
	if !scanner.Scan() {
		return nil, fmt.Errorf("unexpected EOF in Elements")
	}

	numElems, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return nil, fmt.Errorf("invalid number of elements: %v", err)
	}

	for i := 0; i < numElems; i++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("unexpected EOF in Elements at element %d", i)
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			return nil, fmt.Errorf("invalid element entry at line %d", i+1)
		}

		gmshType, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("invalid element type: %v", err)
		}

		numTags, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("invalid number of tags: %v", err)
		}
		if numTags < 1 {
			return nil, fmt.Errorf("element %s has no physical tag", fields[0])
		}
		if 3+numTags > len(fields) {
			return nil, fmt.Errorf("insufficient fields for tags")
		}
		tag, err := strconv.Atoi(fields[3])
		if err != nil {
			return nil, fmt.Errorf("invalid tag: %v", err)
		}

		// Skip unknown element types
		elemType, ok := gmshElementType2_2[gmshType]
		if !ok {
			continue
		}

		startIdx := 3 + numTags
		nv := elemType.NumVertices()
		if len(fields)-startIdx < nv {
			return nil, fmt.Errorf("element type %v expects %d nodes, got %d",
				elemType, nv, len(fields)-startIdx)
		}
		nodeIDs := make([]int, nv)
		for j := 0; j < nv; j++ {
			nodeIDs[j], err = strconv.Atoi(fields[startIdx+j])
			if err != nil {
				return nil, fmt.Errorf("invalid node ID: %v", err)
			}
		}
		elements = append(elements, gmshElement{elemType: elemType, tag: tag, nodeIDs: nodeIDs})
	}
	return elements, skipSection(scanner, "$EndElements")
}

// skipSection skips to endTag
func skipSection(scanner *bufio.Scanner, endTag string) error {
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == endTag {
			return nil
		}
	}
	return fmt.Errorf("unexpected EOF looking for %s", endTag)
}
