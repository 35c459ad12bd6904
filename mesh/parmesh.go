package mesh

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/notargets/emfield/utils"
)

// FaceType identifies how a boundary element connects its two sides
type FaceType uint8

const (
	BoundaryFace FaceType = iota // Exterior, one side only
	InteriorFace                 // Both sides owned by this rank
	RemoteFace                   // Side 2 is owned by another rank
)

/*
ParMesh is one rank's view of a partitioned Mesh. The global Mesh is shared
read-only across ranks. A rank owns the elements EToP assigns to it, and owns
each boundary element whose first face element is local, so side 1 of an owned
boundary element is always local. Elements across a face that belong to
another rank are face neighbors (ghosts); their field data arrives by exchange.
*/
type ParMesh struct {
	*Mesh
	Rank, NumRanks int
	EToP           []int // Element to rank, shared by all views of one partitioning

	Elements    []int // Owned domain elements, ascending
	elemIndex   map[int]int
	BdrElements []int // Owned boundary elements, ascending
	BdrFaceType []FaceType

	FaceNbrElements []int       // Ghost elements, ascending
	FaceNbrRanks    []int       // Owning rank of each ghost
	faceNbrIndex    map[int]int // Global element to ghost index

	// SendLists holds, per remote rank, the owned elements that rank holds as
	// face neighbors.
	SendLists map[int][]int
}

// NewSerialParMesh wraps m as a single partition
func NewSerialParMesh(m *Mesh) *ParMesh {
	pms, err := PartitionWith(m, 1, make([]int, m.NumElements))
	if err != nil {
		panic(err)
	}
	return pms[0]
}

// Partition splits m into nparts rank views. The mesh EToP is used when it
// covers every element, otherwise elements are split into contiguous blocks.
func Partition(m *Mesh, nparts int) (pms []*ParMesh, err error) {
	if nparts < 1 {
		return nil, fmt.Errorf("partition count must be positive, have %d", nparts)
	}
	etop := m.EToP
	if len(etop) != m.NumElements {
		etop = utils.NewPartitionMap(nparts, m.NumElements).Owners()
	}
	return PartitionWith(m, nparts, etop)
}

// PartitionWith splits m into nparts rank views following etop
func PartitionWith(m *Mesh, nparts int, etop []int) (pms []*ParMesh, err error) {
	if m.EToE == nil {
		return nil, fmt.Errorf("mesh connectivity has not been built")
	}
	if len(etop) != m.NumElements {
		return nil, fmt.Errorf("partition map covers %d elements, mesh has %d", len(etop), m.NumElements)
	}
	for e, p := range etop {
		if p < 0 || p >= nparts {
			return nil, fmt.Errorf("element %d assigned to partition %d, outside [0,%d)", e, p, nparts)
		}
	}

	pms = make([]*ParMesh, nparts)
	for r := range pms {
		pms[r] = &ParMesh{
			Mesh:         m,
			EToP:         etop,
			Rank:         r,
			NumRanks:     nparts,
			elemIndex:    make(map[int]int),
			faceNbrIndex: make(map[int]int),
			SendLists:    make(map[int][]int),
		}
	}
	for e, p := range etop {
		pms[p].elemIndex[e] = len(pms[p].Elements)
		pms[p].Elements = append(pms[p].Elements, e)
	}
	for b := 0; b < m.NumBdrElements; b++ {
		e1, e2 := m.BdrElementNeighbors(b)
		pm := pms[etop[e1]]
		pm.BdrElements = append(pm.BdrElements, b)
		switch {
		case e2 < 0:
			pm.BdrFaceType = append(pm.BdrFaceType, BoundaryFace)
		case etop[e2] == pm.Rank:
			pm.BdrFaceType = append(pm.BdrFaceType, InteriorFace)
		default:
			pm.BdrFaceType = append(pm.BdrFaceType, RemoteFace)
		}
	}
	for _, pm := range pms {
		pm.buildFaceNeighbors()
	}
	for _, pm := range pms {
		for _, e := range pm.FaceNbrElements {
			owner := pms[etop[e]]
			owner.SendLists[pm.Rank] = append(owner.SendLists[pm.Rank], e)
		}
	}
	slog.Debug("mesh partitioned", "ranks", nparts, "elements", m.NumElements)
	return
}

func (pm *ParMesh) buildFaceNeighbors() {
	ghosts := make(map[int]bool)
	for _, e := range pm.Elements {
		for _, nbr := range pm.EToE[e] {
			if nbr >= 0 && pm.EToP[nbr] != pm.Rank {
				ghosts[nbr] = true
			}
		}
	}
	for e := range ghosts {
		pm.FaceNbrElements = append(pm.FaceNbrElements, e)
	}
	sort.Ints(pm.FaceNbrElements)
	pm.FaceNbrRanks = make([]int, len(pm.FaceNbrElements))
	for i, e := range pm.FaceNbrElements {
		pm.faceNbrIndex[e] = i
		pm.FaceNbrRanks[i] = pm.EToP[e]
	}
}

// IsLocal reports whether domain element e is owned by this rank
func (pm *ParMesh) IsLocal(e int) bool { return pm.EToP[e] == pm.Rank }

// LocalIndex returns the position of owned element e in Elements
func (pm *ParMesh) LocalIndex(e int) (idx int, ok bool) {
	idx, ok = pm.elemIndex[e]
	return
}

// FaceNbrIndex returns the ghost index of element e
func (pm *ParMesh) FaceNbrIndex(e int) (idx int, ok bool) {
	idx, ok = pm.faceNbrIndex[e]
	return
}

// NumFaceNbrElements is the number of ghost elements
func (pm *ParMesh) NumFaceNbrElements() int { return len(pm.FaceNbrElements) }
