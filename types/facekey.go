package types

import (
	"fmt"
	"sort"
)

/*
FaceKey is an order independent label for a simplex face of up to three
vertices. The sorted vertex indices are packed 21 bits each, offset by one so
that an edge {0,4} and a triangle {0,0,4} can never collide. Two faces compare
equal iff they share the same vertex set.
*/
type FaceKey uint64

const (
	faceKeyBits  = 21
	faceKeyLimit = 1<<faceKeyBits - 2
)

func NewFaceKey(verts []int) (packed FaceKey) {
	if len(verts) < 1 || len(verts) > 3 {
		panic(fmt.Errorf("face keys hold 1 to 3 vertices, have %d", len(verts)))
	}
	var sorted [3]int
	copy(sorted[:], verts)
	s := sorted[:len(verts)]
	sort.Ints(s)
	for _, vert := range s {
		if vert < 0 || vert > faceKeyLimit {
			panic(fmt.Errorf("unable to pack vertex %d into a face key, limit is %d",
				vert, faceKeyLimit))
		}
		packed = packed<<faceKeyBits | FaceKey(vert+1)
	}
	return
}

// GetVertices returns the sorted vertex indices packed into the key.
func (fk FaceKey) GetVertices() (verts []int) {
	mask := FaceKey(1<<faceKeyBits - 1)
	for fk != 0 {
		verts = append([]int{int(fk&mask) - 1}, verts...)
		fk >>= faceKeyBits
	}
	return
}
