package coefficient

import (
	"fmt"

	"github.com/notargets/emfield/mesh"
	"github.com/notargets/emfield/utils"
)

// Normal returns the unit normal of boundary element T: the cross product of
// the tangent columns of the Jacobian in 3D, the tangent rotated clockwise in
// 2D. Passing FaceNeighbors.Invert as invert orients it into side 1.
func Normal(T *mesh.ElementTransformation, invert bool) (n utils.Vec) {
	J := T.J
	switch {
	case J.R == 3 && J.C == 2:
		utils.Cross3(J.Col(0), J.Col(1), &n, false)
	case J.R == 2 && J.C == 1:
		n = utils.NewVec(2, J.D[1][0], -J.D[0][0])
	default:
		panic(fmt.Errorf("no normal for a %dx%d surface Jacobian", J.R, J.C))
	}
	norm := n.Norml2()
	if norm == 0 {
		panic(fmt.Errorf("zero normal on boundary element %d", T.ElementNo))
	}
	if invert {
		norm = -norm
	}
	n.Scale(1 / norm)
	return
}

