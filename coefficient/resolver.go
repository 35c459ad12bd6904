package coefficient

import (
	"fmt"

	"github.com/notargets/emfield/mesh"
)

// FaceNeighbors holds the domain elements on either side of a boundary
// element, each with its integration point set to the boundary sample.
type FaceNeighbors struct {
	Elem1, Elem2 mesh.ElementTransformation
	HasElem2     bool
	// Invert is set when the natural normal of the boundary element points
	// out of Elem1
	Invert bool
}

// EvalContext is scratch space for one evaluating goroutine. It caches the
// neighbors of the last boundary element resolved.
type EvalContext struct {
	resolver *NeighborResolver
	bdrElem  int
	bdr      mesh.ElementTransformation
	nbr      FaceNeighbors
}

func NewEvalContext() *EvalContext { return &EvalContext{bdrElem: -1} }

// Invalidate drops the cached boundary element
func (ctx *EvalContext) Invalidate() {
	ctx.resolver, ctx.bdrElem = nil, -1
}

// NeighborResolver finds the domain elements adjacent to the boundary
// elements owned by one partition. Side 2 may be a face neighbor element, so
// fields evaluated on the result must have had their face neighbor data
// exchanged.
type NeighborResolver struct {
	pm *mesh.ParMesh
}

func NewNeighborResolver(pm *mesh.ParMesh) *NeighborResolver {
	return &NeighborResolver{pm: pm}
}

func (r *NeighborResolver) ParMesh() *mesh.ParMesh { return r.pm }

// Resolve returns the neighbors of boundary element b with their integration
// points set to ip mapped through b. The result lives in ctx and is valid
// until the next call with ctx.
func (r *NeighborResolver) Resolve(ctx *EvalContext, b int, ip mesh.IntegrationPoint) *FaceNeighbors {
	nbr := &ctx.nbr
	if ctx.resolver != r || ctx.bdrElem != b {
		r.fill(ctx, b)
	}
	x := ctx.bdr.Transform(ip)
	nbr.Elem1.SetIntPoint(nbr.Elem1.InverseTransform(x))
	if nbr.HasElem2 {
		nbr.Elem2.SetIntPoint(nbr.Elem2.InverseTransform(x))
	}
	return nbr
}

func (r *NeighborResolver) fill(ctx *EvalContext, b int) {
	e1, e2 := r.pm.BdrElementNeighbors(b)
	if !r.pm.IsLocal(e1) {
		panic(fmt.Errorf("boundary element %d is not owned by rank %d", b, r.pm.Rank))
	}
	nbr := &ctx.nbr
	r.pm.BdrElementTransformation(b, &ctx.bdr)
	r.pm.ElementTransformation(e1, &nbr.Elem1)
	nbr.HasElem2 = e2 >= 0
	if nbr.HasElem2 {
		r.pm.ElementTransformation(e2, &nbr.Elem2)
	}

	// Orient by which side of the boundary element the centroid of Elem1 lies
	n := Normal(&ctx.bdr, false)
	d := nbr.Elem1.Centroid()
	d.Sub(ctx.bdr.Centroid())
	nbr.Invert = d.Dot(n) < 0
	ctx.resolver, ctx.bdrElem = r, b
}

// checkBoundary panics unless T is a boundary element transformation
func checkBoundary(T *mesh.ElementTransformation, name string) {
	if T.Kind != mesh.BoundaryElement {
		panic(fmt.Errorf("unexpected element type %s in %s", T.Kind, name))
	}
}
