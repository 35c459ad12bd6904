package postprocess

import (
	"context"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/emfield/coefficient"
	"github.com/notargets/emfield/mesh"
	"github.com/notargets/emfield/utils"
)

// DefaultOrder integrates products of two piecewise linear fields exactly
const DefaultOrder = 2

/*
Integrator applies quadrature of a fixed order over the elements owned by one
partition. It carries its own EvalContext, so an Integrator belongs to a single
goroutine.
*/
type Integrator struct {
	PM    *mesh.ParMesh
	Order int

	ctx   *coefficient.EvalContext
	rules map[mesh.ElementType][]mesh.IntegrationPoint
}

func NewIntegrator(pm *mesh.ParMesh, order int) *Integrator {
	if order < 1 {
		order = DefaultOrder
	}
	return &Integrator{
		PM:    pm,
		Order: order,
		ctx:   coefficient.NewEvalContext(),
		rules: make(map[mesh.ElementType][]mesh.IntegrationPoint),
	}
}

func (in *Integrator) rule(geom mesh.ElementType) []mesh.IntegrationPoint {
	ips, ok := in.rules[geom]
	if !ok {
		ips = mesh.IntRule(geom, in.Order)
		in.rules[geom] = ips
	}
	return ips
}

// forEachBdrPoint visits the quadrature points of owned boundary elements
// with an attribute in attrs, passing the physical weight of each point.
func (in *Integrator) forEachBdrPoint(attrs []int,
	f func(T *mesh.ElementTransformation, ip mesh.IntegrationPoint, w float64)) {
	in.ctx.Invalidate()
	marker := make(map[int]bool, len(attrs))
	for _, a := range attrs {
		marker[a] = true
	}
	var T mesh.ElementTransformation
	for _, b := range in.PM.BdrElements {
		if !marker[in.PM.BElementTags[b]] {
			continue
		}
		in.PM.BdrElementTransformation(b, &T)
		for _, ip := range in.rule(T.Geom) {
			f(&T, ip, ip.Weight*T.Weight())
		}
	}
}

// BoundaryScalar returns ∫ c dA over the marked boundary
func (in *Integrator) BoundaryScalar(c coefficient.Coefficient, attrs []int) (sum float64) {
	in.forEachBdrPoint(attrs, func(T *mesh.ElementTransformation, ip mesh.IntegrationPoint, w float64) {
		sum += w * c.Eval(in.ctx, T, ip)
	})
	return
}

// BoundaryVector returns ∫ c dA over the marked boundary
func (in *Integrator) BoundaryVector(c coefficient.VectorCoefficient, attrs []int) (sum utils.Vec) {
	sum.SetSize(c.VDim())
	in.forEachBdrPoint(attrs, func(T *mesh.ElementTransformation, ip mesh.IntegrationPoint, w float64) {
		sum.AddScaled(w, c.Eval(in.ctx, T, ip))
	})
	return
}

// DomainScalar returns ∫ c dV over every owned element
func (in *Integrator) DomainScalar(c coefficient.Coefficient) (sum float64) {
	var T mesh.ElementTransformation
	for _, e := range in.PM.Elements {
		in.PM.ElementTransformation(e, &T)
		for _, ip := range in.rule(T.Geom) {
			sum += ip.Weight * T.Weight() * c.Eval(in.ctx, &T, ip)
		}
	}
	return
}

// reduce runs f concurrently for each rank, each filling n partial values,
// then adds the partials in rank order so the result does not depend on
// scheduling.
func reduce(ctx context.Context, nranks, n int, f func(rank int, out []float64) error) ([]float64, error) {
	partial := make([][]float64, nranks)
	g, gCtx := errgroup.WithContext(ctx)
	for rank := 0; rank < nranks; rank++ {
		rank := rank
		partial[rank] = make([]float64, n)
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			return f(rank, partial[rank])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sum := make([]float64, n)
	for _, p := range partial {
		floats.Add(sum, p)
	}
	return sum, nil
}
