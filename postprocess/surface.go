package postprocess

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/notargets/emfield/coefficient"
	"github.com/notargets/emfield/types"
	"github.com/notargets/emfield/utils"
)

// Interface quantities use the lower index (faster) side of a material
// interface, where the field is typically largest.
const preferLowIndex = true

type SurfaceFluxData struct {
	Type       types.SurfaceFluxType
	Attributes []int
	TwoSided   bool
	Center     utils.Vec // Flux is oriented away from Center unless TwoSided
}

type InterfaceData struct {
	Type         types.InterfaceDielectricType
	Attributes   []int
	Thickness    float64
	Permittivity float64
	LossTangent  float64
}

// SurfaceConfig lists the boundary quantities to compute. Surfaces are
// attribute groups for surface currents, Poynting flow and mean field probes.
type SurfaceConfig struct {
	Fluxes     []SurfaceFluxData
	Interfaces []InterfaceData
	Surfaces   [][]int
}

// SurfacePostOperator integrates boundary quantities of a Solution
type SurfacePostOperator struct {
	SurfaceConfig
	mat   coefficient.MaterialProperties
	order int
}

func NewSurfacePostOperator(cfg SurfaceConfig, mat coefficient.MaterialProperties,
	order int) (op *SurfacePostOperator, err error) {
	dim := mat.SpaceDimension()
	for i, f := range cfg.Fluxes {
		if len(f.Attributes) == 0 {
			return nil, fmt.Errorf("surface flux %d has no boundary attributes", i)
		}
		if f.Center.N != 0 && f.Center.N != dim {
			return nil, fmt.Errorf("surface flux %d center has dimension %d, mesh has %d", i, f.Center.N, dim)
		}
	}
	for i, d := range cfg.Interfaces {
		if len(d.Attributes) == 0 {
			return nil, fmt.Errorf("interface %d has no boundary attributes", i)
		}
		if d.Thickness <= 0 || d.Permittivity <= 0 {
			return nil, fmt.Errorf("interface %d needs positive thickness and permittivity, have %g and %g",
				i, d.Thickness, d.Permittivity)
		}
	}
	for i, s := range cfg.Surfaces {
		if len(s) == 0 {
			return nil, fmt.Errorf("surface %d has no boundary attributes", i)
		}
	}
	op = &SurfacePostOperator{SurfaceConfig: cfg, mat: mat, order: order}
	return
}

/*
GetSurfaceFlux returns the flux through surface idx. Electric and magnetic
fluxes integrate the real and imaginary parts of the field separately. Power
flux is the complex power ∫ (E x H*)·n dA, with real part Φ(Er,Br) + Φ(Ei,Bi)
and imaginary part Φ(Ei,Br) - Φ(Er,Bi).
*/
func (op *SurfacePostOperator) GetSurfaceFlux(ctx context.Context, sol *Solution, idx int) (complex128, error) {
	if idx < 0 || idx >= len(op.Fluxes) {
		return 0, fmt.Errorf("surface flux index %d out of range [0,%d)", idx, len(op.Fluxes))
	}
	data := op.Fluxes[idx]
	sum, err := reduce(ctx, sol.NumRanks(), 2, func(rank int, out []float64) error {
		r := coefficient.NewNeighborResolver(sol.PMs[rank])
		E, B := sol.fields(rank)
		re, im, err := op.fluxCoefficients(r, data, E, B)
		if err != nil {
			return err
		}
		in := NewIntegrator(sol.PMs[rank], op.order)
		out[0] = in.BoundaryScalar(re, data.Attributes)
		if im != nil {
			out[1] = in.BoundaryScalar(im, data.Attributes)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("surface flux %d: %w", idx, err)
	}
	phi := complex(sum[0], sum[1])
	slog.Debug("surface flux", "index", idx, "type", data.Type, "flux", phi)
	return phi, nil
}

func (op *SurfacePostOperator) fluxCoefficients(r *coefficient.NeighborResolver, data SurfaceFluxData,
	E, B coefficient.ComplexVectorField) (re, im coefficient.Coefficient, err error) {
	flux := func(Ep, Bp coefficient.VectorField) (*coefficient.SurfaceFluxCoefficient, error) {
		return coefficient.NewSurfaceFluxCoefficient(r, data.Type, Ep, Bp, op.mat, data.TwoSided, data.Center)
	}
	switch data.Type {
	case types.FluxElectric, types.FluxMagnetic:
		if re, err = flux(E.Re, B.Re); err != nil {
			return
		}
		if (data.Type == types.FluxElectric && E.HasImag()) ||
			(data.Type == types.FluxMagnetic && B.HasImag()) {
			im, err = flux(E.Im, B.Im)
		}
	case types.FluxPower:
		if E.HasImag() != B.HasImag() {
			return nil, nil, fmt.Errorf("power flux needs E and B both real or both complex")
		}
		var rr *coefficient.SurfaceFluxCoefficient
		if rr, err = flux(E.Re, B.Re); err != nil {
			return
		}
		if !E.HasImag() {
			return rr, nil, nil
		}
		fluxes := make([]*coefficient.SurfaceFluxCoefficient, 3)
		for i, pair := range [][2]coefficient.VectorField{{E.Im, B.Im}, {E.Im, B.Re}, {E.Re, B.Im}} {
			if fluxes[i], err = flux(pair[0], pair[1]); err != nil {
				return
			}
		}
		sumRe, sumIm := coefficient.NewSumCoefficient(), coefficient.NewSumCoefficient()
		sumRe.AddCoefficient(rr, 1)
		sumRe.AddCoefficient(fluxes[0], 1)
		sumIm.AddCoefficient(fluxes[1], 1)
		sumIm.AddCoefficient(fluxes[2], -1)
		re, im = sumRe, sumIm
	default:
		err = fmt.Errorf("unknown surface flux type %d", data.Type)
	}
	return
}

// GetInterfaceParticipation returns the energy participation ratio of
// interface idx, its loss layer energy over the total electric energy Em.
func (op *SurfacePostOperator) GetInterfaceParticipation(ctx context.Context, sol *Solution, idx int,
	Em float64) (float64, error) {
	if idx < 0 || idx >= len(op.Interfaces) {
		return 0, fmt.Errorf("interface index %d out of range [0,%d)", idx, len(op.Interfaces))
	}
	if Em == 0 {
		return 0, fmt.Errorf("interface %d: participation relative to zero energy", idx)
	}
	data := op.Interfaces[idx]
	sum, err := reduce(ctx, sol.NumRanks(), 1, func(rank int, out []float64) error {
		r := coefficient.NewNeighborResolver(sol.PMs[rank])
		E, _ := sol.fields(rank)
		c, err := coefficient.NewInterfaceDielectricCoefficient(r, data.Type, E, op.mat,
			data.Thickness, data.Permittivity, preferLowIndex)
		if err != nil {
			return err
		}
		out[0] = NewIntegrator(sol.PMs[rank], op.order).BoundaryScalar(c, data.Attributes)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("interface %d: %w", idx, err)
	}
	p := sum[0] / Em
	slog.Debug("interface participation", "index", idx, "type", data.Type, "p", p)
	return p, nil
}

func (op *SurfacePostOperator) GetInterfaceLossTangent(idx int) float64 {
	return op.Interfaces[idx].LossTangent
}

func (op *SurfacePostOperator) surface(idx int) ([]int, error) {
	if idx < 0 || idx >= len(op.Surfaces) {
		return nil, fmt.Errorf("surface index %d out of range [0,%d)", idx, len(op.Surfaces))
	}
	return op.Surfaces[idx], nil
}

// GetSurfaceCurrent returns the real and imaginary parts of the total surface
// current ∫ n x μ⁻¹ B dA on surface idx
func (op *SurfacePostOperator) GetSurfaceCurrent(ctx context.Context, sol *Solution,
	idx int) (Jr, Ji utils.Vec, err error) {
	attrs, err := op.surface(idx)
	if err != nil {
		return
	}
	sum, err := reduce(ctx, sol.NumRanks(), 6, func(rank int, out []float64) error {
		r := coefficient.NewNeighborResolver(sol.PMs[rank])
		_, B := sol.fields(rank)
		in := NewIntegrator(sol.PMs[rank], op.order)
		for i, Bp := range []coefficient.VectorField{B.Re, B.Im} {
			if i == 1 && !B.HasImag() {
				break
			}
			c, err := coefficient.NewSurfaceCurrentCoefficient(r, Bp, op.mat)
			if err != nil {
				return err
			}
			J := in.BoundaryVector(c, attrs)
			copy(out[3*i:], J.Slice())
		}
		return nil
	})
	if err != nil {
		return Jr, Ji, fmt.Errorf("surface current %d: %w", idx, err)
	}
	return utils.VecFromSlice(sum[:3]), utils.VecFromSlice(sum[3:]), nil
}

// GetSurfacePoynting returns ∫ Re{E x H*} dA on surface idx
func (op *SurfacePostOperator) GetSurfacePoynting(ctx context.Context, sol *Solution,
	idx int) (S utils.Vec, err error) {
	attrs, err := op.surface(idx)
	if err != nil {
		return
	}
	sum, err := reduce(ctx, sol.NumRanks(), 3, func(rank int, out []float64) error {
		r := coefficient.NewNeighborResolver(sol.PMs[rank])
		E, B := sol.fields(rank)
		c, err := coefficient.NewPoyntingVectorCoefficient(r, E, B, op.mat, preferLowIndex)
		if err != nil {
			return err
		}
		V := NewIntegrator(sol.PMs[rank], op.order).BoundaryVector(c, attrs)
		copy(out, V.Slice())
		return nil
	})
	if err != nil {
		return S, fmt.Errorf("surface Poynting vector %d: %w", idx, err)
	}
	return utils.VecFromSlice(sum), nil
}

// GetSurfaceMeanE returns the area average of the real part of E on surface
// idx, single sided across material interfaces
func (op *SurfacePostOperator) GetSurfaceMeanE(ctx context.Context, sol *Solution,
	idx int) (Emean utils.Vec, err error) {
	attrs, err := op.surface(idx)
	if err != nil {
		return
	}
	dim := op.mat.SpaceDimension()
	sum, err := reduce(ctx, sol.NumRanks(), dim+1, func(rank int, out []float64) error {
		r := coefficient.NewNeighborResolver(sol.PMs[rank])
		E, _ := sol.fields(rank)
		c, err := coefficient.NewBdrFieldVectorCoefficient(r, E.Re, op.mat, preferLowIndex)
		if err != nil {
			return err
		}
		in := NewIntegrator(sol.PMs[rank], op.order)
		V := in.BoundaryVector(c, attrs)
		copy(out, V.Slice())
		out[dim] = in.BoundaryScalar(coefficient.ConstantCoefficient{Value: 1}, attrs)
		return nil
	})
	if err != nil {
		return Emean, fmt.Errorf("surface mean E %d: %w", idx, err)
	}
	if sum[dim] == 0 {
		return Emean, fmt.Errorf("surface %d has zero area", idx)
	}
	Emean = utils.VecFromSlice(sum[:dim])
	Emean.Scale(1 / sum[dim])
	return
}

// GetSurfaceMeanPotential returns the area average of the scalar potential on
// surface idx, single sided across material interfaces
func (op *SurfacePostOperator) GetSurfaceMeanPotential(ctx context.Context, sol *Solution,
	idx int) (float64, error) {
	attrs, err := op.surface(idx)
	if err != nil {
		return 0, err
	}
	sum, err := reduce(ctx, sol.NumRanks(), 2, func(rank int, out []float64) error {
		r := coefficient.NewNeighborResolver(sol.PMs[rank])
		c, err := coefficient.NewBdrFieldCoefficient(r, sol.potential(rank), op.mat, preferLowIndex)
		if err != nil {
			return err
		}
		in := NewIntegrator(sol.PMs[rank], op.order)
		out[0] = in.BoundaryScalar(c, attrs)
		out[1] = in.BoundaryScalar(coefficient.ConstantCoefficient{Value: 1}, attrs)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("surface mean potential %d: %w", idx, err)
	}
	if sum[1] == 0 {
		return 0, fmt.Errorf("surface %d has zero area", idx)
	}
	return sum[0] / sum[1], nil
}
