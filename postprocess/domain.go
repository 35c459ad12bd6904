package postprocess

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/notargets/emfield/coefficient"
	"github.com/notargets/emfield/types"
)

// DomainPostOperator integrates stored energies over the domain, in total and
// over groups of domain attributes
type DomainPostOperator struct {
	Domains [][]int
	mat     coefficient.MaterialProperties
	order   int
}

func NewDomainPostOperator(domains [][]int, mat coefficient.MaterialProperties,
	order int) (op *DomainPostOperator, err error) {
	for i, d := range domains {
		if len(d) == 0 {
			return nil, fmt.Errorf("domain group %d has no attributes", i)
		}
	}
	return &DomainPostOperator{Domains: domains, mat: mat, order: order}, nil
}

func (op *DomainPostOperator) GetEFieldEnergy(ctx context.Context, sol *Solution) (float64, error) {
	return op.energy(ctx, sol, types.EnergyElectric, nil)
}

func (op *DomainPostOperator) GetHFieldEnergy(ctx context.Context, sol *Solution) (float64, error) {
	return op.energy(ctx, sol, types.EnergyMagnetic, nil)
}

func (op *DomainPostOperator) GetEFieldEnergyIn(ctx context.Context, sol *Solution, idx int) (float64, error) {
	attrs, err := op.domain(idx)
	if err != nil {
		return 0, err
	}
	return op.energy(ctx, sol, types.EnergyElectric, attrs)
}

func (op *DomainPostOperator) GetHFieldEnergyIn(ctx context.Context, sol *Solution, idx int) (float64, error) {
	attrs, err := op.domain(idx)
	if err != nil {
		return 0, err
	}
	return op.energy(ctx, sol, types.EnergyMagnetic, attrs)
}

func (op *DomainPostOperator) domain(idx int) ([]int, error) {
	if idx < 0 || idx >= len(op.Domains) {
		return nil, fmt.Errorf("domain group index %d out of range [0,%d)", idx, len(op.Domains))
	}
	return op.Domains[idx], nil
}

// energy integrates the energy density over all elements, or only those with
// an attribute in attrs when attrs is not nil
func (op *DomainPostOperator) energy(ctx context.Context, sol *Solution, energyType types.EnergyDensityType,
	attrs []int) (float64, error) {
	sum, err := reduce(ctx, sol.NumRanks(), 1, func(rank int, out []float64) error {
		r := coefficient.NewNeighborResolver(sol.PMs[rank])
		E, B := sol.fields(rank)
		U := E
		if energyType == types.EnergyMagnetic {
			U = B
		}
		var (
			c   coefficient.Coefficient
			err error
		)
		if c, err = coefficient.NewEnergyDensityCoefficient(r, energyType, U, op.mat, false); err != nil {
			return err
		}
		if attrs != nil {
			c = coefficient.NewRestrictedCoefficient(c, attrs)
		}
		out[0] = NewIntegrator(sol.PMs[rank], op.order).DomainScalar(c)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%s energy: %w", energyType, err)
	}
	slog.Debug("domain energy", "type", energyType, "attributes", attrs, "energy", sum[0])
	return sum[0], nil
}
