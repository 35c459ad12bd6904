package postprocess

import (
	"context"
	"fmt"

	"github.com/notargets/emfield/coefficient"
	"github.com/notargets/emfield/field"
	"github.com/notargets/emfield/mesh"
)

/*
Solution is a field solution split over partitions, each slice indexed by rank.
E, B and V are optional, but a quantity that needs a missing field fails to
build. ExchangeFaceNbrData must run after the fields change and before any
boundary quantity is computed.
*/
type Solution struct {
	PMs  []*mesh.ParMesh
	E, B []*field.ComplexGridFunction
	V    []*field.GridFunction // Scalar potential
}

func NewSolution(pms []*mesh.ParMesh) *Solution {
	return &Solution{PMs: pms}
}

func (s *Solution) NumRanks() int { return len(s.PMs) }

func (s *Solution) Validate() error {
	if len(s.PMs) == 0 {
		return fmt.Errorf("solution has no partitions")
	}
	for _, f := range []struct {
		name string
		n    int
	}{{"E", len(s.E)}, {"B", len(s.B)}, {"V", len(s.V)}} {
		if f.n != 0 && f.n != len(s.PMs) {
			return fmt.Errorf("%s field has %d partitions, mesh has %d", f.name, f.n, len(s.PMs))
		}
	}
	return nil
}

func (s *Solution) ExchangeFaceNbrData(ctx context.Context) (err error) {
	if err = s.Validate(); err != nil {
		return
	}
	if len(s.E) != 0 {
		if err = field.ExchangeComplexFaceNbrData(ctx, s.E); err != nil {
			return fmt.Errorf("E field: %w", err)
		}
	}
	if len(s.B) != 0 {
		if err = field.ExchangeComplexFaceNbrData(ctx, s.B); err != nil {
			return fmt.Errorf("B field: %w", err)
		}
	}
	if len(s.V) != 0 {
		if err = field.ExchangeFaceNbrData(ctx, s.V); err != nil {
			return fmt.Errorf("V field: %w", err)
		}
	}
	return
}

// fields returns the parts of E and B on one rank, left empty when absent
func (s *Solution) fields(rank int) (E, B coefficient.ComplexVectorField) {
	if len(s.E) != 0 {
		E = coefficient.ComplexFrom(s.E[rank])
	}
	if len(s.B) != 0 {
		B = coefficient.ComplexFrom(s.B[rank])
	}
	return
}

func (s *Solution) potential(rank int) coefficient.ScalarField {
	if len(s.V) == 0 || s.V[rank] == nil {
		return nil
	}
	return s.V[rank]
}
