package field

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

/*
ExchangeFaceNbrData fills FaceNbrData on every partition's copy of one field,
gfs[r] being the copy on rank r. Each rank packs the owned element data listed
in its SendLists, then each rank unpacks what it received in ghost order. It
must complete before any boundary evaluation that can reach a ghost element.
*/
func ExchangeFaceNbrData(ctx context.Context, gfs []*GridFunction) error {
	nranks := len(gfs)
	if nranks == 0 {
		return nil
	}
	for r, gf := range gfs {
		if gf.PM.Rank != r || gf.PM.NumRanks != nranks {
			return fmt.Errorf("field copy %d is for rank %d of %d, want rank %d of %d",
				r, gf.PM.Rank, gf.PM.NumRanks, r, nranks)
		}
		if gf.VDim != gfs[0].VDim {
			return fmt.Errorf("field copy %d has dimension %d, want %d", r, gf.VDim, gfs[0].VDim)
		}
	}

	// send[src][dst] is the packed buffer from src to dst
	send := make([][][]float64, nranks)
	g, gCtx := errgroup.WithContext(ctx)
	for src, gf := range gfs {
		src, gf := src, gf
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			stride := gf.nodesPerElem * gf.VDim
			send[src] = make([][]float64, nranks)
			for dst, elems := range gf.PM.SendLists {
				buf := make([]float64, 0, len(elems)*stride)
				for _, e := range elems {
					buf = append(buf, gf.elementData(e)...)
				}
				send[src][dst] = buf
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	g, gCtx = errgroup.WithContext(ctx)
	for dst, gf := range gfs {
		dst, gf := dst, gf
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			stride := gf.nodesPerElem * gf.VDim
			offset := make([]int, nranks)
			for k, src := range gf.PM.FaceNbrRanks {
				buf := send[src][dst]
				if offset[src]+stride > len(buf) {
					return fmt.Errorf("rank %d received %d values from rank %d, short of ghost %d",
						dst, len(buf), src, gf.PM.FaceNbrElements[k])
				}
				copy(gf.FaceNbrData[k*stride:(k+1)*stride], buf[offset[src]:])
				offset[src] += stride
			}
			gf.faceNbrFilled = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	slog.Debug("face neighbor data exchanged", "ranks", nranks, "vdim", gfs[0].VDim)
	return nil
}

// ExchangeComplexFaceNbrData exchanges both parts of a complex field
func ExchangeComplexFaceNbrData(ctx context.Context, cgfs []*ComplexGridFunction) error {
	var re, im []*GridFunction
	for _, cgf := range cgfs {
		re = append(re, cgf.Real)
		if cgf.HasImag() {
			im = append(im, cgf.Imag)
		}
	}
	if len(im) != 0 && len(im) != len(re) {
		return fmt.Errorf("imaginary part present on %d of %d ranks", len(im), len(re))
	}
	if err := ExchangeFaceNbrData(ctx, re); err != nil {
		return err
	}
	return ExchangeFaceNbrData(ctx, im)
}
