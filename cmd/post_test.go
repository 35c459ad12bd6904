package cmd

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/emfield/InputParameters"
	"github.com/notargets/emfield/mesh"
)

const twoTetGmsh = `$MeshFormat
2.2 0 8
$EndMeshFormat
$Nodes
5
1 0 0 0
2 1 0 0
3 0 1 0
4 0 0 1
5 1 1 1
$EndNodes
$Elements
4
1 2 2 10 1 2 3 4
2 2 2 20 2 1 2 3
3 4 2 1 1 1 2 3 4
4 4 2 2 1 2 3 4 5
$EndElements
`

const twoTetDeck = `
Title: "Two tets"
Partitions: 2
Materials:
  - Attributes: [1]
    Permittivity: [2]
  - Attributes: [2]
    Permittivity: [1]
SurfaceFlux:
  - Type: Electric
    Attributes: [20]
    Center: [0, 0, 1]
Interfaces:
  - Type: MA
    Attributes: [10]
    Thickness: 2
    Permittivity: 1
    LossTan: 0.01
Surfaces:
  - [20]
Domains:
  - [1]
  - [2]
Fields:
  E:
    Real:
      Constant: [0, 0, 1]
  V:
    Constant: [1]
`

func TestRunPost(t *testing.T) {
	m, err := mesh.ReadGmsh22From(strings.NewReader(twoTetGmsh))
	require.NoError(t, err)
	for _, nparts := range []int{1, 2} {
		ip := &InputParameters.InputParameters{}
		require.NoError(t, ip.Parse([]byte(twoTetDeck)))
		ip.Partitions = nparts
		rep, err := RunPost(context.Background(), m, ip)
		require.NoError(t, err)

		// Tet volumes are 1/6 and 1/3
		assert.InDelta(t, 1./3., rep.EnergyE, 1.e-12)
		assert.Equal(t, 0., rep.EnergyH)
		assert.InDeltaSlice(t, []float64{1. / 6., 1. / 6.}, rep.DomainE, 1.e-12)
		require.Len(t, rep.Fluxes, 1)
		assert.InDelta(t, -1., real(rep.Fluxes[0]), 1.e-12)
		assert.Equal(t, 0., imag(rep.Fluxes[0]))
		require.Len(t, rep.Participation, 1)
		assert.InDelta(t, math.Sqrt(3)/2, rep.Participation[0], 1.e-12)
		assert.Equal(t, []float64{0.01}, rep.LossTangent)
		assert.Empty(t, rep.CurrentRe)
		assert.Empty(t, rep.Poynting)
		require.Len(t, rep.MeanE, 1)
		assert.InDeltaSlice(t, []float64{0, 0, 1}, rep.MeanE[0].Slice(), 1.e-12)
		require.Len(t, rep.MeanV, 1)
		assert.InDelta(t, 1., rep.MeanV[0], 1.e-12)
	}
}

func TestRunPostErrors(t *testing.T) {
	m, err := mesh.ReadGmsh22From(strings.NewReader(twoTetGmsh))
	require.NoError(t, err)

	ip := &InputParameters.InputParameters{}
	require.NoError(t, ip.Parse([]byte(twoTetDeck)))
	ip.Materials = ip.Materials[:1]
	_, err = RunPost(context.Background(), m, ip)
	assert.ErrorContains(t, err, "no material")

	ip = &InputParameters.InputParameters{}
	require.NoError(t, ip.Parse([]byte(twoTetDeck)))
	ip.Fields.E.Real.Constant = []float64{1}
	_, err = RunPost(context.Background(), m, ip)
	assert.Error(t, err)

	ip = &InputParameters.InputParameters{}
	require.NoError(t, ip.Parse([]byte(twoTetDeck)))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = RunPost(ctx, m, ip)
	assert.ErrorIs(t, err, context.Canceled)
}
