package materials

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/emfield/utils"
)

func TestMaterialOperator(t *testing.T) {
	aniso, err := TensorFromList(3, []float64{4, 2, 9})
	require.NoError(t, err)
	mo, err := NewMaterialOperator(3, []Material{
		{Attributes: []int{1}, Permittivity: utils.NewDiagMat(3, 1), Permeability: utils.NewDiagMat(3, 1)},
		{Attributes: []int{2, 3}, Permittivity: aniso, Permeability: utils.NewDiagMat(3, 2)},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, mo.SpaceDimension())
	assert.Equal(t, []int{1, 2, 3}, mo.Attributes())

	assert.InDelta(t, 1., mo.GetLightSpeedMax(1), 1.e-14)
	// Slowest direction sets λmin: 1/sqrt(2*2)
	assert.InDelta(t, 0.5, mo.GetLightSpeedMax(3), 1.e-14)
	assert.Equal(t, mo.GetLightSpeedMax(2), mo.GetLightSpeedMax(3), "attributes share one material")

	invMu := mo.GetInvPermeability(2)
	for i := 0; i < 3; i++ {
		assert.InDelta(t, 0.5, invMu.At(i, i), 1.e-14)
	}
	assert.Equal(t, 9., mo.GetPermittivityReal(3).At(2, 2))
	assert.Panics(t, func() { mo.GetPermittivityReal(4) })
}

func TestMaterialErrors(t *testing.T) {
	I := utils.NewDiagMat(3, 1)
	_, err := NewMaterialOperator(3, []Material{
		{Attributes: []int{1}, Permittivity: I, Permeability: I},
		{Attributes: []int{1}, Permittivity: I, Permeability: I},
	})
	assert.Error(t, err)

	_, err = NewMaterialOperator(3, []Material{{Attributes: []int{1}, Permittivity: utils.NewDiagMat(2, 1), Permeability: I}})
	assert.Error(t, err)

	notPD := utils.NewMat(3, 3,
		1, 2, 0,
		2, 1, 0,
		0, 0, 1)
	_, err = NewMaterialOperator(3, []Material{{Attributes: []int{1}, Permittivity: notPD, Permeability: I}})
	assert.Error(t, err)

	nonSym := utils.NewMat(3, 3,
		2, 1, 0,
		0, 2, 0,
		0, 0, 2)
	_, err = NewMaterialOperator(3, []Material{{Attributes: []int{1}, Permittivity: I, Permeability: nonSym}})
	assert.Error(t, err)

	_, err = NewMaterialOperator(3, []Material{{Permittivity: I, Permeability: I}})
	assert.Error(t, err)

	_, err = TensorFromList(3, []float64{1, 2})
	assert.Error(t, err)
	full, err := TensorFromList(2, []float64{2, 1, 1, 2})
	require.NoError(t, err)
	mo, err := NewMaterialOperator(2, []Material{{Attributes: []int{7}, Permittivity: full, Permeability: utils.NewDiagMat(2, 1)}})
	require.NoError(t, err)
	// Eigenvalues of full are 1 and 3
	assert.InDelta(t, 1., mo.GetLightSpeedMax(7), 1.e-12)
	assert.False(t, math.IsNaN(mo.GetLightSpeedMax(7)))
}
