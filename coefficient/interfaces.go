package coefficient

import (
	"github.com/notargets/emfield/field"
	"github.com/notargets/emfield/mesh"
	"github.com/notargets/emfield/utils"
)

// MaterialProperties gives material tensors by domain element attribute
type MaterialProperties interface {
	SpaceDimension() int
	GetPermittivityReal(attr int) utils.Mat
	GetInvPermeability(attr int) utils.Mat
	// GetLightSpeedMax is used only to order the two sides of an interface
	GetLightSpeedMax(attr int) float64
}

// VectorField evaluates at the integration point set on a domain element
// transformation
type VectorField interface {
	GetVectorValue(T *mesh.ElementTransformation) utils.Vec
}

type ScalarField interface {
	GetValue(T *mesh.ElementTransformation) float64
}

// ComplexVectorField pairs the real part of a field with an optional
// imaginary part. Im is nil for a real field.
type ComplexVectorField struct {
	Re, Im VectorField
}

func (f ComplexVectorField) HasImag() bool { return f.Im != nil }

// ComplexFrom adapts a complex grid function, leaving Im nil rather than a
// typed nil when there is no imaginary part.
func ComplexFrom(cgf *field.ComplexGridFunction) (f ComplexVectorField) {
	if cgf == nil {
		return
	}
	if cgf.Real != nil {
		f.Re = cgf.Real
	}
	if cgf.HasImag() {
		f.Im = cgf.Imag
	}
	return
}

/*
Coefficients are evaluated at an integration point of a boundary or domain
element transformation, returning small fixed size values. The EvalContext is
the caller's scratch space; boundary evaluators cache neighbor lookups in it,
so one context must never be used by two goroutines at once.
*/
type Coefficient interface {
	Eval(ctx *EvalContext, T *mesh.ElementTransformation, ip mesh.IntegrationPoint) float64
}

type VectorCoefficient interface {
	VDim() int
	Eval(ctx *EvalContext, T *mesh.ElementTransformation, ip mesh.IntegrationPoint) utils.Vec
}

type MatrixCoefficient interface {
	Dims() (height, width int)
	Eval(ctx *EvalContext, T *mesh.ElementTransformation, ip mesh.IntegrationPoint) utils.Mat
}
