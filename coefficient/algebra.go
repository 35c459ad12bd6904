package coefficient

import (
	"fmt"
	"sort"

	"github.com/notargets/emfield/mesh"
	"github.com/notargets/emfield/utils"
)

type ConstantCoefficient struct {
	Value float64
}

func (c ConstantCoefficient) Eval(_ *EvalContext, _ *mesh.ElementTransformation,
	_ mesh.IntegrationPoint) float64 {
	return c.Value
}

// PWConstantCoefficient is constant per element attribute and zero for any
// attribute it has no value for.
type PWConstantCoefficient struct {
	Values map[int]float64
}

func NewPWConstantCoefficient(values map[int]float64) *PWConstantCoefficient {
	return &PWConstantCoefficient{Values: values}
}

func (c *PWConstantCoefficient) Eval(_ *EvalContext, T *mesh.ElementTransformation,
	_ mesh.IntegrationPoint) float64 {
	return c.Values[T.Attribute]
}

type VectorConstantCoefficient struct {
	Value utils.Vec
}

func (c VectorConstantCoefficient) VDim() int { return c.Value.N }

func (c VectorConstantCoefficient) Eval(_ *EvalContext, _ *mesh.ElementTransformation,
	_ mesh.IntegrationPoint) utils.Vec {
	return c.Value
}

type MatrixConstantCoefficient struct {
	Value utils.Mat
}

func (c MatrixConstantCoefficient) Dims() (height, width int) { return c.Value.Dims() }

func (c MatrixConstantCoefficient) Eval(_ *EvalContext, _ *mesh.ElementTransformation,
	_ mesh.IntegrationPoint) utils.Mat {
	return c.Value
}

// attributeSet is a sorted list of element attributes
type attributeSet []int

func newAttributeSet(attrs []int) attributeSet {
	s := make(attributeSet, len(attrs))
	copy(s, attrs)
	sort.Ints(s)
	return s
}

func (s attributeSet) contains(attr int) bool {
	i := sort.SearchInts(s, attr)
	return i < len(s) && s[i] == attr
}

// RestrictedCoefficient evaluates its coefficient on elements with one of the
// given attributes and is zero everywhere else.
type RestrictedCoefficient struct {
	Coefficient
	attrs attributeSet
}

func NewRestrictedCoefficient(c Coefficient, attrs []int) *RestrictedCoefficient {
	return &RestrictedCoefficient{Coefficient: c, attrs: newAttributeSet(attrs)}
}

func (c *RestrictedCoefficient) Eval(ctx *EvalContext, T *mesh.ElementTransformation,
	ip mesh.IntegrationPoint) float64 {
	if !c.attrs.contains(T.Attribute) {
		return 0
	}
	return c.Coefficient.Eval(ctx, T, ip)
}

type RestrictedVectorCoefficient struct {
	VectorCoefficient
	attrs attributeSet
}

func NewRestrictedVectorCoefficient(c VectorCoefficient, attrs []int) *RestrictedVectorCoefficient {
	return &RestrictedVectorCoefficient{VectorCoefficient: c, attrs: newAttributeSet(attrs)}
}

func (c *RestrictedVectorCoefficient) Eval(ctx *EvalContext, T *mesh.ElementTransformation,
	ip mesh.IntegrationPoint) utils.Vec {
	if !c.attrs.contains(T.Attribute) {
		return utils.NewVec(c.VDim())
	}
	return c.VectorCoefficient.Eval(ctx, T, ip)
}

type RestrictedMatrixCoefficient struct {
	MatrixCoefficient
	attrs attributeSet
}

func NewRestrictedMatrixCoefficient(c MatrixCoefficient, attrs []int) *RestrictedMatrixCoefficient {
	return &RestrictedMatrixCoefficient{MatrixCoefficient: c, attrs: newAttributeSet(attrs)}
}

func (c *RestrictedMatrixCoefficient) Eval(ctx *EvalContext, T *mesh.ElementTransformation,
	ip mesh.IntegrationPoint) utils.Mat {
	if !c.attrs.contains(T.Attribute) {
		return utils.NewMat(c.Dims())
	}
	return c.MatrixCoefficient.Eval(ctx, T, ip)
}

// VectorWrappedCoefficient broadcasts a scalar coefficient to every entry of a
// vector.
type VectorWrappedCoefficient struct {
	dim int
	c   Coefficient
}

func NewVectorWrappedCoefficient(dim int, c Coefficient) *VectorWrappedCoefficient {
	if dim < 1 || dim > utils.MaxDim {
		panic(fmt.Errorf("vector dimension %d out of range [1,%d]", dim, utils.MaxDim))
	}
	return &VectorWrappedCoefficient{dim: dim, c: c}
}

func (c *VectorWrappedCoefficient) VDim() int { return c.dim }

func (c *VectorWrappedCoefficient) Eval(ctx *EvalContext, T *mesh.ElementTransformation,
	ip mesh.IntegrationPoint) (V utils.Vec) {
	V.SetSize(c.dim)
	V.Fill(c.c.Eval(ctx, T, ip))
	return
}

// MatrixWrappedCoefficient embeds a scalar coefficient as a multiple of the
// identity.
type MatrixWrappedCoefficient struct {
	dim int
	c   Coefficient
}

func NewMatrixWrappedCoefficient(dim int, c Coefficient) *MatrixWrappedCoefficient {
	if dim < 1 || dim > utils.MaxDim {
		panic(fmt.Errorf("matrix dimension %d out of range [1,%d]", dim, utils.MaxDim))
	}
	return &MatrixWrappedCoefficient{dim: dim, c: c}
}

func (c *MatrixWrappedCoefficient) Dims() (height, width int) { return c.dim, c.dim }

func (c *MatrixWrappedCoefficient) Eval(ctx *EvalContext, T *mesh.ElementTransformation,
	ip mesh.IntegrationPoint) utils.Mat {
	return utils.NewDiagMat(c.dim, c.c.Eval(ctx, T, ip))
}

/*
SumCoefficient and its vector and matrix forms evaluate Σ aᵢ cᵢ over the terms
added to them, in the order added. An empty sum is zero. Terms are checked
against the dimensions of the sum when added.
*/
type SumCoefficient struct {
	terms []scalarTerm
}

type scalarTerm struct {
	c Coefficient
	a float64
}

func NewSumCoefficient() *SumCoefficient { return &SumCoefficient{} }

func (c *SumCoefficient) AddCoefficient(cf Coefficient, a float64) {
	c.terms = append(c.terms, scalarTerm{c: cf, a: a})
}

func (c *SumCoefficient) NumTerms() int { return len(c.terms) }

func (c *SumCoefficient) Eval(ctx *EvalContext, T *mesh.ElementTransformation,
	ip mesh.IntegrationPoint) (sum float64) {
	for _, t := range c.terms {
		sum += t.a * t.c.Eval(ctx, T, ip)
	}
	return
}

type SumVectorCoefficient struct {
	vdim  int
	terms []vectorTerm
}

type vectorTerm struct {
	c VectorCoefficient
	a float64
}

func NewSumVectorCoefficient(vdim int) *SumVectorCoefficient {
	if vdim < 1 || vdim > utils.MaxDim {
		panic(fmt.Errorf("vector dimension %d out of range [1,%d]", vdim, utils.MaxDim))
	}
	return &SumVectorCoefficient{vdim: vdim}
}

func (c *SumVectorCoefficient) AddCoefficient(cf VectorCoefficient, a float64) (err error) {
	if cf.VDim() != c.vdim {
		return fmt.Errorf("vector coefficient of dimension %d added to sum of dimension %d",
			cf.VDim(), c.vdim)
	}
	c.terms = append(c.terms, vectorTerm{c: cf, a: a})
	return
}

// AddScalar adds a scalar coefficient broadcast to every entry
func (c *SumVectorCoefficient) AddScalar(cf Coefficient, a float64) {
	c.terms = append(c.terms, vectorTerm{c: NewVectorWrappedCoefficient(c.vdim, cf), a: a})
}

func (c *SumVectorCoefficient) VDim() int { return c.vdim }

func (c *SumVectorCoefficient) NumTerms() int { return len(c.terms) }

func (c *SumVectorCoefficient) Eval(ctx *EvalContext, T *mesh.ElementTransformation,
	ip mesh.IntegrationPoint) (V utils.Vec) {
	V.SetSize(c.vdim)
	for _, t := range c.terms {
		V.AddScaled(t.a, t.c.Eval(ctx, T, ip))
	}
	return
}

type SumMatrixCoefficient struct {
	height, width int
	terms         []matrixTerm
}

type matrixTerm struct {
	c MatrixCoefficient
	a float64
}

func NewSumMatrixCoefficient(height, width int) *SumMatrixCoefficient {
	if height < 1 || height > utils.MaxDim || width < 1 || width > utils.MaxDim {
		panic(fmt.Errorf("matrix dimensions %dx%d out of range [1,%d]", height, width, utils.MaxDim))
	}
	return &SumMatrixCoefficient{height: height, width: width}
}

func (c *SumMatrixCoefficient) AddCoefficient(cf MatrixCoefficient, a float64) (err error) {
	if h, w := cf.Dims(); h != c.height || w != c.width {
		return fmt.Errorf("matrix coefficient of dimensions %dx%d added to sum of dimensions %dx%d",
			h, w, c.height, c.width)
	}
	c.terms = append(c.terms, matrixTerm{c: cf, a: a})
	return
}

// AddScalar adds a scalar coefficient times the identity, for square sums only
func (c *SumMatrixCoefficient) AddScalar(cf Coefficient, a float64) (err error) {
	if c.height != c.width {
		return fmt.Errorf("scalar coefficient added to non square %dx%d matrix sum", c.height, c.width)
	}
	c.terms = append(c.terms, matrixTerm{c: NewMatrixWrappedCoefficient(c.height, cf), a: a})
	return
}

func (c *SumMatrixCoefficient) Dims() (height, width int) { return c.height, c.width }

func (c *SumMatrixCoefficient) NumTerms() int { return len(c.terms) }

func (c *SumMatrixCoefficient) Eval(ctx *EvalContext, T *mesh.ElementTransformation,
	ip mesh.IntegrationPoint) utils.Mat {
	M := utils.NewMat(c.height, c.width)
	for _, t := range c.terms {
		M.AddScaled(t.a, t.c.Eval(ctx, T, ip))
	}
	return M
}
