package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/notargets/emfield/materials"
	"github.com/notargets/emfield/postprocess"
	"github.com/notargets/emfield/types"
	"github.com/notargets/emfield/utils"
)

// Parameters obtained from the YAML input file
type InputParameters struct {
	Title       string              `json:"Title"`
	Order       int                 `json:"Order"` // Quadrature order, 0 for the default
	Partitions  int                 `json:"Partitions"`
	Materials   []MaterialParams    `json:"Materials"`
	SurfaceFlux []SurfaceFluxParams `json:"SurfaceFlux"`
	Interfaces  []InterfaceParams   `json:"Interfaces"`
	Surfaces    [][]int             `json:"Surfaces"` // Boundary attribute groups for currents, Poynting and probes
	Domains     [][]int             `json:"Domains"`  // Domain attribute groups for energies
	Fields      FieldParams         `json:"Fields"`
}

// Tensors take 1 value (isotropic), dim values (diagonal) or dim*dim values
// (row major). Permeability defaults to 1.
type MaterialParams struct {
	Attributes   []int     `json:"Attributes"`
	Permittivity []float64 `json:"Permittivity"`
	Permeability []float64 `json:"Permeability,omitempty"`
}

type SurfaceFluxParams struct {
	Type       string    `json:"Type"` // Electric, Magnetic or Power
	Attributes []int     `json:"Attributes"`
	TwoSided   bool      `json:"TwoSided,omitempty"`
	Center     []float64 `json:"Center,omitempty"`
}

type InterfaceParams struct {
	Type         string  `json:"Type"` // Default, MA, MS or SA
	Attributes   []int   `json:"Attributes"`
	Thickness    float64 `json:"Thickness"`
	Permittivity float64 `json:"Permittivity"`
	LossTan      float64 `json:"LossTan,omitempty"`
}

// AffineField is f(x) = Constant + Gradient x, Gradient being row major with
// one row per field component
type AffineField struct {
	Constant []float64 `json:"Constant"`
	Gradient []float64 `json:"Gradient,omitempty"`
}

type ComplexFieldParams struct {
	Real *AffineField `json:"Real"`
	Imag *AffineField `json:"Imag,omitempty"`
}

// FieldParams defines analytic fields to postprocess in place of a solver
// solution
type FieldParams struct {
	E *ComplexFieldParams `json:"E,omitempty"`
	B *ComplexFieldParams `json:"B,omitempty"`
	V *AffineField        `json:"V,omitempty"`
}

func (ip *InputParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%d]\t\t\t\t= Quadrature Order\n", ip.Order)
	fmt.Printf("[%d]\t\t\t\t= Partitions\n", ip.Partitions)
	for i, m := range ip.Materials {
		fmt.Printf("Materials[%d] = attributes %v, ε %v, μ %v\n", i, m.Attributes, m.Permittivity, m.Permeability)
	}
	for i, f := range ip.SurfaceFlux {
		fmt.Printf("SurfaceFlux[%d] = %s on %v\n", i, f.Type, f.Attributes)
	}
	for i, d := range ip.Interfaces {
		fmt.Printf("Interfaces[%d] = %s on %v, t = %g, ε = %g\n", i, d.Type, d.Attributes, d.Thickness, d.Permittivity)
	}
	fmt.Printf("Surfaces = %v\n", ip.Surfaces)
	fmt.Printf("Domains = %v\n", ip.Domains)
}

func (ip *InputParameters) MaterialOperator(dim int) (mo *materials.MaterialOperator, err error) {
	mats := make([]materials.Material, len(ip.Materials))
	for i, m := range ip.Materials {
		mats[i].Attributes = m.Attributes
		if mats[i].Permittivity, err = materials.TensorFromList(dim, m.Permittivity); err != nil {
			return nil, fmt.Errorf("material %d permittivity: %w", i, err)
		}
		mu := m.Permeability
		if len(mu) == 0 {
			mu = []float64{1}
		}
		if mats[i].Permeability, err = materials.TensorFromList(dim, mu); err != nil {
			return nil, fmt.Errorf("material %d permeability: %w", i, err)
		}
	}
	return materials.NewMaterialOperator(dim, mats)
}

func (ip *InputParameters) SurfaceConfig() (cfg postprocess.SurfaceConfig, err error) {
	for i, f := range ip.SurfaceFlux {
		data := postprocess.SurfaceFluxData{
			Attributes: f.Attributes,
			TwoSided:   f.TwoSided,
		}
		if data.Type, err = types.NewSurfaceFluxType(f.Type); err != nil {
			return cfg, fmt.Errorf("surface flux %d: %w", i, err)
		}
		if len(f.Center) > utils.MaxDim {
			return cfg, fmt.Errorf("surface flux %d: center has %d coordinates", i, len(f.Center))
		}
		data.Center = utils.VecFromSlice(f.Center)
		cfg.Fluxes = append(cfg.Fluxes, data)
	}
	for i, d := range ip.Interfaces {
		data := postprocess.InterfaceData{
			Attributes:   d.Attributes,
			Thickness:    d.Thickness,
			Permittivity: d.Permittivity,
			LossTangent:  d.LossTan,
		}
		if data.Type, err = types.NewInterfaceDielectricType(d.Type); err != nil {
			return cfg, fmt.Errorf("interface %d: %w", i, err)
		}
		cfg.Interfaces = append(cfg.Interfaces, data)
	}
	cfg.Surfaces = ip.Surfaces
	return
}

func (af *AffineField) Validate(vdim, dim int) error {
	if len(af.Constant) != vdim {
		return fmt.Errorf("field needs %d constant values, have %d", vdim, len(af.Constant))
	}
	if len(af.Gradient) != 0 && len(af.Gradient) != vdim*dim {
		return fmt.Errorf("field gradient needs %d values, have %d", vdim*dim, len(af.Gradient))
	}
	return nil
}

// Eval is usable as a projection callback once the field is validated
func (af *AffineField) Eval(_ int, x utils.Vec, out *utils.Vec) {
	vdim := len(af.Constant)
	out.SetSize(vdim)
	for i := 0; i < vdim; i++ {
		v := af.Constant[i]
		if len(af.Gradient) != 0 {
			for j := 0; j < x.N; j++ {
				v += af.Gradient[i*x.N+j] * x.At(j)
			}
		}
		out.Set(i, v)
	}
}
