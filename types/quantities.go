package types

import (
	"fmt"
	"strings"
)

// SurfaceFluxType selects the vector field dotted with the boundary normal.
type SurfaceFluxType uint8

const (
	FluxElectric SurfaceFluxType = iota // (ε E)·n
	FluxMagnetic                        // B·n
	FluxPower                           // (E x μ⁻¹ B)·n
)

var SurfaceFluxNameMap = map[string]SurfaceFluxType{
	"electric": FluxElectric,
	"e":        FluxElectric,
	"magnetic": FluxMagnetic,
	"b":        FluxMagnetic,
	"power":    FluxPower,
	"poynting": FluxPower,
}

func (t SurfaceFluxType) String() string {
	return [...]string{"Electric", "Magnetic", "Power"}[t]
}

func NewSurfaceFluxType(label string) (t SurfaceFluxType, err error) {
	var ok bool
	if t, ok = SurfaceFluxNameMap[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("unknown surface flux type: %q", label)
	}
	return
}

// EnergyDensityType selects the electric (½ Dᴴ E) or magnetic (½ Hᴴ B) density.
type EnergyDensityType uint8

const (
	EnergyElectric EnergyDensityType = iota
	EnergyMagnetic
)

func (t EnergyDensityType) String() string {
	return [...]string{"Electric", "Magnetic"}[t]
}

// InterfaceDielectricType selects the thin lossy layer model.
type InterfaceDielectricType uint8

const (
	InterfaceDefault        InterfaceDielectricType = iota // ½ t ε |E|²
	InterfaceMetalAir                                      // ½ t/ε |E_n|²
	InterfaceMetalSubstrate                                // ½ t/ε |(ε_S E)_n|²
	InterfaceSubstrateAir                                  // ½ t (ε |E_t|² + |E_n|²/ε)
)

var InterfaceDielectricNameMap = map[string]InterfaceDielectricType{
	"default":         InterfaceDefault,
	"":                InterfaceDefault,
	"ma":              InterfaceMetalAir,
	"metal-air":       InterfaceMetalAir,
	"ms":              InterfaceMetalSubstrate,
	"metal-substrate": InterfaceMetalSubstrate,
	"sa":              InterfaceSubstrateAir,
	"substrate-air":   InterfaceSubstrateAir,
}

func (t InterfaceDielectricType) String() string {
	return [...]string{"Default", "MetalAir", "MetalSubstrate", "SubstrateAir"}[t]
}

func NewInterfaceDielectricType(label string) (t InterfaceDielectricType, err error) {
	var ok bool
	if t, ok = InterfaceDielectricNameMap[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("unknown interface dielectric type: %q", label)
	}
	return
}

// CombineMode is how the two sides of an interior boundary are merged.
type CombineMode uint8

const (
	SumAntisymmetric CombineMode = iota // side 1 minus side 2
	Average                             // mean of both sides
	MaxMagnitude                        // side with the larger squared magnitude
	SingleSide                          // exactly one side, chosen from material data
)

func (m CombineMode) String() string {
	return [...]string{"SumAntisymmetric", "Average", "MaxMagnitude", "SingleSide"}[m]
}
