/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/notargets/emfield/InputParameters"
	"github.com/notargets/emfield/field"
	"github.com/notargets/emfield/mesh"
	"github.com/notargets/emfield/postprocess"
	"github.com/notargets/emfield/utils"
)

type ModelPost struct {
	GridFile string
	ICFile   string
}

// Report holds every quantity computed for an input deck, indexed like the
// deck's lists
type Report struct {
	EnergyE, EnergyH     float64
	DomainE, DomainH     []float64
	Fluxes               []complex128
	Participation        []float64
	LossTangent          []float64
	CurrentRe, CurrentIm []utils.Vec
	Poynting             []utils.Vec
	MeanE                []utils.Vec
	MeanV                []float64
}

// PostCmd represents the post command
var PostCmd = &cobra.Command{
	Use:   "post",
	Short: "Postprocess fields on a Gmsh mesh",
	Long: `Reads a Gmsh 2.2 mesh and an input deck defining materials, fields and the
boundary and domain quantities to compute, then reports those quantities`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		mp := &ModelPost{}
		if mp.GridFile, err = cmd.Flags().GetString("gridFile"); err != nil {
			return
		}
		if mp.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			return
		}
		ip, err := processInput(mp)
		if err != nil {
			return
		}
		ip.Print()
		m, err := mesh.ReadGmsh22(mp.GridFile)
		if err != nil {
			return
		}
		m.PrintStatistics()
		start := time.Now()
		rep, err := RunPost(cmd.Context(), m, ip)
		if err != nil {
			return
		}
		slog.Info("postprocessing complete", "elapsed", time.Since(start))
		rep.Print()
		return
	},
}

func processInput(mp *ModelPost) (ip *InputParameters.InputParameters, err error) {
	var (
		willExit bool
	)
	if len(mp.GridFile) == 0 {
		err := fmt.Errorf("must supply a grid file (-F, --gridFile) in Gmsh 2.2 (.msh) format")
		fmt.Printf("error: %s\n", err.Error())
		willExit = true
	}
	if len(mp.ICFile) == 0 {
		err := fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "Test Case"
Order: 2
Partitions: 4
Materials:
  - Attributes: [1]
    Permittivity: [11.45]
  - Attributes: [2]
    Permittivity: [1]
SurfaceFlux:
  - Type: Electric
    Attributes: [3]
Interfaces:
  - Type: MA
    Attributes: [3]
    Thickness: 2.e-9
    Permittivity: 10
Domains:
  - [1]
Fields:
  E:
    Real:
      Constant: [0, 0, 1]
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		willExit = true
	}
	if willExit {
		os.Exit(1)
	}
	var data []byte
	if data, err = os.ReadFile(mp.ICFile); err != nil {
		return
	}
	ip = &InputParameters.InputParameters{}
	if err = ip.Parse(data); err != nil {
		return nil, fmt.Errorf("%s: %w", mp.ICFile, err)
	}
	return
}

func init() {
	rootCmd.AddCommand(PostCmd)
	PostCmd.Flags().StringP("gridFile", "F", "", "Grid file to read in Gmsh 2.2 (.msh) format")
	PostCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- Materials\n\t- SurfaceFlux\n\t- Interfaces")
}

// RunPost partitions m, projects the deck's fields onto it and computes every
// quantity the deck asks for
func RunPost(ctx context.Context, m *mesh.Mesh, ip *InputParameters.InputParameters) (rep *Report, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	mat, err := ip.MaterialOperator(m.Dim)
	if err != nil {
		return
	}
	for _, attr := range m.Attributes() {
		if !contains(mat.Attributes(), attr) {
			return nil, fmt.Errorf("mesh attribute %d has no material", attr)
		}
	}
	nparts := ip.Partitions
	if nparts < 1 {
		nparts = 1
	}
	pms, err := mesh.Partition(m, nparts)
	if err != nil {
		return
	}
	sol, err := buildSolution(pms, ip.Fields, m.Dim)
	if err != nil {
		return
	}
	if err = sol.ExchangeFaceNbrData(ctx); err != nil {
		return
	}

	cfg, err := ip.SurfaceConfig()
	if err != nil {
		return
	}
	sop, err := postprocess.NewSurfacePostOperator(cfg, mat, ip.Order)
	if err != nil {
		return
	}
	dop, err := postprocess.NewDomainPostOperator(ip.Domains, mat, ip.Order)
	if err != nil {
		return
	}

	var (
		hasE = len(sol.E) != 0
		hasB = len(sol.B) != 0
	)
	rep = &Report{}
	if hasE {
		if rep.EnergyE, err = dop.GetEFieldEnergy(ctx, sol); err != nil {
			return
		}
	}
	if hasB {
		if rep.EnergyH, err = dop.GetHFieldEnergy(ctx, sol); err != nil {
			return
		}
	}
	for i := range ip.Domains {
		var Ue, Uh float64
		if hasE {
			if Ue, err = dop.GetEFieldEnergyIn(ctx, sol, i); err != nil {
				return
			}
		}
		if hasB {
			if Uh, err = dop.GetHFieldEnergyIn(ctx, sol, i); err != nil {
				return
			}
		}
		rep.DomainE = append(rep.DomainE, Ue)
		rep.DomainH = append(rep.DomainH, Uh)
	}
	for i := range cfg.Fluxes {
		var phi complex128
		if phi, err = sop.GetSurfaceFlux(ctx, sol, i); err != nil {
			return
		}
		rep.Fluxes = append(rep.Fluxes, phi)
	}
	for i := range cfg.Interfaces {
		var p float64
		if p, err = sop.GetInterfaceParticipation(ctx, sol, i, rep.EnergyE); err != nil {
			return
		}
		rep.Participation = append(rep.Participation, p)
		rep.LossTangent = append(rep.LossTangent, sop.GetInterfaceLossTangent(i))
	}
	for i := range cfg.Surfaces {
		if hasB {
			var Jr, Ji utils.Vec
			if Jr, Ji, err = sop.GetSurfaceCurrent(ctx, sol, i); err != nil {
				return
			}
			rep.CurrentRe = append(rep.CurrentRe, Jr)
			rep.CurrentIm = append(rep.CurrentIm, Ji)
		}
		if hasE && hasB {
			var S utils.Vec
			if S, err = sop.GetSurfacePoynting(ctx, sol, i); err != nil {
				return
			}
			rep.Poynting = append(rep.Poynting, S)
		}
		if hasE {
			var Em utils.Vec
			if Em, err = sop.GetSurfaceMeanE(ctx, sol, i); err != nil {
				return
			}
			rep.MeanE = append(rep.MeanE, Em)
		}
		if len(sol.V) != 0 {
			var Vm float64
			if Vm, err = sop.GetSurfaceMeanPotential(ctx, sol, i); err != nil {
				return
			}
			rep.MeanV = append(rep.MeanV, Vm)
		}
	}
	return
}

func buildSolution(pms []*mesh.ParMesh, fp InputParameters.FieldParams, dim int) (sol *postprocess.Solution, err error) {
	sol = postprocess.NewSolution(pms)
	project := func(name string, cf *InputParameters.ComplexFieldParams) (cgfs []*field.ComplexGridFunction, err error) {
		if cf == nil {
			return
		}
		if cf.Real == nil {
			return nil, fmt.Errorf("%s field has no real part", name)
		}
		if err = cf.Real.Validate(dim, dim); err != nil {
			return nil, fmt.Errorf("%s field real part: %w", name, err)
		}
		if cf.Imag != nil {
			if err = cf.Imag.Validate(dim, dim); err != nil {
				return nil, fmt.Errorf("%s field imaginary part: %w", name, err)
			}
		}
		for _, pm := range pms {
			cgf := field.NewComplexGridFunction(pm, dim, cf.Imag != nil)
			cgf.Real.ProjectFunc(cf.Real.Eval)
			if cgf.HasImag() {
				cgf.Imag.ProjectFunc(cf.Imag.Eval)
			}
			cgfs = append(cgfs, cgf)
		}
		return
	}
	if sol.E, err = project("E", fp.E); err != nil {
		return nil, err
	}
	if sol.B, err = project("B", fp.B); err != nil {
		return nil, err
	}
	if fp.V != nil {
		if err = fp.V.Validate(1, dim); err != nil {
			return nil, fmt.Errorf("V field: %w", err)
		}
		for _, pm := range pms {
			gf := field.NewGridFunction(pm, 1)
			gf.ProjectFunc(fp.V.Eval)
			sol.V = append(sol.V, gf)
		}
	}
	return
}

func contains(list []int, v int) bool {
	for _, l := range list {
		if l == v {
			return true
		}
	}
	return false
}

func (rep *Report) Print() {
	fmt.Printf("Electric energy = %g\n", rep.EnergyE)
	fmt.Printf("Magnetic energy = %g\n", rep.EnergyH)
	for i := range rep.DomainE {
		fmt.Printf("Domain[%d]: electric energy = %g, magnetic energy = %g\n", i, rep.DomainE[i], rep.DomainH[i])
	}
	for i, phi := range rep.Fluxes {
		fmt.Printf("SurfaceFlux[%d] = %g\n", i, phi)
	}
	for i, p := range rep.Participation {
		fmt.Printf("Interface[%d]: participation = %g, loss tangent = %g\n", i, p, rep.LossTangent[i])
	}
	for i := range rep.CurrentRe {
		fmt.Printf("Surface[%d]: current = %v + i %v\n", i, rep.CurrentRe[i], rep.CurrentIm[i])
	}
	for i, S := range rep.Poynting {
		fmt.Printf("Surface[%d]: Poynting = %v\n", i, S)
	}
	for i, E := range rep.MeanE {
		fmt.Printf("Surface[%d]: mean E = %v\n", i, E)
	}
	for i, V := range rep.MeanV {
		fmt.Printf("Surface[%d]: mean potential = %g\n", i, V)
	}
}
