package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/icehouse/internal/analysis"
	"github.com/san-kum/icehouse/internal/export"
	"github.com/san-kum/icehouse/internal/viz"
)

func equilibriaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "equilibria",
		Short: "list and classify the equilibrium temperatures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			m, err := cfg.NewModel()
			if err != nil {
				return err
			}
			g := cfg.Run.Greenhouse

			eqs, err := analysis.Classify(m, g)
			if err != nil {
				return err
			}

			fmt.Println(viz.Header(fmt.Sprintf("equilibria at g=%.3f", g)))
			if len(eqs) == 0 {
				fmt.Printf("no equilibrium in [%.0f, %.0f] K\n", m.MinTemp(), m.MaxTemp())
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "GRID T\tROOT\tSLOPE\tBRANCH\tRELAXATION")
			for _, e := range eqs {
				relax := "-"
				if e.Stable {
					relax = fmt.Sprintf("%.1f days", e.RelaxationTime()/86400)
				}
				fmt.Fprintf(w, "%.4f\t%.4f\t%.3e\t%s\t%s\n",
					e.Temperature, e.Root, e.Slope, viz.BranchStyle(e.Branch).Render(e.Branch.String()), relax)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			T, found, err := m.StableEquilibrium(g)
			if err != nil {
				return err
			}
			if found {
				fmt.Println()
				fmt.Println(viz.Metric("first stable", fmt.Sprintf("%.4f K", T)))
			}
			return nil
		},
	}
}

func potentialCmd() *cobra.Command {
	var at float64
	cmd := &cobra.Command{
		Use:   "potential",
		Short: "show the climate potential landscape",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			m, err := cfg.NewModel()
			if err != nil {
				return err
			}
			g := cfg.Run.Greenhouse

			if cmd.Flags().Changed("at") {
				fmt.Println(viz.Metric(fmt.Sprintf("V(%.2f K)", at), fmt.Sprintf("%.6e", m.Potential(at, g))))
				return nil
			}

			curve := m.PotentialCurve(g)
			fmt.Println(viz.Header(fmt.Sprintf("potential at g=%.3f, %.0f to %.0f K", g, m.MinTemp(), m.MaxTemp())))
			fmt.Print(viz.PlotXY(curve.Temperatures, curve.Values, 60, 12))
			fmt.Println(viz.Subtle.Render("wells are stable states, the ridge between them is the tipping point"))

			if plot {
				fmt.Println()
				fmt.Println(viz.Series(curve.Values, "V(T) over the temperature grid", 3))
			}

			if svgPath != "" {
				doc := export.LineChart([]export.Series{{X: curve.Temperatures, Y: curve.Values}}, 800, 400)
				if err := export.WriteFile(svgPath, doc); err != nil {
					return err
				}
				log.WithField("path", svgPath).Info("wrote svg")
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&at, "at", 288, "evaluate the potential at a single temperature (K)")
	cmd.Flags().BoolVar(&plot, "plot", false, "also plot with asciigraph")
	cmd.Flags().StringVar(&svgPath, "svg", "", "write the curve to an svg file")
	return cmd
}

func albedoCmd() *cobra.Command {
	var at float64
	cmd := &cobra.Command{
		Use:   "albedo",
		Short: "show the temperature-dependent albedo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			m, err := cfg.NewModel()
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("at") {
				fmt.Println(viz.Metric(fmt.Sprintf("albedo(%.2f K)", at), fmt.Sprintf("%.4f", m.Albedo(at))))
				fmt.Println(viz.Metric("absorbed", fmt.Sprintf("%.2f W/m²", m.EnergyIn(at))))
				return nil
			}

			temps, albedo := m.AlbedoCurve()
			fmt.Println(viz.Header(fmt.Sprintf("albedo, %.0f to %.0f K", m.MinTemp(), m.MaxTemp())))
			fmt.Println(viz.Series(albedo, "albedo over the temperature grid", 3))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "T\tALBEDO\tABSORBED")
			stride := max(len(temps)/10, 1)
			for i := 0; i < len(temps); i += stride {
				fmt.Fprintf(w, "%.1f\t%.4f\t%.2f\n", temps[i], albedo[i], m.EnergyIn(temps[i]))
			}
			return w.Flush()
		},
	}
	cmd.Flags().Float64Var(&at, "at", 288, "evaluate at a single temperature (K)")
	return cmd
}

func hysteresisCmd() *cobra.Command {
	hc := analysis.DefaultHysteresisConfig()
	var table bool
	cmd := &cobra.Command{
		Use:   "hysteresis",
		Short: "ramp the greenhouse factor up and back down",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			m, err := cfg.NewModel()
			if err != nil {
				return err
			}

			loop, err := analysis.Hysteresis(m, hc)
			if err != nil {
				return err
			}

			fmt.Println(viz.Header(fmt.Sprintf("hysteresis: g %.3f → %.3f → %.3f from %.1f K", hc.GStart, hc.GEnd, hc.GStart, hc.T0)))
			fmt.Println(viz.Hysteresis(loop, "T (K): forward blue, backward red"))
			if up, ok := analysis.Tipping(loop.Forward); ok {
				fmt.Println(viz.Metric("warming tipping point", fmt.Sprintf("g ≈ %.4f", up)))
			}
			if down, ok := analysis.Tipping(loop.Backward); ok {
				fmt.Println(viz.Metric("cooling tipping point", fmt.Sprintf("g ≈ %.4f", down)))
			}

			if !table {
				return nil
			}
			n := len(loop.Forward)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "\nG\tFORWARD\tBACKWARD")
			for i := 0; i < n; i++ {
				f, b := loop.Forward[i], loop.Backward[n-1-i]
				fmt.Fprintf(w, "%.4f\t%.2f\t%.2f\n", f.G, f.T, b.T)
			}
			return w.Flush()
		},
	}
	cmd.Flags().Float64Var(&hc.GStart, "g-start", hc.GStart, "lower end of the ramp")
	cmd.Flags().Float64Var(&hc.GEnd, "g-end", hc.GEnd, "upper end of the ramp")
	cmd.Flags().IntVar(&hc.Steps, "n", hc.Steps, "samples per leg")
	cmd.Flags().Float64Var(&hc.T0, "t0", hc.T0, "starting temperature (K)")
	cmd.Flags().Float64Var(&hc.Window, "window", hc.Window, "search half-width around the previous state (K)")
	cmd.Flags().Float64Var(&hc.Step, "scan-step", hc.Step, "search resolution (K)")
	cmd.Flags().BoolVar(&table, "table", false, "print the sampled legs")
	return cmd
}

func bifurcationCmd() *cobra.Command {
	var (
		gMin, gMax float64
		n          int
	)
	cmd := &cobra.Command{
		Use:   "bifurcation",
		Short: "equilibria across a range of greenhouse factors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			m, err := cfg.NewModel()
			if err != nil {
				return err
			}

			data, err := analysis.Bifurcation(m, gMin, gMax, n)
			if err != nil {
				return err
			}

			fmt.Println(viz.Header(fmt.Sprintf("bifurcation diagram, g from %.3f to %.3f", gMin, gMax)))
			fmt.Print(analysis.BifurcationToASCII(data, 70, 16))
			fmt.Println(viz.Subtle.Render("• stable   · unstable"))
			fmt.Println()
			fmt.Println(viz.StableBranches(data, "coldest (blue) and warmest (red) stable state"))
			return nil
		},
	}
	cmd.Flags().Float64Var(&gMin, "g-min", 0.25, "lowest greenhouse factor")
	cmd.Flags().Float64Var(&gMax, "g-max", 0.55, "highest greenhouse factor")
	cmd.Flags().IntVar(&n, "n", 121, "number of samples")
	return cmd
}
