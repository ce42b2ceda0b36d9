package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/icehouse/internal/automation"
	"github.com/san-kum/icehouse/internal/climate"
	"github.com/san-kum/icehouse/internal/experiment"
	"github.com/san-kum/icehouse/internal/integrators"
	"github.com/san-kum/icehouse/internal/optim"
	"github.com/san-kum/icehouse/internal/viz"
)

func simulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "integrate the temperature from an initial state",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	cmd.Flags().BoolVar(&plot, "plot", false, "plot temperature over time")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	return cmd
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	exp, err := experiment.New(name, cfg)
	if err != nil {
		return err
	}

	log.WithField("preset", name).Info("running simulation")
	result, elapsed, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}
	tr := result.Trajectory
	final := tr.Final()

	fmt.Println(viz.Header(fmt.Sprintf("simulation: g=%.3f, T0=%.2f K", cfg.Run.Greenhouse, cfg.Run.InitialTemp)))
	fmt.Println(viz.Metric("completed in", elapsed.String()))
	fmt.Println(viz.Metric("steps", fmt.Sprint(tr.Len())))
	fmt.Println(viz.Metric("simulated time", fmt.Sprintf("%.1f days", final.Time/86400)))
	fmt.Println(viz.Metric("final temperature", viz.TempStyle(final.Temperature).Render(fmt.Sprintf("%.4f K", final.Temperature))))
	fmt.Println(viz.Metric("last step rate", fmt.Sprintf("%.3e K/s", final.Rate)))
	fmt.Println(viz.Subtle.Render(viz.Sparkline(tr.Temperatures, 60)))

	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)

	if plot {
		fmt.Println()
		fmt.Println(viz.Temperature(tr, "temperature (K) vs step"))
	}

	if noSave {
		return nil
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	runID, err := st.Save(exp.Metadata(result), tr)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s\n", viz.Metric(name, fmt.Sprintf("%.6g", m[name])))
	}
}

func ensembleCmd() *cobra.Command {
	var temps []float64
	cmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run the same forcing from several initial temperatures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, name, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			exp, err := experiment.New(name, cfg)
			if err != nil {
				return err
			}

			results, err := exp.RunEnsemble(cmd.Context(), temps)
			if err != nil {
				return err
			}

			fmt.Println(viz.Header(fmt.Sprintf("ensemble at g=%.3f", cfg.Run.Greenhouse)))
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "T0\tFINAL\tSTATE\tCONVERGENCE")
			for i, res := range results {
				final := res.Trajectory.Final().Temperature
				fmt.Fprintf(w, "%.2f\t%.4f\t%s\t%.2e\n", temps[i], final, stateLabel(final), res.Metrics["convergence"])
			}
			return w.Flush()
		},
	}
	cmd.Flags().Float64SliceVar(&temps, "temps", []float64{230, 250, 270, 280, 290, 310}, "initial temperatures (K)")
	return cmd
}

func stateLabel(T float64) string {
	if T > climate.FreezingPoint {
		return viz.HotStyle.Render("hot")
	}
	return viz.IceStyle.Render("ice")
}

func sweepCmd() *cobra.Command {
	var sweep automation.ParameterSweep
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "run once per value of a single setting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			results, err := automation.RunSweep(cmd.Context(), &sweep, cfg, log)
			if err != nil {
				return err
			}

			fmt.Println(viz.Header(fmt.Sprintf("sweep of %s", sweep.ParamName)))
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\tFINAL\tSTATE\tCONVERGED\n", sweep.ParamName)
			for _, r := range results {
				fmt.Fprintf(w, "%.4g\t%.4f\t%s\t%v\n", r.ParamValue, r.FinalTemp, stateLabel(r.FinalTemp), r.Converged)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&sweep.ParamName, "param", "greenhouse", "setting to sweep")
	cmd.Flags().Float64Var(&sweep.ParamMin, "min", 0.3, "first value")
	cmd.Flags().Float64Var(&sweep.ParamMax, "max", 0.5, "last value")
	cmd.Flags().IntVar(&sweep.NumSteps, "n", 11, "number of values")
	return cmd
}

func monteCarloCmd() *cobra.Command {
	var mc automation.MonteCarloConfig
	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "estimate basins of attraction by perturbing the initial temperature",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			results, err := automation.RunMonteCarlo(cmd.Context(), &mc, cfg, log)
			if err != nil {
				return err
			}

			hot, ice := automation.MonteCarloStats(results)
			fmt.Println(viz.Header(fmt.Sprintf("monte carlo: T0=%.1f±%.1f K, g=%.3f", cfg.Run.InitialTemp, mc.Perturbation, cfg.Run.Greenhouse)))
			fmt.Println(viz.Metric("trials", fmt.Sprint(len(results))))
			fmt.Println(viz.Metric("hot", viz.HotStyle.Render(fmt.Sprintf("%d (%.0f%%)", hot, 100*float64(hot)/float64(len(results))))))
			fmt.Println(viz.Metric("ice", viz.IceStyle.Render(fmt.Sprintf("%d (%.0f%%)", ice, 100*float64(ice)/float64(len(results))))))
			mean, std := automation.FinalSpread(results)
			fmt.Println(viz.Metric("final T", fmt.Sprintf("%.2f ± %.2f K", mean, std)))
			return nil
		},
	}
	cmd.Flags().Float64Var(&mc.Perturbation, "perturbation", 10, "half-width of the initial temperature spread (K)")
	cmd.Flags().IntVar(&mc.NumTrials, "trials", 100, "number of trials")
	cmd.Flags().Int64Var(&mc.Seed, "seed", 0, "random seed (0 = time based)")
	return cmd
}

func calibrateCmd() *cobra.Command {
	var (
		target     float64
		gMin, gMax float64
		n          int
	)
	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "find the greenhouse factor whose run ends closest to a target temperature",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			gs := optim.NewGridSearch([]string{"greenhouse"}, [][]float64{optim.Linspace(gMin, gMax, n)})
			best, score, err := gs.Search(cmd.Context(), cfg, optim.TargetTemperature(target))
			if err != nil {
				return err
			}
			fmt.Println(viz.Header(fmt.Sprintf("calibration to %.2f K from T0=%.2f K", target, cfg.Run.InitialTemp)))
			fmt.Println(viz.Metric("greenhouse", fmt.Sprintf("%.4f", best["greenhouse"])))
			fmt.Println(viz.Metric("miss", fmt.Sprintf("%.4f K", score)))
			return nil
		},
	}
	cmd.Flags().Float64Var(&target, "target", 288, "target final temperature (K)")
	cmd.Flags().Float64Var(&gMin, "g-min", 0.3, "lowest greenhouse factor")
	cmd.Flags().Float64Var(&gMax, "g-max", 0.6, "highest greenhouse factor")
	cmd.Flags().IntVar(&n, "n", 61, "number of candidates")
	return cmd
}

func scenarioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of simulations from a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := automation.LoadScenario(args[0])
			if err != nil {
				return err
			}
			cfg, _, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			st, err := openStore()
			if err != nil {
				return err
			}

			results, err := automation.RunScenario(cmd.Context(), sc, cfg, st, log)
			if err != nil {
				return err
			}

			fmt.Println(viz.Header("scenario: " + sc.Name))
			if sc.Description != "" {
				fmt.Println(viz.Subtle.Render(sc.Description))
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "STEP\tG\tT0\tFINAL\tSTATE\tRUN")
			for _, r := range results {
				final := r.Result.Trajectory.Final().Temperature
				fmt.Fprintf(w, "%s\t%.3f\t%.2f\t%.4f\t%s\t%s\n",
					r.Name, r.Config.Run.Greenhouse, r.Config.Run.InitialTemp, final, stateLabel(final), r.RunID)
			}
			return w.Flush()
		},
	}
}

func compareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			names := args
			if len(names) == 0 {
				names = integrators.Names()
			}

			m, err := cfg.NewModel()
			if err != nil {
				return err
			}

			fmt.Printf("comparing integrators (g=%.3f, T0=%.2f K, dt=%.3g s, steps=%d)\n\n",
				cfg.Run.Greenhouse, cfg.Run.InitialTemp, cfg.Run.Dt, cfg.Run.Steps)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "INTEGRATOR\tFINAL\tCONVERGENCE\tTIME")

			for _, name := range names {
				integ, err := integrators.ByName(name)
				if err != nil {
					fmt.Fprintf(w, "%s\terror: %v\t\t\n", name, err)
					continue
				}

				start := time.Now()
				res, err := m.Run(cmd.Context(), cfg.Run.InitialTemp, cfg.Run.Greenhouse, cfg.SimConfig(), integ, experiment.DefaultMetrics(m)...)
				elapsed := time.Since(start)
				if err != nil {
					log.WithFields(logrus.Fields{"integrator": name}).WithError(err).Warn("run failed")
					fmt.Fprintf(w, "%s\terror: %v\t\t\n", name, err)
					continue
				}
				fmt.Fprintf(w, "%s\t%.6f\t%.2e\t%v\n", name, res.Trajectory.Final().Temperature, res.Metrics["convergence"], elapsed)
			}
			return w.Flush()
		},
	}
}
