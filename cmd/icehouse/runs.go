package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/icehouse/internal/analysis"
	"github.com/san-kum/icehouse/internal/climate"
	"github.com/san-kum/icehouse/internal/config"
	"github.com/san-kum/icehouse/internal/export"
	"github.com/san-kum/icehouse/internal/integrators"
	"github.com/san-kum/icehouse/internal/storage"
	"github.com/san-kum/icehouse/internal/viz"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir)
			st.Log = log
			runs, err := st.List()
			if err != nil {
				return err
			}

			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTIME\tG\tT0\tFINAL\tSTEPS\tDT\tINTEG")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%.3f\t%.2f\t%.4f\t%d\t%.3g\t%s\n",
					run.ID,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.Greenhouse,
					run.InitialTemp,
					run.FinalTemp,
					run.Steps,
					run.Dt,
					run.Integrator,
				)
			}
			return w.Flush()
		},
	}
}

func plotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir)
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			tr, err := st.LoadTrajectory(args[0])
			if err != nil {
				return err
			}
			if tr.Len() == 0 {
				return fmt.Errorf("no data to plot")
			}

			fmt.Println(viz.Header("run: " + meta.ID))
			fmt.Println(viz.Metric("greenhouse", fmt.Sprintf("%.3f", meta.Greenhouse)))
			fmt.Println(viz.Metric("samples", fmt.Sprint(tr.Len())))
			fmt.Println()
			fmt.Println(viz.Temperature(tr, "temperature (K)"))
			fmt.Println()
			fmt.Println(viz.Series(tr.Rates, "dT/dt (K/s)", 10))

			if svgPath != "" {
				days := make([]float64, tr.Len())
				for i, t := range tr.Times {
					days[i] = t / 86400
				}
				doc := export.LineChart([]export.Series{{X: days, Y: tr.Temperatures, Stroke: "#ff8844"}}, 800, 400)
				if err := export.WriteFile(svgPath, doc); err != nil {
					return err
				}
				log.WithField("path", svgPath).Info("wrote svg")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&svgPath, "svg", "", "also write the temperature curve to an svg file")
	return cmd
}

func phaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase portrait (T against dT/dt) of a run over the model's rate curve",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir)
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			tr, err := st.LoadTrajectory(args[0])
			if err != nil {
				return err
			}

			portrait := analysis.TrajectoryPortrait(tr)
			fmt.Println(viz.Header("trajectory phase portrait: " + meta.ID))
			fmt.Print(analysis.PhasePortraitToASCII(portrait, 70, 16))

			m, err := climate.New(meta.Params)
			if err != nil {
				log.WithError(err).Warn("stored parameters unusable, using defaults")
				m = climate.DefaultModel()
			}
			rate, err := analysis.RatePortrait(m, meta.Greenhouse)
			if err != nil {
				return err
			}
			fmt.Println()
			fmt.Println(viz.Header(fmt.Sprintf("rate curve at g=%.3f", meta.Greenhouse)))
			fmt.Print(analysis.PhasePortraitToASCII(rate, 70, 16))

			if integ, err := integrators.ByName(meta.Integrator); err == nil && meta.Dt > 0 && tr.Len() > 0 {
				final := tr.Final().Temperature
				lambda := analysis.LyapunovExponent(m.System(meta.Greenhouse), integ, final, meta.Dt, 200, 1e-3)
				fmt.Println()
				fmt.Println(viz.Metric("local lyapunov", fmt.Sprintf("%.3e 1/s at %.2f K", lambda, final)))
			}

			if svgPath != "" {
				xs, ys := portrait.XY()
				canvas := viz.TraceXY(xs, ys, 70, 16)
				if canvas == nil {
					return fmt.Errorf("run %s has no finite samples", meta.ID)
				}
				if err := export.WriteFile(svgPath, export.CanvasToSVG(canvas, 4)); err != nil {
					return err
				}
				log.WithField("path", svgPath).Info("wrote svg")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&svgPath, "svg", "", "also write the trajectory trace to an svg file")
	return cmd
}

func exportCSVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := storage.New(dataDir).LoadTrajectory(args[0])
			if err != nil {
				return err
			}
			return storage.WriteCSV(os.Stdout, tr)
		},
	}
}

func exportJSONCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(args[0], os.Stdout)
		},
	}
}

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tG\tT0\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Fprintf(w, "%s\t%.3f\t%.1f\t%s\n", name, p.Greenhouse, p.InitialTemp, p.Description)
			}
			return w.Flush()
		},
	}
}
