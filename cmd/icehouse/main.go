package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/icehouse/internal/config"
	"github.com/san-kum/icehouse/internal/integrators"
	"github.com/san-kum/icehouse/internal/storage"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string

	greenhouse float64
	temp       float64
	steps      int
	dt         float64
	integrator string

	plot    bool
	noSave  bool
	svgPath string

	log = logrus.New()
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error(err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "icehouse",
		Short:         "zero-dimensional energy-balance climate model",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log.SetLevel(level)
			return nil
		},
	}

	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".icehouse", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.Float64VarP(&greenhouse, "greenhouse", "g", config.DefaultConfig().Run.Greenhouse, "greenhouse factor in [0, 1)")
	pf.Float64VarP(&temp, "temp", "T", config.DefaultConfig().Run.InitialTemp, "initial temperature (K)")
	pf.IntVar(&steps, "steps", config.DefaultSteps, "number of samples")
	pf.Float64Var(&dt, "dt", config.DefaultDt, "timestep (s)")
	pf.StringVar(&integrator, "integrator", config.DefaultIntegrator, fmt.Sprintf("integrator %v", integrators.Names()))

	rootCmd.AddCommand(
		simulateCmd(),
		equilibriaCmd(),
		potentialCmd(),
		albedoCmd(),
		hysteresisCmd(),
		bifurcationCmd(),
		ensembleCmd(),
		sweepCmd(),
		monteCarloCmd(),
		calibrateCmd(),
		scenarioCmd(),
		compareCmd(),
		listCmd(),
		plotCmd(),
		phaseCmd(),
		exportCSVCmd(),
		exportJSONCmd(),
		presetsCmd(),
	)
	return rootCmd
}

// resolveConfig layers defaults, then --preset, then --config, then any
// run flag set explicitly on the command line. The returned name labels
// stored runs.
func resolveConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	name := "custom"

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg, name = p, preset
	}

	if configFile != "" {
		if err := config.Overlay(cfg, configFile); err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("greenhouse") {
		cfg.Run.Greenhouse = greenhouse
	}
	if flags.Changed("temp") {
		cfg.Run.InitialTemp = temp
	}
	if flags.Changed("steps") {
		cfg.Run.Steps = steps
	}
	if flags.Changed("dt") {
		cfg.Run.Dt = dt
	}
	if flags.Changed("integrator") {
		cfg.Run.Integrator = integrator
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	log.WithFields(logrus.Fields{
		"preset":     preset,
		"config":     configFile,
		"greenhouse": cfg.Run.Greenhouse,
		"temp":       cfg.Run.InitialTemp,
		"steps":      cfg.Run.Steps,
		"dt":         cfg.Run.Dt,
		"integrator": cfg.Run.Integrator,
	}).Debug("resolved config")

	return cfg, name, nil
}

func openStore() (*storage.Store, error) {
	st := storage.New(dataDir)
	st.Log = log
	return st, st.Init()
}
