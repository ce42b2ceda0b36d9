package automation

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/icehouse/internal/climate"
	"github.com/san-kum/icehouse/internal/config"
	"github.com/san-kum/icehouse/internal/dynamo"
	"github.com/san-kum/icehouse/internal/experiment"
	"github.com/san-kum/icehouse/internal/sim"
	"github.com/san-kum/icehouse/internal/storage"
)

// Scenario is a scripted sequence of runs, typically a forcing history.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep overrides the base config for one run. Unset pointer
// fields keep the base value. With Continue the run starts from the
// previous step's final temperature instead of InitialTemp.
type ScenarioStep struct {
	Name        string             `yaml:"name"`
	Preset      string             `yaml:"preset"`
	Integrator  string             `yaml:"integrator"`
	Greenhouse  *float64           `yaml:"greenhouse"`
	InitialTemp *float64           `yaml:"initial_temp"`
	Steps       int                `yaml:"steps"`
	Dt          float64            `yaml:"dt"`
	Params      map[string]float64 `yaml:"params"`
	Continue    bool               `yaml:"continue"`
	SaveAs      string             `yaml:"save_as"`
}

type StepResult struct {
	Name   string
	RunID  string
	Config *config.Config
	Result *sim.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%w: scenario %q has no steps", dynamo.ErrInvalidArgument, scenario.Name)
	}
	return &scenario, nil
}

// stepConfig layers a step over base: preset first, then explicit fields.
func stepConfig(base *config.Config, step ScenarioStep) (*config.Config, error) {
	cfg := base.Clone()
	if step.Preset != "" {
		p := config.GetPreset(step.Preset)
		if p == nil {
			return nil, fmt.Errorf("%w: unknown preset %q (available: %v)", dynamo.ErrInvalidArgument, step.Preset, config.ListPresets())
		}
		cfg.Run = p.Run
	}
	if step.Integrator != "" {
		cfg.Run.Integrator = step.Integrator
	}
	if step.Greenhouse != nil {
		cfg.Run.Greenhouse = *step.Greenhouse
	}
	if step.InitialTemp != nil {
		cfg.Run.InitialTemp = *step.InitialTemp
	}
	if step.Steps != 0 {
		cfg.Run.Steps = step.Steps
	}
	if step.Dt != 0 {
		cfg.Run.Dt = step.Dt
	}
	for k, v := range step.Params {
		if err := cfg.Set(k, v); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// RunScenario executes the steps in order. Steps with SaveAs are written
// to st when it is non-nil. Results gathered before a failing step are
// returned with the error.
func RunScenario(ctx context.Context, scenario *Scenario, base *config.Config, st *storage.Store, log logrus.FieldLogger) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))
	prevFinal := 0.0

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step-%d", i+1)
		}

		cfg, err := stepConfig(base, step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		if step.Continue {
			if i == 0 {
				return results, fmt.Errorf("step %d: %w: first step cannot continue", i+1, dynamo.ErrInvalidArgument)
			}
			cfg.Run.InitialTemp = prevFinal
		}

		exp, err := experiment.New(name, cfg)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		res, elapsed, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		prevFinal = res.Trajectory.Final().Temperature

		sr := StepResult{Name: name, Config: cfg, Result: res}
		if step.SaveAs != "" && st != nil {
			meta := exp.Metadata(res)
			meta.Name = step.SaveAs
			if sr.RunID, err = st.Save(meta, res.Trajectory); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)

		log.WithFields(logrus.Fields{
			"scenario":   scenario.Name,
			"step":       fmt.Sprintf("%d/%d", i+1, len(scenario.Steps)),
			"greenhouse": cfg.Run.Greenhouse,
			"start":      cfg.Run.InitialTemp,
			"final":      prevFinal,
			"elapsed":    elapsed,
		}).Info("scenario step complete")
	}

	return results, nil
}

// ParameterSweep runs the base config once per value of a single setting.
type ParameterSweep struct {
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

type SweepResult struct {
	ParamValue float64
	FinalTemp  float64
	Converged  bool // last step moved less than ConvergenceTol
	Hot        bool
}

const ConvergenceTol = 1e-6

func RunSweep(ctx context.Context, sweep *ParameterSweep, base *config.Config, log logrus.FieldLogger) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("%w: sweep needs at least 2 steps, got %d", dynamo.ErrInvalidArgument, sweep.NumSteps)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		val := sweep.ParamMin + float64(i)*paramStep
		cfg := base.Clone()
		if err := cfg.Set(sweep.ParamName, val); err != nil {
			return nil, err
		}

		exp, err := experiment.New("sweep", cfg)
		if err != nil {
			return nil, fmt.Errorf("%s=%v: %w", sweep.ParamName, val, err)
		}
		res, _, err := exp.Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s=%v: %w", sweep.ParamName, val, err)
		}

		final := res.Trajectory.Final().Temperature
		results = append(results, SweepResult{
			ParamValue: val,
			FinalTemp:  final,
			Converged:  res.Metrics["convergence"] < ConvergenceTol,
			Hot:        final > climate.FreezingPoint,
		})

		log.WithField(sweep.ParamName, val).Debugf("sweep %d/%d: %.2f K", i+1, sweep.NumSteps, final)
	}

	return results, nil
}

// MonteCarloConfig perturbs the initial temperature uniformly within
// ±Perturbation of the base config's start.
type MonteCarloConfig struct {
	Perturbation float64
	NumTrials    int
	Seed         int64 // 0 picks a time-based seed
}

type MonteCarloResult struct {
	TrialID     int
	InitialTemp float64
	FinalTemp   float64
	Hot         bool
}

// RunMonteCarlo samples the basins of attraction around the base start.
// Trials run concurrently through the experiment ensemble.
func RunMonteCarlo(ctx context.Context, mc *MonteCarloConfig, base *config.Config, log logrus.FieldLogger) ([]MonteCarloResult, error) {
	if mc.NumTrials <= 0 {
		return nil, fmt.Errorf("%w: trials must be positive, got %d", dynamo.ErrInvalidArgument, mc.NumTrials)
	}

	seed := mc.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	starts := make([]float64, mc.NumTrials)
	for i := range starts {
		starts[i] = base.Run.InitialTemp + (rng.Float64()-0.5)*2*mc.Perturbation
	}

	exp, err := experiment.New("montecarlo", base)
	if err != nil {
		return nil, err
	}
	runs, err := exp.RunEnsemble(ctx, starts)
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, len(runs))
	for i, res := range runs {
		final := res.Trajectory.Final().Temperature
		results[i] = MonteCarloResult{
			TrialID:     i,
			InitialTemp: starts[i],
			FinalTemp:   final,
			Hot:         final > climate.FreezingPoint,
		}
	}

	hot, ice := MonteCarloStats(results)
	mean, std := FinalSpread(results)
	log.WithFields(logrus.Fields{
		"seed": seed,
		"hot":  hot,
		"ice":  ice,
		"mean": mean,
		"std":  std,
	}).Info("monte carlo complete")
	return results, nil
}

func MonteCarloStats(results []MonteCarloResult) (hot, ice int) {
	for _, r := range results {
		if r.Hot {
			hot++
		} else {
			ice++
		}
	}
	return
}

// FinalSpread returns the mean and sample standard deviation of the final
// temperatures. With two basins populated the spread is bimodal, so the
// mean is rarely a state the climate actually occupies.
func FinalSpread(results []MonteCarloResult) (mean, std float64) {
	if len(results) == 0 {
		return 0, 0
	}
	finals := make([]float64, len(results))
	for i, r := range results {
		finals[i] = r.FinalTemp
	}
	if len(finals) == 1 {
		return finals[0], 0
	}
	return stat.MeanStdDev(finals, nil)
}
