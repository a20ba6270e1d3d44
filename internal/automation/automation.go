// Package automation runs scripted sequences of flock simulations described in YAML.
package automation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/san-kum/flocksim/internal/config"
	"github.com/san-kum/flocksim/internal/metrics"
	"github.com/san-kum/flocksim/internal/sim"
	"github.com/san-kum/flocksim/internal/snapshot"
	"github.com/san-kum/flocksim/internal/storage"
	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyScenario = errors.New("automation: scenario has no steps")
	ErrInvalidSweep  = errors.New("automation: invalid sweep")
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`

	dir string
}

// ScenarioStep is a single run in a scenario. Fields left at their zero value keep the
// preset's setting.
type ScenarioStep struct {
	Name    string         `yaml:"name"`
	Preset  string         `yaml:"preset"`
	Config  string         `yaml:"config"`
	Frames  int            `yaml:"frames"`
	Boids   int            `yaml:"boids"`
	Seed    *int64         `yaml:"seed"`
	Set     map[string]any `yaml:"set"`
	Metrics string         `yaml:"metrics"`
	Repeat  int            `yaml:"repeat"`
	Sweep   *Sweep         `yaml:"sweep"`
	SaveAs  string         `yaml:"save_as"`
}

// Sweep varies one config key linearly over Steps values from Min to Max.
type Sweep struct {
	Param string  `yaml:"param"`
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Steps int     `yaml:"steps"`
}

// Values returns the swept values in order.
func (s *Sweep) Values() ([]float64, error) {
	if s.Param == "" || s.Steps < 1 {
		return nil, fmt.Errorf("%w: param %q, steps %d", ErrInvalidSweep, s.Param, s.Steps)
	}
	if s.Steps == 1 {
		return []float64{s.Min}, nil
	}
	values := make([]float64, s.Steps)
	step := (s.Max - s.Min) / float64(s.Steps-1)
	for i := range values {
		values[i] = s.Min + float64(i)*step
	}
	values[len(values)-1] = s.Max
	return values, nil
}

// LoadScenario loads a scenario from a YAML file. Step config paths are resolved
// relative to the scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, ErrEmptyScenario
	}
	scenario.dir = filepath.Dir(path)
	return &scenario, nil
}

// StepResult is the outcome of one simulation run within a scenario.
type StepResult struct {
	Step   string
	RunID  string
	Config *config.Config
	Result *sim.Result
}

// SweepResult holds the metric means of one swept value.
type SweepResult struct {
	Value   float64
	Metrics map[string]float64
}

// Runner executes scenarios and persists each run to a store.
type Runner struct {
	store    *storage.Store
	logger   *slog.Logger
	parallel int
}

type Option func(*Runner)

// WithStore persists every run. Without a store runs are only returned.
func WithStore(s *storage.Store) Option {
	return func(r *Runner) { r.store = s }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithParallel bounds how many repeat members run at once. n <= 0 means no limit.
func WithParallel(n int) Option {
	return func(r *Runner) { r.parallel = n }
}

func NewRunner(opts ...Option) *Runner {
	r := &Runner{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes all steps in order. Results of completed steps are returned along with
// the first error.
func (r *Runner) Run(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	if len(scenario.Steps) == 0 {
		return nil, ErrEmptyScenario
	}

	var results []StepResult
	for i, step := range scenario.Steps {
		name := stepName(scenario, step, i)
		r.logger.Info("scenario step", "step", i+1, "of", len(scenario.Steps), "name", name)

		cfg, err := r.stepConfig(scenario, step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		var out []StepResult
		switch {
		case step.Sweep != nil:
			out, err = r.runSweep(ctx, name, cfg, step)
		case step.Repeat > 1:
			out, err = r.runRepeat(ctx, name, cfg, step)
		default:
			var res StepResult
			res, err = r.runOne(ctx, name, cfg, step.Metrics)
			out = []StepResult{res}
		}
		results = append(results, out...)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return results, nil
}

func stepName(scenario *Scenario, step ScenarioStep, i int) string {
	switch {
	case step.SaveAs != "":
		return step.SaveAs
	case step.Name != "":
		return step.Name
	case scenario.Name != "":
		return fmt.Sprintf("%s_step%d", scenario.Name, i+1)
	}
	return fmt.Sprintf("step%d", i+1)
}

func (r *Runner) stepConfig(scenario *Scenario, step ScenarioStep) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case step.Config != "":
		path := step.Config
		if !filepath.IsAbs(path) && scenario.dir != "" {
			path = filepath.Join(scenario.dir, path)
		}
		c, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = c
	default:
		preset := step.Preset
		if preset == "" {
			preset = "default"
		}
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q", preset)
		}
	}

	if step.Frames > 0 {
		cfg.Frames = step.Frames
	}
	if step.Boids > 0 {
		cfg.Boids = step.Boids
	}
	if step.Seed != nil {
		cfg.Seed = *step.Seed
	}

	keys := make([]string, 0, len(step.Set))
	for k := range step.Set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := cfg.SetParam(k, fmt.Sprint(step.Set[k])); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (r *Runner) build(cfg *config.Config, metricList string) (*sim.Simulator, error) {
	f, err := sim.NewFlock(cfg, nil)
	if err != nil {
		return nil, err
	}
	ms := metrics.All()
	if metricList != "" {
		if ms, err = metrics.Parse(metricList); err != nil {
			return nil, err
		}
	}
	return sim.New(f, sim.WithLogger(r.logger), sim.WithMetrics(ms...)), nil
}

func (r *Runner) runOne(ctx context.Context, name string, cfg *config.Config, metricList string) (StepResult, error) {
	res := StepResult{Step: name, Config: cfg}

	s, err := r.build(cfg, metricList)
	if err != nil {
		return res, err
	}
	result, err := s.Run(ctx, sim.Config{Frames: cfg.Frames})
	if err != nil {
		return res, err
	}
	res.Result = result

	if r.store != nil {
		f := s.Flock()
		final := snapshot.FromBoids(f.Boids(), cfg.Width, cfg.Height, f.Frame())
		if res.RunID, err = r.store.Save(name, cfg, result, final); err != nil {
			return res, err
		}
	}
	r.logger.Info("step complete", "name", name, "run", res.RunID, "fps", result.FPS())
	return res, nil
}

func (r *Runner) runSweep(ctx context.Context, name string, base *config.Config, step ScenarioStep) ([]StepResult, error) {
	values, err := step.Sweep.Values()
	if err != nil {
		return nil, err
	}

	results := make([]StepResult, 0, len(values))
	for i, v := range values {
		cfg := *base
		if err := cfg.SetParam(step.Sweep.Param, strconv.FormatFloat(v, 'f', -1, 64)); err != nil {
			return results, err
		}
		r.logger.Info("sweep", "index", i+1, "of", len(values), step.Sweep.Param, v)

		res, err := r.runOne(ctx, fmt.Sprintf("%s_%s_%d", name, step.Sweep.Param, i+1), &cfg, step.Metrics)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// runRepeat runs step.Repeat members over consecutive seeds concurrently.
func (r *Runner) runRepeat(ctx context.Context, name string, cfg *config.Config, step ScenarioStep) ([]StepResult, error) {
	ensemble := sim.NewEnsemble(func(seed int64) (*sim.Simulator, error) {
		c := *cfg
		c.Seed = seed
		return r.build(&c, step.Metrics)
	}, step.Repeat, cfg.Seed)
	ensemble.SetLimit(r.parallel)

	runs, err := ensemble.Run(ctx, sim.Config{Frames: cfg.Frames})
	if err != nil {
		return nil, err
	}

	results := make([]StepResult, 0, len(runs))
	for i, result := range runs {
		c := *cfg
		c.Seed = cfg.Seed + int64(i)
		res := StepResult{Step: fmt.Sprintf("%s_seed%d", name, c.Seed), Config: &c, Result: result}
		if r.store != nil {
			if res.RunID, err = r.store.Save(res.Step, &c, result, nil); err != nil {
				return results, err
			}
		}
		results = append(results, res)
	}
	for _, st := range sim.Summarize(runs) {
		r.logger.Info("repeat summary", "name", name, "metric", st.Name, "mean", st.Mean, "std", st.Std)
	}
	return results, nil
}

// SweepMetrics collapses sweep step results to their swept value and metric means.
func SweepMetrics(sweep *Sweep, results []StepResult) ([]SweepResult, error) {
	values, err := sweep.Values()
	if err != nil {
		return nil, err
	}
	if len(values) != len(results) {
		return nil, fmt.Errorf("%w: %d values, %d results", ErrInvalidSweep, len(values), len(results))
	}
	out := make([]SweepResult, len(results))
	for i, res := range results {
		out[i] = SweepResult{Value: values[i], Metrics: res.Result.Metrics}
	}
	return out, nil
}
