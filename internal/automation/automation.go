package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/projectile/internal/dynamo"
	"github.com/san-kum/projectile/internal/integrators"
	"github.com/san-kum/projectile/internal/launch"
	"github.com/san-kum/projectile/internal/sim"
)

// Scenario is a scripted list of throws.
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Throws      []Throw `yaml:"throws"`
}

// Throw is one entry of a scenario. Zero fields fall back to the base
// engine settings passed to RunScenario.
type Throw struct {
	Label      string  `yaml:"label"`
	Speed      float64 `yaml:"speed"`
	Angle      float64 `yaml:"angle"`
	Integrator string  `yaml:"integrator"`
	Dt         float64 `yaml:"dt"`
	Gravity    float64 `yaml:"gravity"`
}

type ThrowResult struct {
	Throw   Throw
	Summary sim.Summary
	Result  *dynamo.Result
}

// Base carries the settings every throw starts from.
type Base struct {
	Integrator string
	Engine     sim.Config
	Bounds     launch.Bounds
	Logger     zerolog.Logger
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
	if len(scenario.Throws) == 0 {
		return nil, fmt.Errorf("%s: scenario has no throws", path)
	}
	return &scenario, nil
}

// RunScenario flies every throw in order and stops at the first failure.
func RunScenario(ctx context.Context, scenario *Scenario, base Base) ([]ThrowResult, error) {
	results := make([]ThrowResult, 0, len(scenario.Throws))

	for i, th := range scenario.Throws {
		name := base.Integrator
		if th.Integrator != "" {
			name = th.Integrator
		}
		cfg := base.Engine
		if th.Dt != 0 {
			cfg.Dt = th.Dt
		}
		if th.Gravity != 0 {
			cfg.Gravity = th.Gravity
		}

		p := launch.Params{Speed: th.Speed, Angle: th.Angle}
		if err := launch.Validate(p, base.Bounds); err != nil {
			return results, fmt.Errorf("throw %d: %w", i+1, err)
		}

		engine, err := newEngine(name, cfg)
		if err != nil {
			return results, fmt.Errorf("throw %d: %w", i+1, err)
		}
		res, err := engine.Fly(ctx, p)
		if err != nil {
			return results, fmt.Errorf("throw %d run: %w", i+1, err)
		}

		s := engine.Snapshot().Summary()
		base.Logger.Info().
			Int("throw", i+1).
			Str("label", th.Label).
			Float64("range", s.Range).
			Msg("throw finished")

		results = append(results, ThrowResult{Throw: th, Summary: s, Result: res})
	}

	return results, nil
}

// AngleSweep flies one speed at evenly spaced angles.
type AngleSweep struct {
	Speed      float64
	AngleMin   float64
	AngleMax   float64
	NumSteps   int
	Integrator string
	Engine     sim.Config
}

type SweepResult struct {
	Angle   float64
	Summary sim.Summary
}

func RunSweep(ctx context.Context, sweep *AngleSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d: %w", sweep.NumSteps, dynamo.ErrParameterBounds)
	}
	engine, err := newEngine(sweep.Integrator, sweep.Engine)
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	step := (sweep.AngleMax - sweep.AngleMin) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		angle := sweep.AngleMin + float64(i)*step
		if _, err := engine.Fly(ctx, launch.Params{Speed: sweep.Speed, Angle: angle}); err != nil {
			return results, err
		}
		results = append(results, SweepResult{Angle: angle, Summary: engine.Snapshot().Summary()})
	}

	return results, nil
}

// MonteCarloConfig perturbs a nominal launch to see how sensitive the range is.
type MonteCarloConfig struct {
	Nominal     launch.Params
	SpeedJitter float64
	AngleJitter float64
	NumTrials   int
	Seed        int64
	Integrator  string
	Engine      sim.Config
	Bounds      launch.Bounds
}

type MonteCarloStats struct {
	Trials    int
	MeanRange float64
	StdRange  float64
	MinRange  float64
	MaxRange  float64
}

// RunMonteCarlo draws uniform perturbations, clamped to the bounds, and
// summarises the resulting ranges.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) (MonteCarloStats, error) {
	if cfg.NumTrials <= 0 {
		return MonteCarloStats{}, fmt.Errorf("trials must be positive, got %d: %w", cfg.NumTrials, dynamo.ErrParameterBounds)
	}
	engine, err := newEngine(cfg.Integrator, cfg.Engine)
	if err != nil {
		return MonteCarloStats{}, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	stats := MonteCarloStats{MinRange: math.Inf(1), MaxRange: math.Inf(-1)}
	var sum, sumSq float64

	for trial := 0; trial < cfg.NumTrials; trial++ {
		p := launch.Params{
			Speed: clamp(cfg.Nominal.Speed+(rng.Float64()-0.5)*2*cfg.SpeedJitter, cfg.Bounds.SpeedMin, cfg.Bounds.SpeedMax),
			Angle: clamp(cfg.Nominal.Angle+(rng.Float64()-0.5)*2*cfg.AngleJitter, cfg.Bounds.AngleMin, cfg.Bounds.AngleMax),
		}
		if _, err := engine.Fly(ctx, p); err != nil {
			return stats, err
		}

		r := engine.Snapshot().Range
		sum += r
		sumSq += r * r
		stats.MinRange = math.Min(stats.MinRange, r)
		stats.MaxRange = math.Max(stats.MaxRange, r)
		stats.Trials++
	}

	n := float64(stats.Trials)
	stats.MeanRange = sum / n
	stats.StdRange = math.Sqrt(math.Max(sumSq/n-stats.MeanRange*stats.MeanRange, 0))
	return stats, nil
}

func newEngine(name string, cfg sim.Config) (*sim.Engine, error) {
	integ, err := integrators.Get(name)
	if err != nil {
		return nil, err
	}
	return sim.NewEngine(integ, cfg)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
