package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/projectile/internal/dynamo"
	"github.com/san-kum/projectile/internal/launch"
	"github.com/san-kum/projectile/internal/sim"
)

func base() Base {
	return Base{
		Integrator: "euler",
		Engine:     sim.DefaultConfig(),
		Bounds:     launch.DefaultBounds(),
		Logger:     zerolog.Nop(),
	}
}

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestRunScenario(t *testing.T) {
	path := writeScenario(t, `
name: classroom
throws:
  - label: default
    speed: 7.5
    angle: 45
  - label: precise
    speed: 7.5
    angle: 45
    integrator: rk4
  - label: moon
    speed: 5
    angle: 60
    gravity: 1.62
`)
	sc, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "classroom", sc.Name)

	results, err := RunScenario(context.Background(), sc, base())
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, 12, results[0].Summary.Steps)
	assert.InDelta(t, 6.364, results[0].Summary.Range, 1e-3)
	assert.Equal(t, 11, results[1].Summary.Steps, "exact positions land one step earlier")
	assert.Greater(t, results[2].Summary.Range, results[0].Summary.Range)
	assert.NotEmpty(t, results[2].Result.Samples)
}

func TestRunScenarioStopsOnInvalidThrow(t *testing.T) {
	sc := &Scenario{Throws: []Throw{
		{Speed: 7.5, Angle: 45},
		{Speed: 20, Angle: 45},
		{Speed: 7.5, Angle: 30},
	}}
	results, err := RunScenario(context.Background(), sc, base())
	require.Error(t, err)
	assert.Len(t, results, 1)
	assert.True(t, errors.Is(err, launch.ErrOutOfRange))
	assert.ErrorContains(t, err, "throw 2")
}

func TestLoadScenarioEmpty(t *testing.T) {
	_, err := LoadScenario(writeScenario(t, "name: nothing\n"))
	assert.ErrorContains(t, err, "no throws")
}

func TestRunSweep(t *testing.T) {
	results, err := RunSweep(context.Background(), &AngleSweep{
		Speed:      10,
		AngleMin:   15,
		AngleMax:   75,
		NumSteps:   5,
		Integrator: "euler",
		Engine:     sim.DefaultConfig(),
	})
	require.NoError(t, err)
	require.Len(t, results, 5)
	assert.Equal(t, 15.0, results[0].Angle)
	assert.Equal(t, 75.0, results[4].Angle)

	for i := 1; i < len(results); i++ {
		assert.Greater(t, results[i].Summary.MaxHeight, results[i-1].Summary.MaxHeight)
	}

	_, err = RunSweep(context.Background(), &AngleSweep{NumSteps: 1, Integrator: "euler", Engine: sim.DefaultConfig()})
	assert.ErrorIs(t, err, dynamo.ErrParameterBounds)
}

func TestRunMonteCarlo(t *testing.T) {
	cfg := &MonteCarloConfig{
		Nominal:     launch.Params{Speed: 7.5, Angle: 45},
		SpeedJitter: 0.5,
		AngleJitter: 5,
		NumTrials:   50,
		Seed:        42,
		Integrator:  "euler",
		Engine:      sim.DefaultConfig(),
		Bounds:      launch.DefaultBounds(),
	}
	stats, err := RunMonteCarlo(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 50, stats.Trials)
	assert.LessOrEqual(t, stats.MinRange, stats.MeanRange)
	assert.GreaterOrEqual(t, stats.MaxRange, stats.MeanRange)
	assert.Greater(t, stats.StdRange, 0.0)

	again, err := RunMonteCarlo(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, stats, again, "fixed seed is reproducible")

	cfg.SpeedJitter, cfg.AngleJitter = 0, 0
	flat, err := RunMonteCarlo(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, flat.MinRange, flat.MaxRange)
}
