package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/projectile/internal/dynamo"
	"github.com/san-kum/projectile/internal/launch"
	"github.com/san-kum/projectile/internal/sim"
)

const (
	DefaultDt         = 0.1
	DefaultGravity    = 9.81
	DefaultSpeed      = 7.5
	DefaultAngle      = 45.0
	DefaultMaxSteps   = 100000
	DefaultIntegrator = "euler"
	DefaultDataDir    = ".projectile"
	DefaultLogLevel   = "info"
)

type Config struct {
	Integrator string        `yaml:"integrator"`
	Dt         float64       `yaml:"dt"`
	Gravity    float64       `yaml:"gravity"`
	Tick       time.Duration `yaml:"tick"`
	MaxSteps   int           `yaml:"max_steps"`
	Launch     LaunchConfig  `yaml:"launch"`
	Bounds     launch.Bounds `yaml:"bounds"`
	DataDir    string        `yaml:"data_dir"`
	Log        LogConfig     `yaml:"log"`
}

type LaunchConfig struct {
	Speed float64 `yaml:"speed"`
	Angle float64 `yaml:"angle"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

func DefaultConfig() *Config {
	return &Config{
		Integrator: DefaultIntegrator,
		Dt:         DefaultDt,
		Gravity:    DefaultGravity,
		MaxSteps:   DefaultMaxSteps,
		Launch: LaunchConfig{
			Speed: DefaultSpeed,
			Angle: DefaultAngle,
		},
		Bounds:  launch.DefaultBounds(),
		DataDir: DefaultDataDir,
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOnto(path, DefaultConfig())
}

// LoadOnto overlays the file at path on base. Keys absent from the file keep
// the base value, so a preset applied to base survives unless the file
// names a launch of its own.
func LoadOnto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g: %w", c.Dt, dynamo.ErrParameterBounds)
	}
	if c.Gravity <= 0 {
		return fmt.Errorf("gravity must be positive, got %g: %w", c.Gravity, dynamo.ErrParameterBounds)
	}
	if c.Tick < 0 {
		return fmt.Errorf("tick must not be negative, got %s: %w", c.Tick, dynamo.ErrParameterBounds)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("max_steps must not be negative, got %d: %w", c.MaxSteps, dynamo.ErrParameterBounds)
	}
	b := c.Bounds
	if b.SpeedMin > b.SpeedMax || b.AngleMin > b.AngleMax {
		return fmt.Errorf("bounds are inverted: %+v: %w", b, dynamo.ErrParameterBounds)
	}
	return nil
}

// TickInterval is the wall-clock pause between steps. It follows dt unless
// set explicitly.
func (c *Config) TickInterval() time.Duration {
	if c.Tick > 0 {
		return c.Tick
	}
	return time.Duration(c.Dt * float64(time.Second))
}

func (c *Config) EngineConfig() sim.Config {
	return sim.Config{
		Dt:       c.Dt,
		Gravity:  c.Gravity,
		MaxSteps: c.MaxSteps,
	}
}

func (c *Config) LaunchParams() launch.Params {
	return launch.Params{Speed: c.Launch.Speed, Angle: c.Launch.Angle}
}
