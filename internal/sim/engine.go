package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/projectile/internal/dynamo"
	"github.com/san-kum/projectile/internal/launch"
	"github.com/san-kum/projectile/internal/physics"
)

const (
	DefaultDt      = 0.1
	DefaultGravity = physics.StandardGravity
)

// Engine advances a single flight. It is not safe for concurrent use; the
// Runner gives it to exactly one goroutine at a time.
type Engine struct {
	dyn        *physics.Projectile
	integrator dynamo.Integrator
	dt         float64
	maxSteps   int
	flight     Flight
}

type Config struct {
	Dt       float64
	Gravity  float64
	MaxSteps int
}

func DefaultConfig() Config {
	return Config{Dt: DefaultDt, Gravity: DefaultGravity, MaxSteps: 100000}
}

func NewEngine(integrator dynamo.Integrator, cfg Config) (*Engine, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return &Engine{
		dyn:        physics.NewProjectile(cfg.Gravity),
		integrator: integrator,
		dt:         cfg.Dt,
		maxSteps:   cfg.MaxSteps,
	}, nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f: %w", cfg.Dt, dynamo.ErrParameterBounds)
	}
	if cfg.Gravity <= 0 {
		return fmt.Errorf("gravity must be positive, got %f: %w", cfg.Gravity, dynamo.ErrParameterBounds)
	}
	if cfg.MaxSteps < 0 {
		return fmt.Errorf("max steps must not be negative, got %d: %w", cfg.MaxSteps, dynamo.ErrParameterBounds)
	}
	return nil
}

func (e *Engine) Dt() float64 { return e.dt }

func (e *Engine) Gravity() float64 { return e.dyn.Gravity }

// Launch resets the flight to the origin and derives the velocity
// components once from the launch parameters.
func (e *Engine) Launch(p launch.Params) {
	vx, vy := physics.LaunchVelocity(p.Speed, p.Angle)
	e.flight = Flight{
		InitialSpeed: p.Speed,
		ThrowAngle:   p.Angle,
		VX:           vx,
		VY:           vy,
		Phase:        Running,
	}
}

// Step performs one forward step and reports whether the flight landed.
// Landing means y < 0 after the step; the overshoot is kept as is.
func (e *Engine) Step() (bool, error) {
	f := &e.flight
	if f.Phase != Running {
		return false, dynamo.ErrNotRunning
	}

	next := e.integrator.Step(e.dyn, f.vector(), nil, f.Time, e.dt)
	if !next.IsValid() {
		f.Phase = Stopped
		return false, &dynamo.SimulationError{Step: f.Steps, Time: f.Time, State: next, Wrapped: dynamo.ErrInvalidState}
	}

	f.apply(next)
	f.Steps++
	f.Time += e.dt

	f.CurrentSpeed = physics.Speed(next)
	if f.CurrentSpeed > f.MaxSpeed {
		f.MaxSpeed = f.CurrentSpeed
	}
	if f.Y > f.MaxHeight {
		f.MaxHeight = f.Y
	}
	f.Range = f.X

	if f.Y < 0 {
		f.Phase = Completed
		return true, nil
	}
	if e.maxSteps > 0 && f.Steps >= e.maxSteps {
		f.Phase = Stopped
		return false, &dynamo.SimulationError{Step: f.Steps, Time: f.Time, State: next, Wrapped: dynamo.ErrUnstable}
	}
	return false, nil
}

// Stop freezes a running flight in place.
func (e *Engine) Stop() {
	if e.flight.Phase == Running {
		e.flight.Phase = Stopped
	}
}

// Resume continues a stopped flight from its recorded position and
// velocity. Resuming a running flight is a no-op.
func (e *Engine) Resume() error {
	switch e.flight.Phase {
	case Running:
		return nil
	case Stopped:
		e.flight.Phase = Running
		return nil
	default:
		return fmt.Errorf("flight is %s: %w", e.flight.Phase, dynamo.ErrNothingToResume)
	}
}

func (e *Engine) Snapshot() Flight {
	return e.flight
}

// Energy is the specific mechanical energy of the current state.
func (e *Engine) Energy() float64 {
	return e.dyn.Energy(e.flight.vector())
}

// Fly launches and steps to landing without pacing, recording every
// sample including t=0.
func (e *Engine) Fly(ctx context.Context, p launch.Params) (*dynamo.Result, error) {
	e.Launch(p)

	result := &dynamo.Result{
		Samples: []dynamo.Sample{{Time: 0, State: e.flight.vector()}},
	}
	initialEnergy := e.Energy()

	for e.flight.Y >= 0 {
		select {
		case <-ctx.Done():
			e.Stop()
			return result, fmt.Errorf("%w: %v", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		landed, err := e.Step()
		if err != nil {
			return result, err
		}
		result.StepsTaken++
		result.Samples = append(result.Samples, dynamo.Sample{Time: e.flight.Time, State: e.flight.vector()})
		if landed {
			break
		}
	}

	if initialEnergy != 0 {
		result.EnergyDrift = (e.Energy() - initialEnergy) / initialEnergy
	}
	return result, nil
}
