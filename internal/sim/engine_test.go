package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/projectile/internal/dynamo"
	"github.com/san-kum/projectile/internal/integrators"
	"github.com/san-kum/projectile/internal/launch"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(integrators.NewEuler(), DefaultConfig())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

func TestEngineLaunchDerivesVelocity(t *testing.T) {
	e := newTestEngine(t)
	e.Launch(launch.Params{Speed: 7.5, Angle: 45})

	f := e.Snapshot()
	want := 7.5 * math.Cos(45*math.Pi/180)
	if math.Abs(f.VX-want) > 1e-12 || math.Abs(f.VY-want) > 1e-12 {
		t.Errorf("expected vx=vy=%.4f, got vx=%.4f vy=%.4f", want, f.VX, f.VY)
	}
	if f.X != 0 || f.Y != 0 || f.MaxHeight != 0 || f.MaxSpeed != 0 {
		t.Errorf("launch must reset position and extrema: %+v", f)
	}
	if f.Phase != Running {
		t.Errorf("expected running, got %s", f.Phase)
	}
}

func TestEngineFirstStep(t *testing.T) {
	e := newTestEngine(t)
	e.Launch(launch.Params{Speed: 7.5, Angle: 45})

	landed, err := e.Step()
	if err != nil || landed {
		t.Fatalf("first step: landed=%v err=%v", landed, err)
	}

	f := e.Snapshot()
	if math.Abs(f.X-0.5303) > 1e-4 || math.Abs(f.Y-0.5303) > 1e-4 {
		t.Errorf("expected x=y≈0.5303, got x=%.4f y=%.4f", f.X, f.Y)
	}
	if math.Abs(f.VY-4.322) > 1e-3 {
		t.Errorf("expected vy≈4.322, got %.4f", f.VY)
	}
	speed := math.Sqrt(f.VX*f.VX + f.VY*f.VY)
	if f.CurrentSpeed != speed || f.MaxSpeed != speed {
		t.Errorf("speed tracking: current=%f max=%f want %f", f.CurrentSpeed, f.MaxSpeed, speed)
	}
	if f.Range != f.X || f.MaxHeight != f.Y {
		t.Errorf("range/max height not tracked: %+v", f)
	}
}

func TestEngineLandsWithOvershoot(t *testing.T) {
	e := newTestEngine(t)
	e.Launch(launch.Params{Speed: 7.5, Angle: 45})

	prevMax := 0.0
	for {
		landed, err := e.Step()
		if err != nil {
			t.Fatalf("step: %v", err)
		}
		f := e.Snapshot()
		if f.MaxHeight < prevMax {
			t.Fatalf("max height decreased at step %d: %f < %f", f.Steps, f.MaxHeight, prevMax)
		}
		prevMax = f.MaxHeight
		if landed {
			break
		}
	}

	f := e.Snapshot()
	if f.Phase != Completed {
		t.Errorf("expected completed, got %s", f.Phase)
	}
	if f.Y >= 0 {
		t.Errorf("landing must be detected only below ground, y=%f", f.Y)
	}
	if f.Steps != 12 {
		t.Errorf("expected 12 steps, got %d", f.Steps)
	}
	// The reported range is the post-overshoot sample, not the ground crossing.
	if math.Abs(f.Range-12*f.VX*0.1) > 1e-9 {
		t.Errorf("expected range %.4f, got %.4f", 12*f.VX*0.1, f.Range)
	}
	ideal := 7.5 * 7.5 * math.Sin(math.Pi/2) / 9.81
	if f.Range < ideal || f.Range-ideal > 0.7 {
		t.Errorf("range %.3f too far from ideal %.3f", f.Range, ideal)
	}
	if math.Abs(f.MaxHeight-1.7105) > 1e-3 {
		t.Errorf("expected max height ≈1.7105, got %.4f", f.MaxHeight)
	}
	if f.MaxSpeed < 7.5 {
		t.Errorf("landing speed should exceed launch speed under Euler, got %.4f", f.MaxSpeed)
	}

	if _, err := e.Step(); !errors.Is(err, dynamo.ErrNotRunning) {
		t.Errorf("stepping a completed flight: expected ErrNotRunning, got %v", err)
	}
}

func TestEngineTerminatesForAllBounds(t *testing.T) {
	b := launch.DefaultBounds()
	for _, speed := range []float64{b.SpeedMin, 7.5, b.SpeedMax} {
		for _, angle := range []float64{b.AngleMin, 30, 45, 60, b.AngleMax} {
			e := newTestEngine(t)
			res, err := e.Fly(context.Background(), launch.Params{Speed: speed, Angle: angle})
			if err != nil {
				t.Fatalf("fly(%v, %v): %v", speed, angle, err)
			}
			vy := speed * math.Sin(angle*math.Pi/180)
			bound := int(math.Ceil(2*vy/9.81/0.1)) + 2
			if res.StepsTaken > bound {
				t.Errorf("fly(%v, %v): %d steps exceeds bound %d", speed, angle, res.StepsTaken, bound)
			}
			if e.Snapshot().Phase != Completed {
				t.Errorf("fly(%v, %v) did not complete", speed, angle)
			}
		}
	}
}

func TestEngineDeterministic(t *testing.T) {
	p := launch.Params{Speed: 9.3, Angle: 37}

	a, err := newTestEngine(t).Fly(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	b, err := newTestEngine(t).Fly(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}

	if len(a.Samples) != len(b.Samples) {
		t.Fatalf("sample counts differ: %d vs %d", len(a.Samples), len(b.Samples))
	}
	for i := range a.Samples {
		for j := range a.Samples[i].State {
			if a.Samples[i].State[j] != b.Samples[i].State[j] {
				t.Fatalf("sample %d component %d differs", i, j)
			}
		}
	}
}

func TestEngineStopResumeContinuesExactly(t *testing.T) {
	p := launch.Params{Speed: 8, Angle: 60}

	straight := newTestEngine(t)
	straight.Launch(p)
	for i := 0; i < 7; i++ {
		straight.Step()
	}

	paused := newTestEngine(t)
	paused.Launch(p)
	for i := 0; i < 4; i++ {
		paused.Step()
	}
	paused.Stop()
	frozen := paused.Snapshot()
	if frozen.Phase != Stopped {
		t.Fatalf("expected stopped, got %s", frozen.Phase)
	}
	if _, err := paused.Step(); !errors.Is(err, dynamo.ErrNotRunning) {
		t.Fatalf("stepping a stopped flight: %v", err)
	}
	if err := paused.Resume(); err != nil {
		t.Fatalf("resume: %v", err)
	}
	resumed := paused.Snapshot()
	if resumed.X != frozen.X || resumed.Y != frozen.Y || resumed.VX != frozen.VX || resumed.VY != frozen.VY {
		t.Fatalf("resume changed state: %+v vs %+v", resumed, frozen)
	}
	for i := 0; i < 3; i++ {
		paused.Step()
	}

	if paused.Snapshot() != straight.Snapshot() {
		t.Errorf("stop/resume diverged:\n%+v\n%+v", paused.Snapshot(), straight.Snapshot())
	}
}

func TestEngineResumeErrors(t *testing.T) {
	e := newTestEngine(t)
	if err := e.Resume(); !errors.Is(err, dynamo.ErrNothingToResume) {
		t.Errorf("resume from idle: expected ErrNothingToResume, got %v", err)
	}

	e.Launch(launch.Params{Speed: 5, Angle: 10})
	if err := e.Resume(); err != nil {
		t.Errorf("resume while running should be a no-op, got %v", err)
	}
	if _, err := e.Fly(context.Background(), launch.Params{Speed: 5, Angle: 10}); err != nil {
		t.Fatal(err)
	}
	if err := e.Resume(); !errors.Is(err, dynamo.ErrNothingToResume) {
		t.Errorf("resume after landing: expected ErrNothingToResume, got %v", err)
	}
}

func TestEngineStepBudget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSteps = 3
	e, err := NewEngine(integrators.NewEuler(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	_, err = e.Fly(context.Background(), launch.Params{Speed: 10, Angle: 90})
	var simErr *dynamo.SimulationError
	if !errors.As(err, &simErr) || !errors.Is(err, dynamo.ErrUnstable) {
		t.Fatalf("expected ErrUnstable simulation error, got %v", err)
	}
	if simErr.Step != 3 {
		t.Errorf("expected failure at step 3, got %d", simErr.Step)
	}
}

func TestEngineFlyCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := newTestEngine(t)
	res, err := e.Fly(ctx, launch.Params{Speed: 7.5, Angle: 45})
	if !errors.Is(err, dynamo.ErrContextCanceled) {
		t.Fatalf("expected ErrContextCanceled, got %v", err)
	}
	if len(res.Samples) != 1 {
		t.Errorf("expected only the launch sample, got %d", len(res.Samples))
	}
	if e.Snapshot().Phase != Stopped {
		t.Errorf("expected stopped after cancel, got %s", e.Snapshot().Phase)
	}
}

func TestEngineInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Gravity: 9.81}},
		{"negative dt", Config{Dt: -0.1, Gravity: 9.81}},
		{"zero gravity", Config{Dt: 0.1, Gravity: 0}},
		{"negative budget", Config{Dt: 0.1, Gravity: 9.81, MaxSteps: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(integrators.NewEuler(), tt.cfg)
			if !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}
}

func TestSummaryFormatting(t *testing.T) {
	s := Summary{InitialSpeed: 7.5, ThrowAngle: 45, Range: 6.36396, MaxHeight: 1.71047, MaxSpeed: 8.3646}
	want := "Initial speed: 7.5 m/s\n" +
		"Throw angle: 45.0 degrees\n" +
		"Range: 6.36 m\n" +
		"Maximum height: 1.71 m\n" +
		"Maximum speed: 8.36 m/s"
	if s.String() != want {
		t.Errorf("summary:\n%s\nwant:\n%s", s.String(), want)
	}
	if FormatSpeed(6.8432) != "6.84" {
		t.Errorf("FormatSpeed = %q", FormatSpeed(6.8432))
	}
}

func TestLatestKeepsNewest(t *testing.T) {
	l := NewLatest()
	if _, ok := l.Load(); ok {
		t.Fatal("empty cell reported a value")
	}

	l.Publish(Flight{Steps: 1})
	l.Publish(Flight{Steps: 2})

	select {
	case <-l.Updates():
	default:
		t.Fatal("expected a pending update notification")
	}
	select {
	case <-l.Updates():
		t.Fatal("notifications must coalesce into one")
	default:
	}

	f, ok := l.Load()
	if !ok || f.Steps != 2 {
		t.Errorf("expected newest snapshot with 2 steps, got %+v", f)
	}
}
