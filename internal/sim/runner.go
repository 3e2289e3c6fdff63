package sim

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/san-kum/projectile/internal/launch"
)

// Runner drives the Engine from one background goroutine, one step per
// tick, and publishes every snapshot to a Latest cell. Only one flight is
// active: Start cancels and joins the previous goroutine before resetting.
type Runner struct {
	engine *Engine
	tick   time.Duration
	latest *Latest
	log    zerolog.Logger

	onComplete func(Summary)
	onError    func(error)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	stop atomic.Bool
	wake chan struct{}
}

type RunnerOption func(*Runner)

// WithTick sets the wall-clock pause between steps.
func WithTick(d time.Duration) RunnerOption {
	return func(r *Runner) { r.tick = d }
}

func WithLogger(l zerolog.Logger) RunnerOption {
	return func(r *Runner) { r.log = l }
}

// OnComplete is called from the background goroutine when a flight lands.
func OnComplete(fn func(Summary)) RunnerOption {
	return func(r *Runner) { r.onComplete = fn }
}

// OnError is called from the background goroutine when a step fails.
func OnError(fn func(error)) RunnerOption {
	return func(r *Runner) { r.onError = fn }
}

func NewRunner(engine *Engine, opts ...RunnerOption) *Runner {
	r := &Runner{
		engine: engine,
		tick:   time.Duration(engine.Dt() * float64(time.Second)),
		latest: NewLatest(),
		log:    zerolog.Nop(),
		wake:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) Latest() *Latest { return r.latest }

// Start launches a new flight, interrupting any flight in progress.
func (r *Runner) Start(ctx context.Context, p launch.Params) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.haltLocked()
	r.engine.Launch(p)
	r.latest.Publish(r.engine.Snapshot())
	r.log.Info().
		Float64("speed", p.Speed).
		Float64("angle", p.Angle).
		Msg("flight launched")
	r.spawnLocked(ctx)
}

// Stop asks the running flight to freeze. The goroutine observes the
// request at the top of its next iteration.
func (r *Runner) Stop() {
	r.stop.Store(true)
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Continue resumes a stopped flight from where it was frozen. It does
// nothing while a flight is already running.
func (r *Runner) Continue(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.done != nil {
		select {
		case <-r.done:
		default:
			if !r.stop.Load() {
				return nil
			}
		}
		// A stop was requested but the goroutine may still be on its way out.
		r.haltLocked()
	}

	if err := r.engine.Resume(); err != nil {
		r.log.Debug().Err(err).Msg("continue ignored")
		return err
	}
	r.log.Info().Int("step", r.engine.Snapshot().Steps).Msg("flight resumed")
	r.spawnLocked(ctx)
	return nil
}

// Close cancels any flight in progress and waits for the goroutine.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.haltLocked()
}

// Running reports whether a background goroutine is live and not asked to stop.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done == nil {
		return false
	}
	select {
	case <-r.done:
		return false
	default:
		return !r.stop.Load()
	}
}

// Wait blocks until the current goroutine, if any, has exited.
func (r *Runner) Wait() {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (r *Runner) haltLocked() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	if r.done != nil {
		<-r.done
		r.done = nil
	}
}

func (r *Runner) spawnLocked(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done
	r.stop.Store(false)
	select {
	case <-r.wake:
	default:
	}
	go r.loop(ctx, done)
}

func (r *Runner) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	for r.engine.Snapshot().Y >= 0 {
		if r.stop.Load() {
			r.engine.Stop()
			f := r.engine.Snapshot()
			r.latest.Publish(f)
			r.log.Info().Int("step", f.Steps).Float64("x", f.X).Float64("y", f.Y).Msg("flight stopped")
			return
		}

		landed, err := r.engine.Step()
		f := r.engine.Snapshot()
		r.latest.Publish(f)

		if err != nil {
			r.log.Error().Err(err).Int("step", f.Steps).Msg("flight aborted")
			if r.onError != nil {
				r.onError(err)
			}
			return
		}
		if landed {
			s := f.Summary()
			r.log.Info().
				Float64("range", s.Range).
				Float64("max_height", s.MaxHeight).
				Float64("max_speed", s.MaxSpeed).
				Int("steps", s.Steps).
				Msg("flight completed")
			if r.onComplete != nil {
				r.onComplete(s)
			}
			return
		}

		select {
		case <-ctx.Done():
			r.engine.Stop()
			r.latest.Publish(r.engine.Snapshot())
			r.log.Debug().Int("step", f.Steps).Msg("flight interrupted")
			return
		case <-r.wake:
		case <-ticker.C:
		}
	}
}
