package gui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/san-kum/projectile/internal/dynamo"
	"github.com/san-kum/projectile/internal/launch"
	"github.com/san-kum/projectile/internal/sim"
	"github.com/san-kum/projectile/internal/viz"
)

const (
	AppID = "com.github.san-kum.projectile"
	Title = "Oblique throw simulation"
)

type Options struct {
	Defaults launch.Params
	Bounds   launch.Bounds
	Tick     time.Duration
	Logger   zerolog.Logger
}

// App is the desktop launcher. Widgets are only touched on the fyne
// thread; the Runner goroutine reaches them through fyne.Do.
type App struct {
	fyneApp fyne.App
	window  fyne.Window
	runner  *sim.Runner
	bounds  launch.Bounds
	log     zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	speedEntry   *widget.Entry
	angleEntry   *widget.Entry
	currentSpeed *widget.Entry
	startButton  *widget.Button
	stopButton   *widget.Button
	resumeButton *widget.Button
	plot         *plot
}

func NewApp(ctx context.Context, engine *sim.Engine, opts Options) *App {
	return newApp(ctx, app.NewWithID(AppID), engine, opts)
}

func newApp(ctx context.Context, fa fyne.App, engine *sim.Engine, opts Options) *App {
	a := &App{
		fyneApp: fa,
		bounds:  opts.Bounds,
		log:     opts.Logger,
	}
	a.ctx, a.cancel = context.WithCancel(ctx)

	runnerOpts := []sim.RunnerOption{
		sim.WithLogger(opts.Logger),
		sim.OnComplete(a.showSummary),
		sim.OnError(a.showFailure),
	}
	if opts.Tick > 0 {
		runnerOpts = append(runnerOpts, sim.WithTick(opts.Tick))
	}
	a.runner = sim.NewRunner(engine, runnerOpts...)

	a.window = fa.NewWindow(Title)
	a.window.Resize(fyne.NewSize(float32(viz.WindowGrid.Width), float32(viz.WindowGrid.Height)))
	a.window.SetFixedSize(true)
	a.window.SetContent(a.layout(opts.Defaults))
	a.window.SetOnClosed(a.shutdown)

	go a.pump()
	return a
}

func (a *App) layout(defaults launch.Params) fyne.CanvasObject {
	a.speedEntry = widget.NewEntry()
	a.speedEntry.SetText(formatInput(defaults.Speed))
	a.angleEntry = widget.NewEntry()
	a.angleEntry.SetText(formatInput(defaults.Angle))

	a.currentSpeed = widget.NewEntry()
	a.currentSpeed.SetText(sim.FormatSpeed(0))
	a.currentSpeed.Disable()

	a.startButton = widget.NewButton("Start", a.handleStart)
	a.startButton.Importance = widget.HighImportance
	a.stopButton = widget.NewButton("Stop", a.handleStop)
	a.resumeButton = widget.NewButton("Continue", a.handleContinue)

	controls := container.NewHBox(
		widget.NewLabel("Initial speed:"),
		sized(a.speedEntry),
		widget.NewLabel("Throw angle:"),
		sized(a.angleEntry),
		widget.NewLabel("Current speed (m/s):"),
		sized(a.currentSpeed),
		a.startButton,
		a.stopButton,
		a.resumeButton,
	)

	a.plot = newPlot(viz.WindowGrid)
	return container.NewStack(a.plot.root, container.NewVBox(container.NewCenter(controls)))
}

func sized(e *widget.Entry) fyne.CanvasObject {
	return container.NewGridWrap(fyne.NewSize(64, e.MinSize().Height), e)
}

func formatInput(v float64) string {
	return fmt.Sprintf("%g", v)
}

func (a *App) handleStart() {
	p, err := launch.Parse(a.speedEntry.Text, a.angleEntry.Text, a.bounds)
	if err != nil {
		a.log.Warn().Err(err).Msg("launch rejected")
		a.showInvalid(err)
		return
	}
	a.runner.Start(a.ctx, p)
}

func (a *App) handleStop() {
	a.runner.Stop()
}

func (a *App) handleContinue() {
	if err := a.runner.Continue(a.ctx); err != nil && !errors.Is(err, dynamo.ErrNothingToResume) {
		dialog.ShowError(err, a.window)
	}
}

// pump copies published snapshots onto the widgets. Bursts of publishes
// collapse into one redraw.
func (a *App) pump() {
	latest := a.runner.Latest()
	for {
		select {
		case <-a.ctx.Done():
			return
		case <-latest.Updates():
			f, ok := latest.Load()
			if !ok {
				continue
			}
			fyne.Do(func() { a.render(f) })
		}
	}
}

func (a *App) render(f sim.Flight) {
	a.currentSpeed.SetText(sim.FormatSpeed(f.CurrentSpeed))
	a.plot.moveTo(f.X, f.Y)
}

func (a *App) showSummary(s sim.Summary) {
	fyne.Do(func() {
		dialog.ShowInformation("Summary", s.String(), a.window)
	})
}

func (a *App) showFailure(err error) {
	fyne.Do(func() {
		dialog.ShowError(err, a.window)
	})
}

func (a *App) showInvalid(err error) {
	title, msg := "Invalid data!", err.Error()
	var fe *launch.FieldError
	if errors.As(err, &fe) {
		title, msg = fe.Title(), fe.Message()
	}
	body := container.NewHBox(widget.NewIcon(theme.ErrorIcon()), widget.NewLabel(msg))
	dialog.NewCustom(title, "OK", body, a.window).Show()
}

func (a *App) shutdown() {
	a.cancel()
	a.runner.Close()
}

// Run shows the window and blocks until it is closed.
func (a *App) Run() {
	a.log.Info().Msg("window opened")
	a.window.ShowAndRun()
	a.shutdown()
}
