package viz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"

	"github.com/san-kum/projectile/internal/dynamo"
	"github.com/san-kum/projectile/internal/launch"
	"github.com/san-kum/projectile/internal/sim"
)

const (
	canvasCols      = 70
	canvasRows      = 20
	historyCapacity = 600
	graphHeight     = 6
)

type focusField int

const (
	focusSpeed focusField = iota
	focusAngle
)

type flightMsg sim.Flight

type failedMsg struct{ err error }

// Options configures the terminal front end.
type Options struct {
	Defaults launch.Params
	Bounds   launch.Bounds
	Tick     time.Duration
	Logger   zerolog.Logger
}

type dialog struct {
	title   string
	body    string
	isError bool
}

// Model is the bubbletea model for one launcher window. The flight itself
// runs on the Runner's goroutine; the model only renders published snapshots.
type Model struct {
	ctx    context.Context
	runner *sim.Runner
	errs   chan error
	bounds launch.Bounds
	log    zerolog.Logger

	speedIn textinput.Model
	angleIn textinput.Model
	focus   focusField
	spin    spinner.Model

	flight  sim.Flight
	trail   [][2]float64
	heights []float64
	shown   bool
	dialog  *dialog

	canvas *Canvas
	grid   Grid
}

func NewModel(ctx context.Context, engine *sim.Engine, opts Options) Model {
	errs := make(chan error, 1)
	runnerOpts := []sim.RunnerOption{
		sim.WithLogger(opts.Logger),
		sim.OnError(func(err error) {
			select {
			case errs <- err:
			default:
			}
		}),
	}
	if opts.Tick > 0 {
		runnerOpts = append(runnerOpts, sim.WithTick(opts.Tick))
	}

	speed := newField("speed", opts.Defaults.Speed)
	speed.Focus()
	angle := newField("angle", opts.Defaults.Angle)

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = statusStyles["running"]

	return Model{
		ctx:     ctx,
		runner:  sim.NewRunner(engine, runnerOpts...),
		errs:    errs,
		bounds:  opts.Bounds,
		log:     opts.Logger,
		speedIn: speed,
		angleIn: angle,
		spin:    sp,
		trail:   make([][2]float64, 0, historyCapacity),
		heights: make([]float64, 0, historyCapacity),
		canvas:  NewCanvas(canvasCols, canvasRows),
		grid:    TerminalGrid,
	}
}

func newField(placeholder string, v float64) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 12
	in.Width = 10
	in.Prompt = ""
	in.SetValue(fmt.Sprintf("%g", v))
	return in
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick, m.waitForFlight())
}

// waitForFlight blocks until the runner publishes or fails. Exactly one of
// these is outstanding at a time; every message it yields schedules the next.
func (m Model) waitForFlight() tea.Cmd {
	latest := m.runner.Latest()
	errs := m.errs
	return func() tea.Msg {
		select {
		case err := <-errs:
			return failedMsg{err}
		case <-latest.Updates():
			f, _ := latest.Load()
			return flightMsg(f)
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case flightMsg:
		m.observe(sim.Flight(msg))
		return m, m.waitForFlight()

	case failedMsg:
		m.dialog = &dialog{title: "Flight aborted", body: msg.err.Error(), isError: true}
		return m, m.waitForFlight()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m.forward(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.runner.Close()
		return m, tea.Quit
	}

	if m.dialog != nil {
		switch msg.String() {
		case "enter", "esc", " ":
			m.dialog = nil
		}
		return m, nil
	}

	switch msg.String() {
	case "q":
		m.runner.Close()
		return m, tea.Quit
	case "enter", "s":
		m.start()
		return m, nil
	case "x":
		m.runner.Stop()
		return m, nil
	case "c":
		if err := m.runner.Continue(m.ctx); err != nil && !errors.Is(err, dynamo.ErrNothingToResume) {
			m.dialog = &dialog{title: "Continue failed", body: err.Error(), isError: true}
		}
		return m, nil
	case "tab", "shift+tab", "up", "down":
		m.toggleFocus()
		return m, nil
	}

	return m.forward(msg)
}

func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == focusSpeed {
		m.speedIn, cmd = m.speedIn.Update(msg)
	} else {
		m.angleIn, cmd = m.angleIn.Update(msg)
	}
	return m, cmd
}

func (m *Model) toggleFocus() {
	if m.focus == focusSpeed {
		m.focus = focusAngle
		m.speedIn.Blur()
		m.angleIn.Focus()
		return
	}
	m.focus = focusSpeed
	m.angleIn.Blur()
	m.speedIn.Focus()
}

func (m *Model) start() {
	p, err := launch.Parse(m.speedIn.Value(), m.angleIn.Value(), m.bounds)
	if err != nil {
		var fe *launch.FieldError
		if errors.As(err, &fe) {
			m.dialog = &dialog{title: fe.Title(), body: fe.Message(), isError: true}
		} else {
			m.dialog = &dialog{title: "Invalid data!", body: err.Error(), isError: true}
		}
		m.log.Debug().Err(err).Msg("launch rejected")
		return
	}

	m.trail = m.trail[:0]
	m.heights = m.heights[:0]
	m.shown = false
	m.runner.Start(m.ctx, p)
}

// observe folds a published snapshot into the view state. Snapshots may be
// coalesced, so the trail holds the points actually seen.
func (m *Model) observe(f sim.Flight) {
	if f.Steps == 0 {
		m.trail = m.trail[:0]
		m.heights = m.heights[:0]
		m.shown = false
	}
	if n := len(m.trail); n == 0 || m.trail[n-1] != [2]float64{f.X, f.Y} {
		if len(m.trail) < historyCapacity {
			m.trail = append(m.trail, [2]float64{f.X, f.Y})
			m.heights = append(m.heights, f.Y)
		}
	}
	m.flight = f

	if f.Phase == sim.Completed && !m.shown {
		m.shown = true
		m.dialog = &dialog{title: "Summary", body: strings.Join(f.Summary().Lines(), "\n")}
	}
}

func (m *Model) draw() {
	m.canvas.Clear()
	m.canvas.DrawGrid(m.grid)
	for i := 1; i < len(m.trail); i++ {
		x0, y0 := m.grid.ToScreen(m.trail[i-1][0], m.trail[i-1][1])
		x1, y1 := m.grid.ToScreen(m.trail[i][0], m.trail[i][1])
		m.canvas.DrawLine(round(x0), round(y0), round(x1), round(y1))
	}
	if m.flight.Phase != sim.Idle {
		m.canvas.DrawDot(m.grid, m.flight.X, m.flight.Y)
	}
}

func (m Model) View() string {
	m.draw()

	if m.dialog != nil {
		return Dialog(m.dialog.title, m.dialog.body, m.dialog.isError)
	}

	left := canvasStyle.Render(m.canvas.String()) + "\n" +
		helpStyle.Render(fmt.Sprintf("grid %d m x %d m, 1 m per cell", m.grid.Cols, m.grid.Rows))

	right := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("OBLIQUE THROW"),
		"",
		m.fieldRow("Initial speed (m/s)", m.speedIn, focusSpeed),
		m.fieldRow("Throw angle (deg)", m.angleIn, focusAngle),
		"",
		m.statusRow(),
		labelStyle.Render("Speed (m/s)")+valueStyle.Render(sim.FormatSpeed(m.flight.CurrentSpeed)),
		labelStyle.Render("x / y (m)")+valueStyle.Render(fmt.Sprintf("%.2f / %.2f", m.flight.X, m.flight.Y)),
		labelStyle.Render("t (s)")+valueStyle.Render(fmt.Sprintf("%.1f", m.flight.Time)),
		"",
		m.heightGraph(),
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top, panelStyle.Render(left), panelStyle.Render(right))
	help := helpStyle.Render("enter/s start | x stop | c continue | tab switch field | q quit")
	return body + "\n" + help
}

func (m Model) fieldRow(label string, in textinput.Model, f focusField) string {
	l := labelStyle.Render(label)
	if m.focus == f {
		l = focusStyle.Width(22).Render("> " + label)
	}
	return l + in.View()
}

func (m Model) statusRow() string {
	badge := statusBadge(m.flight.Phase.String())
	if m.flight.Phase == sim.Running {
		badge = m.spin.View() + " " + badge
	}
	return labelStyle.Render("Status") + badge
}

func (m Model) heightGraph() string {
	if len(m.heights) < 2 {
		return helpStyle.Render("height trace appears once the flight starts")
	}
	return graphStyle.Render(asciigraph.Plot(m.heights,
		asciigraph.Height(graphHeight),
		asciigraph.Width(36),
		asciigraph.Precision(1),
		asciigraph.Caption("height (m)"),
	))
}

// RunInteractive opens the terminal launcher and blocks until the user quits.
func RunInteractive(ctx context.Context, engine *sim.Engine, opts Options) error {
	m := NewModel(ctx, engine, opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	m.runner.Close()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
