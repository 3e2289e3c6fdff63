package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/projectile/internal/config"
	"github.com/san-kum/projectile/internal/export"
	"github.com/san-kum/projectile/internal/gui"
	"github.com/san-kum/projectile/internal/integrators"
	"github.com/san-kum/projectile/internal/launch"
	"github.com/san-kum/projectile/internal/logging"
	"github.com/san-kum/projectile/internal/metrics"
	"github.com/san-kum/projectile/internal/physics"
	"github.com/san-kum/projectile/internal/sim"
	"github.com/san-kum/projectile/internal/storage"
	"github.com/san-kum/projectile/internal/viz"
)

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}
	log, closeLog, err := fileLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	gui.NewApp(cmd.Context(), engine, gui.Options{
		Defaults: cfg.LaunchParams(),
		Bounds:   cfg.Bounds,
		Tick:     cfg.TickInterval(),
		Logger:   logging.Component(log, "gui"),
	}).Run()
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}
	log, closeLog, err := fileLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	return viz.RunInteractive(cmd.Context(), engine, viz.Options{
		Defaults: cfg.LaunchParams(),
		Bounds:   cfg.Bounds,
		Tick:     cfg.TickInterval(),
		Logger:   logging.Component(log, "tui"),
	})
}

func runFlight(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	log, err := consoleLogger(cfg)
	if err != nil {
		return err
	}

	p := cfg.LaunchParams()
	if err := launch.Validate(p, cfg.Bounds); err != nil {
		return err
	}

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := engine.Fly(cmd.Context(), p)
	if err != nil {
		return err
	}
	log.Debug().
		Int("steps", result.StepsTaken).
		Dur("elapsed", time.Since(start)).
		Msg("flight finished")

	summary := engine.Snapshot().Summary()
	fmt.Println(summary.String())

	ref := metrics.Ideal(p.Speed, p.Angle, cfg.Gravity)
	dev := metrics.Compare(summary, ref)
	fmt.Println()
	fmt.Printf("steps: %d (dt=%.3fs, %s)\n", summary.Steps, cfg.Dt, cfg.Integrator)
	fmt.Printf("ideal range: %.2f m (%+.1f%%)\n", ref.Range, 100*dev.RelativeRange(ref))
	fmt.Printf("ideal height: %.2f m (%+.2f m)\n", ref.MaxHeight, dev.MaxHeight)
	fmt.Printf("ideal flight time: %.2f s (%+.2f s)\n", ref.FlightTime, dev.FlightTime)
	fmt.Printf("energy drift: %.2e\n", result.EnergyDrift)

	if !save {
		return nil
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Speed:      p.Speed,
		Angle:      p.Angle,
		Dt:         cfg.Dt,
		Gravity:    cfg.Gravity,
		Integrator: cfg.Integrator,
		Summary:    summary,
	}, result)
	if err != nil {
		return err
	}
	log.Info().Str("run", runID).Str("dir", cfg.DataDir).Msg("run saved")
	fmt.Printf("saved: %s\n", runID)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSPEED\tANGLE\tRANGE\tHEIGHT\tINTEG")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%.1f\t%.2f\t%.2f\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Speed,
			run.Angle,
			run.Summary.Range,
			run.Summary.MaxHeight,
			run.Integrator,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	result, err := st.LoadResult(runID)
	if err != nil {
		return err
	}
	if len(result.Samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("launch: %.1f m/s at %.1f degrees\n", meta.Speed, meta.Angle)
	times := result.Times()
	fmt.Printf("samples: %d over %.1f s\n\n", len(result.Samples), times[len(times)-1])

	speeds := make([]float64, len(result.Samples))
	for i, s := range result.Samples {
		speeds[i] = physics.Speed(s.State)
	}

	series := []struct {
		caption string
		data    []float64
	}{
		{"height (m) per step", result.Component(physics.IdxY)},
		{"speed (m/s) per step", speeds},
	}
	for _, s := range series {
		fmt.Println(asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		))
		fmt.Println()
	}

	trace := metrics.EnergyTrace(physics.NewProjectile(meta.Gravity), result)
	fmt.Printf("max energy drift: %.2e\n", metrics.MaxDrift(trace))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	result, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	if len(result.Samples) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"time", "x", "y", "vx", "vy", "speed"}); err != nil {
		return err
	}
	for _, s := range result.Samples {
		row := []string{strconv.FormatFloat(s.Time, 'f', 6, 64)}
		for _, v := range s.State {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		row = append(row, strconv.FormatFloat(physics.Speed(s.State), 'f', 6, 64))
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	result, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}

	out := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return export.WriteTrajectorySVG(out, result, viz.WindowGrid)
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	p := cfg.LaunchParams()
	if err := launch.Validate(p, cfg.Bounds); err != nil {
		return err
	}

	ref := metrics.Ideal(p.Speed, p.Angle, cfg.Gravity)

	fmt.Printf("comparing integrators for %.1f m/s at %.1f degrees (dt=%.3fs)\n\n", p.Speed, p.Angle, cfg.Dt)
	fmt.Printf("%-10s  %8s  %8s  %8s  %6s  %10s\n", "integrator", "range", "height", "speed", "steps", "drift")
	fmt.Println(strings.Repeat("-", 58))

	for _, name := range integrators.Names() {
		integ, err := integrators.Get(name)
		if err != nil {
			return err
		}
		engine, err := sim.NewEngine(integ, cfg.EngineConfig())
		if err != nil {
			return err
		}
		result, err := engine.Fly(cmd.Context(), p)
		if err != nil {
			fmt.Printf("%-10s  error: %v\n", name, err)
			continue
		}
		s := engine.Snapshot().Summary()
		fmt.Printf("%-10s  %8.3f  %8.3f  %8.3f  %6d  %10.2e\n", name, s.Range, s.MaxHeight, s.MaxSpeed, s.Steps, result.EnergyDrift)
	}
	fmt.Printf("%-10s  %8.3f  %8.3f  %8.3f  %6s  %10s\n", "ideal", ref.Range, ref.MaxHeight, ref.ImpactSpeed, "-", "-")
	return nil
}

func showPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSPEED\tANGLE\tIDEAL RANGE")
	for _, name := range config.ListPresets() {
		p, _ := config.GetPreset(name)
		ref := metrics.Ideal(p.Speed, p.Angle, config.DefaultGravity)
		fmt.Fprintf(w, "%s\t%.1f\t%.1f\t%.2f\n", name, p.Speed, p.Angle, ref.Range)
	}
	return w.Flush()
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	path := "projectile.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
