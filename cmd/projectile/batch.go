package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/projectile/internal/automation"
	"github.com/san-kum/projectile/internal/launch"
	"github.com/san-kum/projectile/internal/metrics"
	"github.com/san-kum/projectile/internal/optim"
	"github.com/san-kum/projectile/internal/storage"
)

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	log, err := consoleLogger(cfg)
	if err != nil {
		return err
	}

	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	log.Info().Str("scenario", sc.Name).Int("throws", len(sc.Throws)).Msg("scenario loaded")

	results, err := automation.RunScenario(cmd.Context(), sc, automation.Base{
		Integrator: cfg.Integrator,
		Engine:     cfg.EngineConfig(),
		Bounds:     cfg.Bounds,
		Logger:     log,
	})
	if err != nil {
		return err
	}

	var st *storage.Store
	if save {
		st = storage.New(cfg.DataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tLABEL\tSPEED\tANGLE\tRANGE\tHEIGHT\tMAX SPEED\tRUN")
	for i, r := range results {
		runID := "-"
		if st != nil {
			integ := cfg.Integrator
			if r.Throw.Integrator != "" {
				integ = r.Throw.Integrator
			}
			ecfg := cfg.EngineConfig()
			if r.Throw.Dt != 0 {
				ecfg.Dt = r.Throw.Dt
			}
			if r.Throw.Gravity != 0 {
				ecfg.Gravity = r.Throw.Gravity
			}
			runID, err = st.Save(storage.RunMetadata{
				Speed:      r.Throw.Speed,
				Angle:      r.Throw.Angle,
				Dt:         ecfg.Dt,
				Gravity:    ecfg.Gravity,
				Integrator: integ,
				Summary:    r.Summary,
			}, r.Result)
			if err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%d\t%s\t%.1f\t%.1f\t%.2f\t%.2f\t%.2f\t%s\n",
			i+1, r.Throw.Label, r.Throw.Speed, r.Throw.Angle,
			r.Summary.Range, r.Summary.MaxHeight, r.Summary.MaxSpeed, runID)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	p := cfg.LaunchParams()
	for _, a := range []float64{angleMin, angleMax} {
		if err := launch.Validate(launch.Params{Speed: p.Speed, Angle: a}, cfg.Bounds); err != nil {
			return err
		}
	}

	results, err := automation.RunSweep(cmd.Context(), &automation.AngleSweep{
		Speed:      p.Speed,
		AngleMin:   angleMin,
		AngleMax:   angleMax,
		NumSteps:   numSteps,
		Integrator: cfg.Integrator,
		Engine:     cfg.EngineConfig(),
	})
	if err != nil {
		return err
	}

	ranges := make([]float64, len(results))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ANGLE\tRANGE\tIDEAL\tHEIGHT\tSTEPS")
	for i, r := range results {
		ranges[i] = r.Summary.Range
		ref := metrics.Ideal(p.Speed, r.Angle, cfg.Gravity)
		fmt.Fprintf(w, "%.1f\t%.2f\t%.2f\t%.2f\t%d\n", r.Angle, r.Summary.Range, ref.Range, r.Summary.MaxHeight, r.Summary.Steps)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(asciigraph.Plot(ranges,
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Caption(fmt.Sprintf("range (m) from %.0f to %.0f degrees", angleMin, angleMax)),
	))
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	p := cfg.LaunchParams()
	if err := launch.Validate(p, cfg.Bounds); err != nil {
		return err
	}

	stats, err := automation.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
		Nominal:     p,
		SpeedJitter: speedJit,
		AngleJitter: angleJit,
		NumTrials:   trials,
		Seed:        seed,
		Integrator:  cfg.Integrator,
		Engine:      cfg.EngineConfig(),
		Bounds:      cfg.Bounds,
	})
	if err != nil {
		return err
	}

	fmt.Printf("nominal: %.1f m/s at %.1f degrees, %d trials\n", p.Speed, p.Angle, stats.Trials)
	fmt.Printf("range: mean %.3f m, std %.3f m, min %.3f m, max %.3f m\n",
		stats.MeanRange, stats.StdRange, stats.MinRange, stats.MaxRange)
	return nil
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
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

	angle, r, err := optim.BestAngle(cmd.Context(), engine, p.Speed, cfg.Bounds)
	if err != nil {
		return err
	}
	ref := metrics.Ideal(p.Speed, 45, cfg.Gravity)
	fmt.Printf("best angle at %.1f m/s (%s, dt=%.3fs): %.1f degrees, range %.2f m\n", p.Speed, cfg.Integrator, cfg.Dt, angle, r)
	fmt.Printf("ideal optimum: 45.0 degrees, range %.2f m\n", ref.Range)
	return nil
}
