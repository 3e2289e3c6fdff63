package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/projectile/internal/config"
	"github.com/san-kum/projectile/internal/integrators"
	"github.com/san-kum/projectile/internal/logging"
	"github.com/san-kum/projectile/internal/sim"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	speed      float64
	angle      float64
	dt         float64
	gravity    float64
	integrator string
	save       bool
	outFile    string
	angleMin   float64
	angleMax   float64
	numSteps   int
	trials     int
	seed       int64
	speedJit   float64
	angleJit   float64
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "projectile",
		Short:         "oblique throw simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "launch preset (see 'presets')")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.Float64Var(&speed, "speed", config.DefaultSpeed, "initial speed in m/s")
	pf.Float64Var(&angle, "angle", config.DefaultAngle, "throw angle in degrees")
	pf.Float64Var(&dt, "dt", config.DefaultDt, "timestep in seconds")
	pf.Float64Var(&gravity, "gravity", config.DefaultGravity, "gravitational acceleration in m/s^2")
	pf.StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator (euler, rk4)")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run the launcher in the terminal",
		RunE:  runTUI,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "fly one throw headless and print the summary",
		RunE:  runFlight,
	}
	runCmd.Flags().BoolVar(&save, "save", false, "save the run under the data directory")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot height and speed of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a saved run as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a saved trajectory as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "compare integrators against the closed-form throw",
		RunE:  compareIntegrators,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list launch presets",
		RunE:  showPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the effective configuration to a yaml file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  writeConfig,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "fly every throw listed in a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&save, "save", false, "save each throw under the data directory")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "fly one speed across a range of angles",
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&angleMin, "from", 5, "first angle in degrees")
	sweepCmd.Flags().Float64Var(&angleMax, "to", 85, "last angle in degrees")
	sweepCmd.Flags().IntVar(&numSteps, "steps", 17, "number of angles")

	monteCarloCmd := &cobra.Command{
		Use:   "monte-carlo",
		Short: "perturb the launch and report the spread of the range",
		RunE:  runMonteCarlo,
	}
	monteCarloCmd.Flags().IntVar(&trials, "trials", 200, "number of trials")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time based)")
	monteCarloCmd.Flags().Float64Var(&speedJit, "speed-jitter", 0.25, "max speed perturbation in m/s")
	monteCarloCmd.Flags().Float64Var(&angleJit, "angle-jitter", 2, "max angle perturbation in degrees")

	optimizeCmd := &cobra.Command{
		Use:   "optimize",
		Short: "find the angle with the longest stepped range",
		RunE:  runOptimize,
	}

	rootCmd.AddCommand(tuiCmd, runCmd, listCmd, plotCmd, exportCSVCmd, exportSVGCmd, compareCmd, presetsCmd, initCmd,
		scenarioCmd, sweepCmd, monteCarloCmd, optimizeCmd)
	return rootCmd
}

// resolveConfig layers preset, config file and explicitly set flags, in
// that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p, ok := config.GetPreset(preset)
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.Launch = p
	}

	if configFile != "" {
		loaded, err := config.LoadOnto(configFile, cfg)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("speed") {
		cfg.Launch.Speed = speed
	}
	if flags.Changed("angle") {
		cfg.Launch.Angle = angle
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("gravity") {
		cfg.Gravity = gravity
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newEngine(cfg *config.Config) (*sim.Engine, error) {
	integ, err := integrators.Get(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	return sim.NewEngine(integ, cfg.EngineConfig())
}

func consoleLogger(cfg *config.Config) (zerolog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return zerolog.Nop(), err
	}
	return logging.NewConsole(level), nil
}

// fileLogger is used by the interactive front ends, which own the terminal
// or run without one.
func fileLogger(cfg *config.Config) (zerolog.Logger, func(), error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return zerolog.Nop(), func() {}, err
	}
	path := cfg.Log.File
	if path == "" {
		path = filepath.Join(cfg.DataDir, "projectile.log")
	}
	l, closer, err := logging.NewFile(path, level)
	if err != nil {
		return zerolog.Nop(), func() {}, err
	}
	return l, func() { closer.Close() }, nil
}
