package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/san-kum/oberth/internal/config"
	"github.com/san-kum/oberth/internal/dynamo"
	"github.com/san-kum/oberth/internal/experiment"
	"github.com/spf13/cobra"
)

// defaultReference is the reference step of the precision sweep, in seconds.
const defaultReference = 100

var (
	logLevel string
	logger   *log.Logger

	// run
	configFile string
	step       float64
	duration   float64
	integrator string
	workers    int

	// precision
	preset    string
	bodyName  string
	reference float64
	runs      int
	years     float64
	parallel  int

	// bench
	sizes      string
	benchTicks int
	seed       uint64
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if logger == nil {
			logger = log.New(os.Stderr)
		}
		logger.Error("command failed", "err", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "oberth",
		Short:         "n-body gravity simulation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger = log.NewWithOptions(os.Stderr, log.Options{
				ReportTimestamp: true,
				Prefix:          "oberth",
				Level:           level,
			})
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scenario and report final state and conservation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	runCmd.Flags().Float64Var(&step, "step", config.DefaultStep, "tick length in seconds")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "simulated duration in seconds")
	runCmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	runCmd.Flags().IntVar(&workers, "workers", 0, "evaluator goroutines (0 = one per CPU)")

	precisionCmd := &cobra.Command{
		Use:   "precision",
		Short: "measure position error against step size",
		Args:  cobra.NoArgs,
		RunE:  runPrecision,
	}
	precisionCmd.Flags().StringVar(&preset, "preset", "sun-earth-moon", "scenario preset")
	precisionCmd.Flags().StringVar(&bodyName, "body", "moon", "body whose position is compared")
	precisionCmd.Flags().Float64Var(&reference, "reference", defaultReference, "reference step in seconds")
	precisionCmd.Flags().IntVar(&runs, "runs", 6, "number of doubled steps to compare")
	precisionCmd.Flags().Float64Var(&years, "years", 100, "simulated years per run")
	precisionCmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	precisionCmd.Flags().IntVar(&parallel, "parallel", runtime.NumCPU(), "concurrent runs")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list scenario presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(presetTable())
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark serial and parallel evaluator passes",
		Args:  cobra.NoArgs,
		RunE:  runBench,
	}
	benchCmd.Flags().StringVar(&sizes, "sizes", "16,64,256,1024", "comma-separated body counts")
	benchCmd.Flags().IntVar(&benchTicks, "ticks", 100, "ticks per measurement")
	benchCmd.Flags().Uint64Var(&seed, "seed", 1, "random seed for cluster scenarios")

	rootCmd.AddCommand(runCmd, precisionCmd, presetsCmd, benchCmd)
	return rootCmd
}

func runScenario(cmd *cobra.Command, args []string) error {
	var cfg *config.Config
	var err error

	switch {
	case configFile != "":
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	case len(args) == 1:
		cfg, err = config.GetPreset(args[0])
		if err != nil {
			return fmt.Errorf("%w (available: %s)", err, strings.Join(config.ListPresets(), ", "))
		}
	default:
		cfg = config.DefaultConfig()
	}

	// flags override the scenario only when set
	if cmd.Flags().Changed("step") {
		cfg.Step = step
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Info("running scenario", "name", cfg.Name, "bodies", len(cfg.Bodies), "integrator", cfg.Integrator, "step", cfg.Step, "duration", cfg.Duration)

	report, err := experiment.Run(cmd.Context(), cfg, dynamo.WithLogger(logger.WithPrefix("dynamo")))
	if err != nil {
		return err
	}

	logger.Info("completed", "ticks", report.Ticks, "wall", report.Wall)
	fmt.Println(stateTable(report))
	fmt.Println(conservationTable(report))
	return nil
}

func runPrecision(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetPreset(preset)
	if err != nil {
		return err
	}
	cfg.Integrator = integrator

	logger.Info("precision sweep", "preset", preset, "body", bodyName, "reference", reference, "runs", runs, "years", years)

	report, err := experiment.Precision(cmd.Context(), experiment.PrecisionConfig{
		Scenario:  cfg,
		Body:      bodyName,
		Duration:  years * config.Year,
		Reference: reference,
		Runs:      runs,
		Parallel:  parallel,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	fmt.Println(precisionTable(report))
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	counts, err := parseSizes(sizes)
	if err != nil {
		return err
	}

	var results []experiment.BenchResult
	for _, n := range counts {
		cfg := experiment.Cluster(n, seed)
		for _, w := range []int{1, runtime.NumCPU()} {
			res, err := experiment.Bench(cmd.Context(), cfg, benchTicks, w)
			if err != nil {
				return fmt.Errorf("%d bodies: %w", n, err)
			}
			logger.Debug("bench", "bodies", n, "workers", w, "wall", res.Wall)
			results = append(results, res)
		}
	}

	fmt.Println(benchTable(results))
	return nil
}

func parseSizes(s string) ([]int, error) {
	var out []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid size: %q", field)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no sizes given")
	}
	return out, nil
}
