package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sherine-k/checkoutsim/pkg/config"
	"github.com/sherine-k/checkoutsim/pkg/feed"
	"github.com/sherine-k/checkoutsim/pkg/report"
	"github.com/sherine-k/checkoutsim/pkg/simulation"
	"github.com/sherine-k/checkoutsim/pkg/trace"
)

var (
	configFile      string
	inputFile       string
	showTimeline    bool
	timelineLimit   int
	showSummary     bool
	showChart       bool
	traceFile       string
	csvFile         string
	checkInvariants bool
	verbose         bool
)

var rootCmd = &cobra.Command{
	Use:   "checkoutsim",
	Short: "Supermarket checkout simulator",
	Long: `A discrete-event simulator of customers flowing through a bank of checkouts.

Customers arrive from a feed (a file, or waves generated from cron schedules),
are served by the fastest idle checkout or join a single waiting line, and the
run reports waiting-line and per-checkout utilization statistics.`,
	SilenceUsage: true,
	RunE:         runSimulation,
}

// Execute runs the root command
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every simulation event")

	rootCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Path to arrival feed (overrides the config input)")
	rootCmd.Flags().BoolVarP(&showTimeline, "timeline", "t", false, "Show detailed timeline of events")
	rootCmd.Flags().IntVarP(&timelineLimit, "timeline-limit", "l", 50, "Limit number of timeline events to display")
	rootCmd.Flags().BoolVarP(&showSummary, "summary", "s", true, "Show run summary and station table")
	rootCmd.Flags().BoolVar(&showChart, "chart", false, "Show checkout usage chart")
	rootCmd.Flags().StringVar(&traceFile, "trace", "", "Write every processed event as JSON lines to this file")
	rootCmd.Flags().StringVar(&csvFile, "csv", "", "Write per-station statistics to this CSV file")
	rootCmd.Flags().BoolVar(&checkInvariants, "check-invariants", false, "Verify internal bookkeeping after every event")
}

func loadConfig() (*config.Config, error) {
	if configFile == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, out io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = logrus.DebugLevel
	}
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return logger, nil
}

// loadArrivals resolves station efficiencies and the full arrival feed.
// The feed is read completely so a malformed record aborts before the run.
func loadArrivals(cfg *config.Config, input string) ([]float64, []simulation.Arrival, error) {
	if input == "" {
		input = cfg.Input
	}

	switch {
	case input != "":
		f, err := feed.LoadFile(input, len(cfg.Stations) == 0)
		if err != nil {
			return nil, nil, err
		}
		if f.Efficiencies != nil {
			return f.Efficiencies, f.Arrivals, nil
		}
		return cfg.Efficiencies(), f.Arrivals, nil

	case cfg.Generator != nil:
		if len(cfg.Stations) == 0 {
			return nil, nil, fmt.Errorf("generated feeds need stations in the configuration")
		}
		arrivals, err := feed.NewGenerator(cfg.Generator).Generate()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to generate arrivals: %w", err)
		}
		return cfg.Efficiencies(), arrivals, nil

	default:
		return nil, nil, fmt.Errorf("no arrival feed: pass --input or configure input or generator")
	}
}

func simulationOptions(cfg *config.Config, logger logrus.FieldLogger) simulation.Options {
	return simulation.Options{
		Surcharge: simulation.Surcharge{
			Cash: *cfg.Surcharge.Cash,
			Card: *cfg.Surcharge.Card,
		},
		Limits: simulation.Limits{
			MaxEvents:   cfg.Limits.MaxEvents,
			MaxWaiting:  cfg.Limits.MaxWaiting,
			MaxStations: cfg.Limits.MaxStations,
		},
		CheckInvariants: checkInvariants,
		Logger:          logger,
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	efficiencies, arrivals, err := loadArrivals(cfg, inputFile)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"stations": len(efficiencies),
		"arrivals": len(arrivals),
	}).Info("loaded arrival feed")

	opts := simulationOptions(cfg, logger)
	recorder := &simulation.Recorder{}
	opts.Observers = append(opts.Observers, recorder)
	var traceWriter *trace.Writer
	if traceFile != "" {
		traceWriter, err = trace.Create(traceFile)
		if err != nil {
			return err
		}
		defer traceWriter.Close()
		opts.Observers = append(opts.Observers, traceWriter)
	}

	sim, err := simulation.NewSimulator(efficiencies, opts)
	if err != nil {
		return fmt.Errorf("failed to set up stations: %w", err)
	}
	res, err := sim.Run(cmd.Context(), simulation.NewSliceSource(arrivals))
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	if traceWriter != nil {
		if err := traceWriter.Close(); err != nil {
			return fmt.Errorf("failed to write trace: %w", err)
		}
		logger.WithField("path", traceFile).Infof("wrote %d trace events", traceWriter.Count())
	}

	gen := report.NewGenerator()

	if showSummary {
		fmt.Fprintln(out, gen.GenerateSummary(res))
		fmt.Fprint(out, gen.GenerateStationTable(res))
		fmt.Fprint(out, gen.GenerateEventSummary(recorder.Steps()))
	}

	if showChart {
		fmt.Fprintln(out, gen.GenerateQueueChart(sim.TimePoints(), len(efficiencies)))
	}

	if showTimeline {
		fmt.Fprintln(out, gen.GenerateTimeline(recorder.Steps(), timelineLimit))
	}

	if csvFile != "" {
		if err := report.WriteStationsCSV(csvFile, res); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
		logger.WithField("path", csvFile).Info("wrote station statistics")
	}

	return nil
}
