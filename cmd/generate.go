package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sherine-k/checkoutsim/pkg/feed"
)

var (
	generateOut    string
	generateHeader bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an arrival feed from the configured waves",
	Long: `Expands every wave's cron schedule inside the generator window into
arrival records and writes them in the feed format read by the simulator.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "Write the feed to this file instead of stdout")
	generateCmd.Flags().BoolVar(&generateHeader, "header", false, "Prefix the feed with the configured stations")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Generator == nil {
		return fmt.Errorf("configuration has no generator section")
	}
	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	arrivals, err := feed.NewGenerator(cfg.Generator).Generate()
	if err != nil {
		return fmt.Errorf("failed to generate arrivals: %w", err)
	}

	var out io.Writer = cmd.OutOrStdout()
	if generateOut != "" {
		f, err := os.Create(generateOut)
		if err != nil {
			return fmt.Errorf("failed to create feed file: %w", err)
		}
		defer f.Close()
		out = f
	}

	w := feed.NewWriter(out)
	if generateHeader {
		if len(cfg.Stations) == 0 {
			return fmt.Errorf("--header needs stations in the configuration")
		}
		if err := w.WriteHeader(cfg.Efficiencies()); err != nil {
			return err
		}
	}
	for _, a := range arrivals {
		if err := w.Write(a); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"arrivals": w.Count(),
		"waves":    len(cfg.Generator.Waves),
	}).Info("generated arrival feed")
	return nil
}
