// Package cli wires the ytce commands: project scaffolding, single-target
// scrapes and batch runs.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"ytce/internal/pipeline"
	"ytce/internal/progress"
	"ytce/internal/youtube"
)

var (
	flagDebug  bool
	flagConfig string
)

var rootCmd = &cobra.Command{
	Use:           "ytce",
	Short:         "ytce scrapes YouTube channel video listings and comment threads",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if flagDebug {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "debug logging and raw HTML dumps")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ./ytce.yaml)")
}

// SetVersion stamps the build version onto the CLI and the record metadata.
func SetVersion(v string) {
	rootCmd.Version = v
	pipeline.Version = v
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		progress.Error("Failed: %v", err)
		return exitCode(err)
	}
	return exitOK
}

// newEngine opens a scraping client. The returned func closes it.
func newEngine(language string) (pipeline.Engine, func(), error) {
	c, err := youtube.NewClient(
		youtube.WithLanguage(language),
		youtube.WithDebug(flagDebug),
	)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		slog.Debug("engine counters", slog.Any("metrics", youtube.Metrics()))
		c.Close()
	}
	return pipeline.NewEngine(c), closeFn, nil
}
