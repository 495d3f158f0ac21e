package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ytce/internal/config"
	"ytce/internal/pipeline"
	"ytce/internal/progress"
	"ytce/internal/storage"
)

var (
	batchMaxVideos     int
	batchPerVideoLimit int
	batchSort          string
	batchFormat        string
	batchLanguage      string
	batchSleepBetween  time.Duration
	batchFailFast      bool
	batchDryRun        bool
	batchResume        bool
)

var batchCmd = &cobra.Command{
	Use:   "batch [channels-file]",
	Short: "Scrape every channel listed in a channels file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		channelsFile := config.ChannelsFile
		if len(args) == 1 {
			channelsFile = args[0]
		}
		opts, err := resolveOpts(batchFormat, batchSort, batchLanguage)
		if err != nil {
			return err
		}

		var ledger *storage.Ledger
		if !batchDryRun {
			ledger, err = storage.OpenLedger(storage.LedgerPath(opts.cfg.OutputDir))
			if err != nil {
				return err
			}
			defer ledger.Close()
		}

		eng, closeEngine, err := newEngine(opts.language)
		if err != nil {
			return err
		}
		defer closeEngine()

		report, err := pipeline.RunBatch(cmd.Context(), eng, ledger, pipeline.BatchConfig{
			ChannelsFile:  channelsFile,
			BaseDir:       opts.cfg.OutputDir,
			MaxVideos:     batchMaxVideos,
			PerVideoLimit: batchPerVideoLimit,
			Sort:          opts.sort,
			Format:        opts.format,
			DryRun:        batchDryRun,
			FailFast:      batchFailFast,
			Resume:        batchResume,
			SleepBetween:  batchSleepBetween,
		})
		if err != nil {
			return err
		}

		renderReport(report)
		if report.ChannelsFailed > 0 {
			return userErrf("%d of %d channels failed", report.ChannelsFailed, report.ChannelsTotal)
		}
		return nil
	},
}

func renderReport(report *pipeline.BatchReport) {
	rows := make([][]string, 0, len(report.Stats))
	for _, s := range report.Stats {
		if s.Status != "ok" {
			rows = append(rows, []string{s.Channel, "-", "-", "-", "-", "failed: " + s.Error})
			continue
		}
		rows = append(rows, []string{
			s.Channel,
			progress.FormatNumber(s.Videos),
			progress.FormatNumber(s.Comments),
			progress.FormatBytes(int64(s.BytesMB * (1 << 20))),
			progress.FormatDuration(time.Duration(s.DurationSec * float64(time.Second))),
			"ok",
		})
	}
	progress.RenderTable([]string{"Channel", "Videos", "Comments", "Size", "Duration", "Status"}, rows)

	fmt.Println()
	progress.Success("%d/%d channels — %s videos — %s comments — %s",
		report.ChannelsOK, report.ChannelsTotal,
		progress.FormatNumber(report.TotalVideos),
		progress.FormatNumber(report.TotalComments),
		progress.FormatDuration(time.Duration(report.TotalDurationSec*float64(time.Second))))
}

func init() {
	batchCmd.Flags().IntVar(&batchMaxVideos, "max-videos", 0, "videos per channel (0 = all)")
	batchCmd.Flags().IntVar(&batchPerVideoLimit, "per-video-limit", 0, "comments per video (0 = all)")
	batchCmd.Flags().StringVar(&batchSort, "sort", "", "comment order: recent or popular (default from config)")
	batchCmd.Flags().StringVar(&batchFormat, "format", "", "output format: jsonl or csv (default jsonl)")
	batchCmd.Flags().StringVar(&batchLanguage, "language", "", "UI language requested from the host")
	batchCmd.Flags().DurationVar(&batchSleepBetween, "sleep-between", 2*time.Second, "pause between channels")
	batchCmd.Flags().BoolVar(&batchFailFast, "fail-fast", false, "stop the batch on the first failed channel")
	batchCmd.Flags().BoolVar(&batchDryRun, "dry-run", false, "list what would be scraped, write nothing")
	batchCmd.Flags().BoolVar(&batchResume, "resume", false, "skip videos completed in an earlier run")
	rootCmd.AddCommand(batchCmd)
}
