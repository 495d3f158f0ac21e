package cli

import (
	"time"

	"github.com/spf13/cobra"

	"ytce/internal/channels"
	"ytce/internal/pipeline"
	"ytce/internal/progress"
	"ytce/internal/storage"
)

var (
	channelMaxVideos     int
	channelPerVideoLimit int
	channelSort          string
	channelFormat        string
	channelOut           string
	channelLanguage      string
	channelVideosOnly    bool
	channelDryRun        bool
	channelResume        bool
)

var channelCmd = &cobra.Command{
	Use:   "channel <channel>",
	Short: "Scrape a channel: video listing plus every video's comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, ok := channels.ExtractRef(args[0])
		if !ok {
			return userErrf("invalid channel reference %q", args[0])
		}
		opts, err := resolveOpts(channelFormat, channelSort, channelLanguage)
		if err != nil {
			return err
		}

		var ledger *storage.Ledger
		if !channelDryRun {
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

		stats, err := pipeline.ScrapeChannel(cmd.Context(), eng, ledger, pipeline.ScrapeConfig{
			Channel:       ref,
			BaseDir:       opts.cfg.OutputDir,
			OutDir:        channelOut,
			MaxVideos:     channelMaxVideos,
			PerVideoLimit: channelPerVideoLimit,
			Sort:          opts.sort,
			Format:        opts.format,
			VideosOnly:    channelVideosOnly,
			DryRun:        channelDryRun,
			Resume:        channelResume,
		})
		if err != nil {
			return err
		}
		progress.Success("%s videos, %s comments (%s, %s)",
			progress.FormatNumber(stats.Videos),
			progress.FormatNumber(stats.Comments),
			progress.FormatBytes(int64(stats.BytesMB*(1<<20))),
			progress.FormatDuration(time.Duration(stats.DurationSec*float64(time.Second))))
		return nil
	},
}

func init() {
	channelCmd.Flags().IntVar(&channelMaxVideos, "max-videos", 0, "stop after this many videos (0 = all)")
	channelCmd.Flags().IntVar(&channelPerVideoLimit, "per-video-limit", 0, "comments per video (0 = all)")
	channelCmd.Flags().StringVar(&channelSort, "sort", "", "comment order: recent or popular (default from config)")
	channelCmd.Flags().StringVar(&channelFormat, "format", "", "output format: jsonl or csv (default jsonl)")
	channelCmd.Flags().StringVar(&channelOut, "out", "", "output directory (default <output_dir>/<channel>)")
	channelCmd.Flags().StringVar(&channelLanguage, "language", "", "UI language requested from the host")
	channelCmd.Flags().BoolVar(&channelVideosOnly, "videos-only", false, "skip comment scraping")
	channelCmd.Flags().BoolVar(&channelDryRun, "dry-run", false, "list what would be scraped, write nothing")
	channelCmd.Flags().BoolVar(&channelResume, "resume", false, "skip videos completed in an earlier run")
	rootCmd.AddCommand(channelCmd)
}
