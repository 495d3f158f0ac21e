package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"ytce/internal/pipeline"
	"ytce/internal/progress"
	"ytce/internal/storage"
)

var (
	commentsLimit    int
	commentsSort     string
	commentsFormat   string
	commentsOut      string
	commentsLanguage string
)

var commentsCmd = &cobra.Command{
	Use:   "comments <video-id>",
	Short: "Scrape one video's comment thread",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		videoID := args[0]
		if videoID == "" {
			return userErrf("empty video id")
		}
		opts, err := resolveOpts(commentsFormat, commentsSort, commentsLanguage)
		if err != nil {
			return err
		}

		out := commentsOut
		if out == "" {
			ext := "jsonl"
			if opts.format == storage.FormatCSV {
				ext = "csv"
			}
			out = filepath.Join(opts.cfg.OutputDir, storage.SanitizeName(videoID), "comments."+ext)
		}

		eng, closeEngine, err := newEngine(opts.language)
		if err != nil {
			return err
		}
		defer closeEngine()

		progress.Step("Fetching comments: %s", videoID)
		count, disabled, err := pipeline.ScrapeComments(cmd.Context(), eng, videoID, opts.sort, commentsLimit, opts.format, out)
		if err != nil {
			return err
		}
		if disabled {
			progress.Warning("Comments are disabled for %s", videoID)
			return nil
		}
		progress.Success("%s comments written to %s", progress.FormatNumber(count), out)
		return nil
	},
}

func init() {
	commentsCmd.Flags().IntVar(&commentsLimit, "limit", 0, "stop after this many comments (0 = all)")
	commentsCmd.Flags().StringVar(&commentsSort, "sort", "", "comment order: recent or popular (default from config)")
	commentsCmd.Flags().StringVar(&commentsFormat, "format", "", "output format: jsonl or csv (default jsonl)")
	commentsCmd.Flags().StringVar(&commentsOut, "out", "", "output file (default <output_dir>/<video-id>/comments.jsonl)")
	commentsCmd.Flags().StringVar(&commentsLanguage, "language", "", "UI language requested from the host")
	rootCmd.AddCommand(commentsCmd)
}
