package cli

import (
	"github.com/spf13/cobra"

	"ytce/internal/channels"
	"ytce/internal/pipeline"
	"ytce/internal/progress"
	"ytce/internal/storage"
)

var (
	videosLimit    int
	videosFormat   string
	videosOut      string
	videosLanguage string
)

var videosCmd = &cobra.Command{
	Use:   "videos <channel>",
	Short: "Scrape a channel's video listing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, ok := channels.ExtractRef(args[0])
		if !ok {
			return userErrf("invalid channel reference %q", args[0])
		}
		opts, err := resolveOpts(videosFormat, "", videosLanguage)
		if err != nil {
			return err
		}

		eng, closeEngine, err := newEngine(opts.language)
		if err != nil {
			return err
		}
		defer closeEngine()

		stats, err := pipeline.ScrapeChannel(cmd.Context(), eng, nil, pipeline.ScrapeConfig{
			Channel:    ref,
			BaseDir:    opts.cfg.OutputDir,
			OutDir:     videosOut,
			MaxVideos:  videosLimit,
			Format:     opts.format,
			VideosOnly: true,
		})
		if err != nil {
			return err
		}
		outDir := videosOut
		if outDir == "" {
			outDir = storage.ChannelDir(opts.cfg.OutputDir, ref)
		}
		progress.Success("%s videos written to %s", progress.FormatNumber(stats.Videos), storage.VideosPath(outDir, opts.format))
		return nil
	},
}

func init() {
	videosCmd.Flags().IntVar(&videosLimit, "limit", 0, "stop after this many videos (0 = all)")
	videosCmd.Flags().StringVar(&videosFormat, "format", "", "output format: jsonl, json or csv (default jsonl)")
	videosCmd.Flags().StringVar(&videosOut, "out", "", "output directory (default <output_dir>/<channel>)")
	videosCmd.Flags().StringVar(&videosLanguage, "language", "", "UI language requested from the host")
	rootCmd.AddCommand(videosCmd)
}
