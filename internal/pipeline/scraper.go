package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"ytce/internal/progress"
	"ytce/internal/storage"
	"ytce/internal/youtube"
)

// ScrapeConfig configures one channel scrape, for both the channel command
// and the batch pipeline.
type ScrapeConfig struct {
	Channel       string
	BaseDir       string
	OutDir        string // overrides BaseDir/<channel> when set
	MaxVideos     int
	PerVideoLimit int
	Sort          youtube.SortOrder
	Format        storage.Format
	VideosOnly    bool
	DryRun        bool
	Resume        bool
	Quiet         bool
}

// Column orders for CSV output. Metadata columns come last.
var (
	videoFields = []string{
		"video_id", "title", "order", "view_count", "view_count_raw",
		"length", "length_minutes", "thumbnail_url", "url", "channel_id",
		"scraped_at", "source",
	}
	commentFields = []string{
		"cid", "text", "text_length", "time", "author", "channel",
		"votes", "replies", "photo", "heart", "reply",
		"scraped_at", "source",
	}
)

// ScrapeChannel scrapes one channel: the video listing, then each video's
// comment thread. Without Resume the default channel directory is replaced;
// with Resume, videos already recorded in the ledger are skipped.
func ScrapeChannel(ctx context.Context, eng Engine, ledger *storage.Ledger, cfg ScrapeConfig) (ChannelStats, error) {
	start := time.Now()
	stats := ChannelStats{Channel: cfg.Channel, Status: "ok"}

	outDir := cfg.OutDir
	if outDir == "" {
		outDir = storage.ChannelDir(cfg.BaseDir, cfg.Channel)
	}

	// Only the default per-channel directory is replaced wholesale; a
	// user-supplied output directory may hold unrelated files.
	if !cfg.Resume && !cfg.DryRun && cfg.OutDir == "" {
		if _, err := os.Stat(outDir); err == nil {
			if !cfg.Quiet {
				progress.Step("Removing existing data for %s", cfg.Channel)
			}
			if err := os.RemoveAll(outDir); err != nil {
				return stats, fmt.Errorf("clear channel dir: %w", err)
			}
		}
		if ledger != nil {
			if err := ledger.Forget(ctx, cfg.Channel); err != nil {
				return stats, err
			}
		}
	}

	if !cfg.Quiet {
		progress.Step("Fetching channel: %s", cfg.Channel)
	}
	videos, err := collectVideos(eng.ChannelVideos(ctx, cfg.Channel, cfg.MaxVideos))
	if err != nil {
		return stats, err
	}
	stats.Videos = len(videos)
	if !cfg.Quiet {
		progress.Success("Found %s videos", progress.FormatNumber(len(videos)))
	}

	if cfg.DryRun {
		stats.DurationSec = time.Since(start).Seconds()
		if !cfg.Quiet {
			progress.Success("No files written (dry-run mode)")
		}
		return stats, nil
	}

	scrapedAt := time.Now().UTC().Format(time.RFC3339)
	videosPath := storage.VideosPath(outDir, cfg.Format)
	totalBytes, err := writeVideoListing(videosPath, cfg, videos, scrapedAt)
	if err != nil {
		return stats, err
	}

	if cfg.VideosOnly {
		stats.BytesMB = float64(totalBytes) / (1 << 20)
		stats.DurationSec = time.Since(start).Seconds()
		return stats, nil
	}

	commentsDir := storage.CommentsDir(outDir)
	for i, v := range videos {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if cfg.Resume && ledger != nil {
			done, err := ledger.IsDone(ctx, cfg.Channel, v.VideoID)
			if err != nil {
				return stats, err
			}
			if done {
				if !cfg.Quiet {
					progress.Video(i+1, len(videos), v.VideoID, "skipped (resume)")
				}
				continue
			}
		}

		wrote, size, err := scrapeVideoComments(ctx, eng, commentsDir, cfg, v)
		if err != nil {
			// One broken thread does not fail the channel.
			slog.Warn("comment scrape failed",
				slog.String("video", v.VideoID),
				slog.Any("error", err))
			if !cfg.Quiet {
				progress.Video(i+1, len(videos), v.VideoID, "error: "+err.Error())
			}
			continue
		}
		stats.Comments += wrote
		totalBytes += size
		if !cfg.Quiet {
			progress.Video(i+1, len(videos), v.VideoID, fmt.Sprintf("%s comments", progress.FormatNumber(wrote)))
		}
		if ledger != nil {
			if err := ledger.MarkDone(ctx, cfg.Channel, v.VideoID, wrote); err != nil {
				return stats, err
			}
		}
	}

	stats.BytesMB = float64(totalBytes) / (1 << 20)
	stats.DurationSec = time.Since(start).Seconds()
	if !cfg.Quiet {
		progress.Success("Done! Output: %s/", outDir)
	}
	return stats, nil
}

func collectVideos(src VideoSource) ([]youtube.VideoRecord, error) {
	var videos []youtube.VideoRecord
	for src.Next() {
		videos = append(videos, src.Video())
	}
	if err := src.Err(); err != nil {
		return nil, err
	}
	return videos, nil
}

// writeVideoListing writes the channel listing document and returns its size.
func writeVideoListing(path string, cfg ScrapeConfig, videos []youtube.VideoRecord, scrapedAt string) (int64, error) {
	rows := make([]map[string]any, 0, len(videos))
	for _, v := range videos {
		m, err := storage.RecordMap(v)
		if err != nil {
			return 0, err
		}
		m["scraped_at"] = scrapedAt
		m["source"] = sourceTag()
		rows = append(rows, m)
	}

	if cfg.Format == storage.FormatCSV {
		w, err := storage.NewRecordWriter(path, storage.FormatCSV, videoFields)
		if err != nil {
			return 0, err
		}
		for _, row := range rows {
			if err := w.Write(row); err != nil {
				w.Close()
				return 0, err
			}
		}
		if err := w.Close(); err != nil {
			return 0, err
		}
	} else {
		payload := map[string]any{
			"channel_id":   channelID(videos, cfg.Channel),
			"total_videos": len(videos),
			"videos":       rows,
			"scraped_at":   scrapedAt,
			"source":       sourceTag(),
		}
		if err := storage.WriteJSON(path, payload); err != nil {
			return 0, err
		}
	}
	return fileSize(path), nil
}

func channelID(videos []youtube.VideoRecord, fallback string) string {
	if len(videos) > 0 && videos[0].ChannelID != "" {
		return videos[0].ChannelID
	}
	return fallback
}

// scrapeVideoComments streams one video's comments into its per-channel
// file. Disabled comments produce no file and no error.
func scrapeVideoComments(ctx context.Context, eng Engine, commentsDir string, cfg ScrapeConfig, v youtube.VideoRecord) (int, int64, error) {
	path := filepath.Join(commentsDir, storage.CommentsFilename(v.Order, v.VideoID, cfg.Format))
	count, disabled, err := ScrapeComments(ctx, eng, v.VideoID, cfg.Sort, cfg.PerVideoLimit, cfg.Format, path)
	if err != nil || disabled {
		return 0, 0, err
	}
	return count, fileSize(path), nil
}

// ScrapeComments scrapes one video's comment thread into a single file.
// Returns the record count and whether the video has comments disabled (in
// which case no file is written).
func ScrapeComments(ctx context.Context, eng Engine, videoID string, sort youtube.SortOrder, limit int, format storage.Format, path string) (int, bool, error) {
	src := eng.Comments(ctx, videoID, sort, limit)
	scrapedAt := time.Now().UTC().Format(time.RFC3339)

	var w storage.RecordWriter
	for src.Next() {
		if w == nil {
			var err error
			w, err = storage.NewRecordWriter(path, format, commentFields)
			if err != nil {
				return 0, false, err
			}
		}
		m, err := storage.RecordMap(src.Comment())
		if err != nil {
			w.Close()
			return 0, false, err
		}
		m["scraped_at"] = scrapedAt
		m["source"] = sourceTag()
		if err := w.Write(m); err != nil {
			w.Close()
			return 0, false, err
		}
	}
	if err := src.Err(); err != nil {
		if w != nil {
			w.Close()
		}
		return 0, false, err
	}
	if src.Disabled() {
		return 0, true, nil
	}
	// Zero posted comments still get an empty file, so re-runs can tell
	// "scraped, none found" from "never scraped".
	if w == nil {
		var err error
		w, err = storage.NewRecordWriter(path, format, commentFields)
		if err != nil {
			return 0, false, err
		}
	}
	count := w.Count()
	if err := w.Close(); err != nil {
		return 0, false, err
	}
	return count, false, nil
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
