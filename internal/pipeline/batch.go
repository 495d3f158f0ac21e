package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v5"

	"ytce/internal/channels"
	"ytce/internal/progress"
	"ytce/internal/storage"
	"ytce/internal/youtube"
)

var errNoChannels = errors.New("no valid channels found")

// BatchConfig configures a multi-channel run.
type BatchConfig struct {
	ChannelsFile  string
	BaseDir       string
	MaxVideos     int
	PerVideoLimit int
	Sort          youtube.SortOrder
	Format        storage.Format
	DryRun        bool
	FailFast      bool
	Resume        bool
	SleepBetween  time.Duration
	MaxTries      uint // per-channel attempts, including the first
}

// RunBatch scrapes every channel in the channels file sequentially. Each
// channel gets a few retries with exponential backoff; a channel that still
// fails is recorded and the batch moves on unless FailFast is set. Artifacts
// (channels snapshot, errors.log, report.json) land in a timestamped
// directory under BaseDir/_batch.
func RunBatch(ctx context.Context, eng Engine, ledger *storage.Ledger, cfg BatchConfig) (*BatchReport, error) {
	started := time.Now().UTC()

	progress.Step("Reading channels from: %s", cfg.ChannelsFile)
	refs, err := channels.ParseFile(cfg.ChannelsFile)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, errNoChannels
	}
	progress.Success("Found %d channel(s) to process", len(refs))

	batchDir := storage.BatchDir(cfg.BaseDir, started.Format("2006-01-02_15-04-05"))
	if err := os.MkdirAll(batchDir, 0o755); err != nil {
		return nil, fmt.Errorf("create batch dir: %w", err)
	}
	if err := copyFile(cfg.ChannelsFile, filepath.Join(batchDir, "channels.txt")); err != nil {
		return nil, err
	}
	errorsLog := filepath.Join(batchDir, "errors.log")

	maxTries := cfg.MaxTries
	if maxTries == 0 {
		maxTries = 3
	}

	var stats []ChannelStats
	for i, ref := range refs {
		progress.Step("[%d/%d] Processing: %s", i+1, len(refs), ref)

		st, err := scrapeWithRetry(ctx, eng, ledger, cfg, ref, maxTries)
		if err != nil {
			progress.Error("[%d/%d] %s — ERROR: %v", i+1, len(refs), ref, err)
			logBatchError(errorsLog, ref, err)
			stats = append(stats, ChannelStats{Channel: ref, Status: "failed", Error: err.Error()})
			if cfg.FailFast {
				progress.Error("Stopping batch due to --fail-fast")
				break
			}
		} else {
			stats = append(stats, st)
			progress.Success("[%d/%d] %s — %s videos — %s comments — OK (%s)",
				i+1, len(refs), ref,
				progress.FormatNumber(st.Videos),
				progress.FormatNumber(st.Comments),
				progress.FormatDuration(time.Duration(st.DurationSec*float64(time.Second))))
		}

		if i < len(refs)-1 && cfg.SleepBetween > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(cfg.SleepBetween):
			}
		}
	}

	report := buildReport(started, time.Now().UTC(), len(refs), stats)
	if err := storage.WriteJSON(filepath.Join(batchDir, "report.json"), report); err != nil {
		return nil, err
	}
	progress.Success("Batch artifacts saved to: %s/", batchDir)
	return report, nil
}

// scrapeWithRetry runs one channel, retrying transient failures. Session
// failures are permanent: if the consent bypass broke, later attempts fare no
// better.
func scrapeWithRetry(ctx context.Context, eng Engine, ledger *storage.Ledger, cfg BatchConfig, ref string, maxTries uint) (ChannelStats, error) {
	operation := func() (ChannelStats, error) {
		st, err := ScrapeChannel(ctx, eng, ledger, ScrapeConfig{
			Channel:       ref,
			BaseDir:       cfg.BaseDir,
			MaxVideos:     cfg.MaxVideos,
			PerVideoLimit: cfg.PerVideoLimit,
			Sort:          cfg.Sort,
			Format:        cfg.Format,
			DryRun:        cfg.DryRun,
			Resume:        cfg.Resume,
			Quiet:         true,
		})
		if err != nil {
			var sessionErr *youtube.SessionError
			if errors.As(err, &sessionErr) {
				return st, backoff.Permanent(err)
			}
			return st, err
		}
		return st, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 30 * time.Second

	return backoff.Retry(ctx, operation, backoff.WithBackOff(bo), backoff.WithMaxTries(maxTries))
}

func buildReport(started, finished time.Time, total int, stats []ChannelStats) *BatchReport {
	report := &BatchReport{
		StartedAt:        started.Format(time.RFC3339),
		FinishedAt:       finished.Format(time.RFC3339),
		ChannelsTotal:    total,
		TotalDurationSec: finished.Sub(started).Seconds(),
		Stats:            stats,
	}
	for _, s := range stats {
		if s.Status == "ok" {
			report.ChannelsOK++
			report.TotalVideos += s.Videos
			report.TotalComments += s.Comments
			report.TotalBytesMB += s.BytesMB
		} else {
			report.ChannelsFailed++
		}
	}
	return report
}

func logBatchError(path, channel string, err error) {
	f, ferr := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if ferr != nil {
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "%s | %s | %v\n", time.Now().UTC().Format(time.RFC3339), channel, err)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return nil
}
