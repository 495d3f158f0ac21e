package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const ledgerSchema = `
CREATE TABLE IF NOT EXISTS completed_videos (
	channel      TEXT NOT NULL,
	video_id     TEXT NOT NULL,
	comments     INTEGER NOT NULL DEFAULT 0,
	completed_at TEXT NOT NULL,
	PRIMARY KEY (channel, video_id)
);
`

// Ledger records which videos have been fully scraped, so a re-run with
// --resume can skip them. One database per output tree.
type Ledger struct {
	db *sql.DB
}

// OpenLedger opens (creating if needed) the ledger database at path.
func OpenLedger(path string) (*Ledger, error) {
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}
	if _, err := db.Exec(ledgerSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init ledger schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

// MarkDone records a video as fully scraped. Re-marking updates the row.
func (l *Ledger) MarkDone(ctx context.Context, channel, videoID string, comments int) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO completed_videos (channel, video_id, comments, completed_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (channel, video_id) DO UPDATE SET
		   comments = excluded.comments, completed_at = excluded.completed_at`,
		channel, videoID, comments, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("ledger mark %s/%s: %w", channel, videoID, err)
	}
	return nil
}

// IsDone reports whether a video was already completed in an earlier run.
func (l *Ledger) IsDone(ctx context.Context, channel, videoID string) (bool, error) {
	var one int
	err := l.db.QueryRowContext(ctx,
		`SELECT 1 FROM completed_videos WHERE channel = ? AND video_id = ?`,
		channel, videoID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("ledger lookup %s/%s: %w", channel, videoID, err)
	}
	return true, nil
}

// Forget drops a channel's rows, used when a channel is re-scraped from
// scratch.
func (l *Ledger) Forget(ctx context.Context, channel string) error {
	if _, err := l.db.ExecContext(ctx,
		`DELETE FROM completed_videos WHERE channel = ?`, channel); err != nil {
		return fmt.Errorf("ledger forget %s: %w", channel, err)
	}
	return nil
}

// Close releases the database handle.
func (l *Ledger) Close() error { return l.db.Close() }
