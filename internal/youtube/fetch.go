package youtube

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
)

// DebugDumpPath is where the last fetched page body is mirrored when debug
// mode is on. Best-effort: a failed write never affects the fetch result.
const DebugDumpPath = "ytce_debug.html"

// fetchHTML performs one GET for a page URL. No retries here; retry policy
// belongs to the orchestrating pipeline, not this primitive.
func (c *Client) fetchHTML(ctx context.Context, rawURL string) (string, error) {
	metrics.PageFetches.Add(1)

	body, status, finalURL, err := c.session.Get(ctx, rawURL)
	if err != nil {
		metrics.FetchErrors.Add(1)
		var se *SessionError
		if errors.As(err, &se) {
			return "", err
		}
		return "", &FetchError{URL: rawURL, Err: err}
	}

	if c.debug {
		if werr := os.WriteFile(DebugDumpPath, body, 0o644); werr != nil {
			slog.Warn("debug dump failed", slog.String("path", DebugDumpPath), slog.Any("error", werr))
		}
	}

	if status != http.StatusOK {
		metrics.FetchErrors.Add(1)
		return "", &FetchError{URL: rawURL, Status: status}
	}

	slog.Debug("fetched page", slog.String("url", finalURL), slog.Int("bytes", len(body)))
	return string(body), nil
}
