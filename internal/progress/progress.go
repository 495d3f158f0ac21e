// Package progress renders console output for long-running scrapes: step
// markers, counters and the batch summary table.
package progress

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Step prints an in-progress marker.
func Step(format string, args ...any) {
	fmt.Printf("▶ "+format+"\n", args...)
}

// Success prints a completed-step marker.
func Success(format string, args ...any) {
	fmt.Printf("✔ "+format+"\n", args...)
}

// Warning prints a non-fatal notice.
func Warning(format string, args ...any) {
	fmt.Printf("⚠ "+format+"\n", args...)
}

// Error prints a failure to stderr.
func Error(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "✗ "+format+"\n", args...)
}

// Video prints one per-video progress line.
func Video(index, total int, videoID, status string) {
	fmt.Printf("[%03d/%03d] %s — %s\n", index, total, videoID, status)
}

// FormatNumber renders an integer with thousands separators.
func FormatNumber(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, d := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// FormatBytes renders a byte count in the largest sensible unit.
func FormatBytes(n int64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}

// FormatDuration renders a duration as compact h/m/s text.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
