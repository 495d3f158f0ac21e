// Package channels parses channel-list files into normalized channel
// references.
package channels

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
)

var (
	handleURLRe   = regexp.MustCompile(`youtube\.com/@([a-zA-Z0-9_.-]+)`)
	channelURLRe  = regexp.MustCompile(`youtube\.com/channel/(UC[a-zA-Z0-9_-]+)`)
	channelPathRe = regexp.MustCompile(`^/?channel/(UC[a-zA-Z0-9_-]+)`)
	channelIDRe   = regexp.MustCompile(`^UC[a-zA-Z0-9_-]+$`)
)

// ExtractRef normalizes one channel reference: "@handle" and "UC..." ids pass
// through, youtube.com URLs and /channel/ paths are reduced to them. Returns
// false for anything unrecognizable.
func ExtractRef(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	if strings.HasPrefix(text, "@") {
		return text, true
	}
	if m := handleURLRe.FindStringSubmatch(text); m != nil {
		return "@" + m[1], true
	}
	if m := channelURLRe.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	if m := channelPathRe.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	if channelIDRe.MatchString(text) {
		return text, true
	}
	return "", false
}

// ParseFile reads a channel list: one reference per line, blank lines and
// #-comments skipped. Unrecognizable lines are logged and skipped, never
// fatal.
func ParseFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open channels file: %w", err)
	}
	defer f.Close()

	var refs []string
	sc := bufio.NewScanner(f)
	for lineNum := 1; sc.Scan(); lineNum++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ref, ok := ExtractRef(line)
		if !ok {
			slog.Warn("skipping invalid channel reference",
				slog.String("file", path),
				slog.Int("line", lineNum),
				slog.String("text", line))
			continue
		}
		refs = append(refs, ref)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read channels file: %w", err)
	}
	return refs, nil
}
