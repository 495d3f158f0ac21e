// Package storage lays out the output tree and writes records in the
// supported formats. It also keeps the resume ledger that lets batch runs
// skip videos already scraped.
package storage

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is an output file format.
type Format string

const (
	FormatJSONL Format = "jsonl"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
)

// ParseFormat validates a format string, defaulting to jsonl.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "jsonl":
		return FormatJSONL, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported format %q (want jsonl, json or csv)", s)
}

// SanitizeName makes a channel or video reference safe as a directory or file
// name: the handle "@" is dropped and path-hostile characters are replaced.
func SanitizeName(name string) string {
	name = strings.TrimPrefix(strings.TrimSpace(name), "@")
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
}

// ChannelDir is the per-channel output directory.
func ChannelDir(baseDir, channel string) string {
	return filepath.Join(baseDir, SanitizeName(channel))
}

// VideosPath is the channel video-listing file inside a channel directory.
func VideosPath(channelDir string, format Format) string {
	ext := "json"
	if format == FormatCSV {
		ext = "csv"
	}
	return filepath.Join(channelDir, "videos."+ext)
}

// CommentsDir is the per-video comment directory inside a channel directory.
func CommentsDir(channelDir string) string {
	return filepath.Join(channelDir, "comments")
}

// CommentsFilename names one video's comment file, ordered so a directory
// listing follows the channel's upload order.
func CommentsFilename(order int, videoID string, format Format) string {
	ext := "jsonl"
	if format == FormatCSV {
		ext = "csv"
	}
	return fmt.Sprintf("%04d_%s.%s", order, SanitizeName(videoID), ext)
}

// LedgerPath is the resume-ledger database location under the base dir.
func LedgerPath(baseDir string) string {
	return filepath.Join(baseDir, "ytce.db")
}

// BatchDir is the artifact directory for one batch run, keyed by its start
// timestamp.
func BatchDir(baseDir, stamp string) string {
	return filepath.Join(baseDir, "_batch", stamp)
}
