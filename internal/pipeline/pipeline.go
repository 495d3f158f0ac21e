// Package pipeline orchestrates whole-channel and batch scrapes on top of the
// extraction engine, writing results through the storage layer.
package pipeline

import (
	"context"

	"ytce/internal/youtube"
)

// Version is stamped by the build; it lands in the source field of every
// written record.
var Version = "dev"

func sourceTag() string { return "ytce/" + Version }

// VideoSource is the video side of the engine the pipeline consumes.
type VideoSource interface {
	Next() bool
	Video() youtube.VideoRecord
	Err() error
}

// CommentSource is the comment side of the engine the pipeline consumes.
type CommentSource interface {
	Next() bool
	Comment() youtube.CommentRecord
	Err() error
	Disabled() bool
	TotalCount() (int64, bool)
}

// Engine produces record streams. Satisfied by the adapter over
// *youtube.Client; tests substitute fakes.
type Engine interface {
	ChannelVideos(ctx context.Context, ref string, limit int) VideoSource
	Comments(ctx context.Context, videoID string, sort youtube.SortOrder, limit int) CommentSource
}

type clientEngine struct {
	c *youtube.Client
}

// NewEngine adapts a youtube client to the pipeline's engine interface.
func NewEngine(c *youtube.Client) Engine { return clientEngine{c: c} }

func (e clientEngine) ChannelVideos(ctx context.Context, ref string, limit int) VideoSource {
	return e.c.ChannelVideos(ctx, ref, limit)
}

func (e clientEngine) Comments(ctx context.Context, videoID string, sort youtube.SortOrder, limit int) CommentSource {
	return e.c.Comments(ctx, videoID, sort, limit)
}

// ChannelStats summarizes one channel scrape.
type ChannelStats struct {
	Channel     string  `json:"channel"`
	Videos      int     `json:"videos"`
	Comments    int     `json:"comments"`
	BytesMB     float64 `json:"bytes_mb"`
	DurationSec float64 `json:"duration_sec"`
	Status      string  `json:"status"`
	Error       string  `json:"error,omitempty"`
}

// BatchReport summarizes one batch run across channels.
type BatchReport struct {
	StartedAt        string         `json:"started_at"`
	FinishedAt       string         `json:"finished_at"`
	ChannelsTotal    int            `json:"channels_total"`
	ChannelsOK       int            `json:"channels_ok"`
	ChannelsFailed   int            `json:"channels_failed"`
	TotalVideos      int            `json:"total_videos"`
	TotalComments    int            `json:"total_comments"`
	TotalBytesMB     float64        `json:"total_bytes_mb"`
	TotalDurationSec float64        `json:"total_duration_sec"`
	Stats            []ChannelStats `json:"stats"`
}
