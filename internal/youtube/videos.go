package youtube

import (
	"context"
	"log/slog"
	"strings"
)

// ChannelVideos starts a lazy scrape of a channel's video listing, newest
// first. ref accepts an @handle or a UC... channel id. limit > 0 truncates
// the stream at exactly that many records. The stream is forward-only and
// not restartable; calling ChannelVideos again starts over from page one.
func (c *Client) ChannelVideos(ctx context.Context, ref string, limit int) *VideoStream {
	return &VideoStream{c: c, ctx: ctx, ref: ref, limit: limit}
}

// VideoStream iterates normalized video records across listing pages,
// fetching each next page on demand. Usage follows bufio.Scanner: Next,
// Video, then Err once Next returns false.
type VideoStream struct {
	c     *Client
	ctx   context.Context
	ref   string
	limit int

	cfg       *ClientConfig
	channelID string
	token     string
	hasToken  bool
	pending   []map[string]any
	cur       VideoRecord
	order     int
	started   bool
	done      bool
	err       error
}

// Next advances to the next record. It returns false on exhaustion, on
// reaching the limit, or on error; records already returned remain valid, so
// a page failure yields a partial result rather than discarding everything.
func (s *VideoStream) Next() bool {
	if s.done {
		return false
	}
	if s.limit > 0 && s.order >= s.limit {
		s.done = true
		return false
	}

	for len(s.pending) == 0 {
		if !s.started {
			if err := s.init(); err != nil {
				s.fail(err)
				return false
			}
			s.started = true
			continue
		}
		if !s.hasToken {
			s.done = true
			return false
		}
		if err := s.fetchPage(); err != nil {
			s.fail(err)
			return false
		}
	}

	raw := s.pending[0]
	s.pending = s.pending[1:]
	s.order++
	s.cur = normalizeVideo(raw, s.order, s.channelID)
	metrics.VideosEmitted.Add(1)
	return true
}

// Video returns the record produced by the last successful Next.
func (s *VideoStream) Video() VideoRecord { return s.cur }

// Err returns the error that terminated the stream, or nil after a clean
// exhaustion or limit truncation.
func (s *VideoStream) Err() error { return s.err }

// Count returns how many records have been emitted so far.
func (s *VideoStream) Count() int { return s.order }

func (s *VideoStream) fail(err error) {
	s.err = err
	s.done = true
}

// init fetches the channel page, extracts config and initial state, seeds the
// first page of results and locates the first continuation token.
func (s *VideoStream) init() error {
	pageURL, err := channelVideosURL(s.c.host, s.ref)
	if err != nil {
		return err
	}
	html, err := s.c.fetchHTML(s.ctx, pageURL)
	if err != nil {
		return err
	}

	cfg, err := extractClientConfig(html, s.c.language)
	if err != nil {
		return err
	}
	s.cfg = cfg

	data, err := extractInitialData(html)
	if err != nil {
		return err
	}

	if meta, ok := firstMap(data, "channelMetadataRenderer"); ok {
		s.channelID = stringAt(meta, "externalId")
	}
	if s.channelID == "" && strings.HasPrefix(s.ref, "UC") {
		s.channelID = s.ref
	}

	s.pending = collectVideoRenderers(data)
	s.advanceToken(data)
	slog.Debug("channel listing seeded",
		slog.String("channel", s.ref),
		slog.Int("first_page", len(s.pending)),
		slog.Bool("has_token", s.hasToken))

	// Initial state is discarded here; everything after this runs off RPC
	// responses only.
	return nil
}

// fetchPage exchanges the current token for the next raw listing page.
func (s *VideoStream) fetchPage() error {
	resp, err := s.c.browse(s.ctx, s.cfg, s.token)
	if err != nil {
		return err
	}
	s.pending = collectVideoRenderers(resp)
	s.advanceToken(resp)
	if len(s.pending) == 0 && !s.hasToken {
		s.done = true
	}
	return nil
}

// advanceToken runs the token search over a page tree. A token is used at
// most once; no candidates means the listing is exhausted.
func (s *VideoStream) advanceToken(tree any) {
	cont, ok := selectContinuation(findContinuations(tree))
	s.token, s.hasToken = cont.Token, ok
}

// collectVideoRenderers pulls the raw video entries out of a listing tree,
// preserving the host's order. The host has shipped both rich-grid and plain
// grid item shapes; both are handled.
func collectVideoRenderers(tree any) []map[string]any {
	var out []map[string]any
	for _, item := range findKey(tree, "richItemRenderer") {
		if vr, ok := firstMap(item, "videoRenderer"); ok {
			out = append(out, vr)
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, item := range findKey(tree, "gridVideoRenderer") {
		if vr, ok := item.(map[string]any); ok {
			out = append(out, vr)
		}
	}
	return out
}

// channelVideosURL builds the videos-tab URL for an @handle or channel id.
func channelVideosURL(host, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return "", &FetchError{URL: host, Err: errEmptyChannelRef}
	case strings.HasPrefix(ref, "@"):
		return host + "/" + ref + "/videos", nil
	case strings.HasPrefix(ref, "UC"):
		return host + "/channel/" + ref + "/videos", nil
	default:
		return host + "/@" + ref + "/videos", nil
	}
}
