package youtube

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// SortOrder selects the host's comment ordering. It maps onto the index of
// the sort menu the host renders, chosen before the first RPC; it cannot
// change mid-stream.
type SortOrder int

const (
	SortPopular SortOrder = iota
	SortRecent
)

// ParseSort maps a config string onto a SortOrder, defaulting to recent.
func ParseSort(s string) SortOrder {
	if strings.EqualFold(s, "popular") {
		return SortPopular
	}
	return SortRecent
}

// Comment-section target ids the host uses across surfaces.
func isCommentsSectionTarget(target string) bool {
	switch target {
	case "comments-section", "engagement-panel-comments-section", "shorts-engagement-panel-comments-section":
		return true
	}
	return false
}

// Comments starts a lazy scrape of a video's comment thread. Top-level
// comments are fully paginated first; reply threads discovered along the way
// are drained afterwards, on demand. limit > 0 truncates at exactly that
// many records.
func (c *Client) Comments(ctx context.Context, videoID string, sort SortOrder, limit int) *CommentStream {
	return &CommentStream{c: c, ctx: ctx, videoID: videoID, sort: sort, limit: limit}
}

// CommentStream iterates normalized comment records. Usage follows
// bufio.Scanner: Next, Comment, then Err once Next returns false. Disabled
// distinguishes "comments turned off" from "zero comments posted".
type CommentStream struct {
	c       *Client
	ctx     context.Context
	videoID string
	sort    SortOrder
	limit   int

	cfg         *ClientConfig
	topTokens   []string
	replyTokens []string
	pending     []CommentRecord
	cur         CommentRecord
	emitted     int
	total       int64
	hasTotal    bool
	disabled    bool
	started     bool
	done        bool
	err         error
}

// Next advances to the next record, fetching further pages as needed.
// Returns false on exhaustion, limit, disabled comments, or error; records
// already returned remain valid.
func (s *CommentStream) Next() bool {
	if s.done {
		return false
	}
	if s.limit > 0 && s.emitted >= s.limit {
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
			if s.disabled {
				s.done = true
				return false
			}
			continue
		}
		switch {
		case len(s.topTokens) > 0:
			if err := s.fetchPage(&s.topTokens); err != nil {
				s.fail(err)
				return false
			}
		case len(s.replyTokens) > 0:
			if err := s.fetchPage(&s.replyTokens); err != nil {
				s.fail(err)
				return false
			}
		default:
			s.done = true
			return false
		}
	}

	s.cur = s.pending[0]
	s.pending = s.pending[1:]
	s.emitted++
	metrics.CommentsEmitted.Add(1)
	return true
}

// Comment returns the record produced by the last successful Next.
func (s *CommentStream) Comment() CommentRecord { return s.cur }

// Err returns the error that terminated the stream, or nil.
func (s *CommentStream) Err() error { return s.err }

// Disabled reports whether the video has its comment section turned off.
// Only meaningful once Next has returned false with a nil Err.
func (s *CommentStream) Disabled() bool { return s.disabled }

// Count returns how many records have been emitted so far.
func (s *CommentStream) Count() int { return s.emitted }

// TotalCount returns the host-reported total comment count when one was
// discoverable in the thread header.
func (s *CommentStream) TotalCount() (int64, bool) { return s.total, s.hasTotal }

func (s *CommentStream) fail(err error) {
	s.err = err
	s.done = true
}

// init fetches the watch page, detects the disabled state, resolves the sort
// menu and seeds the first top-level continuation.
func (s *CommentStream) init() error {
	html, err := s.c.fetchHTML(s.ctx, s.c.host+"/watch?v="+s.videoID)
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

	// No continuation slot below the player means the comment section was
	// never rendered: comments are disabled. A terminal state, not an error.
	section, ok := firstMap(data, "itemSectionRenderer")
	if !ok {
		s.disabled = true
		return nil
	}
	if _, ok := firstKey(section, "continuationItemRenderer"); !ok {
		s.disabled = true
		return nil
	}

	menuItems, err := s.sortMenuItems(data)
	if err != nil {
		return err
	}
	idx := int(s.sort)
	if idx >= len(menuItems) {
		return &ExtractionError{Kind: KindInitialState, Err: fmt.Errorf("sort menu has %d entries, want index %d", len(menuItems), idx)}
	}
	entry, _ := menuItems[idx].(map[string]any)
	cont, ok := selectContinuation(findContinuations(entry["serviceEndpoint"]))
	if !ok {
		return &ExtractionError{Kind: KindInitialState, Err: fmt.Errorf("sort menu entry carries no continuation")}
	}
	s.topTokens = append(s.topTokens, cont.Token)

	if n, ok := extractCommentCount(data); ok {
		s.total, s.hasTotal = n, true
	}
	slog.Debug("comment thread seeded",
		slog.String("video", s.videoID),
		slog.Bool("has_total", s.hasTotal))
	return nil
}

// sortMenuItems locates the sort sub-menu. When the initial state carries
// none (some surfaces defer it), one RPC round-trip against the section's
// own continuation usually materializes it.
func (s *CommentStream) sortMenuItems(data map[string]any) ([]any, error) {
	if menu, ok := firstMap(data, "sortFilterSubMenuRenderer"); ok {
		if items, ok := menu["subMenuItems"].([]any); ok && len(items) > 0 {
			return items, nil
		}
	}

	sectionList, ok := firstMap(data, "sectionListRenderer")
	if !ok {
		return nil, &ExtractionError{Kind: KindInitialState, Err: fmt.Errorf("sort menu not found")}
	}
	cont, ok := selectContinuation(findContinuations(sectionList))
	if !ok {
		return nil, &ExtractionError{Kind: KindInitialState, Err: fmt.Errorf("sort menu not found")}
	}
	resp, err := s.c.next(s.ctx, s.cfg, cont.Token)
	if err != nil {
		return nil, err
	}
	if menu, ok := firstMap(resp, "sortFilterSubMenuRenderer"); ok {
		if items, ok := menu["subMenuItems"].([]any); ok && len(items) > 0 {
			return items, nil
		}
	}
	return nil, &ExtractionError{Kind: KindInitialState, Err: fmt.Errorf("sort menu not found")}
}

// fetchPage exchanges the front token of the given queue for one raw thread
// page and folds its contents into the stream state.
func (s *CommentStream) fetchPage(queue *[]string) error {
	token := (*queue)[0]
	*queue = (*queue)[1:]

	resp, err := s.c.next(s.ctx, s.cfg, token)
	if err != nil {
		return err
	}
	if !s.hasTotal {
		if n, ok := extractCommentCount(resp); ok {
			s.total, s.hasTotal = n, true
		}
	}
	s.processPage(resp)
	return nil
}

// processPage harvests continuation tokens and comment payloads from one RPC
// response. Top-level and reply tokens land in separate queues so that the
// whole top-level listing is paginated before any reply thread is fetched.
func (s *CommentStream) processPage(resp map[string]any) {
	actions := findKey(resp, "reloadContinuationItemsCommand")
	actions = append(actions, findKey(resp, "appendContinuationItemsAction")...)

	for _, a := range actions {
		am, ok := a.(map[string]any)
		if !ok {
			continue
		}
		target := stringAt(am, "targetId")
		items, _ := am["continuationItems"].([]any)
		for _, item := range items {
			switch {
			case isCommentsSectionTarget(target):
				for _, ct := range findContinuations(item) {
					if ct.Kind == TokenReplies {
						s.replyTokens = append(s.replyTokens, ct.Token)
					} else {
						s.topTokens = append(s.topTokens, ct.Token)
					}
				}
			case strings.HasPrefix(target, "comment-replies-item"):
				// The "Show more replies" button at the bottom of a thread.
				if _, ok := firstKey(item, "continuationItemRenderer"); !ok {
					continue
				}
				if btn, ok := firstMap(item, "buttonRenderer"); ok {
					if ct, ok := selectContinuation(findContinuations(btn)); ok {
						s.replyTokens = append(s.replyTokens, ct.Token)
					}
				}
			}
		}
	}

	// Comment entities ride in framework updates in reverse display order.
	payloads := findKey(resp, "commentEntityPayload")
	states := collectToolbarStates(resp)
	for i := len(payloads) - 1; i >= 0; i-- {
		if pm, ok := payloads[i].(map[string]any); ok {
			s.pending = append(s.pending, normalizeComment(pm, states))
		}
	}
}

// collectToolbarStates indexes toolbar state payloads by their entity key so
// comments can resolve their heart state.
func collectToolbarStates(resp map[string]any) map[string]map[string]any {
	states := make(map[string]map[string]any)
	for _, p := range findKey(resp, "engagementToolbarStateEntityPayload") {
		if pm, ok := p.(map[string]any); ok {
			if key := stringAt(pm, "key"); key != "" {
				states[key] = pm
			}
		}
	}
	return states
}

// extractCommentCount digs the total comment count out of whichever header
// shape the host served. Best-effort; absence is normal.
func extractCommentCount(tree any) (int64, bool) {
	if cr, ok := firstMap(tree, "commentCountRenderer"); ok {
		if n, ok := parseCountNode(cr["text"]); ok {
			return n, true
		}
	}
	if hdr, ok := firstMap(tree, "commentsHeaderRenderer"); ok {
		if n, ok := parseCountNode(hdr["countText"]); ok {
			return n, true
		}
		if n, ok := parseCountNode(hdr["title"]); ok {
			return n, true
		}
	}
	if v, ok := firstKey(tree, "commentCount"); ok {
		if n, ok := parseCountNode(v); ok {
			return n, true
		}
	}
	return 0, false
}

// parseCountNode accepts the count as a bare number, a bare string, or a
// text object ("28,999", "28.9K Comments").
func parseCountNode(node any) (int64, bool) {
	switch n := node.(type) {
	case float64:
		if n < 0 {
			return 0, false
		}
		return int64(n), true
	case string:
		return parseCommentCountText(n)
	case map[string]any:
		return parseCommentCountText(runsText(n))
	}
	return 0, false
}

func parseCommentCountText(s string) (int64, bool) {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "comments", "")
	s = strings.ReplaceAll(s, "comment", "")
	return parseApproxCount(strings.TrimSpace(s))
}
