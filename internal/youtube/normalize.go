package youtube

import (
	"strconv"
	"strings"
)

// VideoRecord is the stable output shape for one channel video. Every field
// is always present; pointer fields marshal as null when the source text was
// missing or unparsable. Fields may be added in future revisions but never
// removed or retyped.
type VideoRecord struct {
	VideoID       string   `json:"video_id"`
	Title         string   `json:"title"`
	Order         int      `json:"order"`
	ViewCount     *int64   `json:"view_count"`
	ViewCountRaw  string   `json:"view_count_raw"`
	Length        string   `json:"length"`
	LengthMinutes *float64 `json:"length_minutes"`
	ThumbnailURL  string   `json:"thumbnail_url"`
	URL           string   `json:"url"`
	ChannelID     string   `json:"channel_id"`
}

// CommentRecord is the stable output shape for one comment, top-level or
// reply. Reply is true for reply-thread entries.
type CommentRecord struct {
	CID        string `json:"cid"`
	Text       string `json:"text"`
	TextLength int    `json:"text_length"`
	Time       string `json:"time"`
	Author     string `json:"author"`
	Channel    string `json:"channel"`
	Votes      string `json:"votes"`
	Replies    string `json:"replies"`
	Photo      string `json:"photo"`
	Heart      bool   `json:"heart"`
	Reply      bool   `json:"reply"`
}

// normalizeVideo maps one raw videoRenderer mapping into a VideoRecord.
// Pure and total: malformed fields degrade to their absent value, never panic.
func normalizeVideo(raw map[string]any, order int, channelID string) VideoRecord {
	id := stringAt(raw, "videoId")

	rec := VideoRecord{
		VideoID:      id,
		Title:        runsText(raw["title"]),
		Order:        order,
		ViewCountRaw: runsText(raw["viewCountText"]),
		Length:       runsText(raw["lengthText"]),
		ChannelID:    channelID,
	}
	if rec.Length == "" {
		if overlay, ok := firstMap(raw["thumbnailOverlays"], "thumbnailOverlayTimeStatusRenderer"); ok {
			rec.Length = runsText(overlay["text"])
		}
	}
	if v, ok := parseViewCount(rec.ViewCountRaw); ok {
		rec.ViewCount = &v
	}
	if m, ok := parseDurationMinutes(rec.Length); ok {
		rec.LengthMinutes = &m
	}
	if id != "" {
		rec.URL = "https://www.youtube.com/watch?v=" + id
	}
	rec.ThumbnailURL = lastThumbnail(raw["thumbnail"])
	return rec
}

// normalizeComment maps one commentEntityPayload mapping into a
// CommentRecord. toolbarStates is keyed by the payload's toolbarStateKey.
func normalizeComment(payload map[string]any, toolbarStates map[string]map[string]any) CommentRecord {
	props := mapAt(payload, "properties")
	author := mapAt(payload, "author")
	toolbar := mapAt(payload, "toolbar")

	cid := stringAt(props, "commentId")
	text := stringAt(mapAt(props, "content"), "content")

	votes := strings.TrimSpace(stringAt(toolbar, "likeCountNotliked"))
	if votes == "" {
		votes = "0"
	}

	heart := false
	if state, ok := toolbarStates[stringAt(props, "toolbarStateKey")]; ok {
		heart = stringAt(state, "heartState") == "TOOLBAR_HEART_STATE_HEARTED"
	}

	return CommentRecord{
		CID:        cid,
		Text:       text,
		TextLength: len(text),
		Time:       stringAt(props, "publishedTime"),
		Author:     stringAt(author, "displayName"),
		Channel:    stringAt(author, "channelId"),
		Votes:      votes,
		Replies:    stringAt(toolbar, "replyCount"),
		Photo:      stringAt(author, "avatarThumbnailUrl"),
		Heart:      heart,
		// Reply comment ids are "<parent>.<child>".
		Reply: strings.Contains(cid, "."),
	}
}

// parseViewCount converts localized view-count text ("123,456 views") into an
// integer. Returns false on anything without a leading number ("No views").
func parseViewCount(s string) (int64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, unit := range []string{"views", "view", "watching now", "watching"} {
		s = strings.TrimSpace(strings.TrimSuffix(s, unit))
	}
	return parseApproxCount(s)
}

// parseApproxCount parses counts like "28,999", "28.9K" or "1.2M".
func parseApproxCount(s string) (int64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}

	multiplier := float64(1)
	switch s[len(s)-1] {
	case 'k':
		multiplier, s = 1e3, s[:len(s)-1]
	case 'm':
		multiplier, s = 1e6, s[:len(s)-1]
	case 'b':
		multiplier, s = 1e9, s[:len(s)-1]
	}

	// Thousands separators, including the non-breaking space some locales use.
	s = strings.NewReplacer(",", "", " ", "", "\u00a0", "").Replace(s)

	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return int64(n * multiplier), true
}

// parseDurationMinutes converts a "MM:SS" or "H:MM:SS" display duration into
// a minute count. Returns false on empty or malformed input.
func parseDurationMinutes(s string) (float64, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	var secs float64
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return 0, false
		}
		secs = secs*60 + float64(n)
	}
	return secs / 60, true
}

// --- untyped-tree accessors, all total ---

func mapAt(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	v, _ := m[key].(map[string]any)
	return v
}

func stringAt(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

// runsText flattens the host's two text shapes: {"simpleText": ...} and
// {"runs": [{"text": ...}, ...]}.
func runsText(node any) string {
	m, ok := node.(map[string]any)
	if !ok {
		return ""
	}
	if s := stringAt(m, "simpleText"); s != "" {
		return s
	}
	runs, _ := m["runs"].([]any)
	var b strings.Builder
	for _, r := range runs {
		if rm, ok := r.(map[string]any); ok {
			b.WriteString(stringAt(rm, "text"))
		}
	}
	return b.String()
}

// lastThumbnail picks the largest (last) thumbnail variant URL.
func lastThumbnail(node any) string {
	m, ok := node.(map[string]any)
	if !ok {
		return ""
	}
	thumbs, _ := m["thumbnails"].([]any)
	if len(thumbs) == 0 {
		return ""
	}
	last, _ := thumbs[len(thumbs)-1].(map[string]any)
	return stringAt(last, "url")
}
