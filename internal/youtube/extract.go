package youtube

import (
	"encoding/json"
	"fmt"
	"strings"
)

// The host page is several megabytes of markup that changes shape often; the
// two JSON documents we need are located by anchored text search followed by
// balanced-brace scanning, never by parsing the DOM. The host has used more
// than one naming convention for each anchor over the years, so every variant
// is tried before giving up.

var configAnchors = []string{
	"ytcfg.set(",
	"window.ytcfg.set(",
	"ytcfg = ",
}

var initialDataAnchors = []string{
	"var ytInitialData = ",
	`window["ytInitialData"] = `,
	"ytInitialData = ",
}

// ClientConfig is the client configuration embedded in every served page.
// Immutable once extracted; it lives for one top-level operation and is
// replayed on every RPC call.
type ClientConfig struct {
	APIKey        string
	ClientVersion string
	VisitorData   string

	// Context is the full client-context block the host's own web client
	// attaches to RPC bodies. Kept opaque apart from the language override
	// applied at extraction time.
	Context map[string]any
}

// extractClientConfig locates and parses the embedded configuration object.
// language, when non-empty, is written into the context's client block before
// the config is handed out; after that the config is never mutated.
func extractClientConfig(html, language string) (*ClientConfig, error) {
	obj, err := extractObject(html, configAnchors, KindConfig)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(obj), &raw); err != nil {
		return nil, &ExtractionError{Kind: KindConfig, Err: err}
	}

	cfg := &ClientConfig{
		APIKey:        stringAt(raw, "INNERTUBE_API_KEY"),
		ClientVersion: stringAt(raw, "INNERTUBE_CLIENT_VERSION"),
		VisitorData:   stringAt(raw, "VISITOR_DATA"),
	}
	cfg.Context, _ = raw["INNERTUBE_CONTEXT"].(map[string]any)

	if cfg.APIKey == "" || cfg.Context == nil {
		return nil, &ExtractionError{Kind: KindConfig, Err: fmt.Errorf("object parsed but required fields missing")}
	}

	if language != "" {
		if client, ok := cfg.Context["client"].(map[string]any); ok {
			client["hl"] = language
		}
	}
	return cfg, nil
}

// extractInitialData locates and parses the embedded initial-state object.
// Consumed once to seed the first page and the first token search.
func extractInitialData(html string) (map[string]any, error) {
	obj, err := extractObject(html, initialDataAnchors, KindInitialState)
	if err != nil {
		return nil, err
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(obj), &data); err != nil {
		return nil, &ExtractionError{Kind: KindInitialState, Err: err}
	}
	return data, nil
}

// extractObject finds the first anchor present in html and returns the
// balanced JSON object starting at the first '{' after it. Tries every
// anchor (and every occurrence of each) before failing.
func extractObject(html string, anchors []string, kind string) (string, error) {
	for _, anchor := range anchors {
		offset := 0
		for {
			idx := strings.Index(html[offset:], anchor)
			if idx < 0 {
				break
			}
			idx += offset
			open := strings.IndexByte(html[idx+len(anchor):], '{')
			if open < 0 {
				break
			}
			start := idx + len(anchor) + open
			if obj, ok := scanBalanced(html, start); ok {
				return obj, nil
			}
			offset = idx + len(anchor)
		}
	}
	return "", &ExtractionError{Kind: kind}
}

// scanBalanced returns the substring from the '{' at start to its matching
// '}'. Braces inside string literals are ignored, including escaped quotes,
// so script content around the object cannot unbalance the scan.
func scanBalanced(s string, start int) (string, bool) {
	if start >= len(s) || s[start] != '{' {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
