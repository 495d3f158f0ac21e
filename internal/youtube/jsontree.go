package youtube

import "sort"

// The host's responses are deeply nested, variably shaped JSON. Rather than
// hand-coding paths that break on every markup drift, everything below works
// on the untyped tree (map[string]any / []any / scalars) the way the rest of
// the engine consumes it.

// findKey walks tree depth-first and returns every value stored under key,
// in document order for sequences. Matched subtrees are not descended into.
func findKey(tree any, key string) []any {
	var out []any
	var walk func(node any)
	walk = func(node any) {
		switch n := node.(type) {
		case map[string]any:
			if v, ok := n[key]; ok {
				out = append(out, v)
			}
			for k, v := range n {
				if k == key {
					continue
				}
				walk(v)
			}
		case []any:
			for _, v := range n {
				walk(v)
			}
		}
	}
	walk(tree)
	return out
}

// firstKey returns the first value found under key, if any.
func firstKey(tree any, key string) (any, bool) {
	var found any
	ok := false
	var walk func(node any) bool
	walk = func(node any) bool {
		switch n := node.(type) {
		case map[string]any:
			if v, exists := n[key]; exists {
				found, ok = v, true
				return true
			}
			for _, v := range n {
				if walk(v) {
					return true
				}
			}
		case []any:
			for _, v := range n {
				if walk(v) {
					return true
				}
			}
		}
		return false
	}
	walk(tree)
	return found, ok
}

// firstMap is firstKey narrowed to mapping values.
func firstMap(tree any, key string) (map[string]any, bool) {
	v, ok := firstKey(tree, key)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

// TokenKind classifies what a continuation token continues.
type TokenKind int

const (
	TokenItems   TokenKind = iota // more listing items / top-level comments
	TokenReplies                  // more replies beneath one comment
)

// Continuation is an opaque pagination token plus where it was found.
// Depth supports the selection tie-break.
type Continuation struct {
	Token string
	Kind  TokenKind
	Depth int
}

// Field names the host uses for continuation tokens. The host has renamed
// this field before; extend here, not at call sites.
func isContinuationKey(k string) bool {
	switch k {
	case "token", "continuation", "continuationToken":
		return true
	}
	return false
}

// Keys that wrap reply widgets. Tokens found beneath them continue a reply
// thread, not the main listing.
func isReplyScope(k string) bool {
	switch k {
	case "replies", "commentRepliesRenderer":
		return true
	}
	return false
}

// findContinuations collects every continuation-token candidate in the tree.
// An empty result is the normal end-of-listing condition, not a failure.
func findContinuations(tree any) []Continuation {
	var out []Continuation
	var walk func(node any, depth int, replyScope bool)
	walk = func(node any, depth int, replyScope bool) {
		switch n := node.(type) {
		case map[string]any:
			for k, v := range n {
				if s, ok := v.(string); ok && s != "" && isContinuationKey(k) {
					kind := TokenItems
					if replyScope {
						kind = TokenReplies
					}
					out = append(out, Continuation{Token: s, Kind: kind, Depth: depth})
					continue
				}
				walk(v, depth+1, replyScope || isReplyScope(k))
			}
		case []any:
			for _, v := range n {
				walk(v, depth+1, replyScope)
			}
		}
	}
	walk(tree, 0, false)
	return out
}

// selectContinuation picks the primary token among candidates: longest token
// string first, shallower depth on length ties. Empirically the richer
// "next page" token is the longest one the host emits; decoy tokens for
// unrelated widgets are short. This is a replaceable policy, not a protocol
// guarantee.
func selectContinuation(cands []Continuation) (Continuation, bool) {
	if len(cands) == 0 {
		return Continuation{}, false
	}
	sorted := make([]Continuation, len(cands))
	copy(sorted, cands)
	sort.SliceStable(sorted, func(i, j int) bool {
		if len(sorted[i].Token) != len(sorted[j].Token) {
			return len(sorted[i].Token) > len(sorted[j].Token)
		}
		if sorted[i].Depth != sorted[j].Depth {
			return sorted[i].Depth < sorted[j].Depth
		}
		return sorted[i].Token < sorted[j].Token
	})
	return sorted[0], true
}
