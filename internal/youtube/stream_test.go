package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// fakeTransport satisfies transport with canned pages and scripted RPC
// responses, so stream tests run hermetically.
type fakeTransport struct {
	pages       map[string]string // page URL -> HTML
	rpc         []rpcReply        // consumed in order
	rpcCalls    int
	lastURL     string
	lastBody    []byte
	lastHeaders map[string]string
}

type rpcReply struct {
	status int
	body   string
}

func (f *fakeTransport) Get(_ context.Context, url string) ([]byte, int, string, error) {
	html, ok := f.pages[url]
	if !ok {
		return nil, 404, url, nil
	}
	return []byte(html), 200, url, nil
}

func (f *fakeTransport) Post(_ context.Context, url string, payload []byte, headers map[string]string) ([]byte, int, error) {
	f.lastURL = url
	f.lastBody = payload
	f.lastHeaders = headers
	if f.rpcCalls >= len(f.rpc) {
		return nil, 0, fmt.Errorf("unexpected rpc call %d to %s", f.rpcCalls, url)
	}
	r := f.rpc[f.rpcCalls]
	f.rpcCalls++
	return []byte(r.body), r.status, nil
}

func (f *fakeTransport) Close() {}

func newTestClient(ft *fakeTransport) *Client {
	return &Client{
		session: ft,
		limiter: rate.NewLimiter(rate.Every(time.Microsecond), 1),
		host:    "https://host.test",
	}
}

func pageHTML(initialData any) string {
	data, _ := json.Marshal(initialData)
	return `<html><script>ytcfg.set(` + configJSON + `);</script>` +
		`<script>var ytInitialData = ` + string(data) + `;</script></html>`
}

func videoItem(id, title, views, length string) map[string]any {
	return map[string]any{
		"richItemRenderer": map[string]any{
			"content": map[string]any{
				"videoRenderer": map[string]any{
					"videoId":       id,
					"title":         map[string]any{"runs": []any{map[string]any{"text": title}}},
					"viewCountText": map[string]any{"simpleText": views},
					"lengthText":    map[string]any{"simpleText": length},
				},
			},
		},
	}
}

func listingToken(token string) map[string]any {
	return map[string]any{
		"continuationItemRenderer": map[string]any{
			"continuationEndpoint": map[string]any{
				"continuationCommand": map[string]any{"token": token},
			},
		},
	}
}

// channelPage builds the initial-state tree for a channel videos tab.
func channelPage(channelID string, items []any) map[string]any {
	return map[string]any{
		"metadata": map[string]any{
			"channelMetadataRenderer": map[string]any{"externalId": channelID},
		},
		"contents": map[string]any{
			"richGridRenderer": map[string]any{"contents": items},
		},
	}
}

// listingPage builds one /browse RPC response.
func listingPage(items []any) string {
	resp := map[string]any{
		"onResponseReceivedActions": []any{
			map[string]any{
				"appendContinuationItemsAction": map[string]any{
					"targetId":          "browse-feed",
					"continuationItems": items,
				},
			},
		},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}
