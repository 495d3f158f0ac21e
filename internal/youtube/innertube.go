package youtube

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// RPC endpoints of the host's internal AJAX API. /browse serves listing
// continuations, /next serves comment-thread continuations.
const (
	innertubePath  = "/youtubei/v1"
	endpointBrowse = "/browse"
	endpointNext   = "/next"
)

// call issues one RPC POST: the caller-supplied body fields merged with the
// replayed client context, API key as a query parameter, client version and
// visitor id as headers. No retries; the pagination loop decides whether an
// error is terminal.
func (c *Client) call(ctx context.Context, cfg *ClientConfig, endpoint string, body map[string]any) (map[string]any, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	metrics.RPCCalls.Add(1)

	payload := map[string]any{"context": cfg.Context}
	for k, v := range body {
		payload[k] = v
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	rpcURL := c.host + innertubePath + endpoint +
		"?key=" + url.QueryEscape(cfg.APIKey) + "&prettyPrint=false"

	headers := map[string]string{
		"content-type":             "application/json",
		"accept":                   "*/*",
		"x-youtube-client-name":    "1",
		"x-youtube-client-version": cfg.ClientVersion,
		"origin":                   c.host,
		"referer":                  c.host + "/",
	}
	if cfg.VisitorData != "" {
		headers["x-goog-visitor-id"] = cfg.VisitorData
	}

	respBody, status, err := c.session.Post(ctx, rpcURL, data, headers)
	if err != nil {
		metrics.RPCErrors.Add(1)
		return nil, &FetchError{URL: rpcURL, Err: err}
	}
	if status != http.StatusOK {
		metrics.RPCErrors.Add(1)
		return nil, &RpcError{Endpoint: endpoint, Status: status}
	}

	var out map[string]any
	if err := json.Unmarshal(respBody, &out); err != nil {
		metrics.RPCErrors.Add(1)
		return nil, &MalformedResponseError{Endpoint: endpoint, Err: err}
	}

	// The host sometimes returns 200 with an in-band error message, e.g. for
	// stale continuations. Treated like any other RPC failure.
	if msg, ok := firstKey(out, "externalErrorMessage"); ok {
		if s, ok := msg.(string); ok && s != "" {
			metrics.RPCErrors.Add(1)
			return nil, &RpcError{Endpoint: endpoint, Status: status, Message: s}
		}
	}
	return out, nil
}

// browse requests the next listing page for a continuation token.
func (c *Client) browse(ctx context.Context, cfg *ClientConfig, token string) (map[string]any, error) {
	return c.call(ctx, cfg, endpointBrowse, map[string]any{"continuation": token})
}

// next requests the next comment-thread page for a continuation token.
func (c *Client) next(ctx context.Context, cfg *ClientConfig, token string) (map[string]any, error) {
	return c.call(ctx, cfg, endpointNext, map[string]any{"continuation": token})
}
