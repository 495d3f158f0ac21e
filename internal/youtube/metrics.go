package youtube

import "sync/atomic"

// Operational counters, process-wide and goroutine-safe. Observability only;
// no engine behavior depends on them.
var metrics struct {
	PageFetches     atomic.Int64
	FetchErrors     atomic.Int64
	RPCCalls        atomic.Int64
	RPCErrors       atomic.Int64
	VideosEmitted   atomic.Int64
	CommentsEmitted atomic.Int64
}

// Metrics returns a snapshot of the engine counters.
func Metrics() map[string]int64 {
	return map[string]int64{
		"page_fetches":     metrics.PageFetches.Load(),
		"fetch_errors":     metrics.FetchErrors.Load(),
		"rpc_calls":        metrics.RPCCalls.Load(),
		"rpc_errors":       metrics.RPCErrors.Load(),
		"videos_emitted":   metrics.VideosEmitted.Load(),
		"comments_emitted": metrics.CommentsEmitted.Load(),
	}
}
