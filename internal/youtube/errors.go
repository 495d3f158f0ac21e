package youtube

import (
	"errors"
	"fmt"
)

var errEmptyChannelRef = errors.New("empty channel reference")

// SessionError means the browsing session could not be bootstrapped,
// typically because the consent gate could not be bypassed. It is fatal to
// the whole operation and never retried here.
type SessionError struct {
	Reason string
	Err    error
}

func (e *SessionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("session: %s: %v", e.Reason, e.Err)
	}
	return "session: " + e.Reason
}

func (e *SessionError) Unwrap() error { return e.Err }

// FetchError is a transport or status failure on a page fetch.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Extraction kinds.
const (
	KindConfig       = "config"
	KindInitialState = "initial_state"
)

// ExtractionError means an embedded JSON document could not be located in or
// parsed out of the page HTML. Usually a sign the host markup drifted.
type ExtractionError struct {
	Kind string
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("extract %s: no anchor matched", e.Kind)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// RpcError is a non-success response from the internal RPC endpoint. Message
// is set when the host returned 200 with an in-band error payload.
type RpcError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *RpcError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("rpc %s: %s", e.Endpoint, e.Message)
	}
	return fmt.Sprintf("rpc %s: status %d", e.Endpoint, e.Status)
}

// MalformedResponseError is an RPC response that was not valid JSON.
type MalformedResponseError struct {
	Endpoint string
	Err      error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("rpc %s: malformed response: %v", e.Endpoint, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
