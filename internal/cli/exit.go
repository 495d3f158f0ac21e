package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"ytce/internal/youtube"
)

// Exit codes: 1 for user mistakes, 2 for network/host failures, 3 for
// anything unexpected.
const (
	exitOK       = 0
	exitUser     = 1
	exitNetwork  = 2
	exitInternal = 3
)

// usageError marks a bad-input failure so it exits with the user code.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func userErrf(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func exitCode(err error) int {
	var (
		usage      *usageError
		session    *youtube.SessionError
		fetch      *youtube.FetchError
		extraction *youtube.ExtractionError
		rpc        *youtube.RpcError
		malformed  *youtube.MalformedResponseError
	)
	switch {
	case errors.As(err, &usage),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, context.Canceled):
		return exitUser
	case errors.As(err, &session),
		errors.As(err, &fetch),
		errors.As(err, &extraction),
		errors.As(err, &rpc),
		errors.As(err, &malformed):
		return exitNetwork
	}
	return exitInternal
}
