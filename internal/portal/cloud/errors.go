package cloud

import (
	"errors"
	"fmt"
)

// ErrRemoteUnavailable is returned when no proxy endpoint is configured.
// Only explicit administrative calls surface it; the best-effort mirroring
// path swallows it.
var ErrRemoteUnavailable = errors.New("no proxy url configured")

// RemoteError reports a reachable endpoint that returned a failure, or a
// transport failure on the way there. Message carries the remote-reported
// text when the endpoint answered.
type RemoteError struct {
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("cloud sql error: %s", e.Message)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
