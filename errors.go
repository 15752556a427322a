package roam

import (
	"errors"
	"fmt"
)

// ErrNoChannels is returned by SendMessage when no recipient can be
// resolved: the call supplied no channels and none were configured as
// defaults. It is detected before any network I/O.
var ErrNoChannels = errors.New("roam: no channel configured at construction or passed with the message")

// ProtocolError reports a response whose shape does not match the API
// contract, e.g. a channel listing that is not a JSON array.
type ProtocolError struct {
	Endpoint string
	Message  string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("roam: %s: %s", e.Endpoint, e.Message)
}
