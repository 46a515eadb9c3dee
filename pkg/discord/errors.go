package discord

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSocket indicates no Discord IPC socket could be opened, usually because Discord is not running.
	ErrNoSocket = errors.New("no discord ipc socket found")

	// ErrHandshakeRejected indicates Discord refused the handshake, e.g. for an unknown client ID.
	ErrHandshakeRejected = errors.New("discord rejected the handshake")

	// ErrClosed indicates the client has been closed, by us or by Discord.
	ErrClosed = errors.New("discord ipc connection closed")

	// ErrFrameTooLarge indicates an incoming frame exceeds MaxFrameSize.
	ErrFrameTooLarge = errors.New("discord ipc frame too large")

	// ErrMissingClientID indicates Dial was called without a client ID.
	ErrMissingClientID = errors.New("discord client id is required")
)

// RPCError is the code/message pair Discord sends in ERROR events and close frames.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("discord rpc error %d: %s", e.Code, e.Message)
}
