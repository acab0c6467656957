package ipc

import "github.com/cruciblehq/edicc/internal/message"

// Delivers parsed commands to the host application.
//
// Post is called from the server worker goroutine. Implementations must not
// block and must be safe to call concurrently with the host's own work; the
// command is expected to be handled later on the host's UI loop. A returned
// error is logged and the command is dropped.
type Bridge interface {
	Post(cmd message.Command) error
}

// Adapts a function to the [Bridge] interface.
type BridgeFunc func(cmd message.Command) error

// Calls f(cmd).
func (f BridgeFunc) Post(cmd message.Command) error {
	return f(cmd)
}
