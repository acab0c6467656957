package host

import "errors"

var (
	ErrQueueFull  = errors.New("event queue full")
	ErrLoopClosed = errors.New("event loop closed")
)
