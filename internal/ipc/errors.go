package ipc

import "errors"

var (
	ErrInvalidConfig  = errors.New("invalid server configuration")
	ErrBind           = errors.New("bind failed")
	ErrBindExhausted  = errors.New("no free port")
	ErrServerClosed   = errors.New("server closed")
	ErrAlreadyStarted = errors.New("server already started")
	ErrSend           = errors.New("send failed")
	ErrDeadline       = errors.New("read deadline exceeded")
	ErrFrameTooLarge  = errors.New("frame too large")
)
