package frame

import "errors"

var (
	ErrAuthFailure  = errors.New("authentication failed")
	ErrUnterminated = errors.New("frame unterminated")
	ErrInvalidKey   = errors.New("invalid session key")
)
