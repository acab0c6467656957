package message

import "errors"

var (
	ErrMalformedPayload = errors.New("malformed payload")
	ErrInvalidCommand   = errors.New("invalid command")
)
