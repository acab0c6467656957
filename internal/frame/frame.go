package frame

import (
	"bytes"
	"fmt"
	"strings"
)

const (

	// Separates the key from the payload and the payload from the sentinel.
	Delimiter byte = ';'

	// Marks the end of a frame.
	Sentinel = "*EDEND*"
)

// Checks that a session key can be framed unambiguously.
//
// The key must be non-empty and must not contain the delimiter or the
// sentinel.
func ValidateKey(key string) error {
	switch {
	case key == "":
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	case strings.IndexByte(key, Delimiter) >= 0:
		return fmt.Errorf("%w: contains delimiter", ErrInvalidKey)
	case strings.Contains(key, Sentinel):
		return fmt.Errorf("%w: contains sentinel", ErrInvalidKey)
	}
	return nil
}

// Wraps a payload in a frame.
//
// The key is not validated; callers are expected to have checked it with
// [ValidateKey].
func Encode(key string, payload []byte) []byte {
	buf := make([]byte, 0, len(key)+len(payload)+len(Sentinel)+2)
	buf = append(buf, key...)
	buf = append(buf, Delimiter)
	buf = append(buf, payload...)
	buf = append(buf, Delimiter)
	buf = append(buf, Sentinel...)
	return buf
}

// Whether buf starts with the key and delimiter.
func HasPrefix(buf []byte, key string) bool {
	n := len(key)
	return len(buf) > n && string(buf[:n]) == key && buf[n] == Delimiter
}

// Whether buf can no longer become a frame for key.
//
// This is true once enough bytes have arrived to compare the prefix and it
// does not match. Receivers use it to stop reading from an unauthenticated
// peer early.
func Rejects(buf []byte, key string) bool {
	return len(buf) > len(key) && !HasPrefix(buf, key)
}

// Whether buf ends with the sentinel.
func Complete(buf []byte) bool {
	return bytes.HasSuffix(buf, []byte(Sentinel))
}

// Unwraps a frame and returns its payload.
//
// Fails with [ErrAuthFailure] if buf does not begin with the expected key and
// delimiter, and with [ErrUnterminated] if it does not end with the sentinel.
// The authentication check always runs first. Exactly one delimiter
// immediately before the sentinel is dropped, not every trailing one, so a
// payload that itself ends in a delimiter comes back intact from [Encode].
// The returned slice aliases buf.
func Decode(buf []byte, key string) ([]byte, error) {
	if !HasPrefix(buf, key) {
		return nil, ErrAuthFailure
	}

	rest := buf[len(key)+1:]
	if !Complete(rest) {
		return nil, ErrUnterminated
	}

	payload := rest[:len(rest)-len(Sentinel)]
	if n := len(payload); n > 0 && payload[n-1] == Delimiter {
		payload = payload[:n-1]
	}
	return payload, nil
}
