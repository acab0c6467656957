// Package frame wraps a single message payload for transport over a stream
// that carries no length prefix.
//
// A frame is the session key, a semicolon, the payload, a semicolon, and the
// fixed sentinel *EDEND*:
//
//	sess-ABCDEF;<edipc>...</edipc>;*EDEND*
//
// The key authenticates the sender and the sentinel marks end of message.
// Receivers check the key before looking at the payload, so nothing from an
// unauthenticated peer reaches the XML parser.
package frame
