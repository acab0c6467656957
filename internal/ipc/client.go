package ipc

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/cruciblehq/edicc/internal/frame"
	"github.com/cruciblehq/edicc/internal/message"
)

const (

	// Time allowed to establish the loopback connection.
	dialTimeout = 2 * time.Second

	// Time allowed to write a frame when the context has no deadline.
	writeTimeout = 2 * time.Second
)

// Delivers a command to the server listening on the given loopback port.
//
// Returns true if the frame was written and the connection closed cleanly.
// The protocol is one way, so true does not mean the server accepted the
// command: a server with a different key drops it silently. Errors are
// logged at debug level and never returned.
func Send(cmd message.Command, key string, port int) bool {
	if err := SendCommand(context.Background(), cmd, key, port); err != nil {
		slog.Debug("send failed", "port", port, "error", err)
		return false
	}
	return true
}

// Delivers a command and reports why delivery failed.
//
// The command is serialised, framed with the key, and written to a fresh
// connection to 127.0.0.1:port. The write side is shut down before the
// connection is closed. No reply is read. All errors wrap [ErrSend].
func SendCommand(ctx context.Context, cmd message.Command, key string, port int) error {
	if err := frame.ValidateKey(key); err != nil {
		return fmt.Errorf("%w: %w", ErrSend, err)
	}

	payload, err := message.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSend, err)
	}
	data := frame.Encode(key, payload)

	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp4", Address(port))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSend, err)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(writeTimeout)
	}
	if err := conn.SetWriteDeadline(deadline); err != nil {
		conn.Close()
		return fmt.Errorf("%w: %w", ErrSend, err)
	}

	if _, err := conn.Write(data); err != nil {
		conn.Close()
		return fmt.Errorf("%w: %w", ErrSend, err)
	}

	if tcp, ok := conn.(*net.TCPConn); ok {
		if err := tcp.CloseWrite(); err != nil {
			conn.Close()
			return fmt.Errorf("%w: %w", ErrSend, err)
		}
	}

	if err := conn.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrSend, err)
	}

	return nil
}
