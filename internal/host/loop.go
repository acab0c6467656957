package host

import (
	"context"
	"log/slog"
	"sync"

	"github.com/cruciblehq/edicc/internal/message"
)

// Default number of commands that may wait for the loop.
const DefaultQueueSize = 64

// Handles one command on the loop goroutine.
type Handler func(ctx context.Context, cmd message.Command)

// Serialises commands onto a single goroutine.
type Loop struct {
	queue   chan message.Command // Pending commands in post order.
	handler Handler              // Called for each command.
	closed  chan struct{}        // Closed when the loop stops.
	once    sync.Once            // Guards closing.
}

// Creates a loop with room for size pending commands.
//
// A size of zero or less uses [DefaultQueueSize].
func NewLoop(size int, handler Handler) *Loop {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Loop{
		queue:   make(chan message.Command, size),
		handler: handler,
		closed:  make(chan struct{}),
	}
}

// Queues a command for the loop goroutine.
//
// Never blocks. Returns [ErrQueueFull] when the queue is at capacity and
// [ErrLoopClosed] once the loop has stopped.
func (l *Loop) Post(cmd message.Command) error {
	select {
	case <-l.closed:
		return ErrLoopClosed
	default:
	}

	select {
	case l.queue <- cmd:
		return nil
	default:
		return ErrQueueFull
	}
}

// Handles queued commands until ctx is cancelled.
//
// Commands still queued when the loop stops are discarded.
func (l *Loop) Run(ctx context.Context) error {
	defer l.close()

	for {
		select {
		case <-ctx.Done():
			if n := len(l.queue); n > 0 {
				slog.Debug("discarding queued commands", "count", n)
			}
			return nil
		case cmd := <-l.queue:
			l.handler(ctx, cmd)
		}
	}
}

// Returns a channel that is closed once the loop stops.
func (l *Loop) Done() <-chan struct{} {
	return l.closed
}

func (l *Loop) close() {
	l.once.Do(func() { close(l.closed) })
}
