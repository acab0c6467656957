package host

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cruciblehq/edicc/internal/message"
)

func command(paths ...string) message.Command {
	var c message.Command
	for _, p := range paths {
		c.Files = append(c.Files, message.File{Value: p})
	}
	return c
}

func TestLoopDeliversInOrder(t *testing.T) {
	var mu sync.Mutex
	var got []string
	handled := make(chan struct{}, 3)

	loop := NewLoop(8, func(ctx context.Context, cmd message.Command) {
		mu.Lock()
		got = append(got, cmd.Paths()...)
		mu.Unlock()
		handled <- struct{}{}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- loop.Run(ctx) }()

	require.NoError(t, loop.Post(command("/1")))
	require.NoError(t, loop.Post(command("/2")))
	require.NoError(t, loop.Post(command("/3")))

	for range 3 {
		select {
		case <-handled:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for handler")
		}
	}

	mu.Lock()
	assert.Equal(t, []string{"/1", "/2", "/3"}, got)
	mu.Unlock()

	cancel()
	require.NoError(t, <-errc)
}

func TestLoopPostNeverBlocks(t *testing.T) {
	loop := NewLoop(1, func(context.Context, message.Command) {})

	require.NoError(t, loop.Post(command("/a")))
	assert.ErrorIs(t, loop.Post(command("/b")), ErrQueueFull)
}

func TestLoopPostAfterStop(t *testing.T) {
	loop := NewLoop(1, func(context.Context, message.Command) {})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, loop.Run(ctx))

	select {
	case <-loop.Done():
	default:
		t.Fatal("Done not closed after Run returned")
	}
	assert.ErrorIs(t, loop.Post(command("/a")), ErrLoopClosed)
}

func TestNewLoopDefaultSize(t *testing.T) {
	loop := NewLoop(0, nil)
	assert.Equal(t, DefaultQueueSize, cap(loop.queue))
}

func TestPrintHandler(t *testing.T) {
	var out bytes.Buffer
	h := PrintHandler(&out)

	h(context.Background(), message.Command{
		Files: []message.File{{Value: "/x/one.py"}, {Value: "/x/two.py"}},
		Args:  []message.Arg{{Name: "g", Value: "42"}},
	})
	h(context.Background(), message.Command{})
	h(context.Background(), message.Command{Args: []message.Arg{{Name: "g", Value: "1"}}})

	assert.Equal(t, "/x/one.py\n/x/two.py\n", out.String())
}
