package ipc

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/cruciblehq/edicc/internal/frame"
	"github.com/cruciblehq/edicc/internal/message"
)

const (

	// Port tried first when the caller does not supply one.
	DefaultPort = 9050

	// Upper bound on the time a single connection may occupy the worker,
	// measured from accept.
	DefaultReadTimeout = 2 * time.Second

	// Number of consecutive ports tried before giving up.
	DefaultMaxBindAttempts = 100

	// Largest frame the server will buffer.
	DefaultMaxFrameSize = 1 << 20

	// Size of each read from an accepted connection.
	readChunkSize = 4096

	// Number of payload bytes included in malformed-payload warnings.
	excerptSize = 64

	maxPort = 65535
)

// Loopback address the server binds to. Wildcard addresses are never used.
var loopback = net.IPv4(127, 0, 0, 1)

// Holds server configuration.
type Config struct {
	Key             string                                // Session key. Must pass [frame.ValidateKey].
	Bridge          Bridge                                // Receives parsed commands. Required.
	Port            int                                   // First port to try. Zero uses [DefaultPort].
	ReadTimeout     time.Duration                         // Per-connection deadline. Zero uses [DefaultReadTimeout].
	MaxBindAttempts int                                   // Ports tried before failing. Zero uses [DefaultMaxBindAttempts].
	MaxFrameSize    int                                   // Largest accepted frame. Zero uses [DefaultMaxFrameSize].
	Logger          *slog.Logger                          // Nil uses [slog.Default].
	Parse           func([]byte) (message.Command, error) // Payload parser. Nil uses [message.Parse].
}

// Accepts framed commands on a loopback socket and posts them to a [Bridge].
//
// A server is single use. Once shut down it cannot be started again; create
// a new one instead.
type Server struct {
	key          string                                // Session key, immutable after construction.
	bridge       Bridge                                // Host delivery capability.
	parse        func([]byte) (message.Command, error) // Payload parser.
	readTimeout  time.Duration                         // Per-connection deadline.
	maxFrameSize int                                   // Largest accepted frame.
	log          *slog.Logger                          // Server logger.
	listener     *net.TCPListener                      // Accept socket, owned by the worker.
	port         int                                   // Port actually bound.
	state        atomic.Int32                          // Current [State].
	closing      chan struct{}                         // Closed when shutdown is requested.
	done         chan struct{}                         // Closed when the server reaches [StateStopped].
	release      sync.Once                             // Guards closing the listener.
	mu           sync.Mutex                            // Protects started and closed.
	started      bool                                  // Whether the worker was launched.
	closed       bool                                  // Whether shutdown was requested.
}

// Creates a server and binds its socket.
//
// Binding starts at the configured port and moves to the next port each time
// the address is in use. Any other bind error is returned wrapped in
// [ErrBind]. The worker is not started until [Server.Start] is called, but
// the port is reserved as soon as New returns.
func New(cfg Config) (*Server, error) {
	if err := frame.ValidateKey(cfg.Key); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if cfg.Bridge == nil {
		return nil, fmt.Errorf("%w: bridge is required", ErrInvalidConfig)
	}

	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}
	if port < 0 || port > maxPort {
		return nil, fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, port)
	}

	s := &Server{
		key:          cfg.Key,
		bridge:       cfg.Bridge,
		parse:        cfg.Parse,
		readTimeout:  cfg.ReadTimeout,
		maxFrameSize: cfg.MaxFrameSize,
		log:          cfg.Logger,
		closing:      make(chan struct{}),
		done:         make(chan struct{}),
	}
	if s.parse == nil {
		s.parse = message.Parse
	}
	if s.readTimeout <= 0 {
		s.readTimeout = DefaultReadTimeout
	}
	if s.maxFrameSize <= 0 {
		s.maxFrameSize = DefaultMaxFrameSize
	}
	if s.log == nil {
		s.log = slog.Default()
	}

	attempts := cfg.MaxBindAttempts
	if attempts <= 0 {
		attempts = DefaultMaxBindAttempts
	}

	s.setState(StateBinding)

	listener, err := bind(port, attempts)
	if err != nil {
		return nil, err
	}

	s.listener = listener
	s.port = listener.Addr().(*net.TCPAddr).Port
	s.setState(StateListening)

	if s.port != port {
		s.log.Debug("requested port in use", "requested", port, "bound", s.port)
	}

	return s, nil
}

// Binds the first free loopback port in [port, port+attempts).
func bind(port, attempts int) (*net.TCPListener, error) {
	last := min(port+attempts-1, maxPort)

	for p := port; p <= last; p++ {
		listener, err := net.ListenTCP("tcp4", &net.TCPAddr{IP: loopback, Port: p})
		if err == nil {
			return listener, nil
		}
		if !errors.Is(err, syscall.EADDRINUSE) {
			return nil, fmt.Errorf("%w: %w", ErrBind, err)
		}
	}

	return nil, fmt.Errorf("%w: ports %d-%d are in use", ErrBindExhausted, port, last)
}

// Returns the loopback address for the given port.
func Address(port int) string {
	return net.JoinHostPort(loopback.String(), strconv.Itoa(port))
}

// Returns the port the server is bound to.
//
// This may differ from the requested port. It remains valid after shutdown.
func (s *Server) Port() int {
	return s.port
}

// Returns the bound address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Returns the current lifecycle state.
func (s *Server) State() State {
	return State(s.state.Load())
}

// Launches the worker goroutine.
//
// Returns [ErrServerClosed] if the server was shut down and
// [ErrAlreadyStarted] if it is already running.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrServerClosed
	}
	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true

	s.log.Info("server listening", "address", s.Addr().String())

	go s.accept()
	return nil
}

// Stops the server and releases its socket.
//
// Closing the listener unblocks the pending accept; the worker notices the
// shutdown request and exits. If a connection is being handled, Shutdown
// waits for it to finish, which takes at most the read timeout. Repeated
// calls are safe and return once the server has stopped.
func (s *Server) Shutdown() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		<-s.done
		return
	}
	s.closed = true
	started := s.started
	close(s.closing)
	s.mu.Unlock()

	s.setState(StateDraining)
	s.closeListener()

	if !started {
		s.stop()
		return
	}

	<-s.done
}

// Blocks until the server stops.
func (s *Server) Wait() {
	<-s.done
}

// Returns a channel that is closed once the server stops.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// Closes the listener exactly once.
func (s *Server) closeListener() {
	s.release.Do(func() {
		if err := s.listener.Close(); err != nil {
			s.log.Debug("close listener", "error", err)
		}
	})
}

// Moves the server to the terminal state.
func (s *Server) stop() {
	s.setState(StateDraining)
	s.closeListener()
	s.setState(StateStopped)
	close(s.done)
	s.log.Info("server stopped", "port", s.port)
}

// Records a state transition.
//
// Once draining has begun the worker can no longer move the server back to
// accepting or handling.
func (s *Server) setState(st State) {
	for {
		cur := s.state.Load()
		if State(cur) >= StateDraining && st < StateDraining {
			return
		}
		if s.state.CompareAndSwap(cur, int32(st)) {
			return
		}
	}
}

// Whether shutdown was requested.
func (s *Server) shuttingDown() bool {
	select {
	case <-s.closing:
		return true
	default:
		return false
	}
}

// Accepts connections one at a time until the server shuts down.
//
// An accept error that was not caused by shutdown is fatal: the worker
// releases the socket and the server stops.
func (s *Server) accept() {
	defer s.stop()

	for {
		s.setState(StateAccepting)

		conn, err := s.listener.AcceptTCP()
		if err != nil {
			if s.shuttingDown() {
				return
			}
			s.log.Error("accept failed", "error", err)
			s.mu.Lock()
			s.closed = true
			s.mu.Unlock()
			return
		}

		s.setState(StateHandling)
		s.handle(conn)
	}
}

// Processes a single connection.
//
// Reads one frame, authenticates it, parses the payload, and posts the
// resulting command. Every failure is local to the connection. Traffic that
// does not carry the session key is dropped without logging above debug.
func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	remote := conn.RemoteAddr().String()

	buf, readErr := s.read(conn)

	payload, err := frame.Decode(buf, s.key)
	if errors.Is(err, frame.ErrAuthFailure) {
		s.log.Debug("dropped unauthenticated connection", "remote", remote, "bytes", len(buf))
		return
	}
	if err != nil {
		s.log.Warn("dropped incomplete frame", "remote", remote, "bytes", len(buf), "error", readErr)
		return
	}

	cmd, err := s.parse(payload)
	if err != nil {
		s.log.Warn("dropped malformed payload", "remote", remote, "error", err, "excerpt", excerpt(payload))
		return
	}

	if err := s.bridge.Post(cmd); err != nil {
		s.log.Error("bridge post failed", "error", err, "files", len(cmd.Files), "args", len(cmd.Args))
		return
	}

	s.log.Debug("command dispatched", "files", len(cmd.Files), "args", len(cmd.Args))
}

// Reads until the buffer ends with the sentinel or the deadline passes.
//
// The deadline is measured from the start of the read, which immediately
// follows accept. Reading also stops early once the buffered bytes can no
// longer authenticate, when the frame grows past the size limit, or when the
// peer closes. The returned error explains why no complete frame arrived and
// is nil when one did.
func (s *Server) read(conn net.Conn) ([]byte, error) {
	if err := conn.SetReadDeadline(time.Now().Add(s.readTimeout)); err != nil {
		return nil, err
	}

	var buf []byte
	chunk := make([]byte, readChunkSize)

	for {
		n, err := conn.Read(chunk)
		buf = append(buf, chunk[:n]...)

		if frame.Rejects(buf, s.key) {
			return buf, frame.ErrAuthFailure
		}
		if frame.Complete(buf) {
			return buf, nil
		}
		if len(buf) > s.maxFrameSize {
			return buf, ErrFrameTooLarge
		}
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				return buf, ErrDeadline
			}
			return buf, err
		}
	}
}

// Returns a bounded, quoted prefix of a payload suitable for logging.
func excerpt(payload []byte) string {
	if len(payload) <= excerptSize {
		return strconv.Quote(string(payload))
	}
	return strconv.Quote(string(payload[:excerptSize])) + "..."
}
