package ipc

// Lifecycle state of a [Server].
//
// States only move forward, except that the worker alternates between
// [StateAccepting] and [StateHandling] while it runs.
type State int32

const (
	StateBinding   State = iota // Searching for a free port.
	StateListening              // Bound, worker not yet started.
	StateAccepting              // Waiting for the next connection.
	StateHandling               // Reading and dispatching one connection.
	StateDraining               // Shutting down, releasing the socket.
	StateStopped                // Terminal.
)

func (s State) String() string {
	switch s {
	case StateBinding:
		return "binding"
	case StateListening:
		return "listening"
	case StateAccepting:
		return "accepting"
	case StateHandling:
		return "handling"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
