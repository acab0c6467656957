// Package host provides the receiving side of the coordination channel as
// seen by the application: a single-consumer event loop.
//
// A [Loop] implements the ipc Bridge. The server worker posts commands into a
// bounded queue without blocking, and the goroutine that calls [Loop.Run]
// handles them one at a time in the order they were posted. That goroutine
// plays the role of the UI thread; handlers never run on the server worker.
package host
