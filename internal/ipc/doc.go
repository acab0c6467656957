// Package ipc implements the instance coordination channel.
//
// A running editor instance owns a [Server] bound to the IPv4 loopback
// address. A newly launched process calls [Send] with the files and flags it
// was given; if delivery succeeds the launcher exits and the running instance
// acts on the request instead. Each connection carries exactly one frame (see
// the frame package) and no reply.
//
// The server accepts connections one at a time on a single worker goroutine.
// Each connection gets a bounded read: the worker stops reading when the
// sentinel arrives or when the read timeout elapses, whichever comes first.
// Authenticated, well-formed commands are handed to the host through a
// [Bridge], which is responsible for moving them onto the host's UI loop.
//
// Example usage:
//
//	srv, err := ipc.New(ipc.Config{
//	    Key:    key,
//	    Bridge: loop,
//	    Port:   ipc.DefaultPort,
//	})
//	if err != nil {
//	    return err
//	}
//
//	if err := srv.Start(); err != nil {
//	    return err
//	}
//	defer srv.Shutdown()
//
//	// Launchers find the server on srv.Port().
package ipc
