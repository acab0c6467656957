// Package session manages the host-side state that lets launchers find and
// authenticate to a running instance.
//
// Two small files are involved. The key file holds the session key, created
// once with owner-only permissions and shared by every process the user
// starts. The port file holds the port the running instance actually bound.
// It is written when the server starts and removed when it stops. Launchers
// read both, and may wait for the port file to appear when no instance is
// running yet.
//
// The port file also records the PID of the publishing process, so a file
// left behind by an instance that died can be told apart from a live one.
package session
