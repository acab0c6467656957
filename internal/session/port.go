package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	portFileMode os.FileMode = 0644
	portDirMode  os.FileMode = 0755
)

// A running instance as recorded in the port file.
type Instance struct {
	Port int // Port the instance's server is bound to.
	PID  int // Process that published the file. Zero if not recorded.
}

// Whether the publishing process still exists.
//
// A file without a PID is never considered alive.
func (i Instance) Alive() bool {
	if i.PID <= 0 {
		return false
	}

	p, err := os.FindProcess(i.PID)
	if err != nil {
		return false
	}
	defer p.Release()

	err = p.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

// Records the port a running instance is bound to, along with the PID of
// the calling process.
func PublishPort(path string, port int) error {
	data := []byte(strconv.Itoa(port) + " " + strconv.Itoa(os.Getpid()) + "\n")
	if err := writeFileAtomic(path, data, portDirMode, portFileMode); err != nil {
		return fmt.Errorf("%w: %w", ErrPortFile, err)
	}
	return nil
}

// Returns the instance recorded at path.
//
// The file holds the port optionally followed by the publisher's PID. Fails
// with [ErrNoInstance] if no port file exists.
func ReadInstance(path string) (Instance, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Instance{}, ErrNoInstance
	}
	if err != nil {
		return Instance{}, fmt.Errorf("%w: %w", ErrPortFile, err)
	}

	content := strings.TrimSpace(string(data))
	fields := strings.Fields(content)
	if len(fields) == 0 || len(fields) > 2 {
		return Instance{}, fmt.Errorf("%w: %s: invalid content %q", ErrPortFile, path, content)
	}

	var inst Instance

	inst.Port, err = strconv.Atoi(fields[0])
	if err != nil || inst.Port <= 0 || inst.Port > 65535 {
		return Instance{}, fmt.Errorf("%w: %s: invalid port %q", ErrPortFile, path, fields[0])
	}

	if len(fields) == 2 {
		inst.PID, err = strconv.Atoi(fields[1])
		if err != nil || inst.PID <= 0 {
			return Instance{}, fmt.Errorf("%w: %s: invalid pid %q", ErrPortFile, path, fields[1])
		}
	}

	return inst, nil
}

// Returns the port recorded at path.
//
// Fails with [ErrNoInstance] if no port file exists.
func ReadPort(path string) (int, error) {
	inst, err := ReadInstance(path)
	if err != nil {
		return 0, err
	}
	return inst.Port, nil
}

// Returns the port recorded at path if the file was written at or after
// since. An older file is reported as [ErrNoInstance].
func readPortSince(path string, since time.Time) (int, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, ErrNoInstance
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrPortFile, err)
	}
	if info.ModTime().Before(since) {
		return 0, ErrNoInstance
	}
	return ReadPort(path)
}

// Removes the port file. A missing file is not an error.
func RemovePort(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrPortFile, err)
	}
	return nil
}

// Blocks until a port file is published at path or ctx is done.
//
// Only files written at or after since count, so a stale file left behind by
// an instance that is gone does not end the wait. A zero since accepts any
// file. The parent directory is watched for the file being created or
// rewritten. If a fresh file already exists its port is returned at once.
func WaitForPort(ctx context.Context, path string, since time.Time) (int, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, portDirMode); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrWatch, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrWatch, err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrWatch, err)
	}

	// Checked after the watch is in place so a publish in between is not missed.
	if port, err := readPortSince(path, since); err == nil {
		return port, nil
	}

	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return 0, ErrWatch
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if port, err := readPortSince(path, since); err == nil {
				return port, nil
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return 0, ErrWatch
			}
			return 0, fmt.Errorf("%w: %w", ErrWatch, err)
		}
	}
}
