package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cruciblehq/edicc/internal/ipc"
	"github.com/cruciblehq/edicc/internal/message"
	"github.com/cruciblehq/edicc/internal/session"
)

// Name of the argument carrying the line to jump to.
const gotoArg = "g"

// Represents the 'edicc open' command.
type OpenCmd struct {
	Files []string      `arg:"" optional:"" help:"Files to open. Relative paths are resolved against the working directory."`
	Goto  int           `short:"g" help:"Line to jump to in the first file."`
	Arg   []string      `help:"Extra argument to pass, as NAME=VALUE. May be repeated." placeholder:"NAME=VALUE" sep:"none"`
	Wait  time.Duration `short:"w" help:"How long to wait for an instance to start if none is running."`
}

// Executes the open command.
//
// Hands the files and arguments to the running instance. If none answers
// and --wait is set, waits for an instance to publish its port and tries
// once more. A port file left over from before the first attempt does not
// end the wait. Fails with [session.ErrNoInstance] when delivery is not
// possible, so scripts can fall back to starting a new instance.
func (c *OpenCmd) Run(ctx context.Context) error {
	cmd, err := c.command()
	if err != nil {
		return err
	}

	since := time.Now()

	err = deliver(ctx, cmd)
	if err == nil || c.Wait <= 0 {
		return err
	}

	slog.Info("waiting for an instance", "timeout", c.Wait)

	wctx, cancel := context.WithTimeout(ctx, c.Wait)
	defer cancel()

	if _, err := session.WaitForPort(wctx, portPath(), since); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return session.ErrNoInstance
		}
		return err
	}

	return deliver(ctx, cmd)
}

// Builds the command from the positional files and flags.
func (c *OpenCmd) command() (message.Command, error) {
	var cmd message.Command

	for _, f := range c.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return cmd, err
		}
		cmd.Files = append(cmd.Files, message.File{Value: abs})
	}

	if c.Goto > 0 {
		cmd.Args = append(cmd.Args, message.Arg{Name: gotoArg, Value: strconv.Itoa(c.Goto)})
	}

	for _, a := range c.Arg {
		name, value, _ := strings.Cut(a, "=")
		if name == "" {
			return cmd, fmt.Errorf("invalid argument %q: expected NAME=VALUE", a)
		}
		cmd.Args = append(cmd.Args, message.Arg{Name: name, Value: value})
	}

	if err := cmd.Validate(); err != nil {
		return cmd, err
	}
	return cmd, nil
}

// Sends cmd to the instance named by the key and port files.
func deliver(ctx context.Context, cmd message.Command) error {
	key, err := session.LoadKey(keyPath())
	if err != nil {
		slog.Debug("no session key", "error", err)
		return session.ErrNoInstance
	}

	port, err := session.ReadPort(portPath())
	if err != nil {
		return err
	}

	if err := ipc.SendCommand(ctx, cmd, key, port); err != nil {
		slog.Debug("delivery failed", "port", port, "error", err)
		return fmt.Errorf("%w: %w", session.ErrNoInstance, err)
	}

	slog.Info("handed off to running instance", "port", port, "files", len(cmd.Files))
	return nil
}
