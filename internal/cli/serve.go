package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/cruciblehq/edicc/internal/host"
	"github.com/cruciblehq/edicc/internal/ipc"
	"github.com/cruciblehq/edicc/internal/session"
	"github.com/cruciblehq/edicc/internal/settings"
)

var (
	ErrAlreadyRunning = errors.New("an instance is already running")
	ErrServerStopped  = errors.New("server stopped unexpectedly")
)

// Represents the 'edicc serve' command.
type ServeCmd struct {
	Port int `short:"p" help:"First port to try. Overrides the settings file."`
}

// Executes the serve command.
//
// Refuses to start if the port file names another process that is still
// alive. A port file left by a process that is gone is replaced. Otherwise
// starts the server, publishes the bound port, and handles incoming commands
// until the context is cancelled (e.g. via SIGINT or SIGTERM). Requested
// files are printed to stdout one per line.
func (c *ServeCmd) Run(ctx context.Context) error {
	cfg, err := settings.Load(settingsPath())
	if err != nil {
		return err
	}
	if c.Port != 0 {
		cfg.Port = c.Port
	}

	key, err := session.LoadOrCreateKey(keyPath())
	if err != nil {
		return err
	}

	if inst, err := session.ReadInstance(portPath()); err == nil {
		if inst.PID != os.Getpid() && inst.Alive() {
			return fmt.Errorf("%w on port %d (pid %d)", ErrAlreadyRunning, inst.Port, inst.PID)
		}
		slog.Debug("ignoring stale port file", "port", inst.Port, "pid", inst.PID)
	}

	loop := host.NewLoop(cfg.QueueSize, host.PrintHandler(os.Stdout))

	srv, err := ipc.New(ipc.Config{
		Key:             key,
		Bridge:          loop,
		Port:            cfg.Port,
		ReadTimeout:     cfg.ReadTimeout,
		MaxBindAttempts: cfg.MaxBindAttempts,
		MaxFrameSize:    cfg.MaxFrameSize,
		Logger:          slog.Default(),
	})
	if err != nil {
		return err
	}

	if err := srv.Start(); err != nil {
		srv.Shutdown()
		return err
	}

	if err := session.PublishPort(portPath(), srv.Port()); err != nil {
		slog.Warn("failed to publish port", "error", err)
	}
	defer unpublish(srv.Port())

	slog.Info("edicc is running", "port", srv.Port())

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return loop.Run(gctx)
	})

	g.Go(func() error {
		select {
		case <-gctx.Done():
			slog.Info("shutting down")
			srv.Shutdown()
			return nil
		case <-srv.Done():
			return ErrServerStopped
		}
	})

	return g.Wait()
}

// Removes the port file if it still names this instance.
func unpublish(port int) {
	inst, err := session.ReadInstance(portPath())
	if err != nil || inst.Port != port || inst.PID != os.Getpid() {
		return
	}
	if err := session.RemovePort(portPath()); err != nil {
		slog.Warn("failed to remove port file", "error", err)
	}
}
