package main

import (
	"log/slog"
	"os"

	"github.com/cruciblehq/edicc/internal"
	"github.com/cruciblehq/edicc/internal/cli"
)

// The entry point for edicc.
//
// Installs a logger seeded from build-time linker flags and executes the
// root command. The logger is rebuilt once flags are parsed. Any error exits
// with a non-zero code.
func main() {
	slog.SetDefault(internal.NewLogger(os.Stderr, internal.LogFormatText))

	slog.Debug("build", "version", internal.VersionString())

	slog.Debug("edicc starting",
		"pid", os.Getpid(),
		"cwd", cwd(),
		"args", os.Args,
	)

	if err := cli.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

// Returns the current working directory or "(unknown)".
func cwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "(unknown)"
	}
	return cwd
}
