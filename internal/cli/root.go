package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/cruciblehq/edicc/internal"
	"github.com/cruciblehq/edicc/internal/paths"
)

// Represents the root command for edicc.
var RootCmd struct {
	Quiet     bool       `short:"q" help:"Suppress informational output."`
	Verbose   bool       `short:"v" help:"Enable verbose output."`
	Debug     bool       `short:"d" help:"Enable debug output."`
	LogFormat string     `help:"Log output format." enum:"text,json" default:"text"`
	Config    string     `short:"c" help:"Override the default settings file." placeholder:"PATH"`
	KeyFile   string     `help:"Override the default session key file." placeholder:"PATH"`
	PortFile  string     `help:"Override the default port file." placeholder:"PATH"`
	Serve     ServeCmd   `cmd:"" help:"Run the instance that other launches hand off to."`
	Open      OpenCmd    `cmd:"" help:"Hand files to the running instance."`
	Key       KeyCmd     `cmd:"" help:"Show or rotate the session key file."`
	Version   VersionCmd `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("Single-instance coordination for the editor.\n\nA running instance listens on a loopback port; later launches hand it their files and exit."),
		kong.UsageOnError(),
		kong.Vars{
			"version": internal.VersionString(),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()

	return kongCtx.Run()
}

// Rebuilds the default logger from CLI flags.
func configureLogger() {
	if RootCmd.Debug {
		internal.SetDebug(true)
	}
	if RootCmd.Quiet {
		internal.SetQuiet(true)
	}
	if RootCmd.Verbose {
		internal.SetVerbose(true)
	}

	slog.SetDefault(internal.NewLogger(os.Stderr, RootCmd.LogFormat))
}

// Returns the settings file path in effect.
func settingsPath() string {
	if RootCmd.Config != "" {
		return RootCmd.Config
	}
	return paths.SettingsFile()
}

// Returns the session key file path in effect.
func keyPath() string {
	if RootCmd.KeyFile != "" {
		return RootCmd.KeyFile
	}
	return paths.KeyFile()
}

// Returns the port file path in effect.
func portPath() string {
	if RootCmd.PortFile != "" {
		return RootCmd.PortFile
	}
	return paths.PortFile()
}
