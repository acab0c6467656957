package host

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/cruciblehq/edicc/internal/message"
)

// Returns a handler that reports each command.
//
// Every file path is written to w on its own line so that the running
// instance can be driven by a script. Files and arguments are also logged at
// info level.
func PrintHandler(w io.Writer) Handler {
	return func(ctx context.Context, cmd message.Command) {
		args := make([]any, 0, 2*len(cmd.Args))
		for _, a := range cmd.Args {
			args = append(args, "arg."+a.Name, a.Value)
		}

		if cmd.Empty() {
			slog.Info("activation requested")
			return
		}

		for _, f := range cmd.Files {
			slog.Info("open requested", append([]any{"file", f.Value}, args...)...)
			fmt.Fprintln(w, f.Value)
		}

		if len(cmd.Files) == 0 {
			slog.Info("arguments received", args...)
		}
	}
}
