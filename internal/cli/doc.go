// Parses flags and configures logging for edicc.
//
// The following global flags are accepted:
//
//	-q, --quiet        Suppress informational output.
//	-v, --verbose      Enable verbose output.
//	-d, --debug        Enable debug output.
//	    --log-format   Log output format (text or json).
//	-c, --config       Settings file path.
//	    --key-file     Session key file path.
//	    --port-file    Port file path.
//
// Subcommands are serve, open, key and version. Flags override build-time
// defaults set via linker flags. After parsing, the global logger is rebuilt
// to reflect the final level and format before the subcommand runs.
package cli
