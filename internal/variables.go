package internal

import (
	"fmt"
	"runtime"
	"strings"
)

const (

	// Program name, used for the CLI and as the logger group.
	Name = "edicc"

	// String reported for unset build variables.
	defaultUndefined = "(undefined)"

	// Version string reported by local (non-pipeline) builds.
	defaultLocalBuild = "(local)"
)

var (
	version   = "" // Version number (e.g., "1.2.3"), set via ldflags.
	gitCommit = "" // Git commit hash (e.g., "a1b2c3d4"), set via ldflags.

	rawQuiet   = "false" // Whether to start in quiet mode.
	rawDebug   = "false" // Whether to start with debug logging.
	rawVerbose = "false" // Whether to start with verbose logging.
)

// Returns the version without any leading "v".
//
// Returns "(undefined)" if no version was linked in.
func Version() string {
	v := strings.TrimSpace(version)
	if v == "" {
		return defaultUndefined
	}
	return strings.TrimPrefix(strings.ToLower(v), "v")
}

// Returns the git commit hash, or "(undefined)".
func GitCommit() string {
	c := strings.TrimSpace(gitCommit)
	if c == "" {
		return defaultUndefined
	}
	return c
}

// Returns true if the version or commit was not linked in.
func IsLocal() bool {
	return strings.TrimSpace(version) == "" || strings.TrimSpace(gitCommit) == ""
}

// Returns a detailed version string.
//
// Local builds report "(local)". Pipeline builds report
// "<version> <git-commit> [<os>/<arch>]".
func VersionString() string {
	if IsLocal() {
		return defaultLocalBuild
	}
	return fmt.Sprintf("%s %s [%s/%s]", Version(), GitCommit(), runtime.GOOS, runtime.GOARCH)
}
