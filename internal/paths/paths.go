package paths

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Name used for directory and file naming.
const appName = "edicc"

// Path to the directory for runtime files (the port file).
//
//	Linux:   $XDG_RUNTIME_DIR/edicc or ~/.cache/edicc/run
//	macOS:   ~/Library/Caches/edicc/run
func Runtime() string {
	if xdg.RuntimeDir != "" {
		return filepath.Join(xdg.RuntimeDir, appName)
	}
	return filepath.Join(xdg.CacheHome, appName, "run")
}

// Path to the directory for user configuration.
//
//	Linux:   $XDG_CONFIG_HOME/edicc or ~/.config/edicc
//	macOS:   ~/Library/Application Support/edicc
func Config() string {
	return filepath.Join(xdg.ConfigHome, appName)
}

// Default path to the file recording the port of the running instance.
//
//	Linux:   $XDG_RUNTIME_DIR/edicc/edicc.port
//	macOS:   ~/Library/Caches/edicc/run/edicc.port
func PortFile() string {
	return filepath.Join(Runtime(), appName+".port")
}

// Default path to the session key file.
//
// The key outlives individual instances, so it lives under state rather
// than runtime.
//
//	Linux:   $XDG_STATE_HOME/edicc/session.key
//	macOS:   ~/Library/Application Support/edicc/session.key
func KeyFile() string {
	return filepath.Join(xdg.StateHome, appName, "session.key")
}

// Default path to the settings file.
//
//	Linux:   $XDG_CONFIG_HOME/edicc/edicc.yaml
//	macOS:   ~/Library/Application Support/edicc/edicc.yaml
func SettingsFile() string {
	return filepath.Join(Config(), appName+".yaml")
}
