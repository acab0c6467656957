// Package settings loads the host's YAML settings file.
package settings

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cruciblehq/edicc/internal/host"
	"github.com/cruciblehq/edicc/internal/ipc"
)

// ErrInvalid indicates a settings file that parsed but holds unusable values.
var ErrInvalid = errors.New("invalid settings")

// Host settings. Zero fields take the package defaults.
type Settings struct {
	Port            int           `yaml:"port"`            // First port the server tries.
	ReadTimeout     time.Duration `yaml:"readTimeout"`     // Per-connection read deadline.
	MaxBindAttempts int           `yaml:"maxBindAttempts"` // Consecutive ports tried.
	MaxFrameSize    int           `yaml:"maxFrameSize"`    // Largest accepted frame in bytes.
	QueueSize       int           `yaml:"queueSize"`       // Commands buffered for the host loop.
}

// Returns settings populated with defaults.
func Default() Settings {
	return Settings{
		Port:            ipc.DefaultPort,
		ReadTimeout:     ipc.DefaultReadTimeout,
		MaxBindAttempts: ipc.DefaultMaxBindAttempts,
		MaxFrameSize:    ipc.DefaultMaxFrameSize,
		QueueSize:       host.DefaultQueueSize,
	}
}

// Decodes the settings file at path.
//
// An empty path or a missing file yields [Default]. Fields left out of the
// file keep their defaults.
func Load(path string) (Settings, error) {
	s := Default()

	path = strings.TrimSpace(path)
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, err
	}

	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse settings: %w", err)
	}

	s.fill()
	return s, s.Validate()
}

// Replaces zero fields with defaults.
func (s *Settings) fill() {
	d := Default()
	if s.Port == 0 {
		s.Port = d.Port
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = d.ReadTimeout
	}
	if s.MaxBindAttempts == 0 {
		s.MaxBindAttempts = d.MaxBindAttempts
	}
	if s.MaxFrameSize == 0 {
		s.MaxFrameSize = d.MaxFrameSize
	}
	if s.QueueSize == 0 {
		s.QueueSize = d.QueueSize
	}
}

// Checks that every value is usable.
func (s Settings) Validate() error {
	switch {
	case s.Port < 1 || s.Port > 65535:
		return fmt.Errorf("%w: port %d out of range", ErrInvalid, s.Port)
	case s.ReadTimeout < 0:
		return fmt.Errorf("%w: negative readTimeout", ErrInvalid)
	case s.MaxBindAttempts < 0:
		return fmt.Errorf("%w: negative maxBindAttempts", ErrInvalid)
	case s.MaxFrameSize < 0:
		return fmt.Errorf("%w: negative maxFrameSize", ErrInvalid)
	case s.QueueSize < 0:
		return fmt.Errorf("%w: negative queueSize", ErrInvalid)
	}
	return nil
}
