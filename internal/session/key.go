package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/cruciblehq/edicc/internal/frame"
)

const (

	// Prefix of generated session keys.
	keyPrefix = "sess-"

	// Permissions for the key file and its directory. The key is a shared
	// secret, so nobody but the owner may read it.
	keyFileMode os.FileMode = 0600
	keyDirMode  os.FileMode = 0700
)

// Generates a new random session key.
//
// Keys are "sess-" followed by 32 hex digits and never contain the frame
// delimiter or sentinel.
func NewKey() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrKeyFile, err)
	}
	return keyPrefix + strings.ReplaceAll(id.String(), "-", ""), nil
}

// Reads the session key stored at path.
//
// Returns an error wrapping [os.ErrNotExist] if the file is missing.
func LoadKey(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrKeyFile, err)
	}

	key := strings.TrimSpace(string(data))
	if err := frame.ValidateKey(key); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrKeyFile, path, err)
	}
	return key, nil
}

// Reads the session key at path, creating it if it does not exist.
func LoadOrCreateKey(path string) (string, error) {
	key, err := LoadKey(path)
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	return RotateKey(path)
}

// Replaces the session key at path with a fresh one.
//
// Instances started with the old key keep using it until they restart;
// launchers that read the new key can no longer reach them.
func RotateKey(path string) (string, error) {
	key, err := NewKey()
	if err != nil {
		return "", err
	}
	if err := writeFileAtomic(path, []byte(key+"\n"), keyDirMode, keyFileMode); err != nil {
		return "", fmt.Errorf("%w: %w", ErrKeyFile, err)
	}
	return key, nil
}

// Writes data to a temporary file next to path and renames it into place,
// so readers never observe a partial file.
func writeFileAtomic(path string, data []byte, dirMode, fileMode os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
