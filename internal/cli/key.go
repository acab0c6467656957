package cli

import (
	"context"
	"fmt"

	"github.com/cruciblehq/edicc/internal/session"
)

// Represents the 'edicc key' command.
type KeyCmd struct {
	Rotate bool `help:"Replace the session key. Running instances must be restarted."`
}

// Executes the key command.
//
// Prints the location of the key file, creating the key if needed. The key
// itself is never printed.
func (c *KeyCmd) Run(ctx context.Context) error {
	var err error
	if c.Rotate {
		_, err = session.RotateKey(keyPath())
	} else {
		_, err = session.LoadOrCreateKey(keyPath())
	}
	if err != nil {
		return err
	}

	fmt.Println(keyPath())
	return nil
}
