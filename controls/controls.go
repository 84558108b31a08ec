// Package controls wraps the builtin control hierarchy of the native core
// with typed property accessors.
package controls

import (
	"context"
	"fmt"

	moonbridge "github.com/jerbob92/wazero-moonbridge"
)

//go:generate go run ../generator -input controls.yaml -output controls_gen.go

// Register makes every control type known to b, so native objects of these
// kinds are wrapped with the types in this package.
func Register(ctx context.Context, b moonbridge.IBridge) error {
	for _, t := range ManagedTypes {
		if _, err := b.FindType(ctx, t); err != nil {
			return fmt.Errorf("could not register %s: %w", t, err)
		}
	}
	return nil
}
