package moonbridge

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
)

type destructorFunc struct {
	name string
	fn   func(ctx context.Context) error
}

func (df *destructorFunc) run(ctx context.Context) error {
	if err := df.fn(ctx); err != nil {
		return fmt.Errorf("could not run destructor %s: %w", df.name, err)
	}
	return nil
}

// pushDestructor is a no-op when destructors is nil, in which case the
// caller takes ownership of whatever the destructor would release.
func pushDestructor(destructors *[]*destructorFunc, name string, fn func(ctx context.Context) error) {
	if destructors == nil {
		return
	}
	*destructors = append(*destructors, &destructorFunc{name: name, fn: fn})
}

// runDestructors runs every destructor, newest first, even when one of them
// fails.
func runDestructors(ctx context.Context, destructors []*destructorFunc) error {
	var err error
	for i := len(destructors) - 1; i >= 0; i-- {
		err = multierr.Append(err, destructors[i].run(ctx))
	}
	return err
}
