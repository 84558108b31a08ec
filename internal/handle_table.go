package moonbridge

import (
	"context"
	"fmt"
	"sync"
	"weak"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// handleTable maps native handles to their wrapper. Every entry holds one
// native reference; entries whose wrapper has been collected are released
// when they are next looked up, or by prune.
type handleTable struct {
	bridge  *bridge
	mu      sync.Mutex
	entries map[Handle]weak.Pointer[ObjectBase]
}

func newHandleTable(b *bridge) *handleTable {
	return &handleTable{
		bridge:  b,
		entries: map[Handle]weak.Pointer[ObjectBase]{},
	}
}

func (ht *handleTable) wrapperFor(ctx context.Context, h Handle) (Object, error) {
	if h == 0 {
		return nil, nil
	}

	ht.mu.Lock()
	defer ht.mu.Unlock()

	entry, found := ht.entries[h]
	if found {
		if base := entry.Value(); base != nil {
			return base.Outer(), nil
		}
	}
	// From here on an existing entry is one whose wrapper was collected.

	kind, err := ht.bridge.native.ObjectKind(h)
	if err != nil {
		return nil, fmt.Errorf("could not get kind of object %d: %w", h, err)
	}

	if err := ht.bridge.native.Retain(ctx, h); err != nil {
		return nil, fmt.Errorf("could not retain object %d: %w", h, err)
	}

	if found {
		ht.bridge.logger.Debug("replacing collected wrapper", zap.Uint32("handle", uint32(h)))
		if err := ht.bridge.native.Release(ctx, h); err != nil {
			return nil, fmt.Errorf("could not release stale object %d: %w", h, err)
		}
	}

	return ht.insert(h, kind, ht.bridge.types.constructorFor(kind)), nil
}

// adopt wraps an object created by the bridge. The reference returned by
// the native core becomes the entry's reference.
func (ht *handleTable) adopt(h Handle, kind Kind, t *ManagedType) Object {
	ht.mu.Lock()
	defer ht.mu.Unlock()

	if t.New == nil {
		t = ht.bridge.types.constructorFor(kind)
	}
	return ht.insert(h, kind, t)
}

func (ht *handleTable) insert(h Handle, kind Kind, t *ManagedType) Object {
	base := &ObjectBase{
		bridge: ht.bridge,
		handle: h,
		kind:   kind,
		typ:    t,
	}
	base.outer = t.New(base)
	ht.entries[h] = weak.Make(base)
	return base.outer
}

// prune releases every entry whose wrapper has been collected.
func (ht *handleTable) prune(ctx context.Context) (int, error) {
	ht.mu.Lock()
	defer ht.mu.Unlock()

	var err error
	pruned := 0
	for h, entry := range ht.entries {
		if entry.Value() != nil {
			continue
		}
		delete(ht.entries, h)
		pruned++
		err = multierr.Append(err, ht.bridge.native.Release(ctx, h))
	}
	return pruned, err
}

func (ht *handleTable) len() int {
	ht.mu.Lock()
	defer ht.mu.Unlock()
	return len(ht.entries)
}

// close releases every entry, live or not.
func (ht *handleTable) close(ctx context.Context) error {
	ht.mu.Lock()
	defer ht.mu.Unlock()

	var err error
	for h := range ht.entries {
		err = multierr.Append(err, ht.bridge.native.Release(ctx, h))
	}
	ht.entries = map[Handle]weak.Pointer[ObjectBase]{}
	return err
}
