package moonbridge

import (
	"fmt"
	"reflect"
	"sync"
)

type pinSlot struct {
	value    any
	refCount int
}

// pinTable keeps managed values reachable while the native side holds their
// token. Tokens are slot indexes, never addresses; slot 0 is reserved so a
// zero token is always invalid.
type pinTable struct {
	mu        sync.Mutex
	allocated []*pinSlot
	freelist  []int32
	byValue   map[any]int32
}

func newPinTable() *pinTable {
	return &pinTable{
		allocated: []*pinSlot{nil},
		byValue:   map[any]int32{},
	}
}

func pinKey(v any) (any, bool) {
	if v == nil || !reflect.ValueOf(v).Comparable() {
		return nil, false
	}
	return v, true
}

// pin returns the token of v. Pinning a value that is already pinned
// returns the same token with its count raised.
func (pt *pinTable) pin(v any) int32 {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	key, keyed := pinKey(v)
	if keyed {
		if id, ok := pt.byValue[key]; ok {
			pt.allocated[id].refCount++
			return id
		}
	}

	slot := &pinSlot{value: v, refCount: 1}

	var id int32
	// Reuse freed slots when available
	if len(pt.freelist) > 0 {
		id = pt.freelist[len(pt.freelist)-1]
		pt.freelist = pt.freelist[:len(pt.freelist)-1]
		pt.allocated[id] = slot
	} else {
		id = int32(len(pt.allocated))
		pt.allocated = append(pt.allocated, slot)
	}

	if keyed {
		pt.byValue[key] = id
	}

	return id
}

func (pt *pinTable) slot(id int32) (*pinSlot, error) {
	if id < 1 || int(id) > len(pt.allocated)-1 || pt.allocated[id] == nil {
		return nil, fmt.Errorf("invalid pin token: %d", id)
	}
	return pt.allocated[id], nil
}

func (pt *pinTable) get(id int32) (any, error) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	s, err := pt.slot(id)
	if err != nil {
		return nil, err
	}
	return s.value, nil
}

func (pt *pinTable) incref(id int32) error {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	s, err := pt.slot(id)
	if err != nil {
		return err
	}
	s.refCount++
	return nil
}

// unpin drops one reference and clears the slot when none are left.
func (pt *pinTable) unpin(id int32) error {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	s, err := pt.slot(id)
	if err != nil {
		return err
	}

	s.refCount--
	if s.refCount > 0 {
		return nil
	}

	if key, keyed := pinKey(s.value); keyed {
		delete(pt.byValue, key)
	}
	pt.allocated[id] = nil
	pt.freelist = append(pt.freelist, id)

	return nil
}

func (pt *pinTable) refCount(id int32) int {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	s, err := pt.slot(id)
	if err != nil {
		return 0
	}
	return s.refCount
}

// len returns the number of live slots.
func (pt *pinTable) len() int {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return len(pt.allocated) - 1 - len(pt.freelist)
}

func (pt *pinTable) clear() {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.allocated = []*pinSlot{nil}
	pt.freelist = nil
	pt.byValue = map[any]int32{}
}
