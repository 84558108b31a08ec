package moonbridge

import (
	"sync"
)

// eventTable holds the native listener tokens per object and event name. It
// is keyed by handle so listeners outlive a collected wrapper.
type eventTable struct {
	mu        sync.Mutex
	listeners map[Handle]map[string][]int32
}

func newEventTable() *eventTable {
	return &eventTable{
		listeners: map[Handle]map[string][]int32{},
	}
}

func (et *eventTable) add(h Handle, name string, token int32) {
	et.mu.Lock()
	defer et.mu.Unlock()

	byName, ok := et.listeners[h]
	if !ok {
		byName = map[string][]int32{}
		et.listeners[h] = byName
	}
	byName[name] = append(byName[name], token)
}

func (et *eventTable) remove(h Handle, name string, token int32) bool {
	et.mu.Lock()
	defer et.mu.Unlock()

	tokens := et.listeners[h][name]
	for i := range tokens {
		if tokens[i] != token {
			continue
		}
		et.listeners[h][name] = append(tokens[:i:i], tokens[i+1:]...)
		if len(et.listeners[h][name]) == 0 {
			delete(et.listeners[h], name)
		}
		if len(et.listeners[h]) == 0 {
			delete(et.listeners, h)
		}
		return true
	}
	return false
}

// tokens returns a copy, listeners may unsubscribe while an event is raised.
func (et *eventTable) tokens(h Handle, name string) []int32 {
	et.mu.Lock()
	defer et.mu.Unlock()

	tokens := et.listeners[h][name]
	out := make([]int32, len(tokens))
	copy(out, tokens)
	return out
}

func (et *eventTable) clear() {
	et.mu.Lock()
	defer et.mu.Unlock()
	et.listeners = map[Handle]map[string][]int32{}
}
