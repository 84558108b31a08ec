package native

import (
	"context"
	"errors"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// heapModule is a wasm module that only exports one page of memory.
var heapModule = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: one memory, min 1 page
	0x07, 0x0a, 0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00, // export "memory"
}

const (
	pageSize  = 65536
	heapStart = 16
	heapAlign = 8
)

var ErrInvalidFree = errors.New("free of an address that is not allocated")

// Heap is a size class allocator over a wazero linear memory. Address 0 is
// never handed out.
type Heap struct {
	mem      api.Memory
	next     uint32
	freelist map[uint32][]uint32
	live     map[uint32]uint32
	class    map[uint32]uint32

	allocs uint64
	frees  uint64
}

func newHeap(mem api.Memory) *Heap {
	return &Heap{
		mem:      mem,
		next:     heapStart,
		freelist: map[uint32][]uint32{},
		live:     map[uint32]uint32{},
		class:    map[uint32]uint32{},
	}
}

func instantiateHeap(ctx context.Context, runtime wazero.Runtime) (api.Module, error) {
	mod, err := runtime.Instantiate(ctx, heapModule)
	if err != nil {
		return nil, fmt.Errorf("could not instantiate heap module: %w", err)
	}
	if mod.Memory() == nil {
		return nil, errors.New("heap module has no memory")
	}
	return mod, nil
}

func sizeClass(size uint32) uint32 {
	if size == 0 {
		size = 1
	}
	return (size + heapAlign - 1) &^ (heapAlign - 1)
}

// Malloc returns a zeroed block of at least size bytes.
func (h *Heap) Malloc(size uint32) (uint32, error) {
	class := sizeClass(size)

	var ptr uint32
	if list := h.freelist[class]; len(list) > 0 {
		ptr = list[len(list)-1]
		h.freelist[class] = list[:len(list)-1]
	} else {
		ptr = h.next
		end := ptr + class
		if end > h.mem.Size() {
			pages := (end - h.mem.Size() + pageSize - 1) / pageSize
			if _, ok := h.mem.Grow(pages); !ok {
				return 0, fmt.Errorf("could not grow heap by %d pages", pages)
			}
		}
		h.next = end
	}

	if !h.mem.Write(ptr, make([]byte, class)) {
		return 0, fmt.Errorf("could not clear block at %d", ptr)
	}

	h.live[ptr] = size
	h.class[ptr] = class
	h.allocs++
	return ptr, nil
}

func (h *Heap) Free(ptr uint32) error {
	if _, ok := h.live[ptr]; !ok {
		return fmt.Errorf("%w: %d", ErrInvalidFree, ptr)
	}

	class := h.class[ptr]
	delete(h.live, ptr)
	delete(h.class, ptr)
	h.freelist[class] = append(h.freelist[class], ptr)
	h.frees++
	return nil
}

// SizeOf returns the requested size of a live block.
func (h *Heap) SizeOf(ptr uint32) (uint32, bool) {
	size, ok := h.live[ptr]
	return size, ok
}

func (h *Heap) Live() int {
	return len(h.live)
}

func (h *Heap) LiveBytes() uint64 {
	var total uint64
	for _, size := range h.live {
		total += uint64(size)
	}
	return total
}

func (h *Heap) Allocs() uint64 {
	return h.allocs
}

func (h *Heap) Frees() uint64 {
	return h.frees
}
