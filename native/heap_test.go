package native

import (
	"github.com/tetratelabs/wazero"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Heap", func() {
	var runtime wazero.Runtime
	var heap *Heap

	BeforeEach(func() {
		runtime = wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfigInterpreter())
		mod, err := instantiateHeap(ctx, runtime)
		Expect(err).To(BeNil())
		heap = newHeap(mod.Memory())
	})

	AfterEach(func() {
		runtime.Close(ctx)
	})

	It("never hands out address 0 and aligns blocks", func() {
		for i := 0; i < 8; i++ {
			ptr, err := heap.Malloc(uint32(i*3 + 1))
			Expect(err).To(BeNil())
			Expect(ptr).ToNot(BeZero())
			Expect(ptr % heapAlign).To(BeZero())
		}
		Expect(heap.Live()).To(Equal(8))
	})

	It("reuses freed blocks of the same size class", func() {
		ptr, err := heap.Malloc(12)
		Expect(err).To(BeNil())
		Expect(heap.Free(ptr)).To(Succeed())

		again, err := heap.Malloc(16)
		Expect(err).To(BeNil())
		Expect(again).To(Equal(ptr))
	})

	It("returns zeroed memory for reused blocks", func() {
		ptr, err := heap.Malloc(8)
		Expect(err).To(BeNil())
		heap.mem.WriteUint64Le(ptr, 0xffffffffffffffff)
		Expect(heap.Free(ptr)).To(Succeed())

		ptr, err = heap.Malloc(8)
		Expect(err).To(BeNil())
		v, ok := heap.mem.ReadUint64Le(ptr)
		Expect(ok).To(BeTrue())
		Expect(v).To(BeZero())
	})

	It("rejects double frees", func() {
		ptr, err := heap.Malloc(4)
		Expect(err).To(BeNil())
		Expect(heap.Free(ptr)).To(Succeed())
		Expect(heap.Free(ptr)).To(MatchError(ErrInvalidFree))
		Expect(heap.Free(12345)).To(MatchError(ErrInvalidFree))
	})

	It("grows the memory when a page runs out", func() {
		before := heap.mem.Size()
		ptr, err := heap.Malloc(pageSize * 2)
		Expect(err).To(BeNil())
		Expect(heap.mem.Size()).To(BeNumerically(">", before))

		size, ok := heap.SizeOf(ptr)
		Expect(ok).To(BeTrue())
		Expect(size).To(Equal(uint32(pageSize * 2)))
	})

	It("tracks allocations and frees", func() {
		a, _ := heap.Malloc(3)
		b, _ := heap.Malloc(5)
		Expect(heap.LiveBytes()).To(Equal(uint64(8)))
		Expect(heap.Free(a)).To(Succeed())
		Expect(heap.Free(b)).To(Succeed())
		Expect(heap.Allocs()).To(Equal(uint64(2)))
		Expect(heap.Frees()).To(Equal(uint64(2)))
		Expect(heap.Live()).To(BeZero())
	})
})
