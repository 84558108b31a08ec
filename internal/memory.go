package moonbridge

import (
	"context"
	"errors"
	"strings"

	"github.com/tetratelabs/wazero/api"
)

func ReadCString(mem api.Memory, addr uint32) (string, error) {
	var sb strings.Builder
	for {
		b, success := mem.ReadByte(addr)
		if !success {
			return "", errors.New("could not read C string data")
		}

		// Stop when we encounter nil terminator of Cstring
		if b == 0 {
			break
		}

		sb.WriteByte(b)
		addr++
	}

	return sb.String(), nil
}

// Allocator hands out native heap memory.
type Allocator interface {
	Malloc(ctx context.Context, size uint32) (uint32, error)
	Free(ctx context.Context, ptr uint32) error
}

// WriteCString copies s with a NUL terminator into a new heap block. The
// caller owns the returned address.
func WriteCString(ctx context.Context, alloc Allocator, mem api.Memory, s string) (uint32, error) {
	ptr, err := alloc.Malloc(ctx, uint32(len(s))+1)
	if err != nil {
		return 0, err
	}

	buf := make([]byte, len(s)+1)
	copy(buf, s)
	if !mem.Write(ptr, buf) {
		_ = alloc.Free(ctx, ptr)
		return 0, errors.New("could not write C string data")
	}

	return ptr, nil
}
