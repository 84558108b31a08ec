package moonbridge

import (
	"context"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/jerbob92/wazero-moonbridge/types"
)

// checkCString rejects strings the native side would cut short.
func checkCString(kind Kind, s string) error {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return NewError(PhaseEncode, KindContract).Detail("%s contains a NUL byte at offset %d", kind, i).Build()
	}
	return nil
}

func (b *bridge) encodeString(ctx context.Context, kind Kind, s string, destructors *[]*destructorFunc) (Value, error) {
	if err := checkCString(kind, s); err != nil {
		return Value{}, err
	}
	ptr, err := WriteCString(ctx, b.native, b.native.Memory(), s)
	if err != nil {
		return Value{}, fmt.Errorf("could not allocate %s payload: %w", kind, err)
	}

	val := Value{K: kind, U: uint64(ptr)}
	pushDestructor(destructors, "free "+kind.String(), func(ctx context.Context) error {
		return b.freeValue(ctx, val)
	})
	return val, nil
}

func (b *bridge) decodeString(v Value) (string, error) {
	if v.Ptr() == 0 {
		return "", nil
	}
	return ReadCString(b.native.Memory(), v.Ptr())
}

// encodeStringStruct writes a struct payload whose string fields sit at the
// offsets listed by the kind's StructLayout. Empty strings are sent as a
// zero address.
func (b *bridge) encodeStringStruct(ctx context.Context, kind Kind, fields []string, extra func(buf []byte), destructors *[]*destructorFunc) (Value, error) {
	layout, ok := StructLayoutOf(kind)
	if !ok || len(layout.Strings) != len(fields) {
		return Value{}, fmt.Errorf("kind %s has no string struct layout", kind)
	}
	for i := range fields {
		if err := checkCString(kind, fields[i]); err != nil {
			return Value{}, err
		}
	}

	mem := b.native.Memory()
	buf := make([]byte, layout.Size)
	var allocated []uint32
	release := func() {
		for i := range allocated {
			_ = b.native.Free(ctx, allocated[i])
		}
	}

	for i := range fields {
		if fields[i] == "" {
			continue
		}
		ptr, err := WriteCString(ctx, b.native, mem, fields[i])
		if err != nil {
			release()
			return Value{}, fmt.Errorf("could not allocate %s field: %w", kind, err)
		}
		allocated = append(allocated, ptr)
		binary.LittleEndian.PutUint32(buf[layout.Strings[i]:], ptr)
	}

	if extra != nil {
		extra(buf)
	}

	ptr, err := b.native.Malloc(ctx, layout.Size)
	if err != nil {
		release()
		return Value{}, fmt.Errorf("could not allocate %s payload: %w", kind, err)
	}
	if !mem.Write(ptr, buf) {
		release()
		_ = b.native.Free(ctx, ptr)
		return Value{}, fmt.Errorf("could not write %s payload at %d", kind, ptr)
	}

	val := Value{K: kind, U: uint64(ptr)}
	pushDestructor(destructors, "free "+kind.String(), func(ctx context.Context) error {
		return b.freeValue(ctx, val)
	})
	return val, nil
}

// decodeStringStruct returns the raw struct bytes and its string fields.
func (b *bridge) decodeStringStruct(v Value) ([]byte, []string, error) {
	layout, ok := StructLayoutOf(v.K)
	if !ok {
		return nil, nil, fmt.Errorf("kind %s has no string struct layout", v.K)
	}

	fields := make([]string, len(layout.Strings))
	if v.Ptr() == 0 {
		return make([]byte, layout.Size), fields, nil
	}

	mem := b.native.Memory()
	buf, ok := mem.Read(v.Ptr(), layout.Size)
	if !ok {
		return nil, nil, fmt.Errorf("could not read %s payload at %d", v.K, v.Ptr())
	}

	for i, off := range layout.Strings {
		ptr := binary.LittleEndian.Uint32(buf[off:])
		if ptr == 0 {
			continue
		}
		s, err := ReadCString(mem, ptr)
		if err != nil {
			return nil, nil, fmt.Errorf("could not read %s field: %w", v.K, err)
		}
		fields[i] = s
	}

	return buf, fields, nil
}

func (b *bridge) encodeUri(ctx context.Context, u types.Uri, destructors *[]*destructorFunc) (Value, error) {
	return b.encodeStringStruct(ctx, KindUri, []string{u.OriginalString}, nil, destructors)
}

func (b *bridge) encodeFontFamily(ctx context.Context, ff types.FontFamily, destructors *[]*destructorFunc) (Value, error) {
	return b.encodeStringStruct(ctx, KindFontFamily, []string{ff.Source}, nil, destructors)
}

// A property path that refers to a native property does not send its text.
func (b *bridge) encodePropertyPath(ctx context.Context, pp types.PropertyPath, destructors *[]*destructorFunc) (Value, error) {
	path := pp.Path
	if pp.NativeProperty != 0 {
		path = ""
	}
	return b.encodeStringStruct(ctx, KindPropertyPath, []string{path}, func(buf []byte) {
		binary.LittleEndian.PutUint32(buf[4:], pp.NativeProperty)
	}, destructors)
}

func (b *bridge) encodeManagedTypeInfo(ctx context.Context, t *ManagedType, destructors *[]*destructorFunc) (Value, error) {
	return b.encodeStringStruct(ctx, KindManagedTypeInfo, []string{t.Assembly, t.FullName()}, nil, destructors)
}

func (b *bridge) decodeStringKind(v Value, hint *ManagedType) (any, error) {
	switch v.K {
	case KindString, KindXmlLanguage:
		s, err := b.decodeString(v)
		if err != nil {
			return nil, err
		}
		if v.K == KindXmlLanguage || hint == TypeXmlLanguage {
			return types.XmlLanguage(s), nil
		}
		if hint == TypeUri {
			return types.Uri{OriginalString: s}, nil
		}
		if hint == TypeFontFamily {
			return types.FontFamily{Source: s}, nil
		}
		return s, nil
	}

	buf, fields, err := b.decodeStringStruct(v)
	if err != nil {
		return nil, err
	}

	switch v.K {
	case KindUri:
		return types.Uri{OriginalString: fields[0]}, nil
	case KindFontFamily:
		return types.FontFamily{Source: fields[0]}, nil
	case KindPropertyPath:
		return types.PropertyPath{Path: fields[0], NativeProperty: binary.LittleEndian.Uint32(buf[4:])}, nil
	case KindManagedTypeInfo:
		t, ok := b.types.findByName(fields[1])
		if !ok {
			return nil, NewError(PhaseDecode, KindNotFound).Detail("managed type %q is not registered", fields[1]).Build()
		}
		return t, nil
	}

	return nil, fmt.Errorf("kind %s is not a string kind", v.K)
}
