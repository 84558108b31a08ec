package native

import (
	"bytes"
	"context"
	"fmt"

	moonbridge "github.com/jerbob92/wazero-moonbridge/internal"
	"github.com/tetratelabs/wazero/api"
)

// copyValue deep copies v: buffers are duplicated, objects retained and
// managed tokens retained through the bridge.
func (c *Core) copyValue(ctx context.Context, v moonbridge.Value) (moonbridge.Value, error) {
	if v.IsNull() {
		return v, nil
	}

	mem := c.Memory()
	switch moonbridge.PayloadOf(v.K) {
	case moonbridge.PayloadString:
		if v.Ptr() == 0 {
			return v, nil
		}
		s, err := moonbridge.ReadCString(mem, v.Ptr())
		if err != nil {
			return moonbridge.Value{}, err
		}
		ptr, err := moonbridge.WriteCString(ctx, c, mem, s)
		if err != nil {
			return moonbridge.Value{}, err
		}
		return moonbridge.Value{K: v.K, Bitfield: v.Bitfield, U: uint64(ptr)}, nil
	case moonbridge.PayloadStruct:
		if v.Ptr() == 0 {
			return v, nil
		}
		layout, _ := moonbridge.StructLayoutOf(v.K)
		src, ok := mem.Read(v.Ptr(), layout.Size)
		if !ok {
			return moonbridge.Value{}, fmt.Errorf("could not read %s payload at %d", v.K, v.Ptr())
		}
		buf := append([]byte(nil), src...)
		for _, off := range layout.Strings {
			str := leUint32(buf[off:])
			if str == 0 {
				continue
			}
			s, err := moonbridge.ReadCString(mem, str)
			if err != nil {
				return moonbridge.Value{}, err
			}
			dup, err := moonbridge.WriteCString(ctx, c, mem, s)
			if err != nil {
				return moonbridge.Value{}, err
			}
			putLeUint32(buf[off:], dup)
		}
		ptr, err := c.heap.Malloc(layout.Size)
		if err != nil {
			return moonbridge.Value{}, err
		}
		mem.Write(ptr, buf)
		return moonbridge.Value{K: v.K, Bitfield: v.Bitfield, U: uint64(ptr)}, nil
	case moonbridge.PayloadObject:
		if v.Ptr() != 0 {
			if err := c.Retain(ctx, moonbridge.Handle(v.Ptr())); err != nil {
				return moonbridge.Value{}, err
			}
		}
		return v, nil
	case moonbridge.PayloadManaged:
		c.callManaged(ctx, c.callbacks.RetainManaged, v.Ptr())
		return v, nil
	}

	return v, nil
}

func (c *Core) freeValue(ctx context.Context, v moonbridge.Value) error {
	if v.IsNull() {
		return nil
	}

	switch moonbridge.PayloadOf(v.K) {
	case moonbridge.PayloadString:
		if v.Ptr() == 0 {
			return nil
		}
		return c.heap.Free(v.Ptr())
	case moonbridge.PayloadStruct:
		if v.Ptr() == 0 {
			return nil
		}
		layout, _ := moonbridge.StructLayoutOf(v.K)
		for _, off := range layout.Strings {
			str, _ := c.Memory().ReadUint32Le(v.Ptr() + off)
			if str == 0 {
				continue
			}
			if err := c.heap.Free(str); err != nil {
				return err
			}
		}
		return c.heap.Free(v.Ptr())
	case moonbridge.PayloadObject:
		if v.Ptr() == 0 {
			return nil
		}
		return c.Release(ctx, moonbridge.Handle(v.Ptr()))
	case moonbridge.PayloadManaged:
		c.callManaged(ctx, c.callbacks.ReleaseManaged, v.Ptr())
	}
	return nil
}

// FreeValue releases a Value handed to the core by the bridge, such as the
// result of GetManagedProperty.
func (c *Core) FreeValue(ctx context.Context, v moonbridge.Value) error {
	return c.freeValue(ctx, v)
}

func (c *Core) callManaged(ctx context.Context, fn api.GoModuleFunction, token uint32) {
	if fn == nil {
		return
	}
	fn.Call(ctx, c.mod, []uint64{api.EncodeU32(token)})
}

// valuesEqual compares payload contents, not addresses.
func (c *Core) valuesEqual(a, b moonbridge.Value) bool {
	if a.K != b.K || a.IsNull() != b.IsNull() {
		return false
	}
	if a.IsNull() || a.U == b.U {
		return true
	}

	mem := c.Memory()
	switch moonbridge.PayloadOf(a.K) {
	case moonbridge.PayloadString:
		if a.Ptr() == 0 || b.Ptr() == 0 {
			return false
		}
		sa, errA := moonbridge.ReadCString(mem, a.Ptr())
		sb, errB := moonbridge.ReadCString(mem, b.Ptr())
		return errA == nil && errB == nil && sa == sb
	case moonbridge.PayloadStruct:
		if a.Ptr() == 0 || b.Ptr() == 0 {
			return false
		}
		layout, _ := moonbridge.StructLayoutOf(a.K)
		if len(layout.Strings) > 0 {
			// Nested strings differ by address; compare what they point at.
			return c.structStringsEqual(a, b, layout)
		}
		ba, okA := mem.Read(a.Ptr(), layout.Size)
		bb, okB := mem.Read(b.Ptr(), layout.Size)
		return okA && okB && bytes.Equal(ba, bb)
	}
	return false
}

func (c *Core) structStringsEqual(a, b moonbridge.Value, layout moonbridge.StructLayout) bool {
	mem := c.Memory()
	ba, okA := mem.Read(a.Ptr(), layout.Size)
	bb, okB := mem.Read(b.Ptr(), layout.Size)
	if !okA || !okB {
		return false
	}

	isString := map[uint32]bool{}
	for _, off := range layout.Strings {
		isString[off] = true
		pa, pb := leUint32(ba[off:]), leUint32(bb[off:])
		if (pa == 0) != (pb == 0) {
			return false
		}
		if pa == 0 {
			continue
		}
		sa, errA := moonbridge.ReadCString(mem, pa)
		sb, errB := moonbridge.ReadCString(mem, pb)
		if errA != nil || errB != nil || sa != sb {
			return false
		}
	}
	for off := uint32(0); off < layout.Size; off += 4 {
		if isString[off] {
			continue
		}
		if leUint32(ba[off:]) != leUint32(bb[off:]) {
			return false
		}
	}
	return true
}

func leUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func putLeUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func (c *Core) checkApplies(o *object, p *property) error {
	if p.info.Attached || c.derivesFrom(o.kind, p.info.OwnerKind) {
		return nil
	}
	return fmt.Errorf("%s has no property %s.%s", c.TypeName(o.kind), c.TypeName(p.info.OwnerKind), p.info.Name)
}

// effective returns the local value or the default. The Value stays owned
// by the core.
func (c *Core) effective(o *object, handle moonbridge.PropertyHandle, p *property) (moonbridge.Value, bool) {
	if v, ok := o.values[handle]; ok {
		return v, true
	}
	return p.defaultValue, false
}

func (c *Core) GetValue(ctx context.Context, h moonbridge.Handle, handle moonbridge.PropertyHandle) (moonbridge.Value, error) {
	o, err := c.object(h)
	if err != nil {
		return moonbridge.Value{}, err
	}
	p, err := c.property(handle)
	if err != nil {
		return moonbridge.Value{}, err
	}
	if err := c.checkApplies(o, p); err != nil {
		return moonbridge.Value{}, err
	}

	v, _ := c.effective(o, handle, p)
	return v, nil
}

func (c *Core) SetValue(ctx context.Context, h moonbridge.Handle, handle moonbridge.PropertyHandle, v *moonbridge.Value) error {
	o, err := c.object(h)
	if err != nil {
		return err
	}
	p, err := c.property(handle)
	if err != nil {
		return err
	}
	if err := c.checkApplies(o, p); err != nil {
		return err
	}
	if v == nil {
		return c.ClearValue(ctx, h, handle)
	}

	nv, err := c.copyValue(ctx, *v)
	if err != nil {
		return fmt.Errorf("could not copy value: %w", err)
	}
	if nv.IsNull() {
		nv = moonbridge.NullValue(p.info.Kind)
	}

	old, hadLocal := c.effective(o, handle, p)
	o.values[handle] = nv

	var notifyErr error
	if p.changed && !c.valuesEqual(old, nv) {
		notifyErr = c.notifyChanged(ctx, h, handle, old, nv)
	}

	if hadLocal {
		if err := c.freeValue(ctx, old); err != nil {
			return err
		}
	}
	return notifyErr
}

func (c *Core) ClearValue(ctx context.Context, h moonbridge.Handle, handle moonbridge.PropertyHandle) error {
	o, err := c.object(h)
	if err != nil {
		return err
	}
	p, err := c.property(handle)
	if err != nil {
		return err
	}

	old, hadLocal := o.values[handle]
	if !hadLocal {
		return nil
	}
	delete(o.values, handle)

	var notifyErr error
	if p.changed && !c.valuesEqual(old, p.defaultValue) {
		notifyErr = c.notifyChanged(ctx, h, handle, old, p.defaultValue)
	}

	if err := c.freeValue(ctx, old); err != nil {
		return err
	}
	return notifyErr
}

func (c *Core) GetDefaultValue(ctx context.Context, handle moonbridge.PropertyHandle, kind moonbridge.Kind) (moonbridge.Value, error) {
	p, err := c.property(handle)
	if err != nil {
		return moonbridge.Value{}, err
	}
	return p.defaultValue, nil
}

// IsSet reports whether the object has a local value for the property.
func (c *Core) IsSet(h moonbridge.Handle, handle moonbridge.PropertyHandle) bool {
	o, ok := c.objects[h]
	if !ok {
		return false
	}
	_, ok = o.values[handle]
	return ok
}
