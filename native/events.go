package native

import (
	"context"
	"errors"
	"fmt"

	moonbridge "github.com/jerbob92/wazero-moonbridge/internal"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/multierr"
)

// Listener receives the arguments of an event raised by managed code. args
// is only valid for the duration of the call.
type Listener func(ctx context.Context, args moonbridge.Value) error

// callBoundary invokes a bridge callback with an error record appended to
// params and turns a non-zero result code into a *moonbridge.MoonError.
func (c *Core) callBoundary(ctx context.Context, fn api.GoModuleFunction, name string, params ...uint64) error {
	if fn == nil {
		return fmt.Errorf("no %s callback installed", name)
	}

	errPtr, err := c.heap.Malloc(moonbridge.MoonErrorSize)
	if err != nil {
		return err
	}
	defer c.heap.Free(errPtr)

	stack := append(params, api.EncodeU32(errPtr))
	fn.Call(ctx, c.mod, stack)

	code := moonbridge.MoonErrorCode(api.DecodeI32(stack[0]))
	if code == moonbridge.MoonErrorNone {
		return nil
	}

	moonErr := &moonbridge.MoonError{Code: code}
	msgPtr, _ := c.Memory().ReadUint32Le(errPtr + 4)
	if msgPtr != 0 {
		moonErr.Message, _ = moonbridge.ReadCString(c.Memory(), msgPtr)
		_ = c.heap.Free(msgPtr)
	}
	return moonErr
}

// scratchValue copies v into a fresh heap slot so it can be passed by
// address.
func (c *Core) scratchValue(v moonbridge.Value) (uint32, error) {
	ptr, err := c.heap.Malloc(moonbridge.ValueSize)
	if err != nil {
		return 0, err
	}
	if err := moonbridge.WriteValue(c.Memory(), ptr, v); err != nil {
		_ = c.heap.Free(ptr)
		return 0, err
	}
	return ptr, nil
}

func (c *Core) notifyChanged(ctx context.Context, h moonbridge.Handle, handle moonbridge.PropertyHandle, old, cur moonbridge.Value) error {
	oldPtr, err := c.scratchValue(old)
	if err != nil {
		return err
	}
	defer c.heap.Free(oldPtr)

	newPtr, err := c.scratchValue(cur)
	if err != nil {
		return err
	}
	defer c.heap.Free(newPtr)

	return c.callBoundary(ctx, c.callbacks.PropertyChanged, "property changed",
		api.EncodeU32(uint32(h)),
		api.EncodeU32(uint32(handle)),
		api.EncodeU32(oldPtr),
		api.EncodeU32(newPtr),
	)
}

func (c *Core) withName(ctx context.Context, name string, fn func(namePtr uint32) error) error {
	namePtr, err := moonbridge.WriteCString(ctx, c, c.Memory(), name)
	if err != nil {
		return err
	}
	defer c.heap.Free(namePtr)
	return fn(namePtr)
}

// Subscribe asks the bridge to forward the named managed event of obj to l.
// The returned token identifies the subscription.
func (c *Core) Subscribe(ctx context.Context, h moonbridge.Handle, event string, l Listener) (int32, error) {
	if l == nil {
		return 0, errors.New("listener is nil")
	}

	c.nextToken++
	token := c.nextToken
	c.listeners[token] = l

	err := c.withName(ctx, event, func(namePtr uint32) error {
		return c.callBoundary(ctx, c.callbacks.AddEvent, "add event",
			api.EncodeU32(uint32(h)),
			api.EncodeU32(namePtr),
			api.EncodeI32(token),
		)
	})
	if err != nil {
		delete(c.listeners, token)
		return 0, err
	}
	return token, nil
}

func (c *Core) Unsubscribe(ctx context.Context, h moonbridge.Handle, event string, token int32) error {
	err := c.withName(ctx, event, func(namePtr uint32) error {
		return c.callBoundary(ctx, c.callbacks.RemoveEvent, "remove event",
			api.EncodeU32(uint32(h)),
			api.EncodeU32(namePtr),
			api.EncodeI32(token),
		)
	})
	delete(c.listeners, token)
	return err
}

func (c *Core) EmitEvent(ctx context.Context, h moonbridge.Handle, token int32, args *moonbridge.Value) error {
	if _, err := c.object(h); err != nil {
		return err
	}
	l, ok := c.listeners[token]
	if !ok {
		return fmt.Errorf("no listener with token %d", token)
	}

	v := moonbridge.NullValue(moonbridge.KindInvalid)
	if args != nil {
		v = *args
	}
	return l(ctx, v)
}

// GetManagedProperty reads a property implemented in managed code. The
// returned Value is owned by the caller; release it with FreeValue.
func (c *Core) GetManagedProperty(ctx context.Context, h moonbridge.Handle, name string) (moonbridge.Value, error) {
	resultPtr, err := c.heap.Malloc(moonbridge.ValueSize)
	if err != nil {
		return moonbridge.Value{}, err
	}
	defer c.heap.Free(resultPtr)

	err = c.withName(ctx, name, func(namePtr uint32) error {
		return c.callBoundary(ctx, c.callbacks.GetProperty, "get property",
			api.EncodeU32(uint32(h)),
			api.EncodeU32(namePtr),
			api.EncodeU32(resultPtr),
		)
	})
	if err != nil {
		return moonbridge.Value{}, err
	}
	return moonbridge.ReadValue(c.Memory(), resultPtr)
}

// SetManagedProperty writes a property implemented in managed code. v stays
// owned by the caller.
func (c *Core) SetManagedProperty(ctx context.Context, h moonbridge.Handle, name string, v moonbridge.Value) (err error) {
	valuePtr, err := c.scratchValue(v)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, c.heap.Free(valuePtr))
	}()

	return c.withName(ctx, name, func(namePtr uint32) error {
		return c.callBoundary(ctx, c.callbacks.SetProperty, "set property",
			api.EncodeU32(uint32(h)),
			api.EncodeU32(namePtr),
			api.EncodeU32(valuePtr),
		)
	})
}
