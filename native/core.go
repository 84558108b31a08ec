// Package native is a reference implementation of the native core the bridge
// talks to. Objects, types and properties live in Go maps; every payload a
// Value points at lives in a wazero linear memory, so allocation and
// ownership mistakes surface exactly as they would against a real core.
//
// Core is not safe for concurrent use.
package native

import (
	"context"
	"errors"
	"fmt"

	moonbridge "github.com/jerbob92/wazero-moonbridge/internal"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/multierr"
)

type typeInfo struct {
	name                 string
	parent               moonbridge.Kind
	interfaces           []moonbridge.Kind
	isInterface          bool
	defaultConstructible bool
}

type property struct {
	info         moonbridge.PropertyInfo
	defaultValue moonbridge.Value
	changed      bool
}

type object struct {
	kind   moonbridge.Kind
	refs   int
	values map[moonbridge.PropertyHandle]moonbridge.Value
}

type Option func(c *Core)

// WithABIVersion overrides the ABI version the core reports.
func WithABIVersion(version string) Option {
	return func(c *Core) {
		c.abiVersion = version
	}
}

// WithBuiltinTable replaces the embedded type and property table.
func WithBuiltinTable(data []byte) Option {
	return func(c *Core) {
		c.table = data
	}
}

type Core struct {
	runtime    wazero.Runtime
	mod        api.Module
	heap       *Heap
	abiVersion string
	table      []byte
	callbacks  moonbridge.Callbacks

	types      map[moonbridge.Kind]*typeInfo
	nextKind   moonbridge.Kind
	registered []string

	properties  []*property
	propByOwner map[moonbridge.Kind]map[string]moonbridge.PropertyHandle

	objects   map[moonbridge.Handle]*object
	listeners map[int32]Listener
	nextToken int32

	retains  int
	releases int
}

var _ moonbridge.NativeCore = (*Core)(nil)

func New(ctx context.Context, opts ...Option) (*Core, error) {
	c := &Core{
		abiVersion:  moonbridge.ABIVersion,
		table:       builtinTable,
		types:       map[moonbridge.Kind]*typeInfo{},
		nextKind:    moonbridge.KindLastBuiltin,
		propByOwner: map[moonbridge.Kind]map[string]moonbridge.PropertyHandle{},
		objects:     map[moonbridge.Handle]*object{},
		listeners:   map[int32]Listener{},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.runtime = wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfigInterpreter())
	mod, err := instantiateHeap(ctx, c.runtime)
	if err != nil {
		_ = c.runtime.Close(ctx)
		return nil, err
	}
	c.mod = mod
	c.heap = newHeap(mod.Memory())

	tables, err := parseBuiltinTables(c.table)
	if err == nil {
		err = c.loadBuiltins(ctx, tables)
	}
	if err != nil {
		_ = c.runtime.Close(ctx)
		return nil, err
	}

	return c, nil
}

func (c *Core) Close(ctx context.Context) error {
	return c.runtime.Close(ctx)
}

func (c *Core) ABIVersion() string {
	return c.abiVersion
}

func (c *Core) Memory() api.Memory {
	return c.mod.Memory()
}

func (c *Core) Heap() *Heap {
	return c.heap
}

func (c *Core) Malloc(ctx context.Context, size uint32) (uint32, error) {
	return c.heap.Malloc(size)
}

func (c *Core) Free(ctx context.Context, ptr uint32) error {
	return c.heap.Free(ptr)
}

func (c *Core) SetCallbacks(ctx context.Context, callbacks moonbridge.Callbacks) error {
	if callbacks.PropertyChanged == nil || callbacks.RetainManaged == nil || callbacks.ReleaseManaged == nil {
		return errors.New("property changed and managed retain/release callbacks are required")
	}
	c.callbacks = callbacks
	return nil
}

func (c *Core) RegisterType(ctx context.Context, name string, parent moonbridge.Kind, interfaces []moonbridge.Kind, isInterface, defaultConstructible bool) (moonbridge.Kind, error) {
	if name == "" {
		return moonbridge.KindInvalid, errors.New("type name is empty")
	}
	if parent != moonbridge.KindInvalid {
		if _, ok := c.types[parent]; !ok {
			return moonbridge.KindInvalid, fmt.Errorf("unknown parent kind %d", parent)
		}
	}
	for _, iface := range interfaces {
		info, ok := c.types[iface]
		if !ok || !info.isInterface {
			return moonbridge.KindInvalid, fmt.Errorf("kind %d is not an interface", iface)
		}
	}

	kind := c.nextKind
	c.nextKind++
	c.types[kind] = &typeInfo{
		name:                 name,
		parent:               parent,
		interfaces:           append([]moonbridge.Kind(nil), interfaces...),
		isInterface:          isInterface,
		defaultConstructible: defaultConstructible,
	}
	c.registered = append(c.registered, name)
	return kind, nil
}

// RegisteredTypes lists the names of types registered at run time, in
// registration order.
func (c *Core) RegisteredTypes() []string {
	return append([]string(nil), c.registered...)
}

func (c *Core) TypeParent(kind moonbridge.Kind) (moonbridge.Kind, bool) {
	info, ok := c.types[kind]
	if !ok || info.parent == moonbridge.KindInvalid {
		return moonbridge.KindInvalid, false
	}
	return info.parent, true
}

func (c *Core) TypeName(kind moonbridge.Kind) string {
	if info, ok := c.types[kind]; ok {
		return info.name
	}
	return kind.String()
}

// TypeInterfaces returns the interface kinds a registered type implements.
func (c *Core) TypeInterfaces(kind moonbridge.Kind) []moonbridge.Kind {
	if info, ok := c.types[kind]; ok {
		return info.interfaces
	}
	return nil
}

func (c *Core) derivesFrom(kind, ancestor moonbridge.Kind) bool {
	for kind != moonbridge.KindInvalid {
		if kind == ancestor {
			return true
		}
		info, ok := c.types[kind]
		if !ok {
			return false
		}
		kind = info.parent
	}
	return false
}

func (c *Core) TypeIsDependencyObject(kind moonbridge.Kind) bool {
	return c.derivesFrom(kind, moonbridge.KindDependencyObject)
}

func (c *Core) addProperty(info moonbridge.PropertyInfo, defaultValue moonbridge.Value) (moonbridge.PropertyHandle, error) {
	if _, ok := c.types[info.OwnerKind]; !ok {
		return 0, fmt.Errorf("unknown owner kind %d", info.OwnerKind)
	}

	byName, ok := c.propByOwner[info.OwnerKind]
	if !ok {
		byName = map[string]moonbridge.PropertyHandle{}
		c.propByOwner[info.OwnerKind] = byName
	}
	if _, ok := byName[info.Name]; ok {
		return 0, fmt.Errorf("property %s.%s is already registered", c.TypeName(info.OwnerKind), info.Name)
	}

	c.properties = append(c.properties, &property{info: info, defaultValue: defaultValue})
	handle := moonbridge.PropertyHandle(len(c.properties))
	byName[info.Name] = handle
	return handle, nil
}

func (c *Core) RegisterProperty(ctx context.Context, name string, propertyKind, ownerKind moonbridge.Kind, defaultValue *moonbridge.Value, attached, readOnly, nullable bool) (moonbridge.PropertyHandle, error) {
	if name == "" {
		return 0, errors.New("property name is empty")
	}

	def := moonbridge.NullValue(propertyKind)
	if defaultValue != nil {
		var err error
		if def, err = c.copyValue(ctx, *defaultValue); err != nil {
			return 0, fmt.Errorf("could not copy default value: %w", err)
		}
	}

	handle, err := c.addProperty(moonbridge.PropertyInfo{
		Name:      name,
		Kind:      propertyKind,
		OwnerKind: ownerKind,
		Attached:  attached,
		ReadOnly:  readOnly,
		Nullable:  nullable,
	}, def)
	if err != nil {
		_ = c.freeValue(ctx, def)
		return 0, err
	}
	return handle, nil
}

// LookupProperty searches ownerKind and then its ancestors.
func (c *Core) LookupProperty(ctx context.Context, ownerKind moonbridge.Kind, name string) (moonbridge.PropertyHandle, bool) {
	for kind := ownerKind; kind != moonbridge.KindInvalid; {
		if handle, ok := c.propByOwner[kind][name]; ok {
			return handle, true
		}
		info, ok := c.types[kind]
		if !ok {
			break
		}
		kind = info.parent
	}
	return 0, false
}

func (c *Core) property(handle moonbridge.PropertyHandle) (*property, error) {
	if handle == 0 || int(handle) > len(c.properties) {
		return nil, fmt.Errorf("invalid property handle %d", handle)
	}
	return c.properties[handle-1], nil
}

func (c *Core) PropertyInfo(handle moonbridge.PropertyHandle) (moonbridge.PropertyInfo, bool) {
	p, err := c.property(handle)
	if err != nil {
		return moonbridge.PropertyInfo{}, false
	}
	return p.info, true
}

func (c *Core) SetPropertyChangedCallback(ctx context.Context, handle moonbridge.PropertyHandle) error {
	p, err := c.property(handle)
	if err != nil {
		return err
	}
	p.changed = true
	return nil
}

// PropertyCount returns the number of registered properties.
func (c *Core) PropertyCount() int {
	return len(c.properties)
}

func (c *Core) CreateObject(ctx context.Context, kind moonbridge.Kind) (moonbridge.Handle, error) {
	if !c.TypeIsDependencyObject(kind) {
		return 0, fmt.Errorf("kind %s is not a dependency object", c.TypeName(kind))
	}
	if info := c.types[kind]; info.isInterface {
		return 0, fmt.Errorf("kind %s is an interface", info.name)
	}

	// The handle is a heap block holding the kind, so handles are unique
	// for as long as the object lives.
	ptr, err := c.heap.Malloc(8)
	if err != nil {
		return 0, err
	}
	c.Memory().WriteUint32Le(ptr, uint32(kind))

	h := moonbridge.Handle(ptr)
	c.objects[h] = &object{
		kind:   kind,
		refs:   1,
		values: map[moonbridge.PropertyHandle]moonbridge.Value{},
	}
	return h, nil
}

func (c *Core) object(h moonbridge.Handle) (*object, error) {
	o, ok := c.objects[h]
	if !ok {
		return nil, fmt.Errorf("invalid object handle %d", h)
	}
	return o, nil
}

func (c *Core) ObjectKind(h moonbridge.Handle) (moonbridge.Kind, error) {
	o, err := c.object(h)
	if err != nil {
		return moonbridge.KindInvalid, err
	}
	return o.kind, nil
}

func (c *Core) Retain(ctx context.Context, h moonbridge.Handle) error {
	o, err := c.object(h)
	if err != nil {
		return err
	}
	o.refs++
	c.retains++
	return nil
}

func (c *Core) Release(ctx context.Context, h moonbridge.Handle) error {
	o, err := c.object(h)
	if err != nil {
		return err
	}
	o.refs--
	c.releases++
	if o.refs > 0 {
		return nil
	}
	return c.destroy(ctx, h, o)
}

func (c *Core) destroy(ctx context.Context, h moonbridge.Handle, o *object) error {
	delete(c.objects, h)

	var errs []error
	for _, v := range o.values {
		errs = append(errs, c.freeValue(ctx, v))
	}
	errs = append(errs, c.heap.Free(uint32(h)))
	return multierr.Combine(errs...)
}

// Refs returns the reference count of a live object, 0 otherwise.
func (c *Core) Refs(h moonbridge.Handle) int {
	if o, ok := c.objects[h]; ok {
		return o.refs
	}
	return 0
}

func (c *Core) Retains() int {
	return c.retains
}

func (c *Core) Releases() int {
	return c.releases
}

func (c *Core) ObjectCount() int {
	return len(c.objects)
}
