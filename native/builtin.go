package native

import (
	"context"
	_ "embed"
	"fmt"
	"math"

	moonbridge "github.com/jerbob92/wazero-moonbridge/internal"
	"gopkg.in/yaml.v3"
)

//go:embed builtin.yaml
var builtinTable []byte

type builtinType struct {
	Name   string `yaml:"name"`
	Parent string `yaml:"parent"`
}

type builtinProperty struct {
	Owner    string `yaml:"owner"`
	Name     string `yaml:"name"`
	Kind     string `yaml:"kind"`
	Default  any    `yaml:"default"`
	Attached bool   `yaml:"attached"`
	ReadOnly bool   `yaml:"read_only"`
	Nullable bool   `yaml:"nullable"`
}

type builtinTables struct {
	Types      []builtinType     `yaml:"types"`
	Properties []builtinProperty `yaml:"properties"`
}

func parseBuiltinTables(data []byte) (*builtinTables, error) {
	var tables builtinTables
	if err := yaml.Unmarshal(data, &tables); err != nil {
		return nil, fmt.Errorf("could not parse builtin table: %w", err)
	}
	return &tables, nil
}

func kindByName(name string) (moonbridge.Kind, error) {
	k, ok := moonbridge.KindFromName(name)
	if !ok {
		return moonbridge.KindInvalid, fmt.Errorf("unknown kind %q", name)
	}
	return k, nil
}

func (c *Core) loadBuiltins(ctx context.Context, tables *builtinTables) error {
	for k := moonbridge.KindInvalid + 1; k < moonbridge.KindLastBuiltin; k++ {
		parent := moonbridge.KindObject
		if k == moonbridge.KindObject {
			parent = moonbridge.KindInvalid
		}
		c.types[k] = &typeInfo{name: k.String(), parent: parent}
	}

	for _, t := range tables.Types {
		k, err := kindByName(t.Name)
		if err != nil {
			return err
		}
		parent := moonbridge.KindInvalid
		if t.Parent != "" {
			if parent, err = kindByName(t.Parent); err != nil {
				return err
			}
		}
		c.types[k].parent = parent
	}

	for _, p := range tables.Properties {
		owner, err := kindByName(p.Owner)
		if err != nil {
			return err
		}
		kind, err := kindByName(p.Kind)
		if err != nil {
			return err
		}

		def, err := c.builtinDefault(ctx, kind, p.Default)
		if err != nil {
			return fmt.Errorf("invalid default for %s.%s: %w", p.Owner, p.Name, err)
		}

		_, err = c.addProperty(moonbridge.PropertyInfo{
			Name:      p.Name,
			Kind:      kind,
			OwnerKind: owner,
			Attached:  p.Attached,
			ReadOnly:  p.ReadOnly,
			Nullable:  p.Nullable,
		}, def)
		if err != nil {
			return err
		}
	}

	return nil
}

// builtinDefault builds the default Value of a builtin property. Struct
// kinds without a default get a zeroed block, reference kinds a null value.
func (c *Core) builtinDefault(ctx context.Context, kind moonbridge.Kind, raw any) (moonbridge.Value, error) {
	switch moonbridge.PayloadOf(kind) {
	case moonbridge.PayloadStruct:
		layout, _ := moonbridge.StructLayoutOf(kind)
		if s, ok := raw.(string); ok && len(layout.Strings) > 0 {
			block, err := c.Malloc(ctx, layout.Size)
			if err != nil {
				return moonbridge.Value{}, err
			}
			str, err := moonbridge.WriteCString(ctx, c, c.Memory(), s)
			if err != nil {
				return moonbridge.Value{}, err
			}
			c.Memory().WriteUint32Le(block+layout.Strings[0], str)
			return moonbridge.Value{K: kind, U: uint64(block)}, nil
		}
		block, err := c.Malloc(ctx, layout.Size)
		if err != nil {
			return moonbridge.Value{}, err
		}
		return moonbridge.Value{K: kind, U: uint64(block)}, nil
	case moonbridge.PayloadString:
		s, ok := raw.(string)
		if !ok {
			return moonbridge.NullValue(kind), nil
		}
		ptr, err := moonbridge.WriteCString(ctx, c, c.Memory(), s)
		if err != nil {
			return moonbridge.Value{}, err
		}
		return moonbridge.Value{K: kind, U: uint64(ptr)}, nil
	case moonbridge.PayloadObject, moonbridge.PayloadManaged, moonbridge.PayloadProperty:
		return moonbridge.NullValue(kind), nil
	}

	switch kind {
	case moonbridge.KindBool:
		b, _ := raw.(bool)
		if b {
			return moonbridge.Value{K: kind, U: 1}, nil
		}
		return moonbridge.Value{K: kind}, nil
	case moonbridge.KindDouble:
		switch f := raw.(type) {
		case float64:
			return moonbridge.Value{K: kind, U: math.Float64bits(f)}, nil
		case int:
			return moonbridge.Value{K: kind, U: math.Float64bits(float64(f))}, nil
		}
		return moonbridge.Value{K: kind}, nil
	case moonbridge.KindInt32:
		i, _ := raw.(int)
		return moonbridge.Value{K: kind, U: uint64(uint32(int32(i)))}, nil
	}

	return moonbridge.Value{K: kind}, nil
}
