package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"go.uber.org/multierr"

	moonbridge "github.com/jerbob92/wazero-moonbridge"
	"github.com/jerbob92/wazero-moonbridge/controls"
	"github.com/jerbob92/wazero-moonbridge/native"
)

type snapshot struct {
	abi        string
	types      []typeRow
	properties []propertyRow
}

type typeRow struct {
	name       string
	kind       string
	parent     string
	interfaces []string
	builtin    bool
}

type propertyRow struct {
	owner        string
	name         string
	kind         string
	propertyType string
	defaultValue string
	attached     bool
	readOnly     bool
}

func (r propertyRow) flags() string {
	var flags []string
	if r.attached {
		flags = append(flags, "attached")
	}
	if r.readOnly {
		flags = append(flags, "read-only")
	}
	return strings.Join(flags, ",")
}

// inspect starts a bridge against the reference native core, registers the
// controls and collects every type and property it knows about.
func inspect(ctx context.Context, config moonbridge.Config) (snap *snapshot, err error) {
	core, err := native.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("start native core: %w", err)
	}
	defer func() {
		err = multierr.Append(err, core.Close(ctx))
	}()

	b, err := moonbridge.CreateBridge(ctx, core, config)
	if err != nil {
		return nil, fmt.Errorf("create bridge: %w", err)
	}
	defer func() {
		err = multierr.Append(err, b.Close(ctx))
	}()

	if err := controls.Register(ctx, b); err != nil {
		return nil, err
	}

	snap = &snapshot{abi: core.ABIVersion()}

	for _, d := range b.Types() {
		row := typeRow{
			name:    d.Type.FullName(),
			kind:    core.TypeName(d.Kind),
			builtin: d.Kind.IsBuiltin(),
		}
		if d.Parent != nil {
			row.parent = d.Parent.Type.FullName()
		}
		for _, k := range d.Interfaces {
			row.interfaces = append(row.interfaces, core.TypeName(k))
		}
		snap.types = append(snap.types, row)
	}

	for h := 1; h <= core.PropertyCount(); h++ {
		prop, err := b.PropertyFromHandle(moonbridge.PropertyHandle(h))
		if err != nil {
			return nil, err
		}

		row := propertyRow{
			owner:        core.TypeName(prop.OwnerKind()),
			name:         prop.Name,
			kind:         prop.Kind().String(),
			propertyType: prop.PropertyType.Name,
			attached:     prop.IsAttached(),
			readOnly:     prop.IsReadOnly(),
		}

		def, err := b.GetDefaultValue(ctx, prop, nil)
		switch {
		case err != nil:
			row.defaultValue = "error: " + err.Error()
		case def == nil:
			row.defaultValue = "null"
		default:
			row.defaultValue = fmt.Sprint(def)
		}
		snap.properties = append(snap.properties, row)
	}

	sort.SliceStable(snap.types, func(i, j int) bool {
		return snap.types[i].name < snap.types[j].name
	})
	sort.SliceStable(snap.properties, func(i, j int) bool {
		if snap.properties[i].owner == snap.properties[j].owner {
			return snap.properties[i].name < snap.properties[j].name
		}
		return snap.properties[i].owner < snap.properties[j].owner
	})

	return snap, nil
}

func (s *snapshot) typeRows() [][]string {
	rows := make([][]string, 0, len(s.types))
	for _, t := range s.types {
		rows = append(rows, []string{t.name, t.kind, t.parent, strings.Join(t.interfaces, ", ")})
	}
	return rows
}

func (s *snapshot) propertyRows() [][]string {
	rows := make([][]string, 0, len(s.properties))
	for _, p := range s.properties {
		rows = append(rows, []string{p.owner, p.name, p.kind, p.propertyType, p.defaultValue, p.flags()})
	}
	return rows
}

var (
	typeHeaders     = []string{"Type", "Kind", "Parent", "Interfaces"}
	propertyHeaders = []string{"Owner", "Property", "Kind", "Type", "Default", "Flags"}
)

// filterRows keeps the rows that contain query in any cell, ignoring case.
func filterRows(rows [][]string, query string) [][]string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return rows
	}

	var out [][]string
	for _, row := range rows {
		for _, cell := range row {
			if strings.Contains(strings.ToLower(cell), query) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

func renderDump(s *snapshot, filter string) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("moonbridge"))
	b.WriteString(" native ABI ")
	b.WriteString(s.abi)
	b.WriteString("\n\n")

	b.WriteString(dumpTable(typeHeaders, filterRows(s.typeRows(), filter)))
	b.WriteString("\n\n")
	b.WriteString(dumpTable(propertyHeaders, filterRows(s.propertyRows(), filter)))

	return b.String()
}

func dumpTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(helpStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}
