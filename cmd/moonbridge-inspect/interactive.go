package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#87CEEB")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98")).
			Padding(0, 1)

	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type tab int

const (
	tabTypes tab = iota
	tabProperties
)

var tabNames = []string{"Types", "Properties"}

type inspectModel struct {
	snap      *snapshot
	active    tab
	tables    [2]table.Model
	rows      [2][][]string
	filter    textinput.Model
	filtering bool
}

func newInspectModel(snap *snapshot, filter string) *inspectModel {
	m := &inspectModel{
		snap: snap,
		rows: [2][][]string{snap.typeRows(), snap.propertyRows()},
	}

	m.filter = textinput.New()
	m.filter.Prompt = "/"
	m.filter.Placeholder = "filter"
	m.filter.Width = 40
	m.filter.SetValue(filter)

	styles := table.DefaultStyles()
	styles.Header = headerStyle
	styles.Selected = activeTabStyle.Padding(0)

	m.tables[tabTypes] = table.New(
		table.WithColumns(columns(typeHeaders, []int{44, 18, 36, 20})),
		table.WithFocused(true),
		table.WithHeight(20),
		table.WithStyles(styles),
	)
	m.tables[tabProperties] = table.New(
		table.WithColumns(columns(propertyHeaders, []int{18, 22, 16, 20, 28, 18})),
		table.WithHeight(20),
		table.WithStyles(styles),
	)
	m.applyFilter()

	return m
}

func columns(headers []string, widths []int) []table.Column {
	cols := make([]table.Column, len(headers))
	for i := range headers {
		cols[i] = table.Column{Title: headers[i], Width: widths[i]}
	}
	return cols
}

func (m *inspectModel) applyFilter() {
	for i := range m.tables {
		filtered := filterRows(m.rows[i], m.filter.Value())
		rows := make([]table.Row, len(filtered))
		for r := range filtered {
			rows[r] = table.Row(filtered[r])
		}
		m.tables[i].SetRows(rows)
		m.tables[i].SetCursor(0)
	}
}

func (m *inspectModel) Init() tea.Cmd {
	return nil
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		for i := range m.tables {
			m.tables[i].SetHeight(max(msg.Height-10, 3))
		}
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			switch msg.String() {
			case "enter":
				m.filtering = false
				m.filter.Blur()
				return m, nil
			case "esc":
				m.filtering = false
				m.filter.Blur()
				m.filter.SetValue("")
				m.applyFilter()
				return m, nil
			}

			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.applyFilter()
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "tab":
			m.tables[m.active].Blur()
			m.active = (m.active + 1) % tab(len(tabNames))
			m.tables[m.active].Focus()
			return m, nil

		case "/":
			m.filtering = true
			return m, m.filter.Focus()
		}
	}

	var cmd tea.Cmd
	m.tables[m.active], cmd = m.tables[m.active].Update(msg)
	return m, cmd
}

func (m *inspectModel) selectedDetail() string {
	row := m.tables[m.active].SelectedRow()
	if row == nil {
		return ""
	}

	switch m.active {
	case tabTypes:
		for _, t := range m.snap.types {
			if t.name != row[0] {
				continue
			}
			origin := "registered at run time"
			if t.builtin {
				origin = "builtin"
			}
			return fmt.Sprintf("%s is %s kind %s", t.name, origin, t.kind)
		}
	case tabProperties:
		for _, p := range m.snap.properties {
			if p.owner != row[0] || p.name != row[1] {
				continue
			}
			return fmt.Sprintf("%s.%s defaults to %s", p.owner, p.name, p.defaultValue)
		}
	}
	return ""
}

func (m *inspectModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("moonbridge inspector"))
	b.WriteString(" native ABI ")
	b.WriteString(m.snap.abi)
	b.WriteString("\n\n")

	for i, name := range tabNames {
		label := fmt.Sprintf("%s (%d)", name, len(m.tables[i].Rows()))
		if tab(i) == m.active {
			b.WriteString(activeTabStyle.Render(label))
		} else {
			b.WriteString(tabStyle.Render(label))
		}
		b.WriteString(" ")
	}
	b.WriteString("\n\n")

	b.WriteString(m.tables[m.active].View())
	b.WriteString("\n\n")

	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}
	b.WriteString(detailStyle.Render(m.selectedDetail()))
	b.WriteString("\n\n")

	if m.filtering {
		b.WriteString(helpStyle.Render("enter apply • esc clear"))
	} else {
		b.WriteString(helpStyle.Render("↑/↓ select • tab switch table • / filter • q quit"))
	}

	return b.String()
}
