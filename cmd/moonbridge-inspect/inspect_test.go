package main

import (
	tea "github.com/charmbracelet/bubbletea"

	moonbridge "github.com/jerbob92/wazero-moonbridge"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Inspector", func() {
	var snap *snapshot

	BeforeEach(func() {
		var err error
		snap, err = inspect(ctx, moonbridge.NewConfig())
		Expect(err).To(BeNil())
	})

	It("lists builtin and registered types", func() {
		var names []string
		for _, t := range snap.types {
			names = append(names, t.name)
		}
		Expect(names).To(ContainElements("Object", "DependencyObject", "System.Windows:UIElement", "System.Windows.Controls.Primitives:RangeBase"))

		for _, t := range snap.types {
			if t.name == "System.Windows.Controls.Primitives:RangeBase" {
				Expect(t.builtin).To(BeFalse())
				Expect(t.parent).To(Equal("System.Windows.Controls:Control"))
			}
		}
	})

	It("lists every native property with its default", func() {
		Expect(snap.properties).To(ContainElement(propertyRow{
			owner:        "UIELEMENT",
			name:         "Opacity",
			kind:         "DOUBLE",
			propertyType: "Double",
			defaultValue: "1",
		}))

		found := false
		for _, p := range snap.properties {
			if p.owner == "CANVAS" && p.name == "Left" {
				found = true
				Expect(p.flags()).To(Equal("attached"))
			}
		}
		Expect(found).To(BeTrue())
	})

	It("filters rows ignoring case", func() {
		rows := filterRows(snap.propertyRows(), "opacity")
		Expect(rows).To(HaveLen(1))
		Expect(rows[0][1]).To(Equal("Opacity"))

		Expect(filterRows(snap.propertyRows(), " ")).To(HaveLen(len(snap.properties)))
	})

	It("dumps both tables", func() {
		out := renderDump(snap, "")
		Expect(out).To(ContainSubstring("Opacity"))
		Expect(out).To(ContainSubstring("RangeBase"))
		Expect(out).To(ContainSubstring(snap.abi))

		out = renderDump(snap, "FontFamily")
		Expect(out).To(ContainSubstring("Portable User Interface"))
		Expect(out).ToNot(ContainSubstring("Opacity"))
	})

	When("browsing", func() {
		key := func(s string) tea.KeyMsg {
			return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
		}

		It("switches tables", func() {
			m := newInspectModel(snap, "")
			Expect(m.active).To(Equal(tabTypes))

			m.Update(tea.KeyMsg{Type: tea.KeyTab})
			Expect(m.active).To(Equal(tabProperties))
			Expect(m.View()).To(ContainSubstring("defaults to"))

			m.Update(tea.KeyMsg{Type: tea.KeyTab})
			Expect(m.active).To(Equal(tabTypes))
		})

		It("filters while typing", func() {
			m := newInspectModel(snap, "")
			m.Update(key("/"))
			Expect(m.filtering).To(BeTrue())

			for _, r := range "canvas" {
				m.Update(key(string(r)))
			}
			Expect(m.filter.Value()).To(Equal("canvas"))
			Expect(len(m.tables[tabTypes].Rows())).To(BeNumerically("<", len(snap.types)))

			m.Update(tea.KeyMsg{Type: tea.KeyEsc})
			Expect(m.filtering).To(BeFalse())
			Expect(m.tables[tabTypes].Rows()).To(HaveLen(len(snap.types)))
		})

		It("quits", func() {
			m := newInspectModel(snap, "")
			_, cmd := m.Update(key("q"))
			Expect(cmd).ToNot(BeNil())
			Expect(cmd()).To(Equal(tea.Quit()))
		})
	})
})
