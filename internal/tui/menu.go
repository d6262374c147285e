package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// menuItem is one menu row. Header and divider rows render but are
// never selectable.
type menuItem struct {
	label    string
	shortcut string // single printable key that activates the entry
	header   bool
	divider  bool
	action   func() tea.Cmd
}

func menuHeader(label string) menuItem { return menuItem{label: label, header: true} }
func menuDivider() menuItem            { return menuItem{divider: true} }

// menu is a titled list with section headers, shortcut keys, wrap
// around navigation and scrolling. The cursor sits on a selectable
// item whenever one exists.
type menu struct {
	app   *Model
	title string
	hint  string
	items []menuItem

	cursor int
	offset int
}

func newMenu(app *Model, title, hint string, items []menuItem) *menu {
	m := &menu{app: app, title: title, hint: hint, items: items, cursor: -1}
	for i, it := range items {
		if it.selectable() {
			m.cursor = i
			break
		}
	}
	return m
}

func (it menuItem) selectable() bool { return !it.header && !it.divider && it.action != nil }

func (m *menu) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case key.Matches(keyMsg, m.app.keys.up):
		m.move(-1)
	case key.Matches(keyMsg, m.app.keys.down):
		m.move(1)
	case key.Matches(keyMsg, m.app.keys.choose):
		if m.cursor >= 0 {
			return m.items[m.cursor].action()
		}
	default:
		pressed := keyMsg.String()
		for i, it := range m.items {
			if it.selectable() && it.shortcut != "" && it.shortcut == pressed {
				m.cursor = i
				m.scrollIntoView()
				return it.action()
			}
		}
	}
	return nil
}

// move advances the cursor by step, skipping headers and dividers and
// wrapping at either end.
func (m *menu) move(step int) {
	if m.cursor < 0 {
		return
	}
	i := m.cursor
	for range m.items {
		i = (i + step + len(m.items)) % len(m.items)
		if m.items[i].selectable() {
			m.cursor = i
			m.scrollIntoView()
			return
		}
	}
}

func (m *menu) visibleRows() int {
	rows := m.app.height - 6 // title, blank, hint and padding
	if rows < 3 {
		rows = 3
	}
	return rows
}

func (m *menu) scrollIntoView() {
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

func (m *menu) View() string {
	st := m.app.styles
	var b strings.Builder

	b.WriteString(st.title.Render(m.title))
	b.WriteString("\n\n")

	rows := m.visibleRows()
	end := m.offset + rows
	if end > len(m.items) {
		end = len(m.items)
	}
	for i := m.offset; i < end; i++ {
		it := m.items[i]
		switch {
		case it.divider:
			b.WriteString(st.divider.Render(strings.Repeat("─", 32)))
		case it.header:
			b.WriteString(st.header.Render(it.label))
		default:
			line := "  "
			if it.shortcut != "" {
				line = st.shortcut.Render(it.shortcut) + " "
			}
			line += it.label
			if i == m.cursor {
				b.WriteString(st.selected.Render("> " + line))
			} else {
				b.WriteString(st.item.Render("  " + line))
			}
		}
		b.WriteString("\n")
	}

	if m.offset > 0 || end < len(m.items) {
		b.WriteString(st.hint.Render("…"))
		b.WriteString("\n")
	}
	if m.hint != "" {
		b.WriteString("\n")
		b.WriteString(st.hint.Render(m.hint))
	}
	return b.String()
}
