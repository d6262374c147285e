package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// selectList presents rows of pre-formatted text and reports the index
// the user picks. An optional header row is pinned above the window.
type selectList struct {
	app    *Model
	title  string
	header string
	rows   []string
	hint   string
	choose func(i int) tea.Cmd

	cursor int
	offset int
}

func newSelectList(app *Model, title, header string, rows []string, choose func(i int) tea.Cmd) *selectList {
	return &selectList{app: app, title: title, header: header, rows: rows, choose: choose}
}

func (s *selectList) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if len(s.rows) == 0 {
		return nil
	}

	page := s.visibleRows()
	switch {
	case key.Matches(keyMsg, s.app.keys.up):
		s.cursor--
	case key.Matches(keyMsg, s.app.keys.down):
		s.cursor++
	case key.Matches(keyMsg, s.app.keys.pgUp):
		s.cursor -= page
	case key.Matches(keyMsg, s.app.keys.pgDown):
		s.cursor += page
	case key.Matches(keyMsg, s.app.keys.top):
		s.cursor = 0
	case key.Matches(keyMsg, s.app.keys.bottom):
		s.cursor = len(s.rows) - 1
	case key.Matches(keyMsg, s.app.keys.choose):
		if s.choose != nil {
			return s.choose(s.cursor)
		}
		return nil
	default:
		return nil
	}

	s.clamp()
	s.scrollIntoView()
	return nil
}

func (s *selectList) clamp() {
	if s.cursor < 0 {
		s.cursor = 0
	}
	if s.cursor > len(s.rows)-1 {
		s.cursor = len(s.rows) - 1
	}
}

func (s *selectList) visibleRows() int {
	rows := s.app.height - 7
	if s.header != "" {
		rows--
	}
	if rows < 3 {
		rows = 3
	}
	return rows
}

func (s *selectList) scrollIntoView() {
	rows := s.visibleRows()
	if s.cursor < s.offset {
		s.offset = s.cursor
	}
	if s.cursor >= s.offset+rows {
		s.offset = s.cursor - rows + 1
	}
}

func (s *selectList) View() string {
	st := s.app.styles
	var b strings.Builder

	b.WriteString(st.title.Render(s.title))
	b.WriteString("\n\n")
	if s.header != "" {
		b.WriteString(st.header.Render("    " + s.header))
		b.WriteString("\n")
	}

	if len(s.rows) == 0 {
		b.WriteString(st.hint.Render("  (nothing to show)"))
		b.WriteString("\n")
	}

	rows := s.visibleRows()
	end := s.offset + rows
	if end > len(s.rows) {
		end = len(s.rows)
	}
	for i := s.offset; i < end; i++ {
		if i == s.cursor {
			b.WriteString(st.selected.Render("  > " + s.rows[i]))
		} else {
			b.WriteString(st.item.Render("    " + s.rows[i]))
		}
		b.WriteString("\n")
	}
	if s.offset > 0 || end < len(s.rows) {
		b.WriteString(st.hint.Render("    …"))
		b.WriteString("\n")
	}

	hint := s.hint
	if hint == "" {
		hint = "enter choose · esc back"
	}
	b.WriteString("\n")
	b.WriteString(st.hint.Render(hint))
	return b.String()
}
