package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// confirmDialog shows a question with an optional detail block and two
// answers. Arrow keys and tab toggle, y and n answer directly, enter
// commits the highlighted answer.
type confirmDialog struct {
	app      *Model
	title    string
	body     string
	question string
	yes      bool
	choose   func(yes bool) tea.Cmd
}

func newConfirm(app *Model, title, body, question string, def bool, choose func(yes bool) tea.Cmd) *confirmDialog {
	return &confirmDialog{app: app, title: title, body: body, question: question, yes: def, choose: choose}
}

func (d *confirmDialog) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch keyMsg.String() {
	case "left", "right", "tab", "h", "l":
		d.yes = !d.yes
	case "y", "Y":
		return d.choose(true)
	case "n", "N":
		return d.choose(false)
	default:
		if key.Matches(keyMsg, d.app.keys.choose) {
			return d.choose(d.yes)
		}
	}
	return nil
}

func (d *confirmDialog) View() string {
	st := d.app.styles
	var b strings.Builder

	b.WriteString(st.title.Render(d.title))
	b.WriteString("\n\n")
	if d.body != "" {
		b.WriteString(st.panel.Render(d.body))
		b.WriteString("\n\n")
	}
	b.WriteString(st.value.Render(d.question))
	b.WriteString("\n\n")

	yes, no := "  yes  ", "  no  "
	if d.yes {
		b.WriteString(st.selected.Render(yes))
		b.WriteString("  ")
		b.WriteString(st.item.Render(no))
	} else {
		b.WriteString(st.item.Render(yes))
		b.WriteString("  ")
		b.WriteString(st.selected.Render(no))
	}
	b.WriteString("\n\n")
	b.WriteString(st.hint.Render("←/→ toggle · y/n answer · enter confirm · esc back"))
	return b.String()
}
