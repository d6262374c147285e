package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"remora/internal/logging"
)

// logView shows the log file in a viewport. 5 and 0 switch between the
// last 50 and last 100 lines, a shows the whole file.
type logView struct {
	app  *Model
	vp   viewport.Model
	tail int // 0 means everything
	err  string
}

func newLogView(app *Model) *logView {
	v := &logView{app: app, tail: 50}
	v.vp = viewport.New(app.contentWidth(), app.listHeight())
	v.reload()
	return v
}

func (v *logView) reload() {
	data, err := os.ReadFile(logging.Path())
	if err != nil {
		v.err = "cannot read log: " + err.Error()
		v.vp.SetContent("")
		return
	}
	v.err = ""
	v.vp.SetContent(tailLines(string(data), v.tail))
	v.vp.GotoBottom()
}

func (v *logView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.vp.Width = v.app.contentWidth()
		v.vp.Height = v.app.listHeight()
		return nil
	case tea.KeyMsg:
		switch msg.String() {
		case "5":
			v.tail = 50
			v.reload()
			return nil
		case "0":
			v.tail = 100
			v.reload()
			return nil
		case "a":
			v.tail = 0
			v.reload()
			return nil
		case "r":
			v.reload()
			return nil
		case "g":
			v.vp.GotoTop()
			return nil
		case "G":
			v.vp.GotoBottom()
			return nil
		}
	}
	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	return cmd
}

func (v *logView) View() string {
	st := v.app.styles
	var b strings.Builder

	label := "all"
	switch v.tail {
	case 50:
		label = "last 50"
	case 100:
		label = "last 100"
	}
	b.WriteString(st.title.Render("Log"))
	b.WriteString(" ")
	b.WriteString(st.hint.Render("(" + label + ")"))
	b.WriteString("\n\n")

	if v.err != "" {
		b.WriteString(st.errText.Render(v.err))
		b.WriteString("\n")
	} else {
		b.WriteString(v.vp.View())
		b.WriteString("\n")
	}
	b.WriteString(st.hint.Render("5 last 50 · 0 last 100 · a all · r reload · g/G top/bottom · esc back"))
	return b.String()
}

// tailLines keeps the last n lines of s; n <= 0 keeps everything.
func tailLines(s string, n int) string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return ""
	}
	if n <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
