package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"remora/internal/config"
	"remora/internal/logging"
)

// noticeScreen shows a static block of text until dismissed.
type noticeScreen struct {
	app   *Model
	title string
	body  string
	isErr bool
}

func newNotice(app *Model, title, body string, isErr bool) *noticeScreen {
	return &noticeScreen{app: app, title: title, body: body, isErr: isErr}
}

func (n *noticeScreen) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, n.app.keys.choose) {
		n.app.pop()
	}
	return nil
}

func (n *noticeScreen) View() string {
	st := n.app.styles
	var b strings.Builder

	if n.isErr {
		b.WriteString(st.errText.Render(n.title))
	} else {
		b.WriteString(st.title.Render(n.title))
	}
	b.WriteString("\n\n")
	b.WriteString(st.panel.Render(n.body))
	b.WriteString("\n\n")
	b.WriteString(st.hint.Render("enter/esc back"))
	return b.String()
}

func helpScreen(app *Model) *noticeScreen {
	body := strings.TrimSpace(`
Navigation
  ↑/↓ or k/j      move
  enter           choose / submit
  esc             one screen back
  ctrl+c          quit from anywhere
  1-6, letters    jump straight to a menu entry

Downloads
  Paste a URL, confirm the summary, watch the task board.
  Manual mode lists every format the site offers first.
  Cookies: drop <domain>.ck files into the cookie directory;
  raw "k=v; k2=v2" dumps are converted automatically.

Batch
  A plain text file, one URL per line, # starts a comment.

Transcode
  Pick a local file, a preset (built-in or from presets.toml),
  and where to write the result. Transcodes run one at a time.

Task board
  c cancels the selected task, o opens a finished result.
`)
	return newNotice(app, "Help", body, false)
}

func aboutScreen(app *Model) *noticeScreen {
	configPath, _ := config.ConfigPath()
	var b strings.Builder
	b.WriteString("remora — download and convert video from the terminal\n\n")
	b.WriteString("Downloads run through yt-dlp, conversions through ffmpeg.\n")
	b.WriteString("Run `remora doctor` if either tool is missing.\n\n")
	b.WriteString("config  " + configPath + "\n")
	b.WriteString("log     " + logging.Path())
	return newNotice(app, "About", b.String(), false)
}
