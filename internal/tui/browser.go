package tui

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
)

// fileBrowser wraps the file picker for choosing an existing file,
// optionally restricted to a set of extensions. With dirs set, enter
// on a directory picks it instead of descending (→ still opens).
type fileBrowser struct {
	app    *Model
	title  string
	picker filepicker.Model
	pick   func(path string) tea.Cmd
	errMsg string
}

func newFileBrowser(app *Model, title, startDir string, exts []string, dirs bool, pick func(string) tea.Cmd) *fileBrowser {
	picker := filepicker.New()
	picker.CurrentDirectory = startDir
	if picker.CurrentDirectory == "" {
		if home, err := os.UserHomeDir(); err == nil {
			picker.CurrentDirectory = home
		} else {
			picker.CurrentDirectory = "."
		}
	}
	picker.AllowedTypes = exts
	picker.DirAllowed = dirs
	picker.FileAllowed = true
	picker.ShowHidden = false
	picker.Height = app.listHeight()
	return &fileBrowser{app: app, title: title, picker: picker, pick: pick}
}

func (f *fileBrowser) init() tea.Cmd { return f.picker.Init() }

func (f *fileBrowser) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(tea.WindowSizeMsg); ok {
		f.picker.Height = f.app.listHeight()
	}

	var cmd tea.Cmd
	f.picker, cmd = f.picker.Update(msg)

	if didSelect, path := f.picker.DidSelectFile(msg); didSelect {
		return tea.Batch(cmd, f.pick(path))
	}
	if didSelect, path := f.picker.DidSelectDisabledFile(msg); didSelect {
		f.errMsg = filepath.Base(path) + " cannot be selected here"
	}
	return cmd
}

func (f *fileBrowser) View() string {
	st := f.app.styles
	var b strings.Builder

	b.WriteString(st.title.Render(f.title))
	b.WriteString("\n")
	b.WriteString(st.label.Render(f.picker.CurrentDirectory))
	b.WriteString("\n\n")
	b.WriteString(f.picker.View())
	b.WriteString("\n")
	if f.errMsg != "" {
		b.WriteString(st.errText.Render("✗ " + f.errMsg))
		b.WriteString("\n")
	}
	b.WriteString(st.hint.Render("↑/↓ move · →/enter open or pick · ← up · esc back"))
	return b.String()
}
