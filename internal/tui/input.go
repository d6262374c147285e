package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// inputDialog asks for one line of text. Validation runs when the user
// submits; the error is shown inline and cleared on the next keystroke.
type inputDialog struct {
	app      *Model
	title    string
	prompt   string
	field    textinput.Model
	validate func(string) error
	submit   func(string) tea.Cmd
	hint     string
	errMsg   string
}

func newInput(app *Model, title, prompt, placeholder, initial string, validate func(string) error, submit func(string) tea.Cmd) *inputDialog {
	field := textinput.New()
	field.Placeholder = placeholder
	field.SetValue(initial)
	field.CursorEnd()
	field.Focus()
	field.Width = 58
	return &inputDialog{
		app:      app,
		title:    title,
		prompt:   prompt,
		field:    field,
		validate: validate,
		submit:   submit,
	}
}

func (d *inputDialog) init() tea.Cmd { return textinput.Blink }

func (d *inputDialog) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(keyMsg, d.app.keys.choose) {
			value := strings.TrimSpace(d.field.Value())
			if d.validate != nil {
				if err := d.validate(value); err != nil {
					d.errMsg = err.Error()
					return nil
				}
			}
			return d.submit(value)
		}
		d.errMsg = ""
	}
	var cmd tea.Cmd
	d.field, cmd = d.field.Update(msg)
	return cmd
}

func (d *inputDialog) View() string {
	st := d.app.styles
	var b strings.Builder

	b.WriteString(st.title.Render(d.title))
	b.WriteString("\n\n")
	if d.prompt != "" {
		b.WriteString(st.label.Render(d.prompt))
		b.WriteString("\n")
	}
	b.WriteString(d.field.View())
	b.WriteString("\n")
	if d.errMsg != "" {
		b.WriteString(st.errText.Render("✗ " + d.errMsg))
		b.WriteString("\n")
	}

	hint := d.hint
	if hint == "" {
		hint = "enter submit · esc back"
	}
	b.WriteString("\n")
	b.WriteString(st.hint.Render(hint))
	return b.String()
}
