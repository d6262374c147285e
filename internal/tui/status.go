package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"remora/internal/media"
	"remora/internal/player"
	"remora/internal/task"
)

// pollMsg drives the status board refresh while tasks are active.
type pollMsg time.Time

func pollCmd() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg { return pollMsg(t) })
}

// statusBoard lists background tasks with live progress. Workers never
// touch the UI; the board reads manager snapshots on a timer.
type statusBoard struct {
	app    *Model
	spin   spinner.Model
	bar    progress.Model
	cursor int
	note   string
}

func newStatusBoard(app *Model) *statusBoard {
	return &statusBoard{
		app:  app,
		spin: spinner.New(spinner.WithSpinner(spinner.Dot)),
		bar:  progress.New(progress.WithDefaultGradient()),
	}
}

func (s *statusBoard) init() tea.Cmd {
	return tea.Batch(s.spin.Tick, pollCmd())
}

func (s *statusBoard) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case pollMsg:
		if s.app.manager.Active() > 0 {
			return pollCmd()
		}
		return nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return cmd
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return nil
}

func (s *statusBoard) handleKey(msg tea.KeyMsg) tea.Cmd {
	tasks := s.app.manager.Snapshot()
	if len(tasks) == 0 {
		return nil
	}
	s.clamp(len(tasks))

	switch {
	case key.Matches(msg, s.app.keys.up):
		s.cursor--
	case key.Matches(msg, s.app.keys.down):
		s.cursor++
	case msg.String() == "c":
		t := tasks[s.cursor]
		if s.app.manager.Cancel(t.ID) {
			s.note = "cancelling " + t.Title
		} else {
			s.note = "already finished"
		}
	case msg.String() == "o":
		s.note = s.openSelected(tasks[s.cursor])
	}
	s.clamp(len(tasks))
	return nil
}

func (s *statusBoard) openSelected(t task.Task) string {
	if t.Status != task.StatusDone || t.OutputPath == "" {
		return "nothing to open yet"
	}
	p := player.New(s.app.cfg.Player)
	if err := p.Open(t.OutputPath); err != nil {
		return "open failed: " + err.Error()
	}
	return "opened with " + p.Name()
}

func (s *statusBoard) clamp(n int) {
	if n <= 0 {
		s.cursor = 0
		return
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
	if s.cursor > n-1 {
		s.cursor = n - 1
	}
}

func (s *statusBoard) View() string {
	st := s.app.styles
	tasks := s.app.manager.Snapshot()
	s.clamp(len(tasks))

	var b strings.Builder
	b.WriteString(st.title.Render("Tasks"))
	b.WriteString("\n\n")

	if len(tasks) == 0 {
		b.WriteString(st.hint.Render("  no tasks yet"))
		b.WriteString("\n")
	}

	for i, t := range tasks {
		prefix := "  "
		if i == s.cursor {
			prefix = st.selected.Render("> ")
		}
		b.WriteString(prefix)
		b.WriteString(s.taskLine(t))
		b.WriteString("\n")
		if i == s.cursor && t.Status == task.StatusFailed && t.Err != "" {
			b.WriteString(st.errText.Render("      " + t.Err))
			b.WriteString("\n")
		}
		if i == s.cursor && t.Status == task.StatusDone && t.OutputPath != "" {
			b.WriteString(st.hint.Render("      " + t.OutputPath))
			b.WriteString("\n")
		}
	}

	if s.note != "" {
		b.WriteString("\n")
		b.WriteString(st.hint.Render("  " + s.note))
	}
	b.WriteString("\n")
	b.WriteString(st.hint.Render("  ↑/↓ select · c cancel · o open result · esc back"))
	return b.String()
}

func (s *statusBoard) taskLine(t task.Task) string {
	st := s.app.styles
	head := fmt.Sprintf("%-9s %s", t.Kind.String(), truncate(t.Title, 36))

	switch t.Status {
	case task.StatusPending:
		return st.hint.Render("⧗ ") + head + st.hint.Render("  queued")
	case task.StatusRunning:
		return s.spin.View() + head + "  " + s.runningTail(t)
	case task.StatusDone:
		tail := "done in " + t.Elapsed().Round(time.Second).String()
		if t.TotalBytes > 0 {
			tail += " · " + media.FormatSize(t.TotalBytes)
		}
		if t.OutputPath != "" {
			tail += " · " + filepath.Base(t.OutputPath)
		}
		return st.good.Render("✓ ") + head + "  " + st.hint.Render(tail)
	case task.StatusFailed:
		return st.bad.Render("✗ ") + head + "  " + st.bad.Render("failed")
	case task.StatusCancelled:
		return st.warn.Render("– ") + head + "  " + st.warn.Render("cancelled")
	default:
		return "  " + head
	}
}

func (s *statusBoard) runningTail(t task.Task) string {
	if t.Percent <= 0 && t.TotalBytes == 0 {
		if t.Speed != "" {
			return s.app.styles.hint.Render("working · " + t.Speed)
		}
		return s.app.styles.hint.Render("working")
	}

	s.bar.Width = 20
	tail := s.bar.ViewAs(t.Percent/100) + fmt.Sprintf(" %5.1f%%", t.Percent)
	if t.Speed != "" {
		tail += "  " + t.Speed
	}
	if t.ETA != "" {
		tail += "  eta " + t.ETA
	}
	return tail
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return fmt.Sprintf("%-*s", n, s)
	}
	return string(r[:n-1]) + "…"
}
