// Package tui implements the interactive terminal interface: a stack of
// modal screens (menus, pickers, prompts, the task board) over a shared
// application model. Long-running work never runs on the render loop;
// it goes through the task manager and screens poll snapshots.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"remora/internal/config"
	"remora/internal/history"
	"remora/internal/task"
	"remora/internal/transcode"
)

// downloadSlots caps concurrent downloads; transcodes are serialized
// by the manager on their own.
const downloadSlots = 3

// screen is one layer of the dialog stack.
type screen interface {
	Update(msg tea.Msg) tea.Cmd
	View() string
}

// initializer is implemented by screens that need a startup command
// when pushed (spinners, the file picker).
type initializer interface {
	init() tea.Cmd
}

// closer is implemented by screens that hold resources to release when
// popped, like an in-flight inspection's cancel func.
type closer interface {
	close()
}

// Model is the Bubble Tea root. The bottom of the stack is always the
// main menu; esc pops one screen, ctrl+c quits from anywhere.
type Model struct {
	cfg     *config.Config
	manager *task.Manager
	store   *history.Store // nil when history is disabled
	presets []transcode.Preset

	// ctx parents every worker; cancelling it kills their
	// subprocesses so quitting leaves nothing behind.
	ctx    context.Context
	cancel context.CancelFunc

	styles styles
	keys   keyMap

	width  int
	height int
	stack  []screen
}

// New builds the root model. store may be nil.
func New(cfg *config.Config, store *history.Store, presets []transcode.Preset) *Model {
	ctx, cancel := context.WithCancel(context.Background())
	a := &Model{
		cfg:     cfg,
		manager: task.NewManager(downloadSlots),
		store:   store,
		presets: presets,
		ctx:     ctx,
		cancel:  cancel,
		styles:  newStyles(),
		keys:    newKeyMap(),
		width:   80,
		height:  24,
	}
	a.stack = []screen{a.mainMenu()}
	return a
}

// Run starts the interactive interface and blocks until the user
// quits, then stops any workers that are still running.
func Run(cfg *config.Config, store *history.Store, presets []transcode.Preset) error {
	m := New(cfg, store, presets)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()

	m.cancel()
	m.manager.Wait()
	if err != nil {
		return fmt.Errorf("running interface: %w", err)
	}
	return nil
}

func (a *Model) Init() tea.Cmd { return nil }

func (a *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		var cmds []tea.Cmd
		for _, s := range a.stack {
			if cmd := s.Update(msg); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		return a, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keys.quit):
			return a, tea.Quit
		case key.Matches(msg, a.keys.back):
			a.pop()
			return a, nil
		}
	}

	return a, a.top().Update(msg)
}

func (a *Model) View() string {
	return a.styles.app.Render(a.top().View())
}

func (a *Model) top() screen { return a.stack[len(a.stack)-1] }

// push adds a screen on top of the stack and runs its init command.
func (a *Model) push(s screen) tea.Cmd {
	a.stack = append(a.stack, s)
	if in, ok := s.(initializer); ok {
		return in.init()
	}
	return nil
}

// pop removes the top screen. The main menu at the bottom stays.
func (a *Model) pop() {
	if len(a.stack) <= 1 {
		return
	}
	s := a.top()
	a.stack = a.stack[:len(a.stack)-1]
	if c, ok := s.(closer); ok {
		c.close()
	}
}

// home drops every screen above the main menu.
func (a *Model) home() {
	for len(a.stack) > 1 {
		a.pop()
	}
}

// replaceTop swaps the current top screen without touching the rest of
// the stack.
func (a *Model) replaceTop(s screen) tea.Cmd {
	if len(a.stack) > 1 {
		a.stack = a.stack[:len(a.stack)-1]
	}
	return a.push(s)
}

// listHeight is the row budget for scrolling screens.
func (a *Model) listHeight() int {
	h := a.height - 8
	if h < 5 {
		h = 5
	}
	return h
}

// contentWidth is the usable width inside the app padding.
func (a *Model) contentWidth() int {
	w := a.width - 4
	if w < 40 {
		w = 40
	}
	return w
}

func (a *Model) mainMenu() *menu {
	items := []menuItem{
		menuHeader("Download"),
		{label: "Download video (best quality)", shortcut: "1", action: func() tea.Cmd { return a.startDownloadFlow(downloadVideo) }},
		{label: "Download video only (no audio)", shortcut: "2", action: func() tea.Cmd { return a.startDownloadFlow(downloadVideoOnly) }},
		{label: "Download audio only (mp3)", shortcut: "3", action: func() tea.Cmd { return a.startDownloadFlow(downloadAudio) }},
		{label: "Choose format manually", shortcut: "4", action: func() tea.Cmd { return a.startDownloadFlow(downloadManual) }},
		{label: "Batch download from list file", shortcut: "5", action: func() tea.Cmd { return a.startBatchFlow() }},
		menuDivider(),
		menuHeader("Local files"),
		{label: "Transcode a local file or folder", shortcut: "6", action: func() tea.Cmd { return a.startTranscodeFlow() }},
		{label: "Task board", shortcut: "t", action: func() tea.Cmd { return a.push(newStatusBoard(a)) }},
		menuDivider(),
		{label: "Settings", shortcut: "s", action: func() tea.Cmd { return a.push(newSettings(a)) }},
		{label: "View log", shortcut: "l", action: func() tea.Cmd { return a.push(newLogView(a)) }},
		{label: "Help", shortcut: "h", action: func() tea.Cmd { return a.push(helpScreen(a)) }},
		{label: "About", shortcut: "a", action: func() tea.Cmd { return a.push(aboutScreen(a)) }},
		menuDivider(),
		{label: "Quit", shortcut: "q", action: func() tea.Cmd { return tea.Quit }},
	}
	hint := "↑/↓ move · enter choose · shortcuts jump · ctrl+c quit"
	return newMenu(a, "remora", hint, items)
}

// record appends to download history. Callers gate on their own
// config snapshot; workers must not read the live config.
func (a *Model) record(r history.Record) {
	if a.store == nil {
		return
	}
	if err := a.store.Append(r); err != nil {
		logrus.WithError(err).Error("recording history")
	}
}
