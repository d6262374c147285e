package player

import (
	"os/exec"
)

// MPV opens files with mpv.
type MPV struct{}

func (m *MPV) Name() string { return "mpv" }

func (m *MPV) Available() bool {
	_, err := exec.LookPath("mpv")
	return err == nil
}

// Open launches mpv detached. The TUI keeps the terminal, so mpv is
// told to stay quiet and render in its own window.
func (m *MPV) Open(path string) error {
	if err := checkFile(path); err != nil {
		return err
	}
	return launch("mpv", "--really-quiet", "--force-window=yes", path)
}
