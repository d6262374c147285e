// Package player opens finished output files in a media player. All
// invocations use exec.Command with explicit argument slices, so file
// names never pass through a shell.
package player

import (
	"fmt"
	"os"
	"os/exec"
)

// Player launches an external viewer for a local file.
type Player interface {
	// Open starts playback of the file and returns without waiting
	// for the player to exit.
	Open(path string) error

	// Name returns the player name.
	Name() string

	// Available checks if the player binary exists in PATH.
	Available() bool
}

// New creates a player by name. "auto" picks the first available of
// mpv, vlc and the system opener; unknown names fall back to the
// system opener.
func New(name string) Player {
	switch name {
	case "mpv":
		return &MPV{}
	case "vlc":
		return &VLC{}
	case "auto":
		for _, p := range []Player{&MPV{}, &VLC{}} {
			if p.Available() {
				return p
			}
		}
		return &System{}
	default:
		return &System{}
	}
}

// launch starts the command detached from the terminal and reaps it
// in the background.
func launch(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", name, err)
	}
	go cmd.Wait()
	return nil
}

func checkFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("output file: %w", err)
	}
	return nil
}
