package player

import (
	"os/exec"
)

// VLC opens files with VLC media player.
type VLC struct{}

func (v *VLC) Name() string { return "vlc" }

func (v *VLC) Available() bool {
	_, err := exec.LookPath("vlc")
	return err == nil
}

func (v *VLC) Open(path string) error {
	if err := checkFile(path); err != nil {
		return err
	}
	return launch("vlc", "--play-and-exit", path)
}
