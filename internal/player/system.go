package player

import (
	"os/exec"
	"runtime"
)

// System hands the file to the desktop's default opener.
type System struct{}

func (s *System) Name() string { return "system" }

func (s *System) Available() bool {
	_, err := exec.LookPath(s.opener())
	return err == nil
}

func (s *System) Open(path string) error {
	if err := checkFile(path); err != nil {
		return err
	}
	return launch(s.opener(), path)
}

func (s *System) opener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "explorer"
	default:
		return "xdg-open"
	}
}
