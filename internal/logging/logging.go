// Package logging configures the shared logrus logger.
// The TUI owns the terminal, so log output always goes to a file;
// debug mode mirrors it to stderr for non-interactive runs.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

var logPath string

// Setup opens the log file and configures the global logger.
func Setup(path, level string, mirrorStderr bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	var out io.Writer = f
	if mirrorStderr {
		out = io.MultiWriter(f, os.Stderr)
	}
	logrus.SetOutput(out)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	logrus.SetLevel(lvl)

	logPath = path
	return nil
}

// Path returns the active log file path, empty before Setup.
func Path() string {
	return logPath
}
