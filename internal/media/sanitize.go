package media

import (
	"fmt"
	"path/filepath"
	"strings"
)

const maxFilenameRunes = 200

// SanitizeFilename strips directory components, characters that are unsafe on
// common filesystems, and control characters. The result is capped at 200
// runes and never empty.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r < 0x20 || r == 0x7f:
			// drop control characters
		case strings.ContainsRune(`\/:*?"<>|`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	name = strings.Join(strings.Fields(b.String()), " ")
	name = strings.TrimRight(name, ". ")

	if runes := []rune(name); len(runes) > maxFilenameRunes {
		name = strings.TrimRight(string(runes[:maxFilenameRunes]), ". ")
	}

	if name == "" || name == "." || name == ".." {
		return "unnamed"
	}
	return name
}

// SafeOutputPath joins dir and filename after sanitizing, and verifies the
// result stays inside dir.
func SafeOutputPath(dir, filename string) (string, error) {
	sanitized := SanitizeFilename(filename)

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	full, err := filepath.Abs(filepath.Join(absDir, sanitized))
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	if !strings.HasPrefix(full, absDir+string(filepath.Separator)) && full != absDir {
		return "", fmt.Errorf("path traversal detected: %q escapes %q", full, absDir)
	}

	return full, nil
}
