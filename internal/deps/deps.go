// Package deps verifies the external tools remora drives.
package deps

import (
	"context"
	"os/exec"
	"strings"
)

// Tool is the check result for one external binary.
type Tool struct {
	Name    string
	Path    string
	Version string
	Err     error
}

// Found reports whether the tool resolved and answered a version probe.
func (t Tool) Found() bool {
	return t.Err == nil
}

// Check probes every required binary. The result order is stable:
// yt-dlp, ffmpeg, ffprobe.
func Check(ctx context.Context) []Tool {
	return []Tool{
		probeTool(ctx, "yt-dlp", "--version"),
		probeTool(ctx, "ffmpeg", "-version"),
		probeTool(ctx, "ffprobe", "-version"),
	}
}

// Missing returns the names of tools that failed the check.
func Missing(tools []Tool) []string {
	var names []string
	for _, t := range tools {
		if !t.Found() {
			names = append(names, t.Name)
		}
	}
	return names
}

func probeTool(ctx context.Context, name, versionFlag string) Tool {
	tool := Tool{Name: name}

	path, err := exec.LookPath(name)
	if err != nil {
		tool.Err = err
		return tool
	}
	tool.Path = path

	out, err := exec.CommandContext(ctx, path, versionFlag).Output()
	if err != nil {
		tool.Err = err
		return tool
	}
	tool.Version = FirstLine(string(out))
	return tool
}

// FirstLine trims a version banner down to its first line.
func FirstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}
