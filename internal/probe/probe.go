// Package probe inspects local media files with ffprobe.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Report is the decoded ffprobe output. ffprobe emits numeric fields as
// strings; accessors parse them on demand.
type Report struct {
	Format  Format   `json:"format"`
	Streams []Stream `json:"streams"`
}

type Format struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
}

type Stream struct {
	Index        int    `json:"index"`
	CodecType    string `json:"codec_type"`
	CodecName    string `json:"codec_name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	SampleRate   string `json:"sample_rate"`
	Channels     int    `json:"channels"`
	BitRate      string `json:"bit_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
}

// Inspect runs ffprobe against path and decodes its JSON report.
func Inspect(ctx context.Context, path string) (*Report, error) {
	ffprobePath, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}

	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("ffprobe failed: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("running ffprobe: %w", err)
	}

	return Parse(out)
}

// Parse decodes a raw ffprobe JSON report.
func Parse(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decoding ffprobe output: %w", err)
	}
	if r.Format.Filename == "" && len(r.Streams) == 0 {
		return nil, fmt.Errorf("ffprobe returned an empty report")
	}
	return &r, nil
}

// Duration returns the container duration, zero when unknown.
func (r *Report) Duration() time.Duration {
	secs, err := strconv.ParseFloat(r.Format.Duration, 64)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}

// SizeBytes returns the container size, zero when unknown.
func (r *Report) SizeBytes() int64 {
	n, err := strconv.ParseInt(r.Format.Size, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Video returns the first video stream, nil when none.
func (r *Report) Video() *Stream {
	return r.firstStream("video")
}

// Audio returns the first audio stream, nil when none.
func (r *Report) Audio() *Stream {
	return r.firstStream("audio")
}

func (r *Report) firstStream(codecType string) *Stream {
	for i := range r.Streams {
		if r.Streams[i].CodecType == codecType {
			return &r.Streams[i]
		}
	}
	return nil
}

// FrameRate parses avg_frame_rate fractions like "30000/1001".
func (s *Stream) FrameRate() float64 {
	num, den, ok := strings.Cut(s.AvgFrameRate, "/")
	if !ok {
		f, _ := strconv.ParseFloat(s.AvgFrameRate, 64)
		return f
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}
