// Package media defines shared types and display formatting for the remora application.
package media

import "fmt"

// Mode selects what the download engine should fetch.
type Mode int

const (
	ModeVideoAudio Mode = iota // best video+audio merged into mp4
	ModeVideoOnly
	ModeAudioOnly
	ModeManual // explicit format id chosen by the user
)

func (m Mode) String() string {
	switch m {
	case ModeVideoAudio:
		return "video"
	case ModeVideoOnly:
		return "video-only"
	case ModeAudioOnly:
		return "audio"
	case ModeManual:
		return "manual"
	default:
		return "unknown"
	}
}

// ParseMode converts a CLI mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "video", "":
		return ModeVideoAudio, nil
	case "video-only":
		return ModeVideoOnly, nil
	case "audio", "audio-only":
		return ModeAudioOnly, nil
	case "manual":
		return ModeManual, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (video | video-only | audio | manual)", s)
	}
}

// Info is the engine's metadata for a single video.
type Info struct {
	ID         string
	Title      string
	Uploader   string
	UploadDate string // raw YYYYMMDD from the engine
	Duration   float64
	Webpage    string
	Formats    []Format
}

// Format describes one downloadable format reported by the engine.
type Format struct {
	ID         string
	Ext        string
	Resolution string
	FPS        float64
	VCodec     string
	ACodec     string
	Filesize   int64
	Note       string
}

// Row renders a format as a fixed-width table line for the manual picker.
func (f Format) Row() string {
	size := "?"
	if f.Filesize > 0 {
		size = FormatSize(f.Filesize)
	}
	fps := ""
	if f.FPS > 0 {
		fps = fmt.Sprintf("%.0f", f.FPS)
	}
	return fmt.Sprintf("%-8s %-5s %-11s %3s  %-14s %-14s %10s  %s",
		f.ID, f.Ext, f.Resolution, fps, trimCodec(f.VCodec), trimCodec(f.ACodec), size, f.Note)
}

// RowHeader lines up with Row.
func RowHeader() string {
	return fmt.Sprintf("%-8s %-5s %-11s %3s  %-14s %-14s %10s  %s",
		"ID", "EXT", "RESOLUTION", "FPS", "VCODEC", "ACODEC", "SIZE", "NOTE")
}

func trimCodec(c string) string {
	if c == "" || c == "none" {
		return "-"
	}
	if len(c) > 14 {
		return c[:14]
	}
	return c
}
