// Package transcode re-encodes local files with ffmpeg. Presets map
// names to ffmpeg output arguments; progress comes from parsing the
// encoder's stderr stats against the probed input duration.
package transcode

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	ffmpeg_go "github.com/u2takey/ffmpeg-go"

	"remora/internal/config"
)

// Preset is one named encoding profile.
type Preset struct {
	Name      string
	Label     string
	OutExt    string
	AudioOnly bool
	Args      map[string]string
}

// KwArgs materializes the preset's arguments for ffmpeg-go.
func (p Preset) KwArgs() ffmpeg_go.KwArgs {
	kw := make(ffmpeg_go.KwArgs, len(p.Args))
	for k, v := range p.Args {
		kw[k] = v
	}
	return kw
}

// Builtins returns the stock presets with quality knobs taken from
// cfg. The amv profile targets small MP4 hardware players and its
// values are fixed by the devices.
func Builtins(cfg *config.Config) []Preset {
	crf := strconv.Itoa(cfg.CRF)
	return []Preset{
		{
			Name: "720p", Label: "H.264 720p", OutExt: "mp4",
			Args: map[string]string{
				"vf": "scale=-2:720", "c:v": "libx264", "crf": crf,
				"preset": cfg.EncodePreset, "c:a": "aac", "b:a": cfg.AudioBitrate,
			},
		},
		{
			Name: "1080p", Label: "H.264 1080p", OutExt: "mp4",
			Args: map[string]string{
				"vf": "scale=-2:1080", "c:v": "libx264", "crf": crf,
				"preset": cfg.EncodePreset, "c:a": "aac", "b:a": cfg.AudioBitrate,
			},
		},
		{
			Name: "mp3", Label: "Audio only MP3", OutExt: "mp3", AudioOnly: true,
			Args: map[string]string{
				"c:a": "libmp3lame", "b:a": cfg.AudioBitrate,
			},
		},
		{
			Name: "1500k", Label: "H.264 capped 1500k", OutExt: "mp4",
			Args: map[string]string{
				"c:v": "libx264", "b:v": "1500k", "preset": cfg.EncodePreset,
				"c:a": "aac", "b:a": cfg.AudioBitrate,
			},
		},
		{
			Name: "amv", Label: "AMV hardware player", OutExt: "amv",
			Args: map[string]string{
				"s": "160x112", "r": "30", "c:v": "amv", "c:a": "adpcm_ima_amv",
				"block_size": "735", "ac": "1", "ar": "22050",
			},
		},
		{
			Name: "copy", Label: "Remux without re-encoding", OutExt: "mp4",
			Args: map[string]string{
				"c:v": "copy", "c:a": "copy",
			},
		},
	}
}

type presetsFile struct {
	Presets map[string]presetEntry `toml:"presets"`
}

type presetEntry struct {
	Label     string            `toml:"label"`
	Ext       string            `toml:"ext"`
	AudioOnly bool              `toml:"audio_only"`
	Args      map[string]string `toml:"args"`
}

// Load returns built-ins merged with the user presets file at path.
// User entries override built-ins of the same name; extras are
// appended alphabetically. A missing file is not an error.
func Load(path string, cfg *config.Config) ([]Preset, error) {
	out := Builtins(cfg)
	if path == "" {
		return out, nil
	}

	var file presetsFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, fmt.Errorf("parsing presets file: %w", err)
	}

	extras := make([]string, 0, len(file.Presets))
	for name, entry := range file.Presets {
		p := Preset{
			Name:      name,
			Label:     entry.Label,
			OutExt:    entry.Ext,
			AudioOnly: entry.AudioOnly,
			Args:      entry.Args,
		}
		if p.Label == "" {
			p.Label = name
		}
		if p.OutExt == "" {
			p.OutExt = "mp4"
		}

		replaced := false
		for i := range out {
			if out[i].Name == name {
				out[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			extras = append(extras, name)
		}
	}

	sort.Strings(extras)
	for _, name := range extras {
		entry := file.Presets[name]
		p := Preset{Name: name, Label: entry.Label, OutExt: entry.Ext, AudioOnly: entry.AudioOnly, Args: entry.Args}
		if p.Label == "" {
			p.Label = name
		}
		if p.OutExt == "" {
			p.OutExt = "mp4"
		}
		out = append(out, p)
	}
	return out, nil
}

// Find returns the preset with the given name.
func Find(presets []Preset, name string) (Preset, error) {
	for _, p := range presets {
		if p.Name == name {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("unknown preset %q", name)
}

// CustomScale builds a one-off preset scaling to the given resolution
// string (see ParseScale) with the configured x264 settings.
func CustomScale(cfg *config.Config, res string) (Preset, error) {
	scale, err := ParseScale(res)
	if err != nil {
		return Preset{}, err
	}
	return Preset{
		Name: "custom", Label: "Custom " + res, OutExt: "mp4",
		Args: map[string]string{
			"vf": "scale=" + scale, "c:v": "libx264", "crf": strconv.Itoa(cfg.CRF),
			"preset": cfg.EncodePreset, "c:a": "aac", "b:a": cfg.AudioBitrate,
		},
	}, nil
}

// ParseScale normalizes a user resolution into an ffmpeg scale value:
// "1920*1080" and "1920x1080" become "1920:1080", "720p" and "720"
// become "-2:720" (width follows aspect ratio).
func ParseScale(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", errors.New("empty resolution")
	}

	for _, sep := range []string{"*", "x", ":"} {
		if !strings.Contains(s, sep) {
			continue
		}
		parts := strings.SplitN(s, sep, 2)
		if len(parts) == 2 && isDigits(parts[0]) && isDigits(parts[1]) {
			return parts[0] + ":" + parts[1], nil
		}
		return "", fmt.Errorf("invalid resolution %q", s)
	}

	if h, ok := strings.CutSuffix(s, "p"); ok && isDigits(h) {
		return "-2:" + h, nil
	}
	if isDigits(s) {
		return "-2:" + s, nil
	}
	return "", fmt.Errorf("invalid resolution %q", s)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
