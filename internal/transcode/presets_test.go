package transcode

import (
	"os"
	"path/filepath"
	"testing"

	"remora/internal/config"
)

func TestBuiltins(t *testing.T) {
	cfg := config.Default()
	cfg.CRF = 20
	cfg.EncodePreset = "fast"
	cfg.AudioBitrate = "256k"

	presets := Builtins(cfg)
	byName := make(map[string]Preset, len(presets))
	for _, p := range presets {
		byName[p.Name] = p
	}

	for _, name := range []string{"720p", "1080p", "mp3", "1500k", "amv", "copy"} {
		if _, ok := byName[name]; !ok {
			t.Errorf("builtin preset %q missing", name)
		}
	}

	p720 := byName["720p"]
	if p720.Args["vf"] != "scale=-2:720" {
		t.Errorf("720p vf = %q, want scale=-2:720", p720.Args["vf"])
	}
	if p720.Args["crf"] != "20" || p720.Args["preset"] != "fast" || p720.Args["b:a"] != "256k" {
		t.Errorf("720p does not pick up config knobs: %+v", p720.Args)
	}

	mp3 := byName["mp3"]
	if !mp3.AudioOnly {
		t.Error("mp3 preset should map only the audio stream")
	}
	if mp3.OutExt != "mp3" || mp3.Args["c:a"] != "libmp3lame" {
		t.Errorf("mp3 preset = %+v", mp3)
	}

	amv := byName["amv"]
	wantAMV := map[string]string{
		"s": "160x112", "r": "30", "c:v": "amv", "c:a": "adpcm_ima_amv",
		"block_size": "735", "ac": "1", "ar": "22050",
	}
	for k, want := range wantAMV {
		if amv.Args[k] != want {
			t.Errorf("amv arg %s = %q, want %q", k, amv.Args[k], want)
		}
	}
	if amv.OutExt != "amv" {
		t.Errorf("amv OutExt = %q, want amv", amv.OutExt)
	}

	if c := byName["copy"]; c.Args["c:v"] != "copy" || c.Args["c:a"] != "copy" {
		t.Errorf("copy preset = %+v", c.Args)
	}
}

func TestLoadMergesUserPresets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.toml")
	content := `
[presets.720p]
label = "My 720p"
ext = "mkv"
[presets.720p.args]
"vf" = "scale=-2:720"
"c:v" = "libx265"

[presets.phone]
label = "Phone"
[presets.phone.args]
"vf" = "scale=-2:480"
"c:v" = "libx264"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	presets, err := Load(path, cfg)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	builtinCount := len(Builtins(cfg))
	if len(presets) != builtinCount+1 {
		t.Fatalf("len(presets) = %d, want %d builtins plus one extra", len(presets), builtinCount+1)
	}

	p720, err := Find(presets, "720p")
	if err != nil {
		t.Fatal(err)
	}
	if p720.Label != "My 720p" || p720.OutExt != "mkv" || p720.Args["c:v"] != "libx265" {
		t.Errorf("user override not applied: %+v", p720)
	}

	phone, err := Find(presets, "phone")
	if err != nil {
		t.Fatal(err)
	}
	if phone.OutExt != "mp4" {
		t.Errorf("phone OutExt = %q, want mp4 default", phone.OutExt)
	}
	if phone.Args["vf"] != "scale=-2:480" {
		t.Errorf("phone args = %+v", phone.Args)
	}
}

func TestLoadMissingFileKeepsBuiltins(t *testing.T) {
	cfg := config.Default()
	presets, err := Load(filepath.Join(t.TempDir(), "absent.toml"), cfg)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(presets) != len(Builtins(cfg)) {
		t.Errorf("len(presets) = %d, want builtins only", len(presets))
	}
}

func TestLoadRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.toml")
	if err := os.WriteFile(path, []byte("[presets.broken\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, config.Default()); err == nil {
		t.Error("expected error for malformed presets file")
	}
}

func TestFindUnknown(t *testing.T) {
	if _, err := Find(Builtins(config.Default()), "nope"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestCustomScale(t *testing.T) {
	cfg := config.Default()

	p, err := CustomScale(cfg, "1280*720")
	if err != nil {
		t.Fatalf("CustomScale() error: %v", err)
	}
	if p.Args["vf"] != "scale=1280:720" {
		t.Errorf("vf = %q, want scale=1280:720", p.Args["vf"])
	}

	if _, err := CustomScale(cfg, "huge"); err == nil {
		t.Error("expected error for unparsable resolution")
	}
}

func TestParseScale(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"star separator", "1920*1080", "1920:1080", false},
		{"x separator", "1280x720", "1280:720", false},
		{"colon passthrough", "640:480", "640:480", false},
		{"p suffix", "720p", "-2:720", false},
		{"bare height", "480", "-2:480", false},
		{"upper case with spaces", " 720P ", "-2:720", false},
		{"empty", "", "", true},
		{"words", "huge", "", true},
		{"half numeric", "1920*wide", "", true},
		{"negative", "-720", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseScale(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseScale(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseScale(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
