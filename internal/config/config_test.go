package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.ConcurrentFragments != 5 {
		t.Errorf("default concurrent_fragments = %d, want 5", cfg.ConcurrentFragments)
	}
	if cfg.Retries != 10 {
		t.Errorf("default retries = %d, want 10", cfg.Retries)
	}
	if cfg.SocketTimeout != 30 {
		t.Errorf("default socket timeout = %d, want 30", cfg.SocketTimeout)
	}
	if cfg.CRF != 23 {
		t.Errorf("default crf = %d, want 23", cfg.CRF)
	}
	if cfg.EncodePreset != "medium" {
		t.Errorf("default encode_preset = %q, want medium", cfg.EncodePreset)
	}
	if cfg.AudioBitrate != "192k" {
		t.Errorf("default audio_bitrate = %q, want 192k", cfg.AudioBitrate)
	}
	if !cfg.History {
		t.Error("default history should be true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"concurrency too low", func(c *Config) { c.ConcurrentFragments = 0 }, true},
		{"concurrency too high", func(c *Config) { c.ConcurrentFragments = 11 }, true},
		{"concurrency upper bound", func(c *Config) { c.ConcurrentFragments = 10 }, false},
		{"retries too high", func(c *Config) { c.Retries = 21 }, true},
		{"retries lower bound", func(c *Config) { c.Retries = 1 }, false},
		{"timeout too low", func(c *Config) { c.SocketTimeout = 4 }, true},
		{"timeout too high", func(c *Config) { c.SocketTimeout = 301 }, true},
		{"crf negative", func(c *Config) { c.CRF = -1 }, true},
		{"crf too high", func(c *Config) { c.CRF = 52 }, true},
		{"crf lossless", func(c *Config) { c.CRF = 0 }, false},
		{"invalid encode preset", func(c *Config) { c.EncodePreset = "warp9" }, true},
		{"valid slow preset", func(c *Config) { c.EncodePreset = "slow" }, false},
		{"bad audio bitrate", func(c *Config) { c.AudioBitrate = "loud" }, true},
		{"bitrate in M", func(c *Config) { c.AudioBitrate = "1M" }, false},
		{"invalid player", func(c *Config) { c.Player = "notepad" }, true},
		{"valid vlc", func(c *Config) { c.Player = "vlc" }, false},
		{"invalid log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }, true},
		{"subtitle lang with comma", func(c *Config) { c.SubtitleLangs = []string{"en,fr"} }, true},
		{"empty subtitle lang", func(c *Config) { c.SubtitleLangs = []string{""} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromJSON(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	dir := filepath.Join(tmpDir, "remora")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := `{
  "output_dir": "/srv/media",
  "concurrent_fragments": 3,
  "retries": 2,
  "history": false,
  "unknown_key": "ignored"
}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.OutputDir != "/srv/media" {
		t.Errorf("output_dir = %q, want /srv/media", cfg.OutputDir)
	}
	if cfg.ConcurrentFragments != 3 {
		t.Errorf("concurrent_fragments = %d, want 3", cfg.ConcurrentFragments)
	}
	if cfg.Retries != 2 {
		t.Errorf("retries = %d, want 2", cfg.Retries)
	}
	if cfg.History {
		t.Error("history should be false")
	}
	// Keys absent from the file keep their defaults.
	if cfg.SocketTimeout != 30 {
		t.Errorf("socket timeout = %d, want default 30", cfg.SocketTimeout)
	}
	if cfg.EncodePreset != "medium" {
		t.Errorf("encode_preset = %q, want default medium", cfg.EncodePreset)
	}
}

func TestLoadKeepsExplicitLosslessCRF(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	dir := filepath.Join(tmpDir, "remora")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"crf": 0}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.CRF != 0 {
		t.Errorf("crf = %d, want explicit lossless 0 kept", cfg.CRF)
	}

	// Without the key the default comes back.
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.CRF != 23 {
		t.Errorf("crf = %d, want default 23 for missing key", cfg.CRF)
	}
}

func TestLoadExtraToggles(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	dir := filepath.Join(tmpDir, "remora")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := `{"embed_thumbnail": true, "download_danmaku": true}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.EmbedThumbnail {
		t.Error("embed_thumbnail should be true")
	}
	if !cfg.DownloadDanmaku {
		t.Error("download_danmaku should be true")
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() should not error on missing file: %v", err)
	}
	if cfg.ConcurrentFragments != 5 {
		t.Errorf("missing file should return defaults, got concurrency = %d", cfg.ConcurrentFragments)
	}
}

func TestLoadRejectsBadJSON(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	dir := filepath.Join(tmpDir, "remora")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail on malformed JSON")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.OutputDir = "/srv/out"
	cfg.ConcurrentFragments = 7
	cfg.SponsorBlock = true

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() after Save(): %v", err)
	}
	if loaded.OutputDir != "/srv/out" {
		t.Errorf("output_dir = %q, want /srv/out", loaded.OutputDir)
	}
	if loaded.ConcurrentFragments != 7 {
		t.Errorf("concurrent_fragments = %d, want 7", loaded.ConcurrentFragments)
	}
	if !loaded.SponsorBlock {
		t.Error("sponsorblock should survive the round trip")
	}
}

func TestExpandOutputDir(t *testing.T) {
	cfg := Default()
	cfg.OutputDir = "/tmp/test-downloads"

	dir, err := cfg.ExpandOutputDir()
	if err != nil {
		t.Fatalf("ExpandOutputDir() error: %v", err)
	}
	if dir != "/tmp/test-downloads" {
		t.Errorf("got %q, want /tmp/test-downloads", dir)
	}

	cfg.OutputDir = "~/clips"
	dir, err = cfg.ExpandOutputDir()
	if err != nil {
		t.Fatalf("ExpandOutputDir(~) error: %v", err)
	}
	if strings.HasPrefix(dir, "~") || !strings.HasSuffix(dir, "/clips") {
		t.Errorf("tilde not expanded: %q", dir)
	}
}

func TestExpandCookieDirDefault(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	cfg := Default()
	dir, err := cfg.ExpandCookieDir()
	if err != nil {
		t.Fatalf("ExpandCookieDir() error: %v", err)
	}
	want := filepath.Join(tmpDir, "remora", "cookies")
	if dir != want {
		t.Errorf("cookie dir = %q, want %q", dir, want)
	}
}
