// Package config handles the flat JSON configuration file and its paths.
// The file is parsed as data only; unknown keys are ignored and missing
// keys keep their defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	OutputDir           string   `json:"output_dir"`
	ConcurrentFragments int      `json:"concurrent_fragments"`
	Retries             int      `json:"retries"`
	SocketTimeout       int      `json:"socket_timeout_seconds"`
	UserAgent           string   `json:"user_agent"`
	Proxy               string   `json:"proxy"`
	SubtitleLangs       []string `json:"subtitle_langs"`
	WriteSubtitles      bool     `json:"write_subtitles"`
	CookieDir           string   `json:"cookie_dir"`
	SponsorBlock        bool     `json:"sponsorblock"`
	EmbedThumbnail      bool     `json:"embed_thumbnail"`
	DownloadDanmaku     bool     `json:"download_danmaku"`
	CRF                 int      `json:"crf"`
	EncodePreset        string   `json:"encode_preset"`
	AudioBitrate        string   `json:"audio_bitrate"`
	Player              string   `json:"player"`
	LogLevel            string   `json:"log_level"`
	History             bool     `json:"history"`

	// Debug is set from the CLI flag, never persisted.
	Debug bool `json:"-"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		OutputDir:           "~/Downloads/remora",
		ConcurrentFragments: 5,
		Retries:             10,
		SocketTimeout:       30,
		UserAgent:           "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		Proxy:               "",
		SubtitleLangs:       []string{"zh-Hans", "zh-CN", "en"},
		WriteSubtitles:      false,
		CookieDir:           "",
		SponsorBlock:        false,
		EmbedThumbnail:      false,
		DownloadDanmaku:     false,
		CRF:                 23,
		EncodePreset:        "medium",
		AudioBitrate:        "192k",
		Player:              "auto",
		LogLevel:            "info",
		History:             true,
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "remora"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "remora"), nil
}

// dataDir returns the XDG-compliant data directory.
func dataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "remora"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "remora"), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// PresetsPath returns the path to the optional user transcode-preset file.
func PresetsPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "presets.toml"), nil
}

// HistoryPath returns the path to the history database.
func HistoryPath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// LogPath returns the path to the log file.
func LogPath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "remora.log"), nil
}

// Load reads the config file from the default location and merges with
// defaults. If the config file doesn't exist, defaults are returned.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Default(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the config file at path and merges with defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	var present map[string]json.RawMessage
	if err := json.Unmarshal(data, &present); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.fillZero(present)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Save writes the config atomically (temp file + rename).
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), "config-*.json")
	if err != nil {
		return fmt.Errorf("creating temp config: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp config: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing config: %w", err)
	}
	return nil
}

// fillZero restores defaults for fields an edited file zeroed out.
// Explicit zero and missing key are indistinguishable after decoding,
// so crf (where 0 means lossless) consults key presence instead.
func (c *Config) fillZero(present map[string]json.RawMessage) {
	d := Default()
	if c.OutputDir == "" {
		c.OutputDir = d.OutputDir
	}
	if c.ConcurrentFragments == 0 {
		c.ConcurrentFragments = d.ConcurrentFragments
	}
	if c.Retries == 0 {
		c.Retries = d.Retries
	}
	if c.SocketTimeout == 0 {
		c.SocketTimeout = d.SocketTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = d.UserAgent
	}
	if len(c.SubtitleLangs) == 0 {
		c.SubtitleLangs = d.SubtitleLangs
	}
	if _, ok := present["crf"]; !ok && c.CRF == 0 {
		c.CRF = d.CRF
	}
	if c.EncodePreset == "" {
		c.EncodePreset = d.EncodePreset
	}
	if c.AudioBitrate == "" {
		c.AudioBitrate = d.AudioBitrate
	}
	if c.Player == "" {
		c.Player = d.Player
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
}

var bitratePattern = regexp.MustCompile(`^[0-9]+[kKmM]$`)

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir cannot be empty")
	}

	if c.ConcurrentFragments < 1 || c.ConcurrentFragments > 10 {
		return fmt.Errorf("concurrent_fragments %d out of range (1-10)", c.ConcurrentFragments)
	}
	if c.Retries < 1 || c.Retries > 20 {
		return fmt.Errorf("retries %d out of range (1-20)", c.Retries)
	}
	if c.SocketTimeout < 5 || c.SocketTimeout > 300 {
		return fmt.Errorf("socket_timeout_seconds %d out of range (5-300)", c.SocketTimeout)
	}
	if c.CRF < 0 || c.CRF > 51 {
		return fmt.Errorf("crf %d out of range (0-51)", c.CRF)
	}

	validPresets := map[string]bool{
		"ultrafast": true, "superfast": true, "veryfast": true, "faster": true,
		"fast": true, "medium": true, "slow": true, "slower": true, "veryslow": true,
	}
	if !validPresets[strings.ToLower(c.EncodePreset)] {
		return fmt.Errorf("unsupported encode_preset %q (valid: ultrafast..veryslow)", c.EncodePreset)
	}

	if !bitratePattern.MatchString(c.AudioBitrate) {
		return fmt.Errorf("audio_bitrate %q must look like 192k", c.AudioBitrate)
	}

	validPlayers := map[string]bool{
		"auto": true, "mpv": true, "vlc": true, "system": true,
	}
	if !validPlayers[strings.ToLower(c.Player)] {
		return fmt.Errorf("unsupported player %q (valid: auto, mpv, vlc, system)", c.Player)
	}

	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true, "warn": true,
		"warning": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("unsupported log_level %q", c.LogLevel)
	}

	for _, lang := range c.SubtitleLangs {
		if lang == "" || strings.Contains(lang, ",") {
			return fmt.Errorf("invalid subtitle language %q", lang)
		}
	}

	return nil
}

// ExpandOutputDir resolves ~ in the output directory path.
func (c *Config) ExpandOutputDir() (string, error) {
	return expandPath(c.OutputDir)
}

// ExpandCookieDir resolves the cookie directory; empty means
// <config dir>/cookies.
func (c *Config) ExpandCookieDir() (string, error) {
	if c.CookieDir == "" {
		dir, err := configDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "cookies"), nil
	}
	return expandPath(c.CookieDir)
}

func expandPath(dir string) (string, error) {
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding home dir: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}
	return filepath.Abs(dir)
}
