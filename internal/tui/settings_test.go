package tui

import (
	"os"
	"strings"
	"testing"

	"remora/internal/config"
)

func fieldIndex(t *testing.T, s *settingsScreen, label string) int {
	t.Helper()
	for i, f := range s.fields {
		if f.label == label {
			return i
		}
	}
	t.Fatalf("no settings field %q", label)
	return -1
}

func TestSettingsToggleSavesConfig(t *testing.T) {
	a := newTestApp(t)
	s := newSettings(a)
	s.cursor = fieldIndex(t, s, "write subtitles")

	s.Update(keyPress("enter"))
	if !a.cfg.WriteSubtitles {
		t.Fatal("toggle did not flip write_subtitles")
	}
	if s.note != "saved" || s.isErr {
		t.Fatalf("note = %q (err=%v), want saved", s.note, s.isErr)
	}

	path, err := config.ConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if !strings.Contains(string(data), `"write_subtitles": true`) {
		t.Fatalf("saved config missing change:\n%s", data)
	}

	s.Update(keyPress("enter"))
	if a.cfg.WriteSubtitles {
		t.Fatal("second toggle did not flip back")
	}
}

func TestSettingsThumbnailAndDanmakuToggles(t *testing.T) {
	a := newTestApp(t)
	s := newSettings(a)

	s.cursor = fieldIndex(t, s, "embed thumbnail")
	s.Update(keyPress("enter"))
	if !a.cfg.EmbedThumbnail {
		t.Fatal("toggle did not flip embed_thumbnail")
	}

	s.cursor = fieldIndex(t, s, "download danmaku")
	s.Update(keyPress("enter"))
	if !a.cfg.DownloadDanmaku {
		t.Fatal("toggle did not flip download_danmaku")
	}

	path, err := config.ConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	for _, want := range []string{`"embed_thumbnail": true`, `"download_danmaku": true`} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("saved config missing %s:\n%s", want, data)
		}
	}
}

func TestSettingsCycleField(t *testing.T) {
	a := newTestApp(t)
	s := newSettings(a)
	s.cursor = fieldIndex(t, s, "player")

	if a.cfg.Player != "auto" {
		t.Fatalf("default player = %q", a.cfg.Player)
	}
	s.Update(keyPress("enter"))
	if a.cfg.Player != "mpv" {
		t.Fatalf("player after cycle = %q, want mpv", a.cfg.Player)
	}
	for i := 0; i < 3; i++ {
		s.Update(keyPress("enter"))
	}
	if a.cfg.Player != "auto" {
		t.Fatalf("player after full cycle = %q, want auto", a.cfg.Player)
	}
}

func TestSettingsIntFieldBounds(t *testing.T) {
	a := newTestApp(t)
	s := newSettings(a)
	s.cursor = fieldIndex(t, s, "retries")

	s.Update(keyPress("enter")) // pushes the input dialog
	d, ok := a.top().(*inputDialog)
	if !ok {
		t.Fatalf("top screen is %T, want *inputDialog", a.top())
	}

	d.field.SetValue("99")
	d.Update(keyPress("enter"))
	if d.errMsg == "" {
		t.Fatal("out-of-range value accepted")
	}
	if a.cfg.Retries != 10 {
		t.Fatalf("retries changed to %d on invalid input", a.cfg.Retries)
	}

	d.field.SetValue("abc")
	d.Update(keyPress("enter"))
	if !strings.Contains(d.errMsg, "not a number") {
		t.Fatalf("errMsg = %q, want a parse error", d.errMsg)
	}

	d.field.SetValue("7")
	d.Update(keyPress("enter"))
	if a.cfg.Retries != 7 {
		t.Fatalf("retries = %d, want 7", a.cfg.Retries)
	}
}

func TestSettingsSubtitleLangs(t *testing.T) {
	a := newTestApp(t)
	s := newSettings(a)
	s.cursor = fieldIndex(t, s, "subtitle languages")

	s.Update(keyPress("enter"))
	d := a.top().(*inputDialog)
	d.field.SetValue("en, ja ,ko")
	d.Update(keyPress("enter"))

	want := []string{"en", "ja", "ko"}
	if len(a.cfg.SubtitleLangs) != len(want) {
		t.Fatalf("langs = %v, want %v", a.cfg.SubtitleLangs, want)
	}
	for i, lang := range want {
		if a.cfg.SubtitleLangs[i] != lang {
			t.Fatalf("langs = %v, want %v", a.cfg.SubtitleLangs, want)
		}
	}
}

func TestSettingsCursorStaysInBounds(t *testing.T) {
	a := newTestApp(t)
	s := newSettings(a)

	s.Update(keyPress("up"))
	if s.cursor != 0 {
		t.Fatalf("cursor = %d, want 0", s.cursor)
	}
	s.Update(keyPress("end"))
	if s.cursor != len(s.fields)-1 {
		t.Fatalf("cursor = %d, want %d", s.cursor, len(s.fields)-1)
	}
	s.Update(keyPress("down"))
	if s.cursor != len(s.fields)-1 {
		t.Fatalf("cursor moved past the last field: %d", s.cursor)
	}
}
