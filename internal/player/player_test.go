package player

import (
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"mpv", "mpv"},
		{"vlc", "vlc"},
		{"system", "system"},
		{"unheard-of", "system"},
	}
	for _, tt := range tests {
		if got := New(tt.name).Name(); got != tt.want {
			t.Errorf("New(%q).Name() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestNewAutoFallsBackToSystem(t *testing.T) {
	// With an empty PATH nothing is available.
	t.Setenv("PATH", t.TempDir())

	if got := New("auto").Name(); got != "system" {
		t.Errorf("New(auto).Name() = %q, want system when no player is installed", got)
	}
}

func TestOpenRejectsMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone.mp4")
	for _, p := range []Player{&MPV{}, &VLC{}, &System{}} {
		if err := p.Open(missing); err == nil {
			t.Errorf("%s.Open() on missing file expected error", p.Name())
		}
	}
}
