package cookies

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{"plain", "https://example.com/watch?v=1", "example.com", false},
		{"www stripped", "https://www.youtube.com/watch?v=1", "youtube.com", false},
		{"port stripped", "https://example.com:8443/x", "example.com", false},
		{"subdomain collapsed", "https://video.google.com/a", "google.com", false},
		{"country second level", "https://www.bbc.co.uk/news", "bbc.co.uk", false},
		{"deep country second level", "https://player.bbc.co.uk/x", "bbc.co.uk", false},
		{"scheme optional", "bilibili.com/video/BV1", "bilibili.com", false},
		{"single label", "https://localhost/x", "localhost", false},
		{"uppercase host", "https://EXAMPLE.COM/x", "example.com", false},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractDomain(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractDomain(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ExtractDomain(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestFindOrder(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"example.com.ck", "example_com.ck", "common.ck"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("a=1"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	got, err := Find(dir, "example.com")
	if err != nil {
		t.Fatalf("Find() error: %v", err)
	}
	if filepath.Base(got) != "example.com.ck" {
		t.Errorf("Find() = %q, want the exact-domain file first", got)
	}

	os.Remove(filepath.Join(dir, "example.com.ck"))
	got, _ = Find(dir, "example.com")
	if filepath.Base(got) != "example_com.ck" {
		t.Errorf("Find() = %q, want the underscore variant second", got)
	}

	os.Remove(filepath.Join(dir, "example_com.ck"))
	got, _ = Find(dir, "example.com")
	if filepath.Base(got) != "common.ck" {
		t.Errorf("Find() = %q, want common.ck last", got)
	}
}

func TestFindMissing(t *testing.T) {
	_, err := Find(t.TempDir(), "example.com")
	if !errors.Is(err, ErrNoCookie) {
		t.Errorf("Find() on empty dir = %v, want ErrNoCookie", err)
	}
}

func TestIsNetscape(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"header", "# Netscape HTTP Cookie File\n\n.x.com\tTRUE\t/\tFALSE\t0\ta\t1\n", true},
		{"tab fields without header", ".x.com\tTRUE\t/\tFALSE\t0\ta\t1\n", true},
		{"raw header string", "a=1; b=2", false},
		{"leading comment then raw", "# my cookies\na=1; b=2", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNetscape(tt.content); got != tt.want {
				t.Errorf("IsNetscape(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}

func TestConvert(t *testing.T) {
	out := Convert("sid=abc123; token=x%3Dy; ; lone", "example.com")

	if !strings.HasPrefix(out, "# Netscape HTTP Cookie File\n") {
		t.Errorf("Convert() missing header: %q", out)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	// header + blank collapses to header, then two cookie lines; the empty
	// and nameless pairs are dropped
	var cookieLines []string
	for _, l := range lines {
		if strings.HasPrefix(l, ".example.com\t") {
			cookieLines = append(cookieLines, l)
		}
	}
	if len(cookieLines) != 2 {
		t.Fatalf("Convert() produced %d cookie lines, want 2: %q", len(cookieLines), out)
	}

	first := strings.Split(cookieLines[0], "\t")
	want := []string{".example.com", "TRUE", "/", "FALSE", "0", "sid", "abc123"}
	if len(first) != len(want) {
		t.Fatalf("cookie line has %d fields, want %d: %q", len(first), len(want), cookieLines[0])
	}
	for i := range want {
		if first[i] != want[i] {
			t.Errorf("field %d = %q, want %q", i, first[i], want[i])
		}
	}

	if !strings.Contains(cookieLines[1], "token\tx%3Dy") {
		t.Errorf("second cookie mangled: %q", cookieLines[1])
	}
}

func TestEnsure(t *testing.T) {
	dir := t.TempDir()

	netscape := filepath.Join(dir, "ready.ck")
	if err := os.WriteFile(netscape, []byte("# Netscape HTTP Cookie File\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := Ensure(netscape, "example.com")
	if err != nil {
		t.Fatalf("Ensure(netscape) error: %v", err)
	}
	if got != netscape {
		t.Errorf("Ensure(netscape) = %q, want the file itself", got)
	}

	raw := filepath.Join(dir, "raw.ck")
	if err := os.WriteFile(raw, []byte("sid=1; tok=2"), 0o600); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(raw, past, past); err != nil {
		t.Fatal(err)
	}
	got, err = Ensure(raw, "example.com")
	if err != nil {
		t.Fatalf("Ensure(raw) error: %v", err)
	}
	if got == raw {
		t.Fatal("Ensure(raw) should return a converted sibling")
	}
	if filepath.Base(got) != "raw.netscape.txt" {
		t.Errorf("converted name = %q, want raw.netscape.txt", filepath.Base(got))
	}
	data, err := os.ReadFile(got)
	if err != nil {
		t.Fatal(err)
	}
	if !IsNetscape(string(data)) {
		t.Errorf("converted file is not Netscape format: %q", data)
	}

	// A second call with an unchanged source reuses the sibling.
	info1, _ := os.Stat(got)
	time.Sleep(10 * time.Millisecond)
	again, err := Ensure(raw, "example.com")
	if err != nil {
		t.Fatalf("Ensure(raw) second call: %v", err)
	}
	info2, _ := os.Stat(again)
	if !info2.ModTime().Equal(info1.ModTime()) {
		t.Error("Ensure rewrote an up-to-date converted file")
	}
}
