package batch

import (
	"os"
	"path/filepath"
	"testing"
)

func writeList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "urls.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadList(t *testing.T) {
	path := writeList(t, `# favorites
https://example.com/a

  https://example.com/b
# trailing comment
http://example.com/c
`)

	entries, err := ReadList(path)
	if err != nil {
		t.Fatalf("ReadList() error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	wantURLs := []string{"https://example.com/a", "https://example.com/b", "http://example.com/c"}
	wantLines := []int{2, 4, 6}
	for i, e := range entries {
		if e.URL != wantURLs[i] {
			t.Errorf("entry %d URL = %q, want %q", i, e.URL, wantURLs[i])
		}
		if e.Line != wantLines[i] {
			t.Errorf("entry %d line = %d, want %d", i, e.Line, wantLines[i])
		}
	}
}

func TestReadListRejectsBadURL(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad scheme", "ftp://example.com/file\n"},
		{"no scheme", "example.com/video\n"},
		{"only comments", "# nothing here\n\n"},
		{"empty file", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadList(writeList(t, tt.content)); err == nil {
				t.Error("ReadList() should fail")
			}
		})
	}
}

func TestReadListMissingFile(t *testing.T) {
	if _, err := ReadList(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("ReadList() should fail on a missing file")
	}
}
