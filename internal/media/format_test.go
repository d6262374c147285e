package media

import (
	"testing"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		name     string
		bytes    int64
		expected string
	}{
		{"zero", 0, "0.00 B"},
		{"bytes", 512, "512.00 B"},
		{"just under a KB", 1023, "1023.00 B"},
		{"one KB", 1024, "1.00 KB"},
		{"one and a half KB", 1536, "1.50 KB"},
		{"one MB", 1 << 20, "1.00 MB"},
		{"five GB", 5 << 30, "5.00 GB"},
		{"one TB", 1 << 40, "1.00 TB"},
		{"beyond TB stays in TB", 1 << 50, "1024.00 TB"},
		{"negative", -1, "?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatSize(tt.bytes)
			if got != tt.expected {
				t.Errorf("FormatSize(%d) = %q, want %q", tt.bytes, got, tt.expected)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		seconds  float64
		expected string
	}{
		{"zero", 0, "00:00"},
		{"under a minute", 59, "00:59"},
		{"over a minute", 61, "01:01"},
		{"just under an hour", 3599, "59:59"},
		{"exactly an hour", 3600, "1:00:00"},
		{"over an hour", 3661, "1:01:01"},
		{"fraction rounds up", 59.6, "01:00"},
		{"negative", -5, "--:--"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatDuration(tt.seconds)
			if got != tt.expected {
				t.Errorf("FormatDuration(%v) = %q, want %q", tt.seconds, got, tt.expected)
			}
		})
	}
}

func TestFormatUploadDate(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"engine date", "20240131", "2024-01-31"},
		{"too short", "2024013", "2024013"},
		{"already formatted", "2024-01-31", "2024-01-31"},
		{"non-digits", "abcd1234", "abcd1234"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatUploadDate(tt.raw)
			if got != tt.expected {
				t.Errorf("FormatUploadDate(%q) = %q, want %q", tt.raw, got, tt.expected)
			}
		})
	}
}

func TestFormatSpeed(t *testing.T) {
	if got := FormatSpeed(0); got != "" {
		t.Errorf("FormatSpeed(0) = %q, want empty", got)
	}
	if got := FormatSpeed(1 << 20); got != "1.00 MB/s" {
		t.Errorf("FormatSpeed(1MB) = %q, want %q", got, "1.00 MB/s")
	}
	if got := FormatSpeed(500); got != "500.00 B/s" {
		t.Errorf("FormatSpeed(500) = %q, want %q", got, "500.00 B/s")
	}
}
