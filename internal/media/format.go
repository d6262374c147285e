package media

import "fmt"

// FormatSize renders a byte count using binary steps up to TB.
func FormatSize(bytes int64) string {
	if bytes < 0 {
		return "?"
	}
	size := float64(bytes)
	if bytes < 1024 {
		return fmt.Sprintf("%.2f B", size)
	}
	for _, unit := range []string{"KB", "MB", "GB", "TB"} {
		size /= 1024
		if size < 1024 || unit == "TB" {
			return fmt.Sprintf("%.2f %s", size, unit)
		}
	}
	return fmt.Sprintf("%.2f TB", size)
}

// FormatDuration renders whole seconds as H:MM:SS, or MM:SS under an hour.
func FormatDuration(seconds float64) string {
	if seconds < 0 {
		return "--:--"
	}
	total := int(seconds + 0.5)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// FormatUploadDate turns the engine's YYYYMMDD into YYYY-MM-DD.
// Anything that is not eight digits passes through unchanged.
func FormatUploadDate(raw string) string {
	if len(raw) != 8 {
		return raw
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return raw
		}
	}
	return raw[:4] + "-" + raw[4:6] + "-" + raw[6:]
}

// FormatSpeed renders bytes/second for progress rows.
func FormatSpeed(bytesPerSec float64) string {
	if bytesPerSec <= 0 {
		return ""
	}
	return FormatSize(int64(bytesPerSec)) + "/s"
}
