// Package batch reads newline-delimited URL list files.
package batch

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Entry is one usable line from a list file.
type Entry struct {
	URL  string
	Line int // 1-based line number in the source file
}

// ReadList parses a URL list: blank lines and # comments are skipped, every
// remaining line must be an http(s) URL. An empty result is an error.
func ReadList(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening list: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := CheckURL(line); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		entries = append(entries, Entry{URL: line, Line: lineNo})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading list: %w", err)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("no usable URLs in %s", path)
	}
	return entries, nil
}

// CheckURL verifies that raw is an absolute http(s) URL.
func CheckURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("malformed URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL %q must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("URL %q has no host", raw)
	}
	return nil
}
