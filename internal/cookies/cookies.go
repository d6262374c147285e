// Package cookies locates per-site cookie files and converts raw
// header-style cookies into the Netscape format the download engine expects.
package cookies

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoCookie reports that no cookie file exists for a domain.
var ErrNoCookie = errors.New("no cookie file for domain")

const netscapeHeader = "# Netscape HTTP Cookie File"

// secondLevel lists labels that form two-part public suffixes
// (bbc.co.uk keeps three labels, video.google.com keeps two).
var secondLevel = map[string]bool{
	"co": true, "com": true, "org": true, "net": true, "edu": true, "gov": true,
}

// ExtractDomain reduces a URL to its registrable domain: scheme, port and
// a leading www. are stripped.
func ExtractDomain(rawurl string) (string, error) {
	if !strings.Contains(rawurl, "://") {
		rawurl = "https://" + rawurl
	}
	u, err := url.Parse(rawurl)
	if err != nil {
		return "", fmt.Errorf("parsing URL: %w", err)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", fmt.Errorf("URL %q has no host", rawurl)
	}
	host = strings.TrimPrefix(host, "www.")

	parts := strings.Split(host, ".")
	if len(parts) >= 3 && secondLevel[parts[len(parts)-2]] {
		return strings.Join(parts[len(parts)-3:], "."), nil
	}
	if len(parts) >= 2 {
		return strings.Join(parts[len(parts)-2:], "."), nil
	}
	return host, nil
}

// Find returns the first existing cookie file for the domain. Candidates, in
// order: <domain>.ck, <domain with dots as underscores>.ck, common.ck.
func Find(dir, domain string) (string, error) {
	candidates := []string{
		domain + ".ck",
		strings.ReplaceAll(domain, ".", "_") + ".ck",
		"common.ck",
	}
	for _, name := range candidates {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNoCookie, domain)
}

// IsNetscape reports whether content already looks like a Netscape cookie
// file: the header comment, or tab-separated seven-field lines.
func IsNetscape(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, netscapeHeader) {
			return true
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		return len(strings.Split(line, "\t")) >= 7
	}
	return false
}

// Convert renders a raw Cookie header string ("a=1; b=2") as Netscape lines
// scoped to .domain. Pair order is preserved; empty pairs are skipped.
func Convert(raw, domain string) string {
	var b strings.Builder
	b.WriteString(netscapeHeader + "\n\n")

	for _, pair := range strings.Split(raw, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			continue
		}
		fmt.Fprintf(&b, ".%s\tTRUE\t/\tFALSE\t0\t%s\t%s\n", domain, name, strings.TrimSpace(value))
	}
	return b.String()
}

// Ensure returns a Netscape-format cookie file for path: the file itself if
// it already is one, otherwise a converted sibling (<name>.netscape.txt).
// The sibling is rewritten only when the source is newer.
func Ensure(path, domain string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading cookie file: %w", err)
	}
	content := string(data)
	if IsNetscape(content) {
		return path, nil
	}

	converted := convertedPath(path)
	srcInfo, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat cookie file: %w", err)
	}
	if info, err := os.Stat(converted); err == nil && info.ModTime().After(srcInfo.ModTime()) {
		return converted, nil
	}

	if err := os.WriteFile(converted, []byte(Convert(content, domain)), 0o600); err != nil {
		return "", fmt.Errorf("writing converted cookies: %w", err)
	}
	return converted, nil
}

func convertedPath(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return filepath.Join(filepath.Dir(path), base+".netscape.txt")
}
