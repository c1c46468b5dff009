package shoutcast

import (
	"bufio"
	"fmt"
	"io"
	"path"
	"strings"
)

// ParsePLS parses a PLS playlist and returns every FileN entry in file order.
func ParsePLS(body io.Reader) ([]string, error) {
	var urls []string

	sc := bufio.NewScanner(body)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(strings.ToLower(line), "file") {
			continue
		}
		_, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		if value = strings.TrimSpace(value); value != "" {
			urls = append(urls, value)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read playlist: %w", err)
	}

	if len(urls) == 0 {
		return nil, fmt.Errorf("no stream URL found in PLS playlist")
	}
	return urls, nil
}

// ParseM3U parses an M3U playlist and returns every http(s) entry in order.
func ParseM3U(body io.Reader) ([]string, error) {
	var urls []string

	sc := bufio.NewScanner(body)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		// Skip comments and empty lines
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://") {
			urls = append(urls, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read playlist: %w", err)
	}

	if len(urls) == 0 {
		return nil, fmt.Errorf("no stream URL found in M3U playlist")
	}
	return urls, nil
}

// Parse picks the parser from the file name extension.
func Parse(name string, body io.Reader) ([]string, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".pls":
		return ParsePLS(body)
	case ".m3u", ".m3u8":
		return ParseM3U(body)
	}
	return nil, fmt.Errorf("unsupported playlist type %q", name)
}
