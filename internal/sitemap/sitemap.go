package sitemap

import (
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// urlSet matches the standard sitemap schema. Tags are matched by local
// name so files with a missing or unusual namespace still parse.
type urlSet struct {
	URLs []struct {
		Loc string `xml:"loc"`
	} `xml:"url"`
}

// Parse extracts the location URLs from one sitemap document. Entries are
// percent-decoded so Persian and other encoded slugs come out readable.
func Parse(r io.Reader) ([]string, error) {
	var set urlSet
	if err := xml.NewDecoder(r).Decode(&set); err != nil {
		return nil, fmt.Errorf("failed to parse sitemap XML: %w", err)
	}

	urls := make([]string, 0, len(set.URLs))
	for _, entry := range set.URLs {
		loc := strings.TrimSpace(entry.Loc)
		if loc == "" {
			continue
		}
		urls = append(urls, decodeURL(loc))
	}
	return urls, nil
}

func ParseFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sitemap '%s': %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// ParseFiles reads every sitemap and merges the URLs, dropping exact
// duplicates while preserving first-seen order. A file that fails to parse
// is logged and skipped; one broken sitemap must not sink the run.
func ParseFiles(paths []string, logger *slog.Logger) []string {
	if logger == nil {
		logger = slog.Default()
	}

	seen := make(map[string]struct{})
	var unique []string
	for _, path := range paths {
		urls, err := ParseFile(path)
		if err != nil {
			logger.Error("failed to parse sitemap", "path", path, "error", err)
			continue
		}
		for _, u := range urls {
			if _, ok := seen[u]; ok {
				continue
			}
			seen[u] = struct{}{}
			unique = append(unique, u)
		}
	}
	return unique
}

// Discover lists the XML files already present in dir, sorted by name. A
// missing directory simply yields no files.
func Discover(dir string) ([]string, error) {
	return filepath.Glob(filepath.Join(dir, "*.xml"))
}

// FileStat describes one sitemap file for display.
type FileStat struct {
	Path  string
	Count int
	Err   error
}

// Stats parses each file just far enough to report its URL count.
func Stats(paths []string) []FileStat {
	stats := make([]FileStat, 0, len(paths))
	for _, path := range paths {
		urls, err := ParseFile(path)
		stats = append(stats, FileStat{Path: path, Count: len(urls), Err: err})
	}
	return stats
}

// decodeURL reverses percent-encoding, leaving the input unchanged when an
// escape is malformed.
func decodeURL(s string) string {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}
