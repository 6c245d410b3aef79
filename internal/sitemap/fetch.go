package sitemap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	fetchAttempts   = 10
	fetchTimeout    = 60 * time.Second
	fetchMaxBackoff = 30 * time.Second
)

// Fetcher downloads sitemap files into a directory. Files already present
// and non-empty are kept as-is, so re-running a fetch is cheap and offline
// friendly.
type Fetcher struct {
	Dir      string
	Client   *http.Client
	Attempts int
	Logger   *slog.Logger
}

func NewFetcher(dir string, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		Dir:      dir,
		Client:   &http.Client{Timeout: fetchTimeout},
		Attempts: fetchAttempts,
		Logger:   logger,
	}
}

// Fetch downloads one sitemap URL and returns the local file path.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	return f.fetch(ctx, rawURL, 0)
}

// FetchAll downloads each URL in turn and returns the paths that succeeded.
// Individual failures are logged and skipped; cancellation stops the batch.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) []string {
	var paths []string
	for i, u := range urls {
		path, err := f.fetch(ctx, u, i+1)
		if err != nil {
			f.Logger.Error("giving up on sitemap", "url", u, "error", err)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		paths = append(paths, path)
	}
	return paths
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string, idx int) (string, error) {
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create sitemap directory '%s': %w", f.Dir, err)
	}

	path := filepath.Join(f.Dir, fileNameFor(rawURL, idx))
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		f.Logger.Info("sitemap already exists, skipping download", "path", path)
		return path, nil
	}

	var lastErr error
	for attempt := 1; attempt <= f.Attempts; attempt++ {
		data, err := f.download(ctx, rawURL)
		if err == nil {
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return "", fmt.Errorf("failed to save sitemap to '%s': %w", path, err)
			}
			f.Logger.Info("saved sitemap", "url", rawURL, "path", path)
			return path, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if attempt == f.Attempts {
			break
		}
		backoff := fetchBackoff(attempt)
		f.Logger.Warn("sitemap fetch failed",
			"attempt", attempt, "attempts", f.Attempts, "url", rawURL, "error", err, "retry_in", backoff)
		if err := waitFor(ctx, backoff); err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("failed to fetch %s after %d attempts: %w", rawURL, f.Attempts, lastErr)
}

func (f *Fetcher) download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// fileNameFor derives a local file name from the URL's last path element,
// falling back to a generic name. idx distinguishes fallbacks in a batch.
func fileNameFor(rawURL string, idx int) string {
	name := ""
	if u, err := url.Parse(rawURL); err == nil {
		parts := strings.Split(u.Path, "/")
		name = parts[len(parts)-1]
	}
	if name == "" {
		if idx > 0 {
			name = fmt.Sprintf("sitemap_%d.xml", idx)
		} else {
			name = "sitemap.xml"
		}
	}
	if !strings.HasSuffix(name, ".xml") {
		name += ".xml"
	}
	return name
}

// fetchBackoff grows 1.5^attempt seconds, capped at 30 seconds.
func fetchBackoff(attempt int) time.Duration {
	d := time.Duration(math.Pow(1.5, float64(attempt)) * float64(time.Second))
	if d > fetchMaxBackoff {
		d = fetchMaxBackoff
	}
	return d
}

func waitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
