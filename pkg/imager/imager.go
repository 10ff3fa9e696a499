package imager

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hellenic-development/token-inspector/pkg/token"
)

const (
	// DefaultConcurrency bounds parallel downloads.
	DefaultConcurrency = 4
	// DefaultInterval spaces consecutive download starts.
	DefaultInterval = 300 * time.Millisecond

	maxAssetBytes = 50 << 20
)

// Config holds configuration for a batch download.
type Config struct {
	OutputDir   string        // created if missing, default "assets"
	Concurrency int           // 0 = DefaultConcurrency
	Interval    time.Duration // 0 = DefaultInterval, <0 = no spacing
	Client      *http.Client  // nil = a client with a 30s timeout
}

// SavedAsset is one asset written to disk.
type SavedAsset struct {
	Name     string
	Source   string // the token value, truncated for inline markup
	FileName string
	Bytes    int64
}

// Result holds the outcome of Download.
type Result struct {
	Assets []SavedAsset
	Errors []error // non-fatal per-asset failures
}

// Download saves every asset into cfg.OutputDir as <kebab(name)>.<ext>,
// adding -2, -3, ... on name collisions. Inline SVG markup is written as
// is, data: URIs are decoded and http(s) URLs fetched. Starts are spaced
// by cfg.Interval. Per-asset failures are collected in Result.Errors; only
// a missing output directory or a cancelled ctx fail the whole batch.
func Download(ctx context.Context, assets []token.Token, cfg Config) (*Result, error) {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "assets"
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.Interval == 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 30 * time.Second}
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %q: %w", cfg.OutputDir, err)
	}

	names := fileNames(assets)
	saved := make([]*SavedAsset, len(assets))
	failed := make([]error, len(assets))

	limit := rate.Inf
	if cfg.Interval > 0 {
		limit = rate.Every(cfg.Interval)
	}
	limiter := rate.NewLimiter(limit, 1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)
	for i, asset := range assets {
		if err := limiter.Wait(gctx); err != nil {
			break
		}
		g.Go(func() error {
			dest := filepath.Join(cfg.OutputDir, names[i])
			n, err := save(gctx, cfg.Client, asset, dest)
			if err != nil {
				failed[i] = fmt.Errorf("failed to download %s: %w", asset.Name, err)
				return nil
			}
			saved[i] = &SavedAsset{Name: asset.Name, Source: source(asset), FileName: names[i], Bytes: n}
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{}
	for i := range assets {
		if saved[i] != nil {
			result.Assets = append(result.Assets, *saved[i])
		}
		if failed[i] != nil {
			result.Errors = append(result.Errors, failed[i])
		}
	}
	return result, nil
}

func save(ctx context.Context, client *http.Client, asset token.Token, dest string) (int64, error) {
	if asset.Category == token.KindSVG {
		return writeFile(dest, strings.NewReader(asset.Value))
	}

	value := strings.TrimSpace(asset.Value)
	if strings.HasPrefix(strings.ToLower(value), "data:") {
		data, err := decodeDataURI(value)
		if err != nil {
			return 0, err
		}
		return writeFile(dest, strings.NewReader(string(data)))
	}

	u, err := url.Parse(value)
	if err != nil {
		return 0, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return 0, fmt.Errorf("unsupported source %q", value)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("HTTP GET failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d downloading asset", resp.StatusCode)
	}
	return writeFile(dest, io.LimitReader(resp.Body, maxAssetBytes))
}

func writeFile(dest string, r io.Reader) (int64, error) {
	f, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("failed to create file %q: %w", dest, err)
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		return n, fmt.Errorf("failed to write file %q: %w", dest, err)
	}
	return n, nil
}

// decodeDataURI returns the payload of a base64 or percent-encoded data: URI.
func decodeDataURI(value string) ([]byte, error) {
	header, payload, ok := strings.Cut(value[len("data:"):], ",")
	if !ok {
		return nil, fmt.Errorf("malformed data URI")
	}
	if strings.HasSuffix(strings.ToLower(header), ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("malformed data URI: %w", err)
		}
		return data, nil
	}
	data, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("malformed data URI: %w", err)
	}
	return []byte(data), nil
}

func source(asset token.Token) string {
	if asset.Category == token.KindSVG || len(asset.Value) > 120 {
		return string(asset.Category) + " (inline)"
	}
	return asset.Value
}

// fileNames assigns each asset a unique file name, in input order. A taken
// name gets the first free -2, -3, ... suffix.
func fileNames(assets []token.Token) []string {
	used := make(map[string]bool)
	names := make([]string, len(assets))
	for i, a := range assets {
		name := buildFileName(a.Name, i, fileExtension(a))
		ext := filepath.Ext(name)
		base := strings.TrimSuffix(name, ext)
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s-%d%s", base, n, ext)
		}
		used[name] = true
		names[i] = name
	}
	return names
}

var nonKebab = regexp.MustCompile(`[^a-z0-9]+`)

// buildFileName creates a sanitized kebab-case file name from an asset
// name, falling back to asset-<n> when nothing usable is left.
func buildFileName(name string, index int, ext string) string {
	stem := strings.Trim(nonKebab.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if stem == "" {
		stem = fmt.Sprintf("asset-%d", index+1)
	}
	if ext == "" || ext == "other" {
		ext = "bin"
	}
	return stem + "." + ext
}
