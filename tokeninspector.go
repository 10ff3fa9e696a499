package tokeninspector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"sync/atomic"

	"github.com/hellenic-development/token-inspector/pkg/acquire"
	"github.com/hellenic-development/token-inspector/pkg/config"
	"github.com/hellenic-development/token-inspector/pkg/extractor"
	"github.com/hellenic-development/token-inspector/pkg/formatter"
	"github.com/hellenic-development/token-inspector/pkg/imager"
	"github.com/hellenic-development/token-inspector/pkg/render"
	"github.com/hellenic-development/token-inspector/pkg/render/browser"
	"github.com/hellenic-development/token-inspector/pkg/render/static"
	"github.com/hellenic-development/token-inspector/pkg/token"
)

// Version is the release of this module.
const Version = "0.3.0"

// ErrBusy is returned when an inspection starts while another one on the
// same Inspector is still running.
var ErrBusy = errors.New("an inspection is already in progress")

// Logger receives progress messages. A nil Logger means silent operation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Options configures an Inspector.
type Options struct {
	Config   *config.Config  // nil = defaults plus environment, see config.Default
	Logger   Logger          // nil = no logging
	Client   *acquire.Client // nil = built from Config.Acquisition
	Renderer render.Renderer // nil = built from Config.Render
}

// Report describes one completed inspection.
type Report struct {
	Source   string   // normalized locator, or the local document name
	Locator  *url.URL // base used for relative URLs, may be nil
	Via      string   // acquisition strategy that succeeded, empty for local markup
	Catalog  *token.Catalog
	Analyzed int // elements inspected
	Favicon  []byte
	Skipped  []error // inaccessible stylesheets
}

// Inspector runs the acquisition, rendering and extraction pipeline and
// owns the resulting catalog. Only one inspection runs at a time; a
// concurrent call fails with ErrBusy.
type Inspector struct {
	cfg          *config.Config
	log          Logger
	client       *acquire.Client
	renderer     render.Renderer
	ownsRenderer bool
	categories   []token.Category
	store        *token.Store
	busy         atomic.Bool
}

// New builds an Inspector. The caller must Close it to release a browser
// renderer created from the configuration.
func New(opts Options) (*Inspector, error) {
	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.Default(); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	categories, err := cfg.Categories()
	if err != nil {
		return nil, err
	}

	in := &Inspector{
		cfg:        cfg,
		log:        opts.Logger,
		client:     opts.Client,
		renderer:   opts.Renderer,
		categories: categories,
		store:      token.NewStore(),
	}

	if in.client == nil {
		in.client = acquire.New(acquire.Options{
			Timeout:   cfg.Acquisition.Timeout,
			Proxies:   cfg.Acquisition.Proxies,
			UserAgent: cfg.Acquisition.UserAgent,
			MaxBytes:  cfg.Acquisition.MaxPageBytes,
		})
	}

	if in.renderer == nil {
		in.ownsRenderer = true
		switch cfg.Render.Engine {
		case config.EngineBrowser:
			in.renderer = browser.New(browser.Options{
				ExecPath:       cfg.Render.ExecPath,
				Headless:       cfg.Render.Headless,
				ViewportWidth:  cfg.Render.ViewportWidth,
				ViewportHeight: cfg.Render.ViewportHeight,
				SettleDelay:    cfg.Render.SettleDelay,
				UserAgent:      cfg.Acquisition.UserAgent,
				MaxElements:    cfg.Extraction.MaxElements,
			})
		default:
			r, err := static.New(static.Options{
				Fetcher:        in.client,
				ViewportWidth:  cfg.Render.ViewportWidth,
				ViewportHeight: cfg.Render.ViewportHeight,
				CacheSize:      cfg.Render.StylesheetCache,
			})
			if err != nil {
				return nil, err
			}
			in.renderer = r
		}
	}

	return in, nil
}

// Config returns the configuration in use.
func (in *Inspector) Config() *config.Config { return in.cfg }

// Close releases a renderer the Inspector created itself.
func (in *Inspector) Close() error {
	if c, ok := in.renderer.(io.Closer); ok && in.ownsRenderer {
		return c.Close()
	}
	return nil
}

func (in *Inspector) logInfo(f string, a ...any) {
	if in.log != nil {
		in.log.Infof(f, a...)
	}
}

func (in *Inspector) logWarn(f string, a ...any) {
	if in.log != nil {
		in.log.Warnf(f, a...)
	}
}

// Inspect fetches locator, trying the direct URL and then each proxy, and
// extracts its tokens. The new catalog replaces the previous one.
func (in *Inspector) Inspect(ctx context.Context, locator string) (*Report, error) {
	if !in.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer in.busy.Store(false)

	in.logInfo("Fetching %s...", locator)
	page, err := in.client.Fetch(ctx, locator)
	if err != nil {
		return nil, fmt.Errorf("acquire: %w", err)
	}
	for _, failure := range page.Failures {
		in.logWarn("Attempt failed: %v", failure)
	}
	in.logInfo("Retrieved %s via %s (%d bytes)", page.Locator, page.Via, len(page.Markup))

	report, err := in.extract(ctx, page.Markup, page.Locator)
	if err != nil {
		return nil, err
	}
	report.Source = page.Locator.String()
	report.Via = page.Via.String()

	if in.cfg.Acquisition.Favicon {
		icon, err := in.client.Favicon(ctx, page.Locator)
		if err != nil {
			in.logWarn("Favicon unavailable: %v", err)
		} else {
			report.Favicon = icon
		}
	}
	return report, nil
}

// InspectMarkup extracts tokens from local markup without acquisition.
// base resolves relative URLs and may be nil.
func (in *Inspector) InspectMarkup(ctx context.Context, markup string, base *url.URL) (*Report, error) {
	if !in.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer in.busy.Store(false)

	report, err := in.extract(ctx, markup, base)
	if err != nil {
		return nil, err
	}
	report.Source = "local document"
	if base != nil {
		report.Source = base.String()
	}
	return report, nil
}

// extract renders markup and runs the extractors. The rendered document is
// closed whether or not extraction succeeds.
func (in *Inspector) extract(ctx context.Context, markup string, base *url.URL) (*Report, error) {
	in.store.Clear()

	in.logInfo("Rendering document (%s)...", in.cfg.Render.Engine)
	doc, err := in.renderer.Render(ctx, markup, base)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	defer func() {
		if err := doc.Close(); err != nil {
			in.logWarn("Could not release render context: %v", err)
		}
	}()

	in.logInfo("Extracting design tokens...")
	res, err := extractor.Extract(ctx, doc, extractor.Options{
		MaxElements: in.cfg.Extraction.MaxElements,
		Categories:  in.categories,
		TextStyles:  in.cfg.Extraction.TextStyles,
		Base:        base,
	})
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	for _, skipped := range res.Skipped {
		in.logWarn("Skipped stylesheet: %v", skipped)
	}

	catalog := in.store.Ingest(res.Tokens)
	in.logInfo("Extracted %d tokens from %d elements", catalog.Len(), res.Analyzed)

	return &Report{
		Locator:  base,
		Catalog:  catalog,
		Analyzed: res.Analyzed,
		Skipped:  res.Skipped,
	}, nil
}

// Catalog returns the catalog of the last inspection. It is empty before
// the first one and after Clear.
func (in *Inspector) Catalog() *token.Catalog { return in.store.Current() }

// Clear discards the current catalog.
func (in *Inspector) Clear() { in.store.Clear() }

// Job describes one Run.
type Job struct {
	URL    string // remote page; ignored when File is set
	File   string // local markup file
	Base   string // base URL for File, optional
	Format formatter.Format
	// Assets selects assets to download ("all", "icons" or an extension).
	// Empty downloads nothing.
	Assets   string
	AssetDir string // empty = Config.Assets.Dir
}

// Result contains the output of Run.
type Result struct {
	Report   *Report
	Export   string // the catalog in Job.Format
	Markdown string // human-readable report
	Assets   *imager.Result
}

// Run executes the whole pipeline once: inspect, export, and optionally
// download assets. Per-asset download failures are logged, not returned.
func Run(ctx context.Context, opts Options, job Job) (*Result, error) {
	in, err := New(opts)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	var report *Report
	if job.File != "" {
		markup, err := os.ReadFile(job.File)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", job.File, err)
		}
		var base *url.URL
		if job.Base != "" {
			if base, err = acquire.Normalize(job.Base); err != nil {
				return nil, err
			}
		}
		report, err = in.InspectMarkup(ctx, string(markup), base)
		if err != nil {
			return nil, err
		}
		if base == nil {
			report.Source = job.File
		}
	} else {
		report, err = in.Inspect(ctx, job.URL)
		if err != nil {
			return nil, err
		}
	}

	in.logInfo("Generating %s export...", job.Format)
	export, err := formatter.Export(report.Catalog, job.Format)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Report:   report,
		Export:   export,
		Markdown: formatter.ToMarkdown(report.Catalog, report.Source, report.Analyzed),
	}

	if job.Assets != "" {
		if result.Assets, err = in.downloadAssets(ctx, report.Catalog, job); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (in *Inspector) downloadAssets(ctx context.Context, catalog *token.Catalog, job Job) (*imager.Result, error) {
	assets := imager.Filter(catalog, job.Assets)
	if len(assets) == 0 {
		in.logWarn("No %s assets found", job.Assets)
		return &imager.Result{}, nil
	}

	dir := job.AssetDir
	if dir == "" {
		dir = in.cfg.Assets.Dir
	}
	in.logInfo("Downloading %d asset(s) to %s...", len(assets), dir)
	result, err := imager.Download(ctx, assets, imager.Config{
		OutputDir:   dir,
		Concurrency: in.cfg.Assets.Concurrency,
		Interval:    in.cfg.Assets.Interval,
	})
	if err != nil {
		return nil, fmt.Errorf("download assets: %w", err)
	}
	for _, dlErr := range result.Errors {
		in.logWarn("%v", dlErr)
	}
	in.logInfo("Downloaded %d asset(s)", len(result.Assets))
	return result, nil
}
