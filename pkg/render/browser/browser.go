// Package browser renders markup in a headless Chrome through chromedp and
// reads real computed styles back with an injected collector script.
package browser

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/hellenic-development/token-inspector/pkg/render"
	"github.com/hellenic-development/token-inspector/pkg/render/static"
)

// Options configures the browser.
type Options struct {
	ExecPath       string        // empty = let chromedp find Chrome
	Headless       bool          // run without a window
	ViewportWidth  int           // default 1280
	ViewportHeight int           // default 1024
	SettleDelay    time.Duration // wait after loading markup, default 500ms
	UserAgent      string
	MaxElements    int // elements the collector reads, 0 = all
}

// Renderer is a render.Renderer backed by one Chrome process. Each Render
// opens a new tab; Close shuts the browser down.
type Renderer struct {
	opts        Options
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// New starts the exec allocator. Chrome itself is launched lazily on the
// first Render.
func New(opts Options) *Renderer {
	if opts.ViewportWidth <= 0 {
		opts.ViewportWidth = 1280
	}
	if opts.ViewportHeight <= 0 {
		opts.ViewportHeight = 1024
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = 500 * time.Millisecond
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.WindowSize(opts.ViewportWidth, opts.ViewportHeight),
	)
	if opts.Headless {
		allocOpts = append(allocOpts, chromedp.Headless)
	} else {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	return &Renderer{opts: opts, allocCtx: allocCtx, allocCancel: allocCancel}
}

// Render loads markup into a fresh tab and collects computed styles. The
// returned Document keeps the tab open until it is closed.
func (r *Renderer) Render(ctx context.Context, markup string, base *url.URL) (render.Document, error) {
	prepared, err := prepare(markup, base)
	if err != nil {
		return nil, err
	}

	tabCtx, cancelTab := chromedp.NewContext(r.allocCtx)
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	var raw string
	err = chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(c context.Context) error {
			tree, err := page.GetFrameTree().Do(c)
			if err != nil {
				return fmt.Errorf("get frame tree: %w", err)
			}
			return page.SetDocumentContent(tree.Frame.ID, prepared).Do(c)
		}),
		chromedp.Sleep(r.opts.SettleDelay),
		chromedp.Evaluate(collectorScript(r.opts.MaxElements), &raw, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithReturnByValue(true)
		}),
	)
	if err != nil {
		cancelTab()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("render in browser: %w", err)
	}

	doc, err := decode(raw, func() error {
		cancelTab()
		return nil
	})
	if err != nil {
		cancelTab()
		return nil, err
	}
	return doc, nil
}

// Close shuts the browser down.
func (r *Renderer) Close() error {
	r.allocCancel()
	return nil
}

// prepare absolutizes asset URLs and injects a <base> element so relative
// stylesheet and image references resolve against the page's origin.
func prepare(markup string, base *url.URL) (string, error) {
	if base == nil {
		return markup, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("parse markup: %w", err)
	}
	static.Absolutize(doc, base)

	if doc.Find("base[href]").Length() == 0 {
		baseTag := fmt.Sprintf(`<base href="%s">`, html.EscapeString(base.String()))
		doc.Find("head").PrependHtml(baseTag)
	}

	out, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("serialize markup: %w", err)
	}
	return out, nil
}
