// Package static renders markup without a browser. It parses the document
// with goquery, parses every stylesheet with douceur, matches selectors with
// cascadia and runs a reduced CSS cascade over the properties the token
// extractors read.
//
// The result approximates what a browser reports as computed style: colors
// are serialized as rgb()/rgba(), font sizes and em lengths are resolved to
// px, font weights are numeric and durations are in seconds. Layout-dependent
// values (percent paddings, auto margins) are reported as declared.
package static

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/net/html"

	"github.com/hellenic-development/token-inspector/pkg/render"
)

const rootFontSize = 16.0

// Fetcher retrieves linked stylesheets.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) (string, error)
}

// Options configures a Renderer.
type Options struct {
	Fetcher        Fetcher // nil = linked stylesheets are reported inaccessible
	ViewportWidth  int     // for @media evaluation, default 1280
	ViewportHeight int     // default 1024
	CacheSize      int     // parsed linked stylesheets kept, default 64
}

// Renderer is the static render.Renderer.
type Renderer struct {
	fetcher Fetcher
	width   int
	height  int
	cache   *lru.Cache[string, *css.Stylesheet]
}

var errNoFetcher = errors.New("no stylesheet fetcher configured")

// New returns a static Renderer.
func New(opts Options) (*Renderer, error) {
	if opts.ViewportWidth <= 0 {
		opts.ViewportWidth = 1280
	}
	if opts.ViewportHeight <= 0 {
		opts.ViewportHeight = 1024
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 64
	}

	cache, err := lru.New[string, *css.Stylesheet](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create stylesheet cache: %w", err)
	}

	return &Renderer{
		fetcher: opts.Fetcher,
		width:   opts.ViewportWidth,
		height:  opts.ViewportHeight,
		cache:   cache,
	}, nil
}

// Render parses markup and resolves the style of every element.
func (r *Renderer) Render(ctx context.Context, markup string, base *url.URL) (render.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}

	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if b, err := resolve(base, href); err == nil {
			base = b
		}
	}
	Absolutize(doc, base)

	sheets := r.loadSheets(ctx, doc, base)

	c := newCascade(r.width, r.height)
	c.addSheet(userAgentSheet, originUserAgent)
	var scanned []render.StyleSheet
	for _, s := range sheets {
		if s.err != nil {
			scanned = append(scanned, render.StyleSheet{Href: s.href, Err: &render.InaccessibleError{Href: s.href, Cause: s.err}})
			continue
		}
		c.addSheet(s.parsed, originAuthor)
		scanned = append(scanned, render.StyleSheet{Href: s.href, Rules: scanRules(s.parsed)})
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	elements := c.observe(doc.Nodes[0])
	return render.NewSnapshot(elements, nil, scanned, nil), nil
}

// Absolutize rewrites img[src], link[href] and script[src] to absolute URLs.
func Absolutize(doc *goquery.Document, base *url.URL) {
	if base == nil {
		return
	}
	for _, target := range []struct{ sel, attr string }{
		{"img[src]", "src"},
		{"link[href]", "href"},
		{"script[src]", "src"},
	} {
		doc.Find(target.sel).Each(func(_ int, s *goquery.Selection) {
			v, _ := s.Attr(target.attr)
			if abs, err := resolve(base, v); err == nil {
				s.SetAttr(target.attr, abs.String())
			}
		})
	}
}

func resolve(base *url.URL, ref string) (*url.URL, error) {
	ref = strings.TrimSpace(ref)
	if base == nil {
		u, err := url.Parse(ref)
		if err != nil {
			return nil, err
		}
		if !u.IsAbs() {
			return nil, fmt.Errorf("relative reference %q without base", ref)
		}
		return u, nil
	}
	return base.Parse(ref)
}

type loadedSheet struct {
	href   string
	parsed *css.Stylesheet
	err    error
}

func (r *Renderer) loadSheets(ctx context.Context, doc *goquery.Document, base *url.URL) []loadedSheet {
	var sheets []loadedSheet

	doc.Find("style, link").Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "style" {
			if media, ok := s.Attr("media"); ok && !mediaMatches(media, r.width, r.height) {
				return
			}
			parsed, err := parser.Parse(s.Text())
			sheets = append(sheets, loadedSheet{parsed: parsed, err: wrapParse(err)})
			return
		}

		rel, _ := s.Attr("rel")
		href, ok := s.Attr("href")
		if !ok || !hasToken(rel, "stylesheet") || hasToken(rel, "alternate") {
			return
		}
		if media, ok := s.Attr("media"); ok && !mediaMatches(media, r.width, r.height) {
			return
		}

		abs, err := resolve(base, href)
		if err != nil {
			sheets = append(sheets, loadedSheet{href: href, err: err})
			return
		}
		parsed, err := r.linked(ctx, abs.String())
		sheets = append(sheets, loadedSheet{href: abs.String(), parsed: parsed, err: err})
	})

	return sheets
}

func (r *Renderer) linked(ctx context.Context, href string) (*css.Stylesheet, error) {
	if cached, ok := r.cache.Get(href); ok {
		return cached, nil
	}
	if r.fetcher == nil {
		return nil, errNoFetcher
	}

	text, err := r.fetcher.Get(ctx, href)
	if err != nil {
		return nil, err
	}
	parsed, err := parser.Parse(text)
	if err != nil {
		return nil, wrapParse(err)
	}

	r.cache.Add(href, parsed)
	return parsed, nil
}

func wrapParse(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("parse stylesheet: %w", err)
}

func hasToken(list, token string) bool {
	for _, f := range strings.Fields(strings.ToLower(list)) {
		if f == token {
			return true
		}
	}
	return false
}

func atName(rule *css.Rule) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(rule.Name)), "@")
}

// scanRules reduces the top-level rules of a sheet to what the stylesheet
// scanners need: font-face descriptors and keyframe lists.
func scanRules(sheet *css.Stylesheet) []render.Rule {
	var rules []render.Rule
	for _, rule := range sheet.Rules {
		if rule.Kind != css.AtRule {
			rules = append(rules, render.Rule{Kind: render.OtherRule})
			continue
		}

		name := atName(rule)
		switch {
		case name == "font-face":
			decls := make(map[string]string, len(rule.Declarations))
			for _, d := range rule.Declarations {
				decls[strings.ToLower(d.Property)] = d.Value
			}
			rules = append(rules, render.Rule{Kind: render.FontFaceRule, Declarations: decls})

		case strings.HasSuffix(name, "keyframes"):
			kf := render.Rule{Kind: render.KeyframesRule, Name: strings.Trim(strings.TrimSpace(rule.Prelude), `"'`)}
			for _, frame := range rule.Rules {
				kf.Keyframes = append(kf.Keyframes, render.Keyframe{
					KeyText: keyText(frame),
					Style:   cssText(frame.Declarations),
				})
			}
			rules = append(rules, kf)

		default:
			rules = append(rules, render.Rule{Kind: render.OtherRule})
		}
	}
	return rules
}

func keyText(frame *css.Rule) string {
	selectors := frame.Selectors
	if len(selectors) == 0 {
		selectors = split(frame.Prelude, ',')
	}
	out := make([]string, 0, len(selectors))
	for _, s := range selectors {
		switch s = strings.ToLower(strings.TrimSpace(s)); s {
		case "from":
			s = "0%"
		case "to":
			s = "100%"
		}
		out = append(out, s)
	}
	return strings.Join(out, ", ")
}

func cssText(decls []*css.Declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		part := d.Property + ": " + d.Value
		if d.Important {
			part += " !important"
		}
		parts = append(parts, part+";")
	}
	return strings.Join(parts, " ")
}

func outerHTML(n *html.Node) string {
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		return ""
	}
	return b.String()
}
