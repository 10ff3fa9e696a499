package static

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hellenic-development/token-inspector/pkg/render"
)

type fakeFetcher struct {
	sheets map[string]string
	calls  map[string]int
}

func (f *fakeFetcher) Get(_ context.Context, rawURL string) (string, error) {
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[rawURL]++
	if css, ok := f.sheets[rawURL]; ok {
		return css, nil
	}
	return "", errors.New("403 forbidden")
}

func renderDoc(t *testing.T, r *Renderer, markup, base string) render.Document {
	t.Helper()
	var u *url.URL
	if base != "" {
		var err error
		u, err = url.Parse(base)
		require.NoError(t, err)
	}
	doc, err := r.Render(context.Background(), markup, u)
	require.NoError(t, err)
	t.Cleanup(func() { doc.Close() })
	return doc
}

func byTag(obs []render.Observation, tag string) render.Observation {
	for _, o := range obs {
		if o.Tag == tag {
			return o
		}
	}
	return render.Observation{}
}

func TestRenderCascade(t *testing.T) {
	r, err := New(Options{})
	require.NoError(t, err)

	doc := renderDoc(t, r, `<html><head><style>
		body { color: #333; font-family: "Open Sans", Arial, sans-serif; }
		.card { background: #fff url(bg.png) no-repeat; padding: 16px 24px; border: 1px solid red; border-radius: 8px; box-shadow: 0 1px 2px rgba(0,0,0,.2); }
		#main .card { padding-top: 20px; }
		.card { padding-top: 4px; }
		.title { font-size: 2rem; font-weight: bold; line-height: 1.5; letter-spacing: 0.05em; }
		.btn { transition: opacity 300ms ease-in-out; animation: spin 2s linear infinite; gap: 8px 4px; }
		@media (max-width: 600px) { .card { background-color: blue; } }
		@media print { .title { color: green; } }
		</style></head>
		<body><div id="main"><div class="card"><h2 class="title">Hi</h2><button class="btn" style="color: transparent">Go</button></div></div></body></html>`, "")

	obs := doc.Observations(0)
	require.Len(t, obs, 4)
	assert.Equal(t, []string{"div", "div", "h2", "button"}, []string{obs[0].Tag, obs[1].Tag, obs[2].Tag, obs[3].Tag})

	card := obs[1]
	assert.Equal(t, "rgb(255, 255, 255)", card.Get("backgroundColor"), "media rule for narrow screens must not apply")
	assert.Equal(t, "20px", card.Get("paddingTop"), "higher specificity wins over later rule")
	assert.Equal(t, "24px", card.Get("paddingRight"))
	assert.Equal(t, "16px", card.Get("paddingBottom"))
	assert.Equal(t, "rgb(255, 0, 0)", card.Get("borderColor"))
	assert.Equal(t, "8px", card.Get("borderRadius"))
	assert.Contains(t, card.Get("boxShadow"), "2px")
	assert.Equal(t, "rgb(51, 51, 51)", card.Get("color"), "color is inherited from body")
	assert.Contains(t, card.Get("fontFamily"), "Open Sans")

	title := obs[2]
	assert.Equal(t, "32px", title.Get("fontSize"))
	assert.Equal(t, "700", title.Get("fontWeight"))
	assert.Equal(t, "1.5", title.Get("lineHeight"))
	assert.Equal(t, "1.6px", title.Get("letterSpacing"))
	assert.Equal(t, "rgb(51, 51, 51)", title.Get("color"), "print rule must not apply")
	assert.Equal(t, "26.56px", title.Get("marginTop"), "user agent margin resolved against the element font size")

	btn := obs[3]
	assert.Equal(t, "rgba(0, 0, 0, 0)", btn.Get("color"), "inline style wins")
	assert.Equal(t, "0.3s", btn.Get("transitionDuration"))
	assert.Equal(t, "ease-in-out", btn.Get("transitionTimingFunction"))
	assert.Equal(t, "spin", btn.Get("animationName"))
	assert.Equal(t, "2s", btn.Get("animationDuration"))
	assert.Equal(t, "8px 4px", btn.Get("gap"))
}

func TestRenderInitialValues(t *testing.T) {
	r, err := New(Options{})
	require.NoError(t, err)

	doc := renderDoc(t, r, `<body><p>plain</p></body>`, "")
	p := byTag(doc.Observations(0), "p")

	assert.Equal(t, "rgba(0, 0, 0, 0)", p.Get("backgroundColor"))
	assert.Equal(t, "rgb(0, 0, 0)", p.Get("color"))
	assert.Equal(t, "rgb(0, 0, 0)", p.Get("borderColor"), "border color follows currentcolor")
	assert.Equal(t, "16px", p.Get("fontSize"))
	assert.Equal(t, "400", p.Get("fontWeight"))
	assert.Equal(t, "normal", p.Get("lineHeight"))
	assert.Equal(t, "0px", p.Get("paddingLeft"))
	assert.Equal(t, "16px", p.Get("marginTop"))
	assert.Equal(t, "none", p.Get("boxShadow"))
	assert.Equal(t, "0s", p.Get("transitionDuration"))
	assert.Equal(t, "ease", p.Get("transitionTimingFunction"))
	assert.Equal(t, "none", p.Get("animationName"))
}

func TestRenderImportant(t *testing.T) {
	r, err := New(Options{})
	require.NoError(t, err)

	doc := renderDoc(t, r, `<style>p { color: red !important } #x { color: blue }</style><body><p id="x" style="color: green">t</p></body>`, "")
	assert.Equal(t, "rgb(255, 0, 0)", byTag(doc.Observations(0), "p").Get("color"))
}

func TestRenderAssetsAndAbsoluteURLs(t *testing.T) {
	r, err := New(Options{})
	require.NoError(t, err)

	doc := renderDoc(t, r, `<body>
		<img src="/img/logo.png" alt="Logo" width="120" height="40">
		<svg id="menu" width="24" height="24" viewBox="0 0 24 24"><path d="M0 0h24v24H0z"/></svg>
	</body>`, "https://example.com/about/")

	obs := doc.Observations(0)
	img := byTag(obs, "img")
	assert.Equal(t, "https://example.com/img/logo.png", img.Attr("src"))
	assert.Equal(t, "Logo", img.Attr("alt"))

	svg := byTag(obs, "svg")
	assert.Equal(t, "0 0 24 24", svg.Attr("viewBox"))
	assert.Contains(t, svg.OuterHTML, `<svg id="menu"`)
	assert.Contains(t, svg.OuterHTML, "<path")
}

func TestRenderStyleSheets(t *testing.T) {
	fetcher := &fakeFetcher{sheets: map[string]string{
		"https://example.com/css/site.css": `
			@font-face { font-family: "Brand Sans"; src: url("/fonts/brand.woff2?v=2") format("woff2"); }
			@keyframes fade { from { opacity: 0; } to { opacity: 1; } }
			.hero { color: #0a0; }`,
	}}
	r, err := New(Options{Fetcher: fetcher})
	require.NoError(t, err)

	markup := `<head>
		<link rel="stylesheet" href="/css/site.css">
		<link rel="stylesheet" href="https://cdn.other.com/blocked.css">
		<link rel="icon" href="/favicon.ico">
	</head><body><h1 class="hero">x</h1></body>`

	doc := renderDoc(t, r, markup, "https://example.com/")
	sheets := doc.StyleSheets()
	require.Len(t, sheets, 2)

	require.NoError(t, sheets[0].Err)
	assert.Equal(t, "https://example.com/css/site.css", sheets[0].Href)
	require.Len(t, sheets[0].Rules, 3)
	assert.Equal(t, render.FontFaceRule, sheets[0].Rules[0].Kind)
	assert.Contains(t, sheets[0].Rules[0].Declarations["font-family"], "Brand Sans")

	kf := sheets[0].Rules[1]
	assert.Equal(t, render.KeyframesRule, kf.Kind)
	assert.Equal(t, "fade", kf.Name)
	assert.Equal(t, []render.Keyframe{
		{KeyText: "0%", Style: "opacity: 0;"},
		{KeyText: "100%", Style: "opacity: 1;"},
	}, kf.Keyframes)

	var inaccessible *render.InaccessibleError
	require.ErrorAs(t, sheets[1].Err, &inaccessible)
	assert.Equal(t, "https://cdn.other.com/blocked.css", inaccessible.Href)

	assert.Equal(t, "rgb(0, 170, 0)", byTag(doc.Observations(0), "h1").Get("color"))

	// Second render is served from the cache.
	renderDoc(t, r, markup, "https://example.com/")
	assert.Equal(t, 1, fetcher.calls["https://example.com/css/site.css"])
}

func TestRenderWithoutFetcher(t *testing.T) {
	r, err := New(Options{})
	require.NoError(t, err)

	doc := renderDoc(t, r, `<link rel="stylesheet" href="https://example.com/a.css"><body></body>`, "")
	sheets := doc.StyleSheets()
	require.Len(t, sheets, 1)
	assert.ErrorIs(t, sheets[0].Err, errNoFetcher)
}

func TestRenderCancelled(t *testing.T) {
	r, err := New(Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Render(ctx, `<body></body>`, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
