package extractor

import (
	"context"
	"net/url"
	"slices"

	"github.com/hellenic-development/token-inspector/pkg/render"
	"github.com/hellenic-development/token-inspector/pkg/token"
)

// DefaultMaxElements bounds how many elements one run inspects.
const DefaultMaxElements = 1000

// Options configures one extraction run.
type Options struct {
	MaxElements int              // 0 = DefaultMaxElements
	Categories  []token.Category // empty = all
	TextStyles  bool             // sample complete text styles per tag
	Base        *url.URL         // resolves relative font URLs, may be nil
}

// Result is the raw output of one run, ready for token.Store.Ingest.
type Result struct {
	Tokens   map[token.Category][]token.Token
	Analyzed int // elements inspected
	// Skipped lists stylesheets the scanners could not read. They never
	// fail the run.
	Skipped []error
}

// Extract runs every selected extractor over the first MaxElements
// observations of doc, then the stylesheet scanners and the text-style
// sampler. Elements beyond the bound are ignored.
func Extract(ctx context.Context, doc render.Document, opts Options) (*Result, error) {
	limit := opts.MaxElements
	if limit <= 0 {
		limit = DefaultMaxElements
	}
	selected := opts.Categories
	if len(selected) == 0 {
		selected = token.Categories()
	}
	want := func(c token.Category) bool { return slices.Contains(selected, c) }

	observations := doc.Observations(limit)
	if len(observations) > limit {
		observations = observations[:limit]
	}

	res := &Result{
		Tokens:   make(map[token.Category][]token.Token, len(selected)),
		Analyzed: len(observations),
	}
	for _, c := range selected {
		res.Tokens[c] = []token.Token{}
	}

	seen := make(map[token.Category]Seen, len(token.Categories()))
	for _, c := range token.Categories() {
		seen[c] = make(Seen)
	}
	extractors := []struct {
		category token.Category
		fn       func(render.Observation, Seen) []token.Token
	}{
		{token.Colors, ExtractColors},
		{token.Typography, ExtractTypography},
		{token.Spacing, ExtractSpacing},
		{token.Effects, ExtractEffects},
		{token.Motion, ExtractMotion},
	}

	for i, o := range observations {
		if i%100 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		for _, e := range extractors {
			if want(e.category) {
				res.Tokens[e.category] = append(res.Tokens[e.category], e.fn(o, seen[e.category])...)
			}
		}
		if want(token.Assets) {
			res.Tokens[token.Assets] = append(res.Tokens[token.Assets], ExtractAssets(o)...)
		}
	}

	sheets := doc.StyleSheets()
	for _, s := range sheets {
		if s.Err != nil {
			res.Skipped = append(res.Skipped, s.Err)
		}
	}

	if want(token.Assets) {
		res.Tokens[token.Assets] = append(res.Tokens[token.Assets], ScanFontFaces(sheets, opts.Base)...)
	}
	if opts.TextStyles && want(token.Typography) {
		res.Tokens[token.Typography] = append(res.Tokens[token.Typography], SampleTextStyles(doc)...)
	}
	if want(token.Motion) {
		res.Tokens[token.Motion] = append(res.Tokens[token.Motion], ScanKeyframes(sheets)...)
	}

	return res, nil
}
