package extractor

import (
	"fmt"
	"strings"

	"github.com/hellenic-development/token-inspector/pkg/render"
	"github.com/hellenic-development/token-inspector/pkg/token"
)

// samplesPerTag is how many elements of each text tag are inspected.
const samplesPerTag = 3

// SampleTextStyles records the complete text style of the first elements of
// each semantic text tag (headings, paragraphs, links, buttons, ...).
// Styles are de-duplicated by size, weight, line height and family across
// all tags. The first sample of a tag is named after the tag ("H1"), later
// distinct ones get a variant suffix ("H1 (Var 2)").
func SampleTextStyles(doc render.Document) []token.Token {
	seen := make(Seen)
	var out []token.Token

	for _, tag := range render.TextTags {
		for i, o := range doc.Samples(tag, samplesPerTag) {
			signature := strings.Join([]string{
				o.Get("fontSize"), o.Get("fontWeight"), o.Get("lineHeight"), o.Get("fontFamily"),
			}, "-")
			if !seen.add(signature) {
				continue
			}

			name := strings.ToUpper(tag)
			if i > 0 {
				name += fmt.Sprintf(" (Var %d)", i+1)
			}

			out = append(out, token.Token{
				Type:     token.Typography,
				Category: token.KindTextStyle,
				Value:    o.Get("fontFamily"),
				Name:     name,
				Attributes: map[string]string{
					"fontSize":      o.Get("fontSize"),
					"fontWeight":    o.Get("fontWeight"),
					"lineHeight":    o.Get("lineHeight"),
					"letterSpacing": o.Get("letterSpacing"),
					"fontFamily":    o.Get("fontFamily"),
					"color":         o.Get("color"),
				},
			})
		}
	}
	return out
}
