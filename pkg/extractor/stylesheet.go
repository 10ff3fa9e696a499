package extractor

import (
	"bytes"
	"encoding/json"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/hellenic-development/token-inspector/pkg/render"
	"github.com/hellenic-development/token-inspector/pkg/token"
)

var fontURL = regexp.MustCompile(`url\(\s*['"]?([^'")]+)['"]?\s*\)`)

// ScanFontFaces emits one font asset per @font-face rule, named
// "<family> (<ext>)" after the first url() of its src descriptor. Relative
// URLs are resolved against the sheet's href, or base for inline sheets.
// Inaccessible sheets are skipped.
func ScanFontFaces(sheets []render.StyleSheet, base *url.URL) []token.Token {
	var out []token.Token
	for _, sheet := range sheets {
		if sheet.Err != nil {
			continue
		}
		for _, rule := range sheet.Rules {
			if rule.Kind != render.FontFaceRule {
				continue
			}
			m := fontURL.FindStringSubmatch(rule.Declarations["src"])
			if m == nil {
				continue
			}

			ref := strings.TrimSpace(m[1])
			ext := fontExtension(ref)
			family := strings.TrimSpace(strings.NewReplacer(`"`, "", `'`, "").Replace(rule.Declarations["font-family"]))

			out = append(out, token.Token{
				Type:       token.Assets,
				Category:   token.KindFont,
				Value:      resolveAgainst(ref, sheet.Href, base),
				Name:       family + " (" + ext + ")",
				Attributes: map[string]string{"format": ext},
			})
		}
	}
	return out
}

// fontExtension is the text after the last dot, without query or fragment.
func fontExtension(ref string) string {
	ext := ref
	if i := strings.LastIndex(ref, "."); i >= 0 {
		ext = ref[i+1:]
	}
	if i := strings.IndexAny(ext, "?#"); i >= 0 {
		ext = ext[:i]
	}
	return strings.ToLower(ext)
}

func resolveAgainst(ref, href string, base *url.URL) string {
	if strings.HasPrefix(ref, "data:") {
		return ref
	}
	if href != "" {
		if u, err := url.Parse(href); err == nil {
			base = u
		}
	}
	if base == nil {
		return ref
	}
	abs, err := base.Parse(ref)
	if err != nil {
		return ref
	}
	return abs.String()
}

// ScanKeyframes emits one motion token per @keyframes rule. The value is
// the JSON list of {keyText, style} frames.
func ScanKeyframes(sheets []render.StyleSheet) []token.Token {
	var out []token.Token
	for _, sheet := range sheets {
		if sheet.Err != nil {
			continue
		}
		for _, rule := range sheet.Rules {
			if rule.Kind != render.KeyframesRule {
				continue
			}
			frames := rule.Keyframes
			if frames == nil {
				frames = []render.Keyframe{}
			}
			value, err := marshalFrames(frames)
			if err != nil {
				continue
			}
			out = append(out, token.Token{
				Type:       token.Motion,
				Category:   token.KindKeyframes,
				Value:      value,
				Name:       rule.Name,
				Attributes: map[string]string{"keyframesCount": strconv.Itoa(len(frames))},
			})
		}
	}
	return out
}

func marshalFrames(frames []render.Keyframe) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(frames); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
