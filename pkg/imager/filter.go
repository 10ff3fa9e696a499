// Package imager selects assets from a catalog and saves them to disk.
package imager

import (
	"net/url"
	"path"
	"strings"

	"github.com/hellenic-development/token-inspector/pkg/token"
)

// Selectors accepted by Filter besides a bare extension.
const (
	SelectAll   = "all"
	SelectIcons = "icons"
)

var iconKeywords = []string{"icon", "logo", "symbol", "badge", "avatar"}

// Extension derives a lower-case file extension from an asset value: the
// suffix of a URL path, the media subtype of a data: URI ("svg" for
// image/svg+xml), or "other" when neither applies. Inline markup is "other".
func Extension(value string) string {
	v := strings.TrimSpace(value)
	if strings.HasPrefix(v, "<") {
		return "other"
	}
	if strings.HasPrefix(strings.ToLower(v), "data:") {
		mediaType, _, _ := strings.Cut(v[len("data:"):], ",")
		mediaType, _, _ = strings.Cut(mediaType, ";")
		_, sub, ok := strings.Cut(mediaType, "/")
		if !ok || sub == "" {
			return "other"
		}
		sub, _, _ = strings.Cut(sub, "+")
		return strings.ToLower(sub)
	}

	u, err := url.Parse(v)
	if err != nil {
		return "other"
	}
	ext := strings.TrimPrefix(path.Ext(u.Path), ".")
	if ext == "" {
		return "other"
	}
	return strings.ToLower(ext)
}

// fileExtension is the extension a downloaded asset is saved with: Extension,
// except inline SVG markup is written as .svg.
func fileExtension(t token.Token) string {
	if t.Category == token.KindSVG {
		return "svg"
	}
	return Extension(t.Value)
}

// IsIcon reports whether the asset's name or value mentions an icon-like
// keyword, case-insensitively.
func IsIcon(t token.Token) bool {
	name := strings.ToLower(t.Name)
	value := strings.ToLower(t.Value)
	for _, k := range iconKeywords {
		if strings.Contains(name, k) || strings.Contains(value, k) {
			return true
		}
	}
	return false
}

// Filter returns the assets matching selector, in catalog order: "all",
// "icons", or a file extension ("jpg" also matches "jpeg").
func Filter(c *token.Catalog, selector string) []token.Token {
	sel := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(selector), "."))
	var out []token.Token
	for _, t := range c.Tokens(token.Assets) {
		if matches(t, sel) {
			out = append(out, t)
		}
	}
	return out
}

func matches(t token.Token, sel string) bool {
	switch sel {
	case SelectAll, "":
		return true
	case SelectIcons:
		return IsIcon(t)
	}
	ext := Extension(t.Value)
	return ext == sel || (sel == "jpg" && ext == "jpeg")
}
