package static

import (
	"regexp"
	"strconv"
	"strings"
)

var mediaFeature = regexp.MustCompile(`\(\s*([a-z-]+)\s*(?::\s*([^)]+?))?\s*\)`)

// mediaMatches evaluates a media query list against a screen viewport of the
// given size. Unknown features are assumed to match.
func mediaMatches(query string, width, height int) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	for _, q := range split(query, ',') {
		if mediaQueryMatches(q, width, height) {
			return true
		}
	}
	return false
}

func mediaQueryMatches(q string, width, height int) bool {
	negate := false
	if rest, ok := strings.CutPrefix(q, "not "); ok {
		negate, q = true, rest
	}
	q = strings.TrimPrefix(q, "only ")

	result := func() bool {
		mediaType, _, _ := strings.Cut(q, " and ")
		mediaType = strings.TrimSpace(mediaType)
		if !strings.HasPrefix(mediaType, "(") {
			switch mediaType {
			case "all", "screen":
			default:
				return false
			}
		}

		for _, m := range mediaFeature.FindAllStringSubmatch(q, -1) {
			if !featureMatches(m[1], strings.TrimSpace(m[2]), width, height) {
				return false
			}
		}
		return true
	}()

	if negate {
		return !result
	}
	return result
}

func featureMatches(name, value string, width, height int) bool {
	switch name {
	case "min-width":
		px, ok := mediaLength(value)
		return !ok || float64(width) >= px
	case "max-width":
		px, ok := mediaLength(value)
		return !ok || float64(width) <= px
	case "min-height":
		px, ok := mediaLength(value)
		return !ok || float64(height) >= px
	case "max-height":
		px, ok := mediaLength(value)
		return !ok || float64(height) <= px
	case "orientation":
		if width >= height {
			return value == "landscape"
		}
		return value == "portrait"
	case "prefers-color-scheme":
		return value == "light"
	case "prefers-reduced-motion", "prefers-contrast", "forced-colors":
		return value == "no-preference" || value == "none" || value == ""
	case "hover", "any-hover":
		return value == "hover" || value == ""
	case "pointer", "any-pointer":
		return value == "fine" || value == ""
	}
	return true
}

func mediaLength(v string) (float64, bool) {
	m := unitNumber.FindStringSubmatch(v)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	switch m[2] {
	case "px", "":
		return n, true
	case "em", "rem":
		return n * rootFontSize, true
	}
	return 0, false
}
