// Package naming derives human-readable token names from raw style values.
// Every function here is pure and deterministic: the same value and kind
// always produce the same name.
package naming

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	nonAlnum   = regexp.MustCompile(`[^a-zA-Z0-9]`)
	whitespace = regexp.MustCompile(`\s+`)
	quotes     = regexp.MustCompile(`['"]`)

	// Matches rgb(255, 0, 0), rgba(0,0,0,0.5) and the space separated
	// rgb(255 0 0 / 50%) form emitted by newer engines.
	rgbPattern = regexp.MustCompile(`^rgba?\(\s*(\d+)\s*[,\s]\s*(\d+)\s*[,\s]\s*(\d+)\s*(?:[,/]\s*([\d.]+%?)\s*)?\)$`)
)

// fontWeights maps numeric CSS weights to semantic names.
var fontWeights = map[string]string{
	"100": "thin",
	"200": "extra-light",
	"300": "light",
	"400": "normal",
	"500": "medium",
	"600": "semibold",
	"700": "bold",
	"800": "extra-bold",
	"900": "black",
}

// Slug replaces every character outside [a-zA-Z0-9] with a hyphen.
// Case is preserved and runs are not collapsed, so "1.5rem" becomes "1-5rem".
func Slug(value string) string {
	return nonAlnum.ReplaceAllString(value, "-")
}

// RGB parses an rgb()/rgba() color. The alpha component is returned as a
// fraction in [0,1]; it is 1 when absent.
func RGB(value string) (r, g, b int, alpha float64, ok bool) {
	m := rgbPattern.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return 0, 0, 0, 0, false
	}

	r, _ = strconv.Atoi(m[1])
	g, _ = strconv.Atoi(m[2])
	b, _ = strconv.Atoi(m[3])

	alpha = 1
	if a := m[4]; a != "" {
		pct := strings.HasSuffix(a, "%")
		f, err := strconv.ParseFloat(strings.TrimSuffix(a, "%"), 64)
		if err != nil {
			return 0, 0, 0, 0, false
		}
		if pct {
			f /= 100
		}
		alpha = f
	}

	return clamp(r), clamp(g), clamp(b), alpha, true
}

// HexFromRGB converts an rgb()/rgba() value to a lower-case six digit hex
// string without the leading '#'. Alpha is dropped.
func HexFromRGB(value string) (string, bool) {
	r, g, b, _, ok := RGB(value)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%02x%02x%02x", r, g, b), true
}

// IsTransparent reports whether value is a fully transparent color.
func IsTransparent(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "transparent" {
		return true
	}
	_, _, _, a, ok := RGB(v)
	return ok && a == 0
}

// Color names a color token: color-<kind>-<hex> for rgb()/rgba() values,
// color-<kind>-<slug> for anything else.
func Color(value, kind string) string {
	if hex, ok := HexFromRGB(value); ok {
		return "color-" + kind + "-" + hex
	}
	return "color-" + kind + "-" + Slug(value)
}

// FontFamily names a font-family token after the first family in the stack,
// unquoted, lower-cased and hyphenated.
func FontFamily(value string) string {
	first, _, _ := strings.Cut(value, ",")
	first = quotes.ReplaceAllString(first, "")
	first = strings.ToLower(strings.TrimSpace(first))
	return "font-family-" + whitespace.ReplaceAllString(first, "-")
}

// FontWeight returns the semantic name of a numeric weight, or the raw value
// when it is not in the table.
func FontWeight(value string) string {
	if name, ok := fontWeights[strings.TrimSpace(value)]; ok {
		return name
	}
	return value
}

// Prefixed builds "<prefix>-<slug(value)>".
func Prefixed(prefix, value string) string {
	return prefix + "-" + Slug(value)
}

func clamp(v int) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return v
}
