package static

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/hellenic-development/token-inspector/pkg/naming"
	"golang.org/x/image/colornames"
)

var (
	hexColor   = regexp.MustCompile(`^#([0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	unitNumber = regexp.MustCompile(`^(-?[0-9]*\.?[0-9]+)(px|em|rem|%|pt|s|ms)?$`)
)

// fontSizeKeywords are the absolute-size keywords at a 16px medium.
var fontSizeKeywords = map[string]float64{
	"xx-small":  9,
	"x-small":   10,
	"small":     13,
	"medium":    16,
	"large":     18,
	"x-large":   24,
	"xx-large":  32,
	"xxx-large": 48,
}

var borderStyles = map[string]bool{
	"none": true, "hidden": true, "dotted": true, "dashed": true, "solid": true,
	"double": true, "groove": true, "ridge": true, "inset": true, "outset": true,
}

var timingKeywords = map[string]bool{
	"ease": true, "linear": true, "ease-in": true, "ease-out": true,
	"ease-in-out": true, "step-start": true, "step-end": true,
}

var animationKeywords = map[string]bool{
	"infinite": true, "normal": true, "reverse": true, "alternate": true,
	"alternate-reverse": true, "forwards": true, "backwards": true, "both": true,
	"running": true, "paused": true,
}

// split breaks s on sep, ignoring separators inside parentheses or quotes.
// A sep of ' ' splits on any run of whitespace. Empty parts are dropped.
func split(s string, sep rune) []string {
	var (
		parts []string
		cur   strings.Builder
		depth int
		quote rune
	)
	flush := func() {
		if p := strings.TrimSpace(cur.String()); p != "" {
			parts = append(parts, p)
		}
		cur.Reset()
	}

	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case depth == 0 && (r == sep || (sep == ' ' && isSpace(r))):
			flush()
			continue
		}
		cur.WriteRune(r)
	}
	flush()
	return parts
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f'
}

// sides expands a 1 to 4 value box shorthand into top, right, bottom, left.
func sides(values []string) ([4]string, bool) {
	switch len(values) {
	case 1:
		return [4]string{values[0], values[0], values[0], values[0]}, true
	case 2:
		return [4]string{values[0], values[1], values[0], values[1]}, true
	case 3:
		return [4]string{values[0], values[1], values[2], values[1]}, true
	case 4:
		return [4]string{values[0], values[1], values[2], values[3]}, true
	}
	return [4]string{}, false
}

// compactSides is the inverse of sides: the shortest box shorthand that
// expands back to the four values.
func compactSides(v [4]string) string {
	top, right, bottom, left := v[0], v[1], v[2], v[3]
	switch {
	case left != right:
		return strings.Join([]string{top, right, bottom, left}, " ")
	case bottom != top:
		return strings.Join([]string{top, right, bottom}, " ")
	case right != top:
		return top + " " + right
	default:
		return top
	}
}

func isColor(v string) bool {
	v = strings.ToLower(v)
	if strings.HasPrefix(v, "#") {
		return hexColor.MatchString(v)
	}
	for _, fn := range []string{"rgb(", "rgba(", "hsl(", "hsla(", "hwb(", "lab(", "lch(", "oklab(", "oklch(", "color("} {
		if strings.HasPrefix(v, fn) {
			return true
		}
	}
	if v == "transparent" || v == "currentcolor" {
		return true
	}
	_, ok := colornames.Map[v]
	return ok
}

// normalizeColor converts hex, named and rgb()/rgba() colors to the
// rgb(r, g, b) / rgba(r, g, b, a) serialization engines report for
// computed colors. Anything else is returned unchanged.
func normalizeColor(v string) string {
	v = strings.TrimSpace(v)
	lower := strings.ToLower(v)

	switch {
	case lower == "transparent":
		return "rgba(0, 0, 0, 0)"
	case strings.HasPrefix(lower, "#"):
		if r, g, b, a, ok := parseHex(lower); ok {
			return formatRGB(r, g, b, a)
		}
	case strings.HasPrefix(lower, "rgb"):
		if r, g, b, a, ok := naming.RGB(lower); ok {
			return formatRGB(r, g, b, a)
		}
	default:
		if c, ok := colornames.Map[lower]; ok {
			return formatRGB(int(c.R), int(c.G), int(c.B), float64(c.A)/255)
		}
	}
	return v
}

func parseHex(v string) (r, g, b int, a float64, ok bool) {
	if !hexColor.MatchString(v) {
		return 0, 0, 0, 0, false
	}
	h := v[1:]
	if len(h) <= 4 {
		var long strings.Builder
		for _, c := range h {
			long.WriteRune(c)
			long.WriteRune(c)
		}
		h = long.String()
	}

	n, err := strconv.ParseUint(h, 16, 64)
	if err != nil {
		return 0, 0, 0, 0, false
	}
	a = 1
	if len(h) == 8 {
		a = float64(n&0xff) / 255
		n >>= 8
	}
	return int(n >> 16 & 0xff), int(n >> 8 & 0xff), int(n & 0xff), a, true
}

func formatRGB(r, g, b int, a float64) string {
	if a >= 1 {
		return fmt.Sprintf("rgb(%d, %d, %d)", r, g, b)
	}
	a = math.Round(a*1000) / 1000
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, strconv.FormatFloat(a, 'f', -1, 64))
}

func formatPx(f float64) string {
	f = math.Round(f*100) / 100
	return strconv.FormatFloat(f, 'f', -1, 64) + "px"
}

// fontSizePx resolves a font-size value against the parent's size.
func fontSizePx(v string, parent float64) (float64, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if px, ok := fontSizeKeywords[v]; ok {
		return px, true
	}
	switch v {
	case "smaller":
		return parent / 1.2, true
	case "larger":
		return parent * 1.2, true
	}

	m := unitNumber.FindStringSubmatch(v)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	switch m[2] {
	case "px":
		return n, true
	case "em":
		return n * parent, true
	case "rem":
		return n * rootFontSize, true
	case "%":
		return n * parent / 100, true
	case "pt":
		return n * 4 / 3, true
	case "":
		if n == 0 {
			return 0, true
		}
	}
	return 0, false
}

// resolveLength turns a single em/rem/pt length into px. Multi-part values
// and other units are resolved part by part.
func resolveLength(v string, fontSize float64) string {
	parts := split(v, ' ')
	if len(parts) > 1 {
		for i, p := range parts {
			parts[i] = resolveLength(p, fontSize)
		}
		return strings.Join(parts, " ")
	}

	m := unitNumber.FindStringSubmatch(strings.ToLower(strings.TrimSpace(v)))
	if m == nil {
		return v
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return v
	}
	switch m[2] {
	case "em":
		return formatPx(n * fontSize)
	case "rem":
		return formatPx(n * rootFontSize)
	case "pt":
		return formatPx(n * 4 / 3)
	case "px":
		return formatPx(n)
	case "":
		if n == 0 {
			return "0px"
		}
	}
	return v
}

// resolveLineHeight keeps "normal" and unitless multipliers, and turns
// lengths and percentages into px.
func resolveLineHeight(v string, fontSize float64) string {
	m := unitNumber.FindStringSubmatch(strings.ToLower(strings.TrimSpace(v)))
	if m == nil {
		return v
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return v
	}
	switch m[2] {
	case "":
		return v
	case "%":
		return formatPx(n * fontSize / 100)
	}
	return resolveLength(v, fontSize)
}

// resolveWeight maps weight keywords to numbers, relative ones against the
// parent weight.
func resolveWeight(v, parent string) string {
	p, _ := strconv.Atoi(parent)
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "normal":
		return "400"
	case "bold":
		return "700"
	case "bolder":
		switch {
		case p < 350:
			return "400"
		case p < 550:
			return "700"
		default:
			return "900"
		}
	case "lighter":
		switch {
		case p < 550:
			return "100"
		case p < 750:
			return "400"
		default:
			return "700"
		}
	}
	return strings.TrimSpace(v)
}

// normalizeTime reports durations in seconds, as engines do.
func normalizeTime(v string) string {
	parts := split(v, ',')
	for i, p := range parts {
		m := unitNumber.FindStringSubmatch(strings.ToLower(p))
		if m == nil || (m[2] != "s" && m[2] != "ms") {
			continue
		}
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if m[2] == "ms" {
			n /= 1000
		}
		parts[i] = strconv.FormatFloat(n, 'f', -1, 64) + "s"
	}
	return strings.Join(parts, ", ")
}

func isTime(v string) bool {
	m := unitNumber.FindStringSubmatch(strings.ToLower(v))
	return m != nil && (m[2] == "s" || m[2] == "ms")
}

func isTiming(v string) bool {
	v = strings.ToLower(v)
	return timingKeywords[v] || strings.HasPrefix(v, "cubic-bezier(") || strings.HasPrefix(v, "steps(")
}

func isFontSize(v string) bool {
	_, ok := fontSizePx(v, rootFontSize)
	return ok
}
