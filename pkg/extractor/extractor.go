// Package extractor reduces resolved style observations to design tokens.
//
// Every per-element extractor takes one observation and the de-duplication
// set of its own category, and returns the tokens that observation adds.
// A property is skipped when its value is absent, a no-op sentinel
// ("0px", "none", "normal", a fully transparent color) or already seen
// under the extractor's de-dup key. Extractors never fail: a value they
// cannot interpret is skipped.
package extractor

import (
	"strings"

	"github.com/hellenic-development/token-inspector/pkg/naming"
	"github.com/hellenic-development/token-inspector/pkg/render"
	"github.com/hellenic-development/token-inspector/pkg/token"
)

// Seen is the de-dup set of one extractor during one run.
type Seen map[string]struct{}

// add records key and reports whether it was new.
func (s Seen) add(key string) bool {
	if _, ok := s[key]; ok {
		return false
	}
	s[key] = struct{}{}
	return true
}

// skippable reports whether a resolved value carries no design information.
func skippable(value string, extra ...string) bool {
	v := strings.TrimSpace(value)
	switch v {
	case "", "0px", "none", "normal":
		return true
	}
	for _, e := range extra {
		if v == e {
			return true
		}
	}
	return naming.IsTransparent(v)
}

var colorProps = []struct {
	prop string
	kind token.Kind
}{
	{"backgroundColor", token.KindBackground},
	{"color", token.KindText},
	{"borderColor", token.KindBorder},
}

// ExtractColors reads background, text and border colors. The de-dup key is
// kind:value, so one value may appear once per kind.
func ExtractColors(o render.Observation, seen Seen) []token.Token {
	var out []token.Token
	for _, p := range colorProps {
		value := o.Get(p.prop)
		if skippable(value) || !seen.add(string(p.kind)+":"+value) {
			continue
		}
		out = append(out, token.Token{
			Type:     token.Colors,
			Category: p.kind,
			Value:    value,
			Name:     naming.Color(value, string(p.kind)),
		})
	}
	return out
}

var typographyProps = []struct {
	prop string
	kind token.Kind
	name func(string) string
}{
	{"fontSize", token.KindFontSize, func(v string) string { return naming.Prefixed("font-size", v) }},
	{"fontFamily", token.KindFontFamily, naming.FontFamily},
	{"fontWeight", token.KindFontWeight, func(v string) string { return "font-weight-" + naming.FontWeight(v) }},
	{"lineHeight", token.KindLineHeight, func(v string) string { return naming.Prefixed("line-height", v) }},
	{"letterSpacing", token.KindLetterSpacing, func(v string) string { return naming.Prefixed("letter-spacing", v) }},
	{"textShadow", token.KindTextShadow, func(string) string { return "text-shadow" }},
}

// ExtractTypography reads font size, family, weight, line height, letter
// spacing and text shadow, keyed by property:value.
func ExtractTypography(o render.Observation, seen Seen) []token.Token {
	var out []token.Token
	for _, p := range typographyProps {
		value := o.Get(p.prop)
		if skippable(value) || !seen.add(string(p.kind)+":"+value) {
			continue
		}
		out = append(out, token.Token{
			Type:     token.Typography,
			Category: p.kind,
			Value:    value,
			Name:     p.name(value),
		})
	}
	return out
}

var spacingSides = []string{"Top", "Right", "Bottom", "Left"}

// ExtractSpacing reads padding and margin per side, gap and border radius.
// Padding and margin tokens are keyed by property and side, e.g.
// paddingTop:16px.
func ExtractSpacing(o render.Observation, seen Seen) []token.Token {
	var out []token.Token
	for _, kind := range []token.Kind{token.KindPadding, token.KindMargin} {
		for _, side := range spacingSides {
			prop := string(kind) + side
			value := o.Get(prop)
			if skippable(value) || !seen.add(prop+":"+value) {
				continue
			}
			out = append(out, token.Token{
				Type:     token.Spacing,
				Category: kind,
				Value:    value,
				Name:     naming.Prefixed(string(kind)+"-"+strings.ToLower(side), value),
			})
		}
	}

	if value := o.Get("gap"); !skippable(value) && seen.add("gap:"+value) {
		out = append(out, token.Token{
			Type:     token.Spacing,
			Category: token.KindGap,
			Value:    value,
			Name:     naming.Prefixed("gap", value),
		})
	}

	if value := o.Get("borderRadius"); !skippable(value) && seen.add("borderRadius:"+value) {
		out = append(out, token.Token{
			Type:     token.Spacing,
			Category: token.KindBorderRadius,
			Value:    value,
			Name:     naming.Prefixed("radius", value),
		})
	}
	return out
}

// ExtractEffects reads box shadows. The raw value is the de-dup key; every
// shadow is named "shadow", so distinct shadows share a display name.
func ExtractEffects(o render.Observation, seen Seen) []token.Token {
	value := o.Get("boxShadow")
	if skippable(value) || !seen.add(value) {
		return nil
	}
	return []token.Token{{
		Type:     token.Effects,
		Category: token.KindBoxShadow,
		Value:    value,
		Name:     "shadow",
	}}
}

var motionProps = []struct {
	prop     string
	kind     token.Kind
	sentinel string
	name     func(string) string
}{
	{"transitionDuration", token.KindTransitionDuration, "0s", func(v string) string { return naming.Prefixed("duration", v) }},
	{"transitionTimingFunction", token.KindTransitionTiming, "ease", func(string) string { return "bezier" }},
	{"animationDuration", token.KindAnimationDuration, "0s", func(v string) string { return naming.Prefixed("anim-duration", v) }},
	{"animationName", token.KindAnimationName, "", func(v string) string { return v }},
}

// ExtractMotion reads transition and animation timing. Zero durations and
// the default "ease" timing are treated as unset.
func ExtractMotion(o render.Observation, seen Seen) []token.Token {
	var out []token.Token
	for _, p := range motionProps {
		value := o.Get(p.prop)
		if skippable(value, p.sentinel) || !seen.add(string(p.kind)+":"+value) {
			continue
		}
		out = append(out, token.Token{
			Type:     token.Motion,
			Category: p.kind,
			Value:    value,
			Name:     p.name(value),
		})
	}
	return out
}

// ExtractAssets records images and inline SVGs. Assets are not
// de-duplicated: every qualifying element yields a token.
func ExtractAssets(o render.Observation) []token.Token {
	switch strings.ToLower(o.Tag) {
	case "img":
		src := o.Attr("src")
		if src == "" {
			return nil
		}
		name := o.Attr("alt")
		if name == "" {
			name = "image"
		}
		return []token.Token{{
			Type:     token.Assets,
			Category: token.KindImage,
			Value:    src,
			Name:     name,
			Attributes: map[string]string{
				"width":  o.Attr("width"),
				"height": o.Attr("height"),
				"alt":    o.Attr("alt"),
			},
		}}

	case "svg":
		if o.OuterHTML == "" {
			return nil
		}
		name := o.Attr("id")
		if name == "" {
			name = "svg-icon"
		}
		return []token.Token{{
			Type:     token.Assets,
			Category: token.KindSVG,
			Value:    o.OuterHTML,
			Name:     name,
			Attributes: map[string]string{
				"width":   o.Attr("width"),
				"height":  o.Attr("height"),
				"viewBox": o.Attr("viewBox"),
			},
		}}
	}
	return nil
}
