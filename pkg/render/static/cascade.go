package static

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"

	"github.com/hellenic-development/token-inspector/pkg/render"
)

const (
	originUserAgent = iota
	originAuthor
	originInline
)

// userAgentSheet carries the browser defaults that show up in computed
// styles of unstyled documents.
var userAgentSheet, _ = parser.Parse(`
h1 { font-size: 2em; font-weight: bold; margin-top: 0.67em; margin-bottom: 0.67em }
h2 { font-size: 1.5em; font-weight: bold; margin-top: 0.83em; margin-bottom: 0.83em }
h3 { font-size: 1.17em; font-weight: bold; margin-top: 1em; margin-bottom: 1em }
h4 { font-weight: bold; margin-top: 1.33em; margin-bottom: 1.33em }
h5 { font-size: 0.83em; font-weight: bold; margin-top: 1.67em; margin-bottom: 1.67em }
h6 { font-size: 0.67em; font-weight: bold; margin-top: 2.33em; margin-bottom: 2.33em }
p, dl, ul, ol, figure { margin-top: 1em; margin-bottom: 1em }
blockquote { margin: 1em 40px }
ul, ol { padding-left: 40px }
b, strong, th { font-weight: bold }
small { font-size: smaller }
code, kbd, pre, samp { font-family: monospace }
a { color: rgb(0, 0, 238) }
body { margin: 8px }
`)

// tracked lists the longhands the cascade resolves, font-size and color
// first because other values are resolved against them.
var tracked = func() []string {
	props := []string{"font-size", "color", "background-color"}
	for _, side := range boxSides {
		props = append(props, "border-"+side+"-color")
	}
	props = append(props, "font-family", "font-weight", "line-height", "letter-spacing", "text-shadow")
	for _, side := range boxSides {
		props = append(props, "padding-"+side)
	}
	for _, side := range boxSides {
		props = append(props, "margin-"+side)
	}
	props = append(props, "row-gap", "column-gap")
	for _, corner := range radiusCorners {
		props = append(props, "border-"+corner+"-radius")
	}
	return append(props,
		"box-shadow",
		"transition-duration", "transition-timing-function",
		"animation-duration", "animation-name",
	)
}()

var inherited = map[string]bool{
	"color":          true,
	"font-size":      true,
	"font-family":    true,
	"font-weight":    true,
	"line-height":    true,
	"letter-spacing": true,
	"text-shadow":    true,
}

var initialValues = func() map[string]string {
	v := map[string]string{
		"background-color":           "rgba(0, 0, 0, 0)",
		"color":                      "rgb(0, 0, 0)",
		"font-size":                  "16px",
		"font-family":                `"Times New Roman"`,
		"font-weight":                "400",
		"line-height":                "normal",
		"letter-spacing":             "normal",
		"text-shadow":                "none",
		"row-gap":                    "normal",
		"column-gap":                 "normal",
		"box-shadow":                 "none",
		"transition-duration":        "0s",
		"transition-timing-function": "ease",
		"animation-duration":         "0s",
		"animation-name":             "none",
	}
	for _, side := range boxSides {
		v["border-"+side+"-color"] = "currentcolor"
		v["padding-"+side] = "0px"
		v["margin-"+side] = "0px"
	}
	for _, corner := range radiusCorners {
		v["border-"+corner+"-radius"] = "0px"
	}
	return v
}()

type priority struct {
	important bool
	origin    int
	spec      cascadia.Specificity
	order     int
}

func (p priority) less(o priority) bool {
	if p.important != o.important {
		return !p.important
	}
	if p.origin != o.origin {
		return p.origin < o.origin
	}
	if p.spec != o.spec {
		return p.spec.Less(o.spec)
	}
	return p.order < o.order
}

type styleRule struct {
	sel    cascadia.Sel
	spec   cascadia.Specificity
	origin int
	order  int
	decls  []declaration
}

type cascade struct {
	width, height int
	rules         []styleRule
	order         int
}

func newCascade(width, height int) *cascade {
	return &cascade{width: width, height: height}
}

func (c *cascade) addSheet(sheet *css.Stylesheet, origin int) {
	if sheet == nil {
		return
	}
	c.addRules(sheet.Rules, origin)
}

func (c *cascade) addRules(rules []*css.Rule, origin int) {
	for _, rule := range rules {
		if rule.Kind == css.AtRule {
			switch atName(rule) {
			case "media":
				if mediaMatches(rule.Prelude, c.width, c.height) {
					c.addRules(rule.Rules, origin)
				}
			case "supports", "layer", "document", "container":
				c.addRules(rule.Rules, origin)
			}
			continue
		}

		var decls []declaration
		for _, d := range rule.Declarations {
			decls = append(decls, expand(d.Property, d.Value, d.Important)...)
		}
		if len(decls) == 0 {
			continue
		}

		selectors := rule.Selectors
		if len(selectors) == 0 {
			selectors = []string{rule.Prelude}
		}
		c.order++
		for _, selector := range selectors {
			group, err := cascadia.ParseGroup(selector)
			if err != nil {
				continue
			}
			for _, sel := range group {
				if sel.PseudoElement() != "" {
					continue
				}
				c.rules = append(c.rules, styleRule{
					sel:    sel,
					spec:   sel.Specificity(),
					origin: origin,
					order:  c.order,
					decls:  decls,
				})
			}
		}
	}
}

type candidate struct {
	value string
	prio  priority
}

type computed struct {
	values map[string]string
	fontPx float64
}

// cascaded returns the winning declared value per property for n.
func (c *cascade) cascaded(n *html.Node) map[string]candidate {
	winners := make(map[string]candidate)
	offer := func(d declaration, p priority) {
		p.important = d.important
		if cur, ok := winners[d.prop]; !ok || !p.less(cur.prio) {
			winners[d.prop] = candidate{value: d.value, prio: p}
		}
	}

	for _, rule := range c.rules {
		if !rule.sel.Match(n) {
			continue
		}
		for _, d := range rule.decls {
			offer(d, priority{origin: rule.origin, spec: rule.spec, order: rule.order})
		}
	}

	for _, a := range n.Attr {
		if a.Key != "style" {
			continue
		}
		decls, err := parser.ParseDeclarations(a.Val)
		if err != nil {
			break
		}
		for _, d := range decls {
			for _, e := range expand(d.Property, d.Value, d.Important) {
				offer(e, priority{origin: originInline})
			}
		}
	}

	return winners
}

func (c *cascade) compute(n *html.Node, parent *computed) *computed {
	winners := c.cascaded(n)
	out := &computed{values: make(map[string]string, len(tracked)), fontPx: rootFontSize}
	parentPx := rootFontSize
	if parent != nil {
		parentPx = parent.fontPx
	}

	for _, prop := range tracked {
		fromParent := func() (string, bool) {
			if parent == nil {
				return "", false
			}
			v, ok := parent.values[prop]
			return v, ok
		}

		w, declared := winners[prop]
		if !declared {
			if inherited[prop] {
				if v, ok := fromParent(); ok {
					out.values[prop] = v
					if prop == "font-size" {
						out.fontPx = parentPx
					}
					continue
				}
			}
			w.value = initialValues[prop]
		}

		value := w.value
		switch strings.ToLower(value) {
		case "inherit":
			if v, ok := fromParent(); ok {
				out.values[prop] = v
				if prop == "font-size" {
					out.fontPx = parentPx
				}
				continue
			}
			value = initialValues[prop]
		case "unset", "revert":
			if v, ok := fromParent(); ok && inherited[prop] {
				out.values[prop] = v
				if prop == "font-size" {
					out.fontPx = parentPx
				}
				continue
			}
			value = initialValues[prop]
		case "initial":
			value = initialValues[prop]
		}

		out.values[prop] = c.resolve(prop, value, out, parent, parentPx)
	}
	return out
}

func (c *cascade) resolve(prop, value string, self, parent *computed, parentPx float64) string {
	switch {
	case prop == "font-size":
		px, ok := fontSizePx(value, parentPx)
		if !ok {
			px = parentPx
		}
		self.fontPx = px
		return formatPx(px)

	case prop == "color" || strings.HasSuffix(prop, "-color"):
		if strings.EqualFold(value, "currentcolor") {
			if prop == "color" {
				if parent != nil {
					return parent.values["color"]
				}
				return initialValues["color"]
			}
			return self.values["color"]
		}
		return normalizeColor(value)

	case prop == "font-weight":
		parentWeight := initialValues["font-weight"]
		if parent != nil {
			parentWeight = parent.values["font-weight"]
		}
		return resolveWeight(value, parentWeight)

	case prop == "line-height":
		return resolveLineHeight(value, self.fontPx)

	case prop == "letter-spacing", prop == "row-gap", prop == "column-gap",
		strings.HasPrefix(prop, "padding-"), strings.HasPrefix(prop, "margin-"),
		strings.HasSuffix(prop, "-radius"):
		return resolveLength(value, self.fontPx)

	case strings.HasSuffix(prop, "-duration"):
		return normalizeTime(value)
	}
	return value
}

// observe resolves styles for the whole tree and returns observations of the
// body's descendants in document order.
func (c *cascade) observe(root *html.Node) []render.Observation {
	var out []render.Observation

	var walk func(n *html.Node, parent *computed, inBody bool)
	walk = func(n *html.Node, parent *computed, inBody bool) {
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type != html.ElementNode {
				continue
			}

			style := c.compute(child, parent)
			if inBody {
				out = append(out, observation(child, style))
			}
			walk(child, style, inBody || child.Data == "body")
		}
	}
	walk(root, nil, false)

	return out
}

func observation(n *html.Node, style *computed) render.Observation {
	v := style.values
	o := render.Observation{
		Tag: strings.ToLower(n.Data),
		Style: map[string]string{
			"backgroundColor":          v["background-color"],
			"color":                    v["color"],
			"borderColor":              compactSides(fourOf(v, "border-%s-color", boxSides)),
			"fontSize":                 v["font-size"],
			"fontFamily":               v["font-family"],
			"fontWeight":               v["font-weight"],
			"lineHeight":               v["line-height"],
			"letterSpacing":            v["letter-spacing"],
			"textShadow":               v["text-shadow"],
			"rowGap":                   v["row-gap"],
			"columnGap":                v["column-gap"],
			"gap":                      gap(v["row-gap"], v["column-gap"]),
			"borderRadius":             compactSides(fourOf(v, "border-%s-radius", radiusCorners)),
			"boxShadow":                v["box-shadow"],
			"transitionDuration":       v["transition-duration"],
			"transitionTimingFunction": v["transition-timing-function"],
			"animationDuration":        v["animation-duration"],
			"animationName":            v["animation-name"],
		},
	}
	for _, side := range boxSides {
		title := strings.ToUpper(side[:1]) + side[1:]
		o.Style["padding"+title] = v["padding-"+side]
		o.Style["margin"+title] = v["margin-"+side]
	}

	if len(n.Attr) > 0 {
		o.Attrs = make(map[string]string, len(n.Attr))
		for _, a := range n.Attr {
			o.Attrs[a.Key] = a.Val
		}
	}
	if o.Tag == "svg" {
		o.OuterHTML = outerHTML(n)
	}
	return o
}

func fourOf(v map[string]string, pattern string, names [4]string) [4]string {
	var out [4]string
	for i, name := range names {
		out[i] = v[fmt.Sprintf(pattern, name)]
	}
	return out
}

func gap(row, column string) string {
	if row == column {
		return row
	}
	return row + " " + column
}
