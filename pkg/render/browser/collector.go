package browser

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hellenic-development/token-inspector/pkg/render"
)

// styleProps are the computed style properties read for every element.
var styleProps = []string{
	"backgroundColor", "color", "borderColor",
	"fontSize", "fontFamily", "fontWeight", "lineHeight", "letterSpacing", "textShadow",
	"paddingTop", "paddingRight", "paddingBottom", "paddingLeft",
	"marginTop", "marginRight", "marginBottom", "marginLeft",
	"gap", "rowGap", "columnGap", "borderRadius", "boxShadow",
	"transitionDuration", "transitionTimingFunction", "animationDuration", "animationName",
}

// collectorJS is formatted with the style property list, the element limit,
// the sampled tags and the sample size. It returns a JSON string.
const collectorJS = `(() => {
  const props = %s;
  const observe = (el) => {
    const cs = getComputedStyle(el);
    const style = {};
    for (const p of props) style[p] = cs[p] || '';
    const attrs = {};
    for (const a of Array.from(el.attributes)) attrs[a.name] = a.value;
    const tag = el.tagName.toLowerCase();
    if (tag === 'img' && el.src) attrs.src = el.src;
    const o = {tag, style, attrs};
    if (tag === 'svg') o.outerHTML = el.outerHTML;
    return o;
  };

  const limit = %d;
  const all = document.body ? Array.from(document.body.querySelectorAll('*')) : [];
  const elements = (limit > 0 ? all.slice(0, limit) : all).map(observe);

  const samples = {};
  for (const tag of %s) {
    samples[tag] = Array.from(document.querySelectorAll(tag)).slice(0, %d).map(observe);
  }

  const sheets = [];
  for (const sheet of Array.from(document.styleSheets)) {
    const entry = {href: sheet.href || '', rules: []};
    try {
      for (const rule of Array.from(sheet.cssRules)) {
        if (rule instanceof CSSFontFaceRule) {
          entry.rules.push({kind: 'font-face', declarations: {
            'font-family': rule.style.getPropertyValue('font-family'),
            'src': rule.style.getPropertyValue('src'),
          }});
        } else if (rule instanceof CSSKeyframesRule) {
          entry.rules.push({kind: 'keyframes', name: rule.name,
            keyframes: Array.from(rule.cssRules).map(k => ({keyText: k.keyText, style: k.style.cssText}))});
        } else {
          entry.rules.push({kind: 'other'});
        }
      }
    } catch (e) {
      entry.error = String((e && e.message) || e);
    }
    sheets.push(entry);
  }

  return JSON.stringify({elements, samples, sheets});
})()`

// sampleSize is how many elements per text tag the collector keeps.
const sampleSize = 3

func collectorScript(limit int) string {
	props, _ := json.Marshal(styleProps)
	tags, _ := json.Marshal(render.TextTags)
	return fmt.Sprintf(collectorJS, props, limit, tags, sampleSize)
}

type collected struct {
	Elements []render.Observation            `json:"elements"`
	Samples  map[string][]render.Observation `json:"samples"`
	Sheets   []collectedSheet                `json:"sheets"`
}

type collectedSheet struct {
	Href  string          `json:"href"`
	Error string          `json:"error"`
	Rules []collectedRule `json:"rules"`
}

type collectedRule struct {
	Kind         string            `json:"kind"`
	Name         string            `json:"name"`
	Declarations map[string]string `json:"declarations"`
	Keyframes    []render.Keyframe `json:"keyframes"`
}

// decode turns the collector output into a snapshot.
func decode(raw string, closer func() error) (*render.Snapshot, error) {
	var c collected
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, fmt.Errorf("decode collected styles: %w", err)
	}

	sheets := make([]render.StyleSheet, 0, len(c.Sheets))
	for _, s := range c.Sheets {
		if s.Error != "" {
			sheets = append(sheets, render.StyleSheet{
				Href: s.Href,
				Err:  &render.InaccessibleError{Href: s.Href, Cause: errors.New(s.Error)},
			})
			continue
		}

		sheet := render.StyleSheet{Href: s.Href}
		for _, r := range s.Rules {
			rule := render.Rule{Kind: render.OtherRule}
			switch r.Kind {
			case "font-face":
				rule = render.Rule{Kind: render.FontFaceRule, Declarations: r.Declarations}
			case "keyframes":
				rule = render.Rule{Kind: render.KeyframesRule, Name: r.Name, Keyframes: r.Keyframes}
			}
			sheet.Rules = append(sheet.Rules, rule)
		}
		sheets = append(sheets, sheet)
	}

	samples := c.Samples
	if samples == nil {
		samples = map[string][]render.Observation{}
	}
	return render.NewSnapshot(c.Elements, samples, sheets, closer), nil
}
