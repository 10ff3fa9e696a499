package static

import "strings"

type declaration struct {
	prop      string
	value     string
	important bool
}

var boxSides = [4]string{"top", "right", "bottom", "left"}

var radiusCorners = [4]string{"top-left", "top-right", "bottom-right", "bottom-left"}

// expand rewrites a declaration into the longhands the cascade tracks.
// Shorthands it cannot parse are dropped; unknown properties pass through.
func expand(prop, value string, important bool) []declaration {
	prop = strings.ToLower(strings.TrimSpace(prop))
	value = strings.TrimSpace(value)

	out := func(pairs ...string) []declaration {
		decls := make([]declaration, 0, len(pairs)/2)
		for i := 0; i+1 < len(pairs); i += 2 {
			decls = append(decls, declaration{prop: pairs[i], value: pairs[i+1], important: important})
		}
		return decls
	}

	if isGlobalKeyword(value) {
		if longhands := shorthandLonghands(prop); longhands != nil {
			var pairs []string
			for _, l := range longhands {
				pairs = append(pairs, l, value)
			}
			return out(pairs...)
		}
		return out(prop, value)
	}

	switch prop {
	case "margin", "padding":
		v, ok := sides(split(value, ' '))
		if !ok {
			return nil
		}
		var pairs []string
		for i, side := range boxSides {
			pairs = append(pairs, prop+"-"+side, v[i])
		}
		return out(pairs...)

	case "border-color":
		v, ok := sides(split(value, ' '))
		if !ok {
			return nil
		}
		var pairs []string
		for i, side := range boxSides {
			pairs = append(pairs, "border-"+side+"-color", v[i])
		}
		return out(pairs...)

	case "border":
		color := borderColorOf(value)
		var pairs []string
		for _, side := range boxSides {
			pairs = append(pairs, "border-"+side+"-color", color)
		}
		return out(pairs...)

	case "border-top", "border-right", "border-bottom", "border-left":
		return out(prop+"-color", borderColorOf(value))

	case "border-radius":
		horizontal, _, _ := strings.Cut(value, "/")
		v, ok := sides(split(horizontal, ' '))
		if !ok {
			return nil
		}
		var pairs []string
		for i, corner := range radiusCorners {
			pairs = append(pairs, "border-"+corner+"-radius", v[i])
		}
		return out(pairs...)

	case "gap", "grid-gap":
		parts := split(value, ' ')
		switch len(parts) {
		case 1:
			return out("row-gap", parts[0], "column-gap", parts[0])
		case 2:
			return out("row-gap", parts[0], "column-gap", parts[1])
		}
		return nil

	case "grid-row-gap":
		return out("row-gap", value)
	case "grid-column-gap":
		return out("column-gap", value)

	case "background":
		layers := split(value, ',')
		if len(layers) == 0 {
			return nil
		}
		color := "transparent"
		for _, part := range split(layers[len(layers)-1], ' ') {
			if isColor(part) {
				color = part
			}
		}
		return out("background-color", color)

	case "transition":
		var durations, timings []string
		for _, item := range split(value, ',') {
			duration, timing := "0s", "ease"
			seenTime := false
			for _, part := range split(item, ' ') {
				switch {
				case isTime(part) && !seenTime:
					duration = part
					seenTime = true
				case isTiming(part):
					timing = part
				}
			}
			durations = append(durations, duration)
			timings = append(timings, timing)
		}
		return out(
			"transition-duration", strings.Join(durations, ", "),
			"transition-timing-function", strings.Join(timings, ", "),
		)

	case "animation":
		var names, durations []string
		for _, item := range split(value, ',') {
			name, duration := "none", "0s"
			seenTime := false
			for _, part := range split(item, ' ') {
				switch {
				case isTime(part):
					if !seenTime {
						duration = part
						seenTime = true
					}
				case isTiming(part), animationKeywords[strings.ToLower(part)], isNumber(part):
				default:
					name = strings.Trim(part, `"'`)
				}
			}
			names = append(names, name)
			durations = append(durations, duration)
		}
		return out(
			"animation-name", strings.Join(names, ", "),
			"animation-duration", strings.Join(durations, ", "),
		)

	case "font":
		return out(expandFont(value)...)
	}

	return out(prop, value)
}

// expandFont parses the font shorthand:
// [style] [variant] [weight] size[/line-height] family.
func expandFont(value string) []string {
	parts := split(value, ' ')
	weight, lineHeight := "normal", "normal"

	for i, part := range parts {
		size, lh, _ := strings.Cut(part, "/")
		if !isFontSize(size) || isNumber(size) {
			lower := strings.ToLower(part)
			if lower == "bold" || lower == "bolder" || lower == "lighter" || isNumber(lower) {
				weight = lower
			}
			continue
		}
		if lh != "" {
			lineHeight = lh
		}

		rest := parts[i+1:]
		if lineHeight == "normal" && len(rest) > 1 && rest[0] == "/" {
			lineHeight = rest[1]
			rest = rest[2:]
		} else if len(rest) > 0 && strings.HasPrefix(rest[0], "/") {
			lineHeight = strings.TrimPrefix(rest[0], "/")
			rest = rest[1:]
		}
		if len(rest) == 0 {
			return nil
		}
		return []string{
			"font-size", size,
			"line-height", lineHeight,
			"font-weight", weight,
			"font-family", strings.Join(rest, " "),
		}
	}
	return nil
}

func borderColorOf(value string) string {
	for _, part := range split(value, ' ') {
		if isColor(part) && !borderStyles[strings.ToLower(part)] {
			return part
		}
	}
	return "currentcolor"
}

func isNumber(v string) bool {
	m := unitNumber.FindStringSubmatch(v)
	return m != nil && m[2] == ""
}

func isGlobalKeyword(v string) bool {
	switch strings.ToLower(v) {
	case "inherit", "initial", "unset", "revert":
		return true
	}
	return false
}

func shorthandLonghands(prop string) []string {
	switch prop {
	case "margin", "padding":
		var l []string
		for _, side := range boxSides {
			l = append(l, prop+"-"+side)
		}
		return l
	case "border", "border-color":
		var l []string
		for _, side := range boxSides {
			l = append(l, "border-"+side+"-color")
		}
		return l
	case "border-radius":
		var l []string
		for _, corner := range radiusCorners {
			l = append(l, "border-"+corner+"-radius")
		}
		return l
	case "gap", "grid-gap":
		return []string{"row-gap", "column-gap"}
	case "background":
		return []string{"background-color"}
	case "transition":
		return []string{"transition-duration", "transition-timing-function"}
	case "animation":
		return []string{"animation-name", "animation-duration"}
	case "font":
		return []string{"font-size", "line-height", "font-weight", "font-family"}
	}
	return nil
}
