// Package token defines the design-token model: the closed set of token
// categories, their sub-kinds, the Catalog produced by one extraction run and
// the Store that owns the current catalog.
package token

import (
	"fmt"
	"strings"
)

// Category is the top-level partition a token belongs to.
type Category uint8

// The six partitions, in catalog order.
const (
	Colors Category = iota
	Typography
	Spacing
	Effects
	Motion
	Assets

	numCategories
)

var categoryNames = [numCategories]string{
	Colors:     "colors",
	Typography: "typography",
	Spacing:    "spacing",
	Effects:    "effects",
	Motion:     "motion",
	Assets:     "assets",
}

// Categories returns every category in catalog order.
func Categories() []Category {
	return []Category{Colors, Typography, Spacing, Effects, Motion, Assets}
}

// Valid reports whether c is one of the six known categories.
func (c Category) Valid() bool {
	return c < numCategories
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("category(%d)", uint8(c))
	}
	return categoryNames[c]
}

// MarshalText encodes the category by name.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("unknown category %d", uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a category name.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCategory parses a category name, case-insensitively.
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range categoryNames {
		if name == s {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown category %q (must be one of %s)", s, strings.Join(categoryNames[:], ", "))
}

// ParseCategories parses a comma-separated list of category names.
// "all" or an empty string selects every category.
func ParseCategories(s string) ([]Category, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return Categories(), nil
	}

	seen := make(map[Category]bool)
	var result []Category
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		c, err := ParseCategory(part)
		if err != nil {
			return nil, err
		}
		if !seen[c] {
			seen[c] = true
			result = append(result, c)
		}
	}
	return result, nil
}

// Kind is the sub-kind of a token within its category, e.g. "background"
// within colors or "padding" within spacing.
type Kind string

const (
	KindBackground Kind = "background"
	KindText       Kind = "text"
	KindBorder     Kind = "border"

	KindFontSize      Kind = "font-size"
	KindFontFamily    Kind = "font-family"
	KindFontWeight    Kind = "font-weight"
	KindLineHeight    Kind = "line-height"
	KindLetterSpacing Kind = "letter-spacing"
	KindTextShadow    Kind = "text-shadow"
	KindTextStyle     Kind = "text-style"

	KindPadding      Kind = "padding"
	KindMargin       Kind = "margin"
	KindGap          Kind = "gap"
	KindBorderRadius Kind = "border-radius"

	KindBoxShadow Kind = "box-shadow"

	KindTransitionDuration Kind = "transition-duration"
	KindTransitionTiming   Kind = "transition-timing"
	KindAnimationDuration  Kind = "animation-duration"
	KindAnimationName      Kind = "animation-name"
	KindKeyframes          Kind = "keyframes"

	KindImage Kind = "image"
	KindSVG   Kind = "svg"
	KindFont  Kind = "font"
)

// Token is one named design value.
type Token struct {
	ID         string            `json:"id"`
	Type       Category          `json:"type"`
	Category   Kind              `json:"category"`
	Value      string            `json:"value"`
	Name       string            `json:"name"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Attr returns the named attribute or "".
func (t Token) Attr(key string) string {
	return t.Attributes[key]
}
