package formatter

import (
	"strings"

	"github.com/hellenic-development/token-inspector/pkg/token"
)

// w3cType maps a token to its W3C design-token $type.
func w3cType(t token.Token) string {
	switch t.Type {
	case token.Colors:
		return "color"
	case token.Typography:
		kind := string(t.Category)
		switch {
		case strings.Contains(kind, "size"):
			return "dimension"
		case strings.Contains(kind, "family"):
			return "fontFamily"
		case strings.Contains(kind, "weight"):
			return "fontWeight"
		}
		return "string"
	case token.Spacing:
		return "dimension"
	case token.Effects:
		return "shadow"
	case token.Motion:
		return "duration"
	case token.Assets:
		return "string"
	}
	return "string"
}

// figmaType maps a token to the Figma Tokens plugin type.
func figmaType(t token.Token) string {
	switch t.Type {
	case token.Colors:
		return "color"
	case token.Typography:
		return "typography"
	case token.Spacing:
		return "spacing"
	case token.Effects:
		return "boxShadow"
	case token.Motion, token.Assets:
		return "other"
	}
	return "other"
}
