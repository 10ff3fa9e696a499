package formatter

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hellenic-development/token-inspector/pkg/token"
)

func catalogOf(raw map[token.Category][]token.Token) *token.Catalog {
	return token.NewStore().Ingest(raw)
}

func sampleCatalog() *token.Catalog {
	return catalogOf(map[token.Category][]token.Token{
		token.Colors: {
			{Category: token.KindBackground, Value: "rgb(255, 0, 0)", Name: "color-background-ff0000"},
			{Category: token.KindText, Value: "rgb(0, 0, 0)", Name: "color-text-000000"},
		},
		token.Typography: {
			{Category: token.KindFontSize, Value: "16px", Name: "font-size-16px"},
			{Category: token.KindFontFamily, Value: `"Inter", sans-serif`, Name: "font-inter"},
			{Category: token.KindFontWeight, Value: "700", Name: "font-weight-bold"},
			{Category: token.KindLineHeight, Value: "24px", Name: "line-height-24px"},
		},
		token.Effects: {
			{Category: token.KindBoxShadow, Value: "rgba(0, 0, 0, 0.1) 0px 1px 2px 0px", Name: "shadow"},
			{Category: token.KindBoxShadow, Value: "rgba(0, 0, 0, 0.2) 0px 4px 8px 0px", Name: "shadow"},
		},
		token.Motion: {
			{Category: token.KindTransitionDuration, Value: "0.3s", Name: "duration-0-3s"},
		},
		token.Assets: {
			{Category: token.KindImage, Value: "https://example.com/logo.png", Name: "Logo"},
		},
	})
}

func TestCSSScenario(t *testing.T) {
	c := catalogOf(map[token.Category][]token.Token{
		token.Colors:  {{Category: token.KindBackground, Name: "color-background-ff0000", Value: "rgb(255,0,0)"}},
		token.Spacing: {{Category: token.KindPadding, Name: "padding-top-16px", Value: "16px"}},
	})

	want := ":root {\n  /* COLORS */\n  --color-background-ff0000: rgb(255,0,0);\n\n  /* SPACING */\n  --padding-top-16px: 16px;\n\n}"
	assert.Equal(t, want, ToCSS(c))
}

func TestCSSEmpty(t *testing.T) {
	assert.Equal(t, ":root {\n}", ToCSS(token.NewStore().Current()))
}

func TestCSSDeclaresEveryToken(t *testing.T) {
	c := catalogOf(map[token.Category][]token.Token{
		token.Colors: {
			{Category: token.KindBackground, Name: "color-background-ffffff", Value: "rgb(255, 255, 255)"},
			{Category: token.KindBorder, Name: "color-border-cccccc", Value: "rgb(204, 204, 204)"},
		},
		token.Spacing: {
			{Category: token.KindPadding, Name: "padding-top-8px", Value: "8px"},
			{Category: token.KindGap, Name: "gap-12px", Value: "12px"},
		},
	})

	decl := regexp.MustCompile(`(?m)^  --([^:]+): (.*);$`)
	matches := decl.FindAllStringSubmatch(ToCSS(c), -1)
	require.Len(t, matches, c.Len())

	names := make(map[string]bool)
	for i, tok := range c.All() {
		assert.Equal(t, tok.Name, matches[i][1])
		assert.Equal(t, tok.Value, matches[i][2])
		assert.False(t, names[matches[i][1]], "duplicate declaration %s", matches[i][1])
		names[matches[i][1]] = true
	}
}

func TestW3CJSON(t *testing.T) {
	out, err := ToW3CJSON(sampleCatalog())
	require.NoError(t, err)

	var decoded map[string]map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))

	assert.Equal(t, map[string]string{
		"$value":       "rgb(255, 0, 0)",
		"$type":        "color",
		"$description": "background token extracted from page",
	}, decoded["colors"]["color-background-ff0000"])

	typography := decoded["typography"]
	assert.Equal(t, "dimension", typography["font-size-16px"]["$type"])
	assert.Equal(t, "fontFamily", typography["font-inter"]["$type"])
	assert.Equal(t, "fontWeight", typography["font-weight-bold"]["$type"])
	assert.Equal(t, "string", typography["line-height-24px"]["$type"])
	assert.Equal(t, "duration", decoded["motion"]["duration-0-3s"]["$type"])
	assert.Equal(t, "string", decoded["assets"]["Logo"]["$type"])

	// Two shadows share a name: the later one wins.
	require.Len(t, decoded["effects"], 1)
	assert.Equal(t, "rgba(0, 0, 0, 0.2) 0px 4px 8px 0px", decoded["effects"]["shadow"]["$value"])
	assert.Equal(t, "shadow", decoded["effects"]["shadow"]["$type"])

	_, hasSpacing := decoded["spacing"]
	assert.False(t, hasSpacing)

	// Groups follow catalog order.
	assert.Less(t, strings.Index(out, `"colors"`), strings.Index(out, `"typography"`))
	assert.Less(t, strings.Index(out, `"typography"`), strings.Index(out, `"effects"`))
}

func TestFigmaTokens(t *testing.T) {
	out, err := ToFigmaTokens(sampleCatalog())
	require.NoError(t, err)

	var decoded struct {
		Global map[string]map[string]struct {
			Value string `json:"value"`
			Type  string `json:"type"`
		} `json:"global"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))

	tests := []struct {
		group, name, wantType string
	}{
		{"colors", "color-text-000000", "color"},
		{"typography", "font-size-16px", "typography"},
		{"effects", "shadow", "boxShadow"},
		{"motion", "duration-0-3s", "other"},
		{"assets", "Logo", "other"},
	}
	for _, tt := range tests {
		t.Run(tt.group, func(t *testing.T) {
			entry, ok := decoded.Global[tt.group][tt.name]
			require.True(t, ok)
			assert.Equal(t, tt.wantType, entry.Type)
		})
	}
}

func TestJavaScript(t *testing.T) {
	c := catalogOf(map[token.Category][]token.Token{
		token.Colors: {
			{Category: token.KindBackground, Name: "color-background-ff0000", Value: "rgb(255, 0, 0)"},
			{Category: token.KindText, Name: "color-text-000000", Value: "rgb(0, 0, 0)"},
		},
		token.Typography: {
			{Category: token.KindFontFamily, Name: "font-inter", Value: `"Inter", sans-serif`},
		},
	})

	out, err := ToJavaScript(c)
	require.NoError(t, err)

	want := `// Design tokens extracted by token-inspector

export const designTokens = {
  colors: {
    "color_background_ff0000": "rgb(255, 0, 0)",
    "color_text_000000": "rgb(0, 0, 0)"
  },
  typography: {
    "font_inter": "\"Inter\", sans-serif"
  }
};

export default designTokens;
`
	assert.Equal(t, want, out)
}

func TestExportStable(t *testing.T) {
	c := sampleCatalog()
	for _, f := range Formats() {
		t.Run(f.String(), func(t *testing.T) {
			first, err := Export(c, f)
			require.NoError(t, err)
			second, err := Export(c, f)
			require.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		want     Format
		filename string
		mime     string
	}{
		{"json", W3CJSON, "design-tokens.json", "application/json"},
		{"W3C", W3CJSON, "design-tokens.json", "application/json"},
		{"css", CSS, "design-tokens.css", "text/css"},
		{"javascript", JavaScript, "design-tokens.js", "text/javascript"},
		{" figma ", FigmaTokens, "figma-tokens.json", "application/json"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.filename, got.Filename())
			assert.Equal(t, tt.mime, got.MIMEType())
		})
	}

	_, err := ParseFormat("yaml")
	var unknown *UnknownFormatError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "yaml", unknown.Name)

	_, err = Export(sampleCatalog(), Format(42))
	assert.True(t, errors.As(err, &unknown))
}
