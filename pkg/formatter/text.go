package formatter

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/hellenic-development/token-inspector/pkg/token"
)

// ToCSS writes one :root block with a comment per non-empty type and one
// custom property per token, in catalog order.
func ToCSS(c *token.Catalog) string {
	var sb strings.Builder
	sb.WriteString(":root {\n")
	for _, cat := range token.Categories() {
		tokens := c.Tokens(cat)
		if len(tokens) == 0 {
			continue
		}
		sb.WriteString("  /* " + strings.ToUpper(cat.String()) + " */\n")
		for _, t := range tokens {
			sb.WriteString("  --" + t.Name + ": " + t.Value + ";\n")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}")
	return sb.String()
}

// ToJavaScript writes an ES module exporting one object grouped by type.
// Keys are token names with "-" replaced by "_".
func ToJavaScript(c *token.Catalog) (string, error) {
	var groups []token.Category
	for _, cat := range token.Categories() {
		if len(c.Tokens(cat)) > 0 {
			groups = append(groups, cat)
		}
	}

	var sb strings.Builder
	sb.WriteString("// Design tokens extracted by token-inspector\n\n")
	sb.WriteString("export const designTokens = {\n")
	for i, cat := range groups {
		sb.WriteString("  " + cat.String() + ": {\n")
		tokens := c.Tokens(cat)
		for j, t := range tokens {
			key, err := jsString(strings.ReplaceAll(t.Name, "-", "_"))
			if err != nil {
				return "", err
			}
			value, err := jsString(t.Value)
			if err != nil {
				return "", err
			}
			sb.WriteString("    " + key + ": " + value)
			if j < len(tokens)-1 {
				sb.WriteString(",")
			}
			sb.WriteString("\n")
		}
		sb.WriteString("  }")
		if i < len(groups)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("};\n\nexport default designTokens;\n")
	return sb.String(), nil
}

// jsString quotes s as a JSON string, which is also a valid JS literal.
func jsString(s string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
