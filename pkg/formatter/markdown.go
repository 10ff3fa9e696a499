package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hellenic-development/token-inspector/pkg/token"
)

// maxCellLen bounds a value shown in a report table cell. SVG markup and
// keyframe JSON are usually far longer.
const maxCellLen = 80

// ToMarkdown renders a human-readable report of the catalog: a summary of
// counts followed by one section per non-empty type, with a table per
// sub-category sorted by name.
func ToMarkdown(c *token.Catalog, source string, analyzed int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Design Tokens - %s\n\n", source))
	sb.WriteString(fmt.Sprintf("%d tokens extracted from %d analyzed elements.\n\n", c.Len(), analyzed))

	sb.WriteString("| Type | Tokens |\n")
	sb.WriteString("|------|--------|\n")
	counts := c.Counts()
	for _, cat := range token.Categories() {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", titleCase(cat.String()), counts[cat]))
	}
	sb.WriteString("\n")

	for _, cat := range token.Categories() {
		tokens := c.Tokens(cat)
		if len(tokens) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("## %s (%d)\n\n", titleCase(cat.String()), len(tokens)))

		kinds, grouped := groupByKind(tokens)
		for _, kind := range kinds {
			group := grouped[kind]
			sb.WriteString(fmt.Sprintf("### %s\n\n", kind))
			sb.WriteString("| Name | Value | CSS Variable |\n")
			sb.WriteString("|------|-------|--------------|\n")
			for _, t := range group {
				sb.WriteString(fmt.Sprintf("| %s | `%s` | `--%s` |\n", cell(t.Name), cell(t.Value), cell(t.Name)))
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// groupByKind groups tokens by sub-category in order of first appearance
// and sorts each group by name, case-insensitively.
func groupByKind(tokens []token.Token) ([]token.Kind, map[token.Kind][]token.Token) {
	var kinds []token.Kind
	grouped := make(map[token.Kind][]token.Token)
	for _, t := range tokens {
		if _, ok := grouped[t.Category]; !ok {
			kinds = append(kinds, t.Category)
		}
		grouped[t.Category] = append(grouped[t.Category], t)
	}
	for _, group := range grouped {
		sort.SliceStable(group, func(i, j int) bool {
			return strings.ToLower(group[i].Name) < strings.ToLower(group[j].Name)
		})
	}
	return kinds, grouped
}

// cell makes s safe for a single table cell.
func cell(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > maxCellLen {
		s = string(r[:maxCellLen]) + "..."
	}
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "`", "'")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
