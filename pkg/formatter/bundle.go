package formatter

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/hellenic-development/token-inspector/pkg/token"
)

// AllBundleFilename is the suggested file name for AllBundle.
const AllBundleFilename = "all-design-tokens.json"

type bundleToken struct {
	Name     string         `json:"name"`
	Value    string         `json:"value"`
	Type     token.Category `json:"type"`
	Category token.Kind     `json:"category"`
}

func bundleTokens(tokens []token.Token) []bundleToken {
	out := make([]bundleToken, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, bundleToken{Name: t.Name, Value: t.Value, Type: t.Type, Category: t.Category})
	}
	return out
}

// BundleFilename is the suggested file name for CategoryBundle.
func BundleFilename(cat token.Category) string { return cat.String() + "-tokens.json" }

// CategoryBundle exports one partition with its count.
func CategoryBundle(c *token.Catalog, cat token.Category) (string, error) {
	tokens := c.Tokens(cat)
	return marshal(struct {
		Category token.Category `json:"category"`
		Count    int            `json:"count"`
		Tokens   []bundleToken  `json:"tokens"`
	}{cat, len(tokens), bundleTokens(tokens)})
}

// AllBundle exports every non-empty partition and the total count.
func AllBundle(c *token.Catalog) (string, error) {
	groups := orderedmap.New[string, []bundleToken]()
	for _, cat := range token.Categories() {
		if tokens := c.Tokens(cat); len(tokens) > 0 {
			groups.Set(cat.String(), bundleTokens(tokens))
		}
	}
	return marshal(struct {
		TotalCount int                                           `json:"totalCount"`
		Tokens     *orderedmap.OrderedMap[string, []bundleToken] `json:"tokens"`
	}{c.Len(), groups})
}
