package formatter

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/hellenic-development/token-inspector/pkg/token"
)

type w3cEntry struct {
	Value       string `json:"$value"`
	Type        string `json:"$type"`
	Description string `json:"$description"`
}

// ToW3CJSON groups tokens by type and keys them by name. A later token
// with the same name in the same type replaces the earlier one but keeps
// its position.
func ToW3CJSON(c *token.Catalog) (string, error) {
	out := orderedmap.New[string, *orderedmap.OrderedMap[string, w3cEntry]]()
	for _, cat := range token.Categories() {
		for _, t := range c.Tokens(cat) {
			group := groupOf(out, cat.String())
			group.Set(t.Name, w3cEntry{
				Value:       t.Value,
				Type:        w3cType(t),
				Description: string(t.Category) + " token extracted from page",
			})
		}
	}
	return marshal(out)
}

type figmaEntry struct {
	Value string `json:"value"`
	Type  string `json:"type"`
}

// ToFigmaTokens produces the Figma Tokens plugin layout: one "global" set
// grouped by type and keyed by name, last write wins.
func ToFigmaTokens(c *token.Catalog) (string, error) {
	global := orderedmap.New[string, *orderedmap.OrderedMap[string, figmaEntry]]()
	for _, cat := range token.Categories() {
		for _, t := range c.Tokens(cat) {
			groupOf(global, cat.String()).Set(t.Name, figmaEntry{Value: t.Value, Type: figmaType(t)})
		}
	}
	return marshal(struct {
		Global *orderedmap.OrderedMap[string, *orderedmap.OrderedMap[string, figmaEntry]] `json:"global"`
	}{global})
}

func groupOf[V any](m *orderedmap.OrderedMap[string, *orderedmap.OrderedMap[string, V]], key string) *orderedmap.OrderedMap[string, V] {
	if g, ok := m.Get(key); ok {
		return g
	}
	g := orderedmap.New[string, V]()
	m.Set(key, g)
	return g
}

func marshal(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode tokens: %w", err)
	}
	return string(data), nil
}
