package token

import (
	"sync"

	"github.com/google/uuid"
)

// Catalog is the full set of tokens of one extraction run, partitioned by
// category. Within a partition tokens keep discovery order.
//
// A Catalog is read-only once built; the slices it hands out must not be
// modified.
type Catalog struct {
	parts map[Category][]Token
}

// Tokens returns the tokens of one category in discovery order.
func (c *Catalog) Tokens(cat Category) []Token {
	if c == nil {
		return nil
	}
	return c.parts[cat]
}

// All returns every token, categories in catalog order.
func (c *Catalog) All() []Token {
	var all []Token
	for _, cat := range Categories() {
		all = append(all, c.Tokens(cat)...)
	}
	return all
}

// Len returns the total number of tokens.
func (c *Catalog) Len() int {
	n := 0
	for _, cat := range Categories() {
		n += len(c.Tokens(cat))
	}
	return n
}

// Counts returns the number of tokens per category. Every category is present.
func (c *Catalog) Counts() map[Category]int {
	counts := make(map[Category]int, numCategories)
	for _, cat := range Categories() {
		counts[cat] = len(c.Tokens(cat))
	}
	return counts
}

// Empty reports whether the catalog holds no tokens.
func (c *Catalog) Empty() bool {
	return c.Len() == 0
}

// Only returns a catalog restricted to cats. Tokens keep their ids.
func (c *Catalog) Only(cats ...Category) *Catalog {
	sub := &Catalog{parts: make(map[Category][]Token, len(cats))}
	for _, cat := range cats {
		if tokens := c.Tokens(cat); tokens != nil {
			sub.parts[cat] = tokens
		}
	}
	return sub
}

// Store owns the current catalog. Each Ingest replaces it wholesale.
type Store struct {
	mu      sync.RWMutex
	current *Catalog
}

// NewStore returns a store holding an empty catalog.
func NewStore() *Store {
	return &Store{current: &Catalog{}}
}

// Ingest builds a new catalog from raw extractor output and makes it current.
// Partitions outside the six known categories are dropped. Every token gets a
// fresh id; ids are never derived from token content.
func (s *Store) Ingest(raw map[Category][]Token) *Catalog {
	catalog := &Catalog{parts: make(map[Category][]Token, numCategories)}
	for cat, tokens := range raw {
		if !cat.Valid() {
			continue
		}
		part := make([]Token, len(tokens))
		for i, t := range tokens {
			t.Type = cat
			t.ID = uuid.NewString()
			part[i] = t
		}
		catalog.parts[cat] = part
	}

	s.mu.Lock()
	s.current = catalog
	s.mu.Unlock()

	return catalog
}

// Current returns the current catalog. It is never nil.
func (s *Store) Current() *Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Clear discards the current catalog.
func (s *Store) Clear() {
	s.mu.Lock()
	s.current = &Catalog{}
	s.mu.Unlock()
}
