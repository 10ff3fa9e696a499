package render

import (
	"strings"
	"sync"
)

// Snapshot is an in-memory Document. Both renderers collect everything up
// front and hand out a Snapshot, so the extraction pipeline never talks to
// the engine directly.
type Snapshot struct {
	Elements []Observation
	// Sampled holds observations per lower-case tag name for the text-style
	// sampler. When nil, Samples falls back to scanning Elements.
	Sampled map[string][]Observation
	Sheets  []StyleSheet

	closeOnce sync.Once
	closeErr  error
	closer    func() error
}

// NewSnapshot returns a Snapshot whose Close runs closer once.
func NewSnapshot(elements []Observation, sampled map[string][]Observation, sheets []StyleSheet, closer func() error) *Snapshot {
	return &Snapshot{
		Elements: elements,
		Sampled:  sampled,
		Sheets:   sheets,
		closer:   closer,
	}
}

func (s *Snapshot) Observations(limit int) []Observation {
	if limit > 0 && len(s.Elements) > limit {
		return s.Elements[:limit]
	}
	return s.Elements
}

func (s *Snapshot) Samples(tag string, n int) []Observation {
	tag = strings.ToLower(tag)

	var pool []Observation
	if s.Sampled != nil {
		pool = s.Sampled[tag]
	} else {
		for _, o := range s.Elements {
			if strings.EqualFold(o.Tag, tag) {
				pool = append(pool, o)
				if n > 0 && len(pool) == n {
					break
				}
			}
		}
	}

	if n > 0 && len(pool) > n {
		return pool[:n]
	}
	return pool
}

func (s *Snapshot) StyleSheets() []StyleSheet {
	return s.Sheets
}

func (s *Snapshot) Close() error {
	s.closeOnce.Do(func() {
		if s.closer != nil {
			s.closeErr = s.closer()
		}
	})
	return s.closeErr
}
