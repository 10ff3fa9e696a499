// Package render defines the render-context collaborator consumed by the
// extraction pipeline: a Renderer turns markup into a Document whose elements
// expose resolved style observations and whose stylesheets can be scanned.
//
// Two implementations live in sub-packages: render/static resolves styles
// with an in-process cascade, render/browser asks a headless Chrome for real
// computed styles.
package render

import (
	"context"
	"fmt"
	"net/url"
)

// TextTags are the tags whose first elements are sampled for text styles.
var TextTags = []string{"h1", "h2", "h3", "h4", "h5", "h6", "p", "small", "blockquote", "a", "button", "label"}

// Renderer renders markup into a queryable Document. base is used to resolve
// relative URLs and may be nil for local markup.
type Renderer interface {
	Render(ctx context.Context, markup string, base *url.URL) (Document, error)
}

// Document is one rendered page.
type Document interface {
	// Observations returns resolved styles of the body's descendant elements
	// in document order, at most limit of them (limit <= 0 means all).
	Observations(limit int) []Observation
	// Samples returns up to n observations of elements with the given tag.
	Samples(tag string, n int) []Observation
	// StyleSheets returns every stylesheet of the page in document order.
	// Sheets that could not be read carry an *InaccessibleError in Err.
	StyleSheets() []StyleSheet
	// Close releases the render context. It is safe to call more than once.
	Close() error
}

// Observation is the resolved style snapshot of a single element. Style keys
// use the camelCase property names of the DOM style API (backgroundColor,
// fontSize, ...).
type Observation struct {
	Tag       string            `json:"tag"`
	Style     map[string]string `json:"style"`
	Attrs     map[string]string `json:"attrs,omitempty"`
	OuterHTML string            `json:"outerHTML,omitempty"`
}

// Get returns the resolved value of a style property or "".
func (o Observation) Get(prop string) string {
	return o.Style[prop]
}

// Attr returns an element attribute or "".
func (o Observation) Attr(name string) string {
	return o.Attrs[name]
}

// RuleKind classifies stylesheet rules the scanners care about.
type RuleKind int

const (
	OtherRule RuleKind = iota
	FontFaceRule
	KeyframesRule
)

// Keyframe is one step of a @keyframes rule.
type Keyframe struct {
	KeyText string `json:"keyText"`
	Style   string `json:"style"`
}

// Rule is a stylesheet rule reduced to what the scanners read.
type Rule struct {
	Kind RuleKind
	// Name is the animation name of a keyframes rule.
	Name string
	// Declarations holds font-face descriptors keyed by property name
	// (font-family, src, ...).
	Declarations map[string]string
	Keyframes    []Keyframe
}

// StyleSheet is one stylesheet of the document.
type StyleSheet struct {
	Href  string // empty for inline <style> sheets
	Rules []Rule
	Err   error
}

// InaccessibleError reports a stylesheet whose rules could not be read,
// either because it could not be fetched or because the engine refused
// access to it.
type InaccessibleError struct {
	Href  string
	Cause error
}

func (e *InaccessibleError) Error() string {
	href := e.Href
	if href == "" {
		href = "<inline>"
	}
	return fmt.Sprintf("stylesheet %s inaccessible: %v", href, e.Cause)
}

func (e *InaccessibleError) Unwrap() error { return e.Cause }
