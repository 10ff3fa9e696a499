// Package formatter serializes a token catalog. The four export formats
// are pure functions of the catalog: the same catalog always produces
// byte-identical output.
package formatter

import (
	"fmt"
	"strings"

	"github.com/hellenic-development/token-inspector/pkg/token"
)

// Format is one of the four export formats.
type Format uint8

const (
	W3CJSON Format = iota
	CSS
	JavaScript
	FigmaTokens
)

var formatInfo = [...]struct {
	name, filename, mime string
}{
	W3CJSON:     {"json", "design-tokens.json", "application/json"},
	CSS:         {"css", "design-tokens.css", "text/css"},
	JavaScript:  {"js", "design-tokens.js", "text/javascript"},
	FigmaTokens: {"figma", "figma-tokens.json", "application/json"},
}

// Formats lists every export format.
func Formats() []Format { return []Format{W3CJSON, CSS, JavaScript, FigmaTokens} }

func (f Format) valid() bool { return int(f) < len(formatInfo) }

func (f Format) String() string {
	if !f.valid() {
		return fmt.Sprintf("Format(%d)", f)
	}
	return formatInfo[f].name
}

// Filename is the suggested file name for an export.
func (f Format) Filename() string {
	if !f.valid() {
		return ""
	}
	return formatInfo[f].filename
}

// MIMEType is the media type of an export.
func (f Format) MIMEType() string {
	if !f.valid() {
		return ""
	}
	return formatInfo[f].mime
}

// UnknownFormatError reports a format name outside the fixed set.
type UnknownFormatError struct {
	Name string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown export format %q (want json, css, js or figma)", e.Name)
}

// ParseFormat accepts a format name or a common alias ("w3c", "javascript").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "w3c":
		return W3CJSON, nil
	case "css":
		return CSS, nil
	case "js", "javascript":
		return JavaScript, nil
	case "figma":
		return FigmaTokens, nil
	}
	return 0, &UnknownFormatError{Name: s}
}

// Export renders c in format f.
func Export(c *token.Catalog, f Format) (string, error) {
	switch f {
	case W3CJSON:
		return ToW3CJSON(c)
	case CSS:
		return ToCSS(c), nil
	case JavaScript:
		return ToJavaScript(c)
	case FigmaTokens:
		return ToFigmaTokens(c)
	}
	return "", &UnknownFormatError{Name: f.String()}
}
