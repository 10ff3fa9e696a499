// Package tokeninspector extracts design tokens (colors, typography,
// spacing, effects, motion and assets) from live web pages or local markup
// and exports them as W3C design-token JSON, CSS custom properties, a
// JavaScript module or Figma Tokens JSON.
//
// The CLI lives in cmd/token-inspector; this root package exposes the same
// pipeline as a Go API so that callers can embed extraction in their own
// tools without shelling out.
//
// # Import
//
// The module path contains a hyphen but Go package names cannot, so the
// package is named tokeninspector:
//
//	import "github.com/hellenic-development/token-inspector" // package tokeninspector
//
// # Quick start
//
//	result, err := tokeninspector.Run(ctx, tokeninspector.Options{}, tokeninspector.Job{
//	    URL:    "stripe.com",
//	    Format: formatter.CSS,
//	    Assets: "icons",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("tokens.css", []byte(result.Export), 0644)
//
// # Acquisition
//
// A locator is normalized to https and fetched directly first, then through
// each public CORS proxy in order. Every attempt has its own timeout and the
// first non-empty body wins. When all attempts fail the error is an
// [acquire.ExhaustedError] listing how many were made.
//
// # Rendering
//
// The default engine resolves the CSS cascade in-process and needs no
// browser. Set Render.Engine to "browser" in the configuration to use a
// headless Chrome instead; the [Inspector] must then be closed.
//
// # Logging
//
// Pass a [Logger] implementation in [Options.Logger] to receive progress
// messages. A nil Logger silences all output.
//
//	type myLogger struct{}
//	func (l *myLogger) Infof(f string, a ...any)  { log.Printf("[INFO]  "+f, a...) }
//	func (l *myLogger) Warnf(f string, a ...any)  { log.Printf("[WARN]  "+f, a...) }
//	func (l *myLogger) Errorf(f string, a ...any) { log.Printf("[ERROR] "+f, a...) }
package tokeninspector
