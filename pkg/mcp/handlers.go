package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"

	tokeninspector "github.com/hellenic-development/token-inspector"
	"github.com/hellenic-development/token-inspector/pkg/acquire"
	"github.com/hellenic-development/token-inspector/pkg/formatter"
	"github.com/hellenic-development/token-inspector/pkg/imager"
	"github.com/hellenic-development/token-inspector/pkg/token"
)

var errNoSource = errors.New("either url or html is required")

// lastReport remembers the source of the most recent inspection for the
// markdown report. The catalog itself lives in the Inspector.
type lastReport struct {
	mu       sync.Mutex
	source   string
	analyzed int
}

func (s *Server) inspect(ctx context.Context, req mcp.CallToolRequest) (*tokeninspector.Report, error) {
	locator := req.GetString("url", "")
	markup := req.GetString("html", "")

	var (
		report *tokeninspector.Report
		err    error
	)
	switch {
	case markup != "":
		var base *url.URL
		if locator != "" {
			if base, err = acquire.Normalize(locator); err != nil {
				return nil, err
			}
		}
		report, err = s.inspector.InspectMarkup(ctx, markup, base)
	case locator != "":
		report, err = s.inspector.Inspect(ctx, locator)
	default:
		return nil, errNoSource
	}
	if err != nil {
		return nil, err
	}

	s.last.mu.Lock()
	s.last.source, s.last.analyzed = report.Source, report.Analyzed
	s.last.mu.Unlock()
	return report, nil
}

// exportArgs parses the format and categories arguments shared by the
// export tools.
func exportArgs(req mcp.CallToolRequest) (formatter.Format, []token.Category, error) {
	f, err := formatter.ParseFormat(req.GetString("format", "json"))
	if err != nil {
		return 0, nil, err
	}
	cats, err := token.ParseCategories(req.GetString("categories", ""))
	if err != nil {
		return 0, nil, err
	}
	return f, cats, nil
}

func (s *Server) handleExtractTokens(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, cats, err := exportArgs(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report, err := s.inspect(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("extraction failed: %v", err)), nil
	}

	out, err := formatter.Export(report.Catalog.Only(cats...), f)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleExportCatalog(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, cats, err := exportArgs(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	catalog := s.inspector.Catalog()
	if catalog.Empty() {
		return mcp.NewToolResultError("no tokens extracted yet, call extract_tokens first"), nil
	}

	out, err := formatter.Export(catalog.Only(cats...), f)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(out), nil
}

type assetEntry struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Extension string `json:"extension"`
	Icon      bool   `json:"icon"`
	Value     string `json:"value"`
}

func (s *Server) handleListAssets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	catalog := s.inspector.Catalog()
	if req.GetString("url", "") != "" || req.GetString("html", "") != "" {
		report, err := s.inspect(ctx, req)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("extraction failed: %v", err)), nil
		}
		catalog = report.Catalog
	}

	entries := []assetEntry{}
	for _, t := range imager.Filter(catalog, req.GetString("filter", imager.SelectAll)) {
		entries = append(entries, assetEntry{
			Name:      t.Name,
			Kind:      string(t.Category),
			Extension: imager.Extension(t.Value),
			Icon:      imager.IsIcon(t),
			Value:     t.Value,
		})
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleReport(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	catalog := s.inspector.Catalog()
	if catalog.Empty() {
		return mcp.NewToolResultError("no tokens extracted yet, call extract_tokens first"), nil
	}

	s.last.mu.Lock()
	source, analyzed := s.last.source, s.last.analyzed
	s.last.mu.Unlock()

	return mcp.NewToolResultText(formatter.ToMarkdown(catalog, source, analyzed)), nil
}
