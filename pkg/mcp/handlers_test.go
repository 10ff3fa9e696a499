package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	tokeninspector "github.com/hellenic-development/token-inspector"
	"github.com/hellenic-development/token-inspector/pkg/token"
)

const page = `<body>
  <header style="background-color: #0a2540; padding-top: 24px">
    <img src="/img/brand-logo.svg" alt="Brand logo">
    <img src="/img/hero.jpg" alt="Hero">
  </header>
  <p style="color: rgb(255, 0, 0)">Hello</p>
</body>`

// --- helpers ---

func testServer(t *testing.T, logger *zap.Logger) *Server {
	t.Helper()
	in, err := tokeninspector.New(tokeninspector.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { in.Close() })
	return NewServer(in, logger)
}

func callTool(t *testing.T, s *Server, req mcp.CallToolRequest) *mcp.CallToolResult {
	t.Helper()
	var handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

	switch req.Params.Name {
	case "extract_tokens":
		handler = s.handleExtractTokens
	case "list_assets":
		handler = s.handleListAssets
	case "export_catalog":
		handler = s.handleExportCatalog
	case "token_report":
		handler = s.handleReport
	default:
		t.Fatalf("unknown tool: %s", req.Params.Name)
	}

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func makeRequest(toolName string, args map[string]any) mcp.CallToolRequest {
	var arguments any
	if args != nil {
		arguments = args
	}
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: arguments,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return textContent.Text
}

// --- extract_tokens ---

func TestHandleExtractTokens_CSS(t *testing.T) {
	s := testServer(t, nil)
	result := callTool(t, s, makeRequest("extract_tokens", map[string]any{
		"html":   page,
		"url":    "https://example.com/",
		"format": "css",
	}))
	assert.False(t, result.IsError)

	css := resultText(t, result)
	assert.True(t, strings.HasPrefix(css, ":root {\n  /* COLORS */\n"))
	assert.Contains(t, css, "--color-background-0a2540: rgb(10, 37, 64);")
	assert.Contains(t, css, "--color-text-ff0000: rgb(255, 0, 0);")
	assert.Contains(t, css, "--padding-top-24px: 24px;")
}

func TestHandleExtractTokens_Categories(t *testing.T) {
	s := testServer(t, nil)
	result := callTool(t, s, makeRequest("extract_tokens", map[string]any{
		"html":       page,
		"categories": "spacing",
	}))
	assert.False(t, result.IsError)

	var doc map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &doc))
	assert.Contains(t, doc, "spacing")
	assert.NotContains(t, doc, "colors")
	assert.Contains(t, doc["spacing"], "padding-top-24px")

	// The full catalog is still kept for later exports.
	assert.NotEmpty(t, s.inspector.Catalog().Tokens(token.Colors))
}

func TestHandleExtractTokens_Errors(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"no source", map[string]any{}, "either url or html is required"},
		{"unknown format", map[string]any{"html": page, "format": "yaml"}, "yaml"},
		{"unknown category", map[string]any{"html": page, "categories": "layout"}, "layout"},
		{"malformed url", map[string]any{"url": "ftp://example.com"}, "extraction failed"},
	}

	s := testServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callTool(t, s, makeRequest("extract_tokens", tt.args))
			assert.True(t, result.IsError)
			assert.Contains(t, resultText(t, result), tt.want)
		})
	}
}

// --- export_catalog ---

func TestHandleExportCatalog(t *testing.T) {
	s := testServer(t, nil)

	result := callTool(t, s, makeRequest("export_catalog", map[string]any{"format": "figma"}))
	assert.True(t, result.IsError)

	callTool(t, s, makeRequest("extract_tokens", map[string]any{"html": page}))

	result = callTool(t, s, makeRequest("export_catalog", map[string]any{
		"format":     "figma",
		"categories": "colors",
	}))
	assert.False(t, result.IsError)

	var doc struct {
		Global map[string]map[string]struct {
			Value string `json:"value"`
			Type  string `json:"type"`
		} `json:"global"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &doc))
	require.Len(t, doc.Global, 1)
	assert.Equal(t, "rgb(255, 0, 0)", doc.Global["colors"]["color-text-ff0000"].Value)
	assert.Equal(t, "color", doc.Global["colors"]["color-text-ff0000"].Type)
}

// --- list_assets ---

func TestHandleListAssets(t *testing.T) {
	s := testServer(t, nil)

	result := callTool(t, s, makeRequest("list_assets", map[string]any{
		"html":   page,
		"url":    "https://example.com/",
		"filter": "icons",
	}))
	assert.False(t, result.IsError)

	var assets []assetEntry
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &assets))
	require.Len(t, assets, 1)
	assert.Equal(t, assetEntry{
		Name:      "Brand logo",
		Kind:      "image",
		Extension: "svg",
		Icon:      true,
		Value:     "https://example.com/img/brand-logo.svg",
	}, assets[0])

	// Without a source the last catalog is filtered again.
	result = callTool(t, s, makeRequest("list_assets", map[string]any{"filter": "jpg"}))
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &assets))
	require.Len(t, assets, 1)
	assert.Equal(t, "Hero", assets[0].Name)
}

// --- token_report ---

func TestHandleReport(t *testing.T) {
	s := testServer(t, nil)

	result := callTool(t, s, makeRequest("token_report", nil))
	assert.True(t, result.IsError)

	callTool(t, s, makeRequest("extract_tokens", map[string]any{"html": page, "url": "example.com"}))

	result = callTool(t, s, makeRequest("token_report", nil))
	assert.False(t, result.IsError)
	md := resultText(t, result)
	assert.True(t, strings.HasPrefix(md, "# Design Tokens - https://example.com"))
	assert.Contains(t, md, "analyzed elements")
}

// --- middleware ---

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := testServer(t, zap.New(core))

	handler := s.loggingMiddleware()(s.handleExtractTokens)

	_, err := handler(context.Background(), makeRequest("extract_tokens", map[string]any{"html": page}))
	require.NoError(t, err)
	_, err = handler(context.Background(), makeRequest("extract_tokens", map[string]any{}))
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "tool call", entries[0].Message)
	assert.Equal(t, "extract_tokens", entries[0].ContextMap()["tool"])
	assert.Positive(t, entries[0].ContextMap()["response_bytes"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}
