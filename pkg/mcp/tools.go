package mcp

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hellenic-development/token-inspector/pkg/formatter"
	"github.com/hellenic-development/token-inspector/pkg/token"
)

func formatNames() []string {
	var names []string
	for _, f := range formatter.Formats() {
		names = append(names, f.String())
	}
	return names
}

func categoryHelp() string {
	var names []string
	for _, c := range token.Categories() {
		names = append(names, c.String())
	}
	return "Comma-separated token types to include (" + strings.Join(names, ", ") + "). Default: all"
}

func extractTokensTool() mcp.Tool {
	return mcp.NewTool("extract_tokens",
		mcp.WithDescription("Fetch a web page, extract its design tokens and return them in the requested format. "+
			"Pass html instead of url to inspect markup directly; url then only resolves relative references."),
		mcp.WithString("url", mcp.Description("Page to inspect, e.g. stripe.com or https://example.com/pricing")),
		mcp.WithString("html", mcp.Description("Markup to inspect instead of fetching url")),
		mcp.WithString("format", mcp.Description("Export format"), mcp.Enum(formatNames()...), mcp.DefaultString("json")),
		mcp.WithString("categories", mcp.Description(categoryHelp())),
	)
}

func listAssetsTool() mcp.Tool {
	return mcp.NewTool("list_assets",
		mcp.WithDescription("Inspect a page and list its image, SVG and font assets. "+
			"Without url or html the assets of the last inspection are listed."),
		mcp.WithString("url", mcp.Description("Page to inspect")),
		mcp.WithString("html", mcp.Description("Markup to inspect instead of fetching url")),
		mcp.WithString("filter", mcp.Description(`"all", "icons" or a file extension such as svg or png`), mcp.DefaultString("all")),
	)
}

func exportCatalogTool() mcp.Tool {
	return mcp.NewTool("export_catalog",
		mcp.WithDescription("Export the tokens of the last inspection in another format without fetching again."),
		mcp.WithString("format", mcp.Description("Export format"), mcp.Enum(formatNames()...), mcp.DefaultString("json")),
		mcp.WithString("categories", mcp.Description(categoryHelp())),
	)
}

func reportTool() mcp.Tool {
	return mcp.NewTool("token_report",
		mcp.WithDescription("Return a markdown report of the tokens of the last inspection, grouped by type and sub-category."),
	)
}
