// Command see-mcp exposes the search engines and the full-text extractor as
// MCP tools over stdio. Engines run in-process through the loosely typed
// callback shape, so no API server needs to be running. Logs go to stderr;
// stdout carries the MCP transport.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/nostalgiatan/see/browser"
	"github.com/nostalgiatan/see/config"
	"github.com/nostalgiatan/see/content"
	"github.com/nostalgiatan/see/engine"
	"github.com/nostalgiatan/see/engine/bing"
	"github.com/nostalgiatan/see/engine/quark"
	"github.com/nostalgiatan/see/engine/sogou"
	"github.com/nostalgiatan/see/models"
)

const version = "0.1.0"

func main() {
	cfg := config.Load()
	initLogger(cfg.Log)

	manager := browser.NewManager(cfg.Browser)
	defer manager.Close()
	client := engine.NewClient(cfg.Fetch.Proxy, cfg.Fetch.Timeout)

	callbacks := map[string]engine.Callback{
		"quark": quark.New(manager, cfg.Search).Callback(),
		"sogou": sogou.New(client, cfg.Search).Callback(),
		"bing":  bing.New(client, cfg.Search).Callback(),
	}
	extractor := content.NewExtractor(client)

	s := server.NewMCPServer(
		"see",
		version,
		server.WithToolCapabilities(false),
	)

	webSearchTool := mcp.NewTool("web_search",
		mcp.WithDescription("Search the web and return structured results (title, url, snippet). The quark engine renders JavaScript-heavy pages in a headless browser; sogou and bing parse server-rendered pages."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The search query"),
		),
		mcp.WithString("engine",
			mcp.Description("Search engine to use (default: 'quark')"),
			mcp.Enum("quark", "sogou", "bing"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of results to return (default: 10)"),
		),
		mcp.WithNumber("page",
			mcp.Description("1-based result page for engines that paginate"),
		),
		mcp.WithString("time_range",
			mcp.Description("Restrict results by age"),
			mcp.Enum("day", "week", "month", "year"),
		),
		mcp.WithArray("wait_times_ms",
			mcp.Description("Staged render-wait schedule in milliseconds (browser engines only)"),
		),
	)
	s.AddTool(webSearchTool, handleWebSearch(callbacks))

	fetchContentTool := mcp.NewTool("fetch_content",
		mcp.WithDescription("Fetch a web page and return its main article content as markdown, plain text or HTML."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the page to fetch"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: 'markdown' (default), 'text', or 'html'"),
			mcp.Enum("markdown", "text", "html"),
		),
	)
	s.AddTool(fetchContentTool, handleFetchContent(extractor))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// handleWebSearch routes the tool call to the named engine's callback. The
// callback owns parameter coercion, its own timeout and the fixed response
// shape, so the handler only picks the engine and serializes the result.
func handleWebSearch(callbacks map[string]engine.Callback) server.ToolHandlerFunc {
	return func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		engineName, _ := args["engine"].(string)
		if engineName == "" {
			engineName = "quark"
		}
		callback, ok := callbacks[engineName]
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown engine %q", engineName)), nil
		}

		resp := callback(args)
		if resp.Error != "" {
			return mcp.NewToolResultError(resp.Error), nil
		}

		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
		}
		return mcp.NewToolResultText(string(out)), nil
	}
}

func handleFetchContent(extractor *content.Extractor) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}
		format := request.GetString("format", "")

		resp, err := extractor.Extract(ctx, models.FulltextRequest{URL: url, Format: format})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("fetch failed: %v", err)), nil
		}

		// Metadata header before the content body.
		result := fmt.Sprintf("Title: %s\nSource: %s\n\n", resp.Title, resp.URL)
		result += resp.Content

		return mcp.NewToolResultText(result), nil
	}
}

// initLogger configures slog on stderr so log lines never interleave with
// the stdio protocol stream.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
