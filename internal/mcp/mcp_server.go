// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/newslog/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the newslog MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Newslog Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_top_articles ---
	s.AddTool(mcp.NewTool("get_top_articles",
		mcp.WithDescription("Rank articles by views from the access log. Ties are ordered by title."),
		mcp.WithNumber("limit", mcp.Description("Number of articles to return (defaults to 3).")),
	), h.handleGetTopArticles)

	// --- 2. Tool: get_author_rankings ---
	s.AddTool(mcp.NewTool("get_author_rankings",
		mcp.WithDescription("Rank every author with at least one view by the total views of their articles."),
	), h.handleGetAuthorRankings)

	// --- 3. Tool: get_error_days ---
	s.AddTool(mcp.NewTool("get_error_days",
		mcp.WithDescription("List the days on which the share of error responses exceeded a threshold."),
		mcp.WithNumber("threshold", mcp.Description("Error rate percentage a day must exceed (defaults to 1.0).")),
		mcp.WithString("error_statuses", mcp.Description("Comma-separated status codes or classes counted as errors, e.g. '404,5xx'.")),
		mcp.WithString("timezone", mcp.Description("IANA timezone used to group requests into days (defaults to UTC).")),
	), h.handleGetErrorDays)

	// --- 4. Tool: get_report ---
	s.AddTool(mcp.NewTool("get_report",
		mcp.WithDescription("Answer all three log analysis questions at once."),
		mcp.WithNumber("limit", mcp.Description("Number of articles to return.")),
		mcp.WithNumber("threshold", mcp.Description("Error rate percentage a day must exceed.")),
	), h.handleGetReport)

	return s
}

// StartMCPServer starts the newslog MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
