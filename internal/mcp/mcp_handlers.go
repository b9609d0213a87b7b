package mcp

import (
	"bytes"
	"context"
	"fmt"

	"github.com/huangsam/newslog/core"
	"github.com/huangsam/newslog/internal/contract"
	"github.com/huangsam/newslog/internal/outwriter"
	"github.com/huangsam/newslog/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

func (h *toolHandler) handleGetTopArticles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.configFor(schema.ArticlesSection)
	if err := contract.RevalidateLimit(cfg, request.GetInt("limit", 0)); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	return h.run(ctx, cfg)
}

func (h *toolHandler) handleGetAuthorRankings(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.run(ctx, h.configFor(schema.AuthorsSection))
}

func (h *toolHandler) handleGetErrorDays(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.configFor(schema.ErrorDaysSection)
	err := contract.RevalidateErrorRules(cfg,
		request.GetFloat("threshold", -1),
		request.GetString("error_statuses", ""),
		request.GetString("timezone", ""),
	)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	return h.run(ctx, cfg)
}

func (h *toolHandler) handleGetReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.configFor(schema.AllSections...)
	if err := contract.RevalidateLimit(cfg, request.GetInt("limit", 0)); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if err := contract.RevalidateErrorRules(cfg, request.GetFloat("threshold", -1), "", ""); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	return h.run(ctx, cfg)
}

// configFor clones the base config for a run over the given sections.
// Results are rendered as JSON.
func (h *toolHandler) configFor(sections ...schema.Section) *contract.Config {
	cfg := h.baseCfg.Clone()
	cfg.Sections = sections
	cfg.Output = schema.JSONOut
	cfg.OutputFile = ""
	return cfg
}

// run builds the report and renders it as the tool result.
func (h *toolHandler) run(ctx context.Context, cfg *contract.Config) (*mcp.CallToolResult, error) {
	if h.mgr == nil {
		return mcp.NewToolResultError("report failed: no stores configured"), nil
	}
	report, err := core.RunReport(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}

	var buf bytes.Buffer
	if err := outwriter.RenderReport(&buf, report, cfg); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("rendering failed: %v", err)), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}
