package cmd

import (
	"github.com/huangsam/newslog/internal/mcp"
	"github.com/huangsam/newslog/schema"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the newslog MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents ask the three log
analysis questions through standard tools.

Tools: get_top_articles, get_author_rankings, get_error_days, get_report`,
	Args:    cobra.NoArgs,
	PreRunE: sectionSetup(schema.AllSections...),
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
