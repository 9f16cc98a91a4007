package cmd

import (
	"github.com/huangsam/topsis/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd serves the rank_alternatives tool over stdio.
var mcpCmd = &cobra.Command{
	Use:     "mcp",
	Short:   "Serve TOPSIS ranking to AI agents over MCP",
	Long:    `Run a Model Context Protocol server on stdin/stdout. Agents call the rank_alternatives tool with an inline CSV matrix, weights and impacts.`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
