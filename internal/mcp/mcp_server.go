// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/topsis/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the TOPSIS MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"TOPSIS Ranking Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	s.AddTool(mcp.NewTool("rank_alternatives",
		mcp.WithDescription("Rank alternatives of a decision matrix with TOPSIS. The first CSV column labels each alternative and the remaining columns are numeric criteria."),
		mcp.WithString("csv", mcp.Description("Decision matrix as delimited text including the header row."), mcp.Required()),
		mcp.WithString("weights", mcp.Description("Comma-separated positive weights, one per criterion (e.g. '0.25,0.25,0.5')."), mcp.Required()),
		mcp.WithString("impacts", mcp.Description("Comma-separated impacts, '+' to maximize and '-' to minimize (e.g. '-,+,+')."), mcp.Required()),
		mcp.WithString("delimiter", mcp.Description("Single-character field delimiter. Defaults to ','.")),
	), h.handleRankAlternatives)

	return s
}

// StartMCPServer starts the TOPSIS MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
