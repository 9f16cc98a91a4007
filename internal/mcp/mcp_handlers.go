package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/huangsam/topsis/core"
	"github.com/huangsam/topsis/internal/contract"
	"github.com/huangsam/topsis/internal/outwriter"
	"github.com/huangsam/topsis/internal/tableio"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

func (h *toolHandler) handleRankAlternatives(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if d := request.GetString("delimiter", ""); d != "" {
		r, size := utf8.DecodeRuneInString(d)
		if size != len(d) {
			return mcp.NewToolResultError(fmt.Sprintf("invalid delimiter %q: must be a single character", d)), nil
		}
		cfg.Delimiter = r
	}
	if cfg.Delimiter == 0 {
		cfg.Delimiter = ','
	}

	weightsRaw := request.GetString("weights", "")
	impactsRaw := request.GetString("impacts", "")
	if strings.TrimSpace(weightsRaw) == "" || strings.TrimSpace(impactsRaw) == "" {
		return mcp.NewToolResultError("weights and impacts are required"), nil
	}
	weights, err := tableio.ParseWeights(weightsRaw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid weights: %v", err)), nil
	}

	matrix, err := tableio.ReadDecisionMatrix(strings.NewReader(request.GetString("csv", "")), cfg.Delimiter)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid decision matrix: %v", err)), nil
	}

	result, err := core.RankAlternatives(core.WithSuppressHeader(ctx), core.RankRequest{
		Matrix:  matrix,
		Weights: weights,
		Impacts: tableio.ParseImpacts(impactsRaw),
		Source:  "mcp",
	}, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ranking failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(outwriter.NewJSONRanking(result), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
