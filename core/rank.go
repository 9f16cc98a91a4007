package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/topsis/internal/contract"
	"github.com/huangsam/topsis/schema"
)

// RankRequest is one ranking job: the matrix and its per-criterion settings.
type RankRequest struct {
	Matrix  schema.DecisionMatrix
	Weights schema.WeightVector
	Impacts schema.ImpactVector
	Source  string // Where the request came from, e.g. "cli", "http" or "mcp"
}

// RankAlternatives ranks req, using the result cache and recording the run
// in the history store when mgr provides them. Only successful rankings are
// recorded. Storage failures are logged and never fail the ranking.
func RankAlternatives(ctx context.Context, req RankRequest, mgr contract.CacheManager) (schema.RankedResult, error) {
	if err := ctx.Err(); err != nil {
		return schema.RankedResult{}, err
	}

	var results contract.CacheStore
	var history contract.HistoryStore
	if mgr != nil {
		results = mgr.GetResultStore()
		history = mgr.GetHistoryStore()
	}

	startTime := time.Now()

	// --- 1. Ranking (with caching) ---
	result, cacheHit, err := cachedRank(results, req)
	if err != nil {
		return schema.RankedResult{}, err
	}

	// --- 2. Run Tracking (if configured) ---
	if history != nil {
		configParams := map[string]any{
			"source":   req.Source,
			"weights":  req.Weights,
			"impacts":  req.Impacts.Strings(),
			"criteria": result.Criteria,
			"cached":   cacheHit,
		}
		runID, err := history.BeginRun(startTime, configParams)
		if err != nil {
			contract.LogWarn("Run tracking initialization failed", err)
		} else if runID > 0 {
			recordRun(history, runID, result)
		}
	}

	return result, nil
}

// recordRun stores every ranked row and closes the run.
func recordRun(history contract.HistoryStore, runID int64, result schema.RankedResult) {
	now := time.Now()
	for _, row := range result.Rows {
		if err := history.RecordResult(runID, now, row); err != nil {
			logTrackingError("RecordResult", row.Label, err)
		}
	}
	if err := history.EndRun(runID, time.Now(), len(result.Rows), len(result.Criteria)); err != nil {
		contract.LogWarn("Failed to finalize run tracking", err)
	}
}

// logTrackingError logs database tracking errors to stderr without disrupting ranking.
func logTrackingError(operation, label string, err error) {
	contract.LogWarn(fmt.Sprintf("Run tracking failed for %s on %s", operation, label), err)
}
