// Package core has the orchestration around the ranking algorithm: caching,
// run history, output and delivery.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/topsis/internal/contract"
	"github.com/huangsam/topsis/internal/outwriter"
	"github.com/huangsam/topsis/internal/tableio"
	"github.com/huangsam/topsis/schema"
)

// ExecuteRank reads the decision matrix at cfg.InputPath, ranks it and
// writes the result in the configured format. When cfg.Email is set the
// result CSV is also mailed. It serves as the main entry point for 'rank'.
func ExecuteRank(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, mailer contract.Mailer) error {
	start := time.Now()
	if len(cfg.Weights) == 0 || len(cfg.Impacts) == 0 {
		return errors.New("weights and impacts are required")
	}

	matrix, err := tableio.ReadDecisionMatrixFile(cfg.InputPath, cfg.Delimiter)
	if err != nil {
		return err
	}

	if !shouldSuppressHeader(ctx) {
		logRankHeader(cfg, matrix)
	}

	result, err := RankAlternatives(ctx, RankRequest{
		Matrix:  matrix,
		Weights: cfg.Weights,
		Impacts: cfg.Impacts,
		Source:  "cli",
	}, mgr)
	if err != nil {
		return err
	}

	if err := outwriter.NewOutWriter().WriteRanking(result, cfg, time.Since(start)); err != nil {
		return err
	}

	if cfg.Email != "" {
		if err := DeliverResult(ctx, mailer, cfg.Email, result, cfg.Precision); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "📧 %s\n", DeliveredMessage)
	}
	return nil
}

// logRankHeader prints a concise, 2-line header for a ranking run.
func logRankHeader(cfg *contract.Config, matrix schema.DecisionMatrix) {
	name := filepath.Base(cfg.InputPath)
	fmt.Fprintf(os.Stderr, "🔎 Input: %s (%d alternatives, %d criteria)\n", name, len(matrix.Rows), matrix.NumCriteria())

	weights := make([]string, len(cfg.Weights))
	for i, w := range cfg.Weights {
		weights[i] = strconv.FormatFloat(w, 'g', -1, 64)
	}
	fmt.Fprintf(os.Stderr, "⚖️  Weights: %s | Impacts: %s\n", strings.Join(weights, ","), strings.Join(cfg.Impacts.Strings(), ","))
}
