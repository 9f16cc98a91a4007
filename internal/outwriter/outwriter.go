// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/huangsam/topsis/internal/contract"
	"github.com/huangsam/topsis/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteRanking prints a ranking using the configured output format.
func (ow *OutWriter) WriteRanking(result schema.RankedResult, cfg *contract.Config, duration time.Duration) error {
	return WriteRankingResults(result, cfg, duration)
}

// GetMaxTableLabelWidth calculates the maximum width for alternative labels in table
// output based on terminal width and table configuration.
func GetMaxTableLabelWidth(cfg *contract.Config, numCriteria int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank + Score + Label with borders/padding
	baseWidth := 30

	// Each criterion value column with formatting
	if cfg.Detail {
		baseWidth += numCriteria * (cfg.Precision + 8)
	}

	// Table borders, separators, and padding
	baseWidth += 10

	available := termWidth - baseWidth
	if available < 12 {
		return 12
	}
	if available > 60 {
		return 60
	}
	return available
}
