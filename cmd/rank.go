package cmd

import (
	"github.com/huangsam/topsis/core"
	"github.com/huangsam/topsis/internal/contract"
	"github.com/huangsam/topsis/schema"
	"github.com/spf13/cobra"
)

// rankCmd ranks the alternatives of a decision matrix file.
var rankCmd = &cobra.Command{
	Use:   "rank <input-file>",
	Short: "Rank the alternatives of a decision matrix.",
	Long: `Read a decision matrix and rank its alternatives with TOPSIS.

The first column labels each alternative and every other column is a numeric
criterion. At least three criteria are required. Each criterion gets a positive
weight and an impact: '+' when larger values are better, '-' when smaller
values are better.

Every alternative is scored by its relative closeness to the ideal solution,
a value in [0,1]. Tied scores share the last position of their group.

Examples:
  # Rank phones by price (lower is better), storage and camera
  topsis rank phones.csv --weights 0.25,0.25,0.5 --impacts -,+,+

  # Show criterion values next to each score
  topsis rank phones.csv -w 1,1,2 -i -,+,+ --detail

  # Write the result CSV and email it
  topsis rank phones.csv -w 1,1,2 -i -,+,+ --output csv --output-file out.csv --email me@example.com

  # Read a semicolon separated file
  topsis rank data.csv -w 1,1,1 -i +,+,- --delimiter ';'`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		m, err := newMailer(cfg.SMTP)
		if err != nil {
			contract.LogFatal("Cannot configure email delivery", err)
		}
		ctx := rootCtx
		if cfg.Output != schema.TextOut && cfg.OutputFile == "" {
			ctx = core.WithSuppressHeader(ctx)
		}
		if err := core.ExecuteRank(ctx, cfg, cacheManager, m); err != nil {
			contract.LogFatal("Cannot rank alternatives", err)
		}
	},
}
