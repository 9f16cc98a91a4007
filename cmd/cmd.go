// Package cmd defines the command-line interface for topsis.
package cmd

import (
	"github.com/huangsam/topsis/internal/contract"
	"github.com/huangsam/topsis/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for scores")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Result cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("history-backend", "", "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for run history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("color", contract.DefaultColorSetting, "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("smtp-host", "", "SMTP server host used to email results")
	rootCmd.PersistentFlags().Int("smtp-port", contract.DefaultSMTPPort, "SMTP server port")
	rootCmd.PersistentFlags().String("smtp-user", "", "SMTP username (optional)")
	rootCmd.PersistentFlags().String("smtp-password", "", "SMTP password (prefer TOPSIS_SMTP_PASSWORD)")
	rootCmd.PersistentFlags().String("smtp-from", "", "Sender address for emailed results")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of rankCmd to Viper
	rankCmd.Flags().StringP("weights", "w", "", "Comma-separated criterion weights (e.g. 0.25,0.25,0.5)")
	rankCmd.Flags().StringP("impacts", "i", "", "Comma-separated impacts, + to maximize and - to minimize (e.g. -,+,+)")
	rankCmd.Flags().StringP("delimiter", "d", contract.DefaultDelimiter, `Input field delimiter (use "tab" for TSV)`)
	rankCmd.Flags().Bool("detail", false, "Print criterion values next to each score")
	rankCmd.Flags().String("email", "", "Email the result CSV to this address")
	if err := viper.BindPFlags(rankCmd.Flags()); err != nil {
		contract.LogFatal("Error binding rank flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("addr", contract.DefaultServeAddr, "HTTP listen address")
	serveCmd.Flags().Int("max-upload-mb", contract.DefaultMaxUploadMB, "Maximum upload size for POST /rank in megabytes")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
