package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/topsis/internal/contract"
	"github.com/huangsam/topsis/internal/iocache"
	"github.com/huangsam/topsis/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// loadHistoryConfig reads the history backend settings into cfg.
// An empty backend is treated as NoneBackend.
func loadHistoryConfig() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get history-related config values
	backendStr := viper.GetString("history-backend")
	connStr := viper.GetString("history-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historySetup loads minimal configuration needed for history operations
// and opens the history store.
func historySetup() error {
	if err := loadHistoryConfig(); err != nil {
		return err
	}

	// Initialize stores with the loaded config (no result caching for history commands)
	if err := iocache.InitStores("", "", cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}
	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyConfigWrapper loads history settings without opening the store.
// The clear and migrate commands work on a database that may not hold the tables yet.
func historyConfigWrapper(_ *cobra.Command, _ []string) error {
	return loadHistoryConfig()
}

// historyDBFilePath resolves the SQLite file of the run history.
func historyDBFilePath() string {
	if cfg.HistoryDBConnect != "" {
		return cfg.HistoryDBConnect
	}
	return iocache.GetHistoryDBFilePath()
}

// historyCmd focused on run history management.
//
// Note: History subcommands use minimal initialization instead of the full
// sharedSetup used by rank.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage ranking run history and exports",
	Long: `Manage the history of ranking runs.

When a history backend is configured, TOPSIS records every successful run:
- Run metadata (timestamps, duration, weights, impacts, source)
- Every ranked alternative with its values, score and rank

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, default)

Subcommands:
  status  - Show run history statistics
  export  - Export runs and results to Parquet
  clear   - Remove all recorded runs
  migrate - Run database schema migrations

Examples:
  # Record runs in the default SQLite file
  topsis rank phones.csv -w 1,1,2 -i -,+,+ --history-backend sqlite

  # Check tracking status
  topsis history status --history-backend sqlite

  # Export for analysis in pandas/DuckDB
  topsis history export --history-backend sqlite --output-file runs`,
}

// historyClearCmd clears the run history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded ranking runs",
	Long: `Delete all stored ranking runs and their results.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the history tables

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  topsis history export --history-backend sqlite --output-file backup
  topsis history clear --history-backend sqlite`,
	PreRunE: historyConfigWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearHistory(cfg.HistoryBackend, historyDBFilePath(), cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear run history", err)
		}
		fmt.Println("Run history cleared successfully.")
	},
}

// historyStatusCmd shows run history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run history statistics and connection details",
	Long: `Show detailed information about the run history.

Displays:
- Backend type and connection status
- Total number of runs stored
- Last and oldest run timestamps
- Total alternatives ranked across all runs
- Database table sizes

Examples:
  # Check run history status
  topsis history status --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetHistoryStore()
		if store == nil {
			contract.LogFatal("Failed to get run history status", fmt.Errorf("history store is not initialized"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get run history status", err)
		}
		iocache.PrintHistoryStatus(os.Stdout, status)
	},
}

// historyExportCmd exports run history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for BI tools and analytics",
	Long: `Export all stored runs and ranked alternatives to Parquet.

Writes two files next to the --output-file prefix:
- <prefix>.runs.parquet    - metadata about each ranking run
- <prefix>.results.parquet - every ranked alternative per run

Requires: --output-file parameter

Examples:
  # Export all data
  topsis history export --history-backend sqlite --output-file topsis-data

  # Use with DuckDB for analysis
  duckdb -c "SELECT * FROM read_parquet('topsis-data.results.parquet') LIMIT 10"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteHistoryExport(os.Stdout, iocache.Manager.GetHistoryStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  topsis history migrate --history-backend postgresql

  # Migrate to specific version
  topsis history migrate --history-backend sqlite --target-version 1

  # Rollback to initial state
  topsis history migrate --history-backend sqlite --target-version 0`,
	PreRunE: historyConfigWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
