package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/topsis/internal/contract"
	"github.com/huangsam/topsis/internal/parquet"
)

// ExecuteHistoryExport exports the run history of store to two Parquet files,
// <outputFile>.runs.parquet and <outputFile>.results.parquet.
func ExecuteHistoryExport(w io.Writer, store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history store is not configured")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total ranking runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total result records: %d\n", status.TableSizes[runResultsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve ranking runs: %w", err)
	}
	results, err := store.GetAllResults()
	if err != nil {
		return fmt.Errorf("failed to retrieve run results: %w", err)
	}

	parquetRuns := parquet.ConvertRunRecords(runs)
	parquetResults := parquet.ConvertResultRecords(results)

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRankingRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write ranking runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d ranking runs to: %s\n", len(parquetRuns), runsFile)

	resultsFile := outputFile + ".results.parquet"
	if err := parquet.WriteRunResultsParquet(parquetResults, resultsFile); err != nil {
		return fmt.Errorf("failed to write run results: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d result records to: %s\n", len(parquetResults), resultsFile)

	_, _ = fmt.Fprintln(w, "\nExport complete! The Parquet files can be used with:")
	_, _ = fmt.Fprintln(w, "  - Apache Spark")
	_, _ = fmt.Fprintln(w, "  - Pandas (via pyarrow)")
	_, _ = fmt.Fprintln(w, "  - DuckDB")
	return nil
}
