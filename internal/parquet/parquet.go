// Package parquet provides data structures and functions for exporting topsis
// rankings and run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/topsis/schema"
	"github.com/parquet-go/parquet-go"
)

// RankingRun represents a single ranking run with metadata.
// This struct maps to the topsis_runs database table.
type RankingRun struct {
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is stored as TIMESTAMP with nanosecond precision
	StartTime time.Time  `parquet:"start_time,snappy"`
	EndTime   *time.Time `parquet:"end_time,optional,snappy"`

	RunDurationMs     *int32 `parquet:"run_duration_ms,optional,snappy"`
	TotalAlternatives int32  `parquet:"total_alternatives,snappy"`
	TotalCriteria     int32  `parquet:"total_criteria,snappy"`

	// ConfigParams contains the JSON-encoded weights, impacts and input (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// RunResult represents one ranked alternative of a stored run.
// This struct maps to the topsis_run_results database table.
type RunResult struct {
	RunID      int64     `parquet:"run_id,snappy"`
	Label      string    `parquet:"label,snappy"`
	Score      float64   `parquet:"score,snappy"`
	Rank       int32     `parquet:"rank,snappy"`
	ValuesJSON string    `parquet:"values_json,snappy"`
	RecordedAt time.Time `parquet:"recorded_at,snappy"`
}

// RankedAlternative is one row of a ranking written with --output parquet.
type RankedAlternative struct {
	Rank       int32     `parquet:"rank,snappy"`
	Label      string    `parquet:"label,snappy"`
	Score      float64   `parquet:"score,snappy"`
	ScoreLabel string    `parquet:"score_label,snappy"`
	Values     []float64 `parquet:"values,list"`
}

// writeParquet writes rows to outputPath using schema inference from T's struct tags.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteRankingRunsParquet writes a slice of RankingRun structs to a Parquet file.
func WriteRankingRunsParquet(data []RankingRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteRunResultsParquet writes a slice of RunResult structs to a Parquet file.
func WriteRunResultsParquet(data []RunResult, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteRankedAlternativesParquet writes a ranking to a Parquet file.
func WriteRankedAlternativesParquet(data []RankedAlternative, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertRunRecords converts history store rows into Parquet rows.
func ConvertRunRecords(records []schema.RunRecord) []RankingRun {
	out := make([]RankingRun, len(records))
	for i, r := range records {
		out[i] = RankingRun{
			RunID:        r.RunID,
			StartTime:    r.StartTime,
			EndTime:      r.EndTime,
			ConfigParams: r.ConfigParams,
		}
		if r.RunDurationMs != nil {
			d := int32(*r.RunDurationMs)
			out[i].RunDurationMs = &d
		}
		if r.TotalAlternatives != nil {
			out[i].TotalAlternatives = int32(*r.TotalAlternatives)
		}
		if r.TotalCriteria != nil {
			out[i].TotalCriteria = int32(*r.TotalCriteria)
		}
	}
	return out
}

// ConvertResultRecords converts stored ranked rows into Parquet rows.
func ConvertResultRecords(records []schema.ResultRecord) []RunResult {
	out := make([]RunResult, len(records))
	for i, r := range records {
		out[i] = RunResult{
			RunID:      r.RunID,
			Label:      r.Label,
			Score:      r.Score,
			Rank:       int32(r.Rank),
			ValuesJSON: r.ValuesJSON,
			RecordedAt: r.RecordedAt,
		}
	}
	return out
}

// ConvertRankedResult converts a ranking into Parquet rows, labelling each score
// with labelFn.
func ConvertRankedResult(result schema.RankedResult, labelFn func(float64) string) []RankedAlternative {
	out := make([]RankedAlternative, len(result.Rows))
	for i, r := range result.Rows {
		values := make([]float64, len(r.Values))
		copy(values, r.Values)
		out[i] = RankedAlternative{
			Rank:       int32(r.Rank),
			Label:      r.Label,
			Score:      r.Score,
			ScoreLabel: labelFn(r.Score),
			Values:     values,
		}
	}
	return out
}
