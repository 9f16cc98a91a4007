package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/huangsam/topsis/internal/contract"
	"github.com/huangsam/topsis/internal/parquet"
	"github.com/huangsam/topsis/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// DefaultLabelHeader names the label column when the input had no header for it.
const DefaultLabelHeader = "Alternative"

// WriteRankingResults outputs a ranking, dispatching based on the output format configured.
func WriteRankingResults(result schema.RankedResult, cfg *contract.Config, duration time.Duration) error {
	fmtScore, fmtValue := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteRankingJSON(w, result)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRankingCSV(w, result, fmtScore, fmtValue)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeRankingParquet(result, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRankingTable(result, cfg, fmtScore, fmtValue, duration, w)
		}, "Wrote table")
	}
	return nil
}

// labelHeader returns the header of the label column.
func labelHeader(result schema.RankedResult) string {
	if result.LabelHeader != "" {
		return result.LabelHeader
	}
	return DefaultLabelHeader
}

// writeRankingTable generates and writes the human-readable table.
func writeRankingTable(result schema.RankedResult, cfg *contract.Config, fmtScore, fmtValue func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Rank", labelHeader(result), "Score", "Label"}
	if cfg.Detail {
		headers = append(headers, result.Criteria...)
	}
	table.Header(headers)

	// 2. Configure alignment to match a minimal look
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	labelWidth := GetMaxTableLabelWidth(cfg, len(result.Criteria))
	data := make([][]string, 0, len(result.Rows))
	for _, r := range result.Rows {
		label := contract.GetPlainLabel(r.Score)
		if cfg.UseColors {
			label = contract.GetColorLabel(r.Score)
		}
		row := []string{
			strconv.Itoa(r.Rank),
			contract.TruncateLabel(r.Label, labelWidth),
			fmtScore(r.Score),
			label,
		}
		if cfg.Detail {
			for _, v := range r.Values {
				row = append(row, fmtValue(v))
			}
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Ranked %d alternatives across %d criteria\n", len(result.Rows), len(result.Criteria)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Ranking completed in %v. Cache backend: %s\n", duration, displayBackend(cfg.CacheBackend)); err != nil {
		return err
	}
	return nil
}

func displayBackend(backend schema.DatabaseBackend) schema.DatabaseBackend {
	if backend == "" {
		return schema.NoneBackend
	}
	return backend
}

// WriteRankingCSV writes the ranking as CSV: the original columns followed by
// Score and Rank, best alternative first. This is also the email attachment format.
func WriteRankingCSV(w io.Writer, result schema.RankedResult, precision int) error {
	fmtScore, fmtValue := createFormatters(precision)
	return writeRankingCSV(w, result, fmtScore, fmtValue)
}

func writeRankingCSV(w io.Writer, result schema.RankedResult, fmtScore, fmtValue func(float64) string) error {
	csvWriter := csv.NewWriter(w)

	header := make([]string, 0, len(result.Criteria)+3)
	header = append(header, labelHeader(result))
	header = append(header, result.Criteria...)
	header = append(header, "Score", "Rank")
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range result.Rows {
		rec := make([]string, 0, len(header))
		rec = append(rec, r.Label)
		for _, v := range r.Values {
			rec = append(rec, fmtValue(v))
		}
		rec = append(rec, fmtScore(r.Score), strconv.Itoa(r.Rank))
		if err := csvWriter.Write(rec); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// JSONRanking is the JSON document written for a ranking.
type JSONRanking struct {
	LabelHeader  string            `json:"label_header"`
	Criteria     []string          `json:"criteria"`
	Alternatives []JSONAlternative `json:"alternatives"`
}

// JSONAlternative is one ranked alternative in JSON output.
type JSONAlternative struct {
	Rank       int       `json:"rank"`
	Label      string    `json:"label"`
	Score      float64   `json:"score"`
	ScoreLabel string    `json:"score_label"`
	Values     []float64 `json:"values"`
}

// NewJSONRanking builds the JSON document for a ranking.
func NewJSONRanking(result schema.RankedResult) JSONRanking {
	out := JSONRanking{
		LabelHeader:  labelHeader(result),
		Criteria:     result.Criteria,
		Alternatives: make([]JSONAlternative, len(result.Rows)),
	}
	for i, r := range result.Rows {
		out.Alternatives[i] = JSONAlternative{
			Rank:       r.Rank,
			Label:      r.Label,
			Score:      r.Score,
			ScoreLabel: contract.GetPlainLabel(r.Score),
			Values:     r.Values,
		}
	}
	return out
}

// WriteRankingJSON writes the ranking in JSON format.
func WriteRankingJSON(w io.Writer, result schema.RankedResult) error {
	return writeJSON(w, NewJSONRanking(result))
}

// writeRankingParquet writes the ranking to a Parquet file.
func writeRankingParquet(result schema.RankedResult, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for parquet output")
	}
	rows := parquet.ConvertRankedResult(result, contract.GetPlainLabel)
	if err := parquet.WriteRankedAlternativesParquet(rows, outputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", outputFile)
	return nil
}
