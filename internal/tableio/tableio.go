// Package tableio reads decision matrices and criterion vectors from text.
package tableio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/huangsam/topsis/schema"
)

// ErrNoHeader is returned when the input has no header row.
var ErrNoHeader = errors.New("input file is empty, expected a header row")

// ReadDecisionMatrix parses delimited text into a decision matrix. The
// first row is the header: its first cell names the label column and the
// rest name the criteria. Cells are kept verbatim (trimmed) so that
// numeric validation happens in one place.
func ReadDecisionMatrix(r io.Reader, delimiter rune) (schema.DecisionMatrix, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1 // ragged rows are reported by the ranker
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return schema.DecisionMatrix{}, ErrNoHeader
	}
	if err != nil {
		return schema.DecisionMatrix{}, fmt.Errorf("failed to read header: %w", err)
	}

	matrix := schema.DecisionMatrix{
		LabelHeader: strings.TrimSpace(strings.TrimPrefix(header[0], "\ufeff")),
		Criteria:    trimAll(header[1:]),
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return schema.DecisionMatrix{}, fmt.Errorf("failed to read line %d: %w", line, err)
		}
		if isBlank(record) {
			continue
		}
		matrix.Rows = append(matrix.Rows, schema.Alternative{
			Label:  strings.TrimSpace(record[0]),
			Values: trimAll(record[1:]),
		})
	}

	return matrix, nil
}

// ReadDecisionMatrixFile opens path and parses it with ReadDecisionMatrix.
func ReadDecisionMatrixFile(path string, delimiter rune) (schema.DecisionMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return schema.DecisionMatrix{}, fmt.Errorf("failed to open input file %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	matrix, err := ReadDecisionMatrix(f, delimiter)
	if err != nil {
		return schema.DecisionMatrix{}, fmt.Errorf("failed to parse %q: %w", path, err)
	}
	return matrix, nil
}

// ParseWeights parses a comma-separated list of numbers such as "1,1,2".
// Range checks (positive, finite) are left to the ranker.
func ParseWeights(s string) (schema.WeightVector, error) {
	parts := splitList(s)
	if len(parts) == 0 {
		return nil, nil
	}
	weights := make(schema.WeightVector, len(parts))
	for i, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("weight %d is empty", i+1)
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("weight %d (%q) is not a number", i+1, p)
		}
		weights[i] = v
	}
	return weights, nil
}

// ParseImpacts parses a comma-separated list of impact tags such as "+,-,+".
// Tags are not checked here; the ranker rejects anything other than + or -.
func ParseImpacts(s string) schema.ImpactVector {
	parts := splitList(s)
	impacts := make(schema.ImpactVector, len(parts))
	for i, p := range parts {
		impacts[i] = schema.Impact(p)
	}
	return impacts
}

func splitList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return trimAll(strings.Split(s, ","))
}

func trimAll(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

func isBlank(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
