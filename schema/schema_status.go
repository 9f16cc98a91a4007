package schema

import "time"

// CacheStatus represents the status of the result cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// HistoryStatus represents the status of the run history store.
type HistoryStatus struct {
	Backend           string           `json:"backend"`
	Connected         bool             `json:"connected"`
	TotalRuns         int              `json:"total_runs"`
	LastRunID         int64            `json:"last_run_id"`
	LastRunTime       time.Time        `json:"last_run_time"`
	OldestRunTime     time.Time        `json:"oldest_run_time"`
	TotalAlternatives int              `json:"total_alternatives"`
	TableSizes        map[string]int64 `json:"table_sizes"`
}

// RunRecord represents a row from the topsis_runs table.
type RunRecord struct {
	RunID             int64
	StartTime         time.Time
	EndTime           *time.Time
	RunDurationMs     *int
	TotalAlternatives *int
	TotalCriteria     *int
	ConfigParams      *string
}

// ResultRecord represents a row from the topsis_run_results table.
type ResultRecord struct {
	RunID      int64
	Label      string
	Score      float64
	Rank       int
	ValuesJSON string
	RecordedAt time.Time
}
