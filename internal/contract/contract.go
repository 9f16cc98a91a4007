// Package contract provides interfaces and shared utilities for the topsis internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/topsis/schema"
)

// CacheManager defines the interface for managing the result and history stores.
// This allows the persistence layer to be mocked for testing.
type CacheManager interface {
	GetResultStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking ranking runs and their results.
type HistoryStore interface {
	// BeginRun creates a new ranking run and returns its unique ID
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the ranking run with completion data
	EndRun(runID int64, endTime time.Time, totalAlternatives, totalCriteria int) error

	// RecordResult stores one ranked alternative of a run
	RecordResult(runID int64, recordedAt time.Time, row schema.RankedAlternative) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns retrieves all ranking runs
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllResults retrieves all ranked alternatives of all runs
	GetAllResults() ([]schema.ResultRecord, error)

	// Close closes the underlying connection
	Close() error
}

// MailMessage is a single outgoing email with one attachment.
type MailMessage struct {
	To             string
	Subject        string
	Body           string
	AttachmentName string
	Attachment     []byte
}

// Mailer delivers email. The SMTP implementation lives in internal/mailer.
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}
