package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/topsis/internal/contract"
	"github.com/huangsam/topsis/schema"
)

// cacheColumns holds the per-backend column types of the cache table.
type cacheColumns struct {
	key, value, version, timestamp string
}

var cacheColumnTypes = map[schema.DatabaseBackend]cacheColumns{
	schema.SQLiteBackend:     {key: "TEXT", value: "BLOB", version: "INTEGER", timestamp: "INTEGER"},
	schema.MySQLBackend:      {key: "VARCHAR(255)", value: "MEDIUMBLOB", version: "INT", timestamp: "BIGINT"},
	schema.PostgreSQLBackend: {key: "TEXT", value: "BYTEA", version: "INTEGER", timestamp: "BIGINT"},
}

// CacheStoreImpl keeps serialized rankings keyed by input digest.
// With the none backend every read misses and every write is dropped.
type CacheStoreImpl struct {
	db        *sql.DB
	tableName string
	backend   schema.DatabaseBackend
	connStr   string
}

var _ contract.CacheStore = &CacheStoreImpl{} // Compile-time check

// NewCacheStore opens the cache table for backend, creating it on first use.
func NewCacheStore(tableName string, backend schema.DatabaseBackend, connStr string) (contract.CacheStore, error) {
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}

	store := &CacheStoreImpl{tableName: tableName, backend: backend, connStr: connStr}
	if backend == schema.NoneBackend {
		return store, nil
	}
	if _, ok := cacheColumnTypes[backend]; !ok {
		return nil, fmt.Errorf("unsupported cache backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	db, err := openDatabase(backend, connStr, GetDBFilePath())
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(getCreateTableQuery(tableName, backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}
	store.db = db
	return store, nil
}

// getCreateTableQuery builds the DDL for the cache table.
func getCreateTableQuery(tableName string, backend schema.DatabaseBackend) string {
	cols, ok := cacheColumnTypes[backend]
	if !ok {
		cols = cacheColumnTypes[schema.SQLiteBackend]
	}
	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (cache_key %s PRIMARY KEY, cache_value %s NOT NULL, cache_version %s NOT NULL, cache_timestamp %s NOT NULL)",
		quoteTableName(tableName, backend), cols.key, cols.value, cols.version, cols.timestamp)
}

func (cs *CacheStoreImpl) disabled() bool {
	return cs.backend == schema.NoneBackend || cs.db == nil
}

// Get returns the payload, format version and write time stored under key.
// A miss surfaces as sql.ErrNoRows.
func (cs *CacheStoreImpl) Get(key string) ([]byte, int, int64, error) {
	if cs.disabled() {
		return nil, 0, 0, sql.ErrNoRows
	}

	query := fmt.Sprintf("SELECT cache_value, cache_version, cache_timestamp FROM %s WHERE cache_key = %s",
		quoteTableName(cs.tableName, cs.backend), placeholder(cs.backend, 1))

	var (
		payload []byte
		version int
		written int64
	)
	if err := cs.db.QueryRow(query, key).Scan(&payload, &version, &written); err != nil {
		return nil, 0, 0, err
	}
	return payload, version, written, nil
}

// Set writes value under key, replacing any previous entry.
func (cs *CacheStoreImpl) Set(key string, value []byte, version int, timestamp int64) error {
	if cs.disabled() {
		return nil
	}
	_, err := cs.db.Exec(cs.getUpsertQuery(), key, value, version, timestamp)
	return err
}

// getUpsertQuery picks the dialect's insert-or-update form.
func (cs *CacheStoreImpl) getUpsertQuery() string {
	table := quoteTableName(cs.tableName, cs.backend)
	insert := fmt.Sprintf("INSERT INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES (%s)",
		table, placeholderList(cs.backend, 4))

	switch cs.backend {
	case schema.MySQLBackend:
		return insert + " AS incoming ON DUPLICATE KEY UPDATE cache_value = incoming.cache_value, " +
			"cache_version = incoming.cache_version, cache_timestamp = incoming.cache_timestamp"
	case schema.PostgreSQLBackend:
		return insert + " ON CONFLICT (cache_key) DO UPDATE SET cache_value = EXCLUDED.cache_value, " +
			"cache_version = EXCLUDED.cache_version, cache_timestamp = EXCLUDED.cache_timestamp"
	default:
		return "INSERT OR REPLACE" + insert[len("INSERT"):]
	}
}

// Close releases the connection, if any.
func (cs *CacheStoreImpl) Close() error {
	if cs.db == nil {
		return nil
	}
	return cs.db.Close()
}

// GetStatus reports entry count, time range and approximate size.
func (cs *CacheStoreImpl) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{Backend: string(cs.backend), Connected: cs.db != nil}
	if cs.disabled() {
		return status, nil
	}

	table := quoteTableName(cs.tableName, cs.backend)
	if err := cs.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&status.TotalEntries); err != nil {
		return status, fmt.Errorf("failed to get total entries: %w", err)
	}
	if status.TotalEntries == 0 {
		return status, nil
	}

	var first, last int64
	if err := cs.db.QueryRow("SELECT MIN(cache_timestamp), MAX(cache_timestamp) FROM "+table).Scan(&first, &last); err != nil {
		return status, fmt.Errorf("failed to get entry time range: %w", err)
	}
	status.OldestEntryTime = time.Unix(first, 0)
	status.LastEntryTime = time.Unix(last, 0)
	status.TableSizeBytes = cs.tableSize(int64(status.TotalEntries))
	return status, nil
}

// tableSize asks the backend for its on-disk size. Server backends fall
// back to roughly 1 KB per entry when the catalog query fails.
func (cs *CacheStoreImpl) tableSize(entries int64) int64 {
	var size int64
	switch cs.backend {
	case schema.SQLiteBackend:
		if err := cs.db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()").Scan(&size); err != nil {
			return 0
		}
	case schema.MySQLBackend:
		dsn, err := mysql.ParseDSN(cs.connStr)
		if err != nil || dsn.DBName == "" {
			return entries * 1000
		}
		q := "SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?"
		if err := cs.db.QueryRow(q, dsn.DBName, cs.tableName).Scan(&size); err != nil {
			return entries * 1000
		}
	case schema.PostgreSQLBackend:
		if err := cs.db.QueryRow("SELECT pg_total_relation_size($1)", cs.tableName).Scan(&size); err != nil {
			return entries * 1000
		}
	}
	return size
}
