package core

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/topsis/core/algo"
	"github.com/huangsam/topsis/internal/iocache"
	"github.com/huangsam/topsis/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRankAlternativesWithoutManager(t *testing.T) {
	result, err := RankAlternatives(context.Background(), phoneRequest(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "E", "A", "D", "B"}, labelsOf(result))
	assert.Equal(t, "Model", result.LabelHeader)
}

func TestRankAlternativesRecordsHistory(t *testing.T) {
	history := &iocache.MockHistoryStore{}
	history.On("BeginRun", mock.AnythingOfType("time.Time"), mock.MatchedBy(func(params map[string]any) bool {
		return params["source"] == "test" && params["cached"] == false
	})).Return(int64(7), nil)
	history.On("RecordResult", int64(7), mock.AnythingOfType("time.Time"), mock.AnythingOfType("schema.RankedAlternative")).Return(nil)
	history.On("EndRun", int64(7), mock.AnythingOfType("time.Time"), 5, 3).Return(nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetResultStore").Return(nil)
	mgr.On("GetHistoryStore").Return(history)

	result, err := RankAlternatives(context.Background(), phoneRequest(), mgr)
	require.NoError(t, err)
	assert.Len(t, result.Rows, 5)

	history.AssertExpectations(t)
	history.AssertNumberOfCalls(t, "RecordResult", 5)
	first := history.Calls[1].Arguments.Get(2).(schema.RankedAlternative)
	assert.Equal(t, "C", first.Label)
}

func TestRankAlternativesTrackingFailuresAreNotFatal(t *testing.T) {
	t.Run("begin fails", func(t *testing.T) {
		history := &iocache.MockHistoryStore{}
		history.On("BeginRun", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))

		mgr := &iocache.MockCacheManager{}
		mgr.On("GetResultStore").Return(nil)
		mgr.On("GetHistoryStore").Return(history)

		_, err := RankAlternatives(context.Background(), phoneRequest(), mgr)
		require.NoError(t, err)
		history.AssertNotCalled(t, "RecordResult", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("record and end fail", func(t *testing.T) {
		history := &iocache.MockHistoryStore{}
		history.On("BeginRun", mock.Anything, mock.Anything).Return(int64(1), nil)
		history.On("RecordResult", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("insert failed"))
		history.On("EndRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("update failed"))

		mgr := &iocache.MockCacheManager{}
		mgr.On("GetResultStore").Return(nil)
		mgr.On("GetHistoryStore").Return(history)

		_, err := RankAlternatives(context.Background(), phoneRequest(), mgr)
		require.NoError(t, err)
		history.AssertExpectations(t)
	})
}

func TestRankAlternativesErrorSkipsHistory(t *testing.T) {
	history := &iocache.MockHistoryStore{}
	store := &iocache.MockCacheStore{}
	store.On("Get", mock.Anything).Return(nil, 0, int64(0), sql.ErrNoRows)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetResultStore").Return(store)
	mgr.On("GetHistoryStore").Return(history)

	req := phoneRequest()
	req.Impacts = schema.ImpactVector{schema.Cost, "x", schema.Benefit}
	_, err := RankAlternatives(context.Background(), req, mgr)
	require.ErrorIs(t, err, algo.ErrInvalidImpactTag)
	history.AssertNotCalled(t, "BeginRun", mock.Anything, mock.Anything)
}

func TestRankAlternativesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RankAlternatives(ctx, phoneRequest(), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRankAlternativesWithSQLiteStores(t *testing.T) {
	dir := t.TempDir()
	results, err := iocache.NewCacheStore("topsis_result_cache", schema.SQLiteBackend, filepath.Join(dir, "cache.db"))
	require.NoError(t, err)
	defer func() { _ = results.Close() }()
	history, err := iocache.NewHistoryStore(schema.SQLiteBackend, filepath.Join(dir, "history.db"))
	require.NoError(t, err)
	defer func() { _ = history.Close() }()

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetResultStore").Return(results)
	mgr.On("GetHistoryStore").Return(history)

	first, err := RankAlternatives(context.Background(), phoneRequest(), mgr)
	require.NoError(t, err)
	second, err := RankAlternatives(context.Background(), phoneRequest(), mgr)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	cacheStatus, err := results.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 1, cacheStatus.TotalEntries)

	runs, err := history.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.NotNil(t, runs[1].ConfigParams)
	assert.Contains(t, *runs[1].ConfigParams, `"cached":true`)
	assert.WithinDuration(t, time.Now(), runs[1].StartTime, time.Minute)

	stored, err := history.GetAllResults()
	require.NoError(t, err)
	assert.Len(t, stored, 10)
}
