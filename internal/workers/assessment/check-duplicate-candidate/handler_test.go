// internal/workers/assessment/check-duplicate-candidate/handler_test.go
package checkduplicatecandidate

import (
	"context"
	"database/sql"
	goerrors "errors"
	"testing"
	"time"

	"purpose-workers/internal/common/camunda/camundatest"
	"purpose-workers/internal/common/database"
	"purpose-workers/internal/common/errors"
	"purpose-workers/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		CacheTTL: time.Hour,
		Timeout:  5 * time.Second,
	}
}

func setupRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return redis.NewClient(&redis.Options{Addr: mr.Addr()}), mr
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl.WithFields(map[string]interface{}{"error": err})
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

func newTestLogger(t *testing.T) logger.Logger {
	return &testLogger{t: t}
}

func expectExists(mock sqlmock.Sqlmock, candidateID string, exists bool) {
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(candidateID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(exists))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_DatabaseLookup(t *testing.T) {
	tests := []struct {
		name     string
		exists   bool
		cachedAs string
	}{
		{name: "candidate already scored", exists: true, cachedAs: "1"},
		{name: "new candidate", exists: false, cachedAs: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			rdb, mr := setupRedis(t)
			expectExists(mock, "cand-001", tt.exists)

			h := NewHandler(createTestConfig(), db, rdb, newTestLogger(t))
			output, err := h.Execute(context.Background(), &Input{CandidateID: "cand-001"})

			require.NoError(t, err)
			assert.Equal(t, tt.exists, output.IsDuplicate)
			assert.Equal(t, SourceDatabase, output.Source)

			cached, err := mr.Get(database.CandidateResultKey("cand-001"))
			require.NoError(t, err)
			assert.Equal(t, tt.cachedAs, cached)
			assert.True(t, mr.TTL(database.CandidateResultKey("cand-001")) > 0)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHandler_Execute_CacheHit(t *testing.T) {
	db, mock := setupMockDB(t)
	rdb, mr := setupRedis(t)
	require.NoError(t, mr.Set(database.CandidateResultKey("cand-002"), "1"))

	h := NewHandler(createTestConfig(), db, rdb, newTestLogger(t))
	output, err := h.Execute(context.Background(), &Input{CandidateID: "cand-002"})

	require.NoError(t, err)
	assert.True(t, output.IsDuplicate)
	assert.Equal(t, SourceCache, output.Source)
	assert.NoError(t, mock.ExpectationsWereMet(), "database must not be queried on cache hit")
}

func TestHandler_Execute_TrimsCandidateID(t *testing.T) {
	db, mock := setupMockDB(t)
	rdb, _ := setupRedis(t)
	expectExists(mock, "cand-003", false)

	h := NewHandler(createTestConfig(), db, rdb, newTestLogger(t))
	output, err := h.Execute(context.Background(), &Input{CandidateID: "  cand-003 "})

	require.NoError(t, err)
	assert.False(t, output.IsDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_PaddedIDReadsKeyPrimedOnSave(t *testing.T) {
	db, mock := setupMockDB(t)
	rdb, mr := setupRedis(t)
	require.NoError(t, mr.Set(database.CandidateResultKey("cand-004"), database.CandidateScored))

	h := NewHandler(createTestConfig(), db, rdb, newTestLogger(t))
	output, err := h.Execute(context.Background(), &Input{CandidateID: " cand-004\t"})

	require.NoError(t, err)
	assert.True(t, output.IsDuplicate)
	assert.Equal(t, SourceCache, output.Source)
	assert.NoError(t, mock.ExpectationsWereMet(), "cache hit skips the database")
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_MissingCandidateID(t *testing.T) {
	db, _ := setupMockDB(t)
	rdb, _ := setupRedis(t)
	h := NewHandler(createTestConfig(), db, rdb, newTestLogger(t))

	for _, id := range []string{"", "   "} {
		output, err := h.Execute(context.Background(), &Input{CandidateID: id})
		assert.Nil(t, output)

		var stdErr *errors.StandardError
		require.True(t, goerrors.As(err, &stdErr))
		assert.Equal(t, errors.ErrCodeMissingCandidateID, stdErr.Code)
	}
}

func TestHandler_Execute_CacheErrorFallsBackToDatabase(t *testing.T) {
	db, mock := setupMockDB(t)
	rdb, rmock := redismock.NewClientMock()
	key := database.CandidateResultKey("cand-004")

	rmock.ExpectGet(key).SetErr(goerrors.New("connection refused"))
	expectExists(mock, "cand-004", true)
	rmock.ExpectSet(key, "1", time.Hour).SetErr(goerrors.New("connection refused"))

	h := NewHandler(createTestConfig(), db, rdb, newTestLogger(t))
	output, err := h.Execute(context.Background(), &Input{CandidateID: "cand-004"})

	require.NoError(t, err)
	assert.True(t, output.IsDuplicate)
	assert.Equal(t, SourceDatabase, output.Source)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestHandler_Execute_DatabaseError(t *testing.T) {
	db, mock := setupMockDB(t)
	rdb, _ := setupRedis(t)
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("cand-005").
		WillReturnError(goerrors.New("connection reset by peer"))

	h := NewHandler(createTestConfig(), db, rdb, newTestLogger(t))
	output, err := h.Execute(context.Background(), &Input{CandidateID: "cand-005"})

	assert.Nil(t, output)
	var stdErr *errors.StandardError
	require.True(t, goerrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeQueryExecutionFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

// ==========================
// Job Handling Tests
// ==========================

func TestHandler_Handle_CompletesJob(t *testing.T) {
	db, mock := setupMockDB(t)
	rdb, _ := setupRedis(t)
	expectExists(mock, "cand-006", true)

	client := camundatest.NewJobClient()
	job := camundatest.NewJob(TaskType, 42, map[string]interface{}{"candidateId": "cand-006"})

	h := NewHandler(createTestConfig(), db, rdb, newTestLogger(t))
	require.NoError(t, h.Handle(context.Background(), client, job))

	require.Len(t, client.Gateway.Completed, 1)
	assert.Equal(t, int64(42), client.Gateway.Completed[0].JobKey)
	vars := client.Gateway.CompletedVariables(0)
	assert.Equal(t, true, vars["isDuplicate"])
	assert.Equal(t, SourceDatabase, vars["duplicateSource"])
}

func TestHandler_Handle_InvalidVariables(t *testing.T) {
	db, _ := setupMockDB(t)
	rdb, _ := setupRedis(t)
	client := camundatest.NewJobClient()
	job := camundatest.NewJob(TaskType, 43, `{"candidateId": 12`)

	h := NewHandler(createTestConfig(), db, rdb, newTestLogger(t))
	err := h.Handle(context.Background(), client, job)

	var stdErr *errors.StandardError
	require.True(t, goerrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeInputValidationFailed, stdErr.Code)
	assert.Empty(t, client.Gateway.Completed)
}
