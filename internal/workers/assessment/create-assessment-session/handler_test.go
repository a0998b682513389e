// internal/workers/assessment/create-assessment-session/handler_test.go
package createassessmentsession

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"strings"
	"testing"
	"time"

	"purpose-workers/internal/common/camunda/camundatest"
	"purpose-workers/internal/common/database"
	"purpose-workers/internal/common/errors"
	"purpose-workers/internal/common/logger"
	"purpose-workers/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var fixedNow = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func createTestConfig() *Config {
	return &Config{
		BaseURL:    "https://purpose.example.com/",
		SessionTTL: 7 * 24 * time.Hour,
		Timeout:    5 * time.Second,
		Now:        func() time.Time { return fixedNow },
	}
}

func setupRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return redis.NewClient(&redis.Options{Addr: mr.Addr()}), mr
}

func createInput() *Input {
	return &Input{
		CandidateID: "cand-300",
		Name:        "Maria Souza",
		Email:       "maria.souza@example.com",
		Platform:    "GUPY",
		JobTitle:    "Analista de Dados",
		Company:     "Empresa XPTO",
	}
}

func requireCode(t *testing.T, err error, code errors.ErrorCode) {
	t.Helper()
	var stdErr *errors.StandardError
	require.True(t, goerrors.As(err, &stdErr), "expected StandardError, got %v", err)
	assert.Equal(t, code, stdErr.Code)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	rdb, mr := setupRedis(t)
	h := NewHandler(createTestConfig(), rdb, logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), createInput())
	require.NoError(t, err)

	_, err = uuid.Parse(output.SessionID)
	assert.NoError(t, err)
	assert.Equal(t, "cand-300", output.CandidateID)
	assert.Equal(t, "https://purpose.example.com/questionario/"+output.SessionID, output.SessionLink)
	assert.Equal(t, models.SessionStatusSent, output.SessionStatus)
	assert.Equal(t, "2024-06-17T12:00:00Z", output.ExpiresAt)

	key := database.SessionKey(output.SessionID)
	raw, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, mr.TTL(key))

	var stored models.AssessmentSession
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, models.PlatformGupy, stored.Platform)
	assert.Equal(t, "Maria Souza", stored.Name)
	assert.Equal(t, fixedNow, stored.CreatedAt)
	assert.False(t, stored.IsExpired(fixedNow.Add(6*24*time.Hour)))
	assert.True(t, stored.IsExpired(fixedNow.Add(8*24*time.Hour)))
}

func TestHandler_Execute_DefaultsToGenericPlatform(t *testing.T) {
	rdb, mr := setupRedis(t)
	h := NewHandler(createTestConfig(), rdb, logger.NewTestLogger(t))

	input := createInput()
	input.Platform = ""
	output, err := h.Execute(context.Background(), input)
	require.NoError(t, err)

	raw, err := mr.Get(database.SessionKey(output.SessionID))
	require.NoError(t, err)
	assert.True(t, strings.Contains(raw, `"platform":"generic"`))
}

func TestHandler_Execute_UniqueSessions(t *testing.T) {
	rdb, _ := setupRedis(t)
	h := NewHandler(createTestConfig(), rdb, logger.NewTestLogger(t))

	first, err := h.Execute(context.Background(), createInput())
	require.NoError(t, err)
	second, err := h.Execute(context.Background(), createInput())
	require.NoError(t, err)

	assert.NotEqual(t, first.SessionID, second.SessionID)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(in *Input)
		wantCode errors.ErrorCode
	}{
		{name: "missing candidate", mutate: func(in *Input) { in.CandidateID = " " }, wantCode: errors.ErrCodeMissingCandidateID},
		{name: "missing name", mutate: func(in *Input) { in.Name = "" }, wantCode: errors.ErrCodeInputValidationFailed},
		{name: "invalid email", mutate: func(in *Input) { in.Email = "maria-at-example" }, wantCode: errors.ErrCodeInputValidationFailed},
		{name: "unknown platform", mutate: func(in *Input) { in.Platform = "linkedin" }, wantCode: errors.ErrCodeInvalidPlatform},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rdb, mr := setupRedis(t)
			h := NewHandler(createTestConfig(), rdb, logger.NewTestLogger(t))

			input := createInput()
			tt.mutate(input)
			output, err := h.Execute(context.Background(), input)

			assert.Nil(t, output)
			requireCode(t, err, tt.wantCode)
			assert.Empty(t, mr.Keys(), "no session may be stored for invalid input")
		})
	}
}

func TestHandler_Execute_RedisFailure(t *testing.T) {
	rdb, mr := setupRedis(t)
	mr.SetError("READONLY You can't write against a read only replica")
	h := NewHandler(createTestConfig(), rdb, logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), createInput())

	assert.Nil(t, output)
	requireCode(t, err, errors.ErrCodeSessionCreateFailed)
}

// ==========================
// Job Handling Tests
// ==========================

func TestHandler_Handle_CompletesJob(t *testing.T) {
	rdb, _ := setupRedis(t)
	client := camundatest.NewJobClient()
	job := camundatest.NewJob(TaskType, 31, createInput())

	h := NewHandler(createTestConfig(), rdb, logger.NewTestLogger(t))
	require.NoError(t, h.Handle(context.Background(), client, job))

	require.Len(t, client.Gateway.Completed, 1)
	vars := client.Gateway.CompletedVariables(0)
	assert.Equal(t, "cand-300", vars["candidateId"])
	assert.Contains(t, vars["sessionLink"], "/questionario/")
}
