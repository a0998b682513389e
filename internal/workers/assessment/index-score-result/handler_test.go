// internal/workers/assessment/index-score-result/handler_test.go
package indexscoreresult

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"purpose-workers/internal/assessment/exchange"
	"purpose-workers/internal/assessment/scoring"
	"purpose-workers/internal/common/camunda/camundatest"
	"purpose-workers/internal/common/config"
	"purpose-workers/internal/common/database"
	"purpose-workers/internal/common/errors"
	"purpose-workers/internal/common/logger"
	"purpose-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func esResponse(status int, body string) *http.Response {
	header := http.Header{}
	header.Set("X-Elastic-Product", "Elasticsearch")
	header.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func createTestConfig() *Config {
	return &Config{
		IndexName: "purpose-results",
		Refresh:   "wait_for",
		Timeout:   5 * time.Second,
	}
}

func setupES(t *testing.T, transport http.RoundTripper) *elasticsearch.Client {
	es, err := database.NewElasticsearch(config.ElasticsearchConfig{URL: "http://es:9200"}, transport)
	require.NoError(t, err)
	return es.Client
}

func createInput(t *testing.T, candidateID string) *Input {
	answers := models.AnswerSet{
		{0, 1, 2, 3, 4},
		{5, 6, 7, 8, 9},
		{3, 4, 7, 8, 9},
		{5, 6, 7, 8, 9},
	}
	result, err := scoring.ScoreSubmission(candidateID, answers, time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return &Input{ScoreResult: exchange.ToExchangePayload(result)}
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

func TestHandler_Execute_IndexesPayload(t *testing.T) {
	var (
		gotPath  string
		gotQuery string
		gotDoc   map[string]interface{}
	)
	transport := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		gotPath = r.Method + " " + r.URL.Path
		gotQuery = r.URL.RawQuery
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotDoc))
		return esResponse(http.StatusCreated,
			`{"_index":"purpose-results","_id":"cand-400","_version":1,"result":"created"}`), nil
	})

	h := NewHandler(createTestConfig(), setupES(t, transport), logger.NewTestLogger(t))
	output, err := h.Execute(context.Background(), createInput(t, "cand-400"))

	require.NoError(t, err)
	assert.True(t, output.Indexed)
	assert.Equal(t, "purpose-results", output.IndexName)
	assert.Equal(t, "cand-400", output.DocumentID)
	assert.Equal(t, "created", output.IndexResult)

	assert.Equal(t, "PUT /purpose-results/_doc/cand-400", gotPath)
	assert.Contains(t, gotQuery, "refresh=wait_for")

	// The stored document is itself a valid exchange payload.
	result, err := exchange.FromExchangePayload(models.PlainRecord(gotDoc))
	require.NoError(t, err)
	assert.Equal(t, 73, result.TotalScore)
	assert.Equal(t, models.TierWithinExpectation, result.Tier)
}

func TestHandler_Handle_CompletesJob(t *testing.T) {
	transport := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return esResponse(http.StatusOK,
			`{"_index":"purpose-results","_id":"cand-401","_version":2,"result":"updated"}`), nil
	})

	client := camundatest.NewJobClient()
	job := camundatest.NewJob(TaskType, 51, createInput(t, "cand-401"))

	h := NewHandler(createTestConfig(), setupES(t, transport), logger.NewTestLogger(t))
	require.NoError(t, h.Handle(context.Background(), client, job))

	require.Len(t, client.Gateway.Completed, 1)
	vars := client.Gateway.CompletedVariables(0)
	assert.Equal(t, true, vars["indexed"])
	assert.Equal(t, "updated", vars["indexResult"])
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_MalformedPayload(t *testing.T) {
	transport := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		return nil, nil
	})

	input := createInput(t, "cand-402")
	input.ScoreResult["totalScore"] = "seventy-three"

	h := NewHandler(createTestConfig(), setupES(t, transport), logger.NewTestLogger(t))
	output, err := h.Execute(context.Background(), input)

	assert.Nil(t, output)
	requireCode(t, err, errors.ErrCodeMalformedPayload)
}

func TestHandler_Execute_IndexRejected(t *testing.T) {
	transport := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return esResponse(http.StatusBadRequest,
			`{"error":{"type":"mapper_parsing_exception","reason":"failed to parse field [computedAt]"}}`), nil
	})

	h := NewHandler(createTestConfig(), setupES(t, transport), logger.NewTestLogger(t))
	output, err := h.Execute(context.Background(), createInput(t, "cand-403"))

	assert.Nil(t, output)
	requireCode(t, err, errors.ErrCodeIndexingFailed)
	assert.Contains(t, err.Error(), "purpose-results")
}

func TestHandler_Execute_TransportError(t *testing.T) {
	transport := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return nil, goerrors.New("dial tcp es:9200: connection refused")
	})

	h := NewHandler(createTestConfig(), setupES(t, transport), logger.NewTestLogger(t))
	_, err := h.Execute(context.Background(), createInput(t, "cand-404"))

	requireCode(t, err, errors.ErrCodeIndexingFailed)
}
