// internal/workers/assessment/score-submission/handler_test.go
package scoresubmission

import (
	"context"
	goerrors "errors"
	"testing"
	"time"

	"purpose-workers/internal/assessment/exchange"
	"purpose-workers/internal/common/camunda/camundatest"
	"purpose-workers/internal/common/errors"
	"purpose-workers/internal/common/logger"
	"purpose-workers/internal/common/metrics"
	"purpose-workers/internal/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var fixedNow = time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)

func createTestConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
		Now:     func() time.Time { return fixedNow },
	}
}

func createTestHandler(t *testing.T) *Handler {
	return NewHandler(createTestConfig(), nil, logger.NewTestLogger(t))
}

// Top weight in every question.
func highestAnswers() [][]int {
	return [][]int{
		{0, 1, 2, 3, 4},
		{4, 3, 2, 1, 0},
		{0, 1, 5, 2, 6},
		{0, 1, 2, 3, 4},
	}
}

func lowestAnswers() [][]int {
	return [][]int{
		{15, 16, 17, 18, 19},
		{15, 16, 17, 18, 19},
		{3, 4, 7, 8, 9},
		{7, 8, 9, 10, 11},
	}
}

func keyed(answers [][]int) map[string]interface{} {
	return map[string]interface{}{
		"caracteristicas-outros": answers[0],
		"caracteristicas-eu":     answers[1],
		"frases-vida":            answers[2],
		"valores":                answers[3],
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
	tests := []struct {
		name      string
		answers   interface{}
		wantScore int
		wantTier  models.ScoreTier
	}{
		{name: "listed answers, top weights", answers: highestAnswers(), wantScore: 95, wantTier: models.TierExceededExpectation},
		{name: "keyed answers, top weights", answers: keyed(highestAnswers()), wantScore: 95, wantTier: models.TierExceededExpectation},
		{name: "listed answers, lowest weights", answers: lowestAnswers(), wantScore: 40, wantTier: models.TierBelowExpectation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createTestHandler(t)
			output, err := h.Execute(context.Background(), &Input{CandidateID: "cand-200", Answers: tt.answers})

			require.NoError(t, err)
			assert.Equal(t, "cand-200", output.CandidateID)
			assert.Equal(t, tt.wantScore, output.TotalScore)
			assert.Equal(t, string(tt.wantTier), output.Tier)

			result, err := exchange.FromExchangePayload(output.ScoreResult)
			require.NoError(t, err)
			assert.Equal(t, tt.wantScore, result.TotalScore)
			assert.Equal(t, fixedNow, result.ComputedAt)
		})
	}
}

func TestHandler_Execute_RecordsTierMetric(t *testing.T) {
	counter := metrics.PurposeScores.WithLabelValues(string(models.TierExceededExpectation))
	before := testutil.ToFloat64(counter)

	h := createTestHandler(t)
	_, err := h.Execute(context.Background(), &Input{CandidateID: "cand-201", Answers: highestAnswers()})
	require.NoError(t, err)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    *Input
		wantCode errors.ErrorCode
	}{
		{
			name: "four selections",
			input: &Input{CandidateID: "cand-202", Answers: [][]int{
				{0, 1, 2, 3},
				{0, 1, 2, 3, 4},
				{0, 1, 2, 3, 4},
				{0, 1, 2, 3, 4},
			}},
			wantCode: errors.ErrCodeIncompleteAnswerSet,
		},
		{
			name: "keyed answers missing a question",
			input: &Input{CandidateID: "cand-203", Answers: map[string]interface{}{
				"caracteristicas-outros": []int{0, 1, 2, 3, 4},
				"caracteristicas-eu":     []int{0, 1, 2, 3, 4},
				"frases-vida":            []int{0, 1, 2, 3, 4},
			}},
			wantCode: errors.ErrCodeIncompleteAnswerSet,
		},
		{
			name: "index out of range",
			input: &Input{CandidateID: "cand-204", Answers: [][]int{
				{0, 1, 2, 3, 400},
				{0, 1, 2, 3, 4},
				{0, 1, 2, 3, 4},
				{0, 1, 2, 3, 4},
			}},
			wantCode: errors.ErrCodeInvalidOptionIndex,
		},
		{
			name:     "missing candidate id",
			input:    &Input{CandidateID: "", Answers: highestAnswers()},
			wantCode: errors.ErrCodeMissingCandidateID,
		},
		{
			name:     "answers missing",
			input:    &Input{CandidateID: "cand-205"},
			wantCode: errors.ErrCodeInputValidationFailed,
		},
		{
			name:     "answers of the wrong type",
			input:    &Input{CandidateID: "cand-206", Answers: "all of them"},
			wantCode: errors.ErrCodeInputValidationFailed,
		},
		{
			name: "unknown question id",
			input: &Input{CandidateID: "cand-207", Answers: map[string]interface{}{
				"favorite-color": []int{0, 1, 2, 3, 4},
			}},
			wantCode: errors.ErrCodeInputValidationFailed,
		},
		{
			name: "non-integer selection",
			input: &Input{CandidateID: "cand-208", Answers: []interface{}{
				[]interface{}{0, 1, 2, 3, "four"},
			}},
			wantCode: errors.ErrCodeInputValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createTestHandler(t)
			output, err := h.Execute(context.Background(), tt.input)

			assert.Nil(t, output)
			requireCode(t, err, tt.wantCode)
		})
	}
}

// ==========================
// Job Handling Tests
// ==========================

func TestHandler_Handle_CompletesWithPayload(t *testing.T) {
	client := camundatest.NewJobClient()
	job := camundatest.NewJob(TaskType, 11, map[string]interface{}{
		"candidateId": "cand-209",
		"answers":     keyed(highestAnswers()),
	})

	h := createTestHandler(t)
	require.NoError(t, h.Handle(context.Background(), client, job))

	require.Len(t, client.Gateway.Completed, 1)
	vars := client.Gateway.CompletedVariables(0)
	assert.Equal(t, float64(95), vars["totalScore"])
	assert.Equal(t, string(models.TierExceededExpectation), vars["tier"])

	payload, ok := vars["scoreResult"].(map[string]interface{})
	require.True(t, ok)
	result, err := exchange.FromExchangePayload(models.PlainRecord(payload))
	require.NoError(t, err)
	assert.Equal(t, "cand-209", result.CandidateID)
	assert.Equal(t, models.AnswerSet(highestAnswers()), result.Answers)
}
