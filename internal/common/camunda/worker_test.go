package camunda

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"purpose-workers/internal/assessment/scoring"
	"purpose-workers/internal/common/camunda/camundatest"
	"purpose-workers/internal/common/errors"
	"purpose-workers/internal/common/logger"
	"purpose-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoInput struct {
	CandidateID string `json:"candidateId"`
}

func echoJob(fail error) JobFunc {
	return func(ctx context.Context, client worker.JobClient, job entities.Job) error {
		if fail != nil {
			return fail
		}
		var in echoInput
		if err := ParseVariables(job, &in); err != nil {
			return err
		}
		return CompleteJob(ctx, client, job, map[string]interface{}{"echo": in.CandidateID})
	}
}

func TestRuntimeWrap_Completes(t *testing.T) {
	rt := NewRuntime(logger.NewTestLogger(t), nil)
	client := camundatest.NewJobClient()

	handler := rt.Wrap("wrap-complete", time.Second, echoJob(nil))
	handler(client, camundatest.NewJob("wrap-complete", 1, map[string]interface{}{"candidateId": "c-1"}))

	require.Len(t, client.Gateway.Completed, 1)
	assert.Equal(t, int64(1), client.Gateway.Completed[0].JobKey)
	assert.Equal(t, "c-1", client.Gateway.CompletedVariables(0)["echo"])
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WorkerJobsCompleted.WithLabelValues("wrap-complete")))
}

func TestRuntimeWrap_BusinessErrorThrows(t *testing.T) {
	rt := NewRuntime(logger.NewTestLogger(t), nil)
	client := camundatest.NewJobClient()

	handler := rt.Wrap("wrap-throw", time.Second, echoJob(scoring.ErrIncompleteAnswerSet))
	handler(client, camundatest.NewJob("wrap-throw", 2, map[string]interface{}{}))

	require.Len(t, client.Gateway.Thrown, 1)
	assert.Equal(t, "INCOMPLETE_ANSWER_SET", client.Gateway.Thrown[0].ErrorCode)
	assert.Empty(t, client.Gateway.Failed)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WorkerJobsFailed.WithLabelValues("wrap-throw", "INCOMPLETE_ANSWER_SET")))
}

func TestRuntimeWrap_TechnicalErrorRetries(t *testing.T) {
	rt := NewRuntime(logger.NewTestLogger(t), nil)
	client := camundatest.NewJobClient()

	fail := errors.NewDatabaseInsertFailedError(stderrors.New("connection reset"))
	handler := rt.Wrap("wrap-retry", time.Second, echoJob(fail))
	handler(client, camundatest.NewJob("wrap-retry", 3, map[string]interface{}{}))

	require.Len(t, client.Gateway.Failed, 1)
	assert.Equal(t, int32(2), client.Gateway.Failed[0].Retries)
	assert.Contains(t, client.Gateway.Failed[0].Variables, "DATABASE_INSERT_FAILED")
	assert.Empty(t, client.Gateway.Thrown)
}

func TestRuntimeWrap_BadVariables(t *testing.T) {
	rt := NewRuntime(logger.NewTestLogger(t), nil)
	client := camundatest.NewJobClient()

	handler := rt.Wrap("wrap-parse", time.Second, echoJob(nil))
	handler(client, camundatest.NewJob("wrap-parse", 4, `{"candidateId":`))

	require.Len(t, client.Gateway.Thrown, 1)
	assert.Equal(t, "INPUT_VALIDATION_FAILED", client.Gateway.Thrown[0].ErrorCode)
}

func TestRuntimeWrap_AppliesTimeout(t *testing.T) {
	rt := NewRuntime(logger.NewTestLogger(t), nil)
	client := camundatest.NewJobClient()

	var deadline time.Time
	handler := rt.Wrap("wrap-timeout", 50*time.Millisecond, func(ctx context.Context, _ worker.JobClient, _ entities.Job) error {
		deadline, _ = ctx.Deadline()
		<-ctx.Done()
		return ctx.Err()
	})
	handler(client, camundatest.NewJob("wrap-timeout", 5, map[string]interface{}{}))

	assert.False(t, deadline.IsZero())
	require.Len(t, client.Gateway.Failed, 1)
	assert.Contains(t, client.Gateway.Failed[0].Variables, "QUERY_TIMEOUT")
}

func TestIsRetryableZeebeError(t *testing.T) {
	assert.True(t, isRetryableZeebeError(stderrors.New("rpc error: code = Unavailable desc = connection refused")))
	assert.True(t, isRetryableZeebeError(context.DeadlineExceeded))
	assert.False(t, isRetryableZeebeError(stderrors.New("rpc error: code = NotFound")))
}

func TestExecuteWithRetry(t *testing.T) {
	c := &Client{config: &ClientConfig{RetryConfig: &RetryConfig{
		MaxRetries: 2,
		BaseDelay:  time.Millisecond,
		MaxDelay:   2 * time.Millisecond,
	}}}

	t.Run("recovers", func(t *testing.T) {
		calls := 0
		err := c.ExecuteWithRetry(context.Background(), "topology", func(context.Context) error {
			calls++
			if calls < 2 {
				return stderrors.New("unavailable")
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("gives up", func(t *testing.T) {
		calls := 0
		err := c.ExecuteWithRetry(context.Background(), "topology", func(context.Context) error {
			calls++
			return stderrors.New("connection refused")
		})
		assert.True(t, stderrors.Is(err, ErrBrokerUnavailable))
		assert.Equal(t, 3, calls)
	})

	t.Run("permanent error", func(t *testing.T) {
		calls := 0
		err := c.ExecuteWithRetry(context.Background(), "deploy", func(context.Context) error {
			calls++
			return stderrors.New("permission denied")
		})
		assert.Error(t, err)
		assert.False(t, stderrors.Is(err, ErrBrokerUnavailable))
		assert.Equal(t, 1, calls)
	})
}
