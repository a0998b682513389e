package errors

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// Action is what the ErrorHandler does with a failed job.
type Action string

const (
	ActionRetry Action = "retry"
	ActionThrow Action = "throw"
)

// ErrorHandler handles job errors with standardized error handling
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Decide returns whether a job failing with stdErr is retried and how many
// retries it is left with. Zeebe counts retries down, so the remaining count
// never exceeds job.Retries-1.
func Decide(job entities.Job, stdErr *StandardError) (Action, int32) {
	max := int32(GetRetryCount(stdErr.Code))
	if !stdErr.Retryable || max == 0 {
		return ActionThrow, 0
	}

	remaining := job.Retries - 1
	if remaining > max {
		remaining = max
	}
	if remaining <= 0 {
		return ActionThrow, 0
	}
	return ActionRetry, remaining
}

// HandleJobError fails or throws job according to err and returns the
// normalized error so callers can record it.
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) *StandardError {
	stdErr := FromError(err)
	bpmnErr := ConvertToBPMNError(stdErr)

	action, retries := Decide(job, stdErr)
	h.logError(job, stdErr, bpmnErr, action, retries)

	var sendErr error
	if action == ActionRetry {
		sendErr = h.failJob(ctx, client, job, bpmnErr, retries)
	} else {
		sendErr = h.throwBPMNError(ctx, client, job, bpmnErr)
	}
	if sendErr != nil {
		h.logger.Error("failed to report job error", map[string]interface{}{
			"jobKey": job.Key,
			"action": string(action),
			"error":  sendErr.Error(),
		})
	}

	return stdErr
}

func (h *ErrorHandler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError, retries int32) error {
	cmd := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(retries).
		ErrorMessage(bpmnErr.Message)

	withVars, err := cmd.VariablesFromString(errorVariablesJSON(bpmnErr))
	if err != nil {
		_, err = cmd.Send(ctx)
		return err
	}
	_, err = withVars.Send(ctx)
	return err
}

func (h *ErrorHandler) throwBPMNError(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) error {
	cmd := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message)

	withVars, err := cmd.VariablesFromString(errorVariablesJSON(bpmnErr))
	if err != nil {
		_, err = cmd.Send(ctx)
		return err
	}
	_, err = withVars.Send(ctx)
	return err
}

func (h *ErrorHandler) logError(job entities.Job, stdErr *StandardError, bpmnErr *BPMNError, action Action, retries int32) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":             job.Key,
		"jobType":            job.Type,
		"errorCode":          string(stdErr.Code),
		"bpmnErrorCode":      bpmnErr.Code,
		"message":            bpmnErr.Message,
		"details":            stdErr.Details,
		"retryable":          stdErr.Retryable,
		"action":             string(action),
		"remainingRetries":   retries,
		"errorCategory":      GetErrorCategory(stdErr.Code),
		"processInstanceKey": job.ProcessInstanceKey,
	})
}

func errorVariablesJSON(bpmnErr *BPMNError) string {
	raw, err := json.Marshal(bpmnErr.ToErrorVariables())
	if err != nil {
		return "{}"
	}
	return string(raw)
}
