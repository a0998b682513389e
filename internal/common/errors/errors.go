// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"purpose-workers/internal/assessment/catalog"
	"purpose-workers/internal/assessment/exchange"
	"purpose-workers/internal/assessment/scoring"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Business errors are thrown to the process; technical errors are retried.
const (
	ErrCodeIncompleteAnswerSet   ErrorCode = "INCOMPLETE_ANSWER_SET"
	ErrCodeInvalidOptionIndex    ErrorCode = "INVALID_OPTION_INDEX"
	ErrCodeIndexOutOfRange       ErrorCode = "INDEX_OUT_OF_RANGE"
	ErrCodeMalformedPayload      ErrorCode = "MALFORMED_PAYLOAD"
	ErrCodeMissingCandidateID    ErrorCode = "MISSING_CANDIDATE_ID"
	ErrCodeInputValidationFailed ErrorCode = "INPUT_VALIDATION_FAILED"
	ErrCodeDuplicateCandidate    ErrorCode = "DUPLICATE_CANDIDATE"
	ErrCodeInvalidPlatform       ErrorCode = "INVALID_PLATFORM"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeCacheUnavailable         ErrorCode = "CACHE_UNAVAILABLE"

	ErrCodeIndexingFailed         ErrorCode = "INDEXING_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeSessionCreateFailed    ErrorCode = "SESSION_CREATE_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the error the StandardError was built from, if any.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata sets one metadata entry and returns e.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

func detailsOf(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func NewIncompleteAnswerSetError(details string) *StandardError {
	return newError(ErrCodeIncompleteAnswerSet, "Answer set is incomplete", details, false, nil)
}

func NewInvalidOptionIndexError(details string) *StandardError {
	return newError(ErrCodeInvalidOptionIndex, "Answer references an unknown option", details, false, nil)
}

func NewIndexOutOfRangeError(details string) *StandardError {
	return newError(ErrCodeIndexOutOfRange, "Question index out of range", details, false, nil)
}

func NewMalformedPayloadError(details string) *StandardError {
	return newError(ErrCodeMalformedPayload, "Score payload is malformed", details, false, nil)
}

func NewMissingCandidateIDError() *StandardError {
	return newError(ErrCodeMissingCandidateID, "Candidate identifier is required", "", false, nil)
}

// NewInputValidationError reports job variables that failed schema validation.
func NewInputValidationError(details string) *StandardError {
	return newError(ErrCodeInputValidationFailed, "Job input failed validation", details, false, nil)
}

// NewDuplicateCandidateError creates a non-retryable duplicate error.
func NewDuplicateCandidateError(candidateID string) *StandardError {
	return newError(ErrCodeDuplicateCandidate, "A result already exists for this candidate",
		fmt.Sprintf("candidateId=%s", candidateID), false, nil).
		WithMetadata("candidateId", candidateID)
}

func NewInvalidPlatformError(platform string) *StandardError {
	return newError(ErrCodeInvalidPlatform, "Unsupported HR platform",
		fmt.Sprintf("platform=%s", platform), false, nil)
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Failed to connect to database", detailsOf(err), true, err)
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(operation string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, fmt.Sprintf("Query failed: %s", operation), detailsOf(err), true, err)
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError(operation string) *StandardError {
	return newError(ErrCodeQueryTimeout, fmt.Sprintf("Query timed out: %s", operation), "", true, context.DeadlineExceeded)
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, "Failed to insert record", detailsOf(err), true, err)
}

func NewCacheUnavailableError(err error) *StandardError {
	return newError(ErrCodeCacheUnavailable, "Cache unavailable", detailsOf(err), true, err)
}

func NewIndexingFailedError(index string, err error) *StandardError {
	return newError(ErrCodeIndexingFailed, fmt.Sprintf("Failed to index document in %s", index), detailsOf(err), true, err)
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, fmt.Sprintf("Failed to send %s notification", channel), detailsOf(err), true, err)
}

func NewSessionCreateFailedError(err error) *StandardError {
	return newError(ErrCodeSessionCreateFailed, "Failed to create assessment session", detailsOf(err), true, err)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", detailsOf(err), false, err)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the error codes modelled in
// the BPMN boundary events. They are currently identical.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeIncompleteAnswerSet:      "INCOMPLETE_ANSWER_SET",
	ErrCodeInvalidOptionIndex:       "INVALID_OPTION_INDEX",
	ErrCodeIndexOutOfRange:          "INDEX_OUT_OF_RANGE",
	ErrCodeMalformedPayload:         "MALFORMED_PAYLOAD",
	ErrCodeMissingCandidateID:       "MISSING_CANDIDATE_ID",
	ErrCodeInputValidationFailed:    "INPUT_VALIDATION_FAILED",
	ErrCodeDuplicateCandidate:       "DUPLICATE_CANDIDATE",
	ErrCodeInvalidPlatform:          "INVALID_PLATFORM",
	ErrCodeDatabaseConnectionFailed: "DATABASE_CONNECTION_FAILED",
	ErrCodeQueryExecutionFailed:     "QUERY_EXECUTION_FAILED",
	ErrCodeQueryTimeout:             "QUERY_TIMEOUT",
	ErrCodeDatabaseInsertFailed:     "DATABASE_INSERT_FAILED",
	ErrCodeCacheUnavailable:         "CACHE_UNAVAILABLE",
	ErrCodeIndexingFailed:           "INDEXING_FAILED",
	ErrCodeNotificationSendFailed:   "NOTIFICATION_SEND_FAILED",
	ErrCodeSessionCreateFailed:      "SESSION_CREATE_FAILED",
	ErrCodeInternal:                 "INTERNAL_ERROR",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeIndexingFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeSessionCreateFailed:
		return 3

	case ErrCodeQueryTimeout,
		ErrCodeCacheUnavailable:
		return 2

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// FromError normalizes err into a StandardError. Errors already carrying a
// StandardError pass through; scoring, catalog and exchange sentinels map to
// their business codes; deadline overruns become timeouts.
func FromError(err error) *StandardError {
	if err == nil {
		return nil
	}

	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}

	switch {
	case stderrors.Is(err, scoring.ErrIncompleteAnswerSet):
		return NewIncompleteAnswerSetError(err.Error())
	case stderrors.Is(err, scoring.ErrInvalidOptionIndex):
		return NewInvalidOptionIndexError(err.Error())
	case stderrors.Is(err, scoring.ErrMissingCandidateID):
		return NewMissingCandidateIDError()
	case stderrors.Is(err, catalog.ErrIndexOutOfRange):
		return NewIndexOutOfRangeError(err.Error())
	case stderrors.Is(err, exchange.ErrMalformedPayload), stderrors.Is(err, scoring.ErrScoreMismatch):
		return NewMalformedPayloadError(err.Error())
	case stderrors.Is(err, context.DeadlineExceeded):
		stdErr = NewQueryTimeoutError("job")
		stdErr.Details = err.Error()
		return stdErr
	default:
		return NewInternalError(err)
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "ANSWER") || strings.Contains(codeStr, "OPTION") ||
		strings.Contains(codeStr, "PAYLOAD") || strings.Contains(codeStr, "INDEX_OUT"):
		return "SCORING"
	case strings.Contains(codeStr, "CANDIDATE") || strings.Contains(codeStr, "SESSION"):
		return "CANDIDATE"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "INDEXING"):
		return "SEARCH"
	case strings.Contains(codeStr, "NOTIFICATION") || strings.Contains(codeStr, "PLATFORM"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
