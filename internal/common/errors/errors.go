// internal/common/errors/errors.go

// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeApplicationNotFound    ErrorCode = "APPLICATION_NOT_FOUND"
	ErrCodeApplicationLoadFailed  ErrorCode = "APPLICATION_LOAD_FAILED"
	ErrCodeScoringFailed          ErrorCode = "SCORING_FAILED"
	ErrCodeScorePersistenceFailed ErrorCode = "SCORE_PERSISTENCE_FAILED"
	ErrCodeRankingRefreshFailed   ErrorCode = "RANKING_REFRESH_FAILED"

	ErrCodeQueryExecutionFailed ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout         ErrorCode = "QUERY_TIMEOUT"

	ErrCodeInvalidInput           ErrorCode = "INVALID_INPUT"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeInternal               ErrorCode = "INTERNAL_ERROR"
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
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches any StandardError carrying the same code, so the exported sentinels below
// work with errors.Is.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrApplicationNotFound    = &StandardError{Code: ErrCodeApplicationNotFound}
	ErrApplicationLoadFailed  = &StandardError{Code: ErrCodeApplicationLoadFailed}
	ErrScoringFailed          = &StandardError{Code: ErrCodeScoringFailed}
	ErrScorePersistenceFailed = &StandardError{Code: ErrCodeScorePersistenceFailed}
	ErrRankingRefreshFailed   = &StandardError{Code: ErrCodeRankingRefreshFailed}
	ErrInvalidInput           = &StandardError{Code: ErrCodeInvalidInput}
)

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

// NewApplicationNotFoundError is fatal for the run; nothing has been written yet.
func NewApplicationNotFoundError(applicationID string) *StandardError {
	return newError(ErrCodeApplicationNotFound, "Application not found",
		fmt.Sprintf("applicationId: %s", applicationID), false, nil)
}

func NewApplicationLoadFailedError(applicationID string, err error) *StandardError {
	return newError(ErrCodeApplicationLoadFailed, "Failed to load application record",
		fmt.Sprintf("applicationId: %s, error: %s", applicationID, err.Error()), true, err)
}

func NewScoringFailedError(criterion string, err error) *StandardError {
	return newError(ErrCodeScoringFailed, "Criterion scoring failed",
		fmt.Sprintf("criterion: %s, error: %s", criterion, err.Error()), false, err)
}

// NewScorePersistenceFailedError reports a failed store write. The candidate's previously
// committed score is left as it was.
func NewScorePersistenceFailedError(applicationID string, err error) *StandardError {
	return newError(ErrCodeScorePersistenceFailed, "Failed to persist scores",
		fmt.Sprintf("applicationId: %s, error: %s", applicationID, err.Error()), true, err)
}

func NewRankingRefreshFailedError(err error) *StandardError {
	return newError(ErrCodeRankingRefreshFailed, "Ranking refresh failed", err.Error(), true, err)
}

func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, "Database query execution error",
		fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()), true, err)
}

func NewQueryTimeoutError(queryType string) *StandardError {
	return newError(ErrCodeQueryTimeout, "Database query timeout",
		fmt.Sprintf("queryType: %s", queryType), true, nil)
}

func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Job input failed validation", details, false, nil)
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), true, err)
}

// ==========================
// 4. BPMN mapping & retries
// ==========================

var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeApplicationNotFound:    "APPLICATION_NOT_FOUND",
	ErrCodeApplicationLoadFailed:  "APPLICATION_LOAD_FAILED",
	ErrCodeScoringFailed:          "SCORING_FAILED",
	ErrCodeScorePersistenceFailed: "SCORE_PERSISTENCE_FAILED",
	ErrCodeRankingRefreshFailed:   "RANKING_REFRESH_FAILED",
	ErrCodeQueryExecutionFailed:   "QUERY_EXECUTION_FAILED",
	ErrCodeQueryTimeout:           "QUERY_TIMEOUT",
	ErrCodeInvalidInput:           "INVALID_INPUT",
	ErrCodeNotificationSendFailed: "NOTIFICATION_SEND_FAILED",
}

// GetRetryCount is the number of Zeebe retries granted to a failed job. The scoring
// engine never retries on its own; this only informs the workflow engine.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeApplicationLoadFailed,
		ErrCodeScorePersistenceFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeRankingRefreshFailed:
		return 3

	case ErrCodeQueryTimeout:
		return 2

	default:
		return 0
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "RANKING"):
		return "RANKING"
	case strings.Contains(codeStr, "SCOR"):
		return "SCORING"
	case strings.Contains(codeStr, "APPLICATION") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
