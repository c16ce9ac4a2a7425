// Package errors provides the engine's standardized error taxonomy and its
// conversion to BPMN errors for the Zeebe surface.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// ErrCodeDataUnavailable is the only fatal error of a matching run: the
	// vendor directory could not be read, so no partial results exist.
	ErrCodeDataUnavailable ErrorCode = "DATA_UNAVAILABLE"

	// ErrCodeNotificationWriteFailed is recovered inside the run; the match
	// list is still returned to the caller.
	ErrCodeNotificationWriteFailed ErrorCode = "NOTIFICATION_WRITE_FAILED"

	// ErrCodeAuditWriteFailed is recovered and never surfaced to the caller.
	ErrCodeAuditWriteFailed ErrorCode = "AUDIT_WRITE_FAILED"

	ErrCodeParseError ErrorCode = "PARSE_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewDataUnavailableError creates the fatal candidate-load error. The whole
// invocation may be retried by the caller; the engine itself never retries.
func NewDataUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDataUnavailable,
		Message:   "Vendor directory unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationWriteFailedError creates the recovered notification-sink error.
func NewNotificationWriteFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationWriteFailed,
		Message:   "Notification sink write failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuditWriteFailedError creates the recovered audit-sink error.
func NewAuditWriteFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuditWriteFailed,
		Message:   "Activity log write failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// IsDataUnavailable reports whether err is the fatal candidate-load error.
func IsDataUnavailable(err error) bool {
	var se *StandardError
	return stderrors.As(err, &se) && se.Code == ErrCodeDataUnavailable
}

// BPMNError represents an error that can be thrown to the workflow engine.
type BPMNError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	Retryable bool   `json:"retryable"`
	Retries   int    `json:"retries"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// GetRetryCount returns the recommended workflow-level retry count. Retries
// are always the caller's choice; only the candidate load is worth one.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDataUnavailable:
		return 3
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Zeebe.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}
	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
	}
}
