// Package errors provides standardized error handling for the generation pipeline.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Input and admission errors halt before any provider cost.
	ErrCodeFieldValidationFailed ErrorCode = "FIELD_VALIDATION_FAILED"
	ErrCodeRateLimitExceeded     ErrorCode = "RATE_LIMIT_EXCEEDED"

	// Provider errors.
	ErrCodeProviderUnavailable     ErrorCode = "PROVIDER_UNAVAILABLE"      // retry budget exhausted
	ErrCodeProviderAuthFailed      ErrorCode = "PROVIDER_AUTH_FAILED"      // 401/403, never retried
	ErrCodeProviderRequestRejected ErrorCode = "PROVIDER_REQUEST_REJECTED" // 400/404, never retried
	ErrCodeProviderEmptyResponse   ErrorCode = "PROVIDER_EMPTY_RESPONSE"   // 2xx with empty body

	// Parse errors.
	ErrCodeResponseUnparseable ErrorCode = "RESPONSE_UNPARSEABLE" // zero blocks recognized

	// Orchestration errors.
	ErrCodePhaseOrderViolation ErrorCode = "PHASE_ORDER_VIOLATION"
	ErrCodeSessionStateFailed  ErrorCode = "SESSION_STATE_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// AsStandardError returns err as a *StandardError, wrapping unknown errors
// under a generic internal code.
func AsStandardError(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 2. Error Constructors
// ==========================

// NewFieldValidationFailedError carries the per-field messages in Metadata so
// the UI can render them in declaration order.
func NewFieldValidationFailedError(fieldErrors []map[string]string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFieldValidationFailed,
		Message:   "Brand input failed validation",
		Details:   fmt.Sprintf("%d field error(s)", len(fieldErrors)),
		Retryable: false,
		Metadata:  map[string]interface{}{"fieldErrors": fieldErrors},
		Timestamp: time.Now().UTC(),
	}
}

// NewRateLimitExceededError reports when the session may try again.
func NewRateLimitExceededError(retryAfter time.Duration) *StandardError {
	return &StandardError{
		Code:      ErrCodeRateLimitExceeded,
		Message:   "Generation quota exceeded for this session",
		Details:   fmt.Sprintf("retry after %s", retryAfter.Round(time.Second)),
		Retryable: false,
		Metadata:  map[string]interface{}{"retryAfterSeconds": int(retryAfter.Seconds())},
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderUnavailableError is surfaced after the backoff schedule is
// exhausted; lastStatus is the HTTP status of the final attempt (0 for a
// transport error).
func NewProviderUnavailableError(attempts, lastStatus int, err error) *StandardError {
	details := fmt.Sprintf("gave up after %d attempt(s), last status %d", attempts, lastStatus)
	if err != nil {
		details = fmt.Sprintf("%s: %s", details, err.Error())
	}
	return &StandardError{
		Code:      ErrCodeProviderUnavailable,
		Message:   "AI provider unavailable",
		Details:   details,
		Retryable: true,
		Metadata: map[string]interface{}{
			"attempts":   attempts,
			"lastStatus": lastStatus,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderAuthFailedError creates a non-retryable credential error.
func NewProviderAuthFailedError(status int) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderAuthFailed,
		Message:   "AI provider rejected credentials",
		Details:   fmt.Sprintf("status %d", status),
		Retryable: false,
		Metadata:  map[string]interface{}{"httpStatus": status},
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderRequestRejectedError creates a non-retryable malformed-request error.
func NewProviderRequestRejectedError(status int) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderRequestRejected,
		Message:   "AI provider rejected the request",
		Details:   fmt.Sprintf("status %d", status),
		Retryable: false,
		Metadata:  map[string]interface{}{"httpStatus": status},
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderEmptyResponseError covers a 2xx reply with no usable body.
func NewProviderEmptyResponseError() *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderEmptyResponse,
		Message:   "AI provider returned an empty response",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewResponseUnparseableError signals a structurally unusable response:
// no strategy or calendar blocks were recognized at all.
func NewResponseUnparseableError(phase string) *StandardError {
	return &StandardError{
		Code:      ErrCodeResponseUnparseable,
		Message:   "Provider response contained no recognizable blocks",
		Details:   fmt.Sprintf("phase: %s", phase),
		Retryable: false,
		Metadata:  map[string]interface{}{"phase": phase},
		Timestamp: time.Now().UTC(),
	}
}

// NewPhaseOrderViolationError rejects a calendar request that has no
// completed strategy run behind it.
func NewPhaseOrderViolationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodePhaseOrderViolation,
		Message:   "Calendar generation requires a completed strategy run",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionStateFailedError creates a retryable session-store error.
func NewSessionStateFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionStateFailed,
		Message:   "Session state store error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Classification Helpers
// ==========================

// IsRetryableErrorCode reports whether a caller-initiated re-run is expected
// to help. The pipeline itself never re-invokes the provider on these; retry
// is the caller's decision.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeProviderUnavailable, ErrCodeSessionStateFailed:
		return true
	default:
		return false
	}
}

// GetErrorCategory groups codes for logging and metrics labels.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeFieldValidationFailed:
		return "validation"
	case ErrCodeRateLimitExceeded:
		return "admission"
	case ErrCodeProviderUnavailable, ErrCodeProviderAuthFailed,
		ErrCodeProviderRequestRejected, ErrCodeProviderEmptyResponse:
		return "provider"
	case ErrCodeResponseUnparseable:
		return "parse"
	case ErrCodePhaseOrderViolation, ErrCodeSessionStateFailed:
		return "orchestration"
	default:
		return "internal"
	}
}
