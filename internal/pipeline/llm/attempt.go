package llm

import (
	"math/rand"
	"net/http"
	"time"
)

// AttemptState classifies the outcome of one provider call attempt.
type AttemptState string

const (
	AttemptPending          AttemptState = "pending"
	AttemptSucceeded        AttemptState = "succeeded"
	AttemptRetryableFailure AttemptState = "retryable_failure"
	AttemptFatalFailure     AttemptState = "fatal_failure"
)

// Attempt is the transient record of one call to the provider. It lives only
// for the duration of one pipeline invocation and is returned for
// diagnostics, never persisted.
type Attempt struct {
	Number     int          `json:"attemptNumber"`
	StartedAt  time.Time    `json:"startedAt"`
	State      AttemptState `json:"state"`
	HTTPStatus int          `json:"httpStatus,omitempty"`
}

// classifyStatus implements the retry classification table: quota pushback
// and transient server faults are worth retrying; client-side rejections are
// not. Transport errors are classified separately as retryable.
func classifyStatus(status int) AttemptState {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return AttemptRetryableFailure
	case http.StatusBadRequest,
		http.StatusUnauthorized,
		http.StatusForbidden,
		http.StatusNotFound:
		return AttemptFatalFailure
	}
	if status >= 200 && status < 300 {
		return AttemptSucceeded
	}
	if status >= 500 {
		return AttemptRetryableFailure
	}
	return AttemptFatalFailure
}

// backoffDelay computes base * 2^attemptIndex with up to 25% positive jitter
// so synchronized clients do not retry in lockstep. The top-level rand
// functions are used because one client serves many goroutines at once and
// rand.Rand is not safe for concurrent use.
func backoffDelay(base time.Duration, attemptIndex int) time.Duration {
	delay := base << uint(attemptIndex)
	if delay > 0 {
		delay += time.Duration(rand.Int63n(int64(delay)/4 + 1))
	}
	return delay
}
