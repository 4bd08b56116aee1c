// Package llm issues chat-completion calls to the model provider with
// bounded timeout, jittered exponential backoff, and error classification.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"strategist-pipeline/internal/common/config"
	stderrors "strategist-pipeline/internal/common/errors"
	"strategist-pipeline/internal/common/logger"
)

// Message is one chat turn sent to the provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Result carries the provider's text plus the attempt trail for diagnostics.
type Result struct {
	Text     string
	Attempts []Attempt
}

// Completer is the surface the orchestrator depends on; tests substitute a
// stub to assert call counts.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (*Result, error)
}

// Client is the production Completer. It never mutates validator or
// rate-limiter state; admission happens before the client is invoked.
type Client struct {
	cfg        config.ProviderConfig
	httpClient *http.Client
	logger     logger.Logger
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewClient(cfg config.ProviderConfig, log logger.Logger) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: config.GetDuration(cfg.Timeout),
		},
		logger: log.WithFields(map[string]interface{}{
			"component": "llm-client",
			"model":     cfg.Model,
		}),
		sleep: sleepCtx,
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the messages and retries retryable failures per the backoff
// schedule. Fatal failures surface immediately; an exhausted budget surfaces
// as PROVIDER_UNAVAILABLE carrying the last observed status.
func (c *Client) Complete(ctx context.Context, messages []Message) (*Result, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return nil, stderrors.NewProviderRequestRejectedError(0)
	}

	maxAttempts := c.cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	backoffBase := config.GetDuration(c.cfg.BackoffBase)

	attempts := make([]Attempt, 0, maxAttempts)
	var lastStatus int
	var lastErr error

	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			delay := backoffDelay(backoffBase, i-1)
			c.logger.Warn("provider attempt failed, backing off", map[string]interface{}{
				"attempt":    i,
				"lastStatus": lastStatus,
				"delay":      delay.String(),
			})
			if err := c.sleep(ctx, delay); err != nil {
				return nil, stderrors.NewProviderUnavailableError(len(attempts), lastStatus, err)
			}
		}

		attempt := Attempt{Number: i + 1, StartedAt: time.Now().UTC(), State: AttemptPending}

		text, status, err := c.doAttempt(ctx, body)
		attempt.HTTPStatus = status

		switch {
		case err == nil && status >= 200 && status < 300:
			if strings.TrimSpace(text) == "" {
				// A 2xx with no content is not retried and never passed
				// downstream as empty output.
				attempt.State = AttemptFatalFailure
				attempts = append(attempts, attempt)
				return nil, stderrors.NewProviderEmptyResponseError()
			}
			attempt.State = AttemptSucceeded
			attempts = append(attempts, attempt)
			c.logger.Info("provider call succeeded", map[string]interface{}{
				"attempts":     len(attempts),
				"responseSize": len(text),
			})
			return &Result{Text: text, Attempts: attempts}, nil

		case err != nil && status >= 200 && status < 300:
			// 2xx with an undecodable body: structurally broken, not worth
			// a retry, and never passed downstream as empty output.
			attempt.State = AttemptFatalFailure
			attempts = append(attempts, attempt)
			return nil, stderrors.NewProviderEmptyResponseError()

		case err != nil && status == 0:
			// Transport failure or timeout: retryable.
			attempt.State = AttemptRetryableFailure
			lastErr = err
			lastStatus = 0

		default:
			attempt.State = classifyStatus(status)
			lastStatus = status
			lastErr = err
		}

		attempts = append(attempts, attempt)

		if attempt.State == AttemptFatalFailure {
			if status == http.StatusUnauthorized || status == http.StatusForbidden {
				return nil, stderrors.NewProviderAuthFailedError(status)
			}
			return nil, stderrors.NewProviderRequestRejectedError(status)
		}
	}

	return nil, stderrors.NewProviderUnavailableError(len(attempts), lastStatus, lastErr)
}

// doAttempt performs exactly one HTTP round trip. status 0 means the request
// never produced a response.
func (c *Client) doAttempt(ctx context.Context, body []byte) (string, int, error) {
	url := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	if c.cfg.Referer != "" {
		req.Header.Set("HTTP-Referer", c.cfg.Referer)
	}
	if c.cfg.AppTitle != "" {
		req.Header.Set("X-Title", c.cfg.AppTitle)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return "", resp.StatusCode, fmt.Errorf("status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", resp.StatusCode, nil
	}
	return parsed.Choices[0].Message.Content, resp.StatusCode, nil
}

// ValidateConnection makes a minimal one-token probe to verify credentials
// and reachability at startup.
func (c *Client) ValidateConnection(ctx context.Context) error {
	probe := *c
	probeCfg := c.cfg
	probeCfg.MaxTokens = 1
	probeCfg.MaxAttempts = 1
	probe.cfg = probeCfg

	_, err := probe.Complete(ctx, []Message{{Role: "user", Content: "test"}})
	if err != nil {
		if stdErr, ok := err.(*stderrors.StandardError); ok && stdErr.Code == stderrors.ErrCodeProviderEmptyResponse {
			// A reachable provider that truncated a one-token probe still
			// proves credentials work.
			return nil
		}
		return err
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
