// internal/api/server_test.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "strategist-pipeline/internal/common/errors"
	"strategist-pipeline/internal/common/logger"
	"strategist-pipeline/internal/common/observability"
	"strategist-pipeline/internal/models"
	"strategist-pipeline/internal/pipeline"
	"strategist-pipeline/internal/pipeline/llm"
	"strategist-pipeline/internal/pipeline/ratelimit"
	"strategist-pipeline/internal/pipeline/validator"
	"strategist-pipeline/pkg/catalog"
)

// ==========================
// Test Helper Functions
// ==========================

// fixedCompleter answers every call with the same text or error.
type fixedCompleter struct {
	text string
	err  error
}

func (c *fixedCompleter) Complete(_ context.Context, _ []llm.Message) (*llm.Result, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &llm.Result{
		Text:     c.text,
		Attempts: []llm.Attempt{{Number: 1, State: llm.AttemptSucceeded}},
	}, nil
}

func createTestServer(t *testing.T, maxRequests int, completer llm.Completer) *http.ServeMux {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	p := pipeline.New(
		validator.New(cat),
		ratelimit.New(ratelimit.NewMemoryStore(), maxRequests, time.Hour, false),
		completer,
		pipeline.NewMemorySessionStore(time.Hour),
		logger.NewNoOpLogger(),
		&observability.Observability{},
	)
	return NewServer(p, logger.NewNoOpLogger()).Routes()
}

func validBrandJSON(t *testing.T) []byte {
	t.Helper()
	payload, err := json.Marshal(models.BrandInput{
		BrandName:       "Acme",
		Industry:        "B2B SaaS",
		Website:         "https://acme.example.com",
		TargetAudience:  "Mid-market operations leaders who struggle to keep their tooling costs predictable.",
		BusinessGoals:   []string{"Brand Awareness", "Lead Generation"},
		ActiveChannels:  []string{"LinkedIn", "Blog"},
		PrimaryChannels: []string{"LinkedIn"},
		BrandTone:       "Professional yet Approachable",
		MonthlyBudget:   "$1,000 - $2,500",
		TimeCommitment:  "10-20 hours/week",
		Resources:       []string{"In-house writer"},
		UniqueValueProp: "The only platform that reconciles tool spend automatically.",
	})
	require.NoError(t, err)
	return payload
}

func strategiesResponseText() string {
	var b strings.Builder
	for i := 1; i <= 5; i++ {
		fmt.Fprintf(&b, "**Strategy %d: Authority Engine %d**\n", i, i)
		b.WriteString("**Tagline:** Own the conversation\n")
		b.WriteString("**Core Approach:** Publish weekly teardowns of real operations problems.\n")
		b.WriteString("**Content Pillars:** Teardowns | Playbooks | Founder Lessons\n")
		b.WriteString("**Posting Frequency:** LinkedIn 3/week, Blog 1/week\n")
		b.WriteString("**Content Mix:** Educational 50%, Promotional 20%, Engagement 20%, Curated 10%\n")
		b.WriteString("**Top 3 Content Ideas:**\n1. The hidden cost of tool sprawl\n2. Our onboarding teardown\n3. What we stopped measuring\n")
		b.WriteString("**Effort:** 8hrs/week\n")
		b.WriteString("**30-Day Results:** 2x profile visits\n")
		b.WriteString("**Pros:** Compounds over time\n")
		b.WriteString("**Cons:** Slow to start\n\n")
	}
	b.WriteString("## RECOMMENDATION\n**Best Strategy:** Strategy 2\n**Why:** Best fit.\n")
	b.WriteString("**Week 1 Action Plan:**\n1. Draft the first teardown\n2. Block a writing slot\n3. Line up interviews\n")
	return b.String()
}

func doRequest(mux *http.ServeMux, method, path, sessionID string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

// ==========================
// Endpoint Tests
// ==========================

func TestStrategiesEndpoint_HappyPath(t *testing.T) {
	mux := createTestServer(t, 5, &fixedCompleter{text: strategiesResponseText()})

	rec := doRequest(mux, http.MethodPost, "/api/v1/strategies", "session-1", validBrandJSON(t))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "session-1", rec.Header().Get("X-Session-ID"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var outcome pipeline.StrategiesOutcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	require.NotNil(t, outcome.Set)
	assert.Len(t, outcome.Set.Strategies, 5)
	assert.Equal(t, 4, outcome.Remaining)
}

func TestStrategiesEndpoint_AssignsSessionWhenHeaderMissing(t *testing.T) {
	mux := createTestServer(t, 5, &fixedCompleter{text: strategiesResponseText()})

	rec := doRequest(mux, http.MethodPost, "/api/v1/strategies", "", validBrandJSON(t))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Session-ID"))
}

func TestStrategiesEndpoint_MalformedBody(t *testing.T) {
	mux := createTestServer(t, 5, &fixedCompleter{text: strategiesResponseText()})

	rec := doRequest(mux, http.MethodPost, "/api/v1/strategies", "session-1", []byte("{not json"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var se stderrors.StandardError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &se))
	assert.Equal(t, stderrors.ErrCodeFieldValidationFailed, se.Code)
}

func TestStrategiesEndpoint_ValidationFailureIs400(t *testing.T) {
	mux := createTestServer(t, 5, &fixedCompleter{text: strategiesResponseText()})

	rec := doRequest(mux, http.MethodPost, "/api/v1/strategies", "session-1",
		[]byte(`{"brandName":"","industry":"B2B SaaS"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalendarEndpoint_NumberOutOfRange(t *testing.T) {
	mux := createTestServer(t, 5, &fixedCompleter{text: strategiesResponseText()})

	rec := doRequest(mux, http.MethodPost, "/api/v1/calendar", "session-1",
		[]byte(`{"strategyNumber":7}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalendarEndpoint_BeforeStrategiesIs409(t *testing.T) {
	mux := createTestServer(t, 5, &fixedCompleter{text: strategiesResponseText()})

	rec := doRequest(mux, http.MethodPost, "/api/v1/calendar", "session-1",
		[]byte(`{"strategyNumber":2}`))

	assert.Equal(t, http.StatusConflict, rec.Code)

	var se stderrors.StandardError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &se))
	assert.Equal(t, stderrors.ErrCodePhaseOrderViolation, se.Code)
}

func TestStrategiesEndpoint_RateLimitedIs429(t *testing.T) {
	mux := createTestServer(t, 1, &fixedCompleter{text: strategiesResponseText()})

	first := doRequest(mux, http.MethodPost, "/api/v1/strategies", "session-1", validBrandJSON(t))
	require.Equal(t, http.StatusOK, first.Code)

	second := doRequest(mux, http.MethodPost, "/api/v1/strategies", "session-1", validBrandJSON(t))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestStrategiesEndpoint_ProviderOutageIs503(t *testing.T) {
	mux := createTestServer(t, 5, &fixedCompleter{
		err: stderrors.NewProviderUnavailableError(4, 503, nil),
	})

	rec := doRequest(mux, http.MethodPost, "/api/v1/strategies", "session-1", validBrandJSON(t))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStrategiesEndpoint_UnparseableResponseIs502(t *testing.T) {
	mux := createTestServer(t, 5, &fixedCompleter{text: "no strategies here"})

	rec := doRequest(mux, http.MethodPost, "/api/v1/strategies", "session-1", validBrandJSON(t))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestQuotaEndpoint(t *testing.T) {
	mux := createTestServer(t, 5, &fixedCompleter{text: strategiesResponseText()})

	rec := doRequest(mux, http.MethodGet, "/api/v1/quota", "session-1", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 5, body["remaining"])
	assert.Equal(t, 0, body["retryAfterSeconds"])
}

func TestHealthzEndpoint(t *testing.T) {
	mux := createTestServer(t, 5, &fixedCompleter{text: strategiesResponseText()})

	rec := doRequest(mux, http.MethodGet, "/healthz", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}