// Package api exposes the pipeline over HTTP. A session identity arrives in
// the X-Session-ID header; requests without one get a fresh session whose ID
// is echoed back, so the client can reuse it for the calendar phase.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	stderrors "strategist-pipeline/internal/common/errors"
	"strategist-pipeline/internal/common/logger"
	"strategist-pipeline/internal/models"
	"strategist-pipeline/internal/pipeline"
)

const sessionHeader = "X-Session-ID"

type Server struct {
	pipeline *pipeline.Pipeline
	log      logger.Logger
}

func NewServer(p *pipeline.Pipeline, log logger.Logger) *Server {
	return &Server{pipeline: p, log: log}
}

// Routes builds the full mux, including the Prometheus and health endpoints.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/strategies", s.handleStrategies)
	mux.HandleFunc("POST /api/v1/calendar", s.handleCalendar)
	mux.HandleFunc("GET /api/v1/quota", s.handleQuota)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	return mux
}

type calendarRequest struct {
	StrategyNumber int `json:"strategyNumber"`
}

func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	sessionID := s.sessionID(r)

	var in models.BrandInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.writeError(w, sessionID, stderrors.NewFieldValidationFailedError([]map[string]string{
			{"field": "body", "message": "request body is not valid JSON"},
		}))
		return
	}

	outcome, err := s.pipeline.GenerateStrategies(r.Context(), sessionID, in)
	if err != nil {
		s.writeError(w, sessionID, err)
		return
	}
	s.writeJSON(w, sessionID, http.StatusOK, outcome)
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	sessionID := s.sessionID(r)

	var req calendarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, sessionID, stderrors.NewFieldValidationFailedError([]map[string]string{
			{"field": "body", "message": "request body is not valid JSON"},
		}))
		return
	}
	if req.StrategyNumber < 1 || req.StrategyNumber > 5 {
		s.writeError(w, sessionID, stderrors.NewFieldValidationFailedError([]map[string]string{
			{"field": "strategyNumber", "message": "strategyNumber must be between 1 and 5"},
		}))
		return
	}

	outcome, err := s.pipeline.GenerateCalendar(r.Context(), sessionID, req.StrategyNumber)
	if err != nil {
		s.writeError(w, sessionID, err)
		return
	}
	s.writeJSON(w, sessionID, http.StatusOK, outcome)
}

func (s *Server) handleQuota(w http.ResponseWriter, r *http.Request) {
	sessionID := s.sessionID(r)
	status, err := s.pipeline.Quota(r.Context(), sessionID)
	if err != nil {
		s.writeError(w, sessionID, err)
		return
	}
	s.writeJSON(w, sessionID, http.StatusOK, map[string]interface{}{
		"remaining":         status.Remaining,
		"retryAfterSeconds": int(status.RetryAfter.Seconds()),
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) sessionID(r *http.Request) string {
	if id := r.Header.Get(sessionHeader); id != "" {
		return id
	}
	return models.NewSession().ID
}

func (s *Server) writeJSON(w http.ResponseWriter, sessionID string, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(sessionHeader, sessionID)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("response encode failed", map[string]interface{}{"error": err.Error()})
	}
}

// writeError maps a StandardError code to an HTTP status and returns the
// error envelope as the body. Unclassified errors become a bare 500.
func (s *Server) writeError(w http.ResponseWriter, sessionID string, err error) {
	se := stderrors.AsStandardError(err)
	if se == nil {
		s.writeJSON(w, sessionID, http.StatusInternalServerError, map[string]string{
			"code":    "INTERNAL_ERROR",
			"message": "internal error",
		})
		return
	}

	status := http.StatusInternalServerError
	switch se.Code {
	case stderrors.ErrCodeFieldValidationFailed:
		status = http.StatusBadRequest
	case stderrors.ErrCodeRateLimitExceeded:
		status = http.StatusTooManyRequests
	case stderrors.ErrCodeProviderUnavailable:
		status = http.StatusServiceUnavailable
	case stderrors.ErrCodeProviderAuthFailed,
		stderrors.ErrCodeProviderRequestRejected,
		stderrors.ErrCodeProviderEmptyResponse,
		stderrors.ErrCodeResponseUnparseable:
		status = http.StatusBadGateway
	case stderrors.ErrCodePhaseOrderViolation:
		status = http.StatusConflict
	}
	s.writeJSON(w, sessionID, status, se)
}
