// Package pipeline sequences validation, rate-limit admission, the provider
// call, and parsing into one run per phase. A run either produces a typed
// result or fails with a classified StandardError; a consumed rate-limit
// slot is never refunded on downstream failure.
package pipeline

import (
	"context"
	"fmt"
	"time"

	stderrors "strategist-pipeline/internal/common/errors"
	"strategist-pipeline/internal/common/logger"
	"strategist-pipeline/internal/common/observability"
	"strategist-pipeline/internal/models"
	"strategist-pipeline/internal/pipeline/llm"
	"strategist-pipeline/internal/pipeline/parser"
	"strategist-pipeline/internal/pipeline/prompt"
	"strategist-pipeline/internal/pipeline/ratelimit"
	"strategist-pipeline/internal/pipeline/validator"
)

// Phase names used in logs and metrics.
const (
	PhaseStrategies = "strategies"
	PhaseCalendar   = "calendar"
)

// runState tracks where a run is in its lifecycle. Transitions are linear;
// any step may move to stateFailed instead of the next state.
type runState string

const (
	stateIdle         runState = "idle"
	stateValidating   runState = "validating"
	stateRateChecking runState = "rate_checking"
	stateCalling      runState = "calling"
	stateParsing      runState = "parsing"
	stateDone         runState = "done"
	stateFailed       runState = "failed"
)

// StrategiesOutcome is a completed strategy run: the set itself, any parse
// warnings, and the quota remaining after this run's slot was consumed.
type StrategiesOutcome struct {
	Set       *models.StrategySet `json:"strategySet"`
	Warnings  []parser.Warning    `json:"warnings,omitempty"`
	Remaining int                 `json:"remaining"`
}

// CalendarOutcome is a completed calendar run.
type CalendarOutcome struct {
	Strategy  *models.ContentStrategy `json:"strategy"`
	Entries   []models.CalendarEntry  `json:"entries"`
	Warnings  []parser.Warning        `json:"warnings,omitempty"`
	Remaining int                     `json:"remaining"`
}

// QuotaStatus is the read-only rate-limit view for UI display.
type QuotaStatus struct {
	Remaining  int           `json:"remaining"`
	RetryAfter time.Duration `json:"retryAfter"`
}

// Pipeline composes the four stages. Both phases draw from the same
// per-session quota, and a calendar run is only reachable once a strategy
// run for the same session has completed.
type Pipeline struct {
	validator *validator.Validator
	limiter   *ratelimit.Limiter
	completer llm.Completer
	store     SessionStore
	log       logger.Logger
	obs       *observability.Observability
}

func New(v *validator.Validator, l *ratelimit.Limiter, c llm.Completer, store SessionStore, log logger.Logger, obs *observability.Observability) *Pipeline {
	return &Pipeline{
		validator: v,
		limiter:   l,
		completer: c,
		store:     store,
		log:       log,
		obs:       obs,
	}
}

// run carries per-invocation bookkeeping through the state machine.
type run struct {
	phase     string
	sessionID string
	state     runState
	startedAt time.Time
	log       logger.Logger
}

func (p *Pipeline) newRun(phase, sessionID string) *run {
	return &run{
		phase:     phase,
		sessionID: sessionID,
		state:     stateIdle,
		startedAt: time.Now(),
		log: p.log.WithFields(map[string]interface{}{
			"phase":     phase,
			"sessionId": sessionID,
		}),
	}
}

func (r *run) transition(next runState) {
	r.log.Debug("run state transition", map[string]interface{}{
		"from": string(r.state),
		"to":   string(next),
	})
	r.state = next
}

func (p *Pipeline) finish(ctx context.Context, r *run, err error) {
	status := "success"
	if err != nil {
		r.transition(stateFailed)
		status = "error"
		if se := stderrors.AsStandardError(err); se != nil {
			status = string(se.Code)
		}
	} else {
		r.transition(stateDone)
	}
	p.obs.RecordRun(ctx, r.phase, status)
	p.obs.RecordRunDuration(ctx, time.Since(r.startedAt), r.phase, status)
}

// GenerateStrategies executes Phase 1: validate the brand input, consume a
// rate-limit slot, call the provider, parse the five strategies, and persist
// the result so a calendar run can resume from it.
func (p *Pipeline) GenerateStrategies(ctx context.Context, sessionID string, in models.BrandInput) (outcome *StrategiesOutcome, err error) {
	r := p.newRun(PhaseStrategies, sessionID)
	defer func() { p.finish(ctx, r, err) }()

	r.transition(stateValidating)
	vres := p.validator.ValidateAll(in)
	if !vres.OK {
		r.log.Warn("input validation failed", map[string]interface{}{
			"errorCount": len(vres.Errors),
		})
		return nil, stderrors.NewFieldValidationFailedError(vres.Maps())
	}

	decision, err := p.admit(ctx, r)
	if err != nil {
		return nil, err
	}

	text, err := p.call(ctx, r, prompt.Strategies(vres.Sanitized))
	if err != nil {
		return nil, err
	}

	r.transition(stateParsing)
	set, warnings, err := parser.ParseStrategies(text)
	if err != nil {
		r.log.Error("strategy response unusable", map[string]interface{}{
			"responseBytes": len(text),
		})
		return nil, err
	}
	for _, w := range warnings {
		r.log.Warn("strategy parse warning", map[string]interface{}{
			"block":   w.Block,
			"field":   w.Field,
			"message": w.Message,
		})
	}

	set.GeneratedAt = time.Now().UTC()
	if saveErr := p.store.Save(ctx, sessionID, &SessionState{
		Input:      vres.Sanitized,
		Strategies: *set,
		SavedAt:    set.GeneratedAt,
	}); saveErr != nil {
		return nil, stderrors.NewSessionStateFailedError(saveErr)
	}

	r.log.Info("strategy run complete", map[string]interface{}{
		"strategies": len(set.Strategies),
		"warnings":   len(warnings),
		"remaining":  decision.Remaining,
	})
	return &StrategiesOutcome{Set: set, Warnings: warnings, Remaining: decision.Remaining}, nil
}

// GenerateCalendar executes Phase 2 for the chosen strategy. It fails with a
// phase-order violation when the session has no completed strategy run or
// the chosen number does not name a recovered strategy.
func (p *Pipeline) GenerateCalendar(ctx context.Context, sessionID string, strategyNumber int) (outcome *CalendarOutcome, err error) {
	r := p.newRun(PhaseCalendar, sessionID)
	defer func() { p.finish(ctx, r, err) }()

	r.transition(stateValidating)
	state, err := p.store.Load(ctx, sessionID)
	if err != nil {
		return nil, stderrors.NewSessionStateFailedError(err)
	}
	if state == nil {
		return nil, stderrors.NewPhaseOrderViolationError(
			"no completed strategy run for this session")
	}
	chosen := state.Strategies.Strategy(strategyNumber)
	if chosen == nil {
		return nil, stderrors.NewPhaseOrderViolationError(
			fmt.Sprintf("strategy %d was not produced by the strategy run", strategyNumber))
	}

	decision, err := p.admit(ctx, r)
	if err != nil {
		return nil, err
	}

	text, err := p.call(ctx, r, prompt.Calendar(state.Input, *chosen))
	if err != nil {
		return nil, err
	}

	r.transition(stateParsing)
	entries, warnings, err := parser.ParseCalendar(text)
	if err != nil {
		r.log.Error("calendar response unusable", map[string]interface{}{
			"responseBytes": len(text),
		})
		return nil, err
	}
	for _, w := range warnings {
		r.log.Warn("calendar parse warning", map[string]interface{}{
			"block":   w.Block,
			"field":   w.Field,
			"message": w.Message,
		})
	}

	r.log.Info("calendar run complete", map[string]interface{}{
		"strategy":  strategyNumber,
		"entries":   len(entries),
		"warnings":  len(warnings),
		"remaining": decision.Remaining,
	})
	return &CalendarOutcome{
		Strategy:  chosen,
		Entries:   entries,
		Warnings:  warnings,
		Remaining: decision.Remaining,
	}, nil
}

// Quota reports the session's remaining slots without consuming one.
func (p *Pipeline) Quota(ctx context.Context, sessionID string) (*QuotaStatus, error) {
	remaining, retryAfter, err := p.limiter.PeekRemaining(ctx, sessionID)
	if err != nil {
		return nil, stderrors.NewSessionStateFailedError(err)
	}
	return &QuotaStatus{Remaining: remaining, RetryAfter: retryAfter}, nil
}

func (p *Pipeline) admit(ctx context.Context, r *run) (ratelimit.Decision, error) {
	r.transition(stateRateChecking)
	decision, err := p.limiter.Admit(ctx, r.sessionID)
	if err != nil {
		return decision, stderrors.NewSessionStateFailedError(err)
	}
	if !decision.Allowed {
		p.obs.RecordRateLimitDenial(ctx)
		r.log.Warn("rate limit exceeded", map[string]interface{}{
			"retryAfterSeconds": int(decision.RetryAfter.Seconds()),
		})
		return decision, stderrors.NewRateLimitExceededError(decision.RetryAfter)
	}
	return decision, nil
}

func (p *Pipeline) call(ctx context.Context, r *run, messages []llm.Message) (string, error) {
	r.transition(stateCalling)
	result, err := p.completer.Complete(ctx, messages)
	if result != nil {
		for _, attempt := range result.Attempts {
			p.obs.RecordProviderAttempt(ctx, string(attempt.State))
		}
	}
	if err != nil {
		return "", err
	}
	return result.Text, nil
}
