// internal/matching/engine.go
package matching

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"matching-engine/internal/common/errors"
	"matching-engine/internal/common/logger"
	"matching-engine/internal/common/metrics"
	"matching-engine/internal/models"
)

// MsgNoVendors is returned when the run surfaces no matches.
const MsgNoVendors = "No qualified vendors found"

// Pipeline stages, in run order. Failed is reachable only from Loading;
// every later stage degrades gracefully instead of failing the run.
type Stage string

const (
	StageIdle        Stage = "idle"
	StageLoading     Stage = "loading"
	StageScoring     Stage = "scoring"
	StageRanking     Stage = "ranking"
	StageDispatching Stage = "dispatching"
	StageAuditing    Stage = "auditing"
	StageDone        Stage = "done"
	StageFailed      Stage = "failed"
)

// CandidateLoader reads the full eligible vendor pool from the directory.
type CandidateLoader interface {
	LoadEligible(ctx context.Context) ([]models.Candidate, error)
}

// Dispatcher writes notification records for the strongest matches and
// returns the records it emitted.
type Dispatcher interface {
	Dispatch(ctx context.Context, criteria models.MatchingCriteria, ranked []models.ScoreResult) ([]models.NotificationRecord, error)
}

// ActivitySink accepts the run's single audit record.
type ActivitySink interface {
	Record(ctx context.Context, rec models.ActivityRecord) error
}

// Config tunes pipeline behavior. Weights live in the scorer and are not
// configurable.
type Config struct {
	MinScore     float64
	MaxMatches   int
	ScoreWorkers int
}

func DefaultConfig() Config {
	return Config{
		MinScore:     MinViableScore,
		MaxMatches:   MaxMatches,
		ScoreWorkers: 8,
	}
}

// Result is the structured outcome of one matching run.
type Result struct {
	Success        bool                 `json:"success"`
	Matches        []models.ScoreResult `json:"matches"`
	TotalEvaluated int                  `json:"totalEvaluated"`
	Message        string               `json:"message"`
}

// Engine sequences one matching run: load, score, rank, dispatch, audit.
// It holds no state between runs; concurrent Run calls for different
// requests are independent.
type Engine struct {
	cfg        Config
	loader     CandidateLoader
	dispatcher Dispatcher
	activity   ActivitySink
	logger     logger.Logger
	tracer     trace.Tracer
}

func NewEngine(cfg Config, loader CandidateLoader, dispatcher Dispatcher, activity ActivitySink, log logger.Logger) *Engine {
	return &Engine{
		cfg:        cfg,
		loader:     loader,
		dispatcher: dispatcher,
		activity:   activity,
		logger:     log,
		tracer:     otel.Tracer("matching-engine"),
	}
}

// Run evaluates one request against the current vendor pool. Only the
// candidate load is fatal; notification and audit write failures are logged
// and the match list is returned regardless.
func (e *Engine) Run(ctx context.Context, criteria models.MatchingCriteria) (*Result, error) {
	start := time.Now()
	ctx, span := e.tracer.Start(ctx, "matching.run",
		trace.WithAttributes(attribute.String("request.id", criteria.RequestID)))
	defer span.End()

	log := e.logger.WithFields(map[string]interface{}{"requestId": criteria.RequestID})
	log.Info("matching run started", map[string]interface{}{"stage": StageLoading})

	candidates, err := e.loadCandidates(ctx)
	if err != nil {
		metrics.MatchingRuns.WithLabelValues(string(StageFailed)).Inc()
		log.Error("candidate load failed", map[string]interface{}{"error": err})
		return nil, errors.NewDataUnavailableError(err)
	}

	if len(candidates) == 0 {
		// Valid terminal state: scorer, ranker and dispatcher never run,
		// but the run is still audited.
		e.recordActivity(ctx, log, criteria, 0, 0)
		metrics.MatchingRuns.WithLabelValues(string(StageDone)).Inc()
		metrics.RunDuration.Observe(time.Since(start).Seconds())
		log.Info("no eligible candidates", nil)
		return &Result{
			Success:        true,
			Matches:        []models.ScoreResult{},
			TotalEvaluated: 0,
			Message:        MsgNoVendors,
		}, nil
	}

	eligible := candidates[:0:0]
	for _, c := range candidates {
		if IsEligible(c) {
			eligible = append(eligible, c)
		}
	}

	log.Debug("scoring candidates", map[string]interface{}{
		"stage": StageScoring,
		"count": len(eligible),
	})
	results := e.scoreAll(ctx, eligible, criteria)

	ranked := Rank(results, e.cfg.MinScore, e.cfg.MaxMatches)
	log.Debug("ranking complete", map[string]interface{}{
		"stage":   StageRanking,
		"matches": len(ranked),
	})

	if len(ranked) > 0 {
		dispatched, err := e.dispatch(ctx, criteria, ranked)
		if err != nil {
			// Non-fatal: match computation and notification delivery are
			// independently observable outcomes.
			log.Warn("notification dispatch failed, matches still returned", map[string]interface{}{
				"stage": StageDispatching,
				"error": err,
			})
		} else {
			metrics.NotificationsDispatched.Add(float64(dispatched))
		}
	}

	e.recordActivity(ctx, log, criteria, len(eligible), len(ranked))

	metrics.MatchingRuns.WithLabelValues(string(StageDone)).Inc()
	metrics.CandidatesEvaluated.Add(float64(len(eligible)))
	metrics.MatchesFound.Add(float64(len(ranked)))
	metrics.RunDuration.Observe(time.Since(start).Seconds())

	message := MsgNoVendors
	if len(ranked) > 0 {
		message = fmt.Sprintf("Found %d matching vendors", len(ranked))
	}
	log.Info("matching run complete", map[string]interface{}{
		"stage":      StageDone,
		"evaluated":  len(eligible),
		"matches":    len(ranked),
		"durationMs": time.Since(start).Milliseconds(),
	})

	return &Result{
		Success:        true,
		Matches:        ranked,
		TotalEvaluated: len(eligible),
		Message:        message,
	}, nil
}

func (e *Engine) loadCandidates(ctx context.Context) ([]models.Candidate, error) {
	ctx, span := e.tracer.Start(ctx, "matching.load")
	defer span.End()
	return e.loader.LoadEligible(ctx)
}

// scoreAll fans scoring out over a bounded goroutine pool. Results are
// written by index so the output preserves candidate-load order, which the
// ranker's stable sort relies on for tie-breaking.
func (e *Engine) scoreAll(ctx context.Context, candidates []models.Candidate, criteria models.MatchingCriteria) []models.ScoreResult {
	_, span := e.tracer.Start(ctx, "matching.score",
		trace.WithAttributes(attribute.Int("candidates", len(candidates))))
	defer span.End()

	workers := e.cfg.ScoreWorkers
	if workers < 1 {
		workers = 1
	}

	results := make([]models.ScoreResult, len(candidates))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i := range candidates {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = ScoreCandidate(candidates[i], criteria)
		}(i)
	}
	wg.Wait()
	return results
}

func (e *Engine) dispatch(ctx context.Context, criteria models.MatchingCriteria, ranked []models.ScoreResult) (int, error) {
	ctx, span := e.tracer.Start(ctx, "matching.dispatch")
	defer span.End()

	records, err := e.dispatcher.Dispatch(ctx, criteria, ranked)
	if err != nil {
		return 0, errors.NewNotificationWriteFailedError(err)
	}
	return len(records), nil
}

// recordActivity writes the run's single audit record. Best-effort: a write
// failure is logged and never blocks or fails the run.
func (e *Engine) recordActivity(ctx context.Context, log logger.Logger, criteria models.MatchingCriteria, evaluated, matched int) {
	ctx, span := e.tracer.Start(ctx, "matching.audit")
	defer span.End()

	rec := models.ActivityRecord{
		ID:                  uuid.New().String(),
		Type:                models.ActivityTypeVendorsMatched,
		Description:         fmt.Sprintf("Evaluated %d vendors, matched %d for request %s", evaluated, matched, criteria.RequestID),
		RequestID:           criteria.RequestID,
		CandidatesEvaluated: evaluated,
		MatchesFound:        matched,
		Criteria:            criteria,
		CreatedAt:           time.Now().UTC().Format(time.RFC3339),
	}

	if err := e.activity.Record(ctx, rec); err != nil {
		log.Warn("activity record write failed", map[string]interface{}{
			"stage": StageAuditing,
			"error": errors.NewAuditWriteFailedError(err),
		})
	}
}
