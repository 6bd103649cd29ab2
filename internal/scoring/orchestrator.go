// internal/scoring/orchestrator.go
package scoring

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	errs "faculty-ranking-workers/internal/common/errors"
	"faculty-ranking-workers/internal/common/logger"
	"faculty-ranking-workers/internal/common/metrics"
	"faculty-ranking-workers/internal/common/observability"
	"faculty-ranking-workers/internal/models"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

type State string

const (
	StateLoading        State = "loading"
	StateScoring        State = "scoring"
	StatePersisting     State = "persisting"
	StateRankingRefresh State = "ranking_refresh"
	StateDone           State = "done"
	StateFailed         State = "failed"
)

type CandidateLoader interface {
	LoadCandidate(ctx context.Context, applicationID string) (models.Candidate, error)
}

type ScoreStore interface {
	UpsertScores(ctx context.Context, applicationID string, records []models.CriterionScore) error
	UpdateCompositeScore(ctx context.Context, applicationID string, score float64) error
}

type RankingRefresher interface {
	RefreshRanking(ctx context.Context) error
}

type RunRecorder interface {
	RecordScoringRun(ctx context.Context, run models.ScoringRun) error
}

// Deps wires an Orchestrator. Ranking and Audit are optional.
type Deps struct {
	Loader  CandidateLoader
	Store   ScoreStore
	Ranking RankingRefresher
	Audit   RunRecorder
	Scorers *Scorers
	Weights WeightTable
	Logger  logger.Logger
	Obs     *observability.Observability
}

type Result struct {
	RunID            string                  `json:"runId"`
	ApplicationID    string                  `json:"applicationId"`
	Score            float64                 `json:"score"`
	Records          []models.CriterionScore `json:"records"`
	RankingRefreshed bool                    `json:"rankingRefreshed"`
	State            State                   `json:"state"`
	FailedState      State                   `json:"failedState,omitempty"`
}

// Orchestrator runs Loading -> Scoring -> Persisting -> RankingRefresh -> Done for one
// candidate. A failure in the first three states ends the run in Failed with nothing
// (or only the criterion rows) written; a ranking failure is logged and reported on the
// Result only.
type Orchestrator struct {
	loader  CandidateLoader
	store   ScoreStore
	ranking RankingRefresher
	audit   RunRecorder
	scorers *Scorers
	weights WeightTable
	logger  logger.Logger
	obs     *observability.Observability
	tracer  trace.Tracer
}

func NewOrchestrator(d Deps) *Orchestrator {
	if d.Scorers == nil {
		d.Scorers = NewScorers(nil, nil, nil)
	}
	if d.Weights.byName == nil {
		d.Weights = MustDefaultWeightTable()
	}
	if d.Logger == nil {
		d.Logger = logger.NewNoOpLogger()
	}
	return &Orchestrator{
		loader:  d.Loader,
		store:   d.Store,
		ranking: d.Ranking,
		audit:   d.Audit,
		scorers: d.Scorers,
		weights: d.Weights,
		logger:  d.Logger,
		obs:     d.Obs,
		tracer:  d.Obs.Tracer(),
	}
}

func (o *Orchestrator) Run(ctx context.Context, applicationID string) (*Result, error) {
	started := time.Now()
	res := &Result{RunID: uuid.NewString(), ApplicationID: applicationID, State: StateLoading}
	log := o.logger.WithFields(map[string]interface{}{
		"runId":         res.RunID,
		"applicationId": applicationID,
	})

	ctx, span := o.tracer.Start(ctx, "scoring.run", trace.WithAttributes(
		attribute.String("application.id", applicationID),
		attribute.String("run.id", res.RunID),
	))
	defer span.End()

	err := o.run(ctx, res, log)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error("scoring run failed", map[string]interface{}{
			"state": string(res.State),
			"error": err,
		})
		res.FailedState = res.State
		res.State = StateFailed
	} else {
		res.State = StateDone
		o.obs.RecordCompositeScore(ctx, res.Score)
		log.Info("scoring run completed", map[string]interface{}{
			"score":            res.Score,
			"rankingRefreshed": res.RankingRefreshed,
		})
	}

	elapsed := time.Since(started)
	metrics.ScoringRuns.WithLabelValues(string(res.State), string(res.FailedState)).Inc()
	metrics.ScoringRunDuration.Observe(elapsed.Seconds())
	o.recordRun(ctx, res, err, started, elapsed, log)

	return res, err
}

func (o *Orchestrator) run(ctx context.Context, res *Result, log logger.Logger) error {
	res.State = StateLoading
	candidate, err := o.load(ctx, res.ApplicationID)
	if err != nil {
		return err
	}

	res.State = StateScoring
	records, err := o.score(ctx, candidate)
	if err != nil {
		return err
	}
	res.Records = records
	res.Score = Aggregate(records)

	res.State = StatePersisting
	if err := o.persist(ctx, res.ApplicationID, records, res.Score); err != nil {
		return err
	}

	res.State = StateRankingRefresh
	res.RankingRefreshed = o.refreshRanking(ctx, log)
	return nil
}

func (o *Orchestrator) load(ctx context.Context, applicationID string) (models.Candidate, error) {
	ctx, span := o.tracer.Start(ctx, "scoring.load")
	defer span.End()

	c, err := o.loader.LoadCandidate(ctx, applicationID)
	if err != nil {
		if isStandardError(err) {
			return models.Candidate{}, err
		}
		return models.Candidate{}, errs.NewApplicationLoadFailedError(applicationID, err)
	}
	return c, nil
}

// score runs every criterion concurrently over the same snapshot.
func (o *Orchestrator) score(ctx context.Context, c models.Candidate) ([]models.CriterionScore, error) {
	_, span := o.tracer.Start(ctx, "scoring.criteria")
	defer span.End()

	criteria := o.weights.Criteria()
	values := make([]float64, len(criteria))

	var g errgroup.Group
	for i, cw := range criteria {
		fn := o.scorers.For(cw.Name)
		if fn == nil {
			return nil, errs.NewScoringFailedError(cw.Name, fmt.Errorf("no scorer registered"))
		}
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = errs.NewScoringFailedError(cw.Name, fmt.Errorf("panic: %v", r))
				}
			}()
			values[i] = fn(c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	scores := make(map[string]float64, len(criteria))
	for i, cw := range criteria {
		scores[cw.Name] = values[i]
	}
	return BuildRecords(c.Application.ID, scores, o.weights), nil
}

// persist writes the criterion rows first; the composite is only written once they commit.
func (o *Orchestrator) persist(ctx context.Context, applicationID string, records []models.CriterionScore, composite float64) error {
	ctx, span := o.tracer.Start(ctx, "scoring.persist")
	defer span.End()

	if err := o.store.UpsertScores(ctx, applicationID, records); err != nil {
		return asPersistenceError(applicationID, err)
	}
	if err := o.store.UpdateCompositeScore(ctx, applicationID, composite); err != nil {
		return asPersistenceError(applicationID, err)
	}
	return nil
}

func asPersistenceError(applicationID string, err error) error {
	if isStandardError(err) {
		return err
	}
	return errs.NewScorePersistenceFailedError(applicationID, err)
}

func isStandardError(err error) bool {
	var stdErr *errs.StandardError
	return stderrors.As(err, &stdErr)
}

func (o *Orchestrator) refreshRanking(ctx context.Context, log logger.Logger) bool {
	if o.ranking == nil {
		return false
	}
	ctx, span := o.tracer.Start(ctx, "scoring.ranking_refresh")
	defer span.End()

	if err := o.ranking.RefreshRanking(ctx); err != nil {
		span.RecordError(err)
		log.Warn("ranking refresh failed; composite score kept", map[string]interface{}{
			"error": errs.NewRankingRefreshFailedError(err),
		})
		return false
	}
	return true
}

func (o *Orchestrator) recordRun(ctx context.Context, res *Result, runErr error, started time.Time, elapsed time.Duration, log logger.Logger) {
	if o.audit == nil {
		return
	}
	run := models.ScoringRun{
		RunID:            res.RunID,
		ApplicationID:    res.ApplicationID,
		State:            string(res.State),
		FailedState:      string(res.FailedState),
		RankingRefreshed: res.RankingRefreshed,
		StartedAt:        started.UTC(),
		Duration:         elapsed,
	}
	if runErr != nil {
		run.Error = runErr.Error()
	} else {
		score := res.Score
		run.Score = &score
	}
	if err := o.audit.RecordScoringRun(ctx, run); err != nil {
		log.Warn("failed to record scoring run", map[string]interface{}{"error": err})
	}
}
