// internal/workers/recruitment/get-top-ranked-applications/handler.go
package gettoprankedapplications

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"faculty-ranking-workers/internal/common/database"
	errs "faculty-ranking-workers/internal/common/errors"
	"faculty-ranking-workers/internal/common/logger"
	"faculty-ranking-workers/internal/common/metrics"
	"faculty-ranking-workers/internal/common/validation"
	"faculty-ranking-workers/internal/models"
	"faculty-ranking-workers/internal/ranking"
	"faculty-ranking-workers/internal/repository"
	"faculty-ranking-workers/internal/scoring/reputation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "get-top-ranked-applications"
)

type RankedReader interface {
	TopRanked(ctx context.Context, f repository.TopRankedFilter) ([]models.RankedApplication, error)
}

type Handler struct {
	config     *Config
	store      RankedReader
	redis      redis.Cmdable
	reputation *reputation.Lookup
	validator  *validation.Validator
	errors     *errs.ErrorHandler
	logger     logger.Logger
}

func NewHandler(
	config *Config,
	store RankedReader,
	rdb redis.Cmdable,
	lookup *reputation.Lookup,
	validator *validation.Validator,
	log logger.Logger,
) *Handler {
	if lookup == nil {
		lookup = reputation.Default()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		store:      store,
		redis:      rdb,
		reputation: lookup,
		validator:  validator,
		errors:     errs.NewErrorHandler(log),
		logger:     log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	if err := h.validator.Check(TaskType, job.Variables); err != nil {
		h.errors.HandleJobError(ctx, client, job, err)
		return
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errors.HandleJobError(ctx, client, job, errs.NewInvalidInputError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.errors.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	filter, err := normalize(input)
	if err != nil {
		return nil, err
	}

	key, cacheable := h.cacheKey(ctx, filter)
	if cacheable {
		var cached Output
		hit, err := database.GetJSON(ctx, h.redis, key, &cached)
		if err != nil {
			h.logger.Warn("top-ranked cache read failed", map[string]interface{}{"key": key, "error": err})
		} else if hit {
			cached.Cached = true
			return &cached, nil
		}
	}

	apps, err := h.store.TopRanked(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range apps {
		apps[i].NIRF10, apps[i].QS10 = h.reputation.NormalizedRanks10(apps[i].University)
	}

	out := &Output{Applications: apps, Count: len(apps), SortBy: filter.SortBy}
	if cacheable {
		if err := database.SetJSON(ctx, h.redis, key, out, h.config.CacheTTL); err != nil {
			h.logger.Warn("top-ranked cache write failed", map[string]interface{}{"key": key, "error": err})
		}
	}
	return out, nil
}

func normalize(input *Input) (repository.TopRankedFilter, error) {
	f := repository.TopRankedFilter{
		Department: strings.TrimSpace(input.Department),
		Position:   strings.TrimSpace(input.Position),
		Limit:      input.Limit,
		SortBy:     strings.ToLower(strings.TrimSpace(input.SortBy)),
	}
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultLimit
	case f.Limit > MaxLimit:
		f.Limit = MaxLimit
	}
	switch f.SortBy {
	case "":
		f.SortBy = repository.SortByPublications
	case repository.SortByPublications, repository.SortByComposite:
	default:
		return f, errs.NewInvalidInputError(fmt.Sprintf("sortBy must be %q or %q, got %q",
			repository.SortByPublications, repository.SortByComposite, input.SortBy))
	}
	return f, nil
}

// cacheKey scopes cached pages to the current ranking version. When the version cannot be
// read the cache is bypassed rather than risking a stale page.
func (h *Handler) cacheKey(ctx context.Context, f repository.TopRankedFilter) (string, bool) {
	if h.redis == nil || h.config.CacheTTL <= 0 {
		return "", false
	}
	version, err := h.redis.Get(ctx, ranking.VersionKey).Int64()
	if err != nil && !stderrors.Is(err, redis.Nil) {
		h.logger.Warn("ranking version read failed", map[string]interface{}{"error": err})
		return "", false
	}
	return database.TopRankedCacheKey(version, f.Department, f.Position, f.SortBy, f.Limit), true
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}
