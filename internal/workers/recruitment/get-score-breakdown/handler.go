// internal/workers/recruitment/get-score-breakdown/handler.go
package getscorebreakdown

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"faculty-ranking-workers/internal/common/database"
	errs "faculty-ranking-workers/internal/common/errors"
	"faculty-ranking-workers/internal/common/logger"
	"faculty-ranking-workers/internal/common/metrics"
	"faculty-ranking-workers/internal/common/validation"
	"faculty-ranking-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "get-score-breakdown"
)

type BreakdownReader interface {
	Breakdown(ctx context.Context, applicationID string) ([]models.CriterionScore, error)
}

type Handler struct {
	config    *Config
	store     BreakdownReader
	redis     redis.Cmdable
	validator *validation.Validator
	errors    *errs.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, store BreakdownReader, rdb redis.Cmdable, validator *validation.Validator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		store:     store,
		redis:     rdb,
		validator: validator,
		errors:    errs.NewErrorHandler(log),
		logger:    log,
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

// Execute returns the per-criterion breakdown, served from Redis when a fresh copy exists.
// An application that has not been scored yet yields an empty list and is not cached.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	id := strings.TrimSpace(input.ApplicationID)
	if id == "" {
		return nil, errs.NewInvalidInputError("applicationId is required")
	}
	key := database.BreakdownCacheKey(id)

	if h.redis != nil {
		var cached Output
		hit, err := database.GetJSON(ctx, h.redis, key, &cached)
		if err != nil {
			h.logger.Warn("breakdown cache read failed", map[string]interface{}{"key": key, "error": err})
		} else if hit {
			cached.Cached = true
			return &cached, nil
		}
	}

	scores, err := h.store.Breakdown(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &Output{ApplicationID: id, Scores: scores}

	if h.redis != nil && len(scores) > 0 {
		if err := database.SetJSON(ctx, h.redis, key, out, h.config.CacheTTL); err != nil {
			h.logger.Warn("breakdown cache write failed", map[string]interface{}{"key": key, "error": err})
		}
	}
	return out, nil
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
