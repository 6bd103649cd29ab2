// internal/workers/recruitment/submit-application/handler.go
package submitapplication

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
	"faculty-ranking-workers/internal/ranking"
	"faculty-ranking-workers/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "submit-application"
)

// Scorer runs one scoring pass for an application.
type Scorer interface {
	Run(ctx context.Context, applicationID string) (*scoring.Result, error)
}

type Handler struct {
	config    *Config
	scorer    Scorer
	redis     redis.Cmdable
	validator *validation.Validator
	errors    *errs.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, scorer Scorer, rdb redis.Cmdable, validator *validation.Validator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		scorer:    scorer,
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

// Execute scores the application, drops its cached breakdown and moves the top-ranked
// cache to a new generation, since a re-score can change listed breakdowns without
// reordering the ranking. Scoring failures are
// returned as-is so the error handler can map them to BPMN codes.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	id := strings.TrimSpace(input.ApplicationID)
	if id == "" {
		return nil, errs.NewInvalidInputError("applicationId is required")
	}

	res, err := h.scorer.Run(ctx, id)
	if err != nil {
		return nil, err
	}

	if h.redis != nil {
		if err := h.redis.Del(ctx, database.BreakdownCacheKey(id)).Err(); err != nil {
			h.logger.Warn("breakdown cache invalidation failed", map[string]interface{}{
				"applicationId": id,
				"error":         err,
			})
		}
		if err := h.redis.Incr(ctx, ranking.VersionKey).Err(); err != nil {
			h.logger.Warn("top-ranked cache invalidation failed", map[string]interface{}{
				"applicationId": id,
				"error":         err,
			})
		}
	}

	return &Output{
		Success:          true,
		Score:            res.Score,
		RankingRefreshed: res.RankingRefreshed,
		RunID:            res.RunID,
	}, nil
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
