// internal/workers/recruitment/refresh-ranking/handler.go
package refreshranking

import (
	"context"

	errs "faculty-ranking-workers/internal/common/errors"
	"faculty-ranking-workers/internal/common/logger"
	"faculty-ranking-workers/internal/common/metrics"
	"faculty-ranking-workers/internal/ranking"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "refresh-ranking"
)

type Refresher interface {
	Refresh(ctx context.Context) (*ranking.Result, error)
}

// Handler rebuilds the global ranking on demand, e.g. from a timer event after bulk
// imports or manual score corrections.
type Handler struct {
	config  *Config
	updater Refresher
	errors  *errs.ErrorHandler
	logger  logger.Logger
}

func NewHandler(config *Config, updater Refresher, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:  config,
		updater: updater,
		errors:  errs.NewErrorHandler(log),
		logger:  log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx)
	if err != nil {
		h.errors.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

// Execute runs a refresh. Unlike the refresh inside a scoring run, a failure here fails
// the job.
func (h *Handler) Execute(ctx context.Context) (*Output, error) {
	res, err := h.updater.Refresh(ctx)
	if err != nil {
		return nil, errs.NewRankingRefreshFailedError(err)
	}
	return &Output{
		Ranked:      res.Ranked,
		Changed:     res.Changed,
		Fingerprint: res.Fingerprint,
		Version:     res.Version,
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
