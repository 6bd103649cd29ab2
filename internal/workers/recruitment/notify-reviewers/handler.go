// internal/workers/recruitment/notify-reviewers/handler.go
package notifyreviewers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	awsclients "faculty-ranking-workers/internal/common/aws"
	errs "faculty-ranking-workers/internal/common/errors"
	"faculty-ranking-workers/internal/common/logger"
	"faculty-ranking-workers/internal/common/metrics"
	"faculty-ranking-workers/internal/common/validation"
	"faculty-ranking-workers/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "notify-reviewers"
)

const (
	subjectTemplate = "Candidate scored: {{fullName}} ({{score}})"
	bodyTemplate    = `{{fullName}} applied for {{position}} in {{department}}.

Composite score: {{score}} (shortlist threshold {{threshold}})
Status: {{status}}
Application: {{applicationId}}`
)

type ApplicationReader interface {
	Get(ctx context.Context, applicationID string) (models.Application, error)
}

type Handler struct {
	config    *Config
	apps      ApplicationReader
	ses       awsclients.SESService
	sns       awsclients.SNSService
	validator *validation.Validator
	errors    *errs.ErrorHandler
	logger    logger.Logger
	now       func() time.Time
}

func NewHandler(
	config *Config,
	apps ApplicationReader,
	sesClient awsclients.SESService,
	snsClient awsclients.SNSService,
	validator *validation.Validator,
	log logger.Logger,
) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		apps:      apps,
		ses:       sesClient,
		sns:       snsClient,
		validator: validator,
		errors:    errs.NewErrorHandler(log),
		logger:    log,
		now:       time.Now,
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

// Execute emails the reviewer list about a new score and, when the score has just
// crossed the shortlist threshold, publishes a score.updated event.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	id := strings.TrimSpace(input.ApplicationID)
	if id == "" {
		return nil, errs.NewInvalidInputError("applicationId is required")
	}
	if input.Score < 0 || input.Score > models.MaxCriterionScore {
		return nil, errs.NewInvalidInputError(fmt.Sprintf("score must be within 0..100, got %v", input.Score))
	}

	app, err := h.apps.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := h.now().UTC()
	out := &Output{
		NotificationID: uuid.New().String(),
		Shortlisted:    input.Score >= h.config.ShortlistThreshold,
		SentAt:         now.Format(time.RFC3339),
	}

	if h.config.EmailEnabled && len(h.config.Reviewers) > 0 {
		data := map[string]interface{}{
			"applicationId": id,
			"fullName":      app.FullName,
			"department":    app.Department,
			"position":      app.Position,
			"status":        app.Status,
			"score":         fmt.Sprintf("%.2f", input.Score),
			"threshold":     fmt.Sprintf("%.2f", h.config.ShortlistThreshold),
		}
		if err := h.sendEmail(ctx, renderTemplate(subjectTemplate, data), renderTemplate(bodyTemplate, data)); err != nil {
			return nil, errs.NewNotificationSendFailedError("email", err)
		}
		out.EmailSent = true
	}

	if h.config.EventsEnabled && h.config.TopicARN != "" && crossedThreshold(input, h.config.ShortlistThreshold) {
		event := ScoreEvent{
			Type:           EventScoreUpdated,
			NotificationID: out.NotificationID,
			ApplicationID:  id,
			Department:     app.Department,
			Position:       app.Position,
			Score:          input.Score,
			PreviousScore:  input.PreviousScore,
			Threshold:      h.config.ShortlistThreshold,
			OccurredAt:     now,
		}
		if err := h.publishEvent(ctx, event); err != nil {
			return nil, errs.NewNotificationSendFailedError("sns", err)
		}
		out.EventPublished = true
	}

	h.logger.Info("reviewers notified", map[string]interface{}{
		"applicationId":  id,
		"notificationId": out.NotificationID,
		"emailSent":      out.EmailSent,
		"eventPublished": out.EventPublished,
	})
	return out, nil
}

// crossedThreshold is true when the new score reaches the threshold and the previous
// one, if any, did not.
func crossedThreshold(input *Input, threshold float64) bool {
	if input.Score < threshold {
		return false
	}
	return input.PreviousScore == nil || *input.PreviousScore < threshold
}

func (h *Handler) sendEmail(ctx context.Context, subject, body string) error {
	_, err := h.ses.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: h.config.Reviewers,
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(h.config.FromEmail),
	})
	return err
}

func (h *Handler) publishEvent(ctx context.Context, event ScoreEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = h.sns.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(h.config.TopicARN),
		Message:  aws.String(string(payload)),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"eventType": {DataType: aws.String("String"), StringValue: aws.String(event.Type)},
		},
	})
	return err
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

// renderTemplate substitutes {{key}} placeholders and drops any left unresolved.
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl
	for k, v := range data {
		value := ""
		if v != nil {
			value = fmt.Sprint(v)
		}
		result = strings.ReplaceAll(result, "{{"+k+"}}", value)
	}

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		result = result[:start] + result[start+end+2:]
	}
	return result
}
