// internal/workers/recruitment/notify-reviewers/models.go
package notifyreviewers

import "time"

type Input struct {
	ApplicationID string   `json:"applicationId"`
	Score         float64  `json:"score"`
	PreviousScore *float64 `json:"previousScore,omitempty"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	EmailSent      bool   `json:"emailSent"`
	EventPublished bool   `json:"eventPublished"`
	Shortlisted    bool   `json:"shortlisted"`
	SentAt         string `json:"sentAt"` // ISO 8601
}

const EventScoreUpdated = "score.updated"

// ScoreEvent is the SNS message body published when a candidate crosses the shortlist
// threshold.
type ScoreEvent struct {
	Type           string    `json:"type"`
	NotificationID string    `json:"notificationId"`
	ApplicationID  string    `json:"applicationId"`
	Department     string    `json:"department"`
	Position       string    `json:"position"`
	Score          float64   `json:"score"`
	PreviousScore  *float64  `json:"previousScore,omitempty"`
	Threshold      float64   `json:"threshold"`
	OccurredAt     time.Time `json:"occurredAt"`
}
