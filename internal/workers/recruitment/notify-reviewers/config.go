// internal/workers/recruitment/notify-reviewers/config.go
package notifyreviewers

import (
	"time"

	"faculty-ranking-workers/internal/common/config"
)

type Config struct {
	EmailEnabled       bool
	FromEmail          string
	Reviewers          []string
	EventsEnabled      bool
	TopicARN           string
	ShortlistThreshold float64
	Timeout            time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	n := cfg.Notifications
	return &Config{
		EmailEnabled:       n.Email.Enabled,
		FromEmail:          n.Email.FromEmail,
		Reviewers:          n.Email.Reviewers,
		EventsEnabled:      n.Events.Enabled,
		TopicARN:           n.Events.TopicARN,
		ShortlistThreshold: cfg.Scoring.ShortlistThreshold,
		Timeout:            config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
	}
}
