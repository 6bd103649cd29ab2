// internal/workers/recruitment/get-score-breakdown/config.go
package getscorebreakdown

import (
	"time"

	"faculty-ranking-workers/internal/common/config"
)

type Config struct {
	Timeout  time.Duration
	CacheTTL time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Timeout:  config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
		CacheTTL: config.GetDuration(cfg.Scoring.BreakdownCacheTTL),
	}
}
