// internal/workers/recruitment/get-top-ranked-applications/config.go
package gettoprankedapplications

import (
	"time"

	"faculty-ranking-workers/internal/common/config"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

type Config struct {
	Timeout  time.Duration
	CacheTTL time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Timeout:  config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
		CacheTTL: config.GetDuration(cfg.Scoring.TopRankedCacheTTL),
	}
}
