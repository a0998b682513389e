// internal/workers/assessment/save-score-result/config.go
package savescoreresult

import (
	"time"

	"purpose-workers/internal/common/config"
)

type Config struct {
	CacheTTL time.Duration
	Timeout  time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		CacheTTL: cfg.Assessment.DuplicateCacheTTL(),
		Timeout:  config.GetWorkerConfig(cfg, TaskType).TimeoutDuration(),
	}
}
