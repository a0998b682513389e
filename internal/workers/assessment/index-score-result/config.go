// internal/workers/assessment/index-score-result/config.go
package indexscoreresult

import (
	"time"

	"purpose-workers/internal/common/config"
)

type Config struct {
	IndexName string
	// Refresh is passed through to the index API: "true", "false" or "wait_for".
	Refresh string
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		IndexName: cfg.Assessment.ResultsIndex,
		Refresh:   "wait_for",
		Timeout:   config.GetWorkerConfig(cfg, TaskType).TimeoutDuration(),
	}
}
