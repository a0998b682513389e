// internal/workers/assessment/create-assessment-session/config.go
package createassessmentsession

import (
	"time"

	"purpose-workers/internal/common/config"
)

type Config struct {
	BaseURL    string
	SessionTTL time.Duration
	Timeout    time.Duration
	Now        func() time.Time
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		BaseURL:    cfg.Assessment.SessionBaseURL,
		SessionTTL: cfg.Assessment.SessionTTL(),
		Timeout:    config.GetWorkerConfig(cfg, TaskType).TimeoutDuration(),
		Now:        time.Now,
	}
}
