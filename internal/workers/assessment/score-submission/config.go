// internal/workers/assessment/score-submission/config.go
package scoresubmission

import (
	"time"

	"purpose-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	// Now stamps ComputedAt. Defaults to time.Now.
	Now func() time.Time
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Timeout: config.GetWorkerConfig(cfg, TaskType).TimeoutDuration(),
		Now:     time.Now,
	}
}
