// internal/workers/assessment/notify-hr-platform/config.go
package notifyhrplatform

import (
	"time"

	"purpose-workers/internal/common/config"
)

type Config struct {
	SNSEnabled bool
	TopicARN   string
	SESEnabled bool
	FromEmail  string
	HREmail    string
	Timeout    time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	n := cfg.Notifications
	return &Config{
		SNSEnabled: n.SNS.Enabled,
		TopicARN:   n.SNS.TopicARN,
		SESEnabled: n.SES.Enabled,
		FromEmail:  n.SES.FromEmail,
		HREmail:    n.SES.HREmail,
		Timeout:    config.GetWorkerConfig(cfg, TaskType).TimeoutDuration(),
	}
}
