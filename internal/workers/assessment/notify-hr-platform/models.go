// internal/workers/assessment/notify-hr-platform/models.go
package notifyhrplatform

import "purpose-workers/internal/models"

type Input struct {
	ScoreResult   models.PlainRecord `json:"scoreResult"`
	Platform      string             `json:"platform"`
	CandidateName string             `json:"candidateName,omitempty"`
}

type Output struct {
	NotificationID     string `json:"notificationId"`
	NotificationStatus string `json:"notificationStatus"`
	Platform           string `json:"platform"`
	MessageID          string `json:"messageId,omitempty"`
	EmailSent          bool   `json:"emailSent"`
	SentAt             string `json:"sentAt,omitempty"`
}

// EventScoreComputed is the event name HR subscribers filter on.
const EventScoreComputed = "purpose.score.computed"
