// internal/models/notification.go
package models

// Notification status values.
const (
	NotificationStatusSent     = "sent"
	NotificationStatusFailed   = "failed"
	NotificationStatusDisabled = "disabled"
)

// HRNotification is the envelope published to HR platform subscribers.
type HRNotification struct {
	NotificationID string      `json:"notificationId"`
	Platform       string      `json:"platform"`
	Event          string      `json:"event"`
	Result         PlainRecord `json:"result"`
	SentAt         string      `json:"sentAt"`
}
