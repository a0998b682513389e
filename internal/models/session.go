// internal/models/session.go
package models

import "time"

// HR platforms a questionnaire session can originate from.
const (
	PlatformGupy    = "gupy"
	PlatformWorkday = "workday"
	PlatformSAP     = "sap"
	PlatformGeneric = "generic"
)

// Session status values.
const (
	SessionStatusSent     = "sent"
	SessionStatusFinished = "finished"
)

// AssessmentSession is a questionnaire invitation issued to a candidate.
type AssessmentSession struct {
	SessionID   string    `json:"sessionId"`
	CandidateID string    `json:"candidateId"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Platform    string    `json:"platform"`
	JobTitle    string    `json:"jobTitle,omitempty"`
	Company     string    `json:"company,omitempty"`
	Link        string    `json:"link"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// IsExpired reports whether the session is past its expiry at now.
func (s *AssessmentSession) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// ValidPlatform reports whether p is a supported HR platform.
func ValidPlatform(p string) bool {
	switch p {
	case PlatformGupy, PlatformWorkday, PlatformSAP, PlatformGeneric:
		return true
	}
	return false
}
