// internal/workers/assessment/create-assessment-session/models.go
package createassessmentsession

type Input struct {
	CandidateID string `json:"candidateId"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Platform    string `json:"platform"`
	JobTitle    string `json:"jobTitle"`
	Company     string `json:"company"`
}

type Output struct {
	SessionID     string `json:"sessionId"`
	CandidateID   string `json:"candidateId"`
	SessionLink   string `json:"sessionLink"`
	SessionStatus string `json:"sessionStatus"`
	ExpiresAt     string `json:"expiresAt"`
}

// Questionnaire route appended to the configured base URL.
const sessionPath = "/questionario/"
