// internal/workers/assessment/save-score-result/models.go
package savescoreresult

import "purpose-workers/internal/models"

type Input struct {
	ScoreResult models.PlainRecord `json:"scoreResult"`
}

type Output struct {
	ResultID    string `json:"resultId"`
	CandidateID string `json:"candidateId"`
	SavedAt     string `json:"savedAt"`
}

// Postgres unique_violation.
const uniqueViolation = "23505"
