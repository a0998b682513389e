// internal/workers/assessment/score-submission/models.go
package scoresubmission

import "purpose-workers/internal/models"

// Input carries the candidate's answers either keyed by question ID or as one
// selection list per question in catalog order.
type Input struct {
	CandidateID string      `json:"candidateId"`
	Answers     interface{} `json:"answers"`
}

type Output struct {
	CandidateID string             `json:"candidateId"`
	TotalScore  int                `json:"totalScore"`
	Tier        string             `json:"tier"`
	ScoreResult models.PlainRecord `json:"scoreResult"`
}
