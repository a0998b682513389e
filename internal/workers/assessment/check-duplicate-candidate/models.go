// internal/workers/assessment/check-duplicate-candidate/models.go
package checkduplicatecandidate

type Input struct {
	CandidateID string `json:"candidateId"`
}

type Output struct {
	IsDuplicate bool   `json:"isDuplicate"`
	Source      string `json:"duplicateSource"`
}

// Where the answer came from.
const (
	SourceCache    = "cache"
	SourceDatabase = "database"
)

