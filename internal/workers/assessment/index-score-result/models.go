// internal/workers/assessment/index-score-result/models.go
package indexscoreresult

import "purpose-workers/internal/models"

type Input struct {
	ScoreResult models.PlainRecord `json:"scoreResult"`
}

type Output struct {
	Indexed     bool   `json:"indexed"`
	IndexName   string `json:"indexName"`
	DocumentID  string `json:"documentId"`
	IndexResult string `json:"indexResult"`
}

type indexResponse struct {
	Index   string `json:"_index"`
	ID      string `json:"_id"`
	Result  string `json:"result"`
	Version int    `json:"_version"`
}
