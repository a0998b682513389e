// Package exchange converts score results to and from the flat record handed
// to persistence and HR platform integrations. The record never holds a list
// of lists: answers are keyed by question ID.
package exchange

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"purpose-workers/internal/models"
)

// SchemaVersion is stamped on every payload and checked on the way back in.
const SchemaVersion = 1

var ErrMalformedPayload = errors.New("MALFORMED_PAYLOAD")

type wirePayload struct {
	SchemaVersion int                   `json:"schemaVersion"`
	CandidateID   string                `json:"candidateId"`
	TotalScore    int                   `json:"totalScore"`
	Tier          models.ScoreTier      `json:"tier"`
	ComputedAt    string                `json:"computedAt"`
	Answers       map[string][]int      `json:"answers"`
	Analysis      models.AnalysisBundle `json:"analysis"`
}

// ToExchangePayload flattens result. The returned record shares nothing with
// result. A nil result yields a nil record. Answers are keyed by the default
// catalog's question IDs in question order; results scored against a catalog
// with other IDs cannot be exchanged.
func ToExchangePayload(result *models.ScoreResult) models.PlainRecord {
	if result == nil {
		return nil
	}

	answers := models.PlainRecord{}
	for i, key := range answerKeys() {
		if i < len(result.Answers) {
			answers[key] = append([]int{}, result.Answers[i]...)
		}
	}

	a := result.Analysis
	return models.PlainRecord{
		"schemaVersion": SchemaVersion,
		"candidateId":   result.CandidateID,
		"totalScore":    result.TotalScore,
		"tier":          result.Tier.String(),
		"computedAt":    result.ComputedAt.UTC().Format(time.RFC3339Nano),
		"answers":       answers,
		"analysis": models.PlainRecord{
			"profileSummary":   a.ProfileSummary,
			"competencies":     append([]string{}, a.Competencies...),
			"developmentAreas": append([]string{}, a.DevelopmentAreas...),
			"recommendations":  append([]string{}, a.Recommendations...),
			"adaptability":     a.Adaptability,
			"leadership":       a.Leadership,
			"interpersonal":    a.Interpersonal,
		},
	}
}

// FromExchangePayload rebuilds a ScoreResult from a payload produced by
// ToExchangePayload, either as native Go values or after a JSON round trip.
// Any missing or mistyped field yields ErrMalformedPayload.
func FromExchangePayload(payload models.PlainRecord) (*models.ScoreResult, error) {
	if payload == nil {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedPayload)
	}

	result, err := payloadSchema().Validate(map[string]interface{}(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if !result.Valid {
		return nil, fmt.Errorf("%w: %s", ErrMalformedPayload, result.Error())
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	var wire wirePayload
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	computedAt, err := time.Parse(time.RFC3339Nano, wire.ComputedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: computedAt: %v", ErrMalformedPayload, err)
	}

	keys := answerKeys()
	answers := make(models.AnswerSet, len(keys))
	for i, key := range keys {
		answers[i] = wire.Answers[key]
	}

	return &models.ScoreResult{
		CandidateID: wire.CandidateID,
		TotalScore:  wire.TotalScore,
		Tier:        wire.Tier,
		Analysis:    wire.Analysis,
		Answers:     answers,
		ComputedAt:  computedAt.UTC(),
	}, nil
}

// DecodeJSON parses a JSON document into a payload and rebuilds the result.
func DecodeJSON(data []byte) (*models.ScoreResult, error) {
	var payload models.PlainRecord
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return FromExchangePayload(payload)
}
