// internal/models/assessment.go
package models

import "time"

// QuestionCount is the number of questions in a purpose questionnaire.
const QuestionCount = 4

// SelectionsPerQuestion is the exact number of options a complete answer holds.
const SelectionsPerQuestion = 5

// QuestionDefinition is one question of the catalog. Options are ordered and
// addressed by index.
type QuestionDefinition struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle"`
	Options  []string `json:"options"`
}

// AnswerSet holds one selection list of option indices per question.
type AnswerSet [][]int

// Clone returns a deep copy so results never alias caller slices.
func (a AnswerSet) Clone() AnswerSet {
	if a == nil {
		return nil
	}
	out := make(AnswerSet, len(a))
	for i, sel := range a {
		if sel != nil {
			out[i] = append([]int(nil), sel...)
		}
	}
	return out
}

// ScoreTier is the ordinal outcome class derived from the total score.
type ScoreTier string

const (
	TierBelowExpectation    ScoreTier = "BELOW_EXPECTATION"
	TierWithinExpectation   ScoreTier = "WITHIN_EXPECTATION"
	TierAboveExpectation    ScoreTier = "ABOVE_EXPECTATION"
	TierExceededExpectation ScoreTier = "EXCEEDED_EXPECTATION"
)

// Tiers lists every tier in ascending order.
var Tiers = []ScoreTier{
	TierBelowExpectation,
	TierWithinExpectation,
	TierAboveExpectation,
	TierExceededExpectation,
}

// Valid reports whether t is one of the four known tiers.
func (t ScoreTier) Valid() bool {
	for _, known := range Tiers {
		if t == known {
			return true
		}
	}
	return false
}

func (t ScoreTier) String() string {
	return string(t)
}

// AnalysisBundle is the qualitative profile attached to a tier.
type AnalysisBundle struct {
	ProfileSummary   string   `json:"profileSummary"`
	Competencies     []string `json:"competencies"`
	DevelopmentAreas []string `json:"developmentAreas"`
	Recommendations  []string `json:"recommendations"`
	Adaptability     string   `json:"adaptability"`
	Leadership       string   `json:"leadership"`
	Interpersonal    string   `json:"interpersonal"`
}

// Clone returns a copy that does not share slices with b.
func (b AnalysisBundle) Clone() AnalysisBundle {
	b.Competencies = append([]string(nil), b.Competencies...)
	b.DevelopmentAreas = append([]string(nil), b.DevelopmentAreas...)
	b.Recommendations = append([]string(nil), b.Recommendations...)
	return b
}

// ScoreResult is created once per completed submission and never mutated.
type ScoreResult struct {
	CandidateID string         `json:"candidateId"`
	TotalScore  int            `json:"totalScore"`
	Tier        ScoreTier      `json:"tier"`
	Analysis    AnalysisBundle `json:"analysis"`
	Answers     AnswerSet      `json:"answers"`
	ComputedAt  time.Time      `json:"computedAt"`
}

// PlainRecord is the flattened exchange form of a ScoreResult. Values are
// scalars, flat lists of scalars, or nested records of those.
type PlainRecord map[string]interface{}
