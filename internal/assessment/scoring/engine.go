// Package scoring turns a completed answer set into a total score, a tier and
// the tier's analysis bundle. Every function here is pure: no I/O, no clocks,
// no shared mutable state.
package scoring

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"purpose-workers/internal/assessment/catalog"
	"purpose-workers/internal/models"
)

// Tier upper bounds, inclusive. Calibrated against catalog.DefaultVersion.
const (
	BelowExpectationMax  = 67
	WithinExpectationMax = 75
	AboveExpectationMax  = 90
)

var (
	ErrIncompleteAnswerSet = errors.New("INCOMPLETE_ANSWER_SET")
	ErrInvalidOptionIndex  = errors.New("INVALID_OPTION_INDEX")
	ErrMissingCandidateID  = errors.New("MISSING_CANDIDATE_ID")
	ErrScoreMismatch       = errors.New("SCORE_MISMATCH")
)

// Engine scores answer sets against one catalog.
type Engine struct {
	catalog *catalog.Catalog
}

// NewEngine returns an engine over c, or over catalog.Default() when c is nil.
func NewEngine(c *catalog.Catalog) *Engine {
	if c == nil {
		c = catalog.Default()
	}
	return &Engine{catalog: c}
}

// Catalog exposes the catalog the engine scores against.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Validate checks cardinality and index ranges without scoring.
func (e *Engine) Validate(answers models.AnswerSet) error {
	if len(answers) != models.QuestionCount {
		return fmt.Errorf("%w: expected %d questions, got %d",
			ErrIncompleteAnswerSet, models.QuestionCount, len(answers))
	}

	for qi, selection := range answers {
		distinct := make(map[int]struct{}, len(selection))
		for _, idx := range selection {
			distinct[idx] = struct{}{}
		}
		if len(selection) != models.SelectionsPerQuestion || len(distinct) != models.SelectionsPerQuestion {
			return fmt.Errorf("%w: question %d has %d distinct of %d selections, need exactly %d",
				ErrIncompleteAnswerSet, qi, len(distinct), len(selection), models.SelectionsPerQuestion)
		}

		limit := e.catalog.OptionCount(qi)
		for _, idx := range selection {
			if idx < 0 || idx >= limit {
				return fmt.Errorf("%w: question %d option %d not in 0..%d",
					ErrInvalidOptionIndex, qi, idx, limit-1)
			}
		}
	}

	return nil
}

// ComputeScore sums the weights of every selected option. Characteristic
// questions use the shared characteristics table, life statements use their
// per-index weight and values use the values table.
func (e *Engine) ComputeScore(answers models.AnswerSet) (int, error) {
	if err := e.Validate(answers); err != nil {
		return 0, err
	}

	total := 0
	for qi, selection := range answers {
		for _, idx := range selection {
			if qi == catalog.QuestionStatements {
				total += e.catalog.StatementWeight(idx)
				continue
			}
			label, _ := e.catalog.OptionLabel(qi, idx)
			total += e.catalog.Weight(qi, label)
		}
	}

	return total, nil
}

// Classify maps a score to its tier. Each band includes its upper bound.
func Classify(score int) models.ScoreTier {
	switch {
	case score <= BelowExpectationMax:
		return models.TierBelowExpectation
	case score <= WithinExpectationMax:
		return models.TierWithinExpectation
	case score <= AboveExpectationMax:
		return models.TierAboveExpectation
	default:
		return models.TierExceededExpectation
	}
}

// ScoreSubmission scores answers for candidateID and stamps the result with
// now in UTC. Nothing is returned on failure.
func (e *Engine) ScoreSubmission(candidateID string, answers models.AnswerSet, now time.Time) (*models.ScoreResult, error) {
	if strings.TrimSpace(candidateID) == "" {
		return nil, ErrMissingCandidateID
	}

	score, err := e.ComputeScore(answers)
	if err != nil {
		return nil, err
	}

	tier := Classify(score)

	return &models.ScoreResult{
		CandidateID: candidateID,
		TotalScore:  score,
		Tier:        tier,
		Analysis:    BuildAnalysis(tier),
		Answers:     answers.Clone(),
		ComputedAt:  now.UTC(),
	}, nil
}

// Verify checks that result is one the engine could have produced: a
// non-blank candidate, a valid answer set, and a total and tier that match
// a fresh computation over the answers.
func (e *Engine) Verify(result *models.ScoreResult) error {
	if result == nil || strings.TrimSpace(result.CandidateID) == "" {
		return ErrMissingCandidateID
	}

	score, err := e.ComputeScore(result.Answers)
	if err != nil {
		return err
	}
	if tier := Classify(score); score != result.TotalScore || tier != result.Tier {
		return fmt.Errorf("%w: payload for %s records %d/%s but answers score %d/%s",
			ErrScoreMismatch, result.CandidateID, result.TotalScore, result.Tier, score, tier)
	}
	return nil
}

// ComputeScore scores answers against the default catalog.
func ComputeScore(answers models.AnswerSet) (int, error) {
	return defaultEngine().ComputeScore(answers)
}

// ScoreSubmission scores answers against the default catalog.
func ScoreSubmission(candidateID string, answers models.AnswerSet, now time.Time) (*models.ScoreResult, error) {
	return defaultEngine().ScoreSubmission(candidateID, answers, now)
}

func defaultEngine() *Engine {
	return &Engine{catalog: catalog.Default()}
}
