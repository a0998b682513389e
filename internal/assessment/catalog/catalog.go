// Package catalog holds the static question sets and weight tables used to
// score a purpose questionnaire. A Catalog is immutable once built and can be
// shared by any number of goroutines.
package catalog

import (
	"errors"
	"fmt"

	"purpose-workers/internal/models"
)

// Question indices.
const (
	QuestionSeenByOthers = 0
	QuestionSelfSeen     = 1
	QuestionStatements   = 2
	QuestionValues       = 3
)

// DefaultStatementWeight applies to life statements without a special weight.
const DefaultStatementWeight = 3

var (
	ErrIndexOutOfRange = errors.New("INDEX_OUT_OF_RANGE")
	ErrInvalidCatalog  = errors.New("INVALID_CATALOG")
)

// Tables groups the weight tables a catalog is built from. Characteristics is
// shared by the two characteristic questions. Statements is keyed by option
// index rather than label.
type Tables struct {
	Characteristics map[string]int
	Statements      map[int]int
	Values          map[string]int
}

type Catalog struct {
	version         string
	questions       [models.QuestionCount]models.QuestionDefinition
	characteristics map[string]int
	statements      map[int]int
	values          map[string]int
}

// New validates and copies the given definitions. Questions 0 and 1 must share
// an option set, labels must be unique within a question and every weight must
// be positive.
func New(version string, questions []models.QuestionDefinition, tables Tables) (*Catalog, error) {
	if len(questions) != models.QuestionCount {
		return nil, fmt.Errorf("%w: expected %d questions, got %d", ErrInvalidCatalog, models.QuestionCount, len(questions))
	}

	c := &Catalog{
		version:         version,
		characteristics: make(map[string]int, len(tables.Characteristics)),
		statements:      make(map[int]int, len(tables.Statements)),
		values:          make(map[string]int, len(tables.Values)),
	}

	for i, q := range questions {
		if len(q.Options) < models.SelectionsPerQuestion {
			return nil, fmt.Errorf("%w: question %q has %d options, need at least %d",
				ErrInvalidCatalog, q.ID, len(q.Options), models.SelectionsPerQuestion)
		}
		seen := make(map[string]struct{}, len(q.Options))
		for _, opt := range q.Options {
			if _, dup := seen[opt]; dup {
				return nil, fmt.Errorf("%w: duplicate option %q in question %q", ErrInvalidCatalog, opt, q.ID)
			}
			seen[opt] = struct{}{}
		}
		q.Options = append([]string(nil), q.Options...)
		c.questions[i] = q
	}

	if !sameOptions(c.questions[QuestionSeenByOthers].Options, c.questions[QuestionSelfSeen].Options) {
		return nil, fmt.Errorf("%w: characteristic questions must share one option set", ErrInvalidCatalog)
	}

	for label, w := range tables.Characteristics {
		if w <= 0 {
			return nil, fmt.Errorf("%w: characteristic %q has non-positive weight %d", ErrInvalidCatalog, label, w)
		}
		c.characteristics[label] = w
	}
	for idx, w := range tables.Statements {
		if w <= 0 {
			return nil, fmt.Errorf("%w: statement %d has non-positive weight %d", ErrInvalidCatalog, idx, w)
		}
		c.statements[idx] = w
	}
	for label, w := range tables.Values {
		if w <= 0 {
			return nil, fmt.Errorf("%w: value %q has non-positive weight %d", ErrInvalidCatalog, label, w)
		}
		c.values[label] = w
	}

	return c, nil
}

func sameOptions(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Version identifies the weight calibration. Tier boundaries are only
// meaningful for the version they were calibrated against.
func (c *Catalog) Version() string {
	return c.version
}

// Question returns a copy of the definition at index.
func (c *Catalog) Question(index int) (models.QuestionDefinition, error) {
	if index < 0 || index >= models.QuestionCount {
		return models.QuestionDefinition{}, fmt.Errorf("%w: question index %d not in 0..%d",
			ErrIndexOutOfRange, index, models.QuestionCount-1)
	}
	q := c.questions[index]
	q.Options = append([]string(nil), q.Options...)
	return q, nil
}

// Questions returns copies of all four definitions in order.
func (c *Catalog) Questions() []models.QuestionDefinition {
	out := make([]models.QuestionDefinition, 0, models.QuestionCount)
	for i := 0; i < models.QuestionCount; i++ {
		q, _ := c.Question(i)
		out = append(out, q)
	}
	return out
}

// OptionCount returns how many options question index offers, or 0 for an
// unknown index.
func (c *Catalog) OptionCount(index int) int {
	if index < 0 || index >= models.QuestionCount {
		return 0
	}
	return len(c.questions[index].Options)
}

// OptionLabel resolves an option index to its label.
func (c *Catalog) OptionLabel(questionIndex, optionIndex int) (string, bool) {
	if questionIndex < 0 || questionIndex >= models.QuestionCount {
		return "", false
	}
	opts := c.questions[questionIndex].Options
	if optionIndex < 0 || optionIndex >= len(opts) {
		return "", false
	}
	return opts[optionIndex], true
}

// Weight returns the weight of label within the question's table. Unknown
// labels and unknown questions weigh 0; this never fails. Life statements are
// weighted by index, so a label lookup on them resolves the label first.
func (c *Catalog) Weight(questionIndex int, label string) int {
	switch questionIndex {
	case QuestionSeenByOthers, QuestionSelfSeen:
		return c.characteristics[label]
	case QuestionValues:
		return c.values[label]
	case QuestionStatements:
		for i, opt := range c.questions[QuestionStatements].Options {
			if opt == label {
				return c.StatementWeight(i)
			}
		}
		return 0
	default:
		return 0
	}
}

// StatementWeight returns the weight of the life statement at optionIndex.
// Indices without a special weight fall back to DefaultStatementWeight.
func (c *Catalog) StatementWeight(optionIndex int) int {
	if w, ok := c.statements[optionIndex]; ok {
		return w
	}
	return DefaultStatementWeight
}
