package catalog

import (
	"errors"
	"sync"
	"testing"

	"purpose-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Questions(t *testing.T) {
	c := Default()

	assert.Equal(t, DefaultVersion, c.Version())

	questions := c.Questions()
	require.Len(t, questions, models.QuestionCount)

	assert.Equal(t, "caracteristicas-outros", questions[0].ID)
	assert.Equal(t, "caracteristicas-eu", questions[1].ID)
	assert.Equal(t, "frases-vida", questions[2].ID)
	assert.Equal(t, "valores", questions[3].ID)

	assert.Equal(t, questions[0].Options, questions[1].Options)
}

func TestDefault_EveryOptionIsWeighted(t *testing.T) {
	c := Default()

	for qi := 0; qi < models.QuestionCount; qi++ {
		q, err := c.Question(qi)
		require.NoError(t, err)
		for _, opt := range q.Options {
			assert.Greater(t, c.Weight(qi, opt), 0, "question %d option %q", qi, opt)
		}
	}
}

func TestCatalog_Question_OutOfRange(t *testing.T) {
	c := Default()

	for _, idx := range []int{-1, 4, 100} {
		_, err := c.Question(idx)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrIndexOutOfRange), "index %d", idx)
	}
}

func TestCatalog_Question_ReturnsCopy(t *testing.T) {
	c := Default()

	q, err := c.Question(0)
	require.NoError(t, err)
	q.Options[0] = "mutated"

	again, err := c.Question(0)
	require.NoError(t, err)
	assert.Equal(t, "Comprometido", again.Options[0])
}

func TestCatalog_Weight(t *testing.T) {
	c := Default()

	tests := []struct {
		name     string
		question int
		label    string
		expected int
	}{
		{"characteristic seen by others", QuestionSeenByOthers, "Ético", 5},
		{"characteristic self seen shares table", QuestionSelfSeen, "Ético", 5},
		{"low characteristic", QuestionSelfSeen, "Reservado", 1},
		{"value", QuestionValues, "Cooperação", 4},
		{"special statement", QuestionStatements, "Busco fazer a diferença na vida das pessoas", 5},
		{"default statement", QuestionStatements, "Sou movido por reconhecimento", DefaultStatementWeight},
		{"unknown characteristic", QuestionSeenByOthers, "nonexistent-option", 0},
		{"unknown value", QuestionValues, "nonexistent-option", 0},
		{"unknown statement", QuestionStatements, "nonexistent-option", 0},
		{"value label on characteristic question", QuestionSeenByOthers, "Integridade", 0},
		{"unknown question", 9, "Ético", 0},
		{"negative question", -1, "Ético", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Weight(tt.question, tt.label))
		})
	}
}

func TestCatalog_StatementWeight(t *testing.T) {
	c := Default()

	assert.Equal(t, 5, c.StatementWeight(0))
	assert.Equal(t, 4, c.StatementWeight(6))
	assert.Equal(t, DefaultStatementWeight, c.StatementWeight(3))
	assert.Equal(t, DefaultStatementWeight, c.StatementWeight(9))
}

func TestCatalog_OptionLabel(t *testing.T) {
	c := Default()

	label, ok := c.OptionLabel(QuestionValues, 0)
	assert.True(t, ok)
	assert.Equal(t, "Integridade", label)

	_, ok = c.OptionLabel(QuestionValues, 12)
	assert.False(t, ok)

	_, ok = c.OptionLabel(7, 0)
	assert.False(t, ok)

	assert.Equal(t, 20, c.OptionCount(QuestionSeenByOthers))
	assert.Equal(t, 10, c.OptionCount(QuestionStatements))
	assert.Equal(t, 0, c.OptionCount(-1))
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(q []models.QuestionDefinition, tb *Tables) []models.QuestionDefinition
	}{
		{
			name: "wrong question count",
			mutate: func(q []models.QuestionDefinition, _ *Tables) []models.QuestionDefinition {
				return q[:3]
			},
		},
		{
			name: "duplicate option",
			mutate: func(q []models.QuestionDefinition, _ *Tables) []models.QuestionDefinition {
				q[3].Options[1] = q[3].Options[0]
				return q
			},
		},
		{
			name: "too few options",
			mutate: func(q []models.QuestionDefinition, _ *Tables) []models.QuestionDefinition {
				q[2].Options = q[2].Options[:4]
				return q
			},
		},
		{
			name: "diverging characteristic options",
			mutate: func(q []models.QuestionDefinition, _ *Tables) []models.QuestionDefinition {
				q[1].Options[0] = "Outro"
				return q
			},
		},
		{
			name: "zero weight",
			mutate: func(q []models.QuestionDefinition, tb *Tables) []models.QuestionDefinition {
				tb.Values["Integridade"] = 0
				return q
			},
		},
		{
			name: "negative statement weight",
			mutate: func(q []models.QuestionDefinition, tb *Tables) []models.QuestionDefinition {
				tb.Statements[4] = -2
				return q
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables := DefaultTables()
			questions := tt.mutate(DefaultQuestions(), &tables)

			c, err := New("test", questions, tables)
			assert.Nil(t, c)
			assert.True(t, errors.Is(err, ErrInvalidCatalog))
		})
	}
}

func TestNew_CopiesInput(t *testing.T) {
	questions := DefaultQuestions()
	tables := DefaultTables()

	c, err := New("test", questions, tables)
	require.NoError(t, err)

	questions[3].Options[0] = "changed"
	tables.Values["Integridade"] = 50

	label, _ := c.OptionLabel(QuestionValues, 0)
	assert.Equal(t, "Integridade", label)
	assert.Equal(t, 5, c.Weight(QuestionValues, "Integridade"))
}

func TestCatalog_ConcurrentReads(t *testing.T) {
	c := Default()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for qi := 0; qi < models.QuestionCount; qi++ {
				q, err := c.Question(qi)
				assert.NoError(t, err)
				for _, opt := range q.Options {
					_ = c.Weight(qi, opt)
				}
			}
		}()
	}
	wg.Wait()
}
