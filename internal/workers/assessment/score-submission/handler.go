// internal/workers/assessment/score-submission/handler.go
package scoresubmission

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"purpose-workers/internal/assessment/exchange"
	"purpose-workers/internal/assessment/scoring"
	"purpose-workers/internal/common/camunda"
	"purpose-workers/internal/common/errors"
	"purpose-workers/internal/common/logger"
	"purpose-workers/internal/common/metrics"
	"purpose-workers/internal/common/validation"
	"purpose-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "score-submission"
)

type Handler struct {
	config *Config
	engine *scoring.Engine
	schema *validation.Schema
	logger logger.Logger
}

func NewHandler(config *Config, engine *scoring.Engine, log logger.Logger) *Handler {
	if engine == nil {
		engine = scoring.NewEngine(nil)
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Handler{
		config: config,
		engine: engine,
		schema: validation.MustCompileMap(inputSchema(engine.Catalog())),
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(ctx context.Context, client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := camunda.ParseVariables(job, &input); err != nil {
		return err
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		return err
	}
	return camunda.CompleteJob(ctx, client, job, output)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if err := h.validate(input); err != nil {
		return nil, err
	}

	answers, err := h.answerSet(input.Answers)
	if err != nil {
		return nil, err
	}

	result, err := h.engine.ScoreSubmission(input.CandidateID, answers, h.config.Now())
	if err != nil {
		h.logger.Warn("submission rejected", map[string]interface{}{
			"candidateId": input.CandidateID,
			"error":       err,
		})
		return nil, errors.FromError(err)
	}

	metrics.RecordScore(string(result.Tier), result.TotalScore)

	h.logger.Info("submission scored", map[string]interface{}{
		"candidateId": result.CandidateID,
		"totalScore":  result.TotalScore,
		"tier":        result.Tier,
	})

	return &Output{
		CandidateID: result.CandidateID,
		TotalScore:  result.TotalScore,
		Tier:        string(result.Tier),
		ScoreResult: exchange.ToExchangePayload(result),
	}, nil
}

func (h *Handler) validate(input *Input) error {
	doc := map[string]interface{}{"candidateId": input.CandidateID}
	if input.Answers != nil {
		doc["answers"] = input.Answers
	}

	result, err := h.schema.Validate(doc)
	if err != nil {
		return errors.NewInputValidationError(err.Error())
	}
	if !result.Valid {
		return errors.NewInputValidationError(strings.Join(result.GetErrorMessages(), "; "))
	}
	return nil
}

// answerSet normalizes either answer form into catalog order. A question
// missing from the keyed form yields an empty selection, which the engine
// reports as incomplete.
func (h *Handler) answerSet(raw interface{}) (models.AnswerSet, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, errors.NewInputValidationError(fmt.Sprintf("encode answers: %v", err))
	}

	var listed [][]int
	if err := json.Unmarshal(data, &listed); err == nil {
		return models.AnswerSet(listed), nil
	}

	var keyed map[string][]int
	if err := json.Unmarshal(data, &keyed); err != nil {
		return nil, errors.NewInputValidationError(fmt.Sprintf("decode answers: %v", err))
	}

	questions := h.engine.Catalog().Questions()
	answers := make(models.AnswerSet, len(questions))
	for i, q := range questions {
		answers[i] = keyed[q.ID]
	}
	return answers, nil
}
