// internal/workers/assessment/save-score-result/handler.go
package savescoreresult

import (
	"context"
	"database/sql"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"strings"
	"time"

	"purpose-workers/internal/assessment/exchange"
	"purpose-workers/internal/assessment/scoring"
	"purpose-workers/internal/common/camunda"
	"purpose-workers/internal/common/database"
	"purpose-workers/internal/common/errors"
	"purpose-workers/internal/common/logger"
	"purpose-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "save-score-result"
)

type Handler struct {
	config *Config
	engine *scoring.Engine
	db     *sql.DB
	redis  *redis.Client
	logger logger.Logger
}

// NewHandler builds the handler. A nil engine scores against the default
// catalog.
func NewHandler(config *Config, engine *scoring.Engine, db *sql.DB, redis *redis.Client, log logger.Logger) *Handler {
	if engine == nil {
		engine = scoring.NewEngine(nil)
	}
	return &Handler{
		config: config,
		engine: engine,
		db:     db,
		redis:  redis,
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	result, err := exchange.FromExchangePayload(input.ScoreResult)
	if err != nil {
		return nil, errors.NewMalformedPayloadError(err.Error())
	}

	// Same key form as check-duplicate-candidate.
	result.CandidateID = strings.TrimSpace(result.CandidateID)

	// Only results the engine would produce from these answers are stored.
	if err := h.engine.Verify(result); err != nil {
		return nil, errors.NewMalformedPayloadError(err.Error())
	}

	var exists bool
	err = h.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM score_results
			WHERE candidate_id = $1
		)`, result.CandidateID).Scan(&exists)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("duplicate check", err)
	}
	if exists {
		return nil, errors.NewDuplicateCandidateError(result.CandidateID)
	}

	// Stored in canonical form so the row reads back identically.
	payloadJSON, err := json.Marshal(exchange.ToExchangePayload(result))
	if err != nil {
		return nil, errors.NewDatabaseInsertFailedError(fmt.Errorf("marshal payload: %w", err))
	}

	resultID := uuid.New().String()
	savedAt := time.Now().UTC()

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO score_results (
			id, candidate_id, total_score, tier, payload, computed_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		resultID,
		result.CandidateID,
		result.TotalScore,
		string(result.Tier),
		payloadJSON,
		result.ComputedAt,
		savedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if goerrors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, errors.NewDuplicateCandidateError(result.CandidateID)
		}
		return nil, errors.NewDatabaseInsertFailedError(err)
	}

	h.writeAuditLog(ctx, resultID, result, savedAt)
	h.primeDuplicateCache(ctx, result.CandidateID)

	h.logger.Info("score result saved", map[string]interface{}{
		"resultId":    resultID,
		"candidateId": result.CandidateID,
		"totalScore":  result.TotalScore,
		"tier":        result.Tier,
	})

	return &Output{
		ResultID:    resultID,
		CandidateID: result.CandidateID,
		SavedAt:     savedAt.Format(time.RFC3339),
	}, nil
}

// writeAuditLog is best effort; a failure is logged and the save stands.
func (h *Handler) writeAuditLog(ctx context.Context, resultID string, result *models.ScoreResult, at time.Time) {
	details, err := json.Marshal(map[string]interface{}{
		"candidateId": result.CandidateID,
		"totalScore":  result.TotalScore,
		"tier":        result.Tier,
	})
	if err != nil {
		h.logger.Warn("failed to marshal audit log details", map[string]interface{}{
			"error": err,
		})
		details = []byte("{}")
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		"score_result_saved",
		"score_result",
		resultID,
		details,
		at,
	)
	if err != nil {
		h.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":    err,
			"resultId": resultID,
		})
	}
}

func (h *Handler) primeDuplicateCache(ctx context.Context, candidateID string) {
	key := database.CandidateResultKey(candidateID)
	if err := h.redis.Set(ctx, key, database.CandidateScored, h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("failed to prime duplicate cache", map[string]interface{}{
			"candidateId": candidateID,
			"error":       err,
		})
	}
}
