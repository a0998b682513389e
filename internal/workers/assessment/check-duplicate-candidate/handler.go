// internal/workers/assessment/check-duplicate-candidate/handler.go
package checkduplicatecandidate

import (
	"context"
	"database/sql"
	goerrors "errors"
	"strings"

	"purpose-workers/internal/common/camunda"
	"purpose-workers/internal/common/database"
	"purpose-workers/internal/common/errors"
	"purpose-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "check-duplicate-candidate"
)

type Handler struct {
	config *Config
	db     *sql.DB
	redis  *redis.Client
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, redis *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
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
	candidateID := strings.TrimSpace(input.CandidateID)
	if candidateID == "" {
		return nil, errors.NewMissingCandidateIDError()
	}

	cacheKey := database.CandidateResultKey(candidateID)
	val, err := h.redis.Get(ctx, cacheKey).Result()
	switch {
	case err == nil:
		isDuplicate := val == database.CandidateScored
		h.logger.Debug("duplicate check answered from cache", map[string]interface{}{
			"candidateId": candidateID,
			"isDuplicate": isDuplicate,
		})
		return &Output{IsDuplicate: isDuplicate, Source: SourceCache}, nil
	case goerrors.Is(err, redis.Nil):
		// miss
	default:
		h.logger.Warn("duplicate cache unavailable, falling back to database", map[string]interface{}{
			"candidateId": candidateID,
			"error":       err,
		})
	}

	exists, err := h.existsByCandidateID(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	cached := database.CandidateUnscored
	if exists {
		cached = database.CandidateScored
	}
	if err := h.redis.Set(ctx, cacheKey, cached, h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("failed to cache duplicate check", map[string]interface{}{
			"candidateId": candidateID,
			"error":       err,
		})
	}

	h.logger.Info("duplicate check completed", map[string]interface{}{
		"candidateId": candidateID,
		"isDuplicate": exists,
	})

	return &Output{IsDuplicate: exists, Source: SourceDatabase}, nil
}

func (h *Handler) existsByCandidateID(ctx context.Context, candidateID string) (bool, error) {
	var exists bool
	err := h.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM score_results
			WHERE candidate_id = $1
		)`, candidateID).Scan(&exists)
	if err != nil {
		if goerrors.Is(err, context.DeadlineExceeded) {
			return false, errors.NewQueryTimeoutError("check duplicate candidate")
		}
		return false, errors.NewQueryExecutionFailedError("check duplicate candidate", err)
	}
	return exists, nil
}
