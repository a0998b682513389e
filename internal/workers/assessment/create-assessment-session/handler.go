// internal/workers/assessment/create-assessment-session/handler.go
package createassessmentsession

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"purpose-workers/internal/common/camunda"
	"purpose-workers/internal/common/database"
	"purpose-workers/internal/common/errors"
	"purpose-workers/internal/common/logger"
	"purpose-workers/internal/common/validation"
	"purpose-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "create-assessment-session"
)

type Handler struct {
	config *Config
	redis  *redis.Client
	logger logger.Logger
}

func NewHandler(config *Config, redis *redis.Client, log logger.Logger) *Handler {
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Handler{
		config: config,
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
	platform, err := h.validateInput(input)
	if err != nil {
		return nil, err
	}

	now := h.config.Now().UTC()
	sessionID := uuid.New().String()

	session := &models.AssessmentSession{
		SessionID:   sessionID,
		CandidateID: strings.TrimSpace(input.CandidateID),
		Name:        strings.TrimSpace(input.Name),
		Email:       strings.TrimSpace(input.Email),
		Platform:    platform,
		JobTitle:    input.JobTitle,
		Company:     input.Company,
		Link:        strings.TrimRight(h.config.BaseURL, "/") + sessionPath + sessionID,
		Status:      models.SessionStatusSent,
		CreatedAt:   now,
		ExpiresAt:   now.Add(h.config.SessionTTL),
	}

	data, err := json.Marshal(session)
	if err != nil {
		return nil, errors.NewSessionCreateFailedError(fmt.Errorf("marshal session: %w", err))
	}

	if err := h.redis.Set(ctx, database.SessionKey(sessionID), data, h.config.SessionTTL).Err(); err != nil {
		return nil, errors.NewSessionCreateFailedError(err)
	}

	h.logger.Info("assessment session created", map[string]interface{}{
		"sessionId":   sessionID,
		"candidateId": session.CandidateID,
		"platform":    platform,
		"expiresAt":   session.ExpiresAt,
	})

	return &Output{
		SessionID:     sessionID,
		CandidateID:   session.CandidateID,
		SessionLink:   session.Link,
		SessionStatus: session.Status,
		ExpiresAt:     session.ExpiresAt.Format(time.RFC3339),
	}, nil
}

// validateInput returns the normalized platform. An empty platform means the
// invitation did not come through an HR integration.
func (h *Handler) validateInput(input *Input) (string, error) {
	var problems []string
	if strings.TrimSpace(input.CandidateID) == "" {
		return "", errors.NewMissingCandidateIDError()
	}
	if strings.TrimSpace(input.Name) == "" {
		problems = append(problems, "name is required")
	}
	if !validation.ValidateEmail(strings.TrimSpace(input.Email)) {
		problems = append(problems, "email is invalid")
	}
	if len(problems) > 0 {
		return "", errors.NewInputValidationError(strings.Join(problems, "; "))
	}

	platform := strings.ToLower(strings.TrimSpace(input.Platform))
	if platform == "" {
		platform = models.PlatformGeneric
	}
	if !models.ValidPlatform(platform) {
		return "", errors.NewInvalidPlatformError(input.Platform)
	}
	return platform, nil
}
