// internal/workers/assessment/notify-hr-platform/handler.go
package notifyhrplatform

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"purpose-workers/internal/assessment/exchange"
	"purpose-workers/internal/common/aws"
	"purpose-workers/internal/common/camunda"
	"purpose-workers/internal/common/errors"
	"purpose-workers/internal/common/logger"
	"purpose-workers/internal/models"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "notify-hr-platform"
)

type Handler struct {
	config *Config
	sns    aws.SNSPublisher
	ses    aws.SESSender
	logger logger.Logger
}

func NewHandler(config *Config, snsClient aws.SNSPublisher, sesClient aws.SESSender, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		sns:    snsClient,
		ses:    sesClient,
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

	platform := strings.ToLower(strings.TrimSpace(input.Platform))
	if platform == "" {
		platform = models.PlatformGeneric
	}
	if !models.ValidPlatform(platform) {
		return nil, errors.NewInvalidPlatformError(input.Platform)
	}

	notificationID := uuid.New().String()
	output := &Output{
		NotificationID: notificationID,
		Platform:       platform,
	}

	if !h.snsEnabled() && !h.sesEnabled() {
		h.logger.Info("hr notifications disabled", map[string]interface{}{
			"candidateId": result.CandidateID,
		})
		output.NotificationStatus = models.NotificationStatusDisabled
		return output, nil
	}

	sentAt := time.Now().UTC().Format(time.RFC3339)
	notification := models.HRNotification{
		NotificationID: notificationID,
		Platform:       platform,
		Event:          EventScoreComputed,
		Result:         exchange.ToExchangePayload(result),
		SentAt:         sentAt,
	}

	if h.snsEnabled() {
		messageID, err := h.publish(ctx, &notification, result)
		if err != nil {
			return nil, err
		}
		output.MessageID = messageID
	}

	if h.sesEnabled() {
		if err := h.sendSummary(ctx, input.CandidateName, platform, result); err != nil {
			// The email is a courtesy copy once SNS has the event.
			if output.MessageID == "" {
				return nil, err
			}
			h.logger.Warn("hr summary email failed", map[string]interface{}{
				"candidateId": result.CandidateID,
				"error":       err,
			})
		} else {
			output.EmailSent = true
		}
	}

	output.NotificationStatus = models.NotificationStatusSent
	output.SentAt = sentAt

	h.logger.Info("hr platform notified", map[string]interface{}{
		"notificationId": notificationID,
		"candidateId":    result.CandidateID,
		"platform":       platform,
		"messageId":      output.MessageID,
		"emailSent":      output.EmailSent,
	})

	return output, nil
}

func (h *Handler) snsEnabled() bool {
	return h.config.SNSEnabled && h.sns != nil && h.config.TopicARN != ""
}

func (h *Handler) sesEnabled() bool {
	return h.config.SESEnabled && h.ses != nil && h.config.HREmail != ""
}

func (h *Handler) publish(ctx context.Context, notification *models.HRNotification, result *models.ScoreResult) (string, error) {
	message, err := json.Marshal(notification)
	if err != nil {
		return "", errors.NewNotificationSendFailedError("sns", fmt.Errorf("marshal notification: %w", err))
	}

	out, err := h.sns.Publish(ctx, &sns.PublishInput{
		TopicArn: awssdk.String(h.config.TopicARN),
		Message:  awssdk.String(string(message)),
		MessageAttributes: aws.StringAttributes(map[string]string{
			"event":       notification.Event,
			"platform":    notification.Platform,
			"tier":        string(result.Tier),
			"candidateId": result.CandidateID,
		}),
	})
	if err != nil {
		return "", errors.NewNotificationSendFailedError("sns", err)
	}
	return awssdk.ToString(out.MessageId), nil
}

func (h *Handler) sendSummary(ctx context.Context, candidateName, platform string, result *models.ScoreResult) error {
	who := result.CandidateID
	if candidateName != "" {
		who = fmt.Sprintf("%s (%s)", candidateName, result.CandidateID)
	}

	subject := fmt.Sprintf("Questionário de propósito concluído: %s", who)
	body := fmt.Sprintf(
		"Candidato: %s\nPlataforma: %s\nPontuação: %d\nClassificação: %s\nCalculado em: %s\n\n%s\n",
		who,
		platform,
		result.TotalScore,
		result.Tier,
		result.ComputedAt.Format(time.RFC3339),
		result.Analysis.ProfileSummary,
	)

	input := aws.TextEmail(h.config.FromEmail, []string{h.config.HREmail}, subject, body)
	if _, err := h.ses.SendEmail(ctx, input); err != nil {
		return errors.NewNotificationSendFailedError("ses", err)
	}
	return nil
}
