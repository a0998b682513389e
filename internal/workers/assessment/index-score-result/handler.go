// internal/workers/assessment/index-score-result/handler.go
package indexscoreresult

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"purpose-workers/internal/assessment/exchange"
	"purpose-workers/internal/common/camunda"
	"purpose-workers/internal/common/errors"
	"purpose-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const (
	TaskType = "index-score-result"
)

type Handler struct {
	config *Config
	client *elasticsearch.Client
	logger logger.Logger
}

func NewHandler(config *Config, client *elasticsearch.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		client: client,
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

	body, err := json.Marshal(exchange.ToExchangePayload(result))
	if err != nil {
		return nil, errors.NewIndexingFailedError(h.config.IndexName, fmt.Errorf("marshal document: %w", err))
	}

	// Re-indexing the same candidate overwrites the previous document.
	req := esapi.IndexRequest{
		Index:      h.config.IndexName,
		DocumentID: result.CandidateID,
		Body:       bytes.NewReader(body),
		Refresh:    h.config.Refresh,
	}

	res, err := req.Do(ctx, h.client)
	if err != nil {
		return nil, errors.NewIndexingFailedError(h.config.IndexName, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return nil, errors.NewIndexingFailedError(h.config.IndexName,
			fmt.Errorf("index request failed: %s: %s", res.Status(), bytes.TrimSpace(detail)))
	}

	var parsed indexResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		h.logger.Warn("failed to decode index response", map[string]interface{}{
			"error": err,
		})
	}

	h.logger.Info("score result indexed", map[string]interface{}{
		"index":       h.config.IndexName,
		"candidateId": result.CandidateID,
		"result":      parsed.Result,
		"version":     parsed.Version,
	})

	return &Output{
		Indexed:     true,
		IndexName:   h.config.IndexName,
		DocumentID:  result.CandidateID,
		IndexResult: parsed.Result,
	}, nil
}
