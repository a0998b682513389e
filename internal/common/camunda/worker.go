package camunda

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"purpose-workers/internal/common/config"
	"purpose-workers/internal/common/errors"
	"purpose-workers/internal/common/logger"
	"purpose-workers/internal/common/metrics"
	"purpose-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobFunc processes one activated job and completes it. A returned error is
// reported to the broker through the ErrorHandler.
type JobFunc func(ctx context.Context, client worker.JobClient, job entities.Job) error

// Runtime carries what every job needs besides its own handler.
type Runtime struct {
	log    logger.Logger
	errors *errors.ErrorHandler
	obs    *observability.Observability
}

// NewRuntime returns a runtime; obs may be nil.
func NewRuntime(log logger.Logger, obs *observability.Observability) *Runtime {
	return &Runtime{
		log:    log,
		errors: errors.NewErrorHandler(log),
		obs:    obs,
	}
}

// Wrap adapts fn to the Zeebe handler signature. Each job gets its own
// timeout, span and metrics.
func (rt *Runtime) Wrap(taskType string, timeout time.Duration, fn JobFunc) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		done := metrics.JobStarted(taskType)

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		ctx, span := rt.obs.StartSpan(ctx, taskType, job.Key)

		errorCode := ""
		if err := fn(ctx, client, job); err != nil {
			stdErr := rt.errors.HandleJobError(context.Background(), client, job, err)
			errorCode = string(stdErr.Code)
		}

		rt.obs.EndSpan(ctx, span, taskType, start, errorCode)
		done(errorCode)
	}
}

// ParseVariables decodes the job variables into v.
func ParseVariables(job entities.Job, v interface{}) error {
	if err := json.Unmarshal([]byte(job.Variables), v); err != nil {
		return errors.NewInputValidationError(fmt.Sprintf("parse variables: %v", err))
	}
	return nil
}

// CompleteJob completes job with output as its variables.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		return errors.NewInternalError(fmt.Errorf("build complete command: %w", err))
	}
	if _, err := cmd.Send(ctx); err != nil {
		return fmt.Errorf("send complete command: %w", err)
	}
	return nil
}

// WorkerRegistry opens job workers and closes them together on shutdown.
type WorkerRegistry struct {
	client  zbc.Client
	runtime *Runtime
	log     logger.Logger

	mu      sync.Mutex
	workers map[string]worker.JobWorker
}

func NewWorkerRegistry(client zbc.Client, runtime *Runtime, log logger.Logger) *WorkerRegistry {
	return &WorkerRegistry{
		client:  client,
		runtime: runtime,
		log:     log,
		workers: make(map[string]worker.JobWorker),
	}
}

// Start opens a job worker for taskType unless it is disabled. It reports
// whether a worker was opened.
func (r *WorkerRegistry) Start(taskType string, wcfg config.WorkerConfig, fn JobFunc) bool {
	if !wcfg.Enabled {
		r.log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return false
	}

	timeout := wcfg.TimeoutDuration()
	jobWorker := r.client.NewJobWorker().
		JobType(taskType).
		Handler(r.runtime.Wrap(taskType, timeout, fn)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(timeout).
		Name(taskType).
		Open()

	r.mu.Lock()
	r.workers[taskType] = jobWorker
	r.mu.Unlock()

	r.log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeoutMs":     wcfg.Timeout,
	})
	return true
}

// Running lists the task types with an open worker.
func (r *WorkerRegistry) Running() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.workers))
	for taskType := range r.workers {
		out = append(out, taskType)
	}
	return out
}

// Close stops polling and waits for in-flight jobs.
func (r *WorkerRegistry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for taskType, w := range r.workers {
		w.Close()
		w.AwaitClose()
		r.log.Info("worker stopped", map[string]interface{}{"taskType": taskType})
		delete(r.workers, taskType)
	}
}
