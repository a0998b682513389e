// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"purpose-workers/internal/assessment/catalog"
	"purpose-workers/internal/assessment/scoring"
	"purpose-workers/internal/common/aws"
	"purpose-workers/internal/common/camunda"
	"purpose-workers/internal/common/config"
	"purpose-workers/internal/common/database"
	"purpose-workers/internal/common/logger"
	"purpose-workers/internal/common/observability"
	"purpose-workers/pkg/registry"

	cdc "purpose-workers/internal/workers/assessment/check-duplicate-candidate"
	cas "purpose-workers/internal/workers/assessment/create-assessment-session"
	isr "purpose-workers/internal/workers/assessment/index-score-result"
	nhp "purpose-workers/internal/workers/assessment/notify-hr-platform"
	ssr "purpose-workers/internal/workers/assessment/save-score-result"
	ss "purpose-workers/internal/workers/assessment/score-submission"
)

const serviceName = "purpose-workers"

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err,
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func fatal(log logger.Logger, msg string, err error) {
	log.Error(msg, map[string]interface{}{"error": err})
	os.Exit(1)
}

func main() {
	bootLog := logger.NewStructured("info", "console")

	cfg, envFile, err := config.Load()
	if err != nil {
		fatal(bootLog, "config load failed", err)
	}

	log := logger.NewService(serviceName, cfg.Logging.Level, cfg.Logging.Format)
	log.Info("starting worker manager", map[string]interface{}{
		"environment": cfg.App.Environment,
		"version":     cfg.App.Version,
		"envFile":     envFile,
	})

	if v := cfg.Assessment.CatalogVersion; v != "" && v != catalog.DefaultVersion {
		fatal(log, "unsupported catalog version", fmt.Errorf("configured %q, built with %q", v, catalog.DefaultVersion))
	}

	obs, err := observability.New(serviceName, prometheus.DefaultRegisterer)
	if err != nil {
		fatal(log, "observability setup failed", err)
	}

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(ctx, &camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: cfg.Camunda.UsePlaintextConnection,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, log, "Zeebe client initialization")
	if err != nil {
		fatal(log, "zeebe client failed after retries", err)
	}
	defer zeebe.Close()
	log.Info("Zeebe client connected successfully", nil)

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, log, "PostgreSQL connection")
	if err != nil {
		fatal(log, "postgres failed after retries", err)
	}
	defer pg.Close()
	if err := pg.EnsureSchema(ctx); err != nil {
		fatal(log, "postgres schema setup failed", err)
	}
	log.Info("PostgreSQL connected successfully", nil)

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch, nil)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, log, "Elasticsearch connection")
	if err != nil {
		fatal(log, "elasticsearch failed after retries", err)
	}
	if err := esClient.EnsureResultsIndex(ctx, cfg.Assessment.ResultsIndex); err != nil {
		fatal(log, "elasticsearch index setup failed", err)
	}
	log.Info("Elasticsearch connected successfully", nil)

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, log, "Redis connection")
	if err != nil {
		fatal(log, "redis failed after retries", err)
	}
	defer redis.Close()
	log.Info("Redis connected successfully", nil)

	// --- Init AWS notification clients ---
	var (
		snsClient aws.SNSPublisher
		sesClient aws.SESSender
	)
	if cfg.Notifications.SNS.Enabled || cfg.Notifications.SES.Enabled {
		awsCfg, err := aws.LoadConfig(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			fatal(log, "aws config failed", err)
		}
		if cfg.Notifications.SNS.Enabled {
			snsClient = aws.NewSNSClient(awsCfg)
		}
		if cfg.Notifications.SES.Enabled {
			sesClient = aws.NewSESClient(awsCfg)
		}
		log.Info("AWS notification clients initialized", map[string]interface{}{
			"region": cfg.Notifications.AWS.Region,
			"sns":    cfg.Notifications.SNS.Enabled,
			"ses":    cfg.Notifications.SES.Enabled,
		})
	}

	// --- Register workers ---
	runtime := camunda.NewRuntime(log, obs)
	workers := camunda.NewWorkerRegistry(zeebe.GetClient(), runtime, log)
	engine := scoring.NewEngine(catalog.Default())

	workers.Start(cas.TaskType, config.GetWorkerConfig(cfg, cas.TaskType),
		cas.NewHandler(cas.LoadConfig(cfg), redis.Client, log).Handle)
	workers.Start(ss.TaskType, config.GetWorkerConfig(cfg, ss.TaskType),
		ss.NewHandler(ss.LoadConfig(cfg), engine, log).Handle)
	workers.Start(cdc.TaskType, config.GetWorkerConfig(cfg, cdc.TaskType),
		cdc.NewHandler(cdc.LoadConfig(cfg), pg.DB, redis.Client, log).Handle)
	workers.Start(ssr.TaskType, config.GetWorkerConfig(cfg, ssr.TaskType),
		ssr.NewHandler(ssr.LoadConfig(cfg), engine, pg.DB, redis.Client, log).Handle)
	workers.Start(isr.TaskType, config.GetWorkerConfig(cfg, isr.TaskType),
		isr.NewHandler(isr.LoadConfig(cfg), esClient.Client, log).Handle)
	workers.Start(nhp.TaskType, config.GetWorkerConfig(cfg, nhp.TaskType),
		nhp.NewHandler(nhp.LoadConfig(cfg), snsClient, sesClient, log).Handle)

	log.Info("workers registered", map[string]interface{}{
		"running": workers.Running(),
	})

	if activities, err := registry.LoadRegistry(registry.DefaultPath); err != nil {
		log.Warn("activity registry not loaded", map[string]interface{}{"path": registry.DefaultPath, "error": err})
	} else if err := activities.Validate(); err != nil {
		log.Warn("activity registry invalid", map[string]interface{}{"error": err})
	} else if missing := activities.Unregistered(workers.Running()); len(missing) > 0 {
		log.Warn("running workers missing from activity registry", map[string]interface{}{"taskTypes": missing})
	}

	// --- Health, readiness and metrics ---
	server := &http.Server{
		Addr: cfg.Server.Address,
		Handler: newServerMux(map[string]readinessCheck{
			"zeebe":    zeebe.HealthCheck,
			"postgres": pg.Ping,
			"redis":    redis.Ping,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("health server listening", map[string]interface{}{"address": server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("health server failed", map[string]interface{}{"error": err})
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutdown signal received, stopping workers...", nil)
	workers.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("health server shutdown failed", map[string]interface{}{"error": err})
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		log.Warn("observability shutdown failed", map[string]interface{}{"error": err})
	}

	log.Info("worker manager stopped", nil)
}
