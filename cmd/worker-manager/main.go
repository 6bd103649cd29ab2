// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	awsclients "faculty-ranking-workers/internal/common/aws"
	"faculty-ranking-workers/internal/common/camunda"
	"faculty-ranking-workers/internal/common/config"
	"faculty-ranking-workers/internal/common/database"
	"faculty-ranking-workers/internal/common/logger"
	"faculty-ranking-workers/internal/common/observability"
	"faculty-ranking-workers/internal/common/validation"
	"faculty-ranking-workers/internal/ranking"
	"faculty-ranking-workers/internal/repository"
	"faculty-ranking-workers/internal/scoring"
	"faculty-ranking-workers/pkg/registry"

	gsb "faculty-ranking-workers/internal/workers/recruitment/get-score-breakdown"
	gtr "faculty-ranking-workers/internal/workers/recruitment/get-top-ranked-applications"
	nr "faculty-ranking-workers/internal/workers/recruitment/notify-reviewers"
	rr "faculty-ranking-workers/internal/workers/recruitment/refresh-ranking"
	sa "faculty-ranking-workers/internal/workers/recruitment/submit-application"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service":     cfg.App.Name,
		"environment": cfg.App.Environment,
	})

	log.Info("starting worker manager", map[string]interface{}{"version": cfg.App.Version})

	obs := observability.New(cfg.App.Name, observability.Options{
		TracingEnabled: cfg.Observability.TracingEnabled,
		JaegerEndpoint: cfg.Observability.JaegerEndpoint,
		SampleRatio:    cfg.Observability.SampleRatio,
	})
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	retry := camunda.DefaultRetryConfig

	// --- Zeebe ---
	zeebe, err := camunda.Connect(ctx, &camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
		RetryConfig:            retry,
	}, log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	log.Info("zeebe client connected", map[string]interface{}{"gateway": cfg.Camunda.BrokerAddress})

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = camunda.RetryWithBackoff(ctx, retry, log, "postgres connection", func() error {
		var err error
		if pg, err = database.NewPostgres(cfg.Database.Postgres); err != nil {
			return err
		}
		return pg.Ping(ctx)
	})
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()

	// --- Redis ---
	var rdb *database.RedisClient
	err = camunda.RetryWithBackoff(ctx, retry, log, "redis connection", func() error {
		var err error
		if rdb, err = database.NewRedis(cfg.Database.Redis); err != nil {
			return err
		}
		return rdb.Ping(ctx)
	})
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()

	// --- Elasticsearch (optional: ranking index publish only) ---
	var es *database.ElasticsearchClient
	if cfg.Database.Elasticsearch.GetURL() != "" {
		err = camunda.RetryWithBackoff(ctx, &camunda.RetryConfig{MaxRetries: 3, BaseDelay: 2 * time.Second, MaxDelay: 8 * time.Second},
			log, "elasticsearch connection", func() error {
				var err error
				if es, err = database.NewElasticsearch(cfg.Database.Elasticsearch); err != nil {
					return err
				}
				return es.Ping()
			})
		if err != nil {
			log.Warn("elasticsearch unavailable, ranking index publish disabled", map[string]interface{}{"error": err})
			es = nil
		}
	}
	log.Info("datastores connected", map[string]interface{}{"elasticsearch": es != nil})

	// --- Scoring registry ---
	var reg *registry.ScoringRegistry
	if cfg.Scoring.RegistryPath != "" {
		if reg, err = registry.LoadRegistry(cfg.Scoring.RegistryPath); err != nil {
			zapLog.Fatal("scoring registry load failed", zap.Error(err))
		}
		if err := reg.Validate(); err != nil {
			zapLog.Fatal("scoring registry invalid", zap.Error(err))
		}
	}

	scorers, weights, err := scoring.FromRegistry(reg, time.Now)
	if err != nil {
		zapLog.Fatal("scoring setup failed", zap.Error(err))
	}

	var validator *validation.Validator
	if reg != nil {
		if validator, err = validation.NewValidator(reg.InputSchemas()); err != nil {
			zapLog.Fatal("input schemas invalid", zap.Error(err))
		}
	}

	// --- Repositories and engine ---
	apps := repository.NewApplicationRepository(pg.DB)
	scores := repository.NewScoreRepository(pg.DB)
	rankings := repository.NewRankingRepository(pg.DB)
	audit := repository.NewAuditRepository(pg.DB)

	if err := scores.SyncCriteria(ctx, weights); err != nil {
		zapLog.Fatal("scoring criteria sync failed", zap.Error(err))
	}

	updaterCfg := ranking.Config{LockKey: cfg.Scoring.RankingLockKey, Index: cfg.Scoring.RankingIndex}
	var esClient *elasticsearch.Client
	if es != nil {
		esClient = es.Client
	}
	updater := ranking.NewUpdater(rankings, rdb.Client, esClient, updaterCfg, log)

	orchestrator := scoring.NewOrchestrator(scoring.Deps{
		Loader:  apps,
		Store:   scores,
		Ranking: updater,
		Audit:   audit,
		Scorers: scorers,
		Weights: weights,
		Logger:  log,
		Obs:     obs,
	})

	// --- Notification clients ---
	var sesSvc awsclients.SESService
	var snsSvc awsclients.SNSService
	if cfg.Notifications.Email.Enabled {
		c, err := awsclients.NewSESClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("ses client failed", zap.Error(err))
		}
		sesSvc = c
	}
	if cfg.Notifications.Events.Enabled {
		c, err := awsclients.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client failed", zap.Error(err))
		}
		snsSvc = c
	}

	// --- Workers ---
	client := zeebe.GetClient()
	workers := []*camunda.Worker{
		camunda.StartWorker(client, sa.TaskType, config.GetWorkerConfig(cfg, sa.TaskType),
			sa.NewHandler(sa.LoadConfig(cfg), orchestrator, rdb.Client, validator, log).Handle, obs, log),
		camunda.StartWorker(client, gsb.TaskType, config.GetWorkerConfig(cfg, gsb.TaskType),
			gsb.NewHandler(gsb.LoadConfig(cfg), scores, rdb.Client, validator, log).Handle, obs, log),
		camunda.StartWorker(client, gtr.TaskType, config.GetWorkerConfig(cfg, gtr.TaskType),
			gtr.NewHandler(gtr.LoadConfig(cfg), apps, rdb.Client, scorers.Reputation(), validator, log).Handle, obs, log),
		camunda.StartWorker(client, rr.TaskType, config.GetWorkerConfig(cfg, rr.TaskType),
			rr.NewHandler(rr.LoadConfig(cfg), updater, log).Handle, obs, log),
		camunda.StartWorker(client, nr.TaskType, config.GetWorkerConfig(cfg, nr.TaskType),
			nr.NewHandler(nr.LoadConfig(cfg), apps, sesSvc, snsSvc, validator, log).Handle, obs, log),
	}

	// --- HTTP: health, readiness, metrics ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{"postgres": "ok", "redis": "ok", "zeebe": "ok"}
		status := http.StatusOK
		if err := pg.Ping(checkCtx); err != nil {
			checks["postgres"], status = err.Error(), http.StatusServiceUnavailable
		}
		if err := rdb.Ping(checkCtx); err != nil {
			checks["redis"], status = err.Error(), http.StatusServiceUnavailable
		}
		if err := zeebe.HealthCheck(checkCtx); err != nil {
			checks["zeebe"], status = err.Error(), http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(checks)
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.HTTPPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("http server listening", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server failed", map[string]interface{}{"error": err})
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received, stopping workers", nil)

	for _, w := range workers {
		w.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http server shutdown", map[string]interface{}{"error": err})
	}
	log.Info("worker manager stopped", nil)
}
