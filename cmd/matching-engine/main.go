// cmd/matching-engine/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"

	"matching-engine/internal/common/aws"
	"matching-engine/internal/common/config"
	"matching-engine/internal/common/database"
	"matching-engine/internal/common/logger"
	"matching-engine/internal/common/observability"
	"matching-engine/internal/matching"
	"matching-engine/internal/notify"
	"matching-engine/internal/server"
	"matching-engine/internal/store"
	mv "matching-engine/internal/workers/matching/match-vendors"
)

// retryWithBackoff attempts to execute a function with exponential backoff.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting matching engine",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	if cfg.Tracing.Enabled {
		tracing, err := observability.Init(cfg.App.Name, cfg.Tracing.JaegerEndpoint)
		if err != nil {
			zapLog.Warn("tracing init failed, continuing without traces", zap.Error(err))
		} else {
			defer tracing.Shutdown()
		}
	}

	ctx := context.Background()

	// --- PostgreSQL (vendor directory + notification sink) ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected")

	// --- Redis (candidate pool cache) ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected")

	// --- Elasticsearch (activity sink) ---
	var es *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return es.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected")

	// --- Optional SNS fan-out ---
	var publisher notify.Publisher
	if cfg.Notifications.SNSEnabled {
		snsPublisher, err := aws.NewSNSPublisher(ctx, cfg.Notifications.AWSRegion, cfg.Notifications.TopicARN)
		if err != nil {
			zapLog.Fatal("sns publisher init failed", zap.Error(err))
		}
		publisher = snsPublisher
		zapLog.Info("SNS fan-out enabled", zap.String("topic", cfg.Notifications.TopicARN))
	}

	// --- Engine wiring ---
	vendors := store.NewVendorStore(
		pg.DB, rdb.Client,
		time.Duration(cfg.Matching.CandidateCacheTTL)*time.Second,
		log,
	)
	notifications := store.NewNotificationStore(pg.DB, log)
	activity := store.NewActivityStore(es.Client, cfg.Database.Elasticsearch.Index, log)
	dispatcher := notify.NewDispatcher(notifications, publisher, cfg.Matching.NotifyLimit, log)

	engine := matching.NewEngine(
		matching.Config{
			MinScore:     cfg.Matching.MinScore,
			MaxMatches:   cfg.Matching.MaxMatches,
			ScoreWorkers: cfg.Matching.ScoreWorkers,
		},
		vendors, dispatcher, activity, log,
	)

	// --- Zeebe worker surface ---
	var zeebeClient zbc.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected")

	if wcfg, ok := cfg.Workers[mv.TaskType]; ok && wcfg.Enabled {
		handler := mv.NewHandler(
			&mv.Config{
				Timeout: time.Duration(wcfg.Timeout) * time.Millisecond,
			},
			engine, log,
		)
		startWorker(zeebeClient, mv.TaskType, wcfg, handler.Handle, zapLog)
	}

	// --- HTTP surface ---
	srv := server.New(engine, log)
	httpServer := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: srv.Router(),
	}
	go func() {
		zapLog.Info("http server listening", zap.String("address", cfg.HTTP.Address))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("http shutdown failed", zap.Error(err))
	}
	zeebeClient.Close()
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
