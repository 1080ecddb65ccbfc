// cmd/quiz-server/main.go
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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rustybadge/after-sales-quiz/internal/api"
	commonaws "github.com/rustybadge/after-sales-quiz/internal/common/aws"
	"github.com/rustybadge/after-sales-quiz/internal/common/camunda"
	"github.com/rustybadge/after-sales-quiz/internal/common/config"
	"github.com/rustybadge/after-sales-quiz/internal/common/database"
	"github.com/rustybadge/after-sales-quiz/internal/common/leads"
	"github.com/rustybadge/after-sales-quiz/internal/common/logger"
	"github.com/rustybadge/after-sales-quiz/internal/common/mail"
	"github.com/rustybadge/after-sales-quiz/internal/common/observability"
	"github.com/rustybadge/after-sales-quiz/internal/common/ratelimit"
	"github.com/rustybadge/after-sales-quiz/internal/plan"
	"github.com/rustybadge/after-sales-quiz/internal/report"

	sp "github.com/rustybadge/after-sales-quiz/internal/workers/communication/send-plan"
	sq "github.com/rustybadge/after-sales-quiz/internal/workers/quiz/score-quiz"
	rp "github.com/rustybadge/after-sales-quiz/internal/workers/report/render-plan"
)

// retryWithBackoff attempts to execute a function with exponential backoff
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

	zapLog.Info("Starting quiz server...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(observability.Options{
		ServiceName:    cfg.Observability.ServiceName,
		JaegerEndpoint: cfg.Observability.JaegerEndpoint,
	})
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}

	ctx := context.Background()

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	if cfg.Database.Redis.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(ctx, cfg.Database.Redis)
			return err
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		zapLog.Info("Redis connected successfully")
	}

	limiter := newLimiter(cfg, rdb)

	// --- Init delivery ---
	mailer, err := mail.NewFromConfig(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("mail provider init failed", zap.Error(err))
	}
	zapLog.Info("Mail provider configured", zap.String("provider", cfg.Mail.Provider))

	var sinks leads.Fanout
	if cfg.Integrations.AWS.SNS.Enabled {
		awsCfg, err := commonaws.LoadConfig(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("aws config failed", zap.Error(err))
		}
		sinks = append(sinks, commonaws.NewTopicPublisher(commonaws.NewSNSClient(awsCfg), cfg.Integrations.AWS.SNS.LeadTopicARN))
		zapLog.Info("Lead alerts enabled", zap.String("topic", cfg.Integrations.AWS.SNS.LeadTopicARN))
	}
	if hook := cfg.Integrations.LeadWebhook; hook.Enabled {
		sinks = append(sinks, leads.NewWebhookClient(hook.URL, hook.Token, config.GetDuration(hook.Timeout)))
		zapLog.Info("Lead webhook enabled", zap.String("url", hook.URL))
	}
	var leadSink plan.LeadPublisher
	if len(sinks) > 0 {
		leadSink = sinks
	}

	brand := report.BrandFromConfig(cfg.Report)
	renderer := report.NewRenderer(brand, logger.Component(log, "report"))
	planService := plan.NewService(plan.Options{
		Mailer:        mailer,
		Limiter:       limiter,
		Leads:         leadSink,
		Brand:         brand,
		FromName:      cfg.Mail.FromName,
		FromEmail:     cfg.Mail.FromEmail,
		ReplyTo:       cfg.Mail.ReplyTo,
		Subject:       cfg.Mail.Subject,
		Timeout:       config.GetDuration(cfg.Mail.Timeout),
		Logger:        logger.Component(log, "plan"),
		Observability: obs,
	})

	// --- Init Zeebe workers with retry ---
	var zeebe *camunda.Client
	var pool *camunda.Pool
	if cfg.Camunda.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			zeebe, err = camunda.NewClient(cfg.Camunda)
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		zapLog.Info("Zeebe client connected successfully")

		pool = camunda.NewPool(zeebe.Zeebe(), log)
		startWorkers(cfg, pool, renderer, planService, obs, log)
	}

	// --- HTTP API ---
	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.Deps{
		Server:        cfg.Server,
		Logger:        log,
		Observability: obs,
		Renderer:      renderer,
		Planner:       planService,
		Ready: func(ctx context.Context) error {
			if rdb != nil {
				if err := rdb.Ping(ctx); err != nil {
					return err
				}
			}
			if zeebe != nil {
				return zeebe.HealthCheck(ctx)
			}
			return nil
		},
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping HTTP server", zap.Error(err))
	}
	if pool != nil {
		pool.Close()
	}
	if zeebe != nil {
		if err := zeebe.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error flushing telemetry", zap.Error(err))
	}

	zapLog.Info("Quiz server stopped gracefully")
}

func newLimiter(cfg *config.Config, rdb *database.RedisClient) ratelimit.Limiter {
	if !cfg.RateLimit.Enabled {
		return ratelimit.Unlimited{}
	}
	rlCfg := ratelimit.Config{
		Requests:  cfg.RateLimit.Requests,
		Window:    config.GetDuration(cfg.RateLimit.Window),
		KeyPrefix: cfg.RateLimit.KeyPrefix,
	}
	if cfg.RateLimit.Backend == "redis" && rdb != nil {
		return ratelimit.NewRedisLimiter(rdb.Client, rlCfg)
	}
	return ratelimit.NewMemoryLimiter(rlCfg)
}

func startWorkers(cfg *config.Config, pool *camunda.Pool, renderer *report.Renderer, planService *plan.Service, obs *observability.Observability, log logger.Logger) {
	if config.IsWorkerEnabled(cfg, sq.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, sq.TaskType)
		handler := sq.NewHandler(
			&sq.Config{Timeout: config.GetDuration(wcfg.Timeout)},
			obs,
			log,
		)
		pool.StartWorker(sq.TaskType, wcfg, handler.Handle)
	}

	if config.IsWorkerEnabled(cfg, rp.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, rp.TaskType)
		rpCfg := rp.LoadConfig()
		rpCfg.Timeout = config.GetDuration(wcfg.Timeout)
		handler := rp.NewHandler(rpCfg, renderer, obs, log)
		pool.StartWorker(rp.TaskType, wcfg, handler.Handle)
	}

	if config.IsWorkerEnabled(cfg, sp.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, sp.TaskType)
		handler := sp.NewHandler(
			&sp.Config{Timeout: config.GetDuration(wcfg.Timeout)},
			planService,
			obs,
			log,
		)
		pool.StartWorker(sp.TaskType, wcfg, handler.Handle)
	}
}
