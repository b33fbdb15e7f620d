package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/afpthedev/smyapp/internal/config"
	"github.com/afpthedev/smyapp/internal/email"
	"github.com/afpthedev/smyapp/internal/handler/health"
	promHandler "github.com/afpthedev/smyapp/internal/handler/prometheus"
	"github.com/afpthedev/smyapp/internal/repository/postgres"
	notificationService "github.com/afpthedev/smyapp/internal/service/notification"
	"github.com/afpthedev/smyapp/pkg/logger"
	"github.com/afpthedev/smyapp/pkg/messaging/redis"
	"github.com/afpthedev/smyapp/pkg/metrics"
	"github.com/afpthedev/smyapp/pkg/worker"
)

const (
	metricsNamespace    = "smyapp_worker"
	cleanupInterval     = time.Hour
	defaultAdminAddress = ":8081"
)

func main() {
	configPath := pflag.String("config", "", "directory holding config.yaml")
	adminAddr := pflag.String("admin-addr", defaultAdminAddress, "listen address for health and metrics")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Pretty: cfg.Log.Pretty,
	})
	log.Logger = *appLogger.Zerolog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(ctx, redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, appLogger.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create Redis broker")
	}
	defer broker.Close()

	outboxRepo := postgres.NewOutboxRepository(db)
	m := metrics.New(metricsNamespace, prometheus.DefaultRegisterer)

	processor, err := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		Channel:       cfg.Redis.Channel,
		BatchSize:     cfg.Outbox.BatchSize,
		PollInterval:  cfg.Outbox.PollInterval,
		RetryAttempts: cfg.Outbox.RetryAttempts,
		RetryDelay:    cfg.Outbox.RetryDelay,
	}, appLogger.WithFields(map[string]interface{}{"component": "outbox"}), m)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid outbox processor config")
	}
	cleanup := worker.NewOutboxCleanupWorker(outboxRepo, cfg.Outbox.Retention, cleanupInterval, appLogger)

	var mailer email.Service
	if cfg.SMTP.Host != "" {
		mailer = email.NewSMTPService(cfg.SMTP)
	} else {
		mailer = email.NewLogService(appLogger)
	}
	notifications := notificationService.NewService(
		postgres.NewNotificationRepository(db),
		postgres.NewAppointmentRepository(db),
		postgres.NewUserRepository(db),
		mailer,
		m,
		appLogger.WithFields(map[string]interface{}{"component": "notifications"}),
	)

	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := scheduler.AddFunc(cfg.Notification.ReminderCron, func() {
		n, err := notifications.ScheduleReminders(ctx, time.Now(), cfg.Notification.ReminderWindow)
		if err != nil {
			log.Error().Err(err).Msg("failed to schedule reminders")
			return
		}
		log.Debug().Int("created", n).Msg("reminders scheduled")
	}); err != nil {
		log.Fatal().Err(err).Str("spec", cfg.Notification.ReminderCron).Msg("invalid reminder schedule")
	}
	if _, err := scheduler.AddFunc(cfg.Notification.DispatchCron, func() {
		n, err := notifications.DispatchPending(ctx, cfg.Notification.BatchSize)
		if err != nil {
			log.Error().Err(err).Msg("failed to dispatch notifications")
			return
		}
		log.Debug().Int("sent", n).Msg("notifications dispatched")
	}); err != nil {
		log.Fatal().Err(err).Str("spec", cfg.Notification.DispatchCron).Msg("invalid dispatch schedule")
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	health.NewHandler(db).RegisterRoutes(engine)
	engine.GET("/metrics", promHandler.New(metricsNamespace, prometheus.DefaultRegisterer, prometheus.DefaultGatherer).Handler())

	adminSrv := &http.Server{
		Addr:              *adminAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := adminSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("health check server failed")
			stop()
		}
	}()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		processor.Start(ctx)
	}()
	go func() {
		defer wg.Done()
		cleanup.Start(ctx)
	}()
	scheduler.Start()
	log.Info().Str("admin_addr", *adminAddr).Msg("worker started")

	<-ctx.Done()
	log.Info().Msg("shutting down...")

	<-scheduler.Stop().Done()
	wg.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := adminSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health check server forced to shutdown")
	}
	log.Info().Msg("worker exited properly")
}
