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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"golang.org/x/time/rate"

	"github.com/afpthedev/smyapp/internal/config"
	"github.com/afpthedev/smyapp/internal/email"
	"github.com/afpthedev/smyapp/internal/handler"
	appointmentHandler "github.com/afpthedev/smyapp/internal/handler/appointment"
	appointmentTypeHandler "github.com/afpthedev/smyapp/internal/handler/appointmenttype"
	authHandler "github.com/afpthedev/smyapp/internal/handler/auth"
	businessHandler "github.com/afpthedev/smyapp/internal/handler/business"
	customerHandler "github.com/afpthedev/smyapp/internal/handler/customer"
	financeHandler "github.com/afpthedev/smyapp/internal/handler/finance"
	guestHandler "github.com/afpthedev/smyapp/internal/handler/guest"
	"github.com/afpthedev/smyapp/internal/handler/health"
	notificationHandler "github.com/afpthedev/smyapp/internal/handler/notification"
	offeredServiceHandler "github.com/afpthedev/smyapp/internal/handler/offeredservice"
	paymentHandler "github.com/afpthedev/smyapp/internal/handler/payment"
	promHandler "github.com/afpthedev/smyapp/internal/handler/prometheus"
	reservationHandler "github.com/afpthedev/smyapp/internal/handler/reservation"
	"github.com/afpthedev/smyapp/internal/middleware"
	"github.com/afpthedev/smyapp/internal/repository/postgres"
	"github.com/afpthedev/smyapp/internal/router"
	appointmentService "github.com/afpthedev/smyapp/internal/service/appointment"
	appointmentTypeService "github.com/afpthedev/smyapp/internal/service/appointmenttype"
	authService "github.com/afpthedev/smyapp/internal/service/auth"
	businessService "github.com/afpthedev/smyapp/internal/service/business"
	customerService "github.com/afpthedev/smyapp/internal/service/customer"
	eventService "github.com/afpthedev/smyapp/internal/service/event"
	financeService "github.com/afpthedev/smyapp/internal/service/finance"
	guestService "github.com/afpthedev/smyapp/internal/service/guest"
	notificationService "github.com/afpthedev/smyapp/internal/service/notification"
	offeredServiceService "github.com/afpthedev/smyapp/internal/service/offeredservice"
	paymentService "github.com/afpthedev/smyapp/internal/service/payment"
	reservationService "github.com/afpthedev/smyapp/internal/service/reservation"
	"github.com/afpthedev/smyapp/pkg/auth"
	"github.com/afpthedev/smyapp/pkg/logger"
	"github.com/afpthedev/smyapp/pkg/metrics"
	"github.com/afpthedev/smyapp/pkg/validator"
)

const metricsNamespace = "smyapp"

func main() {
	configPath := pflag.String("config", "", "directory holding config.yaml")
	pflag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Pretty: cfg.Log.Pretty,
	})
	log.Logger = *appLogger.Zerolog()

	if err := validator.Register(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validators")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Initialize repositories
	reservationRepo := postgres.NewReservationRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	appointmentTypeRepo := postgres.NewAppointmentTypeRepository(db)
	businessRepo := postgres.NewBusinessRepository(db)
	customerRepo := postgres.NewCustomerRepository(db)
	offeredServiceRepo := postgres.NewOfferedServiceRepository(db)
	financeEntryRepo := postgres.NewFinanceEntryRepository(db)
	financeDocumentRepo := postgres.NewFinanceDocumentRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	userRepo := postgres.NewUserRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	m := metrics.New(metricsNamespace, prometheus.DefaultRegisterer)

	var mailer email.Service
	if cfg.SMTP.Host != "" {
		mailer = email.NewSMTPService(cfg.SMTP)
	} else {
		mailer = email.NewLogService(appLogger)
	}

	// Initialize services
	eventSvc := eventService.NewService(outboxRepo)
	authSvc := authService.NewService(userRepo, auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer))
	summaries := reservationService.NewSummaryCache(cfg.Cache.SummaryTTL, cfg.Cache.CleanupInterval)
	reservationSvc := reservationService.NewService(reservationRepo, customerRepo, userRepo, eventSvc, summaries, m, appLogger)
	guestSvc := guestService.NewService(reservationRepo, customerRepo, offeredServiceRepo, businessRepo, eventSvc, summaries, appLogger)
	appointmentSvc := appointmentService.NewService(appointmentRepo, appointmentTypeRepo, appLogger)
	appointmentTypeSvc := appointmentTypeService.NewService(appointmentTypeRepo, appLogger)
	notificationSvc := notificationService.NewService(notificationRepo, appointmentRepo, userRepo, mailer, m, appLogger)
	businessSvc := businessService.NewService(businessRepo, appLogger)
	customerSvc := customerService.NewService(customerRepo, appLogger)
	offeredServiceSvc := offeredServiceService.NewService(offeredServiceRepo, businessRepo, appLogger)
	paymentSvc := paymentService.NewService(paymentRepo, appLogger)
	financeSvc := financeService.NewService(financeEntryRepo, financeDocumentRepo, appLogger)

	// Initialize handlers
	base := handler.NewBaseHandler(cfg.Server.MaxPageSize)
	handlers := router.Handlers{
		Health:          health.NewHandler(db),
		Metrics:         promHandler.New(metricsNamespace, prometheus.DefaultRegisterer, prometheus.DefaultGatherer),
		Account:         authHandler.NewHandler(),
		Reservation:     reservationHandler.NewHandler(base, reservationSvc),
		Guest:           guestHandler.NewHandler(guestSvc),
		Appointment:     appointmentHandler.NewHandler(base, appointmentSvc),
		AppointmentType: appointmentTypeHandler.NewHandler(base, appointmentTypeSvc),
		Notification:    notificationHandler.NewHandler(base, notificationSvc),
		Business:        businessHandler.NewHandler(base, businessSvc),
		Customer:        customerHandler.NewHandler(base, customerSvc, reservationSvc),
		OfferedService:  offeredServiceHandler.NewHandler(base, offeredServiceSvc),
		Payment:         paymentHandler.NewHandler(base, paymentSvc),
		Finance:         financeHandler.NewHandler(base, financeSvc),
	}

	if appLogger.Zerolog().GetLevel() > logger.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup router
	timeout := time.Duration(cfg.Server.TimeoutSeconds) * time.Second
	r := router.NewRouter(middleware.NewAuthMiddleware(authSvc), handlers, router.RouterConfig{
		RateLimit:   rate.Limit(cfg.Server.RateLimit),
		RateBurst:   cfg.Server.RateBurst,
		CORSOrigins: cfg.Server.CORSOrigins,
		Timeout:     timeout,
	}, log.Logger)
	r.Setup()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server exited properly")
}
