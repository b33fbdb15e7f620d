package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/afpthedev/smyapp/internal/handler/appointment"
	"github.com/afpthedev/smyapp/internal/handler/appointmenttype"
	"github.com/afpthedev/smyapp/internal/handler/auth"
	"github.com/afpthedev/smyapp/internal/handler/business"
	"github.com/afpthedev/smyapp/internal/handler/customer"
	"github.com/afpthedev/smyapp/internal/handler/finance"
	"github.com/afpthedev/smyapp/internal/handler/guest"
	"github.com/afpthedev/smyapp/internal/handler/health"
	"github.com/afpthedev/smyapp/internal/handler/notification"
	"github.com/afpthedev/smyapp/internal/handler/offeredservice"
	"github.com/afpthedev/smyapp/internal/handler/payment"
	"github.com/afpthedev/smyapp/internal/handler/prometheus"
	"github.com/afpthedev/smyapp/internal/handler/reservation"
	"github.com/afpthedev/smyapp/internal/middleware"
)

const defaultMaxUploadSize = 10 << 20

type Handlers struct {
	Health          *health.Handler
	Metrics         *prometheus.Handler
	Account         *auth.Handler
	Reservation     *reservation.Handler
	Guest           *guest.Handler
	Appointment     *appointment.Handler
	AppointmentType *appointmenttype.Handler
	Notification    *notification.Handler
	Business        *business.Handler
	Customer        *customer.Handler
	OfferedService  *offeredservice.Handler
	Payment         *payment.Handler
	Finance         *finance.Handler
}

type RouterConfig struct {
	RateLimit     rate.Limit
	RateBurst     int
	CORSOrigins   []string
	Timeout       time.Duration
	MaxUploadSize int64
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	handlers Handlers
	config   RouterConfig
	log      zerolog.Logger
}

func NewRouter(auth *middleware.AuthMiddleware, handlers Handlers, config RouterConfig, log zerolog.Logger) *Router {
	if config.MaxUploadSize <= 0 {
		config.MaxUploadSize = defaultMaxUploadSize
	}

	engine := gin.New()
	r := &Router{
		engine:   engine,
		auth:     auth,
		handlers: handlers,
		config:   config,
		log:      log,
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(log),
		middleware.ErrorHandler(log),
		middleware.CORS(config.CORSOrigins),
	)
	if handlers.Metrics != nil {
		engine.Use(handlers.Metrics.Middleware())
	}
	engine.Use(
		middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		}).RateLimit(),
		middleware.Timeout(config.Timeout),
	)
	return r
}

// Setup registers every route. Health, metrics and /api/public are open;
// the rest of /api needs a bearer token.
func (r *Router) Setup() {
	h := r.handlers
	if h.Health != nil {
		h.Health.RegisterRoutes(r.engine)
	}
	if h.Metrics != nil {
		r.engine.GET("/metrics", h.Metrics.Handler())
	}

	api := r.engine.Group("/api")
	h.Guest.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())

	admin := r.auth.RequireAdmin()
	h.Account.RegisterRoutes(protected)
	h.Reservation.RegisterRoutes(protected, admin)
	h.Appointment.RegisterRoutes(protected)
	h.AppointmentType.RegisterRoutes(protected)
	h.Notification.RegisterRoutes(protected)
	h.Business.RegisterRoutes(protected)
	h.Customer.RegisterRoutes(protected, admin)
	h.OfferedService.RegisterRoutes(protected)
	h.Payment.RegisterRoutes(protected)
	h.Finance.RegisterRoutes(protected, middleware.BodyLimit(r.config.MaxUploadSize))
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
