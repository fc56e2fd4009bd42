package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/care-console/internal/handler"
	"github.com/jwalitptl/care-console/internal/handler/specialty"
	"github.com/jwalitptl/care-console/internal/middleware"
	"github.com/jwalitptl/care-console/internal/session"
	"github.com/jwalitptl/care-console/internal/web"
	"github.com/jwalitptl/care-console/pkg/metrics"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine       *gin.Engine
	h            *handler.Handler
	healthH      Handler
	metricsH     gin.HandlerFunc
	appointmentH Handler
	patientH     Handler
	doctorH      Handler
	specialtyH   Handler
	sessions     *session.Store
	metrics      *metrics.Metrics
	config       RouterConfig
}

type RouterConfig struct {
	RateLimit      rate.Limit
	RateBurst      int
	CORSOrigins    []string
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	CookieName     string
	SecureCookie   bool
}

// Handlers are the route owners the router mounts.
type Handlers struct {
	Pages        *handler.Handler
	Health       Handler
	Metrics      gin.HandlerFunc
	Appointments Handler
	Patients     Handler
	Doctors      Handler
	Specialties  Handler
}

func NewRouter(handlers Handlers, sessions *session.Store, m *metrics.Metrics, config RouterConfig) (*Router, error) {
	engine := gin.New()

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	engine.SetHTMLTemplate(tmpl)

	r := &Router{
		engine:       engine,
		h:            handlers.Pages,
		healthH:      handlers.Health,
		metricsH:     handlers.Metrics,
		appointmentH: handlers.Appointments,
		patientH:     handlers.Patients,
		doctorH:      handlers.Doctors,
		specialtyH:   handlers.Specialties,
		sessions:     sessions,
		metrics:      m,
		config:       config,
	}

	// Add core middlewares
	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig()),
		middleware.Timeout(middleware.TimeoutConfig{Duration: config.RequestTimeout}),
	)

	sizeLimit := middleware.DefaultSizeLimitConfig()
	if config.MaxBodyBytes > 0 {
		sizeLimit.MaxBodySize = config.MaxBodyBytes
	}
	engine.Use(middleware.SizeLimit(sizeLimit))

	engine.Use(middleware.CORS(config.CORSOrigins))

	if config.RateLimit > 0 {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		})
		engine.Use(rateLimiter.RateLimit())
	}

	engine.NoRoute(func(c *gin.Context) {
		middleware.Respond(c, middleware.ErrorResponse{
			Code:    http.StatusNotFound,
			Message: "Page not found",
			TraceID: c.GetString(middleware.ContextRequestID),
		})
	})

	return r, nil
}

func (r *Router) Setup() {
	r.healthH.RegisterRoutes(&r.engine.RouterGroup)
	if r.metricsH != nil {
		r.engine.GET("/metrics", r.metricsH)
	}

	cookieName := r.config.CookieName
	if cookieName == "" {
		cookieName = "console_session"
	}
	console := r.engine.Group("", middleware.Session(r.sessions, cookieName, r.config.SecureCookie))

	console.GET("/", r.h.Welcome)
	console.GET("/landing", r.h.Landing)
	console.GET("/dashboard", r.h.Dashboard)
	console.GET("/login", r.h.NotImplemented("Login"))
	console.GET("/signup", r.h.NotImplemented("Signup"))

	r.appointmentH.RegisterRoutes(console.Group("/appointments"))
	r.patientH.RegisterRoutes(console.Group("/patients", middleware.PHIAccess("patients")))
	r.doctorH.RegisterRoutes(console.Group("/doctors", middleware.PHIAccess("doctors")))
	r.specialtyH.RegisterRoutes(console.Group(specialty.Page))

	r.engine.GET("/specialties", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, specialty.Page)
	})
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.HTTPDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.HTTPRequests.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
