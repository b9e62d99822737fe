package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"carecircle/internal/config"
	"carecircle/internal/handlers"
	"carecircle/internal/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Router struct {
	Engine *gin.Engine
}

var pages = map[string]string{
	"/":           "index.html",
	"/services":   "services.html",
	"/about":      "about.html",
	"/contact":    "contact.html",
	"/medication": "medication.html",
	"/emergency":  "emergency.html",
	"/health":     "health.html",
}

func NewRouter(cfg config.ServerConfig, log *zap.Logger) *Router {
	r := gin.New()
	r.Use(requestLogger(log), gin.CustomRecovery(handlers.RecoveryHandler), requestMetrics())

	if len(cfg.TrustedProxies) > 0 {
		if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			log.Warn("Invalid trusted proxies, trusting none", zap.Error(err))
			r.SetTrustedProxies(nil)
		}
	} else {
		r.SetTrustedProxies(nil)
	}

	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		MaxAge:          12 * time.Hour,
	}))

	// Health endpoints
	r.GET("/healthz", handlers.LivenessHandler)
	r.HEAD("/healthz", handlers.LivenessHandler)
	r.GET("/readyz", handlers.ReadinessHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthHandler)

		api.POST("/medication", handlers.CreateMedication)
		api.GET("/medications", handlers.GetMedications)

		api.POST("/contact", handlers.CreateContact)
		api.GET("/contacts", handlers.GetContacts)

		api.POST("/emergency", handlers.CreateEmergencyContact)
		api.GET("/emergency-contacts", handlers.GetEmergencyContacts)

		api.POST("/health-check", handlers.CreateHealthCheck)
		api.POST("/clock-interaction", handlers.LogClockInteraction)
		api.GET("/health-records", handlers.GetHealthRecords)

		api.POST("/register", handlers.Register)
		api.POST("/login", handlers.Login)
	}
	r.POST("/register", handlers.Register)

	for path, page := range pages {
		r.GET(path, handlers.PageHandler(cfg.PublicDir, page))
	}
	r.NoRoute(handlers.NotFoundHandler(cfg.PublicDir))

	return &Router{Engine: r}
}

// requestMetrics records request durations by route template
func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequestDuration(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		if c.Request.URL.Path == "/metrics" || c.Request.URL.Path == "/healthz" {
			return
		}
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		}
		if status >= http.StatusInternalServerError {
			log.Warn("HTTP request", fields...)
			return
		}
		log.Debug("HTTP request", fields...)
	}
}
