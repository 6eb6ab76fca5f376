package server

import (
	"fmt"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/critiqlabs/critiq/internal/config"
	"github.com/critiqlabs/critiq/internal/handler"
	"github.com/critiqlabs/critiq/internal/metrics"
	"github.com/critiqlabs/critiq/internal/middleware"
)

// Server wraps the HTTP router and its listen port
type Server struct {
	port   int
	router *gin.Engine
	logger *zap.Logger
}

// New creates a new HTTP server
func New(cfg *config.Config, feedbackHandler *handler.FeedbackHandler, collector *metrics.Collector, logger *zap.Logger) *Server {
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		port:   cfg.Server.Port,
		router: gin.New(),
		logger: logger,
	}
	s.setupRoutes(cfg, feedbackHandler, collector)
	return s
}

// setupRoutes configures middleware and HTTP routes. Health and metrics sit
// outside the rate-limited API group so probes are never throttled.
func (s *Server) setupRoutes(cfg *config.Config, feedbackHandler *handler.FeedbackHandler, collector *metrics.Collector) {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.RequestLogger(s.logger))
	s.router.Use(collector.Middleware())
	s.router.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORS.AllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID", "Retry-After"},
	}))

	s.router.GET("/health", handler.HandleHealth)
	s.router.GET("/metrics", collector.Handler())

	api := s.router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute).Middleware())
	}
	api.POST("/feedback", feedbackHandler.HandleFeedback)
	api.POST("/feedback/structured", feedbackHandler.HandleStructuredFeedback)
	if feedbackHandler.HistoryEnabled() {
		api.GET("/history", feedbackHandler.HandleHistory)
	}
}

// Start starts the HTTP server and blocks until it exits
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.Int("port", s.port))
	if err := s.router.Run(":" + strconv.Itoa(s.port)); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Router exposes the underlying engine for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}
