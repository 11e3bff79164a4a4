package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/termwatch/internal/activity"
	httpapi "github.com/GriffinCanCode/termwatch/internal/api/http"
	"github.com/GriffinCanCode/termwatch/internal/api/middleware"
	"github.com/GriffinCanCode/termwatch/internal/api/ws"
	"github.com/GriffinCanCode/termwatch/internal/idle"
	"github.com/GriffinCanCode/termwatch/internal/infrastructure/config"
	"github.com/GriffinCanCode/termwatch/internal/infrastructure/logging"
	"github.com/GriffinCanCode/termwatch/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/termwatch/internal/proc"
	activityProvider "github.com/GriffinCanCode/termwatch/internal/providers/activity"
	"github.com/GriffinCanCode/termwatch/internal/providers/terminal"
	"github.com/GriffinCanCode/termwatch/internal/service"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router    *gin.Engine
	registry  *service.Registry
	terminals *terminal.Manager
	logger    *logging.Logger
	config    *config.Config
	metrics   *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}

	logger.Info("Initializing termwatch server",
		zap.String("port", cfg.Server.Port),
		zap.Int("idle_cadence_ms", cfg.Idle.CadenceMS),
		zap.Float64("idle_cpu_threshold", cfg.Idle.CPUThreshold),
	)

	metrics := monitoring.NewMetrics()

	// Process inspection pipeline
	snapshots := proc.NewSnapshotter(logger.Logger)
	foreground := proc.NewForegrounder(logger.Logger)
	resolver := activity.NewResolver(snapshots, foreground, logger.Logger)
	detector := idle.New(resolver, idle.Config{
		Cadence:      cfg.Idle.Cadence(),
		CPUThreshold: cfg.Idle.CPUThreshold,
		IdleAfter:    cfg.Idle.IdleAfter(),
		MaxWait:      cfg.Idle.MaxWait(),
	}, logger.Logger)

	// Terminal session manager
	terminals := terminal.NewManager(detector, cfg.Terminal.BufferSize, logger.Logger).
		WithMetrics(metrics).
		WithDefaults(cfg.Terminal.Shell, cfg.Terminal.Cols, cfg.Terminal.Rows)

	// Service registry
	serviceRegistry := service.NewRegistry()
	if err := serviceRegistry.Register(terminal.NewProvider(terminals)); err != nil {
		logger.Warn("Failed to register terminal provider", zap.Error(err))
	}
	actProvider := activityProvider.NewProvider(resolver, detector, snapshots, logger.Logger).
		WithMetrics(metrics)
	if err := serviceRegistry.Register(actProvider); err != nil {
		logger.Warn("Failed to register activity provider", zap.Error(err))
	}

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	// Create handlers
	handlers := httpapi.NewHandlers(serviceRegistry, terminals, resolver, detector, metrics)
	wsHandler := ws.NewHandler(terminals, metrics, logger.Logger)

	// Register routes
	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	// Service management
	router.GET("/services", handlers.ListServices)
	router.POST("/services/execute", handlers.ExecuteService)

	// Terminal sessions
	router.POST("/terminals", handlers.CreateTerminal)
	router.GET("/terminals", handlers.ListTerminals)
	router.GET("/terminals/:id", handlers.GetTerminal)
	router.DELETE("/terminals/:id", handlers.KillTerminal)
	router.POST("/terminals/:id/input", handlers.TerminalInput)
	router.GET("/terminals/:id/output", handlers.TerminalOutput)
	router.POST("/terminals/:id/command", handlers.RunCommand)
	router.POST("/terminals/:id/resize", handlers.ResizeTerminal)

	// Activity inspection
	router.GET("/terminals/:id/active", handlers.ActiveProcess)
	router.POST("/terminals/:id/wait-idle", handlers.WaitIdle)

	// WebSocket output stream
	router.GET("/stream", wsHandler.HandleConnection)

	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	logger.Info("Server initialized successfully")

	return &Server{
		router:    router,
		registry:  serviceRegistry,
		terminals: terminals,
		logger:    logger,
		config:    cfg,
		metrics:   metrics,
	}, nil
}

// Run starts the HTTP server
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close gracefully shuts down the server
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	s.terminals.Shutdown()
	s.logger.Info("Closed terminal sessions")

	s.logger.Sync()
	return nil
}
