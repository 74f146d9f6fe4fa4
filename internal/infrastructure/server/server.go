package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	api "github.com/GriffinCanCode/dreamscope/backend/internal/api/http"
	"github.com/GriffinCanCode/dreamscope/backend/internal/api/middleware"
	"github.com/GriffinCanCode/dreamscope/backend/internal/domain/dream"
	"github.com/GriffinCanCode/dreamscope/backend/internal/inference"
	"github.com/GriffinCanCode/dreamscope/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/dreamscope/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/dreamscope/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/dreamscope/backend/internal/infrastructure/tracing"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	logger     *logging.Logger
	config     *config.Config
	metrics    *monitoring.Metrics
	tracer     *tracing.Tracer
}

// Option customizes server construction
type Option func(*options)

type options struct {
	bindings dream.BindingSource
	logger   *logging.Logger
}

// WithBindings replaces the bindings built from configuration
func WithBindings(source dream.BindingSource) Option {
	return func(o *options) { o.bindings = source }
}

// WithLogger replaces the logger built from configuration
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// NewLogger builds the logger described by cfg
func NewLogger(cfg config.LogConfig) (*logging.Logger, error) {
	logCfg := logging.DefaultConfig()
	if cfg.Development {
		logCfg = logging.DevelopmentConfig()
	}
	if cfg.Level != "" {
		logCfg.Level = cfg.Level
	}
	logCfg.File = cfg.File
	return logging.New(logCfg)
}

// NewAnalyzer wires the analysis pipeline from cfg over source. It also
// returns the configured response shape.
func NewAnalyzer(cfg *config.Config, source dream.BindingSource, opts ...dream.Option) (*dream.Analyzer, dream.ResponseShape, error) {
	persona := dream.DefaultPersona()
	if cfg.Analysis.PersonaFile != "" {
		p, err := dream.LoadPersona(cfg.Analysis.PersonaFile)
		if err != nil {
			return nil, "", err
		}
		persona = p
	}

	shape, err := dream.ParseShape(cfg.Analysis.ResponseShape)
	if err != nil {
		return nil, "", err
	}

	analyzer := dream.NewAnalyzer(source, persona, dream.Options{
		Binding:         cfg.Inference.Binding,
		Model:           cfg.Analysis.Model,
		MaxTokens:       cfg.Analysis.TokenCap(),
		MaxPromptLength: cfg.Analysis.MaxPromptLength,
		Timeout:         cfg.Inference.Timeout,
	}, opts...)

	return analyzer, shape, nil
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, opts ...Option) (*Server, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	logger := o.logger
	if logger == nil {
		var err error
		logger, err = NewLogger(cfg.Logging)
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	logger.Info("Initializing dream analysis server",
		zap.String("port", cfg.Server.Port),
		zap.String("provider", cfg.Inference.Provider),
		zap.String("binding", cfg.Inference.Binding),
		zap.String("profile", cfg.Analysis.Profile),
		zap.String("model", cfg.Analysis.Model),
	)

	metrics := monitoring.NewMetrics()
	tracer := tracing.New("dreamscope", logger.Logger)

	bindings := o.bindings
	if bindings == nil {
		bindings = inference.NewFromConfig(cfg, logger.Logger)
	}

	analyzer, shape, err := NewAnalyzer(cfg, bindings,
		dream.WithMetrics(metrics),
		dream.WithTracer(tracer),
		dream.WithLogger(logger.Logger),
	)
	if err != nil {
		tracer.Close()
		return nil, fmt.Errorf("failed to build analyzer: %w", err)
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// CORS goes first so recovered panics still carry the headers.
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))

	dreamHandler := api.NewDreamHandler(analyzer, shape, cfg.Server.MaxBodyBytes, logger.Logger)
	healthHandler := api.NewHealthHandler(api.ServiceInfo{
		Provider: cfg.Inference.Provider,
		Binding:  cfg.Inference.Binding,
		Model:    cfg.Analysis.Model,
		Profile:  cfg.Analysis.Profile,
	}, bindings, metrics)
	metricsHandler := api.NewMetricsHandler(metrics)

	dreamHandler.Register(router, cfg.Server.AnalyzePath)
	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", metricsHandler.Serve)

	logger.Info("Server initialized successfully", zap.String("analyze_path", cfg.Server.AnalyzePath))

	return &Server{
		router: router,
		httpServer: &http.Server{
			Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
		logger:  logger,
		config:  cfg,
		metrics: metrics,
		tracer:  tracer,
	}, nil
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Metrics returns the server's metrics collector
func (s *Server) Metrics() *monitoring.Metrics {
	return s.metrics
}

// Run serves HTTP until Shutdown is called
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Graceful shutdown failed", zap.Error(err))
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return nil
}

// Close releases background resources
func (s *Server) Close() error {
	s.tracer.Close()

	// Sync logger before exit
	_ = s.logger.Sync()

	return nil
}
