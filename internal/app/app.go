package app

import (
	"time"

	"go.uber.org/zap"

	"github.com/critiqlabs/critiq/internal/config"
	"github.com/critiqlabs/critiq/internal/handler"
	"github.com/critiqlabs/critiq/internal/metrics"
	"github.com/critiqlabs/critiq/internal/orchestrator"
	"github.com/critiqlabs/critiq/internal/server"
	"github.com/critiqlabs/critiq/pkg/history"
	"github.com/critiqlabs/critiq/pkg/llm"
)

// App holds all application dependencies
type App struct {
	Config   *config.Config
	Provider llm.Provider
	Service  *orchestrator.Service
	History  *history.Store
	Metrics  *metrics.Collector
	Server   *server.Server

	logger *zap.Logger
}

// New initializes a new application with all dependencies
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	factory := llm.NewFactory(llmConfig(cfg), logger)
	provider, err := factory.CreateProvider()
	if err != nil {
		return nil, err
	}

	service := orchestrator.New(provider, logger, cfg.LLM.PlaceholderOnError)

	// History is optional; a store that fails to initialize never blocks startup
	var store *history.Store
	if cfg.History.DatabaseURL != "" {
		store, err = history.NewStore(cfg.History.DatabaseURL)
		if err != nil {
			logger.Warn("Failed to initialize history store, continuing without history",
				zap.Error(err))
			store = nil
		}
	}

	collector := metrics.NewCollector()
	feedbackHandler := handler.NewFeedbackHandler(service, store, logger)
	srv := server.New(cfg, feedbackHandler, collector, logger)

	return &App{
		Config:   cfg,
		Provider: provider,
		Service:  service,
		History:  store,
		Metrics:  collector,
		Server:   srv,
		logger:   logger,
	}, nil
}

// llmConfig maps application configuration onto the provider factory config
func llmConfig(cfg *config.Config) llm.Config {
	return llm.Config{
		Provider:        cfg.LLM.Provider,
		Backend:         cfg.LLM.Backend,
		RequestTimeout:  time.Duration(cfg.LLM.RequestTimeoutSeconds) * time.Second,
		OllamaURL:       cfg.LLM.Ollama.URL,
		OllamaModel:     cfg.LLM.Ollama.Model,
		OllamaOptions:   cfg.LLM.Ollama.Options,
		OpenAIAPIKey:    cfg.LLM.OpenAI.APIKey,
		OpenAIModel:     cfg.LLM.OpenAI.Model,
		AnthropicAPIKey: cfg.LLM.Anthropic.APIKey,
		AnthropicModel:  cfg.LLM.Anthropic.Model,
		GeminiAPIKey:    cfg.LLM.Gemini.APIKey,
		GeminiModel:     cfg.LLM.Gemini.Model,
		BedrockRegion:   cfg.LLM.Bedrock.Region,
		BedrockModel:    cfg.LLM.Bedrock.Model,
	}
}

// Run starts the HTTP server and blocks until it exits
func (a *App) Run() error {
	return a.Server.Start()
}

// Close releases held resources
func (a *App) Close() {
	if a.History != nil {
		if err := a.History.Close(); err != nil {
			a.logger.Warn("Failed to close history store", zap.Error(err))
		}
	}
}

// LogStartupInfo logs application startup information
func (a *App) LogStartupInfo() {
	a.logger.Info("Starting critiq feedback service",
		zap.Int("port", a.Config.Server.Port),
		zap.String("provider", a.Provider.Name()))

	if a.Config.LLM.PlaceholderOnError {
		a.logger.Info("Degradation mode: placeholder feedback on provider failure")
	} else {
		a.logger.Info("Degradation mode: provider failures surface as errors")
	}

	if a.Config.RateLimit.Enabled {
		a.logger.Info("Rate limiting enabled",
			zap.Int("requests_per_minute", a.Config.RateLimit.RequestsPerMinute))
	} else {
		a.logger.Info("Rate limiting disabled")
	}

	if a.History != nil {
		a.logger.Info("Request history enabled")
	} else {
		a.logger.Info("Request history disabled")
	}
}
