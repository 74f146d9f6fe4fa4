package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Inference providers
const (
	ProviderWorkersAI = "workersai"
	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"
)

// Analysis profiles. Each one fixes the model, token cap and response shape
// used when those settings are not given explicitly.
const (
	ProfileCurrent = "current"
	ProfileLegacy  = "legacy"
)

// Response shapes
const (
	ShapeNested = "nested"
	ShapeFlat   = "flat"
)

type profileDefaults struct {
	model     string
	maxTokens int
	shape     string
}

var profiles = map[string]profileDefaults{
	ProfileCurrent: {model: "@hf/mistral/mistral-7b-instruct-v0.2", maxTokens: 1024, shape: ShapeNested},
	ProfileLegacy:  {model: "@cf/mistral/mistral-7b-instruct-v0.1", maxTokens: 0, shape: ShapeFlat},
}

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Inference InferenceConfig
	Analysis  AnalysisConfig
	Logging   LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string `envconfig:"PORT" default:"8000"`
	Host         string `envconfig:"HOST" default:"0.0.0.0"`
	AnalyzePath  string `envconfig:"ANALYZE_PATH" default:"/"`
	MaxBodyBytes int64  `envconfig:"MAX_BODY_BYTES" default:"1048576"`
}

// InferenceConfig selects and configures the inference binding.
type InferenceConfig struct {
	Provider       string        `envconfig:"INFERENCE_PROVIDER" default:"workersai"`
	Binding        string        `envconfig:"AI_BINDING" default:"AI"`
	Timeout        time.Duration `envconfig:"INFERENCE_TIMEOUT" default:"0s"`
	BreakerEnabled bool          `envconfig:"INFERENCE_BREAKER_ENABLED" default:"false"`
	WorkersAI      WorkersAIConfig
	OpenAI         OpenAIConfig
	Ollama         OllamaConfig
}

// WorkersAIConfig holds Cloudflare Workers AI REST settings.
type WorkersAIConfig struct {
	AccountID string `envconfig:"CLOUDFLARE_ACCOUNT_ID"`
	APIToken  string `envconfig:"CLOUDFLARE_API_TOKEN"`
	BaseURL   string `envconfig:"CLOUDFLARE_API_BASE" default:"https://api.cloudflare.com/client/v4"`
}

// OpenAIConfig holds settings for OpenAI-compatible chat completion APIs.
type OpenAIConfig struct {
	APIKey  string `envconfig:"OPENAI_API_KEY"`
	BaseURL string `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
}

// OllamaConfig holds local Ollama server settings.
type OllamaConfig struct {
	Host string `envconfig:"OLLAMA_HOST" default:"http://localhost:11434"`
}

// AnalysisConfig holds the prompt and response tuning. Model, MaxTokens and
// ResponseShape fall back to the selected profile when unset.
type AnalysisConfig struct {
	Profile         string `envconfig:"ANALYSIS_PROFILE" default:"current"`
	Model           string `envconfig:"ANALYSIS_MODEL"`
	MaxTokens       *int   `envconfig:"ANALYSIS_MAX_TOKENS"`
	ResponseShape   string `envconfig:"ANALYSIS_RESPONSE_SHAPE"`
	MaxPromptLength int    `envconfig:"ANALYSIS_MAX_PROMPT_LENGTH" default:"5000"`
	PersonaFile     string `envconfig:"ANALYSIS_PERSONA_FILE"`
}

// TokenCap returns the max_tokens value to send, 0 meaning none.
func (a AnalysisConfig) TokenCap() int {
	if a.MaxTokens == nil {
		return 0
	}
	return *a.MaxTokens
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
	File        string `envconfig:"LOG_FILE"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.applyProfile(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:         "8000",
			Host:         "0.0.0.0",
			AnalyzePath:  "/",
			MaxBodyBytes: 1 << 20,
		},
		Inference: InferenceConfig{
			Provider: ProviderWorkersAI,
			Binding:  "AI",
			WorkersAI: WorkersAIConfig{
				BaseURL: "https://api.cloudflare.com/client/v4",
			},
			OpenAI: OpenAIConfig{
				BaseURL: "https://api.openai.com/v1",
			},
			Ollama: OllamaConfig{
				Host: "http://localhost:11434",
			},
		},
		Analysis: AnalysisConfig{
			Profile:         ProfileCurrent,
			MaxPromptLength: 5000,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
	// The current profile is always known.
	_ = cfg.applyProfile()
	return cfg
}

// applyProfile fills unset analysis settings from the selected profile.
func (c *Config) applyProfile() error {
	p, ok := profiles[c.Analysis.Profile]
	if !ok {
		return fmt.Errorf("unknown analysis profile %q", c.Analysis.Profile)
	}
	if c.Analysis.Model == "" {
		c.Analysis.Model = p.model
	}
	if c.Analysis.MaxTokens == nil {
		n := p.maxTokens
		c.Analysis.MaxTokens = &n
	}
	if c.Analysis.ResponseShape == "" {
		c.Analysis.ResponseShape = p.shape
	}
	return nil
}

// Validate checks values envconfig cannot check on its own.
func (c *Config) Validate() error {
	switch c.Inference.Provider {
	case ProviderWorkersAI, ProviderOpenAI, ProviderOllama:
	default:
		return fmt.Errorf("unsupported inference provider %q", c.Inference.Provider)
	}

	switch c.Analysis.ResponseShape {
	case ShapeNested, ShapeFlat:
	default:
		return fmt.Errorf("unsupported response shape %q", c.Analysis.ResponseShape)
	}

	if c.Analysis.MaxPromptLength <= 0 {
		return fmt.Errorf("max prompt length must be positive, got %d", c.Analysis.MaxPromptLength)
	}
	if c.Analysis.TokenCap() < 0 {
		return fmt.Errorf("max tokens must not be negative, got %d", c.Analysis.TokenCap())
	}
	if !strings.HasPrefix(c.Server.AnalyzePath, "/") {
		return fmt.Errorf("analyze path must start with /, got %q", c.Server.AnalyzePath)
	}
	switch c.Server.AnalyzePath {
	case "/health", "/metrics":
		return fmt.Errorf("analyze path %q is reserved", c.Server.AnalyzePath)
	}
	if c.Inference.Binding == "" {
		return fmt.Errorf("binding name cannot be empty")
	}
	return nil
}
