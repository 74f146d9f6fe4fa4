package inference

import (
	"fmt"

	"github.com/GriffinCanCode/dreamscope/backend/internal/domain/dream"
	"github.com/GriffinCanCode/dreamscope/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewFromConfig builds a registry holding the configured provider under the
// configured binding name. A provider that cannot be built is recorded as a
// failure so acquiring it reports the cause.
func NewFromConfig(cfg *config.Config, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}

	reg := NewRegistry()
	name := cfg.Inference.Binding

	binding, err := NewBinding(cfg)
	if err != nil {
		logger.Warn("inference binding unavailable",
			zap.String("binding", name),
			zap.String("provider", cfg.Inference.Provider),
			zap.Error(err),
		)
		reg.RegisterFailure(name, err)
		return reg
	}

	if cfg.Inference.BreakerEnabled {
		binding = WithBreaker(binding, NewBreaker("inference-"+name, logger))
	}

	if err := reg.Register(name, binding); err != nil {
		reg.RegisterFailure(name, err)
		return reg
	}

	logger.Info("inference binding registered",
		zap.String("binding", name),
		zap.String("provider", cfg.Inference.Provider),
		zap.String("model", cfg.Analysis.Model),
		zap.Bool("breaker", cfg.Inference.BreakerEnabled),
	)
	return reg
}

// NewBinding constructs the binding for the configured provider
func NewBinding(cfg *config.Config) (dream.Binding, error) {
	switch cfg.Inference.Provider {
	case config.ProviderWorkersAI:
		return NewWorkersAI(cfg.Inference.WorkersAI, NewClient())
	case config.ProviderOpenAI:
		return NewOpenAI(cfg.Inference.OpenAI, NewClient().HTTPClient())
	case config.ProviderOllama:
		return NewOllama(cfg.Inference.Ollama, cfg.Analysis.Model)
	default:
		return nil, fmt.Errorf("unsupported inference provider: %s", cfg.Inference.Provider)
	}
}
