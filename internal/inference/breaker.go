package inference

import (
	"context"
	"encoding/json"
	"time"

	"github.com/GriffinCanCode/dreamscope/backend/internal/domain/dream"
	"github.com/GriffinCanCode/dreamscope/backend/internal/infrastructure/resilience"
	"go.uber.org/zap"
)

// guardedBinding runs a binding through a circuit breaker
type guardedBinding struct {
	binding dream.Binding
	breaker *resilience.Breaker
}

// WithBreaker wraps binding so calls fail fast while breaker is open
func WithBreaker(binding dream.Binding, breaker *resilience.Breaker) dream.Binding {
	return &guardedBinding{binding: binding, breaker: breaker}
}

func (g *guardedBinding) Run(ctx context.Context, model string, req dream.InferenceRequest) (json.RawMessage, error) {
	return resilience.Call(ctx, g.breaker, func(ctx context.Context) (json.RawMessage, error) {
		return g.binding.Run(ctx, model, req)
	})
}

// NewBreaker creates the breaker used for a binding
func NewBreaker(name string, logger *zap.Logger) *resilience.Breaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return resilience.New(name, resilience.Settings{
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			// Trip on 5 consecutive failures or >60% failure rate over 10+ requests
			return counts.ConsecutiveFailures >= 5 ||
				(counts.Requests >= 10 && float64(counts.TotalFailures)/float64(counts.Requests) > 0.6)
		},
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("inference breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}
