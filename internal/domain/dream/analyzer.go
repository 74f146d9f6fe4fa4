package dream

import (
	"context"
	"encoding/json"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/GriffinCanCode/dreamscope/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/dreamscope/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/dreamscope/backend/internal/infrastructure/tracing"
	"go.uber.org/zap"
)

// Binding runs a chat request against a model and returns its raw JSON result
type Binding interface {
	Run(ctx context.Context, model string, req InferenceRequest) (json.RawMessage, error)
}

// BindingSource resolves bindings by name
type BindingSource interface {
	Binding(name string) (Binding, error)
}

// BindingError reports that the named binding could not be acquired
type BindingError struct {
	Name string
	Err  error
}

func (e *BindingError) Error() string {
	return e.Err.Error()
}

func (e *BindingError) Unwrap() error {
	return e.Err
}

// InferenceError reports that the binding call failed
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return e.Err.Error()
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

// Options configures an Analyzer
type Options struct {
	Binding         string
	Model           string
	MaxTokens       int
	MaxPromptLength int
	// Timeout bounds a single binding call. Zero means no bound beyond the
	// caller's context.
	Timeout time.Duration
}

// Result is a completed analysis
type Result struct {
	Text     string
	Fallback bool
	Duration time.Duration
}

// Analyzer runs the validation and inference pipeline
type Analyzer struct {
	source  BindingSource
	persona Persona
	opts    Options

	metrics *monitoring.Metrics
	tracer  *tracing.Tracer
	logger  *zap.Logger
}

// Option customizes an Analyzer
type Option func(*Analyzer)

// WithMetrics records inference and outcome metrics
func WithMetrics(m *monitoring.Metrics) Option {
	return func(a *Analyzer) { a.metrics = m }
}

// WithTracer wraps each binding call in a span
func WithTracer(t *tracing.Tracer) Option {
	return func(a *Analyzer) { a.tracer = t }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAnalyzer creates an analyzer over source
func NewAnalyzer(source BindingSource, persona Persona, opts Options, options ...Option) *Analyzer {
	if opts.Binding == "" {
		opts.Binding = "AI"
	}
	if opts.MaxPromptLength <= 0 {
		opts.MaxPromptLength = DefaultMaxPromptLength
	}

	a := &Analyzer{
		source:  source,
		persona: persona,
		opts:    opts,
		logger:  zap.NewNop(),
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

// Options returns the analyzer configuration
func (a *Analyzer) Options() Options {
	return a.opts
}

// Validate checks req and returns the trimmed prompt
func (a *Analyzer) Validate(req DreamRequest) (string, error) {
	prompt, err := ValidatePrompt(req.DreamPrompt, a.opts.MaxPromptLength)
	if err != nil {
		a.recordOutcome(monitoring.OutcomeRejected)
		return "", err
	}
	if a.metrics != nil {
		a.metrics.ObservePromptLength(utf8.RuneCountInString(prompt))
	}
	return prompt, nil
}

// Reject records a request refused before validation, such as a malformed body
func (a *Analyzer) Reject() {
	a.recordOutcome(monitoring.OutcomeRejected)
}

// Analyze runs prompt through the configured binding exactly once. prompt
// must already be validated. Errors are *BindingError or *InferenceError.
func (a *Analyzer) Analyze(ctx context.Context, prompt string) (Result, error) {
	binding, err := a.source.Binding(a.opts.Binding)
	if err != nil {
		a.recordOutcome(monitoring.OutcomeFailed)
		a.logger.Error("failed to acquire binding",
			zap.String("binding", a.opts.Binding),
			zap.Error(err),
		)
		return Result{}, &BindingError{Name: a.opts.Binding, Err: err}
	}

	req := BuildRequest(a.persona, prompt, a.opts.MaxTokens)

	if a.tracer != nil {
		var span *tracing.Span
		span, ctx = a.tracer.StartSpan(ctx, "inference.run")
		span.SetTag("binding", a.opts.Binding)
		span.SetTag("model", a.opts.Model)
		defer func() {
			if err != nil {
				span.SetError(err)
			}
			span.Finish()
			a.tracer.Submit(span)
		}()
	}

	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}

	timer := monitoring.NewTimer(a.metrics, a.opts.Binding, a.opts.Model)
	raw, err := binding.Run(ctx, a.opts.Model, req)
	if err != nil {
		duration := timer.Stop("error")
		if a.metrics != nil {
			a.metrics.RecordInferenceError(a.opts.Binding, a.opts.Model, errorType(err))
		}
		a.recordOutcome(monitoring.OutcomeFailed)
		a.logger.Error("inference failed",
			zap.String("binding", a.opts.Binding),
			zap.String("model", a.opts.Model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return Result{}, &InferenceError{Err: err}
	}
	duration := timer.Stop("success")

	text, ok := Normalize(raw)
	if ok {
		a.recordOutcome(monitoring.OutcomeSuccess)
	} else {
		a.recordOutcome(monitoring.OutcomeFallback)
		a.logger.Warn("unrecognized inference result shape",
			zap.String("binding", a.opts.Binding),
			zap.Int("result_bytes", len(raw)),
		)
	}

	a.logger.Debug("dream analyzed",
		zap.String("model", a.opts.Model),
		zap.Duration("duration", duration),
		zap.Bool("fallback", !ok),
	)

	return Result{Text: text, Fallback: !ok, Duration: duration}, nil
}

func (a *Analyzer) recordOutcome(outcome string) {
	if a.metrics != nil {
		a.metrics.RecordOutcome(outcome)
	}
}

// errorType buckets a binding error for the error metric
func errorType(err error) string {
	switch {
	case errors.Is(err, resilience.ErrCircuitOpen), errors.Is(err, resilience.ErrTooManyRequests):
		return "circuit_open"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "provider"
	}
}
