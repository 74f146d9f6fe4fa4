package dream

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/GriffinCanCode/dreamscope/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/dreamscope/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/dreamscope/backend/internal/infrastructure/tracing"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockBinding struct {
	mock.Mock
}

func (m *mockBinding) Run(ctx context.Context, model string, req InferenceRequest) (json.RawMessage, error) {
	args := m.Called(ctx, model, req)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

type staticSource struct {
	binding Binding
	err     error
	asked   []string
}

func (s *staticSource) Binding(name string) (Binding, error) {
	s.asked = append(s.asked, name)
	if s.err != nil {
		return nil, s.err
	}
	return s.binding, nil
}

const testModel = "@hf/mistral/mistral-7b-instruct-v0.2"

func newTestAnalyzer(source BindingSource, opts ...Option) *Analyzer {
	return NewAnalyzer(source, DefaultPersona(), Options{
		Binding:   "AI",
		Model:     testModel,
		MaxTokens: 1024,
	}, opts...)
}

func TestAnalyzeSendsExactRequest(t *testing.T) {
	binding := &mockBinding{}
	expected := InferenceRequest{
		Messages: []ChatMessage{
			{Role: RoleSystem, Content: DefaultSystemPrompt},
			{Role: RoleUser, Content: "Analyze this dream: I was flying"},
		},
		MaxTokens: 1024,
	}
	binding.On("Run", mock.Anything, testModel, expected).
		Return(json.RawMessage(`{"response":"You may feel free."}`), nil).Once()

	source := &staticSource{binding: binding}
	result, err := newTestAnalyzer(source).Analyze(context.Background(), "I was flying")

	require.NoError(t, err)
	assert.Equal(t, "You may feel free.", result.Text)
	assert.False(t, result.Fallback)
	assert.Equal(t, []string{"AI"}, source.asked)
	binding.AssertExpectations(t)
}

func TestAnalyzeFallback(t *testing.T) {
	binding := &mockBinding{}
	binding.On("Run", mock.Anything, mock.Anything, mock.Anything).
		Return(json.RawMessage(`{"choices":[]}`), nil)

	metrics := monitoring.NewMetrics()
	result, err := newTestAnalyzer(&staticSource{binding: binding}, WithMetrics(metrics)).
		Analyze(context.Background(), "dream")

	require.NoError(t, err)
	assert.Equal(t, FallbackAnalysis, result.Text)
	assert.True(t, result.Fallback)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.AnalysisOutcomes.WithLabelValues(monitoring.OutcomeFallback)))
	assert.Equal(t, int64(1), metrics.Snapshot().Fallbacks)
}

func TestAnalyzeBindingUnavailable(t *testing.T) {
	source := &staticSource{err: errors.New("binding AI is not registered")}

	_, err := newTestAnalyzer(source).Analyze(context.Background(), "dream")

	var berr *BindingError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, "AI", berr.Name)
	assert.Equal(t, "binding AI is not registered", err.Error())
}

func TestAnalyzeInferenceFailureCallsOnce(t *testing.T) {
	binding := &mockBinding{}
	binding.On("Run", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("model overloaded")).Once()

	metrics := monitoring.NewMetrics()
	_, err := newTestAnalyzer(&staticSource{binding: binding}, WithMetrics(metrics)).
		Analyze(context.Background(), "dream")

	var ierr *InferenceError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "model overloaded", err.Error())
	binding.AssertNumberOfCalls(t, "Run", 1)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.InferenceErrors.WithLabelValues("AI", testModel, "provider")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.AnalysisOutcomes.WithLabelValues(monitoring.OutcomeFailed)))
}

func TestAnalyzeTimeout(t *testing.T) {
	binding := &mockBinding{}
	binding.On("Run", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
		}).
		Return(nil, context.DeadlineExceeded)

	a := NewAnalyzer(&staticSource{binding: binding}, DefaultPersona(), Options{
		Model:   testModel,
		Timeout: 50 * time.Millisecond,
	})
	_, err := a.Analyze(context.Background(), "dream")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAnalyzeNoDeadlineByDefault(t *testing.T) {
	binding := &mockBinding{}
	binding.On("Run", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			_, hasDeadline := args.Get(0).(context.Context).Deadline()
			assert.False(t, hasDeadline)
		}).
		Return(json.RawMessage(`"ok"`), nil)

	result, err := newTestAnalyzer(&staticSource{binding: binding}).Analyze(context.Background(), "dream")
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Text)
}

func TestAnalyzeWithTracer(t *testing.T) {
	tracer := tracing.New("test", zap.NewNop())
	defer tracer.Close()

	binding := &mockBinding{}
	binding.On("Run", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			assert.NotEmpty(t, tracing.GetTraceID(ctx))
			assert.NotEmpty(t, tracing.GetSpanID(ctx))
		}).
		Return(json.RawMessage(`"ok"`), nil)

	_, err := newTestAnalyzer(&staticSource{binding: binding}, WithTracer(tracer)).
		Analyze(context.Background(), "dream")
	require.NoError(t, err)
}

func TestValidateRecordsRejection(t *testing.T) {
	metrics := monitoring.NewMetrics()
	a := newTestAnalyzer(&staticSource{}, WithMetrics(metrics))

	_, err := a.Validate(DreamRequest{})
	assert.EqualError(t, err, MsgMissingPrompt)

	a.Reject()

	prompt := "  a dream  "
	got, err := a.Validate(DreamRequest{DreamPrompt: &prompt})
	require.NoError(t, err)
	assert.Equal(t, "a dream", got)

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.AnalysisOutcomes.WithLabelValues(monitoring.OutcomeRejected)))
}

func TestNewAnalyzerDefaults(t *testing.T) {
	a := NewAnalyzer(&staticSource{}, DefaultPersona(), Options{})
	assert.Equal(t, "AI", a.Options().Binding)
	assert.Equal(t, DefaultMaxPromptLength, a.Options().MaxPromptLength)
}

func TestErrorType(t *testing.T) {
	assert.Equal(t, "circuit_open", errorType(resilience.ErrCircuitOpen))
	assert.Equal(t, "timeout", errorType(context.DeadlineExceeded))
	assert.Equal(t, "canceled", errorType(context.Canceled))
	assert.Equal(t, "provider", errorType(errors.New("boom")))
}
