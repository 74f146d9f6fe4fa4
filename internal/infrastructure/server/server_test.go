package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/GriffinCanCode/dreamscope/backend/internal/domain/dream"
	"github.com/GriffinCanCode/dreamscope/backend/internal/inference"
	"github.com/GriffinCanCode/dreamscope/backend/internal/inference/inferencetest"
	"github.com/GriffinCanCode/dreamscope/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/dreamscope/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/dreamscope/backend/internal/infrastructure/tracing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, cfg *config.Config, binding *inferencetest.MockBinding) *Server {
	t.Helper()

	reg := inference.NewRegistry()
	require.NoError(t, reg.Register(cfg.Inference.Binding, binding))

	srv, err := NewServer(cfg, WithBindings(reg), WithLogger(logging.NewNop()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })
	return srv
}

func serve(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestServerAnalyze(t *testing.T) {
	binding := inferencetest.Returning(`{"response":"A city below you suggests perspective."}`)
	srv := newTestServer(t, config.Default(), binding)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"dreamPrompt":"I was flying over a city"}`))
	req.Header.Set("Content-Type", "application/json")
	w := serve(srv, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"analysis":{"response":"A city below you suggests perspective."}}`, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get(tracing.HeaderTraceID))
}

func TestServerPropagatesInboundTrace(t *testing.T) {
	binding := &inferencetest.MockBinding{}
	binding.On("Run", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			assert.Equal(t, tracing.TraceID("trc_inbound"), tracing.GetTraceID(ctx))
		}).
		Return(json.RawMessage(`"ok"`), nil)
	srv := newTestServer(t, config.Default(), binding)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"dreamPrompt":"x"}`))
	req.Header.Set(tracing.HeaderTraceID, "trc_inbound")
	w := serve(srv, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "trc_inbound", w.Header().Get(tracing.HeaderTraceID))
	binding.AssertExpectations(t)
}

func TestServerCORSOnAmbientRoutes(t *testing.T) {
	srv := newTestServer(t, config.Default(), inferencetest.Returning(`"ok"`))

	for _, path := range []string{"/health", "/metrics", "/does-not-exist"} {
		w := serve(srv, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"), path)
		assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"), path)
	}
}

func TestServerNonStandardMethods(t *testing.T) {
	binding := inferencetest.Returning(`"unused"`)
	srv := newTestServer(t, config.Default(), binding)

	for _, method := range []string{"PROPFIND", "PURGE", "LINK"} {
		t.Run(method, func(t *testing.T) {
			w := serve(srv, httptest.NewRequest(method, "/", nil))

			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
			assert.Equal(t, "Please use POST method", w.Body.String())
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		})
	}

	w := serve(srv, httptest.NewRequest("PROPFIND", "/elsewhere", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	binding.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
}

func TestServerCustomPathAndLegacyProfile(t *testing.T) {
	t.Setenv("ANALYZE_PATH", "/analyze")
	t.Setenv("ANALYSIS_PROFILE", "legacy")
	cfg, err := config.Load()
	require.NoError(t, err)

	binding := &inferencetest.MockBinding{}
	binding.On("Run", mock.Anything, "@cf/mistral/mistral-7b-instruct-v0.1", mock.MatchedBy(func(req dream.InferenceRequest) bool {
		return req.MaxTokens == 0
	})).Return(json.RawMessage(`"legacy text"`), nil).Once()
	srv := newTestServer(t, cfg, binding)

	w := serve(srv, httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"dreamPrompt":"x"}`)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"analysis":"legacy text"}`, w.Body.String())

	w = serve(srv, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"dreamPrompt":"x"}`)))
	assert.Equal(t, http.StatusNotFound, w.Code)
	binding.AssertExpectations(t)
}

func TestServerMetricsAfterRequest(t *testing.T) {
	srv := newTestServer(t, config.Default(), inferencetest.Returning(`"ok"`))

	serve(srv, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"dreamPrompt":"x"}`)))
	w := serve(srv, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `dreams_analysis_outcomes_total{outcome="success"} 1`)
	assert.Contains(t, w.Body.String(), "dreams_inference_calls_total")
	assert.Equal(t, int64(1), srv.Metrics().Snapshot().InferenceCalls)
}

func TestNewServerRejectsBadPersonaFile(t *testing.T) {
	cfg := config.Default()
	cfg.Analysis.PersonaFile = "/nonexistent/persona.yaml"

	_, err := NewServer(cfg, WithBindings(inference.NewRegistry()), WithLogger(logging.NewNop()))
	assert.ErrorContains(t, err, "failed to build analyzer")
}

func TestRunAndShutdown(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = "0"
	srv := newTestServer(t, cfg, inferencetest.Returning(`"ok"`))

	done := make(chan error, 1)
	go func() { done <- srv.Run() }()

	time.Sleep(50 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(config.LogConfig{Level: "warn"})
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = NewLogger(config.LogConfig{Level: "verbose"})
	assert.Error(t, err)
}
