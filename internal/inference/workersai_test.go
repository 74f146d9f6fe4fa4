package inference

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GriffinCanCode/dreamscope/backend/internal/domain/dream"
	"github.com/GriffinCanCode/dreamscope/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/dreamscope/backend/internal/infrastructure/tracing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testModel = "@hf/mistral/mistral-7b-instruct-v0.2"

func testRequest() dream.InferenceRequest {
	return dream.BuildRequest(dream.DefaultPersona(), "I was flying", 1024)
}

func newTestWorkersAI(t *testing.T, handler http.HandlerFunc) *WorkersAI {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	w, err := NewWorkersAI(config.WorkersAIConfig{
		AccountID: "acc",
		APIToken:  "tok",
		BaseURL:   server.URL + "/",
	}, NewClient())
	require.NoError(t, err)
	return w
}

func TestWorkersAIRun(t *testing.T) {
	var calls int
	w := newTestWorkersAI(t, func(rw http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/accounts/acc/ai/run/"+testModel, r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "trc_abc", r.Header.Get(tracing.HeaderTraceID))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var got dream.InferenceRequest
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, testRequest(), got)

		rw.Header().Set("Content-Type", "application/json")
		_, _ = rw.Write([]byte(`{"result":{"response":"You may feel free."},"success":true,"errors":[],"messages":[]}`))
	})

	ctx := tracing.WithTraceContext(context.Background(), "trc_abc", "spn_abc")
	raw, err := w.Run(ctx, testModel, testRequest())

	require.NoError(t, err)
	assert.JSONEq(t, `{"response":"You may feel free."}`, string(raw))
	assert.Equal(t, 1, calls)
}

func TestWorkersAIErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{
			name:    "api error envelope",
			status:  http.StatusBadRequest,
			body:    `{"result":null,"success":false,"errors":[{"code":5007,"message":"No such model"}]}`,
			wantErr: "workers ai error: 5007: No such model",
		},
		{
			name:    "success false with 200",
			status:  http.StatusOK,
			body:    `{"result":null,"success":false,"errors":[]}`,
			wantErr: "workers ai returned 200 OK",
		},
		{
			name:    "non-json error page",
			status:  http.StatusBadGateway,
			body:    `<html>bad gateway</html>`,
			wantErr: "workers ai returned 502 Bad Gateway",
		},
		{
			name:    "non-json success body",
			status:  http.StatusOK,
			body:    `not json`,
			wantErr: "failed to decode workers ai response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int
			w := newTestWorkersAI(t, func(rw http.ResponseWriter, r *http.Request) {
				calls++
				rw.WriteHeader(tt.status)
				_, _ = rw.Write([]byte(tt.body))
			})

			_, err := w.Run(context.Background(), testModel, testRequest())
			assert.ErrorContains(t, err, tt.wantErr)
			assert.Equal(t, 1, calls, "inference must not be retried")
		})
	}
}

func TestWorkersAICanceledContext(t *testing.T) {
	w := newTestWorkersAI(t, func(rw http.ResponseWriter, r *http.Request) {
		_, _ = rw.Write([]byte(`{"result":"late","success":true}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := w.Run(ctx, testModel, testRequest())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewWorkersAIRequiresCredentials(t *testing.T) {
	_, err := NewWorkersAI(config.WorkersAIConfig{APIToken: "tok"}, nil)
	assert.ErrorContains(t, err, "account id is required")

	_, err = NewWorkersAI(config.WorkersAIConfig{AccountID: "acc"}, nil)
	assert.ErrorContains(t, err, "api token is required")
}
