package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/GriffinCanCode/dreamscope/backend/internal/domain/dream"
	"github.com/GriffinCanCode/dreamscope/backend/internal/infrastructure/config"
	"github.com/bytedance/sonic"
)

// WorkersAI runs models through the Cloudflare Workers AI REST API
type WorkersAI struct {
	client    *Client
	accountID string
}

type workersAIEnvelope struct {
	Result  json.RawMessage    `json:"result"`
	Success bool               `json:"success"`
	Errors  []workersAIMessage `json:"errors"`
}

type workersAIMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewWorkersAI creates a Workers AI binding
func NewWorkersAI(cfg config.WorkersAIConfig, client *Client) (*WorkersAI, error) {
	if cfg.AccountID == "" {
		return nil, fmt.Errorf("workers ai account id is required")
	}
	if cfg.APIToken == "" {
		return nil, fmt.Errorf("workers ai api token is required")
	}
	if client == nil {
		client = NewClient()
	}

	client.SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))
	client.SetBearerAuth(cfg.APIToken)

	return &WorkersAI{client: client, accountID: cfg.AccountID}, nil
}

// Run posts req to the model and returns the envelope's result unchanged
func (w *WorkersAI) Run(ctx context.Context, model string, req dream.InferenceRequest) (json.RawMessage, error) {
	resp, err := w.client.Request(ctx).
		SetBody(req).
		Post(w.runPath(model))
	if err != nil {
		return nil, fmt.Errorf("workers ai request failed: %w", err)
	}

	var env workersAIEnvelope
	if err := sonic.Unmarshal(resp.Body(), &env); err != nil {
		if resp.IsError() {
			return nil, fmt.Errorf("workers ai returned %s", resp.Status())
		}
		return nil, fmt.Errorf("failed to decode workers ai response: %w", err)
	}

	if resp.IsError() || !env.Success {
		return nil, env.failure(resp.Status())
	}

	return env.Result, nil
}

// Model names contain slashes that belong in the path as is.
func (w *WorkersAI) runPath(model string) string {
	return "/accounts/" + url.PathEscape(w.accountID) + "/ai/run/" + model
}

func (e workersAIEnvelope) failure(status string) error {
	if len(e.Errors) == 0 {
		return fmt.Errorf("workers ai returned %s", status)
	}
	msgs := make([]string, 0, len(e.Errors))
	for _, m := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("%d: %s", m.Code, m.Message))
	}
	return fmt.Errorf("workers ai error: %s", strings.Join(msgs, "; "))
}
