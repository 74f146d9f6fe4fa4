package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/GriffinCanCode/dreamscope/backend/internal/domain/dream"
	"github.com/GriffinCanCode/dreamscope/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/dreamscope/backend/internal/infrastructure/tracing"
	"github.com/bytedance/sonic"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAI runs models through an OpenAI-compatible chat completion API
type OpenAI struct {
	client openai.Client
}

// NewOpenAI creates an OpenAI binding
func NewOpenAI(cfg config.OpenAIConfig, httpClient *http.Client) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	if httpClient == nil {
		httpClient = NewClient().HTTPClient()
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	)

	return &OpenAI{client: client}, nil
}

// Run sends req as a chat completion and returns {"response": <content>}
func (o *OpenAI) Run(ctx context.Context, model string, req dream.InferenceRequest) (json.RawMessage, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)),
	}
	for _, msg := range req.Messages {
		param, err := toChatMessageParam(msg)
		if err != nil {
			return nil, err
		}
		params.Messages = append(params.Messages, param)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	resp, err := o.client.Chat.Completions.New(ctx, params, traceOptions(ctx)...)
	if err != nil {
		return nil, err
	}

	// No choices leaves the object empty and the analysis falls back.
	out := map[string]string{}
	if len(resp.Choices) > 0 {
		out["response"] = resp.Choices[0].Message.Content
	}
	return sonic.Marshal(out)
}

func toChatMessageParam(msg dream.ChatMessage) (openai.ChatCompletionMessageParamUnion, error) {
	switch msg.Role {
	case dream.RoleSystem:
		return openai.SystemMessage(msg.Content), nil
	case dream.RoleUser:
		return openai.UserMessage(msg.Content), nil
	default:
		return openai.ChatCompletionMessageParamUnion{}, fmt.Errorf("unsupported role: %s", msg.Role)
	}
}

func traceOptions(ctx context.Context) []option.RequestOption {
	var opts []option.RequestOption
	if traceID := tracing.GetTraceID(ctx); traceID != "" {
		opts = append(opts, option.WithHeader(tracing.HeaderTraceID, string(traceID)))
	}
	if spanID := tracing.GetSpanID(ctx); spanID != "" {
		opts = append(opts, option.WithHeader(tracing.HeaderSpanID, string(spanID)))
	}
	return opts
}
