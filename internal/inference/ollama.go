package inference

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/GriffinCanCode/dreamscope/backend/internal/domain/dream"
	"github.com/GriffinCanCode/dreamscope/backend/internal/infrastructure/config"
	"github.com/bytedance/sonic"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// Ollama runs models on an Ollama server through langchaingo
type Ollama struct {
	llm llms.Model
}

// NewOllama creates an Ollama binding with model as the server-side default
func NewOllama(cfg config.OllamaConfig, model string) (*Ollama, error) {
	llm, err := ollama.New(
		ollama.WithModel(model),
		ollama.WithServerURL(cfg.Host),
	)
	if err != nil {
		return nil, fmt.Errorf("create ollama model: %w", err)
	}
	return &Ollama{llm: llm}, nil
}

// Run generates a completion and returns {"response": <content>}
func (o *Ollama) Run(ctx context.Context, model string, req dream.InferenceRequest) (json.RawMessage, error) {
	messages := make([]llms.MessageContent, 0, len(req.Messages))
	for _, msg := range req.Messages {
		switch msg.Role {
		case dream.RoleSystem:
			messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, msg.Content))
		case dream.RoleUser:
			messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, msg.Content))
		default:
			return nil, fmt.Errorf("unsupported role: %s", msg.Role)
		}
	}

	opts := []llms.CallOption{llms.WithModel(model)}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}

	resp, err := o.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return nil, fmt.Errorf("ollama generate: %w", err)
	}

	out := map[string]string{}
	if len(resp.Choices) > 0 {
		out["response"] = resp.Choices[0].Content
	}
	return sonic.Marshal(out)
}
