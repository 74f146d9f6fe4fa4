package dream

import "fmt"

// DreamRequest is the inbound request body. A nil DreamPrompt means the
// field was absent or null.
type DreamRequest struct {
	DreamPrompt *string `json:"dreamPrompt"`
}

// Chat roles
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// ChatMessage is one turn of the chat sent to a binding
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// InferenceRequest is the payload handed to a binding. MaxTokens of 0 omits
// the token cap.
type InferenceRequest struct {
	Messages  []ChatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

// AnalysisContent wraps the analysis text in the nested response shape
type AnalysisContent struct {
	Response string `json:"response"`
}

// DreamResponse is the nested success body: {"analysis":{"response":"..."}}
type DreamResponse struct {
	Analysis AnalysisContent `json:"analysis"`
}

// LegacyDreamResponse is the flat success body: {"analysis":"..."}
type LegacyDreamResponse struct {
	Analysis string `json:"analysis"`
}

// ResponseShape selects the success body layout
type ResponseShape string

const (
	ShapeNested ResponseShape = "nested"
	ShapeFlat   ResponseShape = "flat"
)

// ParseShape converts a configured shape name
func ParseShape(s string) (ResponseShape, error) {
	switch ResponseShape(s) {
	case ShapeNested, ShapeFlat:
		return ResponseShape(s), nil
	case "":
		return ShapeNested, nil
	default:
		return "", fmt.Errorf("unknown response shape %q", s)
	}
}

// Render builds the success body for text
func (s ResponseShape) Render(text string) any {
	if s == ShapeFlat {
		return LegacyDreamResponse{Analysis: text}
	}
	return DreamResponse{Analysis: AnalysisContent{Response: text}}
}
