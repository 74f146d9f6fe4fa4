package dream

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultMaxPromptLength is the prompt limit in characters (Unicode code points)
const DefaultMaxPromptLength = 5000

// MsgMissingPrompt is returned for absent, null or blank prompts
const MsgMissingPrompt = "Missing dreamPrompt in request body"

// ValidationError is a client input error. Its message is sent verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidatePrompt trims raw and checks it is present and at most maxLen
// characters (Unicode code points, not bytes) long. It returns the trimmed prompt.
func ValidatePrompt(raw *string, maxLen int) (string, error) {
	if maxLen <= 0 {
		maxLen = DefaultMaxPromptLength
	}

	if raw == nil {
		return "", &ValidationError{Message: MsgMissingPrompt}
	}

	prompt := strings.TrimSpace(*raw)
	if prompt == "" {
		return "", &ValidationError{Message: MsgMissingPrompt}
	}

	if utf8.RuneCountInString(prompt) > maxLen {
		return "", &ValidationError{
			Message: fmt.Sprintf("Dream prompt is too long. Maximum length is %d characters", maxLen),
		}
	}

	return prompt, nil
}
