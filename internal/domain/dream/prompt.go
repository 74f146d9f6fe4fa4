package dream

// UserPrefix precedes the dream text in the user message
const UserPrefix = "Analyze this dream: "

// BuildMessages returns the system and user messages for prompt
func BuildMessages(persona Persona, prompt string) []ChatMessage {
	return []ChatMessage{
		{Role: RoleSystem, Content: persona.SystemPrompt()},
		{Role: RoleUser, Content: UserPrefix + prompt},
	}
}

// BuildRequest returns the inference request for prompt
func BuildRequest(persona Persona, prompt string, maxTokens int) InferenceRequest {
	if maxTokens < 0 {
		maxTokens = 0
	}
	return InferenceRequest{
		Messages:  BuildMessages(persona, prompt),
		MaxTokens: maxTokens,
	}
}
