// Package dream implements the dream analysis pipeline.
//
// A request flows through a fixed sequence:
//  1. ValidatePrompt trims the prompt and enforces presence and length
//  2. BuildRequest pairs the persona with "Analyze this dream: <prompt>"
//  3. The Analyzer acquires the configured Binding and runs it once
//  4. Normalize extracts analysis text from whatever JSON the binding returned
//  5. ResponseShape renders the text as the response body
//
// Bindings are opaque collaborators: anything that can take a chat request
// and hand back JSON. Concrete providers live in internal/inference.
//
// Example Usage:
//
//	analyzer := dream.NewAnalyzer(bindings, dream.DefaultPersona(), dream.Options{
//	    Binding: "AI",
//	    Model:   "@hf/mistral/mistral-7b-instruct-v0.2",
//	})
//	prompt, err := analyzer.Validate(req)
//	result, err := analyzer.Analyze(ctx, prompt)
package dream
