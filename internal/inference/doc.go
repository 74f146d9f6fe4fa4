// Package inference provides the model bindings behind dream analysis.
//
// A Registry maps binding names (default "AI") to dream.Binding values.
// NewFromConfig registers one binding for the configured provider:
//   - workersai: Cloudflare Workers AI REST API over resty
//   - openai: any OpenAI-compatible chat completion API via openai-go
//   - ollama: a local Ollama server via langchaingo
//
// Every binding makes exactly one upstream call per Run. Retries are off in
// resty, in the pooled transport and in the OpenAI SDK. An optional circuit
// breaker can wrap the binding to fail fast while the provider is down.
//
// Bindings that construct lazily fail at acquisition time: if a provider
// cannot be built from configuration, the error is stored and returned by
// Registry.Binding so the request fails with a binding error.
package inference
