// Package main is the entry point for the dream analysis server.
//
// A browser posts {"dreamPrompt": "..."} and receives the model's analysis:
//
//	Browser → gin (CORS, tracing, metrics) → DreamHandler → Binding → model
//
// Bindings:
//   - workersai: Cloudflare Workers AI REST API (default)
//   - openai: OpenAI-compatible chat completions
//   - ollama: local Ollama server
//
// Configuration:
//   - Environment variables (12-factor), optionally seeded from .env
//   - CLI flags (override env vars)
//
// Usage:
//
//	server serve --port 8000
//	server analyze "I was flying over a city"
package main
