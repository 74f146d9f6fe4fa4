// Package config provides 12-factor configuration management for the dream
// analysis service.
//
// Configuration is loaded from environment variables with sensible defaults.
// A .env file in the working directory is honored by the server binary.
//
// Configuration Sections:
//   - Server: HTTP listener and analyze route settings
//   - Inference: provider selection, binding name and provider credentials
//   - Analysis: profile, model, token cap, response shape, prompt limits
//   - Logging: log level, output format and optional rotating file
//
// Profiles:
//   - current: @hf/mistral/mistral-7b-instruct-v0.2, max_tokens 1024, nested response
//   - legacy: @cf/mistral/mistral-7b-instruct-v0.1, no token cap, flat response
//
// Explicit ANALYSIS_MODEL, ANALYSIS_MAX_TOKENS and ANALYSIS_RESPONSE_SHAPE
// values always win over the profile.
//
// Example Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//		return err
//	}
//	fmt.Printf("Serving %s on %s:%s\n", cfg.Server.AnalyzePath, cfg.Server.Host, cfg.Server.Port)
package config
