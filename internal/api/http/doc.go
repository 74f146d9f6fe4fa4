// Package http provides the gin handlers of the dream analysis API.
//
// DreamHandler.Analyze is the single analysis endpoint:
//   - OPTIONS answers 204 with an empty body
//   - any method other than POST answers 405
//   - malformed JSON and invalid prompts answer 400 with a plain text reason
//   - binding and inference failures answer 500 with a plain text reason
//   - success answers 200 with {"analysis":{"response":"..."}}
//
// HealthHandler reports the configured provider and a metrics snapshot, and
// MetricsHandler exposes the Prometheus registry.
package http
