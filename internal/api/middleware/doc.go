// Package middleware provides HTTP middleware for the dream analysis API.
//
// CORS writes a fixed header set on every response, including errors,
// early exits and unmatched routes:
//   - Access-Control-Allow-Origin: *
//   - Access-Control-Allow-Methods: POST, OPTIONS
//   - Access-Control-Allow-Headers: Content-Type
//   - Access-Control-Max-Age: 86400
//
// Example Usage:
//
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
package middleware
