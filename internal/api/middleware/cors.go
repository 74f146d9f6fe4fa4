package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// CORSConfig defines the headers written on every response.
type CORSConfig struct {
	AllowOrigin  string
	AllowMethods string
	AllowHeaders string
	MaxAge       time.Duration
}

// DefaultCORSConfig returns the configuration browser clients of the
// analysis endpoint rely on.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigin:  "*",
		AllowMethods: "POST, OPTIONS",
		AllowHeaders: "Content-Type",
		MaxAge:       24 * time.Hour,
	}
}

// Headers returns the header set as a map.
func (c CORSConfig) Headers() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  c.AllowOrigin,
		"Access-Control-Allow-Methods": c.AllowMethods,
		"Access-Control-Allow-Headers": c.AllowHeaders,
		"Access-Control-Max-Age":       strconv.Itoa(int(c.MaxAge / time.Second)),
	}
}

// CORS sets the header set before the handler runs, so every response
// carries it whether or not the request has an Origin. It never answers a
// request itself; preflights reach the route handler.
func CORS(cfg CORSConfig) gin.HandlerFunc {
	headers := cfg.Headers()
	return func(c *gin.Context) {
		for k, v := range headers {
			c.Header(k, v)
		}
		c.Next()
	}
}
