package inference

import (
	"context"
	"net/http"
	"sync"

	"github.com/GriffinCanCode/dreamscope/backend/internal/infrastructure/tracing"
	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
)

// UserAgent is sent on every outbound inference request
const UserAgent = "Dreamscope-Inference/1.0"

// Client wraps resty for inference APIs. It never retries and sets no
// timeout of its own; callers bound requests through their context.
type Client struct {
	Resty *resty.Client
	mu    sync.RWMutex
}

// NewClient creates an HTTP client on a pooled transport
func NewClient() *Client {
	// Only the pooled transport is used; the retry loop stays off.
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil

	restyClient := resty.New()
	restyClient.
		SetRetryCount(0).
		SetHeader("User-Agent", UserAgent).
		SetHeader("Content-Type", "application/json").
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal)

	restyClient.SetTransport(retryClient.HTTPClient.Transport)

	return &Client{Resty: restyClient}
}

// SetBaseURL sets the URL prefix for relative request paths
func (c *Client) SetBaseURL(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Resty.SetBaseURL(url)
}

// SetBearerAuth configures bearer token authentication
func (c *Client) SetBearerAuth(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Resty.SetAuthToken(token)
}

// Request creates a request bound to ctx carrying its trace context
func (c *Client) Request(ctx context.Context) *resty.Request {
	c.mu.RLock()
	defer c.mu.RUnlock()

	req := c.Resty.R().SetContext(ctx)
	tracing.InjectTraceContext(ctx, req.Header)
	return req
}

// HTTPClient exposes the underlying client for SDKs that take one
func (c *Client) HTTPClient() *http.Client {
	return c.Resty.GetClient()
}
