package http

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/GriffinCanCode/dreamscope/backend/internal/domain/dream"
	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Plain text bodies for non-validation failures
const (
	MsgMethodNotAllowed = "Please use POST method"
	prefixInvalidJSON   = "Invalid JSON: "
	prefixBindingError  = "Failed to get AI binding: "
	prefixAIError       = "AI error: "
)

// DreamHandler serves the analysis endpoint
type DreamHandler struct {
	analyzer     *dream.Analyzer
	shape        dream.ResponseShape
	maxBodyBytes int64
	logger       *zap.Logger
}

// NewDreamHandler creates the analysis handler. maxBodyBytes of 0 leaves the
// body unbounded.
func NewDreamHandler(analyzer *dream.Analyzer, shape dream.ResponseShape, maxBodyBytes int64, logger *zap.Logger) *DreamHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DreamHandler{
		analyzer:     analyzer,
		shape:        shape,
		maxBodyBytes: maxBodyBytes,
		logger:       logger,
	}
}

// Register mounts the handler on path for every HTTP method. gin's Any only
// covers the standard methods, so the rest reach it through NoRoute.
func (h *DreamHandler) Register(router *gin.Engine, path string) {
	router.Any(path, h.Analyze)
	router.NoRoute(func(c *gin.Context) {
		if c.Request.URL.Path == path {
			h.Analyze(c)
		}
	})
}

// Analyze handles every method on the analysis route
func (h *DreamHandler) Analyze(c *gin.Context) {
	switch c.Request.Method {
	case http.MethodOptions:
		c.AbortWithStatus(http.StatusNoContent)
		return
	case http.MethodPost:
	default:
		c.String(http.StatusMethodNotAllowed, MsgMethodNotAllowed)
		return
	}

	if h.maxBodyBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	}

	req, err := decodeRequest(c.Request.Body)
	if err != nil {
		h.analyzer.Reject()
		c.String(http.StatusBadRequest, prefixInvalidJSON+err.Error())
		return
	}

	prompt, err := h.analyzer.Validate(req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	result, err := h.analyzer.Analyze(c.Request.Context(), prompt)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.shape.Render(result.Text))
}

// decodeRequest parses the whole body as exactly one JSON document
func decodeRequest(body io.Reader) (dream.DreamRequest, error) {
	var req dream.DreamRequest

	raw, err := io.ReadAll(body)
	if err != nil {
		return req, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return req, io.ErrUnexpectedEOF
	}
	if err := sonic.Unmarshal(raw, &req); err != nil {
		return req, err
	}
	return req, nil
}

// writeError maps pipeline errors to status codes and plain text bodies
func (h *DreamHandler) writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	var (
		validationErr *dream.ValidationError
		bindingErr    *dream.BindingError
		inferenceErr  *dream.InferenceError
	)

	switch {
	case errors.As(err, &validationErr):
		c.String(http.StatusBadRequest, validationErr.Message)
	case errors.As(err, &bindingErr):
		c.String(http.StatusInternalServerError, prefixBindingError+bindingErr.Error())
	case errors.As(err, &inferenceErr):
		c.String(http.StatusInternalServerError, prefixAIError+inferenceErr.Error())
	default:
		h.logger.Error("unexpected analysis error", zap.Error(err))
		c.String(http.StatusInternalServerError, err.Error())
	}
}
