package grid

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"time"

	v1 "github.com/gridbinder-lab/project-gridbinder/internal/api/v1"
	httperr "github.com/gridbinder-lab/project-gridbinder/internal/core/errors"
	"github.com/gin-gonic/gin"
)

const requestIDHeader = "X-Request-ID"

const (
	msgReadBodyFailed = "Failed to read request body"
	msgBodyTooLarge   = "Request body exceeds maximum allowed size"
	msgInvalidQuery   = "Invalid grid query"
	msgUnknownGrid    = "Unknown grid resource"
	msgQueryFailed    = "Failed to query grid resource"
)

// gridError carries the structured HTTP error shape from a helper back to the handler.
type gridError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *gridError) Error() string {
	return e.message
}

// RegisterRoutes registers the grid API routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/grid", s.HandleListResources)
	r.GET("/v1/grid/:resource", s.HandleQuery)
	r.POST("/v1/grid/:resource", s.HandleQuery)
}

// HandleListResources handles GET /v1/grid
func (s *Service) HandleListResources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"resources": s.Resources()})
}

// HandleQuery handles GET and POST /v1/grid/:resource
// GET reads the request from the query string. POST reads a JSON body, or a
// form-encoded body when the content is not JSON.
func (s *Service) HandleQuery(c *gin.Context) {
	start := time.Now()

	requestID := c.GetHeader(requestIDHeader)
	if requestID == "" {
		requestID = s.newRequestID()
	}
	c.Header(requestIDHeader, requestID)

	resource := c.Param("resource")
	logger := slog.With("resource", resource, "request_id", requestID)

	wire, gerr := s.decodeRequest(c, logger)
	if gerr != nil {
		writeError(c, gerr)
		return
	}

	result, err := s.Query(c.Request.Context(), resource, wire)
	if err != nil {
		writeError(c, classifyError(logger, err))
		return
	}

	logger.Info("Served grid query",
		"mode", result.Mode.String(),
		"total", result.Total,
		"duration", time.Since(start))

	c.JSON(http.StatusOK, result.Body)
}

// decodeRequest reads the DataSourceRequest for either method.
func (s *Service) decodeRequest(c *gin.Context, logger *slog.Logger) (v1.DataSourceRequest, *gridError) {
	if c.Request.Method != http.MethodPost {
		return decodeForm(c.Request.URL.Query(), logger)
	}

	maxBytes := int64(s.maxBodySizeBytes)
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	body, err := io.ReadAll(limitedBody)
	if err != nil {
		logger.Error("Failed to read request body", "error", err)
		return v1.DataSourceRequest{}, &gridError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgReadBodyFailed,
		}
	}

	if int64(len(body)) > maxBytes {
		logger.Warn("Request body exceeds maximum size", "size", len(body), "max", maxBytes)
		return v1.DataSourceRequest{}, &gridError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpPayloadTooLargeError,
			message:    msgBodyTooLarge,
			details: map[string]interface{}{
				"max_size_mb": maxBytes / (1024 * 1024),
			},
		}
	}

	// An empty POST falls back to the query string.
	if len(bytes.TrimSpace(body)) == 0 {
		return decodeForm(c.Request.URL.Query(), logger)
	}

	if isFormBody(c.GetHeader("Content-Type"), body) {
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return v1.DataSourceRequest{}, invalidQueryError(logger, err)
		}
		return decodeForm(values, logger)
	}

	wire, err := v1.DecodeJSON(body)
	if err != nil {
		logger.Warn("Invalid JSON body received", "error", err, "payload_size", len(body))
		return v1.DataSourceRequest{}, &gridError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidJsonError,
			message:    err.Error(),
		}
	}
	return wire, nil
}

func decodeForm(values url.Values, logger *slog.Logger) (v1.DataSourceRequest, *gridError) {
	wire, err := v1.DecodeForm(values)
	if err != nil {
		return v1.DataSourceRequest{}, invalidQueryError(logger, err)
	}
	return wire, nil
}

// isFormBody reports whether a POST body should be parsed as a form.
// Grid widgets post urlencoded forms by default; anything else that does not
// open a JSON object is treated the same way.
func isFormBody(contentType string, body []byte) bool {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mediaType {
		case "application/x-www-form-urlencoded":
			return true
		case "application/json":
			return false
		}
	}
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] != '{'
}

func invalidQueryError(logger *slog.Logger, err error) *gridError {
	logger.Warn("Rejected grid query", "error", err)
	gerr := &gridError{
		statusCode: http.StatusBadRequest,
		errorType:  httperr.HttpInvalidQueryError,
		message:    msgInvalidQuery,
		details:    err.Error(),
	}
	if cfgErr, ok := configError(err); ok {
		gerr.details = cfgErr
	}
	return gerr
}

// classifyError maps service errors onto HTTP responses.
func classifyError(logger *slog.Logger, err error) *gridError {
	switch {
	case errors.Is(err, ErrUnknownResource):
		return &gridError{
			statusCode: http.StatusNotFound,
			errorType:  httperr.HttpResourceNotFoundError,
			message:    msgUnknownGrid,
			details:    err.Error(),
		}
	case errors.Is(err, ErrInvalidQuery), errors.Is(err, v1.ErrInvalidRequest):
		return invalidQueryError(logger, err)
	default:
		logger.Error("Failed to serve grid query", "error", err)
		return &gridError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgQueryFailed,
		}
	}
}

// writeError serializes a gridError as the JSON HTTP response.
func writeError(c *gin.Context, err *gridError) {
	c.JSON(err.statusCode, httperr.ErrorResponse{
		ErrorType: err.errorType,
		Message:   err.message,
		Details:   err.details,
	})
}
