package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tourops/backend/internal/domain/shared"
	"github.com/tourops/backend/internal/interfaces/http/dto"
	"github.com/tourops/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDHeader); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// ViewNotReady sends a 503 response for requests arriving before the first
// reconciliation pass has published a view
func (h *BaseHandler) ViewNotReady(c *gin.Context) {
	h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeViewNotReady, shared.ErrViewNotReady.Message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// domainCodeToDTO maps domain error codes onto the HTTP error vocabulary
var domainCodeToDTO = map[string]string{
	shared.ErrNotFound.Code:     dto.ErrCodeNotFound,
	shared.ErrInvalidInput.Code: dto.ErrCodeInvalidInput,
	shared.ErrInvalidState.Code: dto.ErrCodeInvalidState,
	shared.ErrViewNotReady.Code: dto.ErrCodeViewNotReady,
}

// HandleError converts domain and standard errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code, ok := domainCodeToDTO[domainErr.Code]
		if !ok {
			code = dto.ErrCodeInternal
		}
		h.Error(c, dto.GetHTTPStatus(code), code, domainErr.Message)
		return
	}

	h.InternalError(c, "An unexpected error occurred")
}
