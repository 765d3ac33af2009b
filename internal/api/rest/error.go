package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/reef-chain/explorer-backtracker/internal/logger"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	errCodeNotFound           ErrorCode = "not_found"
	errCodeServiceUnavailable ErrorCode = "service_unavailable"
)

// errorResponse represents a standardized error response
type errorResponse struct {
	Error errorDetail `json:"error"`
}

// errorDetail contains error information
type errorDetail struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...string) {
	response := errorResponse{
		Error: errorDetail{
			Code:    code,
			Message: message,
		},
	}

	if len(details) > 0 {
		response.Error.Details = details[0]
	}

	c.JSON(statusCode, response)
}

// respondNotFound sends a 404 Not Found response
func respondNotFound(c *gin.Context, message string) {
	respondWithError(c, http.StatusNotFound, errCodeNotFound, message)
}

// respondUnavailable sends a 503 response when a dependency can not serve the request
func respondUnavailable(c *gin.Context, err error, message string) {
	logger.WarnCtx(c.Request.Context(), message, zap.Error(err))
	respondWithError(c, http.StatusServiceUnavailable, errCodeServiceUnavailable, message, err.Error())
}
