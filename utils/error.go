package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Service-level errors mapped to HTTP statuses by HandleServiceError.
var (
	ErrInvalidPlan      = errors.New("invalid plan")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrSessionNotFound  = errors.New("checkout session not found")
	ErrInvalidAPIKey    = errors.New("invalid api key")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrUpstream         = errors.New("upstream service failure")
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err), zap.String("trace_id", traceID(c)))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
					TraceID: traceID(c),
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	Logger := GetLogger()
	Logger.Warn(message, zap.String("details", details), zap.String("trace_id", traceID(c)))
	c.JSON(status, ErrorResponse{Message: message, Details: details, TraceID: traceID(c)})
}

// HandleServiceError maps a service error onto an HTTP response.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidPlan):
		JSONError(c, http.StatusBadRequest, "Invalid plan", err.Error())
	case errors.Is(err, ErrInvalidSignature):
		JSONError(c, http.StatusBadRequest, "Invalid signature", err.Error())
	case errors.Is(err, ErrInvalidRequest):
		JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
	case errors.Is(err, ErrSessionNotFound):
		JSONError(c, http.StatusNotFound, "Session not found", "")
	case errors.Is(err, ErrInvalidAPIKey):
		JSONError(c, http.StatusUnauthorized, "Invalid API key", "")
	case errors.Is(err, ErrUpstream):
		GetLogger().Error("upstream failure", zap.Error(err), zap.String("trace_id", traceID(c)))
		JSONError(c, http.StatusBadGateway, "Payment provider unavailable", "")
	default:
		GetLogger().Error("unhandled service error", zap.Error(err), zap.String("trace_id", traceID(c)))
		JSONError(c, http.StatusInternalServerError, "Internal server error", "")
	}
}

func traceID(c *gin.Context) string {
	if v, ok := c.Get(TraceIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
