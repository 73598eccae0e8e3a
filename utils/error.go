package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
					zap.String("requestId", c.GetString(RequestIDKey)),
				)

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message:   "Internal Server Error",
					Details:   "An unexpected error occurred. Please try again later.",
					RequestID: c.GetString(RequestIDKey),
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
	Logger.Warn(message,
		zap.Int("status", status),
		zap.String("details", details),
		zap.String("requestId", c.GetString(RequestIDKey)),
	)
	c.AbortWithStatusJSON(status, ErrorResponse{Message: message, Details: details, RequestID: c.GetString(RequestIDKey)})
}
