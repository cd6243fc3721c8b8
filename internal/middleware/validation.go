package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"order-pricing-api/internal/pricing"
)

// ValidationError represents a validation error with field details
type ValidationError struct {
	Line    int    `json:"line,omitempty"`
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error            string            `json:"error"`
	Message          string            `json:"message"`
	ValidationErrors []ValidationError `json:"validation_errors,omitempty"`
	RequestID        string            `json:"request_id,omitempty"`
	Timestamp        string            `json:"timestamp"`
}

// NewErrorResponse builds an ErrorResponse stamped with the request ID and time
func NewErrorResponse(c *gin.Context, errMsg, message string) ErrorResponse {
	return ErrorResponse{
		Error:     errMsg,
		Message:   message,
		RequestID: c.GetString(RequestIDKey),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// ErrorMapper maps an error a handler attached to the context onto a status
// code and response body
type ErrorMapper func(err error, requestID string) (int, ErrorResponse)

// EnhancedErrorHandler writes the response for the last error a handler attached
// to the context. Binding failures are answered here, expanded field by field;
// every other error goes through mapErr. A nil mapErr answers public errors
// with 400 and hides everything else behind a 500.
func EnhancedErrorHandler(mapErr ErrorMapper) gin.HandlerFunc {
	if mapErr == nil {
		mapErr = defaultErrorMapper
	}

	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last()
		requestID := c.GetString(RequestIDKey)

		var status int
		var response ErrorResponse
		var bindErrors validator.ValidationErrors

		switch {
		case err.Type == gin.ErrorTypeBind && errors.As(err.Err, &bindErrors):
			status = http.StatusBadRequest
			response = NewErrorResponse(c, "Validation failed", "Request validation failed")
			response.ValidationErrors = formatValidationErrors(bindErrors)

		case err.Type == gin.ErrorTypeBind:
			status = http.StatusBadRequest
			response = NewErrorResponse(c, "Invalid request body", err.Error())

		case err.Type == gin.ErrorTypePublic:
			status = http.StatusBadRequest
			response = NewErrorResponse(c, "Request failed", err.Error())

		default:
			status, response = mapErr(err.Err, requestID)
		}

		entry := logrus.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"error":      err.Error(),
			"error_type": fmt.Sprintf("%d", err.Type),
		})
		if status >= http.StatusInternalServerError {
			entry.Error("Request error")
		} else {
			entry.Debug("Request rejected")
		}

		c.JSON(status, response)
	}
}

func defaultErrorMapper(_ error, requestID string) (int, ErrorResponse) {
	return http.StatusInternalServerError, ErrorResponse{
		Error:     "Internal server error",
		Message:   "An internal error occurred",
		RequestID: requestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// RateLimiter implements rate limiting middleware. A non-positive rate
// disables limiting.
func RateLimiter(requestsPerSecond float64, burstSize int) gin.HandlerFunc {
	if requestsPerSecond <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), burstSize)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			logrus.WithFields(logrus.Fields{
				"request_id": c.GetString(RequestIDKey),
				"client_ip":  c.ClientIP(),
				"path":       c.Request.URL.Path,
				"user_agent": c.Request.UserAgent(),
			}).Warn("Rate limit exceeded")

			c.JSON(http.StatusTooManyRequests, NewErrorResponse(c,
				"Rate limit exceeded",
				fmt.Sprintf("Too many requests. Limit: %.1f requests per second", requestsPerSecond)))
			c.Abort()
			return
		}
		c.Next()
	}
}

// SecurityHeaders adds security headers to responses
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Cache-Control", "no-store")

		c.Next()
	}
}

// ContentTypeValidation validates request content types
func ContentTypeValidation(allowedTypes ...string) gin.HandlerFunc {
	if len(allowedTypes) == 0 {
		allowedTypes = []string{"application/json"}
	}

	return func(c *gin.Context) {
		// Skip validation for requests without a body
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead || c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		contentType := c.GetHeader("Content-Type")
		if contentType == "" {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "Missing Content-Type header", "Content-Type header is required"))
			c.Abort()
			return
		}

		// Ignore charset and other parameters
		mainType := strings.TrimSpace(strings.Split(contentType, ";")[0])

		for _, allowedType := range allowedTypes {
			if strings.EqualFold(mainType, allowedType) {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusUnsupportedMediaType, NewErrorResponse(c,
			"Unsupported Content-Type",
			fmt.Sprintf("Content-Type '%s' is not supported. Allowed types: %v", mainType, allowedTypes)))
		c.Abort()
	}
}

// RequestSizeLimit limits the size of request bodies
func RequestSizeLimit(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			c.JSON(http.StatusRequestEntityTooLarge, NewErrorResponse(c,
				"Request too large",
				fmt.Sprintf("Request body size (%d bytes) exceeds maximum allowed size (%d bytes)", c.Request.ContentLength, maxSize)))
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}

// FormatLineErrors converts line item validation failures into response entries
func FormatLineErrors(err *pricing.ValidationError) []ValidationError {
	out := make([]ValidationError, 0, len(err.Fields))
	for _, f := range err.Fields {
		out = append(out, ValidationError{
			Line:    f.Line,
			Field:   f.Field,
			Tag:     f.Tag,
			Value:   f.Value,
			Message: f.Message,
		})
	}
	return out
}

func formatValidationErrors(validationErrors validator.ValidationErrors) []ValidationError {
	var errs []ValidationError

	for _, err := range validationErrors {
		var message string

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min", "gte":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max", "lte":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		case "dive":
			message = fmt.Sprintf("%s contains an invalid entry", err.Field())
		default:
			message = fmt.Sprintf("%s is invalid", err.Field())
		}

		errs = append(errs, ValidationError{
			Field:   err.Field(),
			Tag:     err.Tag(),
			Value:   fmt.Sprintf("%v", err.Value()),
			Message: message,
		})
	}

	return errs
}
