package handlers

import (
	"errors"
	"net/http"
	"time"

	"order-pricing-api/internal/middleware"
	"order-pricing-api/internal/pricing"
	"order-pricing-api/internal/services"
)

// ErrorResponse represents a standard error response
type ErrorResponse = middleware.ErrorResponse

// errorResponseFor maps a service error onto a status code and response body.
// It serves as the router's middleware.ErrorMapper and backs the Lambda handlers.
func errorResponseFor(err error, requestID string) (int, ErrorResponse) {
	response := ErrorResponse{
		Message:   err.Error(),
		RequestID: requestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	var lineErrors *pricing.ValidationError
	switch {
	case errors.As(err, &lineErrors):
		response.Error = "Validation failed"
		response.ValidationErrors = middleware.FormatLineErrors(lineErrors)
		return http.StatusBadRequest, response

	case errors.Is(err, services.ErrTooManyLineItems):
		response.Error = "Too many line items"
		return http.StatusBadRequest, response

	case errors.Is(err, services.ErrInvalidTender):
		response.Error = "Invalid tendered amount"
		return http.StatusBadRequest, response

	case errors.Is(err, services.ErrNonFiniteTotal):
		response.Error = "Totals not computable"
		return http.StatusUnprocessableEntity, response

	default:
		response.Error = "Internal server error"
		response.Message = "An internal error occurred"
		return http.StatusInternalServerError, response
	}
}

// invalidBody builds the response for a request body that could not be decoded
func invalidBody(err error, requestID string) ErrorResponse {
	return ErrorResponse{
		Error:     "Invalid request body",
		Message:   err.Error(),
		RequestID: requestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
