package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"order-pricing-api/internal/middleware"
	"order-pricing-api/internal/services"
	"order-pricing-api/pkg/lambda"
)

// PricingHandler handles pricing-related HTTP requests
type PricingHandler struct {
	pricingService services.PricingService
}

// NewPricingHandler creates a new pricing handler
func NewPricingHandler(pricingService services.PricingService) *PricingHandler {
	return &PricingHandler{
		pricingService: pricingService,
	}
}

// @Summary Calculate document totals
// @Description Price a list of line items and return the rounded document totals. Nothing is persisted.
// @Tags pricing
// @Accept json
// @Produce json
// @Param request body services.CalculateTotalsRequest true "Line items and options"
// @Success 200 {object} services.CalculateTotalsResult
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /pricing/calculate [post]
func (h *PricingHandler) CalculateTotals(c *gin.Context) {
	var req services.CalculateTotalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}
	c.Set(middleware.LineCountKey, len(req.LineItems))

	result, err := h.pricingService.CalculateTotals(c.Request.Context(), &req)
	if err == nil && !result.Totals.IsFinite() {
		err = services.ErrNonFiniteTotal
	}
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary Check a tendered amount
// @Description Price a document and report whether the tendered amount covers the grand total, with change or shortfall.
// @Tags pricing
// @Accept json
// @Produce json
// @Param request body services.TenderCheckRequest true "Line items, options and tendered amount"
// @Success 200 {object} services.TenderCheckResult
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /pricing/tender [post]
func (h *PricingHandler) CheckTender(c *gin.Context) {
	var req services.TenderCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}
	c.Set(middleware.LineCountKey, len(req.LineItems))

	result, err := h.pricingService.CheckTender(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary Pricing cache statistics
// @Description Report memoization hits, misses and current entry count
// @Tags pricing
// @Produce json
// @Success 200 {object} pricing.MemoStats
// @Router /pricing/cache/stats [get]
func (h *PricingHandler) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.pricingService.CacheStats(c.Request.Context()))
}

// Lambda handler methods

// HandleCalculate prices a document from a serverless request
func (h *PricingHandler) HandleCalculate(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	requestID := lambdaRequestID(req)

	var calcReq services.CalculateTotalsRequest
	if err := json.Unmarshal(req.Body, &calcReq); err != nil {
		return jsonResponse(http.StatusBadRequest, invalidBody(err, requestID)), nil
	}

	result, err := h.pricingService.CalculateTotals(ctx, &calcReq)
	if err == nil && !result.Totals.IsFinite() {
		err = services.ErrNonFiniteTotal
	}
	if err != nil {
		return lambdaError(err, requestID), nil
	}

	return jsonResponse(http.StatusOK, result), nil
}

// HandleTender checks a tendered amount from a serverless request
func (h *PricingHandler) HandleTender(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	requestID := lambdaRequestID(req)

	var tenderReq services.TenderCheckRequest
	if err := json.Unmarshal(req.Body, &tenderReq); err != nil {
		return jsonResponse(http.StatusBadRequest, invalidBody(err, requestID)), nil
	}

	result, err := h.pricingService.CheckTender(ctx, &tenderReq)
	if err != nil {
		return lambdaError(err, requestID), nil
	}

	return jsonResponse(http.StatusOK, result), nil
}

// HandleCacheStats reports memo counters from a serverless request
func (h *PricingHandler) HandleCacheStats(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	return jsonResponse(http.StatusOK, h.pricingService.CacheStats(ctx)), nil
}

func lambdaRequestID(req *lambda.Request) string {
	for _, key := range []string{"X-Request-ID", "x-request-id"} {
		if id := req.Headers[key]; id != "" {
			return id
		}
	}
	return uuid.New().String()
}

func lambdaError(err error, requestID string) *lambda.Response {
	status, response := errorResponseFor(err, requestID)
	if status >= http.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Pricing request failed")
	}
	return jsonResponse(status, response)
}

func jsonResponse(status int, body interface{}) *lambda.Response {
	payload, err := json.Marshal(body)
	if err != nil {
		return lambda.JSONResponse(http.StatusInternalServerError, []byte(`{"error": "Failed to marshal response"}`))
	}
	return lambda.JSONResponse(status, payload)
}
