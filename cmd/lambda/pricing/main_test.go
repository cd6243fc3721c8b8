package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/require"

	"order-pricing-api/internal/config"
	"order-pricing-api/internal/services"
	"order-pricing-api/pkg/lambda"
)

func testManager() *lambda.ConnectionManager {
	return lambda.NewConnectionManager(func() (*config.Config, error) {
		return &config.Config{
			Environment: "test",
			Port:        "8080",
			Logging:     config.LoggingConfig{Level: "error"},
			Pricing:     config.PricingConfig{IncludeLineLevelCalculations: true, CacheSize: 4},
			HTTP:        config.HTTPConfig{MaxRequestBytes: 1024},
		}, nil
	})
}

func TestHandler_Routes(t *testing.T) {
	h := newHandler(testManager())
	ctx := context.Background()

	tests := []struct {
		name       string
		event      events.APIGatewayProxyRequest
		wantStatus int
	}{
		{
			name: "calculate",
			event: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost,
				Path:       "/api/v1/pricing/calculate",
				Body:       `{"line_items":[{"quantity":2,"unit_price":10,"tax_percent":10}]}`,
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "tender",
			event: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost,
				Path:       "/api/v1/pricing/tender",
				Body:       `{"line_items":[{"quantity":2,"unit_price":10}],"tendered_amount":5}`,
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "cache stats",
			event: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodGet,
				Path:       "/api/v1/pricing/cache/stats",
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "unknown route",
			event: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodGet,
				Path:       "/api/v1/receipts",
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := h(ctx, tt.event)
			require.NoError(t, err)
			require.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestHandler_CalculateBody(t *testing.T) {
	h := newHandler(testManager())

	resp, err := h(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/api/v1/pricing/calculate",
		Body:       `{"line_items":[{"quantity":2,"unit_price":10,"tax_percent":10}]}`,
	})
	require.NoError(t, err)

	var result services.CalculateTotalsResult
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &result))
	require.Equal(t, 22.0, result.Totals.GrandTotal)
	require.Equal(t, 2.0, result.Totals.ItemQuantityTotal)
}

func TestHandler_InitFailure(t *testing.T) {
	h := newHandler(lambda.NewConnectionManager(func() (*config.Config, error) {
		return nil, errors.New("no config")
	}))

	resp, err := h(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodGet,
		Path:       "/api/v1/pricing/cache/stats",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
