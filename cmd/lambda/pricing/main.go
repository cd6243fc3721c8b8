package main

import (
	"context"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"order-pricing-api/internal/config"
	"order-pricing-api/internal/handlers"
	"order-pricing-api/pkg/lambda"
)

var loggingOnce sync.Once

// newHandler routes API Gateway proxy events to the pricing handlers. The
// container is built on the first invocation and reused while the instance is warm.
func newHandler(cm *lambda.ConnectionManager) func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		req := &lambda.Request{
			Method:      event.HTTPMethod,
			Path:        event.Path,
			Headers:     event.Headers,
			QueryParams: event.QueryStringParameters,
			Body:        []byte(event.Body),
			PathParams:  event.PathParameters,
		}

		container, err := cm.GetContainer(ctx)
		if err != nil {
			logrus.WithError(err).Error("Failed to initialize container")
			return internalError(), nil
		}
		loggingOnce.Do(func() { config.ConfigureLogging(container.Config) })
		cm.UpdateLastUsed()

		pricingHandler := handlers.NewPricingHandler(container.PricingService)

		var resp *lambda.Response

		switch {
		case req.Method == http.MethodPost && req.Path == "/api/v1/pricing/calculate":
			resp, err = pricingHandler.HandleCalculate(ctx, req)
		case req.Method == http.MethodPost && req.Path == "/api/v1/pricing/tender":
			resp, err = pricingHandler.HandleTender(ctx, req)
		case req.Method == http.MethodGet && req.Path == "/api/v1/pricing/cache/stats":
			resp, err = pricingHandler.HandleCacheStats(ctx, req)
		default:
			resp = lambda.NotFound()
		}

		if err != nil {
			logrus.WithError(err).WithField("path", req.Path).Error("Handler failed")
			return internalError(), nil
		}

		return events.APIGatewayProxyResponse{
			StatusCode: resp.StatusCode,
			Headers:    resp.Headers,
			Body:       string(resp.Body),
		}, nil
	}
}

func internalError() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusInternalServerError,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       `{"error": "Internal server error"}`,
	}
}

func main() {
	awslambda.Start(newHandler(lambda.GetConnectionManager()))
}
