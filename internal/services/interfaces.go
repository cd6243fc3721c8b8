package services

import (
	"context"
	"time"

	"order-pricing-api/internal/models"
	"order-pricing-api/internal/pricing"
)

// PricingService defines the interface for document pricing operations
type PricingService interface {
	// CalculateTotals prices a list of line items without persisting anything
	CalculateTotals(ctx context.Context, req *CalculateTotalsRequest) (*CalculateTotalsResult, error)

	// CheckTender compares a tendered payment with the grand total of a document
	CheckTender(ctx context.Context, req *TenderCheckRequest) (*TenderCheckResult, error)

	// CacheStats reports memoization counters
	CacheStats(ctx context.Context) pricing.MemoStats
}

// CalculateTotalsRequest represents a request to calculate document totals
type CalculateTotalsRequest struct {
	LineItems []models.LineItem `json:"line_items"`

	// IncludeLineLevelCalculations overrides the configured default when set
	IncludeLineLevelCalculations *bool `json:"include_line_level_calculations,omitempty"`

	// Validate runs strict line validation before pricing
	Validate bool `json:"validate,omitempty"`
}

// CalculateTotalsResult represents calculated totals for a document
type CalculateTotalsResult struct {
	Totals                       models.Totals `json:"totals"`
	LineCount                    int           `json:"line_count"`
	IncludeLineLevelCalculations bool          `json:"include_line_level_calculations"`
	CalculatedAt                 time.Time     `json:"calculated_at"`
}

// TenderCheckRequest represents a checkout request to validate a tendered amount
type TenderCheckRequest struct {
	CalculateTotalsRequest
	TenderedAmount float64 `json:"tendered_amount"`
}

// TenderCheckResult reports whether a tendered amount covers the grand total
type TenderCheckResult struct {
	Totals         models.Totals `json:"totals"`
	TenderedAmount float64       `json:"tendered_amount"`
	Sufficient     bool          `json:"sufficient"`
	Change         float64       `json:"change"`
	Shortfall      float64       `json:"shortfall"`
}
