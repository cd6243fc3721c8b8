package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"order-pricing-api/internal/models"
	"order-pricing-api/internal/pricing"
)

var (
	// ErrTooManyLineItems is returned when a document exceeds the configured line limit
	ErrTooManyLineItems = errors.New("too many line items")

	// ErrInvalidTender is returned when a tendered amount is negative or not a finite number
	ErrInvalidTender = errors.New("invalid tendered amount")

	// ErrNonFiniteTotal is returned when a grand total cannot be compared with a payment
	ErrNonFiniteTotal = errors.New("grand total is not a finite amount")
)

// PricingConfig holds pricing service configuration
type PricingConfig struct {
	// IncludeLineLevelCalculations is applied when a request does not set the toggle
	IncludeLineLevelCalculations bool

	// StrictValidation validates every request, not only those that ask for it
	StrictValidation bool

	// CacheSize is the memo capacity; 0 disables memoization
	CacheSize int

	// MaxLineItems bounds documents; 0 means no limit
	MaxLineItems int
}

// DefaultPricingConfig returns the default pricing configuration
func DefaultPricingConfig() *PricingConfig {
	return &PricingConfig{
		IncludeLineLevelCalculations: true,
		CacheSize:                    pricing.DefaultMemoSize,
		MaxLineItems:                 models.MaxLineItemsPerDocument,
	}
}

// pricingService implements PricingService
type pricingService struct {
	config PricingConfig
	memo   *pricing.Memo
	now    func() time.Time
}

// NewPricingService creates a new pricing service
func NewPricingService(config *PricingConfig) PricingService {
	if config == nil {
		config = DefaultPricingConfig()
	}

	return &pricingService{
		config: *config,
		memo:   pricing.NewMemo(config.CacheSize),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CalculateTotals prices the request's line items
func (s *pricingService) CalculateTotals(ctx context.Context, req *CalculateTotalsRequest) (*CalculateTotalsResult, error) {
	if req == nil {
		return nil, fmt.Errorf("calculate totals request cannot be nil")
	}

	if s.config.MaxLineItems > 0 && len(req.LineItems) > s.config.MaxLineItems {
		return nil, fmt.Errorf("%w: document has %d line items, limit is %d", ErrTooManyLineItems, len(req.LineItems), s.config.MaxLineItems)
	}

	if req.Validate || s.config.StrictValidation {
		if err := pricing.Validate(req.LineItems); err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}
	}

	opts := s.resolveOptions(req.IncludeLineLevelCalculations)
	totals, cached := s.memo.Compute(req.LineItems, opts)

	logrus.WithFields(logrus.Fields{
		"line_count":  len(req.LineItems),
		"line_level":  opts.LineLevelCalculationsEnabled(),
		"grand_total": totals.GrandTotal,
		"cache_hit":   cached,
	}).Debug("Calculated document totals")

	return &CalculateTotalsResult{
		Totals:                       totals,
		LineCount:                    len(req.LineItems),
		IncludeLineLevelCalculations: opts.LineLevelCalculationsEnabled(),
		CalculatedAt:                 s.now(),
	}, nil
}

// CheckTender prices the document and compares the grand total with the tendered amount
func (s *pricingService) CheckTender(ctx context.Context, req *TenderCheckRequest) (*TenderCheckResult, error) {
	if req == nil {
		return nil, fmt.Errorf("tender check request cannot be nil")
	}

	if math.IsNaN(req.TenderedAmount) || math.IsInf(req.TenderedAmount, 0) || req.TenderedAmount < 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTender, req.TenderedAmount)
	}

	calculated, err := s.CalculateTotals(ctx, &req.CalculateTotalsRequest)
	if err != nil {
		return nil, err
	}

	grandTotal := calculated.Totals.GrandTotal
	if math.IsNaN(grandTotal) || math.IsInf(grandTotal, 0) {
		return nil, ErrNonFiniteTotal
	}

	tendered := pricing.MoneyDecimal(req.TenderedAmount)
	difference := tendered.Sub(pricing.MoneyDecimal(grandTotal))

	result := &TenderCheckResult{
		Totals:         calculated.Totals,
		TenderedAmount: tendered.InexactFloat64(),
		Sufficient:     !difference.IsNegative(),
	}
	if result.Sufficient {
		result.Change = difference.InexactFloat64()
	} else {
		result.Shortfall = difference.Neg().InexactFloat64()
	}

	logrus.WithFields(logrus.Fields{
		"grand_total": grandTotal,
		"tendered":    result.TenderedAmount,
		"sufficient":  result.Sufficient,
	}).Debug("Checked tendered amount")

	return result, nil
}

// CacheStats returns memo counters
func (s *pricingService) CacheStats(ctx context.Context) pricing.MemoStats {
	return s.memo.Stats()
}

func (s *pricingService) resolveOptions(override *bool) *pricing.Options {
	include := s.config.IncludeLineLevelCalculations
	if override != nil {
		include = *override
	}
	if !include {
		return pricing.RawTotalsOnly()
	}
	return pricing.WithLineLevelCalculations(true)
}
