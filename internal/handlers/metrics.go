package handlers

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"order-pricing-api/internal/services"
)

const metricsNamespace = "order_pricing"

// registerCacheMetrics exposes the pricing memo counters as collectors read at scrape time
func registerCacheMetrics(reg prometheus.Registerer, svc services.PricingService) error {
	collectors := []prometheus.Collector{
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "pricing_cache_hits_total",
			Help:      "Totals served from the pricing memo.",
		}, func() float64 {
			return float64(svc.CacheStats(context.Background()).Hits)
		}),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "pricing_cache_misses_total",
			Help:      "Totals computed because the pricing memo had no entry.",
		}, func() float64 {
			return float64(svc.CacheStats(context.Background()).Misses)
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "pricing_cache_entries",
			Help:      "Entries currently held by the pricing memo.",
		}, func() float64 {
			return float64(svc.CacheStats(context.Background()).Entries)
		}),
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("register cache metrics: %w", err)
		}
	}
	return nil
}
