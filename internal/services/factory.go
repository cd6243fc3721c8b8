package services

import (
	"fmt"
)

// ServiceContainer holds all service instances
type ServiceContainer struct {
	PricingService PricingService
}

// ServiceConfig holds configuration for services
type ServiceConfig struct {
	Pricing *PricingConfig
}

// NewServiceContainer creates a new service container with all services
func NewServiceContainer(config *ServiceConfig) (*ServiceContainer, error) {
	if config == nil {
		config = &ServiceConfig{}
	}

	pricingConfig := config.Pricing
	if pricingConfig == nil {
		pricingConfig = DefaultPricingConfig()
	}

	if pricingConfig.CacheSize < 0 {
		return nil, fmt.Errorf("pricing cache size cannot be negative, got %d", pricingConfig.CacheSize)
	}
	if pricingConfig.MaxLineItems < 0 {
		return nil, fmt.Errorf("max line items cannot be negative, got %d", pricingConfig.MaxLineItems)
	}

	return &ServiceContainer{
		PricingService: NewPricingService(pricingConfig),
	}, nil
}

// Validate validates that all services are properly initialized
func (sc *ServiceContainer) Validate() error {
	if sc.PricingService == nil {
		return fmt.Errorf("pricing service is nil")
	}

	return nil
}

// Close performs cleanup for all services
func (sc *ServiceContainer) Close() error {
	// Services hold no connections; this is a hook for symmetry with the server container
	return nil
}
