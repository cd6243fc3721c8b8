package server

import (
	"fmt"

	"order-pricing-api/internal/config"
	"order-pricing-api/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	PricingService services.PricingService

	services *services.ServiceContainer
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	serviceContainer, err := services.NewServiceContainer(cfg.ServiceConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create service container: %w", err)
	}

	if err := serviceContainer.Validate(); err != nil {
		return nil, fmt.Errorf("invalid service container: %w", err)
	}

	return &Container{
		Config:         cfg,
		PricingService: serviceContainer.PricingService,
		services:       serviceContainer,
	}, nil
}

// Close cleans up all resources
func (c *Container) Close() error {
	if c.services != nil {
		if err := c.services.Close(); err != nil {
			return fmt.Errorf("failed to close services: %w", err)
		}
	}

	return nil
}
