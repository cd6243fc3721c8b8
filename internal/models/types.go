package models

import (
	"time"
)

// Common constants
const (
	// MoneyDecimalPlaces is the number of decimal places every monetary output is rounded to
	MoneyDecimalPlaces = 2

	// PercentScale is the divisor that turns a 0-100 percentage into a fraction
	PercentScale = 100.0

	// MaxLineItemsPerDocument bounds request sizes accepted by the HTTP surface
	MaxLineItemsPerDocument = 5000
)

// HealthCheck represents system health status
type HealthCheck struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Service   string    `json:"service"`
	Mode      string    `json:"mode"`
}
