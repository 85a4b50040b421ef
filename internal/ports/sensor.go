package ports

import (
	"context"
)

// DistanceSensor defines how to poll a distance measurement
// This is a PORT - adapters (Mock) will implement it
type DistanceSensor interface {
	// ReadDistance returns the current distance in meters
	ReadDistance(ctx context.Context) (float64, error)

	// Close releases any resources
	Close() error
}
