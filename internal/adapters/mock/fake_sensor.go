package mock

import (
	"context"
	"math/rand"
	"sync"

	"github.com/quentinrf/plant-monitor/services/rangefinder-service/internal/domain"
)

// FakeSensor simulates a distance sensor for development
// This implements the ports.DistanceSensor interface
type FakeSensor struct {
	baseValue float64
	variation float64

	mu     sync.Mutex
	failed bool
}

// NewFakeSensor creates a sensor that returns realistic values
// baseValue: average distance in meters (e.g., 10 for a drone at hover)
// variation: +/- range (e.g., 0.5 means 9.5-10.5)
func NewFakeSensor(baseValue, variation float64) *FakeSensor {
	return &FakeSensor{
		baseValue: baseValue,
		variation: variation,
	}
}

// ReadDistance returns a simulated distance
// Simulates terrain and attitude noise under a moving vehicle
func (s *FakeSensor) ReadDistance(ctx context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failed {
		return 0, domain.ErrSensorUnavailable
	}

	variance := (rand.Float64() - 0.5) * 2 * s.variation
	distance := s.baseValue + variance

	if distance < 0 {
		distance = 0
	}

	return distance, nil
}

// SetFailed makes subsequent reads fail until cleared
func (s *FakeSensor) SetFailed(failed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed = failed
}

// Close is a no-op for fake sensor
func (s *FakeSensor) Close() error {
	return nil
}
