package backend

import (
	"context"

	"github.com/quentinrf/plant-monitor/services/rangefinder-service/internal/domain"
	"github.com/quentinrf/plant-monitor/services/rangefinder-service/internal/ports"
)

// SimulatedBackend polls a DistanceSensor on every update
type SimulatedBackend struct {
	Base

	clock  ports.Clock
	sensor ports.DistanceSensor
}

// NewSimulatedBackend creates a backend reading from sensor
func NewSimulatedBackend(params domain.Params, clock ports.Clock, sensor ports.DistanceSensor) *SimulatedBackend {
	return &SimulatedBackend{
		Base:   newBase(params),
		clock:  clock,
		sensor: sensor,
	}
}

// Update polls the sensor and publishes the result
func (s *SimulatedBackend) Update() {
	s.mu.Lock()
	defer s.mu.Unlock()

	distance, err := s.sensor.ReadDistance(context.Background())
	if err != nil {
		s.setStatus(domain.StatusNoData)
		s.state.DistanceM = 0
		return
	}

	s.state.LastReadingMs = s.clock.Millis()
	s.state.DistanceM = distance
	s.updateStatus()
}

// SensorType reports the simulated sensor as a laser
func (s *SimulatedBackend) SensorType() domain.SensorType {
	return domain.SensorTypeLaser
}

var _ ports.RangeBackend = (*SimulatedBackend)(nil)
