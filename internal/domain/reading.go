package domain

import (
	"math"
	"time"
)

// DistanceReading is a recorded snapshot of a rangefinder's published state.
// This is pure domain logic - no database, no gRPC, just business concepts
type DistanceReading struct {
	ID        int64
	SensorID  string
	DistanceM float64
	Status    Status
	Quality   Quality
	Timestamp time.Time
}

// NewDistanceReading creates a snapshot with validation
func NewDistanceReading(sensorID string, state State, quality Quality) (*DistanceReading, error) {
	if sensorID == "" {
		return nil, ErrMissingSensorID
	}
	// NaN and Inf cannot be stored or averaged
	if math.IsNaN(state.DistanceM) || math.IsInf(state.DistanceM, 0) {
		return nil, ErrInvalidDistance
	}

	return &DistanceReading{
		SensorID:  sensorID,
		DistanceM: state.DistanceM,
		Status:    state.Status,
		Quality:   quality,
		Timestamp: time.Now(),
	}, nil
}

// IsValid returns true if the snapshot carried a usable distance
func (r *DistanceReading) IsValid() bool {
	return r.Status == StatusGood
}
