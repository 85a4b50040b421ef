package ports

import "github.com/quentinrf/plant-monitor/services/rangefinder-service/internal/domain"

// RangeBackend is the capability set every rangefinder backend exposes
type RangeBackend interface {
	// Update reconciles buffered data into the published state.
	// Called on a fixed tick by the reconciler loop.
	Update()

	// SubmitReading accepts a distance pushed by a script
	SubmitReading(distanceM float64) bool

	// SubmitReadingWithQuality accepts a distance plus a quality percentage.
	// Quality arrives as a float; out of range values mean "no quality".
	SubmitReadingWithQuality(distanceM, qualityPct float64) bool

	// SignalQuality returns the last stored quality and whether it is present
	SignalQuality() (int8, bool)

	// SensorType reports the sensor classification for telemetry
	SensorType() domain.SensorType

	// State returns a copy of the published state
	State() domain.State
}
