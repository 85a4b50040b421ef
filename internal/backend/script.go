package backend

import (
	"time"

	"github.com/quentinrf/plant-monitor/services/rangefinder-service/internal/domain"
	"github.com/quentinrf/plant-monitor/services/rangefinder-service/internal/ports"
)

// DefaultTimeout is how long a pushed reading stays fresh
const DefaultTimeout = 500 * time.Millisecond

// ScriptBackend publishes distances pushed by an external script.
// Readings go stale when no new push arrives within the timeout.
type ScriptBackend struct {
	Base

	clock     ports.Clock
	timeoutMs uint32

	// buffered by the last push
	distanceM float64
	quality   domain.Quality
	received  bool
}

// ScriptOption configures a ScriptBackend
type ScriptOption func(*ScriptBackend)

// WithTimeout sets how long a reading stays fresh. Non-positive values are ignored.
func WithTimeout(d time.Duration) ScriptOption {
	return func(s *ScriptBackend) {
		if d > 0 {
			s.timeoutMs = uint32(d.Milliseconds())
		}
	}
}

// NewScriptBackend creates a backend with no data yet
func NewScriptBackend(params domain.Params, clock ports.Clock, opts ...ScriptOption) *ScriptBackend {
	s := &ScriptBackend{
		Base:      newBase(params),
		clock:     clock,
		timeoutMs: uint32(DefaultTimeout.Milliseconds()),
		quality:   domain.UnknownQuality,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitReading stores a distance with no quality
func (s *ScriptBackend) SubmitReading(distanceM float64) bool {
	return s.SubmitReadingWithQuality(distanceM, -1)
}

// SubmitReadingWithQuality stores a distance and quality and stamps the arrival time.
// A quality outside [0, 100] is treated as no quality. Always accepted.
func (s *ScriptBackend) SubmitReadingWithQuality(distanceM, qualityPct float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.LastReadingMs = s.clock.Millis()
	s.received = true
	s.distanceM = distanceM
	s.quality = domain.NewQuality(qualityPct)
	return true
}

// SignalQuality returns the last stored quality.
// It is not synchronized with the published distance: a push between two
// updates is visible here before Update publishes its distance.
func (s *ScriptBackend) SignalQuality() (int8, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quality.Percent()
}

// Update publishes the buffered reading or expires it
func (s *ScriptBackend) Update() {
	s.mu.Lock()
	defer s.mu.Unlock()

	// unsigned subtraction survives counter wrap
	if !s.received || s.clock.Millis()-s.state.LastReadingMs > s.timeoutMs {
		s.setStatus(domain.StatusNoData)
		s.state.DistanceM = 0
		s.quality = domain.UnknownQuality
		return
	}

	// quality is left as pushed; a Good status may carry 0% quality
	s.state.DistanceM = s.distanceM
	s.updateStatus()
}

// SensorType is always unknown for scripted sensors
func (s *ScriptBackend) SensorType() domain.SensorType {
	return domain.SensorTypeUnknown
}

var _ ports.RangeBackend = (*ScriptBackend)(nil)
