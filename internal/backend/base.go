// Package backend implements rangefinder backends behind ports.RangeBackend.
package backend

import (
	"sync"

	"github.com/quentinrf/plant-monitor/services/rangefinder-service/internal/domain"
)

// Base carries the state shared by every backend.
// Concrete backends embed it and override the capabilities they support.
type Base struct {
	mu     sync.Mutex
	state  domain.State
	params domain.Params
}

func newBase(params domain.Params) Base {
	return Base{
		state:  domain.NewState(),
		params: params,
	}
}

// State returns a copy of the published state
func (b *Base) State() domain.State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// SubmitReading is rejected by backends that do not take script input
func (b *Base) SubmitReading(distanceM float64) bool {
	return false
}

// SubmitReadingWithQuality is rejected by backends that do not take script input
func (b *Base) SubmitReadingWithQuality(distanceM, qualityPct float64) bool {
	return false
}

// SignalQuality reports no quality unless a backend overrides it
func (b *Base) SignalQuality() (int8, bool) {
	return domain.UnknownQuality.Percent()
}

// setStatus must be called with mu held
func (b *Base) setStatus(status domain.Status) {
	b.state.Status = status
}

// updateStatus classifies the published distance against the bounds.
// Must be called with mu held.
func (b *Base) updateStatus() {
	b.setStatus(domain.Classify(b.state.DistanceM, b.params.MinDistanceM, b.params.MaxDistanceM))
}
