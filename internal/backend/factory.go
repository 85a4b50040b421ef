package backend

import (
	"fmt"

	"github.com/quentinrf/plant-monitor/services/rangefinder-service/internal/domain"
	"github.com/quentinrf/plant-monitor/services/rangefinder-service/internal/ports"
)

// Backend kinds accepted by New
const (
	KindScript    = "script"
	KindSimulated = "sim"
)

// New builds a backend of the given kind.
// sensor is only used by the simulated backend; opts only by the script backend.
func New(kind string, params domain.Params, clock ports.Clock, sensor ports.DistanceSensor, opts ...ScriptOption) (ports.RangeBackend, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	switch kind {
	case KindScript:
		return NewScriptBackend(params, clock, opts...), nil
	case KindSimulated:
		if sensor == nil {
			return nil, fmt.Errorf("%w: %q backend needs a distance sensor", domain.ErrSensorUnavailable, kind)
		}
		return NewSimulatedBackend(params, clock, sensor), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownBackend, kind)
	}
}
