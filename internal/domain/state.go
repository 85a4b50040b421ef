package domain

import (
	"fmt"
	"math"
)

// Params holds the configured sensing bounds of a rangefinder
type Params struct {
	MinDistanceM float64
	MaxDistanceM float64
}

// DefaultParams returns bounds suitable for a generic short range lidar
func DefaultParams() Params {
	return Params{
		MinDistanceM: 0.2,
		MaxDistanceM: 40.0,
	}
}

// Validate checks that the bounds describe a usable range
func (p Params) Validate() error {
	if math.IsNaN(p.MinDistanceM) || math.IsNaN(p.MaxDistanceM) {
		return fmt.Errorf("%w: bounds must be numbers", ErrInvalidParams)
	}
	if p.MinDistanceM < 0 {
		return fmt.Errorf("%w: min distance %.2f is negative", ErrInvalidParams, p.MinDistanceM)
	}
	if p.MaxDistanceM <= p.MinDistanceM {
		return fmt.Errorf("%w: max distance %.2f must exceed min distance %.2f",
			ErrInvalidParams, p.MaxDistanceM, p.MinDistanceM)
	}
	return nil
}

// Classify maps a distance to a status given the sensing bounds
func Classify(distanceM, minM, maxM float64) Status {
	if distanceM > maxM {
		return StatusOutOfRangeHigh
	} else if distanceM < minM {
		return StatusOutOfRangeLow
	}
	return StatusGood
}

// State is the externally visible state of one rangefinder
type State struct {
	DistanceM     float64
	Status        Status
	LastReadingMs uint32
}

// NewState returns the state of a backend that has not produced data yet
func NewState() State {
	return State{Status: StatusNoData}
}
