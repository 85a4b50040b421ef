package domain

import "errors"

var (
	// ErrInvalidDistance indicates a distance that cannot be recorded
	ErrInvalidDistance = errors.New("distance must be a finite number")

	// ErrInvalidParams indicates unusable sensing bounds
	ErrInvalidParams = errors.New("invalid rangefinder parameters")

	// ErrMissingSensorID indicates a snapshot without an owning sensor
	ErrMissingSensorID = errors.New("sensor id is required")

	// ErrReadingNotFound indicates requested reading doesn't exist
	ErrReadingNotFound = errors.New("reading not found")

	// ErrSensorUnavailable indicates sensor cannot be read
	ErrSensorUnavailable = errors.New("sensor unavailable")

	// ErrUnknownBackend indicates an unsupported backend kind
	ErrUnknownBackend = errors.New("unknown rangefinder backend")
)
