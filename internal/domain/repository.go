package domain

import (
	"context"
	"time"
)

// ReadingRepository defines operations for storing/retrieving snapshots
// This is a PORT - adapters (SQLite, Memory) will implement it
type ReadingRepository interface {
	// SaveReading persists a snapshot and assigns its ID
	SaveReading(ctx context.Context, reading *DistanceReading) error

	// GetReading retrieves a specific snapshot by ID
	GetReading(ctx context.Context, id int64) (*DistanceReading, error)

	// GetReadingsInRange retrieves all snapshots within time range.
	// Uses a half-open interval: inclusive start, exclusive end [start, end).
	GetReadingsInRange(ctx context.Context, start, end time.Time) ([]*DistanceReading, error)

	// GetLatestReading retrieves the most recent snapshot
	GetLatestReading(ctx context.Context) (*DistanceReading, error)

	// DeleteOldReadings removes snapshots older than specified duration
	DeleteOldReadings(ctx context.Context, olderThan time.Duration) error
}
