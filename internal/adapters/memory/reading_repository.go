package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/quentinrf/plant-monitor/services/rangefinder-service/internal/domain"
)

// ReadingRepository implements domain.ReadingRepository with in-memory storage
// Snapshots are lost on restart
type ReadingRepository struct {
	mu       sync.RWMutex
	readings map[int64]*domain.DistanceReading
	nextID   int64
}

// NewReadingRepository creates an empty in-memory repository
func NewReadingRepository() *ReadingRepository {
	return &ReadingRepository{
		readings: make(map[int64]*domain.DistanceReading),
		nextID:   1,
	}
}

// SaveReading stores a snapshot in memory
func (r *ReadingRepository) SaveReading(ctx context.Context, reading *domain.DistanceReading) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if reading.ID == 0 {
		reading.ID = r.nextID
		r.nextID++
	}

	stored := *reading
	r.readings[reading.ID] = &stored
	return nil
}

// GetReading retrieves a snapshot by ID
func (r *ReadingRepository) GetReading(ctx context.Context, id int64) (*domain.DistanceReading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reading, exists := r.readings[id]
	if !exists {
		return nil, domain.ErrReadingNotFound
	}

	out := *reading
	return &out, nil
}

// GetReadingsInRange returns all snapshots in [start, end)
func (r *ReadingRepository) GetReadingsInRange(ctx context.Context, start, end time.Time) ([]*domain.DistanceReading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []*domain.DistanceReading
	for _, reading := range r.readings {
		if !reading.Timestamp.Before(start) && reading.Timestamp.Before(end) {
			out := *reading
			results = append(results, &out)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Timestamp.Before(results[j].Timestamp)
	})

	return results, nil
}

// GetLatestReading returns the most recent snapshot
func (r *ReadingRepository) GetLatestReading(ctx context.Context) (*domain.DistanceReading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *domain.DistanceReading
	for _, reading := range r.readings {
		if latest == nil || reading.Timestamp.After(latest.Timestamp) {
			latest = reading
		}
	}

	if latest == nil {
		return nil, domain.ErrReadingNotFound
	}

	out := *latest
	return &out, nil
}

// DeleteOldReadings removes snapshots older than specified duration
func (r *ReadingRepository) DeleteOldReadings(ctx context.Context, olderThan time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)

	for id, reading := range r.readings {
		if reading.Timestamp.Before(cutoff) {
			delete(r.readings, id)
		}
	}

	return nil
}
