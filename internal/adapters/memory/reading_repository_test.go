package memory

import (
	"context"
	"testing"
	"time"

	"github.com/quentinrf/plant-monitor/services/rangefinder-service/internal/domain"
)

func makeReading(t *testing.T, distance float64, ts time.Time) *domain.DistanceReading {
	t.Helper()
	r, err := domain.NewDistanceReading("rf-test", domain.State{DistanceM: distance, Status: domain.StatusGood}, domain.NewQuality(70))
	if err != nil {
		t.Fatalf("unexpected error creating reading: %v", err)
	}
	r.Timestamp = ts
	return r
}

func TestSaveAndGetReading(t *testing.T) {
	repo := NewReadingRepository()
	ctx := context.Background()

	reading := makeReading(t, 12.5, time.Now())
	if err := repo.SaveReading(ctx, reading); err != nil {
		t.Fatalf("SaveReading failed: %v", err)
	}
	if reading.ID != 1 {
		t.Fatalf("expected ID 1, got %d", reading.ID)
	}

	got, err := repo.GetReading(ctx, reading.ID)
	if err != nil {
		t.Fatalf("GetReading failed: %v", err)
	}
	if got.DistanceM != 12.5 {
		t.Errorf("got distance %v, want 12.5", got.DistanceM)
	}
	if pct, ok := got.Quality.Percent(); !ok || pct != 70 {
		t.Errorf("got quality (%d, %v), want (70, true)", pct, ok)
	}
}

func TestGetLatestReading(t *testing.T) {
	repo := NewReadingRepository()
	ctx := context.Background()

	if _, err := repo.GetLatestReading(ctx); err != domain.ErrReadingNotFound {
		t.Fatalf("expected ErrReadingNotFound, got %v", err)
	}

	now := time.Now()
	_ = repo.SaveReading(ctx, makeReading(t, 1, now.Add(-time.Minute)))
	_ = repo.SaveReading(ctx, makeReading(t, 2, now))
	_ = repo.SaveReading(ctx, makeReading(t, 3, now.Add(-time.Hour)))

	latest, err := repo.GetLatestReading(ctx)
	if err != nil {
		t.Fatalf("GetLatestReading failed: %v", err)
	}
	if latest.DistanceM != 2 {
		t.Errorf("expected latest distance 2, got %v", latest.DistanceM)
	}
}

func TestGetReadingsInRange_HalfOpen(t *testing.T) {
	repo := NewReadingRepository()
	ctx := context.Background()

	start := time.Now().Truncate(time.Second)
	end := start.Add(time.Minute)

	_ = repo.SaveReading(ctx, makeReading(t, 1, start))
	_ = repo.SaveReading(ctx, makeReading(t, 2, start.Add(30*time.Second)))
	_ = repo.SaveReading(ctx, makeReading(t, 3, end))

	results, err := repo.GetReadingsInRange(ctx, start, end)
	if err != nil {
		t.Fatalf("GetReadingsInRange failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 readings, got %d", len(results))
	}
	if results[0].DistanceM != 1 || results[1].DistanceM != 2 {
		t.Errorf("unexpected order: %v, %v", results[0].DistanceM, results[1].DistanceM)
	}
}

func TestDeleteOldReadings(t *testing.T) {
	repo := NewReadingRepository()
	ctx := context.Background()

	old := makeReading(t, 1, time.Now().Add(-48*time.Hour))
	recent := makeReading(t, 2, time.Now().Add(-time.Hour))
	_ = repo.SaveReading(ctx, old)
	_ = repo.SaveReading(ctx, recent)

	if err := repo.DeleteOldReadings(ctx, 24*time.Hour); err != nil {
		t.Fatalf("DeleteOldReadings failed: %v", err)
	}

	if _, err := repo.GetReading(ctx, old.ID); err != domain.ErrReadingNotFound {
		t.Errorf("expected old reading to be deleted, got err: %v", err)
	}
	if _, err := repo.GetReading(ctx, recent.ID); err != nil {
		t.Errorf("expected recent reading to remain, got err: %v", err)
	}
}
