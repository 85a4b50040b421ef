package ports

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/quentinrf/plant-monitor/services/rangefinder-service/internal/domain"
)

// Reconciler drives a backend's periodic update and records snapshots
type Reconciler struct {
	sensorID       string
	backend        RangeBackend
	repo           domain.ReadingRepository
	updateInterval time.Duration
	recordInterval time.Duration
	retention      time.Duration

	lastStatus domain.Status
}

// NewReconciler creates a new background reconciler
func NewReconciler(sensorID string, backend RangeBackend, repo domain.ReadingRepository, updateInterval, recordInterval, retention time.Duration) *Reconciler {
	return &Reconciler{
		sensorID:       sensorID,
		backend:        backend,
		repo:           repo,
		updateInterval: updateInterval,
		recordInterval: recordInterval,
		retention:      retention,
		lastStatus:     backend.State().Status,
	}
}

// Start begins periodic reconciliation
// This runs in a goroutine until context is cancelled
func (r *Reconciler) Start(ctx context.Context) {
	log.Info().
		Str("sensor_id", r.sensorID).
		Dur("update_interval", r.updateInterval).
		Dur("record_interval", r.recordInterval).
		Msg("starting reconciler")

	updateTicker := time.NewTicker(r.updateInterval)
	defer updateTicker.Stop()

	recordTicker := time.NewTicker(r.recordInterval)
	defer recordTicker.Stop()

	cleanupTicker := time.NewTicker(24 * time.Hour)
	defer cleanupTicker.Stop()

	r.updateOnce()

	for {
		select {
		case <-updateTicker.C:
			r.updateOnce()

		case <-recordTicker.C:
			r.recordOnce(ctx)

		case <-cleanupTicker.C:
			r.cleanupOnce(ctx)

		case <-ctx.Done():
			log.Info().Msg("stopping reconciler")
			return
		}
	}
}

// updateOnce runs one backend tick and logs status edges
func (r *Reconciler) updateOnce() {
	r.backend.Update()

	state := r.backend.State()
	if state.Status == r.lastStatus {
		return
	}

	log.Info().
		Str("from", r.lastStatus.String()).
		Str("to", state.Status.String()).
		Float64("distance_m", state.DistanceM).
		Msg("rangefinder status changed")
	r.lastStatus = state.Status
}

// recordOnce saves the published state to the repository
func (r *Reconciler) recordOnce(ctx context.Context) {
	state := r.backend.State()
	pct, present := r.backend.SignalQuality()

	quality := domain.UnknownQuality
	if present {
		quality = domain.NewQuality(float64(pct))
	}

	reading, err := domain.NewDistanceReading(r.sensorID, state, quality)
	if err != nil {
		log.Error().Err(err).Msg("failed to create snapshot")
		return
	}

	if err := r.repo.SaveReading(ctx, reading); err != nil {
		log.Error().Err(err).Msg("failed to save snapshot")
		return
	}

	log.Debug().
		Float64("distance_m", reading.DistanceM).
		Str("status", reading.Status.String()).
		Msg("recorded rangefinder snapshot")
}

func (r *Reconciler) cleanupOnce(ctx context.Context) {
	if err := r.repo.DeleteOldReadings(ctx, r.retention); err != nil {
		log.Error().Err(err).Msg("failed to delete old snapshots")
		return
	}
	log.Info().Dur("retention", r.retention).Msg("deleted expired snapshots")
}
