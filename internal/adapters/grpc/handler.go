package grpc

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/quentinrf/plant-monitor/services/rangefinder-service/internal/domain"
	"github.com/quentinrf/plant-monitor/services/rangefinder-service/internal/ports"
)

// Field names used in request and response structs
const (
	fieldDistance       = "distance_m"
	fieldQuality        = "quality_pct"
	fieldQualityPresent = "quality_present"
	fieldAccepted       = "accepted"
	fieldSensorID       = "sensor_id"
	fieldStatus         = "status"
	fieldSensorType     = "sensor_type"
	fieldLastReadingMs  = "last_reading_ms"
	fieldStartTime      = "start_time"
	fieldEndTime        = "end_time"
	fieldReadings       = "readings"
	fieldID             = "id"
	fieldTimestampMs    = "timestamp_ms"
	fieldAverage        = "average_distance_m"
	fieldMin            = "min_distance_m"
	fieldMax            = "max_distance_m"
	fieldValidCount     = "valid_count"
)

// RangefinderHandler implements RangefinderServer on top of one backend
type RangefinderHandler struct {
	sensorID string
	backend  ports.RangeBackend
	repo     domain.ReadingRepository
}

// NewRangefinderHandler creates a new gRPC handler
func NewRangefinderHandler(sensorID string, backend ports.RangeBackend, repo domain.ReadingRepository) *RangefinderHandler {
	return &RangefinderHandler{
		sensorID: sensorID,
		backend:  backend,
		repo:     repo,
	}
}

// SubmitReading forwards a pushed reading to the backend.
// A request without quality_pct is the distance-only form.
func (h *RangefinderHandler) SubmitReading(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	distance, ok := numberField(req, fieldDistance)
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "distance_m is required and must be a number")
	}

	var accepted bool
	if quality, ok := numberField(req, fieldQuality); ok {
		accepted = h.backend.SubmitReadingWithQuality(distance, quality)
	} else if _, present := req.GetFields()[fieldQuality]; present {
		return nil, status.Error(codes.InvalidArgument, "quality_pct must be a number")
	} else {
		accepted = h.backend.SubmitReading(distance)
	}

	log.Debug().
		Float64("distance_m", distance).
		Bool("accepted", accepted).
		Msg("SubmitReading called")

	return toStruct(map[string]any{fieldAccepted: accepted})
}

// GetState returns the published state and the current quality
func (h *RangefinderHandler) GetState(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	state := h.backend.State()
	pct, present := h.backend.SignalQuality()

	return toStruct(map[string]any{
		fieldSensorID:       h.sensorID,
		fieldDistance:       state.DistanceM,
		fieldStatus:         state.Status.String(),
		fieldLastReadingMs:  float64(state.LastReadingMs),
		fieldQuality:        float64(pct),
		fieldQualityPresent: present,
		fieldSensorType:     h.backend.SensorType().String(),
	})
}

// GetHistory returns recorded snapshots within a time range with statistics
func (h *RangefinderHandler) GetHistory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	startSec, okStart := numberField(req, fieldStartTime)
	endSec, okEnd := numberField(req, fieldEndTime)
	if !okStart || !okEnd {
		return nil, status.Error(codes.InvalidArgument, "start_time and end_time are required")
	}
	if endSec <= startSec {
		return nil, status.Error(codes.InvalidArgument, "end_time must be after start_time")
	}

	log.Info().
		Int64("start", int64(startSec)).
		Int64("end", int64(endSec)).
		Msg("GetHistory called")

	start := time.Unix(int64(startSec), 0)
	end := time.Unix(int64(endSec), 0)

	readings, err := h.repo.GetReadingsInRange(ctx, start, end)
	if err != nil {
		log.Error().Err(err).Msg("failed to get readings")
		return nil, status.Error(codes.Internal, "failed to get readings")
	}

	entries := make([]any, len(readings))
	for i, r := range readings {
		entries[i] = convertReading(r)
	}

	stats := calculateStatistics(readings)

	return toStruct(map[string]any{
		fieldReadings:   entries,
		fieldAverage:    stats.average,
		fieldMin:        stats.min,
		fieldMax:        stats.max,
		fieldValidCount: float64(stats.count),
	})
}

// convertReading converts a domain snapshot to a struct-compatible map
func convertReading(r *domain.DistanceReading) map[string]any {
	pct, present := r.Quality.Percent()
	return map[string]any{
		fieldID:             float64(r.ID),
		fieldSensorID:       r.SensorID,
		fieldDistance:       r.DistanceM,
		fieldStatus:         r.Status.String(),
		fieldQuality:        float64(pct),
		fieldQualityPresent: present,
		fieldTimestampMs:    float64(r.Timestamp.UnixMilli()),
	}
}

// statistics holds calculated statistics
type statistics struct {
	average float64
	min     float64
	max     float64
	count   int
}

// calculateStatistics computes stats over snapshots with a Good status
func calculateStatistics(readings []*domain.DistanceReading) statistics {
	var stats statistics
	var sum float64

	for _, r := range readings {
		if !r.IsValid() {
			continue
		}
		if stats.count == 0 || r.DistanceM < stats.min {
			stats.min = r.DistanceM
		}
		if stats.count == 0 || r.DistanceM > stats.max {
			stats.max = r.DistanceM
		}
		sum += r.DistanceM
		stats.count++
	}

	if stats.count > 0 {
		stats.average = sum / float64(stats.count)
	}
	return stats
}

func numberField(s *structpb.Struct, key string) (float64, bool) {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0, false
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, false
	}
	return n.NumberValue, true
}

func toStruct(fields map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode response")
		return nil, status.Error(codes.Internal, "failed to encode response")
	}
	return s, nil
}
