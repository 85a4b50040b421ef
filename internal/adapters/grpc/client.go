package grpc

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// StateView is the decoded GetState response
type StateView struct {
	SensorID       string
	DistanceM      float64
	Status         string
	LastReadingMs  uint32
	QualityPct     int8
	QualityPresent bool
	SensorType     string
}

// HistoryEntry is one snapshot in a GetHistory response
type HistoryEntry struct {
	ID             int64
	DistanceM      float64
	Status         string
	QualityPct     int8
	QualityPresent bool
	Timestamp      time.Time
}

// HistoryView is the decoded GetHistory response
type HistoryView struct {
	Readings   []HistoryEntry
	AverageM   float64
	MinM       float64
	MaxM       float64
	ValidCount int
}

// Client calls the rangefinder service
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient wraps an established connection
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// SubmitReading pushes a distance without quality
func (c *Client) SubmitReading(ctx context.Context, distanceM float64) (bool, error) {
	return c.submit(ctx, map[string]any{fieldDistance: distanceM})
}

// SubmitReadingWithQuality pushes a distance with a quality percentage
func (c *Client) SubmitReadingWithQuality(ctx context.Context, distanceM, qualityPct float64) (bool, error) {
	return c.submit(ctx, map[string]any{fieldDistance: distanceM, fieldQuality: qualityPct})
}

func (c *Client) submit(ctx context.Context, fields map[string]any) (bool, error) {
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return false, fmt.Errorf("encode request: %w", err)
	}

	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, SubmitReadingMethod, req, resp); err != nil {
		return false, err
	}
	return resp.GetFields()[fieldAccepted].GetBoolValue(), nil
}

// GetState fetches the published state
func (c *Client) GetState(ctx context.Context) (*StateView, error) {
	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, GetStateMethod, &structpb.Struct{}, resp); err != nil {
		return nil, err
	}

	f := resp.GetFields()
	return &StateView{
		SensorID:       f[fieldSensorID].GetStringValue(),
		DistanceM:      f[fieldDistance].GetNumberValue(),
		Status:         f[fieldStatus].GetStringValue(),
		LastReadingMs:  uint32(f[fieldLastReadingMs].GetNumberValue()),
		QualityPct:     int8(f[fieldQuality].GetNumberValue()),
		QualityPresent: f[fieldQualityPresent].GetBoolValue(),
		SensorType:     f[fieldSensorType].GetStringValue(),
	}, nil
}

// GetHistory fetches snapshots recorded in [start, end)
func (c *Client) GetHistory(ctx context.Context, start, end time.Time) (*HistoryView, error) {
	req, err := structpb.NewStruct(map[string]any{
		fieldStartTime: float64(start.Unix()),
		fieldEndTime:   float64(end.Unix()),
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, GetHistoryMethod, req, resp); err != nil {
		return nil, err
	}

	f := resp.GetFields()
	view := &HistoryView{
		AverageM:   f[fieldAverage].GetNumberValue(),
		MinM:       f[fieldMin].GetNumberValue(),
		MaxM:       f[fieldMax].GetNumberValue(),
		ValidCount: int(f[fieldValidCount].GetNumberValue()),
	}

	for _, v := range f[fieldReadings].GetListValue().GetValues() {
		r := v.GetStructValue().GetFields()
		view.Readings = append(view.Readings, HistoryEntry{
			ID:             int64(r[fieldID].GetNumberValue()),
			DistanceM:      r[fieldDistance].GetNumberValue(),
			Status:         r[fieldStatus].GetStringValue(),
			QualityPct:     int8(r[fieldQuality].GetNumberValue()),
			QualityPresent: r[fieldQualityPresent].GetBoolValue(),
			Timestamp:      time.UnixMilli(int64(r[fieldTimestampMs].GetNumberValue())),
		})
	}

	return view, nil
}
