package domain

// Status is the published classification of a range reading
type Status uint8

const (
	StatusNotConnected Status = iota
	StatusNoData
	StatusOutOfRangeLow
	StatusOutOfRangeHigh
	StatusGood
)

// String returns a human-readable status name
func (s Status) String() string {
	switch s {
	case StatusNotConnected:
		return "NotConnected"
	case StatusNoData:
		return "NoData"
	case StatusOutOfRangeLow:
		return "OutOfRangeLow"
	case StatusOutOfRangeHigh:
		return "OutOfRangeHigh"
	case StatusGood:
		return "Good"
	default:
		return "Unknown"
	}
}

// SensorType is the sensor classification reported to telemetry.
// Values follow the MAV_DISTANCE_SENSOR numbering.
type SensorType uint8

const (
	SensorTypeLaser SensorType = iota
	SensorTypeUltrasound
	SensorTypeInfrared
	SensorTypeRadar
	SensorTypeUnknown
)

func (t SensorType) String() string {
	switch t {
	case SensorTypeLaser:
		return "Laser"
	case SensorTypeUltrasound:
		return "Ultrasound"
	case SensorTypeInfrared:
		return "Infrared"
	case SensorTypeRadar:
		return "Radar"
	default:
		return "Unknown"
	}
}
