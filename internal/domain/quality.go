package domain

import "math"

// noQualityPct is what Percent reports when quality is unknown
const noQualityPct int8 = -1

// Quality is an optional signal quality percentage in [0, 100].
// The zero value is unknown.
type Quality struct {
	pct   int8
	known bool
}

// UnknownQuality means no usable quality was supplied
var UnknownQuality = Quality{}

// NewQuality converts a producer-supplied percentage.
// Anything outside [0, 100] (NaN included) is treated as no quality at all.
// Fractional values are truncated to a whole percent.
func NewQuality(pct float64) Quality {
	if math.IsNaN(pct) || pct < 0 || pct > 100 {
		return UnknownQuality
	}
	return Quality{pct: int8(pct), known: true}
}

// Percent returns the quality and whether it is known.
// An unknown quality reports -1.
func (q Quality) Percent() (int8, bool) {
	if !q.known {
		return noQualityPct, false
	}
	return q.pct, true
}

// Known reports whether a quality value is present
func (q Quality) Known() bool {
	return q.known
}
