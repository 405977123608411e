// Package analysis computes aggregate flight statistics and the
// smoothed-velocity anomaly detection pipeline over a telemetry
// sequence. All functions are pure: they never mutate their input and
// depend only on their arguments.
package analysis

import (
	"fmt"
	"time"

	"github.com/flightdatalab/uav-flight-analysis/internal/geo"
	"github.com/flightdatalab/uav-flight-analysis/internal/telemetry"
)

// FlightStats is the aggregate view of one flight, computed once from
// a telemetry sequence and never mutated.
type FlightStats struct {
	TotalFlightTime time.Duration // Last timestamp minus first
	TotalDistanceKm float64       // Sum of consecutive pairwise haversine distances
	AvgAltitude     float64       // Arithmetic mean altitude in meters
	MaxAltitude     float64       // Highest altitude in meters
	MinBattery      float64       // Lowest battery level in percent
}

// ComputeStats derives FlightStats from a sequence. Duration and
// distance rely on the as-loaded sample order; the sequence is not
// sorted here. Fails with ErrInsufficientData for fewer than two
// samples, since distance and duration are undefined.
func ComputeStats(seq telemetry.Sequence) (FlightStats, error) {
	if len(seq) < 2 {
		return FlightStats{}, fmt.Errorf("%w: got %d", ErrInsufficientData, len(seq))
	}

	stats := FlightStats{
		TotalFlightTime: seq[len(seq)-1].Timestamp.Sub(seq[0].Timestamp),
		MaxAltitude:     seq[0].Altitude,
		MinBattery:      seq[0].Battery,
	}

	var altitudeSum float64
	for i, sample := range seq {
		altitudeSum += sample.Altitude
		if sample.Altitude > stats.MaxAltitude {
			stats.MaxAltitude = sample.Altitude
		}
		if sample.Battery < stats.MinBattery {
			stats.MinBattery = sample.Battery
		}

		// Single reduction over adjacent pairs; each leg is
		// non-negative so the sum never decreases.
		if i > 0 {
			prev := seq[i-1]
			stats.TotalDistanceKm += geo.DistanceKm(
				prev.Latitude, prev.Longitude,
				sample.Latitude, sample.Longitude)
		}
	}
	stats.AvgAltitude = altitudeSum / float64(len(seq))

	return stats, nil
}
