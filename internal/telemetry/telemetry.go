package telemetry

import (
	"time"
)

// Sample is a single telemetry reading from the drone flight log
type Sample struct {
	Timestamp time.Time // Timestamp of the measurement
	Latitude  float64   // GPS latitude in degrees
	Longitude float64   // GPS longitude in degrees
	Altitude  float64   // Altitude in meters
	Velocity  float64   // Ground speed in m/s
	Battery   float64   // Battery level in percent
}

// Sequence is a flight's telemetry log in the order it was recorded.
// Samples are expected to be in non-decreasing timestamp order; the
// sequence is never re-sorted or mutated after loading.
type Sequence []Sample
