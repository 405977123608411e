package storage

import (
	"database/sql"
	"time"

	"github.com/flightdatalab/uav-flight-analysis/internal/telemetry"
)

// SampleIterator provides row-at-a-time iteration over a session's
// archived samples.
type SampleIterator struct {
	rows    *sql.Rows
	current telemetry.Sample
	err     error
}

// Next advances to the next sample and reports whether one is
// available. Check Error after Next returns false to distinguish end
// of data from a failure.
func (si *SampleIterator) Next() bool {
	if si.err != nil || !si.rows.Next() {
		return false
	}

	var ts time.Time
	var sample telemetry.Sample
	if err := si.rows.Scan(&ts, &sample.Latitude, &sample.Longitude,
		&sample.Altitude, &sample.Velocity, &sample.Battery); err != nil {
		si.err = err
		return false
	}

	sample.Timestamp = ts.UTC()
	si.current = sample
	return true
}

// Current returns the sample at the iterator's position. Undefined
// after Next has returned false.
func (si *SampleIterator) Current() telemetry.Sample {
	return si.current
}

// Error returns any error that occurred during iteration.
func (si *SampleIterator) Error() error {
	if si.err != nil {
		return si.err
	}
	return si.rows.Err()
}

// Close releases the underlying rows.
func (si *SampleIterator) Close() error {
	return si.rows.Close()
}
