package analysis

import (
	"fmt"
	"math"

	"github.com/flightdatalab/uav-flight-analysis/internal/telemetry"
)

// SmoothedSeries mirrors a telemetry sequence index for index: element
// i is the windowed mean of raw velocity around sample i.
type SmoothedSeries []float64

// AnomalySet holds the indices of samples whose raw velocity deviates
// from the smoothed velocity by more than the threshold, in ascending
// order.
type AnomalySet []int

// SmoothVelocity computes a centered moving average of the velocity
// series. For index i the mean is taken over the inclusive range
// [max(i-window, 0), min(i+window, n-1)]: the window shrinks at the
// sequence boundaries instead of wrapping or padding, which keeps
// anomaly sensitivity near the start and end of a flight. A window of
// zero returns the raw series unchanged.
func SmoothVelocity(seq telemetry.Sequence, window int) (SmoothedSeries, error) {
	if window < 0 {
		return nil, fmt.Errorf("%w: window %d", ErrInvalidParameter, window)
	}

	smoothed := make(SmoothedSeries, len(seq))
	for i := range seq {
		lo := i - window
		if lo < 0 {
			lo = 0
		}
		hi := i + window
		if hi > len(seq)-1 {
			hi = len(seq) - 1
		}

		var sum float64
		for j := lo; j <= hi; j++ {
			sum += seq[j].Velocity
		}
		smoothed[i] = sum / float64(hi-lo+1)
	}

	return smoothed, nil
}

// DetectAnomalies returns the indices where |raw - smoothed| exceeds
// the threshold. The comparison is strict, so a threshold of zero
// flags every index where the two values differ at all and never flags
// exact equality. The smoothed series must have been computed from the
// same sequence; a length mismatch fails with ErrDimensionMismatch.
func DetectAnomalies(seq telemetry.Sequence, smoothed SmoothedSeries, threshold float64) (AnomalySet, error) {
	if threshold < 0 {
		return nil, fmt.Errorf("%w: threshold %g", ErrInvalidParameter, threshold)
	}
	if len(smoothed) != len(seq) {
		return nil, fmt.Errorf("%w: %d smoothed values for %d samples",
			ErrDimensionMismatch, len(smoothed), len(seq))
	}

	var anomalies AnomalySet
	for i, sample := range seq {
		if math.Abs(sample.Velocity-smoothed[i]) > threshold {
			anomalies = append(anomalies, i)
		}
	}

	return anomalies, nil
}
