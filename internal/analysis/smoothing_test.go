package analysis

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/flightdatalab/uav-flight-analysis/internal/telemetry"
)

func velocitySequence(velocities ...float64) telemetry.Sequence {
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	seq := make(telemetry.Sequence, len(velocities))
	for i, v := range velocities {
		seq[i] = telemetry.Sample{
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Velocity:  v,
		}
	}
	return seq
}

func TestSmoothVelocity_ZeroWindowIdentity(t *testing.T) {
	seq := velocitySequence(3.5, 1.2, 8.8, 0, 4.1)

	smoothed, err := SmoothVelocity(seq, 0)
	if err != nil {
		t.Fatalf("SmoothVelocity failed: %v", err)
	}

	for i, sample := range seq {
		if smoothed[i] != sample.Velocity {
			t.Errorf("smoothed[%d] = %v, want raw %v", i, smoothed[i], sample.Velocity)
		}
	}
}

func TestSmoothVelocity_ConstantSeries(t *testing.T) {
	seq := velocitySequence(7, 7, 7, 7, 7, 7)

	for _, window := range []int{0, 1, 2, 5, 10} {
		smoothed, err := SmoothVelocity(seq, window)
		if err != nil {
			t.Fatalf("SmoothVelocity(window=%d) failed: %v", window, err)
		}
		for i, v := range smoothed {
			if v != 7 {
				t.Errorf("window %d: smoothed[%d] = %v, want 7", window, i, v)
			}
		}
	}
}

func TestSmoothVelocity_BoundaryClamping(t *testing.T) {
	seq := velocitySequence(0, 0, 0, 100, 0, 0, 0)

	smoothed, err := SmoothVelocity(seq, 1)
	if err != nil {
		t.Fatalf("SmoothVelocity failed: %v", err)
	}

	// Windows shrink at the edges: index 0 averages samples {0,1},
	// interior indices average three samples.
	want := []float64{0, 0, 100.0 / 3, 100.0 / 3, 100.0 / 3, 0, 0}
	for i := range want {
		if math.Abs(smoothed[i]-want[i]) > 1e-9 {
			t.Errorf("smoothed[%d] = %v, want %v", i, smoothed[i], want[i])
		}
	}
}

func TestSmoothVelocity_NegativeWindow(t *testing.T) {
	if _, err := SmoothVelocity(velocitySequence(1, 2), -1); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("SmoothVelocity(window=-1) error = %v, want ErrInvalidParameter", err)
	}
}

func TestDetectAnomalies_SpikeSeries(t *testing.T) {
	seq := velocitySequence(0, 0, 0, 100, 0, 0, 0)

	smoothed, err := SmoothVelocity(seq, 1)
	if err != nil {
		t.Fatalf("SmoothVelocity failed: %v", err)
	}

	anomalies, err := DetectAnomalies(seq, smoothed, 10)
	if err != nil {
		t.Fatalf("DetectAnomalies failed: %v", err)
	}

	// The spike bleeds into its neighbours through the window: the
	// smoothed value at indices 2..4 is 100/3, deviating by 33.3 at
	// 2 and 4 and by 66.7 at 3, all above the threshold of 10.
	want := []int{2, 3, 4}
	if len(anomalies) != len(want) {
		t.Fatalf("anomalies = %v, want %v", anomalies, want)
	}
	for i := range want {
		if anomalies[i] != want[i] {
			t.Errorf("anomalies[%d] = %d, want %d", i, anomalies[i], want[i])
		}
	}
}

func TestDetectAnomalies_ZeroThreshold(t *testing.T) {
	seq := velocitySequence(1, 1, 2)

	smoothed, err := SmoothVelocity(seq, 1)
	if err != nil {
		t.Fatalf("SmoothVelocity failed: %v", err)
	}

	anomalies, err := DetectAnomalies(seq, smoothed, 0)
	if err != nil {
		t.Fatalf("DetectAnomalies failed: %v", err)
	}

	// smoothed = [1, 4/3, 3/2]: index 0 matches exactly and must not
	// be flagged; indices 1 and 2 differ and must be.
	want := []int{1, 2}
	if len(anomalies) != len(want) {
		t.Fatalf("anomalies = %v, want %v", anomalies, want)
	}
	for i := range want {
		if anomalies[i] != want[i] {
			t.Errorf("anomalies[%d] = %d, want %d", i, anomalies[i], want[i])
		}
	}
}

func TestDetectAnomalies_NoDeviation(t *testing.T) {
	seq := velocitySequence(5, 5, 5, 5)

	smoothed, err := SmoothVelocity(seq, 2)
	if err != nil {
		t.Fatalf("SmoothVelocity failed: %v", err)
	}

	anomalies, err := DetectAnomalies(seq, smoothed, 0)
	if err != nil {
		t.Fatalf("DetectAnomalies failed: %v", err)
	}
	if len(anomalies) != 0 {
		t.Errorf("anomalies = %v, want none", anomalies)
	}
}

func TestDetectAnomalies_NegativeThreshold(t *testing.T) {
	seq := velocitySequence(1, 2)
	smoothed := SmoothedSeries{1, 2}

	if _, err := DetectAnomalies(seq, smoothed, -5); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("DetectAnomalies(threshold=-5) error = %v, want ErrInvalidParameter", err)
	}
}

func TestDetectAnomalies_DimensionMismatch(t *testing.T) {
	seq := velocitySequence(1, 2, 3)
	smoothed := SmoothedSeries{1, 2}

	if _, err := DetectAnomalies(seq, smoothed, 1); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("DetectAnomalies(mismatched) error = %v, want ErrDimensionMismatch", err)
	}
}
