// Package report writes the human-readable flight summary.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/flightdatalab/uav-flight-analysis/internal/analysis"
)

// FileName is the fixed report artifact name inside the output
// directory.
const FileName = "report.txt"

// Write renders the flight summary: every statistic field, the anomaly
// count and the enumerated anomaly indices.
func Write(w io.Writer, stats analysis.FlightStats, anomalies analysis.AnomalySet) error {
	var b strings.Builder

	b.WriteString("UAV Flight Report\n")
	b.WriteString("=================\n\n")

	fmt.Fprintf(&b, "Total flight time : %s\n", stats.TotalFlightTime.Round(time.Second))
	fmt.Fprintf(&b, "Total distance    : %s km\n", humanize.CommafWithDigits(stats.TotalDistanceKm, 2))
	fmt.Fprintf(&b, "Average altitude  : %.2f m\n", stats.AvgAltitude)
	fmt.Fprintf(&b, "Maximum altitude  : %.2f m\n", stats.MaxAltitude)
	fmt.Fprintf(&b, "Minimum battery   : %.1f %%\n", stats.MinBattery)

	fmt.Fprintf(&b, "\nVelocity anomalies: %s\n", humanize.Comma(int64(len(anomalies))))
	if len(anomalies) > 0 {
		b.WriteString("Anomaly indices   :")
		for _, idx := range anomalies {
			fmt.Fprintf(&b, " %d", idx)
		}
		b.WriteString("\n")
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// WriteFile renders the flight summary to <dir>/report.txt.
func WriteFile(dir string, stats analysis.FlightStats, anomalies analysis.AnomalySet) error {
	path := filepath.Join(dir, FileName)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report %s: %w", path, err)
	}

	if err = Write(f, stats, anomalies); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
