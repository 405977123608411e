// Package flightplot renders the flight's visual artifacts: four PNG
// plots and an optional interactive HTML dashboard.
package flightplot

import (
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/flightdatalab/uav-flight-analysis/internal/analysis"
	"github.com/flightdatalab/uav-flight-analysis/internal/telemetry"
)

// Fixed artifact names inside the output directory.
const (
	PathFile     = "flight_path.png"
	AltitudeFile = "altitude.png"
	BatteryFile  = "battery.png"
	VelocityFile = "velocity.png"
)

const (
	plotWidth  = 8 * vg.Inch
	plotHeight = 5 * vg.Inch
)

var (
	rawColor      = color.RGBA{R: 160, G: 160, B: 160, A: 255}
	smoothedColor = color.RGBA{B: 200, A: 255}
	anomalyColor  = color.RGBA{R: 220, A: 255}
	pathColor     = color.RGBA{G: 140, B: 60, A: 255}
)

// Writer renders plots into a single output directory. The directory
// must already exist.
type Writer struct {
	outputDir string
}

func NewWriter(outputDir string) *Writer {
	return &Writer{outputDir: outputDir}
}

// WriteAll renders the four plots: geospatial path, altitude over
// time, battery over time, and raw plus smoothed velocity with anomaly
// samples highlighted.
func (w *Writer) WriteAll(seq telemetry.Sequence, smoothed analysis.SmoothedSeries, anomalies analysis.AnomalySet) error {
	if err := w.writePath(seq); err != nil {
		return fmt.Errorf("flight path plot: %w", err)
	}
	if err := w.writeAltitude(seq); err != nil {
		return fmt.Errorf("altitude plot: %w", err)
	}
	if err := w.writeBattery(seq); err != nil {
		return fmt.Errorf("battery plot: %w", err)
	}
	if err := w.writeVelocity(seq, smoothed, anomalies); err != nil {
		return fmt.Errorf("velocity plot: %w", err)
	}
	return nil
}

func (w *Writer) writePath(seq telemetry.Sequence) error {
	p := plot.New()
	p.Title.Text = "Flight Path"
	p.X.Label.Text = "Longitude (deg)"
	p.Y.Label.Text = "Latitude (deg)"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(seq))
	for i, sample := range seq {
		pts[i] = plotter.XY{X: sample.Longitude, Y: sample.Latitude}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = pathColor
	line.Width = vg.Points(1.5)
	p.Add(line)

	return p.Save(plotWidth, plotHeight, filepath.Join(w.outputDir, PathFile))
}

func (w *Writer) writeAltitude(seq telemetry.Sequence) error {
	return w.writeTimeSeries(seq, AltitudeFile, "Altitude", "Altitude (m)",
		func(s telemetry.Sample) float64 { return s.Altitude })
}

func (w *Writer) writeBattery(seq telemetry.Sequence) error {
	return w.writeTimeSeries(seq, BatteryFile, "Battery Level", "Battery (%)",
		func(s telemetry.Sample) float64 { return s.Battery })
}

func (w *Writer) writeTimeSeries(seq telemetry.Sequence, file, title, yLabel string, value func(telemetry.Sample) float64) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Elapsed (s)"
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(seq))
	for i, sample := range seq {
		pts[i] = plotter.XY{X: elapsedSeconds(seq, i), Y: value(sample)}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = smoothedColor
	line.Width = vg.Points(1)
	p.Add(line)

	return p.Save(plotWidth, plotHeight, filepath.Join(w.outputDir, file))
}

func (w *Writer) writeVelocity(seq telemetry.Sequence, smoothed analysis.SmoothedSeries, anomalies analysis.AnomalySet) error {
	p := plot.New()
	p.Title.Text = "Velocity"
	p.X.Label.Text = "Elapsed (s)"
	p.Y.Label.Text = "Velocity (m/s)"
	p.Add(plotter.NewGrid())

	rawPts := make(plotter.XYs, len(seq))
	smoothedPts := make(plotter.XYs, len(smoothed))
	for i, sample := range seq {
		x := elapsedSeconds(seq, i)
		rawPts[i] = plotter.XY{X: x, Y: sample.Velocity}
		smoothedPts[i] = plotter.XY{X: x, Y: smoothed[i]}
	}

	rawLine, err := plotter.NewLine(rawPts)
	if err != nil {
		return err
	}
	rawLine.Color = rawColor
	rawLine.Width = vg.Points(1)
	p.Add(rawLine)
	p.Legend.Add("raw", rawLine)

	smoothedLine, err := plotter.NewLine(smoothedPts)
	if err != nil {
		return err
	}
	smoothedLine.Color = smoothedColor
	smoothedLine.Width = vg.Points(1.5)
	p.Add(smoothedLine)
	p.Legend.Add("smoothed", smoothedLine)

	if len(anomalies) > 0 {
		anomalyPts := make(plotter.XYs, len(anomalies))
		for i, idx := range anomalies {
			anomalyPts[i] = plotter.XY{X: elapsedSeconds(seq, idx), Y: seq[idx].Velocity}
		}

		scatter, err := plotter.NewScatter(anomalyPts)
		if err != nil {
			return err
		}
		scatter.GlyphStyle.Color = anomalyColor
		scatter.GlyphStyle.Radius = vg.Points(3)
		p.Add(scatter)
		p.Legend.Add("anomaly", scatter)
	}

	p.Legend.Top = true

	return p.Save(plotWidth, plotHeight, filepath.Join(w.outputDir, VelocityFile))
}

func elapsedSeconds(seq telemetry.Sequence, i int) float64 {
	return seq[i].Timestamp.Sub(seq[0].Timestamp).Seconds()
}
