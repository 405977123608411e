package flightplot

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/flightdatalab/uav-flight-analysis/internal/analysis"
	"github.com/flightdatalab/uav-flight-analysis/internal/telemetry"
)

// DashboardFile is the fixed HTML dashboard artifact name.
const DashboardFile = "dashboard.html"

// WriteDashboard renders an interactive HTML page with the velocity
// chart (raw and smoothed series) and an anomaly scatter chart.
func WriteDashboard(outputDir string, seq telemetry.Sequence, smoothed analysis.SmoothedSeries, anomalies analysis.AnomalySet) error {
	labels := make([]string, len(seq))
	rawData := make([]opts.LineData, len(seq))
	smoothedData := make([]opts.LineData, len(seq))
	for i, sample := range seq {
		labels[i] = sample.Timestamp.Format(time.TimeOnly)
		rawData[i] = opts.LineData{Value: sample.Velocity}
		smoothedData[i] = opts.LineData{Value: smoothed[i]}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "UAV Flight Dashboard", Width: "1200px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Velocity",
			Subtitle: fmt.Sprintf("samples=%d anomalies=%d", len(seq), len(anomalies)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "m/s"}),
	)
	line.SetXAxis(labels).
		AddSeries("raw", rawData).
		AddSeries("smoothed", smoothedData)
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false)}))

	scatterData := make([]opts.ScatterData, len(anomalies))
	for i, idx := range anomalies {
		elapsed := seq[idx].Timestamp.Sub(seq[0].Timestamp).Seconds()
		scatterData[i] = opts.ScatterData{Value: []interface{}{elapsed, seq[idx].Velocity}}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: "Velocity Anomalies"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Elapsed (s)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "m/s"}),
	)
	scatter.AddSeries("anomalies", scatterData,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))

	page := components.NewPage()
	page.AddCharts(line, scatter)

	path := filepath.Join(outputDir, DashboardFile)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating dashboard %s: %w", path, err)
	}

	if err = page.Render(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("rendering dashboard: %w", err)
	}
	return f.Close()
}
