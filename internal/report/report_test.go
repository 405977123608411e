package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightdatalab/uav-flight-analysis/internal/analysis"
)

var testStats = analysis.FlightStats{
	TotalFlightTime: 14*time.Minute + 30*time.Second,
	TotalDistanceKm: 12.345,
	AvgAltitude:     87.5,
	MaxAltitude:     142.1,
	MinBattery:      23.4,
}

func TestWrite_ContainsAllFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testStats, analysis.AnomalySet{3, 17, 42}))

	out := buf.String()
	assert.Contains(t, out, "14m30s")
	assert.Contains(t, out, "12.35 km")
	assert.Contains(t, out, "87.50 m")
	assert.Contains(t, out, "142.10 m")
	assert.Contains(t, out, "23.4 %")
	assert.Contains(t, out, "anomalies: 3")
	assert.Contains(t, out, " 3 17 42")
}

func TestWrite_NoAnomalies(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testStats, nil))

	out := buf.String()
	assert.Contains(t, out, "anomalies: 0")
	assert.NotContains(t, out, "Anomaly indices")
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteFile(dir, testStats, analysis.AnomalySet{1}))

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "UAV Flight Report")
}
