package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightdatalab/uav-flight-analysis/internal/telemetry"
)

func testSequence() telemetry.Sequence {
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	return telemetry.Sequence{
		{Timestamp: base, Latitude: -33.8688, Longitude: 151.2093, Altitude: 50, Velocity: 5.5, Battery: 100},
		{Timestamp: base.Add(time.Second), Latitude: -33.8690, Longitude: 151.2095, Altitude: 52, Velocity: 6, Battery: 99.5},
		{Timestamp: base.Add(2 * time.Second), Latitude: -33.8692, Longitude: 151.2097, Altitude: 54, Velocity: 6.5, Battery: 99},
	}
}

func TestStore_ArchiveRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := New(filepath.Join(t.TempDir(), "flight.sqlite"))
	defer store.Close()

	sessionID, err := store.CreateSession(ctx, "flight.csv", map[string]any{"window": 2})
	require.NoError(t, err)
	require.Positive(t, sessionID)

	want := testSequence()
	require.NoError(t, store.WriteSamples(ctx, sessionID, want))

	got, err := store.ReadSequence(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, got, len(want))

	for i := range want {
		assert.True(t, got[i].Timestamp.Equal(want[i].Timestamp), "sample %d timestamp", i)
		assert.Equal(t, want[i].Latitude, got[i].Latitude, "sample %d latitude", i)
		assert.Equal(t, want[i].Longitude, got[i].Longitude, "sample %d longitude", i)
		assert.Equal(t, want[i].Altitude, got[i].Altitude, "sample %d altitude", i)
		assert.Equal(t, want[i].Velocity, got[i].Velocity, "sample %d velocity", i)
		assert.Equal(t, want[i].Battery, got[i].Battery, "sample %d battery", i)
	}
}

func TestStore_SessionMetadata(t *testing.T) {
	ctx := context.Background()
	store := New(filepath.Join(t.TempDir(), "flight.sqlite"))
	defer store.Close()

	params := struct {
		Window    int     `json:"window"`
		Threshold float64 `json:"threshold"`
	}{2, 5}

	sessionID, err := store.CreateSession(ctx, "logs/flight_001.csv", params)
	require.NoError(t, err)

	session, err := store.Session(ctx, sessionID)
	require.NoError(t, err)

	assert.Equal(t, sessionID, session.ID)
	assert.Equal(t, "logs/flight_001.csv", session.Source)
	require.NotNil(t, session.Config)
	assert.JSONEq(t, `{"window":2,"threshold":5}`, *session.Config)
	assert.False(t, session.StartTime.IsZero())
}

func TestStore_IteratorOrder(t *testing.T) {
	ctx := context.Background()
	store := New(filepath.Join(t.TempDir(), "flight.sqlite"))
	defer store.Close()

	sessionID, err := store.CreateSession(ctx, "flight.csv", nil)
	require.NoError(t, err)
	require.NoError(t, store.WriteSamples(ctx, sessionID, testSequence()))

	iter, err := store.ReadSamples(ctx, sessionID)
	require.NoError(t, err)
	defer iter.Close()

	var previous time.Time
	var count int
	for iter.Next() {
		current := iter.Current()
		if count > 0 {
			assert.False(t, current.Timestamp.Before(previous), "sample %d out of order", count)
		}
		previous = current.Timestamp
		count++
	}
	require.NoError(t, iter.Error())
	assert.Equal(t, 3, count)
}

func TestStore_ReadMissingSession(t *testing.T) {
	ctx := context.Background()
	store := New(filepath.Join(t.TempDir(), "flight.sqlite"))
	defer store.Close()

	// Force schema creation so the read connection has tables.
	_, err := store.CreateSession(ctx, "flight.csv", nil)
	require.NoError(t, err)

	seq, err := store.ReadSequence(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, seq)

	_, err = store.Session(ctx, 42)
	assert.Error(t, err)
}
