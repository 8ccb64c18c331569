package geo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func TestDistanceAndBearing(t *testing.T) {
	assert.InDelta(t, 111195, Distance(0, 0, 0, 1), 10)
	assert.InDelta(t, 0, Distance(36.8, 10.18, 36.8, 10.18), 1e-9)

	assert.InDelta(t, 90, Bearing(0, 0, 0, 1), 1e-6)
	assert.InDelta(t, 0, Bearing(0, 0, 1, 0), 1e-6)
	assert.InDelta(t, 270, Bearing(0, 1, 0, 0), 1e-6)
}

func TestAssess(t *testing.T) {
	start := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	f := func(v float64) *float64 { return &v }

	t.Run("first fix", func(t *testing.T) {
		m := Assess(nil, 36.8, 10.18, start, f(3))
		assert.Equal(t, EventInitial, m.Event)
		assert.True(t, m.IsMoving)
	})

	t.Run("moved far enough", func(t *testing.T) {
		last := &Fix{Latitude: 36.8, Longitude: 10.18, IsMoving: true, Timestamp: start}
		m := Assess(last, 36.8005, 10.18, start.Add(5*time.Second), nil)
		assert.Equal(t, EventMove, m.Event)
		assert.InDelta(t, 55.6, m.Distance, 1)
		assert.InDelta(t, m.Distance/5, m.Speed, 1e-9)
	})

	t.Run("stopped", func(t *testing.T) {
		last := &Fix{Latitude: 36.8, Longitude: 10.18, IsMoving: true, Timestamp: start}
		m := Assess(last, 36.8, 10.18, start.Add(15*time.Second), f(0))
		assert.Equal(t, EventStopped, m.Event)
		assert.False(t, m.IsMoving)
	})

	t.Run("started", func(t *testing.T) {
		last := &Fix{Latitude: 36.8, Longitude: 10.18, IsMoving: false, Timestamp: start}
		m := Assess(last, 36.8, 10.18, start.Add(12*time.Second), f(2))
		assert.Equal(t, EventStarted, m.Event)
	})

	t.Run("periodic", func(t *testing.T) {
		last := &Fix{Latitude: 36.8, Longitude: 10.18, IsMoving: false, Timestamp: start}
		m := Assess(last, 36.8, 10.18, start.Add(2*time.Minute), f(0))
		assert.Equal(t, EventPeriodic, m.Event)
	})

	t.Run("not significant", func(t *testing.T) {
		last := &Fix{Latitude: 36.8, Longitude: 10.18, IsMoving: false, Timestamp: start}
		m := Assess(last, 36.8, 10.18, start.Add(3*time.Second), f(0))
		assert.Empty(t, m.Event)
	})
}

func TestNextStop(t *testing.T) {
	stops := []StopPoint{
		{ID: 1, Name: "A", Latitude: 36.800, Longitude: 10.180},
		{ID: 2, Name: "B", Latitude: 36.810, Longitude: 10.180},
		{ID: 3, Name: "C", Latitude: 36.820, Longitude: 10.180},
	}

	idx, _ := NextStop(nil, 0, 0)
	assert.Equal(t, -1, idx)

	idx, d := NextStop(stops, 36.809, 10.180)
	assert.Equal(t, 1, idx)
	assert.InDelta(t, 111, d, 2)

	// Within the arrival radius of B the vehicle heads to C.
	idx, d = NextStop(stops, 36.8101, 10.180)
	assert.Equal(t, 2, idx)
	assert.InDelta(t, 1100, d, 15)

	// At the last stop there is nothing after it.
	idx, _ = NextStop(stops, 36.820, 10.180)
	assert.Equal(t, 2, idx)
}

func TestETA(t *testing.T) {
	from := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, from.Add(100*time.Second), ETA(from, 1000, 10))
	assert.Equal(t, from.Add(10*time.Second), ETA(from, 60, 0))
}

func TestLineFeature(t *testing.T) {
	_, err := LineFeature("s1", []Point{{Lat: 1, Lon: 1}}, nil)
	require.Error(t, err)

	f, err := LineFeature("s1", []Point{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}}, map[string]any{"shape_id": "S1"})
	require.NoError(t, err)
	assert.Equal(t, "s1", f.ID)
	assert.Equal(t, "S1", f.Properties["shape_id"])
	assert.Equal(t, 2, f.Properties["points"])
	assert.InDelta(t, 111195, f.Properties["length_m"].(float64), 10)

	line, ok := f.Geometry.(*geom.LineString)
	require.True(t, ok)
	assert.Equal(t, []float64{1, 0}, []float64(line.Coord(1)))

	raw, err := f.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"type":"LineString"`)
}
