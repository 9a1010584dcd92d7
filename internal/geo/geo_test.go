package geo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeMarkersNoCurrent(t *testing.T) {
	t.Parallel()

	fields := []Marker{
		{Position: Coordinate{Lat: 21, Lon: 79}, Title: "Field A"},
		{Position: Coordinate{Lat: 22, Lon: 80}, Title: "Field B"},
	}
	merged := MergeMarkers(fields, nil)
	require.Len(t, merged, 2)
	require.Equal(t, "Field A", merged[0].Title)
	require.Equal(t, "Field B", merged[1].Title)
}

func TestMergeMarkersAppendsCurrentLast(t *testing.T) {
	t.Parallel()

	fields := []Marker{{Position: Coordinate{Lat: 21, Lon: 79}, Title: "Field A"}}
	current := &Marker{Position: Coordinate{Lat: 19.5, Lon: 77.5}, Title: "Your Location", Popup: "You are here"}

	merged := MergeMarkers(fields, current)
	require.Len(t, merged, 2)
	require.Equal(t, "Field A", merged[0].Title)
	require.Equal(t, "Your Location", merged[1].Title)

	// the input slice must not be mutated
	require.Len(t, fields, 1)
}

func TestMergeMarkersEmptyCaller(t *testing.T) {
	t.Parallel()

	current := &Marker{Position: Coordinate{Lat: 1, Lon: 2}, Title: "Your Location"}
	merged := MergeMarkers(nil, current)
	require.Len(t, merged, 1)
	require.Equal(t, Coordinate{Lat: 1, Lon: 2}, merged[0].Position)
}

func TestDistance(t *testing.T) {
	t.Parallel()

	// Nagpur to roughly 100km north-west
	a := Coordinate{Lat: 21.1458, Lon: 79.0882}
	require.InDelta(t, 0, Distance(a, a), 1e-9)

	b := Coordinate{Lat: 21.1458, Lon: 80.0882}
	d := Distance(a, b)
	require.Greater(t, d, 100.0)
	require.Less(t, d, 110.0)
}

func TestCoordinateIsZero(t *testing.T) {
	t.Parallel()

	require.True(t, Coordinate{}.IsZero())
	require.False(t, Coordinate{Lat: 20, Lon: 78}.IsZero())
}
