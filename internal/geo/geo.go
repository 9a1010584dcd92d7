package geo

import (
	"fmt"
	"math"
)

// Coordinate is a latitude/longitude pair in WGS 84 degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// IsZero reports whether the coordinate is the unset zero value.
func (c Coordinate) IsZero() bool {
	return c.Lat == 0 && c.Lon == 0
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f, %.4f", c.Lat, c.Lon)
}

// Marker is a single point of interest on the map.
type Marker struct {
	Position Coordinate
	Title    string
	Popup    string
}

// MergeMarkers returns the caller-supplied markers concatenated, in order,
// with the current-location marker when present. No deduplication is done;
// callers own their list, the widget owns at most one current marker.
func MergeMarkers(markers []Marker, current *Marker) []Marker {
	if current == nil {
		return markers
	}
	out := make([]Marker, 0, len(markers)+1)
	out = append(out, markers...)
	out = append(out, *current)
	return out
}

const earthRadiusKm = 6371.0

// Distance returns the haversine great-circle distance between a and b in km.
func Distance(a, b Coordinate) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
