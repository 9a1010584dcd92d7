package render

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/milantony05/smart-kissan/internal/geo"
)

func TestInitEmitsReadyHandleOnce(t *testing.T) {
	t.Parallel()

	m := New(geo.Coordinate{Lat: 20, Lon: 78}, 40, 12)
	cmd := m.Init()
	require.NotNil(t, cmd)

	msg := cmd()
	ready, ok := msg.(ReadyMsg)
	require.True(t, ok)
	require.NotNil(t, ready.Handle)

	center, zoom := ready.Handle.View()
	require.Equal(t, geo.Coordinate{Lat: 20, Lon: 78}, center)
	require.Equal(t, BaseZoom, zoom)

	require.Nil(t, m.Init(), "ready notification must be one-time")
}

func TestHandleSetView(t *testing.T) {
	t.Parallel()

	m := New(geo.Coordinate{Lat: 20, Lon: 78}, 40, 12)
	ready := m.Init()().(ReadyMsg)

	ready.Handle.SetView(geo.Coordinate{Lat: 19.5, Lon: 77.5}, 13)
	center, zoom := ready.Handle.View()
	require.Equal(t, geo.Coordinate{Lat: 19.5, Lon: 77.5}, center)
	require.Equal(t, 13, zoom)
}

func TestSetCenterKeepsZoom(t *testing.T) {
	t.Parallel()

	m := New(geo.Coordinate{Lat: 20, Lon: 78}, 40, 12)
	handle := m.Init()().(ReadyMsg).Handle
	handle.SetView(geo.Coordinate{Lat: 19, Lon: 77}, 13)

	m.SetCenter(geo.Coordinate{Lat: 25, Lon: 80})
	center, zoom := handle.View()
	require.Equal(t, geo.Coordinate{Lat: 25, Lon: 80}, center)
	require.Equal(t, 13, zoom)
}

func TestCellCoordinateRoundTrip(t *testing.T) {
	t.Parallel()

	m := New(geo.Coordinate{Lat: 21, Lon: 79}, 41, 13)
	m.Init()

	// the grid center cell maps back to the map center
	c := m.CellCoordinate(20, 6)
	require.InDelta(t, 21, c.Lat, 0.5)
	require.InDelta(t, 79, c.Lon, 0.3)

	col, row, ok := m.cell(c)
	require.True(t, ok)
	require.Equal(t, 20, col)
	require.Equal(t, 6, row)
}

func TestViewRendersMarkers(t *testing.T) {
	t.Parallel()

	m := New(geo.Coordinate{Lat: 21, Lon: 79}, 41, 13)
	m.Init()
	m.SetMarkers([]geo.Marker{
		{Position: geo.Coordinate{Lat: 21, Lon: 79}, Title: "Field A"},
		{Position: geo.Coordinate{Lat: 21.01, Lon: 79.02}, Title: CurrentLocationTitle},
	})

	out := m.View()
	require.Contains(t, out, string(markerGlyph))
	require.Contains(t, out, string(currentGlyph))
	require.Contains(t, out, "zoom 10")
}

func TestViewSatelliteToggleSwapsBackground(t *testing.T) {
	t.Parallel()

	plain := New(geo.Coordinate{Lat: 21, Lon: 79}, 20, 6)
	plain.Init()
	sat := New(geo.Coordinate{Lat: 21, Lon: 79}, 20, 6, WithSatellite(true))
	sat.Init()

	require.Contains(t, plain.View(), string(terrainGlyph))
	require.NotContains(t, plain.View(), string(satelliteGlyph))
	require.Contains(t, sat.View(), string(satelliteGlyph))
}

func TestClickInvokesHandlerWithCoordinate(t *testing.T) {
	t.Parallel()

	var got *ClickEvent
	m := New(geo.Coordinate{Lat: 21, Lon: 79}, 41, 13, WithClickHandler(func(ev ClickEvent) {
		got = &ev
	}))
	m.Init()

	m.Update(tea.MouseMsg{X: 20, Y: 6, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	require.NotNil(t, got)
	require.Equal(t, 20, got.Col)
	require.InDelta(t, 21, got.Position.Lat, 0.5)

	// clicks outside the grid are ignored
	got = nil
	m.Update(tea.MouseMsg{X: 99, Y: 99, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	require.Nil(t, got)
}

func TestViewDimensions(t *testing.T) {
	t.Parallel()

	m := New(geo.Coordinate{Lat: 0, Lon: 0}, 30, 8)
	m.Init()
	lines := strings.Split(m.View(), "\n")
	// 8 grid rows plus the caption line
	require.Len(t, lines, 9)
}
