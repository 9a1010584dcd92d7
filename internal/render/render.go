// Package render draws a coordinate grid with markers to the terminal. It is
// the rendering primitive underneath the location-aware map widget: it
// consumes a center, a zoom, and a marker list, and hands back a recenter
// handle through a one-time ready notification.
package render

import (
	"fmt"
	"math"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/milantony05/smart-kissan/internal/geo"
)

// BaseZoom is the fixed zoom the primitive renders at. Imperative recenters
// through the Handle may use a different zoom; the two values are
// intentionally distinct.
const BaseZoom = 10

// ClickEvent reports a mouse click on the map surface.
type ClickEvent struct {
	Position geo.Coordinate
	Col, Row int
}

// ReadyMsg is emitted exactly once after the map is constructed, carrying
// the recenter handle. The handle is the only imperative surface exposed.
type ReadyMsg struct {
	Handle *Handle
}

// Handle allows repositioning an already-rendered map. Safe for use from
// command goroutines; the map reads it on every View.
type Handle struct {
	mu     sync.Mutex
	center geo.Coordinate
	zoom   int
}

// SetView recenters the map on c at the given zoom level.
func (h *Handle) SetView(c geo.Coordinate, zoom int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.center = c
	if zoom > 0 {
		h.zoom = zoom
	}
}

// View returns the current center and zoom.
func (h *Handle) View() (geo.Coordinate, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.center, h.zoom
}

func (h *Handle) setCenter(c geo.Coordinate) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.center = c
}

// Map renders a center, zoom and marker list into a width x height cell grid.
type Map struct {
	width     int
	height    int
	markers   []geo.Marker
	satellite bool
	onClick   func(ClickEvent)
	handle    *Handle
	ready     bool
}

// Option configures a Map.
type Option func(*Map)

// WithSatellite toggles the satellite-style background.
func WithSatellite(on bool) Option {
	return func(m *Map) { m.satellite = on }
}

// WithClickHandler installs a click handler receiving map coordinates.
func WithClickHandler(fn func(ClickEvent)) Option {
	return func(m *Map) { m.onClick = fn }
}

// New builds a map centered on c. The initial render uses BaseZoom.
func New(c geo.Coordinate, width, height int, opts ...Option) *Map {
	m := &Map{
		width:  width,
		height: height,
		handle: &Handle{center: c, zoom: BaseZoom},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init emits the one-time ready notification with the recenter handle.
func (m *Map) Init() tea.Cmd {
	if m.ready {
		return nil
	}
	m.ready = true
	handle := m.handle
	return func() tea.Msg { return ReadyMsg{Handle: handle} }
}

// SetCenter re-renders from a new center without changing zoom. This is the
// prop-driven path; imperative recentering goes through the Handle.
func (m *Map) SetCenter(c geo.Coordinate) { m.handle.setCenter(c) }

// SetMarkers replaces the rendered marker list.
func (m *Map) SetMarkers(markers []geo.Marker) { m.markers = markers }

// SetSize resizes the rendered grid.
func (m *Map) SetSize(width, height int) {
	if width > 0 {
		m.width = width
	}
	if height > 0 {
		m.height = height
	}
}

// Update handles mouse clicks on the map surface. Coordinates are expected
// to be local to the map's top-left cell; the host offsets them.
func (m *Map) Update(msg tea.Msg) tea.Cmd {
	click, ok := msg.(tea.MouseMsg)
	if !ok {
		return nil
	}
	if click.Action != tea.MouseActionRelease || click.Button != tea.MouseButtonLeft {
		return nil
	}
	if m.onClick == nil || click.X < 0 || click.Y < 0 || click.X >= m.width || click.Y >= m.height {
		return nil
	}
	ev := ClickEvent{
		Position: m.CellCoordinate(click.X, click.Y),
		Col:      click.X,
		Row:      click.Y,
	}
	m.onClick(ev)
	return nil
}

// degrees per cell at a zoom level; terminal cells are about twice as tall
// as wide, so latitude moves twice as fast per row.
func degPerCell(zoom int) (lonPerCol, latPerRow float64) {
	lonPerCol = 360 / math.Exp2(float64(zoom))
	return lonPerCol, lonPerCol * 2
}

// CellCoordinate converts a local cell position to a map coordinate.
func (m *Map) CellCoordinate(col, row int) geo.Coordinate {
	center, zoom := m.handle.View()
	lonPerCol, latPerRow := degPerCell(zoom)
	return geo.Coordinate{
		Lat: center.Lat - (float64(row)-float64(m.height)/2)*latPerRow,
		Lon: center.Lon + (float64(col)-float64(m.width)/2)*lonPerCol,
	}
}

// cell returns the local cell for a coordinate, ok=false when off-grid.
func (m *Map) cell(c geo.Coordinate) (col, row int, ok bool) {
	center, zoom := m.handle.View()
	lonPerCol, latPerRow := degPerCell(zoom)
	col = int(math.Round((c.Lon-center.Lon)/lonPerCol + float64(m.width)/2))
	row = int(math.Round((center.Lat-c.Lat)/latPerRow + float64(m.height)/2))
	return col, row, col >= 0 && col < m.width && row >= 0 && row < m.height
}

var (
	terrainStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("22"))
	satelliteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("58"))
	gridStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	markerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	currentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	captionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

const (
	terrainGlyph   = '·'
	satelliteGlyph = '▒'
	gridGlyph      = '+'
	markerGlyph    = '⬤'
	currentGlyph   = '✦'
)

// View renders the grid, markers and caption.
func (m *Map) View() string {
	center, zoom := m.handle.View()
	lonPerCol, latPerRow := degPerCell(zoom)

	type overlayCell struct {
		glyph rune
		style lipgloss.Style
	}
	overlay := map[[2]int]overlayCell{}
	for _, mk := range m.markers {
		col, row, ok := m.cell(mk.Position)
		if !ok {
			continue
		}
		cell := overlayCell{glyph: markerGlyph, style: markerStyle}
		if mk.Title == CurrentLocationTitle {
			cell = overlayCell{glyph: currentGlyph, style: currentStyle}
		}
		overlay[[2]int{col, row}] = cell
	}

	bgGlyph, bgStyle := terrainGlyph, terrainStyle
	if m.satellite {
		bgGlyph, bgStyle = satelliteGlyph, satelliteStyle
	}

	var b strings.Builder
	for row := 0; row < m.height; row++ {
		for col := 0; col < m.width; col++ {
			if cell, ok := overlay[[2]int{col, row}]; ok {
				b.WriteString(cell.style.Render(string(cell.glyph)))
				continue
			}
			lat := center.Lat - (float64(row)-float64(m.height)/2)*latPerRow
			lon := center.Lon + (float64(col)-float64(m.width)/2)*lonPerCol
			if onGridline(lat, latPerRow) || onGridline(lon, lonPerCol) {
				b.WriteString(gridStyle.Render(string(gridGlyph)))
				continue
			}
			b.WriteString(bgStyle.Render(string(bgGlyph)))
		}
		b.WriteByte('\n')
	}
	b.WriteString(captionStyle.Render(fmt.Sprintf("center %s  zoom %d", center, zoom)))
	return b.String()
}

// CurrentLocationTitle marks the synthetic device-location marker so it gets
// its own glyph.
const CurrentLocationTitle = "Your Location"

// onGridline reports whether v sits within half a cell of a whole degree.
func onGridline(v, perCell float64) bool {
	_, frac := math.Modf(math.Abs(v))
	return frac < perCell/2 || 1-frac < perCell/2
}
