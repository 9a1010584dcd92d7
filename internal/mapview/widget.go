// Package mapview implements the location-aware map widget: it seeds its
// center from preferences, detects the device location on demand, merges a
// single synthetic current-location marker into the caller's markers, and
// optionally persists the detected coordinate back to preferences.
package mapview

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/milantony05/smart-kissan/internal/geo"
	"github.com/milantony05/smart-kissan/internal/i18n"
	"github.com/milantony05/smart-kissan/internal/locate"
	"github.com/milantony05/smart-kissan/internal/prefs"
	"github.com/milantony05/smart-kissan/internal/render"
)

// DefaultZoomLevel applies only on detection-triggered recenter. The base
// render uses render.BaseZoom regardless; the two are kept distinct on
// purpose.
const DefaultZoomLevel = 13

// DetectTimeout bounds one detection request.
const DetectTimeout = 10 * time.Second

// ErrTextNoGeolocation is shown when no geolocation capability exists.
// Static and untranslated, unlike detection failures.
const ErrTextNoGeolocation = "Geolocation is not supported by your browser"

// Synthetic current-location marker strings.
const (
	currentLocationTitle = render.CurrentLocationTitle
	currentLocationPopup = "You are here"
)

// DetectionState tracks the widget's one in-flight detection request.
type DetectionState string

const (
	StateIdle     DetectionState = "idle"
	StateLocating DetectionState = "locating"
)

// centerSource tags which trigger last set the center, so rapid preference
// changes and detections stay deterministic.
type centerSource string

const (
	sourcePreference centerSource = "preference"
	sourceDetection  centerSource = "detection"
)

// Options is the widget's configuration surface.
type Options struct {
	Markers                   []geo.Marker
	Width                     int
	Height                    int
	OnMapClick                func(render.ClickEvent)
	ShowSatellite             bool
	ShowCurrentLocationButton bool
	OnLocationDetected        func(geo.Coordinate)
	ZoomLevel                 int
}

// DefaultOptions returns the documented defaults: no markers, the location
// button shown, detection recenter zoom 13.
func DefaultOptions() Options {
	return Options{
		Width:                     72,
		Height:                    18,
		ShowCurrentLocationButton: true,
		ZoomLevel:                 DefaultZoomLevel,
	}
}

// Deps are the widget's external collaborators. A nil Provider means the
// geolocation capability is absent. A nil Store disables persistence.
type Deps struct {
	Provider   locate.Provider
	Prefs      *prefs.Store
	Translator *i18n.Translator
	Logger     *zap.Logger
}

// Model is the widget. It is re-enterable indefinitely: every detection
// cycle ends back in StateIdle.
type Model struct {
	opts     Options
	provider locate.Provider
	store    *prefs.Store
	tr       *i18n.Translator
	logger   *zap.Logger

	mapPrimitive *render.Map
	handle       *render.Handle

	center             geo.Coordinate
	source             centerSource
	state              DetectionState
	errText            string
	current            *geo.Marker
	useCurrentLocation bool

	spin     spinner.Model
	showHint bool
}

// Messages produced by the widget's commands.
type (
	// locationMsg carries one successful detection.
	locationMsg struct{ Position geo.Coordinate }
	// locationErrMsg carries one failed detection.
	locationErrMsg struct{ Err error }
	// prefsSavedMsg reports the post-detection preference write.
	prefsSavedMsg struct{ Err error }
)

// New builds the widget seeded from the given preferences.
func New(opts Options, deps Deps, p prefs.Prefs) *Model {
	if opts.ZoomLevel <= 0 {
		opts.ZoomLevel = DefaultZoomLevel
	}
	if opts.Width <= 0 {
		opts.Width = 72
	}
	if opts.Height <= 0 {
		opts.Height = 18
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	center := p.DefaultLocation
	if center.IsZero() {
		center = prefs.DefaultLocation
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		opts:               opts,
		provider:           deps.Provider,
		store:              deps.Prefs,
		tr:                 deps.Translator,
		logger:             logger,
		center:             center,
		source:             sourcePreference,
		state:              StateIdle,
		useCurrentLocation: p.UseCurrentLocation,
		spin:               sp,
	}

	mapOpts := []render.Option{render.WithSatellite(opts.ShowSatellite)}
	if opts.OnMapClick != nil {
		mapOpts = append(mapOpts, render.WithClickHandler(opts.OnMapClick))
	}
	m.mapPrimitive = render.New(center, opts.Width, opts.Height, mapOpts...)
	m.mapPrimitive.SetMarkers(m.MergedMarkers())
	return m
}

// Init starts the rendering primitive, which replies with the one-time
// ready notification carrying the recenter handle.
func (m *Model) Init() tea.Cmd {
	return m.mapPrimitive.Init()
}

// SetPreferences re-seeds the center from an externally changed preference
// value. It never triggers detection, never touches the synthetic marker or
// the detection state, and relies on the primitive re-rendering from the
// new center rather than the recenter handle.
func (m *Model) SetPreferences(p prefs.Prefs) {
	center := p.DefaultLocation
	if center.IsZero() {
		center = prefs.DefaultLocation
	}
	m.center = center
	m.source = sourcePreference
	m.useCurrentLocation = p.UseCurrentLocation
	m.mapPrimitive.SetCenter(center)
}

// RequestCurrentLocation starts one detection cycle. While a request is in
// flight further calls are rejected here, not just by the disabled trigger,
// so the single-in-flight invariant holds under programmatic use too.
func (m *Model) RequestCurrentLocation() tea.Cmd {
	if m.state == StateLocating {
		return nil
	}
	if m.provider == nil {
		m.errText = ErrTextNoGeolocation
		m.logger.Warn("geolocation capability absent")
		return nil
	}

	m.errText = ""
	m.state = StateLocating

	provider := m.provider
	detect := func() tea.Msg {
		c, err := provider.CurrentPosition(context.Background(), locate.Options{
			Timeout:      DetectTimeout,
			HighAccuracy: true,
		})
		if err != nil {
			return locationErrMsg{Err: err}
		}
		return locationMsg{Position: c}
	}
	return tea.Batch(m.spin.Tick, detect)
}

// Update handles the widget's messages. The host forwards everything it
// does not consume itself.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case render.ReadyMsg:
		// exclusively-owned recenter handle, replacing any prior one
		m.handle = msg.Handle
		return nil

	case locationMsg:
		return m.applyDetection(msg.Position)

	case locationErrMsg:
		m.state = StateIdle
		m.errText = m.permissionText()
		m.logger.Warn("geolocation failed", zap.Error(msg.Err))
		return nil

	case prefsSavedMsg:
		if msg.Err != nil {
			m.logger.Error("persist detected location", zap.Error(msg.Err))
		}
		return nil

	case spinner.TickMsg:
		if m.state != StateLocating {
			return nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return cmd

	case tea.MouseMsg:
		return m.mapPrimitive.Update(msg)
	}
	return nil
}

// applyDetection is the one success path: center, recenter handle with the
// configured zoom, synthetic marker replacement, optional preference write,
// caller callback, back to idle.
func (m *Model) applyDetection(c geo.Coordinate) tea.Cmd {
	m.center = c
	m.source = sourceDetection
	m.state = StateIdle
	m.errText = ""

	if m.handle != nil {
		m.handle.SetView(c, m.opts.ZoomLevel)
	}

	m.current = &geo.Marker{
		Position: c,
		Title:    currentLocationTitle,
		Popup:    currentLocationPopup,
	}
	m.mapPrimitive.SetMarkers(m.MergedMarkers())

	var cmd tea.Cmd
	if m.useCurrentLocation && m.store != nil {
		store := m.store
		cmd = func() tea.Msg {
			return prefsSavedMsg{Err: store.SetDefaultLocation(c)}
		}
	}

	if m.opts.OnLocationDetected != nil {
		m.opts.OnLocationDetected(c)
	}
	return cmd
}

func (m *Model) permissionText() string {
	if m.tr == nil {
		return "map.locationPermission"
	}
	return m.tr.Lookup("map.locationPermission")
}

// CenterOn recenters the map on c without touching detection state, the
// synthetic marker, or preferences. Prop-driven like SetPreferences.
func (m *Model) CenterOn(c geo.Coordinate) {
	if c.IsZero() {
		return
	}
	m.center = c
	m.source = sourcePreference
	m.mapPrimitive.SetCenter(c)
}

// SetMarkers replaces the caller-supplied marker list.
func (m *Model) SetMarkers(markers []geo.Marker) {
	m.opts.Markers = markers
	m.mapPrimitive.SetMarkers(m.MergedMarkers())
}

// SetSize resizes the widget.
func (m *Model) SetSize(width, height int) {
	m.opts.Width, m.opts.Height = width, height
	m.mapPrimitive.SetSize(width, height)
}

// MergedMarkers returns the caller markers plus the synthetic
// current-location marker, which exists at most once.
func (m *Model) MergedMarkers() []geo.Marker {
	return geo.MergeMarkers(m.opts.Markers, m.current)
}

// Center returns the current center coordinate.
func (m *Model) Center() geo.Coordinate { return m.center }

// State returns the detection state.
func (m *Model) State() DetectionState { return m.state }

// ErrorText returns the rendered error message, empty when none.
func (m *Model) ErrorText() string { return m.errText }

// CurrentMarker returns the synthetic marker, nil before the first
// successful detection.
func (m *Model) CurrentMarker() *geo.Marker {
	if m.current == nil {
		return nil
	}
	mk := *m.current
	return &mk
}

// CellCoordinate exposes the primitive's cell-to-coordinate mapping for the
// host's click handling.
func (m *Model) CellCoordinate(col, row int) geo.Coordinate {
	return m.mapPrimitive.CellCoordinate(col, row)
}
