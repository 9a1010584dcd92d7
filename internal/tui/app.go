package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/milantony05/smart-kissan/internal/config"
	"github.com/milantony05/smart-kissan/internal/database/repository"
	"github.com/milantony05/smart-kissan/internal/geo"
	"github.com/milantony05/smart-kissan/internal/i18n"
	"github.com/milantony05/smart-kissan/internal/mapview"
	"github.com/milantony05/smart-kissan/internal/prefs"
	"github.com/milantony05/smart-kissan/internal/render"
	"github.com/milantony05/smart-kissan/internal/service"
)

// App ties together views around the map widget.
type App struct {
	ctx    context.Context
	cfg    config.Config
	fields *repository.FieldRepo
	store  *prefs.Store
	tr     *i18n.Translator
	logger *zap.Logger
	search service.FieldSearch

	widget *mapview.Model
	state  appState
	modal  modalState

	fieldRows   []repository.Field
	fieldCursor int
	searchQuery string
	searching   bool

	settingsCursor int
	inputBuffer    string
	status         string
	lastClick      *geo.Coordinate
	useCurrent     bool
}

type appState string

const (
	viewMap      appState = "map"
	viewFields   appState = "fields"
	viewSettings appState = "settings"
)

type modalState string

const (
	modalNone            modalState = ""
	modalNewField        modalState = "newField"
	modalDefaultLocation modalState = "defaultLocation"
)

// headerRows is the vertical offset of the map surface, used to translate
// terminal mouse coordinates into map-local ones.
const headerRows = 1

// New builds the application. The widget is seeded from the loaded prefs.
func New(ctx context.Context, cfg config.Config, fieldsRepo *repository.FieldRepo, store *prefs.Store, tr *i18n.Translator, logger *zap.Logger, deps mapview.Deps, p prefs.Prefs) *App {
	a := &App{
		ctx:        ctx,
		cfg:        cfg,
		fields:     fieldsRepo,
		store:      store,
		tr:         tr,
		logger:     logger,
		state:      viewMap,
		useCurrent: p.UseCurrentLocation,
	}

	opts := mapview.DefaultOptions()
	opts.Width = cfg.Map.Width
	opts.Height = cfg.Map.Height
	opts.ZoomLevel = cfg.Map.ZoomLevel
	opts.ShowSatellite = cfg.Map.ShowSatellite
	opts.ShowCurrentLocationButton = cfg.Map.ShowCurrentLocationButton
	opts.OnMapClick = func(ev render.ClickEvent) {
		c := ev.Position
		a.lastClick = &c
		a.status = "clicked " + c.String()
	}
	opts.OnLocationDetected = func(c geo.Coordinate) {
		a.status = "location detected: " + c.String()
	}
	a.widget = mapview.New(opts, deps, p)
	return a
}

// PrefsChangedMsg is sent by the prefs file watcher when the preference
// value changes externally.
type PrefsChangedMsg struct {
	Prefs prefs.Prefs
}

type fieldListMsg []repository.Field

type fieldSavedMsg struct{ Name string }

type statusMsg string

type errMsg struct{ error }

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.widget.Init(), a.loadFields())
}

func (a *App) loadFields() tea.Cmd {
	return func() tea.Msg {
		list, err := a.fields.List(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return fieldListMsg(list)
	}
}

func (a *App) saveFieldCmd(name string, pos geo.Coordinate) tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			f := repository.Field{ID: uuid.NewString(), Name: strings.TrimSpace(name), Position: pos}
			if err := a.fields.Upsert(a.ctx, f); err != nil {
				return errMsg{err}
			}
			return fieldSavedMsg{Name: f.Name}
		},
		a.loadFields(),
	)
}

func (a *App) deleteFieldCmd(id string) tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			if err := a.fields.Delete(a.ctx, id); err != nil {
				return errMsg{err}
			}
			return statusMsg("field removed")
		},
		a.loadFields(),
	)
}

func (a *App) toggleUseCurrentCmd() tea.Cmd {
	next := !a.useCurrent
	return func() tea.Msg {
		if err := a.store.SetUseCurrentLocation(next); err != nil {
			return errMsg{err}
		}
		p, err := a.store.Load()
		if err != nil {
			return errMsg{err}
		}
		return PrefsChangedMsg{Prefs: p}
	}
}

func (a *App) setDefaultLocationCmd(c geo.Coordinate) tea.Cmd {
	return func() tea.Msg {
		if err := a.store.SetDefaultLocation(c); err != nil {
			return errMsg{err}
		}
		p, err := a.store.Load()
		if err != nil {
			return errMsg{err}
		}
		return PrefsChangedMsg{Prefs: p}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.MouseMsg:
		if a.state != viewMap || a.modal != modalNone {
			return a, nil
		}
		local := msg
		local.Y -= headerRows
		return a, a.widget.Update(local)

	case tea.WindowSizeMsg:
		w := msg.Width
		h := msg.Height - 6 // header, overlay and footer rows
		if w > 8 && h > 4 {
			a.widget.SetSize(w, h)
		}
		return a, nil

	case PrefsChangedMsg:
		a.useCurrent = msg.Prefs.UseCurrentLocation
		a.widget.SetPreferences(msg.Prefs)
		a.status = "preferences updated"
		return a, nil

	case fieldListMsg:
		a.fieldRows = []repository.Field(msg)
		if a.fieldCursor >= len(a.fieldRows) {
			a.fieldCursor = 0
		}
		a.widget.SetMarkers(fieldMarkers(a.fieldRows))
		return a, nil

	case fieldSavedMsg:
		a.status = "saved " + msg.Name
		return a, nil

	case statusMsg:
		a.status = string(msg)
		return a, nil

	case errMsg:
		a.status = "error: " + msg.Error()
		a.logger.Error("tui", zap.Error(msg.error))
		return a, nil
	}

	// spinner ticks, ready handle, detection results
	return a, a.widget.Update(msg)
}

func fieldMarkers(fields []repository.Field) []geo.Marker {
	out := make([]geo.Marker, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Marker())
	}
	return out
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.modal != modalNone {
		return a.handleModalKey(msg)
	}
	if a.state == viewFields && a.searching {
		return a.handleSearchKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "m", "esc":
		a.state = viewMap
		return a, nil
	case "f":
		a.state = viewFields
		a.searchQuery = ""
		return a, nil
	case "s":
		a.state = viewSettings
		a.settingsCursor = 0
		return a, nil
	}

	switch a.state {
	case viewMap:
		return a.handleMapKey(msg)
	case viewFields:
		return a.handleFieldsKey(msg)
	case viewSettings:
		return a.handleSettingsKey(msg)
	}
	return a, nil
}

func (a *App) handleMapKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "l":
		if !a.cfg.Map.ShowCurrentLocationButton {
			return a, nil
		}
		if a.widget.State() == mapview.StateLocating {
			// trigger disabled while a detection is in flight
			return a, nil
		}
		return a, a.widget.RequestCurrentLocation()
	case "tab":
		// focus/blur of the trigger control reveals the privacy notice
		if a.widget.HintVisible() {
			a.widget.BlurButton()
		} else {
			a.widget.FocusButton()
		}
	case "a":
		a.modal = modalNewField
		a.inputBuffer = ""
	}
	return a, nil
}

func (a *App) handleFieldsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := a.visibleFields()
	switch msg.String() {
	case "up", "k":
		if a.fieldCursor > 0 {
			a.fieldCursor--
		}
	case "down", "j":
		if a.fieldCursor < len(rows)-1 {
			a.fieldCursor++
		}
	case "/":
		a.searching = true
		a.searchQuery = ""
		a.fieldCursor = 0
	case "a":
		a.modal = modalNewField
		a.inputBuffer = ""
	case "backspace", "delete", "d":
		if len(rows) > 0 {
			return a, a.deleteFieldCmd(rows[a.fieldCursor].ID)
		}
	case "enter":
		if len(rows) > 0 {
			a.widget.CenterOn(rows[a.fieldCursor].Position)
			a.state = viewMap
			a.status = "centered on " + rows[a.fieldCursor].Name
		}
	}
	return a, nil
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.searching = false
		a.searchQuery = ""
	case tea.KeyEnter:
		a.searching = false
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		if len(a.searchQuery) > 0 {
			a.searchQuery = a.searchQuery[:len(a.searchQuery)-1]
		}
	case tea.KeySpace:
		a.searchQuery += " "
	case tea.KeyRunes:
		a.searchQuery += string(msg.Runes)
	}
	a.fieldCursor = 0
	return a, nil
}

func (a *App) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if a.settingsCursor > 0 {
			a.settingsCursor--
		}
	case "down", "j":
		if a.settingsCursor < 1 {
			a.settingsCursor++
		}
	case "enter", " ":
		if a.settingsCursor == 0 {
			return a, a.toggleUseCurrentCmd()
		}
		a.modal = modalDefaultLocation
		a.inputBuffer = a.widget.Center().String()
	}
	return a, nil
}

func (a *App) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.modal = modalNone
		a.inputBuffer = ""
	case tea.KeyEnter:
		text := strings.TrimSpace(a.inputBuffer)
		modal := a.modal
		a.modal = modalNone
		a.inputBuffer = ""
		if text == "" {
			a.status = "enter a value"
			return a, nil
		}
		switch modal {
		case modalNewField:
			pos := a.widget.Center()
			if a.lastClick != nil {
				pos = *a.lastClick
			}
			return a, a.saveFieldCmd(text, pos)
		case modalDefaultLocation:
			c, err := parseCoordinate(text)
			if err != nil {
				a.status = err.Error()
				return a, nil
			}
			return a, a.setDefaultLocationCmd(c)
		}
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		if len(a.inputBuffer) > 0 {
			a.inputBuffer = a.inputBuffer[:len(a.inputBuffer)-1]
		}
	case tea.KeySpace:
		a.inputBuffer += " "
	case tea.KeyRunes:
		a.inputBuffer += string(msg.Runes)
	}
	return a, nil
}

// parseCoordinate parses "lat, lon" user input.
func parseCoordinate(s string) (geo.Coordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geo.Coordinate{}, fmt.Errorf("expected lat, lon")
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("bad latitude: %v", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("bad longitude: %v", err)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return geo.Coordinate{}, fmt.Errorf("coordinate out of range")
	}
	return geo.Coordinate{Lat: lat, Lon: lon}, nil
}

func (a *App) visibleFields() []repository.Field {
	return a.search.Rank(a.fieldRows, a.searchQuery)
}

// styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cursorGlyph = "▶"
)

func (a *App) View() string {
	var body string
	switch a.state {
	case viewFields:
		body = a.renderFields()
	case viewSettings:
		body = a.renderSettings()
	default:
		body = a.renderMap()
	}
	if a.modal != modalNone {
		body += "\n\n" + a.renderModal()
	}
	if a.status != "" {
		body += "\n" + a.status
	}
	return body
}

func (a *App) renderMap() string {
	out := titleStyle.Render("Smart Kissan") + "\n"
	out += a.widget.View() + "\n"
	out += footerStyle.Render("[l] Detect location  [tab] Privacy notice  [a] Add field  [f] Fields  [s] Settings  [q] Quit")
	return out
}

func (a *App) renderFields() string {
	out := titleStyle.Render(a.tr.Lookup("fields.title")) + "\n"
	if a.searching || a.searchQuery != "" {
		out += fmt.Sprintf("%s: %s\n", a.tr.Lookup("fields.searchPrompt"), a.searchQuery)
	}
	rows := a.visibleFields()
	if len(rows) == 0 {
		out += a.tr.Lookup("fields.empty") + "\n"
	}
	center := a.widget.Center()
	for i, f := range rows {
		marker := " "
		if i == a.fieldCursor {
			marker = cursorGlyph
		}
		out += fmt.Sprintf("%s %-28s %s  %.1f km\n", marker, f.Name, f.Position, geo.Distance(center, f.Position))
	}
	out += footerStyle.Render("[enter] Center map  [a] Add at center  [/] Search  [d] Delete  [m] Map  [q] Quit")
	return out
}

func (a *App) renderSettings() string {
	out := titleStyle.Render(a.tr.Lookup("settings.title")) + "\n"

	check := "[ ]"
	if a.useCurrent {
		check = "[x]"
	}
	rows := []string{
		fmt.Sprintf("%s %s", check, a.tr.Lookup("settings.useCurrentLocation")),
		fmt.Sprintf("%s: %s", a.tr.Lookup("settings.defaultLocation"), a.widget.Center()),
	}
	for i, row := range rows {
		marker := " "
		if i == a.settingsCursor {
			marker = cursorGlyph
		}
		out += fmt.Sprintf("%s %s\n", marker, row)
	}
	out += footerStyle.Render("[enter] Toggle/Edit  [m] Map  [q] Quit")
	return out
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalNewField:
		return titleStyle.Render(a.tr.Lookup("fields.addHere")) + fmt.Sprintf("\n%s\n[enter] Save  [esc] Cancel", a.inputBuffer)
	case modalDefaultLocation:
		return titleStyle.Render(a.tr.Lookup("settings.defaultLocation")) + fmt.Sprintf("\n%s\n[enter] Save  [esc] Cancel", a.inputBuffer)
	default:
		return ""
	}
}
