// Package prefs persists user preferences the map widget reads and writes:
// the default map location and the opt-in flag for overwriting it with the
// detected device location.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/milantony05/smart-kissan/internal/geo"
)

const prefsFile = "prefs.json"

// DefaultLocation seeds the map center when no preference has been saved yet.
// Geographic center of India.
var DefaultLocation = geo.Coordinate{Lat: 20.0, Lon: 78.0}

// Prefs holds the persisted preference values.
type Prefs struct {
	DefaultLocation    geo.Coordinate `json:"default_location"`
	UseCurrentLocation bool           `json:"use_current_location"`
}

// Store reads and writes prefs.json. Writes are single-value overwrites with
// last-write-wins semantics; no locking against concurrent external writers.
type Store struct {
	path string
}

// NewStore returns a store rooted at dir, creating dir if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{path: filepath.Join(dir, prefsFile)}, nil
}

// DefaultDir returns the per-user prefs directory.
func DefaultDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "smart-kissan"), nil
}

// Path returns the prefs file path.
func (s *Store) Path() string { return s.path }

// Load reads prefs from disk. A missing file yields defaults, not an error.
func (s *Store) Load() (Prefs, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Prefs{DefaultLocation: DefaultLocation}, nil
		}
		return Prefs{DefaultLocation: DefaultLocation}, err
	}
	var p Prefs
	if err := json.Unmarshal(data, &p); err != nil {
		return Prefs{DefaultLocation: DefaultLocation}, err
	}
	if p.DefaultLocation.IsZero() {
		p.DefaultLocation = DefaultLocation
	}
	return p, nil
}

// Save writes prefs atomically (tmp file + rename).
func (s *Store) Save(p Prefs) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// SetDefaultLocation overwrites only the default location, preserving the
// opt-in flag.
func (s *Store) SetDefaultLocation(c geo.Coordinate) error {
	p, err := s.Load()
	if err != nil {
		return err
	}
	p.DefaultLocation = c
	return s.Save(p)
}

// SetUseCurrentLocation overwrites only the opt-in flag.
func (s *Store) SetUseCurrentLocation(v bool) error {
	p, err := s.Load()
	if err != nil {
		return err
	}
	p.UseCurrentLocation = v
	return s.Save(p)
}
