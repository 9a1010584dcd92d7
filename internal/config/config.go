package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration. Configuration is operator-set
// wiring; user preferences the map writes back live in the prefs store.
type Config struct {
	Database DatabaseConfig
	Locate   LocateConfig
	Map      MapConfig
	UI       UIConfig
	Log      LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// LocateConfig selects the geolocation backend.
type LocateConfig struct {
	Backend   string // ipapi | static | none
	StaticLat float64 `mapstructure:"static_lat"`
	StaticLon float64 `mapstructure:"static_lon"`
}

// MapConfig holds the map widget surface settings.
type MapConfig struct {
	Width  int
	Height int
	// ZoomLevel is applied only on detection-triggered recenter; the base
	// render zoom is fixed in the rendering primitive.
	ZoomLevel                 int  `mapstructure:"zoom_level"`
	ShowSatellite             bool `mapstructure:"show_satellite"`
	ShowCurrentLocationButton bool `mapstructure:"show_current_location_button"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Locale string
}

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	Path  string
	Debug bool
}

// Load reads configuration from file and env. Env var overrides use prefix
// SMARTKISSAN_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "smart-kissan", "smart-kissan.db"))
	v.SetDefault("locate.backend", "ipapi")
	v.SetDefault("locate.static_lat", 0.0)
	v.SetDefault("locate.static_lon", 0.0)
	v.SetDefault("map.width", 72)
	v.SetDefault("map.height", 18)
	v.SetDefault("map.zoom_level", 13)
	v.SetDefault("map.show_satellite", false)
	v.SetDefault("map.show_current_location_button", true)
	v.SetDefault("ui.locale", "en")
	v.SetDefault("log.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "smart-kissan", "smart-kissan.log"))
	v.SetDefault("log.debug", false)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("SMARTKISSAN_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "smart-kissan"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SMARTKISSAN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if
// needed. Used by the TUI settings view.
func Save(cfg Config) error {
	path := os.Getenv("SMARTKISSAN_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "smart-kissan", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("locate.backend", cfg.Locate.Backend)
	v.Set("locate.static_lat", cfg.Locate.StaticLat)
	v.Set("locate.static_lon", cfg.Locate.StaticLon)
	v.Set("map.width", cfg.Map.Width)
	v.Set("map.height", cfg.Map.Height)
	v.Set("map.zoom_level", cfg.Map.ZoomLevel)
	v.Set("map.show_satellite", cfg.Map.ShowSatellite)
	v.Set("map.show_current_location_button", cfg.Map.ShowCurrentLocationButton)
	v.Set("ui.locale", cfg.UI.Locale)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.debug", cfg.Log.Debug)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
