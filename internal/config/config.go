// Package config loads and saves the fuellog TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config holds all fuellog configuration.
type Config struct {
	General      GeneralConfig      `toml:"general"`
	Vehicle      VehicleConfig      `toml:"vehicle"`
	Forecast     ForecastConfig     `toml:"forecast"`
	Budget       BudgetConfig       `toml:"budget"`
	Gamification GamificationConfig `toml:"gamification"`
	Appearance   AppearanceConfig   `toml:"appearance"`
	Daemon       DaemonConfig       `toml:"daemon"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DefaultDays int    `toml:"default_days"`
	Vehicle     string `toml:"vehicle,omitempty"`
	DBPath      string `toml:"db_path,omitempty"`
	LogLevel    string `toml:"log_level"`
	LogFormat   string `toml:"log_format"` // "text" or "json"
}

// VehicleConfig describes the tracked vehicle.
// The tank capacity is an approximation used only for range estimates.
type VehicleConfig struct {
	TankCapacityL      float64 `toml:"tank_capacity_l"`
	DefaultConsumption float64 `toml:"default_consumption"`
}

// ForecastConfig tunes the estimators.
type ForecastConfig struct {
	FallbackRefuelDays float64 `toml:"fallback_refuel_days"`
	YearEndMinDay      int     `toml:"year_end_min_day"`
	YearEndMinCost     float64 `toml:"year_end_min_cost"`
	WindowDays         int     `toml:"window_days"`
}

// BudgetConfig holds budget tracking settings.
// WarningThreshold is the percentage of the budget at which spending is
// flagged as close to the limit.
type BudgetConfig struct {
	Monthly          *float64 `toml:"monthly,omitempty"`
	WarningThreshold float64  `toml:"warning_threshold"`
}

// GamificationConfig holds XP awards and weekly challenge targets.
type GamificationConfig struct {
	XPPerLog         int     `toml:"xp_per_log"`
	XPPerPurchase    int     `toml:"xp_per_purchase"`
	WeeklySpendLimit float64 `toml:"weekly_spend_limit"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme    string `toml:"theme"`
	Currency string `toml:"currency"`
}

// DaemonConfig holds background service settings.
type DaemonConfig struct {
	Addr        string `toml:"addr"`
	IntervalSec int    `toml:"interval_sec"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultDays: 30,
			LogLevel:    "warn",
			LogFormat:   "text",
		},
		Vehicle: VehicleConfig{
			TankCapacityL:      45,
			DefaultConsumption: 7.5,
		},
		Forecast: ForecastConfig{
			FallbackRefuelDays: 14,
			YearEndMinDay:      15,
			YearEndMinCost:     100,
			WindowDays:         30,
		},
		Budget: BudgetConfig{
			WarningThreshold: 80,
		},
		Gamification: GamificationConfig{
			XPPerLog:         50,
			XPPerPurchase:    30,
			WeeklySpendLimit: 500,
		},
		Appearance: AppearanceConfig{
			Theme:    "flexoki-dark",
			Currency: "₺",
		},
		Daemon: DaemonConfig{
			Addr:        "127.0.0.1:8788",
			IntervalSec: 15,
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "fuellog")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "fuellog")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "fuellog")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "fuellog")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides are applied last.
func Load() (Config, error) {
	cfg, err := LoadFile(ConfigPath())
	if err != nil {
		return cfg, err
	}
	applyEnv(&cfg)
	return cfg, nil
}

// LoadFile reads one config file over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if db := os.Getenv("FUELLOG_DB"); db != "" {
		cfg.General.DBPath = db
	}
	if level := os.Getenv("FUELLOG_LOG_LEVEL"); level != "" {
		cfg.General.LogLevel = level
	}
	if raw := os.Getenv("FUELLOG_TANK_CAPACITY"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
			cfg.Vehicle.TankCapacityL = v
		}
	}
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveFile(ConfigPath(), cfg)
}

// SaveFile writes the config to path with owner-only permissions.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// DBPath returns the SQLite path, defaulting under the data dir.
func DBPath(cfg Config) string {
	if cfg.General.DBPath != "" {
		return cfg.General.DBPath
	}
	return filepath.Join(DataDir(), "fuellog.db")
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
