package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFile_MissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Vehicle.TankCapacityL != 45 {
		t.Errorf("TankCapacityL = %v, want 45", cfg.Vehicle.TankCapacityL)
	}
	if cfg.Forecast.FallbackRefuelDays != 14 {
		t.Errorf("FallbackRefuelDays = %v, want 14", cfg.Forecast.FallbackRefuelDays)
	}
	if cfg.Budget.Monthly != nil {
		t.Errorf("Monthly budget = %v, want nil", *cfg.Budget.Monthly)
	}
	if cfg.Budget.WarningThreshold != 80 {
		t.Errorf("WarningThreshold = %v, want 80", cfg.Budget.WarningThreshold)
	}
	if cfg.Gamification.WeeklySpendLimit != 500 {
		t.Errorf("WeeklySpendLimit = %v, want 500", cfg.Gamification.WeeklySpendLimit)
	}
}

func TestSaveFile_RoundTripAndMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := DefaultConfig()
	budget := 2500.0
	cfg.Budget.Monthly = &budget
	cfg.Vehicle.TankCapacityL = 50
	cfg.General.Vehicle = "clio"

	if err := SaveFile(path, cfg); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("mode = %o, want 600", perm)
	}

	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got.Budget.Monthly == nil || *got.Budget.Monthly != 2500 {
		t.Errorf("Monthly budget = %v, want 2500", got.Budget.Monthly)
	}
	if got.Vehicle.TankCapacityL != 50 || got.General.Vehicle != "clio" {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestLoadFile_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[vehicle]\ntank_capacity_l = 60\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Vehicle.TankCapacityL != 60 {
		t.Errorf("TankCapacityL = %v, want 60", cfg.Vehicle.TankCapacityL)
	}
	if cfg.Vehicle.DefaultConsumption != 7.5 {
		t.Errorf("DefaultConsumption = %v, want 7.5", cfg.Vehicle.DefaultConsumption)
	}
}

func TestLoadFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[vehicle\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("FUELLOG_DB", "/tmp/custom.db")
	t.Setenv("FUELLOG_TANK_CAPACITY", "52.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if DBPath(cfg) != "/tmp/custom.db" {
		t.Errorf("DBPath = %q", DBPath(cfg))
	}
	if cfg.Vehicle.TankCapacityL != 52.5 {
		t.Errorf("TankCapacityL = %v, want 52.5", cfg.Vehicle.TankCapacityL)
	}
}

func TestDBPath_DefaultsUnderDataDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)
	want := filepath.Join(dir, "fuellog", "fuellog.db")
	if got := DBPath(DefaultConfig()); got != want {
		t.Errorf("DBPath = %q, want %q", got, want)
	}
}
