package store

import (
	"testing"

	"github.com/tbessiere/foyer/internal/database"
)

func setupSettingsTestDB(t *testing.T) *SettingsStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSettingsStore(db)
}

func TestSettingsSeedData(t *testing.T) {
	ss := setupSettingsTestDB(t)

	rotation, err := ss.GetRotationSettings()
	if err != nil {
		t.Fatalf("get rotation settings: %v", err)
	}
	if rotation["rotation_reset_day"] != "1" {
		t.Errorf("rotation_reset_day = %q, want %q", rotation["rotation_reset_day"], "1")
	}

	screenTime, err := ss.GetScreenTimeSettings()
	if err != nil {
		t.Fatalf("get screen time settings: %v", err)
	}
	if screenTime["screen_time_default_daily_minutes"] != "60" {
		t.Errorf("screen_time_default_daily_minutes = %q, want %q",
			screenTime["screen_time_default_daily_minutes"], "60")
	}
}

func TestSettingsGet(t *testing.T) {
	ss := setupSettingsTestDB(t)

	val, err := ss.Get("rotation_reset_day")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if val != "1" {
		t.Errorf("rotation_reset_day = %q, want %q", val, "1")
	}

	if _, err := ss.Get("no_such_key"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestSettingsGetOrDefault(t *testing.T) {
	ss := setupSettingsTestDB(t)

	if got := ss.GetOrDefault("rotation_reset_day", "3"); got != "1" {
		t.Errorf("stored value = %q, want %q", got, "1")
	}
	if got := ss.GetOrDefault("no_such_key", "fallback"); got != "fallback" {
		t.Errorf("fallback = %q, want %q", got, "fallback")
	}
}

func TestSettingsSetAndUpdate(t *testing.T) {
	ss := setupSettingsTestDB(t)

	if err := ss.Set("rotation_reset_day", "0"); err != nil {
		t.Fatalf("set: %v", err)
	}
	val, err := ss.Get("rotation_reset_day")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if val != "0" {
		t.Errorf("rotation_reset_day = %q, want %q", val, "0")
	}

	// New key round trip.
	if err := ss.Set("display_name", "Chez nous"); err != nil {
		t.Fatalf("set new key: %v", err)
	}
	display, err := ss.GetDisplaySettings()
	if err != nil {
		t.Fatalf("get display settings: %v", err)
	}
	if display["display_name"] != "Chez nous" {
		t.Errorf("display_name = %q, want %q", display["display_name"], "Chez nous")
	}
}

func TestSettingsGetAll(t *testing.T) {
	ss := setupSettingsTestDB(t)

	all, err := ss.GetAll()
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if _, ok := all["rotation_reset_day"]; !ok {
		t.Error("expected seeded rotation_reset_day in GetAll")
	}
}
