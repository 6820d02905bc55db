package store

import (
	"testing"
	"time"

	"github.com/tbessiere/foyer/internal/database"
	"github.com/tbessiere/foyer/internal/model"
)

func setupScreenTimeTestDB(t *testing.T) (*ScreenTimeStore, *FamilyMemberStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewScreenTimeStore(db), NewFamilyMemberStore(db)
}

func TestGetOrCreateConfig(t *testing.T) {
	ss, ms := setupScreenTimeTestDB(t)

	member, err := ms.Create("Léa", model.RoleChild, "#FF0000", "🦊")
	if err != nil {
		t.Fatalf("create member: %v", err)
	}

	// No config yet.
	cfg, err := ss.GetConfig(member.ID)
	if err != nil {
		t.Fatalf("get config: %v", err)
	}
	if cfg != nil {
		t.Fatal("expected nil config before first access")
	}

	// First access creates the defaults.
	cfg, err = ss.GetOrCreateConfig(member.ID)
	if err != nil {
		t.Fatalf("get or create config: %v", err)
	}
	if cfg.WeeklyMinutes != nil {
		t.Errorf("weekly_minutes = %v, want nil default", *cfg.WeeklyMinutes)
	}
	if cfg.HeartsTotal != 5 {
		t.Errorf("hearts_total = %d, want 5", cfg.HeartsTotal)
	}
	if cfg.ResetDay != 1 {
		t.Errorf("reset_day = %d, want 1", cfg.ResetDay)
	}
	if !cfg.LivesEnabled {
		t.Error("lives should be enabled by default")
	}

	// Second access reuses the same row.
	again, err := ss.GetOrCreateConfig(member.ID)
	if err != nil {
		t.Fatalf("get or create again: %v", err)
	}
	if again.ID != cfg.ID {
		t.Errorf("config id = %d, want %d", again.ID, cfg.ID)
	}
}

func TestUpdateConfig(t *testing.T) {
	ss, ms := setupScreenTimeTestDB(t)

	member, _ := ms.Create("Léa", model.RoleChild, "#FF0000", "🦊")
	ss.GetOrCreateConfig(member.ID)

	cfg, err := ss.UpdateConfig(member.ID, 300, 5, 0, false)
	if err != nil {
		t.Fatalf("update config: %v", err)
	}
	if cfg.WeeklyMinutes == nil || *cfg.WeeklyMinutes != 300 {
		t.Errorf("weekly_minutes = %v, want 300", cfg.WeeklyMinutes)
	}
	if cfg.ResetDay != 0 {
		t.Errorf("reset_day = %d, want 0", cfg.ResetDay)
	}
	if cfg.LivesEnabled {
		t.Error("lives should be disabled")
	}
}

func TestUsageAppendAndSum(t *testing.T) {
	ss, ms := setupScreenTimeTestDB(t)

	member, _ := ms.Create("Léa", model.RoleChild, "#FF0000", "🦊")

	weekStart := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	weekEnd := weekStart.AddDate(0, 0, 7)

	// Two events inside the window, one before, one after.
	ss.AddUsage(member.ID, 90, weekStart.Add(26*time.Hour))
	ss.AddUsage(member.ID, 40, weekStart.Add(80*time.Hour))
	ss.AddUsage(member.ID, 55, weekStart.Add(-2*time.Hour))
	ss.AddUsage(member.ID, 70, weekEnd.Add(time.Hour))

	total, err := ss.SumUsageBetween(member.ID, weekStart, weekEnd)
	if err != nil {
		t.Fatalf("sum usage: %v", err)
	}
	if total != 130 {
		t.Errorf("total = %d, want 130", total)
	}

	events, err := ss.ListUsageBetween(member.ID, weekStart, weekEnd)
	if err != nil {
		t.Fatalf("list usage: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events in window, got %d", len(events))
	}
	// Newest first.
	if events[0].Minutes != 40 {
		t.Errorf("first event minutes = %d, want 40", events[0].Minutes)
	}
}

func TestSumUsageEmptyWindow(t *testing.T) {
	ss, ms := setupScreenTimeTestDB(t)

	member, _ := ms.Create("Léa", model.RoleChild, "#FF0000", "🦊")

	start := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	total, err := ss.SumUsageBetween(member.ID, start, start.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("sum usage: %v", err)
	}
	if total != 0 {
		t.Errorf("total = %d, want 0", total)
	}
}

func TestDeleteMemberCascadesScreenTime(t *testing.T) {
	ss, ms := setupScreenTimeTestDB(t)

	member, _ := ms.Create("Léa", model.RoleChild, "#FF0000", "🦊")
	ss.GetOrCreateConfig(member.ID)
	ss.AddUsage(member.ID, 30, time.Now())

	if err := ms.Delete(member.ID); err != nil {
		t.Fatalf("delete member: %v", err)
	}

	cfg, err := ss.GetConfig(member.ID)
	if err != nil {
		t.Fatalf("get config: %v", err)
	}
	if cfg != nil {
		t.Error("config should cascade away with the member")
	}
}
