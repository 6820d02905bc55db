package allowance

import (
	"testing"
	"time"

	"github.com/tbessiere/foyer/internal/model"
)

func intPtr(n int) *int { return &n }

func TestResolveWeeklyMinutesExplicit(t *testing.T) {
	if got := ResolveWeeklyMinutes(intPtr(300), intPtr(60), 45); got != 300 {
		t.Errorf("got %d, want 300", got)
	}
}

func TestResolveWeeklyMinutesLegacyDaily(t *testing.T) {
	if got := ResolveWeeklyMinutes(nil, intPtr(60), 45); got != 420 {
		t.Errorf("got %d, want 420", got)
	}
	// Zero weekly is treated as unset, same as nil.
	if got := ResolveWeeklyMinutes(intPtr(0), intPtr(60), 45); got != 420 {
		t.Errorf("zero weekly: got %d, want 420", got)
	}
}

func TestResolveWeeklyMinutesHouseholdDefault(t *testing.T) {
	if got := ResolveWeeklyMinutes(nil, nil, 45); got != 315 {
		t.Errorf("got %d, want 315", got)
	}
	if got := ResolveWeeklyMinutes(nil, intPtr(0), 45); got != 315 {
		t.Errorf("zero daily: got %d, want 315", got)
	}
}

func TestMinutesPerHeart(t *testing.T) {
	tests := []struct {
		weekly, hearts, want int
	}{
		{420, 7, 60},
		{421, 7, 61}, // ceiling rounds up in the child's favor
		{300, 5, 60},
		{100, 3, 34},
		{100, 0, 100}, // hearts clamped to 1
		{100, -2, 100},
		{0, 5, 1}, // zero budget still yields a divisible per-heart value
		{0, 0, 1},
		{-10, 3, 1},
	}
	for _, tt := range tests {
		if got := MinutesPerHeart(tt.weekly, tt.hearts); got != tt.want {
			t.Errorf("MinutesPerHeart(%d, %d) = %d, want %d", tt.weekly, tt.hearts, got, tt.want)
		}
	}
}

func TestWeekWindow(t *testing.T) {
	// Thursday Feb 5 2026, reset Monday → [Feb 2, Feb 9).
	now := time.Date(2026, 2, 5, 18, 30, 0, 0, time.UTC)
	start, end := WeekWindow(now, time.Monday)

	wantStart := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", start, wantStart)
	}
	if !end.Equal(wantEnd) {
		t.Errorf("end = %v, want %v", end, wantEnd)
	}
}

func TestWeekWindowOnResetDay(t *testing.T) {
	// Sunday reset, queried on a Sunday: the window starts that morning.
	now := time.Date(2026, 2, 8, 7, 0, 0, 0, time.UTC) // Sunday
	start, _ := WeekWindow(now, time.Sunday)
	want := time.Date(2026, 2, 8, 0, 0, 0, 0, time.UTC)
	if !start.Equal(want) {
		t.Errorf("start = %v, want %v", start, want)
	}
}

func TestSummarizeHearts(t *testing.T) {
	// 300 weekly minutes over 5 hearts = 60 per heart; 130 used → 2 hearts
	// consumed, 3 remaining.
	cfg := model.ScreenTimeConfig{
		MemberID:      7,
		WeeklyMinutes: intPtr(300),
		ResetDay:      1,
		HeartsTotal:   5,
		LivesEnabled:  true,
	}
	now := time.Date(2026, 2, 5, 12, 0, 0, 0, time.UTC)

	s := Summarize(cfg, 130, 60, now)
	if s.MinutesPerHeart != 60 {
		t.Errorf("minutes per heart = %d, want 60", s.MinutesPerHeart)
	}
	if s.HeartsUsed != 2 {
		t.Errorf("hearts used = %d, want 2", s.HeartsUsed)
	}
	if s.HeartsLeft != 3 {
		t.Errorf("hearts left = %d, want 3", s.HeartsLeft)
	}
	if s.MinutesLeft != 170 {
		t.Errorf("minutes left = %d, want 170", s.MinutesLeft)
	}
	if s.WeekStart.Weekday() != time.Monday {
		t.Errorf("week start weekday = %v, want Monday", s.WeekStart.Weekday())
	}
}

func TestSummarizeOvershootClamped(t *testing.T) {
	cfg := model.ScreenTimeConfig{
		WeeklyMinutes: intPtr(100),
		ResetDay:      1,
		HeartsTotal:   4,
	}
	now := time.Date(2026, 2, 5, 12, 0, 0, 0, time.UTC)

	s := Summarize(cfg, 500, 60, now)
	if s.HeartsUsed != 4 {
		t.Errorf("hearts used = %d, want 4 (clamped)", s.HeartsUsed)
	}
	if s.HeartsLeft != 0 {
		t.Errorf("hearts left = %d, want 0", s.HeartsLeft)
	}
	if s.MinutesLeft != 0 {
		t.Errorf("minutes left = %d, want 0", s.MinutesLeft)
	}
}

func TestSummarizeZeroBudget(t *testing.T) {
	// No weekly value, no legacy daily value, household default 0: the
	// resolved budget is zero and the summary must still come out whole.
	cfg := model.ScreenTimeConfig{
		MemberID:    3,
		ResetDay:    1,
		HeartsTotal: 5,
	}
	now := time.Date(2026, 2, 5, 12, 0, 0, 0, time.UTC)

	s := Summarize(cfg, 30, 0, now)
	if s.WeeklyMinutes != 0 {
		t.Errorf("weekly minutes = %d, want 0", s.WeeklyMinutes)
	}
	if s.MinutesPerHeart != 1 {
		t.Errorf("minutes per heart = %d, want 1", s.MinutesPerHeart)
	}
	if s.HeartsUsed != 5 {
		t.Errorf("hearts used = %d, want 5 (clamped)", s.HeartsUsed)
	}
	if s.HeartsLeft != 0 {
		t.Errorf("hearts left = %d, want 0", s.HeartsLeft)
	}
	if s.MinutesLeft != 0 {
		t.Errorf("minutes left = %d, want 0", s.MinutesLeft)
	}
}

func TestValidateConfig(t *testing.T) {
	if err := ValidateConfig(300, 5); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
	if err := ValidateConfig(0, 5); err != ErrInvalidMinutes {
		t.Errorf("err = %v, want ErrInvalidMinutes", err)
	}
	if err := ValidateConfig(300, 0); err != ErrInvalidHearts {
		t.Errorf("err = %v, want ErrInvalidHearts", err)
	}
}

func TestValidateUsage(t *testing.T) {
	if err := ValidateUsage(15); err != nil {
		t.Errorf("valid usage rejected: %v", err)
	}
	if err := ValidateUsage(0); err != ErrInvalidUsage {
		t.Errorf("err = %v, want ErrInvalidUsage", err)
	}
	if err := ValidateUsage(-5); err != ErrInvalidUsage {
		t.Errorf("err = %v, want ErrInvalidUsage", err)
	}
}
