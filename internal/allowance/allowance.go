// Package allowance converts a child's weekly screen-time budget into
// discrete hearts and tracks consumption against the append-only usage log.
// There is no stored counter and no reset job: the current week's window is
// recomputed from the wall clock and consumption is derived by summing
// events inside it.
package allowance

import (
	"errors"
	"time"

	"github.com/tbessiere/foyer/internal/model"
)

var (
	ErrInvalidMinutes = errors.New("weekly allowance must be a positive number of minutes")
	ErrInvalidHearts  = errors.New("hearts total must be at least 1")
	ErrInvalidUsage   = errors.New("usage minutes must be a positive number")
)

// Summary is everything the dashboard needs to render one child's hearts.
type Summary struct {
	MemberID        int64     `json:"member_id"`
	WeeklyMinutes   int       `json:"weekly_minutes"`
	MinutesPerHeart int       `json:"minutes_per_heart"`
	HeartsTotal     int       `json:"hearts_total"`
	HeartsUsed      int       `json:"hearts_used"`
	HeartsLeft      int       `json:"hearts_left"`
	MinutesUsed     int       `json:"minutes_used"`
	MinutesLeft     int       `json:"minutes_left"`
	LivesEnabled    bool      `json:"lives_enabled"`
	WeekStart       time.Time `json:"week_start"`
	WeekEnd         time.Time `json:"week_end"`
}

// ResolveWeeklyMinutes picks the effective weekly budget. An explicit weekly
// value wins; otherwise a legacy per-day value is scaled to a week; otherwise
// the household default per-day value is. The chain exists so budgets
// configured under the old daily model survive the upgrade.
func ResolveWeeklyMinutes(weekly, daily *int, defaultDaily int) int {
	if weekly != nil && *weekly > 0 {
		return *weekly
	}
	if daily != nil && *daily > 0 {
		return *daily * 7
	}
	return defaultDaily * 7
}

// MinutesPerHeart is the ceiling of weeklyMinutes/heartsTotal. heartsTotal is
// clamped to at least 1, and the ceiling means the last heart never grants
// less time than the budget implies. The result is never below 1 so callers
// can divide by it even when the resolved budget is zero.
func MinutesPerHeart(weeklyMinutes, heartsTotal int) int {
	if heartsTotal < 1 {
		heartsTotal = 1
	}
	per := (weeklyMinutes + heartsTotal - 1) / heartsTotal
	if per < 1 {
		per = 1
	}
	return per
}

// WeekWindow returns the current allowance week [start, end): the most recent
// occurrence of resetDay at local midnight, spanning seven days.
func WeekWindow(now time.Time, resetDay time.Weekday) (time.Time, time.Time) {
	offset := (int(now.Weekday()) - int(resetDay) + 7) % 7
	day := now.AddDate(0, 0, -offset)
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 7)
}

// Summarize derives the hearts display from the config and the minutes used
// inside the current window. Hearts consumed round down; remaining hearts and
// minutes never go negative even when usage overshoots the budget.
func Summarize(cfg model.ScreenTimeConfig, usedMinutes, defaultDaily int, now time.Time) Summary {
	weekly := ResolveWeeklyMinutes(cfg.WeeklyMinutes, cfg.DailyMinutes, defaultDaily)
	perHeart := MinutesPerHeart(weekly, cfg.HeartsTotal)

	hearts := cfg.HeartsTotal
	if hearts < 1 {
		hearts = 1
	}

	used := usedMinutes / perHeart
	if used > hearts {
		used = hearts
	}
	left := weekly - usedMinutes
	if left < 0 {
		left = 0
	}

	start, end := WeekWindow(now, time.Weekday(cfg.ResetDay))
	return Summary{
		MemberID:        cfg.MemberID,
		WeeklyMinutes:   weekly,
		MinutesPerHeart: perHeart,
		HeartsTotal:     hearts,
		HeartsUsed:      used,
		HeartsLeft:      hearts - used,
		MinutesUsed:     usedMinutes,
		MinutesLeft:     left,
		LivesEnabled:    cfg.LivesEnabled,
		WeekStart:       start,
		WeekEnd:         end,
	}
}

// ValidateConfig rejects non-positive budgets before anything is persisted.
func ValidateConfig(weeklyMinutes, heartsTotal int) error {
	if weeklyMinutes <= 0 {
		return ErrInvalidMinutes
	}
	if heartsTotal <= 0 {
		return ErrInvalidHearts
	}
	return nil
}

// ValidateUsage rejects non-positive usage entries.
func ValidateUsage(minutes int) error {
	if minutes <= 0 {
		return ErrInvalidUsage
	}
	return nil
}
