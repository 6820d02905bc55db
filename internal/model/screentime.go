package model

import "time"

// ScreenTimeConfig holds one child's weekly screen-time budget. WeeklyMinutes
// wins when set; DailyMinutes is the legacy per-day value kept so upgrades
// don't lose configured budgets.
type ScreenTimeConfig struct {
	ID            int64     `json:"id"`
	MemberID      int64     `json:"member_id"`
	WeeklyMinutes *int      `json:"weekly_minutes"`
	DailyMinutes  *int      `json:"daily_minutes"`
	ResetDay      int       `json:"reset_day"`
	HeartsTotal   int       `json:"hearts_total"`
	LivesEnabled  bool      `json:"lives_enabled"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UsageEvent is one logged block of screen time. Events are append-only;
// consumption is always derived by summing them over the current week.
type UsageEvent struct {
	ID         int64     `json:"id"`
	MemberID   int64     `json:"member_id"`
	Minutes    int       `json:"minutes"`
	OccurredAt time.Time `json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}
