package model

import "time"

type RotationTask struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	Active    bool      `json:"active"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RotationWeek tracks one calendar week of the chore rotation. WeekStart is
// the reset weekday at local midnight and is unique per household.
type RotationWeek struct {
	ID           int64     `json:"id"`
	WeekStart    time.Time `json:"week_start"`
	AttemptsUsed int       `json:"attempts_used"`
	Adjusted     bool      `json:"adjusted"`
	Note         string    `json:"note"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RotationAssignment struct {
	ID        int64     `json:"id"`
	WeekStart time.Time `json:"week_start"`
	TaskID    int64     `json:"task_id"`
	MemberID  int64     `json:"member_id"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// AssignmentRow is an assignment joined with the display fields the board
// needs, so the dashboard renders without extra lookups.
type AssignmentRow struct {
	RotationAssignment
	TaskName    string `json:"task_name"`
	TaskIcon    string `json:"task_icon"`
	MemberName  string `json:"member_name"`
	MemberColor string `json:"member_color"`
	MemberEmoji string `json:"member_emoji"`
}
