// Package rotation assigns the household's recurring tasks to family members
// one calendar week at a time. Weeks are keyed by the configured reset
// weekday; re-rolls are only allowed on that day and capped per week.
package rotation

import (
	"errors"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/tbessiere/foyer/internal/model"
)

// MaxAttempts is the number of re-rolls allowed per week.
const MaxAttempts = 3

var (
	ErrNoTasks           = errors.New("no active rotation tasks")
	ErrNoMembers         = errors.New("no family members")
	ErrWrongDay          = errors.New("not the rotation reset day")
	ErrAttemptsExhausted = errors.New("re-roll attempts exhausted for this week")
)

// Assignment pairs one task with its single owner for a week.
type Assignment struct {
	TaskID    int64
	MemberID  int64
	SortOrder int
}

// ResetDay parses a stored reset-day setting (0=Sunday..6=Saturday).
// Anything unparseable falls back to Monday.
func ResetDay(value string) time.Weekday {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 || n > 6 {
		return time.Monday
	}
	return time.Weekday(n)
}

// IsResetDay reports whether now falls on the reset weekday in local time.
func IsResetDay(resetDay time.Weekday, now time.Time) bool {
	return now.Weekday() == resetDay
}

// WeekStart normalizes ref to the most recent occurrence of the reset weekday
// at local midnight. This is the canonical key for a week's assignments and
// is idempotent: WeekStart(WeekStart(d)) == WeekStart(d).
func WeekStart(ref time.Time, resetDay time.Weekday) time.Time {
	offset := (int(ref.Weekday()) - int(resetDay) + 7) % 7
	day := ref.AddDate(0, 0, -offset)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, ref.Location())
}

// Generate shuffles the active tasks and deals them round-robin across
// members. Every task gets exactly one owner; a member gets zero or more
// tasks depending on the counts. The permutation is random on purpose;
// determinism would make the weekly rotation predictable.
func Generate(tasks []model.RotationTask, members []model.FamilyMember) ([]Assignment, error) {
	active := make([]model.RotationTask, 0, len(tasks))
	for _, t := range tasks {
		if t.Active {
			active = append(active, t)
		}
	}
	if len(active) == 0 {
		return nil, ErrNoTasks
	}
	if len(members) == 0 {
		return nil, ErrNoMembers
	}

	rand.Shuffle(len(active), func(i, j int) {
		active[i], active[j] = active[j], active[i]
	})

	assignments := make([]Assignment, len(active))
	for i, t := range active {
		assignments[i] = Assignment{
			TaskID:    t.ID,
			MemberID:  members[i%len(members)].ID,
			SortOrder: i,
		}
	}
	return assignments, nil
}

// CanRotate checks the re-roll preconditions for the given week. It never
// mutates anything; callers surface the sentinel errors as inline reasons.
func CanRotate(week *model.RotationWeek, resetDay time.Weekday, now time.Time) error {
	if !IsResetDay(resetDay, now) {
		return ErrWrongDay
	}
	if week != nil && week.AttemptsUsed >= MaxAttempts {
		return ErrAttemptsExhausted
	}
	return nil
}

// Dedupe keeps the first row seen per task. Duplicate owners can only appear
// if two writers raced the replace; the board must never show a task with
// two simultaneous owners, so later rows are dropped on read.
func Dedupe(rows []model.AssignmentRow) []model.AssignmentRow {
	seen := make(map[int64]bool, len(rows))
	out := rows[:0:0]
	for _, r := range rows {
		if seen[r.TaskID] {
			continue
		}
		seen[r.TaskID] = true
		out = append(out, r)
	}
	return out
}
