package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tbessiere/foyer/internal/model"
)

type ScreenTimeStore struct {
	db *sql.DB
}

func NewScreenTimeStore(db *sql.DB) *ScreenTimeStore {
	return &ScreenTimeStore{db: db}
}

// --- Config methods ---

const configCols = `id, member_id, weekly_minutes, daily_minutes, reset_day, hearts_total, lives_enabled, created_at, updated_at`

func scanConfig(scanner interface{ Scan(...any) error }) (*model.ScreenTimeConfig, error) {
	var c model.ScreenTimeConfig
	var weekly, daily sql.NullInt64
	var lives int

	err := scanner.Scan(&c.ID, &c.MemberID, &weekly, &daily, &c.ResetDay, &c.HeartsTotal, &lives, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if weekly.Valid {
		v := int(weekly.Int64)
		c.WeeklyMinutes = &v
	}
	if daily.Valid {
		v := int(daily.Int64)
		c.DailyMinutes = &v
	}
	c.LivesEnabled = lives != 0
	return &c, nil
}

func (s *ScreenTimeStore) GetConfig(memberID int64) (*model.ScreenTimeConfig, error) {
	row := s.db.QueryRow(`SELECT `+configCols+` FROM screen_time_configs WHERE member_id = ?`, memberID)
	c, err := scanConfig(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get screen time config: %w", err)
	}
	return c, nil
}

// GetOrCreateConfig returns the member's config, creating a default row on
// first access so the dashboard never sees a missing config.
func (s *ScreenTimeStore) GetOrCreateConfig(memberID int64) (*model.ScreenTimeConfig, error) {
	c, err := s.GetConfig(memberID)
	if err != nil {
		return nil, err
	}
	if c != nil {
		return c, nil
	}

	_, err = s.db.Exec(
		`INSERT INTO screen_time_configs (member_id) VALUES (?) ON CONFLICT(member_id) DO NOTHING`,
		memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert screen time config: %w", err)
	}
	return s.GetConfig(memberID)
}

func (s *ScreenTimeStore) UpdateConfig(memberID int64, weeklyMinutes, heartsTotal, resetDay int, livesEnabled bool) (*model.ScreenTimeConfig, error) {
	var lives int
	if livesEnabled {
		lives = 1
	}

	_, err := s.db.Exec(
		`UPDATE screen_time_configs
		 SET weekly_minutes = ?, hearts_total = ?, reset_day = ?, lives_enabled = ?, updated_at = datetime('now')
		 WHERE member_id = ?`,
		weeklyMinutes, heartsTotal, resetDay, lives, memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("update screen time config: %w", err)
	}
	return s.GetConfig(memberID)
}

// --- Usage methods ---

const usageCols = `id, member_id, minutes, occurred_at, created_at`

func scanUsage(scanner interface{ Scan(...any) error }) (*model.UsageEvent, error) {
	var u model.UsageEvent
	err := scanner.Scan(&u.ID, &u.MemberID, &u.Minutes, &u.OccurredAt, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// AddUsage appends one usage event. Events are never updated or deleted;
// weekly consumption is always recomputed from this log.
func (s *ScreenTimeStore) AddUsage(memberID int64, minutes int, occurredAt time.Time) (*model.UsageEvent, error) {
	result, err := s.db.Exec(
		`INSERT INTO usage_events (member_id, minutes, occurred_at) VALUES (?, ?, ?)`,
		memberID, minutes, occurredAt.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert usage event: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := s.db.QueryRow(`SELECT `+usageCols+` FROM usage_events WHERE id = ?`, id)
	return scanUsage(row)
}

// SumUsageBetween totals the minutes logged in [start, end).
func (s *ScreenTimeStore) SumUsageBetween(memberID int64, start, end time.Time) (int, error) {
	var total sql.NullInt64
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(minutes), 0) FROM usage_events WHERE member_id = ? AND occurred_at >= ? AND occurred_at < ?`,
		memberID, start.UTC(), end.UTC(),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum usage: %w", err)
	}
	return int(total.Int64), nil
}

func (s *ScreenTimeStore) ListUsageBetween(memberID int64, start, end time.Time) ([]model.UsageEvent, error) {
	rows, err := s.db.Query(
		`SELECT `+usageCols+` FROM usage_events WHERE member_id = ? AND occurred_at >= ? AND occurred_at < ? ORDER BY occurred_at DESC`,
		memberID, start.UTC(), end.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("list usage: %w", err)
	}
	defer rows.Close()

	var events []model.UsageEvent
	for rows.Next() {
		u, err := scanUsage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan usage event: %w", err)
		}
		events = append(events, *u)
	}
	return events, rows.Err()
}
