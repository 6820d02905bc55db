package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tbessiere/foyer/internal/model"
)

type MenuStore struct {
	db *sql.DB
}

func NewMenuStore(db *sql.DB) *MenuStore {
	return &MenuStore{db: db}
}

const menuCols = `id, week_start, weekday, slot, dish, cook_id, created_at, updated_at`

func scanMenuEntry(scanner interface{ Scan(...any) error }) (*model.MenuEntry, error) {
	var e model.MenuEntry
	var cookID sql.NullInt64

	err := scanner.Scan(&e.ID, &e.WeekStart, &e.Weekday, &e.Slot, &e.Dish, &cookID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if cookID.Valid {
		e.CookID = &cookID.Int64
	}
	return &e, nil
}

// ListWeek returns the planned meals for one rotation week in day/slot order.
func (s *MenuStore) ListWeek(weekStart time.Time) ([]model.MenuEntry, error) {
	rows, err := s.db.Query(
		`SELECT `+menuCols+` FROM menu_entries WHERE week_start = ?
		 ORDER BY weekday ASC, CASE slot WHEN 'breakfast' THEN 0 WHEN 'lunch' THEN 1 ELSE 2 END`,
		weekStart.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("list menu week: %w", err)
	}
	defer rows.Close()

	var entries []model.MenuEntry
	for rows.Next() {
		e, err := scanMenuEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan menu entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// UpsertEntry sets the dish for a (week, weekday, slot) cell, replacing any
// previous plan for that cell.
func (s *MenuStore) UpsertEntry(weekStart time.Time, weekday int, slot, dish string, cookID *int64) (*model.MenuEntry, error) {
	var cID sql.NullInt64
	if cookID != nil {
		cID = sql.NullInt64{Int64: *cookID, Valid: true}
	}

	_, err := s.db.Exec(
		`INSERT INTO menu_entries (week_start, weekday, slot, dish, cook_id) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(week_start, weekday, slot) DO UPDATE SET dish = excluded.dish, cook_id = excluded.cook_id, updated_at = datetime('now')`,
		weekStart.UTC(), weekday, slot, dish, cID,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert menu entry: %w", err)
	}

	row := s.db.QueryRow(
		`SELECT `+menuCols+` FROM menu_entries WHERE week_start = ? AND weekday = ? AND slot = ?`,
		weekStart.UTC(), weekday, slot,
	)
	return scanMenuEntry(row)
}

// DeleteEntry clears a cell; deleting a cell that was never planned is a no-op.
func (s *MenuStore) DeleteEntry(weekStart time.Time, weekday int, slot string) error {
	_, err := s.db.Exec(
		`DELETE FROM menu_entries WHERE week_start = ? AND weekday = ? AND slot = ?`,
		weekStart.UTC(), weekday, slot,
	)
	if err != nil {
		return fmt.Errorf("delete menu entry: %w", err)
	}
	return nil
}
