package store

import (
	"database/sql"
	"fmt"

	"github.com/tbessiere/foyer/internal/model"
)

type SavingsStore struct {
	db *sql.DB
}

func NewSavingsStore(db *sql.DB) *SavingsStore {
	return &SavingsStore{db: db}
}

// --- Goal methods ---

const goalCols = `id, member_id, title, target_cents, emoji, active, created_at, updated_at`

func scanGoal(scanner interface{ Scan(...any) error }) (*model.SavingsGoal, error) {
	var g model.SavingsGoal
	var active int

	err := scanner.Scan(&g.ID, &g.MemberID, &g.Title, &g.TargetCents, &g.Emoji, &active, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}

	g.Active = active != 0
	return &g, nil
}

func (s *SavingsStore) CreateGoal(memberID int64, title string, targetCents int, emoji string) (*model.SavingsGoal, error) {
	result, err := s.db.Exec(
		`INSERT INTO savings_goals (member_id, title, target_cents, emoji) VALUES (?, ?, ?, ?)`,
		memberID, title, targetCents, emoji,
	)
	if err != nil {
		return nil, fmt.Errorf("insert goal: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetGoalByID(id)
}

func (s *SavingsStore) GetGoalByID(id int64) (*model.SavingsGoal, error) {
	row := s.db.QueryRow(`SELECT `+goalCols+` FROM savings_goals WHERE id = ?`, id)
	g, err := scanGoal(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return g, nil
}

func (s *SavingsStore) ListGoalsByMember(memberID int64) ([]model.SavingsGoal, error) {
	rows, err := s.db.Query(
		`SELECT `+goalCols+` FROM savings_goals WHERE member_id = ? ORDER BY active DESC, created_at ASC`,
		memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []model.SavingsGoal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

func (s *SavingsStore) UpdateGoal(id int64, title string, targetCents int, emoji string, active bool) (*model.SavingsGoal, error) {
	var a int
	if active {
		a = 1
	}

	_, err := s.db.Exec(
		`UPDATE savings_goals SET title = ?, target_cents = ?, emoji = ?, active = ?, updated_at = datetime('now') WHERE id = ?`,
		title, targetCents, emoji, a, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}
	return s.GetGoalByID(id)
}

func (s *SavingsStore) DeleteGoal(id int64) error {
	_, err := s.db.Exec(`DELETE FROM savings_goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return nil
}

// --- Deposit methods ---

const depositCols = `id, goal_id, amount_cents, note, deposited_at`

// Deposit appends to a goal's pot. Deposits are the only source of truth for
// the saved total; there is no stored balance to drift.
func (s *SavingsStore) Deposit(goalID int64, amountCents int, note string) (*model.SavingsDeposit, error) {
	result, err := s.db.Exec(
		`INSERT INTO savings_deposits (goal_id, amount_cents, note) VALUES (?, ?, ?)`,
		goalID, amountCents, note,
	)
	if err != nil {
		return nil, fmt.Errorf("insert deposit: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	var d model.SavingsDeposit
	row := s.db.QueryRow(`SELECT `+depositCols+` FROM savings_deposits WHERE id = ?`, id)
	if err := row.Scan(&d.ID, &d.GoalID, &d.AmountCents, &d.Note, &d.DepositedAt); err != nil {
		return nil, fmt.Errorf("get deposit: %w", err)
	}
	return &d, nil
}

func (s *SavingsStore) ListDeposits(goalID int64) ([]model.SavingsDeposit, error) {
	rows, err := s.db.Query(
		`SELECT `+depositCols+` FROM savings_deposits WHERE goal_id = ? ORDER BY deposited_at DESC`,
		goalID,
	)
	if err != nil {
		return nil, fmt.Errorf("list deposits: %w", err)
	}
	defer rows.Close()

	var deposits []model.SavingsDeposit
	for rows.Next() {
		var d model.SavingsDeposit
		if err := rows.Scan(&d.ID, &d.GoalID, &d.AmountCents, &d.Note, &d.DepositedAt); err != nil {
			return nil, fmt.Errorf("scan deposit: %w", err)
		}
		deposits = append(deposits, d)
	}
	return deposits, rows.Err()
}

// GetProgress returns a goal with its saved total summed from deposits.
func (s *SavingsStore) GetProgress(goalID int64) (*model.SavingsProgress, error) {
	goal, err := s.GetGoalByID(goalID)
	if err != nil {
		return nil, err
	}
	if goal == nil {
		return nil, nil
	}

	var saved sql.NullInt64
	err = s.db.QueryRow(
		`SELECT COALESCE(SUM(amount_cents), 0) FROM savings_deposits WHERE goal_id = ?`,
		goalID,
	).Scan(&saved)
	if err != nil {
		return nil, fmt.Errorf("sum deposits: %w", err)
	}

	savedCents := int(saved.Int64)
	percent := 0
	if goal.TargetCents > 0 {
		percent = savedCents * 100 / goal.TargetCents
		if percent > 100 {
			percent = 100
		}
	}

	return &model.SavingsProgress{
		Goal:       *goal,
		SavedCents: savedCents,
		Percent:    percent,
	}, nil
}

// ListProgressByMember returns progress for all of a member's goals.
func (s *SavingsStore) ListProgressByMember(memberID int64) ([]model.SavingsProgress, error) {
	goals, err := s.ListGoalsByMember(memberID)
	if err != nil {
		return nil, err
	}

	var out []model.SavingsProgress
	for _, g := range goals {
		p, err := s.GetProgress(g.ID)
		if err != nil {
			return nil, err
		}
		if p != nil {
			out = append(out, *p)
		}
	}
	return out, nil
}
