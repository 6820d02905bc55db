package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tbessiere/foyer/internal/model"
	"github.com/tbessiere/foyer/internal/rotation"
)

type RotationStore struct {
	db *sql.DB
}

func NewRotationStore(db *sql.DB) *RotationStore {
	return &RotationStore{db: db}
}

// --- Task methods ---

const taskCols = `id, name, icon, active, sort_order, created_at, updated_at`

func scanTask(scanner interface{ Scan(...any) error }) (*model.RotationTask, error) {
	var t model.RotationTask
	var active int

	err := scanner.Scan(&t.ID, &t.Name, &t.Icon, &active, &t.SortOrder, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}

	t.Active = active != 0
	return &t, nil
}

func (s *RotationStore) CreateTask(name, icon string, active bool, sortOrder int) (*model.RotationTask, error) {
	var a int
	if active {
		a = 1
	}

	result, err := s.db.Exec(
		`INSERT INTO rotation_tasks (name, icon, active, sort_order) VALUES (?, ?, ?, ?)`,
		name, icon, a, sortOrder,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetTaskByID(id)
}

func (s *RotationStore) GetTaskByID(id int64) (*model.RotationTask, error) {
	row := s.db.QueryRow(`SELECT `+taskCols+` FROM rotation_tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (s *RotationStore) ListTasks() ([]model.RotationTask, error) {
	rows, err := s.db.Query(`SELECT ` + taskCols + ` FROM rotation_tasks ORDER BY sort_order ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.RotationTask
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (s *RotationStore) ListActiveTasks() ([]model.RotationTask, error) {
	rows, err := s.db.Query(`SELECT ` + taskCols + ` FROM rotation_tasks WHERE active = 1 ORDER BY sort_order ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list active tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.RotationTask
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (s *RotationStore) UpdateTask(id int64, name, icon string, active bool, sortOrder int) (*model.RotationTask, error) {
	var a int
	if active {
		a = 1
	}

	_, err := s.db.Exec(
		`UPDATE rotation_tasks SET name = ?, icon = ?, active = ?, sort_order = ?, updated_at = datetime('now') WHERE id = ?`,
		name, icon, a, sortOrder, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return s.GetTaskByID(id)
}

// DeleteTask removes a task; its assignment rows cascade away with it.
func (s *RotationStore) DeleteTask(id int64) error {
	_, err := s.db.Exec(`DELETE FROM rotation_tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// --- Week methods ---

const weekCols = `id, week_start, attempts_used, adjusted, note, created_at, updated_at`

func scanWeek(scanner interface{ Scan(...any) error }) (*model.RotationWeek, error) {
	var w model.RotationWeek
	var adjusted int

	err := scanner.Scan(&w.ID, &w.WeekStart, &w.AttemptsUsed, &adjusted, &w.Note, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}

	w.Adjusted = adjusted != 0
	return &w, nil
}

func (s *RotationStore) GetWeek(weekStart time.Time) (*model.RotationWeek, error) {
	row := s.db.QueryRow(`SELECT `+weekCols+` FROM rotation_weeks WHERE week_start = ?`, weekStart.UTC())
	w, err := scanWeek(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get week: %w", err)
	}
	return w, nil
}

func (s *RotationStore) GetOrCreateWeek(weekStart time.Time) (*model.RotationWeek, error) {
	w, err := s.GetWeek(weekStart)
	if err != nil {
		return nil, err
	}
	if w != nil {
		return w, nil
	}

	_, err = s.db.Exec(
		`INSERT INTO rotation_weeks (week_start) VALUES (?) ON CONFLICT(week_start) DO NOTHING`,
		weekStart.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert week: %w", err)
	}
	return s.GetWeek(weekStart)
}

func (s *RotationStore) IncrementAttempts(weekStart time.Time) error {
	_, err := s.db.Exec(
		`UPDATE rotation_weeks SET attempts_used = attempts_used + 1, updated_at = datetime('now') WHERE week_start = ?`,
		weekStart.UTC(),
	)
	if err != nil {
		return fmt.Errorf("increment attempts: %w", err)
	}
	return nil
}

func (s *RotationStore) MarkAdjusted(weekStart time.Time) error {
	_, err := s.db.Exec(
		`UPDATE rotation_weeks SET adjusted = 1, updated_at = datetime('now') WHERE week_start = ?`,
		weekStart.UTC(),
	)
	if err != nil {
		return fmt.Errorf("mark adjusted: %w", err)
	}
	return nil
}

func (s *RotationStore) SetNote(weekStart time.Time, note string) error {
	_, err := s.db.Exec(
		`UPDATE rotation_weeks SET note = ?, updated_at = datetime('now') WHERE week_start = ?`,
		note, weekStart.UTC(),
	)
	if err != nil {
		return fmt.Errorf("set note: %w", err)
	}
	return nil
}

// --- Assignment methods ---

// ReplaceAssignments swaps in the full assignment set for a week: delete
// every existing row for the key, then insert the new set, in one
// transaction. Wholesale replace avoids the partial-overwrite bugs an upsert
// invites when the task/member mapping changes shape between rolls.
func (s *RotationStore) ReplaceAssignments(weekStart time.Time, assignments []rotation.Assignment) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM rotation_assignments WHERE week_start = ?`, weekStart.UTC()); err != nil {
		return fmt.Errorf("delete assignments: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO rotation_assignments (week_start, task_id, member_id, sort_order) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range assignments {
		if _, err := stmt.Exec(weekStart.UTC(), a.TaskID, a.MemberID, a.SortOrder); err != nil {
			return fmt.Errorf("insert assignment task %d: %w", a.TaskID, err)
		}
	}

	return tx.Commit()
}

// ListAssignments returns the week's assignments joined with task and member
// display fields, in board order.
func (s *RotationStore) ListAssignments(weekStart time.Time) ([]model.AssignmentRow, error) {
	rows, err := s.db.Query(
		`SELECT a.id, a.week_start, a.task_id, a.member_id, a.sort_order, a.created_at,
		        t.name, t.icon, m.name, m.color, m.avatar_emoji
		 FROM rotation_assignments a
		 JOIN rotation_tasks t ON t.id = a.task_id
		 JOIN family_members m ON m.id = a.member_id
		 WHERE a.week_start = ?
		 ORDER BY a.sort_order ASC, a.id ASC`,
		weekStart.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var out []model.AssignmentRow
	for rows.Next() {
		var r model.AssignmentRow
		err := rows.Scan(
			&r.ID, &r.WeekStart, &r.TaskID, &r.MemberID, &r.SortOrder, &r.CreatedAt,
			&r.TaskName, &r.TaskIcon, &r.MemberName, &r.MemberColor, &r.MemberEmoji,
		)
		if err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
