package store

import (
	"testing"
	"time"

	"github.com/tbessiere/foyer/internal/database"
	"github.com/tbessiere/foyer/internal/model"
	"github.com/tbessiere/foyer/internal/rotation"
)

func setupRotationTestDB(t *testing.T) (*RotationStore, *FamilyMemberStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRotationStore(db), NewFamilyMemberStore(db)
}

func TestTaskCRUD(t *testing.T) {
	rs, _ := setupRotationTestDB(t)

	task, err := rs.CreateTask("Cuisine", "🍳", true, 0)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.Name != "Cuisine" {
		t.Errorf("name = %q, want %q", task.Name, "Cuisine")
	}
	if !task.Active {
		t.Error("new task should be active")
	}

	got, err := rs.GetTaskByID(task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Icon != "🍳" {
		t.Errorf("icon = %q, want %q", got.Icon, "🍳")
	}

	updated, err := rs.UpdateTask(task.ID, "Cuisine", "🍽️", false, 2)
	if err != nil {
		t.Fatalf("update task: %v", err)
	}
	if updated.Active {
		t.Error("updated task should be inactive")
	}
	if updated.SortOrder != 2 {
		t.Errorf("sort_order = %d, want 2", updated.SortOrder)
	}

	if err := rs.DeleteTask(task.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	got, err = rs.GetTaskByID(task.ID)
	if err != nil {
		t.Fatalf("get deleted task: %v", err)
	}
	if got != nil {
		t.Error("expected nil for deleted task")
	}
}

func TestListActiveTasks(t *testing.T) {
	rs, _ := setupRotationTestDB(t)

	rs.CreateTask("Cuisine", "", true, 0)
	rs.CreateTask("Animaux", "", false, 1)

	active, err := rs.ListActiveTasks()
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("expected 1 active task, got %d", len(active))
	}
	if active[0].Name != "Cuisine" {
		t.Errorf("name = %q, want %q", active[0].Name, "Cuisine")
	}

	all, err := rs.ListTasks()
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(all))
	}
}

func TestGetOrCreateWeek(t *testing.T) {
	rs, _ := setupRotationTestDB(t)

	weekStart := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)

	week, err := rs.GetOrCreateWeek(weekStart)
	if err != nil {
		t.Fatalf("get or create week: %v", err)
	}
	if week.AttemptsUsed != 0 {
		t.Errorf("attempts_used = %d, want 0", week.AttemptsUsed)
	}
	if week.Adjusted {
		t.Error("new week should not be adjusted")
	}

	// Second call returns the same row, not a duplicate.
	again, err := rs.GetOrCreateWeek(weekStart)
	if err != nil {
		t.Fatalf("get or create week again: %v", err)
	}
	if again.ID != week.ID {
		t.Errorf("week id = %d, want %d", again.ID, week.ID)
	}
}

func TestIncrementAttempts(t *testing.T) {
	rs, _ := setupRotationTestDB(t)

	weekStart := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	rs.GetOrCreateWeek(weekStart)

	for i := 1; i <= 3; i++ {
		if err := rs.IncrementAttempts(weekStart); err != nil {
			t.Fatalf("increment attempts: %v", err)
		}
		week, err := rs.GetWeek(weekStart)
		if err != nil {
			t.Fatalf("get week: %v", err)
		}
		if week.AttemptsUsed != i {
			t.Errorf("attempts_used = %d, want %d", week.AttemptsUsed, i)
		}
	}
}

func TestMarkAdjustedAndNote(t *testing.T) {
	rs, _ := setupRotationTestDB(t)

	weekStart := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	rs.GetOrCreateWeek(weekStart)

	if err := rs.MarkAdjusted(weekStart); err != nil {
		t.Fatalf("mark adjusted: %v", err)
	}
	if err := rs.SetNote(weekStart, "swapped for the school trip"); err != nil {
		t.Fatalf("set note: %v", err)
	}

	week, _ := rs.GetWeek(weekStart)
	if !week.Adjusted {
		t.Error("week should be adjusted")
	}
	if week.Note != "swapped for the school trip" {
		t.Errorf("note = %q", week.Note)
	}
}

func seedRotation(t *testing.T, rs *RotationStore, ms *FamilyMemberStore) ([]model.RotationTask, []model.FamilyMember) {
	t.Helper()
	names := []string{"Cuisine", "Salle de bain", "Animaux"}
	var tasks []model.RotationTask
	for i, n := range names {
		task, err := rs.CreateTask(n, "", true, i)
		if err != nil {
			t.Fatalf("create task %q: %v", n, err)
		}
		tasks = append(tasks, *task)
	}

	var members []model.FamilyMember
	for _, n := range []string{"Ana", "Benoit"} {
		m, err := ms.Create(n, model.RoleChild, "#FF0000", "🙂")
		if err != nil {
			t.Fatalf("create member %q: %v", n, err)
		}
		members = append(members, *m)
	}
	return tasks, members
}

func TestReplaceAssignmentsRoundTrip(t *testing.T) {
	rs, ms := setupRotationTestDB(t)
	tasks, members := seedRotation(t, rs, ms)

	weekStart := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	rs.GetOrCreateWeek(weekStart)

	first := []rotation.Assignment{
		{TaskID: tasks[0].ID, MemberID: members[0].ID, SortOrder: 0},
		{TaskID: tasks[1].ID, MemberID: members[1].ID, SortOrder: 1},
		{TaskID: tasks[2].ID, MemberID: members[0].ID, SortOrder: 2},
	}
	if err := rs.ReplaceAssignments(weekStart, first); err != nil {
		t.Fatalf("replace assignments: %v", err)
	}

	rows, err := rs.ListAssignments(weekStart)
	if err != nil {
		t.Fatalf("list assignments: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].TaskName != "Cuisine" || rows[0].MemberName != "Ana" {
		t.Errorf("row 0 = %s/%s, want Cuisine/Ana", rows[0].TaskName, rows[0].MemberName)
	}

	// Replace with a different shape; no stale rows may survive.
	second := []rotation.Assignment{
		{TaskID: tasks[0].ID, MemberID: members[1].ID, SortOrder: 0},
	}
	if err := rs.ReplaceAssignments(weekStart, second); err != nil {
		t.Fatalf("replace assignments again: %v", err)
	}

	rows, err = rs.ListAssignments(weekStart)
	if err != nil {
		t.Fatalf("list assignments: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected exactly the replaced set (1 row), got %d", len(rows))
	}
	if rows[0].MemberID != members[1].ID {
		t.Errorf("member = %d, want %d", rows[0].MemberID, members[1].ID)
	}
}

func TestReplaceAssignmentsDoesNotTouchOtherWeeks(t *testing.T) {
	rs, ms := setupRotationTestDB(t)
	tasks, members := seedRotation(t, rs, ms)

	week1 := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	week2 := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)

	set := []rotation.Assignment{{TaskID: tasks[0].ID, MemberID: members[0].ID}}
	if err := rs.ReplaceAssignments(week1, set); err != nil {
		t.Fatalf("replace week1: %v", err)
	}
	if err := rs.ReplaceAssignments(week2, set); err != nil {
		t.Fatalf("replace week2: %v", err)
	}

	if err := rs.ReplaceAssignments(week1, nil); err != nil {
		t.Fatalf("clear week1: %v", err)
	}

	rows, _ := rs.ListAssignments(week2)
	if len(rows) != 1 {
		t.Errorf("week2 rows = %d, want 1", len(rows))
	}
}

func TestDuplicateTaskAssignmentRejected(t *testing.T) {
	rs, ms := setupRotationTestDB(t)
	tasks, members := seedRotation(t, rs, ms)

	weekStart := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	dup := []rotation.Assignment{
		{TaskID: tasks[0].ID, MemberID: members[0].ID, SortOrder: 0},
		{TaskID: tasks[0].ID, MemberID: members[1].ID, SortOrder: 1},
	}
	if err := rs.ReplaceAssignments(weekStart, dup); err == nil {
		t.Fatal("expected unique constraint violation for duplicate task in one week")
	}

	// The failed transaction must leave nothing behind.
	rows, _ := rs.ListAssignments(weekStart)
	if len(rows) != 0 {
		t.Errorf("rows after failed replace = %d, want 0", len(rows))
	}
}

func TestDeleteTaskCascadesAssignments(t *testing.T) {
	rs, ms := setupRotationTestDB(t)
	tasks, members := seedRotation(t, rs, ms)

	weekStart := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	set := []rotation.Assignment{{TaskID: tasks[0].ID, MemberID: members[0].ID}}
	if err := rs.ReplaceAssignments(weekStart, set); err != nil {
		t.Fatalf("replace: %v", err)
	}

	if err := rs.DeleteTask(tasks[0].ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}

	rows, _ := rs.ListAssignments(weekStart)
	if len(rows) != 0 {
		t.Errorf("rows after task delete = %d, want 0", len(rows))
	}
}
