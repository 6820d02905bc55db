package store

import (
	"testing"

	"github.com/tbessiere/foyer/internal/database"
	"github.com/tbessiere/foyer/internal/model"
)

func setupSavingsTestDB(t *testing.T) (*SavingsStore, *FamilyMemberStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSavingsStore(db), NewFamilyMemberStore(db)
}

func TestGoalCRUD(t *testing.T) {
	ss, ms := setupSavingsTestDB(t)

	member, _ := ms.Create("Ana", model.RoleChild, "#FF0000", "🙂")

	goal, err := ss.CreateGoal(member.ID, "Vélo", 12000, "🚲")
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}
	if goal.TargetCents != 12000 {
		t.Errorf("target = %d, want 12000", goal.TargetCents)
	}
	if !goal.Active {
		t.Error("new goal should be active")
	}

	updated, err := ss.UpdateGoal(goal.ID, "Vélo rouge", 15000, "🚲", false)
	if err != nil {
		t.Fatalf("update goal: %v", err)
	}
	if updated.Title != "Vélo rouge" || updated.Active {
		t.Errorf("updated = %+v", updated)
	}

	if err := ss.DeleteGoal(goal.ID); err != nil {
		t.Fatalf("delete goal: %v", err)
	}
	got, _ := ss.GetGoalByID(goal.ID)
	if got != nil {
		t.Error("expected nil for deleted goal")
	}
}

func TestDepositAndProgress(t *testing.T) {
	ss, ms := setupSavingsTestDB(t)

	member, _ := ms.Create("Ana", model.RoleChild, "#FF0000", "🙂")
	goal, _ := ss.CreateGoal(member.ID, "Vélo", 10000, "🚲")

	if _, err := ss.Deposit(goal.ID, 2500, "argent de poche"); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, err := ss.Deposit(goal.ID, 1500, ""); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	progress, err := ss.GetProgress(goal.ID)
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}
	if progress.SavedCents != 4000 {
		t.Errorf("saved = %d, want 4000", progress.SavedCents)
	}
	if progress.Percent != 40 {
		t.Errorf("percent = %d, want 40", progress.Percent)
	}

	deposits, err := ss.ListDeposits(goal.ID)
	if err != nil {
		t.Fatalf("list deposits: %v", err)
	}
	if len(deposits) != 2 {
		t.Fatalf("expected 2 deposits, got %d", len(deposits))
	}
}

func TestProgressCapsAtHundredPercent(t *testing.T) {
	ss, ms := setupSavingsTestDB(t)

	member, _ := ms.Create("Ana", model.RoleChild, "#FF0000", "🙂")
	goal, _ := ss.CreateGoal(member.ID, "Petit objectif", 1000, "🎁")

	ss.Deposit(goal.ID, 2500, "grand-mère")

	progress, _ := ss.GetProgress(goal.ID)
	if progress.Percent != 100 {
		t.Errorf("percent = %d, want 100 (capped)", progress.Percent)
	}
	if progress.SavedCents != 2500 {
		t.Errorf("saved = %d, want 2500 (actual total, not capped)", progress.SavedCents)
	}
}

func TestListProgressByMember(t *testing.T) {
	ss, ms := setupSavingsTestDB(t)

	member, _ := ms.Create("Ana", model.RoleChild, "#FF0000", "🙂")
	g1, _ := ss.CreateGoal(member.ID, "Vélo", 10000, "🚲")
	ss.CreateGoal(member.ID, "Jeu", 4000, "🎮")
	ss.Deposit(g1.ID, 5000, "")

	all, err := ss.ListProgressByMember(member.ID)
	if err != nil {
		t.Fatalf("list progress: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 goals, got %d", len(all))
	}
}

func TestDeleteGoalCascadesDeposits(t *testing.T) {
	ss, ms := setupSavingsTestDB(t)

	member, _ := ms.Create("Ana", model.RoleChild, "#FF0000", "🙂")
	goal, _ := ss.CreateGoal(member.ID, "Vélo", 10000, "🚲")
	ss.Deposit(goal.ID, 1000, "")

	if err := ss.DeleteGoal(goal.ID); err != nil {
		t.Fatalf("delete goal: %v", err)
	}

	deposits, _ := ss.ListDeposits(goal.ID)
	if len(deposits) != 0 {
		t.Errorf("deposits after goal delete = %d, want 0", len(deposits))
	}
}
