package rotation

import (
	"log/slog"
	"testing"
	"time"

	"github.com/davidbloss/wghub/internal/model"
	"github.com/davidbloss/wghub/internal/store"
)

func newTestEngine(t *testing.T) (*Engine, *store.Store) {
	t.Helper()
	s := store.New("wg-test", slog.New(slog.DiscardHandler))
	return NewEngine(s, slog.New(slog.DiscardHandler)), s
}

func addMember(t *testing.T, s *store.Store, name string) model.User {
	t.Helper()
	u, err := s.AddUser(name, model.RoleUser, "")
	if err != nil {
		t.Fatalf("add user %s: %v", name, err)
	}
	return u
}

func TestRotateAdvancesInJoinOrder(t *testing.T) {
	e, s := newTestEngine(t)
	addMember(t, s, "Anna")
	addMember(t, s, "Ben")
	addMember(t, s, "Chris")
	task, _ := s.AddTask("Dishes", "Anna")

	e.Rotate()
	got, _ := s.Task(task.ID)
	if got.AssignedTo != "Ben" {
		t.Errorf("assignee = %q, want Ben", got.AssignedTo)
	}

	// Last member wraps to the first.
	e.Rotate()
	e.Rotate()
	got, _ = s.Task(task.ID)
	if got.AssignedTo != "Anna" {
		t.Errorf("assignee after full cycle = %q, want Anna", got.AssignedTo)
	}
}

func TestRotateResetsCompletedKeepsStreak(t *testing.T) {
	e, s := newTestEngine(t)
	addMember(t, s, "Anna")
	addMember(t, s, "Ben")
	task, _ := s.AddTask("Dishes", "Anna")
	s.MarkTaskCompleted(task.ID)

	e.Rotate()
	got, _ := s.Task(task.ID)
	if got.Completed {
		t.Error("rotation must reset completed")
	}
	if got.Streak != 1 {
		t.Errorf("streak = %d, want 1", got.Streak)
	}
}

func TestRotateUnknownAssigneeFallsBack(t *testing.T) {
	e, s := newTestEngine(t)
	addMember(t, s, "Anna")
	addMember(t, s, "Ben")
	task, _ := s.AddTask("Dishes", "Departed")

	e.Rotate()
	got, _ := s.Task(task.ID)
	if got.AssignedTo != "Anna" {
		t.Errorf("assignee = %q, want first member Anna", got.AssignedTo)
	}
}

func TestRotateEmptyHouseholdIsNoop(t *testing.T) {
	e, s := newTestEngine(t)
	task, _ := s.AddTask("Dishes", "Anna")

	if got := e.Rotate(); got != nil {
		t.Errorf("rotate with no members = %v, want nil", got)
	}
	after, _ := s.Task(task.ID)
	if after.AssignedTo != "Anna" {
		t.Errorf("assignee = %q, want Anna untouched", after.AssignedTo)
	}
}

// With N members, N rotations return every task to its original assignee.
func TestRotateFullCycleBijection(t *testing.T) {
	e, s := newTestEngine(t)
	names := []string{"Anna", "Ben", "Chris", "Dana"}
	for _, n := range names {
		addMember(t, s, n)
	}
	for i, n := range names {
		if i%2 == 0 {
			s.AddTask("Chore "+n, n)
		}
	}

	before := map[string]string{}
	for _, task := range s.Tasks() {
		before[task.ID] = task.AssignedTo
	}

	for range names {
		e.Rotate()
	}
	for _, task := range s.Tasks() {
		if task.AssignedTo != before[task.ID] {
			t.Errorf("task %s: assignee = %q, want %q", task.Title, task.AssignedTo, before[task.ID])
		}
	}
}

func TestSchedulerRotatesOnWeekChange(t *testing.T) {
	e, s := newTestEngine(t)
	addMember(t, s, "Anna")
	addMember(t, s, "Ben")
	task, _ := s.AddTask("Dishes", "Anna")

	current := time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC) // wednesday
	e.SetClock(func() time.Time { return current })
	sched := NewScheduler(e, slog.New(slog.DiscardHandler))

	// Same week: nothing happens.
	sched.tick()
	got, _ := s.Task(task.ID)
	if got.AssignedTo != "Anna" {
		t.Fatalf("assignee = %q, want Anna (same week)", got.AssignedTo)
	}

	// Cross the week boundary.
	current = current.AddDate(0, 0, 5)
	sched.tick()
	got, _ = s.Task(task.ID)
	if got.AssignedTo != "Ben" {
		t.Errorf("assignee = %q, want Ben after boundary", got.AssignedTo)
	}

	// Second tick in the new week must not rotate again.
	sched.tick()
	got, _ = s.Task(task.ID)
	if got.AssignedTo != "Ben" {
		t.Errorf("assignee = %q, want Ben (no double rotation)", got.AssignedTo)
	}
}
