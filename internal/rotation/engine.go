// Package rotation reassigns chores across household members at week
// boundaries and owns the canonical notion of "week".
package rotation

import (
	"log/slog"
	"time"

	"github.com/davidbloss/wghub/internal/model"
	"github.com/davidbloss/wghub/internal/store"
)

type Engine struct {
	store  *store.Store
	logger *slog.Logger
	now    func() time.Time
}

func NewEngine(s *store.Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: s, logger: logger, now: time.Now}
}

// SetClock overrides the time source, for tests.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// CurrentWeek returns the ISO year and week number the engine considers
// current. Clients derive the displayed week label from this; the engine
// itself only uses it to detect boundaries.
func (e *Engine) CurrentWeek() (year, week int) {
	return e.now().ISOWeek()
}

// Rotate advances every task's assignee to the next member in join order,
// wrapping around, and starts the new week with every task un-done. A task
// whose assignee is no longer a member falls back to the first member.
// Streaks are untouched: rotation moves work, the ledger moves streaks.
//
// With N members, N rotations return every task to its original assignee.
// An empty household is a no-op. Callable at any time ("rotate now"), not
// just from the scheduler.
func (e *Engine) Rotate() []model.Task {
	members := e.store.Users()
	if len(members) == 0 {
		e.logger.Warn("rotation skipped, household has no members")
		return nil
	}

	tasks := e.store.Tasks()
	assignments := make(map[string]string, len(tasks))
	for _, t := range tasks {
		assignments[t.ID] = nextAssignee(members, t.AssignedTo)
	}

	updated := e.store.ApplyRotation(assignments)
	e.logger.Info("tasks rotated", "tasks", len(updated), "members", len(members))
	return updated
}

// nextAssignee finds the member after current in join order, wrapping.
// Unknown assignees (removed members, never-assigned tasks) land on the
// first member.
func nextAssignee(members []model.User, current string) string {
	for i, m := range members {
		if m.Name == current {
			return members[(i+1)%len(members)].Name
		}
	}
	return members[0].Name
}
