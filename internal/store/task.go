package store

import (
	"fmt"
	"slices"
	"strings"

	"github.com/davidbloss/wghub/internal/model"
)

// AddTask validates and inserts a new chore.
func (s *Store) AddTask(title, assignedTo string) (model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, fmt.Errorf("%w: title is required", ErrValidation)
	}

	s.mu.Lock()
	t := model.Task{
		ID:         s.newID(),
		WGID:       s.wgID,
		Title:      title,
		AssignedTo: strings.TrimSpace(assignedTo),
		CreatedAt:  s.now(),
		UpdatedAt:  s.stamp(),
	}
	s.tasks = append(s.tasks, t)
	s.mu.Unlock()

	s.emit(upsertEvent(model.EntityTask, t.ID, t.UpdatedAt, t))
	return t, nil
}

// UpdateTask replaces the stored record with t, keyed by ID. Updating an
// absent id is a no-op.
func (s *Store) UpdateTask(t model.Task) (model.Task, error) {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return model.Task{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if t.Streak < 0 {
		return model.Task{}, fmt.Errorf("%w: streak must not be negative", ErrValidation)
	}

	s.mu.Lock()
	i := s.taskIndex(t.ID)
	if i < 0 {
		s.mu.Unlock()
		return t, nil
	}
	prev := s.tasks[i]
	t.WGID = prev.WGID
	t.CreatedAt = prev.CreatedAt
	t.UpdatedAt = s.stamp()
	s.tasks[i] = t
	s.mu.Unlock()

	s.emit(upsertEvent(model.EntityTask, t.ID, t.UpdatedAt, t))
	return t, nil
}

// RemoveTask deletes a chore. Removing an absent id is a no-op.
func (s *Store) RemoveTask(id string) {
	s.mu.Lock()
	i := s.taskIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	ts := s.stamp()
	s.mu.Unlock()

	s.emit(deleteEvent(model.EntityTask, id, ts))
}

// Task returns the chore with the given id.
func (s *Store) Task(id string) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.taskIndex(id); i >= 0 {
		return s.tasks[i], true
	}
	return model.Task{}, false
}

// Tasks returns all chores in creation order. The slice is a copy.
func (s *Store) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tasks)
}

// MarkTaskCompleted flips a pending chore to completed and bumps its
// streak. Returns the updated record and false if the chore is absent or
// already completed, which makes a rapid double-tap award points once.
func (s *Store) MarkTaskCompleted(id string) (model.Task, bool) {
	s.mu.Lock()
	i := s.taskIndex(id)
	if i < 0 || s.tasks[i].Completed {
		s.mu.Unlock()
		return model.Task{}, false
	}
	t := &s.tasks[i]
	t.Completed = true
	t.Streak++
	t.UpdatedAt = s.stamp()
	ev := upsertEvent(model.EntityTask, t.ID, t.UpdatedAt, *t)
	out := *t
	s.mu.Unlock()

	s.emit(ev)
	return out, true
}

// MarkTaskUncompleted is the undo of MarkTaskCompleted: completed goes back
// to false and the streak steps down, never below zero. Returns false if
// the chore is absent or not completed.
func (s *Store) MarkTaskUncompleted(id string) (model.Task, bool) {
	s.mu.Lock()
	i := s.taskIndex(id)
	if i < 0 || !s.tasks[i].Completed {
		s.mu.Unlock()
		return model.Task{}, false
	}
	t := &s.tasks[i]
	t.Completed = false
	if t.Streak > 0 {
		t.Streak--
	}
	t.UpdatedAt = s.stamp()
	ev := upsertEvent(model.EntityTask, t.ID, t.UpdatedAt, *t)
	out := *t
	s.mu.Unlock()

	s.emit(ev)
	return out, true
}

// ApplyRotation reassigns chores in one critical section: every task in
// the assignments map gets its new assignee and starts the week
// un-done. Streaks are untouched. Returns the updated tasks.
func (s *Store) ApplyRotation(assignments map[string]string) []model.Task {
	s.mu.Lock()
	var updated []model.Task
	var events []Event
	for i := range s.tasks {
		t := &s.tasks[i]
		next, ok := assignments[t.ID]
		if !ok {
			continue
		}
		t.AssignedTo = next
		t.Completed = false
		t.UpdatedAt = s.stamp()
		updated = append(updated, *t)
		events = append(events, upsertEvent(model.EntityTask, t.ID, t.UpdatedAt, *t))
	}
	s.mu.Unlock()

	for _, ev := range events {
		s.emit(ev)
	}
	return updated
}

func (s *Store) taskIndex(id string) int {
	return slices.IndexFunc(s.tasks, func(t model.Task) bool { return t.ID == id })
}
