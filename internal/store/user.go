package store

import (
	"fmt"
	"slices"
	"strings"

	"github.com/davidbloss/wghub/internal/model"
)

// AddUser validates and inserts a new household member. Names must be
// unique within the WG: tasks and poll votes reference members by name.
func (s *Store) AddUser(name string, role model.Role, avatarEmoji string) (model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.User{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if role == "" {
		role = model.RoleUser
	}
	if !model.ValidRole(role) {
		return model.User{}, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	if avatarEmoji == "" {
		avatarEmoji = "🙂"
	}

	s.mu.Lock()
	if s.userIndexByName(name) >= 0 {
		s.mu.Unlock()
		return model.User{}, fmt.Errorf("%w: a member named %q already exists", ErrValidation, name)
	}
	u := model.User{
		ID:          s.newID(),
		WGID:        s.wgID,
		Name:        name,
		Role:        role,
		AvatarEmoji: avatarEmoji,
		CreatedAt:   s.now(),
		UpdatedAt:   s.stamp(),
	}
	s.users = append(s.users, u)
	s.mu.Unlock()

	s.emit(upsertEvent(model.EntityUser, u.ID, u.UpdatedAt, u))
	return u, nil
}

// UpdateUser replaces the stored record with u, keyed by ID. Points,
// creation time, and WG scope are preserved from the stored record: points
// only move through the ledger. Updating an absent id is a no-op.
func (s *Store) UpdateUser(u model.User) (model.User, error) {
	u.Name = strings.TrimSpace(u.Name)
	if u.Name == "" {
		return model.User{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !model.ValidRole(u.Role) {
		return model.User{}, fmt.Errorf("%w: unknown role %q", ErrValidation, u.Role)
	}

	s.mu.Lock()
	i := s.userIndex(u.ID)
	if i < 0 {
		s.mu.Unlock()
		return u, nil
	}
	if j := s.userIndexByName(u.Name); j >= 0 && j != i {
		s.mu.Unlock()
		return model.User{}, fmt.Errorf("%w: a member named %q already exists", ErrValidation, u.Name)
	}
	prev := s.users[i]
	u.WGID = prev.WGID
	u.Points = prev.Points
	u.CreatedAt = prev.CreatedAt
	u.UpdatedAt = s.stamp()
	s.users[i] = u
	s.mu.Unlock()

	s.emit(upsertEvent(model.EntityUser, u.ID, u.UpdatedAt, u))
	return u, nil
}

// RemoveUser deletes a member. Removing an absent id is a no-op.
func (s *Store) RemoveUser(id string) {
	s.mu.Lock()
	i := s.userIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.users = slices.Delete(s.users, i, i+1)
	ts := s.stamp()
	s.mu.Unlock()

	s.emit(deleteEvent(model.EntityUser, id, ts))
}

// User returns the member with the given id.
func (s *Store) User(id string) (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.userIndex(id); i >= 0 {
		return s.users[i], true
	}
	return model.User{}, false
}

// UserByName returns the member with the given name.
func (s *Store) UserByName(name string) (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.userIndexByName(name); i >= 0 {
		return s.users[i], true
	}
	return model.User{}, false
}

// Users returns all members in join order. The slice is a copy.
func (s *Store) Users() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.users)
}

// MemberCount returns the number of household members.
func (s *Store) MemberCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// AdjustPoints adds delta to a member's balance, clamping the result at
// zero. Returns the new balance and whether the member was found. Only the
// points ledger calls this.
func (s *Store) AdjustPoints(userID string, delta int) (int, bool) {
	s.mu.Lock()
	i := s.userIndex(userID)
	if i < 0 {
		s.mu.Unlock()
		return 0, false
	}
	u := &s.users[i]
	u.Points += delta
	if u.Points < 0 {
		u.Points = 0
	}
	u.UpdatedAt = s.stamp()
	ev := upsertEvent(model.EntityUser, u.ID, u.UpdatedAt, *u)
	points := u.Points
	s.mu.Unlock()

	s.emit(ev)
	return points, true
}

// SpendPoints performs the atomic check-then-debit for a redemption: the
// balance comparison and the debit happen under a single critical section,
// so two concurrent redemptions whose combined cost exceeds the balance
// can never both succeed. Returns (debited, member found).
func (s *Store) SpendPoints(userID string, cost int) (bool, bool) {
	s.mu.Lock()
	i := s.userIndex(userID)
	if i < 0 {
		s.mu.Unlock()
		return false, false
	}
	u := &s.users[i]
	if u.Points < cost {
		s.mu.Unlock()
		return false, true
	}
	u.Points -= cost
	u.UpdatedAt = s.stamp()
	ev := upsertEvent(model.EntityUser, u.ID, u.UpdatedAt, *u)
	s.mu.Unlock()

	s.emit(ev)
	return true, true
}

func (s *Store) userIndex(id string) int {
	return slices.IndexFunc(s.users, func(u model.User) bool { return u.ID == id })
}

func (s *Store) userIndexByName(name string) int {
	return slices.IndexFunc(s.users, func(u model.User) bool { return u.Name == name })
}
