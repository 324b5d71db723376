package store

import (
	"fmt"
	"slices"
	"strings"

	"github.com/davidbloss/wghub/internal/model"
)

// AddRecurringCost validates and inserts a shared expense.
func (s *Store) AddRecurringCost(name, emoji string, totalCents int64, paidBy string, freq model.CostFrequency) (model.RecurringCost, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.RecurringCost{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if totalCents <= 0 {
		return model.RecurringCost{}, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if !model.ValidCostFrequency(freq) {
		return model.RecurringCost{}, fmt.Errorf("%w: unknown frequency %q", ErrValidation, freq)
	}
	if emoji == "" {
		emoji = "💸"
	}

	s.mu.Lock()
	c := model.RecurringCost{
		ID:         s.newID(),
		WGID:       s.wgID,
		Name:       name,
		Emoji:      emoji,
		TotalCents: totalCents,
		PaidBy:     strings.TrimSpace(paidBy),
		Frequency:  freq,
		IsActive:   true,
		CreatedAt:  s.now(),
		UpdatedAt:  s.stamp(),
	}
	s.costs = append(s.costs, c)
	s.mu.Unlock()

	s.emit(upsertEvent(model.EntityRecurringCost, c.ID, c.UpdatedAt, c))
	return c, nil
}

// UpdateRecurringCost replaces the stored record with c, keyed by ID.
// Updating an absent id is a no-op.
func (s *Store) UpdateRecurringCost(c model.RecurringCost) (model.RecurringCost, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return model.RecurringCost{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if c.TotalCents <= 0 {
		return model.RecurringCost{}, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if !model.ValidCostFrequency(c.Frequency) {
		return model.RecurringCost{}, fmt.Errorf("%w: unknown frequency %q", ErrValidation, c.Frequency)
	}

	s.mu.Lock()
	i := s.costIndex(c.ID)
	if i < 0 {
		s.mu.Unlock()
		return c, nil
	}
	prev := s.costs[i]
	c.WGID = prev.WGID
	c.CreatedAt = prev.CreatedAt
	c.UpdatedAt = s.stamp()
	s.costs[i] = c
	s.mu.Unlock()

	s.emit(upsertEvent(model.EntityRecurringCost, c.ID, c.UpdatedAt, c))
	return c, nil
}

// RemoveRecurringCost deletes an expense. Removing an absent id is a
// no-op.
func (s *Store) RemoveRecurringCost(id string) {
	s.mu.Lock()
	i := s.costIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.costs = slices.Delete(s.costs, i, i+1)
	ts := s.stamp()
	s.mu.Unlock()

	s.emit(deleteEvent(model.EntityRecurringCost, id, ts))
}

// RecurringCost returns the expense with the given id.
func (s *Store) RecurringCost(id string) (model.RecurringCost, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.costIndex(id); i >= 0 {
		return s.costs[i], true
	}
	return model.RecurringCost{}, false
}

// RecurringCosts returns all expenses in creation order. The slice is a
// copy.
func (s *Store) RecurringCosts() []model.RecurringCost {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.costs)
}

// CostTotalCents sums all active recurring costs.
func (s *Store) CostTotalCents() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for _, c := range s.costs {
		if c.IsActive {
			total += c.TotalCents
		}
	}
	return total
}

// CostPerPersonCents divides the active total by the current member count.
// The share is always derived at read time; an empty household yields 0
// rather than a division by zero.
func (s *Store) CostPerPersonCents() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.users) == 0 {
		return 0
	}
	var total int64
	for _, c := range s.costs {
		if c.IsActive {
			total += c.TotalCents
		}
	}
	return total / int64(len(s.users))
}

func (s *Store) costIndex(id string) int {
	return slices.IndexFunc(s.costs, func(c model.RecurringCost) bool { return c.ID == id })
}
