package store

import (
	"fmt"
	"slices"
	"strings"

	"github.com/davidbloss/wghub/internal/model"
)

// AddReward validates and inserts a redeemable reward.
func (s *Store) AddReward(title, emoji string, cost int, description string) (model.RewardItem, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.RewardItem{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if cost < 0 {
		return model.RewardItem{}, fmt.Errorf("%w: cost must be >= 0", ErrValidation)
	}
	if emoji == "" {
		emoji = "🎁"
	}

	s.mu.Lock()
	r := model.RewardItem{
		ID:          s.newID(),
		WGID:        s.wgID,
		Title:       title,
		Emoji:       emoji,
		Cost:        cost,
		Description: description,
		CreatedAt:   s.now(),
		UpdatedAt:   s.stamp(),
	}
	s.rewards = append(s.rewards, r)
	s.mu.Unlock()

	s.emit(upsertEvent(model.EntityReward, r.ID, r.UpdatedAt, r))
	return r, nil
}

// UpdateReward replaces the stored record with r, keyed by ID. The cost is
// static except through this explicit edit. Updating an absent id is a
// no-op.
func (s *Store) UpdateReward(r model.RewardItem) (model.RewardItem, error) {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return model.RewardItem{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if r.Cost < 0 {
		return model.RewardItem{}, fmt.Errorf("%w: cost must be >= 0", ErrValidation)
	}

	s.mu.Lock()
	i := s.rewardIndex(r.ID)
	if i < 0 {
		s.mu.Unlock()
		return r, nil
	}
	prev := s.rewards[i]
	r.WGID = prev.WGID
	r.CreatedAt = prev.CreatedAt
	r.UpdatedAt = s.stamp()
	s.rewards[i] = r
	s.mu.Unlock()

	s.emit(upsertEvent(model.EntityReward, r.ID, r.UpdatedAt, r))
	return r, nil
}

// RemoveReward deletes a reward. Removing an absent id is a no-op.
func (s *Store) RemoveReward(id string) {
	s.mu.Lock()
	i := s.rewardIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.rewards = slices.Delete(s.rewards, i, i+1)
	ts := s.stamp()
	s.mu.Unlock()

	s.emit(deleteEvent(model.EntityReward, id, ts))
}

// Reward returns the reward with the given id.
func (s *Store) Reward(id string) (model.RewardItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.rewardIndex(id); i >= 0 {
		return s.rewards[i], true
	}
	return model.RewardItem{}, false
}

// Rewards returns all rewards in creation order. The slice is a copy.
func (s *Store) Rewards() []model.RewardItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.rewards)
}

func (s *Store) rewardIndex(id string) int {
	return slices.IndexFunc(s.rewards, func(r model.RewardItem) bool { return r.ID == id })
}
