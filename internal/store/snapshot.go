package store

import (
	"slices"
	"time"

	"github.com/davidbloss/wghub/internal/model"
)

// Snapshot is a point-in-time copy of every collection, taken under one
// read lock. The export manager serializes it.
type Snapshot struct {
	WGID    string                `json:"wg_id"`
	TakenAt time.Time             `json:"taken_at"`
	Users   []model.User          `json:"users"`
	Tasks   []model.Task          `json:"tasks"`
	Tickets []model.Ticket        `json:"tickets"`
	Rewards []model.RewardItem    `json:"rewards"`
	Vault   []model.VaultItem     `json:"vault"`
	Guests  []model.GuestPass     `json:"guest_passes"`
	Costs   []model.RecurringCost `json:"recurring_costs"`
	Scenes  []model.SmartScene    `json:"smart_scenes"`
}

// Snapshot copies the full household state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tickets := make([]model.Ticket, len(s.tickets))
	for i, t := range s.tickets {
		tickets[i] = cloneTicket(t)
	}
	return Snapshot{
		WGID:    s.wgID,
		TakenAt: s.now(),
		Users:   slices.Clone(s.users),
		Tasks:   slices.Clone(s.tasks),
		Tickets: tickets,
		Rewards: slices.Clone(s.rewards),
		Vault:   slices.Clone(s.vault),
		Guests:  slices.Clone(s.guests),
		Costs:   slices.Clone(s.costs),
		Scenes:  slices.Clone(s.scenes),
	}
}
