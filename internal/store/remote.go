package store

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/davidbloss/wghub/internal/model"
)

// ApplyRemote merges one remote-origin change into the store under
// last-writer-wins: the change applies only when its write timestamp is
// at least the local record's, so a stale remote update can never
// clobber a local mutation issued after the remote snapshot was taken.
// Equal timestamps apply; two devices writing in the same millisecond
// must both converge on whichever record the remote store accepted.
// Unknown ids are inserted, tombstones remove the local record, and a
// record scoped to a different WG is rejected outright.
//
// Returns whether the change was applied. Applied changes surface through
// the notify listener with OriginRemote so the UI feed refreshes without
// re-entering the outbox.
func (s *Store) ApplyRemote(entity model.EntityType, id string, payload []byte, updatedAt int64, deleted bool) (bool, error) {
	if deleted {
		return s.applyRemoteDelete(entity, id, updatedAt)
	}
	return s.applyRemoteUpsert(entity, id, payload, updatedAt)
}

func (s *Store) applyRemoteUpsert(entity model.EntityType, id string, payload []byte, updatedAt int64) (bool, error) {
	s.mu.Lock()

	var ev Event
	switch entity {
	case model.EntityUser:
		var rec model.User
		if err := s.decodeRemoteScoped(payload, &rec, func() string { return rec.WGID }); err != nil {
			s.mu.Unlock()
			return false, err
		}
		i := s.userIndex(id)
		if i >= 0 && s.users[i].UpdatedAt > updatedAt {
			s.mu.Unlock()
			return false, nil
		}
		rec.ID, rec.UpdatedAt = id, updatedAt
		s.users = putAt(s.users, i, rec)
		ev = remoteEvent(entity, id, updatedAt, rec)

	case model.EntityTask:
		var rec model.Task
		if err := s.decodeRemoteScoped(payload, &rec, func() string { return rec.WGID }); err != nil {
			s.mu.Unlock()
			return false, err
		}
		i := s.taskIndex(id)
		if i >= 0 && s.tasks[i].UpdatedAt > updatedAt {
			s.mu.Unlock()
			return false, nil
		}
		rec.ID, rec.UpdatedAt = id, updatedAt
		s.tasks = putAt(s.tasks, i, rec)
		ev = remoteEvent(entity, id, updatedAt, rec)

	case model.EntityTicket:
		var rec model.Ticket
		if err := s.decodeRemoteScoped(payload, &rec, func() string { return rec.WGID }); err != nil {
			s.mu.Unlock()
			return false, err
		}
		i := s.ticketIndex(id)
		if i >= 0 && s.tickets[i].UpdatedAt > updatedAt {
			s.mu.Unlock()
			return false, nil
		}
		rec.ID, rec.UpdatedAt = id, updatedAt
		s.tickets = putAt(s.tickets, i, rec)
		ev = remoteEvent(entity, id, updatedAt, cloneTicket(rec))

	case model.EntityReward:
		var rec model.RewardItem
		if err := s.decodeRemoteScoped(payload, &rec, func() string { return rec.WGID }); err != nil {
			s.mu.Unlock()
			return false, err
		}
		i := s.rewardIndex(id)
		if i >= 0 && s.rewards[i].UpdatedAt > updatedAt {
			s.mu.Unlock()
			return false, nil
		}
		rec.ID, rec.UpdatedAt = id, updatedAt
		s.rewards = putAt(s.rewards, i, rec)
		ev = remoteEvent(entity, id, updatedAt, rec)

	case model.EntityVaultItem:
		var rec model.VaultItem
		if err := s.decodeRemoteScoped(payload, &rec, func() string { return rec.WGID }); err != nil {
			s.mu.Unlock()
			return false, err
		}
		i := s.vaultIndex(id)
		if i >= 0 && s.vault[i].UpdatedAt > updatedAt {
			s.mu.Unlock()
			return false, nil
		}
		rec.ID, rec.UpdatedAt = id, updatedAt
		s.vault = putAt(s.vault, i, rec)
		ev = remoteEvent(entity, id, updatedAt, rec)

	case model.EntityGuestPass:
		var rec model.GuestPass
		if err := s.decodeRemoteScoped(payload, &rec, func() string { return rec.WGID }); err != nil {
			s.mu.Unlock()
			return false, err
		}
		i := s.guestIndex(id)
		if i >= 0 {
			if s.guests[i].UpdatedAt > updatedAt {
				s.mu.Unlock()
				return false, nil
			}
			// Revocation is irreversible, whatever the timestamps say.
			if !s.guests[i].IsActive {
				rec.IsActive = false
			}
		}
		rec.ID, rec.UpdatedAt = id, updatedAt
		s.guests = putAt(s.guests, i, rec)
		ev = remoteEvent(entity, id, updatedAt, rec)

	case model.EntityRecurringCost:
		var rec model.RecurringCost
		if err := s.decodeRemoteScoped(payload, &rec, func() string { return rec.WGID }); err != nil {
			s.mu.Unlock()
			return false, err
		}
		i := s.costIndex(id)
		if i >= 0 && s.costs[i].UpdatedAt > updatedAt {
			s.mu.Unlock()
			return false, nil
		}
		rec.ID, rec.UpdatedAt = id, updatedAt
		s.costs = putAt(s.costs, i, rec)
		ev = remoteEvent(entity, id, updatedAt, rec)

	case model.EntitySmartScene:
		var rec model.SmartScene
		if err := s.decodeRemoteScoped(payload, &rec, func() string { return rec.WGID }); err != nil {
			s.mu.Unlock()
			return false, err
		}
		i := s.sceneIndex(id)
		if i >= 0 && s.scenes[i].UpdatedAt > updatedAt {
			s.mu.Unlock()
			return false, nil
		}
		rec.ID, rec.UpdatedAt = id, updatedAt
		s.scenes = putAt(s.scenes, i, rec)
		ev = remoteEvent(entity, id, updatedAt, rec)

	default:
		s.mu.Unlock()
		return false, fmt.Errorf("unknown entity type %q", entity)
	}
	s.mu.Unlock()

	s.emit(ev)
	return true, nil
}

func (s *Store) applyRemoteDelete(entity model.EntityType, id string, updatedAt int64) (bool, error) {
	s.mu.Lock()

	removed := false
	switch entity {
	case model.EntityUser:
		if i := s.userIndex(id); i >= 0 && s.users[i].UpdatedAt <= updatedAt {
			s.users = slices.Delete(s.users, i, i+1)
			removed = true
		}
	case model.EntityTask:
		if i := s.taskIndex(id); i >= 0 && s.tasks[i].UpdatedAt <= updatedAt {
			s.tasks = slices.Delete(s.tasks, i, i+1)
			removed = true
		}
	case model.EntityTicket:
		if i := s.ticketIndex(id); i >= 0 && s.tickets[i].UpdatedAt <= updatedAt {
			s.tickets = slices.Delete(s.tickets, i, i+1)
			removed = true
		}
	case model.EntityReward:
		if i := s.rewardIndex(id); i >= 0 && s.rewards[i].UpdatedAt <= updatedAt {
			s.rewards = slices.Delete(s.rewards, i, i+1)
			removed = true
		}
	case model.EntityVaultItem:
		if i := s.vaultIndex(id); i >= 0 && s.vault[i].UpdatedAt <= updatedAt {
			s.vault = slices.Delete(s.vault, i, i+1)
			removed = true
		}
	case model.EntityGuestPass:
		if i := s.guestIndex(id); i >= 0 && s.guests[i].UpdatedAt <= updatedAt {
			s.guests = slices.Delete(s.guests, i, i+1)
			removed = true
		}
	case model.EntityRecurringCost:
		if i := s.costIndex(id); i >= 0 && s.costs[i].UpdatedAt <= updatedAt {
			s.costs = slices.Delete(s.costs, i, i+1)
			removed = true
		}
	case model.EntitySmartScene:
		if i := s.sceneIndex(id); i >= 0 && s.scenes[i].UpdatedAt <= updatedAt {
			s.scenes = slices.Delete(s.scenes, i, i+1)
			removed = true
		}
	default:
		s.mu.Unlock()
		return false, fmt.Errorf("unknown entity type %q", entity)
	}
	s.mu.Unlock()

	if !removed {
		return false, nil
	}
	s.emit(Event{Entity: entity, Action: ActionDelete, ID: id, UpdatedAt: updatedAt, Origin: OriginRemote})
	return true, nil
}

// decodeRemoteScoped unmarshals a remote payload and enforces WG scoping.
// wgOf is read after the unmarshal populates the record.
func (s *Store) decodeRemoteScoped(payload []byte, rec any, wgOf func() string) error {
	if err := json.Unmarshal(payload, rec); err != nil {
		return fmt.Errorf("decode remote record: %w", err)
	}
	if wg := wgOf(); wg != s.wgID {
		return fmt.Errorf("record is scoped to wg %q, store is %q", wg, s.wgID)
	}
	return nil
}

// putAt replaces the element at i, or appends when i < 0 (insert of an id
// this device has not seen).
func putAt[T any](items []T, i int, rec T) []T {
	if i >= 0 {
		items[i] = rec
		return items
	}
	return append(items, rec)
}

func remoteEvent(entity model.EntityType, id string, ts int64, record any) Event {
	return Event{Entity: entity, Action: ActionUpsert, ID: id, UpdatedAt: ts, Origin: OriginRemote, Record: record}
}
