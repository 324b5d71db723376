package store

import (
	"fmt"
	"slices"
	"strings"

	"github.com/davidbloss/wghub/internal/guest"
	"github.com/davidbloss/wghub/internal/model"
)

// AddGuestPass issues a new pass with a freshly generated access code. The
// code is unique across every pass of the WG, active or revoked, so an old
// code can never collide with (or be mistaken for) a new one.
func (s *Store) AddGuestPass(guestName, wifiPassword, createdBy string) (model.GuestPass, error) {
	guestName = strings.TrimSpace(guestName)
	if guestName == "" {
		return model.GuestPass{}, fmt.Errorf("%w: guest name is required", ErrValidation)
	}

	s.mu.Lock()
	var code string
	for {
		c, err := guest.NewAccessCode()
		if err != nil {
			s.mu.Unlock()
			return model.GuestPass{}, err
		}
		if s.guestIndexByCode(c) < 0 {
			code = c
			break
		}
	}
	g := model.GuestPass{
		ID:           s.newID(),
		WGID:         s.wgID,
		GuestName:    guestName,
		AccessCode:   code,
		WifiPassword: wifiPassword,
		CreatedBy:    strings.TrimSpace(createdBy),
		CreatedDate:  s.now(),
		IsActive:     true,
		UpdatedAt:    s.stamp(),
	}
	s.guests = append(s.guests, g)
	s.mu.Unlock()

	s.emit(upsertEvent(model.EntityGuestPass, g.ID, g.UpdatedAt, g))
	return g, nil
}

// RevokeGuestPass deactivates a pass. Revocation is irreversible and
// idempotent: revoking an already-revoked or absent pass mutates nothing
// and pushes nothing.
func (s *Store) RevokeGuestPass(id string) (model.GuestPass, bool) {
	s.mu.Lock()
	i := s.guestIndex(id)
	if i < 0 || !s.guests[i].IsActive {
		s.mu.Unlock()
		return model.GuestPass{}, false
	}
	g := &s.guests[i]
	g.IsActive = false
	g.UpdatedAt = s.stamp()
	ev := upsertEvent(model.EntityGuestPass, g.ID, g.UpdatedAt, *g)
	out := *g
	s.mu.Unlock()

	s.emit(ev)
	return out, true
}

// RemoveGuestPass deletes a pass outright. Removing an absent id is a
// no-op.
func (s *Store) RemoveGuestPass(id string) {
	s.mu.Lock()
	i := s.guestIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.guests = slices.Delete(s.guests, i, i+1)
	ts := s.stamp()
	s.mu.Unlock()

	s.emit(deleteEvent(model.EntityGuestPass, id, ts))
}

// GuestPass returns the pass with the given id.
func (s *Store) GuestPass(id string) (model.GuestPass, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.guestIndex(id); i >= 0 {
		return s.guests[i], true
	}
	return model.GuestPass{}, false
}

// GuestPasses returns all passes in creation order. The slice is a copy.
func (s *Store) GuestPasses() []model.GuestPass {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.guests)
}

// ActiveGuestPasses returns only the passes that still validate.
func (s *Store) ActiveGuestPasses() []model.GuestPass {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.GuestPass
	for _, g := range s.guests {
		if g.IsActive {
			out = append(out, g)
		}
	}
	return out
}

// ActiveGuestPassByCode resolves an access code to its pass. Revoked
// passes never match.
func (s *Store) ActiveGuestPassByCode(code string) (model.GuestPass, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.guestIndexByCode(code)
	if i < 0 || !s.guests[i].IsActive {
		return model.GuestPass{}, false
	}
	return s.guests[i], true
}

func (s *Store) guestIndex(id string) int {
	return slices.IndexFunc(s.guests, func(g model.GuestPass) bool { return g.ID == id })
}

func (s *Store) guestIndexByCode(code string) int {
	return slices.IndexFunc(s.guests, func(g model.GuestPass) bool { return g.AccessCode == code })
}
