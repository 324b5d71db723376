package store

import (
	"fmt"
	"slices"
	"strings"

	"github.com/davidbloss/wghub/internal/model"
)

// AddTicket validates and posts a blackboard entry. Poll tickets must
// carry at least two options; other types must carry none.
func (s *Store) AddTicket(typ model.TicketType, text, author string, pollOptions []string) (model.Ticket, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Ticket{}, fmt.Errorf("%w: text is required", ErrValidation)
	}
	if !model.ValidTicketType(typ) {
		return model.Ticket{}, fmt.Errorf("%w: unknown ticket type %q", ErrValidation, typ)
	}
	if typ == model.TicketPoll {
		if len(pollOptions) < 2 {
			return model.Ticket{}, fmt.Errorf("%w: a poll needs at least two options", ErrValidation)
		}
	} else if len(pollOptions) > 0 {
		return model.Ticket{}, fmt.Errorf("%w: only polls carry options", ErrValidation)
	}

	s.mu.Lock()
	t := model.Ticket{
		ID:          s.newID(),
		WGID:        s.wgID,
		Type:        typ,
		Text:        text,
		Author:      strings.TrimSpace(author),
		Date:        s.now(),
		PollOptions: slices.Clone(pollOptions),
		UpdatedAt:   s.stamp(),
	}
	if typ == model.TicketPoll {
		t.PollVotes = map[string]string{}
	}
	s.tickets = append(s.tickets, t)
	ev := upsertEvent(model.EntityTicket, t.ID, t.UpdatedAt, t)
	s.mu.Unlock()

	s.emit(ev)
	return t, nil
}

// RemoveTicket deletes a blackboard entry. Removing an absent id is a
// no-op.
func (s *Store) RemoveTicket(id string) {
	s.mu.Lock()
	i := s.ticketIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.tickets = slices.Delete(s.tickets, i, i+1)
	ts := s.stamp()
	s.mu.Unlock()

	s.emit(deleteEvent(model.EntityTicket, id, ts))
}

// Ticket returns the blackboard entry with the given id.
func (s *Store) Ticket(id string) (model.Ticket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.ticketIndex(id); i >= 0 {
		return cloneTicket(s.tickets[i]), true
	}
	return model.Ticket{}, false
}

// Tickets returns all blackboard entries in posting order.
func (s *Store) Tickets() []model.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Ticket, len(s.tickets))
	for i, t := range s.tickets {
		out[i] = cloneTicket(t)
	}
	return out
}

// CastVote records voter's pick on a poll. A vote is immutable once cast:
// a second vote by the same user is rejected, whatever the option.
func (s *Store) CastVote(ticketID, voter, option string) (model.Ticket, error) {
	voter = strings.TrimSpace(voter)
	if voter == "" {
		return model.Ticket{}, fmt.Errorf("%w: voter is required", ErrValidation)
	}

	s.mu.Lock()
	i := s.ticketIndex(ticketID)
	if i < 0 {
		s.mu.Unlock()
		return model.Ticket{}, fmt.Errorf("%w: no such ticket", ErrValidation)
	}
	t := &s.tickets[i]
	if t.Type != model.TicketPoll {
		s.mu.Unlock()
		return model.Ticket{}, fmt.Errorf("%w: ticket is not a poll", ErrValidation)
	}
	if !slices.Contains(t.PollOptions, option) {
		s.mu.Unlock()
		return model.Ticket{}, fmt.Errorf("%w: unknown option %q", ErrValidation, option)
	}
	if _, voted := t.PollVotes[voter]; voted {
		s.mu.Unlock()
		return model.Ticket{}, fmt.Errorf("%w: %s already voted", ErrValidation, voter)
	}
	if t.PollVotes == nil {
		t.PollVotes = map[string]string{}
	}
	t.PollVotes[voter] = option
	t.UpdatedAt = s.stamp()
	out := cloneTicket(*t)
	ev := upsertEvent(model.EntityTicket, t.ID, t.UpdatedAt, out)
	s.mu.Unlock()

	s.emit(ev)
	return out, nil
}

// SetTicketSolved marks a complaint as handled (or reopens it). Absent ids
// and unchanged flags are no-ops.
func (s *Store) SetTicketSolved(id string, solved bool) (model.Ticket, bool) {
	s.mu.Lock()
	i := s.ticketIndex(id)
	if i < 0 || s.tickets[i].IsSolved == solved {
		s.mu.Unlock()
		return model.Ticket{}, false
	}
	t := &s.tickets[i]
	t.IsSolved = solved
	t.UpdatedAt = s.stamp()
	out := cloneTicket(*t)
	ev := upsertEvent(model.EntityTicket, t.ID, t.UpdatedAt, out)
	s.mu.Unlock()

	s.emit(ev)
	return out, true
}

func (s *Store) ticketIndex(id string) int {
	return slices.IndexFunc(s.tickets, func(t model.Ticket) bool { return t.ID == id })
}

// cloneTicket deep-copies the vote map so callers never alias store state.
func cloneTicket(t model.Ticket) model.Ticket {
	t.PollOptions = slices.Clone(t.PollOptions)
	if t.PollVotes != nil {
		votes := make(map[string]string, len(t.PollVotes))
		for k, v := range t.PollVotes {
			votes[k] = v
		}
		t.PollVotes = votes
	}
	return t
}
