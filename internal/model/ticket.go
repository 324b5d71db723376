package model

import "time"

type TicketType string

const (
	TicketComplaint TicketType = "complaint"
	TicketKudos     TicketType = "kudos"
	TicketPoll      TicketType = "poll"
)

// ValidTicketType reports whether t is one of the known ticket types.
func ValidTicketType(t TicketType) bool {
	switch t {
	case TicketComplaint, TicketKudos, TicketPoll:
		return true
	}
	return false
}

// Ticket is a blackboard entry. PollOptions is non-empty iff Type is poll;
// PollVotes maps a user name to the option they picked. A vote is immutable
// once cast.
type Ticket struct {
	ID          string            `json:"id"`
	WGID        string            `json:"wg_id"`
	Type        TicketType        `json:"type"`
	Text        string            `json:"text"`
	Author      string            `json:"author"`
	Date        time.Time         `json:"date"`
	IsSolved    bool              `json:"is_solved"`
	PollOptions []string          `json:"poll_options,omitempty"`
	PollVotes   map[string]string `json:"poll_votes,omitempty"`
	UpdatedAt   int64             `json:"updated_at"`
}
