package handler

import (
	"log/slog"
	"net/http"

	"github.com/davidbloss/wghub/internal/model"
	"github.com/davidbloss/wghub/internal/store"
)

type BoardHandler struct {
	store  *store.Store
	logger *slog.Logger
}

func NewBoardHandler(s *store.Store, logger *slog.Logger) *BoardHandler {
	return &BoardHandler{store: s, logger: logger}
}

// ticketView decorates a ticket with its display icon so clients never
// switch on the type themselves.
type ticketView struct {
	model.Ticket
	Icon model.Icon `json:"icon"`
}

func (h *BoardHandler) List(w http.ResponseWriter, r *http.Request) {
	tickets := h.store.Tickets()
	views := make([]ticketView, len(tickets))
	for i, t := range tickets {
		views[i] = ticketView{Ticket: t, Icon: model.TicketIcon(t.Type)}
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *BoardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type        model.TicketType `json:"type"`
		Text        string           `json:"text"`
		Author      string           `json:"author"`
		PollOptions []string         `json:"poll_options"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	ticket, err := h.store.AddTicket(req.Type, req.Text, req.Author, req.PollOptions)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ticketView{Ticket: ticket, Icon: model.TicketIcon(ticket.Type)})
}

func (h *BoardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.store.RemoveTicket(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// Vote casts a poll vote. One vote per member, immutable once cast.
func (h *BoardHandler) Vote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Voter  string `json:"voter"`
		Option string `json:"option"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	ticket, err := h.store.CastVote(r.PathValue("id"), req.Voter, req.Option)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

// Solve marks a complaint handled, or reopens it.
func (h *BoardHandler) Solve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Solved bool `json:"solved"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	ticket, changed := h.store.SetTicketSolved(r.PathValue("id"), req.Solved)
	if !changed {
		existing, ok := h.store.Ticket(r.PathValue("id"))
		if !ok {
			writeError(w, http.StatusNotFound, "ticket not found")
			return
		}
		writeJSON(w, http.StatusOK, existing)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}
