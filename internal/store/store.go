package store

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/davidbloss/wghub/internal/model"
)

// ErrValidation marks caller errors: blank required fields, bad enum
// values, non-positive amounts. Wrapped with a message describing the
// rejected field.
var ErrValidation = errors.New("validation failed")

// Action describes what happened to a record.
type Action string

const (
	ActionUpsert Action = "upsert"
	ActionDelete Action = "delete"
)

// Origin distinguishes mutations issued on this device from changes merged
// in from the remote store.
type Origin int

const (
	OriginLocal Origin = iota
	OriginRemote
)

// Event is emitted after every applied mutation. Record is the full record
// after the change, nil for deletes.
type Event struct {
	Entity    model.EntityType
	Action    Action
	ID        string
	UpdatedAt int64
	Origin    Origin
	Record    any
}

// Store is the single source of truth for all entity collections of one
// household. Every screen-facing operation goes through it; it owns the
// collections for the lifetime of a session and hands out copies only.
//
// Mutations apply synchronously under the store lock and are visible to the
// next read. Listeners registered with SetNotify observe every applied
// change after the lock is released; the sync bridge uses this to feed the
// outbox and the websocket hub without the mutating caller ever blocking on
// the network.
type Store struct {
	mu     sync.RWMutex
	wgID   string
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
	notify func(Event)

	users   []model.User
	tasks   []model.Task
	tickets []model.Ticket
	rewards []model.RewardItem
	vault   []model.VaultItem
	guests  []model.GuestPass
	costs   []model.RecurringCost
	scenes  []model.SmartScene
}

// New creates an empty store scoped to the given household id.
func New(wgID string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		wgID:   wgID,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// WGID returns the household id this store is scoped to.
func (s *Store) WGID() string {
	return s.wgID
}

// SetNotify registers the change listener. Must be called during wiring,
// before the store is shared across goroutines.
func (s *Store) SetNotify(fn func(Event)) {
	s.notify = fn
}

// SetClock overrides the timestamp source. Tests use this to make
// last-writer-wins ordering deterministic.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Store) stamp() int64 {
	return s.now().UnixMilli()
}

// emit must be called after the store lock is released: listeners may call
// back into store reads.
func (s *Store) emit(ev Event) {
	if s.notify != nil {
		s.notify(ev)
	}
}

func upsertEvent(entity model.EntityType, id string, ts int64, record any) Event {
	return Event{Entity: entity, Action: ActionUpsert, ID: id, UpdatedAt: ts, Origin: OriginLocal, Record: record}
}

func deleteEvent(entity model.EntityType, id string, ts int64) Event {
	return Event{Entity: entity, Action: ActionDelete, ID: id, UpdatedAt: ts, Origin: OriginLocal}
}
