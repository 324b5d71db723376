package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/davidbloss/wghub/internal/store"
)

// Bridge wires the store's change feed into the outbox and the remote's
// change feed back into the store. Construction registers the store
// listener; Start begins dispatching and subscribes to the remote.
type Bridge struct {
	store       *store.Store
	remote      Remote
	outbox      *Outbox
	broadcaster Broadcaster
	logger      *slog.Logger
	unsubscribe func()
}

func New(st *store.Store, remote Remote, broadcaster Broadcaster, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Bridge{
		store:       st,
		remote:      remote,
		outbox:      NewOutbox(remote, logger.With("component", "outbox")),
		broadcaster: broadcaster,
		logger:      logger,
	}
	st.SetNotify(b.onStoreEvent)
	return b
}

// Outbox exposes the pending queue, mainly for health reporting.
func (b *Bridge) Outbox() *Outbox {
	return b.outbox
}

// Hydrate replays the remote's full record set into the store. Called once
// at startup, before Start.
func (b *Bridge) Hydrate(ctx context.Context) error {
	loader, ok := b.remote.(Loader)
	if !ok {
		return nil
	}
	changes, err := loader.Load(ctx, b.store.WGID())
	if err != nil {
		return fmt.Errorf("load remote records: %w", err)
	}
	for _, ch := range changes {
		if _, err := b.store.ApplyRemote(ch.Entity, ch.ID, ch.Payload, ch.UpdatedAt, ch.Deleted); err != nil {
			b.logger.Error("hydrate: record rejected", "entity", ch.Entity, "id", ch.ID, "error", err)
		}
	}
	b.logger.Info("store hydrated", "records", len(changes))
	return nil
}

// Start subscribes to remote changes and launches the outbox dispatcher.
// Both stop when ctx is cancelled.
func (b *Bridge) Start(ctx context.Context) {
	b.unsubscribe = b.remote.Subscribe(b.onRemoteChange)
	go func() {
		b.outbox.Run(ctx)
		if b.unsubscribe != nil {
			b.unsubscribe()
		}
	}()
}

// onStoreEvent fans an applied store change out to the UI feed and, for
// locally-issued mutations only, to the outbox. Remote-origin events stay
// out of the outbox or every merge would echo back to the remote.
func (b *Bridge) onStoreEvent(ev store.Event) {
	if b.broadcaster != nil {
		b.broadcaster.BroadcastChange(ev.Entity, string(ev.Action), ev.ID)
	}
	if ev.Origin != store.OriginLocal {
		return
	}

	ch := Change{
		Entity:    ev.Entity,
		ID:        ev.ID,
		WGID:      b.store.WGID(),
		Deleted:   ev.Action == store.ActionDelete,
		UpdatedAt: ev.UpdatedAt,
	}
	if ev.Record != nil {
		payload, err := json.Marshal(ev.Record)
		if err != nil {
			b.logger.Error("marshal change", "entity", ev.Entity, "id", ev.ID, "error", err)
			return
		}
		ch.Payload = payload
	}
	b.outbox.Enqueue(ch)
}

// onRemoteChange merges a change accepted by the remote store. Failures
// are logged and swallowed: local state stays authoritative and the
// session continues regardless of what the remote sends.
func (b *Bridge) onRemoteChange(ch Change) {
	if ch.WGID != b.store.WGID() {
		return
	}
	applied, err := b.store.ApplyRemote(ch.Entity, ch.ID, ch.Payload, ch.UpdatedAt, ch.Deleted)
	if err != nil {
		b.logger.Error("remote change rejected", "entity", ch.Entity, "id", ch.ID, "error", err)
		return
	}
	if !applied {
		b.logger.Debug("remote change superseded by local write", "entity", ch.Entity, "id", ch.ID)
	}
}
