// Package bridge connects the in-memory store to the remote record store.
// Local mutations flow out through an outbox drained by a dispatcher;
// remote-origin changes flow back in and merge under last-writer-wins.
package bridge

import (
	"context"
	"encoding/json"

	"github.com/davidbloss/wghub/internal/model"
)

// Change is one idempotent upsert or delete crossing the sync boundary,
// keyed by (Entity, ID). UpdatedAt is the write timestamp last-writer-wins
// compares; Payload is the full record, empty for tombstones.
type Change struct {
	Entity    model.EntityType `json:"entity"`
	ID        string           `json:"id"`
	WGID      string           `json:"wg_id"`
	Deleted   bool             `json:"deleted"`
	UpdatedAt int64            `json:"updated_at"`
	Payload   json.RawMessage  `json:"payload,omitempty"`
}

// Remote is the sync collaborator. Push must be idempotent per (Entity,
// ID, UpdatedAt); Subscribe delivers changes accepted by the remote store,
// including echoes of this device's own pushes, which the merge re-applies
// idempotently without re-entering the outbox.
type Remote interface {
	Push(ctx context.Context, ch Change) error
	Subscribe(fn func(Change)) (cancel func())
}

// Loader is implemented by remotes that can replay the full record set,
// used once at startup to hydrate an empty store.
type Loader interface {
	Load(ctx context.Context, wgID string) ([]Change, error)
}

// Broadcaster receives every applied change, local or remote, as the UI
// refresh signal.
type Broadcaster interface {
	BroadcastChange(entity model.EntityType, action, id string)
}
