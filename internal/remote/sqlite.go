// Package remote implements the sync collaborator over SQLite. The daemon
// owns the durable record store; every device (the local store included)
// pushes changes here and hears about accepted writes through Subscribe.
package remote

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"github.com/davidbloss/wghub/internal/bridge"
	"github.com/davidbloss/wghub/internal/model"
)

type SQLite struct {
	db     *sql.DB
	logger *slog.Logger

	mu      sync.Mutex
	nextSub int
	subs    map[int]func(bridge.Change)
}

func NewSQLite(db *sql.DB, logger *slog.Logger) *SQLite {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLite{db: db, logger: logger, subs: map[int]func(bridge.Change){}}
}

// Push applies a change under last-writer-wins: the row is written only
// when the incoming timestamp is not older than the stored one, which
// makes the operation idempotent. Accepted writes fan out to subscribers.
func (r *SQLite) Push(ctx context.Context, ch bridge.Change) error {
	deleted := 0
	if ch.Deleted {
		deleted = 1
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO sync_records (entity, id, wg_id, updated_at, deleted, payload)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(entity, id) DO UPDATE SET
		   wg_id = excluded.wg_id,
		   updated_at = excluded.updated_at,
		   deleted = excluded.deleted,
		   payload = excluded.payload
		 WHERE excluded.updated_at >= sync_records.updated_at`,
		string(ch.Entity), ch.ID, ch.WGID, ch.UpdatedAt, deleted, []byte(ch.Payload),
	)
	if err != nil {
		return fmt.Errorf("upsert sync record: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		// A newer write already won; nothing to announce.
		return nil
	}

	r.notify(ch)
	return nil
}

// Subscribe registers a callback for accepted writes. The returned cancel
// removes it.
func (r *SQLite) Subscribe(fn func(bridge.Change)) func() {
	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()
	}
}

// Load replays every live record of a household, tombstones excluded.
func (r *SQLite) Load(ctx context.Context, wgID string) ([]bridge.Change, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT entity, id, updated_at, payload FROM sync_records
		 WHERE wg_id = ? AND deleted = 0 ORDER BY updated_at ASC`,
		wgID,
	)
	if err != nil {
		return nil, fmt.Errorf("load sync records: %w", err)
	}
	defer rows.Close()

	var changes []bridge.Change
	for rows.Next() {
		var ch bridge.Change
		var entity string
		var payload []byte
		if err := rows.Scan(&entity, &ch.ID, &ch.UpdatedAt, &payload); err != nil {
			return nil, fmt.Errorf("scan sync record: %w", err)
		}
		ch.Entity = model.EntityType(entity)
		ch.WGID = wgID
		ch.Payload = payload
		changes = append(changes, ch)
	}
	return changes, rows.Err()
}

func (r *SQLite) notify(ch bridge.Change) {
	r.mu.Lock()
	fns := make([]func(bridge.Change), 0, len(r.subs))
	for _, fn := range r.subs {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn(ch)
	}
}
