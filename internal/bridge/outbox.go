package bridge

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	backoffBase = 500 * time.Millisecond
	maxAttempts = 5
	offlineWait = 30 * time.Second
)

// Outbox queues local changes for the remote store. Enqueue never blocks
// and never fails: mutating operations stay decoupled from network
// latency, and a dead remote costs nothing but queue growth. Changes to
// the same (entity, id) coalesce to the newest write, which is all
// last-writer-wins will keep anyway.
type Outbox struct {
	mu     sync.Mutex
	queue  []Change
	wake   chan struct{}
	remote Remote
	logger *slog.Logger
}

func NewOutbox(remote Remote, logger *slog.Logger) *Outbox {
	if logger == nil {
		logger = slog.Default()
	}
	return &Outbox{
		wake:   make(chan struct{}, 1),
		remote: remote,
		logger: logger,
	}
}

// Enqueue adds a change, replacing any pending change for the same key.
// Store listeners run after the store lock is released, so two mutations
// of the same entity can arrive here out of stamp order; a change older
// than the pending one is dropped, never allowed to replace it.
func (o *Outbox) Enqueue(ch Change) {
	o.mu.Lock()
	found := false
	for i := range o.queue {
		if o.queue[i].Entity == ch.Entity && o.queue[i].ID == ch.ID {
			if ch.UpdatedAt >= o.queue[i].UpdatedAt {
				o.queue[i] = ch
			}
			found = true
			break
		}
	}
	if !found {
		o.queue = append(o.queue, ch)
	}
	o.mu.Unlock()

	select {
	case o.wake <- struct{}{}:
	default:
	}
}

// Len returns the number of pending changes.
func (o *Outbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.queue)
}

// Run drains the queue until ctx is cancelled. Each push retries with
// exponential backoff; when the remote stays unreachable the change goes
// back to the front of the queue and the dispatcher pauses, so per-entity
// order is preserved across disconnects and nothing is ever dropped.
func (o *Outbox) Run(ctx context.Context) {
	for {
		ch, ok := o.next()
		if !ok {
			select {
			case <-o.wake:
				continue
			case <-ctx.Done():
				return
			}
		}

		if err := o.push(ctx, ch); err != nil {
			if ctx.Err() != nil {
				return
			}
			o.logger.Error("push failed, remote unreachable", "entity", ch.Entity, "id", ch.ID, "error", err)
			o.requeue(ch)
			select {
			case <-time.After(offlineWait):
			case <-ctx.Done():
				return
			}
		}
	}
}

func (o *Outbox) next() (Change, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.queue) == 0 {
		return Change{}, false
	}
	ch := o.queue[0]
	o.queue = o.queue[1:]
	return ch, true
}

// requeue puts a failed change back at the front, unless a newer change
// for the same key arrived while the push was in flight.
func (o *Outbox) requeue(ch Change) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := range o.queue {
		if o.queue[i].Entity == ch.Entity && o.queue[i].ID == ch.ID {
			return
		}
	}
	o.queue = append([]Change{ch}, o.queue...)
}

func (o *Outbox) push(ctx context.Context, ch Change) error {
	backoff := retry.WithMaxRetries(maxAttempts, retry.NewExponential(backoffBase))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := o.remote.Push(ctx, ch); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}
