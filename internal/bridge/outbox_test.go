package bridge

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/davidbloss/wghub/internal/model"
)

// fakeRemote records pushes and lets tests inject failures and deliver
// remote-origin changes.
type fakeRemote struct {
	mu       sync.Mutex
	pushed   []Change
	failures int
	notify   chan Change
	subs     []func(Change)
	loaded   []Change
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{notify: make(chan Change, 16)}
}

func (f *fakeRemote) Push(ctx context.Context, ch Change) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return errors.New("remote unreachable")
	}
	f.pushed = append(f.pushed, ch)
	select {
	case f.notify <- ch:
	default:
	}
	return nil
}

func (f *fakeRemote) Subscribe(fn func(Change)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, fn)
	return func() {}
}

func (f *fakeRemote) Load(ctx context.Context, wgID string) ([]Change, error) {
	return f.loaded, nil
}

func (f *fakeRemote) deliver(ch Change) {
	f.mu.Lock()
	subs := append([]func(Change){}, f.subs...)
	f.mu.Unlock()
	for _, fn := range subs {
		fn(ch)
	}
}

func (f *fakeRemote) pushedChanges() []Change {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Change{}, f.pushed...)
}

func waitForPush(t *testing.T, f *fakeRemote) Change {
	t.Helper()
	select {
	case ch := <-f.notify:
		return ch
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for push")
		return Change{}
	}
}

func TestOutboxCoalescesSameKey(t *testing.T) {
	o := NewOutbox(newFakeRemote(), slog.New(slog.DiscardHandler))

	o.Enqueue(Change{Entity: model.EntityUser, ID: "u1", UpdatedAt: 1})
	o.Enqueue(Change{Entity: model.EntityUser, ID: "u2", UpdatedAt: 1})
	o.Enqueue(Change{Entity: model.EntityUser, ID: "u1", UpdatedAt: 2})

	if got := o.Len(); got != 2 {
		t.Errorf("len = %d, want 2 (same key coalesced)", got)
	}
}

func TestOutboxStaleEnqueueDoesNotReplaceNewer(t *testing.T) {
	o := NewOutbox(newFakeRemote(), slog.New(slog.DiscardHandler))

	// A listener delayed between the store's unlock and emit can enqueue
	// its change after a later mutation of the same entity already did.
	o.Enqueue(Change{Entity: model.EntityUser, ID: "u1", UpdatedAt: 2})
	o.Enqueue(Change{Entity: model.EntityUser, ID: "u1", UpdatedAt: 1})

	if got := o.Len(); got != 1 {
		t.Fatalf("len = %d, want 1", got)
	}
	ch, ok := o.next()
	if !ok {
		t.Fatal("next returned no change")
	}
	if ch.UpdatedAt != 2 {
		t.Errorf("pending change UpdatedAt = %d, want 2", ch.UpdatedAt)
	}
}

func TestOutboxDrainsQueue(t *testing.T) {
	remote := newFakeRemote()
	o := NewOutbox(remote, slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go o.Run(ctx)

	o.Enqueue(Change{Entity: model.EntityUser, ID: "u1", UpdatedAt: 1})
	o.Enqueue(Change{Entity: model.EntityTask, ID: "t1", UpdatedAt: 2})

	first := waitForPush(t, remote)
	second := waitForPush(t, remote)
	if first.ID != "u1" || second.ID != "t1" {
		t.Errorf("push order = %s, %s; want u1, t1", first.ID, second.ID)
	}
}

func TestOutboxRetriesTransientFailure(t *testing.T) {
	remote := newFakeRemote()
	remote.failures = 2
	o := NewOutbox(remote, slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go o.Run(ctx)

	o.Enqueue(Change{Entity: model.EntityUser, ID: "u1", UpdatedAt: 1})

	got := waitForPush(t, remote)
	if got.ID != "u1" {
		t.Errorf("pushed id = %s, want u1", got.ID)
	}
	if o.Len() != 0 {
		t.Errorf("len = %d, want 0 after successful retry", o.Len())
	}
}

func TestOutboxRequeueKeepsFrontUnlessSuperseded(t *testing.T) {
	o := NewOutbox(newFakeRemote(), slog.New(slog.DiscardHandler))

	failed := Change{Entity: model.EntityUser, ID: "u1", UpdatedAt: 1}
	o.Enqueue(Change{Entity: model.EntityTask, ID: "t1", UpdatedAt: 2})
	o.requeue(failed)

	next, ok := o.next()
	if !ok || next.ID != "u1" {
		t.Errorf("next = %+v, want requeued u1 at the front", next)
	}

	// A newer pending change for the same key wins over the requeue.
	o.Enqueue(Change{Entity: model.EntityUser, ID: "u1", UpdatedAt: 5})
	o.requeue(failed)
	if got := o.Len(); got != 2 {
		t.Errorf("len = %d, want 2 (stale requeue dropped)", got)
	}
	next, _ = o.next()
	if next.ID != "t1" {
		t.Errorf("next = %s, want t1 (stale change not re-fronted)", next.ID)
	}
}
