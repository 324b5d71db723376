package bridge

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"

	"github.com/davidbloss/wghub/internal/model"
	"github.com/davidbloss/wghub/internal/store"
)

type recordingBroadcaster struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingBroadcaster) BroadcastChange(entity model.EntityType, action, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, string(entity)+":"+action)
}

func (r *recordingBroadcaster) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func TestLocalMutationReachesRemote(t *testing.T) {
	st := store.New("wg-test", slog.New(slog.DiscardHandler))
	remote := newFakeRemote()
	b := New(st, remote, nil, slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	b.Start(ctx)

	u, err := st.AddUser("Anna", model.RoleUser, "")
	if err != nil {
		t.Fatalf("add user: %v", err)
	}

	ch := waitForPush(t, remote)
	if ch.Entity != model.EntityUser || ch.ID != u.ID {
		t.Errorf("pushed %s/%s, want user/%s", ch.Entity, ch.ID, u.ID)
	}
	if ch.WGID != "wg-test" {
		t.Errorf("wg_id = %q, want wg-test", ch.WGID)
	}

	var rec model.User
	if err := json.Unmarshal(ch.Payload, &rec); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if rec.Name != "Anna" {
		t.Errorf("payload name = %q, want Anna", rec.Name)
	}
}

func TestRemoteChangeMergesIntoStore(t *testing.T) {
	st := store.New("wg-test", slog.New(slog.DiscardHandler))
	remote := newFakeRemote()
	b := New(st, remote, nil, slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	b.Start(ctx)

	rec := model.User{ID: "u1", WGID: "wg-test", Name: "Anna", Role: model.RoleUser}
	payload, _ := json.Marshal(rec)
	remote.deliver(Change{Entity: model.EntityUser, ID: "u1", WGID: "wg-test", UpdatedAt: 100, Payload: payload})

	got, ok := st.User("u1")
	if !ok || got.Name != "Anna" {
		t.Errorf("user after merge = %+v, want Anna", got)
	}
}

func TestRemoteChangeForeignWGIgnored(t *testing.T) {
	st := store.New("wg-test", slog.New(slog.DiscardHandler))
	remote := newFakeRemote()
	b := New(st, remote, nil, slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	b.Start(ctx)

	rec := model.User{ID: "u1", WGID: "other", Name: "Intruder", Role: model.RoleUser}
	payload, _ := json.Marshal(rec)
	remote.deliver(Change{Entity: model.EntityUser, ID: "u1", WGID: "other", UpdatedAt: 100, Payload: payload})

	if st.MemberCount() != 0 {
		t.Error("foreign-WG change must not reach the store")
	}
}

func TestRemoteEchoDoesNotReenterOutbox(t *testing.T) {
	st := store.New("wg-test", slog.New(slog.DiscardHandler))
	remote := newFakeRemote()
	b := New(st, remote, nil, slog.New(slog.DiscardHandler))

	// Not started: the outbox queue holds whatever gets enqueued.
	rec := model.User{ID: "u1", WGID: "wg-test", Name: "Anna", Role: model.RoleUser}
	payload, _ := json.Marshal(rec)
	b.onRemoteChange(Change{Entity: model.EntityUser, ID: "u1", WGID: "wg-test", UpdatedAt: 100, Payload: payload})

	if got := b.Outbox().Len(); got != 0 {
		t.Errorf("outbox len = %d, want 0 (remote origin never echoes back)", got)
	}
}

func TestBroadcasterSeesBothOrigins(t *testing.T) {
	st := store.New("wg-test", slog.New(slog.DiscardHandler))
	remote := newFakeRemote()
	bc := &recordingBroadcaster{}
	b := New(st, remote, bc, slog.New(slog.DiscardHandler))

	if _, err := st.AddUser("Anna", model.RoleUser, ""); err != nil {
		t.Fatalf("add user: %v", err)
	}

	rec := model.Task{ID: "t1", WGID: "wg-test", Title: "Dishes"}
	payload, _ := json.Marshal(rec)
	b.onRemoteChange(Change{Entity: model.EntityTask, ID: "t1", WGID: "wg-test", UpdatedAt: 100, Payload: payload})

	if got := bc.count(); got != 2 {
		t.Errorf("broadcasts = %d, want 2 (local and remote origin)", got)
	}
}

func TestHydrateReplaysRemoteRecords(t *testing.T) {
	st := store.New("wg-test", slog.New(slog.DiscardHandler))
	remote := newFakeRemote()

	u := model.User{ID: "u1", WGID: "wg-test", Name: "Anna", Role: model.RoleUser}
	up, _ := json.Marshal(u)
	task := model.Task{ID: "t1", WGID: "wg-test", Title: "Dishes", AssignedTo: "Anna"}
	tp, _ := json.Marshal(task)
	remote.loaded = []Change{
		{Entity: model.EntityUser, ID: "u1", WGID: "wg-test", UpdatedAt: 10, Payload: up},
		{Entity: model.EntityTask, ID: "t1", WGID: "wg-test", UpdatedAt: 11, Payload: tp},
	}

	b := New(st, remote, nil, slog.New(slog.DiscardHandler))
	if err := b.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	if st.MemberCount() != 1 {
		t.Errorf("member count = %d, want 1", st.MemberCount())
	}
	if got, ok := st.Task("t1"); !ok || got.Title != "Dishes" {
		t.Errorf("task after hydrate = %+v, want Dishes", got)
	}
}
