package remote

import (
	"context"
	"log/slog"
	"testing"

	"github.com/davidbloss/wghub/internal/bridge"
	"github.com/davidbloss/wghub/internal/database"
	"github.com/davidbloss/wghub/internal/model"
)

func newTestRemote(t *testing.T) *SQLite {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSQLite(db, slog.New(slog.DiscardHandler))
}

func TestPushAndLoad(t *testing.T) {
	r := newTestRemote(t)
	ctx := context.Background()

	changes := []bridge.Change{
		{Entity: model.EntityUser, ID: "u1", WGID: "wg1", UpdatedAt: 10, Payload: []byte(`{"name":"Anna"}`)},
		{Entity: model.EntityTask, ID: "t1", WGID: "wg1", UpdatedAt: 20, Payload: []byte(`{"title":"Dishes"}`)},
	}
	for _, ch := range changes {
		if err := r.Push(ctx, ch); err != nil {
			t.Fatalf("push: %v", err)
		}
	}

	got, err := r.Load(ctx, "wg1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// Oldest first, so hydration replays in write order.
	if got[0].ID != "u1" || got[1].ID != "t1" {
		t.Errorf("order = %s, %s; want u1, t1", got[0].ID, got[1].ID)
	}
	if string(got[0].Payload) != `{"name":"Anna"}` {
		t.Errorf("payload = %s", got[0].Payload)
	}
}

func TestPushLastWriterWins(t *testing.T) {
	r := newTestRemote(t)
	ctx := context.Background()

	fresh := bridge.Change{Entity: model.EntityUser, ID: "u1", WGID: "wg1", UpdatedAt: 100, Payload: []byte(`{"name":"New"}`)}
	stale := bridge.Change{Entity: model.EntityUser, ID: "u1", WGID: "wg1", UpdatedAt: 50, Payload: []byte(`{"name":"Old"}`)}

	if err := r.Push(ctx, fresh); err != nil {
		t.Fatalf("push fresh: %v", err)
	}
	if err := r.Push(ctx, stale); err != nil {
		t.Fatalf("push stale: %v", err)
	}

	got, err := r.Load(ctx, "wg1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if string(got[0].Payload) != `{"name":"New"}` {
		t.Errorf("payload = %s, want the newer write", got[0].Payload)
	}
}

func TestLoadExcludesTombstonesAndForeignWGs(t *testing.T) {
	r := newTestRemote(t)
	ctx := context.Background()

	r.Push(ctx, bridge.Change{Entity: model.EntityUser, ID: "u1", WGID: "wg1", UpdatedAt: 10, Payload: []byte(`{}`)})
	r.Push(ctx, bridge.Change{Entity: model.EntityUser, ID: "u2", WGID: "wg1", UpdatedAt: 20, Deleted: true})
	r.Push(ctx, bridge.Change{Entity: model.EntityUser, ID: "u3", WGID: "wg2", UpdatedAt: 30, Payload: []byte(`{}`)})

	got, err := r.Load(ctx, "wg1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].ID != "u1" {
		t.Errorf("got %+v, want only u1", got)
	}
}

func TestSubscribeHearsAcceptedWrites(t *testing.T) {
	r := newTestRemote(t)
	ctx := context.Background()

	var heard []bridge.Change
	cancel := r.Subscribe(func(ch bridge.Change) { heard = append(heard, ch) })

	r.Push(ctx, bridge.Change{Entity: model.EntityUser, ID: "u1", WGID: "wg1", UpdatedAt: 100, Payload: []byte(`{}`)})
	// Stale write loses and must not be announced.
	r.Push(ctx, bridge.Change{Entity: model.EntityUser, ID: "u1", WGID: "wg1", UpdatedAt: 50, Payload: []byte(`{}`)})

	if len(heard) != 1 {
		t.Fatalf("heard %d changes, want 1", len(heard))
	}
	if heard[0].UpdatedAt != 100 {
		t.Errorf("heard ts = %d, want 100", heard[0].UpdatedAt)
	}

	cancel()
	r.Push(ctx, bridge.Change{Entity: model.EntityUser, ID: "u2", WGID: "wg1", UpdatedAt: 200, Payload: []byte(`{}`)})
	if len(heard) != 1 {
		t.Error("cancelled subscriber must not hear further writes")
	}
}
