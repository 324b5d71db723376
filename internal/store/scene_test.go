package store

import (
	"errors"
	"testing"
)

func TestAddSceneValidation(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.AddScene("", "🎬", "", ""); !errors.Is(err, ErrValidation) {
		t.Errorf("blank name: err = %v, want ErrValidation", err)
	}

	sc, err := s.AddScene("Movie Night", "", "dim the lights", "Movie night is on!")
	if err != nil {
		t.Fatalf("add scene: %v", err)
	}
	if sc.Emoji != "💡" {
		t.Errorf("default emoji = %q, want 💡", sc.Emoji)
	}
	if sc.IsActive {
		t.Error("new scene must start inactive")
	}
}

func TestSetSceneActive(t *testing.T) {
	s := newTestStore(t)
	sc, err := s.AddScene("Movie Night", "🎬", "", "Movie night is on!")
	if err != nil {
		t.Fatalf("add scene: %v", err)
	}

	got, changed := s.SetSceneActive(sc.ID, true)
	if !changed {
		t.Fatal("activating an inactive scene must report a change")
	}
	if !got.IsActive {
		t.Error("scene not active after toggle")
	}

	// Toggling to the state the scene is already in mutates nothing.
	before, _ := s.Scene(sc.ID)
	if _, changed := s.SetSceneActive(sc.ID, true); changed {
		t.Error("repeat activation must be a no-op")
	}
	after, _ := s.Scene(sc.ID)
	if after.UpdatedAt != before.UpdatedAt {
		t.Errorf("no-op toggle bumped UpdatedAt: %d -> %d", before.UpdatedAt, after.UpdatedAt)
	}

	if _, changed := s.SetSceneActive("missing", true); changed {
		t.Error("absent id must be a no-op")
	}
}

func TestUpdateSceneKeepsIdentity(t *testing.T) {
	s := newTestStore(t)
	sc, err := s.AddScene("Movie Night", "🎬", "", "")
	if err != nil {
		t.Fatalf("add scene: %v", err)
	}

	sc.Name = "Game Night"
	sc.WGID = "other"
	updated, err := s.UpdateScene(sc)
	if err != nil {
		t.Fatalf("update scene: %v", err)
	}
	if updated.Name != "Game Night" {
		t.Errorf("name = %q, want Game Night", updated.Name)
	}
	if updated.WGID != "wg-test" {
		t.Errorf("wg id = %q, must stay wg-test", updated.WGID)
	}

	blank := updated
	blank.Name = "  "
	if _, err := s.UpdateScene(blank); !errors.Is(err, ErrValidation) {
		t.Errorf("blank name: err = %v, want ErrValidation", err)
	}
}
