package store

import (
	"strings"
	"testing"
)

func TestAddGuestPass(t *testing.T) {
	s := newTestStore(t)

	pass, err := s.AddGuestPass("Max", "hunter2", "Anna")
	if err != nil {
		t.Fatalf("add guest pass: %v", err)
	}
	if !pass.IsActive {
		t.Error("new pass should be active")
	}
	if len(pass.AccessCode) != 6 {
		t.Errorf("code length = %d, want 6", len(pass.AccessCode))
	}
}

func TestGuestPassCodesUnique(t *testing.T) {
	s := newTestStore(t)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		pass, err := s.AddGuestPass("Max", "", "Anna")
		if err != nil {
			t.Fatalf("add guest pass: %v", err)
		}
		if seen[pass.AccessCode] {
			t.Fatalf("duplicate code %s", pass.AccessCode)
		}
		seen[pass.AccessCode] = true
	}
}

func TestRevokeGuestPassIdempotent(t *testing.T) {
	s := newTestStore(t)
	pass, _ := s.AddGuestPass("Max", "", "Anna")

	var events []Event
	s.SetNotify(func(ev Event) { events = append(events, ev) })

	if _, changed := s.RevokeGuestPass(pass.ID); !changed {
		t.Fatal("first revoke should report a change")
	}
	if _, changed := s.RevokeGuestPass(pass.ID); changed {
		t.Error("second revoke should be a no-op")
	}
	if _, changed := s.RevokeGuestPass("missing"); changed {
		t.Error("absent id should be a no-op")
	}
	if len(events) != 1 {
		t.Errorf("len(events) = %d, want 1 (no-op revokes push nothing)", len(events))
	}

	got, _ := s.GuestPass(pass.ID)
	if got.IsActive {
		t.Error("pass should stay revoked")
	}
}

func TestActiveGuestPassByCode(t *testing.T) {
	s := newTestStore(t)
	pass, _ := s.AddGuestPass("Max", "hunter2", "Anna")

	// Lookup is case-insensitive on input.
	got, ok := s.ActiveGuestPassByCode(strings.ToLower(pass.AccessCode))
	if !ok {
		t.Fatal("expected active pass by code")
	}
	if got.ID != pass.ID {
		t.Errorf("got pass %s, want %s", got.ID, pass.ID)
	}

	s.RevokeGuestPass(pass.ID)
	if _, ok := s.ActiveGuestPassByCode(pass.AccessCode); ok {
		t.Error("revoked pass must not validate")
	}
}
