package store

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/davidbloss/wghub/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New("wg-test", slog.New(slog.DiscardHandler))
}

func addTestUser(t *testing.T, s *Store, name string) model.User {
	t.Helper()
	u, err := s.AddUser(name, model.RoleUser, "🙂")
	if err != nil {
		t.Fatalf("add user %s: %v", name, err)
	}
	return u
}

func TestAddUser(t *testing.T) {
	s := newTestStore(t)

	u, err := s.AddUser("Anna", model.RoleAdmin, "🦊")
	if err != nil {
		t.Fatalf("add user: %v", err)
	}
	if u.ID == "" {
		t.Error("expected non-empty ID")
	}
	if u.Name != "Anna" {
		t.Errorf("name = %q, want %q", u.Name, "Anna")
	}
	if u.WGID != "wg-test" {
		t.Errorf("wg_id = %q, want %q", u.WGID, "wg-test")
	}
	if u.Points != 0 {
		t.Errorf("points = %d, want 0", u.Points)
	}
}

func TestAddUserValidation(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.AddUser("", model.RoleUser, ""); !errors.Is(err, ErrValidation) {
		t.Errorf("blank name: err = %v, want ErrValidation", err)
	}
	if _, err := s.AddUser("Anna", "astronaut", ""); !errors.Is(err, ErrValidation) {
		t.Errorf("bad role: err = %v, want ErrValidation", err)
	}
}

func TestAddUserDuplicateName(t *testing.T) {
	s := newTestStore(t)
	addTestUser(t, s, "Anna")

	if _, err := s.AddUser("Anna", model.RoleUser, ""); !errors.Is(err, ErrValidation) {
		t.Errorf("duplicate name: err = %v, want ErrValidation", err)
	}
}

func TestUsersJoinOrder(t *testing.T) {
	s := newTestStore(t)
	addTestUser(t, s, "Anna")
	addTestUser(t, s, "Ben")
	addTestUser(t, s, "Chris")

	users := s.Users()
	if len(users) != 3 {
		t.Fatalf("len(users) = %d, want 3", len(users))
	}
	for i, want := range []string{"Anna", "Ben", "Chris"} {
		if users[i].Name != want {
			t.Errorf("users[%d].Name = %q, want %q", i, users[i].Name, want)
		}
	}
}

func TestUpdateUserPreservesPoints(t *testing.T) {
	s := newTestStore(t)
	u := addTestUser(t, s, "Anna")
	s.AdjustPoints(u.ID, 40)

	u.AvatarEmoji = "🐉"
	u.Points = 9999 // must be ignored
	updated, err := s.UpdateUser(u)
	if err != nil {
		t.Fatalf("update user: %v", err)
	}
	if updated.Points != 40 {
		t.Errorf("points = %d, want 40", updated.Points)
	}
	if updated.AvatarEmoji != "🐉" {
		t.Errorf("avatar = %q, want 🐉", updated.AvatarEmoji)
	}
}

func TestUpdateUserAbsentIsNoop(t *testing.T) {
	s := newTestStore(t)

	ghost := model.User{ID: "missing", Name: "Ghost", Role: model.RoleUser}
	if _, err := s.UpdateUser(ghost); err != nil {
		t.Fatalf("update absent user: %v", err)
	}
	if got := s.MemberCount(); got != 0 {
		t.Errorf("member count = %d, want 0", got)
	}
}

func TestRemoveUser(t *testing.T) {
	s := newTestStore(t)
	u := addTestUser(t, s, "Anna")

	s.RemoveUser(u.ID)
	if _, ok := s.User(u.ID); ok {
		t.Error("expected user gone after remove")
	}

	// Absent id is a no-op, not a panic.
	s.RemoveUser("missing")
}

func TestAdjustPointsClampsAtZero(t *testing.T) {
	s := newTestStore(t)
	u := addTestUser(t, s, "Anna")

	if got, _ := s.AdjustPoints(u.ID, 10); got != 10 {
		t.Errorf("balance = %d, want 10", got)
	}
	if got, _ := s.AdjustPoints(u.ID, -25); got != 0 {
		t.Errorf("balance = %d, want 0 (clamped)", got)
	}
	if _, ok := s.AdjustPoints("missing", 5); ok {
		t.Error("expected found=false for unknown user")
	}
}

func TestSpendPoints(t *testing.T) {
	s := newTestStore(t)
	u := addTestUser(t, s, "Anna")
	s.AdjustPoints(u.ID, 30)

	debited, found := s.SpendPoints(u.ID, 20)
	if !found || !debited {
		t.Fatalf("spend 20 of 30: debited=%v found=%v", debited, found)
	}

	debited, found = s.SpendPoints(u.ID, 20)
	if !found {
		t.Fatal("expected found=true")
	}
	if debited {
		t.Error("spend 20 of 10 should not debit")
	}
	if got, _ := s.AdjustPoints(u.ID, 0); got != 10 {
		t.Errorf("balance = %d, want 10", got)
	}
}

func TestStoreEventsFire(t *testing.T) {
	s := newTestStore(t)
	var events []Event
	s.SetNotify(func(ev Event) { events = append(events, ev) })

	u := addTestUser(t, s, "Anna")
	s.RemoveUser(u.ID)

	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	if events[0].Action != ActionUpsert || events[0].Entity != model.EntityUser {
		t.Errorf("events[0] = %+v, want user upsert", events[0])
	}
	if events[1].Action != ActionDelete || events[1].ID != u.ID {
		t.Errorf("events[1] = %+v, want delete of %s", events[1], u.ID)
	}
}
