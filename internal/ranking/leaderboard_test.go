package ranking

import (
	"testing"

	"github.com/davidbloss/wghub/internal/model"
)

func member(name string, points int) model.User {
	return model.User{ID: name, Name: name, Points: points}
}

func TestLeaderboardSortsDescending(t *testing.T) {
	entries := Leaderboard([]model.User{
		member("Anna", 10),
		member("Ben", 30),
		member("Chris", 5),
	})

	want := []string{"Ben", "Anna", "Chris"}
	for i, name := range want {
		if entries[i].User.Name != name {
			t.Errorf("rank %d = %q, want %q", i, entries[i].User.Name, name)
		}
		if entries[i].Rank != i {
			t.Errorf("entries[%d].Rank = %d, want %d", i, entries[i].Rank, i)
		}
	}
	if entries[0].Score != 30 {
		t.Errorf("top score = %d, want 30", entries[0].Score)
	}
}

func TestLeaderboardBadges(t *testing.T) {
	entries := Leaderboard([]model.User{
		member("Anna", 10),
		member("Ben", 30),
		member("Chris", 5),
	})

	if entries[0].Badge != BadgeCrown {
		t.Errorf("top badge = %q, want crown", entries[0].Badge)
	}
	if entries[1].Badge != BadgeMid {
		t.Errorf("mid badge = %q, want mid", entries[1].Badge)
	}
	if entries[2].Badge != BadgeLast {
		t.Errorf("bottom badge = %q, want last", entries[2].Badge)
	}
}

// Ties keep their given order, so an unchanged board is reproducible.
func TestLeaderboardTiesAreStable(t *testing.T) {
	members := []model.User{
		member("Anna", 10),
		member("Ben", 10),
		member("Chris", 10),
	}

	first := Leaderboard(members)
	second := Leaderboard(members)
	for i := range first {
		if first[i].User.Name != members[i].Name {
			t.Errorf("rank %d = %q, want join order %q", i, first[i].User.Name, members[i].Name)
		}
		if first[i].User.Name != second[i].User.Name {
			t.Errorf("rank %d differs between runs", i)
		}
	}
}

func TestLeaderboardSingleMemberIsChampion(t *testing.T) {
	entries := Leaderboard([]model.User{member("Anna", 0)})
	if len(entries) != 1 {
		t.Fatalf("len = %d, want 1", len(entries))
	}
	if entries[0].Badge != BadgeCrown {
		t.Errorf("badge = %q, want crown", entries[0].Badge)
	}
}

func TestLeaderboardEmpty(t *testing.T) {
	if entries := Leaderboard(nil); len(entries) != 0 {
		t.Errorf("len = %d, want 0", len(entries))
	}
}

func TestBadgeForRankOutOfRange(t *testing.T) {
	if b := BadgeForRank(3, 3); b != BadgeNone {
		t.Errorf("rank past end = %q, want none", b)
	}
	if b := BadgeForRank(-1, 3); b != BadgeNone {
		t.Errorf("negative rank = %q, want none", b)
	}
	if b := BadgeForRank(0, 0); b != BadgeNone {
		t.Errorf("empty board = %q, want none", b)
	}
}
