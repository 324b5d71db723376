// Package ranking derives the household leaderboard from current point
// balances. Everything here is a pure function of its input.
package ranking

import (
	"sort"

	"github.com/davidbloss/wghub/internal/model"
)

// Badge is the tier shown next to a leaderboard rank.
type Badge string

const (
	BadgeCrown Badge = "crown"
	BadgeMid   Badge = "mid"
	BadgeLast  Badge = "last"
	BadgeNone  Badge = ""
)

// Entry is one leaderboard row.
type Entry struct {
	User  model.User `json:"user"`
	Rank  int        `json:"rank"`
	Score int        `json:"score"`
	Badge Badge      `json:"badge"`
}

// Leaderboard ranks members by points, descending. The sort is stable over
// the given order (join order when fed from the store), so ties keep their
// relative position and re-running on unchanged balances yields the same
// board.
func Leaderboard(members []model.User) []Entry {
	ranked := make([]model.User, len(members))
	copy(ranked, members)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Points > ranked[j].Points
	})

	entries := make([]Entry, len(ranked))
	for i, u := range ranked {
		entries[i] = Entry{
			User:  u,
			Rank:  i,
			Score: u.Points,
			Badge: BadgeForRank(i, len(ranked)),
		}
	}
	return entries
}

// BadgeForRank maps a zero-based rank to its tier. The top rank wears the
// crown, the bottom rank of a household of two or more gets the last-place
// badge, everyone in between is mid. A household of one is champion only:
// the crown wins the first/last duality.
func BadgeForRank(rank, total int) Badge {
	switch {
	case total <= 0 || rank < 0 || rank >= total:
		return BadgeNone
	case rank == 0:
		return BadgeCrown
	case rank == total-1:
		return BadgeLast
	default:
		return BadgeMid
	}
}
