package engine

import (
	"cmp"
	"slices"
)

// rankByScore sorts by score descending; equal scores keep registry order.
func rankByScore(teams [TeamCount]Team) []Team {
	ranked := slices.Clone(teams[:])
	slices.SortStableFunc(ranked, func(a, b Team) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return ranked
}

// HasTieForFinal reports whether the top two cannot be picked by score alone:
// first ties second, or second ties third.
func HasTieForFinal(teams [TeamCount]Team) bool {
	ranked := rankByScore(teams)
	return ranked[0].Score == ranked[1].Score || ranked[1].Score == ranked[2].Score
}

// TopTwo returns the ids of the two highest scorers, highest first.
func TopTwo(teams [TeamCount]Team) []string {
	ranked := rankByScore(teams)
	return []string{ranked[0].ID, ranked[1].ID}
}

type Standing struct {
	Rank       int
	Team       Team
	Qualified  bool
	Eliminated bool
}

// Standings lists every team by score. Qualification flags are only set once
// the finalists are locked.
func Standings(s State) []Standing {
	ranked := rankByScore(s.Teams)
	out := make([]Standing, len(ranked))
	locked := len(s.Qualified) == 2
	for i, t := range ranked {
		q := s.IsQualified(t.ID)
		out[i] = Standing{
			Rank:       i + 1,
			Team:       t,
			Qualified:  q,
			Eliminated: locked && !q,
		}
	}
	return out
}
