package search

import (
	"sort"

	"community-sport/backend/internal/domain/program"
)

const DefaultFeaturedLimit = 6

// Scored pairs a program with its featured score.
type Scored struct {
	program.Program
	Score int `json:"score"`
}

// Score favors beginner-friendly and free or cheap programs.
func Score(p program.Program) int {
	score := 0
	if p.HasInclusivityTag(program.TagBeginnerFriendly) {
		score += 2
	}
	if p.Cost == 0 {
		score += 2
	}
	if p.Cost > 0 && p.Cost <= 5 {
		score++
	}
	return score
}

// Featured returns up to limit programs, highest score first and cheapest
// first among equal scores. A non-positive limit means DefaultFeaturedLimit.
func Featured(programs []program.Program, limit int) []Scored {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}

	scored := make([]Scored, 0, len(programs))
	for _, p := range programs {
		scored = append(scored, Scored{Program: p, Score: Score(p)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Cost < scored[j].Cost
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
