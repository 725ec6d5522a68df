package brackets

import (
	"github.com/mediaarena/arena/models"
)

// SingleEliminationGenerator builds one knockout round at a time. There is
// no fixed bracket tree: survivors are reshuffled before every round, and
// an odd field promotes the last item after the shuffle as a bye.
type SingleEliminationGenerator struct {
	rng Shuffler
}

func NewSingleEliminationGenerator(rng Shuffler) *SingleEliminationGenerator {
	return &SingleEliminationGenerator{rng: rng}
}

// StartBracket pairs the initial field. The second return value is the ID
// of the bye item, or "" when the field is even.
func (g *SingleEliminationGenerator) StartBracket(items []string) ([]models.Match, string) {
	return g.pairRound(items)
}

// AdvanceRound pairs the winners of the previous round, with the same bye
// rule as the initial round.
func (g *SingleEliminationGenerator) AdvanceRound(winners []string) ([]models.Match, string) {
	return g.pairRound(winners)
}

func (g *SingleEliminationGenerator) pairRound(ids []string) ([]models.Match, string) {
	shuffled := make([]string, len(ids))
	copy(shuffled, ids)
	g.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	bye := ""
	if len(shuffled)%2 != 0 {
		bye = shuffled[len(shuffled)-1]
		shuffled = shuffled[:len(shuffled)-1]
	}

	matches := make([]models.Match, 0, len(shuffled)/2)
	for i := 0; i < len(shuffled); i += 2 {
		matches = append(matches, models.Match{A: shuffled[i], B: shuffled[i+1]})
	}
	return matches, bye
}
