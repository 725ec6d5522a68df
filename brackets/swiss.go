package brackets

import (
	"sort"

	"github.com/mediaarena/arena/models"
)

// SwissPairer generates one round of pairings for the rating mode. Players
// are grouped by score, shuffled within their group and paired top-down;
// a pair that already played is deferred to the next group instead of
// being rematched.
type SwissPairer struct {
	rng Shuffler
}

func NewSwissPairer(rng Shuffler) *SwissPairer {
	return &SwissPairer{rng: rng}
}

// CreatePairings returns the matchups for the next round. Items left over
// after the lowest score group simply sit this round out. An empty result
// means no pairing remains that would not be a rematch; the caller treats
// that as tournament termination.
func (p *SwissPairer) CreatePairings(order []string, state *models.RatingState) []models.Match {
	byScore := make(map[float64][]string)
	for _, id := range order {
		rec, ok := state.Players[id]
		if !ok {
			continue
		}
		byScore[rec.Score] = append(byScore[rec.Score], id)
	}

	scores := make([]float64, 0, len(byScore))
	for score := range byScore {
		scores = append(scores, score)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(scores)))

	var matches []models.Match
	var carry []string
	for _, score := range scores {
		group := byScore[score]
		p.rng.Shuffle(len(group), func(i, j int) {
			group[i], group[j] = group[j], group[i]
		})
		group = append(carry, group...)
		carry = nil

		if len(group)%2 != 0 {
			carry = append(carry, group[len(group)-1])
			group = group[:len(group)-1]
		}

		for i := 0; i < len(group); i += 2 {
			a, b := group[i], group[i+1]
			if state.MatchHistory[models.PairKey(a, b)] {
				// Sacrifice the pairing rather than allow a rematch.
				carry = append(carry, a, b)
				continue
			}
			matches = append(matches, models.Match{A: a, B: b})
		}
	}

	return matches
}
