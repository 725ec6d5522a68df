package brackets

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartBracketEvenField(t *testing.T) {
	g := NewSingleEliminationGenerator(rand.New(rand.NewSource(1)))

	matches, bye := g.StartBracket([]string{"a", "b", "c", "d"})

	require.Len(t, matches, 2)
	assert.Empty(t, bye)

	seen := make(map[string]bool)
	for _, m := range matches {
		assert.NotEqual(t, m.A, m.B, "self pairing")
		seen[m.A], seen[m.B] = true, true
	}
	assert.Len(t, seen, 4, "every item must appear exactly once")
}

func TestStartBracketOddFieldProducesBye(t *testing.T) {
	g := NewSingleEliminationGenerator(rand.New(rand.NewSource(2)))

	matches, bye := g.StartBracket([]string{"a", "b", "c"})

	require.Len(t, matches, 1)
	require.NotEmpty(t, bye)
	assert.NotEqual(t, bye, matches[0].A)
	assert.NotEqual(t, bye, matches[0].B)
}

func TestAdvanceRoundPairsWinners(t *testing.T) {
	g := NewSingleEliminationGenerator(rand.New(rand.NewSource(3)))

	matches, bye := g.AdvanceRound([]string{"w1", "w2"})

	require.Len(t, matches, 1)
	assert.Empty(t, bye)
	assert.ElementsMatch(t, []string{"w1", "w2"}, []string{matches[0].A, matches[0].B})
}

func TestPairRoundDoesNotMutateInput(t *testing.T) {
	g := NewSingleEliminationGenerator(rand.New(rand.NewSource(4)))
	items := []string{"a", "b", "c", "d", "e"}

	g.StartBracket(items)

	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, items)
}
