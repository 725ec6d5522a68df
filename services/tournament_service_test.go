package services

import (
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediaarena/arena/models"
)

func newTestEngine(seed int64) TournamentService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewTournamentService(rand.New(rand.NewSource(seed)), logger)
}

func testItems(ids ...string) []models.Item {
	items := make([]models.Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, models.Item{ID: id, Name: "Item " + id})
	}
	return items
}

// currentMatch reads the match the cursor points at, before a vote
// consumes it.
func currentMatch(t *testing.T, state *models.TournamentState) models.Match {
	t.Helper()
	switch state.Mode {
	case models.ModeElimination:
		return state.Elimination.Matchups[state.Elimination.CurrentMatchIndex]
	default:
		return state.Rating.Matchups[state.Rating.CurrentMatchIndex]
	}
}

func TestStartTournamentValidation(t *testing.T) {
	engine := newTestEngine(1)

	t.Run("fewer than two items", func(t *testing.T) {
		_, _, err := engine.StartTournament(testItems("a"), models.ModeElimination, TournamentConfig{})
		assert.ErrorIs(t, err, ErrInsufficientItems)
	})

	t.Run("duplicate item id", func(t *testing.T) {
		_, _, err := engine.StartTournament(testItems("a", "a"), models.ModeElimination, TournamentConfig{})
		assert.ErrorIs(t, err, ErrDuplicateItem)
	})

	t.Run("empty item id", func(t *testing.T) {
		_, _, err := engine.StartTournament(testItems("a", ""), models.ModeElimination, TournamentConfig{})
		assert.ErrorIs(t, err, ErrInvalidItem)
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, _, err := engine.StartTournament(testItems("a", "b"), models.Mode("double_elimination"), TournamentConfig{})
		assert.ErrorIs(t, err, ErrInvalidMode)
	})

	t.Run("rating mode without rounds", func(t *testing.T) {
		_, _, err := engine.StartTournament(testItems("a", "b"), models.ModeRatingRoundRobin, TournamentConfig{})
		assert.ErrorIs(t, err, ErrInvalidTotalRounds)
	})
}

func TestEliminationFourItems(t *testing.T) {
	engine := newTestEngine(42)

	state, view, err := engine.StartTournament(testItems("A", "B", "C", "D"), models.ModeElimination, TournamentConfig{})
	require.NoError(t, err)
	require.Len(t, state.Elimination.Matchups, 2, "four items queue exactly two matches")
	assert.Equal(t, 1, view.Round)
	assert.False(t, view.ShowTieOption, "elimination mode never offers a tie")
	assert.False(t, view.Completed)

	// Round 1: the left item wins both matches.
	roundOneWinners := make([]string, 0, 2)
	for i := 0; i < 2; i++ {
		roundOneWinners = append(roundOneWinners, currentMatch(t, state).A)
		view, err = engine.ApplyVote(state, models.OutcomeA)
		require.NoError(t, err)
	}

	// Round 2 must pair the two round-1 winners.
	require.False(t, view.Completed)
	assert.Equal(t, 2, view.Round)
	assert.Equal(t, 1, view.MatchCount)
	final := currentMatch(t, state)
	assert.ElementsMatch(t, roundOneWinners, []string{final.A, final.B})

	champion := final.A
	view, err = engine.ApplyVote(state, models.OutcomeA)
	require.NoError(t, err)

	require.True(t, view.Completed)
	require.NotNil(t, view.Champion)
	assert.Equal(t, champion, view.Champion.ID)
	require.Len(t, view.Ranking, 4)
	assert.Equal(t, 1, view.Ranking[0].Rank)
	assert.Equal(t, "Item "+champion, view.Ranking[0].Name)
}

func TestEliminationThreeItemsWithBye(t *testing.T) {
	engine := newTestEngine(7)

	state, view, err := engine.StartTournament(testItems("A", "B", "C"), models.ModeElimination, TournamentConfig{})
	require.NoError(t, err)

	require.Len(t, state.Elimination.Matchups, 1, "three items queue one match plus a bye")
	byeWinners := 0
	var byeID string
	for id, rec := range state.Elimination.Players {
		if rec.Status == models.PlayerWinner {
			byeWinners++
			byeID = id
		}
	}
	require.Equal(t, 1, byeWinners, "odd field promotes exactly one bye winner")
	assert.Equal(t, 1, view.Round)

	matchWinner := currentMatch(t, state).A
	view, err = engine.ApplyVote(state, models.OutcomeA)
	require.NoError(t, err)

	// Round 2 is a single final between the bye winner and the match winner.
	require.False(t, view.Completed)
	assert.Equal(t, 2, view.Round)
	require.Equal(t, 1, view.MatchCount)
	final := currentMatch(t, state)
	assert.ElementsMatch(t, []string{byeID, matchWinner}, []string{final.A, final.B})

	view, err = engine.ApplyVote(state, models.OutcomeA)
	require.NoError(t, err)
	assert.True(t, view.Completed)
	assert.Len(t, view.Ranking, 3)
}

func TestEliminationRejectsTie(t *testing.T) {
	engine := newTestEngine(3)

	state, _, err := engine.StartTournament(testItems("A", "B"), models.ModeElimination, TournamentConfig{})
	require.NoError(t, err)

	_, err = engine.ApplyVote(state, models.OutcomeTie)
	assert.ErrorIs(t, err, ErrIllegalOutcome)

	// The cursor must not have moved.
	assert.Equal(t, 0, state.Elimination.CurrentMatchIndex)
}

func TestEliminationStatusesNeverReverse(t *testing.T) {
	engine := newTestEngine(13)

	state, view, err := engine.StartTournament(testItems("A", "B", "C", "D", "E"), models.ModeElimination, TournamentConfig{})
	require.NoError(t, err)

	eliminated := make(map[string]bool)
	for !view.Completed {
		view, err = engine.ApplyVote(state, models.OutcomeB)
		require.NoError(t, err)

		for id, rec := range state.Elimination.Players {
			if eliminated[id] {
				assert.Equal(t, models.PlayerEliminated, rec.Status,
					"eliminated item %s came back", id)
			}
			if rec.Status == models.PlayerEliminated {
				eliminated[id] = true
			}
		}
	}
	assert.Len(t, eliminated, 4, "all but the champion end up eliminated")
}

func TestRatingFourItemsTwoRounds(t *testing.T) {
	engine := newTestEngine(99)

	state, view, err := engine.StartTournament(testItems("A", "B", "C", "D"), models.ModeRatingRoundRobin, TournamentConfig{TotalRounds: 2})
	require.NoError(t, err)

	rs := state.Rating
	require.Len(t, rs.Matchups, 2, "first round pairs the whole field")
	assert.True(t, view.ShowTieOption)
	assert.Equal(t, 1, view.Round)
	assert.Equal(t, 2, view.TotalRounds)

	roundOneKeys := map[string]bool{
		rs.Matchups[0].Key(): true,
		rs.Matchups[1].Key(): true,
	}

	view, err = engine.ApplyVote(state, models.OutcomeA)
	require.NoError(t, err)
	view, err = engine.ApplyVote(state, models.OutcomeA)
	require.NoError(t, err)

	// Round 2 must not replay either round-1 pair.
	require.False(t, view.Completed)
	assert.Equal(t, 2, rs.CurrentRound)
	require.NotEmpty(t, rs.Matchups)
	for _, m := range rs.Matchups {
		assert.False(t, roundOneKeys[m.Key()], "round 2 replayed %s vs %s", m.A, m.B)
	}

	for !view.Completed {
		view, err = engine.ApplyVote(state, models.OutcomeA)
		require.NoError(t, err)
	}
	assert.True(t, view.Completed)
	assert.Len(t, view.Ranking, 4)
}

func TestRatingVoteUpdatesRecords(t *testing.T) {
	engine := newTestEngine(5)

	state, _, err := engine.StartTournament(testItems("A", "B"), models.ModeRatingRoundRobin, TournamentConfig{TotalRounds: 1})
	require.NoError(t, err)

	match := currentMatch(t, state)
	_, err = engine.ApplyVote(state, models.OutcomeA)
	require.NoError(t, err)

	winner := state.Rating.Players[match.A]
	loser := state.Rating.Players[match.B]
	assert.Equal(t, 1516, winner.Rating)
	assert.Equal(t, 1484, loser.Rating)
	assert.Equal(t, 1.0, winner.Score)
	assert.Equal(t, 0.0, loser.Score)
	assert.Equal(t, 1, winner.MatchesPlayed)
	assert.Equal(t, 1, loser.MatchesPlayed)
	assert.True(t, state.Rating.MatchHistory[match.Key()], "vote must be recorded in history")
}

func TestRatingTieLeavesEqualRatingsUnchanged(t *testing.T) {
	engine := newTestEngine(6)

	state, _, err := engine.StartTournament(testItems("A", "B"), models.ModeRatingRoundRobin, TournamentConfig{TotalRounds: 1})
	require.NoError(t, err)

	_, err = engine.ApplyVote(state, models.OutcomeTie)
	require.NoError(t, err)

	for _, rec := range state.Rating.Players {
		assert.Equal(t, models.InitialRating, rec.Rating)
		assert.Equal(t, 0.5, rec.Score)
	}
}

func TestRatingTerminatesWhenPairingsExhausted(t *testing.T) {
	engine := newTestEngine(8)

	// Two items support exactly one fresh pairing; the remaining rounds
	// cannot be filled and the tournament must end early.
	state, _, err := engine.StartTournament(testItems("A", "B"), models.ModeRatingRoundRobin, TournamentConfig{TotalRounds: 3})
	require.NoError(t, err)

	view, err := engine.ApplyVote(state, models.OutcomeA)
	require.NoError(t, err)

	require.True(t, view.Completed)
	assert.Contains(t, view.StatusText, "All possible pairings")
	assert.True(t, state.Rating.PairingsExhausted)
	assert.Equal(t, state.Rating.TotalRounds+1, state.Rating.CurrentRound)

	// The termination view must be stable across repeated calls.
	again, err := engine.NextMatchView(state)
	require.NoError(t, err)
	assert.Equal(t, view, again)
}

func TestVoteAfterCompletionRejected(t *testing.T) {
	engine := newTestEngine(10)

	state, _, err := engine.StartTournament(testItems("A", "B"), models.ModeElimination, TournamentConfig{})
	require.NoError(t, err)

	view, err := engine.ApplyVote(state, models.OutcomeA)
	require.NoError(t, err)
	require.True(t, view.Completed)

	_, err = engine.ApplyVote(state, models.OutcomeA)
	assert.ErrorIs(t, err, ErrTournamentCompleted)
}

func TestNextMatchViewIdempotent(t *testing.T) {
	t.Run("elimination", func(t *testing.T) {
		engine := newTestEngine(20)
		state, _, err := engine.StartTournament(testItems("A", "B", "C", "D"), models.ModeElimination, TournamentConfig{})
		require.NoError(t, err)

		first, err := engine.NextMatchView(state)
		require.NoError(t, err)
		second, err := engine.NextMatchView(state)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("rating", func(t *testing.T) {
		engine := newTestEngine(21)
		state, _, err := engine.StartTournament(testItems("A", "B", "C", "D"), models.ModeRatingRoundRobin, TournamentConfig{TotalRounds: 2})
		require.NoError(t, err)

		first, err := engine.NextMatchView(state)
		require.NoError(t, err)
		second, err := engine.NextMatchView(state)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestInvalidStateRejected(t *testing.T) {
	engine := newTestEngine(30)

	t.Run("nil state", func(t *testing.T) {
		_, err := engine.NextMatchView(nil)
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("mode and sub-state disagree", func(t *testing.T) {
		state, _, err := engine.StartTournament(testItems("A", "B"), models.ModeElimination, TournamentConfig{})
		require.NoError(t, err)
		state.Rating = &models.RatingState{}

		_, err = engine.ApplyVote(state, models.OutcomeA)
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("cursor out of range", func(t *testing.T) {
		state, _, err := engine.StartTournament(testItems("A", "B"), models.ModeElimination, TournamentConfig{})
		require.NoError(t, err)
		state.Elimination.CurrentMatchIndex = 5

		_, err = engine.NextMatchView(state)
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestComputeRankingExhaustive(t *testing.T) {
	t.Run("rating mid-tournament", func(t *testing.T) {
		engine := newTestEngine(40)
		state, _, err := engine.StartTournament(testItems("A", "B", "C", "D"), models.ModeRatingRoundRobin, TournamentConfig{TotalRounds: 3})
		require.NoError(t, err)

		_, err = engine.ApplyVote(state, models.OutcomeA)
		require.NoError(t, err)

		rows, err := engine.ComputeRanking(state)
		require.NoError(t, err)
		require.Len(t, rows, 4)

		names := make(map[string]bool)
		for i, row := range rows {
			assert.Equal(t, i+1, row.Rank)
			assert.False(t, names[row.Name], "duplicate row for %s", row.Name)
			names[row.Name] = true
		}
		// Ratings must be sorted descending.
		for i := 1; i < len(rows); i++ {
			assert.GreaterOrEqual(t, rows[i-1].Rating, rows[i].Rating)
		}
	})

	t.Run("elimination champion ranks first", func(t *testing.T) {
		engine := newTestEngine(41)
		state, view, err := engine.StartTournament(testItems("A", "B", "C"), models.ModeElimination, TournamentConfig{})
		require.NoError(t, err)

		for !view.Completed {
			view, err = engine.ApplyVote(state, models.OutcomeA)
			require.NoError(t, err)
		}

		rows, err := engine.ComputeRanking(state)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		require.NotNil(t, view.Champion)
		assert.Equal(t, view.Champion.Name, rows[0].Name)
		assert.Equal(t, 1, rows[0].Rank)
	})
}
