package services

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sort"

	"github.com/mediaarena/arena/brackets"
	"github.com/mediaarena/arena/models"
)

// TournamentConfig carries the per-mode knobs supplied by the shell.
// TotalRounds is required for the rating mode and ignored otherwise.
type TournamentConfig struct {
	TotalRounds int `json:"total_rounds"`
}

// TournamentService is the state machine driving both progression models.
// All state is an explicit value passed by the caller; the service itself
// only holds the generators and their randomness source, so the caller is
// responsible for serializing calls per state.
type TournamentService interface {
	StartTournament(items []models.Item, mode models.Mode, config TournamentConfig) (*models.TournamentState, *models.MatchView, error)
	ApplyVote(state *models.TournamentState, outcome models.Outcome) (*models.MatchView, error)
	NextMatchView(state *models.TournamentState) (*models.MatchView, error)
	ComputeRanking(state *models.TournamentState) ([]models.RankingRow, error)
}

type tournamentService struct {
	pairer    *brackets.SwissPairer
	generator *brackets.SingleEliminationGenerator
	logger    *slog.Logger
}

func NewTournamentService(rng *rand.Rand, logger *slog.Logger) TournamentService {
	// Per-session locking does not cover the generators, which are shared
	// by every session; the rng needs its own guard.
	shuffler := brackets.NewLockedRand(rng)
	return &tournamentService{
		pairer:    brackets.NewSwissPairer(shuffler),
		generator: brackets.NewSingleEliminationGenerator(shuffler),
		logger:    logger,
	}
}

func (s *tournamentService) StartTournament(items []models.Item, mode models.Mode, config TournamentConfig) (*models.TournamentState, *models.MatchView, error) {
	if len(items) < 2 {
		return nil, nil, ErrInsufficientItems
	}

	state := &models.TournamentState{
		Mode:  mode,
		Items: make(map[string]models.Item, len(items)),
		Order: make([]string, 0, len(items)),
	}
	for _, item := range items {
		if item.ID == "" {
			return nil, nil, ErrInvalidItem
		}
		if _, exists := state.Items[item.ID]; exists {
			return nil, nil, fmt.Errorf("%w: %s", ErrDuplicateItem, item.ID)
		}
		state.Items[item.ID] = item
		state.Order = append(state.Order, item.ID)
	}

	switch mode {
	case models.ModeElimination:
		es := &models.EliminationState{
			Players: make(map[string]*models.EliminationRecord, len(items)),
			Round:   1,
		}
		for _, id := range state.Order {
			es.Players[id] = &models.EliminationRecord{Status: models.PlayerActive}
		}
		matches, bye := s.generator.StartBracket(state.Order)
		es.Matchups = matches
		if bye != "" {
			es.Players[bye].Status = models.PlayerWinner
		}
		state.Elimination = es

	case models.ModeRatingRoundRobin:
		if config.TotalRounds < 1 {
			return nil, nil, ErrInvalidTotalRounds
		}
		rs := &models.RatingState{
			Players:      make(map[string]*models.RatingRecord, len(items)),
			CurrentRound: 1,
			TotalRounds:  config.TotalRounds,
			MatchHistory: make(map[string]bool),
		}
		for _, id := range state.Order {
			rs.Players[id] = &models.RatingRecord{Rating: models.InitialRating}
		}
		rs.Matchups = s.pairer.CreatePairings(state.Order, rs)
		state.Rating = rs

	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	s.logger.Info("tournament started",
		slog.String("mode", string(mode)),
		slog.Int("items", len(items)))

	view, err := s.NextMatchView(state)
	if err != nil {
		return nil, nil, err
	}
	return state, view, nil
}

func (s *tournamentService) ApplyVote(state *models.TournamentState, outcome models.Outcome) (*models.MatchView, error) {
	if err := validateState(state); err != nil {
		return nil, err
	}

	switch state.Mode {
	case models.ModeRatingRoundRobin:
		if err := s.applyRatingVote(state, outcome); err != nil {
			return nil, err
		}
	case models.ModeElimination:
		if err := s.applyEliminationVote(state, outcome); err != nil {
			return nil, err
		}
	}
	return s.NextMatchView(state)
}

func (s *tournamentService) applyRatingVote(state *models.TournamentState, outcome models.Outcome) error {
	rs := state.Rating
	if rs.CurrentRound > rs.TotalRounds {
		return ErrTournamentCompleted
	}
	if rs.CurrentMatchIndex >= len(rs.Matchups) {
		// NextMatchView advances exhausted rounds eagerly after every
		// vote, so a live state never parks the cursor here.
		return ErrInvalidState
	}

	match := rs.Matchups[rs.CurrentMatchIndex]

	var result, scoreA, scoreB float64
	switch outcome {
	case models.OutcomeA:
		result, scoreA, scoreB = brackets.ResultWinA, 1, 0
	case models.OutcomeB:
		result, scoreA, scoreB = brackets.ResultWinB, 0, 1
	case models.OutcomeTie:
		result, scoreA, scoreB = brackets.ResultTie, 0.5, 0.5
	default:
		return fmt.Errorf("%w: %q", ErrIllegalOutcome, outcome)
	}

	recA := rs.Players[match.A]
	recB := rs.Players[match.B]
	if recA == nil || recB == nil {
		return ErrInvalidState
	}

	rs.MatchHistory[match.Key()] = true

	recA.Rating, recB.Rating = brackets.UpdateRatings(float64(recA.Rating), float64(recB.Rating), result)
	recA.Score += scoreA
	recB.Score += scoreB
	recA.MatchesPlayed++
	recB.MatchesPlayed++
	rs.CurrentMatchIndex++
	return nil
}

func (s *tournamentService) applyEliminationVote(state *models.TournamentState, outcome models.Outcome) error {
	es := state.Elimination
	if es.CurrentMatchIndex >= len(es.Matchups) {
		// Only reachable once the champion is decided.
		return ErrTournamentCompleted
	}

	match := es.Matchups[es.CurrentMatchIndex]

	var winner, loser string
	switch outcome {
	case models.OutcomeA:
		winner, loser = match.A, match.B
	case models.OutcomeB:
		winner, loser = match.B, match.A
	case models.OutcomeTie:
		// A knockout match needs a decision; rejecting the tie beats
		// silently stalling the cursor.
		return fmt.Errorf("%w: tie is not allowed in single elimination", ErrIllegalOutcome)
	default:
		return fmt.Errorf("%w: %q", ErrIllegalOutcome, outcome)
	}

	winRec, loseRec := es.Players[winner], es.Players[loser]
	if winRec == nil || loseRec == nil {
		return ErrInvalidState
	}
	round := es.Round
	winRec.Status = models.PlayerWinner
	loseRec.Status = models.PlayerEliminated
	loseRec.EliminatedInRound = &round
	es.CurrentMatchIndex++
	return nil
}

// NextMatchView resolves the state to a render-ready view, advancing
// exhausted rounds on the way. Repeated calls without an intervening vote
// return identical views.
func (s *tournamentService) NextMatchView(state *models.TournamentState) (*models.MatchView, error) {
	if err := validateState(state); err != nil {
		return nil, err
	}
	if state.Mode == models.ModeRatingRoundRobin {
		return s.ratingView(state)
	}
	return s.eliminationView(state)
}

func (s *tournamentService) ratingView(state *models.TournamentState) (*models.MatchView, error) {
	rs := state.Rating

	if rs.CurrentRound <= rs.TotalRounds && rs.CurrentMatchIndex >= len(rs.Matchups) {
		rs.CurrentRound++
		if rs.CurrentRound <= rs.TotalRounds {
			rs.Matchups = s.pairer.CreatePairings(state.Order, rs)
			rs.CurrentMatchIndex = 0
			if len(rs.Matchups) == 0 {
				// Every pairing that is not a rematch has been played;
				// terminate early.
				rs.PairingsExhausted = true
				rs.CurrentRound = rs.TotalRounds + 1
				s.logger.Info("rating tournament terminated, pairings exhausted",
					slog.Int("round", rs.CurrentRound-1))
			}
		}
	}

	ranking, err := s.ComputeRanking(state)
	if err != nil {
		return nil, err
	}

	if rs.CurrentRound > rs.TotalRounds {
		text := "Rating tournament complete. Final standings are ready."
		if rs.PairingsExhausted {
			text = "All possible pairings have been played. Final standings are ready."
		}
		return &models.MatchView{
			StatusText: text,
			Completed:  true,
			Ranking:    ranking,
		}, nil
	}

	match := rs.Matchups[rs.CurrentMatchIndex]
	left := state.Items[match.A]
	right := state.Items[match.B]
	return &models.MatchView{
		StatusText: fmt.Sprintf("Round %d/%d, match %d/%d",
			rs.CurrentRound, rs.TotalRounds, rs.CurrentMatchIndex+1, len(rs.Matchups)),
		Left:          &left,
		Right:         &right,
		ShowTieOption: true,
		Round:         rs.CurrentRound,
		TotalRounds:   rs.TotalRounds,
		MatchNumber:   rs.CurrentMatchIndex + 1,
		MatchCount:    len(rs.Matchups),
		Ranking:       ranking,
	}, nil
}

func (s *tournamentService) eliminationView(state *models.TournamentState) (*models.MatchView, error) {
	es := state.Elimination

	if es.CurrentMatchIndex >= len(es.Matchups) {
		winners := eliminationWinners(state)
		if len(winners) == 0 {
			return nil, ErrInvalidState
		}
		if len(winners) == 1 {
			return s.championView(state, winners[0])
		}

		es.Round++
		es.CurrentMatchIndex = 0
		for _, id := range winners {
			es.Players[id].Status = models.PlayerActive
		}
		matches, bye := s.generator.AdvanceRound(winners)
		es.Matchups = matches
		if bye != "" {
			es.Players[bye].Status = models.PlayerWinner
		}
	}

	match := es.Matchups[es.CurrentMatchIndex]
	left := state.Items[match.A]
	right := state.Items[match.B]
	return &models.MatchView{
		StatusText: fmt.Sprintf("Round %d, match %d/%d",
			es.Round, es.CurrentMatchIndex+1, len(es.Matchups)),
		Left:        &left,
		Right:       &right,
		Round:       es.Round,
		MatchNumber: es.CurrentMatchIndex + 1,
		MatchCount:  len(es.Matchups),
	}, nil
}

func (s *tournamentService) championView(state *models.TournamentState, championID string) (*models.MatchView, error) {
	es := state.Elimination

	// Rank the champion strictly above every real elimination round so it
	// always sorts first in the final table.
	finalRound := es.Round + 1
	es.Players[championID].Status = models.PlayerWinner
	es.Players[championID].EliminatedInRound = &finalRound

	ranking, err := s.ComputeRanking(state)
	if err != nil {
		return nil, err
	}

	champion := state.Items[championID]
	return &models.MatchView{
		StatusText: fmt.Sprintf("Champion: %s", champion.Name),
		Completed:  true,
		Ranking:    ranking,
		Champion:   &champion,
	}, nil
}

// ComputeRanking derives the leaderboard from the current state, one row
// per item. Equal metrics keep insertion order.
func (s *tournamentService) ComputeRanking(state *models.TournamentState) ([]models.RankingRow, error) {
	if err := validateState(state); err != nil {
		return nil, err
	}

	rows := make([]models.RankingRow, 0, len(state.Order))

	switch state.Mode {
	case models.ModeRatingRoundRobin:
		rs := state.Rating
		for _, id := range state.Order {
			rec := rs.Players[id]
			if rec == nil {
				return nil, ErrInvalidState
			}
			rows = append(rows, models.RankingRow{
				Name:          state.Items[id].Name,
				Rating:        rec.Rating,
				Score:         rec.Score,
				MatchesPlayed: rec.MatchesPlayed,
			})
		}
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Rating > rows[j].Rating
		})

	case models.ModeElimination:
		es := state.Elimination
		type entry struct {
			name      string
			rankOrder int
		}
		entries := make([]entry, 0, len(state.Order))
		for _, id := range state.Order {
			rec := es.Players[id]
			if rec == nil {
				return nil, ErrInvalidState
			}
			rankOrder := 0
			if rec.EliminatedInRound != nil {
				rankOrder = *rec.EliminatedInRound
			}
			entries = append(entries, entry{name: state.Items[id].Name, rankOrder: rankOrder})
		}
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].rankOrder > entries[j].rankOrder
		})
		for _, e := range entries {
			rows = append(rows, models.RankingRow{Name: e.name})
		}
	}

	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}

func eliminationWinners(state *models.TournamentState) []string {
	es := state.Elimination
	winners := make([]string, 0, len(es.Players))
	for _, id := range state.Order {
		if rec, ok := es.Players[id]; ok && rec.Status == models.PlayerWinner {
			winners = append(winners, id)
		}
	}
	return winners
}

// validateState guards every transition against foreign or corrupted
// state values. A failure here tells the shell to discard the state and
// restart; it never crashes the process.
func validateState(state *models.TournamentState) error {
	if state == nil || state.Items == nil || len(state.Order) != len(state.Items) {
		return ErrInvalidState
	}
	switch state.Mode {
	case models.ModeElimination:
		es := state.Elimination
		if es == nil || state.Rating != nil || es.Players == nil {
			return ErrInvalidState
		}
		if es.CurrentMatchIndex < 0 || es.CurrentMatchIndex > len(es.Matchups) {
			return ErrInvalidState
		}
	case models.ModeRatingRoundRobin:
		rs := state.Rating
		if rs == nil || state.Elimination != nil || rs.Players == nil || rs.MatchHistory == nil {
			return ErrInvalidState
		}
		if rs.CurrentMatchIndex < 0 || rs.CurrentMatchIndex > len(rs.Matchups) {
			return ErrInvalidState
		}
	default:
		return ErrInvalidState
	}
	return nil
}
