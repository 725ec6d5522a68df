package models

// Mode selects the tournament progression model.
type Mode string

const (
	ModeElimination      Mode = "single_elimination"
	ModeRatingRoundRobin Mode = "rating_round_robin"
)

// Outcome is one vote from the shell, seen from the current match.
type Outcome string

const (
	OutcomeA   Outcome = "A"
	OutcomeB   Outcome = "B"
	OutcomeTie Outcome = "tie"
)

// PlayerStatus tracks a player through the knockout bracket. Transitions
// only ever go active -> winner or active -> eliminated within a round;
// winners are reset to active when the next round starts.
type PlayerStatus string

const (
	PlayerActive     PlayerStatus = "active"
	PlayerEliminated PlayerStatus = "eliminated"
	PlayerWinner     PlayerStatus = "winner"
)

// InitialRating is the rating every player starts the rating mode with.
const InitialRating = 1500

// EliminationRecord is the per-item record in single elimination mode.
type EliminationRecord struct {
	Status            PlayerStatus `json:"status"`
	EliminatedInRound *int         `json:"eliminated_in_round,omitempty"`
}

// RatingRecord is the per-item record in the rating mode.
type RatingRecord struct {
	Rating        int     `json:"rating"`
	Score         float64 `json:"score"`
	MatchesPlayed int     `json:"matches_played"`
}

// EliminationState holds everything the knockout bracket needs between
// votes. CurrentMatchIndex == len(Matchups) signals an exhausted round.
type EliminationState struct {
	Players           map[string]*EliminationRecord `json:"players"`
	Matchups          []Match                       `json:"matchups"`
	CurrentMatchIndex int                           `json:"current_match_index"`
	Round             int                           `json:"round"`
}

// RatingState holds everything the Swiss rounds need between votes.
// MatchHistory grows monotonically and is keyed by PairKey.
type RatingState struct {
	Players           map[string]*RatingRecord `json:"players"`
	Matchups          []Match                  `json:"matchups"`
	CurrentMatchIndex int                      `json:"current_match_index"`
	CurrentRound      int                      `json:"current_round"`
	TotalRounds       int                      `json:"total_rounds"`
	MatchHistory      map[string]bool          `json:"match_history"`
	PairingsExhausted bool                     `json:"pairings_exhausted,omitempty"`
}

// TournamentState is the single source of truth for one session. Exactly
// one of Elimination/Rating is populated, matching Mode. Order preserves
// the insertion order of items and gives equal ranks a stable secondary
// sort.
type TournamentState struct {
	Mode        Mode              `json:"mode"`
	Items       map[string]Item   `json:"items"`
	Order       []string          `json:"order"`
	Elimination *EliminationState `json:"elimination,omitempty"`
	Rating      *RatingState      `json:"rating,omitempty"`
}
