package models

// RankingRow is one line of the leaderboard. Rating mode fills all
// metrics; elimination mode exposes rank and name only.
type RankingRow struct {
	Rank          int     `json:"rank"`
	Name          string  `json:"name"`
	Rating        int     `json:"rating,omitempty"`
	Score         float64 `json:"score,omitempty"`
	MatchesPlayed int     `json:"matches_played,omitempty"`
}

// MatchView is the render-only projection the shell receives after every
// engine call. It carries no behavior.
type MatchView struct {
	StatusText    string       `json:"status_text"`
	Completed     bool         `json:"completed"`
	Left          *Item        `json:"left_item,omitempty"`
	Right         *Item        `json:"right_item,omitempty"`
	ShowTieOption bool         `json:"show_tie_option"`
	Round         int          `json:"round,omitempty"`
	TotalRounds   int          `json:"total_rounds,omitempty"`
	MatchNumber   int          `json:"match_number,omitempty"`
	MatchCount    int          `json:"match_count,omitempty"`
	Ranking       []RankingRow `json:"ranking_table,omitempty"`
	Champion      *Item        `json:"champion_item,omitempty"`
}
