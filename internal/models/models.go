package models

import "time"

// MatchResult is one finished match in the results ledger.
type MatchResult struct {
	ID           int       `db:"id" json:"id"`
	MatchID      string    `db:"match_id" json:"match_id"`
	WinnerSeat   int       `db:"winner_seat" json:"winner_seat"`
	LoserSeat    int       `db:"loser_seat" json:"loser_seat"`
	Outcome      string    `db:"outcome" json:"outcome"` // "cleared" or "early_black"
	WinnerTeam   string    `db:"winner_team" json:"winner_team"`
	Player1Score int       `db:"player1_score" json:"player1_score"`
	Player2Score int       `db:"player2_score" json:"player2_score"`
	Shots        int       `db:"shots" json:"shots"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

const (
	OutcomeCleared    = "cleared"
	OutcomeEarlyBlack = "early_black"
)
