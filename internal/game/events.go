package game

// EventType names something the presentation layer may want to react to.
type EventType string

const (
	EventShotStruck    EventType = "ShotStruck"
	EventBallPocketed  EventType = "BallPocketed"
	EventFoulDetected  EventType = "FoulDetected"
	EventTeamsAssigned EventType = "TeamsAssigned"
	EventTurnPassed    EventType = "TurnPassed"
	EventTurnContinued EventType = "TurnContinued"
	EventMatchWon      EventType = "MatchWon"
	EventMatchLost     EventType = "MatchLost"
	EventMatchReset    EventType = "MatchReset"
)

// FoulReason says why a foul was called.
type FoulReason string

const (
	FoulWhiteBall FoulReason = "whiteBall"
	FoulWrongTeam FoulReason = "wrongTeam"
)

// Event is one rule or physics outcome. Only the fields relevant to Type are set.
type Event struct {
	Type       EventType  `json:"type"`
	Player     int        `json:"player,omitempty"`
	NextPlayer int        `json:"next_player,omitempty"`
	BallID     int        `json:"ball_id,omitempty"`
	PocketID   int        `json:"pocket_id,omitempty"`
	Team       Team       `json:"team,omitempty"`
	Reason     FoulReason `json:"reason,omitempty"`
	Scores     [2]int     `json:"scores"`
	Shot       int        `json:"shot"`
}

// IsMatchOver reports whether the event ended the match.
func (e Event) IsMatchOver() bool {
	return e.Type == EventMatchWon || e.Type == EventMatchLost
}

// IsTurnEnd reports whether the event closed a turn.
func (e Event) IsTurnEnd() bool {
	return e.Type == EventTurnPassed || e.Type == EventTurnContinued
}
