package game

import (
	"log"
)

// TurnState is the phase of the shot cycle.
type TurnState string

const (
	StateAwaitingShot  TurnState = "awaiting_shot"
	StateStrikePending TurnState = "strike_pending"
	StateBallsInMotion TurnState = "balls_in_motion"
)

// PocketedEntry is one ball dropped during the current shot.
type PocketedEntry struct {
	BallID      int        `json:"ball_id"`
	Team        Team       `json:"team"`
	IsBlackBall bool       `json:"is_black_ball"`
	Foul        bool       `json:"foul"`
	Reason      FoulReason `json:"reason,omitempty"`
}

// TurnRecord tracks whose shot it is, the teams, the scores and what went
// down during the shot in progress. Players are numbered 1 and 2.
type TurnRecord struct {
	CurrentPlayer int             `json:"current_player"`
	Teams         [2]Team         `json:"teams"`
	Scores        [2]int          `json:"scores"`
	Pocketed      []PocketedEntry `json:"pocketed"`
	ShotTaken     bool            `json:"shot_taken"`
	TurnEvaluated bool            `json:"turn_evaluated"`
	ShotNumber    int             `json:"shot_number"`
}

func newTurnRecord() TurnRecord {
	return TurnRecord{
		CurrentPlayer: 1,
		Teams:         [2]Team{TeamUnassigned, TeamUnassigned},
		TurnEvaluated: true,
	}
}

func opponent(player int) int {
	if player == 1 {
		return 2
	}
	return 1
}

func (t *TurnRecord) teamOf(player int) Team {
	return t.Teams[player-1]
}

func (t *TurnRecord) teamsAssigned() bool {
	return t.Teams[0] != TeamUnassigned && t.Teams[1] != TeamUnassigned
}

func (t *TurnRecord) assign(player int, team Team) {
	t.Teams[player-1] = team
	t.Teams[opponent(player)-1] = team.Opposite()
}

// ownTeamCount is the player's committed score plus the balls of their team
// already dropped during the shot in progress.
func (t *TurnRecord) ownTeamCount(player int) int {
	team := t.teamOf(player)
	if team == TeamUnassigned {
		return 0
	}
	n := t.Scores[player-1]
	for _, e := range t.Pocketed {
		if !e.Foul && e.Team == team {
			n++
		}
	}
	return n
}

// handleBallPocketed classifies a single pocketing as it happens.
func (s *Simulation) handleBallPocketed(b *Ball, p Pocket) {
	t := &s.turn
	shooter := t.CurrentPlayer

	switch {
	case b.IsCue:
		b.Stop()
		b.Position = s.freeCueSpot()
		s.emit(Event{Type: EventFoulDetected, Player: shooter, BallID: b.ID, PocketID: p.ID, Reason: FoulWhiteBall})
		if !t.teamsAssigned() {
			return
		}
		t.Pocketed = append(t.Pocketed, PocketedEntry{BallID: b.ID, Foul: true, Reason: FoulWhiteBall})

	case b.IsBlackBall:
		b.pocket(sinkTarget(b, p))
		s.emit(Event{Type: EventBallPocketed, Player: shooter, BallID: b.ID, PocketID: p.ID})
		// the black itself completes the set
		if t.ownTeamCount(shooter)+1 < TeamSize {
			log.Printf("[MATCH] player %d sank the black early, match lost", shooter)
			s.emit(Event{Type: EventMatchLost, Player: shooter, NextPlayer: opponent(shooter), Team: t.teamOf(shooter)})
		} else {
			log.Printf("[MATCH] player %d cleared their team and sank the black", shooter)
			s.emit(Event{Type: EventMatchWon, Player: shooter, Team: t.teamOf(shooter)})
		}
		s.reset()

	default:
		b.pocket(sinkTarget(b, p))
		s.emit(Event{Type: EventBallPocketed, Player: shooter, BallID: b.ID, PocketID: p.ID, Team: b.Team})
		t.Pocketed = append(t.Pocketed, PocketedEntry{BallID: b.ID, Team: b.Team})
	}
}

// evaluateTurnEnd scores the finished shot and decides who plays next. It
// does nothing unless a shot was taken and has not been evaluated yet.
func (s *Simulation) evaluateTurnEnd() {
	t := &s.turn
	if !t.ShotTaken || t.TurnEvaluated {
		return
	}
	shooter := t.CurrentPlayer
	other := opponent(shooter)

	pass := len(t.Pocketed) == 0
	if !pass {
		assigning := false
		if !t.teamsAssigned() {
			for _, e := range t.Pocketed {
				if e.Foul || e.Team == TeamUnassigned {
					continue
				}
				t.assign(shooter, e.Team)
				assigning = true
				s.emit(Event{Type: EventTeamsAssigned, Player: shooter, Team: e.Team})
				break
			}
		}

		cueFoul, wrongTeam := false, false
		for _, e := range t.Pocketed {
			if e.Foul {
				cueFoul = true
				continue
			}
			if e.Team == t.teamOf(shooter) {
				t.Scores[shooter-1]++
				continue
			}
			t.Scores[other-1]++
			if !assigning {
				wrongTeam = true
				s.emit(Event{Type: EventFoulDetected, Player: shooter, BallID: e.BallID, Team: e.Team, Reason: FoulWrongTeam})
			}
		}
		pass = cueFoul || wrongTeam
	}

	if pass {
		t.CurrentPlayer = other
		s.emit(Event{Type: EventTurnPassed, Player: shooter, NextPlayer: other})
	} else {
		s.emit(Event{Type: EventTurnContinued, Player: shooter, NextPlayer: shooter})
	}

	t.Pocketed = t.Pocketed[:0]
	t.ShotTaken = false
	t.TurnEvaluated = true
	s.state = StateAwaitingShot
}
