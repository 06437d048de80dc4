package game

import (
	"fmt"
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Simulation owns the whole state of one match. It is not safe for
// concurrent use; a Runner serializes access to it.
type Simulation struct {
	cfg     Config
	bounds  TableBounds
	pockets []Pocket
	balls   []*Ball
	turn    TurnRecord
	state   TurnState
	cue     CueStick
	strike  *strike

	generation uint64 // bumped on every reset
	tick       uint64
	events     []Event
}

// Frame is what one tick hands to the presentation layer.
type Frame struct {
	Tick         uint64         `json:"tick"`
	State        TurnState      `json:"state"`
	CuePullBack  float64        `json:"cue_pull_back"`
	Balls        []BallSnapshot `json:"balls"`
	Events       []Event        `json:"events,omitempty"`
	CushionHits  int            `json:"cushion_hits"`
	BallContacts int            `json:"ball_contacts"`
	Moving       bool           `json:"moving"`
}

// Active reports whether the frame shows anything worth sending.
func (f Frame) Active() bool {
	return f.Moving || len(f.Events) > 0 || f.State == StateStrikePending
}

// MatchSnapshot is the full JSON view of a match.
type MatchSnapshot struct {
	Tick          uint64         `json:"tick"`
	State         TurnState      `json:"state"`
	CurrentPlayer int            `json:"current_player"`
	Teams         [2]Team        `json:"teams"`
	Scores        [2]int         `json:"scores"`
	ShotNumber    int            `json:"shot_number"`
	CueAngle      float64        `json:"cue_angle"`
	Balls         []BallSnapshot `json:"balls"`
	Pockets       []Pocket       `json:"pockets"`
	Bounds        TableBounds    `json:"bounds"`
	Config        Config         `json:"config"`
}

// NewSimulation racks a fresh match with cfg clamped into range.
func NewSimulation(cfg Config) *Simulation {
	s := &Simulation{
		cfg:    cfg.Clamped(),
		bounds: StandardBounds(),
	}
	s.pockets = StandardPockets(s.bounds)
	s.rack()
	return s
}

func (s *Simulation) rack() {
	s.balls = Rack(s.bounds, s.cfg.BallSpacing)
	s.turn = newTurnRecord()
	s.state = StateAwaitingShot
	s.cue = newCueStick()
	s.strike = nil
	s.generation++
}

// reset re-racks and records it. Callers mid-tick must check the generation
// before touching balls they hold.
func (s *Simulation) reset() {
	s.rack()
	s.emit(Event{Type: EventMatchReset, Player: s.turn.CurrentPlayer})
}

// ResetMatch puts the match back to the opening rack with player 1 to break.
// Any strike still animating is dropped.
func (s *Simulation) ResetMatch() {
	log.Printf("[MATCH] reset requested at tick %d", s.tick)
	s.reset()
}

func (s *Simulation) emit(e Event) {
	e.Scores = s.turn.Scores
	e.Shot = s.turn.ShotNumber
	s.events = append(s.events, e)
}

func (s *Simulation) flushEvents() []Event {
	if len(s.events) == 0 {
		return nil
	}
	out := s.events
	s.events = nil
	return out
}

// AdvanceSimulation runs one tick of dt seconds: the strike clock, SubSteps
// rounds of integrate, cushion and pair resolution, then sinking, the pocket
// scan and, once everything is at rest after a shot, turn evaluation.
func (s *Simulation) AdvanceSimulation(dt float64) Frame {
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		dt = 0
	}
	s.tick++

	pullBack := 0.0
	if st := s.strike; st != nil {
		var done bool
		pullBack, done = st.advance(dt)
		s.cue.PullBack = pullBack
		if done {
			s.strike = nil
			st.onComplete()
		}
	}

	cushions, contacts := 0, 0
	if dt > 0 {
		h := dt / float64(s.cfg.SubSteps)
		for i := 0; i < s.cfg.SubSteps; i++ {
			for _, b := range s.balls {
				if b.IsPocketed() {
					continue
				}
				Advance(b, h, s.cfg)
				if ClampToTable(b, s.bounds, s.cfg.CushionRestitution) {
					cushions++
				}
			}
			contacts += resolveAll(s.balls, s.cfg)
		}
	}

	for _, b := range s.balls {
		if b.IsPocketed() {
			Advance(b, dt, s.cfg)
		}
	}

	s.scanPockets()

	moving := s.anyMoving()
	if s.state == StateBallsInMotion && !moving {
		s.evaluateTurnEnd()
	}

	return Frame{
		Tick:         s.tick,
		State:        s.state,
		CuePullBack:  pullBack,
		Balls:        s.ballSnapshots(),
		Events:       s.flushEvents(),
		CushionHits:  cushions,
		BallContacts: contacts,
		Moving:       moving,
	}
}

// scanPockets collects every capture of the tick before classifying any,
// then judges the black last so its outcome sees all of the tick's other
// pocketings regardless of ball numbering.
func (s *Simulation) scanPockets() {
	type hit struct {
		ball   *Ball
		pocket Pocket
	}
	var hits []hit
	var black *hit
	for _, b := range s.balls {
		p, ok := IsInPocket(b, s.pockets)
		if !ok {
			continue
		}
		if b.IsBlackBall {
			black = &hit{b, p}
			continue
		}
		hits = append(hits, hit{b, p})
	}

	for _, h := range hits {
		s.handleBallPocketed(h.ball, h.pocket)
	}
	if black != nil {
		s.handleBallPocketed(black.ball, black.pocket)
	}
}

func (s *Simulation) anyMoving() bool {
	for _, b := range s.balls {
		if b.IsMoving() {
			return true
		}
	}
	return false
}

// TakeShot arms a strike along angle. force <= 0 uses the configured shot
// force; anything else is clamped. The impulse lands on the cue ball when the
// stick animation finishes inside a later AdvanceSimulation.
func (s *Simulation) TakeShot(force, angle float64) error {
	if s.strike != nil {
		return ErrShotPending
	}
	if s.state != StateAwaitingShot || s.anyMoving() {
		return ErrBallsMoving
	}
	if force <= 0 || math.IsNaN(force) {
		force = s.cfg.ShotForce
	}
	force = clamp(force, MinShotForce, MaxShotForce)
	if !math.IsNaN(angle) && !math.IsInf(angle, 0) {
		s.cue.Angle = angle
	}

	impulse := s.cue.Direction().Mul(force)
	gen := s.generation
	s.strike = newStrike(impulse, force, func() {
		if gen != s.generation {
			return
		}
		s.strikeCueBall(impulse)
	})
	s.state = StateStrikePending
	log.Printf("[MATCH] player %d arms shot, force=%.3f angle=%.3f", s.turn.CurrentPlayer, force, s.cue.Angle)
	return nil
}

func (s *Simulation) strikeCueBall(impulse mgl64.Vec3) {
	cue := s.cueBall()
	cue.Velocity = impulse.Mul(1 / cue.Mass)
	cue.Velocity[1] = 0
	s.turn.ShotTaken = true
	s.turn.TurnEvaluated = false
	s.turn.ShotNumber++
	s.state = StateBallsInMotion
	s.cue.PullBack = 0
	s.emit(Event{Type: EventShotStruck, Player: s.turn.CurrentPlayer, BallID: cue.ID})
}

// RotateCue turns the stick while the player is aiming.
func (s *Simulation) RotateCue(dir int, dt float64) {
	if s.strike != nil {
		return
	}
	s.cue.Rotate(dir, dt, s.cfg.CueRotationSpeed)
}

// AimPreview returns the guide line for the current stick angle. It is only
// available while the table is waiting for a shot.
func (s *Simulation) AimPreview() (AimPreview, bool) {
	if s.state != StateAwaitingShot || s.strike != nil || s.anyMoving() {
		return AimPreview{}, false
	}
	return PredictAim(s.cueBall(), s.cue.Direction(), s.balls, s.bounds, s.cfg), true
}

// Config returns the live tuning.
func (s *Simulation) Config() Config {
	return s.cfg
}

// ApplyConfig merges u into the live tuning. A change of rack spacing
// re-racks within the same call. Returns the events the change produced;
// they are also delivered with the next frame.
func (s *Simulation) ApplyConfig(u ConfigUpdate) []Event {
	prev := s.cfg
	s.cfg = prev.Merge(u)
	log.Printf("[MATCH] config updated: %s", configDiff(prev, s.cfg))
	if s.cfg.BallSpacing != prev.BallSpacing {
		s.reset()
		return []Event{s.events[len(s.events)-1]}
	}
	return nil
}

// CurrentPlayer is the seat (1 or 2) due to shoot.
func (s *Simulation) CurrentPlayer() int {
	return s.turn.CurrentPlayer
}

// State is the current phase of the shot cycle.
func (s *Simulation) State() TurnState {
	return s.state
}

// Turn returns a copy of the turn record.
func (s *Simulation) Turn() TurnRecord {
	t := s.turn
	t.Pocketed = append([]PocketedEntry(nil), s.turn.Pocketed...)
	return t
}

// Snapshot is the full JSON-friendly view of the match.
func (s *Simulation) Snapshot() MatchSnapshot {
	return MatchSnapshot{
		Tick:          s.tick,
		State:         s.state,
		CurrentPlayer: s.turn.CurrentPlayer,
		Teams:         s.turn.Teams,
		Scores:        s.turn.Scores,
		ShotNumber:    s.turn.ShotNumber,
		CueAngle:      s.cue.Angle,
		Balls:         s.ballSnapshots(),
		Pockets:       append([]Pocket(nil), s.pockets...),
		Bounds:        s.bounds,
		Config:        s.cfg,
	}
}

func (s *Simulation) ballSnapshots() []BallSnapshot {
	out := make([]BallSnapshot, len(s.balls))
	for i, b := range s.balls {
		out[i] = b.snapshot()
	}
	return out
}

func (s *Simulation) cueBall() *Ball {
	return s.balls[CueBallID]
}

// freeCueSpot walks up the table from the head spot until the cue ball would
// not touch any active ball.
func (s *Simulation) freeCueSpot() mgl64.Vec3 {
	spot := s.bounds.CueSpot()
	step := 2 * BallRadius
	for spot[2]+BallRadius <= s.bounds.MaxZ {
		if s.spotFree(spot) {
			return spot
		}
		spot[2] += step
	}
	return s.bounds.CueSpot()
}

func (s *Simulation) spotFree(p mgl64.Vec3) bool {
	for _, b := range s.balls {
		if b.IsCue || b.IsPocketed() {
			continue
		}
		if b.Position.Sub(p).Len() < b.Radius+BallRadius {
			return false
		}
	}
	return true
}

func configDiff(a, b Config) string {
	return fmt.Sprintf("substeps %d->%d force %.3f->%.3f rotation %.3f->%.3f spacing %.3f->%.3f",
		a.SubSteps, b.SubSteps, a.ShotForce, b.ShotForce,
		a.CueRotationSpeed, b.CueRotationSpeed, a.BallSpacing, b.BallSpacing)
}
