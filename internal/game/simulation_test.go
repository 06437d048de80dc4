package game

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const frameDT = 1.0 / 60

// Helper that advances until the armed strike lands and returns the frames seen.
func runStrike(t *testing.T, s *Simulation) []Frame {
	t.Helper()
	var frames []Frame
	for i := 0; i < 120; i++ {
		f := s.AdvanceSimulation(frameDT)
		frames = append(frames, f)
		if countEvents(f.Events, EventShotStruck) > 0 {
			return frames
		}
	}
	t.Fatalf("strike never landed")
	return nil
}

func TestNewSimulationStartsAtRest(t *testing.T) {
	s := NewSimulation(DefaultConfig())
	snap := s.Snapshot()

	if len(snap.Balls) != NumBalls {
		t.Fatalf("expected %d balls, got %d", NumBalls, len(snap.Balls))
	}
	if snap.State != StateAwaitingShot || snap.CurrentPlayer != 1 {
		t.Errorf("expected player 1 awaiting shot, got %s / %d", snap.State, snap.CurrentPlayer)
	}
	if snap.Balls[CueBallID].Position != s.bounds.CueSpot() {
		t.Errorf("cue ball not on the head spot: %v", snap.Balls[CueBallID].Position)
	}
	if len(snap.Pockets) != 6 {
		t.Errorf("expected 6 pockets, got %d", len(snap.Pockets))
	}

	f := s.AdvanceSimulation(frameDT)
	if f.Moving || len(f.Events) != 0 {
		t.Errorf("idle table should stay quiet, got %+v", f)
	}
}

func TestTakeShotAppliesImpulseAfterStrike(t *testing.T) {
	s := NewSimulation(DefaultConfig())

	if err := s.TakeShot(1.0, -math.Pi/2); err != nil {
		t.Fatalf("TakeShot: %v", err)
	}
	if s.State() != StateStrikePending {
		t.Fatalf("expected strike_pending, got %s", s.State())
	}
	if s.balls[CueBallID].IsMoving() {
		t.Fatalf("cue ball should not move before the thrust lands")
	}

	frames := runStrike(t, s)
	if n := len(frames); n < 18 || n > 22 {
		t.Errorf("strike should take about 0.33s, took %d frames", n)
	}
	sawPullBack := false
	for _, f := range frames[:len(frames)-1] {
		if f.CuePullBack > 0 {
			sawPullBack = true
		}
	}
	if !sawPullBack {
		t.Errorf("stick never drew back during the strike")
	}

	cue := s.balls[CueBallID]
	if cue.Velocity[2] >= 0 || math.Abs(cue.Velocity[0]) > 1e-9 {
		t.Errorf("cue ball should head toward the rack (-z), got %v", cue.Velocity)
	}
	if s.State() != StateBallsInMotion || !s.turn.ShotTaken || s.turn.TurnEvaluated {
		t.Errorf("shot not recorded: state=%s turn=%+v", s.State(), s.turn)
	}
}

func TestTakeShotRejectsWhileBusy(t *testing.T) {
	s := NewSimulation(DefaultConfig())
	if err := s.TakeShot(0, -math.Pi/2); err != nil {
		t.Fatalf("TakeShot: %v", err)
	}
	if err := s.TakeShot(1, 0); !errors.Is(err, ErrShotPending) {
		t.Errorf("expected ErrShotPending, got %v", err)
	}

	runStrike(t, s)
	if err := s.TakeShot(1, 0); !errors.Is(err, ErrBallsMoving) {
		t.Errorf("expected ErrBallsMoving, got %v", err)
	}
}

func TestTakeShotClampsForce(t *testing.T) {
	cases := []struct {
		name  string
		force float64
		want  float64
	}{
		{"default", 0, DefaultConfig().ShotForce},
		{"negative", -3, DefaultConfig().ShotForce},
		{"too strong", 50, MaxShotForce},
		{"too weak", 0.001, MinShotForce},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSimulation(DefaultConfig())
			if err := s.TakeShot(tc.force, 0); err != nil {
				t.Fatalf("TakeShot: %v", err)
			}
			if got := s.strike.impulse.Len(); math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("impulse %.4f, want %.4f", got, tc.want)
			}
		})
	}
}

func TestStaleStrikeAfterResetIsNoop(t *testing.T) {
	s := NewSimulation(DefaultConfig())
	if err := s.TakeShot(1.5, -math.Pi/2); err != nil {
		t.Fatalf("TakeShot: %v", err)
	}
	s.AdvanceSimulation(frameDT)
	st := s.strike

	s.ResetMatch()
	st.onComplete()

	if s.balls[CueBallID].IsMoving() {
		t.Errorf("late strike moved the cue ball after reset")
	}
	if s.State() != StateAwaitingShot || s.turn.ShotTaken {
		t.Errorf("late strike changed the turn: state=%s turn=%+v", s.State(), s.turn)
	}
	for i := 0; i < 30; i++ {
		if f := s.AdvanceSimulation(frameDT); countEvents(f.Events, EventShotStruck) > 0 {
			t.Fatalf("strike landed after reset")
		}
	}
}

func TestStrikeEasing(t *testing.T) {
	st := newStrike(mgl64.Vec3{1, 0, 0}, MaxShotForce, func() {})

	mid, done := st.advance(strikePullBackSeconds / 2)
	if done || mid <= 0 || mid >= MaxPullBack {
		t.Errorf("mid pull-back %.4f done=%v", mid, done)
	}
	// ease-out covers more than half the distance in half the time
	if mid <= MaxPullBack/2 {
		t.Errorf("expected ease-out, got %.4f at half time", mid)
	}

	peak, _ := st.advance(strikePullBackSeconds / 2)
	if math.Abs(peak-MaxPullBack) > 1e-9 {
		t.Errorf("expected full pull-back %.3f, got %.4f", MaxPullBack, peak)
	}

	thrust, done := st.advance(strikeThrustSeconds / 2)
	if done || thrust <= MaxPullBack/2 {
		t.Errorf("ease-in thrust should still be far back at half time, got %.4f", thrust)
	}

	end, done := st.advance(strikeThrustSeconds)
	if !done || end != 0 {
		t.Errorf("expected strike to finish at 0, got %.4f done=%v", end, done)
	}
}

func TestRotateCue(t *testing.T) {
	s := NewSimulation(DefaultConfig())
	start := s.cue.Angle

	s.RotateCue(1, 0.5)
	want := start + 0.5*s.cfg.CueRotationSpeed
	if math.Abs(s.cue.Angle-want) > 1e-12 {
		t.Errorf("expected angle %.4f, got %.4f", want, s.cue.Angle)
	}

	s.RotateCue(0, 1)
	if math.Abs(s.cue.Angle-want) > 1e-12 {
		t.Errorf("direction 0 should not rotate")
	}

	s.RotateCue(-1, 0.5)
	if math.Abs(s.cue.Angle-start) > 1e-12 {
		t.Errorf("expected to rotate back to %.4f, got %.4f", start, s.cue.Angle)
	}
}

func TestAimPreviewHitsRackApex(t *testing.T) {
	s := NewSimulation(DefaultConfig())

	aim, ok := s.AimPreview()
	if !ok {
		t.Fatalf("aim preview should be available at rest")
	}
	if aim.Kind != AimBall || aim.TargetBallID != 1 {
		t.Fatalf("expected to hit ball 1, got %+v", aim)
	}
	wantDist := HeadSpotZ - FootSpotZ - 2*BallRadius
	if math.Abs(aim.Distance-wantDist) > 1e-9 {
		t.Errorf("expected distance %.4f, got %.4f", wantDist, aim.Distance)
	}
	if aim.TargetDirection.Sub(mgl64.Vec3{0, 0, -1}).Len() > 1e-9 {
		t.Errorf("straight hit should send the target along -z, got %v", aim.TargetDirection)
	}
	if aim.CueDirection.Sub(mgl64.Vec3{0, 0, -1}).Len() > 1e-9 {
		t.Errorf("with e<1 the cue ball follows through, got %v", aim.CueDirection)
	}
	if math.Abs(aim.GhostBall[2]-(FootSpotZ+2*BallRadius)) > 1e-9 {
		t.Errorf("ghost ball at %v", aim.GhostBall)
	}
}

func TestAimPreviewCushionBounce(t *testing.T) {
	s := NewSimulation(DefaultConfig())
	s.cue.Angle = 0

	aim, ok := s.AimPreview()
	if !ok {
		t.Fatalf("aim preview should be available at rest")
	}
	if aim.Kind != AimCushion {
		t.Fatalf("expected a cushion preview, got %+v", aim)
	}
	if want := s.bounds.MaxX - BallRadius; math.Abs(aim.Distance-want) > 1e-9 {
		t.Errorf("expected distance %.4f, got %.4f", want, aim.Distance)
	}
	if aim.ReflectedDirection.Sub(mgl64.Vec3{-1, 0, 0}).Len() > 1e-9 {
		t.Errorf("expected reflection along -x, got %v", aim.ReflectedDirection)
	}
}

func TestAimPreviewDoesNotMutate(t *testing.T) {
	s := NewSimulation(DefaultConfig())
	s.balls[3].Position[0] += 0.2
	before := s.Snapshot()

	for i := 0; i < 50; i++ {
		s.cue.Angle = -math.Pi/2 + float64(i)*0.01
		s.AimPreview()
	}
	s.cue.Angle = before.CueAngle

	if after := s.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Errorf("aim preview changed match state")
	}
}

func TestAimPreviewUnavailableDuringShot(t *testing.T) {
	s := NewSimulation(DefaultConfig())
	if err := s.TakeShot(1, -math.Pi/2); err != nil {
		t.Fatalf("TakeShot: %v", err)
	}
	if _, ok := s.AimPreview(); ok {
		t.Errorf("aim preview should be hidden while the strike plays")
	}
}

func TestSpacingChangeResetsAtomically(t *testing.T) {
	s := NewSimulation(DefaultConfig())
	if err := s.TakeShot(MaxShotForce, -math.Pi/2); err != nil {
		t.Fatalf("TakeShot: %v", err)
	}
	runStrike(t, s)
	for i := 0; i < 30; i++ {
		s.AdvanceSimulation(frameDT)
	}
	s.flushEvents()

	spacing := 1.2
	events := s.ApplyConfig(ConfigUpdate{BallSpacing: &spacing})

	if len(events) != 1 || events[0].Type != EventMatchReset {
		t.Fatalf("expected a single MatchReset, got %+v", events)
	}
	assertOpeningRack(t, s)
	for _, b := range s.balls {
		if b.IsPocketed() {
			t.Errorf("ball %d pocketed after reset", b.ID)
		}
	}
	gap := s.balls[15].Position.Sub(s.balls[2].Position).Len()
	if math.Abs(gap-2*BallRadius*spacing) > 1e-9 {
		t.Errorf("second row gap %.4f, want %.4f", gap, 2*BallRadius*spacing)
	}

	f := s.AdvanceSimulation(frameDT)
	if countEvents(f.Events, EventBallPocketed) != 0 || f.Moving {
		t.Errorf("fresh rack should be quiet, got %+v", f.Events)
	}
	if countEvents(f.Events, EventMatchReset) != 1 {
		t.Errorf("reset should also reach the next frame, got %+v", f.Events)
	}
}

func TestApplyConfigClamps(t *testing.T) {
	s := NewSimulation(DefaultConfig())

	zero, huge := 0, 1000
	neg, nan, big := -5.0, math.NaN(), 9.0

	s.ApplyConfig(ConfigUpdate{SubSteps: &zero, ShotForce: &neg, CueRotationSpeed: &nan})
	cfg := s.Config()
	if cfg.SubSteps != 1 || cfg.ShotForce != MinShotForce || cfg.CueRotationSpeed != 0.05 {
		t.Errorf("low values not clamped: %+v", cfg)
	}

	s.ApplyConfig(ConfigUpdate{SubSteps: &huge, ShotForce: &big, CushionRestitution: &big})
	cfg = s.Config()
	if cfg.SubSteps != 32 || cfg.ShotForce != MaxShotForce {
		t.Errorf("high values not clamped: %+v", cfg)
	}
	if cfg.CushionRestitution >= cfg.BallRestitution {
		t.Errorf("cushions must lose more energy than balls: cushion=%.3f ball=%.3f", cfg.CushionRestitution, cfg.BallRestitution)
	}
	if s.State() != StateAwaitingShot {
		t.Errorf("tuning without a spacing change should not reset")
	}
}

func TestBreakShotStaysOnTableAndEvaluatesOnce(t *testing.T) {
	s := NewSimulation(DefaultConfig())
	if err := s.TakeShot(MaxShotForce, -math.Pi/2); err != nil {
		t.Fatalf("TakeShot: %v", err)
	}

	tb := s.bounds
	turnEnds, resets, contacts := 0, 0, 0
	struck := false
	for i := 0; i < 60*40; i++ {
		f := s.AdvanceSimulation(frameDT)
		contacts += f.BallContacts
		for _, e := range f.Events {
			switch {
			case e.Type == EventShotStruck:
				struck = true
			case e.IsTurnEnd():
				turnEnds++
			case e.Type == EventMatchReset:
				resets++
			}
		}
		for _, b := range s.balls {
			if b.IsPocketed() {
				continue
			}
			x, z := b.Position[0], b.Position[2]
			if x < tb.MinX || x > tb.MaxX || z < tb.MinZ || z > tb.MaxZ {
				t.Fatalf("tick %d: ball %d left the table at %v", f.Tick, b.ID, b.Position)
			}
		}
		if struck && f.State == StateAwaitingShot && !f.Moving {
			break
		}
	}

	if !struck {
		t.Fatalf("shot never struck")
	}
	if contacts == 0 {
		t.Errorf("break shot never touched the rack")
	}
	if s.anyMoving() {
		t.Fatalf("balls still moving after 40s")
	}
	if turnEnds+resets != 1 {
		t.Errorf("expected exactly one turn outcome, got %d turn ends and %d resets", turnEnds, resets)
	}
}
