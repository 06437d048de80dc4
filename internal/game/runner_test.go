package game

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/playmatatu/billiards/internal/config"
)

type recordingSink struct {
	mu     sync.Mutex
	frames []Frame
	events []Event
}

func (r *recordingSink) PublishFrame(matchID string, f Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, f)
}

func (r *recordingSink) PublishEvents(matchID string, events []Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
}

func (r *recordingSink) sawEvent(typ EventType) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return countEvents(r.events, typ) > 0
}

func TestRunnerSerializesCommandsAndTicks(t *testing.T) {
	sink := &recordingSink{}
	events := make(chan Event, 256)
	r := NewRunner("m1", NewSimulation(DefaultConfig()), 240, sink, func(id string, evs []Event, snap MatchSnapshot) {
		for _, e := range evs {
			select {
			case events <- e:
			default:
			}
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	var shotErr error
	if err := r.Do(ctx, func(s *Simulation) { shotErr = s.TakeShot(0, -math.Pi/2) }); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if shotErr != nil {
		t.Fatalf("TakeShot: %v", shotErr)
	}

	deadline := time.After(5 * time.Second)
	for struck := false; !struck; {
		select {
		case e := <-events:
			struck = e.Type == EventShotStruck
		case <-deadline:
			t.Fatalf("no ShotStruck event from the runner")
		}
	}

	sink.mu.Lock()
	n := len(sink.frames)
	sink.mu.Unlock()
	if n == 0 {
		t.Errorf("sink received no frames while the strike played")
	}

	var state TurnState
	if err := r.Do(ctx, func(s *Simulation) { state = s.State() }); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if state == StateStrikePending {
		t.Errorf("strike should have landed, state %s", state)
	}
}

func TestRunnerStopsWithContext(t *testing.T) {
	r := NewRunner("m2", NewSimulation(DefaultConfig()), 60, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go r.Run(ctx)

	cancel()
	select {
	case <-r.Stopped():
	case <-time.After(2 * time.Second):
		t.Fatalf("runner did not stop")
	}

	err := r.Do(context.Background(), func(s *Simulation) {})
	if !errors.Is(err, ErrRunnerStopped) {
		t.Errorf("expected ErrRunnerStopped, got %v", err)
	}
}

func TestMatchManagerLifecycle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := &recordingSink{}
	gm := NewMatchManager(ctx, nil, nil, &config.Config{TickRate: 120}, sink)

	m := gm.CreateMatch()
	if got, err := gm.GetMatch(m.ID); err != nil || got != m {
		t.Fatalf("GetMatch(%s) = %v, %v", m.ID, got, err)
	}
	if gm.ActiveMatchCount() != 1 {
		t.Errorf("expected 1 active match, got %d", gm.ActiveMatchCount())
	}

	if err := m.Do(ctx, func(s *Simulation) { s.ResetMatch() }); err != nil {
		t.Fatalf("Do: %v", err)
	}
	deadline := time.Now().Add(3 * time.Second)
	for !sink.sawEvent(EventMatchReset) && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if !sink.sawEvent(EventMatchReset) {
		t.Errorf("without Redis, events should go straight to the sink")
	}

	if err := gm.RemoveMatch(m.ID); err != nil {
		t.Fatalf("RemoveMatch: %v", err)
	}
	if _, err := gm.GetMatch(m.ID); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("expected ErrMatchNotFound, got %v", err)
	}
	if err := gm.RemoveMatch(m.ID); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("second remove should fail with ErrMatchNotFound, got %v", err)
	}

	select {
	case <-m.runner.Stopped():
	case <-time.After(2 * time.Second):
		t.Fatalf("removed match runner still running")
	}
	if err := m.Do(ctx, func(s *Simulation) {}); !errors.Is(err, ErrRunnerStopped) {
		t.Errorf("expected ErrRunnerStopped after removal, got %v", err)
	}
}

func TestResultFromEvent(t *testing.T) {
	won := resultFromEvent("match_a", Event{Type: EventMatchWon, Player: 2, Team: TeamStripe, Scores: [2]int{4, 6}, Shot: 23})
	if won.WinnerSeat != 2 || won.LoserSeat != 1 || won.Outcome != "cleared" || won.WinnerTeam != "stripe" {
		t.Errorf("unexpected win row: %+v", won)
	}
	if won.Player1Score != 4 || won.Player2Score != 6 || won.Shots != 23 {
		t.Errorf("scores not carried over: %+v", won)
	}

	lost := resultFromEvent("match_b", Event{Type: EventMatchLost, Player: 1, Team: TeamSolid})
	if lost.WinnerSeat != 2 || lost.LoserSeat != 1 || lost.Outcome != "early_black" || lost.WinnerTeam != "stripe" {
		t.Errorf("unexpected loss row: %+v", lost)
	}
}

func TestMatchCommandsCheckSeat(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gm := NewMatchManager(ctx, nil, nil, &config.Config{TickRate: 120}, nil)
	m := gm.CreateMatch()

	if err := m.Shoot(ctx, 2, 0.5, 0); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("seat 2 shooting on the break: expected ErrNotYourTurn, got %v", err)
	}
	if _, err := m.Rotate(ctx, 2, 1, 0.1); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("seat 2 rotating: expected ErrNotYourTurn, got %v", err)
	}

	before, err := m.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	angle, err := m.Rotate(ctx, 1, 1, 0.1)
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	if angle == before.CueAngle {
		t.Errorf("cue angle did not change")
	}

	if _, ok, err := m.Aim(ctx); err != nil || !ok {
		t.Errorf("aim should be available before the break, ok=%v err=%v", ok, err)
	}

	if err := m.Shoot(ctx, 1, 0.5, math.NaN()); err != nil {
		t.Fatalf("Shoot: %v", err)
	}
	if err := m.Shoot(ctx, 1, 0.5, 0); !errors.Is(err, ErrShotPending) {
		t.Errorf("second shot: expected ErrShotPending, got %v", err)
	}

	huge := 50.0
	cfg, err := m.ApplyConfig(ctx, ConfigUpdate{ShotForce: &huge})
	if err != nil {
		t.Fatalf("ApplyConfig: %v", err)
	}
	if cfg.ShotForce != MaxShotForce {
		t.Errorf("shot force should clamp to %v, got %v", MaxShotForce, cfg.ShotForce)
	}
	if got, _ := m.Config(ctx); got != cfg {
		t.Errorf("Config() disagrees with ApplyConfig result: %+v vs %+v", got, cfg)
	}
}

func TestGenerateMatchIDIsRandomHex(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		id := generateMatchID()
		if len(id) != len("match_")+16 || id[:6] != "match_" {
			t.Fatalf("malformed match id %q", id)
		}
		if id == "match_0000000000000000" {
			t.Fatalf("match id built from unfilled bytes")
		}
		if seen[id] {
			t.Fatalf("duplicate match id %q", id)
		}
		seen[id] = true
	}
}
