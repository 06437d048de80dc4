package game

import (
	"context"
	"log"
	"sync/atomic"
	"time"
)

// MaxFrameDelta caps the wall-clock step fed to a tick, so a stalled
// goroutine never produces one huge jump.
const MaxFrameDelta = 0.1

// EventHandler is told about rule events together with the match snapshot
// taken right after the tick that produced them. It runs on the runner
// goroutine and must not block.
type EventHandler func(matchID string, events []Event, snap MatchSnapshot)

type command struct {
	fn   func(*Simulation)
	done chan struct{}
}

// Runner is the only goroutine allowed to touch its Simulation. Ticks and
// commands are serialized through one select loop.
type Runner struct {
	id       string
	sim      *Simulation
	tickRate int
	sink     FrameSink
	onEvents EventHandler

	cmds       chan command
	stopped    chan struct{}
	lastActive atomic.Int64
	wasActive  bool
}

// NewRunner wraps sim. tickRate is frames per second; sink and onEvents may be nil.
func NewRunner(id string, sim *Simulation, tickRate int, sink FrameSink, onEvents EventHandler) *Runner {
	if tickRate <= 0 {
		tickRate = 60
	}
	r := &Runner{
		id:       id,
		sim:      sim,
		tickRate: tickRate,
		sink:     sink,
		onEvents: onEvents,
		cmds:     make(chan command),
		stopped:  make(chan struct{}),
	}
	r.touch()
	return r
}

// ID returns the match ID.
func (r *Runner) ID() string { return r.id }

// Run ticks the simulation until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	defer close(r.stopped)

	ticker := time.NewTicker(time.Second / time.Duration(r.tickRate))
	defer ticker.Stop()

	log.Printf("[MATCH] %s runner started at %d Hz", r.id, r.tickRate)
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			log.Printf("[MATCH] %s runner stopped", r.id)
			return
		case c := <-r.cmds:
			c.fn(r.sim)
			close(c.done)
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if dt > MaxFrameDelta {
				dt = MaxFrameDelta
			}
			r.step(dt)
		}
	}
}

func (r *Runner) step(dt float64) {
	f := r.sim.AdvanceSimulation(dt)
	active := f.Active()
	// one more frame after motion stops so clients see the resting table
	if r.sink != nil && (active || r.wasActive) {
		r.sink.PublishFrame(r.id, f)
	}
	r.wasActive = active
	if len(f.Events) > 0 && r.onEvents != nil {
		r.onEvents(r.id, f.Events, r.sim.Snapshot())
	}
}

// Do runs fn on the runner goroutine between ticks and waits for it.
func (r *Runner) Do(ctx context.Context, fn func(*Simulation)) error {
	c := command{fn: fn, done: make(chan struct{})}
	select {
	case r.cmds <- c:
	case <-r.stopped:
		return ErrRunnerStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	r.touch()
	select {
	case <-c.done:
		return nil
	case <-r.stopped:
		return ErrRunnerStopped
	}
}

// Stopped is closed once Run has returned.
func (r *Runner) Stopped() <-chan struct{} {
	return r.stopped
}

// IdleFor is the time since the last command.
func (r *Runner) IdleFor() time.Duration {
	return time.Since(time.Unix(0, r.lastActive.Load()))
}

func (r *Runner) touch() {
	r.lastActive.Store(time.Now().UnixNano())
}
