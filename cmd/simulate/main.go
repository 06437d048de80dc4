package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/playmatatu/billiards/internal/config"
	"github.com/playmatatu/billiards/internal/game"
)

type shotReport struct {
	Shot   int          `json:"shot"`
	Player int          `json:"player"`
	Ticks  int          `json:"ticks"`
	Events []game.Event `json:"events"`
}

type report struct {
	Shots []shotReport       `json:"shots"`
	Final game.MatchSnapshot `json:"final"`
}

// Plays shots headlessly at a fixed frame rate and prints every rule event
// plus the final table as JSON. Tuning comes from the same env vars as the
// server.
func main() {
	shots := flag.Int("shots", 1, "number of shots to play")
	force := flag.Float64("force", 0, "shot impulse (0 uses SHOT_FORCE)")
	angle := flag.Float64("angle", -1.5707963267948966, "cue angle in radians (x-z plane)")
	fps := flag.Int("fps", 60, "simulation frames per second")
	maxTicks := flag.Int("max-ticks", 60*60, "give up on a shot after this many frames")
	flag.Parse()

	if *fps <= 0 {
		log.Fatal("fps must be positive")
	}
	dt := 1 / float64(*fps)

	sim := game.NewSimulation(game.PhysicsFromConfig(config.Load()))
	out := report{}

	for i := 0; i < *shots; i++ {
		player := sim.CurrentPlayer()
		if err := sim.TakeShot(*force, *angle); err != nil {
			log.Fatalf("shot %d: %v", i+1, err)
		}

		r := shotReport{Shot: i + 1, Player: player}
		struck := false
		for r.Ticks < *maxTicks {
			f := sim.AdvanceSimulation(dt)
			r.Ticks++
			for _, e := range f.Events {
				if e.Type == game.EventShotStruck {
					struck = true
				}
			}
			r.Events = append(r.Events, f.Events...)
			if struck && sim.State() == game.StateAwaitingShot {
				break
			}
		}
		if sim.State() != game.StateAwaitingShot {
			log.Printf("shot %d did not settle within %d frames", i+1, *maxTicks)
		}
		out.Shots = append(out.Shots, r)
	}
	out.Final = sim.Snapshot()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("encode report: %v", err)
	}
}
