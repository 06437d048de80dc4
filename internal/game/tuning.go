package game

import (
	"github.com/playmatatu/billiards/internal/config"
)

// Config holds the hot-tunable physics and cue parameters of a match.
type Config struct {
	SubSteps           int     `json:"sub_steps"`
	ShotForce          float64 `json:"shot_force"`         // default impulse magnitude, N*s
	CueRotationSpeed   float64 `json:"cue_rotation_speed"` // rad/s
	BallSpacing        float64 `json:"ball_spacing"`       // rack gap multiplier
	BallRestitution    float64 `json:"ball_restitution"`
	CushionRestitution float64 `json:"cushion_restitution"`
	Damping            float64 `json:"damping"`    // fraction of velocity kept per second
	RestSpeed          float64 `json:"rest_speed"` // below this a ball is stopped, m/s
	SpinCoupling       float64 `json:"spin_coupling"`
	SpinTransfer       float64 `json:"spin_transfer"`
	SpinInfluence      float64 `json:"spin_influence"`
	SinkEase           float64 `json:"sink_ease"` // fraction of the remaining sink distance covered per tick
}

// DefaultConfig returns arcade-feel defaults.
func DefaultConfig() Config {
	return Config{
		SubSteps:           6,
		ShotForce:          0.8,
		CueRotationSpeed:   1.5,
		BallSpacing:        1.01,
		BallRestitution:    0.92,
		CushionRestitution: 0.7,
		Damping:            0.45,
		RestSpeed:          0.01,
		SpinCoupling:       1.0,
		SpinTransfer:       0.05,
		SpinInfluence:      0.002,
		SinkEase:           0.15,
	}
}

// PhysicsFromConfig maps the environment configuration onto match defaults.
func PhysicsFromConfig(cfg *config.Config) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if cfg.PhysicsSubSteps > 0 {
		c.SubSteps = cfg.PhysicsSubSteps
	}
	if cfg.ShotForce > 0 {
		c.ShotForce = cfg.ShotForce
	}
	if cfg.CueRotationSpeed > 0 {
		c.CueRotationSpeed = cfg.CueRotationSpeed
	}
	if cfg.BallSpacing > 0 {
		c.BallSpacing = cfg.BallSpacing
	}
	return c.Clamped()
}

// Clamped returns c with every field forced into its sane range.
func (c Config) Clamped() Config {
	c.SubSteps = clampInt(c.SubSteps, 1, 32)
	c.ShotForce = clamp(c.ShotForce, MinShotForce, MaxShotForce)
	c.CueRotationSpeed = clamp(c.CueRotationSpeed, 0.05, 10)
	c.BallSpacing = clamp(c.BallSpacing, 1.0, 1.5)
	c.BallRestitution = clamp(c.BallRestitution, 0.05, 0.99)
	// cushions always lose more energy than ball contacts
	c.CushionRestitution = clamp(c.CushionRestitution, 0.04, c.BallRestitution-0.01)
	c.Damping = clamp(c.Damping, 0.01, 0.999)
	c.RestSpeed = clamp(c.RestSpeed, 1e-4, 0.5)
	c.SpinCoupling = clamp(c.SpinCoupling, 0.1, 10)
	c.SpinTransfer = clamp(c.SpinTransfer, 0, 1)
	c.SpinInfluence = clamp(c.SpinInfluence, 0, 0.1)
	c.SinkEase = clamp(c.SinkEase, 0.01, 1)
	return c
}

// ConfigUpdate is a partial Config. Nil fields are left unchanged.
type ConfigUpdate struct {
	SubSteps           *int     `json:"sub_steps,omitempty"`
	ShotForce          *float64 `json:"shot_force,omitempty"`
	CueRotationSpeed   *float64 `json:"cue_rotation_speed,omitempty"`
	BallSpacing        *float64 `json:"ball_spacing,omitempty"`
	BallRestitution    *float64 `json:"ball_restitution,omitempty"`
	CushionRestitution *float64 `json:"cushion_restitution,omitempty"`
	Damping            *float64 `json:"damping,omitempty"`
	SpinTransfer       *float64 `json:"spin_transfer,omitempty"`
	SpinInfluence      *float64 `json:"spin_influence,omitempty"`
}

// Merge applies u on top of c and clamps the result.
func (c Config) Merge(u ConfigUpdate) Config {
	if u.SubSteps != nil {
		c.SubSteps = *u.SubSteps
	}
	if u.ShotForce != nil {
		c.ShotForce = *u.ShotForce
	}
	if u.CueRotationSpeed != nil {
		c.CueRotationSpeed = *u.CueRotationSpeed
	}
	if u.BallSpacing != nil {
		c.BallSpacing = *u.BallSpacing
	}
	if u.BallRestitution != nil {
		c.BallRestitution = *u.BallRestitution
	}
	if u.CushionRestitution != nil {
		c.CushionRestitution = *u.CushionRestitution
	}
	if u.Damping != nil {
		c.Damping = *u.Damping
	}
	if u.SpinTransfer != nil {
		c.SpinTransfer = *u.SpinTransfer
	}
	if u.SpinInfluence != nil {
		c.SpinInfluence = *u.SpinInfluence
	}
	return c.Clamped()
}

func clamp(v, lo, hi float64) float64 {
	if v != v { // NaN
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
