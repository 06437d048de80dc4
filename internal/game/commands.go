package game

import "context"

// Shoot arms a strike for seat if it is that seat's turn.
func (m *Match) Shoot(ctx context.Context, seat int, force, angle float64) error {
	var err error
	if derr := m.Do(ctx, func(s *Simulation) {
		if s.CurrentPlayer() != seat {
			err = ErrNotYourTurn
			return
		}
		err = s.TakeShot(force, angle)
	}); derr != nil {
		return derr
	}
	return err
}

// Rotate turns the cue for seat. Rotating out of turn is rejected so the
// waiting player cannot move the shooter's aim.
func (m *Match) Rotate(ctx context.Context, seat, dir int, dt float64) (float64, error) {
	var (
		err   error
		angle float64
	)
	if derr := m.Do(ctx, func(s *Simulation) {
		if s.CurrentPlayer() != seat {
			err = ErrNotYourTurn
			return
		}
		s.RotateCue(dir, dt)
		angle = s.cue.Angle
	}); derr != nil {
		return 0, derr
	}
	return angle, err
}

// Reset reracks the match.
func (m *Match) Reset(ctx context.Context) error {
	return m.Do(ctx, func(s *Simulation) { s.ResetMatch() })
}

// Snapshot reads the current match view.
func (m *Match) Snapshot(ctx context.Context) (MatchSnapshot, error) {
	var snap MatchSnapshot
	err := m.Do(ctx, func(s *Simulation) { snap = s.Snapshot() })
	return snap, err
}

// Aim computes the aim preview for the current cue angle.
func (m *Match) Aim(ctx context.Context) (AimPreview, bool, error) {
	var (
		p  AimPreview
		ok bool
	)
	err := m.Do(ctx, func(s *Simulation) { p, ok = s.AimPreview() })
	return p, ok, err
}

// Config reads the match's physics tuning.
func (m *Match) Config(ctx context.Context) (Config, error) {
	var cfg Config
	err := m.Do(ctx, func(s *Simulation) { cfg = s.Config() })
	return cfg, err
}

// ApplyConfig hot-applies u and returns the resulting tuning.
func (m *Match) ApplyConfig(ctx context.Context, u ConfigUpdate) (Config, error) {
	var cfg Config
	err := m.Do(ctx, func(s *Simulation) {
		s.ApplyConfig(u)
		cfg = s.Config()
	})
	return cfg, err
}
