package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"DATABASE_URL", "REDIS_URL", "TICK_RATE", "SHOT_FORCE", "MIGRATE_ON_START"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.DatabaseURL != "" || cfg.RedisURL != "" {
		t.Fatalf("expected storage disabled by default, got db=%q redis=%q", cfg.DatabaseURL, cfg.RedisURL)
	}
	if cfg.TickRate != 60 {
		t.Fatalf("expected tick rate 60, got %d", cfg.TickRate)
	}
	if cfg.ShotForce != 0.8 {
		t.Fatalf("expected shot force 0.8, got %v", cfg.ShotForce)
	}
	if !cfg.MigrateOnStart {
		t.Fatalf("expected migrations on start by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TICK_RATE", "120")
	t.Setenv("SHOT_FORCE", "1.25")
	t.Setenv("BALL_SPACING", "1.1")
	t.Setenv("MIGRATE_ON_START", "false")
	t.Setenv("PHYSICS_SUBSTEPS", "not-a-number")

	cfg := Load()
	if cfg.TickRate != 120 {
		t.Fatalf("expected 120, got %d", cfg.TickRate)
	}
	if cfg.ShotForce != 1.25 {
		t.Fatalf("expected 1.25, got %v", cfg.ShotForce)
	}
	if cfg.BallSpacing != 1.1 {
		t.Fatalf("expected 1.1, got %v", cfg.BallSpacing)
	}
	if cfg.MigrateOnStart {
		t.Fatalf("expected MIGRATE_ON_START=false to be honored")
	}
	if cfg.PhysicsSubSteps != 6 {
		t.Fatalf("expected invalid int to fall back to 6, got %d", cfg.PhysicsSubSteps)
	}
}
