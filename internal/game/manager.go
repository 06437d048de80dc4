package game

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/billiards/internal/config"
	"github.com/playmatatu/billiards/internal/models"
	"github.com/redis/go-redis/v9"
)

// MatchEventsChannel is the Redis pub/sub channel rule events fan out on.
const MatchEventsChannel = "match_events"

// FrameSink delivers match output to connected clients.
type FrameSink interface {
	PublishFrame(matchID string, f Frame)
	PublishEvents(matchID string, events []Event)
}

// EventEnvelope is the pub/sub payload on MatchEventsChannel.
type EventEnvelope struct {
	MatchID string  `json:"match_id"`
	Events  []Event `json:"events"`
}

// Match is one hosted match.
type Match struct {
	ID        string
	CreatedAt time.Time
	runner    *Runner
	cancel    context.CancelFunc
}

// Do runs fn against the match's simulation on its runner goroutine.
func (m *Match) Do(ctx context.Context, fn func(*Simulation)) error {
	if err := m.runner.Do(ctx, fn); err != nil {
		return fmt.Errorf("match %s: %w", m.ID, err)
	}
	return nil
}

// IdleFor is the time since a player last sent a command.
func (m *Match) IdleFor() time.Duration {
	return m.runner.IdleFor()
}

// MatchManager owns every live match plus the optional stores that follow
// their outcomes. db and rdb may be nil.
type MatchManager struct {
	matches map[string]*Match
	db      *sqlx.DB
	rdb     *redis.Client
	config  *config.Config
	physics Config
	sink    FrameSink
	ctx     context.Context
	mu      sync.RWMutex
}

// NewMatchManager creates a manager whose runners live until ctx is cancelled.
func NewMatchManager(ctx context.Context, db *sqlx.DB, rdb *redis.Client, cfg *config.Config, sink FrameSink) *MatchManager {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if db == nil {
		log.Println("[MATCH] No database configured; match results will not be recorded")
	}
	if rdb == nil {
		log.Println("[MATCH] No Redis configured; snapshots not cached, events delivered locally")
	}
	return &MatchManager{
		matches: make(map[string]*Match),
		db:      db,
		rdb:     rdb,
		config:  cfg,
		physics: PhysicsFromConfig(cfg),
		sink:    sink,
		ctx:     ctx,
	}
}

// generateToken generates a secure random token. Match IDs bind seat
// tokens, so a failed read must never yield zero bytes.
func generateToken(length int) string {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		panic("crypto/rand: " + err.Error())
	}
	return hex.EncodeToString(bytes)
}

func generateMatchID() string {
	return "match_" + generateToken(8)
}

// CreateMatch racks a new match and starts its runner.
func (gm *MatchManager) CreateMatch() *Match {
	id := generateMatchID()
	sim := NewSimulation(gm.physics)
	runner := NewRunner(id, sim, gm.config.TickRate, gm.sink, gm.handleEvents)

	ctx, cancel := context.WithCancel(gm.ctx)
	m := &Match{ID: id, CreatedAt: time.Now(), runner: runner, cancel: cancel}

	gm.mu.Lock()
	gm.matches[id] = m
	gm.mu.Unlock()

	go runner.Run(ctx)
	log.Printf("[MATCH] Created match %s", id)
	return m
}

// GetMatch looks up a live match.
func (gm *MatchManager) GetMatch(id string) (*Match, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	m, ok := gm.matches[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	return m, nil
}

// RemoveMatch stops a match's runner and forgets it.
func (gm *MatchManager) RemoveMatch(id string) error {
	gm.mu.Lock()
	m, ok := gm.matches[id]
	delete(gm.matches, id)
	gm.mu.Unlock()

	if !ok {
		return ErrMatchNotFound
	}
	m.cancel()
	log.Printf("[MATCH] Removed match %s", id)
	return nil
}

// ActiveMatchCount returns the number of live matches.
func (gm *MatchManager) ActiveMatchCount() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.matches)
}

// StartIdleReaper removes matches nobody has touched for MatchIdleMinutes.
func (gm *MatchManager) StartIdleReaper(ctx context.Context, interval time.Duration) {
	if gm.config.MatchIdleMinutes <= 0 {
		log.Println("[REAPER] MATCH_IDLE_MINUTES not set; idle reaper not started")
		return
	}
	maxIdle := time.Duration(gm.config.MatchIdleMinutes) * time.Minute

	log.Println("[REAPER] Idle reaper started")
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[REAPER] Idle reaper stopping")
				return
			case <-ticker.C:
				for _, id := range gm.idleMatches(maxIdle) {
					log.Printf("[REAPER] Match %s idle for over %s", id, maxIdle)
					gm.RemoveMatch(id)
				}
			}
		}
	}()
}

func (gm *MatchManager) idleMatches(maxIdle time.Duration) []string {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	var ids []string
	for id, m := range gm.matches {
		if m.IdleFor() > maxIdle {
			ids = append(ids, id)
		}
	}
	return ids
}

// handleEvents runs on a runner goroutine; anything that touches the
// network is handed off.
func (gm *MatchManager) handleEvents(matchID string, events []Event, snap MatchSnapshot) {
	cache := false
	for _, e := range events {
		if e.IsTurnEnd() || e.Type == EventMatchReset {
			cache = true
		}
		if e.IsMatchOver() {
			go gm.recordResult(matchID, e)
		}
	}
	if cache {
		go gm.cacheSnapshot(matchID, snap)
	}
	gm.publishEvents(matchID, events)
}

// publishEvents fans out through Redis when configured so every server
// instance's hub sees them; otherwise straight to the local sink.
func (gm *MatchManager) publishEvents(matchID string, events []Event) {
	if gm.rdb == nil {
		if gm.sink != nil {
			gm.sink.PublishEvents(matchID, events)
		}
		return
	}

	payload, err := json.Marshal(EventEnvelope{MatchID: matchID, Events: events})
	if err != nil {
		log.Printf("[REDIS] Failed to marshal events for match %s: %v", matchID, err)
		return
	}
	go func() {
		if err := gm.rdb.Publish(context.Background(), MatchEventsChannel, payload).Err(); err != nil {
			log.Printf("[REDIS] Publish to %s failed for match %s: %v", MatchEventsChannel, matchID, err)
		}
	}()
}

// cacheSnapshot saves the latest resting snapshot to Redis.
func (gm *MatchManager) cacheSnapshot(matchID string, snap MatchSnapshot) {
	if gm.rdb == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		log.Printf("[REDIS] Failed to marshal snapshot for match %s: %v", matchID, err)
		return
	}
	key := "match:" + matchID + ":state"
	if err := gm.rdb.SetEx(context.Background(), key, data, time.Hour).Err(); err != nil {
		log.Printf("[REDIS] Failed to cache snapshot for match %s: %v", matchID, err)
	}
}

// CachedSnapshot reads the last cached snapshot of a match.
func (gm *MatchManager) CachedSnapshot(ctx context.Context, matchID string) (*MatchSnapshot, error) {
	if gm.rdb == nil {
		return nil, ErrMatchNotFound
	}
	data, err := gm.rdb.Get(ctx, "match:"+matchID+":state").Bytes()
	if err == redis.Nil {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read cached snapshot: %w", err)
	}
	var snap MatchSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode cached snapshot: %w", err)
	}
	return &snap, nil
}

// recordResult writes a finished match to match_results.
func (gm *MatchManager) recordResult(matchID string, e Event) {
	if gm.db == nil {
		return
	}
	r := resultFromEvent(matchID, e)
	_, err := gm.db.NamedExec(
		`INSERT INTO match_results (match_id, winner_seat, loser_seat, outcome, winner_team, player1_score, player2_score, shots, created_at)
		 VALUES (:match_id, :winner_seat, :loser_seat, :outcome, :winner_team, :player1_score, :player2_score, :shots, NOW())`,
		r,
	)
	if err != nil {
		log.Printf("[DB] Failed to record result for match %s: %v", matchID, err)
		return
	}
	log.Printf("[DB] Recorded result for match %s: seat %d wins (%s)", matchID, r.WinnerSeat, r.Outcome)
}

func resultFromEvent(matchID string, e Event) models.MatchResult {
	r := models.MatchResult{
		MatchID:      matchID,
		Player1Score: e.Scores[0],
		Player2Score: e.Scores[1],
		Shots:        e.Shot,
	}
	if e.Type == EventMatchWon {
		r.WinnerSeat = e.Player
		r.LoserSeat = opponent(e.Player)
		r.Outcome = models.OutcomeCleared
		r.WinnerTeam = string(e.Team)
	} else {
		r.WinnerSeat = opponent(e.Player)
		r.LoserSeat = e.Player
		r.Outcome = models.OutcomeEarlyBlack
		r.WinnerTeam = string(e.Team.Opposite())
	}
	return r
}
