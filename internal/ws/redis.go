package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/playmatatu/billiards/internal/game"
	"github.com/redis/go-redis/v9"
)

var rdbClient *redis.Client

func SetRedisClient(r *redis.Client) {
	rdbClient = r
}

// StartMatchEventSubscriber relays rule events published on
// game.MatchEventsChannel (by this or any other instance) to the hub.
func StartMatchEventSubscriber(ctx context.Context, hub *Hub) {
	if rdbClient == nil {
		log.Println("[WS] Redis client not set; match event subscriber not started")
		return
	}

	pubsub := rdbClient.Subscribe(ctx, game.MatchEventsChannel)
	ch := pubsub.Channel()
	go func() {
		<-ctx.Done()
		pubsub.Close()
	}()
	go func() {
		log.Printf("[WS] %s subscriber started", game.MatchEventsChannel)
		for msg := range ch {
			relayEnvelope(hub, msg.Payload)
		}
		log.Printf("[WS] %s subscriber stopped", game.MatchEventsChannel)
	}()
}

func relayEnvelope(hub *Hub, payload string) {
	var env game.EventEnvelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		log.Printf("[WS] invalid event payload: %v", err)
		return
	}
	if env.MatchID == "" {
		log.Printf("[WS] event payload without match_id dropped")
		return
	}
	if hub.RoomSize(env.MatchID) == 0 {
		return
	}
	hub.PublishEvents(env.MatchID, env.Events)
}
