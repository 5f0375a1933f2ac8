package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"qloan-backend/internal/domain/notify"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "qloan:notify:"

// RedisSink publishes events on a per-party pub/sub channel. Failures are
// logged and dropped; domain state never depends on delivery.
type RedisSink struct{ rdb *redis.Client }

func NewRedisSink(rdb *redis.Client) *RedisSink { return &RedisSink{rdb: rdb} }

func (s *RedisSink) Publish(ctx context.Context, partyID string, event notify.Event, payload map[string]any) {
	msg, err := json.Marshal(map[string]any{
		"event":   string(event),
		"payload": payload,
		"at":      time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		log.Printf("notify: marshal %s for %s: %v", event, partyID, err)
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := s.rdb.Publish(pctx, channelPrefix+partyID, msg).Err(); err != nil {
		log.Printf("notify: publish %s for %s: %v", event, partyID, err)
	}
}
