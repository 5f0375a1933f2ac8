package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	domainNotify "qloan-backend/internal/domain/notify"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisSink_PublishesOnPartyChannel(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	const party = "11111111111111111111111111111111"

	sub := rdb.Subscribe(ctx, channelPrefix+party)
	t.Cleanup(func() { _ = sub.Close() })
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	sink := NewRedisSink(rdb)
	sink.Publish(ctx, party, domainNotify.EventOrderMatched, map[string]any{"order_id": "abc"})

	select {
	case msg := <-sub.Channel():
		var got struct {
			Event   string         `json:"event"`
			Payload map[string]any `json:"payload"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &got); err != nil {
			t.Fatalf("bad json: %v", err)
		}
		if got.Event != string(domainNotify.EventOrderMatched) {
			t.Fatalf("event = %s", got.Event)
		}
		if got.Payload["order_id"] != "abc" {
			t.Fatalf("payload = %v", got.Payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
}

func TestRedisSink_FailureDoesNotPanic(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}) // nothing listening
	t.Cleanup(func() { _ = rdb.Close() })

	sink := NewRedisSink(rdb)
	// fire-and-forget: a dead broker must not take the caller down
	sink.Publish(context.Background(), "party", domainNotify.EventOrderFunded, nil)
}
