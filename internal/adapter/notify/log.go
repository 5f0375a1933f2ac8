package notify

import (
	"context"
	"log"

	"qloan-backend/internal/domain/notify"
)

// LogSink is the dev/test sink: events go to the process log.
type LogSink struct{}

func (LogSink) Publish(_ context.Context, partyID string, event notify.Event, payload map[string]any) {
	log.Printf("notify: %s party=%s payload=%v", event, partyID, payload)
}
