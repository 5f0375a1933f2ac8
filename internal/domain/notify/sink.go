package notify

import "context"

type Event string

const (
	EventOrderMatched  Event = "order_matched"
	EventOrderFunded   Event = "order_funded"
	EventScheduleReady Event = "schedule_ready"
	EventRatingChanged Event = "rating_changed"
)

// Sink receives domain notifications. Delivery is fire-and-forget: errors are
// the sink's problem and never roll back domain state.
type Sink interface {
	Publish(ctx context.Context, partyID string, event Event, payload map[string]any)
}
