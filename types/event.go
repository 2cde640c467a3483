package types

import "time"

const (
	EventKindAward    = "award"
	EventKindDeduct   = "deduct"
	EventKindDailyLog = "daily_log"
)

// EngagementEvent 协作方通过 MQ 投递的事件，至少一次送达
type EngagementEvent struct {
	EventID    string          `json:"event_id"`
	Kind       string          `json:"kind"`
	UserID     string          `json:"user_id"`
	Action     string          `json:"action,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    DailyLogPayload `json:"payload"`
}
